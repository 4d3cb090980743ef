package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRenderStyle(t *testing.T) {
	yamlDoc := `
default_color: "#112233"
background_color: "#ffffff"
line_thickness: 3
point_radius: 6
font_size: 14
label_colors:
  - pattern: "door-*"
    color: "#ff0000"
  - pattern: "window-*"
    color: "#0000ff"
`
	style, err := ParseRenderStyleFromReader(strings.NewReader(yamlDoc))
	require.NoError(t, err)

	assert.Equal(t, "#112233", style.DefaultColor)
	assert.Equal(t, 3, style.LineThickness)
	assert.Equal(t, 6, style.PointRadius)
	assert.Equal(t, 14, style.FontSize)
	require.Len(t, style.LabelColors, 2)
	assert.Equal(t, "door-*", style.LabelColors[0].Pattern)
}

func TestParseRenderStyleDefaults(t *testing.T) {
	// Partial documents fall back to the viewer defaults.
	style, err := ParseRenderStyleFromReader(strings.NewReader("line_thickness: 2\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, style.LineThickness)
	assert.Equal(t, "#000000", style.DefaultColor)
	assert.Equal(t, "#ffffff", style.BackgroundColor)
	assert.Equal(t, 4, style.PointRadius)
	assert.Equal(t, 12, style.FontSize)
}

func TestParseRenderStyleInvalidYAML(t *testing.T) {
	_, err := ParseRenderStyleFromReader(strings.NewReader(":\n  - ]["))
	assert.Error(t, err)
}

func TestColorForLabel(t *testing.T) {
	style, err := ParseRenderStyleFromReader(strings.NewReader(`
default_color: "#000000"
label_colors:
  - pattern: "door-*"
    color: "#ff0000"
  - pattern: "*-exit"
    color: "#00ff00"
  - pattern: "lobby"
    color: "#123456"
`))
	require.NoError(t, err)

	assert.Equal(t, "#ff0000", ColorForLabel(style, "door-12"))
	assert.Equal(t, "#00ff00", ColorForLabel(style, "north-exit"))
	assert.Equal(t, "#123456", ColorForLabel(style, "lobby"))
	assert.Equal(t, "#000000", ColorForLabel(style, "unmatched"))
	// First match wins.
	assert.Equal(t, "#ff0000", ColorForLabel(style, "door-exit"))
}

func TestMatchPattern(t *testing.T) {
	cases := []struct {
		pattern string
		label   string
		want    bool
	}{
		{"exact", "exact", true},
		{"exact", "exactly", false},
		{"door-*", "door-1", true},
		{"door-*", "door-", true},
		{"door-*", "window-1", false},
		{"*", "anything", true},
		{"a*b*c", "aXbYc", true},
		{"a*b*c", "aXc", false},
		{"", "label", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, matchPattern(tc.pattern, tc.label),
			"pattern=%q label=%q", tc.pattern, tc.label)
	}
}
