package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/scene-viewer/backend/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultRenderStyle mirrors the drawing defaults of the original
// desktop viewer: black strokes on a white background.
func DefaultRenderStyle() *models.RenderStyle {
	return &models.RenderStyle{
		DefaultColor:    "#000000",
		BackgroundColor: "#ffffff",
		LineThickness:   5,
		PointRadius:     4,
		FontSize:        12,
	}
}

// ParseRenderStyle parses a YAML render style file.
func ParseRenderStyle(filePath string) (*models.RenderStyle, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseRenderStyleFromReader(file)
}

// ParseRenderStyleFromReader parses a render style from an io.Reader.
// Zero-valued stroke settings fall back to the defaults so a style file
// may override only the fields it cares about.
func ParseRenderStyleFromReader(r io.Reader) (*models.RenderStyle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var style models.RenderStyle
	if err := yaml.Unmarshal(data, &style); err != nil {
		return nil, fmt.Errorf("parsing render style: %w", err)
	}

	defaults := DefaultRenderStyle()
	if style.DefaultColor == "" {
		style.DefaultColor = defaults.DefaultColor
	}
	if style.BackgroundColor == "" {
		style.BackgroundColor = defaults.BackgroundColor
	}
	if style.LineThickness <= 0 {
		style.LineThickness = defaults.LineThickness
	}
	if style.PointRadius <= 0 {
		style.PointRadius = defaults.PointRadius
	}
	if style.FontSize <= 0 {
		style.FontSize = defaults.FontSize
	}

	return &style, nil
}

// ColorForLabel returns the color a renderer should use for a labeled
// point: the first matching label_colors pattern, else the default.
func ColorForLabel(style *models.RenderStyle, label string) string {
	for _, lc := range style.LabelColors {
		if matchPattern(lc.Pattern, label) {
			return lc.Color
		}
	}
	return style.DefaultColor
}

// matchPattern matches label against a pattern with * wildcards.
func matchPattern(pattern, label string) bool {
	if pattern == "" {
		return false
	}
	if !strings.Contains(pattern, "*") {
		return pattern == label
	}

	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(label, parts[0]) {
		return false
	}
	label = label[len(parts[0]):]

	for i := 1; i < len(parts)-1; i++ {
		idx := strings.Index(label, parts[i])
		if idx < 0 {
			return false
		}
		label = label[idx+len(parts[i]):]
	}

	return strings.HasSuffix(label, parts[len(parts)-1])
}
