package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scene-viewer/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSceneBasic(t *testing.T) {
	p := NewVDParser()
	scene, diags := p.ParseScene("point(10,20,A)\npoint(30,40,B)\nline(A,B)\n")

	require.Empty(t, diags)
	require.Equal(t, []models.PointDecl{
		{X: 10, Y: 20, Label: "A"},
		{X: 30, Y: 40, Label: "B"},
	}, scene.Points)
	require.Equal(t, []models.ResolvedLine{
		{X1: 10, Y1: 20, X2: 30, Y2: 40},
	}, scene.Lines)
}

func TestParseSceneForwardReference(t *testing.T) {
	// A line may reference a point declared later in the file.
	p := NewVDParser()
	scene, diags := p.ParseScene("line(A,B)\npoint(10,20,A)\npoint(30,40,B)\n")

	require.Empty(t, diags)
	require.Len(t, scene.Lines, 1)
	assert.Equal(t, models.ResolvedLine{X1: 10, Y1: 20, X2: 30, Y2: 40}, scene.Lines[0])
}

func TestParseSceneOrderIndependence(t *testing.T) {
	p := NewVDParser()
	before, beforeDiags := p.ParseScene("point(1,2,A)\nline(A,B)\npoint(3,4,B)\n")
	after, afterDiags := p.ParseScene("point(1,2,A)\npoint(3,4,B)\nline(A,B)\n")

	assert.Equal(t, before, after)
	assert.Equal(t, beforeDiags, afterDiags)
}

func TestParseSceneCommentsAndBlankLines(t *testing.T) {
	p := NewVDParser()
	input := "# heading comment\n\n   \npoint(5, 6, P)\n# trailing comment\n"
	scene, diags := p.ParseScene(input)

	assert.Empty(t, diags)
	require.Len(t, scene.Points, 1)
	assert.Equal(t, models.PointDecl{X: 5, Y: 6, Label: "P"}, scene.Points[0])
}

func TestParseSceneWhitespaceTrimming(t *testing.T) {
	p := NewVDParser()
	scene, diags := p.ParseScene("point(  7 ,  8 ,   anchor point  )\npoint(1,1,b)\nline( anchor point , b )\n")

	require.Empty(t, diags)
	require.Len(t, scene.Points, 2)
	assert.Equal(t, "anchor point", scene.Points[0].Label)
	require.Len(t, scene.Lines, 1)
	assert.Equal(t, models.ResolvedLine{X1: 7, Y1: 8, X2: 1, Y2: 1}, scene.Lines[0])
}

func TestParseSceneUnresolvedReference(t *testing.T) {
	p := NewVDParser()
	scene, diags := p.ParseScene("point(1,2,A)\nline(A,Ghost)\n")

	assert.Empty(t, scene.Lines)
	require.Len(t, diags, 1)
	assert.Equal(t, models.DiagUnresolved, diags[0].Kind)
	assert.Equal(t, "Ghost", diags[0].Label)
}

func TestParseSceneBothLabelsUnresolved(t *testing.T) {
	// One diagnostic per missing label.
	p := NewVDParser()
	scene, diags := p.ParseScene("line(X,Y)\n")

	assert.Empty(t, scene.Points)
	assert.Empty(t, scene.Lines)
	require.Len(t, diags, 2)
	assert.Equal(t, models.DiagUnresolved, diags[0].Kind)
	assert.Equal(t, "X", diags[0].Label)
	assert.Equal(t, models.DiagUnresolved, diags[1].Kind)
	assert.Equal(t, "Y", diags[1].Label)
}

func TestParseSceneMalformedDeclarations(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"missing label", "point(1,2)"},
		{"non-integer x", "point(a,2,L)"},
		{"non-integer y", "point(1,b,L)"},
		{"empty label", "point(1,2,   )"},
		{"missing second label", "line(L1)"},
		{"empty line label", "line(L1,  )"},
		{"unclosed point call", "point(1,2,L"},
		{"unclosed line call", "line(A,B"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewVDParser()
			scene, diags := p.ParseScene(tc.input + "\n")

			assert.Empty(t, scene.Points)
			assert.Empty(t, scene.Lines)
			require.Len(t, diags, 1)
			assert.Equal(t, models.DiagMalformed, diags[0].Kind)
			assert.Equal(t, 1, diags[0].Line)
		})
	}
}

func TestParseSceneUnrecognizedDeclaration(t *testing.T) {
	p := NewVDParser()
	scene, diags := p.ParseScene("circle(1,2,3)\npoint(1,2,A)\n")

	require.Len(t, scene.Points, 1)
	require.Len(t, diags, 1)
	assert.Equal(t, models.DiagUnrecognized, diags[0].Kind)
	assert.Equal(t, "circle(1,2,3)", diags[0].Content)
}

func TestParseSceneDuplicateLabel(t *testing.T) {
	p := NewVDParser()
	scene, diags := p.ParseScene("point(1,2,A)\npoint(9,9,A)\nline(A,A)\n")

	// First declaration wins; the duplicate is dropped with a diagnostic.
	require.Len(t, scene.Points, 1)
	assert.Equal(t, models.PointDecl{X: 1, Y: 2, Label: "A"}, scene.Points[0])
	require.Len(t, scene.Lines, 1)
	assert.Equal(t, models.ResolvedLine{X1: 1, Y1: 2, X2: 1, Y2: 2}, scene.Lines[0])

	require.Len(t, diags, 1)
	assert.Equal(t, models.DiagDuplicateLabel, diags[0].Kind)
	assert.Equal(t, "A", diags[0].Label)
}

func TestParseSceneNegativeCoordinates(t *testing.T) {
	p := NewVDParser()
	scene, diags := p.ParseScene("point(-10,-20,origin)\npoint(0,+5,up)\nline(origin,up)\n")

	require.Empty(t, diags)
	assert.Equal(t, models.PointDecl{X: -10, Y: -20, Label: "origin"}, scene.Points[0])
	assert.Equal(t, models.PointDecl{X: 0, Y: 5, Label: "up"}, scene.Points[1])
}

func TestParseScenePointCapacity(t *testing.T) {
	limit := 3
	p := NewVDParserWithLimit(limit)

	var b strings.Builder
	for i := 0; i < limit+2; i++ {
		fmt.Fprintf(&b, "point(%d,%d,P%d)\n", i, i, i)
	}
	scene, diags := p.ParseScene(b.String())

	require.Len(t, scene.Points, limit)
	for i := 0; i < limit; i++ {
		assert.Equal(t, fmt.Sprintf("P%d", i), scene.Points[i].Label)
	}

	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, models.DiagCapacity, d.Kind)
	}
}

func TestParseSceneLineCapacity(t *testing.T) {
	p := NewVDParserWithLimit(2)

	input := "point(0,0,A)\npoint(1,1,B)\n" + strings.Repeat("line(A,B)\n", 4)
	scene, diags := p.ParseScene(input)

	require.Len(t, scene.Lines, 2)
	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, models.DiagCapacity, d.Kind)
	}
}

func TestParseSceneOverCapacityPointNotResolvable(t *testing.T) {
	// A point dropped for capacity must not resolve line references.
	p := NewVDParserWithLimit(1)
	scene, diags := p.ParseScene("point(0,0,A)\npoint(1,1,B)\nline(A,B)\n")

	require.Len(t, scene.Points, 1)
	assert.Empty(t, scene.Lines)

	require.Len(t, diags, 2)
	assert.Equal(t, models.DiagCapacity, diags[0].Kind)
	assert.Equal(t, models.DiagUnresolved, diags[1].Kind)
	assert.Equal(t, "B", diags[1].Label)
}

func TestParseSceneIdempotent(t *testing.T) {
	input := "point(10,20,A)\nbogus here\npoint(30,40,B)\nline(A,B)\nline(A,C)\n"
	p := NewVDParser()

	scene1, diags1 := p.ParseScene(input)
	scene2, diags2 := p.ParseScene(input)

	assert.Equal(t, scene1, scene2)
	assert.Equal(t, diags1, diags2)
}

func TestParseSceneCRLF(t *testing.T) {
	p := NewVDParser()
	scene, diags := p.ParseScene("point(1,2,A)\r\npoint(3,4,B)\r\nline(A,B)\r\n")

	require.Empty(t, diags)
	require.Len(t, scene.Points, 2)
	require.Len(t, scene.Lines, 1)
}

func TestParseSceneEmptyInput(t *testing.T) {
	p := NewVDParser()
	scene, diags := p.ParseScene("")

	assert.Empty(t, scene.Points)
	assert.Empty(t, scene.Lines)
	assert.Empty(t, diags)
}

func TestParseSceneDiagnosticLineNumbers(t *testing.T) {
	p := NewVDParser()
	_, diags := p.ParseScene("point(1,2,A)\npoint(x,2,B)\n\nline(A,Nope)\n")

	require.Len(t, diags, 2)
	assert.Equal(t, 2, diags[0].Line)
	assert.Equal(t, 4, diags[1].Line)
}

func TestParseSceneFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.vd")
	require.NoError(t, os.WriteFile(path, []byte("point(10,20,A)\npoint(30,40,B)\nline(A,B)\n"), 0644))

	p := NewVDParser()
	scene, diags, err := p.ParseSceneFile(path)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Len(t, scene.Points, 2)
	assert.Len(t, scene.Lines, 1)
}

func TestParseSceneFileMissing(t *testing.T) {
	p := NewVDParser()
	_, _, err := p.ParseSceneFile(filepath.Join(t.TempDir(), "nope.vd"))
	assert.Error(t, err)
}
