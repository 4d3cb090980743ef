// Package parser implements the .vd scene description parser: a
// line-oriented reader for point and line declarations, the label table
// used to resolve line endpoint references, and the per-session scene
// store the API queries.
package parser

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/scene-viewer/backend/internal/models"
)

// DefaultMaxElements bounds points and lines per scene unless the
// configuration overrides it.
const DefaultMaxElements = 500

// VDParser parses .vd scene descriptions.
//
// Format, one declaration per physical line:
//
//	# comment
//	point(x, y, label)
//	line(label1, label2)
//
// Labels are bare tokens: trimmed of surrounding whitespace, no quoting.
// A line declaration may reference a point declared later in the file;
// the parser makes two passes so declaration order never matters.
type VDParser struct {
	maxElements int
}

// NewVDParser creates a parser with the default element limit.
func NewVDParser() *VDParser {
	return NewVDParserWithLimit(DefaultMaxElements)
}

// NewVDParserWithLimit creates a parser bounding points and lines each
// to limit declarations.
func NewVDParserWithLimit(limit int) *VDParser {
	if limit < 1 {
		limit = DefaultMaxElements
	}
	return &VDParser{maxElements: limit}
}

// MaxElements returns the configured per-kind element limit.
func (p *VDParser) MaxElements() int {
	return p.maxElements
}

// ParseSceneFile reads and parses a scene description file. A read
// failure is the only hard error; everything else is a diagnostic.
func (p *VDParser) ParseSceneFile(filePath string) (*models.Scene, []models.Diagnostic, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading scene description %s: %w", filePath, err)
	}
	scene, diags := p.ParseScene(string(data))
	return scene, diags, nil
}

// ParseScene parses a scene description already materialized as text.
// It always completes: malformed declarations, unresolved references and
// over-capacity declarations are recorded as diagnostics and skipped,
// never raised. The returned scene holds points and resolved lines in
// declaration order.
func (p *VDParser) ParseScene(text string) (*models.Scene, []models.Diagnostic) {
	lines := splitLines(text)

	scene := models.NewScene()
	diags := make([]models.Diagnostic, 0)
	table := NewLabelTable(p.maxElements)

	// Pass 1: collect points and fill the label table.
	for i, raw := range lines {
		lineNum := i + 1
		kind, params, ok := classify(raw)
		if kind != declPoint {
			continue
		}
		if !ok {
			diags = append(diags, models.Diagnostic{
				Kind: models.DiagMalformed, Line: lineNum, Content: raw,
				Reason: "missing closing parenthesis in point declaration",
			})
			continue
		}

		pt, diag := parsePointParams(params, lineNum, raw)
		if diag != nil {
			diags = append(diags, *diag)
			continue
		}

		if len(scene.Points) >= p.maxElements {
			diags = append(diags, models.Diagnostic{
				Kind: models.DiagCapacity, Line: lineNum, Content: raw, Label: pt.Label,
				Reason: fmt.Sprintf("maximum of %d points exceeded", p.maxElements),
			})
			continue
		}

		if err := table.Insert(pt.Label, pt); err != nil {
			if err == ErrDuplicateLabel {
				diags = append(diags, models.Diagnostic{
					Kind: models.DiagDuplicateLabel, Line: lineNum, Content: raw, Label: pt.Label,
					Reason: fmt.Sprintf("label %q already declared", pt.Label),
				})
			} else {
				diags = append(diags, models.Diagnostic{
					Kind: models.DiagCapacity, Line: lineNum, Content: raw, Label: pt.Label,
					Reason: "label table full",
				})
			}
			continue
		}
		scene.Points = append(scene.Points, pt)
	}

	// Pass 2: a fresh scan for line declarations, resolved against the
	// now-complete table.
	for i, raw := range lines {
		lineNum := i + 1
		kind, params, ok := classify(raw)
		switch kind {
		case declPoint:
			continue
		case declNone:
			if !isIgnorable(raw) {
				diags = append(diags, models.Diagnostic{
					Kind: models.DiagUnrecognized, Line: lineNum, Content: raw,
					Reason: "unrecognized declaration",
				})
			}
			continue
		}
		if !ok {
			diags = append(diags, models.Diagnostic{
				Kind: models.DiagMalformed, Line: lineNum, Content: raw,
				Reason: "missing closing parenthesis in line declaration",
			})
			continue
		}

		label1, label2, diag := parseLineParams(params, lineNum, raw)
		if diag != nil {
			diags = append(diags, *diag)
			continue
		}

		p1, ok1 := table.Get(label1)
		p2, ok2 := table.Get(label2)
		if !ok1 {
			diags = append(diags, models.Diagnostic{
				Kind: models.DiagUnresolved, Line: lineNum, Content: raw, Label: label1,
				Reason: fmt.Sprintf("no point declared with label %q", label1),
			})
		}
		if !ok2 {
			diags = append(diags, models.Diagnostic{
				Kind: models.DiagUnresolved, Line: lineNum, Content: raw, Label: label2,
				Reason: fmt.Sprintf("no point declared with label %q", label2),
			})
		}
		if !ok1 || !ok2 {
			continue
		}

		if len(scene.Lines) >= p.maxElements {
			diags = append(diags, models.Diagnostic{
				Kind: models.DiagCapacity, Line: lineNum, Content: raw,
				Reason: fmt.Sprintf("maximum of %d lines exceeded", p.maxElements),
			})
			continue
		}

		// Endpoint coordinates are copied by value; the resolved line is
		// independent of the table from here on.
		scene.Lines = append(scene.Lines, models.ResolvedLine{
			X1: p1.X, Y1: p1.Y, X2: p2.X, Y2: p2.Y,
		})
	}

	return scene, diags
}

type declKind int

const (
	declNone declKind = iota
	declPoint
	declLine
)

// classify locates a point( or line( call on the raw line and extracts
// the parameter text up to the closing parenthesis. ok is false when the
// call has no closing parenthesis.
func classify(raw string) (kind declKind, params string, ok bool) {
	if idx := strings.Index(raw, "point("); idx >= 0 {
		rest := raw[idx+len("point("):]
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return declPoint, "", false
		}
		return declPoint, rest[:end], true
	}
	if idx := strings.Index(raw, "line("); idx >= 0 {
		rest := raw[idx+len("line("):]
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return declLine, "", false
		}
		return declLine, rest[:end], true
	}
	return declNone, "", false
}

// isIgnorable reports whether a raw line is blank or a comment.
func isIgnorable(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed == "" || trimmed[0] == '#'
}

// parsePointParams parses "x, y, label". The label is everything after
// the second comma, trimmed; it must be non-empty.
func parsePointParams(params string, lineNum int, raw string) (models.PointDecl, *models.Diagnostic) {
	fields := strings.SplitN(params, ",", 3)
	if len(fields) != 3 {
		return models.PointDecl{}, &models.Diagnostic{
			Kind: models.DiagMalformed, Line: lineNum, Content: raw,
			Reason: fmt.Sprintf("point declaration needs 3 fields, got %d", len(fields)),
		}
	}

	x, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return models.PointDecl{}, &models.Diagnostic{
			Kind: models.DiagMalformed, Line: lineNum, Content: raw,
			Reason: fmt.Sprintf("invalid x coordinate %q", strings.TrimSpace(fields[0])),
		}
	}
	y, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return models.PointDecl{}, &models.Diagnostic{
			Kind: models.DiagMalformed, Line: lineNum, Content: raw,
			Reason: fmt.Sprintf("invalid y coordinate %q", strings.TrimSpace(fields[1])),
		}
	}

	label := strings.TrimSpace(fields[2])
	if label == "" {
		return models.PointDecl{}, &models.Diagnostic{
			Kind: models.DiagMalformed, Line: lineNum, Content: raw,
			Reason: "missing label",
		}
	}

	return models.PointDecl{X: x, Y: y, Label: label}, nil
}

// parseLineParams parses "label1, label2": exactly two fields, both
// non-empty after trimming.
func parseLineParams(params string, lineNum int, raw string) (string, string, *models.Diagnostic) {
	fields := strings.Split(params, ",")
	if len(fields) != 2 {
		return "", "", &models.Diagnostic{
			Kind: models.DiagMalformed, Line: lineNum, Content: raw,
			Reason: fmt.Sprintf("line declaration needs 2 labels, got %d fields", len(fields)),
		}
	}

	label1 := strings.TrimSpace(fields[0])
	label2 := strings.TrimSpace(fields[1])
	if label1 == "" || label2 == "" {
		return "", "", &models.Diagnostic{
			Kind: models.DiagMalformed, Line: lineNum, Content: raw,
			Reason: "line declaration with empty label",
		}
	}

	return label1, label2, nil
}

// splitLines splits input into physical lines without the trailing
// newline, tolerating CRLF endings. The input is never mutated; both
// passes scan the same slice.
func splitLines(text string) []string {
	lines := make([]string, 0, 64)
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}
