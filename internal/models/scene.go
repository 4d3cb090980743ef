// Package models contains domain types for the Scene Viewer backend.
package models

// PointDecl is a labeled point declared in a scene description.
type PointDecl struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label"`
}

// ResolvedLine is a line segment whose endpoint labels were resolved
// to concrete coordinates. Endpoints are copied by value at resolution
// time and never alias the label table.
type ResolvedLine struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Scene is the resolved result of parsing a scene description:
// points and lines in declaration order, ready for a renderer.
// A Scene is immutable once parsing completes.
type Scene struct {
	Points []PointDecl    `json:"points"`
	Lines  []ResolvedLine `json:"lines"`
}

// NewScene creates a new empty Scene.
func NewScene() *Scene {
	return &Scene{
		Points: make([]PointDecl, 0),
		Lines:  make([]ResolvedLine, 0),
	}
}

// Bounds returns the bounding box covering every primitive in the scene.
// ok is false for an empty scene.
func (s *Scene) Bounds() (minX, minY, maxX, maxY int, ok bool) {
	first := true
	grow := func(x, y int) {
		if first {
			minX, maxX = x, x
			minY, maxY = y, y
			first = false
			return
		}
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	for _, p := range s.Points {
		grow(p.X, p.Y)
	}
	for _, l := range s.Lines {
		grow(l.X1, l.Y1)
		grow(l.X2, l.Y2)
	}
	return minX, minY, maxX, maxY, !first
}
