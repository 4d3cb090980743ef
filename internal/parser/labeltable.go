package parser

import (
	"errors"

	"github.com/scene-viewer/backend/internal/models"
)

var (
	// ErrTableFull is returned when inserting into a label table with no
	// free slot left.
	ErrTableFull = errors.New("label table full")
	// ErrDuplicateLabel is returned when inserting a label that is
	// already present. Labels are unique within a scene.
	ErrDuplicateLabel = errors.New("duplicate label")
)

type labelSlot struct {
	label string
	point models.PointDecl
	used  bool
}

// LabelTable associates point labels with coordinates using open
// addressing with linear probing. The table is local to one parse:
// populated during pass 1, read-only during pass 2, never shared
// across goroutines.
type LabelTable struct {
	slots []labelSlot
	count int
}

// NewLabelTable creates a table sized for up to maxEntries labels.
// Capacity gets headroom over the entry limit so probe sequences stay
// short; an odd slot count avoids degenerate probing on even hashes.
func NewLabelTable(maxEntries int) *LabelTable {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &LabelTable{
		slots: make([]labelSlot, 2*maxEntries+1),
	}
}

// hashLabel is a polynomial rolling hash over the label's bytes.
// Deterministic within a run; no wire format depends on the values.
func hashLabel(label string) uint32 {
	var h uint32
	for i := 0; i < len(label); i++ {
		h = h*31 + uint32(label[i])
	}
	return h
}

// Insert stores label -> point. Duplicate labels are rejected rather
// than overwritten or shadowed; see DESIGN.md for the policy decision.
func (t *LabelTable) Insert(label string, pt models.PointDecl) error {
	if t.count >= len(t.slots) {
		return ErrTableFull
	}

	idx := int(hashLabel(label) % uint32(len(t.slots)))
	// Probes are bounded by capacity so insertion terminates even on an
	// adversarial key set.
	for probes := 0; probes < len(t.slots); probes++ {
		slot := &t.slots[idx]
		if !slot.used {
			slot.label = label
			slot.point = pt
			slot.used = true
			t.count++
			return nil
		}
		if slot.label == label {
			return ErrDuplicateLabel
		}
		idx = (idx + 1) % len(t.slots)
	}
	return ErrTableFull
}

// Get returns the point declared under label. An absent label is not an
// error: callers distinguish "never declared" from internal faults.
func (t *LabelTable) Get(label string) (models.PointDecl, bool) {
	idx := int(hashLabel(label) % uint32(len(t.slots)))
	for probes := 0; probes < len(t.slots); probes++ {
		slot := &t.slots[idx]
		if !slot.used {
			return models.PointDecl{}, false
		}
		if slot.label == label {
			return slot.point, true
		}
		idx = (idx + 1) % len(t.slots)
	}
	return models.PointDecl{}, false
}

// Len returns the number of stored labels.
func (t *LabelTable) Len() int {
	return t.count
}

// Cap returns the slot capacity of the table.
func (t *LabelTable) Cap() int {
	return len(t.slots)
}
