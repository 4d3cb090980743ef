package parser

import (
	"fmt"
	"testing"

	"github.com/scene-viewer/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelTableInsertGet(t *testing.T) {
	table := NewLabelTable(10)

	require.NoError(t, table.Insert("A", models.PointDecl{X: 10, Y: 20, Label: "A"}))
	require.NoError(t, table.Insert("B", models.PointDecl{X: 30, Y: 40, Label: "B"}))

	p, ok := table.Get("A")
	require.True(t, ok)
	assert.Equal(t, 10, p.X)
	assert.Equal(t, 20, p.Y)

	p, ok = table.Get("B")
	require.True(t, ok)
	assert.Equal(t, 30, p.X)
	assert.Equal(t, 40, p.Y)

	_, ok = table.Get("missing")
	assert.False(t, ok)
}

func TestLabelTableDuplicateRejected(t *testing.T) {
	table := NewLabelTable(10)

	require.NoError(t, table.Insert("A", models.PointDecl{X: 1, Y: 2, Label: "A"}))
	err := table.Insert("A", models.PointDecl{X: 9, Y: 9, Label: "A"})
	assert.ErrorIs(t, err, ErrDuplicateLabel)

	// The first insertion wins.
	p, ok := table.Get("A")
	require.True(t, ok)
	assert.Equal(t, 1, p.X)
	assert.Equal(t, 2, p.Y)
	assert.Equal(t, 1, table.Len())
}

func TestLabelTableCollisions(t *testing.T) {
	// A small table forces probe chains; every key must stay reachable.
	table := NewLabelTable(50)
	for i := 0; i < 50; i++ {
		label := fmt.Sprintf("label-%d", i)
		require.NoError(t, table.Insert(label, models.PointDecl{X: i, Y: -i, Label: label}))
	}

	for i := 0; i < 50; i++ {
		label := fmt.Sprintf("label-%d", i)
		p, ok := table.Get(label)
		require.True(t, ok, "label %s not found", label)
		assert.Equal(t, i, p.X)
		assert.Equal(t, -i, p.Y)
	}

	_, ok := table.Get("label-50")
	assert.False(t, ok)
}

func TestLabelTableFull(t *testing.T) {
	table := NewLabelTable(1) // 3 slots

	for i := 0; i < table.Cap(); i++ {
		label := fmt.Sprintf("L%d", i)
		require.NoError(t, table.Insert(label, models.PointDecl{Label: label}))
	}

	err := table.Insert("overflow", models.PointDecl{Label: "overflow"})
	assert.ErrorIs(t, err, ErrTableFull)

	// Lookup of an absent key on a full table must still terminate.
	_, ok := table.Get("absent")
	assert.False(t, ok)
}

func TestHashLabelDeterministic(t *testing.T) {
	assert.Equal(t, hashLabel("anchor"), hashLabel("anchor"))
	assert.NotEqual(t, hashLabel("A"), hashLabel("B"))
}
