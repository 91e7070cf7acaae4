package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialize(t *testing.T) {
	idx := selectionIndex()
	selected := scores("b1", 0.9, "c1", 0.4)

	bullets, err := Materialize(selected, idx)
	require.NoError(t, err)
	require.Len(t, bullets, 2)

	first := bullets[0]
	assert.Equal(t, "b1", first.Bullet.ID)
	assert.Equal(t, 0.9, first.Score)
	assert.Equal(t, "acme", first.CompanyID)
	assert.Equal(t, "Acme", first.CompanyName)
	assert.Equal(t, "acme-b", first.PositionID)
	assert.Equal(t, "Lead", first.PositionName)
	assert.Equal(t, "2023-01", first.PositionDateStart)

	assert.Equal(t, "initech", bullets[1].CompanyID)
}

func TestMaterialize_UnknownID(t *testing.T) {
	idx := selectionIndex()
	_, err := Materialize(scores("ghost", 0.5), idx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestArrange_GroupsByCompanyRecency(t *testing.T) {
	idx := selectionIndex()
	// Selection order is score-first and interleaves companies.
	bullets, err := Materialize(scores("c1", 0.9, "a1", 0.8, "c2", 0.7, "b1", 0.95), idx)
	require.NoError(t, err)

	Arrange(bullets, idx)

	got := make([]string, len(bullets))
	for i, b := range bullets {
		got[i] = b.Bullet.ID
	}
	// Acme (more recent) first, its bullets by descending score, then initech.
	assert.Equal(t, []string{"b1", "a1", "c1", "c2"}, got)
}
