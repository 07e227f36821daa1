package floor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/proforma/internal/model"
)

func TestReorder_SwapsWithNeighbor(t *testing.T) {
	t.Parallel()
	s, ledger := newStore(t, -1, 1, 2, 3)
	require.NoError(t, s.Update(2, FieldTemplateID, "podium"))
	id := ledger.Add(model.UnitAllocation{UnitTypeID: "studio", FloorNumber: 2, Count: 4, SquareFootage: 500}, false)
	other := ledger.Add(model.UnitAllocation{UnitTypeID: "studio", FloorNumber: 3, Count: 1, SquareFootage: 500}, false)

	moved, err := s.Reorder(2, DirectionUp)
	require.NoError(t, err)
	assert.True(t, moved)

	assert.Equal(t, []int{-1, 1, 2, 3}, s.Numbers())
	f3, _ := s.Get(3)
	f2, _ := s.Get(2)
	assert.Equal(t, "podium", f3.TemplateID)
	assert.Empty(t, f2.TemplateID)

	a, _ := ledger.Get(id)
	assert.Equal(t, 3, a.FloorNumber)
	b, _ := ledger.Get(other)
	assert.Equal(t, 2, b.FloorNumber)
}

func TestReorder_Down(t *testing.T) {
	t.Parallel()
	s, _ := newStore(t, 1, 2)
	require.NoError(t, s.Update(2, FieldPrimaryUse, "office"))

	moved, err := s.Reorder(2, DirectionDown)
	require.NoError(t, err)
	assert.True(t, moved)
	f1, _ := s.Get(1)
	assert.Equal(t, model.UseOffice, f1.PrimaryUse)
}

func TestReorder_EdgeIsNoop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		floor int
		dir   Direction
	}{
		{"topmost up", 3, DirectionUp},
		{"lowest basement down", -2, DirectionDown},
		{"ground floor cannot drop below ground", 1, DirectionDown},
		{"first basement cannot rise above ground", -1, DirectionUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, _ := newStore(t, -2, -1, 1, 2, 3)
			before := s.List()
			v := s.Version()

			moved, err := s.Reorder(tt.floor, tt.dir)
			require.NoError(t, err)
			assert.False(t, moved)
			assert.Equal(t, before, s.List())
			assert.Equal(t, v, s.Version())
		})
	}
}

func TestReorder_Errors(t *testing.T) {
	t.Parallel()
	s, _ := newStore(t, 1, 2)

	_, err := s.Reorder(5, DirectionUp)
	assert.ErrorIs(t, err, ErrFloorNotFound)

	_, err = s.Reorder(1, Direction("sideways"))
	assert.ErrorIs(t, err, ErrInvalidValue)
}
