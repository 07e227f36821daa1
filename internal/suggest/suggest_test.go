package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/proforma/internal/allocation"
	"github.com/sells-group/proforma/internal/model"
)

func sum(s []Suggestion) int {
	total := 0
	for _, x := range s {
		total += x.Count
	}
	return total
}

func TestAllocations_EvenSpread(t *testing.T) {
	t.Parallel()
	l := allocation.New()

	got := Allocations(l, "1br", 10, []int{1, 2, 3})
	assert.Equal(t, []Suggestion{
		{FloorNumber: 1, Count: 4},
		{FloorNumber: 2, Count: 4},
		{FloorNumber: 3, Count: 2},
	}, got)
	assert.Equal(t, 10, sum(got))
	for _, s := range got {
		assert.LessOrEqual(t, s.Count, 4)
	}
}

func TestAllocations_TrailingFloorsOmitted(t *testing.T) {
	t.Parallel()
	l := allocation.New()

	// ceil(5/4) = 2 → 2, 2, 1, and the fourth floor gets nothing.
	got := Allocations(l, "1br", 5, []int{10, 11, 12, 13})
	assert.Equal(t, []Suggestion{
		{FloorNumber: 10, Count: 2},
		{FloorNumber: 11, Count: 2},
		{FloorNumber: 12, Count: 1},
	}, got)
}

func TestAllocations_AccountsForExistingEverywhere(t *testing.T) {
	t.Parallel()
	l := allocation.New()
	// Floor 9 is not a candidate but still counts toward the target.
	l.Add(model.UnitAllocation{UnitTypeID: "1br", FloorNumber: 9, Count: 4, SquareFootage: 750}, false)

	got := Allocations(l, "1br", 10, []int{1, 2})
	assert.Equal(t, []Suggestion{{FloorNumber: 1, Count: 3}, {FloorNumber: 2, Count: 3}}, got)
}

func TestAllocations_NeverTopsUpOccupiedFloors(t *testing.T) {
	t.Parallel()
	l := allocation.New()
	l.Add(model.UnitAllocation{UnitTypeID: "1br", FloorNumber: 2, Count: 1, SquareFootage: 750}, false)

	got := Allocations(l, "1br", 7, []int{1, 2, 3})
	assert.Equal(t, []Suggestion{{FloorNumber: 1, Count: 3}, {FloorNumber: 3, Count: 3}}, got)
}

func TestAllocations_OtherUnitTypesIgnored(t *testing.T) {
	t.Parallel()
	l := allocation.New()
	l.Add(model.UnitAllocation{UnitTypeID: "2br", FloorNumber: 1, Count: 50, SquareFootage: 1100}, false)

	got := Allocations(l, "1br", 2, []int{1})
	assert.Equal(t, []Suggestion{{FloorNumber: 1, Count: 2}}, got)
}

func TestAllocations_Empty(t *testing.T) {
	t.Parallel()
	l := allocation.New()
	l.Add(model.UnitAllocation{UnitTypeID: "1br", FloorNumber: 1, Count: 10, SquareFootage: 750}, false)

	assert.Empty(t, Allocations(l, "1br", 10, []int{2, 3}), "target met")
	assert.Empty(t, Allocations(l, "1br", 8, []int{2, 3}), "target exceeded")
	assert.Empty(t, Allocations(l, "1br", 12, []int{1}), "only occupied floors")
	assert.Empty(t, Allocations(l, "1br", 12, nil), "no floors")
}

func TestAllocations_DuplicateCandidatesCountOnce(t *testing.T) {
	t.Parallel()
	got := Allocations(allocation.New(), "1br", 4, []int{1, 1, 2})
	assert.Equal(t, []Suggestion{{FloorNumber: 1, Count: 2}, {FloorNumber: 2, Count: 2}}, got)
}
