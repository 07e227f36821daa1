package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUseValid(t *testing.T) {
	t.Parallel()

	for _, u := range Uses {
		assert.True(t, u.Valid(), string(u))
	}
	assert.False(t, Use("warehouse").Valid())
	assert.False(t, Use("").Valid())
}

func TestSpaceTypeAllowsSubType(t *testing.T) {
	t.Parallel()

	assert.True(t, SpaceResidential.AllowsSubType("studio"))
	assert.True(t, SpaceResidential.AllowsSubType(""))
	assert.False(t, SpaceResidential.AllowsSubType("storefront"))
	assert.True(t, SpaceRetail.AllowsSubType("storefront"))
	assert.False(t, SpaceType("garage").Valid())
	assert.False(t, SpaceType("garage").AllowsSubType("anything"))
}

func TestFloorConfigurationClone(t *testing.T) {
	t.Parallel()

	orig := FloorConfiguration{
		FloorNumber: 2,
		Spaces:      []SpaceDefinition{{ID: "s1", Name: "Lobby", Type: SpaceCommon}},
	}
	cp := orig.Clone()
	cp.Spaces[0].Name = "Changed"

	assert.Equal(t, "Lobby", orig.Spaces[0].Name)
	assert.Equal(t, 2, cp.FloorNumber)
}

func TestUnitAllocationArea(t *testing.T) {
	t.Parallel()

	a := UnitAllocation{Count: 5, SquareFootage: 100}
	assert.InDelta(t, 500.0, a.Area(), 1e-9)
}

func TestAllocationStatusValid(t *testing.T) {
	t.Parallel()

	assert.True(t, AllocationPlanned.Valid())
	assert.True(t, AllocationDesigned.Valid())
	assert.True(t, AllocationConstructed.Valid())
	assert.False(t, AllocationStatus("demolished").Valid())
}
