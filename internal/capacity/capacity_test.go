package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/proforma/internal/model"
)

type lookup map[string]model.FloorPlateTemplate

func (l lookup) Get(id string) (model.FloorPlateTemplate, bool) {
	t, ok := l[id]
	return t, ok
}

func testTemplates() lookup {
	return lookup{
		"tower": {ID: "tower", Name: "Tower", GrossArea: 10000, FloorToFloorHeight: 12, EfficiencyFactor: 85, PrimaryUse: model.UseResidential},
	}
}

func TestGrossArea(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		floor model.FloorConfiguration
		want  float64
	}{
		{
			name:  "custom wins over template",
			floor: model.FloorConfiguration{TemplateID: "tower", CustomSquareFootage: "12000"},
			want:  12000,
		},
		{
			name:  "template when custom blank",
			floor: model.FloorConfiguration{TemplateID: "tower"},
			want:  10000,
		},
		{
			name:  "template when custom zero",
			floor: model.FloorConfiguration{TemplateID: "tower", CustomSquareFootage: "0"},
			want:  10000,
		},
		{
			name:  "template when custom unparseable",
			floor: model.FloorConfiguration{TemplateID: "tower", CustomSquareFootage: "big"},
			want:  10000,
		},
		{
			name:  "template when custom not finite",
			floor: model.FloorConfiguration{TemplateID: "tower", CustomSquareFootage: "Inf"},
			want:  10000,
		},
		{
			name:  "dangling template is zero",
			floor: model.FloorConfiguration{TemplateID: "deleted"},
			want:  0,
		},
		{
			name:  "nothing set is zero",
			floor: model.FloorConfiguration{},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, GrossArea(tt.floor, testTemplates()), 1e-9)
		})
	}
}

func TestGrossArea_NilLookup(t *testing.T) {
	t.Parallel()
	assert.Zero(t, GrossArea(model.FloorConfiguration{TemplateID: "tower"}, nil))
}

func TestNetArea(t *testing.T) {
	t.Parallel()

	floor := model.FloorConfiguration{TemplateID: "tower", EfficiencyFactor: "85"}
	assert.InDelta(t, 8500.0, NetArea(floor, testTemplates()), 1e-9)

	// Template efficiency is not an engine default.
	floor.EfficiencyFactor = ""
	assert.Zero(t, NetArea(floor, testTemplates()))

	floor.EfficiencyFactor = "n/a"
	assert.Zero(t, NetArea(floor, testTemplates()))
}

func TestUseSplit(t *testing.T) {
	t.Parallel()

	floor := model.FloorConfiguration{
		CustomSquareFootage:    "10000",
		PrimaryUse:             model.UseResidential,
		SecondaryUse:           model.UseRetail,
		SecondaryUsePercentage: "30",
	}
	split := UseSplit(floor, nil)
	assert.InDelta(t, 7000.0, split.PrimaryArea, 1e-9)
	assert.InDelta(t, 3000.0, split.SecondaryArea, 1e-9)
	assert.InDelta(t, 10000.0, split.PrimaryArea+split.SecondaryArea, 1e-9)

	floor.SecondaryUse = ""
	split = UseSplit(floor, nil)
	assert.InDelta(t, 10000.0, split.PrimaryArea, 1e-9)
	assert.Zero(t, split.SecondaryArea)

	floor.SecondaryUse = model.UseRetail
	floor.SecondaryUsePercentage = "0"
	split = UseSplit(floor, nil)
	assert.InDelta(t, 10000.0, split.PrimaryArea, 1e-9)
	assert.Zero(t, split.SecondaryArea)
}

func TestSpaceUsage(t *testing.T) {
	t.Parallel()

	floor := model.FloorConfiguration{
		CustomSquareFootage: "1000",
		Spaces: []model.SpaceDefinition{
			{ID: "a", Type: model.SpaceResidential, SquareFootage: "600", IsRentable: true},
			{ID: "b", Type: model.SpaceCore, SquareFootage: "150"},
			{ID: "c", Type: model.SpaceCommon, SquareFootage: ""},
		},
	}

	usage := SpaceUsage(floor, nil)
	assert.InDelta(t, 750.0, usage.Defined, 1e-9)
	assert.InDelta(t, 600.0, usage.Rentable, 1e-9)
	assert.InDelta(t, 250.0, usage.Remaining, 1e-9)
	assert.False(t, usage.OverAllocated)

	floor.Spaces = append(floor.Spaces, model.SpaceDefinition{ID: "d", SquareFootage: "400"})
	usage = SpaceUsage(floor, nil)
	assert.True(t, usage.OverAllocated)
	assert.InDelta(t, -150.0, usage.Remaining, 1e-9)
}

func TestMemo(t *testing.T) {
	t.Parallel()

	type key struct{ a, b uint64 }
	var m Memo[key, int]
	calls := 0
	compute := func() int { calls++; return calls * 10 }

	assert.Equal(t, 10, m.Get(key{1, 1}, compute))
	assert.Equal(t, 10, m.Get(key{1, 1}, compute))
	assert.Equal(t, 1, calls)

	assert.Equal(t, 20, m.Get(key{1, 2}, compute))
	assert.Equal(t, 2, calls)

	m.Reset()
	assert.Equal(t, 30, m.Get(key{1, 2}, compute))
}
