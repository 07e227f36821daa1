package project

import (
	"github.com/sells-group/proforma/internal/capacity"
	"github.com/sells-group/proforma/internal/model"
)

// FloorSummary is the derived capacity picture of one floor.
type FloorSummary struct {
	FloorNumber   int             `json:"floorNumber"`
	IsUnderground bool            `json:"isUnderground"`
	TemplateID    string          `json:"templateId,omitempty"`
	PrimaryUse    model.Use       `json:"primaryUse"`
	SecondaryUse  model.Use       `json:"secondaryUse,omitempty"`
	GrossArea     float64         `json:"grossArea"`
	NetArea       float64         `json:"netArea"`
	Split         capacity.Split  `json:"split"`
	Spaces        capacity.Spaces `json:"spaces"`
	Allocated     float64         `json:"allocated"`
	Available     float64         `json:"available"`
	UnitCount     int             `json:"unitCount"`
}

// Totals sums the summaries of every floor.
type Totals struct {
	GrossArea  float64 `json:"grossArea"`
	NetArea    float64 `json:"netArea"`
	Allocated  float64 `json:"allocated"`
	UnitCount  int     `json:"unitCount"`
	TargetArea float64 `json:"targetArea"`
}

// FloorSummaries returns one summary per floor in floor order. The result is
// cached until floors, templates or allocations change; callers must not
// modify it.
func (p *Project) FloorSummaries() []FloorSummary {
	key := versions{
		floors:    p.Floors.Version(),
		templates: p.Templates.Version(),
		ledger:    p.Ledger.Version(),
	}
	return p.summaries.Get(key, p.computeSummaries)
}

func (p *Project) computeSummaries() []FloorSummary {
	floors := p.Floors.List()
	out := make([]FloorSummary, len(floors))
	for i, f := range floors {
		gross := capacity.GrossArea(f, p.Templates)
		allocated := p.Ledger.AllocatedAreaByFloor(f.FloorNumber)
		units := 0
		for _, a := range p.Ledger.ForFloor(f.FloorNumber) {
			units += a.Count
		}
		out[i] = FloorSummary{
			FloorNumber:   f.FloorNumber,
			IsUnderground: f.IsUnderground,
			TemplateID:    f.TemplateID,
			PrimaryUse:    f.PrimaryUse,
			SecondaryUse:  f.SecondaryUse,
			GrossArea:     gross,
			NetArea:       capacity.NetArea(f, p.Templates),
			Split:         capacity.UseSplit(f, p.Templates),
			Spaces:        capacity.SpaceUsage(f, p.Templates),
			Allocated:     allocated,
			Available:     gross - allocated,
			UnitCount:     units,
		}
	}
	return out
}

// Totals aggregates FloorSummaries with the unit-type planning target.
func (p *Project) Totals() Totals {
	var t Totals
	for _, s := range p.FloorSummaries() {
		t.GrossArea += s.GrossArea
		t.NetArea += s.NetArea
		t.Allocated += s.Allocated
		t.UnitCount += s.UnitCount
	}
	t.TargetArea = p.Units.CalculateTotalArea()
	return t
}

// Allocations returns every allocation.
func (p *Project) Allocations() []model.UnitAllocation {
	return p.Ledger.List()
}

// UnitType looks up a unit type by id.
func (p *Project) UnitType(id string) (model.UnitType, bool) {
	return p.Units.Get(id)
}
