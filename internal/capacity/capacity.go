// Package capacity resolves floor areas from a floor's own settings and the
// template catalog. Every function is pure; a missing template contributes zero.
package capacity

import "github.com/sells-group/proforma/internal/model"

// TemplateLookup finds a floor plate template by id.
type TemplateLookup interface {
	Get(id string) (model.FloorPlateTemplate, bool)
}

// Split is the division of a floor's gross area between its two uses.
type Split struct {
	PrimaryArea   float64 `json:"primaryArea"`
	SecondaryArea float64 `json:"secondaryArea"`
}

// GrossArea returns the custom square footage when it parses to a positive
// number, otherwise the referenced template's gross area, otherwise 0.
func GrossArea(floor model.FloorConfiguration, templates TemplateLookup) float64 {
	if custom := floor.CustomSquareFootage.Float(); custom > 0 {
		return custom
	}
	if floor.TemplateID == "" || templates == nil {
		return 0
	}
	tpl, ok := templates.Get(floor.TemplateID)
	if !ok {
		return 0
	}
	return tpl.GrossArea
}

// NetArea is the rentable area: gross area scaled by the efficiency factor.
// A blank efficiency factor yields 0.
func NetArea(floor model.FloorConfiguration, templates TemplateLookup) float64 {
	return GrossArea(floor, templates) * (floor.EfficiencyFactor.Float() / 100)
}

// UseSplit partitions the gross area between the primary and secondary use.
func UseSplit(floor model.FloorConfiguration, templates TemplateLookup) Split {
	gross := GrossArea(floor, templates)
	pct := floor.SecondaryUsePercentage.Float()
	if floor.SecondaryUse == "" || pct <= 0 {
		return Split{PrimaryArea: gross}
	}
	return Split{
		PrimaryArea:   gross * (100 - pct) / 100,
		SecondaryArea: gross * pct / 100,
	}
}

// Spaces summarizes how a floor's defined spaces consume its gross area.
type Spaces struct {
	Defined       float64 `json:"defined"`
	Rentable      float64 `json:"rentable"`
	Remaining     float64 `json:"remaining"`
	OverAllocated bool    `json:"overAllocated"`
}

// SpaceUsage totals the floor's space definitions against its gross area.
func SpaceUsage(floor model.FloorConfiguration, templates TemplateLookup) Spaces {
	var out Spaces
	for _, s := range floor.Spaces {
		area := s.SquareFootage.Float()
		out.Defined += area
		if s.IsRentable {
			out.Rentable += area
		}
	}
	gross := GrossArea(floor, templates)
	out.Remaining = gross - out.Defined
	out.OverAllocated = out.Defined > gross
	return out
}
