// Package suggest proposes how to spread a unit type's remaining target
// across floors that do not yet carry it.
package suggest

import "github.com/sells-group/proforma/internal/model"

// Source is the read side of the allocation ledger the suggester needs.
type Source interface {
	ForUnitType(unitTypeID string) []model.UnitAllocation
}

// Suggestion is a proposed, uncommitted allocation.
type Suggestion struct {
	FloorNumber int `json:"floorNumber"`
	Count       int `json:"count"`
}

// Allocations distributes targetCount minus what is already allocated (on any
// floor) over the candidate floors that have no allocation of this unit type.
// Each floor receives at most ceil(remaining / candidates), in the order
// given; floors left with nothing are omitted. Floor capacity is not checked.
func Allocations(src Source, unitTypeID string, targetCount int, availableFloors []int) []Suggestion {
	existing := src.ForUnitType(unitTypeID)

	allocated := 0
	occupied := make(map[int]bool, len(existing))
	for _, a := range existing {
		allocated += a.Count
		occupied[a.FloorNumber] = true
	}

	remaining := targetCount - allocated
	if remaining <= 0 {
		return nil
	}

	var candidates []int
	seen := make(map[int]bool, len(availableFloors))
	for _, f := range availableFloors {
		if occupied[f] || seen[f] {
			continue
		}
		seen[f] = true
		candidates = append(candidates, f)
	}
	if len(candidates) == 0 {
		return nil
	}

	perFloor := (remaining + len(candidates) - 1) / len(candidates)
	out := make([]Suggestion, 0, len(candidates))
	for _, f := range candidates {
		if remaining == 0 {
			break
		}
		n := min(perFloor, remaining)
		out = append(out, Suggestion{FloorNumber: f, Count: n})
		remaining -= n
	}
	return out
}
