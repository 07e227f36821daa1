package project

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/proforma/internal/allocation"
	"github.com/sells-group/proforma/internal/capacity"
	"github.com/sells-group/proforma/internal/model"
	"github.com/sells-group/proforma/internal/suggest"
	"github.com/sells-group/proforma/internal/unittype"
)

// AllocateRequest asks for units of a type on a floor. A zero SquareFootage
// records the unit type's current typical size. Units merged into an existing
// allocation take that allocation's size.
type AllocateRequest struct {
	UnitTypeID    string                 `json:"unitTypeId"`
	FloorNumber   int                    `json:"floorNumber"`
	Count         int                    `json:"count"`
	SquareFootage float64                `json:"squareFootage,omitempty"`
	Status        model.AllocationStatus `json:"status,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
}

// AllocateResult reports the capacity check and whether anything was written.
type AllocateResult struct {
	ID        string                `json:"id,omitempty"`
	Check     allocation.SpaceCheck `json:"check"`
	Committed bool                  `json:"committed"`
	Forced    bool                  `json:"forced"`
}

// CommitResult lists what CommitSuggestions wrote and skipped.
type CommitResult struct {
	Committed []string `json:"committed"`
	Skipped   []int    `json:"skipped"`
}

// FloorArea is the capacity used for allocation checks: the floor's resolved
// gross area, or 0 when the floor does not exist.
func (p *Project) FloorArea(floorNumber int) float64 {
	f, ok := p.Floors.Get(floorNumber)
	if !ok {
		return 0
	}
	return capacity.GrossArea(f, p.Templates)
}

// Allocate checks the floor's remaining room and, when the units fit or force
// is set, adds them to the ledger. A shortfall without force is reported in
// the result and changes nothing.
func (p *Project) Allocate(ctx context.Context, req AllocateRequest, force bool) (AllocateResult, error) {
	ut, ok := p.Units.Get(req.UnitTypeID)
	if !ok {
		return AllocateResult{}, eris.Wrapf(unittype.ErrNotFound, "id %s", req.UnitTypeID)
	}
	if req.Count <= 0 {
		return AllocateResult{}, eris.Errorf("project: allocation count must be positive, got %d", req.Count)
	}
	if req.Status != "" && !req.Status.Valid() {
		return AllocateResult{}, eris.Wrapf(allocation.ErrInvalidStatus, "status %q", req.Status)
	}
	size := req.SquareFootage
	if size <= 0 {
		size = ut.TypicalSize
	}
	// A merge keeps the existing record's size, so that is the area added.
	if existing, ok := p.Ledger.Find(req.UnitTypeID, req.FloorNumber); ok {
		size = existing.SquareFootage
	}

	res := AllocateResult{
		Check: p.Ledger.CheckSpace(req.FloorNumber, size, req.Count, p.FloorArea(req.FloorNumber), ""),
	}
	if !res.Check.HasEnoughSpace {
		capacityConflicts.Inc()
		if !force {
			return res, nil
		}
		forcedAllocations.Inc()
		res.Forced = true
	}

	res.ID = p.Ledger.Add(model.UnitAllocation{
		UnitTypeID:    req.UnitTypeID,
		FloorNumber:   req.FloorNumber,
		Count:         req.Count,
		SquareFootage: size,
		Status:        req.Status,
		Notes:         req.Notes,
	}, res.Forced)
	res.Committed = true
	p.allocationsChanged(ctx)
	return res, nil
}

// ResizeAllocation changes an allocation's count. The allocation's current
// area does not count against the new size.
func (p *Project) ResizeAllocation(ctx context.Context, id string, count int, force bool) (AllocateResult, error) {
	a, ok := p.Ledger.Get(id)
	if !ok {
		return AllocateResult{}, eris.Wrapf(allocation.ErrNotFound, "id %s", id)
	}
	if count <= 0 {
		return AllocateResult{}, eris.Wrapf(allocation.ErrInvalidCount, "count %d", count)
	}
	res := AllocateResult{
		ID:    id,
		Check: p.Ledger.CheckSpace(a.FloorNumber, a.SquareFootage, count, p.FloorArea(a.FloorNumber), id),
	}
	if !res.Check.HasEnoughSpace {
		capacityConflicts.Inc()
		if !force {
			return res, nil
		}
		forcedAllocations.Inc()
		res.Forced = true
	}
	if err := p.Ledger.Update(id, allocation.FieldCount, count); err != nil {
		return AllocateResult{}, err
	}
	res.Committed = true
	p.allocationsChanged(ctx)
	return res, nil
}

// UpdateAllocation sets one allocation field without a capacity check.
func (p *Project) UpdateAllocation(ctx context.Context, id, field string, value any) error {
	if err := p.Ledger.Update(id, field, value); err != nil {
		return err
	}
	p.allocationsChanged(ctx)
	return nil
}

// RemoveAllocation deletes one allocation.
func (p *Project) RemoveAllocation(ctx context.Context, id string) bool {
	if !p.Ledger.Remove(id) {
		return false
	}
	p.allocationsChanged(ctx)
	return true
}

// Suggest proposes a spread of the unit type's remaining target over floors.
// With no floors given every existing floor is a candidate, lowest first.
func (p *Project) Suggest(unitTypeID string, targetCount int, floors []int) []suggest.Suggestion {
	if len(floors) == 0 {
		floors = p.Floors.Numbers()
	}
	return suggest.Allocations(p.Ledger, unitTypeID, targetCount, floors)
}

// CommitSuggestions commits each suggestion whose floor has room at the unit
// type's typical size. Floors without room are skipped, never resized.
func (p *Project) CommitSuggestions(ctx context.Context, unitTypeID string, suggestions []suggest.Suggestion) (CommitResult, error) {
	ut, ok := p.Units.Get(unitTypeID)
	if !ok {
		return CommitResult{}, eris.Wrapf(unittype.ErrNotFound, "id %s", unitTypeID)
	}

	var res CommitResult
	for _, s := range suggestions {
		if s.Count <= 0 {
			continue
		}
		size := ut.TypicalSize
		if existing, ok := p.Ledger.Find(unitTypeID, s.FloorNumber); ok {
			size = existing.SquareFootage
		}
		check := p.Ledger.CheckSpace(s.FloorNumber, size, s.Count, p.FloorArea(s.FloorNumber), "")
		if !check.HasEnoughSpace {
			skippedSuggestions.Inc()
			zap.L().Debug("project: skipping suggestion without room",
				zap.Int("floor", s.FloorNumber),
				zap.Float64("available", check.Available),
				zap.Float64("required", check.Required),
			)
			res.Skipped = append(res.Skipped, s.FloorNumber)
			continue
		}
		res.Committed = append(res.Committed, p.Ledger.Add(model.UnitAllocation{
			UnitTypeID:    unitTypeID,
			FloorNumber:   s.FloorNumber,
			Count:         s.Count,
			SquareFootage: size,
		}, false))
	}
	if len(res.Committed) > 0 {
		p.allocationsChanged(ctx)
	}
	return res, nil
}
