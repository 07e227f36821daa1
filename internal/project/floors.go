package project

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/proforma/internal/floor"
	"github.com/sells-group/proforma/internal/model"
)

// ErrNoTemplate is returned by ApplyTemplateDefaults when the floor has no
// resolvable template.
var ErrNoTemplate = eris.New("project: floor has no template")

// AddFloors creates a block of floors.
func (p *Project) AddFloors(ctx context.Context, req floor.AddFloorsRequest) ([]int, error) {
	nums, err := p.Floors.AddFloors(req)
	if err != nil {
		return nil, err
	}
	p.floorsChanged(ctx)
	return nums, nil
}

// UpdateFloor sets a single floor field.
func (p *Project) UpdateFloor(ctx context.Context, floorNumber int, field string, value any) error {
	if err := p.Floors.Update(floorNumber, field, value); err != nil {
		return err
	}
	p.floorsChanged(ctx)
	return nil
}

// ApplyTemplateDefaults copies the floor's template height, efficiency, core
// percentage and primary use onto the floor and clears its custom area so the
// template's gross area applies.
func (p *Project) ApplyTemplateDefaults(ctx context.Context, floorNumber int) error {
	f, ok := p.Floors.Get(floorNumber)
	if !ok {
		return eris.Wrapf(floor.ErrFloorNotFound, "floor %d", floorNumber)
	}
	tpl, ok := p.Templates.Get(f.TemplateID)
	if !ok {
		return eris.Wrapf(ErrNoTemplate, "floor %d template %q", floorNumber, f.TemplateID)
	}

	err := p.Floors.UpdateFields(floorNumber, []floor.FieldUpdate{
		{Field: floor.FieldCustomSquareFootage, Value: ""},
		{Field: floor.FieldFloorToFloorHeight, Value: tpl.FloorToFloorHeight},
		{Field: floor.FieldEfficiencyFactor, Value: tpl.EfficiencyFactor},
		{Field: floor.FieldCorePercentage, Value: tpl.CorePercentage},
		{Field: floor.FieldPrimaryUse, Value: string(tpl.PrimaryUse)},
	})
	if err != nil {
		return eris.Wrapf(err, "floor %d template %q", floorNumber, tpl.ID)
	}
	p.floorsChanged(ctx)
	return nil
}

// BulkEditFloors applies one field update to many floors.
func (p *Project) BulkEditFloors(ctx context.Context, floorNumbers []int, field string, value any) error {
	v := p.Floors.Version()
	if err := p.Floors.BulkEdit(floorNumbers, field, value); err != nil {
		return err
	}
	if p.Floors.Version() != v {
		p.floorsChanged(ctx)
	}
	return nil
}

// CopyFloor overwrites the target floors with the source's settings.
func (p *Project) CopyFloor(ctx context.Context, source int, targets []int) error {
	v := p.Floors.Version()
	if err := p.Floors.Copy(source, targets); err != nil {
		return err
	}
	if p.Floors.Version() != v {
		p.floorsChanged(ctx)
	}
	return nil
}

// RemoveFloors deletes floors and every allocation on them.
func (p *Project) RemoveFloors(ctx context.Context, floorNumbers []int) int {
	lv := p.Ledger.Version()
	n := p.Floors.Remove(floorNumbers)
	if n > 0 {
		p.floorsChanged(ctx)
	}
	if p.Ledger.Version() != lv {
		p.allocationsChanged(ctx)
	}
	return n
}

// ReorderFloor swaps a floor with its neighbor; allocations move with it.
func (p *Project) ReorderFloor(ctx context.Context, floorNumber int, dir floor.Direction) (bool, error) {
	lv := p.Ledger.Version()
	moved, err := p.Floors.Reorder(floorNumber, dir)
	if err != nil || !moved {
		return moved, err
	}
	p.floorsChanged(ctx)
	if p.Ledger.Version() != lv {
		p.allocationsChanged(ctx)
	}
	return true, nil
}

// AddSpace adds a space to a floor.
func (p *Project) AddSpace(ctx context.Context, floorNumber int, sp model.SpaceDefinition) (string, error) {
	id, err := p.Floors.AddSpace(floorNumber, sp)
	if err != nil {
		return "", err
	}
	p.floorsChanged(ctx)
	return id, nil
}

// UpdateSpace sets one field of a space.
func (p *Project) UpdateSpace(ctx context.Context, floorNumber int, spaceID, field string, value any) error {
	if err := p.Floors.UpdateSpace(floorNumber, spaceID, field, value); err != nil {
		return err
	}
	p.floorsChanged(ctx)
	return nil
}

// RemoveSpace deletes a space.
func (p *Project) RemoveSpace(ctx context.Context, floorNumber int, spaceID string) bool {
	if !p.Floors.RemoveSpace(floorNumber, spaceID) {
		return false
	}
	p.floorsChanged(ctx)
	return true
}
