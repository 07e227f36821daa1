package project

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/proforma/internal/unittype"
)

// AddCategory adds a unit category.
func (p *Project) AddCategory(ctx context.Context, name, color, description string) bool {
	if !p.Units.AddCategory(name, color, description) {
		return false
	}
	p.categoriesChanged(ctx)
	return true
}

// RemoveCategory deletes a category, its unit types and their allocations.
// Undo restores the category and unit types but not the allocations.
func (p *Project) RemoveCategory(ctx context.Context, name string) []string {
	cv := p.Units.Version()
	removed := p.Units.RemoveCategory(name)
	if p.Units.Version() == cv {
		return nil
	}

	cascaded := 0
	for _, id := range removed {
		cascaded += p.Ledger.RemoveByUnitType(id)
	}
	zap.L().Debug("project: removed category",
		zap.String("category", unittype.NormalizeCategory(name)),
		zap.Int("unit_types", len(removed)),
		zap.Int("allocations", cascaded),
	)

	p.categoriesChanged(ctx)
	if len(removed) > 0 {
		p.unitTypesChanged(ctx)
	}
	if cascaded > 0 {
		p.allocationsChanged(ctx)
	}
	return removed
}

// UndoRemoveCategory restores the last removed category.
func (p *Project) UndoRemoveCategory(ctx context.Context) bool {
	snap, ok := p.Units.PendingUndo()
	if !ok || !p.Units.UndoRemoveCategory() {
		return false
	}
	p.categoriesChanged(ctx)
	if len(snap.UnitTypes) > 0 {
		p.unitTypesChanged(ctx)
	}
	return true
}

// AddUnitType creates an empty unit type; "" means no category exists yet.
func (p *Project) AddUnitType(ctx context.Context) string {
	id := p.Units.AddUnitType()
	if id != "" {
		p.unitTypesChanged(ctx)
	}
	return id
}

// UpdateUnitType sets one field of a unit type. Existing allocations keep the
// per-unit size they were recorded with.
func (p *Project) UpdateUnitType(ctx context.Context, id, field string, value any) error {
	if err := p.Units.UpdateUnitType(id, field, value); err != nil {
		return err
	}
	p.unitTypesChanged(ctx)
	return nil
}

// RemoveUnitType deletes a unit type and its allocations.
func (p *Project) RemoveUnitType(ctx context.Context, id string) bool {
	if !p.Units.RemoveUnitType(id) {
		return false
	}
	p.unitTypesChanged(ctx)
	if p.Ledger.RemoveByUnitType(id) > 0 {
		p.allocationsChanged(ctx)
	}
	return true
}
