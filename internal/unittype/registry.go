// Package unittype owns unit types and the categories that group them,
// including a single-slot undo for category deletion.
package unittype

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/proforma/internal/model"
)

var (
	// ErrNotFound is returned for an unknown unit type id.
	ErrNotFound = eris.New("unittype: unit type not found")
	// ErrUnknownCategory is returned when assigning a category that does not exist.
	ErrUnknownCategory = eris.New("unittype: unknown category")
	// ErrUnknownField is returned for a field name UpdateUnitType does not handle.
	ErrUnknownField = eris.New("unittype: unknown field")
)

// Field names accepted by UpdateUnitType.
const (
	FieldName        = "name"
	FieldCategory    = "category"
	FieldTypicalSize = "typicalSize"
	FieldCount       = "count"
	FieldDescription = "description"
	FieldColor       = "color"
)

// NormalizeCategory lower-cases and trims a category name.
func NormalizeCategory(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}

// Deleted is the snapshot kept for undoing the last category deletion.
type Deleted struct {
	Category  model.Category   `json:"category"`
	UnitTypes []model.UnitType `json:"unitTypes"`
}

// Registry holds categories and unit types.
type Registry struct {
	categories []model.Category
	unitTypes  []model.UnitType
	undo       *Deleted
	version    uint64
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// AddCategory adds a category under its normalized name. It returns false
// without changing anything when the name is blank or already taken.
func (r *Registry) AddCategory(name, color, description string) bool {
	key := NormalizeCategory(name)
	if key == "" || r.categoryIndex(key) >= 0 {
		return false
	}
	r.categories = append(r.categories, model.Category{Name: key, Color: color, Description: description})
	r.version++
	return true
}

// RemoveCategory deletes a category and every unit type in it, keeping a
// snapshot for UndoRemoveCategory. A previous snapshot is overwritten. It
// returns the ids of the removed unit types so callers can cascade their
// allocations.
func (r *Registry) RemoveCategory(name string) []string {
	key := NormalizeCategory(name)
	i := r.categoryIndex(key)
	if i < 0 {
		return nil
	}

	snap := &Deleted{Category: r.categories[i]}
	kept := r.unitTypes[:0:0]
	var removed []string
	for _, ut := range r.unitTypes {
		if ut.Category == key {
			snap.UnitTypes = append(snap.UnitTypes, ut)
			removed = append(removed, ut.ID)
			continue
		}
		kept = append(kept, ut)
	}

	r.undo = snap
	r.unitTypes = kept
	r.categories = append(r.categories[:i], r.categories[i+1:]...)
	r.version++
	return removed
}

// UndoRemoveCategory restores the last deleted category and its unit types.
// It returns false when there is nothing to restore. The buffer is cleared on
// success.
func (r *Registry) UndoRemoveCategory() bool {
	if r.undo == nil {
		return false
	}
	snap := r.undo
	r.undo = nil

	if i := r.categoryIndex(snap.Category.Name); i >= 0 {
		r.categories[i] = snap.Category
	} else {
		r.categories = append(r.categories, snap.Category)
	}
	for _, ut := range snap.UnitTypes {
		if r.index(ut.ID) >= 0 {
			zap.L().Debug("unittype: undo skipped existing unit type", zap.String("unit_type_id", ut.ID))
			continue
		}
		r.unitTypes = append(r.unitTypes, ut)
	}
	r.version++
	return true
}

// PendingUndo returns the snapshot that UndoRemoveCategory would restore.
func (r *Registry) PendingUndo() (Deleted, bool) {
	if r.undo == nil {
		return Deleted{}, false
	}
	return *r.undo, true
}

// AddUnitType creates an empty unit type in the first category. It returns ""
// when no category exists.
func (r *Registry) AddUnitType() string {
	if len(r.categories) == 0 {
		return ""
	}
	cat := r.categories[0]
	ut := model.UnitType{
		ID:       uuid.New().String(),
		Category: cat.Name,
		Color:    cat.Color,
	}
	r.unitTypes = append(r.unitTypes, ut)
	r.version++
	return ut.ID
}

// UpdateUnitType sets one field. Changing the category re-derives the color
// from the new category; setting color directly is the override path.
func (r *Registry) UpdateUnitType(id, field string, value any) error {
	i := r.index(id)
	if i < 0 {
		return eris.Wrapf(ErrNotFound, "id %s", id)
	}
	ut := r.unitTypes[i]

	switch field {
	case FieldName:
		ut.Name = cast.ToString(value)
	case FieldDescription:
		ut.Description = cast.ToString(value)
	case FieldColor:
		ut.Color = cast.ToString(value)
	case FieldTypicalSize:
		v, err := cast.ToFloat64E(value)
		if err != nil {
			return eris.Wrapf(err, "unittype: typicalSize %v", value)
		}
		ut.TypicalSize = v
	case FieldCount:
		v, err := cast.ToIntE(value)
		if err != nil {
			return eris.Wrapf(err, "unittype: count %v", value)
		}
		ut.Count = v
	case FieldCategory:
		key := NormalizeCategory(cast.ToString(value))
		ci := r.categoryIndex(key)
		if ci < 0 {
			return eris.Wrapf(ErrUnknownCategory, "category %q", key)
		}
		ut.Category = key
		ut.Color = r.categories[ci].Color
	default:
		return eris.Wrapf(ErrUnknownField, "field %q", field)
	}

	r.unitTypes[i] = ut
	r.version++
	return nil
}

// RemoveUnitType deletes a unit type. Callers cascade its allocations.
func (r *Registry) RemoveUnitType(id string) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}
	r.unitTypes = append(r.unitTypes[:i], r.unitTypes[i+1:]...)
	r.version++
	return true
}

// CalculateTotalArea is the planning-target area: sum of count × typical size.
func (r *Registry) CalculateTotalArea() float64 {
	var total float64
	for _, ut := range r.unitTypes {
		total += float64(ut.Count) * ut.TypicalSize
	}
	return total
}

// Get returns the unit type with the given id.
func (r *Registry) Get(id string) (model.UnitType, bool) {
	i := r.index(id)
	if i < 0 {
		return model.UnitType{}, false
	}
	return r.unitTypes[i], true
}

// UnitTypes returns a copy of all unit types.
func (r *Registry) UnitTypes() []model.UnitType {
	out := make([]model.UnitType, len(r.unitTypes))
	copy(out, r.unitTypes)
	return out
}

// UnitTypesInCategory returns the unit types in the named category.
func (r *Registry) UnitTypesInCategory(name string) []model.UnitType {
	key := NormalizeCategory(name)
	var out []model.UnitType
	for _, ut := range r.unitTypes {
		if ut.Category == key {
			out = append(out, ut)
		}
	}
	return out
}

// Categories returns a copy of all categories.
func (r *Registry) Categories() []model.Category {
	out := make([]model.Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Category returns the category with the given name.
func (r *Registry) Category(name string) (model.Category, bool) {
	i := r.categoryIndex(NormalizeCategory(name))
	if i < 0 {
		return model.Category{}, false
	}
	return r.categories[i], true
}

// Replace swaps in previously persisted collections. The undo buffer is
// cleared.
func (r *Registry) Replace(categories []model.Category, unitTypes []model.UnitType) {
	r.categories = make([]model.Category, len(categories))
	copy(r.categories, categories)
	r.unitTypes = make([]model.UnitType, len(unitTypes))
	copy(r.unitTypes, unitTypes)
	r.undo = nil
	r.version++
}

// Version increments on every mutation.
func (r *Registry) Version() uint64 {
	return r.version
}

func (r *Registry) index(id string) int {
	for i, ut := range r.unitTypes {
		if ut.ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) categoryIndex(key string) int {
	for i, c := range r.categories {
		if c.Name == key {
			return i
		}
	}
	return -1
}
