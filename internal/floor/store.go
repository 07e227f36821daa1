// Package floor owns the building's floor configurations and their spaces.
package floor

import (
	"sort"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/sells-group/proforma/internal/model"
)

var (
	// ErrFloorNotFound is returned when a floor number is not in the store.
	ErrFloorNotFound = eris.New("floor: floor not found")
	// ErrFloorCollision is returned when a floor number is already taken.
	ErrFloorCollision = eris.New("floor: floor number already exists")
	// ErrInvalidFloorNumber is returned for floor zero or a sign that does not
	// match the requested level.
	ErrInvalidFloorNumber = eris.New("floor: invalid floor number")
	// ErrUnknownField is returned for a field name Update does not handle.
	ErrUnknownField = eris.New("floor: unknown field")
	// ErrInvalidValue is returned when a value is out of range for its field.
	ErrInvalidValue = eris.New("floor: invalid value")
)

// Field names accepted by Update, UpdateFields and BulkEdit.
const (
	FieldTemplateID             = "templateId"
	FieldCustomSquareFootage    = "customSquareFootage"
	FieldFloorToFloorHeight     = "floorToFloorHeight"
	FieldEfficiencyFactor       = "efficiencyFactor"
	FieldCorePercentage         = "corePercentage"
	FieldPrimaryUse             = "primaryUse"
	FieldSecondaryUse           = "secondaryUse"
	FieldSecondaryUsePercentage = "secondaryUsePercentage"
	FieldSpaces                 = "spaces"
)

// TemplateLookup finds a floor plate template by id.
type TemplateLookup interface {
	Get(id string) (model.FloorPlateTemplate, bool)
}

// AllocationCascade is the part of the allocation ledger that must follow
// floor removals and renumbering.
type AllocationCascade interface {
	RemoveByFloor(floorNumber int) int
	SwapFloors(a, b int) int
}

// Store is the ordered set of floor configurations, sorted by floor number.
// Floor numbers are unique and never zero.
type Store struct {
	floors    []model.FloorConfiguration
	templates TemplateLookup
	cascade   AllocationCascade
	version   uint64
}

// New returns an empty store. Either dependency may be nil.
func New(templates TemplateLookup, cascade AllocationCascade) *Store {
	return &Store{templates: templates, cascade: cascade}
}

// Add inserts a single floor. The underground flag is derived from the number.
func (s *Store) Add(f model.FloorConfiguration) error {
	if f.FloorNumber == 0 {
		return eris.Wrap(ErrInvalidFloorNumber, "floor 0")
	}
	if s.index(f.FloorNumber) >= 0 {
		return eris.Wrapf(ErrFloorCollision, "floor %d", f.FloorNumber)
	}
	f = f.Clone()
	f.IsUnderground = f.FloorNumber < 0
	s.floors = append(s.floors, f)
	s.sort()
	s.version++
	return nil
}

// Get returns a copy of the floor with the given number.
func (s *Store) Get(floorNumber int) (model.FloorConfiguration, bool) {
	i := s.index(floorNumber)
	if i < 0 {
		return model.FloorConfiguration{}, false
	}
	return s.floors[i].Clone(), true
}

// List returns copies of all floors in ascending floor-number order.
func (s *Store) List() []model.FloorConfiguration {
	out := make([]model.FloorConfiguration, len(s.floors))
	for i, f := range s.floors {
		out[i] = f.Clone()
	}
	return out
}

// Numbers returns every floor number in ascending order.
func (s *Store) Numbers() []int {
	out := make([]int, len(s.floors))
	for i, f := range s.floors {
		out[i] = f.FloorNumber
	}
	return out
}

// Update sets one field on one floor. Changing templateId does not touch any
// other field; template-driven defaults are the caller's business.
func (s *Store) Update(floorNumber int, field string, value any) error {
	i := s.index(floorNumber)
	if i < 0 {
		return eris.Wrapf(ErrFloorNotFound, "floor %d", floorNumber)
	}
	f := s.floors[i].Clone()
	if err := setField(&f, field, value); err != nil {
		return err
	}
	s.floors[i] = f
	s.version++
	return nil
}

// FieldUpdate is one field assignment for UpdateFields.
type FieldUpdate struct {
	Field string
	Value any
}

// UpdateFields applies several field updates to one floor. Nothing changes if
// any update is rejected.
func (s *Store) UpdateFields(floorNumber int, updates []FieldUpdate) error {
	i := s.index(floorNumber)
	if i < 0 {
		return eris.Wrapf(ErrFloorNotFound, "floor %d", floorNumber)
	}
	f := s.floors[i].Clone()
	for _, u := range updates {
		if err := setField(&f, u.Field, u.Value); err != nil {
			return err
		}
	}
	s.floors[i] = f
	s.version++
	return nil
}

// BulkEdit applies the same field update to each named floor. Unknown floors
// are ignored. Nothing changes if the value is rejected.
func (s *Store) BulkEdit(floorNumbers []int, field string, value any) error {
	updates := make(map[int]model.FloorConfiguration, len(floorNumbers))
	for _, n := range floorNumbers {
		i := s.index(n)
		if i < 0 {
			zap.L().Debug("floor: bulk edit skipping unknown floor", zap.Int("floor", n))
			continue
		}
		f := s.floors[i].Clone()
		if err := setField(&f, field, value); err != nil {
			return err
		}
		updates[i] = f
	}
	if len(updates) == 0 {
		return nil
	}
	for i, f := range updates {
		s.floors[i] = f
	}
	s.version++
	return nil
}

// Copy overwrites every target's settings and spaces with the source's.
// Floor number and underground flag are never copied; a target equal to the
// source and unknown targets are skipped.
func (s *Store) Copy(source int, targets []int) error {
	si := s.index(source)
	if si < 0 {
		return eris.Wrapf(ErrFloorNotFound, "source floor %d", source)
	}
	src := s.floors[si]

	changed := false
	for _, n := range targets {
		if n == source {
			continue
		}
		ti := s.index(n)
		if ti < 0 {
			zap.L().Debug("floor: copy skipping unknown target", zap.Int("floor", n))
			continue
		}
		cp := src.Clone()
		cp.FloorNumber = s.floors[ti].FloorNumber
		cp.IsUnderground = s.floors[ti].IsUnderground
		for j := range cp.Spaces {
			cp.Spaces[j].ID = uuid.New().String()
		}
		s.floors[ti] = cp
		changed = true
	}
	if changed {
		s.version++
	}
	return nil
}

// Remove deletes the named floors and every allocation on those floor
// numbers. It returns how many floor configurations were deleted.
func (s *Store) Remove(floorNumbers []int) int {
	drop := make(map[int]bool, len(floorNumbers))
	for _, n := range floorNumbers {
		drop[n] = true
	}

	kept := s.floors[:0]
	removed := 0
	for _, f := range s.floors {
		if drop[f.FloorNumber] {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	s.floors = kept

	if s.cascade != nil {
		for n := range drop {
			if c := s.cascade.RemoveByFloor(n); c > 0 {
				zap.L().Debug("floor: removed allocations with floor",
					zap.Int("floor", n),
					zap.Int("allocations", c),
				)
			}
		}
	}
	if removed > 0 {
		s.version++
	}
	return removed
}

// Replace swaps in a previously persisted collection. Floor zero and
// duplicate numbers are dropped; the underground flag is re-derived.
func (s *Store) Replace(floors []model.FloorConfiguration) {
	s.floors = s.floors[:0]
	seen := make(map[int]bool, len(floors))
	for _, f := range floors {
		if f.FloorNumber == 0 || seen[f.FloorNumber] {
			zap.L().Warn("floor: dropping invalid persisted floor", zap.Int("floor", f.FloorNumber))
			continue
		}
		seen[f.FloorNumber] = true
		f = f.Clone()
		f.IsUnderground = f.FloorNumber < 0
		s.floors = append(s.floors, f)
	}
	s.sort()
	s.version++
}

// Version increments on every mutation.
func (s *Store) Version() uint64 {
	return s.version
}

func (s *Store) index(floorNumber int) int {
	for i, f := range s.floors {
		if f.FloorNumber == floorNumber {
			return i
		}
	}
	return -1
}

func (s *Store) sort() {
	sort.Slice(s.floors, func(i, j int) bool {
		return s.floors[i].FloorNumber < s.floors[j].FloorNumber
	})
}

func setField(f *model.FloorConfiguration, field string, value any) error {
	switch field {
	case FieldTemplateID:
		f.TemplateID = cast.ToString(value)
	case FieldCustomSquareFootage:
		f.CustomSquareFootage = model.Quantity(cast.ToString(value))
	case FieldFloorToFloorHeight:
		f.FloorToFloorHeight = model.Quantity(cast.ToString(value))
	case FieldEfficiencyFactor, FieldCorePercentage, FieldSecondaryUsePercentage:
		q := model.Quantity(cast.ToString(value))
		if q.IsSet() && (q.Float() < 0 || q.Float() > 100) {
			return eris.Wrapf(ErrInvalidValue, "%s must be between 0 and 100, got %s", field, q)
		}
		switch field {
		case FieldEfficiencyFactor:
			f.EfficiencyFactor = q
		case FieldCorePercentage:
			f.CorePercentage = q
		default:
			f.SecondaryUsePercentage = q
		}
	case FieldPrimaryUse:
		u := model.Use(cast.ToString(value))
		if !u.Valid() {
			return eris.Wrapf(ErrInvalidValue, "primaryUse %q", u)
		}
		f.PrimaryUse = u
	case FieldSecondaryUse:
		u := model.Use(cast.ToString(value))
		if u != "" && !u.Valid() {
			return eris.Wrapf(ErrInvalidValue, "secondaryUse %q", u)
		}
		f.SecondaryUse = u
	case FieldSpaces:
		spaces, ok := value.([]model.SpaceDefinition)
		if !ok {
			return eris.Wrapf(ErrInvalidValue, "spaces must be a space list, got %T", value)
		}
		f.Spaces = make([]model.SpaceDefinition, len(spaces))
		copy(f.Spaces, spaces)
	default:
		return eris.Wrapf(ErrUnknownField, "field %q", field)
	}
	return nil
}
