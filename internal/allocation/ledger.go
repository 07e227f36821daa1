// Package allocation records which unit types occupy which floors and answers
// area and capacity questions about them.
package allocation

import (
	"sort"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/sells-group/proforma/internal/model"
)

var (
	// ErrNotFound is returned for an unknown allocation id.
	ErrNotFound = eris.New("allocation: allocation not found")
	// ErrUnknownField is returned for a field name Update does not handle.
	ErrUnknownField = eris.New("allocation: unknown field")
	// ErrInvalidStatus is returned when setting an unknown status.
	ErrInvalidStatus = eris.New("allocation: invalid status")
	// ErrInvalidCount is returned for a count below one. Use Remove to drop
	// an allocation.
	ErrInvalidCount = eris.New("allocation: count must be positive")
)

// Field names accepted by Update.
const (
	FieldUnitTypeID    = "unitTypeId"
	FieldFloorNumber   = "floorNumber"
	FieldCount         = "count"
	FieldSquareFootage = "squareFootage"
	FieldStatus        = "status"
	FieldNotes         = "notes"
)

// SpaceCheck is the result of a capacity check. A shortfall is reported here,
// never as an error.
type SpaceCheck struct {
	HasEnoughSpace bool    `json:"hasEnoughSpace"`
	Available      float64 `json:"available"`
	Required       float64 `json:"required"`
}

// Stats aggregates one unit type's allocations.
type Stats struct {
	TotalAllocated int   `json:"totalAllocated"`
	FloorCount     int   `json:"floorCount"`
	Floors         []int `json:"floors"`
}

// Ledger holds unit allocations. At most one allocation exists per
// (unit type, floor) pair.
type Ledger struct {
	allocations []model.UnitAllocation
	version     uint64

	stats        map[string]Stats
	statsVersion uint64
	computations int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Add records an allocation and returns its id. An allocation for an existing
// (unit type, floor) pair is merged by summing counts and keeps the existing
// id. No capacity check happens here; force only marks that the caller
// accepted an overflow.
func (l *Ledger) Add(a model.UnitAllocation, force bool) string {
	if i := l.pairIndex(a.UnitTypeID, a.FloorNumber); i >= 0 {
		l.allocations[i].Count += a.Count
		l.version++
		zap.L().Debug("allocation: merged into existing",
			zap.String("allocation_id", l.allocations[i].ID),
			zap.Int("floor", a.FloorNumber),
			zap.Int("added", a.Count),
			zap.Bool("forced", force),
		)
		return l.allocations[i].ID
	}

	a.ID = uuid.New().String()
	if a.Status == "" {
		a.Status = model.AllocationPlanned
	}
	l.allocations = append(l.allocations, a)
	l.version++
	if force {
		zap.L().Debug("allocation: forced allocation recorded",
			zap.String("allocation_id", a.ID),
			zap.Int("floor", a.FloorNumber),
		)
	}
	return a.ID
}

// Update sets one field of an allocation. If moving the allocation to another
// floor or unit type collides with an existing pair, the two are merged.
func (l *Ledger) Update(id, field string, value any) error {
	i := l.index(id)
	if i < 0 {
		return eris.Wrapf(ErrNotFound, "id %s", id)
	}
	a := l.allocations[i]

	switch field {
	case FieldUnitTypeID:
		a.UnitTypeID = cast.ToString(value)
	case FieldFloorNumber:
		n, err := cast.ToIntE(value)
		if err != nil {
			return eris.Wrapf(err, "allocation: floorNumber %v", value)
		}
		a.FloorNumber = n
	case FieldCount:
		n, err := cast.ToIntE(value)
		if err != nil {
			return eris.Wrapf(err, "allocation: count %v", value)
		}
		if n <= 0 {
			return eris.Wrapf(ErrInvalidCount, "count %d", n)
		}
		a.Count = n
	case FieldSquareFootage:
		v, err := cast.ToFloat64E(value)
		if err != nil {
			return eris.Wrapf(err, "allocation: squareFootage %v", value)
		}
		a.SquareFootage = v
	case FieldStatus:
		s := model.AllocationStatus(cast.ToString(value))
		if !s.Valid() {
			return eris.Wrapf(ErrInvalidStatus, "status %q", s)
		}
		a.Status = s
	case FieldNotes:
		a.Notes = cast.ToString(value)
	default:
		return eris.Wrapf(ErrUnknownField, "field %q", field)
	}

	if field == FieldUnitTypeID || field == FieldFloorNumber {
		if j := l.pairIndex(a.UnitTypeID, a.FloorNumber); j >= 0 && j != i {
			l.allocations[j].Count += a.Count
			l.allocations = append(l.allocations[:i], l.allocations[i+1:]...)
			l.version++
			return nil
		}
	}

	l.allocations[i] = a
	l.version++
	return nil
}

// Remove deletes one allocation.
func (l *Ledger) Remove(id string) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.allocations = append(l.allocations[:i], l.allocations[i+1:]...)
	l.version++
	return true
}

// RemoveByFloor deletes every allocation on the floor and returns how many.
func (l *Ledger) RemoveByFloor(floorNumber int) int {
	return l.removeWhere(func(a model.UnitAllocation) bool { return a.FloorNumber == floorNumber })
}

// RemoveByUnitType deletes every allocation of the unit type and returns how many.
func (l *Ledger) RemoveByUnitType(unitTypeID string) int {
	return l.removeWhere(func(a model.UnitAllocation) bool { return a.UnitTypeID == unitTypeID })
}

// SwapFloors exchanges the floor numbers of every allocation on floors a and b.
func (l *Ledger) SwapFloors(a, b int) int {
	if a == b {
		return 0
	}
	n := 0
	for i := range l.allocations {
		switch l.allocations[i].FloorNumber {
		case a:
			l.allocations[i].FloorNumber = b
			n++
		case b:
			l.allocations[i].FloorNumber = a
			n++
		}
	}
	if n > 0 {
		l.version++
	}
	return n
}

// AllocatedAreaByFloor sums count × recorded square footage on the floor.
func (l *Ledger) AllocatedAreaByFloor(floorNumber int) float64 {
	var total float64
	for _, a := range l.allocations {
		if a.FloorNumber == floorNumber {
			total += a.Area()
		}
	}
	return total
}

// CheckSpace reports whether additionalCount units of unitSize fit on the
// floor. When excludeID names an allocation, its own area is not counted as
// used, so an allocation being resized does not compete with itself.
func (l *Ledger) CheckSpace(floorNumber int, unitSize float64, additionalCount int, floorTotalArea float64, excludeID string) SpaceCheck {
	allocated := l.AllocatedAreaByFloor(floorNumber)
	if excludeID != "" {
		if i := l.index(excludeID); i >= 0 && l.allocations[i].FloorNumber == floorNumber {
			allocated -= l.allocations[i].Area()
		}
	}
	available := floorTotalArea - allocated
	required := unitSize * float64(additionalCount)
	return SpaceCheck{
		HasEnoughSpace: available >= required,
		Available:      available,
		Required:       required,
	}
}

// Stats returns aggregate counts for a unit type. Results are cached until the
// next mutation.
func (l *Ledger) Stats(unitTypeID string) Stats {
	if l.stats == nil || l.statsVersion != l.version {
		l.stats = l.computeStats()
		l.statsVersion = l.version
	}
	s := l.stats[unitTypeID]
	floors := make([]int, len(s.Floors))
	copy(floors, s.Floors)
	s.Floors = floors
	return s
}

func (l *Ledger) computeStats() map[string]Stats {
	l.computations++
	seen := make(map[string]map[int]bool)
	out := make(map[string]Stats)
	for _, a := range l.allocations {
		s := out[a.UnitTypeID]
		s.TotalAllocated += a.Count
		if seen[a.UnitTypeID] == nil {
			seen[a.UnitTypeID] = make(map[int]bool)
		}
		if !seen[a.UnitTypeID][a.FloorNumber] {
			seen[a.UnitTypeID][a.FloorNumber] = true
			s.Floors = append(s.Floors, a.FloorNumber)
		}
		out[a.UnitTypeID] = s
	}
	for id, s := range out {
		sort.Ints(s.Floors)
		s.FloorCount = len(s.Floors)
		out[id] = s
	}
	return out
}

// Get returns the allocation with the given id.
func (l *Ledger) Get(id string) (model.UnitAllocation, bool) {
	i := l.index(id)
	if i < 0 {
		return model.UnitAllocation{}, false
	}
	return l.allocations[i], true
}

// Find returns the allocation for a (unit type, floor) pair.
func (l *Ledger) Find(unitTypeID string, floorNumber int) (model.UnitAllocation, bool) {
	i := l.pairIndex(unitTypeID, floorNumber)
	if i < 0 {
		return model.UnitAllocation{}, false
	}
	return l.allocations[i], true
}

// ForUnitType returns every allocation of the unit type.
func (l *Ledger) ForUnitType(unitTypeID string) []model.UnitAllocation {
	var out []model.UnitAllocation
	for _, a := range l.allocations {
		if a.UnitTypeID == unitTypeID {
			out = append(out, a)
		}
	}
	return out
}

// ForFloor returns every allocation on the floor.
func (l *Ledger) ForFloor(floorNumber int) []model.UnitAllocation {
	var out []model.UnitAllocation
	for _, a := range l.allocations {
		if a.FloorNumber == floorNumber {
			out = append(out, a)
		}
	}
	return out
}

// List returns a copy of all allocations.
func (l *Ledger) List() []model.UnitAllocation {
	out := make([]model.UnitAllocation, len(l.allocations))
	copy(out, l.allocations)
	return out
}

// Replace swaps in a previously persisted collection. Duplicate pairs in the
// input are merged by summing counts.
func (l *Ledger) Replace(allocations []model.UnitAllocation) {
	l.allocations = nil
	for _, a := range allocations {
		if i := l.pairIndex(a.UnitTypeID, a.FloorNumber); i >= 0 {
			l.allocations[i].Count += a.Count
			continue
		}
		l.allocations = append(l.allocations, a)
	}
	l.version++
}

// Version increments on every mutation.
func (l *Ledger) Version() uint64 {
	return l.version
}

func (l *Ledger) removeWhere(match func(model.UnitAllocation) bool) int {
	kept := l.allocations[:0]
	removed := 0
	for _, a := range l.allocations {
		if match(a) {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	l.allocations = kept
	if removed > 0 {
		l.version++
	}
	return removed
}

func (l *Ledger) index(id string) int {
	for i, a := range l.allocations {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) pairIndex(unitTypeID string, floorNumber int) int {
	for i, a := range l.allocations {
		if a.UnitTypeID == unitTypeID && a.FloorNumber == floorNumber {
			return i
		}
	}
	return -1
}
