package model

// Category groups unit types and supplies their default color.
type Category struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// UnitType is a kind of leasable unit (an apartment layout, an office suite).
// Count is a planning target only and is never enforced against allocations.
type UnitType struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	TypicalSize float64 `json:"typicalSize"`
	Count       int     `json:"count"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
}

// AllocationStatus tracks how far along an allocation is.
type AllocationStatus string

const (
	AllocationPlanned     AllocationStatus = "planned"
	AllocationDesigned    AllocationStatus = "designed"
	AllocationConstructed AllocationStatus = "constructed"
)

// Valid reports whether s is a known status.
func (s AllocationStatus) Valid() bool {
	switch s {
	case AllocationPlanned, AllocationDesigned, AllocationConstructed:
		return true
	}
	return false
}

// UnitAllocation places Count units of a unit type on a floor. SquareFootage is
// the per-unit size recorded when the allocation was made and does not follow
// later edits to the unit type.
type UnitAllocation struct {
	ID            string           `json:"id"`
	UnitTypeID    string           `json:"unitTypeId"`
	FloorNumber   int              `json:"floorNumber"`
	Count         int              `json:"count"`
	SquareFootage float64          `json:"squareFootage"`
	Status        AllocationStatus `json:"status"`
	Notes         string           `json:"notes,omitempty"`
}

// Area is the total area consumed by the allocation.
func (a UnitAllocation) Area() float64 {
	return float64(a.Count) * a.SquareFootage
}
