package model

// Use is the primary or secondary occupancy of a floor or template.
type Use string

const (
	UseResidential Use = "residential"
	UseOffice      Use = "office"
	UseRetail      Use = "retail"
	UseParking     Use = "parking"
	UseHotel       Use = "hotel"
	UseAmenities   Use = "amenities"
	UseStorage     Use = "storage"
	UseMechanical  Use = "mechanical"
)

// Uses lists every valid Use in display order.
var Uses = []Use{
	UseResidential, UseOffice, UseRetail, UseParking,
	UseHotel, UseAmenities, UseStorage, UseMechanical,
}

// Valid reports whether u is one of the known uses.
func (u Use) Valid() bool {
	for _, v := range Uses {
		if u == v {
			return true
		}
	}
	return false
}

// FloorPlateTemplate is a reusable floor-shape preset.
type FloorPlateTemplate struct {
	ID                 string  `json:"id" yaml:"id"`
	Name               string  `json:"name" yaml:"name" validate:"required"`
	GrossArea          float64 `json:"grossArea" yaml:"gross_area" validate:"gt=0"`
	FloorToFloorHeight float64 `json:"floorToFloorHeight" yaml:"floor_to_floor_height" validate:"gt=0"`
	EfficiencyFactor   float64 `json:"efficiencyFactor" yaml:"efficiency_factor" validate:"gte=0,lte=100"`
	CorePercentage     float64 `json:"corePercentage" yaml:"core_percentage" validate:"gte=0,lte=100"`
	PrimaryUse         Use     `json:"primaryUse" yaml:"primary_use" validate:"required,use"`
	Description        string  `json:"description,omitempty" yaml:"description"`
}

// FloorConfiguration is one floor of the building. Numeric fields are form
// values and may be blank; a blank efficiency reads as zero, not a default.
type FloorConfiguration struct {
	FloorNumber            int               `json:"floorNumber"`
	IsUnderground          bool              `json:"isUnderground"`
	TemplateID             string            `json:"templateId,omitempty"`
	CustomSquareFootage    Quantity          `json:"customSquareFootage"`
	FloorToFloorHeight     Quantity          `json:"floorToFloorHeight"`
	EfficiencyFactor       Quantity          `json:"efficiencyFactor"`
	CorePercentage         Quantity          `json:"corePercentage"`
	PrimaryUse             Use               `json:"primaryUse"`
	SecondaryUse           Use               `json:"secondaryUse,omitempty"`
	SecondaryUsePercentage Quantity          `json:"secondaryUsePercentage"`
	Spaces                 []SpaceDefinition `json:"spaces"`
}

// Clone returns a deep copy of the floor, including its spaces.
func (f FloorConfiguration) Clone() FloorConfiguration {
	out := f
	if f.Spaces != nil {
		out.Spaces = make([]SpaceDefinition, len(f.Spaces))
		for i, s := range f.Spaces {
			out.Spaces[i] = s.Clone()
		}
	}
	return out
}

// SpaceType classifies a space inside a floor.
type SpaceType string

const (
	SpaceOffice      SpaceType = "office"
	SpaceResidential SpaceType = "residential"
	SpaceRetail      SpaceType = "retail"
	SpaceCore        SpaceType = "core"
	SpaceAmenities   SpaceType = "amenities"
	SpaceMechanical  SpaceType = "mechanical"
	SpaceIndustrial  SpaceType = "industrial"
	SpaceCommon      SpaceType = "common"
)

// SpaceSubTypes is the fixed type → allowed subtype lookup table.
var SpaceSubTypes = map[SpaceType][]string{
	SpaceOffice:      {"open-plan", "private-office", "coworking", "conference", "executive"},
	SpaceResidential: {"studio", "one-bedroom", "two-bedroom", "three-bedroom", "penthouse"},
	SpaceRetail:      {"storefront", "restaurant", "grocery", "showroom", "kiosk"},
	SpaceCore:        {"elevator", "stair", "shaft", "restroom", "corridor"},
	SpaceAmenities:   {"fitness", "lounge", "pool", "roof-deck", "business-center"},
	SpaceMechanical:  {"electrical", "hvac", "plumbing", "telecom"},
	SpaceIndustrial:  {"warehouse", "flex", "loading", "manufacturing"},
	SpaceCommon:      {"lobby", "mailroom", "bike-storage", "trash"},
}

// Valid reports whether t is a known space type.
func (t SpaceType) Valid() bool {
	_, ok := SpaceSubTypes[t]
	return ok
}

// AllowsSubType reports whether sub is permitted for the space type.
// An empty subtype is always permitted.
func (t SpaceType) AllowsSubType(sub string) bool {
	if sub == "" {
		return true
	}
	for _, s := range SpaceSubTypes[t] {
		if s == sub {
			return true
		}
	}
	return false
}

// Dimensions are the optional width and depth of a space in feet.
type Dimensions struct {
	Width Quantity `json:"width"`
	Depth Quantity `json:"depth"`
}

// SpaceDefinition is a named area carved out of a floor.
type SpaceDefinition struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Type          SpaceType  `json:"type"`
	SubType       string     `json:"subType,omitempty"`
	SquareFootage Quantity   `json:"squareFootage"`
	Dimensions    Dimensions `json:"dimensions"`
	IsRentable    bool       `json:"isRentable"`
}

// Clone returns a copy of the space.
func (s SpaceDefinition) Clone() SpaceDefinition {
	return s
}
