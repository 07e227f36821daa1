package floor

import (
	"math"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cast"

	"github.com/sells-group/proforma/internal/model"
)

// Space field names accepted by UpdateSpace.
const (
	SpaceFieldName          = "name"
	SpaceFieldType          = "type"
	SpaceFieldSubType       = "subType"
	SpaceFieldSquareFootage = "squareFootage"
	SpaceFieldWidth         = "width"
	SpaceFieldDepth         = "depth"
	SpaceFieldIsRentable    = "isRentable"
)

var (
	// ErrSpaceNotFound is returned for an unknown space id.
	ErrSpaceNotFound = eris.New("floor: space not found")
	// ErrInvalidSubType is returned when a subtype is not allowed for the space type.
	ErrInvalidSubType = eris.New("floor: subtype not allowed for space type")
)

// AddSpace appends a space to a floor and returns its id.
func (s *Store) AddSpace(floorNumber int, sp model.SpaceDefinition) (string, error) {
	i := s.index(floorNumber)
	if i < 0 {
		return "", eris.Wrapf(ErrFloorNotFound, "floor %d", floorNumber)
	}
	if sp.Type == "" {
		sp.Type = model.SpaceCommon
	}
	if !sp.Type.Valid() {
		return "", eris.Wrapf(ErrInvalidValue, "space type %q", sp.Type)
	}
	if !sp.Type.AllowsSubType(sp.SubType) {
		return "", eris.Wrapf(ErrInvalidSubType, "%s/%s", sp.Type, sp.SubType)
	}
	if w, d := sp.Dimensions.Width.Float(), sp.Dimensions.Depth.Float(); w > 0 && d > 0 {
		sp.SquareFootage = model.Q(round2(w * d))
	}
	sp.ID = uuid.New().String()
	s.floors[i].Spaces = append(s.floors[i].Spaces, sp)
	s.version++
	return sp.ID, nil
}

// UpdateSpace sets one field of a space. Area and dimensions stay consistent:
// editing width or depth recomputes the area when both are set, and editing
// the area recomputes depth from width (or width from depth).
func (s *Store) UpdateSpace(floorNumber int, spaceID, field string, value any) error {
	i := s.index(floorNumber)
	if i < 0 {
		return eris.Wrapf(ErrFloorNotFound, "floor %d", floorNumber)
	}
	k := spaceIndex(s.floors[i].Spaces, spaceID)
	if k < 0 {
		return eris.Wrapf(ErrSpaceNotFound, "space %s on floor %d", spaceID, floorNumber)
	}
	sp := s.floors[i].Spaces[k]

	switch field {
	case SpaceFieldName:
		sp.Name = cast.ToString(value)
	case SpaceFieldType:
		t := model.SpaceType(cast.ToString(value))
		if !t.Valid() {
			return eris.Wrapf(ErrInvalidValue, "space type %q", t)
		}
		sp.Type = t
		if !t.AllowsSubType(sp.SubType) {
			sp.SubType = ""
		}
	case SpaceFieldSubType:
		sub := cast.ToString(value)
		if !sp.Type.AllowsSubType(sub) {
			return eris.Wrapf(ErrInvalidSubType, "%s/%s", sp.Type, sub)
		}
		sp.SubType = sub
	case SpaceFieldIsRentable:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return eris.Wrapf(err, "floor: isRentable %v", value)
		}
		sp.IsRentable = b
	case SpaceFieldSquareFootage:
		sp.SquareFootage = model.Quantity(cast.ToString(value))
		area := sp.SquareFootage.Float()
		w, d := sp.Dimensions.Width.Float(), sp.Dimensions.Depth.Float()
		switch {
		case area <= 0:
		case w > 0:
			sp.Dimensions.Depth = model.Q(round2(area / w))
		case d > 0:
			sp.Dimensions.Width = model.Q(round2(area / d))
		}
	case SpaceFieldWidth, SpaceFieldDepth:
		q := model.Quantity(cast.ToString(value))
		if field == SpaceFieldWidth {
			sp.Dimensions.Width = q
		} else {
			sp.Dimensions.Depth = q
		}
		if w, d := sp.Dimensions.Width.Float(), sp.Dimensions.Depth.Float(); w > 0 && d > 0 {
			sp.SquareFootage = model.Q(round2(w * d))
		}
	default:
		return eris.Wrapf(ErrUnknownField, "space field %q", field)
	}

	s.floors[i].Spaces[k] = sp
	s.version++
	return nil
}

// RemoveSpace deletes a space from a floor.
func (s *Store) RemoveSpace(floorNumber int, spaceID string) bool {
	i := s.index(floorNumber)
	if i < 0 {
		return false
	}
	k := spaceIndex(s.floors[i].Spaces, spaceID)
	if k < 0 {
		return false
	}
	spaces := s.floors[i].Spaces
	s.floors[i].Spaces = append(spaces[:k:k], spaces[k+1:]...)
	s.version++
	return true
}

func spaceIndex(spaces []model.SpaceDefinition, id string) int {
	for i, sp := range spaces {
		if sp.ID == id {
			return i
		}
	}
	return -1
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
