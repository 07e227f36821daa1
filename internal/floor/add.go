package floor

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/proforma/internal/model"
)

// Position says where a block of new floors goes within its level.
type Position string

const (
	PositionTop      Position = "top"
	PositionBottom   Position = "bottom"
	PositionSpecific Position = "specific"
)

// Numbering selects how new floor numbers are chosen.
type Numbering string

const (
	NumberingSequential Numbering = "sequential"
	NumberingCustom     Numbering = "custom"
)

// ErrNoRoom is returned when a block cannot be placed without crossing ground
// level.
var ErrNoRoom = eris.New("floor: no room for floors at that position")

// AddFloorsRequest describes a block of floors to create.
type AddFloorsRequest struct {
	Count            int       `json:"count"`
	Underground      bool      `json:"isUnderground"`
	TemplateID       string    `json:"templateId"`
	Position         Position  `json:"position"`
	SpecificPosition int       `json:"specificPosition,omitempty"`
	Numbering        Numbering `json:"numberingPattern"`
	CustomNumbers    []int     `json:"customNumbering,omitempty"`
	PrimaryUse       model.Use `json:"primaryUse,omitempty"`
}

// AddFloors creates a block of floors and returns their numbers in ascending
// order. The whole request is rejected if any resulting number is invalid or
// already taken.
func (s *Store) AddFloors(req AddFloorsRequest) ([]int, error) {
	if req.Count <= 0 {
		return nil, eris.Wrapf(ErrInvalidValue, "count %d", req.Count)
	}

	var numbers []int
	var err error
	if req.Numbering == NumberingCustom {
		numbers, err = customNumbers(req)
	} else {
		numbers, err = s.nextNumbers(req)
	}
	if err != nil {
		return nil, err
	}

	for _, n := range numbers {
		if s.index(n) >= 0 {
			return nil, eris.Wrapf(ErrFloorCollision, "floor %d", n)
		}
	}

	use := s.defaultUse(req)
	for _, n := range numbers {
		s.floors = append(s.floors, model.FloorConfiguration{
			FloorNumber:   n,
			IsUnderground: n < 0,
			TemplateID:    req.TemplateID,
			PrimaryUse:    use,
			Spaces:        []model.SpaceDefinition{},
		})
	}
	s.sort()
	s.version++

	out := append([]int(nil), numbers...)
	sort.Ints(out)
	return out, nil
}

func (s *Store) defaultUse(req AddFloorsRequest) model.Use {
	if s.templates != nil && req.TemplateID != "" {
		if tpl, ok := s.templates.Get(req.TemplateID); ok {
			return tpl.PrimaryUse
		}
	}
	if req.PrimaryUse.Valid() {
		return req.PrimaryUse
	}
	if req.Underground {
		return model.UseParking
	}
	return model.UseResidential
}

// nextNumbers picks a contiguous block next to the existing floors of the
// requested level. Above ground "top" extends upward and "bottom" fills
// toward floor 1; below ground "bottom" extends downward and "top" fills
// toward floor -1.
func (s *Store) nextNumbers(req AddFloorsRequest) ([]int, error) {
	var level []int
	for _, f := range s.floors {
		if (f.FloorNumber < 0) == req.Underground {
			level = append(level, f.FloorNumber)
		}
	}
	lo, hi := 0, 0
	if len(level) > 0 {
		lo, hi = level[0], level[len(level)-1]
	}

	var start, step int
	switch {
	case req.Position == PositionSpecific:
		start = req.SpecificPosition
		if req.Underground {
			step = -1
		} else {
			step = 1
		}
	case !req.Underground && req.Position == PositionBottom:
		if len(level) == 0 {
			start, step = 1, 1
		} else {
			start, step = lo-1, -1
		}
	case !req.Underground:
		if len(level) == 0 {
			start = 1
		} else {
			start = hi + 1
		}
		step = 1
	case req.Position == PositionTop:
		if len(level) == 0 {
			start, step = -1, -1
		} else {
			start, step = hi+1, 1
		}
	default:
		if len(level) == 0 {
			start = -1
		} else {
			start = lo - 1
		}
		step = -1
	}

	numbers := make([]int, req.Count)
	for i := range numbers {
		n := start + i*step
		if n == 0 || (n < 0) != req.Underground {
			if req.Position == PositionSpecific {
				return nil, eris.Wrapf(ErrInvalidFloorNumber, "floor %d", n)
			}
			return nil, eris.Wrapf(ErrNoRoom, "%d floors at %s", req.Count, req.Position)
		}
		numbers[i] = n
	}
	return numbers, nil
}

func customNumbers(req AddFloorsRequest) ([]int, error) {
	if len(req.CustomNumbers) != req.Count {
		return nil, eris.Wrapf(ErrInvalidValue, "custom numbering has %d numbers for %d floors", len(req.CustomNumbers), req.Count)
	}
	seen := make(map[int]bool, len(req.CustomNumbers))
	for _, n := range req.CustomNumbers {
		if n == 0 || (n < 0) != req.Underground {
			return nil, eris.Wrapf(ErrInvalidFloorNumber, "floor %d", n)
		}
		if seen[n] {
			return nil, eris.Wrapf(ErrFloorCollision, "floor %d repeated", n)
		}
		seen[n] = true
	}
	return append([]int(nil), req.CustomNumbers...), nil
}
