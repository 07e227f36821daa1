package floor

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Direction moves a floor within its level.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Reorder swaps a floor with its neighbor in the given direction, staying on
// its own side of ground level. Both floors take each other's numbers and
// their allocations move with them. It returns false and changes nothing when
// the floor is already at the edge of its level.
func (s *Store) Reorder(floorNumber int, dir Direction) (bool, error) {
	i := s.index(floorNumber)
	if i < 0 {
		return false, eris.Wrapf(ErrFloorNotFound, "floor %d", floorNumber)
	}
	if dir != DirectionUp && dir != DirectionDown {
		return false, eris.Wrapf(ErrInvalidValue, "direction %q", dir)
	}

	// Floors are sorted ascending, so the neighbor above is i+1 and the one
	// below is i-1, provided it sits on the same side of ground.
	j := i + 1
	if dir == DirectionDown {
		j = i - 1
	}
	if j < 0 || j >= len(s.floors) {
		return false, nil
	}
	underground := floorNumber < 0
	if (s.floors[j].FloorNumber < 0) != underground {
		return false, nil
	}

	a, b := s.floors[i].FloorNumber, s.floors[j].FloorNumber
	s.floors[i].FloorNumber, s.floors[j].FloorNumber = b, a
	s.floors[i], s.floors[j] = s.floors[j], s.floors[i]

	if s.cascade != nil {
		moved := s.cascade.SwapFloors(a, b)
		zap.L().Debug("floor: reordered",
			zap.Int("from", a),
			zap.Int("to", b),
			zap.Int("allocations_moved", moved),
		)
	}
	s.version++
	return true, nil
}
