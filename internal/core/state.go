package core

import (
	"errors"
	"fmt"
)

// ErrInvariant marks internal engine defects: a transition or constraint
// check admitted a state that breaks the world invariants. Never
// user-reachable; callers treat it as fatal.
var ErrInvariant = errors.New("invariant violation")

// State is an immutable snapshot of all time-indexed facts at one
// timestep. Later states derive from earlier ones only through the
// transition function; the search discards rejected branches without
// mutating committed states.
type State struct {
	T int // Timestep this snapshot belongs to

	RobotPos map[RobotID]Coord
	Carries  map[RobotID]ShelfID   // Present iff the robot carries a shelf
	FloorPos map[ShelfID]Coord     // Present iff the shelf rests on the floor
	Stock    map[ShelfID]map[ProductID]int
	Demand   map[OrderID]map[ProductID]int // Remaining required units
}

// NewInitialState builds the timestep-0 snapshot from an instance.
func NewInitialState(inst *Instance) *State {
	s := &State{
		T:        0,
		RobotPos: make(map[RobotID]Coord, len(inst.Robots)),
		Carries:  make(map[RobotID]ShelfID),
		FloorPos: make(map[ShelfID]Coord, len(inst.Shelves)),
		Stock:    make(map[ShelfID]map[ProductID]int, len(inst.Shelves)),
		Demand:   make(map[OrderID]map[ProductID]int, len(inst.Orders)),
	}
	for _, r := range inst.Robots {
		s.RobotPos[r.ID] = r.Start
	}
	for _, sh := range inst.Shelves {
		s.FloorPos[sh.ID] = sh.Start
		stock := make(map[ProductID]int, len(sh.Stock))
		for p, q := range sh.Stock {
			stock[p] = q
		}
		s.Stock[sh.ID] = stock
	}
	for _, o := range inst.Orders {
		demand := make(map[ProductID]int, len(o.Lines))
		for p, q := range o.Lines {
			if q > 0 {
				demand[p] = q
			}
		}
		s.Demand[o.ID] = demand
	}
	return s
}

// Clone returns a deep copy. The transition function mutates the copy and
// freezes it; committed states are never touched again.
func (s *State) Clone() *State {
	next := &State{
		T:        s.T,
		RobotPos: make(map[RobotID]Coord, len(s.RobotPos)),
		Carries:  make(map[RobotID]ShelfID, len(s.Carries)),
		FloorPos: make(map[ShelfID]Coord, len(s.FloorPos)),
		Stock:    make(map[ShelfID]map[ProductID]int, len(s.Stock)),
		Demand:   make(map[OrderID]map[ProductID]int, len(s.Demand)),
	}
	for r, c := range s.RobotPos {
		next.RobotPos[r] = c
	}
	for r, sh := range s.Carries {
		next.Carries[r] = sh
	}
	for sh, c := range s.FloorPos {
		next.FloorPos[sh] = c
	}
	for sh, stock := range s.Stock {
		cp := make(map[ProductID]int, len(stock))
		for p, q := range stock {
			cp[p] = q
		}
		next.Stock[sh] = cp
	}
	for o, demand := range s.Demand {
		cp := make(map[ProductID]int, len(demand))
		for p, q := range demand {
			cp[p] = q
		}
		next.Demand[o] = cp
	}
	return next
}

// ShelfAt returns the floor shelf occupying a cell, if any.
func (s *State) ShelfAt(c Coord) (ShelfID, bool) {
	for sh, pos := range s.FloorPos {
		if pos == c {
			return sh, true
		}
	}
	return 0, false
}

// CarriedShelf returns the shelf carried by a robot, if any.
func (s *State) CarriedShelf(r RobotID) (ShelfID, bool) {
	sh, ok := s.Carries[r]
	return sh, ok
}

// GoalReached reports whether every order's every requirement is zero.
func (s *State) GoalReached() bool {
	for _, demand := range s.Demand {
		for _, q := range demand {
			if q > 0 {
				return false
			}
		}
	}
	return true
}

// RemainingUnits sums all outstanding order requirements.
func (s *State) RemainingUnits() int {
	total := 0
	for _, demand := range s.Demand {
		for _, q := range demand {
			total += q
		}
	}
	return total
}

// CheckInvariants verifies the world invariants that must hold at every
// timestep. A non-nil result wraps ErrInvariant and indicates an engine
// bug, not bad input.
func (s *State) CheckInvariants(inst *Instance) error {
	robotCells := make(map[Coord]RobotID, len(s.RobotPos))
	for r, c := range s.RobotPos {
		if !inst.Warehouse.IsNode(c) {
			return fmt.Errorf("%w: robot %d off-grid at (%d,%d) t=%d", ErrInvariant, r, c.X, c.Y, s.T)
		}
		if other, ok := robotCells[c]; ok {
			return fmt.Errorf("%w: robots %d and %d share (%d,%d) t=%d", ErrInvariant, other, r, c.X, c.Y, s.T)
		}
		robotCells[c] = r
	}

	shelfCells := make(map[Coord]ShelfID, len(s.FloorPos))
	for sh, c := range s.FloorPos {
		if inst.Warehouse.IsHighway(c) {
			return fmt.Errorf("%w: shelf %d rests on highway (%d,%d) t=%d", ErrInvariant, sh, c.X, c.Y, s.T)
		}
		if other, ok := shelfCells[c]; ok {
			return fmt.Errorf("%w: shelves %d and %d share (%d,%d) t=%d", ErrInvariant, other, sh, c.X, c.Y, s.T)
		}
		shelfCells[c] = sh
	}

	carriers := make(map[ShelfID]RobotID, len(s.Carries))
	for r, sh := range s.Carries {
		if _, onFloor := s.FloorPos[sh]; onFloor {
			return fmt.Errorf("%w: shelf %d both carried and on floor t=%d", ErrInvariant, sh, s.T)
		}
		if other, ok := carriers[sh]; ok {
			return fmt.Errorf("%w: shelf %d carried by robots %d and %d t=%d", ErrInvariant, sh, other, r, s.T)
		}
		carriers[sh] = r
	}

	for sh, stock := range s.Stock {
		for p, q := range stock {
			if q < 0 {
				return fmt.Errorf("%w: shelf %d holds %d units of product %d t=%d", ErrInvariant, sh, q, p, s.T)
			}
		}
	}
	for o, demand := range s.Demand {
		for p, q := range demand {
			if q < 0 {
				return fmt.Errorf("%w: order %d requires %d units of product %d t=%d", ErrInvariant, o, q, p, s.T)
			}
		}
	}
	return nil
}
