package core

import (
	"errors"
	"testing"
)

func stateFixture() (*Instance, *State) {
	inst := NewInstance()
	inst.Warehouse = grid(4, 4)
	inst.Warehouse.AddStation(1, Coord{X: 1, Y: 3})
	inst.Robots = []*Robot{{ID: 1, Start: Coord{X: 4, Y: 3}}}
	inst.Shelves = []*Shelf{{ID: 1, Start: Coord{X: 3, Y: 3}, Stock: map[ProductID]int{1: 2}}}
	inst.Orders = []*Order{{ID: 1, Station: 1, Lines: map[ProductID]int{1: 2}}}
	inst.DeriveBounds()
	return inst, NewInitialState(inst)
}

func TestNewInitialState(t *testing.T) {
	inst, s := stateFixture()

	if s.T != 0 {
		t.Errorf("initial timestep = %d, want 0", s.T)
	}
	if got := s.RobotPos[1]; got != (Coord{X: 4, Y: 3}) {
		t.Errorf("robot at %v", got)
	}
	if _, carrying := s.CarriedShelf(1); carrying {
		t.Error("robot should start empty-handed")
	}
	if got := s.FloorPos[1]; got != (Coord{X: 3, Y: 3}) {
		t.Errorf("shelf at %v", got)
	}
	if s.GoalReached() {
		t.Error("goal should be open")
	}
	if got := s.RemainingUnits(); got != 2 {
		t.Errorf("remaining units = %d, want 2", got)
	}
	if err := s.CheckInvariants(inst); err != nil {
		t.Errorf("initial state breaks invariants: %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	_, s := stateFixture()
	c := s.Clone()

	c.RobotPos[1] = Coord{X: 1, Y: 1}
	c.Carries[1] = 1
	delete(c.FloorPos, 1)
	c.Stock[1][1] = 0
	c.Demand[1][1] = 0

	if s.RobotPos[1] != (Coord{X: 4, Y: 3}) {
		t.Error("clone mutated original robot position")
	}
	if _, carrying := s.CarriedShelf(1); carrying {
		t.Error("clone mutated original carrying relation")
	}
	if _, ok := s.FloorPos[1]; !ok {
		t.Error("clone mutated original floor positions")
	}
	if s.Stock[1][1] != 2 || s.Demand[1][1] != 2 {
		t.Error("clone mutated original quantities")
	}
}

func TestCheckInvariants(t *testing.T) {
	tests := []struct {
		name    string
		breakIt func(*Instance, *State)
	}{
		{"two robots share a cell", func(inst *Instance, s *State) {
			inst.Robots = append(inst.Robots, &Robot{ID: 2})
			s.RobotPos[2] = s.RobotPos[1]
		}},
		{"two floor shelves share a cell", func(inst *Instance, s *State) {
			s.FloorPos[2] = s.FloorPos[1]
		}},
		{"shelf on highway", func(inst *Instance, s *State) {
			inst.Warehouse.AddHighway(s.FloorPos[1])
		}},
		{"shelf both carried and on floor", func(inst *Instance, s *State) {
			s.Carries[1] = 1
		}},
		{"negative stock", func(inst *Instance, s *State) {
			s.Stock[1][1] = -1
		}},
		{"negative requirement", func(inst *Instance, s *State) {
			s.Demand[1][1] = -1
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, s := stateFixture()
			tt.breakIt(inst, s)
			err := s.CheckInvariants(inst)
			if err == nil {
				t.Fatal("expected invariant violation")
			}
			if !errors.Is(err, ErrInvariant) {
				t.Errorf("error %v does not wrap ErrInvariant", err)
			}
		})
	}
}

func TestPlanMakespan(t *testing.T) {
	plan := Plan{
		{Robot: 1, Action: Move(-1, 0), Time: 1},
		{Robot: 1, Action: Pickup(), Time: 2},
		{Robot: 1, Action: Deliver(1, 1, 2), Time: 5},
	}
	if got := plan.Makespan(); got != 5 {
		t.Errorf("makespan = %d, want 5", got)
	}
	if got := (Plan{}).Makespan(); got != 0 {
		t.Errorf("empty plan makespan = %d, want 0", got)
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{Move(-1, 0), "move(-1,0)"},
		{Pickup(), "pickup"},
		{Putdown(), "putdown"},
		{Deliver(1, 2, 3), "deliver(1,2,3)"},
		{Action{}, "none"},
	}
	for _, tt := range tests {
		if got := tt.action.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
