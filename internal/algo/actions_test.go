package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/warehouse-planner/internal/core"
)

func countType(actions []core.Action, t core.ActionType) int {
	n := 0
	for _, a := range actions {
		if a.Type == t {
			n++
		}
	}
	return n
}

func TestCandidatesMovesStayOnGrid(t *testing.T) {
	inst := gridInstance(3, 3)
	inst.Robots = []*core.Robot{{ID: 1, Start: core.Coord{X: 1, Y: 1}}}
	inst.DeriveBounds()
	s := core.NewInitialState(inst)

	out := Candidates(inst, s, 1)

	assert.Equal(t, 2, countType(out, core.ActionMove), "corner cell has two exits")
	for _, a := range out {
		if a.Type == core.ActionMove {
			target := core.Coord{X: 1 + a.DX, Y: 1 + a.DY}
			assert.True(t, inst.Warehouse.IsNode(target), "move %v leaves the grid", a)
		}
	}
}

func TestCandidatesPickupOnlyOnShelfCell(t *testing.T) {
	inst := deliveryScenario()
	s := core.NewInitialState(inst)

	// Robot starts at (4,3), shelf sits at (3,3): no pickup yet.
	out := Candidates(inst, s, 1)
	assert.Zero(t, countType(out, core.ActionPickup))

	s.RobotPos[1] = core.Coord{X: 3, Y: 3}
	out = Candidates(inst, s, 1)
	assert.Equal(t, 1, countType(out, core.ActionPickup))

	// Carrying robots never pick up a second shelf.
	s.Carries[1] = 1
	delete(s.FloorPos, 1)
	out = Candidates(inst, s, 1)
	assert.Zero(t, countType(out, core.ActionPickup))
}

func TestCandidatesPutdownRules(t *testing.T) {
	inst := deliveryScenario()
	s := core.NewInitialState(inst)
	s.Carries[1] = 1
	delete(s.FloorPos, 1)

	out := Candidates(inst, s, 1)
	assert.Equal(t, 1, countType(out, core.ActionPutdown))

	// Highway cells refuse shelves.
	inst.Warehouse.AddHighway(s.RobotPos[1])
	out = Candidates(inst, s, 1)
	assert.Zero(t, countType(out, core.ActionPutdown))
}

func TestCandidatesPutdownBlockedByFloorShelf(t *testing.T) {
	inst := deliveryScenario()
	inst.Shelves = append(inst.Shelves, &core.Shelf{ID: 2, Start: core.Coord{X: 2, Y: 2}, Stock: map[core.ProductID]int{}})
	inst.DeriveBounds()
	s := core.NewInitialState(inst)
	s.Carries[1] = 1
	delete(s.FloorPos, 1)
	s.RobotPos[1] = core.Coord{X: 2, Y: 2}

	out := Candidates(inst, s, 1)
	assert.Zero(t, countType(out, core.ActionPutdown), "cell already holds shelf 2")
}

func TestCandidatesDeliverAmounts(t *testing.T) {
	inst := deliveryScenario()
	s := core.NewInitialState(inst)
	s.Carries[1] = 1
	delete(s.FloorPos, 1)
	s.RobotPos[1] = core.Coord{X: 1, Y: 3}

	out := Candidates(inst, s, 1)

	var delivers []core.Action
	for _, a := range out {
		if a.Type == core.ActionDeliver {
			delivers = append(delivers, a)
		}
	}
	require.Len(t, delivers, 2, "stock 2, demand 2, unit bound 2")
	assert.Equal(t, core.Deliver(1, 1, 1), delivers[0])
	assert.Equal(t, core.Deliver(1, 1, 2), delivers[1])
}

func TestCandidatesDeliverCappedByStock(t *testing.T) {
	inst := deliveryScenario()
	s := core.NewInitialState(inst)
	s.Carries[1] = 1
	delete(s.FloorPos, 1)
	s.RobotPos[1] = core.Coord{X: 1, Y: 3}
	s.Stock[1][1] = 1

	out := Candidates(inst, s, 1)
	assert.Equal(t, 1, countType(out, core.ActionDeliver))
}

func TestCandidatesNoDeliverAwayFromStation(t *testing.T) {
	inst := deliveryScenario()
	s := core.NewInitialState(inst)
	s.Carries[1] = 1
	delete(s.FloorPos, 1)

	out := Candidates(inst, s, 1)
	assert.Zero(t, countType(out, core.ActionDeliver))
}
