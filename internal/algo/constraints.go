package algo

import "github.com/elektrokombinacija/warehouse-planner/internal/core"

// orderProduct keys the per-timestep deliver aggregation.
type orderProduct struct {
	Order   core.OrderID
	Product core.ProductID
}

// nextRobotPos computes where a robot ends up after its chosen action.
func nextRobotPos(prev *core.State, r core.RobotID, a core.Action) core.Coord {
	pos := prev.RobotPos[r]
	if a.Type == core.ActionMove {
		return pos.Add(a.DX, a.DY)
	}
	return pos
}

// CheckJoint validates a full joint action (one action-or-none per robot,
// indexed like inst.Robots) against the previous and resulting states.
// The four collision rules are checked against the pre-transition state;
// occupancy rules against the resulting one. Rejection discards the whole
// joint action for this timestep.
func CheckJoint(inst *core.Instance, prev *core.State, joint []core.Action, next *core.State) bool {
	// No two robots on the same resulting coordinate.
	cells := make(map[core.Coord]bool, len(inst.Robots))
	for _, r := range inst.Robots {
		pos := next.RobotPos[r.ID]
		if cells[pos] {
			return false
		}
		cells[pos] = true
	}

	// No direct position exchange between two moving robots.
	for i := 0; i < len(inst.Robots); i++ {
		if joint[i].Type != core.ActionMove {
			continue
		}
		ri := inst.Robots[i].ID
		for j := i + 1; j < len(inst.Robots); j++ {
			if joint[j].Type != core.ActionMove {
				continue
			}
			rj := inst.Robots[j].ID
			if next.RobotPos[ri] == prev.RobotPos[rj] && next.RobotPos[rj] == prev.RobotPos[ri] {
				return false
			}
		}
	}

	// No two shelves on the same resulting floor cell.
	floor := make(map[core.Coord]bool, len(next.FloorPos))
	for _, pos := range next.FloorPos {
		if floor[pos] {
			return false
		}
		floor[pos] = true
	}

	// A carrying robot may not move into a cell that held another floor
	// shelf at the previous timestep.
	for i, r := range inst.Robots {
		if joint[i].Type != core.ActionMove {
			continue
		}
		carried, carrying := prev.CarriedShelf(r.ID)
		if !carrying {
			continue
		}
		if blocker, ok := prev.ShelfAt(next.RobotPos[r.ID]); ok && blocker != carried {
			return false
		}
	}

	// Deliver amounts: positive, covered by the carried shelf's stock and
	// by the order's remaining requirement at the previous timestep, also
	// when several robots serve the same order line simultaneously.
	sums := make(map[orderProduct]int)
	for i, r := range inst.Robots {
		a := joint[i]
		if a.Type != core.ActionDeliver {
			continue
		}
		if a.Amount <= 0 {
			return false
		}
		shelf, carrying := prev.CarriedShelf(r.ID)
		if !carrying || prev.Stock[shelf][a.Product] < a.Amount {
			return false
		}
		key := orderProduct{Order: a.Order, Product: a.Product}
		sums[key] += a.Amount
		if demand, ok := prev.Demand[a.Order]; !ok || demand[a.Product] < sums[key] {
			return false
		}
	}

	return true
}
