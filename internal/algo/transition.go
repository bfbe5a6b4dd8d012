package algo

import (
	"fmt"

	"github.com/elektrokombinacija/warehouse-planner/internal/core"
)

// Apply computes the successor state for an accepted joint action. The
// whole joint action is one atomic step: every effect reads the previous
// state, never an intermediate one. Facts no action touches are copied
// forward unchanged (inertia).
//
// Apply performs no cross-robot legality checks; callers gate joint
// actions through CheckJoint first. It does reject per-robot effects whose
// preconditions do not hold in the previous state, since applying one
// would corrupt the world; such an error wraps core.ErrInvariant and
// indicates an engine defect.
func Apply(inst *core.Instance, prev *core.State, joint []core.Action) (*core.State, error) {
	next := prev.Clone()
	next.T = prev.T + 1

	for i, r := range inst.Robots {
		a := joint[i]
		pos := prev.RobotPos[r.ID]

		switch a.Type {
		case core.ActionNone:
			// Inertia.

		case core.ActionMove:
			next.RobotPos[r.ID] = pos.Add(a.DX, a.DY)

		case core.ActionPickup:
			if _, carrying := prev.CarriedShelf(r.ID); carrying {
				return nil, fmt.Errorf("%w: robot %d picks up while carrying at t=%d", core.ErrInvariant, r.ID, next.T)
			}
			shelf, ok := prev.ShelfAt(pos)
			if !ok {
				return nil, fmt.Errorf("%w: robot %d picks up empty cell (%d,%d) at t=%d", core.ErrInvariant, r.ID, pos.X, pos.Y, next.T)
			}
			next.Carries[r.ID] = shelf
			delete(next.FloorPos, shelf)

		case core.ActionPutdown:
			shelf, carrying := prev.CarriedShelf(r.ID)
			if !carrying {
				return nil, fmt.Errorf("%w: robot %d puts down nothing at t=%d", core.ErrInvariant, r.ID, next.T)
			}
			delete(next.Carries, r.ID)
			next.FloorPos[shelf] = pos

		case core.ActionDeliver:
			shelf, carrying := prev.CarriedShelf(r.ID)
			if !carrying {
				return nil, fmt.Errorf("%w: robot %d delivers without a shelf at t=%d", core.ErrInvariant, r.ID, next.T)
			}
			next.Stock[shelf][a.Product] -= a.Amount
			next.Demand[a.Order][a.Product] -= a.Amount

		default:
			return nil, fmt.Errorf("%w: unknown action type %d at t=%d", core.ErrInvariant, a.Type, next.T)
		}
	}

	return next, nil
}
