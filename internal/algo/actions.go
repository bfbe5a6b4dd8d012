package algo

import (
	"sort"

	"github.com/elektrokombinacija/warehouse-planner/internal/core"
)

// Candidates returns the legal candidate actions for one robot in the
// given state. Every emitted action satisfies its own preconditions; the
// joint constraint checker is a cross-robot safety net, not the primary
// precondition source. The implicit no-op is added by the search when
// forming joint actions.
func Candidates(inst *core.Instance, s *core.State, r core.RobotID) []core.Action {
	pos := s.RobotPos[r]
	carried, carrying := s.CarriedShelf(r)

	var out []core.Action

	for _, d := range core.Directions {
		target := pos.Add(d.X, d.Y)
		if inst.Warehouse.IsNode(target) {
			out = append(out, core.Move(d.X, d.Y))
		}
	}

	if !carrying {
		if _, ok := s.ShelfAt(pos); ok {
			out = append(out, core.Pickup())
		}
	}

	if carrying && !inst.Warehouse.IsHighway(pos) {
		if _, occupied := s.ShelfAt(pos); !occupied {
			out = append(out, core.Putdown())
		}
	}

	if carrying {
		out = append(out, deliverCandidates(inst, s, pos, carried)...)
	}

	return out
}

// deliverCandidates emits every (order, product, amount) combination the
// robot could serve from its carried shelf at its current cell.
func deliverCandidates(inst *core.Instance, s *core.State, pos core.Coord, shelf core.ShelfID) []core.Action {
	stock := s.Stock[shelf]
	var out []core.Action

	for _, o := range inst.Orders {
		station, ok := inst.Warehouse.Stations[o.Station]
		if !ok || station != pos {
			continue
		}
		demand := s.Demand[o.ID]

		products := make([]core.ProductID, 0, len(demand))
		for p := range demand {
			products = append(products, p)
		}
		sort.Slice(products, func(i, j int) bool { return products[i] < products[j] })

		for _, p := range products {
			limit := demand[p]
			if stock[p] < limit {
				limit = stock[p]
			}
			if limit > inst.UnitBound {
				limit = inst.UnitBound
			}
			for amount := 1; amount <= limit; amount++ {
				out = append(out, core.Deliver(o.ID, p, amount))
			}
		}
	}
	return out
}
