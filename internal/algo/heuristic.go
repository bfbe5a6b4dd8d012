package algo

import (
	"sync"

	"github.com/elektrokombinacija/warehouse-planner/internal/core"
)

// infinity is an unreachable distance / impossible bound marker.
const infinity = 1 << 30

// distOracle memoizes BFS grid distances per source cell. Safe for
// concurrent use by branch workers; the warehouse itself is read-only.
type distOracle struct {
	w  *core.Warehouse
	mu sync.Mutex
	by map[core.Coord]map[core.Coord]int
}

func newDistOracle(w *core.Warehouse) *distOracle {
	return &distOracle{w: w, by: make(map[core.Coord]map[core.Coord]int)}
}

// dist returns the shortest traversal distance between two cells, or
// infinity if no path exists.
func (d *distOracle) dist(from, to core.Coord) int {
	d.mu.Lock()
	m, ok := d.by[from]
	if !ok {
		m = d.bfs(from)
		d.by[from] = m
	}
	d.mu.Unlock()

	if v, ok := m[to]; ok {
		return v
	}
	return infinity
}

func (d *distOracle) bfs(from core.Coord) map[core.Coord]int {
	dist := map[core.Coord]int{from: 0}
	queue := []core.Coord{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range d.w.Neighbors(cur) {
			if _, seen := dist[n]; !seen {
				dist[n] = dist[cur] + 1
				queue = append(queue, n)
			}
		}
	}
	return dist
}

func addSat(a, b int) int {
	if a >= infinity || b >= infinity {
		return infinity
	}
	return a + b
}

// lowerBound returns an admissible estimate of the timesteps still needed
// to satisfy every outstanding order line, ignoring inter-robot
// collisions. It returns infinity when no completion can exist at all
// (demand exceeds total stock, or no robot can ever serve a line), which
// prunes the whole branch.
func lowerBound(inst *core.Instance, s *core.State, d *distOracle) int {
	lb := 0
	for _, o := range inst.Orders {
		station, ok := inst.Warehouse.Stations[o.Station]
		if !ok {
			return infinity
		}
		for p, need := range s.Demand[o.ID] {
			if need <= 0 {
				continue
			}

			avail := 0
			for _, stock := range s.Stock {
				avail += stock[p]
			}
			if avail < need {
				return infinity
			}

			best := infinity
			for _, r := range inst.Robots {
				if c := serveCost(inst, s, d, r.ID, p, station); c < best {
					best = c
				}
			}
			if best >= infinity {
				return infinity
			}
			if best > lb {
				lb = best
			}
		}
	}
	return lb
}

// serveCost lower-bounds the steps robot r needs before it can place the
// final deliver for product p at the station.
func serveCost(inst *core.Instance, s *core.State, d *distOracle, r core.RobotID, p core.ProductID, station core.Coord) int {
	pos := s.RobotPos[r]

	if shelf, carrying := s.CarriedShelf(r); carrying {
		if s.Stock[shelf][p] > 0 {
			// Travel to the station, then deliver.
			return addSat(d.dist(pos, station), 1)
		}
		// Must shed the useless shelf before fetching a stocked one.
		best := infinity
		for sh, shelfPos := range s.FloorPos {
			if s.Stock[sh][p] <= 0 {
				continue
			}
			c := addSat(1, addSat(d.dist(pos, shelfPos), addSat(1, addSat(d.dist(shelfPos, station), 1))))
			if c < best {
				best = c
			}
		}
		return best
	}

	// Fetch a stocked floor shelf, carry it to the station, deliver.
	best := infinity
	for sh, shelfPos := range s.FloorPos {
		if s.Stock[sh][p] <= 0 {
			continue
		}
		c := addSat(d.dist(pos, shelfPos), addSat(1, addSat(d.dist(shelfPos, station), 1)))
		if c < best {
			best = c
		}
	}
	return best
}

// shelfUseful reports whether the shelf still stocks any product some
// order requires.
func shelfUseful(inst *core.Instance, s *core.State, shelf core.ShelfID) bool {
	stock := s.Stock[shelf]
	for _, o := range inst.Orders {
		for p, need := range s.Demand[o.ID] {
			if need > 0 && stock[p] > 0 {
				return true
			}
		}
	}
	return false
}

// moveTarget picks the cell a robot should head for: the best station it
// can serve with its carried shelf, or the nearest useful floor shelf.
// Returns false when the robot has no productive destination.
func moveTarget(inst *core.Instance, s *core.State, d *distOracle, r core.RobotID) (core.Coord, bool) {
	pos := s.RobotPos[r]

	if shelf, carrying := s.CarriedShelf(r); carrying {
		stock := s.Stock[shelf]
		best, bestDist := core.Coord{}, infinity
		for _, o := range inst.Orders {
			station, ok := inst.Warehouse.Stations[o.Station]
			if !ok {
				continue
			}
			for p, need := range s.Demand[o.ID] {
				if need > 0 && stock[p] > 0 {
					if c := d.dist(pos, station); c < bestDist {
						best, bestDist = station, c
					}
					break
				}
			}
		}
		return best, bestDist < infinity
	}

	best, bestDist := core.Coord{}, infinity
	for _, sh := range inst.Shelves {
		shelfPos, onFloor := s.FloorPos[sh.ID]
		if !onFloor || !shelfUseful(inst, s, sh.ID) {
			continue
		}
		if c := d.dist(pos, shelfPos); c < bestDist {
			best, bestDist = shelfPos, c
		}
	}
	return best, bestDist < infinity
}
