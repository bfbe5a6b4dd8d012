package core

import (
	"errors"
	"fmt"
	"sort"
)

// ErrMalformed marks instance validation failures. No search is attempted
// on a malformed instance.
var ErrMalformed = errors.New("malformed instance")

// Instance represents a complete warehouse planning problem.
type Instance struct {
	Warehouse *Warehouse
	Robots    []*Robot
	Shelves   []*Shelf
	Orders    []*Order
	Products  []ProductID

	// UnitBound is the largest quantity appearing in any initial shelf
	// stock or order line. Deliver amounts range over 1..UnitBound.
	// Defaults to 1 when the instance carries no quantities at all.
	UnitBound int
}

// NewInstance creates an empty instance.
func NewInstance() *Instance {
	return &Instance{
		Warehouse: NewWarehouse(),
		UnitBound: 1,
	}
}

// DeriveBounds recomputes UnitBound and the product list from the current
// robots, shelves and orders. Called once after loading; the result is
// never mutated afterwards.
func (inst *Instance) DeriveBounds() {
	maxUnits := 0
	products := make(map[ProductID]bool)
	for _, s := range inst.Shelves {
		for p, q := range s.Stock {
			products[p] = true
			if q > maxUnits {
				maxUnits = q
			}
		}
	}
	for _, o := range inst.Orders {
		for p, q := range o.Lines {
			products[p] = true
			if q > maxUnits {
				maxUnits = q
			}
		}
	}
	if maxUnits == 0 {
		maxUnits = 1
	}
	inst.UnitBound = maxUnits

	inst.Products = inst.Products[:0]
	for p := range products {
		inst.Products = append(inst.Products, p)
	}
	sort.Slice(inst.Products, func(i, j int) bool { return inst.Products[i] < inst.Products[j] })
}

// Validate checks instance consistency. Any failure wraps ErrMalformed.
func (inst *Instance) Validate() error {
	if inst.Warehouse == nil || len(inst.Warehouse.Nodes) == 0 {
		return fmt.Errorf("%w: no traversable nodes", ErrMalformed)
	}

	seenRobots := make(map[RobotID]bool)
	occupied := make(map[Coord]RobotID)
	for _, r := range inst.Robots {
		if seenRobots[r.ID] {
			return fmt.Errorf("%w: duplicate robot %d", ErrMalformed, r.ID)
		}
		seenRobots[r.ID] = true
		if !inst.Warehouse.IsNode(r.Start) {
			return fmt.Errorf("%w: robot %d starts off-grid at (%d,%d)", ErrMalformed, r.ID, r.Start.X, r.Start.Y)
		}
		if other, ok := occupied[r.Start]; ok {
			return fmt.Errorf("%w: robots %d and %d share start (%d,%d)", ErrMalformed, other, r.ID, r.Start.X, r.Start.Y)
		}
		occupied[r.Start] = r.ID
	}

	seenShelves := make(map[ShelfID]bool)
	floor := make(map[Coord]ShelfID)
	for _, s := range inst.Shelves {
		if seenShelves[s.ID] {
			return fmt.Errorf("%w: duplicate shelf %d", ErrMalformed, s.ID)
		}
		seenShelves[s.ID] = true
		if !inst.Warehouse.IsNode(s.Start) {
			return fmt.Errorf("%w: shelf %d starts off-grid at (%d,%d)", ErrMalformed, s.ID, s.Start.X, s.Start.Y)
		}
		if inst.Warehouse.IsHighway(s.Start) {
			return fmt.Errorf("%w: shelf %d starts on highway (%d,%d)", ErrMalformed, s.ID, s.Start.X, s.Start.Y)
		}
		if other, ok := floor[s.Start]; ok {
			return fmt.Errorf("%w: shelves %d and %d share cell (%d,%d)", ErrMalformed, other, s.ID, s.Start.X, s.Start.Y)
		}
		floor[s.Start] = s.ID
		for p, q := range s.Stock {
			if q < 0 {
				return fmt.Errorf("%w: shelf %d holds negative stock of product %d", ErrMalformed, s.ID, p)
			}
		}
	}

	seenOrders := make(map[OrderID]bool)
	for _, o := range inst.Orders {
		if seenOrders[o.ID] {
			return fmt.Errorf("%w: duplicate order %d", ErrMalformed, o.ID)
		}
		seenOrders[o.ID] = true
		if _, ok := inst.Warehouse.Stations[o.Station]; !ok {
			return fmt.Errorf("%w: order %d bound to unknown station %d", ErrMalformed, o.ID, o.Station)
		}
		for p, q := range o.Lines {
			if q < 0 {
				return fmt.Errorf("%w: order %d requires negative units of product %d", ErrMalformed, o.ID, p)
			}
		}
	}

	return nil
}

// RobotByID finds a robot by ID.
func (inst *Instance) RobotByID(id RobotID) *Robot {
	for _, r := range inst.Robots {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// ShelfByID finds a shelf by ID.
func (inst *Instance) ShelfByID(id ShelfID) *Shelf {
	for _, s := range inst.Shelves {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// OrderByID finds an order by ID.
func (inst *Instance) OrderByID(id OrderID) *Order {
	for _, o := range inst.Orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}
