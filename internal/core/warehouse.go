package core

// Warehouse represents the static grid layout.
type Warehouse struct {
	Nodes    map[Coord]bool      // Traversable cells
	Highways map[Coord]bool      // Cells where shelves may never rest
	Stations map[StationID]Coord // Picking station positions

	MaxX, MaxY int // Grid extents, derived from the node set
}

// NewWarehouse creates an empty warehouse.
func NewWarehouse() *Warehouse {
	return &Warehouse{
		Nodes:    make(map[Coord]bool),
		Highways: make(map[Coord]bool),
		Stations: make(map[StationID]Coord),
	}
}

// AddNode marks a cell as traversable and grows the grid extents.
func (w *Warehouse) AddNode(c Coord) {
	w.Nodes[c] = true
	if c.X > w.MaxX {
		w.MaxX = c.X
	}
	if c.Y > w.MaxY {
		w.MaxY = c.Y
	}
}

// AddHighway marks a cell as a highway. Highways are also traversable.
func (w *Warehouse) AddHighway(c Coord) {
	w.Highways[c] = true
	w.AddNode(c)
}

// AddStation places a picking station. Station cells are traversable.
func (w *Warehouse) AddStation(id StationID, c Coord) {
	w.Stations[id] = c
	w.AddNode(c)
}

// IsNode reports whether a cell is traversable.
func (w *Warehouse) IsNode(c Coord) bool {
	return w.Nodes[c]
}

// IsHighway reports whether shelves are forbidden from resting at the cell.
func (w *Warehouse) IsHighway(c Coord) bool {
	return w.Highways[c]
}

// Neighbors returns the traversable cells one unit step away.
func (w *Warehouse) Neighbors(c Coord) []Coord {
	out := make([]Coord, 0, 4)
	for _, d := range Directions {
		n := c.Add(d.X, d.Y)
		if w.Nodes[n] {
			out = append(out, n)
		}
	}
	return out
}
