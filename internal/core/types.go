// Package core defines domain models for the warehouse planner.
package core

// RobotID is a unique robot identifier.
type RobotID int

// ShelfID is a unique shelf identifier.
type ShelfID int

// ProductID is a unique product identifier.
type ProductID int

// OrderID is a unique order identifier.
type OrderID int

// StationID is a unique picking station identifier.
type StationID int

// Coord is a grid cell position.
type Coord struct {
	X, Y int
}

// Add returns the coordinate shifted by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// ManhattanDist returns the L1 distance between two coordinates.
func ManhattanDist(a, b Coord) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Directions enumerates the four unit moves.
var Directions = [4]Coord{
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
}

// Robot represents an agent in the warehouse.
type Robot struct {
	ID    RobotID
	Start Coord // Initial position
}

// Shelf holds product stock and starts on the floor.
type Shelf struct {
	ID    ShelfID
	Start Coord
	Stock map[ProductID]int // Initial units per product
}

// Order requires product units to be delivered at its picking station.
type Order struct {
	ID      OrderID
	Station StationID
	Lines   map[ProductID]int // Required units per product
}
