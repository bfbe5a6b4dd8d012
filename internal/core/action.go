package core

import "fmt"

// ActionType classifies robot actions.
type ActionType int

const (
	ActionNone    ActionType = iota // Robot idles this timestep
	ActionMove                     // Unit step in one of four directions
	ActionPickup                   // Lift the floor shelf under the robot
	ActionPutdown                  // Place the carried shelf on the floor
	ActionDeliver                  // Hand units from the carried shelf to an order
)

func (t ActionType) String() string {
	return [...]string{"none", "move", "pickup", "putdown", "deliver"}[t]
}

// Action is a tagged variant: the fields used depend on Type.
type Action struct {
	Type ActionType

	// Move
	DX, DY int

	// Deliver
	Order   OrderID
	Product ProductID
	Amount  int
}

// Move builds a unit move action.
func Move(dx, dy int) Action {
	return Action{Type: ActionMove, DX: dx, DY: dy}
}

// Pickup builds a pickup action.
func Pickup() Action {
	return Action{Type: ActionPickup}
}

// Putdown builds a putdown action.
func Putdown() Action {
	return Action{Type: ActionPutdown}
}

// Deliver builds a deliver action.
func Deliver(order OrderID, product ProductID, amount int) Action {
	return Action{Type: ActionDeliver, Order: order, Product: product, Amount: amount}
}

// IsIdle reports whether the action is the implicit no-op.
func (a Action) IsIdle() bool {
	return a.Type == ActionNone
}

func (a Action) String() string {
	switch a.Type {
	case ActionMove:
		return fmt.Sprintf("move(%d,%d)", a.DX, a.DY)
	case ActionPickup:
		return "pickup"
	case ActionPutdown:
		return "putdown"
	case ActionDeliver:
		return fmt.Sprintf("deliver(%d,%d,%d)", a.Order, a.Product, a.Amount)
	default:
		return "none"
	}
}
