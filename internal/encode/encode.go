// Package encode serializes plans for external consumers: a JSON
// document for tooling, and occurs-style atoms matching the format the
// upstream visualizer reads.
package encode

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/elektrokombinacija/warehouse-planner/internal/core"
)

// PlanDocument is the JSON form of a search result.
type PlanDocument struct {
	Status   string         `json:"status"`
	Makespan int            `json:"makespan"`
	Horizon  int            `json:"horizon"`
	Proven   bool           `json:"proven"`
	Actions  []ActionRecord `json:"actions"`
}

// ActionRecord is one scheduled action.
type ActionRecord struct {
	Robot   int    `json:"robot"`
	Type    string `json:"type"`
	DX      int    `json:"dx,omitempty"`
	DY      int    `json:"dy,omitempty"`
	Order   int    `json:"order,omitempty"`
	Product int    `json:"product,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Time    int    `json:"t"`
}

// Document builds the JSON form of a result.
func Document(res *core.Result, horizon int) PlanDocument {
	doc := PlanDocument{
		Status:   res.Status.String(),
		Makespan: res.Makespan,
		Horizon:  horizon,
		Proven:   res.Proven,
		Actions:  make([]ActionRecord, 0, len(res.Plan)),
	}
	for _, step := range res.Plan {
		doc.Actions = append(doc.Actions, ActionRecord{
			Robot:   int(step.Robot),
			Type:    step.Action.Type.String(),
			DX:      step.Action.DX,
			DY:      step.Action.DY,
			Order:   int(step.Action.Order),
			Product: int(step.Action.Product),
			Amount:  step.Action.Amount,
			Time:    step.Time,
		})
	}
	return doc
}

// WriteJSON writes the document with indentation.
func WriteJSON(w io.Writer, doc PlanDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ReadJSON parses a plan document back into a Plan.
func ReadJSON(r io.Reader) (PlanDocument, core.Plan, error) {
	var doc PlanDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return doc, nil, err
	}
	plan := make(core.Plan, 0, len(doc.Actions))
	for _, rec := range doc.Actions {
		action, err := decodeAction(rec)
		if err != nil {
			return doc, nil, err
		}
		plan = append(plan, core.Step{
			Robot:  core.RobotID(rec.Robot),
			Action: action,
			Time:   rec.Time,
		})
	}
	return doc, plan, nil
}

func decodeAction(rec ActionRecord) (core.Action, error) {
	switch rec.Type {
	case "move":
		return core.Move(rec.DX, rec.DY), nil
	case "pickup":
		return core.Pickup(), nil
	case "putdown":
		return core.Putdown(), nil
	case "deliver":
		return core.Deliver(core.OrderID(rec.Order), core.ProductID(rec.Product), rec.Amount), nil
	default:
		return core.Action{}, fmt.Errorf("unknown action type %q", rec.Type)
	}
}

// Atoms renders the plan as occurs/3 atoms, one per step.
func Atoms(plan core.Plan) []string {
	out := make([]string, len(plan))
	for i, step := range plan {
		out[i] = step.String()
	}
	return out
}
