package core

import "fmt"

// Step is one scheduled action: robot, action, timestep.
type Step struct {
	Robot  RobotID
	Action Action
	Time   int
}

func (s Step) String() string {
	return fmt.Sprintf("occurs(object(robot,%d), %s, %d).", s.Robot, s.Action, s.Time)
}

// Plan is an ordered action schedule. Steps are sorted by time, idle
// actions omitted.
type Plan []Step

// Makespan returns the timestep of the latest non-idle action, or 0 for
// an empty plan.
func (p Plan) Makespan() int {
	m := 0
	for _, s := range p {
		if !s.Action.IsIdle() && s.Time > m {
			m = s.Time
		}
	}
	return m
}

// Status classifies a search outcome.
type Status int

const (
	// StatusOptimal: a plan was found and proven makespan-minimal.
	StatusOptimal Status = iota
	// StatusFeasible: a plan was found without proof of optimality.
	StatusFeasible
	// StatusInfeasible: the joint-action space was exhausted; no plan
	// exists within the horizon.
	StatusInfeasible
	// StatusCancelled: the search was aborted before finding any plan.
	StatusCancelled
)

func (s Status) String() string {
	return [...]string{"optimal", "feasible", "infeasible", "cancelled"}[s]
}

// Result is the search outcome handed to callers.
type Result struct {
	Status   Status
	Plan     Plan // Nil unless a plan was found
	Makespan int  // Valid when Status is Optimal or Feasible
	Proven   bool // Optimality proven (implies Status == StatusOptimal)
}

// Found reports whether the result carries a valid plan.
func (r *Result) Found() bool {
	return r.Status == StatusOptimal || r.Status == StatusFeasible
}
