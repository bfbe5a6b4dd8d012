// Package sim replays action schedules through the transition function.
// It is the reference executor: tests and the CLI use it to confirm that
// a plan is collision-free, invariant-preserving and goal-satisfying.
package sim

import (
	"errors"
	"fmt"

	"github.com/elektrokombinacija/warehouse-planner/internal/algo"
	"github.com/elektrokombinacija/warehouse-planner/internal/core"
)

// ErrBadPlan marks plans that cannot be executed against the instance.
var ErrBadPlan = errors.New("invalid plan")

// ReplayResult captures the outcome of executing a plan.
type ReplayResult struct {
	States      []*core.State // Snapshots for timesteps 0..makespan
	Final       *core.State
	Makespan    int
	GoalReached bool
}

// Replay executes the plan from the instance's initial state, one joint
// action per timestep. Every timestep passes through the same constraint
// checker and transition function the planner uses, so replaying a plan
// the planner produced always yields the same state sequence.
func Replay(inst *core.Instance, plan core.Plan) (*ReplayResult, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}

	index := make(map[core.RobotID]int, len(inst.Robots))
	for i, r := range inst.Robots {
		index[r.ID] = i
	}

	byTime := make(map[int][]core.Step)
	maxTime := 0
	for _, step := range plan {
		if step.Time <= 0 {
			return nil, fmt.Errorf("%w: step %v scheduled at t=%d", ErrBadPlan, step, step.Time)
		}
		if _, ok := index[step.Robot]; !ok {
			return nil, fmt.Errorf("%w: unknown robot %d", ErrBadPlan, step.Robot)
		}
		byTime[step.Time] = append(byTime[step.Time], step)
		if step.Time > maxTime {
			maxTime = step.Time
		}
	}

	state := core.NewInitialState(inst)
	result := &ReplayResult{States: []*core.State{state}}

	for t := 1; t <= maxTime; t++ {
		joint := make([]core.Action, len(inst.Robots))
		for _, step := range byTime[t] {
			i := index[step.Robot]
			if !joint[i].IsIdle() {
				return nil, fmt.Errorf("%w: robot %d acts twice at t=%d", ErrBadPlan, step.Robot, t)
			}
			if !legal(inst, state, step.Robot, step.Action) {
				return nil, fmt.Errorf("%w: %v violates its preconditions", ErrBadPlan, step)
			}
			joint[i] = step.Action
		}

		next, err := algo.Apply(inst, state, joint)
		if err != nil {
			return nil, err
		}
		if !algo.CheckJoint(inst, state, joint, next) {
			return nil, fmt.Errorf("%w: joint action rejected at t=%d", ErrBadPlan, t)
		}
		if err := next.CheckInvariants(inst); err != nil {
			return nil, err
		}

		state = next
		result.States = append(result.States, state)
	}

	result.Final = state
	result.Makespan = plan.Makespan()
	result.GoalReached = state.GoalReached()
	return result, nil
}

// legal reports whether the action is among the robot's legal candidates
// in the given state.
func legal(inst *core.Instance, s *core.State, r core.RobotID, a core.Action) bool {
	for _, c := range algo.Candidates(inst, s, r) {
		if c == a {
			return true
		}
	}
	return false
}
