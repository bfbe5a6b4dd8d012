// Package algo implements the warehouse planning engine: action
// generation, joint-action constraint checking, the state transition
// function and the backtracking makespan search.
package algo

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/elektrokombinacija/warehouse-planner/internal/core"
	"github.com/elektrokombinacija/warehouse-planner/internal/metrics"
)

// Solver is the interface for planning algorithms.
type Solver interface {
	// Solve attempts to find an action schedule for the instance.
	// A nil error with StatusInfeasible means the search space was
	// exhausted; a non-nil error means the input was malformed or the
	// engine detected an internal defect.
	Solve(ctx context.Context, inst *core.Instance) (*core.Result, error)

	// Name returns the algorithm name.
	Name() string
}

// Options configures a search run.
type Options struct {
	Horizon    int           // Maximum timestep a plan may use
	Optimize   bool          // Search for a makespan-minimal plan vs any plan
	Workers    int           // Parallel branch evaluators; <=1 means sequential
	TimeBudget time.Duration // Wall-clock cutoff; 0 means unlimited

	Metrics *metrics.Search // Optional; recorded once per solve
}

// Stats counts search effort. Counters are updated with atomics so
// parallel branch workers can share one instance.
type Stats struct {
	NodesExpanded  atomic.Uint64
	JointActions   atomic.Uint64
	BranchesPruned atomic.Uint64
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	NodesExpanded  uint64
	JointActions   uint64
	BranchesPruned uint64
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		NodesExpanded:  s.NodesExpanded.Load(),
		JointActions:   s.JointActions.Load(),
		BranchesPruned: s.BranchesPruned.Load(),
	}
}
