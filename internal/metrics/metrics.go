// Package metrics exposes Prometheus collectors for search activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Observation summarizes one completed solve.
type Observation struct {
	NodesExpanded  uint64
	JointActions   uint64
	BranchesPruned uint64
	Makespan       int // Valid only when Found
	Found          bool
	Duration       time.Duration
}

// Search holds the collectors updated after each solve.
type Search struct {
	nodesExpanded  prometheus.Counter
	jointActions   prometheus.Counter
	branchesPruned prometheus.Counter
	solves         *prometheus.CounterVec
	bestMakespan   prometheus.Gauge
	solveDuration  prometheus.Histogram
}

// NewSearch registers the search collectors on the given registerer.
func NewSearch(reg prometheus.Registerer) *Search {
	factory := promauto.With(reg)
	return &Search{
		nodesExpanded: factory.NewCounter(prometheus.CounterOpts{
			Name: "whplan_search_nodes_expanded_total",
			Help: "Search tree nodes expanded.",
		}),
		jointActions: factory.NewCounter(prometheus.CounterOpts{
			Name: "whplan_search_joint_actions_total",
			Help: "Joint actions passed to the constraint checker.",
		}),
		branchesPruned: factory.NewCounter(prometheus.CounterOpts{
			Name: "whplan_search_branches_pruned_total",
			Help: "Branches cut by bound or transposition pruning.",
		}),
		solves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "whplan_solves_total",
			Help: "Completed solves by outcome.",
		}, []string{"found"}),
		bestMakespan: factory.NewGauge(prometheus.GaugeOpts{
			Name: "whplan_best_makespan",
			Help: "Makespan of the most recent plan found.",
		}),
		solveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "whplan_solve_duration_seconds",
			Help:    "Wall-clock time per solve.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// Observe records one completed solve.
func (s *Search) Observe(o Observation) {
	s.nodesExpanded.Add(float64(o.NodesExpanded))
	s.jointActions.Add(float64(o.JointActions))
	s.branchesPruned.Add(float64(o.BranchesPruned))
	s.solveDuration.Observe(o.Duration.Seconds())
	if o.Found {
		s.solves.WithLabelValues("true").Inc()
		s.bestMakespan.Set(float64(o.Makespan))
	} else {
		s.solves.WithLabelValues("false").Inc()
	}
}
