package algo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/elektrokombinacija/warehouse-planner/internal/core"
	"github.com/elektrokombinacija/warehouse-planner/internal/metrics"
)

// Backtracking is the depth-first branch-and-bound planner. It explores
// joint-action sequences timestep by timestep, prunes with an admissible
// remaining-work bound plus the best-known makespan, and optionally fans
// the first timestep's branches out to parallel workers.
type Backtracking struct {
	opts  Options
	stats Stats
}

// NewBacktracking creates the planner.
func NewBacktracking(opts Options) *Backtracking {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Backtracking{opts: opts}
}

func (b *Backtracking) Name() string { return "Backtracking-BnB" }

// Stats returns the search effort counters.
func (b *Backtracking) Stats() StatsSnapshot { return b.stats.Snapshot() }

// Solve runs the search. Outcomes:
//   - StatusOptimal: plan found, optimality proven (optimize mode ran to
//     completion).
//   - StatusFeasible: plan found without proof (optimize off, or the
//     search was cut short by cancellation or the time budget).
//   - StatusInfeasible: the joint-action space was exhausted within the
//     horizon; proven that no plan exists.
//   - StatusCancelled: aborted before any plan was found. Distinct from
//     infeasible: a larger budget might still succeed.
func (b *Backtracking) Solve(ctx context.Context, inst *core.Instance) (*core.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if b.opts.Horizon < 0 {
		return nil, fmt.Errorf("%w: negative horizon %d", core.ErrMalformed, b.opts.Horizon)
	}

	if b.opts.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.opts.TimeBudget)
		defer cancel()
	}

	// stop is cancelled internally to halt exploration once a plan
	// suffices (non-optimize mode); ctx carries external aborts and the
	// time budget.
	stop, halt := context.WithCancel(ctx)
	defer halt()

	initial := core.NewInitialState(inst)
	shared := &sharedBound{best: b.opts.Horizon + 1}
	dists := newDistOracle(inst.Warehouse)

	var res *core.Result
	if initial.GoalReached() {
		// Degenerate instance: nothing to deliver.
		res = &core.Result{Status: core.StatusOptimal, Plan: core.Plan{}, Proven: true}
	} else {
		var err error
		if b.opts.Workers > 1 {
			err = b.solveParallel(stop, halt, inst, initial, shared, dists)
		} else {
			err = newSearcher(b, inst, shared, dists, stop, halt).dfs(initial)
		}
		if err != nil {
			return nil, err
		}
		res = b.compile(ctx, shared)
	}

	if b.opts.Metrics != nil {
		snap := b.stats.Snapshot()
		b.opts.Metrics.Observe(metrics.Observation{
			NodesExpanded:  snap.NodesExpanded,
			JointActions:   snap.JointActions,
			BranchesPruned: snap.BranchesPruned,
			Makespan:       res.Makespan,
			Found:          res.Found(),
			Duration:       time.Since(start),
		})
	}
	return res, nil
}

// compile translates the final shared bound into a Result.
func (b *Backtracking) compile(ctx context.Context, shared *sharedBound) *core.Result {
	plan, makespan, found := shared.snapshot()
	cancelled := ctx.Err() != nil
	switch {
	case found && b.opts.Optimize && !cancelled:
		return &core.Result{Status: core.StatusOptimal, Plan: plan, Makespan: makespan, Proven: true}
	case found:
		return &core.Result{Status: core.StatusFeasible, Plan: plan, Makespan: makespan}
	case cancelled:
		return &core.Result{Status: core.StatusCancelled}
	default:
		return &core.Result{Status: core.StatusInfeasible}
	}
}

// solveParallel enumerates the first timestep's accepted joint actions,
// then hands the resulting subtrees to Workers goroutines. Workers share
// only the read-only instance, the distance oracle and the best-known
// bound; each keeps its own transposition table.
func (b *Backtracking) solveParallel(ctx context.Context, halt context.CancelFunc, inst *core.Instance, initial *core.State, shared *sharedBound, dists *distOracle) error {
	root := newSearcher(b, inst, shared, dists, ctx, halt)
	var branches []branch
	root.collect = &branches
	if err := root.dfs(initial); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	ch := make(chan branch)

	g.Go(func() error {
		defer close(ch)
		for _, br := range branches {
			select {
			case ch <- br:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	for w := 0; w < b.opts.Workers; w++ {
		g.Go(func() error {
			for br := range ch {
				s := newSearcher(b, inst, shared, dists, gctx, halt)
				s.steps = br.steps
				if err := s.dfs(br.next); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// branch is a first-timestep subtree handed to a worker.
type branch struct {
	next  *core.State
	steps []core.Step
}

// sharedBound is the only mutable object crossing branch boundaries: the
// best plan found so far and the makespan a new plan must beat.
type sharedBound struct {
	mu    sync.Mutex
	best  int
	plan  core.Plan
	found bool
}

// offer records a plan if it beats the current bound.
func (sb *sharedBound) offer(steps []core.Step, makespan int) bool {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if makespan >= sb.best {
		return false
	}
	sb.best = makespan
	sb.plan = append(core.Plan(nil), steps...)
	sb.found = true
	return true
}

// bound returns the makespan a new plan must beat.
func (sb *sharedBound) bound() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.best
}

func (sb *sharedBound) snapshot() (core.Plan, int, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.plan, sb.best, sb.found
}

// searcher runs one sequential depth-first exploration.
type searcher struct {
	b      *Backtracking
	inst   *core.Instance
	shared *sharedBound
	dists  *distOracle
	ctx    context.Context
	halt   context.CancelFunc

	steps []core.Step
	seen  map[string]int // state key -> earliest timestep reached

	// When set, commit records first-timestep branches here instead of
	// recursing (parallel root dispatch).
	collect *[]branch
}

func newSearcher(b *Backtracking, inst *core.Instance, shared *sharedBound, dists *distOracle, ctx context.Context, halt context.CancelFunc) *searcher {
	return &searcher{
		b:      b,
		inst:   inst,
		shared: shared,
		dists:  dists,
		ctx:    ctx,
		halt:   halt,
		seen:   make(map[string]int),
	}
}

// dfs explores every joint-action continuation of st. A non-nil error
// indicates an internal defect, never an unsolvable instance.
func (s *searcher) dfs(st *core.State) error {
	if s.ctx.Err() != nil {
		return nil
	}

	if st.GoalReached() {
		// Every committed timestep carries at least one non-idle action,
		// so the makespan equals the current timestep.
		if s.shared.offer(s.steps, st.T) && !s.b.opts.Optimize {
			s.halt()
		}
		return nil
	}

	if st.T >= s.b.opts.Horizon {
		return nil
	}

	// A completion from here finishes no earlier than st.T plus the
	// admissible remaining-work bound. Cut the branch when that cannot
	// beat the horizon, or the best-known makespan in optimize mode.
	limit := s.b.opts.Horizon
	if s.b.opts.Optimize {
		if bb := s.shared.bound() - 1; bb < limit {
			limit = bb
		}
	}
	if addSat(st.T, lowerBound(s.inst, st, s.dists)) > limit {
		s.b.stats.BranchesPruned.Add(1)
		return nil
	}

	// Reaching a previously seen state no earlier than before cannot
	// improve any completion: with the goal still open, the makespan is
	// decided by actions later than the current timestep.
	key := stateKey(s.inst, st)
	if prev, ok := s.seen[key]; ok && prev <= st.T {
		s.b.stats.BranchesPruned.Add(1)
		return nil
	}
	s.seen[key] = st.T

	s.b.stats.NodesExpanded.Add(1)

	cands := make([][]core.Action, len(s.inst.Robots))
	for i, r := range s.inst.Robots {
		cands[i] = s.ordered(st, r.ID)
	}
	return s.assign(st, cands, make([]core.Action, len(cands)), 0, make(map[orderProduct]int))
}

// assign enumerates the joint-action Cartesian product one robot at a
// time, rejecting partial assignments that already violate a pairwise
// constraint.
func (s *searcher) assign(st *core.State, cands [][]core.Action, joint []core.Action, i int, sums map[orderProduct]int) error {
	if i == len(joint) {
		return s.commit(st, joint)
	}
	for _, a := range cands[i] {
		if s.partialConflict(st, joint, i, a) {
			continue
		}
		var key orderProduct
		if a.Type == core.ActionDeliver {
			key = orderProduct{Order: a.Order, Product: a.Product}
			if st.Demand[a.Order][a.Product] < sums[key]+a.Amount {
				continue
			}
			sums[key] += a.Amount
		}
		joint[i] = a
		err := s.assign(st, cands, joint, i+1, sums)
		if a.Type == core.ActionDeliver {
			sums[key] -= a.Amount
		}
		if err != nil {
			return err
		}
		if s.ctx.Err() != nil {
			return nil
		}
	}
	return nil
}

// partialConflict rejects robot i's candidate against the robots already
// assigned: duplicate target cell, direct position exchange, or a
// carrying robot steering into a foreign floor shelf.
func (s *searcher) partialConflict(st *core.State, joint []core.Action, i int, a core.Action) bool {
	ri := s.inst.Robots[i].ID
	target := nextRobotPos(st, ri, a)

	if a.Type == core.ActionMove {
		if carried, carrying := st.CarriedShelf(ri); carrying {
			if blocker, ok := st.ShelfAt(target); ok && blocker != carried {
				return true
			}
		}
	}

	for j := 0; j < i; j++ {
		rj := s.inst.Robots[j].ID
		other := nextRobotPos(st, rj, joint[j])
		if other == target {
			return true
		}
		if a.Type == core.ActionMove && joint[j].Type == core.ActionMove &&
			target == st.RobotPos[rj] && other == st.RobotPos[ri] {
			return true
		}
	}
	return false
}

// commit runs one complete joint action through the constraint checker
// and the transition function, then recurses.
func (s *searcher) commit(st *core.State, joint []core.Action) error {
	allIdle := true
	for _, a := range joint {
		if !a.IsIdle() {
			allIdle = false
			break
		}
	}
	if allIdle {
		// The state would merely repeat one timestep later.
		return nil
	}

	s.b.stats.JointActions.Add(1)

	next, err := Apply(s.inst, st, joint)
	if err != nil {
		return err
	}
	if !CheckJoint(s.inst, st, joint, next) {
		return nil
	}
	if err := next.CheckInvariants(s.inst); err != nil {
		return err
	}

	mark := len(s.steps)
	for i, a := range joint {
		if !a.IsIdle() {
			s.steps = append(s.steps, core.Step{Robot: s.inst.Robots[i].ID, Action: a, Time: next.T})
		}
	}

	if s.collect != nil {
		*s.collect = append(*s.collect, branch{
			next:  next,
			steps: append([]core.Step(nil), s.steps...),
		})
		s.steps = s.steps[:mark]
		return nil
	}

	err = s.dfs(next)
	s.steps = s.steps[:mark]
	return err
}

// ordered returns a robot's candidates sorted so that greedy descent
// finds a plan early: delivers first (largest amount leading), then
// useful pickups and shedding useless shelves, then moves by distance to
// the robot's current objective. The implicit no-op comes last.
func (s *searcher) ordered(st *core.State, r core.RobotID) []core.Action {
	cands := Candidates(s.inst, st, r)
	target, hasTarget := moveTarget(s.inst, st, s.dists, r)
	pos := st.RobotPos[r]

	carriedUseful := false
	if shelf, carrying := st.CarriedShelf(r); carrying {
		carriedUseful = shelfUseful(s.inst, st, shelf)
	}

	type scored struct {
		a          core.Action
		score, sub int
	}
	list := make([]scored, len(cands))
	for idx, a := range cands {
		sc := scored{a: a}
		switch a.Type {
		case core.ActionDeliver:
			sc.score, sc.sub = 0, -a.Amount
		case core.ActionPickup:
			sc.score = 6
			if shelf, ok := st.ShelfAt(pos); ok && shelfUseful(s.inst, st, shelf) {
				sc.score = 1
			}
		case core.ActionPutdown:
			sc.score = 7
			if !carriedUseful {
				sc.score = 1
			}
		case core.ActionMove:
			sc.score = 2
			if hasTarget {
				sc.sub = s.dists.dist(pos.Add(a.DX, a.DY), target)
			} else {
				sc.sub = idx
			}
		}
		list[idx] = sc
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].score != list[j].score {
			return list[i].score < list[j].score
		}
		return list[i].sub < list[j].sub
	})

	out := make([]core.Action, 0, len(list)+1)
	for _, sc := range list {
		out = append(out, sc.a)
	}
	return append(out, core.Action{Type: core.ActionNone})
}

// stateKey serializes the mutable facts of a state for the transposition
// table. Iteration follows the instance's slices, so equal states always
// map to equal keys.
func stateKey(inst *core.Instance, st *core.State) string {
	var sb strings.Builder
	for _, r := range inst.Robots {
		pos := st.RobotPos[r.ID]
		fmt.Fprintf(&sb, "r%d@%d,%d", r.ID, pos.X, pos.Y)
		if shelf, ok := st.Carries[r.ID]; ok {
			fmt.Fprintf(&sb, "c%d", shelf)
		}
		sb.WriteByte(';')
	}
	for _, sh := range inst.Shelves {
		if pos, ok := st.FloorPos[sh.ID]; ok {
			fmt.Fprintf(&sb, "s%d@%d,%d", sh.ID, pos.X, pos.Y)
		}
		for _, p := range inst.Products {
			if q := st.Stock[sh.ID][p]; q > 0 {
				fmt.Fprintf(&sb, "p%d=%d", p, q)
			}
		}
		sb.WriteByte(';')
	}
	for _, o := range inst.Orders {
		for _, p := range inst.Products {
			if q := st.Demand[o.ID][p]; q > 0 {
				fmt.Fprintf(&sb, "o%d/%d=%d", o.ID, p, q)
			}
		}
		sb.WriteByte(';')
	}
	return sb.String()
}
