package query

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/azybler/transitch/pkg/ch"
	"github.com/azybler/transitch/pkg/transit"
)

// Options configures an FCH query.
type Options struct {
	// UseGeometricalContainers gates a downward-phase relaxation on target
	// membership in the neighbour's geometrical container, pruning
	// relaxations that cannot possibly reach target.
	UseGeometricalContainers bool
	// UseOptimizedBinarySearch looks up precomputed bus positions from the
	// contracted graph's schedule index instead of re-running arrival's own
	// binary search. Only takes effect when MaxWalkDuration is Unbounded.
	UseOptimizedBinarySearch bool
	// ModalSwitch forbids relaxing a walk leg immediately after another
	// walk leg on the current best path to a node.
	ModalSwitch bool
	// MaxWalkDuration caps cumulative walk time; transit.Unbounded disables
	// the budget.
	MaxWalkDuration int64
	// Timeout is the wall-clock cap checked once per outer loop iteration.
	// Zero disables the cap.
	Timeout time.Duration
}

// DefaultOptions returns the reference configuration: containers and
// schedule-index acceleration on, modal switch on, no walk budget.
func DefaultOptions() Options {
	return Options{
		UseGeometricalContainers: true,
		UseOptimizedBinarySearch: true,
		ModalSwitch:              true,
		MaxWalkDuration:          transit.Unbounded,
	}
}

// FCH answers earliest-arrival queries against a contracted graph.
type FCH struct {
	cg *ch.ContractedGraph
}

// New wraps a contracted graph for querying.
func New(cg *ch.ContractedGraph) *FCH {
	return &FCH{cg: cg}
}

// ValidateOptions checks opts against the walk-budget mode the graph was
// contracted under. Composing a finite-budget edge against an unbounded
// one in the same run is forbidden, so a query must use the same
// bounded-or-unbounded mode as contraction; a mismatch is a construction-
// time error, not a per-query one, so callers are expected to check this
// once after loading a graph rather than on every Run.
func ValidateOptions(cg *ch.ContractedGraph, opts Options) error {
	graphBounded := cg.MaxWalkDuration != transit.Unbounded
	optsBounded := opts.MaxWalkDuration != transit.Unbounded
	if graphBounded != optsBounded {
		return transit.ErrMixedWalkBudget
	}
	return nil
}

// Run executes one forward-search earliest-arrival query from source to
// target departing at startTime. ctx is checked once per outer loop
// iteration alongside opts.Timeout; neither suspends mid-iteration, the
// whole search is synchronous CPU work with cooperative cancellation.
func (q *FCH) Run(ctx context.Context, source, target, startTime int64, opts Options) Result {
	start := time.Now()

	states := make(map[int64]*vertexState)
	states[source] = &vertexState{weight: startTime, ph: phaseUp, sequence: []int64{source}}

	h := &vertexHeap{}
	h.Push(source, startTime)

	lastSettled := source

	for h.Len() > 0 {
		if ctx.Err() != nil || (opts.Timeout > 0 && time.Since(start) > opts.Timeout) {
			log.Printf("query: timeout after %s, returning partial at node %d", time.Since(start).Round(time.Millisecond), lastSettled)
			return q.timeoutResult(lastSettled, states, start)
		}

		top := h.Pop()
		st := states[top.node]
		if st == nil || st.settled || top.weight != st.weight {
			continue
		}
		st.settled = true
		lastSettled = top.node

		if top.node == target {
			return Result{
				Outcome:  OutcomeSuccess,
				Path:     st.sequence,
				Routes:   st.routeNames,
				Arrival:  st.weight,
				Duration: time.Since(start),
			}
		}

		for v := range q.cg.Graph.Out(top.node) {
			q.relax(states, h, top.node, v, st, target, opts)
		}
	}

	log.Printf("query: target %d unreachable from %d at %d", target, source, startTime)
	return Result{
		Outcome:  OutcomeUnreachable,
		Arrival:  transit.Unbounded,
		Duration: time.Since(start),
	}
}

func (q *FCH) timeoutResult(lastSettled int64, states map[int64]*vertexState, start time.Time) Result {
	st := states[lastSettled]
	return Result{
		Outcome:  OutcomeTimeout,
		Path:     st.sequence,
		Routes:   st.routeNames,
		Arrival:  st.weight,
		Duration: time.Since(start),
	}
}

// relax applies the phase rule to an (u,v) out-edge and, if admissible,
// updates v's tentative state when the edge's arrival improves on it.
func (q *FCH) relax(states map[int64]*vertexState, h *vertexHeap, u, v int64, ust *vertexState, target int64, opts Options) {
	newPhase, ok := q.admissible(u, v, ust.ph, target, opts)
	if !ok {
		return
	}
	f, ok := q.cg.Graph.Edge(u, v)
	if !ok {
		return
	}

	var res transit.ArrivalResult
	if opts.ModalSwitch && ust.lastHop == hopWalk {
		// Forbid chaining two walk legs: only the bus arm may relax next.
		res = f.ArrivalBus(ust.weight, ust.walkDuration, opts.MaxWalkDuration)
	} else if opts.UseOptimizedBinarySearch && opts.MaxWalkDuration == transit.Unbounded {
		if idx, ok := q.scheduleIndex(u, v, ust.weight, ust.ph); ok {
			res = f.ArrivalAtIndex(ust.weight, idx, ust.walkDuration)
		} else {
			res = f.Arrival(ust.weight, ust.walkDuration, opts.MaxWalkDuration)
		}
	} else {
		res = f.Arrival(ust.weight, ust.walkDuration, opts.MaxWalkDuration)
	}

	if res.Time >= transit.Unbounded {
		return
	}
	if existing, seen := states[v]; seen && (existing.settled || res.Time >= existing.weight) {
		return
	}

	nextHop := hopBus
	if res.IsWalk {
		nextHop = hopWalk
	}

	seq := make([]int64, len(ust.sequence), len(ust.sequence)+len(res.Nodes))
	copy(seq, ust.sequence)
	if len(res.Nodes) > 1 {
		seq = append(seq, res.Nodes[1:]...)
	}
	routes := make([]string, len(ust.routeNames), len(ust.routeNames)+len(res.RouteNames))
	copy(routes, ust.routeNames)
	routes = append(routes, res.RouteNames...)

	states[v] = &vertexState{
		weight:       res.Time,
		ph:           newPhase,
		lastHop:      nextHop,
		sequence:     seq,
		routeNames:   routes,
		walkDuration: res.WalkDuration,
	}
	h.Push(v, res.Time)
}

// admissible implements the phase rule: upward moves may
// continue upward freely or switch downward into a neighbour whose
// geometrical container holds target; downward moves may only continue
// downward, under the same container check.
func (q *FCH) admissible(u, v int64, cur phase, target int64, opts Options) (phase, bool) {
	ranku, rankv := q.cg.Rank[u], q.cg.Rank[v]
	switch cur {
	case phaseUp:
		if rankv > ranku {
			return phaseUp, true
		}
		if rankv < ranku && q.containerAllows(v, target, opts) {
			return phaseDown, true
		}
	case phaseDown:
		if rankv < ranku && q.containerAllows(v, target, opts) {
			return phaseDown, true
		}
	}
	return 0, false
}

func (q *FCH) containerAllows(v, target int64, opts Options) bool {
	if !opts.UseGeometricalContainers {
		return true
	}
	set, ok := q.cg.GeometricalContainer[v]
	if !ok {
		return false
	}
	_, ok = set[target]
	return ok
}

// scheduleIndex looks up the precomputed bus index for the u→v edge at
// departure time t using u's schedule table for the given phase.
func (q *FCH) scheduleIndex(u, v, t int64, ph phase) (int64, bool) {
	schedule := q.cg.NodesSchedule[u]
	table := q.cg.PositionInEdge[u]
	if ph == phaseDown {
		schedule = q.cg.NodesScheduleDown[u]
		table = q.cg.PositionInEdgeDown[u]
	}
	if len(schedule) == 0 {
		return 0, false
	}
	k := sort.Search(len(schedule), func(i int) bool { return schedule[i] >= t })
	if k >= len(schedule) {
		return 0, false
	}
	perNeighbor, ok := table[k]
	if !ok {
		return 0, false
	}
	idx, ok := perNeighbor[v]
	return int64(idx), ok
}
