package transit

import (
	"math"
	"sort"
)

// Unbounded represents an unconstrained walk budget or an infeasible
// arrival. Duration and time values in this package are always far below
// this bound in practice, so it doubles as the "no such value" sentinel
// the arrival methods return.
const Unbounded int64 = math.MaxInt64

// ATF (Arrival Time Function) is a time-dependent edge profile: an
// optional walk alternative plus a dominance-pruned, departure-sorted
// sequence of buses.
type ATF struct {
	Walk  Walk
	Buses []Bus
}

// Empty reports whether the profile carries neither a walk nor any bus.
func (f *ATF) Empty() bool {
	return !f.Walk.Present && len(f.Buses) == 0
}

// Cut prunes Buses to the maximal subsequence strictly monotone in both
// departure and arrival time: a later departure that arrives no later
// dominates the earlier one. Idempotent.
func (f *ATF) Cut() {
	r := f.Buses[:0:0]
	i := 0
	for i < len(f.Buses) {
		b := f.Buses[i]
		if len(r) == 0 {
			r = append(r, b)
			i++
			continue
		}
		top := r[len(r)-1]
		switch {
		case b.A > top.A:
			if top.D < b.D {
				r = append(r, b)
			}
			i++
		case b.A == top.A && top.D == b.D:
			r[len(r)-1] = b
			i++
		default:
			// b dominates top (equal-or-better arrival, no earlier
			// departure): drop top and re-examine b against the new top.
			r = r[:len(r)-1]
		}
	}
	f.Buses = r
}

// MinATF computes the pointwise minimum of two profiles for the same
// endpoint pair: the shorter of the two walks, and the cut of the merged
// bus sequence.
func MinATF(f, g *ATF) *ATF {
	walk := shorterWalk(f.Walk, g.Walk)
	buses := make([]Bus, 0, len(f.Buses)+len(g.Buses))
	buses = append(buses, f.Buses...)
	buses = append(buses, g.Buses...)
	sort.Slice(buses, func(i, j int) bool { return buses[i].D < buses[j].D })
	result := &ATF{Walk: walk, Buses: buses}
	result.Cut()
	return result
}

func shorterWalk(a, b Walk) Walk {
	switch {
	case a.Present && b.Present:
		if a.W <= b.W {
			return a
		}
		return b
	case a.Present:
		return a
	default:
		return b
	}
}

// CompositionOptions controls walk-budget accounting during composition.
type CompositionOptions struct {
	// MaxWalkDuration caps cumulative walk time on a synthesised shortcut.
	// Use Unbounded to disable the budget for this run; bounded and
	// unbounded modes must not be mixed, callers pick one mode globally.
	MaxWalkDuration int64
}

// Composition synthesises the profile of u→v given f = u→m and the
// receiver g = m→v, where m is the node being contracted. It produces cc
// (bus then bus), cw (bus then walk), and wc (walk then bus) candidates
// via a synchronised two-pointer sweep over f.Buses and g.Buses, then cuts
// the merged result. A cw candidate is only emitted when it strictly beats
// the matched cc candidate's arrival; otherwise the cc dominates.
func (g *ATF) Composition(f *ATF, opts CompositionOptions) *ATF {
	var cc, cw, wc []Bus
	walk := composeWalk(f.Walk, g.Walk, opts.MaxWalkDuration)

	i, j := 0, 0
	for i < len(f.Buses) && j < len(g.Buses) {
		if i+1 < len(f.Buses) && f.Buses[i+1].A <= g.Buses[j].D {
			if bus, ok := cwCandidate(f.Buses[i], g.Walk, opts.MaxWalkDuration, Unbounded); ok {
				cw = append(cw, bus)
			}
			i++
			continue
		}
		if f.Buses[i].A <= g.Buses[j].D {
			bus, emittedCW := cwCandidate(f.Buses[i], g.Walk, opts.MaxWalkDuration, g.Buses[j].A)
			if emittedCW {
				cw = append(cw, bus)
			}
			if wcBus, ok := wcCandidate(f.Walk, g.Buses[j], opts.MaxWalkDuration); ok {
				wc = append(wc, wcBus)
			}
			if !emittedCW {
				cc = append(cc, ccCandidate(f.Buses[i], g.Buses[j]))
			}
			i++
			j++
			continue
		}
		if bus, ok := wcCandidate(f.Walk, g.Buses[j], opts.MaxWalkDuration); ok {
			wc = append(wc, bus)
		}
		j++
	}
	for ; i < len(f.Buses); i++ {
		if bus, ok := cwCandidate(f.Buses[i], g.Walk, opts.MaxWalkDuration, Unbounded); ok {
			cw = append(cw, bus)
		}
	}
	for ; j < len(g.Buses); j++ {
		if bus, ok := wcCandidate(f.Walk, g.Buses[j], opts.MaxWalkDuration); ok {
			wc = append(wc, bus)
		}
	}

	buses := make([]Bus, 0, len(cc)+len(cw)+len(wc))
	buses = append(buses, cc...)
	buses = append(buses, cw...)
	buses = append(buses, wc...)
	if !walk.Present && len(buses) == 0 {
		return nil
	}
	sort.Slice(buses, func(a, b int) bool { return buses[a].D < buses[b].D })
	result := &ATF{Walk: walk, Buses: buses}
	result.Cut()
	return result
}

// CompositionBuses is the bus-only specialisation used during contraction
// when walk-only shortcuts are redundant: it skips cw/wc synthesis
// entirely and skips the final Cut, since the dominance pass happens once
// in MinATF when the shortcut is merged against any pre-existing (p,q)
// edge.
func (g *ATF) CompositionBuses(f *ATF, opts CompositionOptions) *ATF {
	walk := composeWalk(f.Walk, g.Walk, opts.MaxWalkDuration)

	var buses []Bus
	i, j := 0, 0
	for i < len(f.Buses) && j < len(g.Buses) {
		if i+1 < len(f.Buses) && f.Buses[i+1].A <= g.Buses[j].D {
			i++
			continue
		}
		if f.Buses[i].A <= g.Buses[j].D {
			buses = append(buses, ccCandidate(f.Buses[i], g.Buses[j]))
			i++
			j++
			continue
		}
		j++
	}
	if !walk.Present && len(buses) == 0 {
		return nil
	}
	return &ATF{Walk: walk, Buses: buses}
}

func ccCandidate(b1, b2 Bus) Bus {
	return Bus{
		Nodes:         concatNodes(b1.Nodes, b2.Nodes),
		RouteNames:    concatStrings(b1.RouteNames, b2.RouteNames),
		D:             b1.D,
		A:             b2.A,
		DepartureWalk: b1.DepartureWalk,
		ArrivalWalk:   b2.ArrivalWalk,
	}
}

// cwCandidate builds the bus-then-walk candidate boarding b1 and walking
// the rest of the way via walk. beatArrival is the arrival time the
// candidate must strictly improve on (the simultaneous cc arrival, or
// Unbounded when there is no competing cc candidate to beat).
func cwCandidate(b1 Bus, walk Walk, maxWalk, beatArrival int64) (Bus, bool) {
	if !walk.Present {
		return Bus{}, false
	}
	arrivalWalk := b1.ArrivalWalk
	if maxWalk != Unbounded {
		arrivalWalk += walk.W
	} else {
		arrivalWalk = 0
	}
	if arrivalWalk > maxWalk {
		return Bus{}, false
	}
	newA := b1.A + walk.W
	if newA >= beatArrival {
		return Bus{}, false
	}
	return Bus{
		Nodes:         concatNodes(b1.Nodes, walk.Nodes),
		RouteNames:    concatStrings(b1.RouteNames, walk.RouteNames),
		D:             b1.D,
		A:             newA,
		DepartureWalk: b1.DepartureWalk,
		ArrivalWalk:   arrivalWalk,
	}, true
}

func wcCandidate(walk Walk, b2 Bus, maxWalk int64) (Bus, bool) {
	if !walk.Present {
		return Bus{}, false
	}
	departureWalk := b2.DepartureWalk
	if maxWalk != Unbounded {
		departureWalk += walk.W
	} else {
		departureWalk = 0
	}
	if departureWalk > maxWalk {
		return Bus{}, false
	}
	return Bus{
		Nodes:         concatNodes(walk.Nodes, b2.Nodes),
		RouteNames:    concatStrings(walk.RouteNames, b2.RouteNames),
		D:             b2.D - walk.W,
		A:             b2.A,
		DepartureWalk: departureWalk,
		ArrivalWalk:   b2.ArrivalWalk,
	}, true
}

func composeWalk(f, g Walk, maxWalk int64) Walk {
	if !f.Present || !g.Present {
		return Walk{}
	}
	w := f.W + g.W
	if maxWalk != Unbounded && w > maxWalk {
		return Walk{}
	}
	return NewWalk(concatNodes(f.Nodes, g.Nodes), w)
}

func concatNodes(a, b []int64) []int64 {
	if len(b) == 0 {
		out := make([]int64, len(a))
		copy(out, a)
		return out
	}
	out := make([]int64, 0, len(a)+len(b)-1)
	out = append(out, a...)
	out = append(out, b[1:]...)
	return out
}

func concatStrings(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// ArrivalResult is the outcome of querying an ATF at a departure time.
// Time is Unbounded when neither arm is feasible.
type ArrivalResult struct {
	Time         int64
	Nodes        []int64
	RouteNames   []string
	WalkDuration int64
	IsWalk       bool
}

func unreachableArrival() ArrivalResult {
	return ArrivalResult{Time: Unbounded, WalkDuration: Unbounded}
}

// Arrival returns the earliest arrival using this edge when departing at
// t, taking the walk only when it arrives strictly earlier than the bus
// (on a tie the bus is returned). walkDuration
// is the caller's so-far accumulated walk time; maxWalkDuration caps it
// (Unbounded disables the budget).
func (f *ATF) Arrival(t, walkDuration, maxWalkDuration int64) ArrivalResult {
	buses := f.Buses
	walkTime := Unbounded
	newWalkDuration := int64(0)

	if maxWalkDuration == Unbounded {
		if f.Walk.Present {
			walkTime = t + f.Walk.W
		}
	} else {
		allowed := maxWalkDuration - walkDuration
		filtered := make([]Bus, 0, len(buses))
		for _, b := range buses {
			if b.DepartureWalk <= allowed {
				filtered = append(filtered, b)
			}
		}
		buses = filtered
		if f.Walk.Present {
			newWalkDuration = f.Walk.W + walkDuration
			if newWalkDuration <= maxWalkDuration {
				walkTime = t + f.Walk.W
			}
		}
	}

	idx := sort.Search(len(buses), func(i int) bool { return buses[i].D >= t })
	busArrival := Unbounded
	var busNodes []int64
	var busRoutes []string
	busWalkDuration := Unbounded
	if idx < len(buses) {
		busArrival = buses[idx].A
		busNodes = buses[idx].Nodes
		busRoutes = buses[idx].RouteNames
		busWalkDuration = buses[idx].ArrivalWalk
	}

	if walkTime < busArrival {
		return ArrivalResult{Time: walkTime, Nodes: f.Walk.Nodes, RouteNames: f.Walk.RouteNames, WalkDuration: newWalkDuration, IsWalk: true}
	}
	if busArrival < Unbounded {
		return ArrivalResult{Time: busArrival, Nodes: busNodes, RouteNames: busRoutes, WalkDuration: busWalkDuration}
	}
	return unreachableArrival()
}

// ArrivalAtIndex behaves like Arrival but takes a precomputed bus index
// from a position-in-edge table instead of re-running the binary search
// over Buses, for queries that already know which schedule slot the
// departure time falls into. Only valid when maxWalkDuration is
// Unbounded: a finite walk budget filters Buses before searching, which
// would invalidate an index computed against the unfiltered slice, so
// callers fall back to Arrival in that mode.
func (f *ATF) ArrivalAtIndex(t, idx int64, walkDuration int64) ArrivalResult {
	walkTime := Unbounded
	if f.Walk.Present {
		walkTime = t + f.Walk.W
	}

	busArrival := Unbounded
	var busNodes []int64
	var busRoutes []string
	if idx >= 0 && int(idx) < len(f.Buses) {
		b := f.Buses[idx]
		busArrival = b.A
		busNodes = b.Nodes
		busRoutes = b.RouteNames
	}

	if walkTime < busArrival {
		return ArrivalResult{Time: walkTime, Nodes: f.Walk.Nodes, RouteNames: f.Walk.RouteNames, IsWalk: true}
	}
	if busArrival < Unbounded {
		return ArrivalResult{Time: busArrival, Nodes: busNodes, RouteNames: busRoutes}
	}
	return unreachableArrival()
}

// ArrivalWalk exposes the walk-only arm for modal-switching queries.
func (f *ATF) ArrivalWalk(t, walkDuration, maxWalkDuration int64) ArrivalResult {
	if !f.Walk.Present {
		return unreachableArrival()
	}
	if maxWalkDuration == Unbounded {
		return ArrivalResult{Time: t + f.Walk.W, Nodes: f.Walk.Nodes, RouteNames: f.Walk.RouteNames, IsWalk: true}
	}
	newWalkDuration := f.Walk.W + walkDuration
	if newWalkDuration > maxWalkDuration {
		return unreachableArrival()
	}
	return ArrivalResult{Time: t + f.Walk.W, Nodes: f.Walk.Nodes, RouteNames: f.Walk.RouteNames, WalkDuration: newWalkDuration, IsWalk: true}
}

// ArrivalBus exposes the bus-only arm for modal-switching queries.
func (f *ATF) ArrivalBus(t, walkDuration, maxWalkDuration int64) ArrivalResult {
	buses := f.Buses
	if maxWalkDuration != Unbounded {
		allowed := maxWalkDuration - walkDuration
		filtered := make([]Bus, 0, len(buses))
		for _, b := range buses {
			if b.DepartureWalk <= allowed {
				filtered = append(filtered, b)
			}
		}
		buses = filtered
	}
	idx := sort.Search(len(buses), func(i int) bool { return buses[i].D >= t })
	if idx < len(buses) {
		b := buses[idx]
		return ArrivalResult{Time: b.A, Nodes: b.Nodes, RouteNames: b.RouteNames, WalkDuration: b.ArrivalWalk}
	}
	return unreachableArrival()
}
