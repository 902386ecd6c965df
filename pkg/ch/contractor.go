package ch

import (
	"container/heap"
	"log"

	"github.com/azybler/transitch/pkg/transit"
)

// Options configures contraction.
type Options struct {
	// BusOnly selects transit.ATF.CompositionBuses over the full
	// Composition during shortcut synthesis, skipping bus-walk and
	// walk-bus shortcuts as redundant.
	BusOnly bool
	// MaxWalkDuration caps cumulative walk time on synthesised shortcuts;
	// transit.Unbounded disables the budget. Must match the budget mode
	// used by any query run against the resulting graph.
	MaxWalkDuration int64
}

// DefaultOptions returns the default contraction configuration: bus-only
// shortcut synthesis, no walk budget.
func DefaultOptions() Options {
	return Options{BusOnly: true, MaxWalkDuration: transit.Unbounded}
}

// Contract performs Contraction Hierarchies preprocessing on g,
// consuming it: repeatedly extract the minimum-priority node,
// synthesise shortcuts for every (incoming, outgoing) pair via
// composition, install them, and delete the node's edges. g has no edges
// left by the time Contract returns (its node set is kept); the frozen
// result accumulates separately in the returned ContractedGraph.
func Contract(g *transit.TransportGraph, opts Options) *ContractedGraph {
	nodes := g.Nodes()
	n := len(nodes)
	cg := newContractedGraph(g)
	cg.MaxWalkDuration = opts.MaxWalkDuration
	if n == 0 {
		return cg
	}

	depth := make(map[int64]int, n)
	entries := make(map[int64]*pqEntry, n)
	pq := make(priorityQueue, 0, n)
	for _, node := range nodes {
		e := &pqEntry{node: node, priority: g.EdgeDifference(node)}
		entries[node] = e
		pq = append(pq, e)
	}
	heap.Init(&pq)

	order := 0
	logInterval := 50000
	for pq.Len() > 0 {
		entry := heap.Pop(&pq).(*pqEntry)
		node := entry.node
		delete(entries, node)

		newDepth := depth[node] + 1

		// Snapshot neighbours before mutating: composition below deletes
		// edges to/from node as it proceeds.
		incoming := make([]int64, 0, len(g.In(node)))
		for p := range g.In(node) {
			incoming = append(incoming, p)
		}
		outgoing := make([]int64, 0, len(g.Out(node)))
		for q := range g.Out(node) {
			outgoing = append(outgoing, q)
		}

		touched := make(map[int64]struct{}, len(incoming)+len(outgoing))

		for _, p := range incoming {
			f, _ := g.Edge(p, node)
			for _, q := range outgoing {
				if p == q {
					continue
				}
				gEdge, _ := g.Edge(node, q)

				var newF *transit.ATF
				if opts.BusOnly {
					newF = gEdge.CompositionBuses(f, transit.CompositionOptions{MaxWalkDuration: opts.MaxWalkDuration})
				} else {
					newF = gEdge.Composition(f, transit.CompositionOptions{MaxWalkDuration: opts.MaxWalkDuration})
				}
				if newF == nil {
					continue
				}
				if existing, ok := g.Edge(p, q); ok {
					newF = transit.MinATF(newF, existing)
				}
				g.SetEdge(p, q, *newF)
				cg.Graph.SetEdge(p, q, *newF)
			}
			g.DeleteEdge(p, node)
			touched[p] = struct{}{}
		}
		for _, q := range outgoing {
			g.DeleteEdge(node, q)
			touched[q] = struct{}{}
		}

		for t := range touched {
			if newDepth > depth[t] {
				depth[t] = newDepth
			}
			if e, ok := entries[t]; ok {
				e.priority = g.EdgeDifference(t) + depth[t]
				heap.Fix(&pq, e.index)
			}
		}

		cg.Rank[node] = order
		order++
		if order%logInterval == 0 || order == n {
			log.Printf("contracted %d/%d nodes", order, n)
		}
	}

	return cg
}
