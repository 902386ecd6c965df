package ch

import "github.com/azybler/transitch/pkg/transit"

// ContractedGraph is the frozen result of contraction: the same
// arena-of-ATFs shape as transit.TransportGraph, plus the hierarchy rank
// and the auxiliary indices (geometrical containers, schedule tables,
// per-edge position maps, and their downward-only variants).
//
// Graph is seeded with every edge present in the working graph at the
// start of contraction and is then only ever overwritten, never deleted
// from, as contraction installs shortcuts. The working graph itself
// shrinks to nothing: every node's adjacency is eventually deleted from
// it as the node gets contracted.
type ContractedGraph struct {
	Graph *transit.TransportGraph
	Rank  map[int64]int

	GeometricalContainer map[int64]map[int64]struct{}

	NodesSchedule      map[int64][]int64
	PositionInEdge     map[int64]map[int]map[int64]int
	NodesScheduleDown  map[int64][]int64
	PositionInEdgeDown map[int64]map[int]map[int64]int

	// MaxWalkDuration is the budget mode contraction ran under
	// (transit.Unbounded, or a finite cap). A query run against this graph
	// must use the same mode; see query.ValidateOptions.
	MaxWalkDuration int64
}

func newContractedGraph(g *transit.TransportGraph) *ContractedGraph {
	cg := &ContractedGraph{
		Graph: transit.NewTransportGraph(),
		Rank:  make(map[int64]int, g.NumNodes()),
	}
	for _, u := range g.Nodes() {
		for v := range g.Out(u) {
			f, _ := g.Edge(u, v)
			cg.Graph.SetEdge(u, v, *f)
		}
	}
	return cg
}
