package ch

import (
	"testing"

	"github.com/azybler/transitch/pkg/transit"
)

func TestBuildGeometricalContainers(t *testing.T) {
	// Diamond with hand-set ranks: 4 on top, then 3, 2, 1.
	g := transit.NewTransportGraph()
	edge := func(u, v int64) {
		g.SetEdge(u, v, transit.ATF{Buses: []transit.Bus{
			{Nodes: []int64{u, v}, RouteNames: []string{"r"}, D: 0, A: 1},
		}})
	}
	edge(4, 3)
	edge(4, 2)
	edge(3, 1)
	edge(2, 1)
	edge(1, 4) // up-edge, must not contribute to any container

	cg := &ContractedGraph{
		Graph: g,
		Rank:  map[int64]int{1: 0, 2: 1, 3: 2, 4: 3},
	}
	BuildGeometricalContainers(cg)

	want := map[int64][]int64{
		4: {4, 3, 2, 1},
		3: {3, 1},
		2: {2, 1},
		1: {1},
	}
	for node, members := range want {
		got := cg.GeometricalContainer[node]
		if len(got) != len(members) {
			t.Errorf("container[%d] has %d members, want %d (%v)", node, len(got), len(members), got)
			continue
		}
		for _, m := range members {
			if _, ok := got[m]; !ok {
				t.Errorf("container[%d] missing %d", node, m)
			}
		}
	}
}

// TestBuildGeometricalContainers_Invariants checks the container law on a
// contracted graph instead of a hand-built one: every node contains
// itself, and every strictly-descending out-neighbour's container is a
// subset of its own.
func TestBuildGeometricalContainers_Invariants(t *testing.T) {
	g := buildThreeStopLine()
	cg := Contract(g, DefaultOptions())
	BuildGeometricalContainers(cg)

	for node, set := range cg.GeometricalContainer {
		if _, ok := set[node]; !ok {
			t.Errorf("container[%d] does not contain the node itself", node)
		}
		for v := range cg.Graph.Out(node) {
			if cg.Rank[v] >= cg.Rank[node] {
				continue
			}
			for m := range cg.GeometricalContainer[v] {
				if _, ok := set[m]; !ok {
					t.Errorf("container[%d] missing %d, reachable via down-neighbour %d", node, m, v)
				}
			}
		}
	}
}
