package ch

import (
	"testing"

	"github.com/azybler/transitch/pkg/transit"
)

// buildThreeStopLine is a three-stop line: stops {1,2,3}, bus 1->2 at
// (0,10) and (5,12), bus 2->3 at (12,20), no walks.
func buildThreeStopLine() *transit.TransportGraph {
	conns := []transit.ConnectionRecord{
		{FromStop: 1, ToStop: 2, DepTime: 0, ArrTime: 10, RouteID: "r12"},
		{FromStop: 1, ToStop: 2, DepTime: 5, ArrTime: 12, RouteID: "r12"},
		{FromStop: 2, ToStop: 3, DepTime: 12, ArrTime: 20, RouteID: "r23"},
	}
	return transit.BuildTransportGraph(conns, nil)
}

func TestContract_RanksArePermutation(t *testing.T) {
	g := buildThreeStopLine()
	cg := Contract(g, DefaultOptions())

	if len(cg.Rank) != 3 {
		t.Fatalf("got %d ranked nodes, want 3", len(cg.Rank))
	}
	seen := make(map[int]bool)
	for _, r := range cg.Rank {
		if r < 0 || r >= 3 {
			t.Errorf("rank %d out of range [0,3)", r)
		}
		seen[r] = true
	}
	if len(seen) != 3 {
		t.Errorf("ranks are not a permutation: saw %d unique values, want 3", len(seen))
	}
}

func TestContract_EmptyGraph(t *testing.T) {
	g := transit.NewTransportGraph()
	cg := Contract(g, DefaultOptions())
	if len(cg.Rank) != 0 {
		t.Errorf("got %d ranked nodes for an empty graph, want 0", len(cg.Rank))
	}
}

// TestContract_OverlayRetainsOriginalEdges checks the invariant the FCH
// query depends on (pkg/query's correctness suite exercises the query
// itself): the frozen overlay keeps every original edge regardless of
// whether the node at either endpoint was later contracted away from the
// *working* graph. A node contracted with no incoming neighbours (a pure
// source, like node 1 here) needs no shortcut synthesised through it,
// since nothing ever routes through a source, but its own outgoing edges must
// still be queryable as the first hop of a search starting there.
func TestContract_OverlayRetainsOriginalEdges(t *testing.T) {
	g := buildThreeStopLine()
	cg := Contract(g, DefaultOptions())

	if _, ok := cg.Graph.Edge(1, 2); !ok {
		t.Error("overlay lost the original 1->2 edge")
	}
	if _, ok := cg.Graph.Edge(2, 3); !ok {
		t.Error("overlay lost the original 2->3 edge")
	}
}

// TestContract_LongerChainProducesShortcuts exercises shortcut synthesis
// on a graph long enough that the priority/depth rule forces an interior
// node to be contracted while both its neighbours are still live (a 3-node chain contracts strictly outside-in by this
// package's tie-break rule and so never needs a shortcut; a 5-node chain
// does): node 3 pops while 2 and 4 still hold their edges, leaving a
// synthesised 2->4 edge behind in the overlay, composed from two original
// edges.
func TestContract_LongerChainProducesShortcuts(t *testing.T) {
	conns := []transit.ConnectionRecord{
		{FromStop: 1, ToStop: 2, DepTime: 0, ArrTime: 5, RouteID: "a"},
		{FromStop: 2, ToStop: 3, DepTime: 6, ArrTime: 9, RouteID: "b"},
		{FromStop: 3, ToStop: 4, DepTime: 10, ArrTime: 14, RouteID: "c"},
		{FromStop: 4, ToStop: 5, DepTime: 15, ArrTime: 20, RouteID: "d"},
	}
	g := transit.BuildTransportGraph(conns, nil)
	cg := Contract(g, DefaultOptions())

	f, ok := cg.Graph.Edge(2, 4)
	if !ok {
		t.Fatal("expected contraction of node 3 to leave a 2->4 shortcut in the overlay")
	}
	res := f.Arrival(0, 0, transit.Unbounded)
	if res.Time != 14 {
		t.Errorf("2->4 shortcut arrival departing at 0 = %d, want 14 (composed 2->3->4)", res.Time)
	}
	if len(res.Nodes) != 3 || res.Nodes[0] != 2 || res.Nodes[1] != 3 || res.Nodes[2] != 4 {
		t.Errorf("2->4 shortcut expands to %v, want [2 3 4]", res.Nodes)
	}
}
