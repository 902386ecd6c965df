package transit

import "testing"

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)

	for i := int32(0); i < 5; i++ {
		if uf.Find(i) != i {
			t.Errorf("Find(%d) = %d, want %d", i, uf.Find(i), i)
		}
	}

	uf.Union(0, 1)
	if uf.Find(0) != uf.Find(1) {
		t.Error("0 and 1 should be in same set")
	}

	uf.Union(2, 3)
	if uf.Find(2) != uf.Find(3) {
		t.Error("2 and 3 should be in same set")
	}

	if uf.Find(0) == uf.Find(2) {
		t.Error("0 and 2 should be in different sets")
	}

	uf.Union(1, 3)
	if uf.Find(0) != uf.Find(3) {
		t.Error("0 and 3 should now be in same set")
	}
}

func TestLargestComponent(t *testing.T) {
	// Two weakly-connected components: stops {1,2,3} linked by bus/walk
	// edges, and an island pair {4,5} with no link to the rest.
	g := NewTransportGraph()
	g.SetEdge(1, 2, ATF{Buses: []Bus{bus(0, 10)}})
	g.SetEdge(2, 3, ATF{Buses: []Bus{bus(12, 20)}})
	g.SetEdge(4, 5, ATF{Walk: NewWalk([]int64{4, 5}, 5)})

	nodes := LargestComponent(g)
	if len(nodes) != 3 {
		t.Fatalf("LargestComponent has %d nodes, want 3", len(nodes))
	}
}

func TestFilterToComponent(t *testing.T) {
	g := NewTransportGraph()
	g.SetEdge(1, 2, ATF{Buses: []Bus{bus(0, 10)}})
	g.SetEdge(2, 3, ATF{Buses: []Bus{bus(12, 20)}})
	g.SetEdge(3, 1, ATF{Buses: []Bus{bus(21, 30)}})
	g.SetEdge(4, 5, ATF{Walk: NewWalk([]int64{4, 5}, 5)})

	nodes := LargestComponent(g)
	filtered := FilterToComponent(g, nodes)

	if filtered.NumNodes() != 3 {
		t.Fatalf("filtered NumNodes = %d, want 3", filtered.NumNodes())
	}
	if filtered.EdgesCount() != 3 {
		t.Fatalf("filtered EdgesCount = %d, want 3", filtered.EdgesCount())
	}
	if _, ok := filtered.Edge(4, 5); ok {
		t.Error("filtered graph should not contain the isolated pair's edge")
	}
}

func TestLargestComponent_EmptyGraph(t *testing.T) {
	g := NewTransportGraph()
	nodes := LargestComponent(g)
	if nodes != nil {
		t.Errorf("expected nil for empty graph, got %v", nodes)
	}

	filtered := FilterToComponent(g, nil)
	if filtered.NumNodes() != 0 || filtered.EdgesCount() != 0 {
		t.Errorf("expected empty graph, got %d nodes, %d edges", filtered.NumNodes(), filtered.EdgesCount())
	}
}
