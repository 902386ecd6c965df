package transit

// TransportGraph is a raw directed graph of ATFs, one profile per (u,v)
// pair present in the input. Each ATF is stored once in an arena indexed
// by (u,v), with out/in holding only arena indices, rather than
// duplicating the profile object in both adjacency views.
type TransportGraph struct {
	nodes map[int64]struct{}
	arena []ATF
	out   map[int64]map[int64]int
	in    map[int64]map[int64]int
}

// NewTransportGraph returns an empty graph.
func NewTransportGraph() *TransportGraph {
	return &TransportGraph{
		nodes: make(map[int64]struct{}),
		out:   make(map[int64]map[int64]int),
		in:    make(map[int64]map[int64]int),
	}
}

func (g *TransportGraph) addNode(n int64) {
	g.nodes[n] = struct{}{}
	if g.out[n] == nil {
		g.out[n] = make(map[int64]int)
	}
	if g.in[n] == nil {
		g.in[n] = make(map[int64]int)
	}
}

// SetEdge installs f as the profile for u→v, replacing any existing one in
// place (the arena slot is reused, so outstanding indices elsewhere stay
// valid).
func (g *TransportGraph) SetEdge(u, v int64, f ATF) {
	g.addNode(u)
	g.addNode(v)
	if idx, ok := g.out[u][v]; ok {
		g.arena[idx] = f
		return
	}
	idx := len(g.arena)
	g.arena = append(g.arena, f)
	g.out[u][v] = idx
	g.in[v][u] = idx
}

// Edge returns the profile for u→v and whether it exists.
func (g *TransportGraph) Edge(u, v int64) (*ATF, bool) {
	idx, ok := g.out[u][v]
	if !ok {
		return nil, false
	}
	return &g.arena[idx], true
}

// DeleteEdge removes the u→v profile from both adjacency views. The arena
// slot is left in place: shortcuts routinely outnumber original edges, and
// compacting mid-contraction would invalidate every other live index.
func (g *TransportGraph) DeleteEdge(u, v int64) {
	delete(g.out[u], v)
	delete(g.in[v], u)
}

// Out returns node→arenaIndex for every outgoing neighbour of u.
func (g *TransportGraph) Out(u int64) map[int64]int { return g.out[u] }

// In returns node→arenaIndex for every incoming neighbour of v.
func (g *TransportGraph) In(v int64) map[int64]int { return g.in[v] }

// Nodes returns every node id present in the graph, in no particular
// order.
func (g *TransportGraph) Nodes() []int64 {
	nodes := make([]int64, 0, len(g.nodes))
	for n := range g.nodes {
		nodes = append(nodes, n)
	}
	return nodes
}

// NumNodes returns the node count.
func (g *TransportGraph) NumNodes() int { return len(g.nodes) }

// EdgesCount returns the number of live (u,v) edges.
func (g *TransportGraph) EdgesCount() int {
	n := 0
	for _, m := range g.out {
		n += len(m)
	}
	return n
}

// EdgeDifference is the contraction-priority term: an upper bound on the
// net shortcut count contracting n would introduce.
func (g *TransportGraph) EdgeDifference(n int64) int {
	outCnt := len(g.out[n])
	inCnt := len(g.in[n])
	return outCnt*inCnt - (outCnt + inCnt)
}
