package transit

// UnionFind is a disjoint-set over a dense index space with path halving
// and union by rank, adapted from the array-backed union-find used for
// road-network component extraction to this package's opaque, arbitrary
// node ids (indices here are positions into a node list, not node ids
// themselves).
type UnionFind struct {
	parent []int32
	rank   []byte
	size   []int32
}

// NewUnionFind creates a UnionFind over n elements.
func NewUnionFind(n int) *UnionFind {
	parent := make([]int32, n)
	size := make([]int32, n)
	for i := range parent {
		parent[i] = int32(i)
		size[i] = 1
	}
	return &UnionFind{parent: parent, rank: make([]byte, n), size: size}
}

// Find returns the representative of the set containing x, with path
// halving.
func (uf *UnionFind) Find(x int32) int32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already the
// same set.
func (uf *UnionFind) Union(x, y int32) bool {
	rx, ry := uf.Find(x), uf.Find(y)
	if rx == ry {
		return false
	}
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// LargestComponent returns the node ids of the largest weakly connected
// component of g, treating edges as undirected. A disconnected transit
// network (a stop island with no walk or bus link to the rest of the
// system) otherwise surfaces as silent per-pair Unreachable results; this
// is useful preprocessing to size and validate an input before contracting
// it.
func LargestComponent(g *TransportGraph) []int64 {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil
	}

	indexOf := make(map[int64]int32, len(nodes))
	for i, n := range nodes {
		indexOf[n] = int32(i)
	}

	uf := NewUnionFind(len(nodes))
	for u, neighbors := range g.out {
		for v := range neighbors {
			uf.Union(indexOf[u], indexOf[v])
		}
	}

	bestRoot, bestSize := int32(0), int32(0)
	for i := range nodes {
		root := uf.Find(int32(i))
		if uf.size[root] > bestSize {
			bestRoot, bestSize = root, uf.size[root]
		}
	}

	result := make([]int64, 0, bestSize)
	for i, n := range nodes {
		if uf.Find(int32(i)) == bestRoot {
			result = append(result, n)
		}
	}
	return result
}

// FilterToComponent returns a new graph containing only the edges whose
// endpoints are both in nodes.
func FilterToComponent(g *TransportGraph, nodes []int64) *TransportGraph {
	keep := make(map[int64]struct{}, len(nodes))
	for _, n := range nodes {
		keep[n] = struct{}{}
	}

	filtered := NewTransportGraph()
	for u, neighbors := range g.out {
		if _, ok := keep[u]; !ok {
			continue
		}
		for v, idx := range neighbors {
			if _, ok := keep[v]; !ok {
				continue
			}
			filtered.SetEdge(u, v, g.arena[idx])
		}
	}
	return filtered
}
