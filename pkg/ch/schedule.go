package ch

import "sort"

// BuildScheduleIndex populates NodesSchedule/PositionInEdge and their
// downward-only counterparts for every node of the contracted graph: for
// each node u, the union of all departure times across out[u] is sorted
// into a schedule; for schedule slot k, the position map gives, per
// neighbour, the smallest bus index whose departure is at or after that
// slot's time. The downward schedule restricts the departures considered
// to edges whose head has lower rank, but still indexes positions against
// every outgoing neighbour, not just the downward ones, so a
// downward-phase query can look up any edge it ends up relaxing.
func BuildScheduleIndex(cg *ContractedGraph) {
	cg.NodesSchedule = make(map[int64][]int64, len(cg.Rank))
	cg.PositionInEdge = make(map[int64]map[int]map[int64]int, len(cg.Rank))
	cg.NodesScheduleDown = make(map[int64][]int64, len(cg.Rank))
	cg.PositionInEdgeDown = make(map[int64]map[int]map[int64]int, len(cg.Rank))

	for node := range cg.Rank {
		out := cg.Graph.Out(node)
		neighbors := make([]int64, 0, len(out))
		for v := range out {
			neighbors = append(neighbors, v)
		}

		full := dedupSortedDepartures(cg, node, neighbors)
		cg.NodesSchedule[node] = full
		cg.PositionInEdge[node] = positionIndex(cg, node, neighbors, full)

		var downNeighbors []int64
		for _, v := range neighbors {
			if cg.Rank[v] < cg.Rank[node] {
				downNeighbors = append(downNeighbors, v)
			}
		}
		down := dedupSortedDepartures(cg, node, downNeighbors)
		cg.NodesScheduleDown[node] = down
		cg.PositionInEdgeDown[node] = positionIndex(cg, node, neighbors, down)
	}
}

func dedupSortedDepartures(cg *ContractedGraph, node int64, neighbors []int64) []int64 {
	seen := make(map[int64]struct{})
	var list []int64
	for _, v := range neighbors {
		f, ok := cg.Graph.Edge(node, v)
		if !ok {
			continue
		}
		for _, b := range f.Buses {
			if _, dup := seen[b.D]; !dup {
				seen[b.D] = struct{}{}
				list = append(list, b.D)
			}
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

func positionIndex(cg *ContractedGraph, node int64, neighbors, schedule []int64) map[int]map[int64]int {
	result := make(map[int]map[int64]int, len(schedule))
	for i, dep := range schedule {
		perNeighbor := make(map[int64]int, len(neighbors))
		for _, v := range neighbors {
			f, ok := cg.Graph.Edge(node, v)
			if !ok {
				continue
			}
			perNeighbor[v] = sort.Search(len(f.Buses), func(k int) bool { return f.Buses[k].D >= dep })
		}
		result[i] = perNeighbor
	}
	return result
}
