package query

// heapItem is one entry in the FCH query's min-heap, keyed by weight
// (earliest known arrival at node).
type heapItem struct {
	node   int64
	weight int64
}

// vertexHeap is a concrete-typed binary min-heap. Rather than an indexed
// heap with decrease-key, it uses the push-duplicate, skip-stale-on-pop
// idiom: a cheaper relaxation just pushes a fresh entry, and Run discards
// any popped entry whose weight no longer matches the tentative state for
// that node.
type vertexHeap struct {
	items []heapItem
}

func (h *vertexHeap) Len() int { return len(h.items) }

func (h *vertexHeap) Push(node int64, weight int64) {
	h.items = append(h.items, heapItem{node, weight})
	h.siftUp(len(h.items) - 1)
}

func (h *vertexHeap) Pop() heapItem {
	top := h.items[0]
	n := len(h.items) - 1
	h.items[0] = h.items[n]
	h.items = h.items[:n]
	if n > 0 {
		h.siftDown(0)
	}
	return top
}

func (h *vertexHeap) siftUp(i int) {
	item := h.items[i]
	for i > 0 {
		parent := (i - 1) / 2
		if item.weight >= h.items[parent].weight {
			break
		}
		h.items[i] = h.items[parent]
		i = parent
	}
	h.items[i] = item
}

func (h *vertexHeap) siftDown(i int) {
	n := len(h.items)
	item := h.items[i]
	for {
		child := 2*i + 1
		if child >= n {
			break
		}
		if right := child + 1; right < n && h.items[right].weight < h.items[child].weight {
			child = right
		}
		if item.weight <= h.items[child].weight {
			break
		}
		h.items[i] = h.items[child]
		i = child
	}
	h.items[i] = item
}
