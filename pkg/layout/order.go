package layout

import (
	"container/heap"
	"sort"
	"strings"

	"github.com/aretw0/gitgraph/pkg/domain"
)

type seqHeap struct {
	items []int
	seq   []int
}

func (h seqHeap) Len() int { return len(h.items) }
func (h seqHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if h.seq[a] != h.seq[b] {
		return h.seq[a] < h.seq[b]
	}
	return a < b
}
func (h seqHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *seqHeap) Push(x any)   { h.items = append(h.items, x.(int)) }
func (h *seqHeap) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}

// topology is the handle-level view of a node slice.
type topology struct {
	parents  [][]int
	children [][]int
}

func buildTopology(nodes []domain.Node) (*topology, error) {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, dup := index[n.ID]; dup {
			return nil, &domain.GraphError{Kind: domain.ErrDuplicateID, NodeID: n.ID}
		}
		index[n.ID] = i
	}

	t := &topology{
		parents:  make([][]int, len(nodes)),
		children: make([][]int, len(nodes)),
	}
	for i, n := range nodes {
		for _, p := range n.Parents {
			h, ok := index[p]
			if !ok {
				return nil, &domain.GraphError{Kind: domain.ErrUnknownParent, NodeID: n.ID, Ref: p}
			}
			if containsHandle(t.parents[i], h) {
				continue
			}
			t.parents[i] = append(t.parents[i], h)
			t.children[h] = append(t.children[h], i)
		}
	}
	return t, nil
}

// topoOrder returns handles in row order using Kahn's algorithm.
// The ready set is a min-heap keyed by insertion sequence.
func topoOrder(nodes []domain.Node, t *topology) ([]int, error) {
	indeg := make([]int, len(nodes))
	seq := make([]int, len(nodes))
	for i, n := range nodes {
		indeg[i] = len(t.parents[i])
		seq[i] = n.Seq
	}

	ready := &seqHeap{seq: seq}
	for i := range nodes {
		if indeg[i] == 0 {
			ready.items = append(ready.items, i)
		}
	}
	heap.Init(ready)

	order := make([]int, 0, len(nodes))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(int)
		order = append(order, n)
		for _, c := range t.children[n] {
			indeg[c]--
			if indeg[c] == 0 {
				heap.Push(ready, c)
			}
		}
	}

	if len(order) != len(nodes) {
		var stuck []int
		for i := range nodes {
			if indeg[i] > 0 {
				stuck = append(stuck, i)
			}
		}
		sort.Slice(stuck, func(a, b int) bool { return seq[stuck[a]] < seq[stuck[b]] })
		ids := make([]string, len(stuck))
		for i, h := range stuck {
			ids[i] = nodes[h].ID
		}
		return nil, &domain.GraphError{Kind: domain.ErrCycleDetected, Ref: strings.Join(ids, ", ")}
	}
	return order, nil
}

func containsHandle(hs []int, h int) bool {
	for _, x := range hs {
		if x == h {
			return true
		}
	}
	return false
}
