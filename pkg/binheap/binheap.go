package binheap

import (
	"container/heap"

	"github.com/suitegen/suitegen/pkg/core"
)

// Heap is a min-heap of packing bins keyed by accumulated cost
type Heap []*core.Bin

// New returns an initialized heap of n empty bins.
func New(n int) *Heap {
	h := make(Heap, n)
	for i := 0; i < n; i++ {
		h[i] = &core.Bin{Index: i}
	}
	heap.Init(&h)
	return &h
}

// Len returns the length of the heap
func (h Heap) Len() int {
	return len(h)
}

func (h Heap) Less(i, j int) bool {
	if h[i].TotalCost == h[j].TotalCost {
		// deterministic tie break, lowest index wins
		return h[i].Index < h[j].Index
	}
	return h[i].TotalCost < h[j].TotalCost
}

// Swap swaps the values of two bins
func (h Heap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// Push adds a new bin to the heap
func (h *Heap) Push(x interface{}) {
	item := x.(*core.Bin)
	*h = append(*h, item)
}

// Pop removes the top bin from the heap
func (h *Heap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil // avoid memory leak
	*h = old[0 : n-1]
	return x
}

// Assign places the test on the least-loaded bin that still has capacity for
// one more member. Bins at capacity are retired from the heap; they stay
// reachable through the caller's bin slice. Returns false when every bin is
// full. A capPerBin of zero or less disables the cap.
func (h *Heap) Assign(test core.TestRef, cost float64, capPerBin int) bool {
	for h.Len() > 0 {
		head := (*h)[0]
		if capPerBin > 0 && len(head.Members) >= capPerBin {
			heap.Pop(h)
			continue
		}
		head.Add(test, cost)
		// heapify after updating the bin
		heap.Fix(h, 0)
		return true
	}
	return false
}

// Grow adds an empty bin with the given index and returns it.
func (h *Heap) Grow(index int) *core.Bin {
	bin := &core.Bin{Index: index}
	heap.Push(h, bin)
	return bin
}
