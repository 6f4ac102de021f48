package router

import (
	"container/heap"

	"scrawl/internal/canvas"
)

type cellCoord = canvas.Coords

// cellItem is one entry in the best-first search's priority queue: a
// candidate cell keyed by its Manhattan estimate to the destination, with a
// strictly increasing seq, larger seq popping first, so that, within equal
// cost, the most recently pushed item pops first (LIFO within a key — spec.md §4.6, "observable
// and must be preserved for deterministic routing in tests"). No pack
// dependency offers a tie-break-sensitive priority queue (see
// DESIGN.md), so this wraps the stdlib container/heap, grounded on the
// min-heap shape used throughout the pack's graph-search code
// (other_examples' contractor/dominator passes).
type cellItem struct {
	cell cellCoord
	cost int
	seq  int
}

type cellQueue []cellItem

func (q cellQueue) Len() int { return len(q) }

func (q cellQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	// Larger seq was pushed later; popping it first gives LIFO-within-key.
	return q[i].seq > q[j].seq
}

func (q cellQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *cellQueue) Push(x any) {
	*q = append(*q, x.(cellItem))
}

func (q *cellQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// priorityQueue is a thin wrapper so callers don't touch container/heap
// directly.
type priorityQueue struct {
	q      cellQueue
	pushes int
}

func newPriorityQueue() *priorityQueue {
	pq := &priorityQueue{}
	heap.Init(&pq.q)
	return pq
}

func (pq *priorityQueue) push(cell cellCoord, cost int) {
	pq.pushes++
	heap.Push(&pq.q, cellItem{cell: cell, cost: cost, seq: pq.pushes})
}

func (pq *priorityQueue) pop() (cellCoord, bool) {
	if pq.q.Len() == 0 {
		return cellCoord{}, false
	}
	item := heap.Pop(&pq.q).(cellItem)
	return item.cell, true
}

func (pq *priorityQueue) empty() bool { return pq.q.Len() == 0 }
