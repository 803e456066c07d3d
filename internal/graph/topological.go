package graph

import (
	"container/heap"
	"errors"
	"fmt"
	"strings"
)

// ErrCycleDetected is matched by every CycleError
var ErrCycleDetected = errors.New("cycle detected in dependency graph")

// CycleError reports the nodes that could not be ordered
type CycleError[K comparable] struct {
	Remaining []K // unsorted nodes in first-referenced order
	Path      []K // one concrete cycle, closed by repeating its first node
}

func (e *CycleError[K]) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = fmt.Sprint(id)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s: %d nodes left unsorted", ErrCycleDetected, len(e.Remaining))
	}
	return fmt.Sprintf("%s: %s", ErrCycleDetected, strings.Join(parts, " -> "))
}

func (e *CycleError[K]) Is(target error) bool {
	return target == ErrCycleDetected
}

// TopologicalSort orders the nodes so every dependency precedes its
// dependents. Among nodes that are ready at the same step, the one referenced
// first wins, so the result is fully determined by insertion order. A cycle
// yields a *CycleError.
func (g *Graph[K]) TopologicalSort() ([]K, error) {
	inDegree := make([]int, len(g.inDegree))
	copy(inDegree, g.inDegree)

	ready := &indexHeap{}
	for i, d := range inDegree {
		if d == 0 {
			*ready = append(*ready, i)
		}
	}
	heap.Init(ready)

	order := make([]K, 0, len(g.nodes))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(int)
		order = append(order, g.nodes[n])
		for _, s := range g.successors[n] {
			inDegree[s]--
			if inDegree[s] == 0 {
				heap.Push(ready, s)
			}
		}
	}

	if len(order) < len(g.nodes) {
		var remaining []K
		start := -1
		for i, d := range inDegree {
			if d > 0 {
				remaining = append(remaining, g.nodes[i])
				if start < 0 {
					start = i
				}
			}
		}
		return nil, &CycleError[K]{
			Remaining: remaining,
			Path:      g.cycleFrom(start, inDegree),
		}
	}

	return order, nil
}

// indexHeap is a min-heap of node indexes
type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *indexHeap) Push(x any) {
	*h = append(*h, x.(int))
}

func (h *indexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
