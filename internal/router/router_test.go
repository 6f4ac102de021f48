package router

import (
	"testing"

	"github.com/stretchr/testify/require"

	"scrawl/internal/canvas"
)

// fakeGrid is a minimal router.Grid: a fixed set of occupied cells, and
// bounds looked up from a map keyed by SelectionRef.
type fakeGrid struct {
	occupied map[canvas.Coords]bool
	bounds   map[canvas.SelectionRef][2]canvas.Coords
}

func newFakeGrid() *fakeGrid {
	return &fakeGrid{
		occupied: map[canvas.Coords]bool{},
		bounds:   map[canvas.SelectionRef][2]canvas.Coords{},
	}
}

func (g *fakeGrid) Occupied(c canvas.Coords) bool { return g.occupied[c] }

func (g *fakeGrid) Bounds(ref canvas.SelectionRef) (left, right canvas.Coords, ok bool) {
	b, found := g.bounds[ref]
	if !found {
		return canvas.Coords{}, canvas.Coords{}, false
	}
	return b[0], b[1], true
}

func (g *fakeGrid) setPoint(ref canvas.SelectionRef, at canvas.Coords) {
	g.bounds[ref] = [2]canvas.Coords{at, at}
}

func TestRoute_DanglingSelectionFails(t *testing.T) {
	g := newFakeGrid()
	_, ok := Route(g, canvas.SelectionRef{Anchor: 1, Node: 1}, canvas.SelectionRef{Anchor: 2, Node: 2}, 80, 24)
	require.False(t, ok)
}

func TestRoute_StraightLineScenarioS4(t *testing.T) {
	// spec.md §8 scenario S4: two point selections at (2,5) and (10,5),
	// an open grid, expected route length 8 == |10-2|.
	g := newFakeGrid()
	a := canvas.SelectionRef{Anchor: 1, Node: 1}
	b := canvas.SelectionRef{Anchor: 2, Node: 2}
	g.setPoint(a, canvas.Coords{X: 2, Y: 5})
	g.setPoint(b, canvas.Coords{X: 10, Y: 5})

	path, ok := Route(g, a, b, 80, 24)
	require.True(t, ok)
	require.Len(t, path, 8)
	require.Equal(t, canvas.Coords{X: 2, Y: 5}, path[0])
}

func TestRoute_RoutesAroundOccupiedCell(t *testing.T) {
	g := newFakeGrid()
	a := canvas.SelectionRef{Anchor: 1, Node: 1}
	b := canvas.SelectionRef{Anchor: 2, Node: 2}
	g.setPoint(a, canvas.Coords{X: 1, Y: 1})
	g.setPoint(b, canvas.Coords{X: 3, Y: 1})
	g.occupied[canvas.Coords{X: 2, Y: 1}] = true

	path, ok := Route(g, a, b, 80, 24)
	require.True(t, ok)
	for _, c := range path {
		require.False(t, g.Occupied(c), "route must not cross the occupied cell")
	}
}

func TestRoute_DestinationItselfMayBeOccupied(t *testing.T) {
	g := newFakeGrid()
	a := canvas.SelectionRef{Anchor: 1, Node: 1}
	b := canvas.SelectionRef{Anchor: 2, Node: 2}
	g.setPoint(a, canvas.Coords{X: 1, Y: 1})
	g.setPoint(b, canvas.Coords{X: 2, Y: 1})
	g.occupied[canvas.Coords{X: 2, Y: 1}] = true // dest's own cell

	path, ok := Route(g, a, b, 80, 24)
	require.True(t, ok)
	require.NotEmpty(t, path)
}

func TestRoute_SameCellIsZeroLength(t *testing.T) {
	g := newFakeGrid()
	a := canvas.SelectionRef{Anchor: 1, Node: 1}
	g.setPoint(a, canvas.Coords{X: 5, Y: 5})

	path, ok := Route(g, a, a, 80, 24)
	require.True(t, ok)
	require.Len(t, path, 1)
	require.Equal(t, canvas.Coords{X: 5, Y: 5}, path[0])
}

func TestManhattanRoute_LShapedAndEndsAtDest(t *testing.T) {
	path := manhattanRoute(canvas.Coords{X: 1, Y: 1}, canvas.Coords{X: 4, Y: 3})
	require.Equal(t, []canvas.Coords{
		{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1},
		{X: 4, Y: 1}, {X: 4, Y: 2}, {X: 4, Y: 3},
	}, path)
}

func TestSearch_FallsBackToManhattanWhenCapExceeded(t *testing.T) {
	g := newFakeGrid()
	// expansionCap of 0 fires the fallback on the very first expansion.
	path := search(g, canvas.Coords{X: 1, Y: 1}, canvas.Coords{X: 5, Y: 5}, 0)
	require.Equal(t, manhattanRoute(canvas.Coords{X: 1, Y: 1}, canvas.Coords{X: 5, Y: 5}), path)
}

func TestPriorityQueue_LIFOWithinEqualCost(t *testing.T) {
	pq := newPriorityQueue()
	pq.push(canvas.Coords{X: 1, Y: 1}, 5)
	pq.push(canvas.Coords{X: 2, Y: 2}, 5)
	pq.push(canvas.Coords{X: 3, Y: 3}, 5)

	first, ok := pq.pop()
	require.True(t, ok)
	require.Equal(t, canvas.Coords{X: 3, Y: 3}, first, "equal-cost entries pop most-recently-pushed first")

	second, _ := pq.pop()
	require.Equal(t, canvas.Coords{X: 2, Y: 2}, second)

	third, _ := pq.pop()
	require.Equal(t, canvas.Coords{X: 1, Y: 1}, third)
}

func TestPriorityQueue_LowerCostPopsFirstRegardlessOfOrder(t *testing.T) {
	pq := newPriorityQueue()
	pq.push(canvas.Coords{X: 9, Y: 9}, 10)
	pq.push(canvas.Coords{X: 1, Y: 1}, 1)

	first, _ := pq.pop()
	require.Equal(t, canvas.Coords{X: 1, Y: 1}, first)
}
