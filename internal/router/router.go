// Package router implements the cost-based shortest-path search that
// connects two selections with a minimum-Manhattan-cost route around
// occupied cells (spec.md §4.6).
package router

import (
	"scrawl/internal/canvas"
	"scrawl/internal/log"
)

// Grid is the read-only view of the canvas the router needs: whether a
// cell is occupied, and where a selection's drawn span begins and ends.
// *canvas.Canvas satisfies this directly.
type Grid interface {
	Occupied(c canvas.Coords) bool
	Bounds(ref canvas.SelectionRef) (left, right canvas.Coords, ok bool)
}

// DefaultCapFactor is the recommended expansion cap multiplier from
// spec.md §4.6: 16 * (w * h) expansions before giving up and falling back
// to the straight Manhattan route.
const DefaultCapFactor = 16

// Route computes the route between selections a and b: it resolves each to
// its drawn bounds, tries all four corner-to-corner combinations, and
// keeps the shortest, first-found wins on ties (spec.md §4.6 "Between two
// selections"). Returns false if either selection is dangling.
func Route(g Grid, a, b canvas.SelectionRef, width, height int) ([]canvas.Coords, bool) {
	a1, a2, ok := g.Bounds(a)
	if !ok {
		return nil, false
	}
	b1, b2, ok := g.Bounds(b)
	if !ok {
		return nil, false
	}

	expCap := DefaultCapFactor * width * height
	if expCap <= 0 {
		expCap = DefaultCapFactor
	}

	candidates := []struct{ from, to canvas.Coords }{
		{a1, b1}, {a1, b2}, {a2, b1}, {a2, b2},
	}

	var best []canvas.Coords
	for _, c := range candidates {
		path := search(g, c.from, c.to, expCap)
		if best == nil || len(path) < len(best) {
			best = path
		}
	}
	return best, true
}

// search runs the best-first grid search described in spec.md §4.6 from
// start to dest, avoiding occupied cells (dest itself is always
// traversable even if occupied, since it is the target node's own cell).
// If the expansion cap is hit, it logs a warn and falls back to the
// straight Manhattan route (spec.md §7 "Search cap exceeded").
func search(g Grid, start, dest canvas.Coords, expansionCap int) []canvas.Coords {
	if start == dest {
		return []canvas.Coords{start}
	}

	visited := map[canvas.Coords]canvas.Coords{start: start}
	pq := newPriorityQueue()
	pq.push(start, heuristic(start, dest))

	expansions := 0
	cursor := start
	found := false

	for !pq.empty() {
		c, ok := pq.pop()
		if !ok {
			break
		}
		cursor = c
		if cursor == dest {
			found = true
			break
		}
		expansions++
		if expansions > expansionCap {
			break
		}
		for _, n := range neighbours(cursor) {
			if n == dest {
				if _, seen := visited[n]; !seen {
					visited[n] = cursor
					pq.push(n, heuristic(n, dest))
				}
				continue
			}
			if g.Occupied(n) {
				continue
			}
			if _, seen := visited[n]; seen {
				continue
			}
			visited[n] = cursor
			pq.push(n, heuristic(n, dest))
		}
	}

	if !found {
		log.Warn(log.CatRouter, "arrow route expansion cap exceeded, falling back to straight route",
			"start", start.String(), "dest", dest.String())
		return manhattanRoute(start, dest)
	}

	return reconstruct(visited, start, dest)
}

// heuristic is the Manhattan distance estimate h(c, dest).
func heuristic(c, dest canvas.Coords) int {
	return abs(c.X-dest.X) + abs(c.Y-dest.Y)
}

// neighbours returns the four cardinal cells, each clamped to >= (1,1).
func neighbours(c canvas.Coords) [4]canvas.Coords {
	return [4]canvas.Coords{
		{X: c.X - 1, Y: c.Y}.Clamp(),
		{X: c.X + 1, Y: c.Y}.Clamp(),
		{X: c.X, Y: c.Y - 1}.Clamp(),
		{X: c.X, Y: c.Y + 1}.Clamp(),
	}
}

// reconstruct walks visited from dest back to start, excluding dest and
// including start, then reverses: "the emitted path excludes dest itself
// and includes start" (spec.md §4.6).
func reconstruct(visited map[canvas.Coords]canvas.Coords, start, dest canvas.Coords) []canvas.Coords {
	var rev []canvas.Coords
	cur := dest
	for cur != start {
		prev, ok := visited[cur]
		if !ok {
			break
		}
		cur = prev
		rev = append(rev, cur)
	}
	out := make([]canvas.Coords, len(rev))
	for i, c := range rev {
		out[len(rev)-1-i] = c
	}
	return out
}

// manhattanRoute is the degenerate straight-line fallback when the search
// cap fires: an L-shaped path along x then y, ignoring occupation.
func manhattanRoute(start, dest canvas.Coords) []canvas.Coords {
	var out []canvas.Coords
	cur := start
	for cur.X != dest.X {
		out = append(out, cur)
		if cur.X < dest.X {
			cur.X++
		} else {
			cur.X--
		}
	}
	for cur.Y != dest.Y {
		out = append(out, cur)
		if cur.Y < dest.Y {
			cur.Y++
		} else {
			cur.Y--
		}
	}
	out = append(out, cur)
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
