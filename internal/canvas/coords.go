// Package canvas implements the anchor/tree/arrow data model: the arena of
// Nodes, the ordered Coords->anchor index, the selection record, and the
// arrows that connect selections. Mutation of this graph happens only from
// the editor package; canvas reads time only through the injected Clock
// and never touches the terminal.
package canvas

import "fmt"

// Coords is an (x, y) pair in terminal cells, origin (1,1) top-left.
// Every Coords that reaches the index or an arrow route is clamped to
// x >= 1 and y >= 1.
type Coords struct {
	X, Y int
}

// Clamp returns c with both components floored at 1.
func (c Coords) Clamp() Coords {
	if c.X < 1 {
		c.X = 1
	}
	if c.Y < 1 {
		c.Y = 1
	}
	return c
}

// Add returns c translated by (dx, dy), clamped to >= (1,1).
func (c Coords) Add(dx, dy int) Coords {
	return Coords{X: c.X + dx, Y: c.Y + dy}.Clamp()
}

// Less orders Coords ascending by X then Y, the order the anchor index
// iterates and renders in.
func (c Coords) Less(o Coords) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Y < o.Y
}

func (c Coords) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}
