package canvas

import (
	"sort"
	"testing"

	"pgregory.net/rapid"
)

// TestCoords_ClampIsAlwaysAtLeastOneOne is a property test (grounded on
// the teacher's pgregory.net/rapid usage in
// internal/orchestration/controlplane/registry_test.go) over the full
// range of int inputs, a space the hand-written Clamp test case doesn't
// cover.
func TestCoords_ClampIsAlwaysAtLeastOneOne(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.IntRange(-1000, 1000).Draw(t, "x")
		y := rapid.IntRange(-1000, 1000).Draw(t, "y")

		c := Coords{X: x, Y: y}.Clamp()
		if c.X < 1 || c.Y < 1 {
			t.Fatalf("Clamp(%d,%d) = %v, want both components >= 1", x, y, c)
		}
	})
}

// TestAnchorIndex_StaysOrderedAfterArbitraryInsertsAndRemoves exercises
// invariant 1 (spec.md §9): the index is kept ascending by (x, then y) no
// matter the sequence of mutations.
func TestAnchorIndex_StaysOrderedAfterArbitraryInsertsAndRemoves(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idx := NewAnchorIndex()
		var nextRoot NodeID = 1

		numOps := rapid.IntRange(1, 50).Draw(t, "numOps")
		for i := 0; i < numOps; i++ {
			op := rapid.IntRange(0, 2).Draw(t, "op")
			switch op {
			case 0:
				x := rapid.IntRange(-5, 20).Draw(t, "x")
				y := rapid.IntRange(-5, 20).Draw(t, "y")
				idx.Insert(Coords{X: x, Y: y}, nextRoot)
				nextRoot++
			case 1:
				entries := idx.Iterate()
				if len(entries) == 0 {
					continue
				}
				pick := rapid.IntRange(0, len(entries)-1).Draw(t, "removeIdx")
				idx.Remove(entries[pick].Coords)
			case 2:
				entries := idx.Iterate()
				if len(entries) == 0 {
					continue
				}
				pick := rapid.IntRange(0, len(entries)-1).Draw(t, "relocateIdx")
				dx := rapid.IntRange(-3, 3).Draw(t, "dx")
				dy := rapid.IntRange(-3, 3).Draw(t, "dy")
				idx.Relocate(entries[pick].Root, dx, dy)
			}

			entries := idx.Iterate()
			if !sort.SliceIsSorted(entries, func(i, j int) bool {
				return entries[i].Coords.Less(entries[j].Coords)
			}) {
				t.Fatalf("anchor index is not sorted after op %d: %+v", op, entries)
			}
		}
	})
}
