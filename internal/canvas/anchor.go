package canvas

import "sort"

// anchorEntry pairs a root Coords with the NodeID of its root Node.
type anchorEntry struct {
	coords Coords
	root   NodeID
}

// AnchorIndex is an ordered mapping from Coords to a root Node. It is kept
// as a coords-sorted slice rather than a tree or a hash map: spec.md
// requires ascending (x, then y) iteration for deterministic rendering and
// hit-testing, and the pack carries no ordered-map container (see
// DESIGN.md) — a sorted slice gives that ordering directly and the index
// is never large enough (bounded by screen real estate) for O(n) insert to
// matter.
type AnchorIndex struct {
	entries []anchorEntry
}

// NewAnchorIndex creates an empty index.
func NewAnchorIndex() *AnchorIndex {
	return &AnchorIndex{}
}

// Insert clamps coords to >= (1,1) and records root there, overwriting
// whatever anchor previously occupied that cell. Returns the clamped
// coords actually used.
func (idx *AnchorIndex) Insert(coords Coords, root NodeID) Coords {
	coords = coords.Clamp()
	for i, e := range idx.entries {
		if e.coords == coords {
			idx.entries[i].root = root
			return coords
		}
	}
	idx.entries = append(idx.entries, anchorEntry{coords: coords, root: root})
	idx.sort()
	return coords
}

// Remove deletes the anchor at coords, if any, returning its root.
func (idx *AnchorIndex) Remove(coords Coords) (NodeID, bool) {
	for i, e := range idx.entries {
		if e.coords == coords {
			root := e.root
			idx.entries = append(idx.entries[:i], idx.entries[i+1:]...)
			return root, true
		}
	}
	return 0, false
}

// RemoveRoot deletes whichever anchor entry has the given root, returning
// the coords it occupied. Invariant 1 guarantees at most one entry matches.
func (idx *AnchorIndex) RemoveRoot(root NodeID) (Coords, bool) {
	for i, e := range idx.entries {
		if e.root == root {
			coords := e.coords
			idx.entries = append(idx.entries[:i], idx.entries[i+1:]...)
			return coords, true
		}
	}
	return Coords{}, false
}

// Get resolves the anchor root rooted exactly at coords.
func (idx *AnchorIndex) Get(coords Coords) (NodeID, bool) {
	for _, e := range idx.entries {
		if e.coords == coords {
			return e.root, true
		}
	}
	return 0, false
}

// RootCoords returns the coords the given root anchor currently occupies.
func (idx *AnchorIndex) RootCoords(root NodeID) (Coords, bool) {
	for _, e := range idx.entries {
		if e.root == root {
			return e.coords, true
		}
	}
	return Coords{}, false
}

// Entry is a read-only (Coords, NodeID) pair for iteration.
type Entry struct {
	Coords Coords
	Root   NodeID
}

// Iterate returns every anchor entry in ascending (x, then y) order.
func (idx *AnchorIndex) Iterate() []Entry {
	out := make([]Entry, len(idx.entries))
	for i, e := range idx.entries {
		out[i] = Entry{Coords: e.coords, Root: e.root}
	}
	return out
}

// Relocate moves the anchor rooted at root by (dx, dy), clamping the
// destination to >= (1,1): it removes root's entry and re-inserts it, so an
// anchor already at the destination is overwritten, as with Insert.
// Returns the new coords, or false if root has no anchor entry.
func (idx *AnchorIndex) Relocate(root NodeID, dx, dy int) (Coords, bool) {
	coords, ok := idx.RemoveRoot(root)
	if !ok {
		return Coords{}, false
	}
	return idx.Insert(coords.Add(dx, dy), root), true
}

func (idx *AnchorIndex) sort() {
	sort.Slice(idx.entries, func(i, j int) bool {
		return idx.entries[i].coords.Less(idx.entries[j].coords)
	})
}
