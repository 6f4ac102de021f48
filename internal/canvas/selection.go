package canvas

// SelectionRef identifies a selected Node together with the anchor root it
// hangs off of, so it survives relocation of that anchor. Arrows and the
// current selection record both use this shape (spec.md §3).
type SelectionRef struct {
	Anchor NodeID
	Node   NodeID
}

// IsZero reports whether ref is the unset sentinel.
func (r SelectionRef) IsZero() bool {
	return r.Anchor == 0 && r.Node == 0
}

// selectionState holds the at-most-one selection record plus drag/arrow
// staging, per spec.md §3's "Selection" block.
type selectionState struct {
	current      SelectionRef
	hasCurrent   bool
	draggingFrom *Coords
	drawingArrow *SelectionRef
}
