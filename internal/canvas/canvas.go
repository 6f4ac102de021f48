package canvas

import "github.com/google/uuid"

// Canvas is the complete editable state: the node arena, the anchor index,
// the arrow list, and the selection record. It is mutated exclusively by
// the editor package's event state machine (spec.md §5).
type Canvas struct {
	SessionID uuid.UUID

	arena   *Arena
	anchors *AnchorIndex
	arrows  []Arrow
	sel     selectionState
	clock   Clock
}

// New creates an empty canvas stamped with a fresh session id.
func New(clock Clock) *Canvas {
	return &Canvas{
		SessionID: uuid.New(),
		arena:     NewArena(clock),
		anchors:   NewAnchorIndex(),
		clock:     clock,
	}
}

// Arena exposes the node arena for read access (rendering, snapshotting).
func (c *Canvas) Arena() *Arena { return c.arena }

// Anchors exposes the anchor index for read access.
func (c *Canvas) Anchors() *AnchorIndex { return c.anchors }

// Arrows returns the current arrow list.
func (c *Canvas) Arrows() []Arrow { return c.arrows }

// now is a small convenience wrapper around the injected clock.
func (c *Canvas) now() int64 { return c.clock.NowUnix() }

// ---- hit-testing (spec.md §4.3) ----

// HitTest maps a click at coords to the SelectionRef it lands on, if any.
// Candidate anchors are every entry whose root's drawn box covers coords;
// among candidates the LAST match in anchor-index order wins (later,
// higher-coordinate anchors visually overlap earlier ones).
func (c *Canvas) HitTest(click Coords) (SelectionRef, bool) {
	var found SelectionRef
	ok := false
	for _, e := range c.anchors.Iterate() {
		p := e.Coords
		if click.X < p.X || click.Y < p.Y {
			continue
		}
		dy := click.Y - p.Y
		if dy >= c.arena.Height(e.Root) {
			continue
		}
		dx := click.X - p.X
		if dy == 0 {
			n, present := c.arena.Get(e.Root)
			if !present || dx > n.Len()+1 {
				continue
			}
			found = SelectionRef{Anchor: e.Root, Node: e.Root}
			ok = true
			continue
		}
		if target, hit := c.arena.FindChildAtCoords(e.Root, dy, dx); hit {
			found = SelectionRef{Anchor: e.Root, Node: target}
			ok = true
		}
	}
	return found, ok
}

// Occupied reports whether coords hit-tests to some Node. Implements
// router.Grid.
func (c *Canvas) Occupied(coords Coords) bool {
	_, ok := c.HitTest(coords)
	return ok
}

// Bounds resolves a selection to its drawn span: left is the node's
// on-screen position; right extends along the same row to the edge of the
// node's drawn line (spec.md §4.6). Returns false if ref is dangling.
func (c *Canvas) Bounds(ref SelectionRef) (left, right Coords, ok bool) {
	anchorCoords, hasAnchor := c.anchors.RootCoords(ref.Anchor)
	if !hasAnchor {
		return Coords{}, Coords{}, false
	}
	n, present := c.arena.Get(ref.Node)
	if !present {
		return Coords{}, Coords{}, false
	}
	order := c.arena.FlatVisibleChildren(ref.Anchor)
	idx := -1
	for i, id := range order {
		if id == ref.Node {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Coords{}, Coords{}, false
	}
	left = Coords{X: anchorCoords.X, Y: anchorCoords.Y + idx}
	// Right edge sits on the last character cell: content length 0 or 1
	// both collapse right onto left (spec.md §8 scenario S4, "bounds
	// collapse to single points with empty content"). The marker cell
	// added by the len(content)+1 span (spec.md §4.3) decorates the line
	// but isn't part of the routable span.
	span := n.Len() - 1
	if span < 0 {
		span = 0
	}
	right = Coords{X: left.X + span, Y: left.Y}
	return left, right, true
}

// selectedRef resolves the current selection record against the arena,
// clearing it (per spec.md §7 "selection dangling") if it no longer
// resolves.
func (c *Canvas) selectedRef() (SelectionRef, bool) {
	if !c.sel.hasCurrent {
		return SelectionRef{}, false
	}
	if _, ok := c.arena.Get(c.sel.current.Node); !ok {
		c.sel.hasCurrent = false
		return SelectionRef{}, false
	}
	if _, ok := c.anchors.RootCoords(c.sel.current.Anchor); !ok {
		c.sel.hasCurrent = false
		return SelectionRef{}, false
	}
	return c.sel.current, true
}

// Selected returns the current selection, resolved.
func (c *Canvas) Selected() (SelectionRef, bool) { return c.selectedRef() }

// SelectedNode returns the currently selected Node, if any.
func (c *Canvas) SelectedNode() (*Node, bool) {
	ref, ok := c.selectedRef()
	if !ok {
		return nil, false
	}
	return c.arena.Get(ref.Node)
}

// SelectedScreenCoords returns the on-screen (x,y) of the current
// selection, used by the Up/Down key transitions.
func (c *Canvas) SelectedScreenCoords() (Coords, bool) {
	ref, ok := c.selectedRef()
	if !ok {
		return Coords{}, false
	}
	left, _, ok := c.Bounds(ref)
	return left, ok
}

// setSelection installs ref as the current selection and flags its node.
func (c *Canvas) setSelection(ref SelectionRef) {
	c.arena.Select(ref.Node)
	c.sel.current = ref
	c.sel.hasCurrent = true
}

// PopSelection clears whatever is currently selected and returns it.
func (c *Canvas) PopSelection() (SelectionRef, bool) {
	ref, ok := c.selectedRef()
	if ok {
		c.arena.Deselect(ref.Node)
	}
	c.sel.hasCurrent = false
	return ref, ok
}

// TrySelect is a no-op while a drag is in flight; otherwise it hit-tests
// coords, selects whatever it finds, and records the drag origin.
// Reports whether a node was selected.
func (c *Canvas) TrySelect(coords Coords) bool {
	if c.sel.draggingFrom != nil {
		return false
	}
	ref, ok := c.HitTest(coords)
	if !ok {
		return false
	}
	c.setSelection(ref)
	origin := coords
	c.sel.draggingFrom = &origin
	return true
}

// clickSelect hit-tests coords and selects whatever it finds. Unlike
// TrySelect it neither consults nor records a drag origin, so keyboard
// navigation works while a mouse press is still unreleased.
func (c *Canvas) clickSelect(coords Coords) bool {
	ref, ok := c.HitTest(coords)
	if !ok {
		return false
	}
	c.setSelection(ref)
	return true
}

// SelectUp implements "↑" (spec.md §4.4): click-selects the row above
// the current selection when y > 1. A miss leaves the prior selection
// untouched, since clickSelect only mutates state on a hit — which is
// exactly spec.md's "if that misses, restore previous selection".
func (c *Canvas) SelectUp() bool {
	coords, ok := c.SelectedScreenCoords()
	if !ok || coords.Y <= 1 {
		return false
	}
	return c.clickSelect(Coords{X: coords.X, Y: coords.Y - 1})
}

// SelectDown implements "↓" (spec.md §4.4): click-selects the row below
// the current selection.
func (c *Canvas) SelectDown() bool {
	coords, ok := c.SelectedScreenCoords()
	if !ok {
		return false
	}
	return c.clickSelect(Coords{X: coords.X, Y: coords.Y + 1})
}

// DraggingFrom reports the drag origin, if a press is unreleased.
func (c *Canvas) DraggingFrom() (Coords, bool) {
	if c.sel.draggingFrom == nil {
		return Coords{}, false
	}
	return *c.sel.draggingFrom, true
}

// HandlePress implements "Mouse press (x,y)" (spec.md §4.4): pop the
// current selection, try-select at coords, and — only if nothing was
// selected before, nothing hit-tests now, and no drag is already in
// flight — create a fresh empty anchor there and select it (spec.md §8
// scenario S1: the freshly created anchor ends up selected).
func (c *Canvas) HandlePress(coords Coords) {
	_, wasDragging := c.DraggingFrom()
	_, hadSelection := c.PopSelection()
	selected := c.TrySelect(coords)
	if !hadSelection && !selected && !wasDragging {
		id := c.CreateAnchor(coords)
		c.setSelection(SelectionRef{Anchor: id, Node: id})
	}
}

// ReleaseDrag relocates the dragged anchor by the delta between the drag
// origin and release, then clears the drag. A no-op if nothing was
// dragging.
func (c *Canvas) ReleaseDrag(release Coords) {
	origin, dragging := c.DraggingFrom()
	if !dragging {
		return
	}
	c.sel.draggingFrom = nil
	ref, ok := c.selectedRef()
	if !ok {
		return
	}
	dx := release.X - origin.X
	dy := release.Y - origin.Y
	c.anchors.Relocate(ref.Anchor, dx, dy)
}

// ---- content/flag mutators (spec.md §4.4) ----

// ToggleCollapsedSelected applies Node.ToggleCollapsed to the current
// selection. Returns false if nothing is selected.
func (c *Canvas) ToggleCollapsedSelected() bool {
	n, ok := c.SelectedNode()
	if !ok {
		return false
	}
	n.ToggleCollapsed(c.now())
	return true
}

// ToggleStrickenSelected applies Node.ToggleStricken to the current
// selection. Returns false if nothing is selected.
func (c *Canvas) ToggleStrickenSelected() bool {
	n, ok := c.SelectedNode()
	if !ok {
		return false
	}
	n.ToggleStricken(c.now())
	return true
}

// ToggleHideStrickenSelected applies Node.ToggleHideStricken to the
// current selection. Returns false if nothing is selected.
func (c *Canvas) ToggleHideStrickenSelected() bool {
	n, ok := c.SelectedNode()
	if !ok {
		return false
	}
	n.ToggleHideStricken(c.now())
	return true
}

// AppendToSelected appends ch to the current selection's content.
// Returns false if nothing is selected.
func (c *Canvas) AppendToSelected(ch rune) bool {
	n, ok := c.SelectedNode()
	if !ok {
		return false
	}
	n.Append(ch, c.now())
	return true
}

// BackspaceSelected removes the last rune from the current selection's
// content. Returns false if nothing is selected.
func (c *Canvas) BackspaceSelected() bool {
	n, ok := c.SelectedNode()
	if !ok {
		return false
	}
	n.Backspace(c.now())
	return true
}

// ---- lifecycle (spec.md §3 "Lifecycle") ----

// CreateAnchor creates a new empty root Node at coords and returns its id.
func (c *Canvas) CreateAnchor(coords Coords) NodeID {
	id := c.arena.CreateNode()
	c.anchors.Insert(coords, id)
	return id
}

// CreateChildUnderSelected creates a new empty child under the currently
// selected Node and selects it. Returns false if nothing is selected.
func (c *Canvas) CreateChildUnderSelected() (NodeID, bool) {
	ref, ok := c.selectedRef()
	if !ok {
		return 0, false
	}
	childID, created := c.arena.CreateChild(ref.Node)
	if !created {
		return 0, false
	}
	c.PopSelection()
	c.setSelection(SelectionRef{Anchor: ref.Anchor, Node: childID})
	return childID, true
}

// DeleteSelected removes the current selection: the whole anchor entry if
// the selected Node is its anchor's root, otherwise splicing the Node out
// of its parent's children. Returns the screen coords the deleted Node
// occupied, so the caller can attempt to re-select there (spec.md §4.4
// "Delete").
func (c *Canvas) DeleteSelected() (Coords, bool) {
	ref, ok := c.selectedRef()
	if !ok {
		return Coords{}, false
	}
	deletedAt, hasCoords := c.Bounds(ref)
	c.PopSelection()

	if ref.Node == ref.Anchor {
		c.anchors.RemoveRoot(ref.Anchor)
		c.arena.freeSubtree(ref.Anchor)
	} else {
		c.arena.DeleteSubtree(ref.Anchor, ref.Node)
	}
	c.pruneDanglingArrows()
	return deletedAt, hasCoords
}

// pruneDanglingArrows drops arrows whose endpoints no longer resolve.
// spec.md §9 chooses lazy drop (report as dangling on use) over eager
// pruning, but a dead Node id can never become live again, so pruning here
// is just bookkeeping, not an eagerness change in observable behavior.
func (c *Canvas) pruneDanglingArrows() {
	out := c.arrows[:0]
	for _, ar := range c.arrows {
		if _, ok := c.arena.Get(ar.From.Node); !ok {
			continue
		}
		if _, ok := c.arena.Get(ar.To.Node); !ok {
			continue
		}
		out = append(out, ar)
	}
	c.arrows = out
}

// ---- arrow staging (spec.md §4.4 "Ctrl-A") ----

// StageOrCommitArrow implements Ctrl-A: if no arrow-start is staged, stages
// the current selection; otherwise commits an arrow from the staged
// selection to the current selection and clears staging. Returns true if
// an arrow was committed.
func (c *Canvas) StageOrCommitArrow() bool {
	ref, ok := c.selectedRef()
	if !ok {
		return false
	}
	if c.sel.drawingArrow == nil {
		staged := ref
		c.sel.drawingArrow = &staged
		return false
	}
	from := *c.sel.drawingArrow
	c.sel.drawingArrow = nil
	c.arrows = append(c.arrows, Arrow{From: from, To: ref})
	return true
}

// RestoreArrow appends an already-resolved arrow directly, bypassing the
// staging dance of StageOrCommitArrow. Used only by the snapshot loader.
func (c *Canvas) RestoreArrow(from, to SelectionRef) {
	c.arrows = append(c.arrows, Arrow{From: from, To: to})
}

// DrawingArrow reports the staged arrow-start selection, if any.
func (c *Canvas) DrawingArrow() (SelectionRef, bool) {
	if c.sel.drawingArrow == nil {
		return SelectionRef{}, false
	}
	return *c.sel.drawingArrow, true
}
