package canvas

// Arena owns every live Node, keyed by NodeID, following spec.md's
// arena-plus-index design note: Nodes are never referenced by pointer
// across package boundaries, only by id, resolved here on use. A dead id
// resolves to (nil, false) rather than panicking, so a stale selection or
// arrow endpoint degrades to "dangling" instead of crashing.
type Arena struct {
	nodes  map[NodeID]*Node
	nextID NodeID
	clock  Clock
}

// NewArena creates an empty arena. clock is consulted for every ctime/mtime
// stamp; pass a fixed clock in tests for determinism.
func NewArena(clock Clock) *Arena {
	return &Arena{
		nodes: make(map[NodeID]*Node),
		clock: clock,
	}
}

// Get resolves an id to its Node, or reports false if the id is dead.
func (a *Arena) Get(id NodeID) (*Node, bool) {
	n, ok := a.nodes[id]
	return n, ok
}

// CreateNode allocates a fresh, empty, parentless Node and returns its id.
// It is used both for new anchors and new children.
func (a *Arena) CreateNode() NodeID {
	a.nextID++
	id := a.nextID
	a.nodes[id] = newNode(id, a.clock.NowUnix())
	return id
}

// CreateChild pushes a new empty Node onto parent's children and returns
// its id. Returns false if parent is dead.
func (a *Arena) CreateChild(parent NodeID) (NodeID, bool) {
	p, ok := a.nodes[parent]
	if !ok {
		return 0, false
	}
	id := a.CreateNode()
	p.children = append(p.children, id)
	p.stampMTime(a.clock.NowUnix())
	return id, true
}

// Select marks id as the selected node, clearing the selected flag on
// whatever was previously selected. Enforces invariant 5 (at most one
// selected node) in the single place that can set it.
func (a *Arena) Select(id NodeID) {
	for _, n := range a.nodes {
		if n.selected && n.id != id {
			n.setSelected(false)
		}
	}
	if n, ok := a.nodes[id]; ok {
		n.setSelected(true)
	}
}

// Deselect clears the selected flag on id, if present.
func (a *Arena) Deselect(id NodeID) {
	if n, ok := a.nodes[id]; ok {
		n.setSelected(false)
	}
}

// DeleteSubtree removes target from parent's children list (splicing it
// out) and frees target and its whole subtree from the arena. It searches
// recursively starting at root and returns true iff target was found and
// unlinked.
func (a *Arena) DeleteSubtree(root, target NodeID) bool {
	n, ok := a.nodes[root]
	if !ok {
		return false
	}
	for i, childID := range n.children {
		if childID == target {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			a.freeSubtree(target)
			return true
		}
		if a.DeleteSubtree(childID, target) {
			return true
		}
	}
	return false
}

func (a *Arena) freeSubtree(id NodeID) {
	n, ok := a.nodes[id]
	if !ok {
		return
	}
	for _, childID := range n.children {
		a.freeSubtree(childID)
	}
	delete(a.nodes, id)
}

// AttachChild appends an already-created node as the last child of parent.
// Used only by the snapshot loader to rebuild a tree from a deserialized
// shape; the editor's own CreateChild path always allocates fresh.
func (a *Arena) AttachChild(parent, child NodeID) bool {
	p, ok := a.nodes[parent]
	if !ok {
		return false
	}
	p.children = append(p.children, child)
	return true
}

// Restore overwrites id's content, flags, and metadata wholesale. Used only
// by the snapshot loader immediately after CreateNode, to replay a
// deserialized Node without going through the editor's stamped mutators.
func (a *Arena) Restore(id NodeID, content string, collapsed, stricken, hideStricken bool, meta Meta) {
	n, ok := a.nodes[id]
	if !ok {
		return
	}
	n.content = []rune(content)
	n.collapsed = collapsed
	n.stricken = stricken
	n.hideStricken = hideStricken
	n.meta = meta
}

// VisibleChildren returns id's children, empty when id is collapsed,
// otherwise filtered to drop any child that is stricken while id's own
// hide-stricken flag is set. The literal reading: hide_stricken hides only
// the struck children of the node on which it is set, never inherited.
func (a *Arena) VisibleChildren(id NodeID) []NodeID {
	n, ok := a.nodes[id]
	if !ok || n.collapsed {
		return nil
	}
	if !n.hideStricken {
		return n.children
	}
	out := make([]NodeID, 0, len(n.children))
	for _, childID := range n.children {
		if child, ok := a.nodes[childID]; ok && child.stricken {
			continue
		}
		out = append(out, childID)
	}
	return out
}

// preorderVisible enumerates root and its visible descendants in pre-order,
// stopping recursion into any collapsed subtree. root itself is always
// included, collapsed or not.
func (a *Arena) preorderVisible(root NodeID) []NodeID {
	if _, ok := a.nodes[root]; !ok {
		return nil
	}
	out := []NodeID{root}
	for _, childID := range a.VisibleChildren(root) {
		out = append(out, a.preorderVisible(childID)...)
	}
	return out
}

// FlatVisibleChildren is the pre-order enumeration of root's subtree,
// skipping collapsed descendants, root included.
func (a *Arena) FlatVisibleChildren(root NodeID) []NodeID {
	return a.preorderVisible(root)
}

// Height is one line for root plus one line for every visible descendant.
func (a *Arena) Height(root NodeID) int {
	return len(a.preorderVisible(root))
}

// FindChildAtCoords returns the node whose pre-order offset from root
// equals dy, provided dx falls within that line's drawn span
// (content length + 1). The zero depth case (dy == 0, root's own line) is
// handled the same way here as any other line.
func (a *Arena) FindChildAtCoords(root NodeID, dy, dx int) (NodeID, bool) {
	if dy < 0 {
		return 0, false
	}
	nodes := a.preorderVisible(root)
	if dy >= len(nodes) {
		return 0, false
	}
	target := nodes[dy]
	n, ok := a.nodes[target]
	if !ok {
		return 0, false
	}
	if dx < 0 || dx > n.Len()+1 {
		return 0, false
	}
	return target, true
}
