package canvas

// NodeID uniquely identifies a Node within a canvas's arena. Zero is never
// assigned to a live node; it is used as the "no node" sentinel.
type NodeID uint64

// Clock supplies the current time, grounded on the teacher's testable-clock
// convention so toggle_stricken/mtime stamping can be exercised
// deterministically in tests.
type Clock interface {
	NowUnix() int64
}

// GPSCoord mirrors the original's (f32, f32) lat/lon pair. Zero value means
// "no fix yet" — the GPS probe (internal/gps) is the only writer.
type GPSCoord struct {
	Lat, Lon float32
}

// Meta is the informational metadata a node carries: timestamps the core
// stamps itself, and GPS/tags that are the log/GPS collaborator's concern.
type Meta struct {
	CTime      int64
	MTime      int64
	FinishTime *int64
	GPS        GPSCoord
	Tags       map[string]string
}

// Node is a tree vertex: text content, children, and display flags.
type Node struct {
	id           NodeID
	content      []rune
	children     []NodeID
	selected     bool
	collapsed    bool
	stricken     bool
	hideStricken bool
	meta         Meta
}

func newNode(id NodeID, now int64) *Node {
	return &Node{
		id: id,
		meta: Meta{
			CTime: now,
			MTime: now,
			Tags:  make(map[string]string),
		},
	}
}

// ID returns the node's identifier.
func (n *Node) ID() NodeID { return n.id }

// Content returns the current text content.
func (n *Node) Content() string { return string(n.content) }

// Len returns the rune length of the content.
func (n *Node) Len() int { return len(n.content) }

// Children returns the node's child ids in order.
func (n *Node) Children() []NodeID { return n.children }

// Selected reports the selected flag.
func (n *Node) Selected() bool { return n.selected }

// Collapsed reports the collapsed flag.
func (n *Node) Collapsed() bool { return n.collapsed }

// Stricken reports the stricken flag.
func (n *Node) Stricken() bool { return n.stricken }

// HideStricken reports the hide-stricken flag.
func (n *Node) HideStricken() bool { return n.hideStricken }

// Meta returns a copy of the node's metadata.
func (n *Node) Meta() Meta { return n.meta }

func (n *Node) stampMTime(now int64) {
	n.meta.MTime = now
}

// setSelected is unexported: the selected flag is mutated only through the
// arena so invariant 5 (at most one selected node) can be enforced in one
// place.
func (n *Node) setSelected(v bool) { n.selected = v }

// ToggleCollapsed flips the collapsed flag and stamps mtime.
func (n *Node) ToggleCollapsed(now int64) {
	n.collapsed = !n.collapsed
	n.stampMTime(now)
}

// ToggleStricken flips the stricken flag, stamping/clearing finish_time and
// mtime.
func (n *Node) ToggleStricken(now int64) {
	n.stricken = !n.stricken
	if n.stricken {
		ft := now
		n.meta.FinishTime = &ft
	} else {
		n.meta.FinishTime = nil
	}
	n.stampMTime(now)
}

// ToggleHideStricken flips the hide-stricken flag and stamps mtime.
func (n *Node) ToggleHideStricken(now int64) {
	n.hideStricken = !n.hideStricken
	n.stampMTime(now)
}

// Append pushes a rune onto content and stamps mtime.
func (n *Node) Append(ch rune, now int64) {
	n.content = append(n.content, ch)
	n.stampMTime(now)
}

// Backspace removes the last rune, a no-op when content is empty, and
// stamps mtime.
func (n *Node) Backspace(now int64) {
	if len(n.content) == 0 {
		return
	}
	n.content = n.content[:len(n.content)-1]
	n.stampMTime(now)
}

// SetTag records a log-style annotation on the node. The editor's input
// handling never calls it.
func (n *Node) SetTag(key, value string) {
	if n.meta.Tags == nil {
		n.meta.Tags = make(map[string]string)
	}
	n.meta.Tags[key] = value
}

// SetGPS records the GPS collaborator's fix on the node's metadata
// (SPEC_FULL.md §2.13: "stamps the result onto newly created nodes'
// Meta.GPS"). The only writer is internal/gps via the editor's mouse-press
// handling.
func (n *Node) SetGPS(coord GPSCoord) {
	n.meta.GPS = coord
}
