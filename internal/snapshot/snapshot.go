// Package snapshot converts a canvas.Canvas to and from the serializable
// shape spec.md §6 names ({ anchors, arrows, max_id }) and drives the
// save-swap: write to <path>.tmp, unlink a stale .tmp first, rename over
// the target (spec.md §5). The byte layout is YAML, the teacher's own
// choice for on-disk structures (internal/config/save.go), reused here
// rather than introducing JSON or gob for a format the pack already
// demonstrates atomic-write discipline for.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"scrawl/internal/canvas"
	"scrawl/internal/log"
)

// NodeTree is the recursive on-disk shape of one Node and its subtree.
type NodeTree struct {
	ID           uint64            `yaml:"id"`
	Content      string            `yaml:"content"`
	Collapsed    bool              `yaml:"collapsed"`
	Stricken     bool              `yaml:"stricken"`
	HideStricken bool              `yaml:"hide_stricken"`
	CTime        int64             `yaml:"ctime"`
	MTime        int64             `yaml:"mtime"`
	FinishTime   *int64            `yaml:"finish_time,omitempty"`
	GPSLat       float32           `yaml:"gps_lat,omitempty"`
	GPSLon       float32           `yaml:"gps_lon,omitempty"`
	Tags         map[string]string `yaml:"tags,omitempty"`
	Children     []NodeTree        `yaml:"children,omitempty"`
}

// AnchorEntry pairs a root's screen coords with its tree.
type AnchorEntry struct {
	X    int      `yaml:"x"`
	Y    int      `yaml:"y"`
	Tree NodeTree `yaml:"tree"`
}

// NodeRefPath locates a Node without relying on in-memory ids: the anchor
// it hangs off of, plus the chain of child indices from that anchor's root
// down to the node (spec.md §6).
type NodeRefPath struct {
	AnchorX         int      `yaml:"anchor_x"`
	AnchorY         int      `yaml:"anchor_y"`
	ChildIndexChain []uint32 `yaml:"child_index_chain,omitempty"`
}

// ArrowEntry is one serialized arrow.
type ArrowEntry struct {
	From NodeRefPath `yaml:"from"`
	To   NodeRefPath `yaml:"to"`
}

// Snapshot is the full serializable canvas.
type Snapshot struct {
	Anchors []AnchorEntry `yaml:"anchors"`
	Arrows  []ArrowEntry  `yaml:"arrows"`
	MaxID   uint64        `yaml:"max_id"`
}

// FromCanvas walks c's arena from every anchor root and produces the
// serializable Snapshot.
func FromCanvas(c *canvas.Canvas) Snapshot {
	arena := c.Arena()
	var snap Snapshot
	var maxID uint64

	for _, e := range c.Anchors().Iterate() {
		tree := buildTree(arena, e.Root, &maxID)
		snap.Anchors = append(snap.Anchors, AnchorEntry{X: e.Coords.X, Y: e.Coords.Y, Tree: tree})
	}

	for _, ar := range c.Arrows() {
		from, ok1 := refPath(c, ar.From)
		to, ok2 := refPath(c, ar.To)
		if !ok1 || !ok2 {
			continue // dangling arrow, dropped rather than serialized (spec.md §7)
		}
		snap.Arrows = append(snap.Arrows, ArrowEntry{From: from, To: to})
	}

	snap.MaxID = maxID
	return snap
}

func buildTree(arena *canvas.Arena, id canvas.NodeID, maxID *uint64) NodeTree {
	n, ok := arena.Get(id)
	if !ok {
		return NodeTree{}
	}
	if uint64(id) > *maxID {
		*maxID = uint64(id)
	}
	meta := n.Meta()
	t := NodeTree{
		ID:           uint64(id),
		Content:      n.Content(),
		Collapsed:    n.Collapsed(),
		Stricken:     n.Stricken(),
		HideStricken: n.HideStricken(),
		CTime:        meta.CTime,
		MTime:        meta.MTime,
		FinishTime:   meta.FinishTime,
		GPSLat:       meta.GPS.Lat,
		GPSLon:       meta.GPS.Lon,
		Tags:         meta.Tags,
	}
	for _, childID := range n.Children() {
		t.Children = append(t.Children, buildTree(arena, childID, maxID))
	}
	return t
}

// refPath resolves a SelectionRef to its anchor coords and child-index
// chain. Returns false if the ref no longer resolves.
func refPath(c *canvas.Canvas, ref canvas.SelectionRef) (NodeRefPath, bool) {
	anchorCoords, ok := c.Anchors().RootCoords(ref.Anchor)
	if !ok {
		return NodeRefPath{}, false
	}
	chain, ok := childIndexChain(c.Arena(), ref.Anchor, ref.Node)
	if !ok {
		return NodeRefPath{}, false
	}
	return NodeRefPath{AnchorX: anchorCoords.X, AnchorY: anchorCoords.Y, ChildIndexChain: chain}, true
}

// childIndexChain walks from root to target, collecting the child index
// taken at each level. An empty, ok chain means target == root.
func childIndexChain(arena *canvas.Arena, root, target canvas.NodeID) ([]uint32, bool) {
	if root == target {
		return nil, true
	}
	n, ok := arena.Get(root)
	if !ok {
		return nil, false
	}
	for i, childID := range n.Children() {
		if rest, found := childIndexChain(arena, childID, target); found {
			return append([]uint32{uint32(i)}, rest...), true
		}
	}
	return nil, false
}

// Save composes the snapshot and writes it to path via the teacher's
// temp-file-then-rename technique (internal/config/save.go): a
// pre-existing "<path>.tmp" is unlinked first, the new content is written
// to a fresh temp file in the same directory, then renamed over path. A
// failed rename is returned to the caller, never swallowed (spec.md §5,
// §7 "Save failure").
func Save(path string, snap Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	tmpPath := path + ".tmp"
	if _, err := os.Stat(tmpPath); err == nil {
		if err := os.Remove(tmpPath); err != nil {
			return fmt.Errorf("removing stale temp file: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating canvas directory: %w", err)
	}
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing temp snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp snapshot into place: %w", err)
	}

	log.Info(log.CatSnapshot, "saved canvas", "path", path, "anchors", len(snap.Anchors), "arrows", len(snap.Arrows))
	return nil
}

// Load reads and unmarshals the snapshot at path.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied canvas path, same trust boundary as the CLI argument naming it
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parsing snapshot: %w", err)
	}
	return snap, nil
}

// ToCanvas rebuilds a canvas from snap. Node identities are not preserved
// across the round trip (spec.md §8 property 6 only requires tree shape,
// text, flags, and meta survive) — every node is recreated fresh via the
// arena and immediately overwritten with its serialized content, flags,
// and metadata.
func ToCanvas(snap Snapshot, clock canvas.Clock) *canvas.Canvas {
	c := canvas.New(clock)
	arena := c.Arena()

	for _, a := range snap.Anchors {
		rootID := restoreTree(arena, a.Tree)
		c.Anchors().Insert(canvas.Coords{X: a.X, Y: a.Y}, rootID)
	}

	for _, ar := range snap.Arrows {
		fromRef, ok1 := resolveRefPath(c, ar.From)
		toRef, ok2 := resolveRefPath(c, ar.To)
		if !ok1 || !ok2 {
			log.Warn(log.CatSnapshot, "dropping arrow with unresolvable endpoint on load")
			continue
		}
		c.RestoreArrow(fromRef, toRef)
	}

	return c
}

func restoreTree(arena *canvas.Arena, t NodeTree) canvas.NodeID {
	id := arena.CreateNode()
	meta := canvas.Meta{
		CTime:      t.CTime,
		MTime:      t.MTime,
		FinishTime: t.FinishTime,
		GPS:        canvas.GPSCoord{Lat: t.GPSLat, Lon: t.GPSLon},
		Tags:       t.Tags,
	}
	arena.Restore(id, t.Content, t.Collapsed, t.Stricken, t.HideStricken, meta)
	for _, childTree := range t.Children {
		childID := restoreTree(arena, childTree)
		arena.AttachChild(id, childID)
	}
	return id
}

func resolveRefPath(c *canvas.Canvas, p NodeRefPath) (canvas.SelectionRef, bool) {
	root, ok := c.Anchors().Get(canvas.Coords{X: p.AnchorX, Y: p.AnchorY})
	if !ok {
		return canvas.SelectionRef{}, false
	}
	node := root
	for _, idx := range p.ChildIndexChain {
		n, ok := c.Arena().Get(node)
		if !ok || int(idx) >= len(n.Children()) {
			return canvas.SelectionRef{}, false
		}
		node = n.Children()[idx]
	}
	return canvas.SelectionRef{Anchor: root, Node: node}, true
}
