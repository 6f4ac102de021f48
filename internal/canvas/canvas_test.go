package canvas

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fixedClock gives deterministic mtime/ctime stamps in tests.
type fixedClock struct{ now int64 }

func (c *fixedClock) NowUnix() int64 { return c.now }

func TestCreateAnchor_SelectsNothingUntilClicked(t *testing.T) {
	c := New(&fixedClock{now: 100})
	id := c.CreateAnchor(Coords{X: 5, Y: 5})
	require.NotZero(t, id)
	_, ok := c.SelectedNode()
	require.False(t, ok)
}

func TestHandlePress_EmptyCanvasCreatesAndSelectsAnchor(t *testing.T) {
	c := New(&fixedClock{now: 100})
	c.HandlePress(Coords{X: 3, Y: 4})

	n, ok := c.SelectedNode()
	require.True(t, ok, "scenario S1: the freshly created anchor ends up selected")
	require.True(t, n.Selected())

	ref, ok := c.Selected()
	require.True(t, ok)
	require.Equal(t, ref.Anchor, ref.Node)
}

func TestHandlePress_OnExistingAnchorSelectsIt(t *testing.T) {
	c := New(&fixedClock{now: 100})
	id := c.CreateAnchor(Coords{X: 3, Y: 4})
	c.arena.Restore(id, "hi", false, false, false, Meta{})

	c.HandlePress(Coords{X: 3, Y: 4})

	ref, ok := c.Selected()
	require.True(t, ok)
	require.Equal(t, id, ref.Node)
}

func TestHandlePress_MissWithPriorSelectionDoesNotCreateAnchor(t *testing.T) {
	c := New(&fixedClock{now: 100})
	id := c.CreateAnchor(Coords{X: 3, Y: 4})
	c.arena.Restore(id, "hi", false, false, false, Meta{})
	c.TrySelect(Coords{X: 3, Y: 4})

	before := len(c.Anchors().Iterate())
	c.HandlePress(Coords{X: 50, Y: 50})
	after := len(c.Anchors().Iterate())

	require.Equal(t, before, after, "a miss with a prior selection must not fabricate a new anchor")
	_, stillSelected := c.SelectedNode()
	require.False(t, stillSelected, "PopSelection always clears before the miss is evaluated")
}

func TestHitTest_ZeroOffsetOnRootLineHits(t *testing.T) {
	c := New(&fixedClock{now: 100})
	id := c.CreateAnchor(Coords{X: 10, Y: 10})
	c.arena.Restore(id, "x", false, false, false, Meta{})

	// dx == 0: the click lands exactly on the node's first column, which
	// must hit — this is the case the original off-by-one (dx < 1)
	// incorrectly rejected.
	ref, ok := c.HitTest(Coords{X: 10, Y: 10})
	require.True(t, ok)
	require.Equal(t, id, ref.Node)
}

func TestHitTest_ZeroOffsetOnChildLineHits(t *testing.T) {
	c := New(&fixedClock{now: 100})
	id := c.CreateAnchor(Coords{X: 10, Y: 10})
	c.arena.Restore(id, "x", false, false, false, Meta{})
	childID, created := c.arena.CreateChild(id)
	require.True(t, created)
	c.arena.Restore(childID, "y", false, false, false, Meta{})

	ref, ok := c.HitTest(Coords{X: 10, Y: 11})
	require.True(t, ok)
	require.Equal(t, childID, ref.Node)
}

func TestHitTest_MissesPastDrawnSpan(t *testing.T) {
	c := New(&fixedClock{now: 100})
	id := c.CreateAnchor(Coords{X: 10, Y: 10})
	c.arena.Restore(id, "ab", false, false, false, Meta{})

	// content len 2 -> valid offsets are dx in [0, Len()+1]; dx=4 misses.
	_, ok := c.HitTest(Coords{X: 14, Y: 10})
	require.False(t, ok)
}

func TestBounds_EmptyContentCollapsesToSinglePoint(t *testing.T) {
	c := New(&fixedClock{now: 100})
	id := c.CreateAnchor(Coords{X: 2, Y: 2})

	left, right, ok := c.Bounds(SelectionRef{Anchor: id, Node: id})
	require.True(t, ok)
	require.Equal(t, left, right, "scenario S4: empty content collapses bounds to a single point")
}

func TestBounds_SingleCharAlsoCollapses(t *testing.T) {
	c := New(&fixedClock{now: 100})
	id := c.CreateAnchor(Coords{X: 2, Y: 2})
	c.arena.Restore(id, "a", false, false, false, Meta{})

	left, right, ok := c.Bounds(SelectionRef{Anchor: id, Node: id})
	require.True(t, ok)
	require.Equal(t, left, right)
}

func TestBounds_MultiCharSpansToLastCell(t *testing.T) {
	c := New(&fixedClock{now: 100})
	id := c.CreateAnchor(Coords{X: 2, Y: 2})
	c.arena.Restore(id, "hello", false, false, false, Meta{})

	left, right, ok := c.Bounds(SelectionRef{Anchor: id, Node: id})
	require.True(t, ok)
	require.Equal(t, left.Y, right.Y)
	require.Equal(t, left.X+4, right.X)
}

func TestBounds_DanglingSelectionFails(t *testing.T) {
	c := New(&fixedClock{now: 100})
	_, _, ok := c.Bounds(SelectionRef{Anchor: 999, Node: 999})
	require.False(t, ok)
}

func TestSelection_AtMostOneSelectedAcrossAnchors(t *testing.T) {
	c := New(&fixedClock{now: 100})
	a := c.CreateAnchor(Coords{X: 1, Y: 1})
	c.arena.Restore(a, "a", false, false, false, Meta{})
	b := c.CreateAnchor(Coords{X: 20, Y: 20})
	c.arena.Restore(b, "b", false, false, false, Meta{})

	c.TrySelect(Coords{X: 1, Y: 1})
	na, _ := c.arena.Get(a)
	require.True(t, na.Selected())
	// Release the press so the next TrySelect is not blocked by the drag
	// origin it recorded.
	c.ReleaseDrag(Coords{X: 1, Y: 1})

	c.PopSelection()
	c.TrySelect(Coords{X: 20, Y: 20})
	na, _ = c.arena.Get(a)
	nb, _ := c.arena.Get(b)
	require.False(t, na.Selected())
	require.True(t, nb.Selected())
}

func TestSelectUp_MissRestoresPreviousSelection(t *testing.T) {
	c := New(&fixedClock{now: 100})
	id := c.CreateAnchor(Coords{X: 5, Y: 1})
	c.arena.Restore(id, "x", false, false, false, Meta{})
	c.TrySelect(Coords{X: 5, Y: 1})

	ok := c.SelectUp()
	require.False(t, ok, "y==1 can't move up")
	ref, stillSelected := c.Selected()
	require.True(t, stillSelected)
	require.Equal(t, id, ref.Node)
}

func TestSelectDown_HitsChildRow(t *testing.T) {
	c := New(&fixedClock{now: 100})
	id := c.CreateAnchor(Coords{X: 5, Y: 5})
	c.arena.Restore(id, "x", false, false, false, Meta{})
	childID, _ := c.arena.CreateChild(id)
	c.arena.Restore(childID, "y", false, false, false, Meta{})
	c.TrySelect(Coords{X: 5, Y: 5})

	ok := c.SelectDown()
	require.True(t, ok)
	ref, _ := c.Selected()
	require.Equal(t, childID, ref.Node)
}

func TestToggleStricken_StampsFinishTimeAndClearsIt(t *testing.T) {
	clock := &fixedClock{now: 100}
	c := New(clock)
	id := c.CreateAnchor(Coords{X: 1, Y: 1})
	c.TrySelect(Coords{X: 1, Y: 1})

	clock.now = 200
	require.True(t, c.ToggleStrickenSelected())
	n, _ := c.arena.Get(id)
	require.True(t, n.Stricken())
	require.NotNil(t, n.Meta().FinishTime)
	require.Equal(t, int64(200), *n.Meta().FinishTime)
	require.Equal(t, int64(200), n.Meta().MTime)

	clock.now = 300
	require.True(t, c.ToggleStrickenSelected())
	n, _ = c.arena.Get(id)
	require.False(t, n.Stricken())
	require.Nil(t, n.Meta().FinishTime)
}

func TestHideStricken_OnlyHidesOwnChildren(t *testing.T) {
	c := New(&fixedClock{now: 100})
	parent := c.CreateAnchor(Coords{X: 1, Y: 1})
	child := c.arena.CreateNode()
	c.arena.AttachChild(parent, child)
	c.arena.Restore(child, "x", false, true, false, Meta{})

	require.Len(t, c.Arena().VisibleChildren(parent), 1)

	c.TrySelect(Coords{X: 1, Y: 1})
	require.True(t, c.ToggleHideStrickenSelected())
	require.Empty(t, c.Arena().VisibleChildren(parent))
}

func TestDeleteSelected_WholeAnchorRemovesEntry(t *testing.T) {
	c := New(&fixedClock{now: 100})
	c.CreateAnchor(Coords{X: 1, Y: 1})
	c.TrySelect(Coords{X: 1, Y: 1})

	_, ok := c.DeleteSelected()
	require.True(t, ok)
	_, stillThere := c.Anchors().Get(Coords{X: 1, Y: 1})
	require.False(t, stillThere)
}

func TestDeleteSelected_PrunesArrowsToDeletedNode(t *testing.T) {
	c := New(&fixedClock{now: 100})
	c.CreateAnchor(Coords{X: 1, Y: 1})
	c.CreateAnchor(Coords{X: 10, Y: 10})

	// Each click is a press and a release: TrySelect is a no-op while a
	// drag origin from an unreleased press is pending.
	c.TrySelect(Coords{X: 1, Y: 1})
	c.ReleaseDrag(Coords{X: 1, Y: 1})
	c.StageOrCommitArrow()
	c.PopSelection()
	c.TrySelect(Coords{X: 10, Y: 10})
	c.ReleaseDrag(Coords{X: 10, Y: 10})
	committed := c.StageOrCommitArrow()
	require.True(t, committed)
	require.Len(t, c.Arrows(), 1)

	c.PopSelection()
	c.TrySelect(Coords{X: 1, Y: 1})
	c.DeleteSelected()

	require.Empty(t, c.Arrows())
}

func TestReleaseDrag_RelocatesByDelta(t *testing.T) {
	c := New(&fixedClock{now: 100})
	id := c.CreateAnchor(Coords{X: 5, Y: 5})
	c.TrySelect(Coords{X: 5, Y: 5})

	c.ReleaseDrag(Coords{X: 8, Y: 9})

	coords, ok := c.Anchors().RootCoords(id)
	require.True(t, ok)
	require.Equal(t, Coords{X: 8, Y: 9}, coords)
}

func TestAppendAndBackspace_RoundTrip(t *testing.T) {
	c := New(&fixedClock{now: 100})
	c.CreateAnchor(Coords{X: 1, Y: 1})
	c.TrySelect(Coords{X: 1, Y: 1})

	require.True(t, c.AppendToSelected('h'))
	require.True(t, c.AppendToSelected('i'))
	n, _ := c.SelectedNode()
	require.Equal(t, "hi", n.Content())

	require.True(t, c.BackspaceSelected())
	n, _ = c.SelectedNode()
	require.Equal(t, "h", n.Content())
}

func TestCoords_ClampFloorsAtOne(t *testing.T) {
	c := Coords{X: -3, Y: 0}.Clamp()
	require.Equal(t, Coords{X: 1, Y: 1}, c)
}
