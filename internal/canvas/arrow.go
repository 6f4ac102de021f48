package canvas

// Arrow is an ordered pair of selection references. Arrows remain valid
// across relocations of either endpoint's anchor (they're keyed by id, not
// by coords) but become dangling if either endpoint Node is deleted.
// Canvas.DeleteSelected drops every arrow whose endpoint it removed; the
// renderer/router also skip any arrow whose endpoint fails to resolve.
type Arrow struct {
	From, To SelectionRef
}
