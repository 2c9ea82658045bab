package imui

// DrawData is everything needed to render one frame of UI.
type DrawData struct {
	// Valid is set by Context.Render and by Clone of valid data.
	Valid bool

	// CmdLists are rendered in order.
	CmdLists []*DrawList

	TotalVtxCount int
	TotalIdxCount int

	// DisplayPos is the top-left of the viewport in display coordinates.
	DisplayPos Vec2

	// DisplaySize is the size of the viewport in display coordinates.
	DisplaySize Vec2

	// FramebufferScale converts display coordinates to framebuffer pixels.
	FramebufferScale Vec2
}

// Clone returns a deep copy of d. Every draw list is copied with
// DrawList.CloneOutput, so the copy stays valid after the producing context
// starts its next frame.
func (d *DrawData) Clone() *DrawData {
	c := d.shallowCopy()
	for i, l := range d.CmdLists {
		c.CmdLists[i] = l.CloneOutput()
	}
	return c
}

// CloneWith is Clone with the per-list copies delegated to cloneAll, which
// receives the source lists and the destination slice to fill. It lets
// callers copy large list sets concurrently.
func (d *DrawData) CloneWith(cloneAll func(src, dst []*DrawList)) *DrawData {
	c := d.shallowCopy()
	cloneAll(d.CmdLists, c.CmdLists)
	return c
}

func (d *DrawData) shallowCopy() *DrawData {
	c := *d
	c.CmdLists = make([]*DrawList, len(d.CmdLists))
	return &c
}

// Clear drops all lists and marks d invalid.
func (d *DrawData) Clear() {
	*d = DrawData{}
}

// ScaleClipRects multiplies every clip rectangle by scale, for renderers
// whose framebuffer size differs from the display size.
func (d *DrawData) ScaleClipRects(scale Vec2) {
	for _, l := range d.CmdLists {
		for i := range l.CmdBuffer {
			r := &l.CmdBuffer[i].ClipRect
			r.X *= scale.X
			r.Y *= scale.Y
			r.Z *= scale.X
			r.W *= scale.Y
		}
	}
}
