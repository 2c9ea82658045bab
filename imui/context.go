package imui

import "sync/atomic"

var current atomic.Pointer[Context]

// Context is an immediate-mode UI context: IO, style, fonts and the draw
// lists of the frame being built.
//
// A Context is not safe for concurrent use. Callers serialize frame building
// and font changes themselves.
type Context struct {
	IO    IO
	Style Style

	lists      []*DrawList
	byName     map[string]*DrawList
	foreground *DrawList
	drawData   DrawData
	frameCount int
}

// CreateContext creates a context with a fresh font atlas and the default
// style. If no context is current the new one becomes current.
func CreateContext() *Context {
	ctx := &Context{
		IO:     newIO(),
		Style:  DefaultStyle(),
		byName: make(map[string]*DrawList),
	}
	current.CompareAndSwap(nil, ctx)
	return ctx
}

// CurrentContext returns the process-wide current context, or nil.
func CurrentContext() *Context {
	return current.Load()
}

// SetCurrentContext makes ctx current. ctx may be nil.
func SetCurrentContext(ctx *Context) {
	current.Store(ctx)
}

// DestroyContext releases ctx. A nil ctx destroys the current context.
// If ctx is current, no context is current afterwards.
func DestroyContext(ctx *Context) {
	if ctx == nil {
		ctx = current.Load()
	}
	if ctx == nil {
		return
	}
	current.CompareAndSwap(ctx, nil)
	ctx.IO.Fonts.Clear()
	ctx.lists = nil
	ctx.byName = nil
	ctx.foreground = nil
	ctx.drawData.Clear()
}

// FrameCount returns the number of frames started with NewFrame.
func (c *Context) FrameCount() int { return c.frameCount }

// Font returns the first font of the atlas, or nil.
func (c *Context) Font() *Font {
	if len(c.IO.Fonts.Fonts) == 0 {
		return nil
	}
	return c.IO.Fonts.Fonts[0]
}

// NewFrame starts a frame: draw lists are reset to clip to the display
// and the previous frame's draw data is invalidated. The font atlas is
// built if it is not.
func (c *Context) NewFrame() error {
	if c.IO.Fonts == nil {
		c.IO.Fonts = NewFontAtlas()
	}
	if !c.IO.Fonts.IsBuilt() {
		if err := c.IO.Fonts.Build(); err != nil {
			return err
		}
	}
	c.frameCount++
	c.drawData.Clear()

	full := Vec4{0, 0, maxf(c.IO.DisplaySize.X, 0), maxf(c.IO.DisplaySize.Y, 0)}
	tex := c.IO.Fonts.TexID
	white := c.IO.Fonts.TexUvWhitePixel
	for _, l := range c.lists {
		l.reset(full, tex, white)
	}
	if c.foreground == nil {
		c.foreground = NewDrawList("##Foreground", full, tex, white)
	} else {
		c.foreground.reset(full, tex, white)
	}
	return nil
}

// DrawList returns the draw list called name, creating it on first use.
// Lists are rendered in creation order, below the foreground list.
func (c *Context) DrawList(name string) *DrawList {
	if l, ok := c.byName[name]; ok {
		return l
	}
	full := Vec4{0, 0, maxf(c.IO.DisplaySize.X, 0), maxf(c.IO.DisplaySize.Y, 0)}
	l := NewDrawList(name, full, c.IO.Fonts.TexID, c.IO.Fonts.TexUvWhitePixel)
	c.lists = append(c.lists, l)
	c.byName[name] = l
	return l
}

// ForegroundDrawList returns the list rendered above every other list.
func (c *Context) ForegroundDrawList() *DrawList {
	if c.foreground == nil {
		full := Vec4{0, 0, maxf(c.IO.DisplaySize.X, 0), maxf(c.IO.DisplaySize.Y, 0)}
		c.foreground = NewDrawList("##Foreground", full, c.IO.Fonts.TexID, c.IO.Fonts.TexUvWhitePixel)
	}
	return c.foreground
}

// Render ends the frame and fills the draw data with every non-empty list.
// Input queued for the frame is consumed.
func (c *Context) Render() {
	d := &c.drawData
	d.Clear()
	d.Valid = true
	d.DisplayPos = Vec2{}
	d.DisplaySize = c.IO.DisplaySize
	d.FramebufferScale = c.IO.DisplayFramebufferScale

	add := func(l *DrawList) {
		l.trimTrailingEmptyCmd()
		if l.Empty() {
			return
		}
		d.CmdLists = append(d.CmdLists, l)
		d.TotalVtxCount += len(l.VtxBuffer)
		d.TotalIdxCount += len(l.IdxBuffer)
	}
	for _, l := range c.lists {
		add(l)
	}
	if c.foreground != nil {
		add(c.foreground)
	}

	c.IO.InputQueueCharacters = c.IO.InputQueueCharacters[:0]
	c.IO.MouseWheel, c.IO.MouseWheelH = 0, 0
}

// DrawData returns the draw data of the last rendered frame. The lists
// belong to the context and are reset by the next NewFrame; use
// DrawData.Clone to keep them.
func (c *Context) DrawData() *DrawData {
	return &c.drawData
}
