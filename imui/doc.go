// Package imui is a small immediate-mode UI core: a process-wide context,
// per-frame draw lists, draw-data snapshots and a font atlas.
//
// # Frame model
//
// A frame is built between Context.NewFrame and Context.Render. Producers
// append primitives to named draw lists obtained from Context.DrawList; Render
// collects every non-empty list into the context's DrawData. Draw lists are
// owned by the context and reused on the next NewFrame, so DrawData is only
// valid until then. Renderers running on another goroutine must take a deep
// copy (DrawData.Clone) before the next frame starts.
//
// # Context lifecycle
//
// There is at most one current context per process. CreateContext makes the
// new context current when none is; DestroyContext clears it. The context is
// not safe for concurrent use: callers serialize NewFrame, drawing, Render
// and font atlas changes themselves.
//
// # Fonts
//
// FontAtlas loads TrueType/OpenType fonts with golang.org/x/image/font/opentype,
// checks glyph coverage with github.com/go-text/typesetting and rasterizes the
// requested glyph ranges into a single alpha texture on Build. Fonts added
// with FontConfig.MergeMode contribute glyphs to the previously added font.
package imui
