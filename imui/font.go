package imui

// Glyph is one rasterized glyph. Positions are in pixels relative to the
// top-left of a line at the font's size; UVs address the atlas texture.
type Glyph struct {
	Codepoint rune
	Visible   bool
	AdvanceX  float32

	X0, Y0, X1, Y1 float32
	U0, V0, U1, V1 float32
}

// FontConfig controls how a font source is loaded into an atlas.
type FontConfig struct {
	// Name is used in logs and FontSource; defaults to the file name.
	Name string

	// SizePixels is the rasterization size in pixels.
	SizePixels float32

	// OversampleH and OversampleV rasterize glyphs at a higher resolution
	// for smoother sampling. Values are clamped to [1, 8].
	OversampleH int
	OversampleV int

	// PixelSnapH rounds glyph advances to whole pixels.
	PixelSnapH bool

	// MergeMode adds the glyphs to the previously added font instead of
	// creating a new one. Glyphs already present are kept.
	MergeMode bool

	// GlyphMinAdvanceX widens narrow glyphs, centering them. Useful to make
	// icon fonts monospaced.
	GlyphMinAdvanceX float32
}

// DefaultFontConfig returns the default configuration for a font of size
// SizePixels 13.
func DefaultFontConfig() FontConfig {
	return FontConfig{
		SizePixels:  13,
		OversampleH: 2,
		OversampleV: 1,
	}
}

// oversample returns the raster factors of both axes, clamped to [1, 8].
func (c *FontConfig) oversample() (h, v int) {
	return min(max(c.OversampleH, 1), 8), min(max(c.OversampleV, 1), 8)
}

// Font is a set of glyphs at one size, backed by a FontAtlas texture.
type Font struct {
	Name    string
	Size    float32
	Ascent  float32
	Descent float32
	Glyphs  []Glyph

	// FallbackChar is drawn for runes the font has no glyph for.
	FallbackChar rune

	index    map[rune]int
	fallback *Glyph
	atlas    *FontAtlas
}

func newFont(atlas *FontAtlas, cfg *FontConfig) *Font {
	return &Font{
		Name:  cfg.Name,
		Size:  cfg.SizePixels,
		atlas: atlas,
		index: make(map[rune]int),
	}
}

// Atlas returns the atlas holding the font's texture.
func (f *Font) Atlas() *FontAtlas { return f.atlas }

// FindGlyph returns the glyph for r, or the fallback glyph.
func (f *Font) FindGlyph(r rune) *Glyph {
	if g := f.FindGlyphNoFallback(r); g != nil {
		return g
	}
	return f.fallback
}

// FindGlyphNoFallback returns the glyph for r, or nil.
func (f *Font) FindGlyphNoFallback(r rune) *Glyph {
	if i, ok := f.index[r]; ok {
		return &f.Glyphs[i]
	}
	return nil
}

// HasGlyph reports whether the font has a glyph for r.
func (f *Font) HasGlyph(r rune) bool {
	_, ok := f.index[r]
	return ok
}

// CalcTextSize returns the size of text drawn at size pixels.
// A size <= 0 uses the font size.
func (f *Font) CalcTextSize(size float32, text string) Vec2 {
	if size <= 0 {
		size = f.Size
	}
	scale := size / f.Size
	var w, lineW float32
	lines := 1
	for _, r := range text {
		if r == '\n' {
			w = maxf(w, lineW)
			lineW = 0
			lines++
			continue
		}
		if g := f.FindGlyph(r); g != nil {
			lineW += g.AdvanceX * scale
		}
	}
	return Vec2{maxf(w, lineW), float32(lines) * size}
}

func (f *Font) addGlyph(g Glyph) {
	f.index[g.Codepoint] = len(f.Glyphs)
	f.Glyphs = append(f.Glyphs, g)
}

func (f *Font) setFallback() {
	f.fallback = nil
	for _, r := range []rune{f.FallbackChar, 0xFFFD, '?', ' '} {
		if r == 0 {
			continue
		}
		if g := f.FindGlyphNoFallback(r); g != nil {
			f.FallbackChar = r
			f.fallback = g
			return
		}
	}
}
