package imui

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sort"

	tsfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// MaxAtlasHeight is the tallest atlas texture Build produces.
const MaxAtlasHeight = 16384

const atlasGlyphPadding = 1

// FontSource describes one font file loaded into an atlas.
type FontSource struct {
	Name   string
	Config FontConfig
	Ranges GlyphRanges

	// Glyphs is the number of glyphs the source contributed to its font.
	// Zero until the atlas is built.
	Glyphs int
}

type fontSource struct {
	FontSource
	sfnt     *opentype.Font
	coverage *tsfont.Face
	dst      *Font
}

// FontAtlas rasterizes fonts into a single 8-bit coverage texture.
//
// Fonts are added with the AddFont methods and rasterized by Build. Clear
// drops every font and the texture data.
type FontAtlas struct {
	// TexID is set by the renderer backend once the texture is uploaded.
	TexID TextureID

	TexWidth  int
	TexHeight int

	// TexUvWhitePixel addresses an opaque texel used for solid fills.
	TexUvWhitePixel Vec2

	Fonts []*Font

	sources []*fontSource
	alpha   []byte
	rgba    []byte
	built   bool
}

// NewFontAtlas returns an empty atlas.
func NewFontAtlas() *FontAtlas {
	return &FontAtlas{}
}

// Clear drops every font and the texture data. TexID is kept; the renderer
// backend is expected to re-upload after the next Build.
func (a *FontAtlas) Clear() {
	for _, f := range a.Fonts {
		f.atlas = nil
	}
	a.Fonts = nil
	a.sources = nil
	a.alpha = nil
	a.rgba = nil
	a.TexWidth, a.TexHeight = 0, 0
	a.TexUvWhitePixel = Vec2{}
	a.built = false
}

// IsBuilt reports whether Build succeeded since the last change.
func (a *FontAtlas) IsBuilt() bool { return a.built }

// Sources returns a description of every loaded font source in load order.
func (a *FontAtlas) Sources() []FontSource {
	out := make([]FontSource, len(a.sources))
	for i, s := range a.sources {
		out[i] = s.FontSource
	}
	return out
}

// AddFontFromMemoryTTF loads a TrueType or OpenType font. A nil cfg uses
// DefaultFontConfig and nil ranges use GlyphRangesDefault.
func (a *FontAtlas) AddFontFromMemoryTTF(data []byte, cfg *FontConfig, ranges GlyphRanges) (*Font, error) {
	c := DefaultFontConfig()
	if cfg != nil {
		c = *cfg
	}
	if c.SizePixels <= 0 {
		return nil, ErrInvalidFontSize
	}
	if len(ranges) == 0 {
		ranges = GlyphRangesDefault()
	}
	if c.MergeMode && len(a.Fonts) == 0 {
		return nil, ErrNoBaseFont
	}

	sf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}
	cov, err := tsfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}

	var dst *Font
	if c.MergeMode {
		dst = a.Fonts[len(a.Fonts)-1]
	} else {
		dst = newFont(a, &c)
		a.Fonts = append(a.Fonts, dst)
	}
	a.sources = append(a.sources, &fontSource{
		FontSource: FontSource{Name: c.Name, Config: c, Ranges: ranges},
		sfnt:       sf,
		coverage:   cov,
		dst:        dst,
	})
	a.built = false
	return dst, nil
}

// AddFontFromFileTTF reads path and loads it with AddFontFromMemoryTTF.
// The config name defaults to the file's base name.
func (a *FontAtlas) AddFontFromFileTTF(path string, cfg *FontConfig, ranges GlyphRanges) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("imui: read font: %w", err)
	}
	c := DefaultFontConfig()
	if cfg != nil {
		c = *cfg
	}
	if c.Name == "" {
		c.Name = filepath.Base(path)
	}
	return a.AddFontFromMemoryTTF(data, &c, ranges)
}

// AddFontDefault loads the embedded Go Regular font. A nil cfg or a zero
// size uses 13 pixels.
func (a *FontAtlas) AddFontDefault(cfg *FontConfig, ranges GlyphRanges) (*Font, error) {
	c := DefaultFontConfig()
	if cfg != nil {
		c = *cfg
	}
	if c.SizePixels <= 0 {
		c.SizePixels = 13
	}
	if c.Name == "" {
		c.Name = "Go Regular"
	}
	return a.AddFontFromMemoryTTF(goregular.TTF, &c, ranges)
}

// rasterGlyph is a glyph bitmap waiting to be packed.
type rasterGlyph struct {
	src     *fontSource
	r       rune
	bitmap  *image.Alpha
	bounds  image.Rectangle
	advance float32
	x, y    int
}

// Build rasterizes every glyph covered by both a source's ranges and its
// cmap, packs them into the texture and fills in glyph metrics.
// A rune already provided by an earlier source of the same font is skipped.
func (a *FontAtlas) Build() error {
	for _, f := range a.Fonts {
		f.Glyphs = f.Glyphs[:0]
		f.index = make(map[rune]int)
		f.fallback = nil
	}

	var glyphs []*rasterGlyph
	taken := make(map[*Font]map[rune]bool)
	for _, s := range a.sources {
		s.Glyphs = 0
		ovsH, ovsV := s.Config.oversample()
		// Glyphs are rasterized at the vertical factor and stretched to
		// the horizontal one.
		stretch := float64(ovsH) / float64(ovsV)
		face, err := opentype.NewFace(s.sfnt, &opentype.FaceOptions{
			Size:    float64(s.Config.SizePixels) * float64(ovsV),
			DPI:     72,
			Hinting: font.HintingNone,
		})
		if err != nil {
			return fmt.Errorf("imui: font %q: %w", s.Name, err)
		}
		if !s.Config.MergeMode {
			m := face.Metrics()
			s.dst.Ascent = float32(m.Ascent.Ceil()) / float32(ovsV)
			s.dst.Descent = -float32(m.Descent.Ceil()) / float32(ovsV)
		}
		seen := taken[s.dst]
		if seen == nil {
			seen = make(map[rune]bool)
			taken[s.dst] = seen
		}
		s.Ranges.Each(func(r rune) {
			if seen[r] {
				return
			}
			if _, ok := s.coverage.NominalGlyph(r); !ok {
				return
			}
			dr, mask, maskp, adv, ok := face.Glyph(fixed.Point26_6{}, r)
			if !ok {
				return
			}
			seen[r] = true
			g := &rasterGlyph{
				src:     s,
				r:       r,
				bounds:  stretchX(dr, stretch),
				advance: float32(adv) / 64 / float32(ovsV),
			}
			if !dr.Empty() {
				// The face reuses its mask between calls.
				g.bitmap = image.NewAlpha(image.Rect(0, 0, g.bounds.Dx(), g.bounds.Dy()))
				if ovsH == ovsV {
					draw.Draw(g.bitmap, g.bitmap.Bounds(), mask, maskp, draw.Src)
				} else {
					src := image.Rectangle{Min: maskp, Max: maskp.Add(dr.Size())}
					draw.BiLinear.Scale(g.bitmap, g.bitmap.Bounds(), mask, src, draw.Src, nil)
				}
			}
			glyphs = append(glyphs, g)
			s.Glyphs++
		})
		_ = face.Close()
	}

	w, h, err := packGlyphs(glyphs)
	if err != nil {
		return err
	}
	a.TexWidth, a.TexHeight = w, h
	a.alpha = make([]byte, w*h)
	a.rgba = nil

	// 2x2 white block at the origin.
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			a.alpha[y*w+x] = 0xff
		}
	}
	a.TexUvWhitePixel = Vec2{1 / float32(w), 1 / float32(h)}

	for _, g := range glyphs {
		if g.bitmap != nil {
			for row := 0; row < g.bitmap.Rect.Dy(); row++ {
				copy(a.alpha[(g.y+row)*w+g.x:], g.bitmap.Pix[row*g.bitmap.Stride:row*g.bitmap.Stride+g.bitmap.Rect.Dx()])
			}
		}
		a.finishGlyph(g, w, h)
	}
	for _, f := range a.Fonts {
		f.setFallback()
	}
	a.built = true
	return nil
}

func (a *FontAtlas) finishGlyph(g *rasterGlyph, texW, texH int) {
	cfg := &g.src.Config
	dst := g.src.dst
	h, v := cfg.oversample()
	ovsH, ovsV := float32(h), float32(v)

	x0 := float32(g.bounds.Min.X) / ovsH
	y0 := float32(g.bounds.Min.Y)/ovsV + dst.Ascent
	x1 := x0 + float32(g.bounds.Dx())/ovsH
	y1 := y0 + float32(g.bounds.Dy())/ovsV
	adv := g.advance
	if adv < cfg.GlyphMinAdvanceX {
		shift := (cfg.GlyphMinAdvanceX - adv) * 0.5
		x0 += shift
		x1 += shift
		adv = cfg.GlyphMinAdvanceX
	}
	if cfg.PixelSnapH {
		adv = round32(adv)
	}
	glyph := Glyph{
		Codepoint: g.r,
		Visible:   g.bitmap != nil,
		AdvanceX:  adv,
		X0:        x0,
		Y0:        y0,
		X1:        x1,
		Y1:        y1,
	}
	if glyph.Visible {
		glyph.U0 = float32(g.x) / float32(texW)
		glyph.V0 = float32(g.y) / float32(texH)
		glyph.U1 = float32(g.x+g.bounds.Dx()) / float32(texW)
		glyph.V1 = float32(g.y+g.bounds.Dy()) / float32(texH)
	}
	dst.addGlyph(glyph)
}

// stretchX scales the horizontal extent of r by f, rounding outwards.
func stretchX(r image.Rectangle, f float64) image.Rectangle {
	if f == 1 || r.Empty() {
		return r
	}
	w := int(math.Ceil(float64(r.Dx()) * f))
	r.Min.X = int(math.Floor(float64(r.Min.X) * f))
	r.Max.X = r.Min.X + w
	return r
}

// packGlyphs assigns texture positions with a shelf packer and returns the
// texture size. The 2x2 white block occupies the first slot.
func packGlyphs(glyphs []*rasterGlyph) (w, h int, err error) {
	area := 4
	for _, g := range glyphs {
		area += (g.bounds.Dx() + atlasGlyphPadding) * (g.bounds.Dy() + atlasGlyphPadding)
	}
	side := math.Sqrt(float64(area))
	switch {
	case side >= 4096*0.7:
		w = 4096
	case side >= 2048*0.7:
		w = 2048
	case side >= 1024*0.7:
		w = 1024
	default:
		w = 512
	}

	order := make([]*rasterGlyph, 0, len(glyphs))
	for _, g := range glyphs {
		if g.bitmap != nil {
			order = append(order, g)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].bounds.Dy() > order[j].bounds.Dy()
	})

	x, y, shelf := 2+atlasGlyphPadding, 0, 2
	for _, g := range order {
		gw, gh := g.bounds.Dx(), g.bounds.Dy()
		if gw+atlasGlyphPadding > w {
			return 0, 0, fmt.Errorf("%w: glyph %U is %d pixels wide", ErrAtlasTooLarge, g.r, gw)
		}
		if x+gw > w {
			x = 0
			y += shelf + atlasGlyphPadding
			shelf = 0
		}
		g.x, g.y = x, y
		x += gw + atlasGlyphPadding
		shelf = max(shelf, gh)
	}
	used := y + shelf
	h = 1
	for h < used {
		h <<= 1
	}
	if h > MaxAtlasHeight {
		return 0, 0, fmt.Errorf("%w: need %d rows", ErrAtlasTooLarge, used)
	}
	return w, h, nil
}

// TexDataAsAlpha8 returns the 8-bit coverage texture, building the atlas
// first if needed.
func (a *FontAtlas) TexDataAsAlpha8() (pixels []byte, width, height int, err error) {
	if !a.built {
		if err := a.Build(); err != nil {
			return nil, 0, 0, err
		}
	}
	return a.alpha, a.TexWidth, a.TexHeight, nil
}

// TexDataAsRGBA32 returns the texture as white RGBA texels with coverage in
// alpha, building the atlas first if needed.
func (a *FontAtlas) TexDataAsRGBA32() (pixels []byte, width, height int, err error) {
	alpha, w, h, err := a.TexDataAsAlpha8()
	if err != nil {
		return nil, 0, 0, err
	}
	if a.rgba == nil {
		a.rgba = make([]byte, len(alpha)*4)
		for i, v := range alpha {
			a.rgba[i*4+0] = 0xff
			a.rgba[i*4+1] = 0xff
			a.rgba[i*4+2] = 0xff
			a.rgba[i*4+3] = v
		}
	}
	return a.rgba, w, h, nil
}

// SetTexID records the renderer's handle for the uploaded texture.
func (a *FontAtlas) SetTexID(id TextureID) { a.TexID = id }
