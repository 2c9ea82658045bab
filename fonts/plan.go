package fonts

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/gogpu/overlay/config"
	"github.com/gogpu/overlay/imui"
)

// Bundled font files.
const (
	DefaultFontFile = "NotoSans-Regular.ttf"
	IconFontFile    = "materialdesignicons.ttf"
)

// Reference resolution the configured base size applies to.
const (
	ReferenceWidth  = 1920
	ReferenceHeight = 1080
)

// ErrNotFound is returned by ResolvePath for missing files.
var ErrNotFound = errors.New("fonts: file not found")

// ResolvePath returns name if it is absolute, otherwise name joined to dir.
// The file must exist.
func ResolvePath(dir, name string) (string, error) {
	if name == "" {
		return "", ErrNotFound
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, name)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}
	return path, nil
}

// Scale returns the UI scale factor for an output of width x height pixels
// relative to the reference resolution.
func Scale(width, height int32) float32 {
	return float32(math.Min(float64(width)/ReferenceWidth, float64(height)/ReferenceHeight))
}

// Source is one font loaded into the atlas.
type Source struct {
	// Path is the font file; empty loads the embedded default font.
	Path   string
	Ranges imui.GlyphRanges
	Config imui.FontConfig
}

// Embedded reports whether the source uses the embedded default font.
func (s Source) Embedded() bool { return s.Path == "" }

// Plan is the resolved font setup for one output size.
type Plan struct {
	// Scale is min(width/ReferenceWidth, height/ReferenceHeight).
	Scale float32

	// SizePixels is floor(BaseSize * Scale), at least 1.
	SizePixels float32

	// PixelSnapH is set when both oversampling factors are 1.
	PixelSnapH bool

	Language Language

	// Sources are loaded in order: the base font, the language merge and,
	// when the icon font exists, the icons.
	Sources []Source

	// Warnings describe fallbacks taken while resolving files.
	Warnings []string
}

// NewPlan resolves the fonts for an output of width x height pixels.
// Files are looked up in dir; locale is used when opts.Language is empty
// or unknown.
func NewPlan(opts config.FontOptions, width, height int32, dir, locale string) Plan {
	scale := Scale(width, height)
	p := Plan{
		Scale:    scale,
		Language: Resolve(opts.Language, locale),
	}
	p.SizePixels = max(float32(math.Floor(float64(opts.BaseSize*scale))), 1)
	p.PixelSnapH = opts.OversampleHorizontal == 1 && opts.OversampleVertical == 1

	base := imui.FontConfig{
		SizePixels:  p.SizePixels,
		OversampleH: opts.OversampleHorizontal,
		OversampleV: opts.OversampleVertical,
		PixelSnapH:  p.PixelSnapH,
	}

	custom := ""
	if opts.Path != "" {
		if path, err := ResolvePath(dir, opts.Path); err == nil {
			custom = path
		}
	}
	const customInvalid = "custom font path is invalid, using the default font"

	// Base font, Latin only.
	switch {
	case custom != "":
		p.add(custom, imui.GlyphRangesDefault(), base)
	default:
		if opts.Path != "" {
			p.warn(customInvalid)
		}
		if path, err := ResolvePath(dir, DefaultFontFile); err == nil {
			p.add(path, imui.GlyphRangesDefault(), base)
		} else {
			p.warn("missing default fonts, using the embedded font")
			p.add("", imui.GlyphRangesDefault(), base)
		}
	}

	// Language glyphs merged into the base font.
	merge := base
	merge.MergeMode = true
	ranges := p.Language.GlyphRanges()
	switch {
	case custom != "":
		p.add(custom, ranges, merge)
	default:
		if opts.Path != "" {
			p.warn(customInvalid)
		}
		if path, err := ResolvePath(dir, p.Language.FontFile()); err == nil {
			p.add(path, ranges, merge)
		} else {
			p.warn("missing fonts for extra language glyphs, using the embedded font")
			p.add("", ranges, merge)
		}
	}

	// Icons, one cell wide.
	icons := merge
	icons.GlyphMinAdvanceX = p.SizePixels
	if path, err := ResolvePath(dir, IconFontFile); err == nil {
		p.add(path, imui.GlyphRangesIcons(), icons)
	} else {
		p.warn("missing icon font, icons disabled")
	}
	return p
}

func (p *Plan) add(path string, ranges imui.GlyphRanges, cfg imui.FontConfig) {
	if path != "" {
		cfg.Name = filepath.Base(path)
	}
	p.Sources = append(p.Sources, Source{Path: path, Ranges: ranges, Config: cfg})
}

func (p *Plan) warn(msg string) {
	p.Warnings = append(p.Warnings, msg)
}

// Apply clears atlas and loads every source. The atlas is not built.
//
// A font file that cannot be loaded is replaced by the embedded font with
// the same configuration and ranges; an unusable icon font is dropped.
// Both are recorded in Warnings, and Sources is updated to what was
// actually loaded.
func (p *Plan) Apply(atlas *imui.FontAtlas) error {
	atlas.Clear()
	loaded := p.Sources[:0:0]
	for _, s := range p.Sources {
		cfg := s.Config
		if !s.Embedded() {
			_, err := atlas.AddFontFromFileTTF(s.Path, &cfg, s.Ranges)
			if err == nil {
				loaded = append(loaded, s)
				continue
			}
			if s.Icons() {
				p.warn(fmt.Sprintf("cannot load icon font %s, icons disabled: %v", s.Path, err))
				continue
			}
			p.warn(fmt.Sprintf("cannot load %s, using the embedded font: %v", s.Path, err))
			s.Path = ""
			cfg = s.Config
			cfg.Name = ""
			s.Config = cfg
		}
		if _, err := atlas.AddFontDefault(&cfg, s.Ranges); err != nil {
			return fmt.Errorf("fonts: load %s: %w", s.name(), err)
		}
		loaded = append(loaded, s)
	}
	p.Sources = loaded
	return nil
}

// Icons reports whether the source is the icon font pass.
func (s Source) Icons() bool { return s.Config.GlyphMinAdvanceX > 0 }

func (s Source) name() string {
	if s.Embedded() {
		return "embedded font"
	}
	return s.Path
}
