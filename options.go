package overlay

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/overlay/config"
	"github.com/gogpu/overlay/fonts"
)

// Option configures a D3D12 overlay during creation.
//
// Example:
//
//	cfg, err := config.Load("overlay.toml")
//	if err != nil {
//	    return err
//	}
//	ov := overlay.New(hwnd, overlay.WithConfig(cfg), overlay.WithDrawers(menu))
type Option func(*options)

// options holds optional configuration for New.
type options struct {
	font     config.FontOptions
	fontsDir string

	locale    string
	localeSet bool

	drawers []Drawer

	window   gpucontext.WindowProvider
	platform gpucontext.PlatformProvider
	events   gpucontext.EventSource

	cloneWorkers int
}

// defaultOptions returns the options of config.Default.
func defaultOptions() options {
	cfg := config.Default()
	return options{
		font:     cfg.Font,
		fontsDir: cfg.Paths.Fonts,
	}
}

// WithConfig applies the font options and fonts directory of cfg.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.font = cfg.Font
		o.fontsDir = cfg.Paths.Fonts
	}
}

// WithFontOptions sets the font configuration.
func WithFontOptions(f config.FontOptions) Option {
	return func(o *options) {
		o.font = f
	}
}

// WithFontsDir sets the directory bundled font files are read from.
func WithFontsDir(dir string) Option {
	return func(o *options) {
		o.fontsDir = dir
	}
}

// WithSystemLocale overrides the detected system locale used to pick the
// extra font glyphs when no language is configured.
func WithSystemLocale(locale string) Option {
	return func(o *options) {
		o.locale = locale
		o.localeSet = true
	}
}

// WithDrawers registers drawers run on every PrepareUpdate, in order.
func WithDrawers(d ...Drawer) Option {
	return func(o *options) {
		o.drawers = append(o.drawers, d...)
	}
}

// WithWindowProvider sets the source of the host window's DPI scale.
func WithWindowProvider(w gpucontext.WindowProvider) Option {
	return func(o *options) {
		o.window = w
	}
}

// WithPlatformProvider sets the receiver of cursor changes.
func WithPlatformProvider(p gpucontext.PlatformProvider) Option {
	return func(o *options) {
		o.platform = p
	}
}

// WithEventSource sets the source of the host window's input.
func WithEventSource(e gpucontext.EventSource) Option {
	return func(o *options) {
		o.events = e
	}
}

// WithCloneWorkers sets the number of workers copying draw lists into
// snapshots. Zero or negative uses GOMAXPROCS.
func WithCloneWorkers(n int) Option {
	return func(o *options) {
		o.cloneWorkers = n
	}
}

func (o *options) resolveLocale() string {
	if o.localeSet {
		return o.locale
	}
	return fonts.SystemLocale()
}
