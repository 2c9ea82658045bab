package overlay

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/overlay/config"
	"github.com/gogpu/overlay/d3d12/noop"
	"github.com/gogpu/overlay/fonts"
	"github.com/gogpu/overlay/imui"
)

func TestReferenceStyle(t *testing.T) {
	s := referenceStyle()
	base := imui.StyleColorsDark()

	if s.WindowRounding != 6 || s.ChildRounding != 6 || s.PopupRounding != 6 ||
		s.FrameRounding != 6 || s.TabRounding != 6 {
		t.Errorf("roundings = %v %v %v %v %v", s.WindowRounding, s.ChildRounding, s.PopupRounding, s.FrameRounding, s.TabRounding)
	}
	if s.ScrollbarRounding != 12 || s.GrabRounding != 12 {
		t.Errorf("scrollbar/grab rounding = %v %v", s.ScrollbarRounding, s.GrabRounding)
	}
	if s.WindowTitleAlign.X != 0.5 || s.WindowTitleAlign.Y != base.WindowTitleAlign.Y {
		t.Errorf("WindowTitleAlign = %v", s.WindowTitleAlign)
	}
	if s.Colors != base.Colors {
		t.Error("colors differ from the dark scheme")
	}
}

// The 2560x1440 swapchain with four buffers, 16px base size, no
// oversampling, bundled fonts and a Japanese system locale.
func TestInitializeJapaneseScenario(t *testing.T) {
	dir := fontsDir(t, fonts.DefaultFontFile, "NotoSansJP-Regular.otf", fonts.IconFontFile)
	h := newHarness(t, swapChainDesc(2560, 1440, 4),
		WithFontsDir(dir),
		WithSystemLocale("ja-JP"),
		WithFontOptions(config.FontOptions{BaseSize: 16, OversampleHorizontal: 1, OversampleVertical: 1}),
	)
	h.initialize(t)

	if n := h.ov.FrameContextCount(); n != 3 {
		t.Errorf("FrameContextCount = %d, want 3", n)
	}
	p := h.ov.FontPlan()
	if p.Scale < 1.3333 || p.Scale > 1.3334 {
		t.Errorf("Scale = %v, want 1.333", p.Scale)
	}
	if p.SizePixels != 21 {
		t.Errorf("SizePixels = %v, want 21", p.SizePixels)
	}
	if !p.PixelSnapH {
		t.Error("pixel snapping disabled with 1/1 oversampling")
	}
	if p.Language != fonts.Japanese {
		t.Errorf("Language = %v, want Japanese", p.Language)
	}
	if len(p.Warnings) != 0 {
		t.Errorf("Warnings = %q", p.Warnings)
	}

	sources := h.ov.ctx.IO.Fonts.Sources()
	if len(sources) != 3 {
		t.Fatalf("atlas sources = %d, want 3", len(sources))
	}
	merge := p.Sources[1]
	if merge.Path != filepath.Join(dir, "NotoSansJP-Regular.otf") || !merge.Config.MergeMode {
		t.Errorf("merge source = %+v", merge)
	}
	if !merge.Ranges.Contains(0x3042) {
		t.Error("Japanese ranges not merged")
	}
	if h.ov.ctx.Style != referenceStyle().Scaled(p.Scale) {
		t.Error("style is not the scaled reference style")
	}
}

func TestLanguageOverridesLocale(t *testing.T) {
	h := newHarness(t, swapChainDesc(1920, 1080, 2),
		WithSystemLocale("ko-KR"),
		WithFontOptions(config.FontOptions{BaseSize: 18, OversampleHorizontal: 3, OversampleVertical: 1, Language: "Japanese"}),
	)
	h.initialize(t)

	p := h.ov.FontPlan()
	if p.Language != fonts.Japanese {
		t.Errorf("Language = %v, want Japanese", p.Language)
	}
	if p.PixelSnapH {
		t.Error("pixel snapping enabled with oversampling")
	}
	// Nothing bundled: embedded base and merge fonts, icons skipped.
	if len(p.Sources) != 2 || !p.Sources[0].Embedded() || !p.Sources[1].Embedded() {
		t.Errorf("sources = %+v", p.Sources)
	}
}

func TestReloadFonts(t *testing.T) {
	h := newHarness(t, swapChainDesc(1920, 1080, 2))

	if _, err := h.ov.ReloadFonts(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("before Initialize: err = %v", err)
	}

	h.initialize(t)
	uploads := h.dev.Faults().Calls(noop.OpCreateTexture2D)
	want := h.ov.ctx.Style

	for range 3 {
		p, err := h.ov.ReloadFonts()
		if err != nil {
			t.Fatal(err)
		}
		if p.SizePixels != 18 {
			t.Errorf("SizePixels = %v", p.SizePixels)
		}
		if len(h.ov.ctx.IO.Fonts.Sources()) != len(p.Sources) {
			t.Errorf("atlas holds %d sources, plan %d", len(h.ov.ctx.IO.Fonts.Sources()), len(p.Sources))
		}
		if h.ov.ctx.Style != want {
			t.Fatal("style drifted across reloads")
		}
	}
	if n := h.dev.Faults().Calls(noop.OpCreateTexture2D); n != uploads {
		t.Errorf("texture re-uploaded outside the render thread")
	}

	// The next frame re-uploads once.
	if err := h.ov.Update(); err != nil {
		t.Fatal(err)
	}
	if n := h.dev.Faults().Calls(noop.OpCreateTexture2D); n != uploads+1 {
		t.Errorf("texture uploads = %d, want %d", n, uploads+1)
	}
	if n := h.live("Texture"); n != 1 {
		t.Errorf("live textures = %d, want 1", n)
	}
}

func TestInitializeImGuiPreconditions(t *testing.T) {
	h := newHarness(t, swapChainDesc(1920, 1080, 2))
	if err := h.ov.InitializeImGui(2); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("without device objects: err = %v", err)
	}
}

func TestInitializeCorruptDefaultFont(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, fonts.DefaultFontFile), []byte("not a font"), 0o600); err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, swapChainDesc(1920, 1080, 2), WithFontsDir(dir))
	h.initialize(t)

	p := h.ov.FontPlan()
	if len(p.Sources) != 2 || !p.Sources[0].Embedded() || !p.Sources[1].Embedded() {
		t.Errorf("sources = %+v, want base and merge from the embedded font", p.Sources)
	}
	if !hasWarning(p, "cannot load") {
		t.Errorf("Warnings = %q", p.Warnings)
	}
	if n := len(h.ov.ctx.IO.Fonts.Fonts); n != 1 {
		t.Errorf("atlas fonts = %d, want 1", n)
	}
}

func TestReloadFontsCorruptCustomFont(t *testing.T) {
	dir := fontsDir(t, "custom.ttf")
	h := newHarness(t, swapChainDesc(1920, 1080, 2),
		WithFontsDir(dir),
		WithDrawers(rectDrawer()),
		WithFontOptions(config.FontOptions{BaseSize: 18, OversampleHorizontal: 1, OversampleVertical: 1, Path: "custom.ttf"}),
	)
	h.initialize(t)
	if p := h.ov.FontPlan(); p.Sources[0].Embedded() {
		t.Fatalf("custom font not loaded: %+v", p.Sources[0])
	}
	texID := h.ov.ctx.IO.Fonts.TexID
	uploads := h.dev.Faults().Calls(noop.OpCreateTexture2D)

	if err := os.WriteFile(filepath.Join(dir, "custom.ttf"), []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	p, err := h.ov.ReloadFonts()
	if err != nil {
		t.Fatalf("ReloadFonts: %v", err)
	}
	if !p.Sources[0].Embedded() || !p.Sources[1].Embedded() {
		t.Errorf("sources = %+v, want the embedded fallback", p.Sources)
	}

	if err := h.ov.PrepareUpdate(); err != nil {
		t.Fatal(err)
	}
	if err := h.ov.Update(); err != nil {
		t.Fatal(err)
	}
	atlas := h.ov.ctx.IO.Fonts
	if len(atlas.Fonts) != 1 || !atlas.IsBuilt() || atlas.TexHeight <= 2 {
		t.Errorf("atlas fonts = %d built = %v height = %d", len(atlas.Fonts), atlas.IsBuilt(), atlas.TexHeight)
	}
	if atlas.TexID != texID {
		t.Errorf("TexID = %v, want %v", atlas.TexID, texID)
	}
	if n := h.dev.Faults().Calls(noop.OpCreateTexture2D); n != uploads+1 {
		t.Errorf("texture uploads = %d, want %d", n, uploads+1)
	}
	if indexCount(h.submittedList(t)) == 0 {
		t.Error("nothing drawn after the reload")
	}
}

func hasWarning(p fonts.Plan, prefix string) bool {
	for _, w := range p.Warnings {
		if strings.HasPrefix(w, prefix) {
			return true
		}
	}
	return false
}
