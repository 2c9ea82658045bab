package overlay

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/overlay/fonts"
	"github.com/gogpu/overlay/imui"
	"github.com/gogpu/overlay/imui/backend"
)

// renderTargetFormat is the format the UI pipeline renders in.
const renderTargetFormat = gputypes.TextureFormatRGBA8Unorm

// referenceStyle is the unscaled overlay style. Every font reload copies
// and scales it, so resolution changes never compound.
func referenceStyle() imui.Style {
	s := imui.StyleColorsDark()
	s.WindowRounding = 6
	s.WindowTitleAlign.X = 0.5
	s.ChildRounding = 6
	s.PopupRounding = 6
	s.FrameRounding = 6
	s.ScrollbarRounding = 12
	s.GrabRounding = 12
	s.TabRounding = 6
	return s
}

// InitializeImGui brings up the UI side of the overlay for bufferCount
// frames in flight: the process UI context (created only if none exists),
// the platform and renderer backends, the fonts and the renderer's device
// objects. A failure shuts down the backends already started.
//
// Initialize calls it once the device objects exist; it is exported for
// hosts that drive initialization step by step.
func (d *D3D12) InitializeImGui(bufferCount int) error {
	if d.initialized.Load() {
		return nil
	}
	if d.device == nil || d.srvHeap == nil {
		return ErrNotInitialized
	}

	d.uiMu.Lock()
	defer d.uiMu.Unlock()

	ctx := imui.CurrentContext()
	if ctx == nil {
		ctx = imui.CreateContext()
		imui.SetCurrentContext(ctx)
	}
	d.ctx = ctx
	ctx.IO.ConfigFlags |= imui.ConfigFlagsNoMouseCursorChange

	err := d.platform.Init(ctx, d.window, backend.PlatformConfig{
		Window:   d.opts.window,
		Platform: d.opts.platform,
		Events:   d.opts.events,
	})
	if err != nil {
		d.ctx = nil
		return fmt.Errorf("platform backend: %w", err)
	}

	err = d.renderer.Init(ctx, d.device, bufferCount, renderTargetFormat, d.srvHeap,
		d.srvHeap.CPUDescriptorHandleForHeapStart(), d.srvHeap.GPUDescriptorHandleForHeapStart())
	if err != nil {
		d.platform.Shutdown()
		d.ctx = nil
		return fmt.Errorf("renderer backend: %w", err)
	}

	if _, err := d.reloadFontsLocked(); err != nil {
		d.renderer.Shutdown()
		d.platform.Shutdown()
		d.ctx = nil
		return err
	}

	if err := d.renderer.CreateDeviceObjects(d.queue); err != nil {
		d.renderer.Shutdown()
		d.platform.Shutdown()
		d.ctx = nil
		return fmt.Errorf("device objects: %w", err)
	}
	return nil
}

// ReloadFonts rebuilds the fonts and the style for the current output size
// and returns the resolved font setup. The font texture is re-uploaded on
// the next Update. It may be called from any goroutine once initialized.
func (d *D3D12) ReloadFonts() (fonts.Plan, error) {
	d.uiMu.Lock()
	defer d.uiMu.Unlock()

	plan, err := d.reloadFontsLocked()
	if err != nil {
		return plan, err
	}
	d.renderer.InvalidateFontTexture()
	return plan, nil
}

func (d *D3D12) reloadFontsLocked() (fonts.Plan, error) {
	if d.ctx == nil {
		return fonts.Plan{}, ErrNotInitialized
	}
	plan := fonts.NewPlan(d.opts.font, d.width, d.height, d.opts.fontsDir, d.locale)

	// The current atlas stays in use until the new one is fully loaded.
	atlas := imui.NewFontAtlas()
	if old := d.ctx.IO.Fonts; old != nil {
		atlas.TexID = old.TexID
	}
	if err := plan.Apply(atlas); err != nil {
		return plan, fmt.Errorf("overlay: reload fonts: %w", err)
	}
	for _, w := range plan.Warnings {
		slogger().Warn("overlay: " + w)
	}

	d.ctx.IO.Fonts = atlas
	d.ctx.Style = d.reference.Scaled(plan.Scale)
	d.fontPlan = plan

	slogger().Debug("overlay: fonts reloaded",
		"size", plan.SizePixels, "scale", plan.Scale,
		"language", plan.Language.String(), "sources", len(plan.Sources))
	return plan, nil
}

// FontPlan returns the font setup of the last successful reload.
func (d *D3D12) FontPlan() fonts.Plan {
	d.uiMu.Lock()
	defer d.uiMu.Unlock()
	return d.fontPlan
}
