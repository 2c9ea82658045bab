// Package overlay draws an immediate-mode UI layer into the present path
// of a Direct3D 12 application.
//
// # Overview
//
// The host's present hook binds its swapchain and command queue, then calls
// Update on every intercepted present. An update driver on another goroutine
// calls PrepareUpdate at its own cadence to build a UI frame. Frames cross
// between the two goroutines through a three-slot snapshot pipeline, so
// neither side waits for the other and a slow producer makes the overlay
// repeat its last frame instead of flickering.
//
// # Quick Start
//
//	ov := overlay.New(hwnd,
//	    overlay.WithConfig(cfg),
//	    overlay.WithDrawers(overlay.DrawerFunc(func(ctx *imui.Context) {
//	        dl := ctx.DrawList("hud")
//	        dl.AddText(ctx.Font(), 0, imui.Vec2{X: 10, Y: 10}, imui.RGBA(255, 255, 255, 255), "hello")
//	    })),
//	)
//	defer ov.Close()
//
//	// Present hook, render thread:
//	ov.Bind(swapChain, queue)
//	if err := ov.Initialize(); err != nil {
//	    return // retried on the next present
//	}
//	_ = ov.Update()
//
//	// Update driver, any goroutine:
//	_ = ov.PrepareUpdate()
//
// # Threading
//
// Bind, Initialize, ResetState, Update and Close run on the host's render
// thread. PrepareUpdate, ReloadFonts, SetWindow and the accessors may be
// called from any goroutine.
//
// # Logging
//
// overlay is silent by default. Use SetLogger to enable structured logging
// through log/slog.
package overlay
