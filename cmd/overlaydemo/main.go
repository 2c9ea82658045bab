// Command overlaydemo drives the overlay against an in-memory D3D12
// swapchain and reports what was submitted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gogpu/overlay"
	"github.com/gogpu/overlay/config"
	"github.com/gogpu/overlay/d3d12"
	"github.com/gogpu/overlay/d3d12/noop"
	"github.com/gogpu/overlay/imui"
)

const demoWindow d3d12.Window = 0x1000

func main() {
	var (
		width   = flag.Int("width", 1920, "swapchain width")
		height  = flag.Int("height", 1080, "swapchain height")
		buffers = flag.Int("buffers", 3, "swapchain buffer count")
		frames  = flag.Int("frames", 120, "frames to present")
		cfgPath = flag.String("config", "", "optional TOML configuration file")
		locale  = flag.String("locale", "", "system locale override, e.g. ja-JP")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	overlay.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	opts := []overlay.Option{
		overlay.WithConfig(cfg),
		overlay.WithDrawers(overlay.DrawerFunc(drawHUD)),
	}
	if *locale != "" {
		opts = append(opts, overlay.WithSystemLocale(*locale))
	}

	dev := noop.NewDevice()
	defer dev.Release()
	sc := noop.NewSwapChain(dev, d3d12.SwapChainDesc{
		Width:        uint32(*width),
		Height:       uint32(*height),
		BufferCount:  uint32(*buffers),
		OutputWindow: demoWindow,
	})
	defer sc.Release()
	queue := dev.NewCommandQueue()
	defer queue.Release()

	ov := overlay.New(demoWindow, opts...)
	defer ov.Close()
	ov.Bind(sc, queue)
	if err := ov.Initialize(); err != nil {
		log.Fatalf("Failed to initialize overlay: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// UI thread: publishes draw data as fast as it can.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ctx.Err() == nil {
			if err := ov.PrepareUpdate(); err != nil {
				slog.Error("prepare update", "err", err)
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	start := time.Now()
	for i := 0; i < *frames && ctx.Err() == nil; i++ {
		if err := ov.Update(); err != nil {
			log.Fatalf("Frame %d: %v", i, err)
		}
		sc.Present()
		time.Sleep(16 * time.Millisecond)
	}
	stop()
	<-done

	p := ov.FontPlan()
	fmt.Printf("presented %d frames in %v\n", *frames, time.Since(start).Round(time.Millisecond))
	fmt.Printf("submissions: %d, frame contexts: %d\n", len(queue.Submissions()), ov.FrameContextCount())
	fmt.Printf("font: %.0fpx scale %.3f language %v\n", p.SizePixels, p.Scale, p.Language)
}

// drawHUD draws a frame counter panel.
func drawHUD(ctx *imui.Context) {
	dl := ctx.DrawList("hud")
	dl.AddRectFilled(imui.Vec2{X: 16, Y: 16}, imui.Vec2{X: 276, Y: 76}, imui.RGBA(20, 20, 24, 200))
	dl.AddRect(imui.Vec2{X: 16, Y: 16}, imui.Vec2{X: 276, Y: 76}, imui.RGBA(90, 140, 255, 255), 1)
	if f := ctx.Font(); f != nil {
		text := fmt.Sprintf("frame %d", ctx.FrameCount())
		dl.AddText(f, f.Size, imui.Vec2{X: 28, Y: 32}, imui.RGBA(255, 255, 255, 255), text)
	}
}
