package backend

import (
	"sync"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/overlay/d3d12"
	"github.com/gogpu/overlay/imui"
)

// PlatformName is reported in IO.BackendPlatformName.
const PlatformName = "overlay_platform_gpucontext"

// PlatformConfig supplies the host collaborators of the platform backend.
// Nil fields fall back to the gpucontext Null implementations.
type PlatformConfig struct {
	// Window reports the DPI scale factor of the host window.
	Window gpucontext.WindowProvider

	// Platform receives cursor changes.
	Platform gpucontext.PlatformProvider

	// Events delivers the host window's input.
	Events gpucontext.EventSource
}

// pendingInput is input received between two frames.
type pendingInput struct {
	pos     imui.Vec2
	hasPos  bool
	down    [imui.MouseButtonCount]bool
	clicked [imui.MouseButtonCount]bool
	wheel   float32
	wheelH  float32
	text    []rune
	focused bool
}

// Platform is the window/input backend. It turns host window events into
// UI input and sets up the per-frame display state.
//
// Event callbacks may arrive on any goroutine. NewFrame must be called with
// the UI context locked by the caller.
type Platform struct {
	ctx    *imui.Context
	window d3d12.Window
	cfg    PlatformConfig
	now    func() time.Time

	// mu guards the fields below; callbacks hold it briefly.
	mu sync.Mutex
	// gen invalidates the callbacks of earlier Init calls, since an
	// EventSource cannot unsubscribe.
	gen        uint64
	active     bool
	input      pendingInput
	lastFrame  time.Time
	lastCursor imui.MouseCursor
}

// NewPlatform returns an uninitialized platform backend.
func NewPlatform() *Platform {
	return &Platform{now: time.Now}
}

// Init attaches the backend to ctx and the host window and subscribes to
// its events.
func (p *Platform) Init(ctx *imui.Context, window d3d12.Window, cfg PlatformConfig) error {
	if ctx == nil {
		return ErrNoContext
	}
	if window == 0 {
		return ErrNoWindow
	}
	if cfg.Window == nil {
		cfg.Window = gpucontext.NullWindowProvider{}
	}
	if cfg.Platform == nil {
		cfg.Platform = gpucontext.NullPlatformProvider{}
	}
	if cfg.Events == nil {
		cfg.Events = gpucontext.NullEventSource{}
	}

	p.mu.Lock()
	if p.active {
		p.mu.Unlock()
		return ErrAlreadyInitialized
	}
	p.gen++
	gen := p.gen
	p.active = true
	p.ctx = ctx
	p.window = window
	p.cfg = cfg
	p.input = pendingInput{focused: true}
	p.lastFrame = time.Time{}
	p.lastCursor = imui.MouseCursorNone - 1
	p.mu.Unlock()

	ctx.IO.BackendPlatformName = PlatformName
	p.subscribe(gen, cfg.Events)

	slogger().Debug("platform backend initialized", "window", uintptr(window))
	return nil
}

// Window returns the window handle given to Init, or 0.
func (p *Platform) Window() d3d12.Window {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.window
}

// subscribe registers input callbacks that stop applying once gen is stale.
func (p *Platform) subscribe(gen uint64, events gpucontext.EventSource) {
	events.OnMouseMove(func(x, y float64) {
		p.handle(gen, func(in *pendingInput, scale float32) {
			in.pos = imui.Vec2{X: float32(x) * scale, Y: float32(y) * scale}
			in.hasPos = true
		})
	})
	events.OnMousePress(func(b gpucontext.MouseButton, x, y float64) {
		p.handle(gen, func(in *pendingInput, scale float32) {
			in.pos = imui.Vec2{X: float32(x) * scale, Y: float32(y) * scale}
			in.hasPos = true
			if i, ok := buttonIndex(b); ok {
				in.down[i] = true
				in.clicked[i] = true
			}
		})
	})
	events.OnMouseRelease(func(b gpucontext.MouseButton, x, y float64) {
		p.handle(gen, func(in *pendingInput, scale float32) {
			in.pos = imui.Vec2{X: float32(x) * scale, Y: float32(y) * scale}
			in.hasPos = true
			if i, ok := buttonIndex(b); ok {
				in.down[i] = false
			}
		})
	})
	events.OnScroll(func(dx, dy float64) {
		p.handle(gen, func(in *pendingInput, _ float32) {
			// Positive dy scrolls down; the UI wheel is positive up.
			in.wheel -= float32(dy)
			in.wheelH += float32(dx)
		})
	})
	events.OnTextInput(func(text string) {
		p.handle(gen, func(in *pendingInput, _ float32) {
			in.text = append(in.text, []rune(text)...)
		})
	})
	events.OnIMECompositionEnd(func(text string) {
		p.handle(gen, func(in *pendingInput, _ float32) {
			in.text = append(in.text, []rune(text)...)
		})
	})
	events.OnFocus(func(focused bool) {
		p.handle(gen, func(in *pendingInput, _ float32) {
			in.focused = focused
			if !focused {
				in.down = [imui.MouseButtonCount]bool{}
			}
		})
	})
}

func (p *Platform) handle(gen uint64, fn func(in *pendingInput, scale float32)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active || p.gen != gen {
		return
	}
	scale := float32(p.cfg.Window.ScaleFactor())
	if scale <= 0 {
		scale = 1
	}
	fn(&p.input, scale)
}

func buttonIndex(b gpucontext.MouseButton) (int, bool) {
	switch b {
	case gpucontext.MouseButtonLeft:
		return 0, true
	case gpucontext.MouseButtonRight:
		return 1, true
	case gpucontext.MouseButtonMiddle:
		return 2, true
	case gpucontext.MouseButton4:
		return 3, true
	case gpucontext.MouseButton5:
		return 4, true
	default:
		return 0, false
	}
}

// NewFrame prepares IO for a frame on an output of width x height pixels:
// display size, delta time, queued input and the OS cursor.
func (p *Platform) NewFrame(width, height int32) {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return
	}
	ctx := p.ctx
	in := p.input
	in.text = append([]rune(nil), p.input.text...)
	p.input.clicked = [imui.MouseButtonCount]bool{}
	p.input.wheel, p.input.wheelH = 0, 0
	p.input.text = p.input.text[:0]

	now := p.now()
	dt := float32(1.0 / 60.0)
	if !p.lastFrame.IsZero() {
		if d := float32(now.Sub(p.lastFrame).Seconds()); d > 0 {
			dt = d
		}
	}
	p.lastFrame = now
	p.mu.Unlock()

	io := &ctx.IO
	io.DisplaySize = imui.Vec2{X: float32(width), Y: float32(height)}
	io.DisplayFramebufferScale = imui.Vec2{X: 1, Y: 1}
	io.DeltaTime = dt
	io.AppFocusLost = !in.focused

	if io.ConfigFlags&imui.ConfigFlagsNoMouse == 0 {
		if in.hasPos {
			io.MousePos = in.pos
		}
		for i := range io.MouseDown {
			io.MouseDown[i] = in.down[i] || in.clicked[i]
		}
		io.MouseWheel += in.wheel
		io.MouseWheelH += in.wheelH
	}
	io.InputQueueCharacters = append(io.InputQueueCharacters, in.text...)

	p.updateCursor(io)
}

func (p *Platform) updateCursor(io *imui.IO) {
	if io.ConfigFlags&(imui.ConfigFlagsNoMouseCursorChange|imui.ConfigFlagsNoMouse) != 0 {
		return
	}
	p.mu.Lock()
	changed := io.MouseCursor != p.lastCursor
	p.lastCursor = io.MouseCursor
	provider := p.cfg.Platform
	p.mu.Unlock()
	if changed {
		provider.SetCursor(cursorShape(io.MouseCursor))
	}
}

func cursorShape(c imui.MouseCursor) gpucontext.CursorShape {
	switch c {
	case imui.MouseCursorNone:
		return gpucontext.CursorNone
	case imui.MouseCursorTextInput:
		return gpucontext.CursorText
	case imui.MouseCursorResizeAll:
		return gpucontext.CursorMove
	case imui.MouseCursorResizeNS:
		return gpucontext.CursorResizeNS
	case imui.MouseCursorResizeEW:
		return gpucontext.CursorResizeEW
	case imui.MouseCursorResizeNESW:
		return gpucontext.CursorResizeNESW
	case imui.MouseCursorResizeNWSE:
		return gpucontext.CursorResizeNWSE
	case imui.MouseCursorHand:
		return gpucontext.CursorPointer
	case imui.MouseCursorNotAllowed:
		return gpucontext.CursorNotAllowed
	default:
		return gpucontext.CursorDefault
	}
}

// Shutdown detaches the backend. Callbacks registered by Init are ignored
// from now on. Shutdown of an uninitialized backend does nothing.
func (p *Platform) Shutdown() {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return
	}
	ctx := p.ctx
	p.gen++
	p.active = false
	p.ctx = nil
	p.window = 0
	p.cfg = PlatformConfig{}
	p.input = pendingInput{}
	p.mu.Unlock()

	ctx.IO.BackendPlatformName = ""
	slogger().Debug("platform backend shut down")
}
