package backend

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/overlay/imui"
)

// fakeEvents is an EventSource that keeps every registered callback so
// tests can fire them.
type fakeEvents struct {
	gpucontext.NullEventSource

	move    []func(x, y float64)
	press   []func(b gpucontext.MouseButton, x, y float64)
	release []func(b gpucontext.MouseButton, x, y float64)
	scroll  []func(dx, dy float64)
	text    []func(string)
	focus   []func(bool)
}

func (e *fakeEvents) OnMouseMove(fn func(x, y float64)) { e.move = append(e.move, fn) }
func (e *fakeEvents) OnMousePress(fn func(gpucontext.MouseButton, float64, float64)) {
	e.press = append(e.press, fn)
}
func (e *fakeEvents) OnMouseRelease(fn func(gpucontext.MouseButton, float64, float64)) {
	e.release = append(e.release, fn)
}
func (e *fakeEvents) OnScroll(fn func(dx, dy float64)) { e.scroll = append(e.scroll, fn) }
func (e *fakeEvents) OnTextInput(fn func(string))     { e.text = append(e.text, fn) }
func (e *fakeEvents) OnFocus(fn func(bool))            { e.focus = append(e.focus, fn) }

func (e *fakeEvents) fireMove(x, y float64) {
	for _, fn := range e.move {
		fn(x, y)
	}
}

func (e *fakeEvents) firePress(b gpucontext.MouseButton, x, y float64) {
	for _, fn := range e.press {
		fn(b, x, y)
	}
}

func (e *fakeEvents) fireRelease(b gpucontext.MouseButton, x, y float64) {
	for _, fn := range e.release {
		fn(b, x, y)
	}
}

func (e *fakeEvents) fireScroll(dx, dy float64) {
	for _, fn := range e.scroll {
		fn(dx, dy)
	}
}

func (e *fakeEvents) fireText(s string) {
	for _, fn := range e.text {
		fn(s)
	}
}

func (e *fakeEvents) fireFocus(f bool) {
	for _, fn := range e.focus {
		fn(f)
	}
}

// fakePlatform records cursor changes.
type fakePlatform struct {
	gpucontext.NullPlatformProvider
	cursors []gpucontext.CursorShape
}

func (p *fakePlatform) SetCursor(c gpucontext.CursorShape) { p.cursors = append(p.cursors, c) }

// newContext creates a UI context destroyed when the test ends.
func newContext(t *testing.T) *imui.Context {
	t.Helper()

	prev := imui.CurrentContext()
	ctx := imui.CreateContext()
	t.Cleanup(func() {
		imui.DestroyContext(ctx)
		imui.SetCurrentContext(prev)
	})
	return ctx
}

// fakeClock returns a clock advancing by step on every call.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Unix(1000, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestPlatformInitErrors(t *testing.T) {
	ctx := newContext(t)

	p := NewPlatform()
	if err := p.Init(nil, 1, PlatformConfig{}); !errors.Is(err, ErrNoContext) {
		t.Errorf("nil context: err = %v", err)
	}
	if err := p.Init(ctx, 0, PlatformConfig{}); !errors.Is(err, ErrNoWindow) {
		t.Errorf("zero window: err = %v", err)
	}
	if err := p.Init(ctx, 0x1234, PlatformConfig{}); err != nil {
		t.Fatal(err)
	}
	if err := p.Init(ctx, 0x1234, PlatformConfig{}); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second Init: err = %v", err)
	}
	if p.Window() != 0x1234 || ctx.IO.BackendPlatformName != PlatformName {
		t.Errorf("window %#x, name %q", p.Window(), ctx.IO.BackendPlatformName)
	}

	p.Shutdown()
	p.Shutdown()
	if p.Window() != 0 || ctx.IO.BackendPlatformName != "" {
		t.Error("Shutdown did not detach")
	}
	if err := p.Init(ctx, 0x1234, PlatformConfig{}); err != nil {
		t.Errorf("Init after Shutdown: %v", err)
	}
	p.Shutdown()
}

func TestPlatformNewFrame(t *testing.T) {
	ctx := newContext(t)
	p := NewPlatform()
	p.now = fakeClock(20 * time.Millisecond)
	if err := p.Init(ctx, 1, PlatformConfig{}); err != nil {
		t.Fatal(err)
	}
	defer p.Shutdown()

	p.NewFrame(2560, 1440)
	if ctx.IO.DisplaySize != (imui.Vec2{X: 2560, Y: 1440}) {
		t.Errorf("DisplaySize = %v", ctx.IO.DisplaySize)
	}
	if ctx.IO.DeltaTime != 1.0/60.0 {
		t.Errorf("first DeltaTime = %v", ctx.IO.DeltaTime)
	}

	p.NewFrame(1280, 720)
	if ctx.IO.DisplaySize != (imui.Vec2{X: 1280, Y: 720}) {
		t.Errorf("DisplaySize = %v", ctx.IO.DisplaySize)
	}
	if d := ctx.IO.DeltaTime; d < 0.0199 || d > 0.0201 {
		t.Errorf("DeltaTime = %v, want 0.02", d)
	}
}

func TestPlatformInput(t *testing.T) {
	ctx := newContext(t)
	events := &fakeEvents{}
	p := NewPlatform()
	cfg := PlatformConfig{
		Window: gpucontext.NullWindowProvider{W: 800, H: 600, SF: 2},
		Events: events,
	}
	if err := p.Init(ctx, 1, cfg); err != nil {
		t.Fatal(err)
	}
	defer p.Shutdown()

	events.fireMove(10, 20)
	events.firePress(gpucontext.MouseButtonLeft, 10, 20)
	events.fireRelease(gpucontext.MouseButtonLeft, 11, 21)
	events.firePress(gpucontext.MouseButtonRight, 11, 21)
	events.fireScroll(0.5, 1)
	events.fireText("hé")
	p.NewFrame(1600, 1200)

	io := &ctx.IO
	if io.MousePos != (imui.Vec2{X: 22, Y: 42}) {
		t.Errorf("MousePos = %v, want scaled (22, 42)", io.MousePos)
	}
	if !io.MouseDown[0] {
		t.Error("click released within the frame was lost")
	}
	if !io.MouseDown[1] {
		t.Error("right button not down")
	}
	if io.MouseWheel != -1 || io.MouseWheelH != 0.5 {
		t.Errorf("wheel = %v, %v", io.MouseWheel, io.MouseWheelH)
	}
	if string(io.InputQueueCharacters) != "hé" {
		t.Errorf("InputQueueCharacters = %q", string(io.InputQueueCharacters))
	}

	ctx.Render()
	p.NewFrame(1600, 1200)
	if io.MouseDown[0] || !io.MouseDown[1] {
		t.Errorf("MouseDown = %v, want only the right button", io.MouseDown)
	}
	if io.MouseWheel != 0 || len(io.InputQueueCharacters) != 0 {
		t.Error("per-frame input carried over")
	}

	events.fireFocus(false)
	p.NewFrame(1600, 1200)
	if !io.AppFocusLost || io.MouseDown[1] {
		t.Error("focus loss did not release buttons")
	}
}

func TestPlatformNoMouse(t *testing.T) {
	ctx := newContext(t)
	events := &fakeEvents{}
	p := NewPlatform()
	if err := p.Init(ctx, 1, PlatformConfig{Events: events}); err != nil {
		t.Fatal(err)
	}
	defer p.Shutdown()

	ctx.IO.ConfigFlags |= imui.ConfigFlagsNoMouse
	before := ctx.IO.MousePos
	events.firePress(gpucontext.MouseButtonLeft, 5, 5)
	p.NewFrame(100, 100)
	if ctx.IO.MouseDown[0] || ctx.IO.MousePos != before {
		t.Error("mouse input applied with ConfigFlagsNoMouse")
	}
}

func TestPlatformCursor(t *testing.T) {
	tests := []struct {
		name   string
		flags  imui.ConfigFlags
		frames []imui.MouseCursor
		want   []gpucontext.CursorShape
	}{
		{
			name:   "changes only",
			frames: []imui.MouseCursor{imui.MouseCursorArrow, imui.MouseCursorArrow, imui.MouseCursorTextInput, imui.MouseCursorHand},
			want:   []gpucontext.CursorShape{gpucontext.CursorDefault, gpucontext.CursorText, gpucontext.CursorPointer},
		},
		{
			name:   "hidden",
			frames: []imui.MouseCursor{imui.MouseCursorNone},
			want:   []gpucontext.CursorShape{gpucontext.CursorNone},
		},
		{
			name:   "no cursor change",
			flags:  imui.ConfigFlagsNoMouseCursorChange,
			frames: []imui.MouseCursor{imui.MouseCursorArrow, imui.MouseCursorResizeNS},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newContext(t)
			ctx.IO.ConfigFlags = tt.flags
			plat := &fakePlatform{}
			p := NewPlatform()
			if err := p.Init(ctx, 1, PlatformConfig{Platform: plat}); err != nil {
				t.Fatal(err)
			}
			defer p.Shutdown()

			for _, c := range tt.frames {
				ctx.IO.MouseCursor = c
				p.NewFrame(100, 100)
			}
			if len(plat.cursors) != len(tt.want) {
				t.Fatalf("SetCursor calls = %v, want %v", plat.cursors, tt.want)
			}
			for i := range tt.want {
				if plat.cursors[i] != tt.want[i] {
					t.Errorf("cursor[%d] = %v, want %v", i, plat.cursors[i], tt.want[i])
				}
			}
		})
	}
}

func TestPlatformShutdownIgnoresStaleCallbacks(t *testing.T) {
	ctx := newContext(t)
	events := &fakeEvents{}
	p := NewPlatform()
	if err := p.Init(ctx, 1, PlatformConfig{Events: events}); err != nil {
		t.Fatal(err)
	}
	p.Shutdown()
	if err := p.Init(ctx, 1, PlatformConfig{Events: &fakeEvents{}}); err != nil {
		t.Fatal(err)
	}
	defer p.Shutdown()

	// Callbacks of the first Init are still registered with events.
	events.fireText("stale")
	events.firePress(gpucontext.MouseButtonLeft, 1, 1)
	p.NewFrame(100, 100)
	if len(ctx.IO.InputQueueCharacters) != 0 || ctx.IO.MouseDown[0] {
		t.Error("input from a previous Init was applied")
	}
}
