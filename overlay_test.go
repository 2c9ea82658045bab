package overlay

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/overlay/d3d12"
	"github.com/gogpu/overlay/d3d12/noop"
	"github.com/gogpu/overlay/imui"
)

const testWindow d3d12.Window = 0x1000

// harness is an overlay bound to an in-memory swapchain.
type harness struct {
	dev   *noop.Device
	sc    *noop.SwapChain
	queue *noop.CommandQueue
	ov    *D3D12
}

// newHarness creates an overlay for testWindow bound to a fresh swapchain
// described by desc. Fonts come from an empty directory and the locale is
// en-US unless opts say otherwise. Everything is released when the test
// ends, including the process UI context.
func newHarness(t *testing.T, desc d3d12.SwapChainDesc, opts ...Option) *harness {
	t.Helper()

	if desc.OutputWindow == 0 {
		desc.OutputWindow = testWindow
	}
	h := &harness{dev: noop.NewDevice()}
	h.sc = noop.NewSwapChain(h.dev, desc)
	h.queue = h.dev.NewCommandQueue()

	base := []Option{
		WithFontsDir(t.TempDir()),
		WithSystemLocale("en-US"),
		WithCloneWorkers(2),
	}
	h.ov = New(testWindow, append(base, opts...)...)
	h.ov.Bind(h.sc, h.queue)

	t.Cleanup(func() {
		h.ov.Close()
		imui.DestroyContext(nil)
		h.sc.Release()
		h.queue.Release()
		h.dev.Release()
	})
	return h
}

func swapChainDesc(width, height, buffers uint32) d3d12.SwapChainDesc {
	return d3d12.SwapChainDesc{Width: width, Height: height, BufferCount: buffers}
}

// initialize calls Initialize and fails the test on error.
func (h *harness) initialize(t *testing.T) {
	t.Helper()
	if err := h.ov.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
}

// live counts live device objects of the given kind, or all of them for "".
func (h *harness) live(kind string) int {
	n := 0
	for _, k := range h.dev.LiveObjects() {
		if kind == "" || k == kind {
			n++
		}
	}
	return n
}

// submittedList returns the command list of the last submission.
func (h *harness) submittedList(t *testing.T) *noop.GraphicsCommandList {
	t.Helper()
	subs := h.queue.Submissions()
	if len(subs) == 0 {
		t.Fatal("nothing submitted")
	}
	last := subs[len(subs)-1]
	if len(last.Lists) != 1 {
		t.Fatalf("submission with %d lists, want 1", len(last.Lists))
	}
	return last.Lists[0].(*noop.GraphicsCommandList)
}

// assertReleased checks that the overlay holds no GPU object.
func (h *harness) assertReleased(t *testing.T) {
	t.Helper()
	if h.ov.Initialized() {
		t.Error("still initialized")
	}
	if n := h.ov.FrameContextCount(); n != 0 {
		t.Errorf("FrameContextCount = %d, want 0", n)
	}
	if live := h.dev.LiveObjects(); len(live) != 0 {
		t.Errorf("live objects = %v", live)
	}
	// One reference for the test, one for the swapchain.
	if n := h.dev.RefCount(); n != 2 {
		t.Errorf("device refcount = %d, want 2", n)
	}
	if n := h.sc.RefCount(); n != 1 {
		t.Errorf("swapchain refcount = %d, want 1", n)
	}
	if n := h.queue.RefCount(); n != 1 {
		t.Errorf("queue refcount = %d, want 1", n)
	}
	for i, b := range h.sc.BackBuffers() {
		if n := b.RefCount(); n != 1 {
			t.Errorf("back buffer %d refcount = %d, want 1", i, n)
		}
	}
	if w, ht := h.ov.OutputSize(); w != 0 || ht != 0 {
		t.Errorf("OutputSize = %dx%d, want 0x0", w, ht)
	}
}

// fontsDir creates a fonts directory holding the named files, each a copy
// of Go Regular.
func fontsDir(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), goregular.TTF, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// rectDrawer fills a rectangle in the "hud" list.
func rectDrawer() Drawer {
	return DrawerFunc(func(ctx *imui.Context) {
		ctx.DrawList("hud").AddRectFilled(imui.Vec2{X: 10, Y: 10}, imui.Vec2{X: 110, Y: 60}, imui.RGBA(255, 0, 0, 255))
	})
}

func indexCount(l *noop.GraphicsCommandList) uint32 {
	var n uint32
	for _, d := range l.Draws() {
		n += d.IndexCount
	}
	return n
}

func hasCommand(l *noop.GraphicsCommandList, name string) bool {
	return slices.Contains(l.CommandNames(), name)
}
