package overlay

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/overlay/d3d12"
	"github.com/gogpu/overlay/d3d12/noop"
	"github.com/gogpu/overlay/imui"
	"github.com/gogpu/overlay/imui/backend"
)

func TestInitializeFrameContextClamp(t *testing.T) {
	tests := []struct {
		buffers uint32
		want    int
	}{
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 3},
		{8, 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d buffers", tt.buffers), func(t *testing.T) {
			h := newHarness(t, swapChainDesc(1920, 1080, tt.buffers))
			h.initialize(t)

			if got := h.ov.FrameContextCount(); got != tt.want {
				t.Fatalf("FrameContextCount = %d, want %d", got, tt.want)
			}
			for i, fc := range h.ov.frames {
				r, ok := h.dev.RenderTargetView(fc.rtv)
				if !ok || r != d3d12.Resource(h.sc.BackBuffers()[i]) {
					t.Errorf("frame %d: RTV does not target back buffer %d", i, i)
				}
				if i > 0 {
					if step := fc.rtv.Ptr - h.ov.frames[i-1].rtv.Ptr; step != noop.RTVDescriptorSize {
						t.Errorf("frame %d: RTV stride %d, want %d", i, step, noop.RTVDescriptorSize)
					}
				}
				if fc.list.(*noop.GraphicsCommandList).Recording() {
					t.Errorf("frame %d: command list left open", i)
				}
			}
			// Back buffers past the clamp are never referenced.
			for i, b := range h.sc.BackBuffers() {
				want := 2
				if i >= tt.want {
					want = 1
				}
				if n := b.RefCount(); n != want {
					t.Errorf("back buffer %d refcount = %d, want %d", i, n, want)
				}
			}
		})
	}
}

func TestInitializeHeaps(t *testing.T) {
	h := newHarness(t, swapChainDesc(1280, 720, 2))
	h.initialize(t)

	srv := h.ov.srvHeap.Desc()
	if srv.Type != d3d12.DescriptorHeapTypeCBVSRVUAV || srv.NumDescriptors != SRVHeapCapacity ||
		srv.Flags != d3d12.DescriptorHeapFlagShaderVisible {
		t.Errorf("SRV heap = %+v", srv)
	}
	rtv := h.ov.rtvHeap.Desc()
	if rtv.Type != d3d12.DescriptorHeapTypeRTV || rtv.NumDescriptors != 2 ||
		rtv.Flags != d3d12.DescriptorHeapFlagNone || rtv.NodeMask != 1 {
		t.Errorf("RTV heap = %+v", rtv)
	}
	if w, ht := h.ov.OutputSize(); w != 1280 || ht != 720 {
		t.Errorf("OutputSize = %dx%d", w, ht)
	}
	// Font texture in slot 0.
	tex, ok := h.dev.ShaderResourceView(h.ov.srvHeap.CPUDescriptorHandleForHeapStart())
	if !ok || tex == nil {
		t.Error("no font texture SRV in slot 0")
	}
}

func TestInitializePreconditions(t *testing.T) {
	t.Run("no swapchain", func(t *testing.T) {
		h := newHarness(t, swapChainDesc(800, 600, 2))
		h.ov.Bind(nil, nil)
		if err := h.ov.Initialize(); !errors.Is(err, ErrNoSwapChain) {
			t.Fatalf("err = %v, want ErrNoSwapChain", err)
		}
		h.assertReleased(t)
	})

	t.Run("no queue", func(t *testing.T) {
		h := newHarness(t, swapChainDesc(800, 600, 2))
		h.ov.Bind(h.sc, nil)
		if err := h.ov.Initialize(); !errors.Is(err, ErrNoCommandQueue) {
			t.Fatalf("err = %v, want ErrNoCommandQueue", err)
		}
		if n := h.sc.RefCount(); n != 2 {
			t.Errorf("binding dropped: swapchain refcount = %d", n)
		}
	})

	t.Run("no window", func(t *testing.T) {
		h := newHarness(t, swapChainDesc(800, 600, 2))
		h.ov.SetWindow(0)
		if err := h.ov.Initialize(); !errors.Is(err, ErrNoWindow) {
			t.Fatalf("err = %v, want ErrNoWindow", err)
		}
		if h.dev.Faults().Calls(noop.OpGetDevice) != 0 || len(h.dev.LiveObjects()) != 0 {
			t.Error("precondition failure had side effects")
		}
		if n := h.sc.RefCount(); n != 2 {
			t.Errorf("binding dropped: swapchain refcount = %d", n)
		}

		// The next attempt succeeds once the window is known.
		h.ov.SetWindow(testWindow)
		h.initialize(t)
	})
}

func TestInitializeRollback(t *testing.T) {
	tests := []struct {
		op   noop.Op
		n    int
		want error
	}{
		{noop.OpGetDevice, 1, ErrGetDevice},
		{noop.OpGetDesc, 1, ErrSwapChainDesc},
		{noop.OpCreateDescriptorHeap, 1, ErrDescriptorHeap},
		{noop.OpCreateDescriptorHeap, 2, ErrDescriptorHeap},
		{noop.OpGetBuffer, 1, ErrBackBuffer},
		{noop.OpGetBuffer, 3, ErrBackBuffer},
		{noop.OpCreateCommandAllocator, 2, ErrCommandAllocator},
		{noop.OpCreateCommandList, 1, ErrCommandList},
		{noop.OpCloseCommandList, 3, ErrCommandList},
		{noop.OpCreateRootSignature, 1, ErrBackendInit},
		{noop.OpCreatePipelineState, 1, ErrBackendInit},
		{noop.OpCreateTexture2D, 1, ErrBackendInit},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			h := newHarness(t, swapChainDesc(1920, 1080, 3))
			h.dev.Faults().Fail(tt.op, tt.n)

			err := h.ov.Initialize()
			if !errors.Is(err, tt.want) || !errors.Is(err, noop.ErrInjected) {
				t.Fatalf("err = %v, want %v wrapping the injected fault", err, tt.want)
			}
			h.assertReleased(t)

			ctx := imui.CurrentContext()
			if ctx != nil && (ctx.IO.BackendPlatformName != "" || ctx.IO.BackendRendererName != "") {
				t.Errorf("backends left attached: %q, %q", ctx.IO.BackendPlatformName, ctx.IO.BackendRendererName)
			}

			// A failed Initialize drops the binding; the host binds again.
			h.dev.Faults().Clear()
			if err := h.ov.Initialize(); !errors.Is(err, ErrNoSwapChain) {
				t.Fatalf("retry without Bind: err = %v", err)
			}
			h.ov.Bind(h.sc, h.queue)
			h.initialize(t)
		})
	}
}

func TestInitializeNoBackBuffers(t *testing.T) {
	h := newHarness(t, swapChainDesc(1920, 1080, 0))
	if err := h.ov.Initialize(); !errors.Is(err, ErrSwapChainDesc) {
		t.Fatalf("err = %v, want ErrSwapChainDesc", err)
	}
	h.assertReleased(t)
}

func TestInitializeTwice(t *testing.T) {
	h := newHarness(t, swapChainDesc(1920, 1080, 2))
	h.initialize(t)
	live := len(h.dev.LiveObjects())
	h.initialize(t)
	if n := len(h.dev.LiveObjects()); n != live {
		t.Errorf("second Initialize created objects: %d -> %d", live, n)
	}
}

func TestResetStateIdempotent(t *testing.T) {
	t.Run("never initialized", func(t *testing.T) {
		h := newHarness(t, swapChainDesc(1920, 1080, 2))
		for range 2 {
			if h.ov.ResetState(false) {
				t.Error("ResetState returned true")
			}
			if h.ov.Initialized() {
				t.Error("initialized after ResetState")
			}
		}
		h.assertReleased(t)
	})

	t.Run("initialized", func(t *testing.T) {
		h := newHarness(t, swapChainDesc(1920, 1080, 3))
		h.initialize(t)
		ctx := imui.CurrentContext()

		for range 2 {
			if h.ov.ResetState(false) {
				t.Error("ResetState returned true")
			}
		}
		h.assertReleased(t)
		if imui.CurrentContext() != ctx {
			t.Error("UI context destroyed without destroyContext")
		}
		if ctx.IO.BackendPlatformName != "" || ctx.IO.BackendRendererName != "" {
			t.Error("backends still attached")
		}
	})

	t.Run("destroy context", func(t *testing.T) {
		h := newHarness(t, swapChainDesc(1920, 1080, 3))
		h.initialize(t)
		h.ov.ResetState(true)
		if imui.CurrentContext() != nil {
			t.Error("UI context not destroyed")
		}
		h.assertReleased(t)
	})
}

func TestUIContextReused(t *testing.T) {
	existing := imui.CreateContext()
	imui.SetCurrentContext(existing)

	h := newHarness(t, swapChainDesc(1920, 1080, 2))
	h.initialize(t)
	if h.ov.ctx != existing {
		t.Fatal("Initialize replaced the current UI context")
	}
	if existing.IO.ConfigFlags&imui.ConfigFlagsNoMouseCursorChange == 0 {
		t.Error("cursor changes not disabled")
	}
	if existing.IO.BackendPlatformName != backend.PlatformName || existing.IO.BackendRendererName != backend.RendererName {
		t.Errorf("backend names = %q, %q", existing.IO.BackendPlatformName, existing.IO.BackendRendererName)
	}

	h.ov.ResetState(false)
	h.ov.Bind(h.sc, h.queue)
	h.initialize(t)
	if h.ov.ctx != existing || imui.CurrentContext() != existing {
		t.Error("re-initialization did not reuse the context")
	}
}

func TestBindReplacesBinding(t *testing.T) {
	h := newHarness(t, swapChainDesc(1920, 1080, 2))
	h.initialize(t)

	// Re-binding the same objects keeps the overlay initialized.
	h.ov.Bind(h.sc, h.queue)
	if !h.ov.Initialized() {
		t.Fatal("re-binding the same swapchain reset the overlay")
	}
	if n := h.sc.RefCount(); n != 2 {
		t.Errorf("swapchain refcount = %d, want 2", n)
	}

	other := noop.NewSwapChain(h.dev, swapChainDesc(800, 600, 2))
	defer other.Release()
	h.ov.Bind(other, h.queue)
	if h.ov.Initialized() {
		t.Error("binding another swapchain did not reset")
	}
	if n := h.sc.RefCount(); n != 1 {
		t.Errorf("old swapchain refcount = %d, want 1", n)
	}
	if n := other.RefCount(); n != 2 {
		t.Errorf("new swapchain refcount = %d, want 2", n)
	}
	h.initialize(t)
	if w, ht := h.ov.OutputSize(); w != 800 || ht != 600 {
		t.Errorf("OutputSize = %dx%d, want 800x600", w, ht)
	}
}

func TestOnInitialized(t *testing.T) {
	h := newHarness(t, swapChainDesc(1920, 1080, 2))
	var calls []string
	h.ov.OnInitialized(func() {
		if !h.ov.Initialized() {
			t.Error("event before the initialized flag")
		}
		calls = append(calls, "a")
	})
	cancel := h.ov.OnInitialized(func() { calls = append(calls, "b") })

	h.dev.Faults().Fail(noop.OpCreateCommandList, 1)
	_ = h.ov.Initialize()
	if len(calls) != 0 {
		t.Fatalf("event on failure: %v", calls)
	}

	h.dev.Faults().Clear()
	h.ov.Bind(h.sc, h.queue)
	h.initialize(t)
	h.initialize(t)
	if strings.Join(calls, "") != "ab" {
		t.Fatalf("calls = %v, want [a b]", calls)
	}

	cancel()
	h.ov.ResetState(false)
	h.ov.Bind(h.sc, h.queue)
	h.initialize(t)
	if strings.Join(calls, "") != "aba" {
		t.Errorf("calls = %v, want [a b a]", calls)
	}
}

func TestInitializeWindowMismatchWarns(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	desc := swapChainDesc(1920, 1080, 2)
	desc.OutputWindow = 0x2000
	h := newHarness(t, desc)
	h.initialize(t)

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "differs from the swapchain output window") {
		t.Errorf("missing mismatch warning in %q", out)
	}
	if !strings.Contains(out, "output_window=8192") {
		t.Errorf("warning lacks the output window: %q", out)
	}
}
