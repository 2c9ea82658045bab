package overlay

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gogpu/overlay/d3d12"
	"github.com/gogpu/overlay/fonts"
	"github.com/gogpu/overlay/imui"
	"github.com/gogpu/overlay/imui/backend"
	"github.com/gogpu/overlay/internal/drawbuf"
	"github.com/gogpu/overlay/internal/parallel"
)

const (
	// MaxFrameContexts caps the frame contexts created for a swapchain,
	// whatever its buffer count.
	MaxFrameContexts = 3

	// SRVHeapCapacity is the size of the shader-visible descriptor heap.
	// Slot 0 holds the font texture; other texture users share the rest.
	SRVHeapCapacity = 200
)

// frameContext holds the objects recording the overlay into one back buffer.
type frameContext struct {
	allocator  d3d12.CommandAllocator
	list       d3d12.GraphicsCommandList
	backBuffer d3d12.Resource
	rtv        d3d12.CPUDescriptorHandle
}

func (fc *frameContext) release() {
	d3d12.Release(fc.list)
	d3d12.Release(fc.allocator)
	d3d12.Release(fc.backBuffer)
	*fc = frameContext{}
}

// D3D12 is a UI overlay attached to a host's D3D12 swapchain.
//
// See the package documentation for which goroutines may call which
// methods.
type D3D12 struct {
	opts   options
	locale string

	// Render thread state.
	swapChain d3d12.SwapChain
	queue     d3d12.CommandQueue
	device    d3d12.Device
	srvHeap   d3d12.DescriptorHeap
	rtvHeap   d3d12.DescriptorHeap
	frames    []frameContext

	initialized atomic.Bool

	// uiMu guards the UI context, the font atlas, the output size and the
	// backends' frame setup. It is never held across command submission.
	uiMu      sync.Mutex
	window    d3d12.Window
	width     int32
	height    int32
	ctx       *imui.Context
	platform  *backend.Platform
	renderer  *backend.Renderer
	reference imui.Style
	fontPlan  fonts.Plan
	drawers   []Drawer

	// gen counts resets; snapshots built before the last reset are stale.
	gen uint64

	pipeline drawbuf.Buffer[snapshot]
	clone    *parallel.WorkerPool

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func()
}

// New creates an overlay for the host window. The window may be zero and
// set later with SetWindow; Initialize fails until it is known.
func New(window d3d12.Window, opts ...Option) *D3D12 {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	d := &D3D12{
		opts:      o,
		locale:    o.resolveLocale(),
		window:    window,
		platform:  backend.NewPlatform(),
		renderer:  backend.NewRenderer(),
		reference: referenceStyle(),
		drawers:   append([]Drawer(nil), o.drawers...),
		clone:     parallel.NewWorkerPool(o.cloneWorkers),
		subs:      make(map[int]func()),
	}
	return d
}

// Bind attaches the overlay to the host's swapchain and command queue,
// taking a reference on each. A previous binding is released; if the
// overlay was initialized against different objects it is reset first.
func (d *D3D12) Bind(sc d3d12.SwapChain, q d3d12.CommandQueue) {
	if sc != nil {
		sc.AddRef()
	}
	if q != nil {
		q.AddRef()
	}
	if d.initialized.Load() && (sc != d.swapChain || q != d.queue) {
		d.ResetState(false)
	}
	d3d12.Release(d.swapChain)
	d3d12.Release(d.queue)
	d.swapChain, d.queue = sc, q
}

// SetWindow sets the window handle used for input.
func (d *D3D12) SetWindow(w d3d12.Window) {
	d.uiMu.Lock()
	defer d.uiMu.Unlock()
	d.window = w
}

// Window returns the window handle used for input.
func (d *D3D12) Window() d3d12.Window {
	d.uiMu.Lock()
	defer d.uiMu.Unlock()
	return d.window
}

// Initialize creates the GPU objects for the bound swapchain and brings up
// the UI backends. It returns nil at once if the overlay is initialized.
//
// Missing preconditions return ErrNoSwapChain, ErrNoCommandQueue or
// ErrNoWindow and change nothing. Any other failure releases every object,
// including the binding, and returns the cause wrapped in one of the
// creation errors.
func (d *D3D12) Initialize() error {
	if d.initialized.Load() {
		return nil
	}
	if d.swapChain == nil {
		slogger().Warn("overlay: initialize without a swapchain")
		return ErrNoSwapChain
	}
	if d.queue == nil {
		slogger().Warn("overlay: initialize without a command queue")
		return ErrNoCommandQueue
	}
	window := d.Window()
	if window == 0 {
		slogger().Warn("overlay: initialize without a window handle")
		return ErrNoWindow
	}

	if err := d.createResources(window); err != nil {
		slogger().Error("overlay: initialization failed", "err", err)
		d.ResetState(false)
		return err
	}

	d.pipeline.Reset()
	d.initialized.Store(true)

	w, h := d.OutputSize()
	slogger().Info("overlay: initialized",
		"width", w, "height", h, "frame_contexts", len(d.frames))
	d.emitInitialized()
	return nil
}

func (d *D3D12) createResources(window d3d12.Window) error {
	dev, err := d.swapChain.Device()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGetDevice, err)
	}
	d.device = dev

	desc, err := d.swapChain.Desc()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSwapChainDesc, err)
	}
	if desc.OutputWindow != window {
		slogger().Warn("overlay: input window differs from the swapchain output window",
			"window", uintptr(window), "output_window", uintptr(desc.OutputWindow))
	}
	count := min(int(desc.BufferCount), MaxFrameContexts)
	if count < 1 {
		return fmt.Errorf("%w: swapchain has no back buffers", ErrSwapChainDesc)
	}

	d.uiMu.Lock()
	d.width, d.height = int32(desc.Width), int32(desc.Height)
	d.uiMu.Unlock()

	d.srvHeap, err = dev.CreateDescriptorHeap(d3d12.DescriptorHeapDesc{
		Type:           d3d12.DescriptorHeapTypeCBVSRVUAV,
		NumDescriptors: SRVHeapCapacity,
		Flags:          d3d12.DescriptorHeapFlagShaderVisible,
	})
	if err != nil {
		return fmt.Errorf("%w: srv: %w", ErrDescriptorHeap, err)
	}
	d.rtvHeap, err = dev.CreateDescriptorHeap(d3d12.DescriptorHeapDesc{
		Type:           d3d12.DescriptorHeapTypeRTV,
		NumDescriptors: uint32(count),
		Flags:          d3d12.DescriptorHeapFlagNone,
		NodeMask:       1,
	})
	if err != nil {
		return fmt.Errorf("%w: rtv: %w", ErrDescriptorHeap, err)
	}

	stride := dev.DescriptorHandleIncrementSize(d3d12.DescriptorHeapTypeRTV)
	start := d.rtvHeap.CPUDescriptorHandleForHeapStart()
	d.frames = make([]frameContext, count)
	for i := range d.frames {
		fc := &d.frames[i]
		fc.rtv = start.Offset(i, stride)

		buf, err := d.swapChain.Buffer(uint32(i))
		if err != nil {
			return fmt.Errorf("%w %d: %w", ErrBackBuffer, i, err)
		}
		fc.backBuffer = buf
		dev.CreateRenderTargetView(buf, fc.rtv)

		fc.allocator, err = dev.CreateCommandAllocator(d3d12.CommandListTypeDirect)
		if err != nil {
			return fmt.Errorf("%w %d: %w", ErrCommandAllocator, i, err)
		}
		fc.list, err = dev.CreateCommandList(d3d12.CommandListTypeDirect, fc.allocator)
		if err != nil {
			return fmt.Errorf("%w %d: %w", ErrCommandList, i, err)
		}
		if err := fc.list.Close(); err != nil {
			return fmt.Errorf("%w %d: close: %w", ErrCommandList, i, err)
		}
	}

	if err := d.InitializeImGui(count); err != nil {
		return fmt.Errorf("%w: %w", ErrBackendInit, err)
	}
	return nil
}

// ResetState tears the overlay down. If it was initialized, queued frames
// are dropped, the UI backends are shut down and, when destroyContext is
// set, the process UI context is destroyed. Frame contexts, heaps, the
// device and the binding are always released.
//
// ResetState always returns false, so failing call sites can return it.
// Calling it again, or before Initialize, does nothing harmful.
func (d *D3D12) ResetState(destroyContext bool) bool {
	d.uiMu.Lock()
	if d.initialized.Swap(false) {
		d.gen++
		d.pipeline.Reset()
		d.renderer.Shutdown()
		d.platform.Shutdown()
		if destroyContext {
			imui.DestroyContext(d.ctx)
		}
		slogger().Info("overlay: reset", "destroy_context", destroyContext)
	}
	d.ctx = nil
	d.width, d.height = 0, 0
	d.uiMu.Unlock()

	for i := range d.frames {
		d.frames[i].release()
	}
	d.frames = nil

	d3d12.Release(d.srvHeap)
	d3d12.Release(d.rtvHeap)
	d3d12.Release(d.device)
	d3d12.Release(d.queue)
	d3d12.Release(d.swapChain)
	d.srvHeap, d.rtvHeap, d.device = nil, nil, nil
	d.queue, d.swapChain = nil, nil
	return false
}

// Initialized reports whether Initialize succeeded since the last reset.
func (d *D3D12) Initialized() bool {
	return d.initialized.Load()
}

// OutputSize returns the swapchain size read by Initialize, or zeros.
func (d *D3D12) OutputSize() (width, height int32) {
	d.uiMu.Lock()
	defer d.uiMu.Unlock()
	return d.width, d.height
}

// FrameContextCount returns the number of frame contexts, at most
// MaxFrameContexts.
func (d *D3D12) FrameContextCount() int {
	return len(d.frames)
}

// Close resets the overlay, destroying the UI context, and stops the
// snapshot workers. The overlay cannot be used afterwards.
func (d *D3D12) Close() {
	d.ResetState(true)
	d.clone.Close()
}

// OnInitialized registers fn to run after every successful Initialize, on
// the goroutine that called it. The returned function unregisters fn.
func (d *D3D12) OnInitialized(fn func()) (cancel func()) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn
	return func() {
		d.subMu.Lock()
		defer d.subMu.Unlock()
		delete(d.subs, id)
	}
}

func (d *D3D12) emitInitialized() {
	d.subMu.Lock()
	ids := make([]int, 0, len(d.subs))
	for id := range d.subs {
		ids = append(ids, id)
	}
	fns := make([]func(), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, d.subs[id])
	}
	d.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
