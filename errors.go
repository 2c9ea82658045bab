package overlay

import "errors"

// Precondition errors. Initialize returns them without side effects.
var (
	// ErrNoSwapChain is returned by Initialize before Bind was called.
	ErrNoSwapChain = errors.New("overlay: no swapchain bound")

	// ErrNoCommandQueue is returned by Initialize when the binding has no
	// command queue.
	ErrNoCommandQueue = errors.New("overlay: no command queue bound")

	// ErrNoWindow is returned by Initialize while no window handle is known.
	ErrNoWindow = errors.New("overlay: no window handle")

	// ErrNotInitialized is returned by operations that need the UI context.
	ErrNotInitialized = errors.New("overlay: not initialized")
)

// Creation errors. Initialize rolls back every object before returning
// them wrapped around the cause.
var (
	ErrGetDevice        = errors.New("overlay: get device from swapchain")
	ErrSwapChainDesc    = errors.New("overlay: read swapchain description")
	ErrBackBuffer       = errors.New("overlay: get back buffer")
	ErrDescriptorHeap   = errors.New("overlay: create descriptor heap")
	ErrCommandAllocator = errors.New("overlay: create command allocator")
	ErrCommandList      = errors.New("overlay: create command list")
	ErrBackendInit      = errors.New("overlay: initialize UI backends")
)

// ErrFrameSubmission wraps GPU failures while recording or submitting a
// frame. They are not retried; the host is expected to reset.
var ErrFrameSubmission = errors.New("overlay: frame submission")
