package noop

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/overlay/d3d12"
)

var (
	_ d3d12.SwapChain           = (*SwapChain)(nil)
	_ d3d12.GraphicsCommandList = (*GraphicsCommandList)(nil)
	_ d3d12.CommandAllocator    = (*CommandAllocator)(nil)
	_ d3d12.DescriptorHeap      = (*DescriptorHeap)(nil)
	_ d3d12.Buffer              = (*Buffer)(nil)
)

// BackBuffer is a swapchain-owned texture.
type BackBuffer struct {
	object
	Index uint32
}

// SwapChain is an in-memory d3d12.SwapChain.
type SwapChain struct {
	object
	dev     *Device
	desc    d3d12.SwapChainDesc
	buffers []*BackBuffer

	mu      sync.Mutex
	current uint32
}

// NewSwapChain creates a swapchain on dev holding one reference for the
// caller. The swapchain takes its own reference on dev and owns its back
// buffers; both are released when the swapchain is destroyed.
// A zero Format defaults to RGBA8Unorm.
func NewSwapChain(dev *Device, desc d3d12.SwapChainDesc) *SwapChain {
	if desc.Format == gputypes.TextureFormatUndefined {
		desc.Format = gputypes.TextureFormatRGBA8Unorm
	}
	sc := &SwapChain{dev: dev, desc: desc}
	sc.init("SwapChain")
	dev.AddRef()
	for i := uint32(0); i < desc.BufferCount; i++ {
		b := &BackBuffer{Index: i}
		b.init("BackBuffer")
		sc.buffers = append(sc.buffers, b)
	}
	sc.destroyed = func() {
		for _, b := range sc.buffers {
			b.Release()
		}
		dev.Release()
	}
	return sc
}

// Device implements d3d12.SwapChain.
func (sc *SwapChain) Device() (d3d12.Device, error) {
	if err := sc.dev.faults.check(OpGetDevice); err != nil {
		return nil, err
	}
	sc.dev.AddRef()
	return sc.dev, nil
}

// Desc implements d3d12.SwapChain.
func (sc *SwapChain) Desc() (d3d12.SwapChainDesc, error) {
	if err := sc.dev.faults.check(OpGetDesc); err != nil {
		return d3d12.SwapChainDesc{}, err
	}
	return sc.desc, nil
}

// Buffer implements d3d12.SwapChain.
func (sc *SwapChain) Buffer(i uint32) (d3d12.Resource, error) {
	if err := sc.dev.faults.check(OpGetBuffer); err != nil {
		return nil, err
	}
	if int(i) >= len(sc.buffers) {
		return nil, fmt.Errorf("%w: back buffer %d of %d", ErrInvalidCall, i, len(sc.buffers))
	}
	b := sc.buffers[i]
	b.AddRef()
	return b, nil
}

// BackBuffers returns the swapchain's buffers for inspection.
func (sc *SwapChain) BackBuffers() []*BackBuffer {
	return sc.buffers
}

// CurrentBackBufferIndex implements d3d12.SwapChain.
func (sc *SwapChain) CurrentBackBufferIndex() uint32 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.current
}

// SetCurrentBackBufferIndex forces the index reported by CurrentBackBufferIndex.
func (sc *SwapChain) SetCurrentBackBufferIndex(i uint32) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.current = i
}

// Present advances to the next back buffer.
func (sc *SwapChain) Present() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if n := uint32(len(sc.buffers)); n > 0 {
		sc.current = (sc.current + 1) % n
	}
}
