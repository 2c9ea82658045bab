// Package noop implements package d3d12 in memory.
//
// Objects keep real reference counts, record every command list call and can
// be told to fail specific calls, so overlay code can be exercised without a
// GPU. Nothing is drawn.
//
//	dev := noop.NewDevice()
//	sc := noop.NewSwapChain(dev, d3d12.SwapChainDesc{Width: 1920, Height: 1080, BufferCount: 3})
//	q := dev.NewCommandQueue()
//	dev.Faults().Fail(noop.OpCreateCommandList, 2)
package noop

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrInjected is wrapped by every error produced by a fault set with Faults.Fail.
var ErrInjected = errors.New("noop: injected fault")

// ErrInvalidCall is returned for calls D3D12 would reject (reset of a list
// that is still recording, write past the end of a buffer).
var ErrInvalidCall = errors.New("noop: invalid call")

// Op names a fallible call that faults can be injected into.
type Op string

// Fallible calls.
const (
	OpGetDevice              Op = "SwapChain.GetDevice"
	OpGetDesc                Op = "SwapChain.GetDesc"
	OpGetBuffer              Op = "SwapChain.GetBuffer"
	OpCreateDescriptorHeap   Op = "Device.CreateDescriptorHeap"
	OpCreateCommandAllocator Op = "Device.CreateCommandAllocator"
	OpCreateCommandList      Op = "Device.CreateCommandList"
	OpCreateRootSignature    Op = "Device.CreateRootSignature"
	OpCreatePipelineState    Op = "Device.CreateGraphicsPipelineState"
	OpCreateUploadBuffer     Op = "Device.CreateUploadBuffer"
	OpCreateTexture2D        Op = "Device.CreateTexture2D"
	OpCloseCommandList       Op = "GraphicsCommandList.Close"
	OpResetCommandList       Op = "GraphicsCommandList.Reset"
	OpResetCommandAllocator  Op = "CommandAllocator.Reset"
)

// Faults counts fallible calls and fails the ones it was told to.
// Faults is safe for concurrent use.
type Faults struct {
	mu    sync.Mutex
	calls map[Op]int
	fail  map[Op]int
}

func newFaults() *Faults {
	return &Faults{
		calls: make(map[Op]int),
		fail:  make(map[Op]int),
	}
}

// Fail makes the nth call (1-based, counted from now on) of op fail.
// n <= 0 fails every call until Clear.
func (f *Faults) Fail(op Op, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n > 0 {
		n += f.calls[op]
	}
	f.fail[op] = n
}

// Clear removes all injected faults. Call counts are kept.
func (f *Faults) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = make(map[Op]int)
}

// Calls returns how many times op was called.
func (f *Faults) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *Faults) check(op Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	n, ok := f.fail[op]
	if !ok {
		return nil
	}
	if n <= 0 || n == f.calls[op] {
		return fmt.Errorf("%w: %s (call %d)", ErrInjected, op, f.calls[op])
	}
	return nil
}

// object is an atomically reference-counted object. The creation reference
// is included, so a fresh object has a count of 1.
type object struct {
	kind      string
	refs      atomic.Int32
	destroyed func()
}

func (o *object) init(kind string) {
	o.kind = kind
	o.refs.Store(1)
}

// AddRef implements d3d12.Unknown.
func (o *object) AddRef() uint32 {
	return uint32(o.refs.Add(1))
}

// Release implements d3d12.Unknown. Releasing a destroyed object panics,
// since a real COM object would already be freed.
func (o *object) Release() uint32 {
	n := o.refs.Add(-1)
	if n < 0 {
		panic("noop: Release of destroyed " + o.kind)
	}
	if n == 0 && o.destroyed != nil {
		o.destroyed()
	}
	return uint32(n)
}

// RefCount returns the current reference count.
func (o *object) RefCount() int {
	return int(o.refs.Load())
}

// Kind returns the object type name, e.g. "DescriptorHeap".
func (o *object) Kind() string {
	return o.kind
}

// Alive reports whether the object still holds references.
func (o *object) Alive() bool {
	return o.refs.Load() > 0
}
