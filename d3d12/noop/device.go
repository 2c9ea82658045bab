package noop

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/overlay/d3d12"
)

// Descriptor strides reported by DescriptorHandleIncrementSize.
const (
	RTVDescriptorSize       = 32
	CBVSRVUAVDescriptorSize = 64
	SamplerDescriptorSize   = 32
	DSVDescriptorSize       = 32
)

// tracked is implemented by every object the device creates.
type tracked interface {
	Kind() string
	Alive() bool
	RefCount() int
}

// Device is an in-memory d3d12.Device.
type Device struct {
	object

	faults *Faults

	mu       sync.Mutex
	created  []tracked
	rtvs     map[uintptr]d3d12.Resource
	srvs     map[uintptr]d3d12.Resource
	nextCPU  uintptr
	nextGPU  uint64
	pipeline []d3d12.PipelineStateDesc
}

var _ d3d12.Device = (*Device)(nil)

// NewDevice creates a device holding one reference for the caller.
func NewDevice() *Device {
	d := &Device{
		faults:  newFaults(),
		rtvs:    make(map[uintptr]d3d12.Resource),
		srvs:    make(map[uintptr]d3d12.Resource),
		nextCPU: 0x1000,
		nextGPU: 0x100000,
	}
	d.init("Device")
	return d
}

// Faults returns the fault injector shared by the device, its swapchains and
// every object it created.
func (d *Device) Faults() *Faults {
	return d.faults
}

// LiveObjects returns the kinds of device-created objects that are still
// referenced. Swapchain back buffers are not device-created.
func (d *Device) LiveObjects() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var live []string
	for _, o := range d.created {
		if o.Alive() {
			live = append(live, o.Kind())
		}
	}
	return live
}

// RenderTargetView returns the resource an RTV was created for at h.
func (d *Device) RenderTargetView(h d3d12.CPUDescriptorHandle) (d3d12.Resource, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.rtvs[h.Ptr]
	return r, ok
}

// ShaderResourceView returns the resource an SRV was created for at h.
func (d *Device) ShaderResourceView(h d3d12.CPUDescriptorHandle) (d3d12.Resource, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.srvs[h.Ptr]
	return r, ok
}

// PipelineStates returns the descriptions of every pipeline state created.
func (d *Device) PipelineStates() []d3d12.PipelineStateDesc {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]d3d12.PipelineStateDesc(nil), d.pipeline...)
}

// NewCommandQueue creates a direct queue. Hosts create queues themselves, so
// this is not part of d3d12.Device.
func (d *Device) NewCommandQueue() *CommandQueue {
	q := &CommandQueue{}
	q.init("CommandQueue")
	return q
}

func (d *Device) track(o tracked) {
	d.mu.Lock()
	d.created = append(d.created, o)
	d.mu.Unlock()
}

// CreateDescriptorHeap implements d3d12.Device.
func (d *Device) CreateDescriptorHeap(desc d3d12.DescriptorHeapDesc) (d3d12.DescriptorHeap, error) {
	if err := d.faults.check(OpCreateDescriptorHeap); err != nil {
		return nil, err
	}
	if desc.NumDescriptors == 0 {
		return nil, fmt.Errorf("%w: descriptor heap with zero descriptors", ErrInvalidCall)
	}
	stride := d.DescriptorHandleIncrementSize(desc.Type)

	d.mu.Lock()
	h := &DescriptorHeap{desc: desc, cpu: d3d12.CPUDescriptorHandle{Ptr: d.nextCPU}}
	d.nextCPU += uintptr(desc.NumDescriptors)*uintptr(stride) + 0x1000
	if desc.Flags&d3d12.DescriptorHeapFlagShaderVisible != 0 {
		h.gpu = d3d12.GPUDescriptorHandle{Ptr: d.nextGPU}
		d.nextGPU += uint64(desc.NumDescriptors)*uint64(stride) + 0x1000
	}
	d.mu.Unlock()

	h.init("DescriptorHeap")
	d.track(h)
	return h, nil
}

// DescriptorHandleIncrementSize implements d3d12.Device.
func (d *Device) DescriptorHandleIncrementSize(t d3d12.DescriptorHeapType) uint32 {
	switch t {
	case d3d12.DescriptorHeapTypeRTV:
		return RTVDescriptorSize
	case d3d12.DescriptorHeapTypeCBVSRVUAV:
		return CBVSRVUAVDescriptorSize
	case d3d12.DescriptorHeapTypeSampler:
		return SamplerDescriptorSize
	default:
		return DSVDescriptorSize
	}
}

// CreateRenderTargetView implements d3d12.Device.
func (d *Device) CreateRenderTargetView(r d3d12.Resource, dest d3d12.CPUDescriptorHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rtvs[dest.Ptr] = r
}

// CreateShaderResourceView implements d3d12.Device.
func (d *Device) CreateShaderResourceView(r d3d12.Resource, dest d3d12.CPUDescriptorHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.srvs[dest.Ptr] = r
}

// CreateCommandAllocator implements d3d12.Device.
func (d *Device) CreateCommandAllocator(t d3d12.CommandListType) (d3d12.CommandAllocator, error) {
	if err := d.faults.check(OpCreateCommandAllocator); err != nil {
		return nil, err
	}
	a := &CommandAllocator{faults: d.faults, typ: t}
	a.init("CommandAllocator")
	d.track(a)
	return a, nil
}

// CreateCommandList implements d3d12.Device.
func (d *Device) CreateCommandList(t d3d12.CommandListType, allocator d3d12.CommandAllocator) (d3d12.GraphicsCommandList, error) {
	if err := d.faults.check(OpCreateCommandList); err != nil {
		return nil, err
	}
	if allocator == nil {
		return nil, fmt.Errorf("%w: nil command allocator", ErrInvalidCall)
	}
	l := &GraphicsCommandList{faults: d.faults, typ: t, recording: true, allocator: allocator}
	l.init("GraphicsCommandList")
	d.track(l)
	return l, nil
}

// CreateRootSignature implements d3d12.Device.
func (d *Device) CreateRootSignature(desc d3d12.RootSignatureDesc) (d3d12.RootSignature, error) {
	if err := d.faults.check(OpCreateRootSignature); err != nil {
		return nil, err
	}
	rs := &RootSignature{Desc: desc}
	rs.init("RootSignature")
	d.track(rs)
	return rs, nil
}

// CreateGraphicsPipelineState implements d3d12.Device. It checks that the
// entry points exist in the supplied HLSL, which is as far as a device
// without a shader compiler can validate.
func (d *Device) CreateGraphicsPipelineState(desc d3d12.PipelineStateDesc) (d3d12.PipelineState, error) {
	if err := d.faults.check(OpCreatePipelineState); err != nil {
		return nil, err
	}
	if desc.RootSignature == nil {
		return nil, fmt.Errorf("%w: pipeline without root signature", ErrInvalidCall)
	}
	for _, s := range []d3d12.ShaderSource{desc.VS, desc.PS} {
		if s.EntryPoint == "" || !strings.Contains(s.HLSL, s.EntryPoint) {
			return nil, fmt.Errorf("%w: entry point %q not found in shader source", ErrInvalidCall, s.EntryPoint)
		}
	}
	if desc.RTVFormat == gputypes.TextureFormatUndefined {
		return nil, fmt.Errorf("%w: undefined render target format", ErrInvalidCall)
	}
	ps := &PipelineState{Desc: desc}
	ps.init("PipelineState")
	d.track(ps)

	d.mu.Lock()
	d.pipeline = append(d.pipeline, desc)
	d.mu.Unlock()
	return ps, nil
}

// CreateUploadBuffer implements d3d12.Device.
func (d *Device) CreateUploadBuffer(size int) (d3d12.Buffer, error) {
	if err := d.faults.check(OpCreateUploadBuffer); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: buffer size %d", ErrInvalidCall, size)
	}
	b := &Buffer{data: make([]byte, size)}
	b.init("Buffer")
	d.track(b)
	return b, nil
}

// CreateTexture2D implements d3d12.Device.
func (d *Device) CreateTexture2D(queue d3d12.CommandQueue, desc d3d12.TextureDesc, pixels []byte) (d3d12.Resource, error) {
	if err := d.faults.check(OpCreateTexture2D); err != nil {
		return nil, err
	}
	if queue == nil {
		return nil, fmt.Errorf("%w: texture upload without a queue", ErrInvalidCall)
	}
	want := int(desc.Width) * int(desc.Height) * bytesPerPixel(desc.Format)
	if want == 0 || len(pixels) != want {
		return nil, fmt.Errorf("%w: texture %dx%d %v with %d bytes", ErrInvalidCall, desc.Width, desc.Height, desc.Format, len(pixels))
	}
	t := &Texture{Desc: desc, Pixels: append([]byte(nil), pixels...)}
	t.init("Texture")
	d.track(t)
	return t, nil
}

func bytesPerPixel(f gputypes.TextureFormat) int {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return 4
	default:
		return 0
	}
}

// DescriptorHeap is an in-memory d3d12.DescriptorHeap.
type DescriptorHeap struct {
	object
	desc d3d12.DescriptorHeapDesc
	cpu  d3d12.CPUDescriptorHandle
	gpu  d3d12.GPUDescriptorHandle
}

// Desc implements d3d12.DescriptorHeap.
func (h *DescriptorHeap) Desc() d3d12.DescriptorHeapDesc { return h.desc }

// CPUDescriptorHandleForHeapStart implements d3d12.DescriptorHeap.
func (h *DescriptorHeap) CPUDescriptorHandleForHeapStart() d3d12.CPUDescriptorHandle { return h.cpu }

// GPUDescriptorHandleForHeapStart implements d3d12.DescriptorHeap.
func (h *DescriptorHeap) GPUDescriptorHandleForHeapStart() d3d12.GPUDescriptorHandle { return h.gpu }

// RootSignature is an in-memory d3d12.RootSignature.
type RootSignature struct {
	object
	Desc d3d12.RootSignatureDesc
}

// PipelineState is an in-memory d3d12.PipelineState.
type PipelineState struct {
	object
	Desc d3d12.PipelineStateDesc
}

// Buffer is an in-memory d3d12.Buffer.
type Buffer struct {
	object
	mu   sync.Mutex
	data []byte
}

// Size implements d3d12.Buffer.
func (b *Buffer) Size() int { return len(b.data) }

// Write implements d3d12.Buffer.
func (b *Buffer) Write(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > len(b.data) {
		return fmt.Errorf("%w: write [%d, %d) into %d-byte buffer", ErrInvalidCall, offset, offset+len(data), len(b.data))
	}
	b.mu.Lock()
	copy(b.data[offset:], data)
	b.mu.Unlock()
	return nil
}

// Bytes returns a copy of the buffer contents.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.data...)
}

// Texture is an in-memory texture resource.
type Texture struct {
	object
	Desc   d3d12.TextureDesc
	Pixels []byte
}
