// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d12

import "github.com/gogpu/gputypes"

// Window is a native window handle (HWND on Windows).
// The zero value means no window.
type Window uintptr

// SwapChainDesc is the subset of DXGI_SWAP_CHAIN_DESC the overlay reads.
type SwapChainDesc struct {
	// Width and Height are the back buffer dimensions in pixels.
	Width  uint32
	Height uint32

	// Format is the back buffer pixel format.
	Format gputypes.TextureFormat

	// BufferCount is the number of back buffers in the swapchain.
	BufferCount uint32

	// OutputWindow is the window the swapchain presents to.
	OutputWindow Window
}

// DescriptorHeapType selects what kind of descriptors a heap stores.
type DescriptorHeapType uint32

const (
	// DescriptorHeapTypeCBVSRVUAV stores constant buffer, shader resource
	// and unordered access views.
	DescriptorHeapTypeCBVSRVUAV DescriptorHeapType = iota

	// DescriptorHeapTypeSampler stores samplers.
	DescriptorHeapTypeSampler

	// DescriptorHeapTypeRTV stores render target views.
	DescriptorHeapTypeRTV

	// DescriptorHeapTypeDSV stores depth stencil views.
	DescriptorHeapTypeDSV
)

// String returns the D3D12 name of the heap type.
func (t DescriptorHeapType) String() string {
	switch t {
	case DescriptorHeapTypeCBVSRVUAV:
		return "CBV_SRV_UAV"
	case DescriptorHeapTypeSampler:
		return "SAMPLER"
	case DescriptorHeapTypeRTV:
		return "RTV"
	case DescriptorHeapTypeDSV:
		return "DSV"
	default:
		return "UNKNOWN"
	}
}

// DescriptorHeapFlags modify descriptor heap creation.
type DescriptorHeapFlags uint32

const (
	// DescriptorHeapFlagNone creates a CPU-only heap.
	DescriptorHeapFlagNone DescriptorHeapFlags = 0

	// DescriptorHeapFlagShaderVisible makes the heap bindable on a command list.
	DescriptorHeapFlagShaderVisible DescriptorHeapFlags = 1
)

// DescriptorHeapDesc describes a descriptor heap.
type DescriptorHeapDesc struct {
	Type           DescriptorHeapType
	NumDescriptors uint32
	Flags          DescriptorHeapFlags
	NodeMask       uint32
}

// CPUDescriptorHandle addresses a descriptor in CPU address space.
type CPUDescriptorHandle struct {
	Ptr uintptr
}

// Offset returns the handle advanced by n descriptors of the given stride.
func (h CPUDescriptorHandle) Offset(n int, stride uint32) CPUDescriptorHandle {
	return CPUDescriptorHandle{Ptr: h.Ptr + uintptr(n)*uintptr(stride)}
}

// GPUDescriptorHandle addresses a descriptor in GPU address space.
// Only handles from shader-visible heaps are meaningful.
type GPUDescriptorHandle struct {
	Ptr uint64
}

// Offset returns the handle advanced by n descriptors of the given stride.
func (h GPUDescriptorHandle) Offset(n int, stride uint32) GPUDescriptorHandle {
	return GPUDescriptorHandle{Ptr: h.Ptr + uint64(n)*uint64(stride)}
}

// CommandListType is the kind of command list and queue.
type CommandListType uint32

const (
	// CommandListTypeDirect is a graphics command list.
	CommandListTypeDirect CommandListType = iota

	// CommandListTypeBundle is a bundle.
	CommandListTypeBundle

	// CommandListTypeCompute is a compute command list.
	CommandListTypeCompute

	// CommandListTypeCopy is a copy command list.
	CommandListTypeCopy
)

// ResourceStates is a resource usage state for transition barriers.
type ResourceStates uint32

const (
	// ResourceStateCommon is also the state swapchain buffers are presented in.
	ResourceStateCommon ResourceStates = 0

	// ResourceStateRenderTarget is the state for rendering into a resource.
	ResourceStateRenderTarget ResourceStates = 0x4

	// ResourceStatePixelShaderResource is the state for sampling in a pixel shader.
	ResourceStatePixelShaderResource ResourceStates = 0x80

	// ResourceStateCopyDest is the state for copy destinations.
	ResourceStateCopyDest ResourceStates = 0x400

	// ResourceStatePresent is the state back buffers must be in at Present.
	ResourceStatePresent = ResourceStateCommon
)

// String returns the D3D12 name of the state.
func (s ResourceStates) String() string {
	switch s {
	case ResourceStatePresent:
		return "PRESENT"
	case ResourceStateRenderTarget:
		return "RENDER_TARGET"
	case ResourceStatePixelShaderResource:
		return "PIXEL_SHADER_RESOURCE"
	case ResourceStateCopyDest:
		return "COPY_DEST"
	default:
		return "UNKNOWN"
	}
}

// BarrierAllSubresources transitions every subresource of a resource.
const BarrierAllSubresources = 0xffffffff

// ResourceBarrier is a transition barrier.
type ResourceBarrier struct {
	Resource    Resource
	Subresource uint32
	Before      ResourceStates
	After       ResourceStates
}

// Transition returns a barrier moving every subresource of r from before to after.
func Transition(r Resource, before, after ResourceStates) ResourceBarrier {
	return ResourceBarrier{
		Resource:    r,
		Subresource: BarrierAllSubresources,
		Before:      before,
		After:       after,
	}
}

// Viewport is a D3D12_VIEWPORT.
type Viewport struct {
	TopLeftX float32
	TopLeftY float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}

// Rect is a D3D12_RECT, used for scissor rectangles.
type Rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// TextureDesc describes a 2D texture created by the overlay.
type TextureDesc struct {
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
}

// InputElement describes one vertex attribute.
type InputElement struct {
	SemanticName string
	Format       gputypes.VertexFormat
	Offset       uint32
}

// RootSignatureDesc describes the root signature used by the UI pipeline:
// a block of 32-bit root constants (vertex stage), one SRV descriptor table
// (pixel stage) and one static linear sampler.
type RootSignatureDesc struct {
	// NumConstants is the number of 32-bit root constants at root index 0.
	NumConstants uint32

	// NumSRVs is the size of the SRV descriptor table at root index 1.
	NumSRVs uint32

	// StaticSampler adds a linear-filter wrap sampler at s0.
	StaticSampler bool
}

// ShaderSource is HLSL source plus the entry point to compile.
type ShaderSource struct {
	HLSL       string
	EntryPoint string
	Target     string
}

// PipelineStateDesc describes a graphics pipeline state object.
type PipelineStateDesc struct {
	RootSignature RootSignature
	VS            ShaderSource
	PS            ShaderSource
	InputLayout   []InputElement
	RTVFormat     gputypes.TextureFormat

	// AlphaBlend enables src-alpha / inv-src-alpha blending on target 0.
	AlphaBlend bool

	// CullNone disables back-face culling.
	CullNone bool

	// DepthDisabled disables the depth test.
	DepthDisabled bool
}
