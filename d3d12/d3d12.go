// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d12

import "github.com/gogpu/gputypes"

// Unknown is the reference-counted base of every D3D12 object.
type Unknown interface {
	// AddRef takes an additional reference and returns the new count.
	AddRef() uint32

	// Release drops one reference and returns the remaining count.
	// The object is destroyed when the count reaches zero.
	Release() uint32
}

// Resource is a GPU resource (buffer or texture).
type Resource interface {
	Unknown
}

// Buffer is an upload-heap buffer the CPU can write into.
type Buffer interface {
	Resource

	// Size returns the buffer size in bytes.
	Size() int

	// Write copies data into the buffer at the given byte offset.
	Write(offset int, data []byte) error
}

// DescriptorHeap is a table of descriptors.
type DescriptorHeap interface {
	Unknown

	// Desc returns the description the heap was created with.
	Desc() DescriptorHeapDesc

	// CPUDescriptorHandleForHeapStart returns the CPU handle of slot 0.
	CPUDescriptorHandleForHeapStart() CPUDescriptorHandle

	// GPUDescriptorHandleForHeapStart returns the GPU handle of slot 0.
	// Only valid for shader-visible heaps.
	GPUDescriptorHandleForHeapStart() GPUDescriptorHandle
}

// CommandAllocator backs the memory of recorded command lists.
type CommandAllocator interface {
	Unknown

	// Reset reclaims the memory of all command lists recorded with the
	// allocator. The GPU must have finished executing them.
	Reset() error
}

// RootSignature is a compiled root signature.
type RootSignature interface {
	Unknown
}

// PipelineState is a compiled graphics pipeline state object.
type PipelineState interface {
	Unknown
}

// GraphicsCommandList records graphics commands.
type GraphicsCommandList interface {
	Unknown

	// Reset reopens a closed list for recording with the given allocator.
	Reset(allocator CommandAllocator) error

	// Close finishes recording.
	Close() error

	ResourceBarrier(barriers ...ResourceBarrier)
	SetDescriptorHeaps(heaps ...DescriptorHeap)
	OMSetRenderTargets(rtvs ...CPUDescriptorHandle)
	OMSetBlendFactor(factor [4]float32)
	RSSetViewports(viewports ...Viewport)
	RSSetScissorRects(rects ...Rect)
	IASetVertexBuffer(buf Buffer, stride uint32)
	IASetIndexBuffer(buf Buffer, format gputypes.IndexFormat)
	SetPipelineState(ps PipelineState)
	SetGraphicsRootSignature(rs RootSignature)
	SetGraphicsRoot32BitConstants(rootIndex uint32, values []float32)
	SetGraphicsRootDescriptorTable(rootIndex uint32, base GPUDescriptorHandle)
	DrawIndexedInstanced(indexCount, instanceCount, startIndex uint32, baseVertex int32, startInstance uint32)
}

// CommandQueue executes command lists.
type CommandQueue interface {
	Unknown

	// ExecuteCommandLists submits closed command lists in order.
	ExecuteCommandLists(lists ...GraphicsCommandList)
}

// Device creates GPU objects.
type Device interface {
	Unknown

	CreateDescriptorHeap(desc DescriptorHeapDesc) (DescriptorHeap, error)

	// DescriptorHandleIncrementSize returns the byte stride between two
	// descriptors of the given heap type.
	DescriptorHandleIncrementSize(t DescriptorHeapType) uint32

	CreateRenderTargetView(r Resource, dest CPUDescriptorHandle)
	CreateShaderResourceView(r Resource, dest CPUDescriptorHandle)
	CreateCommandAllocator(t CommandListType) (CommandAllocator, error)

	// CreateCommandList creates a command list in the recording state.
	CreateCommandList(t CommandListType, allocator CommandAllocator) (GraphicsCommandList, error)

	CreateRootSignature(desc RootSignatureDesc) (RootSignature, error)
	CreateGraphicsPipelineState(desc PipelineStateDesc) (PipelineState, error)

	// CreateUploadBuffer creates a CPU-writable buffer of size bytes.
	CreateUploadBuffer(size int) (Buffer, error)

	// CreateTexture2D creates a texture and uploads pixels through queue,
	// waiting for the copy to finish. The texture is left in the
	// PIXEL_SHADER_RESOURCE state.
	CreateTexture2D(queue CommandQueue, desc TextureDesc, pixels []byte) (Resource, error)
}

// SwapChain is the host's presentation swapchain.
type SwapChain interface {
	Unknown

	// Device returns the device the swapchain was created with.
	Device() (Device, error)

	Desc() (SwapChainDesc, error)

	// Buffer returns back buffer i.
	Buffer(i uint32) (Resource, error)

	// CurrentBackBufferIndex returns the index of the buffer the next
	// Present will show.
	CurrentBackBufferIndex() uint32
}

// Release releases u if it is non-nil. It returns the remaining count, or 0.
func Release(u Unknown) uint32 {
	if u == nil {
		return 0
	}
	return u.Release()
}
