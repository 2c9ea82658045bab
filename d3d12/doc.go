// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package d3d12 describes the Direct3D 12 objects the overlay attaches to.
//
// The overlay never creates a device or a swapchain. The host application
// owns both; an external hook layer hands the overlay the swapchain and the
// command queue it presents with. Everything the overlay creates on its own
// (descriptor heaps, command allocators, command lists, pipeline state,
// buffers, the font texture) is created through the Device derived from that
// swapchain.
//
// # Reference counting
//
// Objects follow COM reference counting. Creation functions and accessors
// that return an object (SwapChain.Device, SwapChain.Buffer, Device.Create*)
// hand the caller one reference, which the caller gives back with Release.
// AddRef takes an additional reference for objects the caller retains but
// did not create.
//
// The interfaces cover exactly the calls the overlay issues on the present
// path. Package noop provides an in-memory implementation for tests and
// headless runs.
//
// # Host binding
//
// This module does not contain a Windows implementation. The hook layer
// that intercepts the host's Present owns the COM objects and wraps their
// vtables in these interfaces before calling the overlay. That binding is
// also where shaders are compiled: Device.CreateGraphicsPipelineState
// receives HLSL text in ShaderSource and is expected to compile it (with
// D3DCompile or DXC) for the given Target before creating the pipeline.
package d3d12
