package backend

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/overlay/d3d12"
	"github.com/gogpu/overlay/imui"
)

// RendererName is reported in IO.BackendRendererName.
const RendererName = "overlay_renderer_dx12"

// Upload buffers grow with this much headroom over the frame's needs.
const (
	vertexHeadroom = 5000
	indexHeadroom  = 10000
)

// Root parameter indices of the UI root signature.
const (
	rootProjection = 0
	rootTexture    = 1
)

// frameResources are the upload buffers of one in-flight frame.
type frameResources struct {
	vb, ib       d3d12.Buffer
	vbLen, ibLen int // capacity in vertices and indices
}

func (f *frameResources) release() {
	d3d12.Release(f.vb)
	d3d12.Release(f.ib)
	*f = frameResources{}
}

// Renderer is the DX12 renderer backend. It owns the UI pipeline, the font
// texture and per-frame upload buffers, and records draw data into a command
// list the caller submits.
//
// Renderer is not safe for concurrent use.
type Renderer struct {
	ctx       *imui.Context
	device    d3d12.Device
	format    gputypes.TextureFormat
	srvHeap   d3d12.DescriptorHeap
	fontCPU   d3d12.CPUDescriptorHandle
	fontGPU   d3d12.GPUDescriptorHandle
	numFrames int

	rootSig  d3d12.RootSignature
	pipeline d3d12.PipelineState
	fontTex  d3d12.Resource

	frames     []frameResources
	frameIndex int
	fontsDirty atomic.Bool

	vtxScratch []byte
	idxScratch []byte
}

// NewRenderer returns an uninitialized renderer backend.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Init attaches the renderer to ctx and device. numFrames upload buffer
// sets are cycled through. The font texture SRV is written at fontCPU and
// bound through fontGPU, both slots of srvHeap. No GPU objects are created
// until CreateDeviceObjects.
func (r *Renderer) Init(ctx *imui.Context, device d3d12.Device, numFrames int, format gputypes.TextureFormat,
	srvHeap d3d12.DescriptorHeap, fontCPU d3d12.CPUDescriptorHandle, fontGPU d3d12.GPUDescriptorHandle,
) error {
	if ctx == nil {
		return ErrNoContext
	}
	if device == nil {
		return ErrNoDevice
	}
	if r.device != nil {
		return ErrAlreadyInitialized
	}
	if numFrames < 1 {
		return fmt.Errorf("backend: invalid frame count %d", numFrames)
	}
	r.ctx = ctx
	r.device = device
	r.numFrames = numFrames
	r.format = format
	r.srvHeap = srvHeap
	r.fontCPU = fontCPU
	r.fontGPU = fontGPU
	r.frames = make([]frameResources, numFrames)
	r.frameIndex = 0

	ctx.IO.BackendRendererName = RendererName
	slogger().Debug("renderer backend initialized", "frames", numFrames, "format", format)
	return nil
}

// HasDeviceObjects reports whether the pipeline and font texture exist.
func (r *Renderer) HasDeviceObjects() bool {
	return r.pipeline != nil
}

// CreateDeviceObjects creates the root signature, the pipeline state and the
// font texture, uploading the atlas through queue. Existing objects are
// released first. On failure nothing is left behind.
func (r *Renderer) CreateDeviceObjects(queue d3d12.CommandQueue) error {
	if r.device == nil {
		return ErrNotInitialized
	}
	r.InvalidateDeviceObjects()

	prog, err := uiShader()
	if err != nil {
		return err
	}

	rootSig, err := r.device.CreateRootSignature(d3d12.RootSignatureDesc{
		NumConstants:  16,
		NumSRVs:       1,
		StaticSampler: true,
	})
	if err != nil {
		return fmt.Errorf("backend: create root signature: %w", err)
	}

	pipeline, err := r.device.CreateGraphicsPipelineState(d3d12.PipelineStateDesc{
		RootSignature: rootSig,
		VS:            d3d12.ShaderSource{HLSL: prog.HLSL, EntryPoint: prog.VSEntry, Target: vertexTarget},
		PS:            d3d12.ShaderSource{HLSL: prog.HLSL, EntryPoint: prog.PSEntry, Target: pixelTarget},
		InputLayout: []d3d12.InputElement{
			{SemanticName: "POSITION", Format: gputypes.VertexFormatFloat32x2, Offset: 0},
			{SemanticName: "TEXCOORD", Format: gputypes.VertexFormatFloat32x2, Offset: 8},
			{SemanticName: "COLOR", Format: gputypes.VertexFormatUnorm8x4, Offset: 16},
		},
		RTVFormat:     r.format,
		AlphaBlend:    true,
		CullNone:      true,
		DepthDisabled: true,
	})
	if err != nil {
		rootSig.Release()
		return fmt.Errorf("backend: create pipeline state: %w", err)
	}

	fontTex, err := r.createFontTexture(queue)
	if err != nil {
		pipeline.Release()
		rootSig.Release()
		return err
	}

	r.rootSig = rootSig
	r.pipeline = pipeline
	r.fontTex = fontTex
	return nil
}

func (r *Renderer) createFontTexture(queue d3d12.CommandQueue) (d3d12.Resource, error) {
	atlas := r.ctx.IO.Fonts
	pixels, w, h, err := atlas.TexDataAsRGBA32()
	if err != nil {
		return nil, fmt.Errorf("backend: build font atlas: %w", err)
	}
	tex, err := r.device.CreateTexture2D(queue, d3d12.TextureDesc{
		Width:  uint32(w),
		Height: uint32(h),
		Format: gputypes.TextureFormatRGBA8Unorm,
	}, pixels)
	if err != nil {
		return nil, fmt.Errorf("backend: create font texture: %w", err)
	}
	r.device.CreateShaderResourceView(tex, r.fontCPU)
	atlas.SetTexID(imui.TextureID(r.fontGPU.Ptr))

	slogger().Debug("font texture uploaded", "width", w, "height", h)
	return tex, nil
}

// InvalidateDeviceObjects releases the pipeline, the font texture and the
// upload buffers. The next NewFrame recreates them. The font TexID is kept
// since the texture is always bound through the same descriptor.
func (r *Renderer) InvalidateDeviceObjects() {
	d3d12.Release(r.pipeline)
	d3d12.Release(r.rootSig)
	d3d12.Release(r.fontTex)
	r.pipeline, r.rootSig, r.fontTex = nil, nil, nil
	for i := range r.frames {
		r.frames[i].release()
	}
}

// InvalidateFontTexture asks the next NewFrame to rebuild the device
// objects from the current atlas. It may be called from any goroutine.
func (r *Renderer) InvalidateFontTexture() {
	r.fontsDirty.Store(true)
}

// NewFrame recreates device objects if they were invalidated or the font
// texture is out of date.
func (r *Renderer) NewFrame(queue d3d12.CommandQueue) error {
	if r.device == nil {
		return ErrNotInitialized
	}
	if r.fontsDirty.Swap(false) || r.pipeline == nil {
		if err := r.CreateDeviceObjects(queue); err != nil {
			return err
		}
	}
	return nil
}

// RenderDrawData records dd into list, which must be open for recording
// with the render target and descriptor heap already bound. Nothing is
// recorded for an empty or zero-sized frame.
func (r *Renderer) RenderDrawData(dd *imui.DrawData, list d3d12.GraphicsCommandList) error {
	if r.device == nil {
		return ErrNotInitialized
	}
	if dd == nil || !dd.Valid || dd.DisplaySize.X <= 0 || dd.DisplaySize.Y <= 0 {
		return nil
	}
	if dd.TotalVtxCount == 0 || r.pipeline == nil {
		return nil
	}

	fr := &r.frames[r.frameIndex%r.numFrames]
	r.frameIndex++

	if err := r.ensureBuffers(fr, dd.TotalVtxCount, dd.TotalIdxCount); err != nil {
		return err
	}
	if err := r.upload(fr, dd); err != nil {
		return err
	}

	r.setupRenderState(dd, list, fr)

	fbW := dd.DisplaySize.X * dd.FramebufferScale.X
	fbH := dd.DisplaySize.Y * dd.FramebufferScale.Y
	clipOff := dd.DisplayPos
	clipScale := dd.FramebufferScale

	var vtxBase, idxBase uint32
	for _, cl := range dd.CmdLists {
		for _, cmd := range cl.CmdBuffer {
			if cmd.ElemCount == 0 {
				continue
			}
			minX := max((cmd.ClipRect.X-clipOff.X)*clipScale.X, 0)
			minY := max((cmd.ClipRect.Y-clipOff.Y)*clipScale.Y, 0)
			maxX := min((cmd.ClipRect.Z-clipOff.X)*clipScale.X, fbW)
			maxY := min((cmd.ClipRect.W-clipOff.Y)*clipScale.Y, fbH)
			if maxX <= minX || maxY <= minY {
				continue
			}
			list.RSSetScissorRects(d3d12.Rect{
				Left:   int32(minX),
				Top:    int32(minY),
				Right:  int32(maxX),
				Bottom: int32(maxY),
			})
			list.SetGraphicsRootDescriptorTable(rootTexture, d3d12.GPUDescriptorHandle{Ptr: uint64(cmd.TextureID)})
			list.DrawIndexedInstanced(cmd.ElemCount, 1, cmd.IdxOffset+idxBase, int32(cmd.VtxOffset+vtxBase), 0)
		}
		vtxBase += uint32(len(cl.VtxBuffer))
		idxBase += uint32(len(cl.IdxBuffer))
	}
	return nil
}

// ensureBuffers grows the frame's upload buffers to hold vtx vertices and
// idx indices.
func (r *Renderer) ensureBuffers(fr *frameResources, vtx, idx int) error {
	if fr.vb == nil || fr.vbLen < vtx {
		d3d12.Release(fr.vb)
		fr.vb, fr.vbLen = nil, 0
		n := vtx + vertexHeadroom
		vb, err := r.device.CreateUploadBuffer(n * imui.DrawVertSize)
		if err != nil {
			return fmt.Errorf("backend: create vertex buffer: %w", err)
		}
		fr.vb, fr.vbLen = vb, n
		slogger().Debug("vertex buffer grown", "vertices", n)
	}
	if fr.ib == nil || fr.ibLen < idx {
		d3d12.Release(fr.ib)
		fr.ib, fr.ibLen = nil, 0
		n := idx + indexHeadroom
		ib, err := r.device.CreateUploadBuffer(n * 2)
		if err != nil {
			return fmt.Errorf("backend: create index buffer: %w", err)
		}
		fr.ib, fr.ibLen = ib, n
		slogger().Debug("index buffer grown", "indices", n)
	}
	return nil
}

// upload writes every list's vertices and indices back to back.
func (r *Renderer) upload(fr *frameResources, dd *imui.DrawData) error {
	vtx := r.vtxScratch[:0]
	idx := r.idxScratch[:0]
	for _, cl := range dd.CmdLists {
		vtx = appendVertices(vtx, cl.VtxBuffer)
		for _, i := range cl.IdxBuffer {
			idx = binary.LittleEndian.AppendUint16(idx, i)
		}
	}
	r.vtxScratch, r.idxScratch = vtx, idx

	if err := fr.vb.Write(0, vtx); err != nil {
		return fmt.Errorf("backend: upload vertices: %w", err)
	}
	if err := fr.ib.Write(0, idx); err != nil {
		return fmt.Errorf("backend: upload indices: %w", err)
	}
	return nil
}

// appendVertices encodes vertices in the pipeline's input layout:
// float2 position, float2 uv, RGBA8 color.
func appendVertices(b []byte, verts []imui.DrawVert) []byte {
	le := binary.LittleEndian
	for _, v := range verts {
		b = le.AppendUint32(b, math.Float32bits(v.Pos.X))
		b = le.AppendUint32(b, math.Float32bits(v.Pos.Y))
		b = le.AppendUint32(b, math.Float32bits(v.UV.X))
		b = le.AppendUint32(b, math.Float32bits(v.UV.Y))
		b = le.AppendUint32(b, uint32(v.Col))
	}
	return b
}

func (r *Renderer) setupRenderState(dd *imui.DrawData, list d3d12.GraphicsCommandList, fr *frameResources) {
	list.RSSetViewports(d3d12.Viewport{
		Width:    dd.DisplaySize.X * dd.FramebufferScale.X,
		Height:   dd.DisplaySize.Y * dd.FramebufferScale.Y,
		MaxDepth: 1,
	})
	list.IASetVertexBuffer(fr.vb, imui.DrawVertSize)
	list.IASetIndexBuffer(fr.ib, gputypes.IndexFormatUint16)
	list.SetPipelineState(r.pipeline)
	list.SetGraphicsRootSignature(r.rootSig)
	proj := orthoProjection(dd.DisplayPos, dd.DisplaySize)
	list.SetGraphicsRoot32BitConstants(rootProjection, proj[:])
	list.OMSetBlendFactor([4]float32{})
}

// orthoProjection maps the display rectangle to clip space, y down.
// The matrix is column major.
func orthoProjection(pos, size imui.Vec2) [16]float32 {
	l, t := pos.X, pos.Y
	rt, b := pos.X+size.X, pos.Y+size.Y
	return [16]float32{
		2 / (rt - l), 0, 0, 0,
		0, 2 / (t - b), 0, 0,
		0, 0, 0.5, 0,
		(rt + l) / (l - rt), (t + b) / (b - t), 0.5, 1,
	}
}

// Shutdown releases every object and detaches from the context.
// Shutdown of an uninitialized renderer does nothing.
func (r *Renderer) Shutdown() {
	if r.device == nil {
		return
	}
	r.InvalidateDeviceObjects()
	r.ctx.IO.BackendRendererName = ""
	r.ctx, r.device, r.srvHeap = nil, nil, nil
	r.frames = nil
	r.frameIndex = 0
	r.fontsDirty.Store(false)
	slogger().Debug("renderer backend shut down")
}
