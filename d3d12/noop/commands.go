package noop

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/overlay/d3d12"
)

// CommandAllocator is an in-memory d3d12.CommandAllocator.
type CommandAllocator struct {
	object
	faults *Faults
	typ    d3d12.CommandListType

	mu     sync.Mutex
	resets int
}

// Reset implements d3d12.CommandAllocator.
func (a *CommandAllocator) Reset() error {
	if err := a.faults.check(OpResetCommandAllocator); err != nil {
		return err
	}
	a.mu.Lock()
	a.resets++
	a.mu.Unlock()
	return nil
}

// Resets returns how many times the allocator was reset.
func (a *CommandAllocator) Resets() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.resets
}

// Command is one recorded command list call.
type Command struct {
	Name string
	Args []any
}

// DrawIndexed is a recorded DrawIndexedInstanced call together with the
// state bound when it was issued.
type DrawIndexed struct {
	IndexCount  uint32
	StartIndex  uint32
	BaseVertex  int32
	Scissor     d3d12.Rect
	Texture     d3d12.GPUDescriptorHandle
	VertexBuf   d3d12.Buffer
	IndexBuf    d3d12.Buffer
	IndexFormat gputypes.IndexFormat
}

// GraphicsCommandList is an in-memory d3d12.GraphicsCommandList. It keeps
// the commands of the current recording until the next Reset.
type GraphicsCommandList struct {
	object
	faults *Faults
	typ    d3d12.CommandListType

	mu        sync.Mutex
	recording bool
	allocator d3d12.CommandAllocator
	commands  []Command
	barriers  []d3d12.ResourceBarrier
	draws     []DrawIndexed

	scissor d3d12.Rect
	texture d3d12.GPUDescriptorHandle
	vb, ib  d3d12.Buffer
	ibFmt   gputypes.IndexFormat
}

// Reset implements d3d12.GraphicsCommandList.
func (l *GraphicsCommandList) Reset(allocator d3d12.CommandAllocator) error {
	if err := l.faults.check(OpResetCommandList); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.recording {
		return fmt.Errorf("%w: reset of a command list that is still recording", ErrInvalidCall)
	}
	if allocator == nil {
		return fmt.Errorf("%w: nil command allocator", ErrInvalidCall)
	}
	l.recording = true
	l.allocator = allocator
	l.commands = nil
	l.barriers = nil
	l.draws = nil
	l.scissor = d3d12.Rect{}
	l.texture = d3d12.GPUDescriptorHandle{}
	l.vb, l.ib = nil, nil
	return nil
}

// Close implements d3d12.GraphicsCommandList.
func (l *GraphicsCommandList) Close() error {
	if err := l.faults.check(OpCloseCommandList); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.recording {
		return fmt.Errorf("%w: close of a closed command list", ErrInvalidCall)
	}
	l.recording = false
	return nil
}

// Recording reports whether the list is open for recording.
func (l *GraphicsCommandList) Recording() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recording
}

// Commands returns the calls of the current recording.
func (l *GraphicsCommandList) Commands() []Command {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Command(nil), l.commands...)
}

// CommandNames returns the names of the calls of the current recording.
func (l *GraphicsCommandList) CommandNames() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, len(l.commands))
	for i, c := range l.commands {
		names[i] = c.Name
	}
	return names
}

// Barriers returns the barriers of the current recording in order.
func (l *GraphicsCommandList) Barriers() []d3d12.ResourceBarrier {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]d3d12.ResourceBarrier(nil), l.barriers...)
}

// Draws returns the indexed draws of the current recording.
func (l *GraphicsCommandList) Draws() []DrawIndexed {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]DrawIndexed(nil), l.draws...)
}

func (l *GraphicsCommandList) record(name string, args ...any) {
	if !l.recording {
		panic("noop: " + name + " on a closed command list")
	}
	l.commands = append(l.commands, Command{Name: name, Args: args})
}

// ResourceBarrier implements d3d12.GraphicsCommandList.
func (l *GraphicsCommandList) ResourceBarrier(barriers ...d3d12.ResourceBarrier) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("ResourceBarrier", len(barriers))
	l.barriers = append(l.barriers, barriers...)
}

// SetDescriptorHeaps implements d3d12.GraphicsCommandList.
func (l *GraphicsCommandList) SetDescriptorHeaps(heaps ...d3d12.DescriptorHeap) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("SetDescriptorHeaps", len(heaps))
}

// OMSetRenderTargets implements d3d12.GraphicsCommandList.
func (l *GraphicsCommandList) OMSetRenderTargets(rtvs ...d3d12.CPUDescriptorHandle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	args := make([]any, len(rtvs))
	for i, h := range rtvs {
		args[i] = h
	}
	l.record("OMSetRenderTargets", args...)
}

// OMSetBlendFactor implements d3d12.GraphicsCommandList.
func (l *GraphicsCommandList) OMSetBlendFactor(factor [4]float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("OMSetBlendFactor", factor)
}

// RSSetViewports implements d3d12.GraphicsCommandList.
func (l *GraphicsCommandList) RSSetViewports(viewports ...d3d12.Viewport) {
	l.mu.Lock()
	defer l.mu.Unlock()
	args := make([]any, len(viewports))
	for i, v := range viewports {
		args[i] = v
	}
	l.record("RSSetViewports", args...)
}

// RSSetScissorRects implements d3d12.GraphicsCommandList.
func (l *GraphicsCommandList) RSSetScissorRects(rects ...d3d12.Rect) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("RSSetScissorRects", len(rects))
	if len(rects) > 0 {
		l.scissor = rects[0]
	}
}

// IASetVertexBuffer implements d3d12.GraphicsCommandList.
func (l *GraphicsCommandList) IASetVertexBuffer(buf d3d12.Buffer, stride uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("IASetVertexBuffer", stride)
	l.vb = buf
}

// IASetIndexBuffer implements d3d12.GraphicsCommandList.
func (l *GraphicsCommandList) IASetIndexBuffer(buf d3d12.Buffer, format gputypes.IndexFormat) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("IASetIndexBuffer", format)
	l.ib = buf
	l.ibFmt = format
}

// SetPipelineState implements d3d12.GraphicsCommandList.
func (l *GraphicsCommandList) SetPipelineState(ps d3d12.PipelineState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("SetPipelineState")
}

// SetGraphicsRootSignature implements d3d12.GraphicsCommandList.
func (l *GraphicsCommandList) SetGraphicsRootSignature(rs d3d12.RootSignature) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("SetGraphicsRootSignature")
}

// SetGraphicsRoot32BitConstants implements d3d12.GraphicsCommandList.
func (l *GraphicsCommandList) SetGraphicsRoot32BitConstants(rootIndex uint32, values []float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("SetGraphicsRoot32BitConstants", rootIndex, append([]float32(nil), values...))
}

// SetGraphicsRootDescriptorTable implements d3d12.GraphicsCommandList.
func (l *GraphicsCommandList) SetGraphicsRootDescriptorTable(rootIndex uint32, base d3d12.GPUDescriptorHandle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("SetGraphicsRootDescriptorTable", rootIndex, base)
	l.texture = base
}

// DrawIndexedInstanced implements d3d12.GraphicsCommandList.
func (l *GraphicsCommandList) DrawIndexedInstanced(indexCount, instanceCount, startIndex uint32, baseVertex int32, startInstance uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("DrawIndexedInstanced", indexCount, instanceCount, startIndex, baseVertex, startInstance)
	l.draws = append(l.draws, DrawIndexed{
		IndexCount:  indexCount,
		StartIndex:  startIndex,
		BaseVertex:  baseVertex,
		Scissor:     l.scissor,
		Texture:     l.texture,
		VertexBuf:   l.vb,
		IndexBuf:    l.ib,
		IndexFormat: l.ibFmt,
	})
}

// Submission is one ExecuteCommandLists call.
type Submission struct {
	Lists []d3d12.GraphicsCommandList

	// Commands holds the recorded command names of each list at submit time.
	Commands [][]string
}

// CommandQueue is an in-memory d3d12.CommandQueue.
type CommandQueue struct {
	object

	mu          sync.Mutex
	submissions []Submission
}

var _ d3d12.CommandQueue = (*CommandQueue)(nil)

// ExecuteCommandLists implements d3d12.CommandQueue. Submitting a list that
// is still recording panics, as it is a D3D12 validation error.
func (q *CommandQueue) ExecuteCommandLists(lists ...d3d12.GraphicsCommandList) {
	s := Submission{Lists: append([]d3d12.GraphicsCommandList(nil), lists...)}
	for _, l := range lists {
		if nl, ok := l.(*GraphicsCommandList); ok {
			if nl.Recording() {
				panic("noop: ExecuteCommandLists with a list that is still recording")
			}
			s.Commands = append(s.Commands, nl.CommandNames())
		}
	}
	q.mu.Lock()
	q.submissions = append(q.submissions, s)
	q.mu.Unlock()
}

// Submissions returns every ExecuteCommandLists call so far.
func (q *CommandQueue) Submissions() []Submission {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Submission(nil), q.submissions...)
}
