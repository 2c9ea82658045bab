package overlay

import (
	"fmt"

	"github.com/gogpu/overlay/d3d12"
)

// Update records the newest UI snapshot into the current back buffer and
// submits it. Call it on the render thread for every present, before the
// host's Present.
//
// If no snapshot was published since the last call the previous one is
// drawn again. Nothing is submitted before the first snapshot or while the
// overlay is not initialized. GPU failures are returned wrapped in
// ErrFrameSubmission and are not retried.
func (d *D3D12) Update() error {
	if !d.initialized.Load() {
		return nil
	}

	d.uiMu.Lock()
	gen := d.gen
	err := d.renderer.NewFrame(d.queue)
	d.uiMu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: renderer new frame: %w", ErrFrameSubmission, err)
	}

	snap, ok := d.pipeline.Consume()
	if !ok || snap.dd == nil {
		return nil
	}
	if snap.gen != gen {
		slogger().Debug("overlay: snapshot from before the last reset dropped",
			"snapshot_gen", snap.gen, "gen", gen)
		return nil
	}

	idx := d.swapChain.CurrentBackBufferIndex()
	if int(idx) >= len(d.frames) {
		slogger().Debug("overlay: back buffer without frame context, frame skipped",
			"index", idx, "frame_contexts", len(d.frames))
		return nil
	}
	fc := &d.frames[idx]

	if err := fc.allocator.Reset(); err != nil {
		return fmt.Errorf("%w: reset allocator %d: %w", ErrFrameSubmission, idx, err)
	}
	list := fc.list
	if err := list.Reset(fc.allocator); err != nil {
		return fmt.Errorf("%w: reset command list %d: %w", ErrFrameSubmission, idx, err)
	}

	list.ResourceBarrier(d3d12.Transition(fc.backBuffer, d3d12.ResourceStatePresent, d3d12.ResourceStateRenderTarget))
	list.SetDescriptorHeaps(d.srvHeap)
	list.OMSetRenderTargets(fc.rtv)
	if err := d.renderer.RenderDrawData(snap.dd, list); err != nil {
		_ = list.Close()
		return fmt.Errorf("%w: render draw data: %w", ErrFrameSubmission, err)
	}
	list.ResourceBarrier(d3d12.Transition(fc.backBuffer, d3d12.ResourceStateRenderTarget, d3d12.ResourceStatePresent))

	if err := list.Close(); err != nil {
		return fmt.Errorf("%w: close command list %d: %w", ErrFrameSubmission, idx, err)
	}
	d.queue.ExecuteCommandLists(list)
	return nil
}
