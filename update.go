package overlay

import (
	"fmt"

	"github.com/gogpu/overlay/imui"
)

// parallelCloneLists is the draw list count from which snapshots are copied
// on the worker pool.
const parallelCloneLists = 8

// snapshot is a published frame, tagged with the reset generation it was
// built in.
type snapshot struct {
	gen uint64
	dd  *imui.DrawData
}

// Drawer adds UI to a frame. Overlay widgets and script output implement
// it. Draw runs on the goroutine calling PrepareUpdate with the UI context
// locked; it must not call back into the overlay.
type Drawer interface {
	Draw(ctx *imui.Context)
}

// DrawerFunc adapts a function to Drawer.
type DrawerFunc func(ctx *imui.Context)

// Draw implements Drawer.
func (f DrawerFunc) Draw(ctx *imui.Context) { f(ctx) }

// AddDrawer appends dr to the drawers run by PrepareUpdate.
func (d *D3D12) AddDrawer(dr Drawer) {
	d.uiMu.Lock()
	defer d.uiMu.Unlock()
	d.drawers = append(d.drawers, dr)
}

// PrepareUpdate builds one UI frame and publishes a snapshot of it for the
// render thread. It does nothing until the overlay is initialized.
//
// The frame is built with the UI context locked. The snapshot is an
// independent copy, published after the lock is released.
func (d *D3D12) PrepareUpdate() error {
	if !d.initialized.Load() {
		return nil
	}

	d.uiMu.Lock()
	if !d.initialized.Load() || d.ctx == nil {
		d.uiMu.Unlock()
		return nil
	}
	ctx := d.ctx
	d.platform.NewFrame(d.width, d.height)
	if err := ctx.NewFrame(); err != nil {
		d.uiMu.Unlock()
		return fmt.Errorf("overlay: new frame: %w", err)
	}
	for _, dr := range d.drawers {
		dr.Draw(ctx)
	}
	ctx.Render()
	snap := snapshot{gen: d.gen, dd: ctx.DrawData().CloneWith(d.cloneLists)}
	d.uiMu.Unlock()

	d.pipeline.Publish(snap)
	return nil
}

// cloneLists fills dst with copies of src, on the worker pool when there
// are enough lists to be worth it.
func (d *D3D12) cloneLists(src, dst []*imui.DrawList) {
	if len(src) < parallelCloneLists {
		for i, l := range src {
			dst[i] = l.CloneOutput()
		}
		return
	}
	work := make([]func(), len(src))
	for i, l := range src {
		work[i] = func() { dst[i] = l.CloneOutput() }
	}
	d.clone.ExecuteAll(work)
}
