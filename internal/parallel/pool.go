package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// idleTimeout is how long an idle worker of the underlying pool lingers.
const idleTimeout = time.Second

// WorkerPool runs batches of independent work items on a dynamic worker
// pool and waits for each batch to finish.
//
// Thread safety: WorkerPool is safe for concurrent use. Batches submitted
// from different goroutines share the workers.
type WorkerPool struct {
	workers int
	pool    worker.DynamicWorkerPool

	// mu is held shared while a batch is in flight and exclusively by Close,
	// so Close never strands a batch waiting on stopped workers.
	mu      sync.RWMutex
	running atomic.Bool
}

// NewWorkerPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	// Queue room for a few items per worker keeps SubmitTask from blocking
	// on typical batch sizes.
	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		pool:    worker.NewDynamicWorkerPool(workers, queueSize, idleTimeout),
	}
	p.running.Store(true)
	return p
}

// ExecuteAll runs every item of work and returns when all have finished.
// Items run concurrently and in no particular order. On a closed pool the
// items run on the calling goroutine.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.running.Load() {
		for _, fn := range work {
			fn()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))
	for i, fn := range work {
		p.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				fn()
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// Close stops the workers. Batches already in flight complete first.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running.CompareAndSwap(true, false) {
		return
	}
	p.pool.Stop()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still dispatches to its workers.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
