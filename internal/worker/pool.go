package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/MrJamesThe3rd/fundly/internal/metrics"
)

var (
	ErrQueueFull = errors.New("worker queue is full")
	ErrStopped   = errors.New("worker pool is stopped")
)

// Job is a unit of background work. ctx is cancelled when the pool stops.
type Job func(ctx context.Context)

// Pool runs jobs on a fixed number of goroutines fed by a bounded queue.
type Pool struct {
	wg     sync.WaitGroup
	jobs   chan Job
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	stopped bool
}

func NewPool(n, capacity int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{jobs: make(chan Job, capacity), ctx: ctx, cancel: cancel}

	for range n {
		p.wg.Add(1)

		go func() {
			defer p.wg.Done()

			for job := range p.jobs {
				metrics.WorkerQueueDepth.Set(float64(len(p.jobs)))
				p.run(job)
			}
		}()
	}

	return p
}

func (p *Pool) run(job Job) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("worker job panicked", "panic", r)
		}
	}()

	job(p.ctx)
}

// Submit enqueues job without blocking.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrStopped
	}

	select {
	case p.jobs <- job:
		metrics.WorkerQueueDepth.Set(float64(len(p.jobs)))
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop drains queued jobs and waits for them to finish. If ctx expires first,
// running jobs see their context cancelled.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})

	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done

		return ctx.Err()
	}
}
