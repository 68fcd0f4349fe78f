package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fundly/internal/worker"
)

func TestPool_RunsEveryJob(t *testing.T) {
	p := worker.NewPool(4, 100)

	var ran atomic.Int64

	for range 50 {
		require.NoError(t, p.Submit(func(context.Context) { ran.Add(1) }))
	}

	require.NoError(t, p.Stop(context.Background()))
	assert.Equal(t, int64(50), ran.Load())
}

func TestPool_QueueFull(t *testing.T) {
	p := worker.NewPool(1, 1)

	started := make(chan struct{})
	release := make(chan struct{})

	require.NoError(t, p.Submit(func(context.Context) {
		close(started)
		<-release
	}))
	<-started

	require.NoError(t, p.Submit(func(context.Context) {}))
	assert.ErrorIs(t, p.Submit(func(context.Context) {}), worker.ErrQueueFull)

	close(release)
	require.NoError(t, p.Stop(context.Background()))
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := worker.NewPool(1, 1)
	require.NoError(t, p.Stop(context.Background()))

	assert.ErrorIs(t, p.Submit(func(context.Context) {}), worker.ErrStopped)
	assert.NoError(t, p.Stop(context.Background()))
}

func TestPool_PanicDoesNotKillWorker(t *testing.T) {
	p := worker.NewPool(1, 2)

	done := make(chan struct{})

	require.NoError(t, p.Submit(func(context.Context) { panic("boom") }))
	require.NoError(t, p.Submit(func(context.Context) { close(done) }))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("second job never ran")
	}

	require.NoError(t, p.Stop(context.Background()))
}

func TestPool_StopDeadlineCancelsJobs(t *testing.T) {
	p := worker.NewPool(1, 1)

	started := make(chan struct{})

	require.NoError(t, p.Submit(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, p.Stop(ctx), context.DeadlineExceeded)
}
