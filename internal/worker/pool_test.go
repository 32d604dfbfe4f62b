package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lute/internal/worker"
)

type countJob struct {
	n    *atomic.Int32
	fail bool
}

func (j countJob) Name() string { return "count" }

func (j countJob) Run(ctx context.Context) error {
	j.n.Add(1)
	if j.fail {
		return errors.New("boom")
	}
	return nil
}

type blockingJob struct {
	started chan struct{}
	release chan struct{}
}

func (j blockingJob) Name() string { return "block" }

func (j blockingJob) Run(ctx context.Context) error {
	close(j.started)
	<-j.release
	return nil
}

func TestPool_StopDrainsQueuedJobs(t *testing.T) {
	pool := worker.NewPool(2, 16)
	pool.Start(context.Background())

	var n atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, pool.Submit(countJob{n: &n, fail: i%3 == 0}))
	}
	pool.Stop()

	assert.Equal(t, int32(10), n.Load(), "failed jobs do not stop the pool")
}

func TestPool_TrySubmitWhenFull(t *testing.T) {
	pool := worker.NewPool(1, 1)
	pool.Start(context.Background())

	block := blockingJob{started: make(chan struct{}), release: make(chan struct{})}
	require.NoError(t, pool.Submit(block))
	<-block.started

	var n atomic.Int32
	require.NoError(t, pool.TrySubmit(countJob{n: &n}))
	assert.ErrorIs(t, pool.TrySubmit(countJob{n: &n}), worker.ErrQueueFull)
	assert.Equal(t, 1, pool.QueueSize())

	close(block.release)
	pool.Stop()
	assert.Equal(t, int32(1), n.Load())
}

func TestPool_StopIsIdempotent(t *testing.T) {
	pool := worker.NewPool(1, 1)
	pool.Start(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Stop()
		}()
	}
	wg.Wait()

	var n atomic.Int32
	assert.ErrorIs(t, pool.Submit(countJob{n: &n}), worker.ErrStopped)
	assert.ErrorIs(t, pool.TrySubmit(countJob{n: &n}), worker.ErrStopped)
}
