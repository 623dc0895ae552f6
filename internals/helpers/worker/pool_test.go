package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_RunsSubmittedJobs(t *testing.T) {
	p := NewPool(3)
	p.Start(context.Background())

	var n int64
	for i := 0; i < 6; i++ {
		ok := p.Submit(func(context.Context) error {
			atomic.AddInt64(&n, 1)
			return nil
		})
		assert.True(t, ok)
	}
	p.Stop()
	assert.Equal(t, int64(6), atomic.LoadInt64(&n))
}

func TestPool_FailingJobDoesNotStopWorker(t *testing.T) {
	p := NewPool(1)
	p.Start(context.Background())

	var n int64
	p.Submit(func(context.Context) error { return errors.New("boom") })
	p.Submit(func(context.Context) error { atomic.AddInt64(&n, 1); return nil })
	p.Stop()
	assert.Equal(t, int64(1), atomic.LoadInt64(&n))
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := NewPool(1)
	p.Start(context.Background())
	p.Stop()
	p.Stop()
	assert.False(t, p.Submit(func(context.Context) error { return nil }))
}

func TestPool_FullQueueDrops(t *testing.T) {
	p := NewPool(1) // belum Start: buffer 2, tidak ada konsumen
	noop := func(context.Context) error { return nil }
	assert.True(t, p.Submit(noop))
	assert.True(t, p.Submit(noop))
	assert.False(t, p.Submit(noop))
}
