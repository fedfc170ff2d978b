package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRetriesFailedJobs(t *testing.T) {
	var calls int32
	done := make(chan struct{})
	q := NewQueue("risk", func(ctx context.Context, job Job) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 3, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "job-1", Type: "risk.evaluate"}))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried to success")
	}
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestQueueCoalescesPendingKeys(t *testing.T) {
	block := make(chan struct{})
	q := NewQueue("risk", func(ctx context.Context, job Job) error {
		<-block
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 2})
	q.Start(context.Background())
	defer func() {
		close(block)
		q.Stop()
	}()

	// first job is picked up by the worker and blocks it
	require.NoError(t, q.Enqueue(Job{ID: "busy"}))
	require.Eventually(t, func() bool { return q.Len() == 0 }, time.Second, time.Millisecond)

	require.NoError(t, q.Enqueue(Job{ID: "a", Key: "tenant:school-a"}))
	require.NoError(t, q.Enqueue(Job{ID: "b", Key: "tenant:school-a"}))
	assert.Equal(t, 1, q.Len())

	require.NoError(t, q.Enqueue(Job{ID: "c", Key: "tenant:school-b"}))
	err := q.Enqueue(Job{ID: "d", Key: "tenant:school-c"})
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestQueueRejectsBeforeStart(t *testing.T) {
	q := NewQueue("risk", func(context.Context, Job) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(Job{ID: "x"}))
}
