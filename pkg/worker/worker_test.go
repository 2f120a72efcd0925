package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerManager_ProcessesJobs(t *testing.T) {
	w := NewWorkerManager(10, 4)

	var sum int64
	var wg sync.WaitGroup
	w.SetWorker(func(_ int, job interface{}) {
		atomic.AddInt64(&sum, int64(job.(int)))
		wg.Done()
	})

	stopped := make(chan error, 1)
	go func() { stopped <- w.Start() }()

	ctx := context.Background()
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		require.NoError(t, w.Enqueue(ctx, i))
	}
	wg.Wait()
	assert.Equal(t, int64(5050), atomic.LoadInt64(&sum))

	w.Exit()
	w.Exit()
	select {
	case err := <-stopped:
		assert.ErrorIs(t, err, ErrStopped)
	case <-time.After(time.Second):
		t.Fatal("workers did not stop")
	}

	assert.ErrorIs(t, w.Enqueue(ctx, 1), ErrStopped)
}

func TestWorkerManager_EnqueueHonoursContext(t *testing.T) {
	w := NewWorkerManager(1, 1)
	require.NoError(t, w.Enqueue(context.Background(), 1))
	assert.Equal(t, 1, w.Pending())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Enqueue(ctx, 2), context.DeadlineExceeded)
}

func TestWorkerManager_RequiresHandler(t *testing.T) {
	w := NewWorkerManager(1, 0)
	assert.Equal(t, 1, w.Size())
	assert.Error(t, w.Start())
}
