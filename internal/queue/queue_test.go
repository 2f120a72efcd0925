package queue

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/chit-ledger/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.Adapter) {
	mr := miniredis.RunT(t)

	// unique connection name per test, adapters are cached by name
	adapter, err := redis.NewRedisAdapter(t.Name()+"-"+mr.Addr(), "", &redis.Options{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })

	return mr, adapter
}

func testConfig(name string) QueueConfig {
	return QueueConfig{
		Name:              name,
		ConsumerGroup:     "test-group",
		ConsumerName:      "test-consumer",
		MaxRetries:        3,
		VisibilityTimeout: 5 * time.Second,
		PollInterval:      50 * time.Millisecond,
		BatchSize:         10,
		MaxLen:            1000,
		EnableDLQ:         true,
	}
}

func TestQueue_PublishAndConsume(t *testing.T) {
	_, adapter := setupTestRedis(t)

	queue, err := NewQueue(adapter, testConfig("test:queue"))
	require.NoError(t, err)
	defer queue.Stop(time.Second)

	ctx := context.Background()
	_, err = queue.PublishJSON(ctx, map[string]string{"key": "value"}, map[string]string{"type": "test"})
	require.NoError(t, err)

	received := make(chan *Message, 1)
	err = queue.Consume(func(ctx context.Context, msg *Message) error {
		received <- msg
		return nil
	})
	require.NoError(t, err)

	select {
	case msg := <-received:
		var data map[string]string
		require.NoError(t, json.Unmarshal(msg.Data, &data))
		assert.Equal(t, "value", data["key"])
		assert.Equal(t, "test", msg.Metadata["type"])
		assert.Zero(t, msg.Attempts)
		assert.WithinDuration(t, time.Now(), msg.Timestamp, 5*time.Second)
	case <-time.After(2 * time.Second):
		t.Fatal("message not received")
	}

	assert.Eventually(t, func() bool {
		stats, err := queue.GetStats(ctx)
		return err == nil && stats.PendingMessages == 0
	}, 2*time.Second, 50*time.Millisecond)
}

func TestNewQueue_ExistingGroup(t *testing.T) {
	_, adapter := setupTestRedis(t)

	first, err := NewQueue(adapter, testConfig("test:shared"))
	require.NoError(t, err)
	defer first.Stop(time.Second)

	second, err := NewQueue(adapter, testConfig("test:shared"))
	require.NoError(t, err)
	defer second.Stop(time.Second)
}

func TestNewQueue_RequiresName(t *testing.T) {
	_, adapter := setupTestRedis(t)

	_, err := NewQueue(adapter, QueueConfig{})
	assert.Error(t, err)
}

func TestQueue_FailingMessageEndsInDeadLetterQueue(t *testing.T) {
	_, adapter := setupTestRedis(t)

	config := testConfig("test:retry:queue")
	config.MaxRetries = 2
	config.VisibilityTimeout = 200 * time.Millisecond

	queue, err := NewQueue(adapter, config)
	require.NoError(t, err)
	defer queue.Stop(time.Second)

	ctx := context.Background()
	_, err = queue.PublishJSON(ctx, map[string]string{"test": "retry"}, map[string]string{"type": "retry"})
	require.NoError(t, err)

	var attempts int32
	err = queue.Consume(func(ctx context.Context, msg *Message) error {
		atomic.AddInt32(&attempts, 1)
		return assert.AnError
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		n, err := adapter.XLen(ctx, queue.DeadLetterName())
		return err == nil && n == 1
	}, 5*time.Second, 50*time.Millisecond)
	assert.Eventually(t, func() bool {
		stats, err := queue.GetStats(ctx)
		return err == nil && stats.PendingMessages == 0
	}, 2*time.Second, 50*time.Millisecond)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestQueue_RetrySucceeds(t *testing.T) {
	_, adapter := setupTestRedis(t)

	config := testConfig("test:retry:ok")
	config.VisibilityTimeout = 200 * time.Millisecond

	queue, err := NewQueue(adapter, config)
	require.NoError(t, err)
	defer queue.Stop(time.Second)

	ctx := context.Background()
	_, err = queue.Publish(ctx, []byte(`{}`), nil)
	require.NoError(t, err)

	var attempts int32
	done := make(chan int, 1)
	err = queue.Consume(func(ctx context.Context, msg *Message) error {
		if atomic.AddInt32(&attempts, 1) == 1 {
			return assert.AnError
		}
		done <- msg.Attempts
		return nil
	})
	require.NoError(t, err)

	select {
	case n := <-done:
		assert.Equal(t, 1, n)
	case <-time.After(3 * time.Second):
		t.Fatal("message was not retried")
	}
	n, err := adapter.XLen(ctx, queue.DeadLetterName())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestQueue_GetStats(t *testing.T) {
	_, adapter := setupTestRedis(t)

	queue, err := NewQueue(adapter, testConfig("test:stats:queue"))
	require.NoError(t, err)
	defer queue.Stop(time.Second)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := queue.PublishJSON(ctx, map[string]int{"count": i}, nil)
		require.NoError(t, err)
	}

	stats, err := queue.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.TotalMessages)
	assert.Zero(t, stats.PendingMessages)
}

func TestMessage_AckNack(t *testing.T) {
	_, adapter := setupTestRedis(t)

	queue, err := NewQueue(adapter, testConfig("test:ack:queue"))
	require.NoError(t, err)
	defer queue.Stop(time.Second)

	t.Run("ack marks message as processed", func(t *testing.T) {
		msgID, err := queue.Publish(context.Background(), []byte(`{"test":"data"}`), map[string]string{})
		require.NoError(t, err)

		msg := &Message{ID: msgID, Metadata: map[string]string{}, queue: queue}

		assert.NoError(t, msg.Ack())
		assert.True(t, msg.acked)
		assert.False(t, msg.nacked)
	})

	t.Run("nack marks message for retry", func(t *testing.T) {
		msg := &Message{ID: "test-2", queue: queue}

		assert.NoError(t, msg.Nack())
		assert.False(t, msg.acked)
		assert.True(t, msg.nacked)
	})

	t.Run("cannot ack already acked message", func(t *testing.T) {
		msg := &Message{ID: "test-3", acked: true}

		err := msg.Ack()
		assert.ErrorContains(t, err, "already acknowledged")
	})

	t.Run("cannot nack already nacked message", func(t *testing.T) {
		msg := &Message{ID: "test-4", nacked: true}

		err := msg.Nack()
		assert.ErrorContains(t, err, "already rejected")
	})
}

func TestQueue_ConcurrentPublish(t *testing.T) {
	_, adapter := setupTestRedis(t)

	queue, err := NewQueue(adapter, testConfig("test:concurrent:queue"))
	require.NoError(t, err)
	defer queue.Stop(time.Second)

	ctx := context.Background()
	numGoroutines := 10
	done := make(chan bool, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			_, err := queue.PublishJSON(ctx, map[string]int{"id": id}, nil)
			assert.NoError(t, err)
			done <- true
		}(i)
	}
	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	stats, err := queue.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(numGoroutines), stats.TotalMessages)
}

func TestQueue_Stop(t *testing.T) {
	_, adapter := setupTestRedis(t)

	queue, err := NewQueue(adapter, testConfig("test:stop:queue"))
	require.NoError(t, err)

	err = queue.Consume(func(ctx context.Context, msg *Message) error {
		time.Sleep(100 * time.Millisecond)
		return nil
	})
	require.NoError(t, err)

	assert.NoError(t, queue.Stop(2*time.Second))
	assert.Error(t, queue.Consume(nil))
}
