package processor

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/internal/queue"
	"github.com/nimasrn/chit-ledger/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessorService_ProjectsPublishedEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	adapter, err := redis.NewRedisAdapter(t.Name(), "chit:", &redis.Options{Addrs: []string{mr.Addr()}})
	require.NoError(t, err)
	defer adapter.Close()

	queueConfig := queue.QueueConfig{
		Name:              "ledger:events",
		ConsumerGroup:     "projector",
		ConsumerName:      "test",
		MaxRetries:        3,
		VisibilityTimeout: time.Second,
		PollInterval:      20 * time.Millisecond,
		BatchSize:         10,
	}

	projection := &recordingProjection{}
	service := NewProcessorService(adapter, Options{Queue: queueConfig, Consumers: 2, Workers: 4})
	assert.Error(t, service.Start())

	service.RegisterProcessor(NewLedgerProjector(projection, NewIdempotencyService(adapter, DefaultIdempotencyConfig())))
	require.NoError(t, service.Start())

	publisherQueue, err := queue.NewQueue(adapter, queueConfig)
	require.NoError(t, err)
	publisher := queue.NewEventPublisher(publisherQueue)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, publisher.Publish(ctx, &model.Event{
			Type:    model.EventPaymentRecorded,
			GroupID: "g1",
			Ledger:  []model.LedgerLine{{Kind: model.LedgerKindInstallmentPayment, Amount: 100}},
		}))
	}

	assert.Eventually(t, func() bool { return projection.count() == 5 }, 3*time.Second, 20*time.Millisecond)

	service.Stop()
	require.NoError(t, publisherQueue.Stop(time.Second))

	stats := service.Metrics()
	assert.Equal(t, int64(5), stats.Processed)
	assert.Zero(t, stats.Failed)
	assert.Equal(t, int64(5), stats.ByType[string(model.EventPaymentRecorded)])
}
