package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/internal/queue"
	"github.com/nimasrn/chit-ledger/pkg/logger"
	"github.com/nimasrn/chit-ledger/pkg/prom"
)

// Projection applies a committed ledger event to a read side.
type Projection interface {
	Apply(ctx context.Context, ev *model.Event) error
}

// MetricsProjection feeds ledger volume into prometheus.
type MetricsProjection struct{}

func (MetricsProjection) Apply(_ context.Context, ev *model.Event) error {
	for _, line := range ev.Ledger {
		prom.LedgerVolume(string(line.Kind), line.Amount)
	}
	return nil
}

// LedgerProjector consumes ledger events and applies each one at most once.
type LedgerProjector struct {
	projection  Projection
	idempotency *IdempotencyService
}

func NewLedgerProjector(projection Projection, idempotency *IdempotencyService) *LedgerProjector {
	return &LedgerProjector{
		projection:  projection,
		idempotency: idempotency,
	}
}

func (p *LedgerProjector) GetType() string {
	return "ledger-event"
}

// Process returns nil when the message can be acked: projected, a replay, or
// out of retries. Any other outcome returns an error so the queue retries.
func (p *LedgerProjector) Process(ctx context.Context, msg *queue.Message) error {
	ev, err := queue.DecodeEvent(msg)
	if err != nil {
		logger.Error("failed to decode ledger event", "message_id", msg.ID, "error", err)
		return err
	}

	procCtx, err := p.idempotency.AcquireProcessingLock(ctx, ev.ID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyProcessed):
			logger.Debug("event already projected, skipping", "event_id", ev.ID)
			return nil
		case errors.Is(err, ErrMaxRetriesExceeded):
			logger.Error("giving up on event", "event_id", ev.ID, "type", ev.Type)
			prom.EventProjected(string(ev.Type), false)
			return nil
		case errors.Is(err, ErrLockAcquireFailed):
			return fmt.Errorf("event %s is being projected by another consumer", ev.ID)
		}
		return err
	}
	defer p.idempotency.ReleaseLock(ctx, procCtx)

	if err := p.projection.Apply(ctx, ev); err != nil {
		if markErr := p.idempotency.MarkFailure(ctx, procCtx, err); markErr != nil {
			logger.Error("failed to record projection failure", "event_id", ev.ID, "error", markErr)
		}
		prom.EventProjected(string(ev.Type), false)
		return err
	}

	if err := p.idempotency.MarkSuccess(ctx, procCtx); err != nil {
		logger.Error("failed to mark event projected", "event_id", ev.ID, "error", err)
	}
	prom.EventProjected(string(ev.Type), true)
	logger.Info("ledger event projected",
		"event_id", ev.ID,
		"type", ev.Type,
		"group_id", ev.GroupID,
		"month", ev.Month,
		"retry_count", procCtx.RetryCount)
	return nil
}
