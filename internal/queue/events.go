package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/chit-ledger/internal/model"
)

const (
	metaEventID   = "event_id"
	metaEventType = "type"
	metaGroupID   = "group_id"
)

// EventPublisher writes committed ledger events onto a queue.
type EventPublisher struct {
	queue *Queue
}

func NewEventPublisher(q *Queue) *EventPublisher {
	return &EventPublisher{queue: q}
}

// Publish stamps the event with an id and time when missing and appends it to
// the stream.
func (p *EventPublisher) Publish(ctx context.Context, ev *model.Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	_, err := p.queue.PublishJSON(ctx, ev, map[string]string{
		metaEventID:   ev.ID,
		metaEventType: string(ev.Type),
		metaGroupID:   ev.GroupID,
	})
	return err
}

// DecodeEvent reads the ledger event carried by msg.
func DecodeEvent(msg *Message) (*model.Event, error) {
	var ev model.Event
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		return nil, fmt.Errorf("decode event %s: %w", msg.ID, err)
	}
	if ev.ID == "" {
		ev.ID = msg.Metadata[metaEventID]
	}
	if ev.ID == "" || ev.Type == "" {
		return nil, fmt.Errorf("decode event %s: missing id or type", msg.ID)
	}
	return &ev, nil
}
