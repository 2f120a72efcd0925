package queue

import (
	"context"
	"testing"
	"time"

	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventPublisher_RoundTrip(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig("ledger:events"))
	require.NoError(t, err)
	defer q.Stop(time.Second)

	publisher := NewEventPublisher(q)
	ev := &model.Event{
		Type:         model.EventAuctionCommitted,
		GroupID:      "g1",
		MembershipID: "ms1",
		Month:        1,
		Ledger: []model.LedgerLine{
			{Kind: model.LedgerKindPrize, Amount: 80000},
			{Kind: model.LedgerKindCommission, Amount: 4000},
		},
	}
	require.NoError(t, publisher.Publish(context.Background(), ev))
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.OccurredAt.IsZero())

	received := make(chan *model.Event, 1)
	require.NoError(t, q.Consume(func(ctx context.Context, msg *Message) error {
		assert.Equal(t, string(model.EventAuctionCommitted), msg.Metadata["type"])
		assert.Equal(t, "g1", msg.Metadata["group_id"])
		decoded, err := DecodeEvent(msg)
		if err != nil {
			return err
		}
		received <- decoded
		return nil
	}))

	select {
	case got := <-received:
		assert.Equal(t, ev.ID, got.ID)
		assert.Equal(t, ev.Ledger, got.Ledger)
		assert.Equal(t, 1, got.Month)
		assert.True(t, ev.OccurredAt.Equal(got.OccurredAt))
	case <-time.After(2 * time.Second):
		t.Fatal("event not received")
	}
}

func TestEventPublisher_KeepsGivenID(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig("ledger:events"))
	require.NoError(t, err)
	defer q.Stop(time.Second)

	ev := &model.Event{ID: "fixed", Type: model.EventGroupClosed, GroupID: "g1"}
	require.NoError(t, NewEventPublisher(q).Publish(context.Background(), ev))
	assert.Equal(t, "fixed", ev.ID)
}

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name    string
		msg     *Message
		wantID  string
		wantErr bool
	}{
		{
			name:   "id from body",
			msg:    &Message{ID: "1-0", Data: []byte(`{"id":"e1","type":"group.created","group_id":"g"}`)},
			wantID: "e1",
		},
		{
			name:   "id from metadata",
			msg:    &Message{ID: "1-1", Data: []byte(`{"type":"group.created"}`), Metadata: map[string]string{"event_id": "e2"}},
			wantID: "e2",
		},
		{
			name:    "missing type",
			msg:     &Message{ID: "1-2", Data: []byte(`{"id":"e3"}`)},
			wantErr: true,
		},
		{
			name:    "not json",
			msg:     &Message{ID: "1-3", Data: []byte(`nope`)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := DecodeEvent(tt.msg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, ev.ID)
		})
	}
}
