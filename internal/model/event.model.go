package model

import "time"

type EventType string

const (
	EventGroupCreated     EventType = "group.created"
	EventGroupClosed      EventType = "group.closed"
	EventGroupDeleted     EventType = "group.deleted"
	EventAuctionCommitted EventType = "auction.committed"
	EventMemberAdded      EventType = "member.added"
	EventMemberRemoved    EventType = "member.removed"
	EventMemberReplaced   EventType = "member.replaced"
	EventMemberSettled    EventType = "member.settled"
	EventPaymentRecorded  EventType = "payment.recorded"
	EventCostRecorded     EventType = "cost.recorded"
)

// LedgerLine is one ledger entry carried by an event.
type LedgerLine struct {
	Kind   LedgerKind `json:"kind"`
	Amount int64      `json:"amount"`
}

// Event describes a committed change. It is published after the batch that
// produced it has been committed.
type Event struct {
	ID           string       `json:"id"`
	Type         EventType    `json:"type"`
	GroupID      string       `json:"group_id"`
	MembershipID string       `json:"membership_id,omitempty"`
	Month        int          `json:"month,omitempty"`
	Ledger       []LedgerLine `json:"ledger,omitempty"`
	OccurredAt   time.Time    `json:"occurred_at"`
}
