package model

import (
	"errors"
	"time"
)

type DueStatus string

const (
	DueStatusPending DueStatus = "pending"
	DueStatusPartial DueStatus = "partial"
	DueStatusPaid    DueStatus = "paid"
)

// CatchUpMonth is the synthetic month holding a late joiner's catch-up due.
const CatchUpMonth = 0

// Due is one membership's obligation for one month.
type Due struct {
	ID             string     `json:"id"`
	GroupID        string     `json:"group_id"`
	MembershipID   string     `json:"membership_id"`
	Month          int        `json:"month"`
	AmountDue      int64      `json:"amount_due"`
	AmountPaid     int64      `json:"amount_paid"`
	PaymentChannel string     `json:"payment_channel,omitempty"`
	PaidDate       *time.Time `json:"paid_date,omitempty"`
	Status         DueStatus  `json:"status"`
	ReceiptSent    bool       `json:"receipt_sent"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (d *Due) Outstanding() int64 { return d.AmountDue - d.AmountPaid }

// StatusFor derives the due status from the paid and due amounts.
func StatusFor(amountDue, amountPaid int64) DueStatus {
	switch {
	case amountPaid <= 0:
		return DueStatusPending
	case amountPaid < amountDue:
		return DueStatusPartial
	default:
		return DueStatusPaid
	}
}

// DueFilter controls due list queries.
type DueFilter struct {
	GroupID      string
	MembershipID string
	Month        *int
	Statuses     []DueStatus
	Limit        int
	Offset       int
}

type PaymentRequest struct {
	DueID   string    `json:"due_id"`
	Amount  int64     `json:"amount"`
	Channel string    `json:"channel"`
	PaidAt  time.Time `json:"paid_at"`
}

func (p PaymentRequest) Validate() error {
	if p.DueID == "" {
		return errors.New("due_id is required")
	}
	if p.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	return nil
}
