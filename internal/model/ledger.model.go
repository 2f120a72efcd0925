package model

import "time"

type LedgerKind string

const (
	LedgerKindInstallmentPayment LedgerKind = "installment_payment"
	LedgerKindPrize              LedgerKind = "prize"
	LedgerKindCommission         LedgerKind = "commission"
	LedgerKindRefund             LedgerKind = "refund"
	LedgerKindOperationalCost    LedgerKind = "operational_cost"
)

func (k LedgerKind) Valid() bool {
	switch k {
	case LedgerKindInstallmentPayment, LedgerKindPrize, LedgerKindCommission,
		LedgerKindRefund, LedgerKindOperationalCost:
		return true
	}
	return false
}

// LedgerEntry is an append-only money movement.
type LedgerEntry struct {
	ID              string     `json:"id"`
	GroupID         string     `json:"group_id"`
	Kind            LedgerKind `json:"kind"`
	Amount          int64      `json:"amount"`
	MembershipID    *string    `json:"membership_id,omitempty"`
	Note            string     `json:"note,omitempty"`
	TransactionDate time.Time  `json:"transaction_date"`
	CreatedAt       time.Time  `json:"created_at"`
}

// LedgerFilter controls ledger feed queries. Results are newest first.
type LedgerFilter struct {
	GroupID      string
	MembershipID string
	Kinds        []LedgerKind
	Limit        int
	Offset       int
}
