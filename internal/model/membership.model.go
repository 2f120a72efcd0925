package model

import "time"

const (
	ExitReasonVoluntary = "voluntary exit"
	ExitReasonReplaced  = "replaced"
)

// Membership binds a member to a ticket in a group.
type Membership struct {
	ID            string    `json:"id"`
	GroupID       string    `json:"group_id"`
	MemberID      string    `json:"member_id"`
	TicketNumber  int       `json:"ticket_number"`
	JoinedMonth   int       `json:"joined_month"`
	IsPrized      bool      `json:"is_prized"`
	IsActive      bool      `json:"is_active"`
	TotalPaid     int64     `json:"total_paid"`
	TotalReceived int64     `json:"total_received"`
	ExitMonth     *int      `json:"exit_month,omitempty"`
	ExitReason    string    `json:"exit_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`

	// Populated by list queries that join the member row.
	MemberName  string `json:"member_name,omitempty"`
	MemberPhone string `json:"member_phone,omitempty"`
}

type MembershipFilter struct {
	GroupID  string
	MemberID string
	Active   *bool
}

// ExitQuote is what a leaving member would get back.
type ExitQuote struct {
	MembershipID   string `json:"membership_id"`
	TotalPaid      int64  `json:"total_paid"`
	SurrenderValue int64  `json:"surrender_value"`
}

// CatchUpQuote is the amount a late joiner owes for months already run.
type CatchUpQuote struct {
	GroupID      string  `json:"group_id"`
	CurrentMonth int     `json:"current_month"`
	History      []int64 `json:"history"`
	Amount       int64   `json:"amount"`
}
