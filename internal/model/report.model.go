package model

// Defaulter is an active membership with unpaid dues.
type Defaulter struct {
	MembershipID string `json:"membership_id"`
	MemberID     string `json:"member_id"`
	MemberName   string `json:"member_name"`
	MemberPhone  string `json:"member_phone"`
	TicketNumber int    `json:"ticket_number"`
	DueCount     int    `json:"due_count"`
	Outstanding  int64  `json:"outstanding"`
}

type GroupStats struct {
	GroupID          string `json:"group_id"`
	Members          int    `json:"members"`
	ActiveMembers    int    `json:"active_members"`
	CurrentMonth     int    `json:"current_month"`
	Collected        int64  `json:"collected"`
	Outstanding      int64  `json:"outstanding"`
	Commissions      int64  `json:"commissions"`
	Prizes           int64  `json:"prizes"`
	OperationalCosts int64  `json:"operational_costs"`
	BadDebts         int64  `json:"bad_debts"`
	ForemanProfit    int64  `json:"foreman_profit"`
}

type GlobalTotals struct {
	Collected    int64 `json:"collected"`
	Outstanding  int64 `json:"outstanding"`
	Commissions  int64 `json:"commissions"`
	ActiveGroups int   `json:"active_groups"`
	ClosedGroups int   `json:"closed_groups"`
}

type MonthlyDueSummary struct {
	Month     int   `json:"month"`
	DueCount  int   `json:"due_count"`
	TotalDue  int64 `json:"total_due"`
	TotalPaid int64 `json:"total_paid"`
}
