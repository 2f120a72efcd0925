package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// GroupStatus is the lifecycle state of a chit group.
type GroupStatus string

const (
	GroupStatusActive GroupStatus = "active"
	GroupStatusClosed GroupStatus = "closed"
)

func (s GroupStatus) Valid() bool {
	return s == GroupStatusActive || s == GroupStatusClosed
}

type Group struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	PotValue        int64           `json:"pot_value"`
	Duration        int             `json:"duration"`
	CommissionRate  decimal.Decimal `json:"commission_rate"`
	BaseInstallment int64           `json:"base_installment"`
	TotalMembers    int             `json:"total_members"`
	CurrentMonth    int             `json:"current_month"`
	Status          GroupStatus     `json:"status"`
	ClosedAt        *time.Time      `json:"closed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (g *Group) IsActive() bool { return g.Status == GroupStatusActive }

// GroupMemberInput names one founding member of a new group.
type GroupMemberInput struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	TicketNumber int    `json:"ticket_number"`
}

// ScheduleInput is one planned auction date.
type ScheduleInput struct {
	Month int       `json:"month"`
	Date  time.Time `json:"date"`
}

type GroupCreateRequest struct {
	Name           string             `json:"name"`
	PotValue       int64              `json:"pot_value"`
	Duration       int                `json:"duration"`
	CommissionRate decimal.Decimal    `json:"commission_rate"`
	TotalMembers   int                `json:"total_members"`
	Members        []GroupMemberInput `json:"members"`
	Schedule       []ScheduleInput    `json:"schedule"`

	// StartDate seeds a monthly schedule when Schedule is empty.
	StartDate *time.Time `json:"start_date,omitempty"`
}

// Validate checks the request against the given admissible duration range.
func (p GroupCreateRequest) Validate(minDuration, maxDuration int) error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.PotValue <= 0 {
		return errors.New("pot_value must be positive")
	}
	if p.Duration < minDuration || p.Duration > maxDuration {
		return fmt.Errorf("duration must be between %d and %d", minDuration, maxDuration)
	}
	if p.CommissionRate.IsNegative() || p.CommissionRate.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("commission_rate must be between 0 and 100")
	}
	if !p.CommissionRate.Equal(p.CommissionRate.Round(2)) {
		return errors.New("commission_rate allows at most 2 decimal places")
	}
	if p.TotalMembers < 1 {
		return errors.New("total_members must be at least 1")
	}
	if len(p.Members) > p.TotalMembers {
		return errors.New("more members than slots")
	}

	tickets := make(map[int]bool, len(p.Members))
	phones := make(map[string]bool, len(p.Members))
	for _, m := range p.Members {
		if m.Name == "" || m.Phone == "" {
			return errors.New("member name and phone are required")
		}
		if m.TicketNumber < 1 || m.TicketNumber > len(p.Members) {
			return fmt.Errorf("ticket %d out of range 1..%d", m.TicketNumber, len(p.Members))
		}
		if tickets[m.TicketNumber] {
			return fmt.Errorf("duplicate ticket %d", m.TicketNumber)
		}
		if phones[m.Phone] {
			return fmt.Errorf("duplicate phone %s", m.Phone)
		}
		tickets[m.TicketNumber] = true
		phones[m.Phone] = true
	}

	months := make(map[int]bool, len(p.Schedule))
	for _, s := range p.Schedule {
		if s.Month < 1 || s.Month > p.Duration {
			return fmt.Errorf("schedule month %d out of range 1..%d", s.Month, p.Duration)
		}
		if months[s.Month] {
			return fmt.Errorf("duplicate schedule month %d", s.Month)
		}
		months[s.Month] = true
	}
	return nil
}

// GroupFilter controls group list queries.
type GroupFilter struct {
	Status *GroupStatus
	Limit  int
	Offset int
}
