package repository

import (
	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/pkg/pg"
)

// MembershipEntity rows are never deleted by normal flow. The partial unique
// indexes only cover active rows so a vacated ticket can be handed over.
type MembershipEntity struct {
	pg.Model
	GroupID       string        `gorm:"column:group_id;type:varchar(36);not null;index;uniqueIndex:idx_memberships_group_ticket_active,where:is_active;uniqueIndex:idx_memberships_group_member_active,where:is_active"`
	Group         *GroupEntity  `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:CASCADE"`
	MemberID      string        `gorm:"column:member_id;type:varchar(36);not null;index;uniqueIndex:idx_memberships_group_member_active,where:is_active"`
	Member        *MemberEntity `gorm:"foreignKey:MemberID;references:ID;constraint:OnDelete:RESTRICT"`
	TicketNumber  int           `gorm:"column:ticket_number;not null;uniqueIndex:idx_memberships_group_ticket_active,where:is_active"`
	JoinedMonth   int           `gorm:"column:joined_month;not null"`
	IsPrized      bool          `gorm:"column:is_prized;not null;default:false"`
	IsActive      bool          `gorm:"column:is_active;not null"`
	TotalPaid     int64         `gorm:"column:total_paid;not null;default:0"`
	TotalReceived int64         `gorm:"column:total_received;not null;default:0"`
	ExitMonth     *int          `gorm:"column:exit_month"`
	ExitReason    string        `gorm:"column:exit_reason"`
}

func (MembershipEntity) TableName() string { return "memberships" }

func toMembershipEntity(m *model.Membership) *MembershipEntity {
	if m == nil {
		return nil
	}
	return &MembershipEntity{
		Model:         pg.Model{ID: m.ID, CreatedAt: m.CreatedAt},
		GroupID:       m.GroupID,
		MemberID:      m.MemberID,
		TicketNumber:  m.TicketNumber,
		JoinedMonth:   m.JoinedMonth,
		IsPrized:      m.IsPrized,
		IsActive:      m.IsActive,
		TotalPaid:     m.TotalPaid,
		TotalReceived: m.TotalReceived,
		ExitMonth:     m.ExitMonth,
		ExitReason:    m.ExitReason,
	}
}

func toMembershipModel(e *MembershipEntity) *model.Membership {
	if e == nil {
		return nil
	}
	m := &model.Membership{
		ID:            e.ID,
		GroupID:       e.GroupID,
		MemberID:      e.MemberID,
		TicketNumber:  e.TicketNumber,
		JoinedMonth:   e.JoinedMonth,
		IsPrized:      e.IsPrized,
		IsActive:      e.IsActive,
		TotalPaid:     e.TotalPaid,
		TotalReceived: e.TotalReceived,
		ExitMonth:     e.ExitMonth,
		ExitReason:    e.ExitReason,
		CreatedAt:     e.CreatedAt,
	}
	if e.Member != nil {
		m.MemberName = e.Member.Name
		m.MemberPhone = e.Member.Phone
	}
	return m
}

func toMembershipModels(entities []*MembershipEntity) []*model.Membership {
	models := make([]*model.Membership, len(entities))
	for i, e := range entities {
		models[i] = toMembershipModel(e)
	}
	return models
}
