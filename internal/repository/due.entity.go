package repository

import (
	"time"

	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/pkg/pg"
)

type DueEntity struct {
	pg.Model
	GroupID        string            `gorm:"column:group_id;type:varchar(36);not null;index;uniqueIndex:idx_dues_group_membership_month"`
	Group          *GroupEntity      `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:CASCADE"`
	MembershipID   string            `gorm:"column:membership_id;type:varchar(36);not null;index;uniqueIndex:idx_dues_group_membership_month"`
	Membership     *MembershipEntity `gorm:"foreignKey:MembershipID;references:ID;constraint:OnDelete:CASCADE"`
	Month          int               `gorm:"column:month;not null;uniqueIndex:idx_dues_group_membership_month"`
	AmountDue      int64             `gorm:"column:amount_due;not null"`
	AmountPaid     int64             `gorm:"column:amount_paid;not null;default:0"`
	PaymentChannel string            `gorm:"column:payment_channel"`
	PaidDate       *time.Time        `gorm:"column:paid_date"`
	Status         string            `gorm:"column:status;not null;index"`
	ReceiptSent    bool              `gorm:"column:receipt_sent;not null;default:false"`
}

func (DueEntity) TableName() string { return "dues" }

func toDueEntity(m *model.Due) *DueEntity {
	if m == nil {
		return nil
	}
	return &DueEntity{
		Model:          pg.Model{ID: m.ID, CreatedAt: m.CreatedAt},
		GroupID:        m.GroupID,
		MembershipID:   m.MembershipID,
		Month:          m.Month,
		AmountDue:      m.AmountDue,
		AmountPaid:     m.AmountPaid,
		PaymentChannel: m.PaymentChannel,
		PaidDate:       m.PaidDate,
		Status:         string(m.Status),
		ReceiptSent:    m.ReceiptSent,
	}
}

func toDueModel(e *DueEntity) *model.Due {
	if e == nil {
		return nil
	}
	return &model.Due{
		ID:             e.ID,
		GroupID:        e.GroupID,
		MembershipID:   e.MembershipID,
		Month:          e.Month,
		AmountDue:      e.AmountDue,
		AmountPaid:     e.AmountPaid,
		PaymentChannel: e.PaymentChannel,
		PaidDate:       e.PaidDate,
		Status:         model.DueStatus(e.Status),
		ReceiptSent:    e.ReceiptSent,
		CreatedAt:      e.CreatedAt,
	}
}

func toDueModels(entities []*DueEntity) []*model.Due {
	models := make([]*model.Due, len(entities))
	for i, e := range entities {
		models[i] = toDueModel(e)
	}
	return models
}
