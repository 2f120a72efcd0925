package repository

import (
	"time"

	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/pkg/pg"
	"github.com/shopspring/decimal"
)

type GroupEntity struct {
	pg.Model
	Name            string          `gorm:"column:name;not null"`
	PotValue        int64           `gorm:"column:pot_value;not null"`
	Duration        int             `gorm:"column:duration;not null"`
	CommissionRate  decimal.Decimal `gorm:"column:commission_rate;type:numeric(5,2);not null"`
	BaseInstallment int64           `gorm:"column:base_installment;not null"`
	TotalMembers    int             `gorm:"column:total_members;not null"`
	CurrentMonth    int             `gorm:"column:current_month;not null;default:1"`
	Status          string          `gorm:"column:status;not null;index"`
	ClosedAt        *time.Time      `gorm:"column:closed_at"`
}

func (GroupEntity) TableName() string { return "groups" }

func toGroupEntity(m *model.Group) *GroupEntity {
	if m == nil {
		return nil
	}
	return &GroupEntity{
		Model:           pg.Model{ID: m.ID, CreatedAt: m.CreatedAt},
		Name:            m.Name,
		PotValue:        m.PotValue,
		Duration:        m.Duration,
		CommissionRate:  m.CommissionRate,
		BaseInstallment: m.BaseInstallment,
		TotalMembers:    m.TotalMembers,
		CurrentMonth:    m.CurrentMonth,
		Status:          string(m.Status),
		ClosedAt:        m.ClosedAt,
	}
}

func toGroupModel(e *GroupEntity) *model.Group {
	if e == nil {
		return nil
	}
	return &model.Group{
		ID:              e.ID,
		Name:            e.Name,
		PotValue:        e.PotValue,
		Duration:        e.Duration,
		CommissionRate:  e.CommissionRate,
		BaseInstallment: e.BaseInstallment,
		TotalMembers:    e.TotalMembers,
		CurrentMonth:    e.CurrentMonth,
		Status:          model.GroupStatus(e.Status),
		ClosedAt:        e.ClosedAt,
		CreatedAt:       e.CreatedAt,
	}
}

func toGroupModels(entities []*GroupEntity) []*model.Group {
	models := make([]*model.Group, len(entities))
	for i, e := range entities {
		models[i] = toGroupModel(e)
	}
	return models
}
