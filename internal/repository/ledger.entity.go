package repository

import (
	"time"

	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/pkg/pg"
)

type LedgerEntryEntity struct {
	pg.Model
	GroupID         string            `gorm:"column:group_id;type:varchar(36);not null;index"`
	Group           *GroupEntity      `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:CASCADE"`
	Kind            string            `gorm:"column:kind;not null;index"`
	Amount          int64             `gorm:"column:amount;not null"`
	MembershipID    *string           `gorm:"column:membership_id;type:varchar(36);index"`
	Membership      *MembershipEntity `gorm:"foreignKey:MembershipID;references:ID;constraint:OnDelete:SET NULL"`
	Note            string            `gorm:"column:note"`
	TransactionDate time.Time         `gorm:"column:transaction_date;not null"`
}

func (LedgerEntryEntity) TableName() string { return "ledger_entries" }

func toLedgerEntryEntity(m *model.LedgerEntry) *LedgerEntryEntity {
	if m == nil {
		return nil
	}
	return &LedgerEntryEntity{
		Model:           pg.Model{ID: m.ID, CreatedAt: m.CreatedAt},
		GroupID:         m.GroupID,
		Kind:            string(m.Kind),
		Amount:          m.Amount,
		MembershipID:    m.MembershipID,
		Note:            m.Note,
		TransactionDate: m.TransactionDate,
	}
}

func toLedgerEntryModel(e *LedgerEntryEntity) *model.LedgerEntry {
	if e == nil {
		return nil
	}
	return &model.LedgerEntry{
		ID:              e.ID,
		GroupID:         e.GroupID,
		Kind:            model.LedgerKind(e.Kind),
		Amount:          e.Amount,
		MembershipID:    e.MembershipID,
		Note:            e.Note,
		TransactionDate: e.TransactionDate,
		CreatedAt:       e.CreatedAt,
	}
}

func toLedgerEntryModels(entities []*LedgerEntryEntity) []*model.LedgerEntry {
	models := make([]*model.LedgerEntry, len(entities))
	for i, e := range entities {
		models[i] = toLedgerEntryModel(e)
	}
	return models
}
