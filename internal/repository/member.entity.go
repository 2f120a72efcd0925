package repository

import (
	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/pkg/pg"
)

type MemberEntity struct {
	pg.Model
	Name   string `gorm:"column:name;not null"`
	Phone  string `gorm:"column:phone;not null;uniqueIndex:idx_members_phone"`
	Source string `gorm:"column:source;not null;default:manual"`
}

func (MemberEntity) TableName() string { return "members" }

func toMemberEntity(m *model.Member) *MemberEntity {
	if m == nil {
		return nil
	}
	return &MemberEntity{
		Model:  pg.Model{ID: m.ID, CreatedAt: m.CreatedAt},
		Name:   m.Name,
		Phone:  m.Phone,
		Source: string(m.Source),
	}
}

func toMemberModel(e *MemberEntity) *model.Member {
	if e == nil {
		return nil
	}
	return &model.Member{
		ID:        e.ID,
		Name:      e.Name,
		Phone:     e.Phone,
		Source:    model.MemberSource(e.Source),
		CreatedAt: e.CreatedAt,
	}
}
