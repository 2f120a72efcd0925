package repository

import (
	"context"

	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/pkg/pg"
)

type MemberRepository struct {
	*pg.DB
}

func NewMemberRepository(db *pg.DB) *MemberRepository {
	return &MemberRepository{
		db,
	}
}

func (r *MemberRepository) GetByID(ctx context.Context, id string) (*model.Member, error) {
	var entity MemberEntity
	if err := r.Read(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return toMemberModel(&entity), nil
}

func (r *MemberRepository) GetByPhone(ctx context.Context, phone string) (*model.Member, error) {
	var entity MemberEntity
	if err := r.Read(ctx).Where("phone = ?", phone).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return toMemberModel(&entity), nil
}

// GetByPhones returns the known members among phones keyed by phone.
func (r *MemberRepository) GetByPhones(ctx context.Context, phones []string) (map[string]*model.Member, error) {
	out := make(map[string]*model.Member, len(phones))
	if len(phones) == 0 {
		return out, nil
	}
	var entities []*MemberEntity
	if err := r.Read(ctx).Where("phone IN ?", phones).Find(&entities).Error; err != nil {
		return nil, err
	}
	for _, e := range entities {
		out[e.Phone] = toMemberModel(e)
	}
	return out, nil
}
