package repository

import (
	"context"

	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/pkg/pg"
)

type MembershipRepository struct {
	*pg.DB
}

func NewMembershipRepository(db *pg.DB) *MembershipRepository {
	return &MembershipRepository{
		db,
	}
}

func (r *MembershipRepository) GetByID(ctx context.Context, id string) (*model.Membership, error) {
	var entity MembershipEntity
	if err := r.Read(ctx).Preload("Member").Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return toMembershipModel(&entity), nil
}

// GetActiveByMember returns the member's active membership in a group.
func (r *MembershipRepository) GetActiveByMember(ctx context.Context, groupID, memberID string) (*model.Membership, error) {
	var entity MembershipEntity
	err := r.Read(ctx).
		Where("group_id = ? AND member_id = ? AND is_active = ?", groupID, memberID, true).
		First(&entity).Error
	if err != nil {
		return nil, translate(err)
	}
	return toMembershipModel(&entity), nil
}

// GetLatestByMember returns the member's most recent membership in a group,
// active or not.
func (r *MembershipRepository) GetLatestByMember(ctx context.Context, groupID, memberID string) (*model.Membership, error) {
	var entity MembershipEntity
	err := r.Read(ctx).
		Where("group_id = ? AND member_id = ?", groupID, memberID).
		Order("created_at DESC").
		First(&entity).Error
	if err != nil {
		return nil, translate(err)
	}
	return toMembershipModel(&entity), nil
}

func (r *MembershipRepository) TicketTaken(ctx context.Context, groupID string, ticket int) (bool, error) {
	var count int64
	err := r.Read(ctx).Model(&MembershipEntity{}).
		Where("group_id = ? AND ticket_number = ? AND is_active = ?", groupID, ticket, true).
		Count(&count).Error
	return count > 0, err
}

func (r *MembershipRepository) List(ctx context.Context, f model.MembershipFilter) ([]*model.Membership, error) {
	q := r.Read(ctx).Preload("Member")
	if f.GroupID != "" {
		q = q.Where("group_id = ?", f.GroupID)
	}
	if f.MemberID != "" {
		q = q.Where("member_id = ?", f.MemberID)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}

	var entities []*MembershipEntity
	if err := q.Order("ticket_number ASC, created_at ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toMembershipModels(entities), nil
}
