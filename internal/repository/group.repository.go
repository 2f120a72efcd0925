package repository

import (
	"context"

	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/pkg/pg"
)

type GroupRepository struct {
	*pg.DB
}

func NewGroupRepository(db *pg.DB) *GroupRepository {
	return &GroupRepository{
		db,
	}
}

func (r *GroupRepository) GetByID(ctx context.Context, id string) (*model.Group, error) {
	var entity GroupEntity
	if err := r.Read(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return toGroupModel(&entity), nil
}

func (r *GroupRepository) List(ctx context.Context, f model.GroupFilter) ([]*model.Group, int64, error) {
	q := r.Read(ctx).Model(&GroupEntity{})
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := page(f.Limit, f.Offset)
	var entities []*GroupEntity
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}
	return toGroupModels(entities), total, nil
}

// Delete removes a group with every row that belongs to it in one
// transaction. Children go first so the result does not depend on the
// database enforcing ON DELETE CASCADE.
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		tx := r.Write(ctx)
		children := []interface{}{
			&LedgerEntryEntity{},
			&DueEntity{},
			&AuctionEntity{},
			&ScheduledAuctionDateEntity{},
			&MembershipEntity{},
		}
		for _, c := range children {
			if err := tx.Where("group_id = ?", id).Delete(c).Error; err != nil {
				return translate(err)
			}
		}
		res := tx.Where("id = ?", id).Delete(&GroupEntity{})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func page(limit, offset int) (int, int) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
