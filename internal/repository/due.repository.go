package repository

import (
	"context"

	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/pkg/pg"
)

type DueRepository struct {
	*pg.DB
}

func NewDueRepository(db *pg.DB) *DueRepository {
	return &DueRepository{
		db,
	}
}

func (r *DueRepository) GetByID(ctx context.Context, id string) (*model.Due, error) {
	var entity DueEntity
	if err := r.Read(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return toDueModel(&entity), nil
}

func (r *DueRepository) List(ctx context.Context, f model.DueFilter) ([]*model.Due, int64, error) {
	q := r.Read(ctx).Model(&DueEntity{})
	if f.GroupID != "" {
		q = q.Where("group_id = ?", f.GroupID)
	}
	if f.MembershipID != "" {
		q = q.Where("membership_id = ?", f.MembershipID)
	}
	if f.Month != nil {
		q = q.Where("month = ?", *f.Month)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		q = q.Where("status IN ?", statuses)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := page(f.Limit, f.Offset)
	var entities []*DueEntity
	if err := q.Order("month ASC, created_at ASC").Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}
	return toDueModels(entities), total, nil
}
