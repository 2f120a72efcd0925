package repository

import (
	"context"

	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/pkg/pg"
)

type LedgerRepository struct {
	*pg.DB
}

func NewLedgerRepository(db *pg.DB) *LedgerRepository {
	return &LedgerRepository{
		db,
	}
}

// List returns ledger entries newest first.
func (r *LedgerRepository) List(ctx context.Context, f model.LedgerFilter) ([]*model.LedgerEntry, error) {
	q := r.Read(ctx).Model(&LedgerEntryEntity{})
	if f.GroupID != "" {
		q = q.Where("group_id = ?", f.GroupID)
	}
	if f.MembershipID != "" {
		q = q.Where("membership_id = ?", f.MembershipID)
	}
	if len(f.Kinds) > 0 {
		kinds := make([]string, len(f.Kinds))
		for i, k := range f.Kinds {
			kinds[i] = string(k)
		}
		q = q.Where("kind IN ?", kinds)
	}

	limit, offset := page(f.Limit, f.Offset)
	var entities []*LedgerEntryEntity
	if err := q.Order("created_at DESC, transaction_date DESC").Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, err
	}
	return toLedgerEntryModels(entities), nil
}
