package repository

import (
	"context"

	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/pkg/pg"
)

type AuctionRepository struct {
	*pg.DB
}

func NewAuctionRepository(db *pg.DB) *AuctionRepository {
	return &AuctionRepository{
		db,
	}
}

// GetByMonth returns the auction of a group month, or nil when it has not
// run yet.
func (r *AuctionRepository) GetByMonth(ctx context.Context, groupID string, month int) (*model.Auction, error) {
	var entities []*AuctionEntity
	err := r.Read(ctx).
		Where("group_id = ? AND month = ?", groupID, month).
		Limit(1).
		Find(&entities).Error
	if err != nil || len(entities) == 0 {
		return nil, err
	}
	return toAuctionModel(entities[0]), nil
}

// ListByGroup returns a group's auctions in month order with the winner's
// ticket and name.
func (r *AuctionRepository) ListByGroup(ctx context.Context, groupID string) ([]*model.Auction, error) {
	var entities []*AuctionEntity
	err := r.Read(ctx).
		Preload("Winner").
		Preload("Winner.Member").
		Where("group_id = ?", groupID).
		Order("month ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toAuctionModels(entities), nil
}

func (r *AuctionRepository) ListScheduledDates(ctx context.Context, groupID string) ([]*model.ScheduledAuctionDate, error) {
	var entities []*ScheduledAuctionDateEntity
	err := r.Read(ctx).
		Where("group_id = ?", groupID).
		Order("month ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	out := make([]*model.ScheduledAuctionDate, len(entities))
	for i, e := range entities {
		out[i] = toScheduledDateModel(e)
	}
	return out, nil
}
