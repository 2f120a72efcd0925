package repository

import (
	"time"

	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/pkg/pg"
)

type AuctionEntity struct {
	pg.Model
	GroupID            string            `gorm:"column:group_id;type:varchar(36);not null;uniqueIndex:idx_auctions_group_month"`
	Group              *GroupEntity      `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:CASCADE"`
	Month              int               `gorm:"column:month;not null;uniqueIndex:idx_auctions_group_month"`
	WinnerMembershipID string            `gorm:"column:winner_membership_id;type:varchar(36);not null;index"`
	Winner             *MembershipEntity `gorm:"foreignKey:WinnerMembershipID;references:ID;constraint:OnDelete:CASCADE"`
	BidAmount          int64             `gorm:"column:bid_amount;not null"`
	Commission         int64             `gorm:"column:commission;not null"`
	Dividend           int64             `gorm:"column:dividend;not null"`
	NextPayable        int64             `gorm:"column:next_payable;not null"`
	AuctionDate        time.Time         `gorm:"column:auction_date;not null"`
}

func (AuctionEntity) TableName() string { return "auctions" }

func toAuctionEntity(m *model.Auction) *AuctionEntity {
	if m == nil {
		return nil
	}
	return &AuctionEntity{
		Model:              pg.Model{ID: m.ID, CreatedAt: m.CreatedAt},
		GroupID:            m.GroupID,
		Month:              m.Month,
		WinnerMembershipID: m.WinnerMembershipID,
		BidAmount:          m.BidAmount,
		Commission:         m.Commission,
		Dividend:           m.Dividend,
		NextPayable:        m.NextPayable,
		AuctionDate:        m.AuctionDate,
	}
}

func toAuctionModel(e *AuctionEntity) *model.Auction {
	if e == nil {
		return nil
	}
	a := &model.Auction{
		ID:                 e.ID,
		GroupID:            e.GroupID,
		Month:              e.Month,
		WinnerMembershipID: e.WinnerMembershipID,
		BidAmount:          e.BidAmount,
		Commission:         e.Commission,
		Dividend:           e.Dividend,
		NextPayable:        e.NextPayable,
		AuctionDate:        e.AuctionDate,
		CreatedAt:          e.CreatedAt,
	}
	if e.Winner != nil {
		a.WinnerTicket = e.Winner.TicketNumber
		if e.Winner.Member != nil {
			a.WinnerName = e.Winner.Member.Name
		}
	}
	return a
}

func toAuctionModels(entities []*AuctionEntity) []*model.Auction {
	models := make([]*model.Auction, len(entities))
	for i, e := range entities {
		models[i] = toAuctionModel(e)
	}
	return models
}

type ScheduledAuctionDateEntity struct {
	pg.Model
	GroupID          string       `gorm:"column:group_id;type:varchar(36);not null;uniqueIndex:idx_schedule_group_month"`
	Group            *GroupEntity `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:CASCADE"`
	Month            int          `gorm:"column:month;not null;uniqueIndex:idx_schedule_group_month"`
	AuctionDate      time.Time    `gorm:"column:auction_date;not null"`
	ManuallyAdjusted bool         `gorm:"column:manually_adjusted;not null;default:false"`
}

func (ScheduledAuctionDateEntity) TableName() string { return "scheduled_auction_dates" }

func toScheduledDateEntity(m *model.ScheduledAuctionDate) *ScheduledAuctionDateEntity {
	if m == nil {
		return nil
	}
	return &ScheduledAuctionDateEntity{
		Model:            pg.Model{ID: m.ID, CreatedAt: m.CreatedAt},
		GroupID:          m.GroupID,
		Month:            m.Month,
		AuctionDate:      m.AuctionDate,
		ManuallyAdjusted: m.ManuallyAdjusted,
	}
}

func toScheduledDateModel(e *ScheduledAuctionDateEntity) *model.ScheduledAuctionDate {
	if e == nil {
		return nil
	}
	return &model.ScheduledAuctionDate{
		ID:               e.ID,
		GroupID:          e.GroupID,
		Month:            e.Month,
		AuctionDate:      e.AuctionDate,
		ManuallyAdjusted: e.ManuallyAdjusted,
		CreatedAt:        e.CreatedAt,
	}
}
