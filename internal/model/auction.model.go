package model

import (
	"errors"
	"time"
)

// Auction is the immutable record of one month's award.
type Auction struct {
	ID                 string    `json:"id"`
	GroupID            string    `json:"group_id"`
	Month              int       `json:"month"`
	WinnerMembershipID string    `json:"winner_membership_id"`
	BidAmount          int64     `json:"bid_amount"`
	Commission         int64     `json:"commission"`
	Dividend           int64     `json:"dividend"`
	NextPayable        int64     `json:"next_payable"`
	AuctionDate        time.Time `json:"auction_date"`
	CreatedAt          time.Time `json:"created_at"`

	WinnerName   string `json:"winner_name,omitempty"`
	WinnerTicket int    `json:"winner_ticket,omitempty"`
}

type AuctionRequest struct {
	GroupID            string    `json:"group_id"`
	Month              int       `json:"month"`
	WinnerMembershipID string    `json:"winner_membership_id"`
	BidAmount          int64     `json:"bid_amount"`
	AuctionDate        time.Time `json:"auction_date"`
}

func (p AuctionRequest) Validate() error {
	if p.GroupID == "" {
		return errors.New("group_id is required")
	}
	if p.WinnerMembershipID == "" {
		return errors.New("winner_membership_id is required")
	}
	if p.Month < 1 {
		return errors.New("month must be positive")
	}
	if p.BidAmount <= 0 {
		return errors.New("bid_amount must be positive")
	}
	return nil
}

// AuctionOutcome is the money derived from a single bid.
type AuctionOutcome struct {
	BidAmount   int64 `json:"bid_amount"`
	Commission  int64 `json:"commission"`
	Dividend    int64 `json:"dividend"`
	NextPayable int64 `json:"next_payable"`
	PrizeMoney  int64 `json:"prize_money"`
}

// ScheduledAuctionDate is the planned date for a month's auction.
type ScheduledAuctionDate struct {
	ID               string    `json:"id"`
	GroupID          string    `json:"group_id"`
	Month            int       `json:"month"`
	AuctionDate      time.Time `json:"auction_date"`
	ManuallyAdjusted bool      `json:"manually_adjusted"`
	CreatedAt        time.Time `json:"created_at"`
}
