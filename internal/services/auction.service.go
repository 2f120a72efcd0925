package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/nimasrn/chit-ledger/internal/calculator"
	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/internal/repository"
	"github.com/nimasrn/chit-ledger/pkg/logger"
	"github.com/nimasrn/chit-ledger/pkg/prom"
)

type AuctionService struct {
	writer
	groups      GroupRepository
	memberships MembershipRepository
	auctions    AuctionRepository
}

func NewAuctionService(store Store, groups GroupRepository, memberships MembershipRepository, auctions AuctionRepository, events EventPublisher, locker GroupLocker) *AuctionService {
	return &AuctionService{
		writer:      writer{store: store, events: events, locker: locker},
		groups:      groups,
		memberships: memberships,
		auctions:    auctions,
	}
}

// ConductAuction awards the current month's pot to the winner and rolls the
// group over to the next month.
func (s *AuctionService) ConductAuction(ctx context.Context, p model.AuctionRequest) (*model.Auction, error) {
	if err := p.Validate(); err != nil {
		return nil, invalid(err)
	}

	release, err := s.lock(ctx, p.GroupID)
	if err != nil {
		return nil, err
	}
	defer release()

	g, err := s.groups.GetByID(ctx, p.GroupID)
	if err != nil {
		return nil, lookupErr(err, ErrGroupNotFound)
	}
	if !g.IsActive() {
		return nil, ErrGroupClosed
	}
	if p.Month != g.CurrentMonth || p.Month > g.Duration {
		return nil, ErrMonthMismatch
	}
	if p.BidAmount > g.PotValue {
		return nil, ErrBidOutOfRange
	}

	existing, err := s.auctions.GetByMonth(ctx, g.ID, p.Month)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAuctionExists
	}

	winner, err := s.memberships.GetByID(ctx, p.WinnerMembershipID)
	if err != nil {
		return nil, lookupErr(err, ErrMembershipNotFound)
	}
	if winner.GroupID != g.ID || !winner.IsActive {
		return nil, ErrWinnerNotEligible
	}
	if winner.IsPrized {
		return nil, ErrAlreadyPrized
	}

	out := calculator.AuctionOutcome(g.PotValue, g.BaseInstallment, p.BidAmount, g.CommissionRate, g.TotalMembers)
	nextPayable := out.NextPayable
	if nextPayable < 0 {
		nextPayable = 0
	}

	auctionDate := p.AuctionDate
	if auctionDate.IsZero() {
		auctionDate = now()
	}
	a := &model.Auction{
		ID:                 uuid.NewString(),
		GroupID:            g.ID,
		Month:              p.Month,
		WinnerMembershipID: winner.ID,
		BidAmount:          p.BidAmount,
		Commission:         out.Commission,
		Dividend:           out.Dividend,
		NextPayable:        nextPayable,
		AuctionDate:        auctionDate,
	}

	ops := []repository.WriteOp{
		repository.InsertAuction{Auction: a},
		repository.MarkMembershipPrized{MembershipID: winner.ID},
	}

	if p.Month < g.Duration {
		active := true
		memberships, err := s.memberships.List(ctx, model.MembershipFilter{GroupID: g.ID, Active: &active})
		if err != nil {
			return nil, err
		}
		for _, ms := range memberships {
			ops = append(ops, repository.InsertDue{Due: &model.Due{
				ID:           uuid.NewString(),
				GroupID:      g.ID,
				MembershipID: ms.ID,
				Month:        p.Month + 1,
				AmountDue:    nextPayable,
				Status:       dueStatusForAmount(nextPayable),
			}})
		}
	}

	winnerID := winner.ID
	ops = append(ops,
		repository.AppendLedgerEntry{Entry: &model.LedgerEntry{
			ID:              uuid.NewString(),
			GroupID:         g.ID,
			Kind:            model.LedgerKindPrize,
			Amount:          p.BidAmount,
			MembershipID:    &winnerID,
			Note:            "auction prize",
			TransactionDate: auctionDate,
		}},
		repository.AppendLedgerEntry{Entry: &model.LedgerEntry{
			ID:              uuid.NewString(),
			GroupID:         g.ID,
			Kind:            model.LedgerKindCommission,
			Amount:          out.Commission,
			Note:            "foreman commission",
			TransactionDate: auctionDate,
		}},
		repository.AdjustMembershipTotals{MembershipID: winner.ID, ReceivedDelta: p.BidAmount},
		repository.AdvanceGroupMonth{GroupID: g.ID, From: p.Month, To: p.Month + 1},
	)

	if err := s.exec(ctx, ops...); err != nil {
		logger.Warn("auction rejected by store", "group_id", g.ID, "month", p.Month, "error", err)
		return nil, err
	}

	prom.AuctionCommitted(p.BidAmount)
	logger.Info("auction committed",
		"group_id", g.ID,
		"month", p.Month,
		"winner", winner.ID,
		"bid", p.BidAmount,
		"commission", out.Commission,
		"dividend", out.Dividend,
		"next_payable", nextPayable,
	)
	s.publish(ctx, &model.Event{
		Type:         model.EventAuctionCommitted,
		GroupID:      g.ID,
		MembershipID: winner.ID,
		Month:        p.Month,
		Ledger: []model.LedgerLine{
			{Kind: model.LedgerKindPrize, Amount: p.BidAmount},
			{Kind: model.LedgerKindCommission, Amount: out.Commission},
		},
	})
	return a, nil
}

// PreviewAuction derives the outcome of a bid without writing anything.
func (s *AuctionService) PreviewAuction(ctx context.Context, groupID string, bid int64) (*model.AuctionOutcome, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, lookupErr(err, ErrGroupNotFound)
	}
	if bid <= 0 || bid > g.PotValue {
		return nil, ErrBidOutOfRange
	}
	out := calculator.AuctionOutcome(g.PotValue, g.BaseInstallment, bid, g.CommissionRate, g.TotalMembers)
	nextPayable := out.NextPayable
	if nextPayable < 0 {
		nextPayable = 0
	}
	return &model.AuctionOutcome{
		BidAmount:   bid,
		Commission:  out.Commission,
		Dividend:    out.Dividend,
		NextPayable: nextPayable,
		PrizeMoney:  out.PrizeMoney,
	}, nil
}

// ListAuctions returns a group's auction history with winner identity.
func (s *AuctionService) ListAuctions(ctx context.Context, groupID string) ([]*model.Auction, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, lookupErr(err, ErrGroupNotFound)
	}
	return s.auctions.ListByGroup(ctx, groupID)
}

// A zero installment is settled on creation.
func dueStatusForAmount(amount int64) model.DueStatus {
	if amount == 0 {
		return model.DueStatusPaid
	}
	return model.DueStatusPending
}
