package services

import (
	"context"

	"github.com/nimasrn/chit-ledger/internal/calculator"
	"github.com/nimasrn/chit-ledger/internal/model"
)

// ReportService answers read-only questions over committed state.
type ReportService struct {
	groups   GroupRepository
	dues     DueRepository
	ledger   LedgerRepository
	auctions AuctionRepository
	reports  ReportRepository
}

func NewReportService(groups GroupRepository, dues DueRepository, ledger LedgerRepository, auctions AuctionRepository, reports ReportRepository) *ReportService {
	return &ReportService{
		groups:   groups,
		dues:     dues,
		ledger:   ledger,
		auctions: auctions,
		reports:  reports,
	}
}

func (s *ReportService) ListDues(ctx context.Context, f model.DueFilter) ([]*model.Due, int64, error) {
	return s.dues.List(ctx, f)
}

// PendingDues lists a group's dues that are not fully paid.
func (s *ReportService) PendingDues(ctx context.Context, groupID string) ([]*model.Due, int64, error) {
	return s.dues.List(ctx, model.DueFilter{
		GroupID:  groupID,
		Statuses: []model.DueStatus{model.DueStatusPending, model.DueStatusPartial},
		Limit:    1000,
	})
}

func (s *ReportService) Defaulters(ctx context.Context, groupID string) ([]*model.Defaulter, error) {
	if err := s.ensureGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.reports.Defaulters(ctx, groupID)
}

// GroupStats summarizes a group's money. Bad debts are what exited
// memberships still owe.
func (s *ReportService) GroupStats(ctx context.Context, groupID string) (*model.GroupStats, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, lookupErr(err, ErrGroupNotFound)
	}
	members, active, err := s.reports.MembershipCounts(ctx, groupID)
	if err != nil {
		return nil, err
	}
	totals, err := s.reports.LedgerTotals(ctx, groupID)
	if err != nil {
		return nil, err
	}
	outstanding, badDebts, err := s.reports.Outstanding(ctx, groupID)
	if err != nil {
		return nil, err
	}

	commissions := totals[model.LedgerKindCommission]
	costs := totals[model.LedgerKindOperationalCost]
	return &model.GroupStats{
		GroupID:          g.ID,
		Members:          members,
		ActiveMembers:    active,
		CurrentMonth:     g.CurrentMonth,
		Collected:        totals[model.LedgerKindInstallmentPayment],
		Outstanding:      outstanding,
		Commissions:      commissions,
		Prizes:           totals[model.LedgerKindPrize],
		OperationalCosts: costs,
		BadDebts:         badDebts,
		ForemanProfit:    calculator.ForemanProfit(commissions, badDebts, costs),
	}, nil
}

func (s *ReportService) GlobalTotals(ctx context.Context) (*model.GlobalTotals, error) {
	totals, err := s.reports.LedgerTotals(ctx, "")
	if err != nil {
		return nil, err
	}
	active, inactive, err := s.reports.Outstanding(ctx, "")
	if err != nil {
		return nil, err
	}
	activeGroups, closedGroups, err := s.reports.GroupCounts(ctx)
	if err != nil {
		return nil, err
	}
	return &model.GlobalTotals{
		Collected:    totals[model.LedgerKindInstallmentPayment],
		Outstanding:  active + inactive,
		Commissions:  totals[model.LedgerKindCommission],
		ActiveGroups: activeGroups,
		ClosedGroups: closedGroups,
	}, nil
}

func (s *ReportService) RecentLedger(ctx context.Context, limit int) ([]*model.LedgerEntry, error) {
	return s.ledger.List(ctx, model.LedgerFilter{Limit: limit})
}

func (s *ReportService) LedgerFeed(ctx context.Context, f model.LedgerFilter) ([]*model.LedgerEntry, error) {
	for _, k := range f.Kinds {
		if !k.Valid() {
			return nil, invalid(errKind(k))
		}
	}
	return s.ledger.List(ctx, f)
}

// PaymentHistory lists a membership's installment payments, newest first.
func (s *ReportService) PaymentHistory(ctx context.Context, membershipID string) ([]*model.LedgerEntry, error) {
	return s.ledger.List(ctx, model.LedgerFilter{
		MembershipID: membershipID,
		Kinds:        []model.LedgerKind{model.LedgerKindInstallmentPayment},
		Limit:        1000,
	})
}

func (s *ReportService) AuctionHistory(ctx context.Context, groupID string) ([]*model.Auction, error) {
	if err := s.ensureGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.auctions.ListByGroup(ctx, groupID)
}

func (s *ReportService) MonthlyDueSummary(ctx context.Context, groupID string) ([]*model.MonthlyDueSummary, error) {
	if err := s.ensureGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.reports.MonthlyDueSummary(ctx, groupID)
}

func (s *ReportService) ensureGroup(ctx context.Context, groupID string) error {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return lookupErr(err, ErrGroupNotFound)
	}
	return nil
}
