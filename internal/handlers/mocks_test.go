package handlers

import (
	"context"
	"time"

	"github.com/nimasrn/chit-ledger/internal/model"
	xhttp "github.com/nimasrn/chit-ledger/pkg/http"
	"github.com/stretchr/testify/mock"
	"github.com/valyala/fasthttp"
)

type MockGroupService struct {
	mock.Mock
}

func (m *MockGroupService) CreateGroup(ctx context.Context, p model.GroupCreateRequest) (*model.Group, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupService) GetGroup(ctx context.Context, groupID string) (*model.Group, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupService) ListGroups(ctx context.Context, f model.GroupFilter) ([]*model.Group, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Group), args.Get(1).(int64), args.Error(2)
}

func (m *MockGroupService) CloseGroup(ctx context.Context, groupID string) error {
	return m.Called(ctx, groupID).Error(0)
}

func (m *MockGroupService) DeleteGroup(ctx context.Context, groupID string) error {
	return m.Called(ctx, groupID).Error(0)
}

func (m *MockGroupService) RescheduleAuction(ctx context.Context, groupID string, month int, date time.Time) error {
	return m.Called(ctx, groupID, month, date).Error(0)
}

func (m *MockGroupService) ListSchedule(ctx context.Context, groupID string) ([]*model.ScheduledAuctionDate, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ScheduledAuctionDate), args.Error(1)
}

type MockAuctionService struct {
	mock.Mock
}

func (m *MockAuctionService) ConductAuction(ctx context.Context, p model.AuctionRequest) (*model.Auction, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Auction), args.Error(1)
}

func (m *MockAuctionService) PreviewAuction(ctx context.Context, groupID string, bid int64) (*model.AuctionOutcome, error) {
	args := m.Called(ctx, groupID, bid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuctionOutcome), args.Error(1)
}

func (m *MockAuctionService) ListAuctions(ctx context.Context, groupID string) ([]*model.Auction, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Auction), args.Error(1)
}

type MockMembershipService struct {
	mock.Mock
}

func (m *MockMembershipService) RegisterMember(ctx context.Context, p model.MemberCreateRequest) (*model.Member, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Member), args.Error(1)
}

func (m *MockMembershipService) ListMemberships(ctx context.Context, f model.MembershipFilter) ([]*model.Membership, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Membership), args.Error(1)
}

func (m *MockMembershipService) AddMember(ctx context.Context, groupID, memberID string, ticket int, catchUp int64) (*model.Membership, error) {
	args := m.Called(ctx, groupID, memberID, ticket, catchUp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Membership), args.Error(1)
}

func (m *MockMembershipService) RemoveMember(ctx context.Context, groupID, memberID, reason string) error {
	return m.Called(ctx, groupID, memberID, reason).Error(0)
}

func (m *MockMembershipService) ReplaceMember(ctx context.Context, groupID, oldMemberID, newMemberID string, catchUp int64) (*model.Membership, error) {
	args := m.Called(ctx, groupID, oldMemberID, newMemberID, catchUp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Membership), args.Error(1)
}

func (m *MockMembershipService) CatchUpQuote(ctx context.Context, groupID string) (*model.CatchUpQuote, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CatchUpQuote), args.Error(1)
}

func (m *MockMembershipService) ExitQuote(ctx context.Context, groupID, memberID string) (*model.ExitQuote, error) {
	args := m.Called(ctx, groupID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExitQuote), args.Error(1)
}

func (m *MockMembershipService) SettleExit(ctx context.Context, groupID, memberID string) (*model.LedgerEntry, error) {
	args := m.Called(ctx, groupID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerEntry), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) RecordPayment(ctx context.Context, p model.PaymentRequest) (*model.Due, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Due), args.Error(1)
}

func (m *MockPaymentService) MarkReceiptSent(ctx context.Context, dueID string) error {
	return m.Called(ctx, dueID).Error(0)
}

func (m *MockPaymentService) RecordOperationalCost(ctx context.Context, groupID string, amount int64, note string) (*model.LedgerEntry, error) {
	args := m.Called(ctx, groupID, amount, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerEntry), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) ListDues(ctx context.Context, f model.DueFilter) ([]*model.Due, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Due), args.Get(1).(int64), args.Error(2)
}

func (m *MockReportService) PendingDues(ctx context.Context, groupID string) ([]*model.Due, int64, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Due), args.Get(1).(int64), args.Error(2)
}

func (m *MockReportService) Defaulters(ctx context.Context, groupID string) ([]*model.Defaulter, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Defaulter), args.Error(1)
}

func (m *MockReportService) GroupStats(ctx context.Context, groupID string) (*model.GroupStats, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GroupStats), args.Error(1)
}

func (m *MockReportService) GlobalTotals(ctx context.Context) (*model.GlobalTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GlobalTotals), args.Error(1)
}

func (m *MockReportService) RecentLedger(ctx context.Context, limit int) ([]*model.LedgerEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LedgerEntry), args.Error(1)
}

func (m *MockReportService) LedgerFeed(ctx context.Context, f model.LedgerFilter) ([]*model.LedgerEntry, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LedgerEntry), args.Error(1)
}

func (m *MockReportService) PaymentHistory(ctx context.Context, membershipID string) ([]*model.LedgerEntry, error) {
	args := m.Called(ctx, membershipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LedgerEntry), args.Error(1)
}

func (m *MockReportService) MonthlyDueSummary(ctx context.Context, groupID string) ([]*model.MonthlyDueSummary, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MonthlyDueSummary), args.Error(1)
}

func setupTestContext(method, path string, body []byte, params ...string) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	for i := 0; i+1 < len(params); i += 2 {
		ctx.SetUserValue(params[i], params[i+1])
	}
	return ctx
}
