package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReportHandler_ListDues(t *testing.T) {
	t.Run("filters", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)
		svc.On("ListDues", mock.Anything, mock.MatchedBy(func(f model.DueFilter) bool {
			return f.GroupID == "g1" && f.Month != nil && *f.Month == 2 &&
				assert.ObjectsAreEqual([]model.DueStatus{model.DueStatusPending, model.DueStatusPartial}, f.Statuses) &&
				f.Limit == 10
		})).Return([]*model.Due{{ID: "d1"}, {ID: "d2"}}, int64(9), nil)

		ctx := setupTestContext("GET", "/api/v1/groups/g1/dues?month=2&status=pending,%20partial&limit=10", nil, "id", "g1")
		handler.ListDues(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		var response listResponse[*model.Due]
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Len(t, response.Items, 2)
		assert.Equal(t, int64(9), response.Total)
		svc.AssertExpectations(t)
	})

	t.Run("bad month", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)

		ctx := setupTestContext("GET", "/api/v1/groups/g1/dues?month=feb", nil, "id", "g1")
		handler.ListDues(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "ListDues", mock.Anything, mock.Anything)
	})
}

func TestReportHandler_GroupStats(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)
		svc.On("GroupStats", mock.Anything, "g1").
			Return(&model.GroupStats{GroupID: "g1", Commissions: 4000, BadDebts: 12400, OperationalCosts: 500, ForemanProfit: -8900}, nil)

		ctx := setupTestContext("GET", "/api/v1/groups/g1/stats", nil, "id", "g1")
		handler.GroupStats(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		var stats model.GroupStats
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &stats))
		assert.Equal(t, int64(-8900), stats.ForemanProfit)
	})

	t.Run("unknown group", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)
		svc.On("GroupStats", mock.Anything, "nope").Return(nil, services.ErrGroupNotFound)

		ctx := setupTestContext("GET", "/api/v1/groups/nope/stats", nil, "id", "nope")
		handler.GroupStats(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})
}

func TestReportHandler_LedgerFeed(t *testing.T) {
	svc := new(MockReportService)
	handler := NewReportHandler(svc)
	svc.On("LedgerFeed", mock.Anything, model.LedgerFilter{
		GroupID:      "g1",
		MembershipID: "ms1",
		Kinds:        []model.LedgerKind{model.LedgerKindPrize, model.LedgerKindCommission},
	}).Return([]*model.LedgerEntry{{ID: "l1"}}, nil)

	ctx := setupTestContext("GET", "/api/v1/groups/g1/ledger?kind=prize,commission&membership_id=ms1", nil, "id", "g1")
	handler.LedgerFeed(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())
	svc.AssertExpectations(t)
}

func TestReportHandler_RecentLedger(t *testing.T) {
	svc := new(MockReportService)
	handler := NewReportHandler(svc)
	svc.On("RecentLedger", mock.Anything, 20).Return([]*model.LedgerEntry{}, nil)

	ctx := setupTestContext("GET", "/api/v1/ledger/recent", nil)
	handler.RecentLedger(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())
	svc.AssertExpectations(t)
}

func TestReportHandler_SimpleReads(t *testing.T) {
	svc := new(MockReportService)
	handler := NewReportHandler(svc)
	svc.On("PendingDues", mock.Anything, "g1").Return([]*model.Due{{ID: "d1"}}, int64(1), nil)
	svc.On("MonthlyDueSummary", mock.Anything, "g1").Return([]*model.MonthlyDueSummary{{Month: 1, DueCount: 10}}, nil)
	svc.On("Defaulters", mock.Anything, "g1").Return([]*model.Defaulter{{MembershipID: "ms1", Outstanding: 2400}}, nil)
	svc.On("PaymentHistory", mock.Anything, "ms1").Return([]*model.LedgerEntry{{ID: "l1"}}, nil)
	svc.On("GlobalTotals", mock.Anything).Return(&model.GlobalTotals{ActiveGroups: 1}, nil)

	calls := []struct {
		handle func(*testing.T)
	}{
		{func(t *testing.T) {
			ctx := setupTestContext("GET", "/api/v1/groups/g1/dues/pending", nil, "id", "g1")
			handler.PendingDues(ctx)
			assert.Equal(t, 200, ctx.Response.StatusCode())
		}},
		{func(t *testing.T) {
			ctx := setupTestContext("GET", "/api/v1/groups/g1/dues/summary", nil, "id", "g1")
			handler.MonthlyDueSummary(ctx)
			assert.Equal(t, 200, ctx.Response.StatusCode())
		}},
		{func(t *testing.T) {
			ctx := setupTestContext("GET", "/api/v1/groups/g1/defaulters", nil, "id", "g1")
			handler.Defaulters(ctx)
			assert.Equal(t, 200, ctx.Response.StatusCode())
		}},
		{func(t *testing.T) {
			ctx := setupTestContext("GET", "/api/v1/memberships/ms1/payments", nil, "id", "ms1")
			handler.PaymentHistory(ctx)
			assert.Equal(t, 200, ctx.Response.StatusCode())
		}},
		{func(t *testing.T) {
			ctx := setupTestContext("GET", "/api/v1/totals", nil)
			handler.GlobalTotals(ctx)
			assert.Equal(t, 200, ctx.Response.StatusCode())
		}},
	}
	for _, c := range calls {
		c.handle(t)
	}
	svc.AssertExpectations(t)
}

func TestHealthHandler(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		handler := NewHealthHandler(map[string]HealthCheck{
			"db": func(context.Context) error { return nil },
		})

		ctx := setupTestContext("GET", "/api/v1/health", nil)
		handler.GetHealth(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		var report map[string]string
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &report))
		assert.Equal(t, "ok", report["db"])
	})

	t.Run("dependency down", func(t *testing.T) {
		handler := NewHealthHandler(map[string]HealthCheck{
			"db":    func(context.Context) error { return nil },
			"redis": func(context.Context) error { return errors.New("connection refused") },
		})

		ctx := setupTestContext("GET", "/api/v1/health", nil)
		handler.GetHealth(ctx)

		assert.Equal(t, 503, ctx.Response.StatusCode())
		var report map[string]string
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &report))
		assert.Equal(t, "connection refused", report["redis"])
	})
}
