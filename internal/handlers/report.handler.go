package handlers

import (
	"context"
	"strings"

	"github.com/fasthttp/router"
	"github.com/nimasrn/chit-ledger/internal/model"
	xhttp "github.com/nimasrn/chit-ledger/pkg/http"
)

type ReportService interface {
	ListDues(ctx context.Context, f model.DueFilter) ([]*model.Due, int64, error)
	PendingDues(ctx context.Context, groupID string) ([]*model.Due, int64, error)
	Defaulters(ctx context.Context, groupID string) ([]*model.Defaulter, error)
	GroupStats(ctx context.Context, groupID string) (*model.GroupStats, error)
	GlobalTotals(ctx context.Context) (*model.GlobalTotals, error)
	RecentLedger(ctx context.Context, limit int) ([]*model.LedgerEntry, error)
	LedgerFeed(ctx context.Context, f model.LedgerFilter) ([]*model.LedgerEntry, error)
	PaymentHistory(ctx context.Context, membershipID string) ([]*model.LedgerEntry, error)
	MonthlyDueSummary(ctx context.Context, groupID string) ([]*model.MonthlyDueSummary, error)
}

type ReportHandler struct {
	svc ReportService
}

func RegisterReportRoutes(e *router.Group, h *ReportHandler) {
	e.GET("/groups/{id}/dues", h.ListDues)
	e.GET("/groups/{id}/dues/pending", h.PendingDues)
	e.GET("/groups/{id}/dues/summary", h.MonthlyDueSummary)
	e.GET("/groups/{id}/defaulters", h.Defaulters)
	e.GET("/groups/{id}/stats", h.GroupStats)
	e.GET("/groups/{id}/ledger", h.LedgerFeed)
	e.GET("/memberships/{id}/payments", h.PaymentHistory)
	e.GET("/ledger/recent", h.RecentLedger)
	e.GET("/totals", h.GlobalTotals)
}

func NewReportHandler(svc ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) ListDues(ctx *xhttp.RequestCtx) {
	f := model.DueFilter{
		GroupID:      pathParam(ctx, "id"),
		MembershipID: query(ctx, "membership_id"),
	}
	if query(ctx, "month") != "" {
		month, err := queryInt(ctx, "month", 0)
		if err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid month")
			return
		}
		f.Month = &month
	}
	for _, s := range splitList(query(ctx, "status")) {
		f.Statuses = append(f.Statuses, model.DueStatus(s))
	}
	var err error
	if f.Limit, err = queryInt(ctx, "limit", 0); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid limit")
		return
	}
	if f.Offset, err = queryInt(ctx, "offset", 0); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid offset")
		return
	}

	items, total, err := h.svc.ListDues(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse[*model.Due]{Items: items, Total: total})
}

func (h *ReportHandler) PendingDues(ctx *xhttp.RequestCtx) {
	items, total, err := h.svc.PendingDues(ctx, pathParam(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse[*model.Due]{Items: items, Total: total})
}

func (h *ReportHandler) MonthlyDueSummary(ctx *xhttp.RequestCtx) {
	items, err := h.svc.MonthlyDueSummary(ctx, pathParam(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse[*model.MonthlyDueSummary]{Items: items, Total: int64(len(items))})
}

func (h *ReportHandler) Defaulters(ctx *xhttp.RequestCtx) {
	items, err := h.svc.Defaulters(ctx, pathParam(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse[*model.Defaulter]{Items: items, Total: int64(len(items))})
}

func (h *ReportHandler) GroupStats(ctx *xhttp.RequestCtx) {
	stats, err := h.svc.GroupStats(ctx, pathParam(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, stats)
}

func (h *ReportHandler) LedgerFeed(ctx *xhttp.RequestCtx) {
	f := model.LedgerFilter{
		GroupID:      pathParam(ctx, "id"),
		MembershipID: query(ctx, "membership_id"),
	}
	for _, k := range splitList(query(ctx, "kind")) {
		f.Kinds = append(f.Kinds, model.LedgerKind(k))
	}
	var err error
	if f.Limit, err = queryInt(ctx, "limit", 0); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid limit")
		return
	}
	if f.Offset, err = queryInt(ctx, "offset", 0); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid offset")
		return
	}

	items, err := h.svc.LedgerFeed(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse[*model.LedgerEntry]{Items: items, Total: int64(len(items))})
}

func (h *ReportHandler) PaymentHistory(ctx *xhttp.RequestCtx) {
	items, err := h.svc.PaymentHistory(ctx, pathParam(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse[*model.LedgerEntry]{Items: items, Total: int64(len(items))})
}

func (h *ReportHandler) RecentLedger(ctx *xhttp.RequestCtx) {
	limit, err := queryInt(ctx, "limit", 20)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid limit")
		return
	}
	items, err := h.svc.RecentLedger(ctx, limit)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse[*model.LedgerEntry]{Items: items, Total: int64(len(items))})
}

func (h *ReportHandler) GlobalTotals(ctx *xhttp.RequestCtx) {
	totals, err := h.svc.GlobalTotals(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, totals)
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
