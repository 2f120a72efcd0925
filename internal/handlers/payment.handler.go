package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/chit-ledger/internal/model"
	xhttp "github.com/nimasrn/chit-ledger/pkg/http"
)

type PaymentService interface {
	RecordPayment(ctx context.Context, p model.PaymentRequest) (*model.Due, error)
	MarkReceiptSent(ctx context.Context, dueID string) error
	RecordOperationalCost(ctx context.Context, groupID string, amount int64, note string) (*model.LedgerEntry, error)
}

type PaymentHandler struct {
	svc PaymentService
}

func RegisterPaymentRoutes(e *router.Group, h *PaymentHandler) {
	e.POST("/payments", h.RecordPayment)
	e.POST("/dues/{id}/receipt", h.MarkReceiptSent)
	e.POST("/groups/{id}/costs", h.RecordOperationalCost)
}

func NewPaymentHandler(svc PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type costRequest struct {
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

func (h *PaymentHandler) RecordPayment(ctx *xhttp.RequestCtx) {
	var req model.PaymentRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	due, err := h.svc.RecordPayment(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, due)
}

func (h *PaymentHandler) MarkReceiptSent(ctx *xhttp.RequestCtx) {
	if err := h.svc.MarkReceiptSent(ctx, pathParam(ctx, "id")); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}

func (h *PaymentHandler) RecordOperationalCost(ctx *xhttp.RequestCtx) {
	var req costRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	entry, err := h.svc.RecordOperationalCost(ctx, pathParam(ctx, "id"), req.Amount, req.Note)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, entry)
}
