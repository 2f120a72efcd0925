package handlers

import (
	"context"
	"strconv"

	"github.com/fasthttp/router"
	"github.com/nimasrn/chit-ledger/internal/model"
	xhttp "github.com/nimasrn/chit-ledger/pkg/http"
)

type AuctionService interface {
	ConductAuction(ctx context.Context, p model.AuctionRequest) (*model.Auction, error)
	PreviewAuction(ctx context.Context, groupID string, bid int64) (*model.AuctionOutcome, error)
	ListAuctions(ctx context.Context, groupID string) ([]*model.Auction, error)
}

type AuctionHandler struct {
	svc AuctionService
}

func RegisterAuctionRoutes(e *router.Group, h *AuctionHandler) {
	e.POST("/groups/{id}/auctions", h.ConductAuction)
	e.GET("/groups/{id}/auctions", h.ListAuctions)
	e.GET("/groups/{id}/auctions/preview", h.PreviewAuction)
}

func NewAuctionHandler(svc AuctionService) *AuctionHandler {
	return &AuctionHandler{svc: svc}
}

func (h *AuctionHandler) ConductAuction(ctx *xhttp.RequestCtx) {
	var req model.AuctionRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	req.GroupID = pathParam(ctx, "id")

	a, err := h.svc.ConductAuction(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, a)
}

func (h *AuctionHandler) PreviewAuction(ctx *xhttp.RequestCtx) {
	bid, err := strconv.ParseInt(query(ctx, "bid"), 10, 64)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid bid")
		return
	}
	out, err := h.svc.PreviewAuction(ctx, pathParam(ctx, "id"), bid)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, out)
}

func (h *AuctionHandler) ListAuctions(ctx *xhttp.RequestCtx) {
	items, err := h.svc.ListAuctions(ctx, pathParam(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse[*model.Auction]{Items: items, Total: int64(len(items))})
}
