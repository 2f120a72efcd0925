package handlers

import (
	"context"
	"time"

	"github.com/fasthttp/router"
	"github.com/nimasrn/chit-ledger/internal/model"
	xhttp "github.com/nimasrn/chit-ledger/pkg/http"
)

type GroupService interface {
	CreateGroup(ctx context.Context, p model.GroupCreateRequest) (*model.Group, error)
	GetGroup(ctx context.Context, groupID string) (*model.Group, error)
	ListGroups(ctx context.Context, f model.GroupFilter) ([]*model.Group, int64, error)
	CloseGroup(ctx context.Context, groupID string) error
	DeleteGroup(ctx context.Context, groupID string) error
	RescheduleAuction(ctx context.Context, groupID string, month int, date time.Time) error
	ListSchedule(ctx context.Context, groupID string) ([]*model.ScheduledAuctionDate, error)
}

type GroupHandler struct {
	svc GroupService
}

func RegisterGroupRoutes(e *router.Group, h *GroupHandler) {
	e.POST("/groups", h.CreateGroup)
	e.GET("/groups", h.ListGroups)
	e.GET("/groups/{id}", h.GetGroup)
	e.DELETE("/groups/{id}", h.DeleteGroup)
	e.POST("/groups/{id}/close", h.CloseGroup)
	e.GET("/groups/{id}/schedule", h.ListSchedule)
	e.PUT("/groups/{id}/schedule/{month}", h.RescheduleAuction)
}

func NewGroupHandler(svc GroupService) *GroupHandler {
	return &GroupHandler{svc: svc}
}

type rescheduleRequest struct {
	Date string `json:"date"`
}

func (h *GroupHandler) CreateGroup(ctx *xhttp.RequestCtx) {
	var req model.GroupCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	g, err := h.svc.CreateGroup(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, g)
}

func (h *GroupHandler) ListGroups(ctx *xhttp.RequestCtx) {
	var (
		f   model.GroupFilter
		err error
	)
	if v := query(ctx, "status"); v != "" {
		status := model.GroupStatus(v)
		f.Status = &status
	}
	if f.Limit, err = queryInt(ctx, "limit", 0); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid limit")
		return
	}
	if f.Offset, err = queryInt(ctx, "offset", 0); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid offset")
		return
	}

	items, total, err := h.svc.ListGroups(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse[*model.Group]{Items: items, Total: total})
}

func (h *GroupHandler) GetGroup(ctx *xhttp.RequestCtx) {
	g, err := h.svc.GetGroup(ctx, pathParam(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, g)
}

func (h *GroupHandler) DeleteGroup(ctx *xhttp.RequestCtx) {
	if err := h.svc.DeleteGroup(ctx, pathParam(ctx, "id")); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}

func (h *GroupHandler) CloseGroup(ctx *xhttp.RequestCtx) {
	if err := h.svc.CloseGroup(ctx, pathParam(ctx, "id")); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}

func (h *GroupHandler) ListSchedule(ctx *xhttp.RequestCtx) {
	items, err := h.svc.ListSchedule(ctx, pathParam(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse[*model.ScheduledAuctionDate]{Items: items, Total: int64(len(items))})
}

func (h *GroupHandler) RescheduleAuction(ctx *xhttp.RequestCtx) {
	month, err := pathInt(ctx, "month")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid month")
		return
	}
	var req rescheduleRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	date, err := parseTime(req.Date)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid date")
		return
	}
	if err := h.svc.RescheduleAuction(ctx, pathParam(ctx, "id"), month, date); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}
