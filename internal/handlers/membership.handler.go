package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/chit-ledger/internal/model"
	xhttp "github.com/nimasrn/chit-ledger/pkg/http"
)

type MembershipService interface {
	RegisterMember(ctx context.Context, p model.MemberCreateRequest) (*model.Member, error)
	ListMemberships(ctx context.Context, f model.MembershipFilter) ([]*model.Membership, error)
	AddMember(ctx context.Context, groupID, memberID string, ticket int, catchUp int64) (*model.Membership, error)
	RemoveMember(ctx context.Context, groupID, memberID, reason string) error
	ReplaceMember(ctx context.Context, groupID, oldMemberID, newMemberID string, catchUp int64) (*model.Membership, error)
	CatchUpQuote(ctx context.Context, groupID string) (*model.CatchUpQuote, error)
	ExitQuote(ctx context.Context, groupID, memberID string) (*model.ExitQuote, error)
	SettleExit(ctx context.Context, groupID, memberID string) (*model.LedgerEntry, error)
}

type MembershipHandler struct {
	svc MembershipService
}

// Member-scoped routes under a group address the member id, not the
// membership id, since a member may hold several memberships over time.
func RegisterMembershipRoutes(e *router.Group, h *MembershipHandler) {
	e.POST("/members", h.RegisterMember)
	e.GET("/groups/{id}/memberships", h.ListMemberships)
	e.POST("/groups/{id}/memberships", h.AddMember)
	e.GET("/groups/{id}/catch-up", h.CatchUpQuote)
	e.POST("/groups/{id}/memberships/{member_id}/remove", h.RemoveMember)
	e.POST("/groups/{id}/memberships/{member_id}/replace", h.ReplaceMember)
	e.GET("/groups/{id}/memberships/{member_id}/exit-quote", h.ExitQuote)
	e.POST("/groups/{id}/memberships/{member_id}/settle", h.SettleExit)
}

func NewMembershipHandler(svc MembershipService) *MembershipHandler {
	return &MembershipHandler{svc: svc}
}

type addMemberRequest struct {
	MemberID     string `json:"member_id"`
	TicketNumber int    `json:"ticket_number"`
	CatchUp      int64  `json:"catch_up"`
}

type removeMemberRequest struct {
	Reason string `json:"reason"`
}

type replaceMemberRequest struct {
	NewMemberID string `json:"new_member_id"`
	CatchUp     int64  `json:"catch_up"`
}

func (h *MembershipHandler) RegisterMember(ctx *xhttp.RequestCtx) {
	var req model.MemberCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	m, err := h.svc.RegisterMember(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, m)
}

func (h *MembershipHandler) ListMemberships(ctx *xhttp.RequestCtx) {
	active, err := queryBool(ctx, "active")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid active flag")
		return
	}
	items, err := h.svc.ListMemberships(ctx, model.MembershipFilter{
		GroupID:  pathParam(ctx, "id"),
		MemberID: query(ctx, "member_id"),
		Active:   active,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse[*model.Membership]{Items: items, Total: int64(len(items))})
}

func (h *MembershipHandler) AddMember(ctx *xhttp.RequestCtx) {
	var req addMemberRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	ms, err := h.svc.AddMember(ctx, pathParam(ctx, "id"), req.MemberID, req.TicketNumber, req.CatchUp)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, ms)
}

func (h *MembershipHandler) RemoveMember(ctx *xhttp.RequestCtx) {
	var req removeMemberRequest
	if len(ctx.PostBody()) > 0 {
		if err := readJSON(ctx, &req); err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
	}
	if err := h.svc.RemoveMember(ctx, pathParam(ctx, "id"), pathParam(ctx, "member_id"), req.Reason); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}

func (h *MembershipHandler) ReplaceMember(ctx *xhttp.RequestCtx) {
	var req replaceMemberRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	ms, err := h.svc.ReplaceMember(ctx, pathParam(ctx, "id"), pathParam(ctx, "member_id"), req.NewMemberID, req.CatchUp)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, ms)
}

func (h *MembershipHandler) CatchUpQuote(ctx *xhttp.RequestCtx) {
	q, err := h.svc.CatchUpQuote(ctx, pathParam(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, q)
}

func (h *MembershipHandler) ExitQuote(ctx *xhttp.RequestCtx) {
	q, err := h.svc.ExitQuote(ctx, pathParam(ctx, "id"), pathParam(ctx, "member_id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, q)
}

func (h *MembershipHandler) SettleExit(ctx *xhttp.RequestCtx) {
	entry, err := h.svc.SettleExit(ctx, pathParam(ctx, "id"), pathParam(ctx, "member_id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, entry)
}
