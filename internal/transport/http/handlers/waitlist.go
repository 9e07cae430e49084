package http_handlers

import (
	"context"
	"encoding/csv"
	"net/http"
	"strings"
	"time"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/waitlist"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/response"
)

type WaitlistService interface {
	Join(ctx context.Context, in waitlist.JoinInput) (domain.WaitlistEntry, error)
	List(ctx context.Context, actor authz.Principal, page domain.Page) (waitlist.ListResult, error)
	Approve(ctx context.Context, actor authz.Principal, id string) (waitlist.ApproveResult, error)
	Delete(ctx context.Context, actor authz.Principal, id string) error
	Export(ctx context.Context, actor authz.Principal) ([]domain.WaitlistEntry, error)
}

type WaitlistHandler struct {
	svc WaitlistService
}

func NewWaitlistHandler(svc WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{svc: svc}
}

// Join handles the public POST /waitlist.
func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req dto.JoinWaitlistRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	e, err := h.svc.Join(r.Context(), waitlist.JoinInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Reason:    req.Reason,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.JoinWaitlistData{ID: e.ID, Status: string(e.Status)})
}

func (h *WaitlistHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	page, err := pageFromQuery(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.List(r.Context(), p, page)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Paginated(w, dto.NewWaitlistEntryViews(res.Items), response.Pagination{
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	})
}

func (h *WaitlistHandler) Approve(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	id, err := urlID(r, "id")
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Approve(r.Context(), p, id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ApproveWaitlistData{Entry: dto.NewWaitlistEntryView(res.Entry), InviteSent: res.InviteSent})
}

func (h *WaitlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	id, err := urlID(r, "id")
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), p, id); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Message(w, "waitlist entry deleted")
}

var waitlistCSVHeader = []string{"id", "email", "first_name", "last_name", "role", "reason", "status", "created_at", "approved_at"}

// Export streams every entry as CSV. Errors before the first byte use the
// JSON envelope like every other route.
func (h *WaitlistHandler) Export(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	items, err := h.svc.Export(r.Context(), p)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="waitlist.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write(waitlistCSVHeader)
	for _, e := range items {
		approved := ""
		if e.ApprovedAt != nil {
			approved = e.ApprovedAt.UTC().Format(time.RFC3339)
		}
		_ = cw.Write([]string{
			e.ID,
			csvCell(e.Email),
			csvCell(e.FirstName),
			csvCell(e.LastName),
			e.Role,
			csvCell(e.Reason),
			string(e.Status),
			e.CreatedAt.UTC().Format(time.RFC3339),
			approved,
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		logger.WithCtx(r.Context()).Warn().Err(err).Msg("waitlist export write failed")
	}
}

// csvCell keeps spreadsheet apps from reading user text as a formula.
func csvCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
