package http_handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/verification"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/upload"
)

type VerificationService interface {
	Submit(ctx context.Context, userID string, docs domain.DocumentSet) (domain.VerificationRequest, error)
	Status(ctx context.Context, userID string) (verification.StatusResult, error)
	List(ctx context.Context, actor authz.Principal, status, role string, page domain.Page) (verification.ListResult, error)
	Get(ctx context.Context, actor authz.Principal, requestID string) (verification.RequestView, error)
	Review(ctx context.Context, actor authz.Principal, in verification.ReviewInput) (domain.VerificationRequest, error)
	Delete(ctx context.Context, actor authz.Principal, requestID string) error
}

type VerificationHandler struct {
	svc     VerificationService
	maxBody int64
}

func NewVerificationHandler(svc VerificationService, maxUploadBytes int64) *VerificationHandler {
	return &VerificationHandler{svc: svc, maxBody: maxUploadBytes}
}

// Submit handles POST /verification/submit (multipart).
func (h *VerificationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	docs, cleanup, err := upload.ParseDocuments(w, r, h.maxBody)
	if err != nil {
		middleware.VerificationSubmissionsTotal.WithLabelValues(domain.CodeOf(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	defer cleanup()

	req, err := h.svc.Submit(r.Context(), p.ID, docs)
	if err != nil {
		middleware.VerificationSubmissionsTotal.WithLabelValues(resultLabel(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.VerificationSubmissionsTotal.WithLabelValues("success").Inc()

	logger.WithCtx(r.Context()).Info().
		Str("user_id", p.ID).
		Str("verification_id", req.ID).
		Msg("verification_submitted")

	response.Created(w, dto.NewSubmitData(req))
}

// Status handles GET /verification/status for the caller.
func (h *VerificationHandler) Status(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	st, err := h.svc.Status(r.Context(), p.ID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewStatusData(st))
}

// List handles GET /verification?status=&role=&page=&limit= (admin).
func (h *VerificationHandler) List(w http.ResponseWriter, r *http.Request) {
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

	q := r.URL.Query()
	res, err := h.svc.List(r.Context(), p, strings.TrimSpace(q.Get("status")), strings.TrimSpace(q.Get("role")), page)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Paginated(w, dto.NewRequestViews(res.Items), response.Pagination{
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	})
}

// Get handles GET /verification/{id}; owner or admin.
func (h *VerificationHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	v, err := h.svc.Get(r.Context(), p, id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewRequestViewWithUsers(v))
}

// Review handles PUT /verification/{id}/review (admin).
func (h *VerificationHandler) Review(w http.ResponseWriter, r *http.Request) {
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

	var req dto.ReviewRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		middleware.VerificationReviewsTotal.WithLabelValues("invalid", domain.CodeOf(err)).Inc()
		response.WriteError(w, r, err)
		return
	}

	out, err := h.svc.Review(r.Context(), p, verification.ReviewInput{
		RequestID:       id,
		Decision:        req.Status,
		RejectionReason: req.RejectionReason,
		Notes:           req.Notes,
	})
	if err != nil {
		middleware.VerificationReviewsTotal.WithLabelValues(req.Status, resultLabel(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.VerificationReviewsTotal.WithLabelValues(req.Status, "success").Inc()

	logger.WithCtx(r.Context()).Info().
		Str("admin_id", p.ID).
		Str("verification_id", out.ID).
		Str("decision", string(out.Status)).
		Msg("verification_reviewed")

	response.OK(w, dto.NewRequestView(out))
}

// Delete handles DELETE /verification/{id} (admin).
func (h *VerificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	response.Message(w, "verification request deleted")
}

func resultLabel(err error) string {
	if code := domain.CodeOf(err); code != "" {
		return code
	}
	return "internal_error"
}
