package http_handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/startup"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/response"
)

type StartupService interface {
	Create(ctx context.Context, p authz.Principal, in startup.CreateInput) (domain.Startup, error)
	Get(ctx context.Context, id string) (domain.Startup, error)
	List(ctx context.Context, industry string, page domain.Page) (startup.ListResult, error)
	Update(ctx context.Context, p authz.Principal, id string, patch domain.StartupPatch) (domain.Startup, error)
	Delete(ctx context.Context, p authz.Principal, id string) error
	ExpressInterest(ctx context.Context, p authz.Principal, startupID string, in startup.InterestInput) (domain.Interest, error)
	ListInterests(ctx context.Context, p authz.Principal, startupID string) ([]domain.Interest, error)
	WithdrawInterest(ctx context.Context, p authz.Principal, interestID string) error
}

type StartupHandler struct {
	svc StartupService
}

func NewStartupHandler(svc StartupService) *StartupHandler {
	return &StartupHandler{svc: svc}
}

func (h *StartupHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.CreateStartupRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	s, err := h.svc.Create(r.Context(), p, startup.CreateInput{
		Name:        req.Name,
		Tagline:     req.Tagline,
		Industry:    req.Industry,
		Stage:       req.Stage,
		FundingGoal: req.FundingGoal,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.NewStartupView(s))
}

func (h *StartupHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("industry")), page)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Paginated(w, dto.NewStartupViews(res.Items), response.Pagination{
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	})
}

func (h *StartupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	s, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewStartupView(s))
}

func (h *StartupHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req dto.UpdateStartupRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	s, err := h.svc.Update(r.Context(), p, id, domain.StartupPatch{
		Name:        req.Name,
		Tagline:     req.Tagline,
		Industry:    req.Industry,
		Stage:       req.Stage,
		FundingGoal: req.FundingGoal,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewStartupView(s))
}

func (h *StartupHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	response.Message(w, "startup deleted")
}

// ExpressInterest handles POST /startups/{id}/interests.
func (h *StartupHandler) ExpressInterest(w http.ResponseWriter, r *http.Request) {
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

	var req dto.InterestRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	in, err := h.svc.ExpressInterest(r.Context(), p, id, startup.InterestInput{Amount: req.Amount, Message: req.Message})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.NewInterestView(in))
}

// ListInterests handles GET /startups/{id}/interests; startup owner or admin.
func (h *StartupHandler) ListInterests(w http.ResponseWriter, r *http.Request) {
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

	items, err := h.svc.ListInterests(r.Context(), p, id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewInterestViews(items))
}

// WithdrawInterest handles DELETE /interests/{id}.
func (h *StartupHandler) WithdrawInterest(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.WithdrawInterest(r.Context(), p, id); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Message(w, "interest withdrawn")
}
