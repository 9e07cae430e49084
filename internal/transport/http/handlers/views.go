package http_handlers

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/startup"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/response"
)

type ViewService interface {
	RecordView(ctx context.Context, startupID string, in startup.ViewInput) (bool, error)
	StartupViewStats(ctx context.Context, p authz.Principal, startupID string, period domain.ViewPeriod) (domain.ViewStats, error)
	OwnerViewSummary(ctx context.Context, p authz.Principal) ([]domain.StartupViewSummary, error)
}

type ViewHandler struct {
	svc ViewService
}

func NewViewHandler(svc ViewService) *ViewHandler {
	return &ViewHandler{svc: svc}
}

const maxUserAgentLen = 512

// Record handles POST /views/startups/{id}. The caller may be anonymous.
func (h *ViewHandler) Record(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	in := startup.ViewInput{IP: clientIP(r), UserAgent: r.UserAgent()}
	if len(in.UserAgent) > maxUserAgentLen {
		in.UserAgent = in.UserAgent[:maxUserAgentLen]
	}
	if p, ok := middleware.PrincipalFromContext(r.Context()); ok {
		in.ViewerID = p.ID
	}

	counted, err := h.svc.RecordView(r.Context(), id, in)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.RecordViewData{Counted: counted})
}

// Stats handles GET /views/startups/{id}/stats?period=day|week|month|year|all.
func (h *ViewHandler) Stats(w http.ResponseWriter, r *http.Request) {
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

	period := domain.ParseViewPeriod(r.URL.Query().Get("period"))
	st, err := h.svc.StartupViewStats(r.Context(), p, id, period)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewViewStatsData(period, st))
}

func (h *ViewHandler) Summary(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	items, err := h.svc.OwnerViewSummary(r.Context(), p)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewStartupViewSummaries(items))
}

// clientIP is the connection peer. Proxy headers are honoured only through
// chi's RealIP middleware, which rewrites RemoteAddr upstream of here.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
