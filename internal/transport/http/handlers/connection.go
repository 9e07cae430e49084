package http_handlers

import (
	"context"
	"net/http"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/startup"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/response"
)

type ConnectionService interface {
	RequestConnection(ctx context.Context, p authz.Principal, in startup.ConnectionInput) (domain.Connection, error)
	MyConnections(ctx context.Context, p authz.Principal) ([]domain.Connection, error)
	FounderConnections(ctx context.Context, p authz.Principal) ([]domain.Connection, error)
	StartupConnections(ctx context.Context, p authz.Principal, startupID string) ([]domain.Connection, error)
	AnswerConnection(ctx context.Context, p authz.Principal, id, status string) (domain.Connection, error)
	DeleteConnection(ctx context.Context, p authz.Principal, id string) error
}

type ConnectionHandler struct {
	svc ConnectionService
}

func NewConnectionHandler(svc ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{svc: svc}
}

func (h *ConnectionHandler) Request(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.ConnectionRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	c, err := h.svc.RequestConnection(r.Context(), p, startup.ConnectionInput{StartupID: req.StartupID, Message: req.Message})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.NewConnectionView(c))
}

func (h *ConnectionHandler) Mine(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.svc.MyConnections)
}

func (h *ConnectionHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.svc.FounderConnections)
}

func (h *ConnectionHandler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context, authz.Principal) ([]domain.Connection, error)) {
	p, err := principal(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	items, err := fetch(r.Context(), p)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewConnectionViews(items))
}

// ForStartup handles GET /connections/startup/{id}; startup owner or admin.
func (h *ConnectionHandler) ForStartup(w http.ResponseWriter, r *http.Request) {
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

	items, err := h.svc.StartupConnections(r.Context(), p, id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewConnectionViews(items))
}

func (h *ConnectionHandler) Answer(w http.ResponseWriter, r *http.Request) {
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

	var req dto.AnswerConnectionRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	c, err := h.svc.AnswerConnection(r.Context(), p, id, req.Status)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewConnectionView(c))
}

func (h *ConnectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.DeleteConnection(r.Context(), p, id); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Message(w, "connection deleted")
}
