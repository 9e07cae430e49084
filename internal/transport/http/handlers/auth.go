package http_handlers

import (
	"context"
	"net/http"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/transport/http/response"
)

type AccountService interface {
	Register(ctx context.Context, in auth.RegisterInput) (auth.AuthResult, error)
	Login(ctx context.Context, email, password string) (auth.AuthResult, error)
	Me(ctx context.Context, userID string) (domain.User, error)
	CreateProfile(ctx context.Context, userID, role string) (domain.User, error)
	DeleteUser(ctx context.Context, actorID, actorRole, targetID string) error
}

type AuthHandler struct {
	svc AccountService
}

func NewAuthHandler(svc AccountService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Register(r.Context(), auth.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Str("role", res.User.Role).
		Msg("user_registered")

	response.Created(w, dto.NewAuthData(res))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewAuthData(res))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Me(r.Context(), p.ID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewUserView(u))
}

// CreateFounderProfile handles POST /profiles/founder.
func (h *AuthHandler) CreateFounderProfile(w http.ResponseWriter, r *http.Request) {
	h.createProfile(w, r, domain.RoleFounder)
}

// CreateInvestorProfile handles POST /profiles/investor.
func (h *AuthHandler) CreateInvestorProfile(w http.ResponseWriter, r *http.Request) {
	h.createProfile(w, r, domain.RoleInvestor)
}

func (h *AuthHandler) createProfile(w http.ResponseWriter, r *http.Request, role domain.Role) {
	p, err := principal(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.CreateProfile(r.Context(), p.ID, string(role))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewUserView(u))
}

// DeleteUser handles DELETE /admin/users/{id}; the user's verification
// requests and stored documents go with it.
func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.DeleteUser(r.Context(), p.ID, p.Role, id); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Message(w, "user deleted")
}
