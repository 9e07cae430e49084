package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return AuthResult{}, domain.ErrMissingField("email")
	}
	if in.Password == "" {
		return AuthResult{}, domain.ErrMissingField("password")
	}
	if len(in.Password) < minPasswordLen {
		return AuthResult{}, domain.ErrWeakPassword("must be at least 8 characters")
	}

	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = string(domain.RoleUser)
	}
	if !domain.IsSelfAssignable(role) {
		return AuthResult{}, domain.ErrInvalidRole(role)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return AuthResult{}, domain.ErrHashFailed(err)
	}

	u := domain.User{
		ID:                 uuid.NewString(),
		Email:              email,
		PasswordHash:       hash,
		FirstName:          strings.TrimSpace(in.FirstName),
		LastName:           strings.TrimSpace(in.LastName),
		Role:               role,
		VerificationStatus: domain.StatusNotSubmitted,
		CreatedAt:          time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return AuthResult{}, err
	}

	toks, err := s.issueTokens(created.ID, created.Role)
	if err != nil {
		return AuthResult{}, err
	}

	s.audit("user.register", map[string]string{
		"user_id": created.ID,
		"role":    created.Role,
		"result":  "success",
	})
	return AuthResult{User: created, Tokens: toks}, nil
}
