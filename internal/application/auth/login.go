package auth

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

// Login must not leak whether the email exists.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return AuthResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return AuthResult{}, domain.ErrInvalidCredentials()
		}
		return AuthResult{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		s.audit("user.login", map[string]string{"user_id": u.ID, "result": "error", "error_code": "invalid_credentials"})
		return AuthResult{}, domain.ErrInvalidCredentials()
	}

	toks, err := s.issueTokens(u.ID, u.Role)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: u, Tokens: toks}, nil
}
