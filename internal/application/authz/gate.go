package authz

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

// Principal is the authenticated caller as seen by handlers and services.
type Principal struct {
	ID                 string
	Role               string
	RoleVerified       bool
	VerificationStatus domain.VerificationStatus
}

func (p Principal) IsAdmin() bool {
	return p.Role == string(domain.RoleAdmin)
}

type Gate struct {
	tokens TokenVerifier
	states StateReader
}

func NewGate(tokens TokenVerifier, states StateReader) *Gate {
	return &Gate{tokens: tokens, states: states}
}

// Authenticate verifies the token and loads the caller's current role and
// verification state. Token role claims are never trusted for decisions.
func (g *Gate) Authenticate(ctx context.Context, token string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, domain.ErrTokenMissing()
	}

	claims, err := g.tokens.VerifyAccessToken(token)
	if err != nil {
		return Principal{}, err
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return Principal{}, domain.ErrTokenInvalid()
	}

	st, err := g.states.GetState(ctx, claims.UserID)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return Principal{}, domain.ErrTokenInvalid()
		}
		return Principal{}, err
	}

	return Principal{
		ID:                 st.UserID,
		Role:               st.Role,
		RoleVerified:       st.RoleVerified,
		VerificationStatus: st.VerificationStatus,
	}, nil
}

// RequireRole passes iff the principal's role is in allowed.
func RequireRole(p Principal, allowed domain.RoleSet) error {
	if !allowed.Has(p.Role) {
		return domain.ErrInsufficientRole(allowed.String())
	}
	return nil
}

// RequireVerified gates founder and investor actions on an approved verification.
// Admins always pass; roles outside the workflow are not gated here.
func RequireVerified(p Principal) error {
	if p.IsAdmin() || !domain.RequiresVerification(p.Role) {
		return nil
	}
	if p.RoleVerified {
		return nil
	}
	status := p.VerificationStatus
	if status == "" {
		status = domain.StatusNotSubmitted
	}
	return domain.ErrVerificationRequired(status)
}

func RequireOwnership(p Principal, ownerID string) error {
	if p.IsAdmin() {
		return nil
	}
	if ownerID == "" || ownerID != p.ID {
		return domain.ErrNotOwner()
	}
	return nil
}
