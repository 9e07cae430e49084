package startup

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

type ConnectionInput struct {
	StartupID string
	Message   string
}

// RequestConnection asks a startup's founder for an introduction. Any member
// may ask, but founders and investors must be verified first.
func (s *Service) RequestConnection(ctx context.Context, p authz.Principal, in ConnectionInput) (domain.Connection, error) {
	if err := authz.RequireVerified(p); err != nil {
		return domain.Connection{}, err
	}

	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return domain.Connection{}, domain.ErrMissingField("message")
	}
	if utf8.RuneCountInString(msg) > domain.MaxConnectionMessage {
		return domain.Connection{}, domain.ErrInvalidField("message", "must be at most 500 characters")
	}

	st, err := s.startups.GetByID(ctx, strings.TrimSpace(in.StartupID))
	if err != nil {
		return domain.Connection{}, err
	}
	if st.OwnerID == p.ID {
		return domain.Connection{}, domain.ErrOwnStartup()
	}

	return s.connections.Create(ctx, domain.Connection{
		ID:          uuid.NewString(),
		RequesterID: p.ID,
		StartupID:   st.ID,
		FounderID:   st.OwnerID,
		Message:     msg,
		Status:      domain.ConnectionPending,
		CreatedAt:   s.now().UTC(),
	})
}

func (s *Service) MyConnections(ctx context.Context, p authz.Principal) ([]domain.Connection, error) {
	return s.connections.ListByRequester(ctx, p.ID)
}

// FounderConnections is the inbox across every startup the caller owns.
func (s *Service) FounderConnections(ctx context.Context, p authz.Principal) ([]domain.Connection, error) {
	if err := authz.RequireRole(p, founderRoles); err != nil {
		return nil, err
	}
	return s.connections.ListByFounder(ctx, p.ID)
}

func (s *Service) StartupConnections(ctx context.Context, p authz.Principal, startupID string) ([]domain.Connection, error) {
	st, err := s.startups.GetByID(ctx, startupID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnership(p, st.OwnerID); err != nil {
		return nil, err
	}
	return s.connections.ListByStartup(ctx, startupID)
}

// AnswerConnection accepts or rejects a pending request. Only the founder it
// was addressed to, or an admin, may answer.
func (s *Service) AnswerConnection(ctx context.Context, p authz.Principal, id, status string) (domain.Connection, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !domain.IsConnectionAnswer(status) {
		return domain.Connection{}, domain.ErrInvalidConnectionStatus(status)
	}

	c, err := s.connections.GetByID(ctx, id)
	if err != nil {
		return domain.Connection{}, err
	}
	if err := authz.RequireOwnership(p, c.FounderID); err != nil {
		return domain.Connection{}, err
	}
	if err := authz.RequireVerified(p); err != nil {
		return domain.Connection{}, err
	}

	return s.connections.Answer(ctx, domain.ConnectionAnswer{
		ConnectionID: id,
		Status:       domain.ConnectionStatus(status),
		RespondedAt:  s.now().UTC(),
	})
}

// DeleteConnection is open to either side of the request and to admins.
func (s *Service) DeleteConnection(ctx context.Context, p authz.Principal, id string) error {
	c, err := s.connections.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.IsAdmin() && p.ID != c.RequesterID && p.ID != c.FounderID {
		return domain.ErrNotOwner()
	}
	return s.connections.Delete(ctx, id)
}
