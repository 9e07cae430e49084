package startup

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

type InterestInput struct {
	Amount  int64
	Message string
}

func (s *Service) ExpressInterest(ctx context.Context, p authz.Principal, startupID string, in InterestInput) (domain.Interest, error) {
	if err := gate(p, investorRoles); err != nil {
		return domain.Interest{}, err
	}
	if in.Amount < 0 {
		return domain.Interest{}, domain.ErrInvalidField("amount", "must not be negative")
	}

	if _, err := s.startups.GetByID(ctx, startupID); err != nil {
		return domain.Interest{}, err
	}

	return s.interests.Create(ctx, domain.Interest{
		ID:         uuid.NewString(),
		StartupID:  startupID,
		InvestorID: p.ID,
		Amount:     in.Amount,
		Message:    strings.TrimSpace(in.Message),
		CreatedAt:  s.now().UTC(),
	})
}

// ListInterests is visible to the startup owner and admins.
func (s *Service) ListInterests(ctx context.Context, p authz.Principal, startupID string) ([]domain.Interest, error) {
	st, err := s.startups.GetByID(ctx, startupID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnership(p, st.OwnerID); err != nil {
		return nil, err
	}
	return s.interests.ListByStartup(ctx, startupID)
}

func (s *Service) WithdrawInterest(ctx context.Context, p authz.Principal, interestID string) error {
	if err := gate(p, investorRoles); err != nil {
		return err
	}

	in, err := s.interests.GetByID(ctx, interestID)
	if err != nil {
		return err
	}
	if err := authz.RequireOwnership(p, in.InvestorID); err != nil {
		return err
	}
	return s.interests.Delete(ctx, interestID)
}
