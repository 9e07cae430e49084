package auth

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

func (s *Service) Me(ctx context.Context, userID string) (domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
