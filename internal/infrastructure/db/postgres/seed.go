package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/logger"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

// SeedAdmin creates the bootstrap admin account. Restart safe: a duplicate email is ignored.
func SeedAdmin(ctx context.Context, repo SeederRepo, hasher SeederHasher, email, password string) {
	if email == "" || password == "" {
		return
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		logger.Logger.Warn().Err(err).Str("email", email).Msg("[seed] hash failed")
		return
	}

	_, err = repo.Create(ctx, domain.User{
		ID:            uuid.NewString(),
		Email:         email,
		PasswordHash:  hash,
		FirstName:     "Admin",
		Role:          string(domain.RoleAdmin),
		EmailVerified: true,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		if !domain.Is(err, "email_already_exists") {
			logger.Logger.Warn().Err(err).Str("email", email).Msg("[seed] admin create failed")
		}
		return
	}
	logger.Logger.Info().Str("email", email).Msg("[seed] postgres admin seeded")
}
