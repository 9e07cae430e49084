package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/logger"
)

// Hasher is the minimal surface we need for seeding.
type Hasher interface {
	Hash(password string) (string, error)
}

// SeedAdmin creates the bootstrap admin for local development.
// Safe to call multiple times (duplicates ignored).
func SeedAdmin(ctx context.Context, users *UserRepo, hasher Hasher, email, password string) {
	if email == "" || password == "" {
		return
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("[seed] hash failed")
		return
	}

	_, err = users.Create(ctx, domain.User{
		ID:                 uuid.NewString(),
		Email:              email,
		PasswordHash:       hash,
		FirstName:          "Admin",
		Role:               string(domain.RoleAdmin),
		EmailVerified:      true,
		VerificationStatus: domain.StatusNotSubmitted,
		CreatedAt:          time.Now().UTC(),
	})
	if err != nil {
		return
	}
	logger.Logger.Info().Str("email", email).Msg("[seed] in-memory admin seeded")
}
