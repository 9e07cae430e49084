package auth

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/logger"
)

const minPasswordLen = 8

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	signer TokenSigner
	purger VerificationPurger
	cache  StateCache

	accessTTL time.Duration
	audit     func(action string, fields map[string]string)
}

type Config struct {
	AccessTTL time.Duration
}

func NewService(users UserRepo, hasher PasswordHasher, signer TokenSigner, purger VerificationPurger, cache StateCache, cfg Config) *Service {
	ttl := cfg.AccessTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{
		users:     users,
		hasher:    hasher,
		signer:    signer,
		purger:    purger,
		cache:     cache,
		accessTTL: ttl,
		audit:     func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

type AuthTokens struct {
	AccessToken string
	ExpiresIn   int64 // seconds
	TokenType   string
}

type AuthResult struct {
	User   domain.User
	Tokens AuthTokens
}

func (s *Service) issueTokens(userID, role string) (AuthTokens, error) {
	access, err := s.signer.SignAccessToken(userID, role, s.accessTTL)
	if err != nil {
		return AuthTokens{}, domain.ErrTokenSignFailed(err)
	}
	return AuthTokens{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Str("user_id", userID).Msg("identity cache invalidate failed")
	}
}
