package verification

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/logger"
)

type Service struct {
	requests RequestRepo
	users    UserReader
	docs     DocumentStore
	notifier Notifier
	cache    StateCache

	uploadTimeout time.Duration
	adminEmail    string
	now           func() time.Time
	audit         func(action string, fields map[string]string)
}

type Config struct {
	UploadTimeout time.Duration
	// AdminNotifyEmail receives admin-notification messages.
	AdminNotifyEmail string
}

func NewService(
	requests RequestRepo,
	users UserReader,
	docs DocumentStore,
	notifier Notifier,
	cache StateCache,
	cfg Config,
) *Service {
	timeout := cfg.UploadTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		requests:      requests,
		users:         users,
		docs:          docs,
		notifier:      notifier,
		cache:         cache,
		uploadTimeout: timeout,
		adminEmail:    cfg.AdminNotifyEmail,
		now:           time.Now,
		audit:         func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// RequestView is a request with its owner and (optional) reviewer attached.
type RequestView struct {
	Request  domain.VerificationRequest
	Owner    *domain.UserSummary
	Reviewer *domain.UserSummary
}

type StatusResult struct {
	RoleVerified       bool
	VerificationStatus domain.VerificationStatus
	Latest             *domain.VerificationRequest
}

type ListResult struct {
	Items      []RequestView
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

func (s *Service) notify(ctx context.Context, n domain.Notification) {
	if s.notifier == nil || n.Recipient == "" {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).
			Str("template", n.Template).
			Msg("verification notification failed")
	}
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).
			Str("user_id", userID).
			Msg("identity cache invalidate failed")
	}
}

// deleteDocuments removes every object independently; failures are only logged.
func (s *Service) deleteDocuments(ctx context.Context, docs []domain.Document) {
	for _, d := range docs {
		if d.PublicID == "" {
			continue
		}
		if err := s.docs.Delete(ctx, d.PublicID); err != nil {
			logger.WithCtx(ctx).Warn().Err(err).
				Str("public_id", d.PublicID).
				Msg("document delete failed")
		}
	}
}

func (s *Service) summary(ctx context.Context, userID string) *domain.UserSummary {
	if userID == "" {
		return nil
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil
	}
	sum := u.Summary()
	return &sum
}

func (s *Service) view(ctx context.Context, r domain.VerificationRequest) RequestView {
	return RequestView{
		Request:  r,
		Owner:    s.summary(ctx, r.UserID),
		Reviewer: s.summary(ctx, r.ReviewedBy),
	}
}
