package startup

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

type StartupRepo interface {
	Create(ctx context.Context, s domain.Startup) (domain.Startup, error)
	GetByID(ctx context.Context, id string) (domain.Startup, error)
	List(ctx context.Context, f domain.StartupFilter, p domain.Page) ([]domain.Startup, int, error)
	Update(ctx context.Context, s domain.Startup) (domain.Startup, error)
	Delete(ctx context.Context, id string) error
}

// InterestRepo.Create returns interest_already_exists for a repeated (startup, investor) pair.
type InterestRepo interface {
	Create(ctx context.Context, i domain.Interest) (domain.Interest, error)
	GetByID(ctx context.Context, id string) (domain.Interest, error)
	ListByStartup(ctx context.Context, startupID string) ([]domain.Interest, error)
	Delete(ctx context.Context, id string) error
}

// ConnectionRepo.Create returns connection_exists for a repeated
// (requester, startup) pair. Answer only moves a pending connection and
// returns connection_answered otherwise.
type ConnectionRepo interface {
	Create(ctx context.Context, c domain.Connection) (domain.Connection, error)
	GetByID(ctx context.Context, id string) (domain.Connection, error)
	ListByRequester(ctx context.Context, requesterID string) ([]domain.Connection, error)
	ListByFounder(ctx context.Context, founderID string) ([]domain.Connection, error)
	ListByStartup(ctx context.Context, startupID string) ([]domain.Connection, error)
	Answer(ctx context.Context, a domain.ConnectionAnswer) (domain.Connection, error)
	Delete(ctx context.Context, id string) error
}

// ViewRepo.Record stores v unless the same viewer already has a view of the
// startup newer than v.CreatedAt minus window. Anonymous viewers match on IP.
type ViewRepo interface {
	Record(ctx context.Context, v domain.ProfileView, window time.Duration) (bool, error)
	Stats(ctx context.Context, startupID string, since, trendSince time.Time) (domain.ViewStats, error)
	OwnerSummary(ctx context.Context, ownerID string, recentSince time.Time) ([]domain.StartupViewSummary, error)
}
