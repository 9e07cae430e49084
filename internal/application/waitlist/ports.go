package waitlist

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

// Repo persists waitlist entries. Create returns already_on_waitlist for an
// email that is already listed; listings are newest first.
type Repo interface {
	Create(ctx context.Context, e domain.WaitlistEntry) (domain.WaitlistEntry, error)
	GetByID(ctx context.Context, id string) (domain.WaitlistEntry, error)
	List(ctx context.Context, p domain.Page) ([]domain.WaitlistEntry, int, error)
	All(ctx context.Context) ([]domain.WaitlistEntry, error)
	// Approve is a no-op on an entry that is already approved.
	Approve(ctx context.Context, a domain.Approval) (domain.WaitlistEntry, error)
	Delete(ctx context.Context, id string) error
}

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}
