package verification

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

/*
RequestRepo
-----------
Persistence port for verification requests. Implementations own the user's
verification fields: CreatePending and Transition update the request and the
owner's flags in one atomic unit.
*/
type RequestRepo interface {
	// CreatePending re-checks verified/pending under a lock, inserts the request
	// and marks the owner pending. Returns already_verified or
	// submission_in_progress when the re-check fails.
	CreatePending(ctx context.Context, req domain.VerificationRequest) (domain.VerificationRequest, error)

	// Transition moves a pending request to approved/rejected and updates the owner.
	// Returns request_not_found or request_not_pending.
	Transition(ctx context.Context, t domain.Transition) (domain.VerificationRequest, error)

	GetByID(ctx context.Context, id string) (domain.VerificationRequest, error)
	LatestForUser(ctx context.Context, userID string) (domain.VerificationRequest, bool, error)
	List(ctx context.Context, f domain.RequestFilter, p domain.Page) ([]domain.VerificationRequest, int, error)

	// Delete removes the record; a pending one resets the owner to not_submitted.
	Delete(ctx context.Context, id string) (domain.VerificationRequest, error)
	DeleteByUser(ctx context.Context, userID string) ([]domain.VerificationRequest, error)
}

/*
UserReader
----------
Read side of the identity store.
*/
type UserReader interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	ListIDsByRole(ctx context.Context, role string) ([]string, error)
}

/*
DocumentStore
-------------
External file storage (Cloudinary, S3, memory).
*/
type DocumentStore interface {
	Upload(ctx context.Context, f domain.UploadFile, folder string) (domain.StoredObject, error)
	Delete(ctx context.Context, publicID string) error
}

/*
Notifier
--------
Best-effort notifications. Failures never fail a workflow operation.
*/
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

/*
StateCache
----------
Optional cache of identity state in front of the gate.
*/
type StateCache interface {
	Invalidate(ctx context.Context, userID string) error
}
