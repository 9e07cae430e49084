package auth

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

/*
UserRepo
--------
Account side of the identity store. Verification fields are never written here.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
	// PromoteRole moves the role from `from` to `to` only while the stored role
	// is still `from`. A user already holding `to` is returned unchanged; any
	// other role gives role_change_not_allowed.
	PromoteRole(ctx context.Context, userID, from, to string) (domain.User, error)
	Delete(ctx context.Context, userID string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

type TokenSigner interface {
	SignAccessToken(userID string, role string, ttl time.Duration) (string, error)
}

/*
VerificationPurger
------------------
Removes a user's verification requests and stored documents before the user
row goes away.
*/
type VerificationPurger interface {
	PurgeUser(ctx context.Context, userID string) error
}

type StateCache interface {
	Invalidate(ctx context.Context, userID string) error
}
