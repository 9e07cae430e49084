package authz

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

/*
TokenVerifier
-------------
Verifies bearer access tokens (JWT). Implemented by security.JWTSigner.
*/
type TokenClaims struct {
	UserID string
	Role   string
	Exp    time.Time
}

type TokenVerifier interface {
	VerifyAccessToken(token string) (TokenClaims, error)
}

/*
StateReader
-----------
Loads the identity state the gate decides on. Backed by the identity store,
optionally behind the Redis cache.
*/
type StateReader interface {
	GetState(ctx context.Context, userID string) (domain.IdentityState, error)
}

type UserGetter interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
}

// StoreStates reads identity state straight from the user store.
type StoreStates struct {
	Users UserGetter
}

func (s StoreStates) GetState(ctx context.Context, userID string) (domain.IdentityState, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return domain.IdentityState{}, err
	}
	return u.State(), nil
}
