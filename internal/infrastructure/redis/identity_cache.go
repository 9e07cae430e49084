package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/logger"
)

// IdentityCache decorates an authz.StateReader with a short-lived Redis copy.
// - Read path: Redis -> store fallback -> Redis set
// - Invalidate is called after every verification write
type IdentityCache struct {
	inner   authz.StateReader
	rdb     *goredis.Client
	ttl     time.Duration
	keyPref string
}

func NewIdentityCache(inner authz.StateReader, client *Client, ttl time.Duration) *IdentityCache {
	var rdb *goredis.Client
	if client != nil {
		rdb = client.rdb
	}
	return &IdentityCache{
		inner:   inner,
		rdb:     rdb,
		ttl:     ttl,
		keyPref: "verif:",
	}
}

func (c *IdentityCache) key(userID string) string {
	return c.keyPref + userID
}

func (c *IdentityCache) GetState(ctx context.Context, userID string) (domain.IdentityState, error) {
	if c.rdb != nil {
		raw, err := c.rdb.Get(ctx, c.key(userID)).Bytes()
		switch {
		case err == nil:
			var st domain.IdentityState
			if jerr := json.Unmarshal(raw, &st); jerr == nil && st.UserID == userID {
				return st, nil
			}
		case !errors.Is(err, goredis.Nil):
			// redis down: the store still answers
			logger.WithCtx(ctx).Debug().Err(err).Msg("identity cache read failed")
		}
	}

	st, err := c.inner.GetState(ctx, userID)
	if err != nil {
		return domain.IdentityState{}, err
	}

	if c.rdb != nil && c.ttl > 0 {
		if raw, err := json.Marshal(st); err == nil {
			_ = c.rdb.Set(ctx, c.key(userID), raw, c.ttl).Err()
		}
	}
	return st, nil
}

// Invalidate drops the cached state. Best effort: the TTL bounds staleness if Redis is down.
func (c *IdentityCache) Invalidate(ctx context.Context, userID string) error {
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, c.key(userID)).Err(); err != nil {
		return domain.ErrRedisUnavailable(err)
	}
	return nil
}
