// Package cache implements Redis-backed coordination and caching.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/natural-surplus/backend/internal/application/adapter"
)

// PayoutLockKey is the Redis key guarding payout scans.
const PayoutLockKey = "natural-surplus:payout-scan:lock"

// releaseScript deletes the lock only if it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ErrLockLost is returned by release when the lock expired or was taken over.
var ErrLockLost = errors.New("payout lock no longer held")

type payoutLock struct {
	client redis.UniversalClient
	key    string
}

// NewPayoutLock creates a payout lock stored under PayoutLockKey.
func NewPayoutLock(client redis.UniversalClient) adapter.PayoutLock {
	return &payoutLock{client: client, key: PayoutLockKey}
}

// Acquire takes the lock with SET NX PX and a random token.
func (l *payoutLock) Acquire(ctx context.Context, ttl time.Duration) (func(context.Context) error, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to set lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		deleted, err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Int()
		if err != nil {
			return fmt.Errorf("failed to release lock: %w", err)
		}
		if deleted == 0 {
			return ErrLockLost
		}
		return nil
	}
	return release, true, nil
}
