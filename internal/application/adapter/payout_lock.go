package adapter

import (
	"context"
	"time"
)

// PayoutLock serialises payout scans across processes.
type PayoutLock interface {
	// Acquire tries to take the lock for ttl. It returns a release function when the
	// lock was taken, or ok == false when another holder owns it.
	Acquire(ctx context.Context, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}
