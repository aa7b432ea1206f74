package shared

import (
	"context"
	"time"
)

// Locker provides short-lived named locks used to serialize work that must
// not interleave, such as get-or-create of a user's cart.
type Locker interface {
	// Acquire tries to take the lock for key. It returns a release function
	// when the lock was taken and ErrLockNotAcquired when it is held elsewhere.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)

	// Close releases resources held by the locker
	Close() error
}

// LockConfig holds configuration for lock acquisition
type LockConfig struct {
	// TTL bounds how long a crashed holder can block others
	TTL time.Duration
	// Wait is how long Acquire callers keep retrying before giving up
	Wait time.Duration
	// RetryInterval is the pause between attempts
	RetryInterval time.Duration
}

// DefaultLockConfig returns the default lock configuration
func DefaultLockConfig() LockConfig {
	return LockConfig{
		TTL:           5 * time.Second,
		Wait:          2 * time.Second,
		RetryInterval: 25 * time.Millisecond,
	}
}
