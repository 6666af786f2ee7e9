package config

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

const (
	lockTimeout = 5 * time.Second
	lockRetry   = 100 * time.Millisecond
)

// acquireLock takes an exclusive lock on lockPath, giving up after timeout.
func acquireLock(lockPath string, timeout time.Duration) (func(), error) {
	l := flock.New(lockPath)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	locked, err := l.TryLockContext(ctx, lockRetry)
	if err != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("cannot acquire config lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("config is locked by another process (lock: %s)", lockPath)
	}
	return func() { _ = l.Unlock() }, nil
}
