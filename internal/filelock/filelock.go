// Package filelock serializes access to files shared between agentdeck
// processes, such as the delegation graph file two editor invocations
// could otherwise clobber.
package filelock

import (
	"fmt"

	"github.com/gofrs/flock"
)

// FileLock wraps a flock advisory lock on a path.
type FileLock struct {
	flock *flock.Flock
}

// New creates a lock for the given path. The lock file sits next to the
// target so a crashed process never leaves the target itself locked.
func New(path string) *FileLock {
	return &FileLock{flock: flock.New(path + ".lock")}
}

// Lock blocks until the lock is acquired.
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("acquire lock %s: %w", fl.flock.Path(), err)
	}
	return nil
}

// TryLock attempts to acquire the lock without blocking.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("try lock %s: %w", fl.flock.Path(), err)
	}
	return acquired, nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", fl.flock.Path(), err)
	}
	return nil
}
