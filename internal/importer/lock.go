package importer

import (
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// lockPoll is how often a held lock is retried.
const lockPoll = 200 * time.Millisecond

// LockPath returns the lock file guarding the database at dbPath.
func LockPath(dbPath string) string {
	return dbPath + ".lock"
}

// AcquireLock takes the exclusive import lock for dbPath, waiting up to
// timeout. The returned func releases it.
func AcquireLock(dbPath string, timeout time.Duration) (func(), error) {
	lockPath := LockPath(dbPath)
	l := flock.New(lockPath)
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return func() {}, fmt.Errorf("cannot acquire import lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return func() {}, fmt.Errorf("another import is in progress (lock: %s)", lockPath)
		}
		time.Sleep(lockPoll)
	}
}
