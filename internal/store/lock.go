package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// Advisory file lock guarding document rewrites against a second process.
// Lock files live in a .locks sibling directory so the document's own
// directory mtime stays stable.

const (
	locksDirName   = ".locks"
	lockTimeout    = 2 * time.Second
	lockRetryDelay = 10 * time.Millisecond

	dirPerms  = 0o750
	filePerms = 0o600
)

var errLockTimeout = errors.New("lock timeout")

// sameInode reports whether path still names the inode behind file.
func sameInode(file *os.File, path string) bool {
	fileInfo, err := file.Stat()
	if err != nil {
		return false
	}

	pathInfo, err := os.Stat(path)
	if err != nil {
		return false
	}

	return os.SameFile(fileInfo, pathInfo)
}

// withFileLock runs fn while holding an exclusive flock for path.
// Acquisition retries until lockTimeout, then gives up; a hung holder
// stalls writers, which the store logs rather than crashes on.
func withFileLock(path string, fn func() error) error {
	lockPath := filepath.Join(filepath.Dir(path), locksDirName, filepath.Base(path)+".lock")

	if err := os.MkdirAll(filepath.Dir(lockPath), dirPerms); err != nil {
		return fmt.Errorf("creating locks dir: %w", err)
	}

	deadline := time.Now().Add(lockTimeout)

	for {
		file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, filePerms)
		if err != nil {
			return fmt.Errorf("opening lock file: %w", err)
		}

		err = unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			// A previous holder may have unlinked the file between our open
			// and the flock, leaving us with a lock on an orphaned inode.
			// Verify the path still names the inode we locked; retry if not.
			if sameInode(file, lockPath) {
				defer func() {
					// Remove while still holding the lock, then release.
					_ = os.Remove(lockPath)
					_ = unix.Flock(int(file.Fd()), unix.LOCK_UN)
					_ = file.Close()
				}()

				return fn()
			}

			_ = unix.Flock(int(file.Fd()), unix.LOCK_UN)
		}

		_ = file.Close()

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %s", errLockTimeout, lockPath)
		}

		time.Sleep(lockRetryDelay)
	}
}
