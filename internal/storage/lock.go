package storage

import (
	"os"
	"syscall"

	"github.com/jmgilman/go/errors"
)

// FileLock provides exclusive file-based locking using flock.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a new file lock for the given path.
// The lock file will be created if it doesn't exist.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// Lock acquires an exclusive lock on the file.
// Blocks until the lock is acquired.
func (l *FileLock) Lock() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return errors.Wrapf(err, errors.CodeInternal, "open lock file %s", l.path)
	}
	l.file = f

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		l.file = nil
		return errors.Wrapf(err, errors.CodeConflict, "lock %s", l.path)
	}

	return nil
}

// Unlock releases the lock and closes the file.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		l.file.Close()
		l.file = nil
		return errors.Wrapf(err, errors.CodeInternal, "unlock %s", l.path)
	}

	err := l.file.Close()
	l.file = nil
	return err
}

// WithLock runs fn while holding the lock at path.
// The error of fn wins over an unlock error.
func WithLock(path string, fn func() error) (err error) {
	lock := NewFileLock(path)
	if err := lock.Lock(); err != nil {
		return err
	}
	defer func() {
		if uerr := lock.Unlock(); err == nil {
			err = uerr
		}
	}()
	return fn()
}
