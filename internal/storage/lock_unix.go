//go:build !windows

package storage

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	apperrors "github.com/manav03panchal/punctual/internal/errors"
)

// flockAcquire acquires an exclusive lock on the file (Unix implementation).
func flockAcquire(file *os.File) error {
	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return apperrors.ErrLockHeld
		}
		return fmt.Errorf("%w: %v", ErrLockAcquireFailed, err)
	}
	return nil
}

// flockRelease releases the lock on the file (Unix implementation).
func flockRelease(file *os.File) error {
	return syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
}

// isProcessRunning checks if a process with the given PID is still running.
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix, FindProcess always succeeds, so signal 0 probes existence.
	err = process.Signal(syscall.Signal(0))
	return err == nil
}
