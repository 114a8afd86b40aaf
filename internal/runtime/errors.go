package runtime

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	apperrors "github.com/manav03panchal/punctual/internal/errors"
	"github.com/manav03panchal/punctual/internal/storage"
)

// ErrDiskFull signals that badger could not write because the disk is full.
var ErrDiskFull = errors.New("disk full: unable to write to database")

// Suggestions provides helpful suggestions for common errors.
var Suggestions = map[error]string{
	apperrors.ErrEventNotFound:        "Use 'punctual agenda' to see upcoming meetings.",
	apperrors.ErrSourceNotFound:       "Use 'punctual source list' to see configured calendar sources.",
	apperrors.ErrWebhookNotFound:      "Use 'punctual webhook list' to see configured webhooks.",
	apperrors.ErrInvalidURL:           "Check the URL and make sure it starts with https:// (or webcal:// for calendar feeds).",
	apperrors.ErrInvalidMinutes:       "Alert minutes must be between 0 and 1440 (24 hours).",
	apperrors.ErrEndBeforeStart:       "Check your timestamps - the meeting must end after it starts.",
	apperrors.ErrDeadlineInPast:       "Try formats like 'tomorrow at 3pm', 'in 2 hours', or '9am'.",
	apperrors.ErrInvalidSnoozeMinutes: "Snooze minutes must be a positive number, e.g. 'punctual snooze 5'.",
	apperrors.ErrLockHeld:             "Another punctual process has the database open. Stop it with 'punctual daemon stop' and try again.",
	storage.ErrLockAcquireFailed:      "Another punctual process has the database open. Stop it with 'punctual daemon stop' and try again.",
	storage.ErrKeyNotFound:            "The requested item does not exist. Check the name or ID and try again.",
	ErrDiskFull:                       "Free up disk space and try again. Your alert schedule will rebuild on next sync.",
}

// GetSuggestion returns a suggestion for an error, if available.
// UserErrors carry their own suggestion, which takes precedence.
func GetSuggestion(err error) string {
	if userErr, ok := apperrors.AsUserError(err); ok && userErr.Suggestion != "" {
		return userErr.Suggestion
	}
	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}
	return ""
}

// FormatError formats an error with optional suggestion.
func FormatError(err error) string {
	msg := err.Error()
	if suggestion := GetSuggestion(err); suggestion != "" {
		msg += "\n" + suggestion
	}
	return msg
}

// DiskFullError represents a disk full condition with additional context.
type DiskFullError struct {
	Op      string // The operation that failed (e.g., "write", "sync")
	Path    string // The path involved, if known
	wrapped error  // The underlying error
}

func (e *DiskFullError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("disk full during %s on %s: %v", e.Op, e.Path, e.wrapped)
	}
	return fmt.Sprintf("disk full during %s: %v", e.Op, e.wrapped)
}

func (e *DiskFullError) Unwrap() error {
	return ErrDiskFull
}

// NewDiskFullError creates a new DiskFullError.
func NewDiskFullError(op, path string, err error) *DiskFullError {
	return &DiskFullError{
		Op:      op,
		Path:    path,
		wrapped: err,
	}
}

// IsDiskFullError checks if an error indicates a disk full condition.
// It checks for ENOSPC (Linux/macOS) and common disk full error patterns.
func IsDiskFullError(err error) bool {
	if err == nil {
		return false
	}

	var diskFullErr *DiskFullError
	if errors.As(err, &diskFullErr) {
		return true
	}

	if errors.Is(err, ErrDiskFull) {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ENOSPC {
			return true
		}
	}

	errStr := strings.ToLower(err.Error())
	diskFullPatterns := []string{
		"no space left on device",
		"disk full",
		"enospc",
		"not enough space",
		"insufficient disk space",
		"out of disk space",
	}

	for _, pattern := range diskFullPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// WrapDiskFullError wraps an error as a DiskFullError if it indicates disk full.
// If the error is not a disk full error, it returns the original error unchanged.
func WrapDiskFullError(err error, op, path string) error {
	if err == nil {
		return nil
	}
	if IsDiskFullError(err) {
		return NewDiskFullError(op, path, err)
	}
	return err
}
