package runtime

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"

	apperrors "github.com/manav03panchal/punctual/internal/errors"
	"github.com/manav03panchal/punctual/internal/output"
	"github.com/manav03panchal/punctual/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Context Tests
// =============================================================================

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.NotEmpty(t, opts.DBPath)
	assert.False(t, opts.InMemory)
	assert.Equal(t, output.FormatCLI, opts.Format)
	assert.Equal(t, output.ColorAuto, opts.ColorMode)
	assert.False(t, opts.Debug)
}

func TestNew(t *testing.T) {
	ctx, err := New(Options{InMemory: true})
	require.NoError(t, err)
	defer ctx.Close()

	assert.NotNil(t, ctx.DB)
	assert.NotNil(t, ctx.Formatter)
	assert.NotNil(t, ctx.SourceRepo)
	assert.NotNil(t, ctx.EventRepo)
	assert.NotNil(t, ctx.PrefsRepo)
	assert.NotNil(t, ctx.WebhookRepo)
}

func TestNewWithOptions(t *testing.T) {
	ctx, err := New(Options{
		InMemory:  true,
		Format:    output.FormatJSON,
		ColorMode: output.ColorNever,
		Debug:     true,
	})
	require.NoError(t, err)
	defer ctx.Close()

	assert.Equal(t, output.FormatJSON, ctx.Formatter.Format)
	assert.Equal(t, output.ColorNever, ctx.Formatter.ColorMode)
	assert.True(t, ctx.Debug)
}

func TestNewWithEnvVariable(t *testing.T) {
	os.Setenv("PUNCTUAL_DATABASE", ":memory:")
	defer os.Unsetenv("PUNCTUAL_DATABASE")

	ctx, err := New(Options{})
	require.NoError(t, err)
	defer ctx.Close()

	assert.NotNil(t, ctx.DB)
}

func TestNewWithEnvVariablePath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := tmpDir + "/punctual-test.db"

	os.Setenv("PUNCTUAL_DATABASE", dbPath)
	defer os.Unsetenv("PUNCTUAL_DATABASE")

	ctx, err := New(Options{})
	require.NoError(t, err)
	defer ctx.Close()

	assert.NotNil(t, ctx.DB)
}

func TestContextClose(t *testing.T) {
	ctx, err := New(Options{InMemory: true})
	require.NoError(t, err)

	err = ctx.Close()
	assert.NoError(t, err)

	// Closing nil DB should be safe
	nilCtx := &Context{}
	err = nilCtx.Close()
	assert.NoError(t, err)
}

func TestContextCLIFormatter(t *testing.T) {
	ctx, err := New(Options{InMemory: true})
	require.NoError(t, err)
	defer ctx.Close()

	cli := ctx.CLIFormatter()
	assert.NotNil(t, cli)
}

func TestContextIsJSON(t *testing.T) {
	t.Run("json_format", func(t *testing.T) {
		ctx, err := New(Options{InMemory: true, Format: output.FormatJSON})
		require.NoError(t, err)
		defer ctx.Close()

		assert.True(t, ctx.IsJSON())
		assert.False(t, ctx.IsCLI())
	})

	t.Run("cli_format", func(t *testing.T) {
		ctx, err := New(Options{InMemory: true, Format: output.FormatCLI})
		require.NoError(t, err)
		defer ctx.Close()

		assert.False(t, ctx.IsJSON())
		assert.True(t, ctx.IsCLI())
	})
}

func TestContextDebugf(t *testing.T) {
	t.Run("debug_enabled", func(t *testing.T) {
		var buf bytes.Buffer
		ctx, err := New(Options{InMemory: true, Debug: true})
		require.NoError(t, err)
		defer ctx.Close()

		ctx.Formatter.Writer = &buf
		ctx.Debugf("test message %s", "arg1")

		assert.Contains(t, buf.String(), "[DEBUG]")
		assert.Contains(t, buf.String(), "test message arg1")
	})

	t.Run("debug_disabled", func(t *testing.T) {
		var buf bytes.Buffer
		ctx, err := New(Options{InMemory: true, Debug: false})
		require.NoError(t, err)
		defer ctx.Close()

		ctx.Formatter.Writer = &buf
		ctx.Debugf("test message")

		assert.Empty(t, buf.String())
	})
}

// =============================================================================
// Error Tests
// =============================================================================

func TestGetSuggestion(t *testing.T) {
	t.Run("known_error", func(t *testing.T) {
		suggestion := GetSuggestion(apperrors.ErrSourceNotFound)
		assert.NotEmpty(t, suggestion)
		assert.Contains(t, suggestion, "punctual source list")
	})

	t.Run("wrapped_error", func(t *testing.T) {
		wrapped := fmt.Errorf("context: %w", apperrors.ErrWebhookNotFound)
		suggestion := GetSuggestion(wrapped)
		assert.NotEmpty(t, suggestion)
	})

	t.Run("user_error_suggestion", func(t *testing.T) {
		err := apperrors.NewUserError("bad name", "Use letters and digits only.")
		suggestion := GetSuggestion(err)
		assert.Equal(t, "Use letters and digits only.", suggestion)
	})

	t.Run("storage_lock", func(t *testing.T) {
		suggestion := GetSuggestion(storage.ErrLockAcquireFailed)
		assert.Contains(t, suggestion, "punctual daemon stop")
	})

	t.Run("unknown_error", func(t *testing.T) {
		unknown := errors.New("some random error")
		suggestion := GetSuggestion(unknown)
		assert.Empty(t, suggestion)
	})
}

func TestFormatError(t *testing.T) {
	t.Run("with_suggestion", func(t *testing.T) {
		formatted := FormatError(apperrors.ErrInvalidSnoozeMinutes)
		assert.Contains(t, formatted, "snooze minutes must be positive")
		assert.Contains(t, formatted, "punctual snooze")
	})

	t.Run("without_suggestion", func(t *testing.T) {
		err := errors.New("custom error")
		formatted := FormatError(err)
		assert.Equal(t, "custom error", formatted)
	})
}

func TestSuggestionsMap(t *testing.T) {
	// Verify all common sentinel errors have suggestions
	sentinelErrors := []error{
		apperrors.ErrEventNotFound,
		apperrors.ErrSourceNotFound,
		apperrors.ErrWebhookNotFound,
		apperrors.ErrInvalidURL,
		apperrors.ErrInvalidMinutes,
		apperrors.ErrEndBeforeStart,
		apperrors.ErrDeadlineInPast,
		apperrors.ErrInvalidSnoozeMinutes,
		apperrors.ErrLockHeld,
		ErrDiskFull,
	}

	for _, err := range sentinelErrors {
		t.Run(err.Error(), func(t *testing.T) {
			suggestion, exists := Suggestions[err]
			assert.True(t, exists, "missing suggestion for %v", err)
			assert.NotEmpty(t, suggestion)
		})
	}
}

// =============================================================================
// DiskFullError Tests
// =============================================================================

func TestNewDiskFullError(t *testing.T) {
	original := errors.New("underlying error")
	err := NewDiskFullError("write", "/path/to/db", original)

	assert.NotNil(t, err)
	assert.Equal(t, "write", err.Op)
	assert.Equal(t, "/path/to/db", err.Path)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "write")
	assert.Contains(t, err.Error(), "/path/to/db")
}

func TestDiskFullErrorWithoutPath(t *testing.T) {
	original := errors.New("underlying error")
	err := NewDiskFullError("sync", "", original)

	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "sync")
	assert.NotContains(t, err.Error(), "on ")
}

func TestDiskFullErrorUnwrap(t *testing.T) {
	original := errors.New("underlying error")
	err := NewDiskFullError("write", "", original)

	assert.True(t, errors.Is(err, ErrDiskFull))
}

func TestIsDiskFullError(t *testing.T) {
	t.Run("nil_error", func(t *testing.T) {
		assert.False(t, IsDiskFullError(nil))
	})

	t.Run("disk_full_error_type", func(t *testing.T) {
		err := NewDiskFullError("write", "", nil)
		assert.True(t, IsDiskFullError(err))
	})

	t.Run("sentinel_disk_full", func(t *testing.T) {
		assert.True(t, IsDiskFullError(ErrDiskFull))
	})

	t.Run("wrapped_sentinel", func(t *testing.T) {
		wrapped := fmt.Errorf("context: %w", ErrDiskFull)
		assert.True(t, IsDiskFullError(wrapped))
	})

	t.Run("enospc_errno", func(t *testing.T) {
		err := syscall.ENOSPC
		assert.True(t, IsDiskFullError(err))
	})

	t.Run("error_message_no_space", func(t *testing.T) {
		err := errors.New("no space left on device")
		assert.True(t, IsDiskFullError(err))
	})

	t.Run("unrelated_error", func(t *testing.T) {
		err := errors.New("connection refused")
		assert.False(t, IsDiskFullError(err))
	})
}

func TestWrapDiskFullError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, WrapDiskFullError(nil, "write", ""))
	})

	t.Run("disk_full", func(t *testing.T) {
		err := WrapDiskFullError(syscall.ENOSPC, "write", "/db")
		var dfe *DiskFullError
		require.True(t, errors.As(err, &dfe))
		assert.Equal(t, "write", dfe.Op)
	})

	t.Run("other_error", func(t *testing.T) {
		original := errors.New("boom")
		assert.Equal(t, original, WrapDiskFullError(original, "write", ""))
	})
}
