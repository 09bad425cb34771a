package process

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlcmd/cli/internal/core/domain"
	"github.com/nlcmd/cli/internal/core/safety"
)

// Local test helpers

func newTestExecutor(t testing.TB) *Executor {
	t.Helper()
	validator, err := safety.NewValidator(safety.DefaultPolicy())
	require.NoError(t, err)
	return NewExecutor(validator, zerolog.Nop())
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test relies on POSIX shell semantics")
	}
}

func TestExecute_SuccessfulCommand(t *testing.T) {
	skipOnWindows(t)
	e := newTestExecutor(t)

	result := e.Execute(context.Background(), "echo hello", 0)

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "hello\n", result.Stdout)
	assert.Empty(t, result.Stderr)
	assert.Equal(t, domain.ErrorNone, result.Kind)
	assert.NotEmpty(t, result.ExecutionID)
}

func TestExecute_NonZeroExit_ReportsCode(t *testing.T) {
	skipOnWindows(t)
	e := newTestExecutor(t)

	result := e.Execute(context.Background(), "exit 3", 0)

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, domain.ErrorNone, result.Kind)
}

func TestExecute_StderrIsCaptured(t *testing.T) {
	skipOnWindows(t)
	e := newTestExecutor(t)

	result := e.Execute(context.Background(), "echo oops 1>&2", 0)

	assert.True(t, result.Success)
	assert.Equal(t, "oops\n", result.Stderr)
	assert.Empty(t, result.Stdout)
}

func TestExecute_Timeout_TerminatesProcess(t *testing.T) {
	skipOnWindows(t)
	e := newTestExecutor(t)

	start := time.Now()
	result := e.Execute(context.Background(), "sleep 2", 100*time.Millisecond)

	assert.False(t, result.Success)
	assert.True(t, result.TimedOut())
	assert.Equal(t, domain.ErrorTimeout, result.Kind)
	assert.Contains(t, result.Err, "timed out after")
	assert.Less(t, time.Since(start), 2*time.Second, "process was not terminated early")
}

func TestExecute_UnsafeCommand_NeverLaunches(t *testing.T) {
	e := newTestExecutor(t)

	result := e.Execute(context.Background(), "rm -rf /", 0)

	assert.False(t, result.Success)
	assert.True(t, result.Rejected())
	assert.Equal(t, domain.ErrorSafetyRejected, result.Kind)
	assert.Equal(t, -1, result.ExitCode)
	assert.Equal(t, "blocked command: rm -rf /", result.Err)
	assert.Empty(t, result.Stdout)
}

func TestExecute_EmptyCommand_IsRejected(t *testing.T) {
	e := newTestExecutor(t)

	result := e.Execute(context.Background(), "   ", 0)

	assert.True(t, result.Rejected())
	assert.Equal(t, "empty command", result.Err)
}

func TestExecute_BadWorkingDirectory_IsLaunchError(t *testing.T) {
	skipOnWindows(t)
	validator, err := safety.NewValidator(safety.DefaultPolicy())
	require.NoError(t, err)
	e := NewExecutorWithOptions(validator, zerolog.Nop(), 0, "/nonexistent/dir", nil)

	result := e.Execute(context.Background(), "echo hi", 0)

	assert.False(t, result.Success)
	assert.Equal(t, domain.ErrorLaunch, result.Kind)
	assert.NotEmpty(t, result.Err)
	assert.False(t, result.TimedOut())
}

func TestNewExecutor_NilValidator_Panics(t *testing.T) {
	assert.Panics(t, func() {
		NewExecutor(nil, zerolog.Nop())
	})
}

func TestExecute_TimeoutAndLaunchFailure_AreDistinct(t *testing.T) {
	skipOnWindows(t)
	e := newTestExecutor(t)

	timedOut := e.Execute(context.Background(), "sleep 2", 50*time.Millisecond)
	assert.Equal(t, domain.ErrorTimeout, timedOut.Kind)

	validator, err := safety.NewValidator(safety.DefaultPolicy())
	require.NoError(t, err)
	broken := NewExecutorWithOptions(validator, zerolog.Nop(), 0, "/no/such/dir", nil)
	launchFail := broken.Execute(context.Background(), "echo hi", 0)
	assert.Equal(t, domain.ErrorLaunch, launchFail.Kind)

	assert.NotEqual(t, timedOut.Kind, launchFail.Kind)
}
