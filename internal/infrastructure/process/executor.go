package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nlcmd/cli/internal/core/domain"
	"github.com/nlcmd/cli/internal/core/safety"
)

// DefaultTimeout bounds executions when the caller does not supply one.
const DefaultTimeout = 60 * time.Second

// killGracePeriod is how long a cancelled process gets between the
// termination signal and the executor giving up on its pipes.
const killGracePeriod = 2 * time.Second

// Executor runs validated command strings through the platform shell
// with bounded execution time. Every command passes safety validation
// before launch; constructing an Executor without a validator is a
// programming error, not a recoverable condition, and panics.
type Executor struct {
	validator      *safety.Validator
	defaultTimeout time.Duration
	workDir        string
	env            []string
	logger         zerolog.Logger
}

// NewExecutor creates an executor with default timeout, the current
// working directory, and the current environment.
func NewExecutor(validator *safety.Validator, logger zerolog.Logger) *Executor {
	return NewExecutorWithOptions(validator, logger, DefaultTimeout, "", nil)
}

// NewExecutorWithOptions creates an executor with custom defaults.
func NewExecutorWithOptions(validator *safety.Validator, logger zerolog.Logger, timeout time.Duration, workDir string, env []string) *Executor {
	if validator == nil {
		panic("process: executor constructed without a safety validator")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if env == nil {
		env = os.Environ()
	}
	return &Executor{
		validator:      validator,
		defaultTimeout: timeout,
		workDir:        workDir,
		env:            env,
		logger:         logger,
	}
}

// Execute validates the command, snapshots an execution context, and
// runs the command with a bounded timeout. Timeout expiry forcibly
// terminates the process and is reported distinctly from launch
// failures. Every attempt is audit-logged regardless of outcome.
func (e *Executor) Execute(ctx context.Context, command string, timeout time.Duration) domain.ExecutionResult {
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}

	execCtx := e.snapshot(command)

	if verdict := e.validator.Validate(command); !verdict.Safe {
		result := domain.ExecutionResult{
			ExecutionID: execCtx.ID,
			ExitCode:    -1,
			Kind:        domain.ErrorSafetyRejected,
			Err:         verdict.Reason,
			StartedAt:   execCtx.Timestamp,
		}
		e.audit(execCtx, result)
		return result
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	shell, flag := platformShell()
	cmd := exec.CommandContext(runCtx, shell, flag, command)
	cmd.Dir = e.workDir
	cmd.Env = execCtx.Env
	cmd.WaitDelay = killGracePeriod

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := domain.ExecutionResult{
		ExecutionID: execCtx.ID,
		Stdout:      stdout.String(),
		Stderr:      stderr.String(),
		StartedAt:   start,
		Duration:    time.Since(start),
	}

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.Kind = domain.ErrorTimeout
		result.Err = fmt.Sprintf("execution timed out after %s", timeout)
		result.ExitCode = -1
	case err == nil:
		result.Success = true
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.Kind = domain.ErrorLaunch
			result.Err = err.Error()
			result.ExitCode = -1
		}
	}

	e.audit(execCtx, result)
	return result
}

// snapshot captures the environment the command will run under.
func (e *Executor) snapshot(command string) domain.ExecutionContext {
	workDir := e.workDir
	if workDir == "" {
		workDir, _ = os.Getwd()
	}
	username := "unknown"
	if u, err := user.Current(); err == nil {
		username = u.Username
	}
	return domain.ExecutionContext{
		ID:         uuid.NewString(),
		Command:    command,
		WorkingDir: workDir,
		Env:        append([]string(nil), e.env...),
		User:       username,
		Timestamp:  time.Now(),
		Platform:   runtime.GOOS,
	}
}

// audit records one execution attempt for later review.
func (e *Executor) audit(execCtx domain.ExecutionContext, result domain.ExecutionResult) {
	evt := e.logger.Info()
	if !result.Success {
		evt = e.logger.Warn()
	}
	evt.Str("execution_id", execCtx.ID).
		Str("command", execCtx.Command).
		Str("user", execCtx.User).
		Str("working_dir", execCtx.WorkingDir).
		Str("platform", execCtx.Platform).
		Int("exit_code", result.ExitCode).
		Str("error_kind", string(result.Kind)).
		Dur("duration", result.Duration).
		Msg("command execution")
}

func platformShell() (string, string) {
	if runtime.GOOS == "windows" {
		return "cmd", "/C"
	}
	return "/bin/sh", "-c"
}
