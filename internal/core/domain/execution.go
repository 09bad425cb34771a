package domain

import "time"

// ErrorKind classifies how an execution attempt failed.
type ErrorKind string

const (
	// ErrorNone means the process launched and ran to completion.
	ErrorNone ErrorKind = ""
	// ErrorSafetyRejected means the command never launched because the
	// safety validator refused it.
	ErrorSafetyRejected ErrorKind = "safety_rejected"
	// ErrorTimeout means the bounded execution time expired and the
	// process was forcibly terminated.
	ErrorTimeout ErrorKind = "timeout"
	// ErrorLaunch means the process could not be started at all.
	ErrorLaunch ErrorKind = "launch_error"
)

// ExecutionContext is the per-call snapshot taken before launching a
// process. It is ephemeral and request-local.
type ExecutionContext struct {
	ID         string
	Command    string
	WorkingDir string
	Env        []string
	User       string
	Timestamp  time.Time
	Platform   string
}

// ExecutionResult reports the outcome of one execution attempt.
type ExecutionResult struct {
	ExecutionID string
	Success     bool
	ExitCode    int
	Stdout      string
	Stderr      string
	Kind        ErrorKind
	Err         string
	StartedAt   time.Time
	Duration    time.Duration
}

// TimedOut reports whether the attempt was cut off by its timeout.
func (r ExecutionResult) TimedOut() bool {
	return r.Kind == ErrorTimeout
}

// Rejected reports whether the safety validator refused the command.
func (r ExecutionResult) Rejected() bool {
	return r.Kind == ErrorSafetyRejected
}
