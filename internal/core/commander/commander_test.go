package commander

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlcmd/cli/internal/core/domain"
	"github.com/nlcmd/cli/internal/core/registry"
	"github.com/nlcmd/cli/internal/core/safety"
	"github.com/nlcmd/cli/internal/core/template"
	"github.com/nlcmd/cli/internal/infrastructure/process"
)

// Local test helpers

// fakeExecutor records the command it received and replays a canned result.
type fakeExecutor struct {
	lastCommand string
	result      domain.ExecutionResult
}

func (f *fakeExecutor) Execute(ctx context.Context, command string, timeout time.Duration) domain.ExecutionResult {
	f.lastCommand = command
	return f.result
}

func newTestCommander(t testing.TB, executor CommandExecutor) (*Commander, *registry.VerbRegistry) {
	t.Helper()

	reg := registry.NewVerbRegistry(registry.DefaultConfig())
	p, err := domain.NewPlugin("core.shell", 10,
		[]string{"echo"},
		map[string]string{"say": "echo"},
		map[string]domain.TemplateSpec{
			"echo": {Pattern: "echo {message}", RequiredParams: []string{"message"}},
		})
	require.NoError(t, err)
	require.NoError(t, reg.Register(p))

	return NewCommander(reg, template.NewRenderer(), executor, 0, zerolog.Nop()), reg
}

func okResult(stdout string) domain.ExecutionResult {
	return domain.ExecutionResult{Success: true, Stdout: stdout}
}

func TestExecute_RendersAndRunsTemplate(t *testing.T) {
	fake := &fakeExecutor{result: okResult("Hello World\n")}
	c, _ := newTestCommander(t, fake)

	success, output, errText := c.Execute(context.Background(), domain.ResolvedIntent{
		Verb:            "echo",
		ActionType:      domain.ActionExecuteCommand,
		CommandTemplate: "echo {message}",
		Parameters:      map[string]string{"message": "Hello World"},
		OriginalText:    "say hello world",
	})

	assert.True(t, success)
	assert.Equal(t, "Hello World\n", output)
	assert.Empty(t, errText)
	assert.Equal(t, "echo Hello World", fake.lastCommand)
}

func TestExecute_GuardRails(t *testing.T) {
	tests := []struct {
		name     string
		intent   domain.ResolvedIntent
		expected string
	}{
		{
			name: "MissingTemplate_ShouldReportInternalError",
			intent: domain.ResolvedIntent{
				Verb:       "echo",
				ActionType: domain.ActionExecuteCommand,
			},
			expected: "Internal error: Command template missing in AST.",
		},
		{
			name: "UnknownActionType_ShouldReportUnsupported",
			intent: domain.ResolvedIntent{
				Verb:            "echo",
				ActionType:      "open_url",
				CommandTemplate: "echo {message}",
			},
			expected: "Unsupported action type: open_url",
		},
		{
			name: "UnboundPlaceholder_ShouldReportMissingParameter",
			intent: domain.ResolvedIntent{
				Verb:            "echo",
				ActionType:      domain.ActionExecuteCommand,
				CommandTemplate: "echo {message}",
				Parameters:      map[string]string{},
			},
			expected: "Error rendering command: Missing parameter 'message'.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeExecutor{result: okResult("")}
			c, _ := newTestCommander(t, fake)

			success, output, errText := c.Execute(context.Background(), tt.intent)

			assert.False(t, success)
			assert.Empty(t, output)
			assert.Equal(t, tt.expected, errText)
			assert.Empty(t, fake.lastCommand, "executor must not run on a failed stage")
		})
	}
}

func TestExecuteVerb_ResolvesThroughRegistry(t *testing.T) {
	fake := &fakeExecutor{result: okResult("Hello World\n")}
	c, _ := newTestCommander(t, fake)

	tests := []struct {
		name string
		verb string
	}{
		{name: "CanonicalVerb_ShouldRun", verb: "echo"},
		{name: "Alias_ShouldRun", verb: "say"},
		{name: "FuzzyTypo_ShouldRun", verb: "echoo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			success, output, errText := c.ExecuteVerb(context.Background(), tt.verb,
				map[string]string{"message": "Hello World"})

			assert.True(t, success, "errText: %s", errText)
			assert.Equal(t, "Hello World\n", output)
			assert.Equal(t, "echo Hello World", fake.lastCommand)
		})
	}
}

func TestExecuteVerb_Failures(t *testing.T) {
	t.Run("UnknownVerb_ShouldReportNoPlugin", func(t *testing.T) {
		fake := &fakeExecutor{result: okResult("")}
		c, _ := newTestCommander(t, fake)

		success, _, errText := c.ExecuteVerb(context.Background(), "teleport", nil)

		assert.False(t, success)
		assert.Equal(t, "No plugin can handle verb 'teleport'.", errText)
	})

	t.Run("MissingRequiredParameter_ShouldReportIt", func(t *testing.T) {
		fake := &fakeExecutor{result: okResult("")}
		c, _ := newTestCommander(t, fake)

		success, _, errText := c.ExecuteVerb(context.Background(), "echo", nil)

		assert.False(t, success)
		assert.Equal(t, "Error rendering command: Missing parameter 'message'.", errText)
	})
}

func TestDispatch_MapsExecutorOutcomes(t *testing.T) {
	tests := []struct {
		name        string
		result      domain.ExecutionResult
		wantSuccess bool
		wantOutput  string
		wantErr     string
	}{
		{
			name:        "ZeroExit_ShouldSucceed",
			result:      domain.ExecutionResult{Success: true, Stdout: "ok\n"},
			wantSuccess: true,
			wantOutput:  "ok\n",
		},
		{
			name:        "NonZeroExit_ShouldFailWithStderr",
			result:      domain.ExecutionResult{ExitCode: 2, Stderr: "bad flag\n"},
			wantSuccess: false,
			wantErr:     "bad flag\n",
		},
		{
			name: "SafetyRejection_ShouldSurfaceReasonVerbatim",
			result: domain.ExecutionResult{
				Kind: domain.ErrorSafetyRejected,
				Err:  "blocked command: rm -rf /",
			},
			wantSuccess: false,
			wantErr:     "blocked command: rm -rf /",
		},
		{
			name: "Timeout_ShouldReportUnexpectedError",
			result: domain.ExecutionResult{
				Kind: domain.ErrorTimeout,
				Err:  "execution timed out after 1m0s",
			},
			wantSuccess: false,
			wantErr:     "Unexpected error: execution timed out after 1m0s",
		},
		{
			name: "LaunchFailure_ShouldReportUnexpectedError",
			result: domain.ExecutionResult{
				Kind: domain.ErrorLaunch,
				Err:  "fork/exec /bin/sh: no such file or directory",
			},
			wantSuccess: false,
			wantErr:     "Unexpected error: fork/exec /bin/sh: no such file or directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeExecutor{result: tt.result}
			c, _ := newTestCommander(t, fake)

			success, output, errText := c.ExecuteVerb(context.Background(), "echo",
				map[string]string{"message": "hi"})

			assert.Equal(t, tt.wantSuccess, success)
			assert.Equal(t, tt.wantOutput, output)
			assert.Equal(t, tt.wantErr, errText)
		})
	}
}

// End-to-end through the real executor and validator.
func TestExecute_EndToEnd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on POSIX shell semantics")
	}

	validator, err := safety.NewValidator(safety.DefaultPolicy())
	require.NoError(t, err)
	executor := process.NewExecutor(validator, zerolog.Nop())
	c, _ := newTestCommander(t, executor)

	t.Run("EchoPipeline_ShouldProduceStdout", func(t *testing.T) {
		success, output, errText := c.Execute(context.Background(), domain.ResolvedIntent{
			Verb:            "echo",
			ActionType:      domain.ActionExecuteCommand,
			CommandTemplate: "echo {message}",
			Parameters:      map[string]string{"message": "Hello World"},
		})

		assert.True(t, success)
		assert.Equal(t, "Hello World\n", output)
		assert.Empty(t, errText)
	})

	t.Run("DangerousTemplate_ShouldBeRejectedBeforeLaunch", func(t *testing.T) {
		success, output, errText := c.Execute(context.Background(), domain.ResolvedIntent{
			Verb:            "echo",
			ActionType:      domain.ActionExecuteCommand,
			CommandTemplate: "rm -rf /",
			Parameters:      map[string]string{},
		})

		assert.False(t, success)
		assert.Empty(t, output)
		assert.Equal(t, "blocked command: rm -rf /", errText)
	})
}
