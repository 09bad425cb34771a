package commander

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nlcmd/cli/internal/core/domain"
	"github.com/nlcmd/cli/internal/core/registry"
	"github.com/nlcmd/cli/internal/core/template"
)

// CommandExecutor is the execution port the commander drives. The
// executor performs its own mandatory safety validation.
type CommandExecutor interface {
	Execute(ctx context.Context, command string, timeout time.Duration) domain.ExecutionResult
}

// Commander is the façade external collaborators call with a resolved
// intent. Each request moves strictly forward through the pipeline
// states and terminates in Reported; every stage failure is aggregated
// into a single (success, output, error) tuple that preserves the
// original reason text.
type Commander struct {
	registry *registry.VerbRegistry
	renderer *template.Renderer
	executor CommandExecutor
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewCommander wires the façade. A zero timeout delegates to the
// executor's default.
func NewCommander(reg *registry.VerbRegistry, renderer *template.Renderer, executor CommandExecutor, timeout time.Duration, logger zerolog.Logger) *Commander {
	return &Commander{
		registry: reg,
		renderer: renderer,
		executor: executor,
		timeout:  timeout,
		logger:   logger,
	}
}

// Execute drives a pre-resolved intent through render, validate, and
// execute. The intent must already carry its command template; verb
// resolution is the caller's step (see ExecuteVerb).
func (c *Commander) Execute(ctx context.Context, ast domain.ResolvedIntent) (bool, string, string) {
	run := c.newRun(ast.OriginalText)

	if ast.CommandTemplate == "" {
		return run.fail("Internal error: Command template missing in AST.")
	}
	if ast.ActionType != domain.ActionExecuteCommand {
		return run.fail(fmt.Sprintf("Unsupported action type: %s", ast.ActionType))
	}
	run.advance(stateResolved)

	rendered, err := template.Expand(ast.CommandTemplate, ast.Parameters)
	if err != nil {
		var unresolved *domain.UnresolvedPlaceholderError
		var missing *domain.MissingParametersError
		switch {
		case errors.As(err, &unresolved):
			// At the AST boundary an unbound placeholder means the
			// translator supplied too few parameters.
			return run.fail(fmt.Sprintf("Error rendering command: Missing parameter '%s'.", unresolved.Name))
		case errors.As(err, &missing):
			return run.fail(fmt.Sprintf("Error rendering command: Missing parameter '%s'.", missing.Names[0]))
		default:
			return run.fail(fmt.Sprintf("Unexpected error: %s", err))
		}
	}
	run.advance(stateRendered)

	return c.dispatch(ctx, run, rendered)
}

// ExecuteVerb resolves raw verb text against the registry, renders the
// owning plugin's template with full required-parameter enforcement,
// and executes the result. It is the one-call path for callers holding
// verb text rather than a translated intent.
func (c *Commander) ExecuteVerb(ctx context.Context, verbText string, params map[string]string) (bool, string, string) {
	run := c.newRun(verbText)

	plugin, canonical := c.registry.ResolveCanonical(verbText)
	if plugin == nil {
		return run.fail(fmt.Sprintf("No plugin can handle verb '%s'.", verbText))
	}
	run.advance(stateResolved)

	rendered, err := c.renderer.Render(plugin, canonical, params)
	if err != nil {
		var missing *domain.MissingParametersError
		if errors.As(err, &missing) {
			return run.fail(fmt.Sprintf("Error rendering command: Missing parameter '%s'.", missing.Names[0]))
		}
		return run.fail(fmt.Sprintf("Error rendering command: %s", err))
	}
	run.advance(stateRendered)

	return c.dispatch(ctx, run, rendered)
}

// dispatch hands the rendered command to the executor and converts the
// structured result into the reporting tuple. Executor semantics are
// not reinterpreted: success is exit code zero, stdout and stderr pass
// through unchanged.
func (c *Commander) dispatch(ctx context.Context, run *run, command string) (bool, string, string) {
	result := c.executor.Execute(ctx, command, c.timeout)
	switch result.Kind {
	case domain.ErrorSafetyRejected:
		return run.fail(result.Err)
	case domain.ErrorTimeout, domain.ErrorLaunch:
		run.advance(stateValidated)
		return run.fail(fmt.Sprintf("Unexpected error: %s", result.Err))
	}
	run.advance(stateValidated)
	run.advance(stateExecuted)
	return run.report(result.ExitCode == 0, result.Stdout, result.Stderr)
}
