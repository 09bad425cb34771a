package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nlcmd/cli/internal/core/domain"
)

func newRunCommand(container *CLIContainer) *cobra.Command {
	var timeoutSecs int

	cmd := &cobra.Command{
		Use:   "run <verb> [name=value ...]",
		Short: "Resolve a verb, render its command, and execute it",
		Long: `Resolves the verb through the plugin registry, renders the owning
plugin's command template with the given parameters, validates the
result, and executes it.

Parameters are passed as name=value pairs:

  nlc run list path=/tmp
  nlc run grep pattern="TODO" path=./src`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			return runVerb(cmd, container, args[0], params, timeoutSecs)
		},
	}

	cmd.Flags().IntVarP(&timeoutSecs, "timeout", "t", 0, "execution timeout in seconds (0 = configured default)")

	return cmd
}

func runVerb(cmd *cobra.Command, container *CLIContainer, verbText string, params map[string]string, timeoutSecs int) error {
	plugin, canonical := container.Registry.ResolveCanonical(verbText)
	if plugin == nil {
		return fmt.Errorf("no plugin can handle verb %q", verbText)
	}

	command, err := container.Renderer.Render(plugin, canonical, params)
	if err != nil {
		return err
	}

	timeout := container.Config.DefaultTimeout()
	if timeoutSecs > 0 {
		timeout = time.Duration(timeoutSecs) * time.Second
	}

	container.Logger.Debug().
		Str("verb", canonical).
		Str("plugin", plugin.Name()).
		Str("command", command).
		Msg("executing rendered command")

	result := container.Executor.Execute(cmd.Context(), command, timeout)
	appendHistory(container, canonical, command, result)

	return reportResult(cmd, command, result)
}

// parseParams turns ["path=/tmp", "pattern=TODO"] into a parameter map.
func parseParams(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected name=value", arg)
		}
		params[name] = value
	}
	return params, nil
}

// reportResult writes process output to the command streams and converts
// failures into errors for cobra to surface.
func reportResult(cmd *cobra.Command, command string, result domain.ExecutionResult) error {
	if result.Stdout != "" {
		fmt.Fprint(cmd.OutOrStdout(), result.Stdout)
	}
	if result.Stderr != "" {
		fmt.Fprint(cmd.ErrOrStderr(), result.Stderr)
	}

	switch result.Kind {
	case domain.ErrorSafetyRejected:
		return fmt.Errorf("command rejected: %s", result.Err)
	case domain.ErrorTimeout:
		return fmt.Errorf("command timed out: %s", command)
	case domain.ErrorLaunch:
		return fmt.Errorf("failed to launch command: %s", result.Err)
	}
	if !result.Success {
		return fmt.Errorf("command exited with code %d", result.ExitCode)
	}
	return nil
}

// appendHistory records the execution, tolerating a missing store.
func appendHistory(container *CLIContainer, verb, command string, result domain.ExecutionResult) {
	if container.History == nil {
		return
	}
	rec := historyRecord(verb, command, result)
	if err := container.History.Append(rec); err != nil {
		container.Logger.Warn().Err(err).Msg("failed to record execution history")
	}
}
