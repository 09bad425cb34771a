package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newExecCommand(container *CLIContainer) *cobra.Command {
	var timeoutSecs int

	cmd := &cobra.Command{
		Use:   "exec -- <command ...>",
		Short: "Validate and execute a raw shell command",
		Long: `Runs a raw command string through safety validation and the bounded
executor, bypassing verb resolution and template rendering.

  nlc exec -- ls -la /tmp
  nlc exec --timeout 5 -- sleep 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")

			timeout := container.Config.DefaultTimeout()
			if timeoutSecs > 0 {
				timeout = time.Duration(timeoutSecs) * time.Second
			}

			result := container.Executor.Execute(cmd.Context(), command, timeout)
			appendHistory(container, "", command, result)

			return reportResult(cmd, command, result)
		},
	}

	cmd.Flags().IntVarP(&timeoutSecs, "timeout", "t", 0, "execution timeout in seconds (0 = configured default)")

	return cmd
}
