package cli

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nlcmd/cli/internal/core/commander"
	"github.com/nlcmd/cli/internal/core/registry"
	"github.com/nlcmd/cli/internal/core/template"
	"github.com/nlcmd/cli/internal/infrastructure/config"
	"github.com/nlcmd/cli/internal/infrastructure/history"
	"github.com/nlcmd/cli/internal/infrastructure/process"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// CLIContainer holds all the dependencies for CLI commands.
type CLIContainer struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Registry  *registry.VerbRegistry
	Renderer  *template.Renderer
	Commander *commander.Commander
	Executor  *process.Executor
	History   *history.Store
}

// NewRootCommand creates the root command with all subcommands attached.
func NewRootCommand(container *CLIContainer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nlc",
		Short: "nlc - verb-driven command runner",
		Long: `nlc turns structured intents (a verb plus named parameters) into
concrete shell commands, validates them against a safety policy, and
executes them with bounded time and resources.

Plugins own verbs and their command templates. Verb text resolves
through exact, alias, and fuzzy matching with deterministic tie-breaks.
No command reaches the process launcher without passing validation.`,
		Version:      Version,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.AddCommand(newRunCommand(container))
	rootCmd.AddCommand(newExecCommand(container))
	rootCmd.AddCommand(newPluginsCommand(container))
	rootCmd.AddCommand(newShellCommand(container))

	return rootCmd
}

func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// Execute runs the CLI with the given container and exits non-zero on error.
func Execute(container *CLIContainer) {
	rootCmd := NewRootCommand(container)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
