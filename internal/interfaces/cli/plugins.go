package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nlcmd/cli/internal/core/domain"
)

func newPluginsCommand(container *CLIContainer) *cobra.Command {
	var showTemplates bool

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List registered plugins, their verbs, and aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			plugins := container.Registry.Plugins()
			if len(plugins) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("No plugins registered."))
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Registered plugins (%d)", len(plugins))))
			fmt.Fprintln(out)

			for _, p := range plugins {
				printPlugin(cmd, p, showTemplates)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTemplates, "templates", false, "show command templates for each verb")

	return cmd
}

func printPlugin(cmd *cobra.Command, p *domain.Plugin, showTemplates bool) {
	out := cmd.OutOrStdout()

	label := p.Name()
	if p.IsCore() {
		label += dimStyle.Render(" (core)")
	}
	fmt.Fprintf(out, "%s  %s\n", nameStyle.Render(label), dimStyle.Render(fmt.Sprintf("priority %d", p.Priority())))

	verbs := p.Verbs()
	sort.Strings(verbs)

	aliasesByVerb := make(map[string][]string)
	for alias, canonical := range p.Aliases() {
		aliasesByVerb[canonical] = append(aliasesByVerb[canonical], alias)
	}

	for _, verb := range verbs {
		line := "  " + verb
		if aliases := aliasesByVerb[verb]; len(aliases) > 0 {
			sort.Strings(aliases)
			line += dimStyle.Render(" (" + strings.Join(aliases, ", ") + ")")
		}
		fmt.Fprintln(out, line)

		if showTemplates {
			if spec, ok := p.Template(verb); ok {
				fmt.Fprintf(out, "    %s\n", dimStyle.Render(spec.Pattern))
			}
		}
	}
	fmt.Fprintln(out)
}
