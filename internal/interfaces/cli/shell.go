package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newShellCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive verb shell",
		Long: `Starts an interactive session. Each line is a verb followed by
name=value parameters, resolved and executed as with 'nlc run'.

Special inputs:

  !<command>   validate and run a raw shell command
  :plugins     list registered plugins
  exit         leave the shell`,
		RunE: func(cmd *cobra.Command, args []string) error {
			model := newShellModel(container)
			program := tea.NewProgram(model)
			_, err := program.Run()
			return err
		},
	}
}

// execDoneMsg carries the outcome of a submitted line back into the UI loop.
type execDoneMsg struct {
	input   string
	success bool
	output  string
	errText string
}

type shellModel struct {
	container *CLIContainer
	input     []rune
	lines     []string
	busy      bool
	quitting  bool
}

func newShellModel(container *CLIContainer) shellModel {
	return shellModel{
		container: container,
		lines: []string{
			headerStyle.Render("nlc shell") + dimStyle.Render("  type a verb, '!raw', ':plugins', or 'exit'"),
		},
	}
}

func (m shellModel) Init() tea.Cmd {
	return nil
}

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case execDoneMsg:
		m.busy = false
		m.lines = append(m.lines, dimStyle.Render("> ")+msg.input)
		if msg.output != "" {
			m.lines = append(m.lines, strings.TrimRight(msg.output, "\n"))
		}
		if msg.errText != "" {
			m.lines = append(m.lines, errorStyle.Render(strings.TrimRight(msg.errText, "\n")))
		}
		if msg.success {
			m.lines = append(m.lines, successStyle.Render("ok"))
		}
		return m, nil
	}
	return m, nil
}

func (m shellModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEnter:
		if m.busy {
			return m, nil
		}
		line := strings.TrimSpace(string(m.input))
		m.input = nil
		if line == "" {
			return m, nil
		}
		return m.submit(line)

	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil

	case tea.KeySpace:
		m.input = append(m.input, ' ')
		return m, nil

	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
		return m, nil
	}
	return m, nil
}

func (m shellModel) submit(line string) (tea.Model, tea.Cmd) {
	switch {
	case line == "exit" || line == "quit":
		m.quitting = true
		return m, tea.Quit

	case line == ":plugins":
		m.lines = append(m.lines, dimStyle.Render("> ")+line)
		m.lines = append(m.lines, m.pluginSummary()...)
		return m, nil
	}

	m.busy = true
	container := m.container
	return m, func() tea.Msg {
		return runLine(container, line)
	}
}

// runLine executes one shell line outside the UI goroutine.
func runLine(container *CLIContainer, line string) execDoneMsg {
	ctx := context.Background()

	if raw, ok := strings.CutPrefix(line, "!"); ok {
		raw = strings.TrimSpace(raw)
		result := container.Executor.Execute(ctx, raw, container.Config.DefaultTimeout())
		appendHistory(container, "", raw, result)

		errText := result.Stderr
		if !result.Success && result.Err != "" {
			errText = strings.TrimRight(errText+"\n"+result.Err, "\n")
		}
		return execDoneMsg{input: line, success: result.Success, output: result.Stdout, errText: errText}
	}

	fields := strings.Fields(line)
	params, err := parseParams(fields[1:])
	if err != nil {
		return execDoneMsg{input: line, errText: err.Error()}
	}

	success, output, errText := container.Commander.ExecuteVerb(ctx, fields[0], params)
	return execDoneMsg{input: line, success: success, output: output, errText: errText}
}

func (m shellModel) pluginSummary() []string {
	plugins := m.container.Registry.Plugins()
	if len(plugins) == 0 {
		return []string{dimStyle.Render("no plugins registered")}
	}

	summary := make([]string, 0, len(plugins))
	for _, p := range plugins {
		verbs := p.Verbs()
		sort.Strings(verbs)
		summary = append(summary, fmt.Sprintf("%s: %s", nameStyle.Render(p.Name()), strings.Join(verbs, ", ")))
	}
	return summary
}

func (m shellModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.busy {
		b.WriteString(dimStyle.Render("running..."))
	} else {
		b.WriteString(nameStyle.Render("nlc> "))
		b.WriteString(string(m.input))
	}
	b.WriteString("\n")
	return b.String()
}
