package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nlcmd/cli/internal/core/domain"
	"github.com/nlcmd/cli/internal/infrastructure/history"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	nameStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func historyRecord(verb, command string, result domain.ExecutionResult) history.Record {
	return history.Record{
		ExecutionID: result.ExecutionID,
		Verb:        verb,
		Command:     command,
		ExitCode:    result.ExitCode,
		ErrorKind:   result.Kind,
		Error:       result.Err,
		StartedAt:   result.StartedAt,
		Duration:    result.Duration,
	}
}
