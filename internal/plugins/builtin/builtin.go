package builtin

import (
	"fmt"

	"github.com/nlcmd/cli/internal/core/domain"
)

// All returns the built-in core plugins registered at startup. They live
// in the reserved "core." namespace, which wins priority ties against
// third-party plugins exposing the same verbs.
func All() ([]*domain.Plugin, error) {
	builders := []func() (*domain.Plugin, error){
		filesPlugin,
		searchPlugin,
		systemPlugin,
	}

	plugins := make([]*domain.Plugin, 0, len(builders))
	for _, build := range builders {
		p, err := build()
		if err != nil {
			return nil, fmt.Errorf("failed to build core plugin: %w", err)
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

func filesPlugin() (*domain.Plugin, error) {
	return domain.NewPlugin("core.files", 10,
		[]string{"list", "show", "disk-usage"},
		map[string]string{
			"ll":  "list",
			"dir": "list",
			"cat": "show",
			"du":  "disk-usage",
		},
		map[string]domain.TemplateSpec{
			"list": {
				Pattern:        "ls -la {path}",
				Description:    "List directory contents",
				Examples:       []string{"list", "list path=/tmp"},
				OptionalParams: map[string]string{"path": "."},
			},
			"show": {
				Pattern:        "cat {file}",
				Description:    "Print a file to standard output",
				Examples:       []string{"show file=README.md"},
				RequiredParams: []string{"file"},
			},
			"disk-usage": {
				Pattern:        "du -sh {path}",
				Description:    "Summarize disk usage of a path",
				OptionalParams: map[string]string{"path": "."},
			},
		})
}

func searchPlugin() (*domain.Plugin, error) {
	return domain.NewPlugin("core.search", 10,
		[]string{"find-file", "grep"},
		map[string]string{
			"locate": "find-file",
			"search": "grep",
		},
		map[string]domain.TemplateSpec{
			"find-file": {
				Pattern:        "find {path} -name {pattern}",
				Description:    "Find files by name pattern",
				Examples:       []string{"find-file pattern=*.go"},
				RequiredParams: []string{"pattern"},
				OptionalParams: map[string]string{"path": "."},
			},
			"grep": {
				Pattern:        "grep -rn {pattern} {path}",
				Description:    "Search file contents recursively",
				Examples:       []string{"grep pattern=TODO path=src"},
				RequiredParams: []string{"pattern"},
				OptionalParams: map[string]string{"path": "."},
			},
		})
}

func systemPlugin() (*domain.Plugin, error) {
	return domain.NewPlugin("core.system", 10,
		[]string{"processes", "disk-free", "memory", "whoami", "date"},
		map[string]string{
			"ps":  "processes",
			"df":  "disk-free",
			"mem": "memory",
		},
		map[string]domain.TemplateSpec{
			"processes": {Pattern: "ps aux", Description: "List running processes"},
			"disk-free": {Pattern: "df -h", Description: "Report filesystem space"},
			"memory":    {Pattern: "free -m", Description: "Report memory usage"},
			"whoami":    {Pattern: "whoami", Description: "Print the current user"},
			"date":      {Pattern: "date", Description: "Print the current date and time"},
		})
}
