package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nlcmd/cli/internal/core/domain"
)

// versionPattern is semver without build metadata, optionally v-prefixed.
var versionPattern = regexp.MustCompile(`^v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?$`)

// Manifest mirrors the on-disk TOML schema for external plugins.
type Manifest struct {
	Name        string              `toml:"name"`
	Description string              `toml:"description"`
	Version     string              `toml:"version"`
	Priority    int                 `toml:"priority"`
	Verbs       []string            `toml:"verbs"`
	Commands    map[string]Command  `toml:"commands"`
	VerbAliases map[string][]string `toml:"verb_aliases"`
}

// Command declares how one verb turns into a shell command.
type Command struct {
	Template     string            `toml:"template"`
	Description  string            `toml:"description"`
	Examples     []string          `toml:"examples"`
	RequiredArgs []string          `toml:"required_args"`
	OptionalArgs map[string]string `toml:"optional_args"`
}

// Load parses and validates a single manifest file.
func Load(path string) (*domain.Plugin, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	plugin, err := m.Build()
	if err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return plugin, nil
}

// Build validates the manifest and produces a registrable Plugin. The
// name pattern excludes dots, so external manifests can never claim the
// reserved core namespace.
func (m *Manifest) Build() (*domain.Plugin, error) {
	if !domain.ValidPluginName(m.Name) {
		return nil, fmt.Errorf("invalid plugin name %q", m.Name)
	}
	if m.Version != "" && !versionPattern.MatchString(m.Version) {
		return nil, fmt.Errorf("plugin %s has invalid version %q", m.Name, m.Version)
	}
	if len(m.Verbs) == 0 {
		return nil, fmt.Errorf("plugin %s declares no verbs", m.Name)
	}

	templates := make(map[string]domain.TemplateSpec, len(m.Commands))
	for _, verb := range m.Verbs {
		cmd, ok := m.Commands[verb]
		if !ok {
			return nil, fmt.Errorf("plugin %s declares verb %q without a command entry", m.Name, verb)
		}
		if strings.TrimSpace(cmd.Template) == "" {
			return nil, fmt.Errorf("plugin %s verb %q has an empty template", m.Name, verb)
		}
		templates[verb] = domain.TemplateSpec{
			Pattern:        cmd.Template,
			Description:    cmd.Description,
			Examples:       cmd.Examples,
			RequiredParams: cmd.RequiredArgs,
			OptionalParams: cmd.OptionalArgs,
		}
	}
	for verb := range m.Commands {
		if _, ok := templates[verb]; !ok {
			return nil, fmt.Errorf("plugin %s command %q has no matching verb", m.Name, verb)
		}
	}

	aliases := make(map[string]string)
	for canonical, list := range m.VerbAliases {
		for _, alias := range list {
			if prior, dup := aliases[alias]; dup {
				return nil, fmt.Errorf("plugin %s alias %q maps to both %q and %q", m.Name, alias, prior, canonical)
			}
			aliases[alias] = canonical
		}
	}

	return domain.NewPlugin(m.Name, m.Priority, m.Verbs, aliases, templates)
}

// LoadDir loads every .toml manifest in dir. A missing directory yields
// no plugins. A single bad manifest fails the whole load so a broken
// install is caught at startup rather than silently skipped.
func LoadDir(dir string) ([]*domain.Plugin, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest directory %s: %w", dir, err)
	}

	var plugins []*domain.Plugin
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		plugin, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		plugins = append(plugins, plugin)
	}
	return plugins, nil
}
