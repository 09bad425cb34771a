package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Local test helpers

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const weatherManifest = `
name = "weather"
description = "Weather lookups"
version = "1.2.0"
priority = 5
verbs = ["forecast"]

[verb_aliases]
forecast = ["wx"]

[commands.forecast]
template = "curl -s wttr.in/{city}"
description = "Show the forecast for a city"
required_args = ["city"]
`

func TestLoad_ValidManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "weather.toml", weatherManifest)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "weather", p.Name())
	assert.Equal(t, 5, p.Priority())
	assert.False(t, p.IsCore())
	assert.True(t, p.CanHandle("forecast"))
	assert.True(t, p.CanHandle("wx"))

	spec, ok := p.Template("forecast")
	require.True(t, ok)
	assert.Equal(t, "curl -s wttr.in/{city}", spec.Pattern)
	assert.Equal(t, []string{"city"}, spec.RequiredParams)
}

func TestBuild_RejectsInvalidManifests(t *testing.T) {
	tests := []struct {
		name     string
		manifest Manifest
		errorMsg string
	}{
		{
			name:     "DottedName_ShouldBeRejected",
			manifest: Manifest{Name: "core.files", Verbs: []string{"list"}},
			errorMsg: "invalid plugin name",
		},
		{
			name:     "EmptyName_ShouldBeRejected",
			manifest: Manifest{Verbs: []string{"list"}},
			errorMsg: "invalid plugin name",
		},
		{
			name:     "BadVersion_ShouldBeRejected",
			manifest: Manifest{Name: "tool", Version: "latest", Verbs: []string{"list"}},
			errorMsg: "invalid version",
		},
		{
			name:     "NoVerbs_ShouldBeRejected",
			manifest: Manifest{Name: "tool"},
			errorMsg: "declares no verbs",
		},
		{
			name:     "VerbWithoutCommand_ShouldBeRejected",
			manifest: Manifest{Name: "tool", Verbs: []string{"list"}},
			errorMsg: `verb "list" without a command entry`,
		},
		{
			name: "EmptyTemplate_ShouldBeRejected",
			manifest: Manifest{
				Name:     "tool",
				Verbs:    []string{"list"},
				Commands: map[string]Command{"list": {Template: "   "}},
			},
			errorMsg: "empty template",
		},
		{
			name: "CommandWithoutVerb_ShouldBeRejected",
			manifest: Manifest{
				Name:  "tool",
				Verbs: []string{"list"},
				Commands: map[string]Command{
					"list":  {Template: "ls"},
					"ghost": {Template: "true"},
				},
			},
			errorMsg: "no matching verb",
		},
		{
			name: "DuplicateAlias_ShouldBeRejected",
			manifest: Manifest{
				Name:  "tool",
				Verbs: []string{"list", "show"},
				Commands: map[string]Command{
					"list": {Template: "ls"},
					"show": {Template: "cat {path}"},
				},
				VerbAliases: map[string][]string{
					"list": {"l"},
					"show": {"l"},
				},
			},
			errorMsg: `alias "l" maps to both`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.manifest.Build()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestLoadDir_Behavior(t *testing.T) {
	t.Run("MissingDirectory_ShouldYieldNothing", func(t *testing.T) {
		plugins, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.Empty(t, plugins)
	})

	t.Run("NonManifestFiles_ShouldBeIgnored", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "weather.toml", weatherManifest)
		writeManifest(t, dir, "notes.txt", "not a manifest")

		plugins, err := LoadDir(dir)
		require.NoError(t, err)
		require.Len(t, plugins, 1)
		assert.Equal(t, "weather", plugins[0].Name())
	})

	t.Run("OneBadManifest_ShouldFailTheLoad", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "weather.toml", weatherManifest)
		writeManifest(t, dir, "broken.toml", `name = "core.sneaky"`+"\n"+`verbs = ["x"]`)

		_, err := LoadDir(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid plugin name")
	})
}

func TestRelevant_FiltersEvents(t *testing.T) {
	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{name: "TomlWrite_ShouldBeRelevant", event: fsnotify.Event{Name: "a.toml", Op: fsnotify.Write}, expected: true},
		{name: "TomlRemove_ShouldBeRelevant", event: fsnotify.Event{Name: "a.toml", Op: fsnotify.Remove}, expected: true},
		{name: "TomlChmod_ShouldBeIgnored", event: fsnotify.Event{Name: "a.toml", Op: fsnotify.Chmod}, expected: false},
		{name: "SwapFile_ShouldBeIgnored", event: fsnotify.Event{Name: "a.toml.swp", Op: fsnotify.Write}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, relevant(tt.event))
		})
	}
}
