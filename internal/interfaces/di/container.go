// Package di wires the application together: configuration, safety
// policy, registry, executor, commander, and the optional manifest
// watcher and history store.
package di

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/nlcmd/cli/internal/core/commander"
	"github.com/nlcmd/cli/internal/core/domain"
	"github.com/nlcmd/cli/internal/core/registry"
	"github.com/nlcmd/cli/internal/core/safety"
	"github.com/nlcmd/cli/internal/core/template"
	"github.com/nlcmd/cli/internal/infrastructure/config"
	"github.com/nlcmd/cli/internal/infrastructure/history"
	"github.com/nlcmd/cli/internal/infrastructure/manifest"
	"github.com/nlcmd/cli/internal/infrastructure/process"
	"github.com/nlcmd/cli/internal/interfaces/cli"
	"github.com/nlcmd/cli/internal/plugins/builtin"
)

// Container holds all application dependencies.
type Container struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Registry  *registry.VerbRegistry
	Validator *safety.Validator
	Renderer  *template.Renderer
	Executor  *process.Executor
	Commander *commander.Commander
	History   *history.Store

	watcher *manifest.Watcher
}

// NewContainer creates and wires all dependencies.
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newLogger(cfg)

	policy := safety.DefaultPolicy()
	policy.Denylist = append(policy.Denylist, cfg.ExtraDenylist...)
	policy.ProtectedPaths = append(policy.ProtectedPaths, cfg.ProtectedPaths...)

	validator, err := safety.NewValidator(policy)
	if err != nil {
		return nil, fmt.Errorf("failed to build safety validator: %w", err)
	}

	reg := registry.NewVerbRegistry(registry.Config{
		FuzzyEnabled:   cfg.FuzzyEnabled,
		FuzzyThreshold: cfg.FuzzyThreshold,
		CacheSize:      cfg.CacheSize,
	})

	renderer := template.NewRenderer()
	executor := process.NewExecutor(validator, logger)
	cmdr := commander.NewCommander(reg, renderer, executor, cfg.DefaultTimeout(), logger)

	c := &Container{
		Config:    cfg,
		Logger:    logger,
		Registry:  reg,
		Validator: validator,
		Renderer:  renderer,
		Executor:  executor,
		Commander: cmdr,
	}

	if err := c.loadPlugins(); err != nil {
		return nil, err
	}

	if cfg.HistoryPath != "" {
		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.HistoryPath).Msg("history store unavailable, continuing without it")
		} else {
			c.History = store
		}
	}

	return c, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.WarnLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// loadPlugins registers the builtin plugins plus any manifest-defined
// ones. The full plugin set is assembled before the registry is reset
// so a failed reload leaves the previous set in place.
func (c *Container) loadPlugins() error {
	builtins, err := builtin.All()
	if err != nil {
		return fmt.Errorf("failed to build builtin plugins: %w", err)
	}

	plugins := make([]*domain.Plugin, 0, len(builtins))
	plugins = append(plugins, builtins...)

	if c.Config.ManifestDir != "" {
		loaded, err := manifest.LoadDir(c.Config.ManifestDir)
		if err != nil {
			return fmt.Errorf("failed to load plugin manifests: %w", err)
		}
		plugins = append(plugins, loaded...)
	}

	c.Registry.Reset()
	for _, p := range plugins {
		if err := c.Registry.Register(p); err != nil {
			return fmt.Errorf("failed to register plugin %s: %w", p.Name(), err)
		}
	}

	c.Logger.Debug().Int("plugins", len(plugins)).Msg("plugin registry loaded")
	return nil
}

// WatchManifests reloads the plugin set when manifest files change.
// It is a no-op when no manifest directory is configured.
func (c *Container) WatchManifests(ctx context.Context) error {
	if c.Config.ManifestDir == "" {
		return nil
	}
	if _, err := os.Stat(c.Config.ManifestDir); os.IsNotExist(err) {
		return nil
	}

	w, err := manifest.NewWatcher(c.Config.ManifestDir, manifest.DefaultDebounce, func() {
		if err := c.loadPlugins(); err != nil {
			c.Logger.Warn().Err(err).Msg("manifest reload failed, keeping previous plugin set")
		}
	}, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to watch manifest directory: %w", err)
	}

	c.watcher = w
	go w.Start(ctx)
	return nil
}

// Shutdown releases held resources.
func (c *Container) Shutdown() {
	if c.History != nil {
		if err := c.History.Close(); err != nil {
			c.Logger.Warn().Err(err).Msg("failed to close history store")
		}
	}
}

// GetCLIContainer exposes the subset of dependencies CLI commands use.
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return &cli.CLIContainer{
		Config:    c.Config,
		Logger:    c.Logger,
		Registry:  c.Registry,
		Renderer:  c.Renderer,
		Commander: c.Commander,
		Executor:  c.Executor,
		History:   c.History,
	}
}
