package cli

import (
	"fmt"
	"log/slog"
	"os"

	schemachecker "github.com/bpkcongli/schema-checker"
	"github.com/bpkcongli/schema-checker/internal/config"
	"github.com/bpkcongli/schema-checker/internal/logging"
	"github.com/bpkcongli/schema-checker/pkg/catalog"
)

// Options are the settings shared by every command.
type Options struct {
	ConfigPath string
	// LogLevel overrides log.level from the config file when set.
	LogLevel string
	// Registry resolves class names used in the config. Programs embedding
	// the CLI register their own types here; nil means primitives only.
	Registry *catalog.Registry
	// Hooks are attached to every checker in addition to the debug hooks.
	Hooks schemachecker.Hooks
}

// Environment is the loaded configuration and the catalog built from it.
type Environment struct {
	Config   *config.Config
	Logger   *slog.Logger
	Registry *catalog.Registry
	Catalog  *catalog.Catalog
}

// Load reads the config file and builds the catalog with standard CLI conventions.
func Load(opts Options) (*Environment, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	levelName := cfg.Log.Level
	if opts.LogLevel != "" {
		levelName = opts.LogLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithFormat(os.Stderr, level, cfg.Log.Format)

	reg := opts.Registry
	if reg == nil {
		reg = catalog.NewRegistry()
	}

	hooks := opts.Hooks
	if level <= slog.LevelDebug {
		hooks = hooks.Merge(createDebugHooks(logger))
	}

	cat, err := catalog.Build(cfg.Schemas, reg,
		schemachecker.WithLogger(logger),
		schemachecker.WithHooks(hooks),
	)
	if err != nil {
		return nil, fmt.Errorf("error building catalog: %w", err)
	}

	return &Environment{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Catalog:  cat,
	}, nil
}

func createDebugHooks(logger *slog.Logger) schemachecker.Hooks {
	return schemachecker.Hooks{
		OnCheck: func(e *schemachecker.CheckEvent) {
			if e.Passed() {
				logger.Debug("Check Passed", "schema", e.Checker, "stage", e.Stage, "duration", e.Duration)
				return
			}
			logger.Debug("Check Failed", "schema", e.Checker, "stage", e.Stage, "code", e.Code, "field", e.Field)
		},
	}
}
