// Package commands implements the veplut subcommands.
package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ins-amu/veplut/internal/cli/config"
	"github.com/ins-amu/veplut/internal/cli/output"
	"github.com/ins-amu/veplut/internal/engine"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: r,
	}, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an
// engine. Useful for commands that don't touch the state database.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, falling back to environment
// variables with defaults when no config was loaded (e.g. direct command
// construction in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		RefLut:       getEnvOrDefault("VEPLUT_REF_LUT", config.DefaultRefLut),
		RulesFile:    getEnvOrDefault("VEPLUT_RULES_FILE", config.DefaultRulesFile),
		RegionsFile:  getEnvOrDefault("VEPLUT_REGIONS_FILE", config.DefaultRegionsFile),
		FsLut:        getEnvOrDefault("VEPLUT_FS_LUT", config.DefaultFsLut),
		MrtrixLut:    getEnvOrDefault("VEPLUT_MRTRIX_LUT", config.DefaultMrtrixLut),
		SubcortList:  getEnvOrDefault("VEPLUT_SUBCORT_LIST", config.DefaultSubcortList),
		AparcLut:     getEnvOrDefault("VEPLUT_APARC_LUT", config.DefaultAparcLut),
		StatePath:    getEnvOrDefault("VEPLUT_STATE_PATH", config.DefaultStateFile),
		Verbose:      os.Getenv("VEPLUT_VERBOSE") == "true",
		OutputFormat: os.Getenv("VEPLUT_OUTPUT"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	// Ensure state directory exists
	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, err
		}
	}

	return engine.New(engine.Config{
		RefLut:      cfg.RefLut,
		RulesFile:   cfg.RulesFile,
		RegionsFile: cfg.RegionsFile,
		FsLut:       cfg.FsLut,
		MrtrixLut:   cfg.MrtrixLut,
		SubcortList: cfg.SubcortList,
		AparcLut:    cfg.AparcLut,
		StatePath:   cfg.StatePath,
		Logger:      logger,
	})
}
