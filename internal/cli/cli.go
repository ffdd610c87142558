// Package cli implements the neurite command-line interface.
//
// This package provides commands for converting neuron morphologies
// between formats, refining their geometry at multiple resolutions,
// inspecting trunk decompositions, generating tube meshes, rendering
// topology diagrams, and serving the HTTP API. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - convert: Translate between the text and XML grid formats
//   - refine: Generate multi-level resampled refinements
//   - trunks: Decompose a morphology into unbranched paths
//   - mesh: Generate a tube mesh along the morphology
//   - render: Draw the topology as an SVG or PNG diagram
//   - serve: Run the HTTP API
//   - cache: Manage the local result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/neurite-tools/neurite/pkg/buildinfo"
	"github.com/neurite-tools/neurite/pkg/cache"
	"github.com/neurite-tools/neurite/pkg/config"
	"github.com/neurite-tools/neurite/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "neurite"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Neurite processes neuron skeleton morphologies",
		Long:         `Neurite is a CLI tool for validating, refining and meshing neuron skeleton morphologies: it repairs tree topology, decomposes neurites into unbranched trunks, resamples them at a chosen spacing, and emits refined trees or tube meshes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configFile())
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/neurite/config.toml)")

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.refineCommand())
	root.AddCommand(c.trunksCommand())
	root.AddCommand(c.meshCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// configFile resolves the config path: the --config flag when set,
// otherwise ~/.config/neurite/config.toml.
func (c *CLI) configFile() string {
	if c.configPath != "" {
		return c.configPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// cacheDir returns the cache directory using XDG standard (~/.cache/neurite/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// pipelineOptions builds pipeline options from config defaults.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Delta:    c.Config.Pipeline.Delta,
		Levels:   c.Config.Pipeline.Levels,
		Method:   c.Config.Pipeline.Method,
		Segments: c.Config.Pipeline.Segments,
		Logger:   c.Logger,
	}
}
