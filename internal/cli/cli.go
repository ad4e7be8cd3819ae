package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hoverfx/pkg/buildinfo"
	"github.com/matzehuels/hoverfx/pkg/cache"
	"github.com/matzehuels/hoverfx/pkg/figure"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "hoverfx"

	// configFile is the name of the config file inside the config directory.
	configFile = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config Config

	configPath string
	out        io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output, which defaults to stdout.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "hoverfx resolves hover labels and spike lines for plots",
		Long:         `hoverfx loads plot figures, finds the points under a pointer, lays out hover labels without overlap and draws spike lines, as SVG, JSON or in the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/hoverfx/config.toml)")

	// Register all subcommands
	root.AddCommand(c.hoverCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.groupsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Figure Loading
// =============================================================================

// loadFigure reads a figure file and fills unset hover settings from the
// config defaults.
func (c *CLI) loadFigure(path string) (*figure.Document, error) {
	doc, err := figure.Load(path)
	if err != nil {
		return nil, err
	}
	doc.ApplyDefaults(c.Config.Defaults)
	return doc, nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cacheRoot()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/hoverfx/).
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

// configDir returns the config directory using XDG standard (~/.config/hoverfx/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// sessionDir returns where named hover sessions are kept.
func (c *CLI) sessionDir() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions"), nil
}
