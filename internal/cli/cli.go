package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/shadowboard/shadowboard/pkg/buildinfo"
	"github.com/shadowboard/shadowboard/pkg/cache"
	"github.com/shadowboard/shadowboard/pkg/config"
	"github.com/shadowboard/shadowboard/pkg/export"
	"github.com/shadowboard/shadowboard/pkg/observability"
	"github.com/shadowboard/shadowboard/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = config.AppName

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

	// Opener shows print documents; nil uses the platform browser.
	Opener export.Opener

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline,
// cache and HTTP events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Register()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Shadowboard generates printable grid templates",
		Long:         `Shadowboard turns a width and height into a printable 1-inch grid template with a labeled border, for laying out tools on shadowboard foam.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/shadowboard/config.toml)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.printCommand())
	root.AddCommand(c.tileCommand())
	root.AddCommand(c.formCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// loadConfig reads the --config file, or the default location.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// newRunner creates a pipeline runner backed by the configured cache.
// Cache keys are scoped by version so upgrades never serve stale renders.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version)
	return pipeline.NewRunner(store, keyer, cfg, c.Logger), nil
}

// newCache opens the configured backend. A file cache that cannot be
// created degrades to no caching; remote backends must be reachable.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.Addr)
	case config.CacheMongo:
		return cache.NewMongoCache(ctx, cfg.Cache.URI, cfg.Cache.Database)
	default:
		dir, err := cfg.CachePath()
		if err != nil {
			c.Logger.Debug("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		store, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("cache disabled", "dir", dir, "err", err)
			return cache.NewNullCache(), nil
		}
		return store, nil
	}
}

func (c *CLI) opener() export.Opener {
	if c.Opener != nil {
		return c.Opener
	}
	return export.BrowserOpener{Logger: c.Logger}
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// artifactName returns the file name for one exported format.
func artifactName(base, format string) string {
	switch format {
	case pipeline.FormatPNG:
		return base + ".png"
	case pipeline.FormatHTML:
		return base + "-print.html"
	case pipeline.FormatPDF:
		return base + ".pdf"
	case pipeline.FormatTiledHTML:
		return base + "-tiled.html"
	case pipeline.FormatTiledPDF:
		return base + "-tiled.pdf"
	}
	return fmt.Sprintf("%s.%s", base, format)
}
