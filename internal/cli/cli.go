// Package cli implements the glow command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glow/pkg/buildinfo"
	"github.com/matzehuels/glow/pkg/cache"
	"github.com/matzehuels/glow/pkg/config"
	"github.com/matzehuels/glow/pkg/docs"
	"github.com/matzehuels/glow/pkg/integrations/tableau"
	"github.com/matzehuels/glow/pkg/observability"
	"github.com/matzehuels/glow/pkg/pipeline"
	"github.com/matzehuels/glow/pkg/warehouse"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "glow"

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

	// ConfigPath is the project file given with --config. Empty means
	// glow_project.toml in the working directory, if present.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. Debug level also routes
// pipeline, cache and HTTP hooks to the logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Register()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "glow generates documentation for data sources and tracking events",
		Long: `glow generates markdown documentation from BI data source definitions,
an event definitions repository and warehouse usage data, and builds it
into a static site.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(withLogger(ctx, c.Logger))
		return nil
	}
	root.PersistentFlags().StringVarP(&c.ConfigPath, "config", "c", "", "project file (default ./"+config.FileName+")")

	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.compileCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.lineageCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// env is everything a command needs to run the pipeline.
type env struct {
	cfg       *config.Config
	runner    *pipeline.Runner
	connector *tableau.Connector
	closers   []io.Closer
}

func (e *env) Close() {
	for _, cl := range e.closers {
		_ = cl.Close()
	}
}

func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.ConfigPath)
}

// newEnv builds the cache, BI client, warehouse and runner described by
// cfg. Sources that are not configured are left nil.
func (c *CLI) newEnv(ctx context.Context, cfg *config.Config, noCache bool) (*env, error) {
	e := &env{cfg: cfg}

	ch, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, ch)

	var src pipeline.Sources
	if cfg.HasTableau() {
		client := tableau.NewClient(tableau.Config{
			Server:            cfg.Tableau.Server,
			Site:              cfg.Tableau.Site,
			Username:          cfg.Tableau.Username,
			Password:          cfg.Tableau.Password,
			APIVersion:        cfg.Tableau.APIVersion,
			RequestsPerSecond: cfg.Tableau.RequestsPerSecond,
		}, ch, cfg.Cache.TTL)
		e.connector = tableau.NewConnector(client, c.Logger)
		src.Datasources = e.connector
	}

	if cfg.Warehouse.Enabled && cfg.Warehouse.DSN != "" {
		wh, err := warehouse.Open(cfg.Warehouse.Driver, cfg.Warehouse.DSN)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.closers = append(e.closers, wh)
		src.Usage = wh
	}

	templates, err := docs.LoadTemplates(cfg.TemplatesDir)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.runner = pipeline.NewRunner(src, templates, c.Logger)
	return e, nil
}

// newCache returns the configured cache backend, or a NullCache when
// caching is disabled.
func newCache(ctx context.Context, cfg config.Cache, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cfg.RedisURL, appName+":")
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: the configured one, or the
// platform user cache directory (~/.cache/glow on Linux).
func cacheDir(cfg config.Cache) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return cache.DefaultDir()
}
