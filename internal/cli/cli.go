package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/iclabels/internal/config"
	"github.com/matzehuels/iclabels/pkg/buildinfo"
	"github.com/matzehuels/iclabels/pkg/cache"
	"github.com/matzehuels/iclabels/pkg/errors"
	"github.com/matzehuels/iclabels/pkg/prefs"
	"github.com/matzehuels/iclabels/pkg/registry"
	"github.com/matzehuels/iclabels/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "iclabels"

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

	configFile string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Configuration is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "iclabels prints pinout labels for DIP integrated circuits",
		Long: `iclabels draws printable labels that sit on top of DIP chips on a breadboard,
showing each pin's name, direction and type next to the pin it belongs to.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: iclabels.yaml searched upward)")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().String("chips-file", "", "extra chip pinout table (TOML)")
	root.PersistentFlags().String("packages-file", "", "extra package table (TOML)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.chipsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.prefsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command
// context.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	c.cfg = cfg
	if cfg.Verbose {
		c.SetLogLevel(LogDebug)
		installLogHooks(c.Logger)
	}
	if cfg.File != "" {
		c.Logger.Debug("loaded config", "file", cfg.File)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// settings returns the loaded configuration, or the defaults before setup.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// =============================================================================
// Dependency Factories
// =============================================================================

// openRegistry returns the built-in registry with the configured tables laid
// over it.
func (c *CLI) openRegistry() (*registry.Registry, error) {
	rc := c.settings().Registry
	if rc.Chips == "" && rc.Packages == "" {
		return registry.Default(), nil
	}
	extra, err := registry.LoadFiles(rc.Chips, rc.Packages)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRegistry, err, "load chip tables")
	}
	reg := registry.Default().Merge(extra)
	c.Logger.Debug("loaded chip tables", "chips", rc.Chips, "packages", rc.Packages, "total", reg.Len())
	return reg, nil
}

// openPrefs opens the configured preference store.
func (c *CLI) openPrefs(ctx context.Context) (*prefs.Manager, error) {
	store, err := prefs.Open(ctx, c.settings().Prefs.Options())
	if err != nil {
		return nil, err
	}
	return prefs.NewManager(store), nil
}

// openCache opens the configured artifact cache. A file cache that cannot
// be created falls back to no caching.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cc := c.settings().Cache
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cc.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cc.RedisURL, cc.RedisPrefix)
	}
	dir, err := cc.CacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newExporter returns an exporter whose artifact keys are scoped to this
// build.
func (c *CLI) newExporter(ctx context.Context, noCache bool) (*render.Exporter, error) {
	ac, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return &render.Exporter{
		Cache: ac,
		Keyer: cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":"),
		TTL:   c.settings().Cache.TTL,
	}, nil
}
