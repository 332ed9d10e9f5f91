package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/statboard/pkg/buildinfo"
	"github.com/matzehuels/statboard/pkg/cache"
	"github.com/matzehuels/statboard/pkg/config"
	"github.com/matzehuels/statboard/pkg/dashboard"
	"github.com/matzehuels/statboard/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
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
	Config config.Config

	configPath string
	noCache    bool
	redisURL   string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
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
		Use:   appName,
		Short: "Statboard renders sports analytics dashboards",
		Long: `Statboard turns cleaned motorsport results and NFL team data into charts:
KPIs, DNF rates and leaderboards for f1; the EPA landscape, win probabilities
and team momentum for nfl. Every chart renders to SVG, PNG or JSON, and the
same views are served over HTTP by 'statboard serve'.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (.toml or .yaml; default $XDG_CONFIG_HOME/statboard/config.toml)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the artifact cache")
	flags.StringVar(&c.redisURL, "redis", "", "cache artifacts in Redis at this URL")

	root.AddCommand(c.f1Command())
	root.AddCommand(c.nflCommand())
	root.AddCommand(c.labelsCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file, attaches the logger to the context and
// routes library events to the log.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetDashboardHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a dashboard runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*dashboard.Runner, error) {
	ch, keyer, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	return dashboard.NewRunner(ch, keyer, c.Logger), nil
}

// newCache picks the artifact cache: --no-cache, then --redis, then the
// config file's backend. Redis keys are scoped by version so two releases
// sharing a server never read each other's artifacts.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, cache.Keyer, error) {
	backend, url := c.Config.Cache.Backend, c.Config.Cache.RedisURL
	if c.redisURL != "" {
		backend, url = config.CacheRedis, c.redisURL
	}
	if c.noCache {
		backend = config.CacheNone
	}

	switch backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil, nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, url)
		if err != nil {
			return nil, nil, err
		}
		return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":"+buildinfo.Version+":"), nil
	}

	dir := c.Config.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil, nil
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return fc, nil, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/statboard/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{dashboard.DefaultFormat}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
