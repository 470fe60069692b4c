// Package cli implements the simpledatavis command-line interface.
//
// The commands render charts from data sources, attach charts to the
// data-vis elements of HTML pages, export the underlying records and serve
// the renderer over HTTP or MCP. The CLI is built using cobra and logs
// through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - render: Draw one data source as SVG, HTML, PNG or PDF
//   - page: Render every data-vis element of an HTML file
//   - types, pick: List chart types, or choose one interactively
//   - export: Write the records as CSV, JSON or XLSX
//   - serve, mcp: Run the HTTP API or the MCP stdio server
//   - cache: Manage the response and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vabarbosa/simple-data-vis/internal/config"
	"github.com/vabarbosa/simple-data-vis/pkg/observability"
	"github.com/vabarbosa/simple-data-vis/pkg/pipeline"
	"github.com/vabarbosa/simple-data-vis/pkg/resolve"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "simpledatavis"

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

	// ConfigPath overrides the config file lookup.
	ConfigPath string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the observability
// hooks are routed to the logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := &logHooks{logger: c.Logger}
		observability.SetChartHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}
}

// config loads the configuration once.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	var (
		cfg *config.Config
		err error
	)
	if c.ConfigPath != "" {
		cfg, err = config.Load(c.ConfigPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOpts control how newRunner wires the pipeline.
type runnerOpts struct {
	noCache    bool
	allowFiles bool
}

// newRunner creates a pipeline runner from the configuration. The same cache
// backs fetched responses and rendered artifacts.
func (c *CLI) newRunner(ctx context.Context, ro runnerOpts) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	store, err := cfg.OpenCache(ctx, ro.noCache)
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(ctx)

	client := resolve.NewClient(
		resolve.WithCache(store, cfg.Cache.TTL.Duration),
		resolve.WithHeaders(cfg.Headers),
		resolve.WithTimeout(cfg.Timeout.Duration),
	)
	resolver := resolve.New(client, logger)
	resolver.AllowFiles = ro.allowFiles

	runner := pipeline.NewRunner(resolver, store, nil, logger)
	runner.Defaults = cfg.Options()
	if cfg.Cache.TTL.Duration > 0 {
		runner.TTL = cfg.Cache.TTL.Duration
	}
	return runner, nil
}

// cacheDir returns the file cache directory from the configuration. ok is
// false when another backend is configured.
func (c *CLI) cacheDir() (dir string, ok bool, err error) {
	cfg, err := c.config()
	if err != nil {
		return "", false, err
	}
	if cfg.Cache.Backend != "" && cfg.Cache.Backend != config.CacheFile {
		return "", false, nil
	}
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, true, nil
	}
	dir, err = config.CacheDir()
	if err != nil {
		return "", false, err
	}
	return dir, true, nil
}
