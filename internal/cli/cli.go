// Package cli implements the pyfmt command-line interface.
//
// # Commands
//
//   - format: reformat files in place, or report with --check and --diff
//   - check: run lint rules and print diagnostics
//   - doc: dump the layout document of a file as text, YAML, DOT or SVG
//   - serve: run the HTTP formatting API
//   - cache: inspect or clear the result cache
//   - completion: generate shell completion scripts
//
// # Configuration
//
// Settings come from pyfmt.toml, .pyfmt.toml or the [tool.pyfmt] table of
// pyproject.toml (see package config); flags override them.
//
// # Logging
//
// Every command logs through a charmbracelet logger on stderr; --verbose
// switches it to debug level and also reports per-file and cache events.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pyfmt/pkg/buildinfo"
	"github.com/matzehuels/pyfmt/pkg/cache"
	"github.com/matzehuels/pyfmt/pkg/config"
	"github.com/matzehuels/pyfmt/pkg/observability"
	"github.com/matzehuels/pyfmt/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "pyfmt"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// Exit Status
// =============================================================================

// ExitError carries a process exit status. Commands return it when the run
// itself succeeded but the result must fail a CI job, for example --check
// with files that would change.
type ExitError struct {
	Code   int
	Reason string
}

func (e *ExitError) Error() string {
	return e.Reason
}

// ExitCode returns the status err asks for: 0 for nil, the code of an
// [ExitError], 130 for cancellation and 1 otherwise.
func ExitCode(err error) int {
	var ee *ExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ee):
		return ee.Code
	case errors.Is(err, context.Canceled):
		return 130
	}
	return 1
}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level per-file, cache
// and request events are logged too.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetFormatHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetServerHooks(hooks)
	}
}

// RootCommand creates the root command with every subcommand registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "pyfmt formats Python source code",
		Long:         `pyfmt is a Python code formatter: it fits code into a line width, keeps every comment and removes parentheses the code does not need.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (default: search pyfmt.toml, .pyfmt.toml, pyproject.toml)")

	root.AddCommand(c.formatCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.docCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads --config, or searches upwards from the first path.
func (c *CLI) loadConfig(paths []string) (*config.Config, error) {
	if c.configPath != "" {
		return config.LoadFile(c.configPath)
	}
	dir := "."
	if len(paths) > 0 && paths[0] != "-" {
		dir = paths[0]
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			dir = filepath.Dir(dir)
		}
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner with the cache cfg selects. A nil
// keyer uses the default keys.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool, keyer cache.Keyer) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg != nil && cfg.Cache.RedisURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		rc, err := cache.NewRedisCache(connectCtx, cfg.Cache.RedisURL, "")
		if err == nil {
			return rc, nil
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "err", err)
	}
	dir, err := resolveCacheDir(cfg)
	if err != nil {
		c.Logger.Debug("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheTTL returns the configured entry lifetime, zero for the default.
func cacheTTL(cfg *config.Config) time.Duration {
	if cfg == nil {
		return 0
	}
	return time.Duration(cfg.Cache.TTL)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the XDG cache directory (~/.cache/pyfmt).
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

// resolveCacheDir prefers [cache] dir from the config, relative to the
// config file.
func resolveCacheDir(cfg *config.Config) (string, error) {
	if cfg == nil || cfg.Cache.Dir == "" {
		return cacheDir()
	}
	if filepath.IsAbs(cfg.Cache.Dir) || cfg.Root() == "" {
		return cfg.Cache.Dir, nil
	}
	return filepath.Join(cfg.Root(), cfg.Cache.Dir), nil
}

// displayPath shortens path relative to the working directory.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(wd, abs); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
