package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pyfmt/pkg/buildinfo"
	"github.com/matzehuels/pyfmt/pkg/cache"
	"github.com/matzehuels/pyfmt/pkg/errors"
	"github.com/matzehuels/pyfmt/pkg/format"
	"github.com/matzehuels/pyfmt/pkg/lint"
	"github.com/matzehuels/pyfmt/pkg/observability"
)

// Runner formats sources through a cache. It holds no per-run state, so one
// Runner can serve concurrent batch runs and API requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses [cache.DefaultKeyer] and a nil logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// FormatKeyOpts maps formatter options onto cache key options.
func FormatKeyOpts(o format.Options) cache.FormatKeyOpts {
	return cache.FormatKeyOpts{
		LineWidth:           o.LineWidth,
		IndentWidth:         o.IndentWidth,
		QuoteStyle:          o.QuoteStyle.String(),
		DocstringQuoteStyle: o.DocstringQuoteStyle.String(),
		MagicTrailingComma:  o.MagicTrailingComma.String(),
		LineEnding:          o.LineEnding.String(),
		Version:             buildinfo.Version,
	}
}

// FormatSource formats src, consulting the cache first. Failures are not
// cached.
func (r *Runner) FormatSource(ctx context.Context, src string, opts format.Options) (string, bool, error) {
	return r.formatCached(ctx, src, opts, DefaultCacheTTL, false)
}

func (r *Runner) formatCached(ctx context.Context, src string, opts format.Options, ttl time.Duration, refresh bool) (string, bool, error) {
	key := r.Keyer.FormatKey(cache.Hash([]byte(src)), FormatKeyOpts(opts))
	if !refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		} else if hit {
			observability.Cache().OnCacheHit(ctx, "format")
			return string(data), true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "format")
	}

	out, err := format.FormatSource(src, opts)
	if err != nil {
		return "", false, err
	}
	if err := r.Cache.Set(ctx, key, []byte(out), ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "format", len(out))
	}
	return out, false, nil
}

// Lint runs rules over src, consulting the cache first.
func (r *Runner) Lint(ctx context.Context, src string, rules []lint.Rule) ([]lint.Diagnostic, bool, error) {
	return r.lintCached(ctx, src, rules, DefaultCacheTTL, false)
}

func (r *Runner) lintCached(ctx context.Context, src string, rules []lint.Rule, ttl time.Duration, refresh bool) ([]lint.Diagnostic, bool, error) {
	key := r.Keyer.LintKey(cache.Hash([]byte(src)), lint.Names(rules), buildinfo.Version)
	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var diags []lint.Diagnostic
			if err := json.Unmarshal(data, &diags); err == nil {
				observability.Cache().OnCacheHit(ctx, "lint")
				return diags, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "lint")
	}

	diags, err := lint.CheckSource(src, rules)
	if err != nil {
		return nil, false, err
	}
	if data, err := json.Marshal(diags); err == nil {
		if err := r.Cache.Set(ctx, key, data, ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, "lint", len(data))
		}
	}
	return diags, false, nil
}

// Execute formats every file named by opts. Per-file failures are recorded
// in the result; the returned error is reserved for invalid options, failed
// discovery and cancellation.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	files, err := Discover(opts.Paths, opts.Exclude, opts.ExcludeRoot)
	if err != nil {
		return nil, err
	}
	result := &Result{
		RunID: uuid.NewString(),
		Files: make([]FileResult, len(files)),
	}
	logger = logger.With("run", result.RunID[:8])
	logger.Debug("discovered files", "count", len(files), "jobs", opts.Jobs)

	var mu sync.Mutex
	done := make([]bool, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fr := r.processFile(gctx, path, opts)
			if fr.Err != nil {
				logger.Debug("file failed", "path", path, "err", fr.Err)
			}
			mu.Lock()
			defer mu.Unlock()
			result.Files[i] = fr
			done[i] = true
			result.Stats.Add(fr)
			if opts.OnFile != nil {
				opts.OnFile(fr)
			}
			return nil
		})
	}
	waitErr := g.Wait()

	finished := result.Files[:0]
	for i, f := range result.Files {
		if done[i] {
			finished = append(finished, f)
		}
	}
	result.Files = finished
	result.Stats.Duration = time.Since(start)

	logger.Info("formatted files",
		"files", result.Stats.Files,
		"changed", result.Stats.Changed,
		"failed", result.Stats.Failed,
		"cache_hits", result.Stats.CacheHits,
		"duration", result.Stats.Duration.Round(time.Millisecond))

	if waitErr == nil {
		waitErr = ctx.Err()
	}
	return result, waitErr
}

func (r *Runner) processFile(ctx context.Context, path string, opts Options) FileResult {
	start := time.Now()
	fr := FileResult{Path: path}
	hooks := observability.Format()
	hooks.OnFormatStart(ctx, path)
	defer func() {
		fr.Duration = time.Since(start)
		hooks.OnFormatComplete(ctx, path, fr.Changed, fr.Duration, fr.Err)
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		fr.Err = errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		return fr
	}
	fr.Source = string(data)

	fr.Formatted, fr.CacheHit, fr.Err = r.formatCached(ctx, fr.Source, opts.Format, opts.CacheTTL, opts.Refresh)
	if fr.Err != nil {
		return fr
	}
	fr.Changed = fr.Formatted != fr.Source

	if opts.Lint {
		lintStart := time.Now()
		diags, _, err := r.lintCached(ctx, fr.Source, opts.Rules, opts.CacheTTL, opts.Refresh)
		hooks.OnLintComplete(ctx, path, len(diags), time.Since(lintStart), err)
		if err != nil {
			fr.Err = err
			return fr
		}
		fr.Diagnostics = diags
	}

	if opts.Write && fr.Changed {
		if err := writeFile(path, fr.Formatted); err != nil {
			fr.Err = errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
	}
	return fr
}

// writeFile replaces path, keeping its permission bits.
func writeFile(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), info.Mode().Perm())
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
