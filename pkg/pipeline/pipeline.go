// Package pipeline formats and checks many Python files at once.
//
// The CLI and the HTTP server share one [Runner]: it owns the cache, derives
// keys from file content and options, and fires observability hooks. A batch
// run discovers files, formats them on a bounded number of goroutines and
// isolates failures per file.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Paths:  []string{"src"},
//	    Format: format.DefaultOptions(),
//	    Write:  true,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Stats.Changed, "files reformatted")
package pipeline

import (
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pyfmt/pkg/errors"
	"github.com/matzehuels/pyfmt/pkg/format"
	"github.com/matzehuels/pyfmt/pkg/lint"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultCacheTTL bounds how long a formatted file stays cached. Keys
	// already change with content and options, so this only limits growth.
	DefaultCacheTTL = 30 * 24 * time.Hour

	// MaxJobs caps Options.Jobs.
	MaxJobs = 256
)

// DefaultJobs is the worker count when Options.Jobs is zero.
func DefaultJobs() int {
	return runtime.NumCPU()
}

// =============================================================================
// Options
// =============================================================================

// Options configures a batch run.
type Options struct {
	// Paths are files or directories. Directories are searched for .py and
	// .pyi files.
	Paths []string
	// Exclude holds glob patterns matched against paths relative to
	// ExcludeRoot and against base names.
	Exclude     []string
	ExcludeRoot string

	Format format.Options

	// Write rewrites changed files in place.
	Write bool
	// Lint runs Rules on every file that parses. Nil Rules means all.
	Lint  bool
	Rules []lint.Rule

	Jobs     int
	CacheTTL time.Duration
	// Refresh ignores cached entries but still stores new ones.
	Refresh bool

	// OnFile is called once per file as soon as it finishes. Calls are
	// serialized.
	OnFile func(FileResult) `json:"-"`
	Logger *log.Logger      `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks options and fills defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Paths) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no paths given")
	}
	if err := o.Format.Validate(); err != nil {
		return err
	}
	if o.Jobs == 0 {
		o.Jobs = DefaultJobs()
	}
	if err := errors.ValidateRange("jobs", o.Jobs, 1, MaxJobs); err != nil {
		return err
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Lint && o.Rules == nil {
		o.Rules = lint.Rules()
	}
	o.validated = true
	return nil
}

// =============================================================================
// Results
// =============================================================================

// FileResult is the outcome for one file.
type FileResult struct {
	Path        string
	Source      string
	Formatted   string
	Changed     bool
	CacheHit    bool
	Diagnostics []lint.Diagnostic
	Duration    time.Duration
	// Err is set when the file could not be read, parsed or formatted.
	// Other files are unaffected.
	Err error
}

// Result is the outcome of a batch run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string
	// Files are in discovery order.
	Files []FileResult
	Stats Stats
}

// Stats summarizes a batch run.
type Stats struct {
	Files       int
	Changed     int
	Unchanged   int
	Failed      int
	CacheHits   int
	Diagnostics int
	Duration    time.Duration
}

// Add accounts for one finished file.
func (s *Stats) Add(f FileResult) {
	s.Files++
	s.Diagnostics += len(f.Diagnostics)
	if f.CacheHit {
		s.CacheHits++
	}
	switch {
	case f.Err != nil:
		s.Failed++
	case f.Changed:
		s.Changed++
	default:
		s.Unchanged++
	}
}
