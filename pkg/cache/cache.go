// Package cache stores formatter results keyed by source content and options.
//
// A batch run formats the same unchanged files again and again. The cache
// lets the runner skip them: the key is a hash of the file's bytes plus every
// option that influences the output, and the value is whatever the runner
// chose to store (see pipeline.Runner).
//
// Three backends are provided:
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared cache for the HTTP server and CI fleets
//   - [NullCache]: stores nothing, for --no-cache
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// as ok == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. A ttl of zero keeps the entry until it is
	// deleted or cleared.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// FormatKeyOpts lists every option that changes formatted output.
type FormatKeyOpts struct {
	LineWidth           int    `json:"line_width"`
	IndentWidth         int    `json:"indent_width"`
	QuoteStyle          string `json:"quote_style"`
	DocstringQuoteStyle string `json:"docstring_quote_style"`
	MagicTrailingComma  string `json:"magic_trailing_comma"`
	LineEnding          string `json:"line_ending"`
	// Version is the formatter build; a new release invalidates old entries.
	Version string `json:"version"`
}

// Keyer derives cache keys.
type Keyer interface {
	// FormatKey is the key of a formatted file.
	FormatKey(sourceHash string, opts FormatKeyOpts) string
	// LintKey is the key of a file's diagnostics for a rule set.
	LintKey(sourceHash string, rules []string, version string) string
}

// DefaultKeyer produces "format:<sha256>" and "lint:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FormatKey implements [Keyer].
func (DefaultKeyer) FormatKey(sourceHash string, opts FormatKeyOpts) string {
	return hashKey("format", sourceHash, opts)
}

// LintKey implements [Keyer].
func (DefaultKeyer) LintKey(sourceHash string, rules []string, version string) string {
	return hashKey("lint", sourceHash, rules, version)
}
