// Package config loads pyfmt settings from TOML files.
//
// [Load] searches the given directory and its parents for, in order of
// preference per directory:
//
//   - pyfmt.toml
//   - .pyfmt.toml
//   - pyproject.toml with a [tool.pyfmt] table
//
// The first match wins; parents are not merged. Keys use the kebab-case
// names of the command-line flags:
//
//	line-length = 100
//	quote-style = "single"
//	exclude = ["build/**", "*_pb2.py"]
//
//	[cache]
//	redis-url = "redis://localhost:6379/0"
//	ttl = "24h"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	pferrors "github.com/matzehuels/pyfmt/pkg/errors"
	"github.com/matzehuels/pyfmt/pkg/format"
	"github.com/matzehuels/pyfmt/pkg/literal"
)

// FileNames lists the dedicated config files in search order.
var FileNames = []string{"pyfmt.toml", ".pyfmt.toml"}

const pyproject = "pyproject.toml"

// Config is the decoded settings file. Unset keys stay nil so that
// [Config.Apply] only overrides what the file names.
type Config struct {
	LineLength          *int                       `toml:"line-length"`
	IndentWidth         *int                       `toml:"indent-width"`
	QuoteStyle          *literal.QuoteStyle        `toml:"quote-style"`
	DocstringQuoteStyle *literal.QuoteStyle        `toml:"docstring-quote-style"`
	MagicTrailingComma  *format.MagicTrailingComma `toml:"magic-trailing-comma"`
	LineEnding          *format.LineEnding         `toml:"line-ending"`
	Exclude             []string                   `toml:"exclude"`
	Cache               CacheConfig                `toml:"cache"`

	// Path is the file the settings came from, empty when none was found.
	Path string `toml:"-"`
}

// CacheConfig is the [cache] table.
type CacheConfig struct {
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis-url"`
	TTL      Duration `toml:"ttl"`
}

// Duration decodes Go duration strings such as "90m".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("negative duration %q", b)
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Load finds and decodes the settings that apply to dir. When no file is
// found it returns an empty Config and no error.
func Load(dir string) (*Config, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, pferrors.Wrap(pferrors.ErrCodeInvalidPath, err, "resolve %s", dir)
	}
	for {
		cfg, found, err := loadDir(abs)
		if err != nil || found {
			return cfg, err
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return &Config{}, nil
		}
		abs = parent
	}
}

func loadDir(dir string) (*Config, bool, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if !exists(path) {
			continue
		}
		cfg, err := LoadFile(path)
		return cfg, true, err
	}
	path := filepath.Join(dir, pyproject)
	if !exists(path) {
		return nil, false, nil
	}
	var doc struct {
		Tool struct {
			Pyfmt Config `toml:"pyfmt"`
		} `toml:"tool"`
	}
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return nil, true, decodeError(path, err)
	}
	if !meta.IsDefined("tool", "pyfmt") {
		return nil, false, nil
	}
	cfg := doc.Tool.Pyfmt
	cfg.Path = path
	return &cfg, true, cfg.validate()
}

// LoadFile decodes a dedicated settings file.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, pferrors.Wrap(pferrors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, decodeError(path, err)
	}
	if keys := meta.Undecoded(); len(keys) > 0 {
		return nil, pferrors.New(pferrors.ErrCodeInvalidConfig, "%s: unknown key %q", path, keys[0].String())
	}
	cfg.Path = path
	return &cfg, cfg.validate()
}

func decodeError(path string, err error) error {
	var perr toml.ParseError
	if errors.As(err, &perr) {
		return pferrors.New(pferrors.ErrCodeInvalidConfig, "%s:%d: %s", path, perr.Position.Line, perr.Message)
	}
	return pferrors.Wrap(pferrors.ErrCodeInvalidConfig, err, "%s", path)
}

func (c *Config) validate() error {
	opts := c.Apply(format.DefaultOptions())
	if err := opts.Validate(); err != nil {
		return pferrors.Wrap(pferrors.ErrCodeInvalidConfig, err, "%s", c.Path)
	}
	for _, pattern := range c.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return pferrors.New(pferrors.ErrCodeInvalidConfig, "%s: bad exclude pattern %q", c.Path, pattern)
		}
	}
	return nil
}

// Apply returns opts with every key set in the file overridden.
func (c *Config) Apply(opts format.Options) format.Options {
	if c == nil {
		return opts
	}
	if c.LineLength != nil {
		opts.LineWidth = *c.LineLength
	}
	if c.IndentWidth != nil {
		opts.IndentWidth = *c.IndentWidth
	}
	if c.QuoteStyle != nil {
		opts.QuoteStyle = *c.QuoteStyle
	}
	if c.DocstringQuoteStyle != nil {
		opts.DocstringQuoteStyle = *c.DocstringQuoteStyle
	}
	if c.MagicTrailingComma != nil {
		opts.MagicTrailingComma = *c.MagicTrailingComma
	}
	if c.LineEnding != nil {
		opts.LineEnding = *c.LineEnding
	}
	return opts
}

// Root returns the directory holding the settings file, or "" when none was
// found. Exclude patterns are relative to it.
func (c *Config) Root() string {
	if c == nil || c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
