package format

import (
	"strings"

	"github.com/matzehuels/pyfmt/pkg/doc"
	"github.com/matzehuels/pyfmt/pkg/errors"
	"github.com/matzehuels/pyfmt/pkg/literal"
)

// Default option values.
const (
	DefaultLineWidth   = doc.DefaultWidth
	DefaultIndentWidth = doc.DefaultIndentWidth
	MaxLineWidth       = 320
	MaxIndentWidth     = 16
)

// MagicTrailingComma controls whether a trailing comma in brackets forces
// them to expand.
type MagicTrailingComma uint8

const (
	Respect MagicTrailingComma = iota
	Ignore
)

func (m MagicTrailingComma) String() string {
	if m == Ignore {
		return "ignore"
	}
	return "respect"
}

// ParseMagicTrailingComma parses "respect" or "ignore".
func ParseMagicTrailingComma(s string) (MagicTrailingComma, error) {
	if err := errors.ValidateChoice("magic-trailing-comma", s, "respect", "ignore"); err != nil {
		return Respect, err
	}
	if Ignore.String() == strings.ToLower(s) {
		return Ignore, nil
	}
	return Respect, nil
}

func (m MagicTrailingComma) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *MagicTrailingComma) UnmarshalText(b []byte) error {
	v, err := ParseMagicTrailingComma(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// LineEnding selects the newline sequence of the output.
type LineEnding uint8

const (
	LF LineEnding = iota
	CRLF
	// Auto uses the first line ending found in the source.
	Auto
)

func (l LineEnding) String() string {
	switch l {
	case CRLF:
		return "crlf"
	case Auto:
		return "auto"
	}
	return "lf"
}

// ParseLineEnding parses "lf", "crlf" or "auto".
func ParseLineEnding(s string) (LineEnding, error) {
	if err := errors.ValidateChoice("line-ending", s, "lf", "crlf", "auto"); err != nil {
		return LF, err
	}
	switch strings.ToLower(s) {
	case "crlf":
		return CRLF, nil
	case "auto":
		return Auto, nil
	}
	return LF, nil
}

func (l LineEnding) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *LineEnding) UnmarshalText(b []byte) error {
	v, err := ParseLineEnding(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Options configures a formatting run. The zero value is not valid; start
// from [DefaultOptions].
type Options struct {
	LineWidth           int                `json:"line_width" toml:"line-length"`
	IndentWidth         int                `json:"indent_width" toml:"indent-width"`
	QuoteStyle          literal.QuoteStyle `json:"quote_style" toml:"quote-style"`
	DocstringQuoteStyle literal.QuoteStyle `json:"docstring_quote_style" toml:"docstring-quote-style"`
	MagicTrailingComma  MagicTrailingComma `json:"magic_trailing_comma" toml:"magic-trailing-comma"`
	LineEnding          LineEnding         `json:"line_ending" toml:"line-ending"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		LineWidth:           DefaultLineWidth,
		IndentWidth:         DefaultIndentWidth,
		QuoteStyle:          literal.Double,
		DocstringQuoteStyle: literal.Double,
		MagicTrailingComma:  Respect,
		LineEnding:          LF,
	}
}

// Validate checks numeric ranges.
func (o Options) Validate() error {
	if err := errors.ValidateRange("line-length", o.LineWidth, 1, MaxLineWidth); err != nil {
		return err
	}
	return errors.ValidateRange("indent-width", o.IndentWidth, 1, MaxIndentWidth)
}
