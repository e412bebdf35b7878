// Package literal normalizes Python string, bytes and f-string literals.
//
// [Normalize] produces the canonical spelling of one literal token: the
// prefix is normalized (u dropped, b and f lowercased), the preferred quote
// character is applied when the content allows it without adding escapes,
// unnecessary escapes of the other quote are removed and line endings inside
// triple-quoted strings become \n.
//
// The normalizer never produces an invalid literal. Triple-quoted strings
// keep their quotes when the content contains a run of the preferred quote
// that would end the literal early, ends with the preferred quote, or holds
// an escaped run of the original quotes. f-strings whose replacement fields
// contain quotes keep their quotes as well.
package literal

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pyfmt/pkg/errors"
)

// QuoteStyle is the preferred quote character.
type QuoteStyle uint8

const (
	Double QuoteStyle = iota
	Single
	Preserve
)

// QuoteStyles lists the accepted spellings in option order.
var QuoteStyles = []string{"double", "single", "preserve"}

func (q QuoteStyle) String() string {
	if int(q) < len(QuoteStyles) {
		return QuoteStyles[q]
	}
	return fmt.Sprintf("QuoteStyle(%d)", q)
}

// ParseQuoteStyle parses "double", "single" or "preserve".
func ParseQuoteStyle(s string) (QuoteStyle, error) {
	if err := errors.ValidateChoice("quote style", s, QuoteStyles...); err != nil {
		return Double, err
	}
	switch strings.ToLower(s) {
	case "single":
		return Single, nil
	case "preserve":
		return Preserve, nil
	}
	return Double, nil
}

// MarshalText implements encoding.TextMarshaler.
func (q QuoteStyle) MarshalText() ([]byte, error) { return []byte(q.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *QuoteStyle) UnmarshalText(b []byte) error {
	v, err := ParseQuoteStyle(string(b))
	if err != nil {
		return err
	}
	*q = v
	return nil
}

func (q QuoteStyle) char() byte {
	if q == Single {
		return '\''
	}
	return '"'
}

// Quotes describes the delimiters of a literal.
type Quotes struct {
	Char   byte // '"' or '\''
	Triple bool
}

func (q Quotes) String() string {
	if q.Triple {
		return strings.Repeat(string(q.Char), 3)
	}
	return string(q.Char)
}

// Literal is a literal token split into its parts.
type Literal struct {
	Prefix string
	Quotes Quotes
	Body   string
}

// Raw reports whether the prefix makes the literal raw.
func (l Literal) Raw() bool { return strings.ContainsAny(l.Prefix, "rR") }

// FString reports whether the literal is an f-string.
func (l Literal) FString() bool { return strings.ContainsAny(l.Prefix, "fF") }

// String reassembles the literal.
func (l Literal) String() string {
	q := l.Quotes.String()
	return l.Prefix + q + l.Body + q
}

// Split parses a literal token into prefix, quotes and body.
func Split(raw string) (Literal, error) {
	i := strings.IndexAny(raw, `"'`)
	if i < 0 || i > 2 {
		return Literal{}, errors.New(errors.ErrCodeInvalidInput, "not a string literal: %q", raw)
	}
	q := Quotes{Char: raw[i]}
	open := 1
	if strings.HasPrefix(raw[i:], strings.Repeat(string(q.Char), 3)) && len(raw)-i >= 6 {
		q.Triple, open = true, 3
	}
	end := len(raw) - open
	if end < i+open || !strings.HasSuffix(raw, q.String()) {
		return Literal{}, errors.New(errors.ErrCodeInvalidInput, "unterminated string literal: %q", raw)
	}
	return Literal{Prefix: raw[:i], Quotes: q, Body: raw[i+open : end]}, nil
}

// IsMultiline reports whether the literal token is triple quoted and spans
// several lines.
func IsMultiline(raw string) bool {
	l, err := Split(raw)
	return err == nil && l.Quotes.Triple && strings.ContainsAny(l.Body, "\n\r")
}

// FieldsContainQuotes reports whether a replacement field of an f-string
// token contains a quote character. Such literals must keep their quotes.
func FieldsContainQuotes(raw string) bool {
	l, err := Split(raw)
	if err != nil || !l.FString() {
		return false
	}
	body := l.Body
	depth := 0
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && depth == 0:
			i++
		case c == '{' && depth == 0 && i+1 < len(body) && body[i+1] == '{':
			i++
		case c == '{':
			depth++
		case c == '}' && depth > 0:
			depth--
		case depth > 0 && (c == '"' || c == '\''):
			return true
		}
	}
	return false
}

// Lines splits normalized literal text at line breaks.
func Lines(text string) []string {
	return strings.Split(text, "\n")
}
