package syntax

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/pyfmt/pkg/errors"
)

// TokenKind classifies a token.
type TokenKind uint8

const (
	EOF TokenKind = iota
	Newline
	NameToken
	NumberToken
	StringToken
	Op
)

func (k TokenKind) String() string {
	switch k {
	case EOF:
		return "end of file"
	case Newline:
		return "newline"
	case NameToken:
		return "name"
	case NumberToken:
		return "number"
	case StringToken:
		return "string"
	default:
		return "operator"
	}
}

// Token is a lexical token with its byte span.
type Token struct {
	Kind TokenKind
	Text string
	Span Span
}

// operators ordered so that longer spellings match first.
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"->", "**", "//", ">>", "<<", "<=", ">=", "==", "!=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=", ":=",
	"+", "-", "*", "/", "%", "@", "&", "|", "^", "~", "<", ">",
	"(", ")", "[", "]", "{", "}", ",", ":", ";", ".", "=",
}

type scanner struct {
	src      string
	pos      int
	depth    int
	tokens   []Token
	comments []Comment
}

// Tokenize splits src into tokens and comments. Newline tokens are only
// produced at the end of logical lines outside brackets.
func Tokenize(src string) ([]Token, []Comment, error) {
	s := &scanner{src: src}
	if err := s.run(); err != nil {
		return nil, nil, err
	}
	return s.tokens, s.comments, nil
}

func (s *scanner) run() error {
	lineStart := true
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if lineStart && s.depth == 0 {
			if err := s.checkIndent(); err != nil {
				return err
			}
			lineStart = false
			continue
		}
		switch {
		case c == ' ' || c == '\t' || c == '\f':
			s.pos++
		case c == '\\':
			n := lineBreakLen(s.src, s.pos+1)
			if n == 0 {
				return s.errorf(s.pos, "unexpected character after line continuation")
			}
			s.pos += 1 + n
		case c == '#':
			start := s.pos
			for s.pos < len(s.src) && s.src[s.pos] != '\n' && s.src[s.pos] != '\r' {
				s.pos++
			}
			text := strings.TrimRight(s.src[start:s.pos], " \t\f")
			s.comments = append(s.comments, Comment{Range: Span{start, start + len(text)}, Text: text})
		case c == '\n' || c == '\r':
			if s.depth == 0 && len(s.tokens) > 0 && s.tokens[len(s.tokens)-1].Kind != Newline {
				s.emit(Newline, s.pos, s.pos)
			}
			s.pos += lineBreakLen(s.src, s.pos)
			lineStart = s.depth == 0
		case c == '"' || c == '\'':
			if err := s.scanString(s.pos, s.pos); err != nil {
				return err
			}
		case isDigit(c) || (c == '.' && s.pos+1 < len(s.src) && isDigit(s.src[s.pos+1])):
			s.scanNumber()
		case isIdentStart(s.src[s.pos:]):
			start := s.pos
			s.scanIdent()
			if s.pos < len(s.src) && (s.src[s.pos] == '"' || s.src[s.pos] == '\'') && isStringPrefix(s.src[start:s.pos]) {
				if err := s.scanString(start, s.pos); err != nil {
					return err
				}
				continue
			}
			s.emit(NameToken, start, s.pos)
		default:
			if err := s.scanOperator(); err != nil {
				return err
			}
		}
	}
	if len(s.tokens) > 0 && s.tokens[len(s.tokens)-1].Kind != Newline {
		s.emit(Newline, s.pos, s.pos)
	}
	s.emit(EOF, s.pos, s.pos)
	return nil
}

// checkIndent rejects indented statements; blank and comment-only lines may
// be indented freely.
func (s *scanner) checkIndent() error {
	i := s.pos
	for i < len(s.src) && (s.src[i] == ' ' || s.src[i] == '\t' || s.src[i] == '\f') {
		i++
	}
	if i > s.pos && i < len(s.src) && s.src[i] != '#' && s.src[i] != '\n' && s.src[i] != '\r' {
		return s.errorf(i, "unexpected indent")
	}
	s.pos = i
	return nil
}

func (s *scanner) emit(kind TokenKind, start, end int) {
	s.tokens = append(s.tokens, Token{Kind: kind, Text: s.src[start:end], Span: Span{start, end}})
}

func (s *scanner) scanIdent() {
	for s.pos < len(s.src) {
		r, n := utf8.DecodeRuneInString(s.src[s.pos:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return
		}
		s.pos += n
	}
}

func (s *scanner) scanNumber() {
	start := s.pos
	src := s.src
	if src[s.pos] == '0' && s.pos+1 < len(src) && strings.ContainsRune("xXoObB", rune(src[s.pos+1])) {
		s.pos += 2
		for s.pos < len(src) && (isHexDigit(src[s.pos]) || src[s.pos] == '_') {
			s.pos++
		}
		s.emit(NumberToken, start, s.pos)
		return
	}
	for s.pos < len(src) {
		c := src[s.pos]
		switch {
		case isDigit(c) || c == '_' || c == '.':
			s.pos++
		case c == 'e' || c == 'E':
			s.pos++
			if s.pos < len(src) && (src[s.pos] == '+' || src[s.pos] == '-') {
				s.pos++
			}
		case c == 'j' || c == 'J':
			s.pos++
			s.emit(NumberToken, start, s.pos)
			return
		default:
			s.emit(NumberToken, start, s.pos)
			return
		}
	}
	s.emit(NumberToken, start, s.pos)
}

// scanString scans a literal whose prefix starts at start and whose opening
// quote is at quote.
func (s *scanner) scanString(start, quote int) error {
	src := s.src
	q := src[quote]
	triple := strings.HasPrefix(src[quote:], strings.Repeat(string(q), 3))
	isF := strings.ContainsAny(src[start:quote], "fF")
	i := quote + 1
	if triple {
		i = quote + 3
	}
	fields := 0
	for {
		if i >= len(src) {
			return s.errorf(start, "unterminated string literal")
		}
		c := src[i]
		switch {
		case c == '\\':
			i += 2
			continue
		case isF && c == '{':
			if fields == 0 && i+1 < len(src) && src[i+1] == '{' {
				i += 2
				continue
			}
			fields++
		case isF && c == '}' && fields > 0:
			fields--
		case isF && fields > 0 && (c == '"' || c == '\'') && c != q:
			end := strings.IndexByte(src[i+1:], c)
			if end < 0 {
				return s.errorf(i, "unterminated string literal")
			}
			i += end + 2
			continue
		case (c == '\n' || c == '\r') && !triple:
			return s.errorf(start, "unterminated string literal")
		case c == q && triple && strings.HasPrefix(src[i:], strings.Repeat(string(q), 3)):
			s.pos = i + 3
			s.emit(StringToken, start, s.pos)
			return nil
		case c == q && !triple:
			s.pos = i + 1
			s.emit(StringToken, start, s.pos)
			return nil
		}
		i++
	}
}

func (s *scanner) scanOperator() error {
	rest := s.src[s.pos:]
	for _, op := range operators {
		if !strings.HasPrefix(rest, op) {
			continue
		}
		switch op {
		case "(", "[", "{":
			s.depth++
		case ")", "]", "}":
			if s.depth > 0 {
				s.depth--
			}
		}
		s.emit(Op, s.pos, s.pos+len(op))
		s.pos += len(op)
		return nil
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return s.errorf(s.pos, "unexpected character %q", r)
}

func (s *scanner) errorf(offset int, format string, args ...any) error {
	return newParseError(s.src, offset, fmt.Sprintf(format, args...))
}

func newParseError(src string, offset int, msg string) error {
	line, col := LineCol(src, offset)
	pe := &errors.ParseError{Pos: errors.Position{Line: line, Column: col}, Message: msg}
	return errors.Wrap(errors.ErrCodeParse, pe, "invalid syntax")
}

func lineBreakLen(src string, i int) int {
	switch {
	case strings.HasPrefix(src[i:], "\r\n"):
		return 2
	case i < len(src) && (src[i] == '\n' || src[i] == '\r'):
		return 1
	}
	return 0
}

func isDigit(c byte) bool    { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool { return isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'f') }

func isIdentStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || unicode.IsLetter(r)
}

func isStringPrefix(p string) bool {
	switch strings.ToLower(p) {
	case "r", "u", "b", "f", "br", "rb", "fr", "rf":
		return true
	}
	return false
}
