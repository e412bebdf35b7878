package literal

import "strings"

// Options configures [Normalize].
type Options struct {
	// Preferred is the quote style to apply where possible.
	Preferred QuoteStyle
	// PreserveQuotes keeps the existing quotes regardless of Preferred.
	PreserveQuotes bool
}

// Normalized is the canonical form of a literal token.
type Normalized struct {
	Text   string
	Prefix string
	Quotes Quotes
	// IsAtomic is set for single-line literals: they cannot be split, so
	// only surrounding parentheses can help them fit.
	IsAtomic bool
	// IsMultiline is set for triple-quoted literals spanning several lines.
	IsMultiline bool
}

// Normalize returns the canonical spelling of one literal token.
func Normalize(raw string, opts Options) (Normalized, error) {
	l, err := Split(raw)
	if err != nil {
		return Normalized{}, err
	}
	l.Prefix = normalizePrefix(l.Prefix)

	quotes := l.Quotes
	if !opts.PreserveQuotes && opts.Preferred != Preserve && !FieldsContainQuotes(raw) {
		quotes = chooseQuotes(l, opts.Preferred.char())
	}
	l.Body = normalizeBody(l, quotes)
	l.Quotes = quotes

	multiline := quotes.Triple && strings.Contains(l.Body, "\n")
	return Normalized{
		Text:        l.String(),
		Prefix:      l.Prefix,
		Quotes:      quotes,
		IsAtomic:    !multiline,
		IsMultiline: multiline,
	}, nil
}

func normalizePrefix(p string) string {
	var sb strings.Builder
	for i := 0; i < len(p); i++ {
		switch c := p[i]; c {
		case 'u', 'U':
		case 'B', 'F':
			sb.WriteByte(c + ('a' - 'A'))
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func other(q byte) byte {
	if q == '"' {
		return '\''
	}
	return '"'
}

func chooseQuotes(l Literal, preferred byte) Quotes {
	switch {
	case l.Quotes.Triple:
		if l.Quotes.Char == preferred || blocksTriple(l.Body, preferred) || hasEscapedRun(l.Body, l.Quotes.Char) {
			return l.Quotes
		}
		return Quotes{Char: preferred, Triple: true}
	case l.Raw():
		if l.Quotes.Char == preferred || strings.IndexByte(l.Body, preferred) >= 0 {
			return l.Quotes
		}
		return Quotes{Char: preferred}
	}
	// Every preferred quote needs an escape inside preferred quotes, every
	// other quote inside other quotes.
	if strings.Count(l.Body, string(preferred)) > strings.Count(l.Body, string(other(preferred))) {
		return Quotes{Char: other(preferred)}
	}
	return Quotes{Char: preferred}
}

// blocksTriple reports whether body contains a run of three unescaped q
// characters or ends with q, either of which would end a literal delimited
// by q q q early.
func blocksTriple(body string, q byte) bool {
	run := 0
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\':
			run = 0
			i++
		case c == q:
			run++
			if run == 3 {
				return true
			}
		default:
			run = 0
		}
	}
	return len(body) > 0 && body[len(body)-1] == q && !escapedAt(body, len(body)-1)
}

// hasEscapedRun reports whether body holds three consecutive q characters
// of which at least one is escaped: a terminator-like run the author
// escaped on purpose.
func hasEscapedRun(body string, q byte) bool {
	run, escaped := 0, false
	for i := 0; i < len(body); i++ {
		switch {
		case body[i] == '\\' && i+1 < len(body) && body[i+1] == q:
			run++
			escaped = true
			i++
		case body[i] == '\\':
			run, escaped = 0, false
			i++
			continue
		case body[i] == q:
			run++
		default:
			run, escaped = 0, false
			continue
		}
		if run >= 3 && escaped {
			return true
		}
	}
	return false
}

func escapedAt(body string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && body[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// normalizeBody rewrites escapes for the chosen quotes and line endings.
func normalizeBody(l Literal, q Quotes) string {
	body := l.Body
	if q.Triple {
		return strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\r", "\n")
	}
	if l.Raw() {
		return body
	}
	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			next := body[i+1]
			i++
			if next == other(q.Char) {
				sb.WriteByte(next)
				continue
			}
			sb.WriteByte(c)
			sb.WriteByte(next)
		case c == q.Char:
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
