// Package comments attaches source comments to syntax nodes and tracks that
// every comment is printed exactly once.
//
// # Placement
//
// [Collect] decorates each comment with its enclosing node (the deepest node
// whose span contains it) and the preceding and following children of that
// node, then attaches it:
//
//   - end-of-line comment after a node: trailing comment of that node
//   - own-line comment before a node: leading comment of that node
//   - own-line comment after the last node: trailing comment of that node
//   - comment inside an otherwise empty bracket pair: dangling comment of
//     the bracketed node
//
// A node that ends before an opening bracket the comment sits behind is not
// considered preceding: the comment belongs to the bracket content.
//
// # Commit tracking
//
// Formatters emit comments through [Comment.Doc], which carries a
// [doc.Mark]. The renderer reports printed marks to a [Ledger];
// [Ledger.Verify] then fails with [*UnattachedCommentError] when a comment
// was never printed or printed twice.
package comments

import (
	"strings"

	"github.com/matzehuels/pyfmt/pkg/syntax"
)

// Position is where a comment attaches relative to its node.
type Position uint8

const (
	Leading Position = iota
	Dangling
	Trailing
)

func (p Position) String() string {
	switch p {
	case Leading:
		return "leading"
	case Dangling:
		return "dangling"
	}
	return "trailing"
}

// LinePosition tells whether code precedes the comment on its line.
type LinePosition uint8

const (
	EndOfLine LinePosition = iota
	OwnLine
)

func (l LinePosition) String() string {
	if l == OwnLine {
		return "own-line"
	}
	return "end-of-line"
}

// Comment is a source comment attached to a node.
type Comment struct {
	ID       int
	Span     syntax.Span
	Text     string // normalized, starting with '#'
	Line     LinePosition
	Position Position
	// LinesBefore and LinesAfter count the line breaks separating the
	// comment from the previous and next code or comment.
	LinesBefore int
	LinesAfter  int
}

type attached struct {
	leading  []*Comment
	dangling []*Comment
	trailing []*Comment
}

// Map holds the attachment of every comment of a file.
type Map struct {
	all   []*Comment
	nodes map[syntax.Node]*attached
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{nodes: make(map[syntax.Node]*attached)}
}

// Attach records c at position pos of n. Attachment order is preserved per
// node and position.
func (m *Map) Attach(c *Comment, n syntax.Node, pos Position) {
	c.Position = pos
	a := m.nodes[n]
	if a == nil {
		a = &attached{}
		m.nodes[n] = a
	}
	switch pos {
	case Leading:
		a.leading = append(a.leading, c)
	case Dangling:
		a.dangling = append(a.dangling, c)
	default:
		a.trailing = append(a.trailing, c)
	}
	if c.ID >= len(m.all) || m.all[c.ID] != c {
		m.all = append(m.all, c)
	}
}

// All returns every comment in source order.
func (m *Map) All() []*Comment { return m.all }

// Leading returns the leading comments of n.
func (m *Map) Leading(n syntax.Node) []*Comment {
	if a := m.nodes[n]; a != nil {
		return a.leading
	}
	return nil
}

// Dangling returns the dangling comments of n.
func (m *Map) Dangling(n syntax.Node) []*Comment {
	if a := m.nodes[n]; a != nil {
		return a.dangling
	}
	return nil
}

// Trailing returns the trailing comments of n.
func (m *Map) Trailing(n syntax.Node) []*Comment {
	if a := m.nodes[n]; a != nil {
		return a.trailing
	}
	return nil
}

// HasLeading reports whether n has leading comments.
func (m *Map) HasLeading(n syntax.Node) bool { return len(m.Leading(n)) > 0 }

// HasDangling reports whether n has dangling comments.
func (m *Map) HasDangling(n syntax.Node) bool { return len(m.Dangling(n)) > 0 }

// HasTrailing reports whether n has trailing comments.
func (m *Map) HasTrailing(n syntax.Node) bool { return len(m.Trailing(n)) > 0 }

// HasTrailingOwnLine reports whether n has a trailing comment on its own
// line.
func (m *Map) HasTrailingOwnLine(n syntax.Node) bool {
	for _, c := range m.Trailing(n) {
		if c.Line == OwnLine {
			return true
		}
	}
	return false
}

// HasComments reports whether any comment is attached to n itself.
func (m *Map) HasComments(n syntax.Node) bool {
	a := m.nodes[n]
	return a != nil && len(a.leading)+len(a.dangling)+len(a.trailing) > 0
}

// Within returns the comments whose span lies inside span.
func (m *Map) Within(span syntax.Span) []*Comment {
	var out []*Comment
	for _, c := range m.all {
		if span.Contains(c.Span) {
			out = append(out, c)
		}
	}
	return out
}

// Split partitions comments into end-of-line and own-line ones, keeping
// their order.
func Split(cs []*Comment) (endOfLine, ownLine []*Comment) {
	for _, c := range cs {
		if c.Line == OwnLine {
			ownLine = append(ownLine, c)
		} else {
			endOfLine = append(endOfLine, c)
		}
	}
	return endOfLine, ownLine
}

// IsSuppression reports whether the comment is a `# fmt: skip` pragma.
func (c *Comment) IsSuppression() bool {
	t := strings.TrimSpace(strings.TrimPrefix(c.Text, "#"))
	return t == "fmt: skip" || t == "fmt:skip"
}

// normalizeText puts a space after the hash of a comment, except for
// shebangs, type comments (#:), and repeated hashes.
func normalizeText(text string) string {
	text = strings.TrimRight(text, " \t\f\r")
	if len(text) < 2 {
		return text
	}
	switch text[1] {
	case ' ', '\t', '!', ':', '#':
		return text
	}
	return "# " + text[1:]
}
