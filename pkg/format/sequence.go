package format

import (
	"github.com/matzehuels/pyfmt/pkg/comments"
	"github.com/matzehuels/pyfmt/pkg/doc"
	"github.com/matzehuels/pyfmt/pkg/syntax"
)

// trailingComma selects the comma printed after the last element.
type trailingComma uint8

const (
	commaIfBreaks trailingComma = iota
	commaAlways
	commaNever
)

// seq describes a bracketed, comma separated list of elements.
type seq struct {
	open, close doc.Doc
	owner       syntax.Node // holds the dangling comments of an empty list
	elts        []syntax.Expr
	comma       trailingComma
	magic       bool
	// opening are extra comments to keep on the line of the open bracket.
	opening []*comments.Comment
	// lead and tail are printed on their own lines before the first and
	// after the last element.
	lead, tail []*comments.Comment
	// expand forces the list onto indented lines.
	expand bool
}

// sequence prints s as a group that lists its elements on one line, or one
// per indented line with a trailing comma.
func (f *formatter) sequence(s seq) *doc.Group {
	if len(s.elts) == 0 {
		if dangling := f.fresh(f.cm.Dangling(s.owner)); len(dangling) > 0 {
			return &doc.Group{Contents: doc.Seq(s.open, comments.DanglingDocs(dangling), s.close)}
		}
		return &doc.Group{Contents: doc.Seq(s.open, s.close)}
	}

	opening := s.opening
	first := s.elts[0]
	lead := f.cm.Leading(first)
	if first.Parenthesized() {
		lead, _ = splitAt(lead, first.OuterSpan().Start)
	}
	eol, _ := comments.Split(lead)
	opening = append(opening, f.fresh(eol)...)

	items := make(doc.Concat, 0, 4*len(s.elts)+2)
	items = append(items, comments.LeadingDocs(s.lead, maxBlankInExpr))
	last := len(s.elts) - 1
	for i, e := range s.elts {
		body, after := f.exprSplit(e)
		items = append(items, body)
		if i < last {
			items = append(items, doc.Text(","), after, doc.SoftLineOrSpace)
			continue
		}
		switch s.comma {
		case commaAlways:
			items = append(items, doc.Text(","))
		case commaIfBreaks:
			items = append(items, doc.IfBreaks{Broken: doc.Text(",")})
		}
		items = append(items, after, comments.TrailingDocs(s.tail, maxBlankInExpr))
	}

	var head doc.Doc
	if len(opening) > 0 {
		head = doc.Seq(comments.Suffixes(opening), doc.ExpandParent{})
	}
	return &doc.Group{
		Contents: doc.Seq(s.open, head, doc.SoftBlockIndent(doc.Seq(items...)), s.close),
		Expand:   s.expand || (s.magic && f.opts.MagicTrailingComma == Respect),
	}
}

// arguments prints the argument list of a call.
func (f *formatter) arguments(c *syntax.Call, expand bool) *doc.Group {
	return f.sequence(seq{
		open:   doc.Text("("),
		close:  doc.Text(")"),
		owner:  c,
		elts:   c.Args,
		magic:  c.MagicComma,
		expand: expand,
	})
}

// index prints the brackets of a subscript. A bare tuple index lists its
// elements directly inside the brackets; a single index has no trailing
// comma.
func (f *formatter) index(s *syntax.Subscript) doc.Doc {
	if t, ok := s.Index.(*syntax.Tuple); ok && !t.OwnParens && !t.Parenthesized() && len(t.Elts) > 0 {
		lead, trail := f.claim(t)
		comma := commaIfBreaks
		if len(t.Elts) == 1 {
			comma = commaAlways
		}
		eol, own := comments.Split(lead)
		return f.sequence(seq{
			open:    doc.Text("["),
			close:   doc.Text("]"),
			owner:   t,
			elts:    t.Elts,
			comma:   comma,
			magic:   t.MagicComma,
			opening: eol,
			lead:    own,
			tail:    trail,
		})
	}
	return f.sequence(seq{
		open:  doc.Text("["),
		close: doc.Text("]"),
		owner: s,
		elts:  []syntax.Expr{s.Index},
		comma: commaNever,
	})
}

// tuple prints a tuple with its own parentheses, or a bare tuple that gains
// parentheses only when it breaks.
func (f *formatter) tuple(t *syntax.Tuple) doc.Doc {
	comma := commaIfBreaks
	if len(t.Elts) == 1 {
		comma = commaAlways
	}
	s := seq{
		open:  doc.Text("("),
		close: doc.Text(")"),
		owner: t,
		elts:  t.Elts,
		comma: comma,
		magic: t.MagicComma,
	}
	if !t.OwnParens && len(t.Elts) > 0 {
		s.open = doc.IfBreaks{Broken: doc.Text("(")}
		s.close = doc.IfBreaks{Broken: doc.Text(")")}
	}
	return f.sequence(s)
}
