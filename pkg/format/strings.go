package format

import (
	"strings"

	"github.com/matzehuels/pyfmt/pkg/comments"
	"github.com/matzehuels/pyfmt/pkg/doc"
	"github.com/matzehuels/pyfmt/pkg/errors"
	"github.com/matzehuels/pyfmt/pkg/literal"
	"github.com/matzehuels/pyfmt/pkg/syntax"
)

// stringDoc prints a string, bytes or f-string expression. The parts of an
// implicit concatenation share a group and go on separate lines when it
// breaks; comments between parts stay after the part they follow.
func (f *formatter) stringDoc(n syntax.Expr, parts []syntax.StringPart, quotes literal.QuoteStyle) doc.Doc {
	if len(parts) == 1 {
		return f.literal(parts[0].Raw, quotes)
	}
	dangling := f.fresh(f.cm.Dangling(n))
	items := make(doc.Concat, 0, 3*len(parts))
	for i, p := range parts {
		if i > 0 {
			items = append(items, doc.SoftLineOrSpace)
		}
		items = append(items, f.literal(p.Raw, quotes))
		var between []*comments.Comment
		if i < len(parts)-1 {
			between, dangling = splitAt(dangling, parts[i+1].Range.Start)
		} else {
			between, dangling = dangling, nil
		}
		if d := comments.TrailingDocs(between, maxBlankInExpr); d != nil {
			items = append(items, d)
		}
	}
	return &doc.Group{Contents: items}
}

// literal prints one literal token in canonical form. The lines of a
// multi-line literal (triple quoted, or continued with a backslash) are
// joined by literal lines so that indentation never changes its content.
func (f *formatter) literal(raw string, quotes literal.QuoteStyle) doc.Doc {
	n, err := literal.Normalize(raw, literal.Options{Preferred: quotes})
	if err != nil {
		f.fail(errors.Wrap(errors.ErrCodeInternal, err, "normalize literal %s", raw))
		return doc.Text(raw)
	}
	text := strings.ReplaceAll(n.Text, "\r\n", "\n")
	if !strings.Contains(text, "\n") {
		return doc.Text(text)
	}
	lines := literal.Lines(text)
	out := make(doc.Concat, 0, 2*len(lines))
	for i, l := range lines {
		if i > 0 {
			out = append(out, doc.LiteralLine)
		}
		out = append(out, doc.Text(l))
	}
	return out
}

// isDocstring reports whether st is a lone string expression statement.
func isDocstring(st syntax.Stmt) bool {
	s, ok := st.(*syntax.ExprStmt)
	if !ok {
		return false
	}
	lit, ok := s.Value.(*syntax.StringLit)
	return ok && len(lit.Parts) == 1
}
