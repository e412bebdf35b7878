package format

import (
	"strings"

	"github.com/matzehuels/pyfmt/pkg/comments"
	"github.com/matzehuels/pyfmt/pkg/doc"
	"github.com/matzehuels/pyfmt/pkg/errors"
	"github.com/matzehuels/pyfmt/pkg/parens"
	"github.com/matzehuels/pyfmt/pkg/syntax"
)

// maxBlankAtModule caps blank lines between top-level statements.
const maxBlankAtModule = 2

func (f *formatter) module(mod *syntax.Module) doc.Doc {
	if len(mod.Body) == 0 {
		return f.commentsOnly(mod)
	}
	out := make(doc.Concat, 0, 2*len(mod.Body))
	for i, st := range mod.Body {
		if i > 0 {
			out = append(out, f.separator(st))
		}
		out = append(out, f.statement(st, i == 0))
	}
	return out
}

// commentsOnly prints a module without statements.
func (f *formatter) commentsOnly(mod *syntax.Module) doc.Doc {
	var out doc.Concat
	for i, c := range f.fresh(f.cm.Dangling(mod)) {
		if i > 0 {
			out = append(out, doc.HardLine, emptyLines(c.LinesBefore-1))
		}
		out = append(out, c.Doc())
	}
	return out
}

// separator breaks the line before st, keeping up to two of the blank lines
// that precede it or its leading comments.
func (f *formatter) separator(st syntax.Stmt) doc.Doc {
	start := st.Span().Start
	if lead := f.cm.Leading(st); len(lead) > 0 {
		start = lead[0].Span.Start
	}
	return doc.Seq(doc.HardLine, emptyLines(syntax.LinesBefore(f.src, start)-1))
}

func emptyLines(n int) doc.Doc {
	n = min(n, maxBlankAtModule)
	if n <= 0 {
		return nil
	}
	out := make(doc.Concat, n)
	for i := range out {
		out[i] = doc.EmptyLine
	}
	return out
}

// statement prints st with its comments. The statement memo lives exactly
// as long as this call.
func (f *formatter) statement(st syntax.Stmt, first bool) doc.Doc {
	f.memo = newStmtMemo()
	defer func() { f.memo = nil }()

	lead := f.fresh(f.cm.Leading(st))
	eol, own := comments.Split(f.cm.Trailing(st))
	var body doc.Doc
	if skip := suppression(eol); skip != nil {
		body = f.verbatim(st, skip)
	} else {
		body = f.stmtBody(st, f.fresh(eol), first)
	}
	return doc.Seq(
		comments.LeadingDocs(lead, maxBlankAtModule),
		body,
		comments.TrailingDocs(f.fresh(own), maxBlankAtModule),
	)
}

func suppression(cs []*comments.Comment) *comments.Comment {
	for _, c := range cs {
		if c.IsSuppression() {
			return c
		}
	}
	return nil
}

// verbatim prints st and its pragma comment exactly as in the source.
func (f *formatter) verbatim(st syntax.Stmt, skip *comments.Comment) doc.Doc {
	span := syntax.Span{Start: st.Span().Start, End: skip.Span.End}
	var out doc.Concat
	for _, c := range f.fresh(f.cm.Within(span)) {
		out = append(out, doc.Mark{ID: c.ID})
	}
	text := strings.ReplaceAll(span.Text(f.src), "\r\n", "\n")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			out = append(out, doc.LiteralLine)
		}
		out = append(out, doc.Text(line))
	}
	return out
}

// stmtBody prints a statement. inline holds its end-of-line comments.
func (f *formatter) stmtBody(st syntax.Stmt, inline []*comments.Comment, first bool) doc.Doc {
	switch s := st.(type) {
	case *syntax.PassStmt:
		return doc.Seq(doc.Text("pass"), comments.Suffixes(inline))
	case *syntax.ExprStmt:
		if first && isDocstring(s) && !f.cm.HasComments(s.Value) {
			lit := s.Value.(*syntax.StringLit)
			return doc.Seq(f.literal(lit.Parts[0].Raw, f.opts.DocstringQuoteStyle), comments.Suffixes(inline))
		}
		return f.lastExpression(nil, s.Value, s, inline)
	case *syntax.ReturnStmt:
		if s.Value == nil {
			return doc.Seq(doc.Text("return"), comments.Suffixes(inline))
		}
		return f.lastExpression(doc.Text("return "), s.Value, s, inline)
	case *syntax.DelStmt:
		if len(s.Targets) == 1 {
			return f.lastExpression(doc.Text("del "), s.Targets[0], s, inline)
		}
		targets := f.sequence(seq{
			open:  doc.IfBreaks{Broken: doc.Text("(")},
			close: doc.IfBreaks{Broken: doc.Text(")")},
			owner: s,
			elts:  s.Targets,
		})
		return doc.Seq(doc.Text("del "), targets, comments.Suffixes(inline))
	case *syntax.AssignStmt:
		return f.assign(assignment{stmt: s, targets: s.Targets, op: "=", value: s.Value, inline: inline})
	case *syntax.AugAssignStmt:
		return f.assign(assignment{stmt: s, targets: []syntax.Expr{s.Target}, op: s.Op, value: s.Value, inline: inline})
	case *syntax.AnnAssignStmt:
		return f.assign(assignment{
			stmt:       s,
			targets:    []syntax.Expr{s.Target},
			annotation: s.Annotation,
			op:         "=",
			value:      s.Value,
			inline:     inline,
		})
	}
	f.fail(errors.New(errors.ErrCodeUnsupported, "cannot format %T at %s", st, st.Span()))
	return doc.Text(st.Span().Text(f.src))
}

// lastExpression prints the expression that ends a statement, after
// prefix. Optional parentheses follow the verdict for value in parent.
func (f *formatter) lastExpression(prefix doc.Doc, value syntax.Expr, parent syntax.Node, inline []*comments.Comment) doc.Doc {
	verdict := parens.Classify(value, parent, f.cm)
	body := f.exprBody(value)
	lead, trail := f.claim(value)
	eol, own := comments.Split(trail)
	if verdict == parens.Always || len(lead)+len(own) > 0 {
		return doc.Seq(prefix, f.parenthesize(lead, body, trail), comments.Suffixes(inline))
	}
	suffix := comments.Suffixes(append(eol, inline...))
	switch verdict {
	case parens.Never:
		return doc.Seq(prefix, body, suffix)
	case parens.BestFit:
		variants := []doc.Doc{doc.Seq(body, suffix)}
		if f.parenthesizeHelps(body, suffix) {
			variants = append(variants, parenthesizedBlock(body, suffix))
		}
		return doc.Seq(prefix, doc.BestFit{Variants: append(variants, doc.Seq(body, suffix))})
	case parens.Multiline:
		if isSingleLiteral(value) {
			return doc.Seq(prefix, body, suffix)
		}
	}
	return doc.Seq(prefix, doc.ParenthesizeIfExpands(body), suffix)
}

// parenthesizedBlock puts body and its end-of-line comments on an
// indented line between explicit parentheses.
func parenthesizedBlock(body, suffix doc.Doc) doc.Doc {
	return doc.Block("(", doc.Seq(body, suffix), ")")
}

// parenthesizeHelps reports whether body, put on its own indented line
// between parentheses, fits there flat or cannot break at all. Statements
// start at column zero. When the value would still break inside the
// parentheses, they are left out and the value breaks on the statement
// line instead.
func (f *formatter) parenthesizeHelps(body, suffix doc.Doc) bool {
	w, flat := doc.FlatWidth(doc.Seq(body, suffix), f.opts.render())
	if !flat {
		return false
	}
	return f.opts.IndentWidth+w <= f.opts.LineWidth || !doc.HasSoftLines(body)
}

// isSingleLiteral reports whether e is one literal token, as opposed to an
// implicit concatenation.
func isSingleLiteral(e syntax.Expr) bool {
	switch e := e.(type) {
	case *syntax.StringLit:
		return len(e.Parts) == 1
	case *syntax.BytesLit:
		return len(e.Parts) == 1
	case *syntax.FStringLit:
		return len(e.Parts) == 1
	}
	return false
}
