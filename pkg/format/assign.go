package format

import (
	"github.com/matzehuels/pyfmt/pkg/comments"
	"github.com/matzehuels/pyfmt/pkg/doc"
	"github.com/matzehuels/pyfmt/pkg/parens"
	"github.com/matzehuels/pyfmt/pkg/syntax"
)

// assignment is an assignment-like statement: plain (a = b = value),
// augmented (a += value) or annotated (a: T = value).
type assignment struct {
	stmt       syntax.Stmt
	targets    []syntax.Expr // at least one; the last is distinguished
	annotation syntax.Expr   // annotated assignments only
	op         string
	value      syntax.Expr // nil for a bare annotation
	inline     []*comments.Comment
}

// assign lays out an assignment. Best-fit values compete between these
// candidates, in order:
//
//	a. everything flat:               x = value
//	b. call arguments expanded:       x = call(
//	                                      arg,
//	                                  )
//	c. value in parentheses:          x = (
//	                                      value
//	                                  )
//	d. value bare, the last target parenthesized if it expands
//
// Candidate b only exists for calls with arguments. Candidate c only exists
// when the value fits flat inside the parentheses, or cannot break at all:
// a value that breaks anyway breaks on the statement line. End-of-line
// comments of the value and the statement follow the value in a, b and d,
// and sit inside the parentheses in c; their width counts in every
// measurement.
func (f *formatter) assign(a assignment) doc.Doc {
	last := len(a.targets) - 1
	head := make(doc.Concat, 0, 2*last)
	for _, t := range a.targets[:last] {
		head = append(head, f.target(t), doc.Text(" = "))
	}
	lastTarget := a.targets[last]
	target := f.memo.doc(lastTarget, func() doc.Doc {
		d := f.target(lastTarget)
		if a.annotation != nil {
			d = doc.Seq(d, doc.Text(":"), doc.Space, f.expr(a.annotation))
		}
		return d
	})
	if a.value == nil {
		return doc.Seq(head, target, comments.Suffixes(a.inline))
	}

	op := doc.Text(" " + a.op + " ")
	verdict := parens.Classify(a.value, a.stmt, f.cm)

	var body, expanded doc.Doc
	if call, ok := a.value.(*syntax.Call); ok && verdict == parens.BestFit && len(call.Args) > 0 {
		fn := f.exprThen(call.Func)
		args := f.arguments(call, false)
		body = doc.Seq(fn, args)
		expanded = doc.Seq(fn, &doc.Group{Contents: args.Contents, Expand: true})
	} else {
		body = f.exprBody(a.value)
	}

	lead, trail := f.claim(a.value)
	eol, own := comments.Split(trail)
	if verdict == parens.Always || len(lead)+len(own) > 0 {
		return doc.Seq(head, target, op, f.parenthesize(lead, body, trail), comments.Suffixes(a.inline))
	}
	suffix := comments.Suffixes(append(eol, a.inline...))

	if f.memo.willBreak(lastTarget) {
		return doc.Seq(head, target, op, body, suffix)
	}

	switch verdict {
	case parens.Never:
		return doc.Seq(head, target, op, body, suffix)
	case parens.Multiline:
		if isSingleLiteral(a.value) {
			return doc.Seq(head, target, op, body, suffix)
		}
		return doc.Seq(head, target, op, doc.ParenthesizeIfExpands(body), suffix)
	case parens.IfBreaks:
		return doc.Seq(head, target, op, doc.ParenthesizeIfExpands(body), suffix)
	}

	variants := []doc.Doc{doc.Seq(target, op, body, suffix)}
	if expanded != nil {
		variants = append(variants, doc.Seq(target, op, expanded, suffix))
	}
	if f.parenthesizeHelps(body, suffix) {
		variants = append(variants, doc.Seq(target, op, parenthesizedBlock(body, suffix)))
	}
	variants = append(variants, doc.Seq(target, op, body, suffix))
	return doc.Seq(head, doc.BestFit{Variants: variants})
}

// target prints an assignment target. Self-delimiting targets and names are
// printed as they are; other targets gain parentheses when they do not fit.
func (f *formatter) target(t syntax.Expr) doc.Doc {
	verdict := parens.Target(t, f.cm)
	body := f.exprBody(t)
	lead, trail := f.claim(t)
	if verdict == parens.Always || len(lead) > 0 {
		return f.parenthesize(lead, body, trail)
	}
	if verdict == parens.IfBreaks {
		body = doc.ParenthesizeIfExpands(body)
	}
	return doc.Seq(body, comments.TrailingDocs(trail, maxBlankInExpr))
}
