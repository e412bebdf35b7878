package format

import (
	"strings"

	"github.com/matzehuels/pyfmt/pkg/comments"
	"github.com/matzehuels/pyfmt/pkg/doc"
	"github.com/matzehuels/pyfmt/pkg/errors"
	"github.com/matzehuels/pyfmt/pkg/syntax"
)

// expr formats e together with its comments and source parentheses.
func (f *formatter) expr(e syntax.Expr) doc.Doc {
	body, after := f.exprSplit(e)
	return doc.Seq(body, after)
}

// exprSplit is like expr but returns the trailing own-line comments outside
// the parentheses of e separately, so that a list can print them after the
// separating comma.
func (f *formatter) exprSplit(e syntax.Expr) (body, after doc.Doc) {
	body = f.exprBody(e)
	lead, trail := f.claim(e)
	if e.Parenthesized() {
		outer := e.OuterSpan()
		var inLead, inTrail []*comments.Comment
		lead, inLead = splitAt(lead, outer.Start)
		inTrail, trail = splitAt(trail, outer.End)
		body = f.parenthesize(inLead, body, inTrail)
	}
	eol, own := comments.Split(trail)
	body = doc.Seq(f.leading(lead), body, comments.TrailingDocs(eol, maxBlankInExpr))
	return body, comments.TrailingDocs(own, maxBlankInExpr)
}

// exprThen formats e where more code follows on the same line: a line
// break separates trailing own-line comments from that code.
func (f *formatter) exprThen(e syntax.Expr) doc.Doc {
	body, after := f.exprSplit(e)
	if after == nil {
		return body
	}
	return doc.Seq(body, after, doc.HardLine)
}

// exprBody formats e without its own comments and parentheses.
func (f *formatter) exprBody(e syntax.Expr) doc.Doc {
	switch e := e.(type) {
	case *syntax.Name:
		return doc.Text(e.ID)
	case *syntax.Number:
		return doc.Text(normalizeNumber(e.Value))
	case *syntax.Constant:
		return doc.Text(e.Kind.String())
	case *syntax.StringLit:
		return f.stringDoc(e, e.Parts, f.opts.QuoteStyle)
	case *syntax.BytesLit:
		return f.stringDoc(e, e.Parts, f.opts.QuoteStyle)
	case *syntax.FStringLit:
		return f.stringDoc(e, e.Parts, f.opts.QuoteStyle)
	case *syntax.Attribute:
		return f.attribute(e)
	case *syntax.Call:
		return doc.Seq(f.exprThen(e.Func), f.arguments(e, false))
	case *syntax.Keyword:
		if e.Name == "" {
			return doc.Seq(doc.Text("**"), f.expr(e.Value))
		}
		return doc.Seq(doc.Text(e.Name+"="), f.expr(e.Value))
	case *syntax.Subscript:
		return doc.Seq(f.exprThen(e.Value), f.index(e))
	case *syntax.Slice:
		return f.slice(e)
	case *syntax.Tuple:
		return f.tuple(e)
	case *syntax.List:
		return f.sequence(seq{open: doc.Text("["), close: doc.Text("]"), owner: e, elts: e.Elts, magic: e.MagicComma})
	case *syntax.Set:
		return f.sequence(seq{open: doc.Text("{"), close: doc.Text("}"), owner: e, elts: e.Elts, magic: e.MagicComma})
	case *syntax.Dict:
		elts := make([]syntax.Expr, len(e.Items))
		for i, it := range e.Items {
			elts[i] = it
		}
		return f.sequence(seq{open: doc.Text("{"), close: doc.Text("}"), owner: e, elts: elts, magic: e.MagicComma})
	case *syntax.DictItem:
		if e.Key == nil {
			return doc.Seq(doc.Text("**"), f.expr(e.Value))
		}
		return doc.Seq(f.exprThen(e.Key), doc.Text(":"), doc.Space, f.expr(e.Value))
	case *syntax.Starred:
		return doc.Seq(doc.Text("*"), f.expr(e.Value))
	case *syntax.UnaryOp:
		op := e.Op
		if op == "not" {
			op += " "
		}
		return doc.Seq(doc.Text(op), f.expr(e.Operand))
	case *syntax.BinOp:
		return f.binary(e)
	default:
		f.fail(errors.New(errors.ErrCodeUnsupported, "cannot format %T at %s", e, e.Span()))
		return doc.Text(e.Span().Text(f.src))
	}
}

func (f *formatter) attribute(a *syntax.Attribute) doc.Doc {
	value := f.exprThen(a.Value)
	if n, ok := a.Value.(*syntax.Number); ok && !n.Parenthesized() && isDecimalInt(n.Value) {
		// 1.real would lex as a float
		value = doc.Seq(doc.Text("("), value, doc.Text(")"))
	}
	return doc.Seq(value, doc.Text("."+a.Attr))
}

// binary formats an operator chain. Operands of a left-nested chain with
// the same precedence are flattened into one group, so that it breaks
// before every operator at once. A power of simple operands hugs its
// operator unless a comment has to break it.
func (f *formatter) binary(b *syntax.BinOp) doc.Doc {
	if b.Op == "**" && isSimpleOperand(b.Left) && isSimpleOperand(b.Right) && len(f.cm.Within(b.Span())) == 0 {
		return doc.Seq(f.exprThen(b.Left), doc.Text("**"), f.expr(b.Right))
	}
	ops := []string{b.Op}
	operands := []syntax.Expr{b.Right}
	left := b.Left
	for {
		l, ok := left.(*syntax.BinOp)
		if !ok || l.Parenthesized() || l.Op == "**" ||
			syntax.Precedence(l.Op) != syntax.Precedence(b.Op) || f.cm.HasComments(l) {
			break
		}
		ops = append([]string{l.Op}, ops...)
		operands = append([]syntax.Expr{l.Right}, operands...)
		left = l.Left
	}
	parts := doc.Concat{f.expr(left)}
	for i, op := range ops {
		parts = append(parts, doc.SoftLineOrSpace, doc.Text(op), doc.Space, f.expr(operands[i]))
	}
	return &doc.Group{Contents: parts}
}

// slice formats lower:upper:step. Colons get spaces like a binary operator
// when an operand is more than a name or a number.
func (f *formatter) slice(s *syntax.Slice) doc.Doc {
	spaced := !isSimpleOperand(s.Lower) || !isSimpleOperand(s.Upper) || !isSimpleOperand(s.Step)
	var out doc.Concat
	colon := func(before bool, next syntax.Expr) {
		if spaced && before {
			out = append(out, doc.Space)
		}
		out = append(out, doc.Text(":"))
		if spaced && next != nil {
			out = append(out, doc.Space)
		}
	}
	if s.Lower != nil {
		out = append(out, f.exprThen(s.Lower))
	}
	colon(s.Lower != nil, s.Upper)
	if s.Upper != nil {
		if s.HasStep {
			out = append(out, f.exprThen(s.Upper))
		} else {
			out = append(out, f.expr(s.Upper))
		}
	}
	if s.HasStep {
		colon(s.Upper != nil, s.Step)
		if s.Step != nil {
			out = append(out, f.expr(s.Step))
		}
	}
	return out
}

// isSimpleOperand reports whether e is absent, a name, number or constant,
// or an attribute or unary operation built on one.
func isSimpleOperand(e syntax.Expr) bool {
	if e == nil {
		return true
	}
	if e.Parenthesized() {
		return false
	}
	switch e := e.(type) {
	case *syntax.Name, *syntax.Number, *syntax.Constant:
		return true
	case *syntax.UnaryOp:
		return e.Op != "not" && isSimpleOperand(e.Operand)
	case *syntax.Attribute:
		return isSimpleOperand(e.Value)
	}
	return false
}

// normalizeNumber lowercases prefixes, exponents and the imaginary suffix,
// and uppercases hexadecimal digits.
func normalizeNumber(s string) string {
	lower := strings.ToLower(s)
	if len(s) > 2 && s[0] == '0' && lower[1] == 'x' {
		return "0x" + strings.ToUpper(s[2:])
	}
	return lower
}

func isDecimalInt(s string) bool {
	for i := 0; i < len(s); i++ {
		if (s[i] < '0' || s[i] > '9') && s[i] != '_' {
			return false
		}
	}
	return s != ""
}
