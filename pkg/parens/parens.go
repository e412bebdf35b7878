// Package parens decides when the formatter may add or must keep
// parentheses around an expression.
//
// [Classify] returns a [Verdict] for an expression in the position given by
// its parent node. The statement formatters in package format turn verdicts
// into layouts: a Never value is printed as is, an IfBreaks value is
// parenthesized only when it does not fit, a BestFit value competes between
// several candidate layouts.
package parens

import (
	"slices"

	"github.com/matzehuels/pyfmt/pkg/comments"
	"github.com/matzehuels/pyfmt/pkg/literal"
	"github.com/matzehuels/pyfmt/pkg/syntax"
)

// Verdict is the parenthesization decision for an expression.
type Verdict uint8

const (
	// IfBreaks parenthesizes the expression only if its group expands.
	IfBreaks Verdict = iota
	// Never adds parentheses; the expression delimits itself or cannot
	// break.
	Never
	// Always keeps explicit parentheses, because comments live inside them.
	Always
	// BestFit tries the expression flat, split and parenthesized, and keeps
	// the first layout that fits.
	BestFit
	// Multiline marks literals that span lines on their own.
	Multiline
)

// Verdicts lists every verdict.
var Verdicts = []Verdict{IfBreaks, Never, Always, BestFit, Multiline}

func (v Verdict) String() string {
	switch v {
	case Never:
		return "never"
	case Always:
		return "always"
	case BestFit:
		return "best-fit"
	case Multiline:
		return "multiline"
	}
	return "if-breaks"
}

// Classify returns the verdict for expr as a child of parent. cm may be nil.
func Classify(expr syntax.Expr, parent syntax.Node, cm *comments.Map) Verdict {
	if hasOwnLineComments(expr, cm) {
		return Always
	}
	switch e := expr.(type) {
	case *syntax.Name, *syntax.Number, *syntax.Constant:
		return Never
	case *syntax.StringLit:
		return stringVerdict(e.Parts, parent, expr)
	case *syntax.BytesLit:
		return stringVerdict(e.Parts, parent, expr)
	case *syntax.FStringLit:
		return stringVerdict(e.Parts, parent, expr)
	case *syntax.Call:
		if isAssignValue(expr, parent) {
			return BestFit
		}
		if len(e.Args) > 0 || (cm != nil && cm.HasDangling(e)) {
			return Never
		}
		return IfBreaks
	case *syntax.Attribute:
		if isAssignValue(expr, parent) {
			return BestFit
		}
		return IfBreaks
	case *syntax.List, *syntax.Set, *syntax.Dict, *syntax.Tuple, *syntax.Subscript:
		return Never
	default:
		return IfBreaks
	}
}

// Target returns the verdict for an assignment target.
func Target(target syntax.Expr, cm *comments.Map) Verdict {
	switch {
	case hasOwnLineComments(target, cm):
		return Always
	case IsSelfDelimiting(target):
		return Never
	}
	if _, ok := target.(*syntax.Name); ok {
		return Never
	}
	return IfBreaks
}

// IsSelfDelimiting reports whether target brings its own brackets, so that
// wrapping it in parentheses never helps.
func IsSelfDelimiting(target syntax.Expr) bool {
	switch t := target.(type) {
	case *syntax.Tuple, *syntax.List, *syntax.Dict, *syntax.Set, *syntax.Subscript:
		return true
	case *syntax.Call:
		return len(t.Args) > 0
	}
	return false
}

func stringVerdict(parts []syntax.StringPart, parent syntax.Node, expr syntax.Expr) Verdict {
	if len(parts) > 1 || (len(parts) == 1 && literal.IsMultiline(parts[0].Raw)) {
		return Multiline
	}
	if s, ok := parent.(*syntax.ExprStmt); ok && s.Value == expr {
		return Never
	}
	return BestFit
}

func isAssignValue(expr syntax.Expr, parent syntax.Node) bool {
	switch p := parent.(type) {
	case *syntax.AssignStmt:
		return p.Value == expr
	case *syntax.AugAssignStmt:
		return p.Value == expr
	case *syntax.AnnAssignStmt:
		return p.Value == expr
	}
	return false
}

// hasOwnLineComments reports whether expr, or a part of it that no bracket
// encloses, carries a comment that needs a line break of its own. Only
// parentheses around expr can hold such a break.
func hasOwnLineComments(expr syntax.Expr, cm *comments.Map) bool {
	if cm == nil {
		return false
	}
	if cm.HasLeading(expr) || cm.HasTrailingOwnLine(expr) {
		return true
	}
	for _, op := range operands(expr) {
		if hasOperandComments(op, cm) {
			return true
		}
	}
	return false
}

// hasOperandComments is hasOwnLineComments for an operand: comments inside
// the operand's own parentheses do not count.
func hasOperandComments(e syntax.Expr, cm *comments.Map) bool {
	if !e.Parenthesized() {
		return hasOwnLineComments(e, cm)
	}
	outer := e.OuterSpan()
	for _, c := range cm.Leading(e) {
		if c.Span.Start < outer.Start {
			return true
		}
	}
	for _, c := range cm.Trailing(e) {
		if c.Line == comments.OwnLine && c.Span.Start >= outer.End {
			return true
		}
	}
	return false
}

// operands returns the children of e that are printed outside of any
// bracket pair of e.
func operands(e syntax.Expr) []syntax.Expr {
	var out []syntax.Expr
	switch e := e.(type) {
	case *syntax.Attribute:
		out = []syntax.Expr{e.Value}
	case *syntax.Call:
		out = []syntax.Expr{e.Func}
	case *syntax.Subscript:
		out = []syntax.Expr{e.Value}
	case *syntax.UnaryOp:
		out = []syntax.Expr{e.Operand}
	case *syntax.BinOp:
		out = []syntax.Expr{e.Left, e.Right}
	}
	return slices.DeleteFunc(out, func(x syntax.Expr) bool { return x == nil })
}
