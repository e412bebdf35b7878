package syntax

import "fmt"

// Span is a half-open byte range [Start, End) into the source.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether o lies entirely within s.
func (s Span) Contains(o Span) bool { return s.Start <= o.Start && o.End <= s.End }

// Text returns the source text covered by the span.
func (s Span) Text(src string) string { return src[s.Start:s.End] }

func (s Span) String() string { return fmt.Sprintf("%d..%d", s.Start, s.End) }

// Node is any statement or expression of the tree.
type Node interface {
	Span() Span
	node()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmt()
}

// Expr is an expression node.
type Expr interface {
	Node
	expr()
	// Parenthesized reports whether redundant parentheses enclosed the
	// expression in the source.
	Parenthesized() bool
	// OuterSpan is the span including enclosing parentheses.
	OuterSpan() Span
	base() *ExprNode
}

// ExprNode carries the fields shared by every expression.
type ExprNode struct {
	Range  Span // the expression itself, parentheses excluded
	Parens int  // redundant parenthesis pairs around the expression
	Outer  Span // span including the outermost parenthesis pair
}

func (e *ExprNode) Span() Span          { return e.Range }
func (e *ExprNode) Parenthesized() bool { return e.Parens > 0 }
func (e *ExprNode) node()               {}
func (e *ExprNode) expr()               {}
func (e *ExprNode) base() *ExprNode     { return e }

func (e *ExprNode) OuterSpan() Span {
	if e.Parens == 0 {
		return e.Range
	}
	return e.Outer
}

// StmtNode carries the fields shared by every statement.
type StmtNode struct {
	Range Span
}

func (s *StmtNode) Span() Span { return s.Range }
func (s *StmtNode) node()      {}
func (s *StmtNode) stmt()      {}

// Comment is a comment token in source order.
type Comment struct {
	Range Span
	Text  string
}

// Module is the root of a parsed file.
type Module struct {
	Range    Span
	Body     []Stmt
	Comments []Comment
}

func (m *Module) Span() Span { return m.Range }
func (m *Module) node()      {}

// ============================================================================
// Statements
// ============================================================================

// AssignStmt is `t1 = t2 = ... = value`.
type AssignStmt struct {
	StmtNode
	Targets []Expr
	Value   Expr
}

// AugAssignStmt is `target op= value`; Op includes the '=' (for example "+=").
type AugAssignStmt struct {
	StmtNode
	Target Expr
	Op     string
	Value  Expr
}

// AnnAssignStmt is `target: annotation [= value]`.
type AnnAssignStmt struct {
	StmtNode
	Target     Expr
	Annotation Expr
	Value      Expr // nil without a value
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	StmtNode
	Value Expr
}

// ReturnStmt is `return [value]`.
type ReturnStmt struct {
	StmtNode
	Value Expr // nil for a bare return
}

// PassStmt is `pass`.
type PassStmt struct {
	StmtNode
}

// DelStmt is `del t1, t2, ...`.
type DelStmt struct {
	StmtNode
	Targets []Expr
}

// ============================================================================
// Expressions
// ============================================================================

// Name is an identifier.
type Name struct {
	ExprNode
	ID string
}

// Number is a numeric literal in its source spelling.
type Number struct {
	ExprNode
	Value string
}

// ConstantKind enumerates the keyword constants.
type ConstantKind uint8

const (
	ConstNone ConstantKind = iota
	ConstTrue
	ConstFalse
	ConstEllipsis
)

// String returns the Python spelling of the constant.
func (k ConstantKind) String() string {
	switch k {
	case ConstTrue:
		return "True"
	case ConstFalse:
		return "False"
	case ConstEllipsis:
		return "..."
	default:
		return "None"
	}
}

// Constant is None, True, False or the ellipsis.
type Constant struct {
	ExprNode
	Kind ConstantKind
}

// StringPart is one literal token of a (possibly implicitly concatenated)
// string, bytes or f-string expression.
type StringPart struct {
	Range Span
	Raw   string // prefix, quotes and body exactly as in the source
}

// StringLit is a str literal, possibly implicitly concatenated.
type StringLit struct {
	ExprNode
	Parts []StringPart
}

// BytesLit is a bytes literal, possibly implicitly concatenated.
type BytesLit struct {
	ExprNode
	Parts []StringPart
}

// FStringLit is an f-string, or an implicit concatenation containing one.
type FStringLit struct {
	ExprNode
	Parts []StringPart
}

// Attribute is `value.attr`.
type Attribute struct {
	ExprNode
	Value Expr
	Attr  string
}

// Call is `func(args...)`. Keyword and double-star arguments appear in Args
// as [*Keyword], single-star arguments as [*Starred].
type Call struct {
	ExprNode
	Func       Expr
	Args       []Expr
	MagicComma bool
}

// Keyword is `name=value` in a call, or `**value` when Name is empty.
type Keyword struct {
	ExprNode
	Name  string
	Value Expr
}

// Subscript is `value[index]`.
type Subscript struct {
	ExprNode
	Value Expr
	Index Expr
}

// Slice is `lower:upper[:step]` inside a subscript.
type Slice struct {
	ExprNode
	Lower Expr // may be nil
	Upper Expr // may be nil
	Step  Expr // may be nil
	// HasStep records a second colon, even without a step expression.
	HasStep bool
}

// Tuple is a comma-separated sequence, with or without its own parentheses.
type Tuple struct {
	ExprNode
	Elts       []Expr
	OwnParens  bool // the tuple owns a pair of parentheses
	MagicComma bool
}

// List is `[elts...]`.
type List struct {
	ExprNode
	Elts       []Expr
	MagicComma bool
}

// Set is `{elts...}` with at least one element.
type Set struct {
	ExprNode
	Elts       []Expr
	MagicComma bool
}

// Dict is `{key: value, **other, ...}`.
type Dict struct {
	ExprNode
	Items      []*DictItem
	MagicComma bool
}

// DictItem is `key: value`, or `**value` when Key is nil.
type DictItem struct {
	ExprNode
	Key   Expr
	Value Expr
}

// Starred is `*value`.
type Starred struct {
	ExprNode
	Value Expr
}

// UnaryOp is `op operand` for -, +, ~ and not.
type UnaryOp struct {
	ExprNode
	Op      string
	Operand Expr
}

// BinOp is a binary, boolean or comparison operation. Op is the operator
// as written, normalized to single spaces ("not in", "is not").
type BinOp struct {
	ExprNode
	Left  Expr
	Op    string
	Right Expr
}

// Precedence returns the binding strength of a binary operator. Higher
// binds tighter.
func Precedence(op string) int {
	switch op {
	case "or":
		return 1
	case "and":
		return 2
	case "<", ">", "==", ">=", "<=", "!=", "in", "not in", "is", "is not":
		return 4
	case "|":
		return 5
	case "^":
		return 6
	case "&":
		return 7
	case "<<", ">>":
		return 8
	case "+", "-":
		return 9
	case "*", "/", "//", "%", "@":
		return 10
	case "**":
		return 12
	}
	return 0
}

// IsParenthesizedTuple reports whether e is a tuple carrying its own
// parentheses.
func IsParenthesizedTuple(e Expr) bool {
	t, ok := e.(*Tuple)
	return ok && t.OwnParens
}
