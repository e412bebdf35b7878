package syntax

import (
	"fmt"
	"slices"
	"strings"
)

// reserved lists keywords that cannot be used as names. Statements starting
// with one of them, other than pass/return/del, are outside the supported
// subset.
var reserved = map[string]bool{
	"and": true, "as": true, "assert": true, "async": true, "await": true,
	"break": true, "class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
	"pass": true, "raise": true, "return": true, "try": true, "while": true,
	"with": true, "yield": true,
}

var augmentedOps = []string{"+=", "-=", "*=", "/=", "//=", "%=", "@=", "&=", "|=", "^=", ">>=", "<<=", "**="}

// binaryLevels lists the binary operator tiers from loosest to tightest,
// below comparisons.
var binaryLevels = [][]string{
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "//", "%", "@"},
}

// bailout unwinds the parser on the first error.
type bailout struct{ err error }

type parser struct {
	src     string
	toks    []Token
	pos     int
	lastEnd int
}

// Parse parses a module. The returned error carries the PARSE_ERROR code.
func Parse(src string) (mod *Module, err error) {
	toks, comments, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			mod, err = nil, b.err
		}
	}()
	mod = &Module{Range: Span{0, len(src)}, Comments: comments}
	for p.peek().Kind != EOF {
		mod.Body = append(mod.Body, p.statement())
	}
	return mod, nil
}

// ParseExpr parses a single expression, as used by tests and the doc command.
func ParseExpr(src string) (Expr, error) {
	mod, err := Parse(src)
	if err != nil {
		return nil, err
	}
	if len(mod.Body) != 1 {
		return nil, newParseError(src, 0, "expected a single expression")
	}
	st, ok := mod.Body[0].(*ExprStmt)
	if !ok {
		return nil, newParseError(src, 0, "expected an expression")
	}
	return st.Value, nil
}

// ============================================================================
// Token helpers
// ============================================================================

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() Token {
	t := p.toks[p.pos]
	if t.Kind != EOF {
		p.pos++
	}
	if t.Kind != Newline && t.Kind != EOF {
		p.lastEnd = t.Span.End
	}
	return t
}

func (p *parser) isOp(ops ...string) bool {
	t := p.peek()
	return t.Kind == Op && slices.Contains(ops, t.Text)
}

func (p *parser) isKeyword(kw string) bool {
	t := p.peek()
	return t.Kind == NameToken && t.Text == kw
}

func (p *parser) expectOp(op string) Token {
	if !p.isOp(op) {
		p.failAt(p.peek(), "expected %q", op)
	}
	return p.next()
}

func (p *parser) failAt(t Token, format string, args ...any) {
	panic(bailout{newParseError(p.src, t.Span.Start, fmt.Sprintf(format, args...))})
}

func (p *parser) unexpected() {
	t := p.peek()
	switch t.Kind {
	case EOF, Newline:
		p.failAt(t, "unexpected %s", t.Kind)
	default:
		p.failAt(t, "unexpected %q", t.Text)
	}
}

// ============================================================================
// Statements
// ============================================================================

func (p *parser) statement() Stmt {
	start := p.peek().Span.Start
	var st Stmt
	switch {
	case p.isKeyword("pass"):
		p.next()
		st = &PassStmt{}
	case p.isKeyword("return"):
		p.next()
		r := &ReturnStmt{}
		if !p.atStatementEnd() {
			r.Value = p.exprList()
		}
		st = r
	case p.isKeyword("del"):
		p.next()
		st = &DelStmt{Targets: p.targetList()}
	case p.peek().Kind == NameToken && reserved[p.peek().Text] && !p.startsExpression():
		p.failAt(p.peek(), "unsupported statement %q", p.peek().Text)
	default:
		st = p.simpleStatement()
	}
	end := p.lastEnd
	p.endStatement()
	setStmtRange(st, Span{start, end})
	return st
}

// startsExpression reports whether a reserved word at the cursor begins an
// expression rather than a compound statement.
func (p *parser) startsExpression() bool {
	return p.isKeyword("not")
}

func (p *parser) simpleStatement() Stmt {
	first := p.exprList()
	switch {
	case p.isOp("="):
		targets := []Expr{first}
		var value Expr
		for p.isOp("=") {
			p.next()
			e := p.exprList()
			if p.isOp("=") {
				targets = append(targets, e)
				continue
			}
			value = e
		}
		return &AssignStmt{Targets: targets, Value: value}
	case p.isOp(augmentedOps...):
		op := p.next().Text
		return &AugAssignStmt{Target: first, Op: op, Value: p.exprList()}
	case p.isOp(":"):
		p.next()
		st := &AnnAssignStmt{Target: first, Annotation: p.expr()}
		if p.isOp("=") {
			p.next()
			st.Value = p.exprList()
		}
		return st
	}
	return &ExprStmt{Value: first}
}

func (p *parser) atStatementEnd() bool {
	k := p.peek().Kind
	return k == Newline || k == EOF || p.isOp(";")
}

func (p *parser) endStatement() {
	switch {
	case p.peek().Kind == Newline:
		p.next()
	case p.peek().Kind == EOF:
	case p.isOp(";"):
		p.failAt(p.peek(), "semicolon-separated statements are not supported")
	default:
		p.unexpected()
	}
}

func setStmtRange(st Stmt, r Span) {
	switch s := st.(type) {
	case *AssignStmt:
		s.Range = r
	case *AugAssignStmt:
		s.Range = r
	case *AnnAssignStmt:
		s.Range = r
	case *ExprStmt:
		s.Range = r
	case *ReturnStmt:
		s.Range = r
	case *PassStmt:
		s.Range = r
	case *DelStmt:
		s.Range = r
	}
}

// targetList parses the comma-separated operands of del.
func (p *parser) targetList() []Expr {
	targets := []Expr{p.expr()}
	for p.isOp(",") {
		p.next()
		if p.atStatementEnd() {
			break
		}
		targets = append(targets, p.expr())
	}
	return targets
}

// ============================================================================
// Expressions
// ============================================================================

// exprList parses a possibly starred expression list. More than one element,
// or a trailing comma, yields a tuple without its own parentheses.
func (p *parser) exprList() Expr {
	start := p.peek().Span.Start
	first := p.starOrExpr()
	if !p.isOp(",") {
		return first
	}
	elts := []Expr{first}
	trailing := false
	for p.isOp(",") {
		p.next()
		if p.atStatementEnd() || p.isOp("=", ")", ":") || p.isOp(augmentedOps...) {
			trailing = true
			break
		}
		elts = append(elts, p.starOrExpr())
	}
	return &Tuple{
		ExprNode:   ExprNode{Range: Span{start, p.lastEnd}},
		Elts:       elts,
		MagicComma: trailing && len(elts) > 1,
	}
}

func (p *parser) starOrExpr() Expr {
	if p.isOp("*") {
		star := p.next()
		v := p.binary(0)
		return &Starred{ExprNode: p.node(star.Span.Start), Value: v}
	}
	return p.expr()
}

func (p *parser) expr() Expr {
	if p.isKeyword("lambda") || p.isKeyword("yield") || p.isKeyword("await") {
		p.failAt(p.peek(), "unsupported expression %q", p.peek().Text)
	}
	e := p.orTest()
	if p.isKeyword("if") {
		p.failAt(p.peek(), "conditional expressions are not supported")
	}
	if p.isKeyword("for") || p.isKeyword("async") {
		p.failAt(p.peek(), "comprehensions are not supported")
	}
	return e
}

// node starts an ExprNode at start and ends it at the last consumed token.
func (p *parser) node(start int) ExprNode {
	return ExprNode{Range: Span{start, p.lastEnd}}
}

func (p *parser) binOp(left Expr, op string, right Expr) Expr {
	return &BinOp{
		ExprNode: ExprNode{Range: Span{left.OuterSpan().Start, right.OuterSpan().End}},
		Left:     left,
		Op:       op,
		Right:    right,
	}
}

func (p *parser) orTest() Expr {
	left := p.andTest()
	for p.isKeyword("or") {
		p.next()
		left = p.binOp(left, "or", p.andTest())
	}
	return left
}

func (p *parser) andTest() Expr {
	left := p.notTest()
	for p.isKeyword("and") {
		p.next()
		left = p.binOp(left, "and", p.notTest())
	}
	return left
}

func (p *parser) notTest() Expr {
	if p.isKeyword("not") {
		t := p.next()
		operand := p.notTest()
		return &UnaryOp{ExprNode: p.node(t.Span.Start), Op: "not", Operand: operand}
	}
	return p.comparison()
}

func (p *parser) comparison() Expr {
	left := p.binary(0)
	for {
		op := p.compareOp()
		if op == "" {
			return left
		}
		left = p.binOp(left, op, p.binary(0))
	}
}

func (p *parser) compareOp() string {
	switch {
	case p.isOp("<", ">", "==", ">=", "<=", "!="):
		return p.next().Text
	case p.isKeyword("in"):
		p.next()
		return "in"
	case p.isKeyword("not") && p.peekAt(1).Kind == NameToken && p.peekAt(1).Text == "in":
		p.next()
		p.next()
		return "not in"
	case p.isKeyword("is"):
		p.next()
		if p.isKeyword("not") {
			p.next()
			return "is not"
		}
		return "is"
	}
	return ""
}

func (p *parser) binary(level int) Expr {
	if level == len(binaryLevels) {
		return p.factor()
	}
	left := p.binary(level + 1)
	for p.isOp(binaryLevels[level]...) {
		op := p.next().Text
		left = p.binOp(left, op, p.binary(level+1))
	}
	return left
}

func (p *parser) factor() Expr {
	if p.isOp("+", "-", "~") {
		t := p.next()
		operand := p.factor()
		return &UnaryOp{ExprNode: p.node(t.Span.Start), Op: t.Text, Operand: operand}
	}
	return p.power()
}

func (p *parser) power() Expr {
	base := p.primary()
	if p.isOp("**") {
		p.next()
		return p.binOp(base, "**", p.factor())
	}
	return base
}

func (p *parser) primary() Expr {
	e := p.atom()
	for {
		start := e.OuterSpan().Start
		switch {
		case p.isOp("."):
			p.next()
			name := p.peek()
			if name.Kind != NameToken {
				p.unexpected()
			}
			p.next()
			e = &Attribute{ExprNode: p.node(start), Value: e, Attr: name.Text}
		case p.isOp("("):
			e = p.call(e)
		case p.isOp("["):
			p.next()
			index := p.subscriptList()
			p.expectOp("]")
			e = &Subscript{ExprNode: p.node(start), Value: e, Index: index}
		default:
			return e
		}
	}
}

func (p *parser) call(fn Expr) Expr {
	p.expectOp("(")
	c := &Call{Func: fn}
	for !p.isOp(")") {
		c.Args = append(c.Args, p.argument())
		if !p.isOp(",") {
			break
		}
		p.next()
		if p.isOp(")") {
			c.MagicComma = true
		}
	}
	p.expectOp(")")
	c.ExprNode = p.node(fn.OuterSpan().Start)
	return c
}

func (p *parser) argument() Expr {
	start := p.peek().Span.Start
	switch {
	case p.isOp("*"):
		p.next()
		v := p.expr()
		return &Starred{ExprNode: p.node(start), Value: v}
	case p.isOp("**"):
		p.next()
		v := p.expr()
		return &Keyword{ExprNode: p.node(start), Value: v}
	case p.peek().Kind == NameToken && p.peekAt(1).Kind == Op && p.peekAt(1).Text == "=":
		name := p.next().Text
		p.next()
		v := p.expr()
		return &Keyword{ExprNode: p.node(start), Name: name, Value: v}
	}
	return p.expr()
}

func (p *parser) subscriptList() Expr {
	start := p.peek().Span.Start
	first := p.sliceItem()
	if !p.isOp(",") {
		return first
	}
	t := &Tuple{Elts: []Expr{first}}
	for p.isOp(",") {
		p.next()
		if p.isOp("]") {
			t.MagicComma = len(t.Elts) > 1
			break
		}
		t.Elts = append(t.Elts, p.sliceItem())
	}
	t.ExprNode = p.node(start)
	return t
}

func (p *parser) sliceItem() Expr {
	start := p.peek().Span.Start
	var lower Expr
	if !p.isOp(":") {
		lower = p.starOrExpr()
		if !p.isOp(":") {
			return lower
		}
	}
	s := &Slice{Lower: lower}
	p.expectOp(":")
	if !p.isOp("]", ",", ":") {
		s.Upper = p.expr()
	}
	if p.isOp(":") {
		p.next()
		s.HasStep = true
		if !p.isOp("]", ",") {
			s.Step = p.expr()
		}
	}
	s.ExprNode = p.node(start)
	return s
}

func (p *parser) atom() Expr {
	t := p.peek()
	switch t.Kind {
	case NameToken:
		p.next()
		switch t.Text {
		case "None":
			return &Constant{ExprNode: p.node(t.Span.Start), Kind: ConstNone}
		case "True":
			return &Constant{ExprNode: p.node(t.Span.Start), Kind: ConstTrue}
		case "False":
			return &Constant{ExprNode: p.node(t.Span.Start), Kind: ConstFalse}
		}
		if reserved[t.Text] {
			p.failAt(t, "unexpected keyword %q", t.Text)
		}
		return &Name{ExprNode: p.node(t.Span.Start), ID: t.Text}
	case NumberToken:
		p.next()
		return &Number{ExprNode: p.node(t.Span.Start), Value: t.Text}
	case StringToken:
		return p.stringLiteral()
	case Op:
		switch t.Text {
		case "...":
			p.next()
			return &Constant{ExprNode: p.node(t.Span.Start), Kind: ConstEllipsis}
		case "(":
			return p.parenthesized()
		case "[":
			return p.list()
		case "{":
			return p.dictOrSet()
		}
	}
	p.unexpected()
	return nil
}

// stringLiteral joins adjacent literal tokens into one expression.
func (p *parser) stringLiteral() Expr {
	start := p.peek().Span.Start
	var parts []StringPart
	var bytes, fstring, text bool
	for p.peek().Kind == StringToken {
		t := p.next()
		prefix := strings.ToLower(t.Text[:strings.IndexAny(t.Text, `"'`)])
		switch {
		case strings.Contains(prefix, "b"):
			bytes = true
		case strings.Contains(prefix, "f"):
			fstring = true
		default:
			text = true
		}
		if bytes && (fstring || text) {
			p.failAt(t, "cannot mix bytes and nonbytes literals")
		}
		parts = append(parts, StringPart{Range: t.Span, Raw: t.Text})
	}
	n := p.node(start)
	switch {
	case bytes:
		return &BytesLit{ExprNode: n, Parts: parts}
	case fstring:
		return &FStringLit{ExprNode: n, Parts: parts}
	}
	return &StringLit{ExprNode: n, Parts: parts}
}

func (p *parser) parenthesized() Expr {
	open := p.next()
	if p.isOp(")") {
		p.next()
		return &Tuple{ExprNode: p.node(open.Span.Start), OwnParens: true}
	}
	first := p.starOrExpr()
	if p.isOp(")") {
		p.next()
		b := first.base()
		b.Parens++
		b.Outer = Span{open.Span.Start, p.lastEnd}
		return first
	}
	t := &Tuple{Elts: []Expr{first}, OwnParens: true}
	for p.isOp(",") {
		p.next()
		if p.isOp(")") {
			t.MagicComma = len(t.Elts) > 1
			break
		}
		t.Elts = append(t.Elts, p.starOrExpr())
	}
	p.expectOp(")")
	t.ExprNode = p.node(open.Span.Start)
	return t
}

func (p *parser) list() Expr {
	open := p.next()
	l := &List{}
	for !p.isOp("]") {
		l.Elts = append(l.Elts, p.starOrExpr())
		if !p.isOp(",") {
			break
		}
		p.next()
		if p.isOp("]") {
			l.MagicComma = true
		}
	}
	p.expectOp("]")
	l.ExprNode = p.node(open.Span.Start)
	return l
}

func (p *parser) dictOrSet() Expr {
	open := p.next()
	if p.isOp("}") {
		p.next()
		return &Dict{ExprNode: p.node(open.Span.Start)}
	}
	if p.isOp("**") {
		return p.dictFrom(open, nil)
	}
	first := p.starOrExpr()
	if p.isOp(":") {
		return p.dictFrom(open, first)
	}
	s := &Set{Elts: []Expr{first}}
	for p.isOp(",") {
		p.next()
		if p.isOp("}") {
			s.MagicComma = true
			break
		}
		s.Elts = append(s.Elts, p.starOrExpr())
	}
	p.expectOp("}")
	s.ExprNode = p.node(open.Span.Start)
	return s
}

// dictFrom parses the items of a dict literal; key is the already parsed
// key of the first item, if any.
func (p *parser) dictFrom(open Token, key Expr) Expr {
	d := &Dict{}
	for {
		d.Items = append(d.Items, p.dictItem(key))
		key = nil
		if !p.isOp(",") {
			break
		}
		p.next()
		if p.isOp("}") {
			d.MagicComma = true
			break
		}
	}
	p.expectOp("}")
	d.ExprNode = p.node(open.Span.Start)
	return d
}

func (p *parser) dictItem(key Expr) *DictItem {
	if key == nil && p.isOp("**") {
		star := p.next()
		v := p.binary(0)
		return &DictItem{ExprNode: p.node(star.Span.Start), Value: v}
	}
	if key == nil {
		key = p.expr()
	}
	p.expectOp(":")
	v := p.expr()
	return &DictItem{ExprNode: ExprNode{Range: Span{key.OuterSpan().Start, p.lastEnd}}, Key: key, Value: v}
}
