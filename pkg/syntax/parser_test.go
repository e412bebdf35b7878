package syntax

import (
	"testing"

	"github.com/matzehuels/pyfmt/pkg/errors"
)

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string // type of the single statement
	}{
		{"assign", "x = 1\n", "*syntax.AssignStmt"},
		{"chained", "x = y = z\n", "*syntax.AssignStmt"},
		{"augmented", "x += 1\n", "*syntax.AugAssignStmt"},
		{"annotated", "x: int = 1\n", "*syntax.AnnAssignStmt"},
		{"annotation only", "x: int\n", "*syntax.AnnAssignStmt"},
		{"expression", "f(x)\n", "*syntax.ExprStmt"},
		{"not expression", "not x\n", "*syntax.ExprStmt"},
		{"return", "return 1, 2\n", "*syntax.ReturnStmt"},
		{"bare return", "return\n", "*syntax.ReturnStmt"},
		{"pass", "pass", "*syntax.PassStmt"},
		{"del", "del a, b[1]\n", "*syntax.DelStmt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(mod.Body) != 1 {
				t.Fatalf("len(Body) = %d, want 1", len(mod.Body))
			}
			if got := typeName(mod.Body[0]); got != tt.want {
				t.Errorf("statement = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseChainedTargets(t *testing.T) {
	mod, err := Parse("a = b = c = value\n")
	if err != nil {
		t.Fatal(err)
	}
	st := mod.Body[0].(*AssignStmt)
	if len(st.Targets) != 3 {
		t.Fatalf("len(Targets) = %d, want 3", len(st.Targets))
	}
	if v, ok := st.Value.(*Name); !ok || v.ID != "value" {
		t.Errorf("Value = %#v, want name value", st.Value)
	}
	if got := st.Span().Text("a = b = c = value\n"); got != "a = b = c = value" {
		t.Errorf("statement text = %q", got)
	}
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"x", "*syntax.Name"},
		{"1_000.5e-3", "*syntax.Number"},
		{"None", "*syntax.Constant"},
		{"...", "*syntax.Constant"},
		{"'a'", "*syntax.StringLit"},
		{"'a' 'b'", "*syntax.StringLit"},
		{"b'a' B'b'", "*syntax.BytesLit"},
		{"'a' f'{b}'", "*syntax.FStringLit"},
		{"a.b.c", "*syntax.Attribute"},
		{"f(a, *b, c=1, **d)", "*syntax.Call"},
		{"a[1:2, ::3]", "*syntax.Subscript"},
		{"(1, 2)", "*syntax.Tuple"},
		{"()", "*syntax.Tuple"},
		{"[1, *rest]", "*syntax.List"},
		{"{1, 2}", "*syntax.Set"},
		{"{}", "*syntax.Dict"},
		{"{'a': 1, **b}", "*syntax.Dict"},
		{"-x", "*syntax.UnaryOp"},
		{"a + b * c", "*syntax.BinOp"},
		{"a and not b", "*syntax.BinOp"},
		{"a is not b", "*syntax.BinOp"},
		{"a not in b", "*syntax.BinOp"},
		{"2 ** -1", "*syntax.BinOp"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := ParseExpr(tt.src)
			if err != nil {
				t.Fatalf("ParseExpr() error = %v", err)
			}
			if got := typeName(e); got != tt.want {
				t.Errorf("ParseExpr(%q) = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	e, err := ParseExpr("a + b * c - d")
	if err != nil {
		t.Fatal(err)
	}
	outer := e.(*BinOp)
	if outer.Op != "-" {
		t.Fatalf("outer op = %q, want -", outer.Op)
	}
	inner := outer.Left.(*BinOp)
	if inner.Op != "+" {
		t.Errorf("inner op = %q, want +", inner.Op)
	}
	if mul, ok := inner.Right.(*BinOp); !ok || mul.Op != "*" {
		t.Errorf("right of + = %#v, want *", inner.Right)
	}
}

func TestParseParentheses(t *testing.T) {
	src := "x = ((a))\n"
	mod, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	v := mod.Body[0].(*AssignStmt).Value
	if !v.Parenthesized() {
		t.Fatal("Parenthesized() = false, want true")
	}
	if got := v.Span().Text(src); got != "a" {
		t.Errorf("Span text = %q, want a", got)
	}
	if got := v.OuterSpan().Text(src); got != "((a))" {
		t.Errorf("OuterSpan text = %q, want ((a))", got)
	}
	if n := v.(*Name).Parens; n != 2 {
		t.Errorf("Parens = %d, want 2", n)
	}
}

func TestParseMagicTrailingComma(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"f(a,)", true},
		{"f(a)", false},
		{"[1, 2,]", true},
		{"[1, 2]", false},
		{"(1,)", false},
		{"(1, 2,)", true},
		{"{1,}", true},
		{"{'a': 1,}", true},
		{"x[a, b,]", true},
		{"x[a,]", false},
		{"1, 2,", true},
		{"1,", false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := ParseExpr(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			var got bool
			switch n := e.(type) {
			case *Call:
				got = n.MagicComma
			case *List:
				got = n.MagicComma
			case *Tuple:
				got = n.MagicComma
			case *Set:
				got = n.MagicComma
			case *Dict:
				got = n.MagicComma
			case *Subscript:
				if tup, ok := n.Index.(*Tuple); ok {
					got = tup.MagicComma
				}
			}
			if got != tt.want {
				t.Errorf("MagicComma(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestParseStrings(t *testing.T) {
	src := "x = ('''a\nb''' \"c\")\n"
	mod, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	lit := mod.Body[0].(*AssignStmt).Value.(*StringLit)
	if len(lit.Parts) != 2 {
		t.Fatalf("len(Parts) = %d, want 2", len(lit.Parts))
	}
	if lit.Parts[0].Raw != "'''a\nb'''" {
		t.Errorf("Parts[0] = %q", lit.Parts[0].Raw)
	}
	if lit.Parts[1].Raw != `"c"` {
		t.Errorf("Parts[1] = %q", lit.Parts[1].Raw)
	}
}

func TestParseFStringNestedQuotes(t *testing.T) {
	e, err := ParseExpr(`f"{x['k']}" `)
	if err != nil {
		t.Fatal(err)
	}
	if got := e.(*FStringLit).Parts[0].Raw; got != `f"{x['k']}"` {
		t.Errorf("Raw = %q", got)
	}
}

func TestParseComments(t *testing.T) {
	src := "# leading\nx = [  # open\n    1,\n]  # trailing\n"
	mod, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"# leading", "# open", "# trailing"}
	if len(mod.Comments) != len(want) {
		t.Fatalf("len(Comments) = %d, want %d", len(mod.Comments), len(want))
	}
	for i, c := range mod.Comments {
		if c.Text != want[i] {
			t.Errorf("Comments[%d] = %q, want %q", i, c.Text, want[i])
		}
		if got := c.Range.Text(src); got != c.Text {
			t.Errorf("Comments[%d] span text = %q", i, got)
		}
	}
}

func TestParseContinuationLines(t *testing.T) {
	mod, err := Parse("x = [\n    1,\n] + \\\n    y\nz = 2\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(mod.Body) != 2 {
		t.Errorf("len(Body) = %d, want 2", len(mod.Body))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		pos  errors.Position
	}{
		{"unterminated string", "x = 'abc\n", errors.Position{Line: 1, Column: 5}},
		{"unexpected indent", "x = 1\n  y = 2\n", errors.Position{Line: 2, Column: 3}},
		{"unsupported statement", "import os\n", errors.Position{Line: 1, Column: 1}},
		{"semicolon", "x = 1; y = 2\n", errors.Position{Line: 1, Column: 6}},
		{"missing bracket", "f(a\n", errors.Position{Line: 2, Column: 1}},
		{"mixed bytes", "x = b'a' 'b'\n", errors.Position{Line: 1, Column: 10}},
		{"comprehension", "[x for x in y]\n", errors.Position{Line: 1, Column: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if !errors.Is(err, errors.ErrCodeParse) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeParse)
			}
			var pe *errors.ParseError
			if !asParseError(err, &pe) {
				t.Fatalf("error %v does not wrap *errors.ParseError", err)
			}
			if pe.Pos != tt.pos {
				t.Errorf("Pos = %v, want %v", pe.Pos, tt.pos)
			}
		})
	}
}

func TestChildrenSourceOrder(t *testing.T) {
	src := "x = f(a, k=b)[1:2]\n"
	mod, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	var texts []string
	Walk(mod.Body[0], func(n Node) bool {
		if _, ok := n.(*Name); ok {
			texts = append(texts, n.Span().Text(src))
		}
		return true
	})
	want := []string{"x", "f", "a", "b"}
	if len(texts) != len(want) {
		t.Fatalf("names = %v, want %v", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, texts[i], want[i])
		}
	}
}

func TestLineHelpers(t *testing.T) {
	src := "a = 1\n\n\n# c\nb = 2  # d\n"
	c := len("a = 1\n\n\n")
	if got := LinesBefore(src, c); got != 3 {
		t.Errorf("LinesBefore = %d, want 3", got)
	}
	if got := LinesAfter(src, len("a = 1")); got != 3 {
		t.Errorf("LinesAfter = %d, want 3", got)
	}
	if !IsOwnLine(src, c) {
		t.Error("IsOwnLine(# c) = false, want true")
	}
	d := len(src) - len("# d\n")
	if IsOwnLine(src, d) {
		t.Error("IsOwnLine(# d) = true, want false")
	}
	if line, col := LineCol(src, d); line != 5 || col != 8 {
		t.Errorf("LineCol = %d:%d, want 5:8", line, col)
	}
}
