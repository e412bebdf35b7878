package format

import (
	"fmt"
	"testing"

	"github.com/matzehuels/pyfmt/pkg/errors"
	"github.com/matzehuels/pyfmt/pkg/literal"
	"github.com/matzehuels/pyfmt/pkg/syntax"
)

func withWidth(w int) Options {
	opts := DefaultOptions()
	opts.LineWidth = w
	return opts
}

// formatCase formats src and checks that formatting the output again is a
// no-op.
func formatCase(t *testing.T, src string, opts Options) string {
	t.Helper()
	got, err := FormatSource(src, opts)
	if err != nil {
		t.Fatalf("FormatSource() error = %v", err)
	}
	again, err := FormatSource(got, opts)
	if err != nil {
		t.Fatalf("FormatSource(output) error = %v\noutput:\n%s", err, got)
	}
	if again != got {
		t.Errorf("not idempotent:\nfirst:\n%s\nsecond:\n%s", got, again)
	}
	return got
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts Options
		want string
	}{
		{"empty", "", DefaultOptions(), ""},
		{"blank lines only", "\n\n", DefaultOptions(), ""},
		{"chained targets", "x = y = z\n", DefaultOptions(), "x = y = z\n"},
		{"spacing", "x=1\n", DefaultOptions(), "x = 1\n"},
		{"missing final newline", "x = 1", DefaultOptions(), "x = 1\n"},
		{"augmented", "x  +=  1\n", DefaultOptions(), "x += 1\n"},
		{"annotated", "x:int=1\n", DefaultOptions(), "x: int = 1\n"},
		{"bare annotation", "x:int\n", DefaultOptions(), "x: int\n"},
		{"pass", "pass\n", DefaultOptions(), "pass\n"},
		{"return", "return  (x)\n", DefaultOptions(), "return x\n"},
		{"bare return", "return\n", DefaultOptions(), "return\n"},
		{"del", "del a,b\n", DefaultOptions(), "del a, b\n"},
		{"redundant value parens", "x = ((y))\n", DefaultOptions(), "x = y\n"},
		{"inner parens kept", "x = a * (b + c)\n", DefaultOptions(), "x = a * (b + c)\n"},
		{"quotes", "x = 'a'\n", DefaultOptions(), "x = \"a\"\n"},
		{"numbers", "x = 0XFF + 1E5 + 10J\n", DefaultOptions(), "x = 0xFF + 1e5 + 10j\n"},
		{"not", "x = not  a\n", DefaultOptions(), "x = not a\n"},
		{"unary", "x = - a\n", DefaultOptions(), "x = -a\n"},
		{"compare", "x = a<b is not c\n", DefaultOptions(), "x = a < b is not c\n"},
		{"simple power", "x = a ** 2 + b ** c.d\n", DefaultOptions(), "x = a**2 + b**c.d\n"},
		{"complex power", "x = a ** f(b)\n", DefaultOptions(), "x = a ** f(b)\n"},
		{"dict", "d = {'a':1, **b}\n", DefaultOptions(), "d = {\"a\": 1, **b}\n"},
		{"set", "s = {1,2}\n", DefaultOptions(), "s = {1, 2}\n"},
		{"empty brackets", "x = [], {}, ()\n", DefaultOptions(), "x = [], {}, ()\n"},
		{"keywords", "f(a = 1, *b, **c)\n", DefaultOptions(), "f(a=1, *b, **c)\n"},
		{"single tuple", "x = (1,)\n", DefaultOptions(), "x = (1,)\n"},
		{"bare tuple", "x = 1 , 2\n", DefaultOptions(), "x = 1, 2\n"},
		{"tuple target", "a,b = b,a\n", DefaultOptions(), "a, b = b, a\n"},
		{"subscript tuple", "x = a[1:2, ::3]\n", DefaultOptions(), "x = a[1:2, ::3]\n"},
		{"complex slice", "x = a[i+1:]\n", DefaultOptions(), "x = a[i + 1 :]\n"},
		{"complex slice both", "x = a[lo+1:hi-1]\n", DefaultOptions(), "x = a[lo + 1 : hi - 1]\n"},
		{"attribute of int", "x = 1 .real\n", DefaultOptions(), "x = (1).real\n"},
		{"blank lines capped", "x = 1\n\n\n\n\ny = 2\n", DefaultOptions(), "x = 1\n\n\ny = 2\n"},
		{"blank line kept", "x = 1\n\ny = 2\n", DefaultOptions(), "x = 1\n\ny = 2\n"},
		{
			"docstring quote preference",
			"'doc'\nx = \"a\"\n",
			Options{LineWidth: 88, IndentWidth: 4, QuoteStyle: literal.Single, DocstringQuoteStyle: literal.Double},
			"\"doc\"\nx = 'a'\n",
		},
		{
			"implicit concatenation fits",
			"x = 'aaaa' 'bbbb'\n",
			DefaultOptions(),
			"x = \"aaaa\" \"bbbb\"\n",
		},
		{
			"implicit concatenation breaks",
			"x = 'aaaaaaaaaa' 'bbbbbbbbbb'\n",
			withWidth(20),
			"x = (\n    \"aaaaaaaaaa\"\n    \"bbbbbbbbbb\"\n)\n",
		},
		{
			"triple quoted kept",
			"x = '''a\n  b'''\n",
			DefaultOptions(),
			"x = \"\"\"a\n  b\"\"\"\n",
		},
		{
			"triple quoted argument hugs",
			"f('''a\nb''')\n",
			DefaultOptions(),
			"f(\"\"\"a\nb\"\"\")\n",
		},
		{
			"list breaks",
			"x = [aaaaaa, bbbbbb, cccccc]\n",
			withWidth(20),
			"x = [\n    aaaaaa,\n    bbbbbb,\n    cccccc,\n]\n",
		},
		{
			"binary parenthesized when it expands",
			"xxxx = aaaaa + bbbbbbb\n",
			withWidth(20),
			"xxxx = (\n    aaaaa + bbbbbbb\n)\n",
		},
		{
			"binary breaks before operators",
			"x = aaaaaaaa + bbbbbbbbbb - cc\n",
			withWidth(20),
			"x = (\n    aaaaaaaa\n    + bbbbbbbbbb\n    - cc\n)\n",
		},
		{
			"magic trailing comma",
			"foo(a, b,)\n",
			DefaultOptions(),
			"foo(\n    a,\n    b,\n)\n",
		},
		{
			"magic trailing comma ignored",
			"foo(a, b,)\n",
			Options{LineWidth: 88, IndentWidth: 4, MagicTrailingComma: Ignore},
			"foo(a, b)\n",
		},
		{
			"bare tuple with magic comma",
			"x = 1, 2,\n",
			DefaultOptions(),
			"x = (\n    1,\n    2,\n)\n",
		},
		{
			"subscript single index has no comma",
			"x = aaaa[bbbbbbbbbbbbbbbbbb]\n",
			withWidth(20),
			"x = aaaa[\n    bbbbbbbbbbbbbbbbbb\n]\n",
		},
		{
			"indent width",
			"x = [aaaaaa, bbbbbb, cccccc]\n",
			Options{LineWidth: 20, IndentWidth: 2},
			"x = [\n  aaaaaa,\n  bbbbbb,\n  cccccc,\n]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatCase(t, tt.src, tt.opts); got != tt.want {
				t.Errorf("FormatSource() =\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

// The worked scenarios of the layout engine.
func TestAssignmentScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts Options
		want string
	}{
		{
			"long string is parenthesized",
			"x = \"a very long string that will not fit within an eighty eight column limit at all\"\n",
			withWidth(80),
			"x = (\n    \"a very long string that will not fit within an eighty eight column limit at all\"\n)\n",
		},
		{
			"short chain stays flat",
			"x = y = z\n",
			DefaultOptions(),
			"x = y = z\n",
		},
		{
			"call arguments expand",
			"obj.attr = some_call(argument_one, argument_two_that_is_long_enough_to_overflow)\n",
			withWidth(60),
			"obj.attr = some_call(\n    argument_one,\n    argument_two_that_is_long_enough_to_overflow,\n)\n",
		},
		{
			"triple quote run keeps quotes",
			"x = '''contains a \\'\\'\\' terminator-like run'''\n",
			DefaultOptions(),
			"x = '''contains a \\'\\'\\' terminator-like run'''\n",
		},
		{
			"own-line comment keeps parentheses",
			"x = (\n    1\n    # keep\n)\n",
			DefaultOptions(),
			"x = (\n    1\n    # keep\n)\n",
		},
		{
			"long call head is parenthesized",
			"result = a_very_long_function_name_here(x)\n",
			withWidth(38),
			"result = (\n    a_very_long_function_name_here(x)\n)\n",
		},
		{
			"self-inserted comma does not change the layout",
			"aaaa, bbbb, cccc = function_call(argument)[subscript_index].attribute_name.method()\n",
			withWidth(33),
			"aaaa, bbbb, cccc = function_call(\n    argument,\n)[\n    subscript_index\n].attribute_name.method()\n",
		},
		{
			"flat when it fits",
			"value = compute(a, b)\n",
			withWidth(21),
			"value = compute(a, b)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatCase(t, tt.src, tt.opts); got != tt.want {
				t.Errorf("FormatSource() =\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

// Formatting is idempotent at every width, including widths where the first
// pass adds a trailing comma that the second pass reads as magic.
func TestFormatIdempotentAcrossWidths(t *testing.T) {
	sources := []string{
		"aaaa, bbbb, cccc = function_call(argument)[subscript_index].attribute_name.method()\n",
		"obj.attr = some_call(argument_one, argument_two_that_is_long_enough_to_overflow)\n",
		"x = aaaaaaaa + bbbbbbbbbb - cc\n",
		"values = [alpha, beta, gamma, delta]\n",
		"result = a_very_long_function_name_here(x)\n",
		"x = \"a string that is moderately long\"\n",
		"return first.second.third(argument)\n",
		"config = {\"key\": make_value(first, second), \"other\": [1, 2, 3]}\n",
	}

	for _, src := range sources {
		for w := 10; w <= 100; w++ {
			t.Run(fmt.Sprintf("%d/%s", w, src), func(t *testing.T) {
				formatCase(t, src, withWidth(w))
			})
		}
	}
}

// An end-of-line comment counts toward the width of the line it ends.
func TestInlineCommentFitBoundary(t *testing.T) {
	src := "x = \"aaaaaaa\"  # cmt\n" // exactly 20 columns

	if got := formatCase(t, src, withWidth(20)); got != src {
		t.Errorf("width 20: got\n%s\nwant\n%s", got, src)
	}

	want := "x = (\n    \"aaaaaaa\"  # cmt\n)\n"
	if got := formatCase(t, src, withWidth(19)); got != want {
		t.Errorf("width 19: got\n%s\nwant\n%s", got, want)
	}
}

func TestFormatLineEnding(t *testing.T) {
	tests := []struct {
		name string
		src  string
		le   LineEnding
		want string
	}{
		{"lf", "x=1\r\ny=2\r\n", LF, "x = 1\ny = 2\n"},
		{"crlf", "x=1\ny=2\n", CRLF, "x = 1\r\ny = 2\r\n"},
		{"auto crlf", "x=1\r\ny=2\r\n", Auto, "x = 1\r\ny = 2\r\n"},
		{"auto lf", "x=1\ny=2\n", Auto, "x = 1\ny = 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.LineEnding = tt.le
			got, err := FormatSource(tt.src, opts)
			if err != nil {
				t.Fatalf("FormatSource() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FormatSource() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatErrors(t *testing.T) {
	t.Run("parse error", func(t *testing.T) {
		_, err := FormatSource("x = (\n", DefaultOptions())
		if !errors.Is(err, errors.ErrCodeParse) {
			t.Errorf("error = %v, want %s", err, errors.ErrCodeParse)
		}
	})

	t.Run("invalid option", func(t *testing.T) {
		_, err := FormatSource("x = 1\n", withWidth(0))
		if !errors.Is(err, errors.ErrCodeInvalidOption) {
			t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidOption)
		}
	})

	t.Run("assignment without targets", func(t *testing.T) {
		mod := &syntax.Module{Body: []syntax.Stmt{&syntax.AssignStmt{Value: &syntax.Name{ID: "x"}}}}
		_, err := Format(mod, "x\n", DefaultOptions())
		if !errors.Is(err, errors.ErrCodeSyntaxShape) {
			t.Errorf("error = %v, want %s", err, errors.ErrCodeSyntaxShape)
		}
	})
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", DefaultOptions(), false},
		{"zero width", Options{LineWidth: 0, IndentWidth: 4}, true},
		{"huge width", Options{LineWidth: MaxLineWidth + 1, IndentWidth: 4}, true},
		{"zero indent", Options{LineWidth: 88}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseOptionValues(t *testing.T) {
	if m, err := ParseMagicTrailingComma("IGNORE"); err != nil || m != Ignore {
		t.Errorf("ParseMagicTrailingComma(IGNORE) = %v, %v", m, err)
	}
	if _, err := ParseMagicTrailingComma("sometimes"); !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("ParseMagicTrailingComma(sometimes) error = %v", err)
	}
	if le, err := ParseLineEnding("crlf"); err != nil || le != CRLF {
		t.Errorf("ParseLineEnding(crlf) = %v, %v", le, err)
	}
	var le LineEnding
	if err := le.UnmarshalText([]byte("auto")); err != nil || le != Auto {
		t.Errorf("UnmarshalText(auto) = %v, %v", le, err)
	}
}
