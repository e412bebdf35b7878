package format

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/pyfmt/pkg/syntax"
)

func TestFormatComments(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "list with comments is stable",
			src:  "x = [  # open\n    1,  # one\n    # before two\n    2,\n    # end\n]\n",
			want: "x = [  # open\n    1,  # one\n    # before two\n    2,\n    # end\n]\n",
		},
		{
			name: "opening comment keeps parentheses",
			src:  "x = (  # c\n    a + b\n)\n",
			want: "x = (  # c\n    a + b\n)\n",
		},
		{
			name: "leading and trailing",
			src:  "#a\nx=1 #b\n",
			want: "# a\nx = 1  # b\n",
		},
		{
			name: "blank line before comment",
			src:  "x = 1\n\n# about y\ny = 2\n",
			want: "x = 1\n\n# about y\ny = 2\n",
		},
		{
			name: "trailing module comment",
			src:  "x = 1\n\n# trailing\n",
			want: "x = 1\n\n# trailing\n",
		},
		{
			name: "comment only module",
			src:  "# only\n",
			want: "# only\n",
		},
		{
			name: "blank lines between comments are capped",
			src:  "# a\n\n\n\n# b\n",
			want: "# a\n\n\n# b\n",
		},
		{
			name: "dangling call comment",
			src:  "f(  # c\n)\n",
			want: "f(  # c\n)\n",
		},
		{
			name: "dangling call comment as value",
			src:  "x = f(  # c\n)\n",
			want: "x = f(  # c\n)\n",
		},
		{
			name: "comment on simple value moves inline",
			src:  "x = (\n    a  # c\n)\n",
			want: "x = a  # c\n",
		},
		{
			name: "comment between concatenated strings",
			src:  "x = (\n    'a'  # c\n    'b'\n)\n",
			want: "x = (\n    \"a\"  # c\n    \"b\"\n)\n",
		},
		{
			name: "comment after magic trailing comma list",
			src:  "x = [\n    1,\n    2,\n]  # c\n",
			want: "x = [\n    1,\n    2,\n]  # c\n",
		},
		{
			name: "dict item comment",
			src:  "d = {\n    'k': v,  # c\n}\n",
			want: "d = {\n    \"k\": v,  # c\n}\n",
		},
		{
			name: "subscript tuple comment",
			src:  "x = a[\n    1,  # c\n    2,\n]\n",
			want: "x = a[\n    1,  # c\n    2,\n]\n",
		},
		{
			name: "commented target",
			src:  "(\n    # c\n    x\n) = 1\n",
			want: "(\n    # c\n    x\n) = 1\n",
		},
		{
			name: "own-line comment in attribute chain keeps parentheses",
			src:  "x = (\n    obj\n    # own\n    .attr\n)\n",
			want: "x = (\n    obj\n    # own\n    .attr\n)\n",
		},
		{
			name: "own-line comment before operator",
			src:  "x = (\n    a\n    # own\n    + b\n)\n",
			want: "x = (\n    a\n    # own\n    + b\n)\n",
		},
		{
			name: "own-line comment after keyword",
			src:  "f(\n    k=\n    # own\n    v,\n)\n",
			want: "f(\n    # own\n    k=v,\n)\n",
		},
		{
			name: "own-line comment after dict key",
			src:  "d = {\n    k:\n    # own\n    v,\n}\n",
			want: "d = {\n    # own\n    k: v,\n}\n",
		},
		{
			name: "own-line comment after star",
			src:  "f(\n    *\n    # own\n    args,\n)\n",
			want: "f(\n    # own\n    *args,\n)\n",
		},
		{
			name: "own-line comment after unary operator",
			src:  "x = (\n    -\n    # own\n    a\n)\n",
			want: "x = (\n    # own\n    -a\n)\n",
		},
		{
			name: "own-line comment after slice colon",
			src:  "x = a[\n    lo:\n    # own\n    hi\n]\n",
			want: "x = a[\n    # own\n    lo:hi\n]\n",
		},
		{
			name: "comment after not moves to line end",
			src:  "x = (\n    not  # eol\n    a\n)\n",
			want: "x = not a  # eol\n",
		},
		{
			name: "comment after minus moves to line end",
			src:  "x = (\n    -  # eol\n    a\n)\n",
			want: "x = -a  # eol\n",
		},
		{
			name: "comment after power operand keeps spacing",
			src:  "x = (\n    a  # eol\n    ** b\n)\n",
			want: "x = (\n    a  # eol\n    ** b\n)\n",
		},
		{
			name: "comment longer than the line stays inline",
			src:  "x = 1  # " + strings.Repeat("long", 30) + "\n",
			want: "x = 1  # " + strings.Repeat("long", 30) + "\n",
		},
		{
			name: "shebang and pragma untouched",
			src:  "#!/usr/bin/env python\n#: doc\nx = 1\n",
			want: "#!/usr/bin/env python\n#: doc\nx = 1\n",
		},
		{
			name: "fmt skip is verbatim",
			src:  "x  =  [1,2]  # fmt: skip\n",
			want: "x  =  [1,2]  # fmt: skip\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatCase(t, tt.src, DefaultOptions())
			if got != tt.want {
				t.Errorf("FormatSource() =\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

// commentWords reduces every comment in src to its text after the hash so
// that spacing normalization does not count as a difference.
func commentWords(t *testing.T, src string) []string {
	t.Helper()
	_, cs, err := syntax.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	words := make([]string, 0, len(cs))
	for _, c := range cs {
		words = append(words, strings.TrimSpace(strings.TrimPrefix(c.Text, "#")))
	}
	return words
}

func TestFormatConservesComments(t *testing.T) {
	sources := []string{
		"#a\nx=1 #b\n#c\n",
		"x = [  # open\n    1,  # one\n    # two\n    2\n    # end\n]\n",
		"call(a,  # first\n     b)  # last\n",
		"x = {  # d\n    'k':  # key\n        v,\n}\n",
		"z = (a  # left\n     + b)  # right\n",
		"return (  # r\n    x\n)\n",
		"t: (  # ann\n    int\n) = 1\n",
		"w = ('a'  # one\n     'b'  # two\n     'c')\n",
		"# header\n\n\n\n\nx = 1\n\n\n\n# footer\n",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			got := formatCase(t, src, withWidth(40))
			want := commentWords(t, src)
			have := commentWords(t, got)
			if len(have) != len(want) {
				t.Fatalf("comment count = %d, want %d\noutput:\n%s", len(have), len(want), got)
			}
			for i := range want {
				if have[i] != want[i] {
					t.Errorf("comment %d = %q, want %q", i, have[i], want[i])
				}
			}
		})
	}
}

// Every line of a multi-line expression takes an end-of-line comment and
// an own-line comment after it; the output keeps the comments and parses.
func TestFormatCommentsEverywhere(t *testing.T) {
	forms := map[string]string{
		"operator chain":  "x = (\n    a\n    + b\n    - c\n)\n",
		"power":           "x = (\n    a\n    ** b\n)\n",
		"attribute chain": "x = (\n    obj\n    .attr\n    .method(arg)\n)\n",
		"keyword":         "f(\n    key=\n    value,\n    other=1,\n)\n",
		"dict item":       "d = {\n    key:\n    value,\n}\n",
		"unary":           "x = (\n    not\n    a\n)\n",
		"starred":         "f(\n    *\n    args,\n)\n",
		"slice":           "x = a[\n    lo:\n    hi\n]\n",
	}

	for kind, form := range forms {
		lines := strings.SplitAfter(strings.TrimSuffix(form, "\n"), "\n")
		for i := range lines {
			eol := slices.Clone(lines)
			eol[i] = strings.TrimSuffix(eol[i], "\n") + "  # c"
			if i < len(lines)-1 {
				eol[i] += "\n"
			}
			own := slices.Insert(slices.Clone(lines), i+1, "\n# c")
			if i < len(lines)-1 {
				own[i+1] = "    # c\n"
			}

			for name, src := range map[string]string{"eol": strings.Join(eol, "") + "\n", "own line": strings.Join(own, "") + "\n"} {
				t.Run(fmt.Sprintf("%s/%s/line %d", kind, name, i+1), func(t *testing.T) {
					got := formatCase(t, src, withWidth(40))
					if _, err := syntax.Parse(got); err != nil {
						t.Fatalf("output does not parse: %v\n%s", err, got)
					}
					if have, want := len(commentWords(t, got)), len(commentWords(t, src)); have != want {
						t.Errorf("comment count = %d, want %d\nsource:\n%s\noutput:\n%s", have, want, src, got)
					}
				})
			}
		}
	}
}
