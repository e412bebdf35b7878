package doc

import (
	"slices"
	"testing"
)

func list(items ...string) *Group {
	docs := make([]Doc, len(items))
	for i, it := range items {
		docs[i] = Text(it)
	}
	return Bracketed("[", Concat{Join(Concat{Text(","), SoftLineOrSpace}, docs), IfBreaks{Broken: Text(",")}}, "]")
}

func render(t *testing.T, d Doc, width int) string {
	t.Helper()
	out, err := Render(d, Options{Width: width})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return out
}

func TestRenderGroups(t *testing.T) {
	tests := []struct {
		name  string
		doc   Doc
		width int
		want  string
	}{
		{"fits exactly", list("aaa", "bbb"), 10, "[aaa, bbb]"},
		{"one column short", list("aaa", "bbb"), 9, "[\n    aaa,\n    bbb,\n]"},
		{
			"hard line breaks group",
			NewGroup(Text("a"), SoftLineOrSpace, Text("b"), HardLine, Text("c")),
			80,
			"a\nb\nc",
		},
		{
			"expanded group",
			&Group{Contents: Concat{Text("a"), SoftLineOrSpace, Text("b")}, Expand: true},
			80,
			"a\nb",
		},
		{
			"inner group fits after outer breaks",
			Bracketed("(", Concat{list("a", "b"), Text(","), SoftLineOrSpace, Text("cccccccccccc")}, ")"),
			20,
			"(\n    [a, b],\n    cccccccccccc\n)",
		},
		{
			"lookahead counts closing text",
			Concat{list("aaa", "bbb"), Text(")")},
			10,
			"[\n    aaa,\n    bbb,\n])",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(t, tt.doc, tt.width); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderIfBreaksByID(t *testing.T) {
	var ids IDs
	id := ids.New("value")
	d := Concat{
		&Group{ID: id, Contents: Concat{Text("aaaa"), SoftLine, Text("bbbb")}},
		IfBreaks{Group: id, Broken: Text("!"), Flat: Text("?")},
	}
	if got := render(t, d, 20); got != "aaaabbbb?" {
		t.Errorf("wide = %q, want %q", got, "aaaabbbb?")
	}
	if got := render(t, d, 5); got != "aaaa\nbbbb!" {
		t.Errorf("narrow = %q, want %q", got, "aaaa\nbbbb!")
	}
}

func TestRenderIfBreaksUnknownGroup(t *testing.T) {
	_, err := Render(IfBreaks{Group: 7, Broken: Text("x")}, Options{})
	if err == nil {
		t.Fatal("Render() error = nil, want error for undecided group")
	}
}

func TestRenderLineSuffix(t *testing.T) {
	tests := []struct {
		name  string
		doc   Doc
		width int
		want  string
	}{
		{
			"flushed before newline",
			Concat{Text("x = 1"), LineSuffix{Contents: Text("  # c"), Reserved: 5}, HardLine, Text("y")},
			80,
			"x = 1  # c\ny",
		},
		{
			"flushed at end",
			Concat{Text("a"), LineSuffix{Contents: Text("  # c")}},
			80,
			"a  # c",
		},
		{
			"reserved width breaks group",
			Concat{list("aaa", "bbb"), LineSuffix{Contents: Text("  # c"), Reserved: 5}},
			12,
			"[\n    aaa,\n    bbb,\n]  # c",
		},
		{
			"suffix wider than the line reserves nothing",
			Concat{list("aaa", "bbb"), LineSuffix{Contents: Text("  # a comment longer than the line"), Reserved: 34}},
			12,
			"[aaa, bbb]  # a comment longer than the line",
		},
		{
			"suffix inside broken group",
			Concat{Bracketed("[", Concat{Text("a"), LineSuffix{Contents: Text("  # c"), Reserved: 5}, ExpandParent{}}, "]")},
			80,
			"[\n    a  # c\n]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(t, tt.doc, tt.width); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderLines(t *testing.T) {
	tests := []struct {
		name string
		doc  Doc
		want string
	}{
		{"empty line", Concat{Text("a"), EmptyLine, Text("b")}, "a\n\nb"},
		{"two empty lines", Concat{Text("a"), EmptyLine, EmptyLine, Text("b")}, "a\n\n\nb"},
		{"hard then empty", Concat{Text("a"), HardLine, EmptyLine, Text("b")}, "a\n\nb"},
		{
			"literal line keeps column zero",
			Concat{Text("x = ("), Indent{Contents: Concat{HardLine, Text("'''a"), LiteralLine, Text("b'''")}}, HardLine, Text(")")},
			"x = (\n    '''a\nb'''\n)",
		},
		{
			"literal line hugs brackets",
			NewGroup(Text("f("), SoftBlockIndent(Concat{Text("'''a"), LiteralLine, Text("b'''")}), Text(")")),
			"f('''a\nb''')",
		},
		{"blank indented line has no spaces", Concat{Indent{Contents: Concat{Text("a"), HardLine, HardLine, Text("b")}}}, "a\n\n    b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(t, tt.doc, 80); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderBestFit(t *testing.T) {
	flat := Text("aaaaaaaaaa")
	paren := Block("(", Text("aaaaaaaaaa"), ")")
	split := Concat{Text("aaaaa"), HardLine, Text("aaaaa")}

	tests := []struct {
		name     string
		variants []Doc
		width    int
		want     string
	}{
		{"first fits", []Doc{flat, paren, flat}, 10, "aaaaaaaaaa"},
		{"middle fits by first line", []Doc{flat, paren, flat}, 5, "(\n    aaaaaaaaaa\n)"},
		{"fallback is last", []Doc{flat, flat}, 5, "aaaaaaaaaa"},
		{"hard line in flat variant never fits", []Doc{split, flat}, 80, "aaaaaaaaaa"},
		{"empty line in flat variant never fits", []Doc{Concat{Text("a"), EmptyLine, Text("b")}, flat}, 80, "aaaaaaaaaa"},
		{"hard line inside expanded group is measured broken", []Doc{Block("[", split, "]"), flat}, 80, "[\n    aaaaa\n    aaaaa\n]"},
		{"hard line in last variant prints", []Doc{flat, split}, 5, "aaaaa\naaaaa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(t, BestFit{Variants: tt.variants}, tt.width); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderBestFitExpandedGroupMeasuredBroken(t *testing.T) {
	call := Concat{Text("f("), &Group{Contents: Concat{SoftBlockIndent(Text("argument_one")), Text(")")}}}
	variants := []Doc{
		Concat{Text("x = "), call},
		Concat{Text("x = "), &Group{Contents: call, Expand: true}},
		Concat{Text("x = "), Block("(", call, ")")},
	}
	want := "x = f(\n    argument_one\n)"
	if got := render(t, BestFit{Variants: variants}, 12); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestFlatWidth(t *testing.T) {
	tests := []struct {
		name     string
		doc      Doc
		want     int
		wantFlat bool
	}{
		{"text", Text("abc"), 3, true},
		{"group", list("a", "b"), 6, true},
		{"wide runes", Text("日本"), 4, true},
		{"suffix counts reserved width", Concat{Text("x"), LineSuffix{Contents: Text("  # c"), Reserved: 5}}, 6, true},
		{"suffix wider than the line", Concat{Text("x"), LineSuffix{Contents: Text("  # c"), Reserved: 30}}, 1, true},
		{"hard line", Concat{Text("a"), HardLine, Text("b")}, 0, false},
		{"literal line", Concat{Text("'''a"), LiteralLine, Text("b'''")}, 0, false},
		{"expanded group", &Group{Contents: Text("a"), Expand: true}, 0, false},
		{"expand parent", Concat{Text("a"), ExpandParent{}}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, flat := FlatWidth(tt.doc, Options{Width: 20})
			if flat != tt.wantFlat {
				t.Fatalf("FlatWidth() flat = %v, want %v", flat, tt.wantFlat)
			}
			if flat && got != tt.want {
				t.Errorf("FlatWidth() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHasSoftLines(t *testing.T) {
	tests := []struct {
		name string
		doc  Doc
		want bool
	}{
		{"text", Text("a"), false},
		{"group", list("a", "b"), true},
		{"hard line only", Concat{Text("a"), HardLine, Text("b")}, false},
		{"inside suffix", LineSuffix{Contents: Concat{Text("a"), SoftLine}}, false},
		{"broken branch", IfBreaks{Broken: SoftLine}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasSoftLines(tt.doc); got != tt.want {
				t.Errorf("HasSoftLines() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderMarksOnlyPrintedVariant(t *testing.T) {
	var marks []int
	d := BestFit{Variants: []Doc{
		Concat{Mark{ID: 1}, Text("a very long variant")},
		Concat{Mark{ID: 2}, Text("short")},
	}}
	_, err := Render(d, Options{Width: 8, OnMark: func(id int) error {
		marks = append(marks, id)
		return nil
	}})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(marks, []int{2}) {
		t.Errorf("marks = %v, want [2]", marks)
	}
}

func TestWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"abc", 3},
		{"日本", 4},
		{"\u00e9", 1},
		{"e\u0301", 1},
		{"ｶ", 1},
	}

	for _, tt := range tests {
		if got := Width(tt.in); got != tt.want {
			t.Errorf("Width(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRenderWideRunes(t *testing.T) {
	// "[日本, 日本]" is 12 columns but only 8 runes.
	if got := render(t, list("日本", "日本"), 11); got != "[\n    日本,\n    日本,\n]" {
		t.Errorf("Render() = %q", got)
	}
}

func TestWillBreak(t *testing.T) {
	tests := []struct {
		name string
		doc  Doc
		want bool
	}{
		{"hard line", Concat{Text("a"), HardLine}, true},
		{"literal line", Concat{Text("'''a"), LiteralLine, Text("b'''")}, false},
		{"soft line", NewGroup(Text("a"), SoftLine), false},
		{"expanded group", &Group{Expand: true}, true},
		{"expand parent", Indent{Contents: ExpandParent{}}, true},
		{"best fit not inspected", BestFit{Variants: []Doc{HardLine}}, false},
		{"suffix not inspected", LineSuffix{Contents: HardLine}, false},
		{"flat branch", IfBreaks{Flat: HardLine}, true},
		{"broken branch", IfBreaks{Broken: HardLine}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WillBreak(tt.doc); got != tt.want {
				t.Errorf("WillBreak() = %v, want %v", got, tt.want)
			}
		})
	}
}
