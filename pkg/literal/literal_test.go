package literal

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		opts Options
		want string
	}{
		{"single to double", `'abc'`, Options{}, `"abc"`},
		{"double stays", `"abc"`, Options{}, `"abc"`},
		{"double to single", `"abc"`, Options{Preferred: Single}, `'abc'`},
		{"preserve style", `'abc'`, Options{Preferred: Preserve}, `'abc'`},
		{"preserve flag", `'abc'`, Options{PreserveQuotes: true}, `'abc'`},
		{"unescape other quote", `'it\'s'`, Options{}, `"it's"`},
		{"fewer escapes beat preference", `'it\'s'`, Options{Preferred: Single}, `"it's"`},
		{"keep when preferred dominates", `'say "hi"'`, Options{}, `'say "hi"'`},
		{"tie switches and escapes", `'a"b\'c'`, Options{}, `"a\"b'c"`},
		{"escaped backslash kept", `'a\\'`, Options{}, `"a\\"`},
		{"raw with preferred quote kept", `r'a"b'`, Options{}, `r'a"b'`},
		{"raw without preferred quote", `r'a\d'`, Options{}, `r"a\d"`},
		{"prefix u dropped", `u'abc'`, Options{}, `"abc"`},
		{"prefix lowercased", `B'abc'`, Options{}, `b"abc"`},
		{"prefix R kept", `R'abc'`, Options{}, `R"abc"`},
		{"f-string", `F'{x}'`, Options{}, `f"{x}"`},
		{"f-string with quoted field", `f'{x["k"]}'`, Options{}, `f'{x["k"]}'`},
		{"triple switches", `'''abc'''`, Options{}, `"""abc"""`},
		{"triple with run of preferred", `'''a"""b'''`, Options{}, `'''a"""b'''`},
		{"triple ending with preferred", `'''say "hi"'''`, Options{}, `'''say "hi"'''`},
		{"triple with escaped terminator run", `'''contains a \'\'\' terminator-like run'''`, Options{}, `'''contains a \'\'\' terminator-like run'''`},
		{"triple with two preferred quotes", `'''a""b'''`, Options{}, `"""a""b"""`},
		{"triple line endings", "'''a\r\nb'''", Options{}, "\"\"\"a\nb\"\"\""},
		{"empty", `''`, Options{}, `""`},
		{"empty triple", `''''''`, Options{}, `""""""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw, tt.opts)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if got.Text != tt.want {
				t.Errorf("Normalize(%s) = %s, want %s", tt.raw, got.Text, tt.want)
			}
		})
	}
}

func TestNormalizeFlags(t *testing.T) {
	tests := []struct {
		raw           string
		wantMultiline bool
		wantTriple    bool
	}{
		{`'abc'`, false, false},
		{`'''abc'''`, false, true},
		{"'''a\nb'''", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			n, err := Normalize(tt.raw, Options{})
			if err != nil {
				t.Fatal(err)
			}
			if n.IsMultiline != tt.wantMultiline {
				t.Errorf("IsMultiline = %v, want %v", n.IsMultiline, tt.wantMultiline)
			}
			if n.IsAtomic == tt.wantMultiline {
				t.Errorf("IsAtomic = %v, want %v", n.IsAtomic, !tt.wantMultiline)
			}
			if n.Quotes.Triple != tt.wantTriple {
				t.Errorf("Quotes.Triple = %v, want %v", n.Quotes.Triple, tt.wantTriple)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{`'it\'s'`, `'a"b\'c'`, `r'a"b'`, `'''x\'\'\'y'''`, `b'\x00'`, `f'{a}b'`}
	for _, style := range []QuoteStyle{Double, Single} {
		for _, raw := range inputs {
			once, err := Normalize(raw, Options{Preferred: style})
			if err != nil {
				t.Fatal(err)
			}
			twice, err := Normalize(once.Text, Options{Preferred: style})
			if err != nil {
				t.Fatal(err)
			}
			if once.Text != twice.Text {
				t.Errorf("%s/%s: %s then %s", style, raw, once.Text, twice.Text)
			}
		}
	}
}

func TestNormalizeErrors(t *testing.T) {
	for _, raw := range []string{"abc", `'abc`, `rbf'x'`} {
		if _, err := Normalize(raw, Options{}); err == nil {
			t.Errorf("Normalize(%q) error = nil, want error", raw)
		}
	}
}

func TestFieldsContainQuotes(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`f'{x}'`, false},
		{`f'{x["k"]}'`, true},
		{`f'{{"literal"}}'`, false},
		{`f'"quoted" {x}'`, false},
		{`'{x["k"]}'`, false},
	}

	for _, tt := range tests {
		if got := FieldsContainQuotes(tt.raw); got != tt.want {
			t.Errorf("FieldsContainQuotes(%s) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestIsMultiline(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`"abc"`, false},
		{`"""abc"""`, false},
		{"\"\"\"a\nb\"\"\"", true},
		{"rb'''a\nb'''", true},
	}

	for _, tt := range tests {
		if got := IsMultiline(tt.raw); got != tt.want {
			t.Errorf("IsMultiline(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseQuoteStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    QuoteStyle
		wantErr bool
	}{
		{"double", Double, false},
		{"Single", Single, false},
		{"preserve", Preserve, false},
		{"backtick", Double, true},
		{"", Double, true},
	}

	for _, tt := range tests {
		got, err := ParseQuoteStyle(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseQuoteStyle(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseQuoteStyle(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
