package docviz

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/pyfmt/pkg/doc"
	"github.com/matzehuels/pyfmt/pkg/errors"
)

func sample() (doc.Doc, *doc.IDs) {
	ids := &doc.IDs{}
	id := ids.New("args")
	return &doc.Group{
		ID:     id,
		Expand: true,
		Contents: doc.Concat{
			doc.Text("f("),
			doc.IfBreaks{Broken: doc.Text(","), Group: id},
			doc.Text(")"),
		},
	}, ids
}

func TestToDOT(t *testing.T) {
	d, ids := sample()
	dot := ToDOT(doc.Tree(d, ids))

	for _, want := range []string{
		"digraph Doc {",
		`n0 [label="group\nexpand: true\nid: 1:args", fillcolor=lightblue, penwidth=2];`,
		`label="\"f(\""`,
		"n0 -> n1;",
		"n1 -> n2;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if got := strings.Count(dot, " -> "); got != 6 {
		t.Errorf("edge count = %d, want 6\n%s", got, dot)
	}
}

func TestToYAML(t *testing.T) {
	d, ids := sample()
	root := doc.Tree(d, ids)
	data, err := ToYAML(root)
	if err != nil {
		t.Fatalf("ToYAML() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "kind: group\n") {
		t.Errorf("ToYAML() =\n%s", data)
	}
	back, err := FromYAML(data)
	if err != nil {
		t.Fatalf("FromYAML() error = %v", err)
	}
	if back.Attrs["id"] != "1:args" || len(back.Children) != 1 {
		t.Errorf("FromYAML() = %+v", back)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{" YAML ", FormatYAML, false},
		{"dot", FormatDOT, false},
		{"svg", FormatSVG, false},
		{"png", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidOption) {
			t.Errorf("ParseFormat(%q) code = %v, want %v", tt.in, errors.GetCode(err), errors.ErrCodeInvalidOption)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExportText(t *testing.T) {
	d, ids := sample()
	got, err := Export(context.Background(), d, ids, FormatText)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if want := doc.Dump(d, ids); string(got) != want {
		t.Errorf("Export(text) = %q, want %q", got, want)
	}
	if _, err := Export(context.Background(), d, ids, Format("png")); err == nil {
		t.Error("Export(png) error = nil, want error")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() without view box = %s", got)
	}
}
