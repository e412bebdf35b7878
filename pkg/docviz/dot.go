package docviz

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pyfmt/pkg/doc"
)

// fills colors the node kinds that steer layout; everything else is white.
var fills = map[string]string{
	"group":         "lightblue",
	"best_fit":      "gold",
	"if_breaks":     "lightyellow",
	"line_suffix":   "lightgrey",
	"expand_parent": "salmon",
	"mark":          "palegreen",
}

// ToDOT converts a document tree to Graphviz DOT, top to bottom, with one
// box per node and edges from parent to child in document order.
func ToDOT(root *doc.Node) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Doc {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=12];\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("\n")

	var edges []string
	next := 0
	var walk func(n *doc.Node) string
	walk = func(n *doc.Node) string {
		id := "n" + strconv.Itoa(next)
		next++
		fmt.Fprintf(&buf, "  %s [%s];\n", id, strings.Join(nodeAttrs(n), ", "))
		for _, c := range n.Children {
			edges = append(edges, fmt.Sprintf("  %s -> %s;\n", id, walk(c)))
		}
		return id
	}
	walk(root)

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *doc.Node) []string {
	attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n))}
	if fill, ok := fills[n.Kind]; ok {
		attrs = append(attrs, "fillcolor="+fill)
	}
	if n.Attrs["expand"] == "true" {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

func nodeLabel(n *doc.Node) string {
	label := n.Kind
	if n.Kind == "text" {
		label = strconv.Quote(n.Text)
	}
	for _, k := range slices.Sorted(maps.Keys(n.Attrs)) {
		label += fmt.Sprintf("\n%s: %s", k, n.Attrs[k])
	}
	return label
}

// RenderSVG lays out a DOT graph with the embedded Graphviz engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the point-sized root element with one whose
// width and height match the view box, so browsers scale it predictably.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
