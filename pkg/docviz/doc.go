// Package docviz exports formatter documents for inspection.
//
// # Overview
//
// The formatter builds a document (see [github.com/matzehuels/pyfmt/pkg/doc])
// before it renders any text. When a layout decision looks wrong, the
// document is the place to look: which groups exist, which ones carry an
// expand flag and which candidates a best-fit node chose between.
//
// # Formats
//
//   - [FormatText]: the indented listing of [doc.Dump]
//   - [FormatYAML]: the [doc.Node] tree encoded with gopkg.in/yaml.v3
//   - [FormatDOT]: a Graphviz digraph, one box per node
//   - [FormatSVG]: the DOT graph laid out in process with go-graphviz
//
// # Usage
//
//	d, err := format.Build(mod, src, opts)
//	if err != nil {
//		return err
//	}
//	out, err := docviz.Export(ctx, d.Doc, d.IDs, docviz.FormatSVG)
package docviz
