package format

import (
	"github.com/matzehuels/pyfmt/pkg/comments"
	"github.com/matzehuels/pyfmt/pkg/doc"
	"github.com/matzehuels/pyfmt/pkg/syntax"
)

// maxBlankInExpr caps blank lines kept around comments inside brackets.
const maxBlankInExpr = 1

// leading prints comments before a node. End-of-line comments can only
// follow an opening bracket; they stay on that line as suffixes.
func (f *formatter) leading(cs []*comments.Comment) doc.Doc {
	if len(cs) == 0 {
		return nil
	}
	eol, own := comments.Split(cs)
	var opening doc.Doc
	if len(eol) > 0 {
		opening = doc.Seq(comments.Suffixes(eol), doc.ExpandParent{})
	}
	return doc.Seq(opening, comments.LeadingDocs(own, maxBlankInExpr))
}

// parenthesize wraps body in parentheses that host the given comments:
// end-of-line comments after the opening parenthesis stay on its line, the
// others go on the indented lines inside.
func (f *formatter) parenthesize(lead []*comments.Comment, body doc.Doc, trail []*comments.Comment) *doc.Group {
	eol, own := comments.Split(lead)
	var opening doc.Doc
	if len(eol) > 0 {
		opening = doc.Seq(comments.Suffixes(eol), doc.ExpandParent{})
	}
	contents := doc.Seq(
		comments.LeadingDocs(own, maxBlankInExpr),
		body,
		comments.TrailingDocs(trail, maxBlankInExpr),
	)
	return &doc.Group{Contents: doc.Seq(doc.Text("("), opening, doc.SoftBlockIndent(contents), doc.Text(")"))}
}

// claim returns the unclaimed leading and trailing comments of n.
func (f *formatter) claim(n syntax.Node) (lead, trail []*comments.Comment) {
	lead = f.fresh(f.cm.Leading(n))
	trail = append(f.fresh(f.cm.Dangling(n)), f.fresh(f.cm.Trailing(n))...)
	return lead, trail
}

// splitAt partitions cs into the comments starting before offset and the
// rest.
func splitAt(cs []*comments.Comment, offset int) (before, after []*comments.Comment) {
	for _, c := range cs {
		if c.Span.Start < offset {
			before = append(before, c)
		} else {
			after = append(after, c)
		}
	}
	return before, after
}
