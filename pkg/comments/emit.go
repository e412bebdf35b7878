package comments

import "github.com/matzehuels/pyfmt/pkg/doc"

// Doc returns the comment text preceded by its commit mark.
func (c *Comment) Doc() doc.Doc {
	return doc.Concat{doc.Mark{ID: c.ID}, doc.Text(c.Text)}
}

// blankLines returns the empty lines to print for n line breaks, capped at
// max.
func blankLines(n, max int) doc.Doc {
	n = min(n-1, max)
	if n <= 0 {
		return nil
	}
	out := make(doc.Concat, n)
	for i := range out {
		out[i] = doc.EmptyLine
	}
	return out
}

// LeadingDocs prints cs each on its own line, followed by a line break.
// Blank lines after a comment are kept up to maxBlank.
func LeadingDocs(cs []*Comment, maxBlank int) doc.Doc {
	if len(cs) == 0 {
		return nil
	}
	out := make(doc.Concat, 0, 3*len(cs))
	for _, c := range cs {
		out = append(out, c.Doc(), doc.HardLine)
		if b := blankLines(c.LinesAfter, maxBlank); b != nil {
			out = append(out, b)
		}
	}
	return out
}

// TrailingDocs prints cs after the node they trail. End-of-line comments
// become line suffixes that force the enclosing group to break; own-line
// comments start a new line, keeping up to maxBlank blank lines before them.
func TrailingDocs(cs []*Comment, maxBlank int) doc.Doc {
	if len(cs) == 0 {
		return nil
	}
	out := make(doc.Concat, 0, 2*len(cs))
	for _, c := range cs {
		if c.Line == EndOfLine {
			out = append(out, Suffix(c), doc.ExpandParent{})
			continue
		}
		out = append(out, doc.HardLine)
		if b := blankLines(c.LinesBefore, maxBlank); b != nil {
			out = append(out, b)
		}
		out = append(out, c.Doc())
	}
	return out
}

// Suffix prints an end-of-line comment two spaces after the code it
// follows. Its width is reserved so that the code line still has to fit
// with the comment.
func Suffix(c *Comment) doc.Doc {
	return doc.LineSuffix{
		Contents: doc.Concat{doc.Text("  "), c.Doc()},
		Reserved: 2 + doc.Width(c.Text),
	}
}

// Suffixes prints every comment of cs as a line suffix.
func Suffixes(cs []*Comment) doc.Doc {
	if len(cs) == 0 {
		return nil
	}
	out := make(doc.Concat, 0, len(cs))
	for _, c := range cs {
		out = append(out, Suffix(c))
	}
	return out
}

// DanglingDocs prints comments that sit inside an empty bracket pair. The
// result goes between the brackets: the first end-of-line comment stays on
// the opening line, the others are indented on their own lines.
func DanglingDocs(cs []*Comment) doc.Doc {
	if len(cs) == 0 {
		return nil
	}
	var out doc.Concat
	var body doc.Concat
	for _, c := range cs {
		if c.Line == EndOfLine && len(body) == 0 {
			out = append(out, Suffix(c))
			continue
		}
		body = append(body, doc.HardLine, c.Doc())
	}
	if len(body) > 0 {
		out = append(out, doc.Indent{Contents: body})
	}
	return append(out, doc.HardLine)
}
