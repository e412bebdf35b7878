package doc

// Shared line values.
var (
	SoftLine        Doc = Line{Kind: Soft}
	SoftLineOrSpace Doc = Line{Kind: SoftSpace}
	HardLine        Doc = Line{Kind: Hard}
	EmptyLine       Doc = Line{Kind: Empty}
	LiteralLine     Doc = Line{Kind: Literal}
)

// Space is a single space.
const Space Text = " "

// IDs hands out group ids for one formatting run.
type IDs struct {
	names []string
}

// New allocates an id. The name is only used by debug dumps.
func (ids *IDs) New(name string) GroupID {
	ids.names = append(ids.names, name)
	return GroupID(len(ids.names))
}

// Name returns the debug name of id.
func (ids *IDs) Name(id GroupID) string {
	if id <= 0 || int(id) > len(ids.names) {
		return ""
	}
	return ids.names[id-1]
}

// Seq builds a [Concat], dropping nil elements and flattening nested
// sequences.
func Seq(parts ...Doc) Doc {
	out := make(Concat, 0, len(parts))
	for _, p := range parts {
		switch p := p.(type) {
		case nil:
		case Concat:
			out = append(out, p...)
		default:
			out = append(out, p)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

// Join places sep between the elements of docs.
func Join(sep Doc, docs []Doc) Doc {
	out := make(Concat, 0, 2*len(docs))
	for i, d := range docs {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, d)
	}
	return out
}

// NewGroup groups contents.
func NewGroup(contents ...Doc) *Group {
	return &Group{Contents: Seq(contents...)}
}

// SoftBlockIndent indents d on its own lines when the enclosing group
// breaks, and prints it inline otherwise.
func SoftBlockIndent(d Doc) Doc {
	return Concat{Indent{Contents: Concat{SoftLine, d}}, SoftLine}
}

// SoftSpaceBlockIndent is like [SoftBlockIndent] but pads with spaces when
// flat.
func SoftSpaceBlockIndent(d Doc) Doc {
	return Concat{Indent{Contents: Concat{SoftLineOrSpace, d}}, SoftLineOrSpace}
}

// BlockIndent always indents d on its own lines.
func BlockIndent(d Doc) Doc {
	return Concat{Indent{Contents: Concat{HardLine, d}}, HardLine}
}

// Block always puts d on indented lines between open and close. The group
// is expanded, so a best-fit measurement reads only its first line.
func Block(open string, d Doc, close string) *Group {
	return &Group{Contents: Concat{Text(open), BlockIndent(d), Text(close)}, Expand: true}
}

// Bracketed wraps d in open and close, breaking it onto indented lines when
// it does not fit.
func Bracketed(open string, d Doc, close string) *Group {
	return &Group{Contents: Concat{Text(open), SoftBlockIndent(d), Text(close)}}
}

// ParenthesizeIfExpands adds parentheses around d only when the group
// breaks.
func ParenthesizeIfExpands(d Doc) *Group {
	return &Group{Contents: Concat{
		IfBreaks{Broken: Text("(")},
		SoftBlockIndent(d),
		IfBreaks{Broken: Text(")")},
	}}
}

// WillBreak reports whether d contains content that always breaks: a hard
// or empty line, [ExpandParent], or an expanded group. Literal lines belong
// to multi-line string tokens and do not break their group: such a string
// hugs the brackets around it. Variants of [BestFit] and deferred
// [LineSuffix] content are not inspected.
func WillBreak(d Doc) bool {
	var c breakCache
	return c.willBreak(d)
}

type breakCache map[*Group]bool

func (c *breakCache) willBreak(d Doc) bool {
	switch d := d.(type) {
	case Line:
		return d.Kind == Hard || d.Kind == Empty
	case ExpandParent:
		return true
	case Concat:
		for _, e := range d {
			if c.willBreak(e) {
				return true
			}
		}
	case Indent:
		return c.willBreak(d.Contents)
	case *Group:
		if d.Expand {
			return true
		}
		if v, ok := (*c)[d]; ok {
			return v
		}
		if *c == nil {
			*c = make(breakCache)
		}
		v := c.willBreak(d.Contents)
		(*c)[d] = v
		return v
	case IfBreaks:
		return d.Flat != nil && c.willBreak(d.Flat)
	}
	return false
}
