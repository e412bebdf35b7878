package comments

import "github.com/matzehuels/pyfmt/pkg/syntax"

// Collect attaches every comment of mod to exactly one node.
func Collect(mod *syntax.Module, src string) *Map {
	m := NewMap()
	for i, tok := range mod.Comments {
		c := &Comment{
			ID:          i,
			Span:        tok.Range,
			Text:        normalizeText(tok.Text),
			LinesBefore: syntax.LinesBefore(src, tok.Range.Start),
			LinesAfter:  syntax.LinesAfter(src, tok.Range.End),
		}
		if syntax.IsOwnLine(src, tok.Range.Start) {
			c.Line = OwnLine
		}
		n, pos := locate(mod, src, c)
		m.Attach(c, n, pos)
	}
	return m
}

// locate finds the node and position for c.
func locate(mod *syntax.Module, src string, c *Comment) (syntax.Node, Position) {
	path := []syntax.Node{mod}
	var preceding, following syntax.Node
	for {
		preceding, following = nil, nil
		var inner syntax.Node
		for _, child := range syntax.Children(path[len(path)-1]) {
			s := child.Span()
			switch {
			case s.Contains(c.Span):
				inner = child
			case s.End <= c.Span.Start:
				preceding = child
			case following == nil && s.Start >= c.Span.End:
				following = child
			}
			if inner != nil {
				break
			}
		}
		if inner == nil {
			break
		}
		path = append(path, inner)
	}
	enclosing := path[len(path)-1]

	if preceding != nil && opensBracket(src, preceding.Span().End, c.Span.Start) {
		preceding = nil
	} else if n, pos, ok := betweenOperands(path, preceding, following, c); ok {
		return n, pos
	}

	switch {
	case c.Line == EndOfLine && preceding != nil:
		return preceding, Trailing
	case following != nil:
		return following, Leading
	case preceding != nil:
		return preceding, Trailing
	}
	return enclosing, Dangling
}

// betweenOperands places a comment that sits between the tokens of an
// operation with no bracket around the comment, such as after an operator
// or before the dot of an attribute. The printed operation stays on one
// line where it can, so the comment moves to a place that keeps it:
//
//   - end-of-line: trailing comment of the largest expression that ends
//     on the comment's line, unless a binary operator follows the operand
//     before it
//   - own-line before a binary operator: trailing comment of the operand
//     before it
//   - own-line after a prefix, keyword or slice: leading comment of the
//     largest expression that starts there
//
// Own-line comments before the dot, call or index of a value keep their
// plain placement; the formatter breaks the line there.
func betweenOperands(path []syntax.Node, preceding, following syntax.Node, c *Comment) (syntax.Node, Position, bool) {
	e, ok := path[len(path)-1].(syntax.Expr)
	if !ok || insideParens(preceding, c) || insideParens(following, c) {
		return nil, 0, false
	}
	switch e := e.(type) {
	case *syntax.BinOp:
		if preceding == nil {
			return nil, 0, false
		}
		if c.Line == OwnLine {
			return preceding, Trailing, true
		}
		return nil, 0, false
	case *syntax.Attribute, *syntax.Call, *syntax.Subscript:
		if preceding == nil || preceding != syntax.Children(e)[0] || c.Line == OwnLine {
			return nil, 0, false
		}
	case *syntax.UnaryOp, *syntax.Keyword, *syntax.Starred, *syntax.DictItem, *syntax.Slice:
		if c.Line == OwnLine {
			return widest(path, func(n, parent syntax.Node) bool {
				return syntax.Children(parent)[0] == n
			}), Leading, true
		}
	default:
		return nil, 0, false
	}
	return widest(path, endsWith), Trailing, true
}

// widest walks up from the innermost node of path while the parent is an
// operation without brackets and extends(n, parent) holds. A parenthesized
// node stops the walk: its parentheses hold the comment.
func widest(path []syntax.Node, extends func(n, parent syntax.Node) bool) syntax.Node {
	i := len(path) - 1
	for i > 0 {
		n, ok := path[i].(syntax.Expr)
		if !ok || n.Parenthesized() || !isOperation(path[i-1]) || !extends(n, path[i-1]) {
			break
		}
		i--
	}
	return path[i]
}

// endsWith reports whether nothing of parent but unbreakable text follows
// its child n: n is the last operand, or the value before a dot, call or
// index.
func endsWith(n, parent syntax.Node) bool {
	switch p := parent.(type) {
	case *syntax.BinOp:
		return p.Right == n
	case *syntax.Call:
		return p.Func == n
	case *syntax.Subscript:
		return p.Value == n
	}
	return true
}

func isOperation(n syntax.Node) bool {
	switch n.(type) {
	case *syntax.BinOp, *syntax.UnaryOp, *syntax.Attribute, *syntax.Call, *syntax.Subscript,
		*syntax.Keyword, *syntax.Starred, *syntax.DictItem, *syntax.Slice:
		return true
	}
	return false
}

// insideParens reports whether c sits within the redundant parentheses of n.
func insideParens(n syntax.Node, c *Comment) bool {
	e, ok := n.(syntax.Expr)
	return ok && e.Parenthesized() && e.OuterSpan().Contains(c.Span)
}

// opensBracket reports whether src[from:to] contains an opening bracket that
// is not closed within the range. Comments in the range are skipped.
func opensBracket(src string, from, to int) bool {
	depth := 0
	for i := from; i < to; i++ {
		switch src[i] {
		case '#':
			for i < to && src[i] != '\n' {
				i++
			}
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return depth > 0
}
