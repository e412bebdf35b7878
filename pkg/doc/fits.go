package doc

import (
	"unicode"

	"golang.org/x/text/width"
)

// fits measures next followed by the rest of the print stack against the
// remaining width of the current line. Measuring stops at the first line
// break printed in broken mode: only the first line has to fit. With
// mustBeFlat, a hard or empty line met in flat mode fails the measurement,
// since the content would not stay on one line.
func (p *printer) fits(next command, rest []command, mustBeFlat bool) bool {
	remaining := p.opts.Width - p.col
	queue := []command{next}
	restIdx := len(rest)
	var local map[GroupID]mode

	for remaining >= 0 {
		var c command
		switch {
		case len(queue) > 0:
			c = queue[len(queue)-1]
			queue = queue[:len(queue)-1]
		case restIdx > 0:
			restIdx--
			c = rest[restIdx]
		default:
			return true
		}

		switch d := c.doc.(type) {
		case Text:
			remaining -= p.width(string(d))
		case Concat:
			for i := len(d) - 1; i >= 0; i-- {
				queue = append(queue, command{c.indent, c.mode, d[i]})
			}
		case Indent:
			queue = append(queue, command{c.indent + 1, c.mode, d.Contents})
		case *Group:
			m := c.mode
			if d.Expand || p.breaks.willBreak(d) {
				m = modeBreak
			}
			if d.ID != 0 {
				if local == nil {
					local = make(map[GroupID]mode)
				}
				local[d.ID] = m
			}
			queue = append(queue, command{c.indent, m, d.Contents})
		case IfBreaks:
			m := c.mode
			if d.Group != 0 {
				if lm, ok := local[d.Group]; ok {
					m = lm
				} else if gm := p.group(d.Group); gm != modeUnknown {
					m = gm
				} else {
					m = modeFlat
				}
			}
			branch := d.Flat
			if m == modeBreak {
				branch = d.Broken
			}
			if branch != nil {
				queue = append(queue, command{c.indent, c.mode, branch})
			}
		case Line:
			if mustBeFlat && c.mode == modeFlat && (d.Kind == Hard || d.Kind == Empty) {
				return false
			}
			if c.mode == modeBreak || d.Kind == Hard || d.Kind == Empty || d.Kind == Literal {
				return true
			}
			if d.Kind == SoftSpace {
				remaining--
			}
		case LineSuffix:
			remaining -= p.reserved(d)
		case BestFit:
			if len(d.Variants) == 0 {
				break
			}
			v := d.Variants[len(d.Variants)-1]
			if c.mode == modeFlat {
				v = d.Variants[0]
			}
			queue = append(queue, command{c.indent, c.mode, v})
		}
	}
	return false
}

// reserved returns the width d takes from the line it ends. A suffix wider
// than the whole line cannot fit anywhere and reserves nothing.
func (p *printer) reserved(d LineSuffix) int {
	if d.Reserved > p.opts.Width {
		return 0
	}
	return d.Reserved
}

// FlatWidth returns the width of d printed on one line, line suffixes
// included. It reports false when d cannot print flat: it holds a hard,
// empty or literal line, or content that expands its group.
func FlatWidth(d Doc, opts Options) (int, bool) {
	p := newPrinter(opts)
	return p.flatWidth(d)
}

func (p *printer) flatWidth(d Doc) (int, bool) {
	switch d := d.(type) {
	case Text:
		return p.width(string(d)), true
	case Concat:
		n := 0
		for _, e := range d {
			w, ok := p.flatWidth(e)
			if !ok {
				return 0, false
			}
			n += w
		}
		return n, true
	case Indent:
		return p.flatWidth(d.Contents)
	case *Group:
		if d.Expand || p.breaks.willBreak(d) {
			return 0, false
		}
		return p.flatWidth(d.Contents)
	case IfBreaks:
		return p.flatWidth(d.Flat)
	case Line:
		switch d.Kind {
		case Soft:
			return 0, true
		case SoftSpace:
			return 1, true
		}
		return 0, false
	case LineSuffix:
		return p.reserved(d), true
	case ExpandParent:
		return 0, false
	case BestFit:
		if len(d.Variants) > 0 {
			return p.flatWidth(d.Variants[0])
		}
	}
	return 0, true
}

// HasSoftLines reports whether d has a line break that a group may take or
// leave, outside of line suffixes.
func HasSoftLines(d Doc) bool {
	switch d := d.(type) {
	case Line:
		return d.Kind == Soft || d.Kind == SoftSpace
	case Concat:
		for _, e := range d {
			if HasSoftLines(e) {
				return true
			}
		}
	case Indent:
		return HasSoftLines(d.Contents)
	case *Group:
		return HasSoftLines(d.Contents)
	case IfBreaks:
		return HasSoftLines(d.Broken) || HasSoftLines(d.Flat)
	case BestFit:
		for _, v := range d.Variants {
			if HasSoftLines(v) {
				return true
			}
		}
	}
	return false
}

// width returns the display width of s: wide and fullwidth East Asian runes
// count two columns, combining marks none, tabs one indentation level.
func (p *printer) width(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case r == '\t':
			n += p.opts.IndentWidth
		case r < 0x80:
			n++
		case unicode.Is(unicode.Mn, r):
		default:
			switch width.LookupRune(r).Kind() {
			case width.EastAsianWide, width.EastAsianFullwidth:
				n += 2
			default:
				n++
			}
		}
	}
	return n
}

// Width returns the display width of s as measured by the renderer.
func Width(s string) int {
	p := printer{opts: Options{}.withDefaults()}
	return p.width(s)
}
