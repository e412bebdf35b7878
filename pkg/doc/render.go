package doc

import (
	"fmt"
	"strings"
)

// Default layout settings.
const (
	DefaultWidth       = 88
	DefaultIndentWidth = 4
)

// Options configures [Render] and [Select].
type Options struct {
	// Width is the maximum line width in display columns.
	Width int
	// IndentWidth is the number of spaces per indentation level.
	IndentWidth int
	// OnMark is called for every printed [Mark]. An error aborts rendering.
	OnMark func(id int) error
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.IndentWidth <= 0 {
		o.IndentWidth = DefaultIndentWidth
	}
	return o
}

type mode uint8

const (
	modeUnknown mode = iota
	modeFlat
	modeBreak
)

func (m mode) String() string {
	switch m {
	case modeFlat:
		return "flat"
	case modeBreak:
		return "break"
	}
	return "unknown"
}

type command struct {
	indent int
	mode   mode
	doc    Doc
}

type printer struct {
	opts Options
	buf  strings.Builder
	// col is the display column of the cursor, pending indentation included.
	col int
	// pendingIndent is written before the next text of the line.
	pendingIndent int
	atLineStart   bool
	groups        []mode
	suffixes      []command
	// measured is set once an enclosing measurement proved that the current
	// line fits; a printed newline clears it.
	measured bool
	breaks   breakCache
}

func newPrinter(opts Options) *printer {
	return &printer{opts: opts.withDefaults(), atLineStart: true}
}

// Render prints d within opts.Width columns.
func Render(d Doc, opts Options) (string, error) {
	p := newPrinter(opts)
	if err := p.print(command{mode: modeBreak, doc: d}); err != nil {
		return "", err
	}
	return p.buf.String(), nil
}

func (p *printer) print(root command) error {
	stack := []command{root}
	for {
		if len(stack) == 0 {
			if len(p.suffixes) == 0 {
				return nil
			}
			stack = p.flushSuffixes(stack)
			continue
		}
		cmd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		var err error
		if stack, err = p.step(cmd, stack); err != nil {
			return err
		}
	}
}

func (p *printer) step(cmd command, stack []command) ([]command, error) {
	switch d := cmd.doc.(type) {
	case nil:
	case Text:
		p.write(string(d))
	case Concat:
		for i := len(d) - 1; i >= 0; i-- {
			stack = append(stack, command{cmd.indent, cmd.mode, d[i]})
		}
	case Indent:
		stack = append(stack, command{cmd.indent + 1, cmd.mode, d.Contents})
	case *Group:
		m := p.groupMode(d, cmd, stack)
		if d.ID != 0 {
			p.setGroup(d.ID, m)
		}
		stack = append(stack, command{cmd.indent, m, d.Contents})
	case IfBreaks:
		m := cmd.mode
		if d.Group != 0 {
			if m = p.group(d.Group); m == modeUnknown {
				return nil, fmt.Errorf("doc: IfBreaks refers to group %d before it is printed", d.Group)
			}
		}
		branch := d.Flat
		if m == modeBreak {
			branch = d.Broken
		}
		if branch != nil {
			stack = append(stack, command{cmd.indent, cmd.mode, branch})
		}
	case Line:
		if cmd.mode == modeFlat && (d.Kind == Soft || d.Kind == SoftSpace) {
			if d.Kind == SoftSpace {
				p.write(" ")
			}
			break
		}
		if len(p.suffixes) > 0 {
			stack = append(stack, cmd)
			return p.flushSuffixes(stack), nil
		}
		p.newline(d.Kind, cmd.indent)
	case LineSuffix:
		p.suffixes = append(p.suffixes, command{cmd.indent, cmd.mode, d.Contents})
	case ExpandParent:
	case Mark:
		if p.opts.OnMark != nil {
			if err := p.opts.OnMark(d.ID); err != nil {
				return nil, err
			}
		}
	case BestFit:
		if len(d.Variants) == 0 {
			break
		}
		if cmd.mode == modeFlat && p.measured {
			stack = append(stack, command{cmd.indent, modeFlat, d.Variants[0]})
			break
		}
		i := p.selectVariant(d.Variants, cmd.indent, stack)
		m := modeBreak
		if i < len(d.Variants)-1 {
			m = modeFlat
			p.measured = true
		}
		stack = append(stack, command{cmd.indent, m, d.Variants[i]})
	default:
		return nil, fmt.Errorf("doc: unknown document %T", cmd.doc)
	}
	return stack, nil
}

// groupMode decides whether g prints flat or broken.
func (p *printer) groupMode(g *Group, cmd command, rest []command) mode {
	if g.Expand || p.breaks.willBreak(g) {
		return modeBreak
	}
	if cmd.mode == modeFlat && p.measured {
		return modeFlat
	}
	if p.fits(command{cmd.indent, modeFlat, g}, rest, false) {
		p.measured = true
		return modeFlat
	}
	return modeBreak
}

// selectVariant returns the index of the first variant that fits flat, or
// the index of the last variant. Only the last variant may contain line
// breaks outside of expanded groups.
func (p *printer) selectVariant(variants []Doc, indent int, rest []command) int {
	last := len(variants) - 1
	for i, v := range variants[:last] {
		if p.fits(command{indent, modeFlat, v}, rest, true) {
			return i
		}
	}
	return last
}

func (p *printer) flushSuffixes(stack []command) []command {
	for i := len(p.suffixes) - 1; i >= 0; i-- {
		stack = append(stack, p.suffixes[i])
	}
	p.suffixes = p.suffixes[:0]
	return stack
}

func (p *printer) write(s string) {
	if s == "" {
		return
	}
	if p.pendingIndent > 0 {
		p.buf.WriteString(strings.Repeat(" ", p.pendingIndent))
		p.pendingIndent = 0
	}
	p.buf.WriteString(s)
	p.col += p.width(s)
	p.atLineStart = false
}

func (p *printer) newline(kind LineKind, indent int) {
	switch {
	case kind == Empty && p.buf.Len() == 0:
	case kind == Empty && p.atLineStart:
		p.buf.WriteByte('\n')
	case kind == Empty:
		p.buf.WriteString("\n\n")
	default:
		p.buf.WriteByte('\n')
	}
	p.atLineStart = true
	p.measured = false
	if kind == Literal {
		p.pendingIndent, p.col = 0, 0
		return
	}
	p.pendingIndent = indent * p.opts.IndentWidth
	p.col = p.pendingIndent
}

func (p *printer) group(id GroupID) mode {
	if int(id) >= len(p.groups) {
		return modeUnknown
	}
	return p.groups[id]
}

func (p *printer) setGroup(id GroupID, m mode) {
	for int(id) >= len(p.groups) {
		p.groups = append(p.groups, modeUnknown)
	}
	p.groups[id] = m
}
