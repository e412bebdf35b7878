// Package format renders a Python syntax tree as canonical source text.
//
// [Format] builds one Document for the whole module: statements become
// sequences of groups, assignment values become best-fit candidate lists,
// and every comment is folded in as a [doc.Mark] next to its text. The
// renderer then resolves groups and candidates against the line width, and
// the comment ledger checks that each comment was printed exactly once.
//
// # Usage
//
//	out, err := format.FormatSource(src, format.DefaultOptions())
//	if errors.Is(err, errors.ErrCodeParse) {
//	    // the input is not valid Python
//	}
package format

import (
	"strings"

	"github.com/matzehuels/pyfmt/pkg/comments"
	"github.com/matzehuels/pyfmt/pkg/doc"
	"github.com/matzehuels/pyfmt/pkg/errors"
	"github.com/matzehuels/pyfmt/pkg/syntax"
)

// FormatSource parses src and formats it.
func FormatSource(src string, opts Options) (string, error) {
	mod, err := syntax.Parse(src)
	if err != nil {
		return "", err
	}
	return Format(mod, src, opts)
}

// Format renders mod, parsed from src.
func Format(mod *syntax.Module, src string, opts Options) (string, error) {
	built, err := Build(mod, src, opts)
	if err != nil {
		return "", err
	}
	ledger := comments.NewLedger(built.Comments.All())
	ro := opts.render()
	ro.OnMark = ledger.MarkFormatted
	out, err := doc.Render(built.Doc, ro)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "render document")
	}
	if err := ledger.Verify(); err != nil {
		return "", errors.Wrap(errors.ErrCodeUnattachedComment, err, "comment conservation")
	}
	if out == "" {
		return "", nil
	}
	out += "\n"
	if lineEnding(opts.LineEnding, src) == CRLF {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}
	return out, nil
}

// Document is the layout of a module before rendering.
type Document struct {
	Doc      doc.Doc
	IDs      *doc.IDs
	Comments *comments.Map
}

// Build validates mod and constructs its Document without rendering it.
func Build(mod *syntax.Module, src string, opts Options) (*Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkShape(mod); err != nil {
		return nil, err
	}
	f := &formatter{
		src:     src,
		opts:    opts,
		cm:      comments.Collect(mod, src),
		ids:     &doc.IDs{},
		emitted: make(map[*comments.Comment]bool),
	}
	d := f.module(mod)
	if f.err != nil {
		return nil, f.err
	}
	return &Document{Doc: d, IDs: f.ids, Comments: f.cm}, nil
}

// checkShape rejects trees that violate statement invariants.
func checkShape(mod *syntax.Module) error {
	for _, st := range mod.Body {
		switch s := st.(type) {
		case *syntax.AssignStmt:
			if len(s.Targets) == 0 {
				return errors.New(errors.ErrCodeSyntaxShape, "assignment at %s has no targets", s.Span())
			}
			if s.Value == nil {
				return errors.New(errors.ErrCodeSyntaxShape, "assignment at %s has no value", s.Span())
			}
		case *syntax.AugAssignStmt:
			if s.Target == nil || s.Value == nil {
				return errors.New(errors.ErrCodeSyntaxShape, "augmented assignment at %s is incomplete", s.Span())
			}
		case *syntax.AnnAssignStmt:
			if s.Target == nil || s.Annotation == nil {
				return errors.New(errors.ErrCodeSyntaxShape, "annotated assignment at %s is incomplete", s.Span())
			}
		case *syntax.ExprStmt:
			if s.Value == nil {
				return errors.New(errors.ErrCodeSyntaxShape, "expression statement at %s has no value", s.Span())
			}
		case *syntax.DelStmt:
			if len(s.Targets) == 0 {
				return errors.New(errors.ErrCodeSyntaxShape, "del at %s has no targets", s.Span())
			}
		}
	}
	return nil
}

func (o Options) render() doc.Options {
	return doc.Options{Width: o.LineWidth, IndentWidth: o.IndentWidth}
}

// lineEnding resolves Auto against the first line break of src.
func lineEnding(le LineEnding, src string) LineEnding {
	if le != Auto {
		return le
	}
	if i := strings.IndexByte(src, '\n'); i > 0 && src[i-1] == '\r' {
		return CRLF
	}
	return LF
}

// formatter holds the state of one file.
type formatter struct {
	src     string
	opts    Options
	cm      *comments.Map
	ids     *doc.IDs
	memo    *stmtMemo
	emitted map[*comments.Comment]bool
	err     error
}

// fail records the first error of the run.
func (f *formatter) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

// fresh returns the comments of cs that no document holds yet, and claims
// them.
func (f *formatter) fresh(cs []*comments.Comment) []*comments.Comment {
	var out []*comments.Comment
	for _, c := range cs {
		if !f.emitted[c] {
			f.emitted[c] = true
			out = append(out, c)
		}
	}
	return out
}
