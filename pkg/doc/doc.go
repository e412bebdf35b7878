// Package doc implements the Document IR and the width-aware renderer that
// turns it into text.
//
// # Overview
//
// A [Doc] describes output without committing to line breaks. Soft line
// breaks belong to the innermost enclosing [Group]; the renderer prints a
// group flat when its content fits in the remaining width and breaks every
// soft line of the group otherwise. [BestFit] offers ordered alternatives of
// which the renderer prints the first that fits.
//
// The IR is a closed sum type: every variant implements the unexported
// isDoc method, and consumers switch over the concrete types.
//
// # Variants
//
//   - [Text]: literal output, never containing a line break
//   - [Line]: soft, soft-or-space, hard, empty (blank line) and literal breaks
//   - [Indent]: one indentation level for the line starts inside
//   - [Group]: soft lines resolved together; Expand forces the broken form
//   - [IfBreaks]: content chosen by the decision of a group
//   - [BestFit]: candidates from least to most broken
//   - [Concat]: a sequence
//   - [LineSuffix]: content deferred to the end of the line (comments)
//   - [ExpandParent]: breaks the enclosing group
//   - [Mark]: zero-width commit notification, see [Options.OnMark]
//
// # Group identity
//
// Groups referenced by [IfBreaks] get an integer [GroupID] from an [IDs]
// allocator. The renderer records one decision per id and rendering pass, so
// documents stay trees and can be shared between [BestFit] variants.
//
// # Rendering
//
//	out, err := doc.Render(d, doc.Options{Width: 88})
//
// [Select] exposes the best-fit decision for a candidate list on its own.
package doc

// Doc is a node of the Document IR.
type Doc interface {
	isDoc()
}

// Text is literal output. It must not contain line breaks.
type Text string

// Concat prints its elements in order.
type Concat []Doc

// LineKind selects the behavior of a [Line].
type LineKind uint8

const (
	// Soft prints nothing when flat and a newline when broken.
	Soft LineKind = iota
	// SoftSpace prints a space when flat and a newline when broken.
	SoftSpace
	// Hard always prints a newline and breaks the enclosing group.
	Hard
	// Empty prints a newline that leaves one blank line.
	Empty
	// Literal prints a newline without indentation, for multi-line string
	// content.
	Literal
)

func (k LineKind) String() string {
	switch k {
	case Soft:
		return "soft_line"
	case SoftSpace:
		return "soft_line_or_space"
	case Hard:
		return "hard_line"
	case Empty:
		return "empty_line"
	case Literal:
		return "literal_line"
	}
	return "line"
}

// Line is a potential line break.
type Line struct {
	Kind LineKind
}

// Indent adds one indentation level to the line starts inside Contents.
type Indent struct {
	Contents Doc
}

// GroupID identifies a group for [IfBreaks]. Zero means "no id".
type GroupID int

// Group is a unit of soft lines that break together.
type Group struct {
	ID       GroupID
	Contents Doc
	// Expand forces the broken form.
	Expand bool
}

// IfBreaks prints Broken when the referenced group is broken and Flat
// otherwise. A zero Group refers to the innermost enclosing group.
type IfBreaks struct {
	Broken Doc
	Flat   Doc
	Group  GroupID
}

// BestFit holds candidates ordered from least to most broken. All but the
// last are measured flat; the last is the fallback printed in broken mode.
type BestFit struct {
	Variants []Doc
}

// LineSuffix is printed right before the next newline. Reserved is the width
// that measuring counts for it at its original position.
type LineSuffix struct {
	Contents Doc
	Reserved int
}

// ExpandParent forces the enclosing group to break.
type ExpandParent struct{}

// Mark reports ID through [Options.OnMark] when printed. It has no width.
type Mark struct {
	ID int
}

func (Text) isDoc()         {}
func (Concat) isDoc()       {}
func (Line) isDoc()         {}
func (Indent) isDoc()       {}
func (*Group) isDoc()       {}
func (IfBreaks) isDoc()     {}
func (BestFit) isDoc()      {}
func (LineSuffix) isDoc()   {}
func (ExpandParent) isDoc() {}
func (Mark) isDoc()         {}
