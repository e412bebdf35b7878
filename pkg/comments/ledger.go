package comments

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pyfmt/pkg/errors"
	"github.com/matzehuels/pyfmt/pkg/syntax"
)

// UnattachedCommentError reports comments that were dropped or printed more
// than once.
type UnattachedCommentError struct {
	Unprinted  []syntax.Span
	Duplicated []syntax.Span
}

func (e *UnattachedCommentError) Error() string {
	var parts []string
	if len(e.Unprinted) > 0 {
		parts = append(parts, fmt.Sprintf("%d comment(s) not printed: %s", len(e.Unprinted), spans(e.Unprinted)))
	}
	if len(e.Duplicated) > 0 {
		parts = append(parts, fmt.Sprintf("%d comment(s) printed twice: %s", len(e.Duplicated), spans(e.Duplicated)))
	}
	return strings.Join(parts, "; ")
}

// Code returns [errors.ErrCodeUnattachedComment].
func (e *UnattachedCommentError) Code() errors.Code { return errors.ErrCodeUnattachedComment }

func spans(ss []syntax.Span) string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.String()
	}
	return strings.Join(out, ", ")
}

// Ledger counts how often each comment is printed.
type Ledger struct {
	comments []*Comment
	printed  []int
}

// NewLedger tracks cs. Comment IDs must index into cs.
func NewLedger(cs []*Comment) *Ledger {
	return &Ledger{comments: cs, printed: make([]int, len(cs))}
}

// MarkFormatted records that comment id was printed. Duplicates are
// reported by [Ledger.Verify].
func (l *Ledger) MarkFormatted(id int) error {
	if id < 0 || id >= len(l.printed) {
		return fmt.Errorf("comments: unknown comment id %d", id)
	}
	l.printed[id]++
	return nil
}

// Formatted reports whether comment id was printed at least once.
func (l *Ledger) Formatted(id int) bool {
	return id >= 0 && id < len(l.printed) && l.printed[id] > 0
}

// Verify fails unless every comment was printed exactly once.
func (l *Ledger) Verify() error {
	var e UnattachedCommentError
	for i, n := range l.printed {
		switch {
		case n == 0:
			e.Unprinted = append(e.Unprinted, l.comments[i].Span)
		case n > 1:
			e.Duplicated = append(e.Duplicated, l.comments[i].Span)
		}
	}
	if len(e.Unprinted)+len(e.Duplicated) == 0 {
		return nil
	}
	return &e
}
