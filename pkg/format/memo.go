package format

import (
	"github.com/matzehuels/pyfmt/pkg/doc"
	"github.com/matzehuels/pyfmt/pkg/syntax"
)

// stmtMemo caches sub-layouts of one statement by node identity. Several
// candidate layouts reference the same target document; building it once
// keeps the comment claims single and the will-break check cheap. The memo
// is dropped when the statement is done.
type stmtMemo struct {
	docs   map[syntax.Node]doc.Doc
	breaks map[syntax.Node]bool
}

func newStmtMemo() *stmtMemo {
	return &stmtMemo{
		docs:   make(map[syntax.Node]doc.Doc),
		breaks: make(map[syntax.Node]bool),
	}
}

// doc returns the memoized document of n, building it on first use.
func (m *stmtMemo) doc(n syntax.Node, build func() doc.Doc) doc.Doc {
	if d, ok := m.docs[n]; ok {
		return d
	}
	d := build()
	m.docs[n] = d
	return d
}

// willBreak reports whether the memoized document of n always breaks.
func (m *stmtMemo) willBreak(n syntax.Node) bool {
	if b, ok := m.breaks[n]; ok {
		return b
	}
	b := doc.WillBreak(m.docs[n])
	m.breaks[n] = b
	return b
}
