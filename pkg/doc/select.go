package doc

import "errors"

// ErrNoCandidates is returned by [Select] for an empty candidate list.
var ErrNoCandidates = errors.New("doc: no candidates")

// Select renders the first candidate whose first line fits within
// opts.Width when printed flat, or the last candidate printed broken when
// none does. It returns the index of the chosen candidate and its rendering.
// Marks fire only for the chosen candidate.
func Select(candidates []Doc, opts Options) (int, string, error) {
	if len(candidates) == 0 {
		return 0, "", ErrNoCandidates
	}
	p := newPrinter(opts)
	i := p.selectVariant(candidates, 0, nil)
	m := modeBreak
	if i < len(candidates)-1 {
		m = modeFlat
		p.measured = true
	}
	if err := p.print(command{mode: m, doc: candidates[i]}); err != nil {
		return i, "", err
	}
	return i, p.buf.String(), nil
}
