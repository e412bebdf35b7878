package cli

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// unifiedDiff returns the unified diff from before to after, or "" when
// they are equal.
func unifiedDiff(path, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path + " (original)",
		ToFile:   path + " (formatted)",
		Context:  3,
	})
}

// colorDiff styles a unified diff line by line. Styles degrade to plain
// text when the output has no color support.
func colorDiff(diff string) string {
	lines := strings.SplitAfter(diff, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		nl := line[len(body):]
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			b.WriteString(styleDiffHead.Render(body))
		case strings.HasPrefix(body, "@@"):
			b.WriteString(styleDiffHunk.Render(body))
		case strings.HasPrefix(body, "+"):
			b.WriteString(styleDiffAdd.Render(body))
		case strings.HasPrefix(body, "-"):
			b.WriteString(styleDiffDel.Render(body))
		default:
			b.WriteString(body)
		}
		b.WriteString(nl)
	}
	return b.String()
}
