package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestUnifiedDiff(t *testing.T) {
	d, err := unifiedDiff("a.py", "x=1\ny = 2\n", "x = 1\ny = 2\n")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"--- a.py", "+++ a.py", "@@ -1,2 +1,2 @@", "-x=1\n", "+x = 1\n", " y = 2\n"} {
		if !strings.Contains(d, want) {
			t.Errorf("diff missing %q:\n%s", want, d)
		}
	}

	if d, _ := unifiedDiff("a.py", "x = 1\n", "x = 1\n"); d != "" {
		t.Errorf("diff of equal texts = %q, want empty", d)
	}
}

func TestColorDiffKeepsText(t *testing.T) {
	d, err := unifiedDiff("a.py", "x=1\n", "x = 1\n")
	if err != nil {
		t.Fatal(err)
	}
	got := colorDiff(d)
	for _, line := range strings.Split(strings.TrimSuffix(d, "\n"), "\n") {
		if !strings.Contains(got, line) {
			t.Errorf("colored diff lost line %q", line)
		}
	}
	if strings.Count(got, "\n") != strings.Count(d, "\n") {
		t.Errorf("colored diff has %d lines, want %d", strings.Count(got, "\n"), strings.Count(d, "\n"))
	}
}

func TestProgressModel(t *testing.T) {
	var m tea.Model = newProgressModel(4)

	m, _ = m.Update(fileDoneMsg{path: "a.py", changed: true})
	m, _ = m.Update(fileDoneMsg{path: "b.py", failed: true})

	pm := m.(progressModel)
	if pm.done != 2 || pm.changed != 1 || pm.failed != 1 {
		t.Errorf("model = %+v, want done=2 changed=1 failed=1", pm)
	}
	view := m.View()
	for _, want := range []string{"2/4", "1 changed", "1 failed", "b.py"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	m, cmd := m.Update(runDoneMsg{})
	if cmd == nil {
		t.Fatal("runDoneMsg should quit the program")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("runDoneMsg command should be tea.Quit")
	}
	if m.View() != "" {
		t.Error("View() after quit should be empty")
	}
}

func TestProgressModelEmpty(t *testing.T) {
	if view := newProgressModel(0).View(); !strings.Contains(view, "0/0") {
		t.Errorf("View() = %q", view)
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1, "file"); got != "1 file" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(3, "file"); got != "3 files" {
		t.Errorf("plural(3) = %q", got)
	}
}
