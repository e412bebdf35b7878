package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/pyfmt/pkg/pipeline"
)

const progressBarWidth = 30

// fileDoneMsg reports one finished file.
type fileDoneMsg struct {
	path    string
	changed bool
	failed  bool
}

// runDoneMsg ends the program.
type runDoneMsg struct{}

// progressModel draws a bar of finished files over the total.
type progressModel struct {
	total   int
	done    int
	changed int
	failed  int
	current string
	quit    bool
}

func newProgressModel(total int) progressModel {
	return progressModel{total: total}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fileDoneMsg:
		m.done++
		m.current = msg.path
		if msg.changed {
			m.changed++
		}
		if msg.failed {
			m.failed++
		}
	case runDoneMsg:
		m.quit = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quit = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.quit {
		return ""
	}
	filled := 0
	if m.total > 0 {
		filled = min(progressBarWidth, m.done*progressBarWidth/m.total)
	}
	bar := StyleNumber.Render(strings.Repeat("█", filled)) +
		StyleDim.Render(strings.Repeat("░", progressBarWidth-filled))

	line := fmt.Sprintf("%s %d/%d", bar, m.done, m.total)
	if m.changed > 0 {
		line += StyleDim.Render(fmt.Sprintf(" · %d changed", m.changed))
	}
	if m.failed > 0 {
		line += " " + StyleWarning.Render(fmt.Sprintf("%d failed", m.failed))
	}
	if m.current != "" {
		line += "\n" + StyleDim.Render(displayPath(m.current))
	}
	return line + "\n"
}

// runWithProgress runs a batch while drawing progress on w. run receives
// the per-file callback to install as [pipeline.Options.OnFile].
func runWithProgress(ctx context.Context, w io.Writer, total int, run func(onFile func(pipeline.FileResult)) (*pipeline.Result, error)) (*pipeline.Result, error) {
	p := tea.NewProgram(newProgressModel(total),
		tea.WithContext(ctx),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	var (
		result *pipeline.Result
		runErr error
		done   = make(chan struct{})
	)
	go func() {
		defer close(done)
		result, runErr = run(func(fr pipeline.FileResult) {
			p.Send(fileDoneMsg{path: fr.Path, changed: fr.Changed, failed: fr.Err != nil})
		})
		p.Send(runDoneMsg{})
	}()

	_, uiErr := p.Run()
	<-done
	if uiErr != nil && !errors.Is(uiErr, tea.ErrProgramKilled) {
		loggerFromContext(ctx).Debug("progress display failed", "err", uiErr)
	}
	return result, runErr
}
