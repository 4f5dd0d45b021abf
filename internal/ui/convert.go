// Package ui renders conversion progress in the terminal.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/mwg-labs/voicestudio/internal/studio"
)

const maxBarWidth = 60

// ProgressMsg carries a conversion progress update into the program.
type ProgressMsg studio.Progress

// DoneMsg ends the program with the outcome of a conversion.
type DoneMsg struct {
	Result *studio.Result
	Path   string
	Err    error
}

// Model shows a spinner, the current stage and a progress bar while a
// conversion runs, then a one-line summary.
type Model struct {
	title    string
	spinner  spinner.Model
	bar      progress.Model
	progress studio.Progress
	started  time.Time

	result   *studio.Result
	path     string
	err      error
	quitting bool

	cancel context.CancelFunc
}

// NewModel creates a model. cancel is called when the user quits early
// and may be nil.
func NewModel(title string, cancel context.CancelFunc) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = spinnerStyle

	bar := progress.New(
		progress.WithGradient(string(darkGreen.Dark), string(green)),
		progress.WithWidth(40),
	)

	return Model{
		title:   title,
		spinner: sp,
		bar:     bar,
		started: time.Now(),
		cancel:  cancel,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-4, 10), maxBarWidth)

	case ProgressMsg:
		m.progress = studio.Progress(msg)

	case DoneMsg:
		m.result = msg.Result
		m.path = msg.Path
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	switch {
	case m.err != nil:
		fmt.Fprintf(&b, "%s\n", errorStyle("Conversion failed: "+m.err.Error()))
	case m.result != nil:
		fmt.Fprintf(&b, "%s\n", Summary(m.result, m.path))
	case m.quitting:
		fmt.Fprintf(&b, "%s\n", dimStyle("Cancelled."))
	default:
		fmt.Fprintf(&b, "%s\n\n", titleStyle.Render(m.title))
		fmt.Fprintf(&b, "%s %s", m.spinner.View(), stageStyle(m.progress.Stage.String()))
		if m.progress.Stage == studio.StageSynthesizing && m.progress.Total > 0 {
			fmt.Fprintf(&b, " %s", dimStyle(fmt.Sprintf("%d/%d", m.progress.Done, m.progress.Total)))
		}
		fmt.Fprintf(&b, "\n%s\n\n", m.bar.ViewAs(m.progress.Fraction()))
		fmt.Fprintf(&b, "%s\n", helpStyle("q: cancel"))
	}

	return b.String()
}

// Err returns the conversion error once the program has finished.
func (m Model) Err() error { return m.err }

// Result returns the converted result and where it was saved.
func (m Model) Result() (*studio.Result, string) { return m.result, m.path }

// Summary describes a finished conversion in one line.
func Summary(res *studio.Result, path string) string {
	parts := []string{
		res.Duration.Round(100 * time.Millisecond).String(),
		humanize.Bytes(uint64(len(res.WAV))),
	}
	if res.Chunks > 1 {
		parts = append(parts, fmt.Sprintf("%d chunks", res.Chunks))
	}
	if res.Voice.Name != "" {
		parts = append(parts, res.Voice.Name)
	}
	head := "Converted"
	if path != "" {
		head = "Saved " + Keyword(path)
	}
	return savedStyle("✓ ") + head + " " + dimStyle("("+strings.Join(parts, ", ")+")")
}

// Work performs a conversion, reporting through progress, and returns the
// result and the path it was saved to.
type Work func(ctx context.Context, progress func(studio.Progress)) (*studio.Result, string, error)

// Run drives work under the progress UI. Quitting early cancels work and
// returns context.Canceled.
func Run(ctx context.Context, title string, work Work, opts ...tea.ProgramOption) (*studio.Result, string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(title, cancel), opts...)

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		res, path, err := work(ctx, func(pr studio.Progress) {
			p.Send(ProgressMsg(pr))
		})
		p.Send(DoneMsg{Result: res, Path: path, Err: err})
	}()

	final, err := p.Run()
	cancel()
	<-finished
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, "", fmt.Errorf("unable to run tui program: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, "", errors.New("unexpected tui model")
	}
	if m.quitting && m.result == nil && m.err == nil {
		return nil, "", context.Canceled
	}
	res, path := m.Result()
	return res, path, m.Err()
}
