package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwg-labs/voicestudio/internal/speech"
	"github.com/mwg-labs/voicestudio/internal/studio"
)

func testResult() *studio.Result {
	return &studio.Result{
		WAV:      make([]byte, 44+2*24000),
		Duration: time.Second,
		Chunks:   2,
		Voice:    speech.DefaultVoice(),
	}
}

func TestModelUpdate(t *testing.T) {
	cancelled := false
	m := NewModel("Story", func() { cancelled = true })

	tests := []struct {
		name     string
		msg      tea.Msg
		wantQuit bool
		check    func(t *testing.T, m Model)
	}{
		{
			name: "progress",
			msg:  ProgressMsg{Stage: studio.StageSynthesizing, Done: 1, Total: 4},
			check: func(t *testing.T, m Model) {
				view := m.View()
				if !strings.Contains(view, "Generating speech") {
					t.Errorf("View missing stage label:\n%s", view)
				}
				if !strings.Contains(view, "1/4") {
					t.Errorf("View missing chunk count:\n%s", view)
				}
			},
		},
		{
			name: "window size",
			msg:  tea.WindowSizeMsg{Width: 200, Height: 40},
			check: func(t *testing.T, m Model) {
				if m.bar.Width != maxBarWidth {
					t.Errorf("bar width = %d, want %d", m.bar.Width, maxBarWidth)
				}
			},
		},
		{
			name:     "done",
			msg:      DoneMsg{Result: testResult(), Path: "out.wav"},
			wantQuit: true,
			check: func(t *testing.T, m Model) {
				if res, path := m.Result(); res == nil || path != "out.wav" {
					t.Errorf("Result() = %v, %q", res, path)
				}
				if !strings.Contains(m.View(), "out.wav") {
					t.Errorf("View missing path:\n%s", m.View())
				}
			},
		},
		{
			name:     "failure",
			msg:      DoneMsg{Err: errors.New("quota exceeded")},
			wantQuit: true,
			check: func(t *testing.T, m Model) {
				if !strings.Contains(m.View(), "quota exceeded") {
					t.Errorf("View missing error:\n%s", m.View())
				}
			},
		},
		{
			name:     "quit",
			msg:      tea.KeyMsg{Type: tea.KeyCtrlC},
			wantQuit: true,
			check: func(t *testing.T, m Model) {
				if !cancelled {
					t.Error("quitting should cancel the conversion")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, cmd := m.Update(tt.msg)
			got := next.(Model)

			if tt.wantQuit {
				if cmd == nil {
					t.Fatal("expected quit command")
				}
				if _, ok := cmd().(tea.QuitMsg); !ok {
					t.Errorf("expected tea.QuitMsg")
				}
			}
			tt.check(t, got)
		})
	}
}

func TestSummary(t *testing.T) {
	s := Summary(testResult(), "voices/a.wav")

	for _, want := range []string{"voices/a.wav", "1s", "48 kB", "2 chunks"} {
		if !strings.Contains(s, want) {
			t.Errorf("Summary missing %q: %s", want, s)
		}
	}

	if s := Summary(testResult(), ""); !strings.Contains(s, "Converted") {
		t.Errorf("Summary without path = %s", s)
	}
}

func TestRun(t *testing.T) {
	opts := []tea.ProgramOption{
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
	}

	t.Run("success", func(t *testing.T) {
		res, path, err := Run(context.Background(), "test", func(ctx context.Context, progress func(studio.Progress)) (*studio.Result, string, error) {
			progress(studio.Progress{Stage: studio.StageSynthesizing, Total: 1})
			progress(studio.Progress{Stage: studio.StageDone, Done: 1, Total: 1})
			return testResult(), "x.wav", nil
		}, opts...)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if res == nil || path != "x.wav" {
			t.Errorf("Run() = %v, %q", res, path)
		}
	})

	t.Run("failure", func(t *testing.T) {
		want := errors.New("boom")
		_, _, err := Run(context.Background(), "test", func(context.Context, func(studio.Progress)) (*studio.Result, string, error) {
			return nil, "", want
		}, opts...)
		if !errors.Is(err, want) {
			t.Fatalf("Run error = %v, want %v", err, want)
		}
	})
}
