package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/clicktone/internal/sfx"
	"github.com/jmylchreest/clicktone/internal/tone"
)

// timerMsg carries a scheduled manager callback back into Update.
type timerMsg struct {
	fn func()
}

// surface is what the sound manager renders into and schedules on. It is
// shared by pointer between copies of the Model.
type surface struct {
	enabled bool
	hint    string
	preset  tone.PresetKind
	notice  sfx.Notice

	tick    func(d time.Duration, fn func()) tea.Cmd
	pending []tea.Cmd
}

func newSurface() *surface {
	return &surface{tick: tickCmd}
}

func tickCmd(d time.Duration, fn func()) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{fn: fn}
	})
}

func (s *surface) SetSoundIndicator(enabled bool, hint string) {
	s.enabled = enabled
	s.hint = hint
}

func (s *surface) HighlightPreset(active tone.PresetKind) {
	s.preset = active
}

func (s *surface) SetNotice(n sfx.Notice) {
	s.notice = n
}

// After queues fn to run on the update loop once d has passed.
func (s *surface) After(d time.Duration, fn func()) {
	s.pending = append(s.pending, s.tick(d, fn))
}

// drain returns the timers queued since the last call.
func (s *surface) drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}
