package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/clicktone/internal/page"
	"github.com/jmylchreest/clicktone/internal/sfx"
	"github.com/jmylchreest/clicktone/internal/store"
)

// RunOptions configures the TUI.
type RunOptions struct {
	Page  *page.Page
	Sound sfx.Options

	// Prefs is the preference store; when set, external edits of its file
	// are picked up while the TUI runs.
	Prefs  *store.FileKV
	Logger *slog.Logger

	// Focus is the id of the element the cursor starts on.
	Focus string
}

// Run starts the TUI with the given options and blocks until it exits.
func Run(opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var changes <-chan store.ChangeEvent
	var watcher *store.FileWatcher
	if opts.Prefs != nil {
		opts.Sound.Store = opts.Prefs
		changes = opts.Prefs.Subscribe()

		var err error
		watcher, err = store.NewFileWatcher(opts.Prefs, logger)
		if err != nil {
			logger.Warn("failed to create prefs watcher", "error", err)
		} else if err := watcher.Start(); err != nil {
			logger.Warn("failed to start prefs watcher", "error", err)
		}
	}

	m := New(Options{
		Page:    opts.Page,
		Sound:   opts.Sound,
		Changes: changes,
		Focus:   opts.Focus,
	})
	defer m.Manager().Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()

	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			logger.Debug("failed to stop prefs watcher", "error", err)
		}
	}

	return err
}
