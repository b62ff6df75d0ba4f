package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/clicktone/internal/config"
	"github.com/jmylchreest/clicktone/internal/page"
	"github.com/jmylchreest/clicktone/internal/tui"
)

var tuiOpts struct {
	page  string
	focus string
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive page",
	Long: `Launch the interactive terminal page with interface sounds.

Moving the cursor or the mouse over an element counts as hovering it;
enter, space or a mouse click activates it. The sound controls at the top
of the page toggle sound, pick a preset and play a test tone.

Key bindings:
  j/k, ↑/↓, tab    Move between elements
  enter/space      Activate element
  ctrl+m, alt+m    Toggle sound
  ctrl+1..3        Terminal / mechanical / retro preset (alt+1..3)
  ?                Show help
  q                Quit

Logs are written to ~/.local/state/clicktone/clicktone.log.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().StringVar(&tuiOpts.page, "page", "",
		fmt.Sprintf("Built-in page name (%s) or page YAML path (default: [page] path from config, else %q)",
			strings.Join(page.ListEmbeddedPages(), ", "), page.DefaultPageName))
	tuiCmd.Flags().StringVar(&tuiOpts.focus, "focus", "",
		"Id of the element the cursor starts on")
}

func runTUI(cmd *cobra.Command, args []string) error {
	pagePath := tuiOpts.page
	if pagePath == "" {
		pagePath = cfg.Page.Path
	}
	p, err := page.Resolve(config.ExpandPath(pagePath))
	if err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}

	if tuiOpts.focus != "" {
		page.Inject(p)
		if _, ok := p.Find(tuiOpts.focus); !ok {
			return fmt.Errorf("no element %q on the page", tuiOpts.focus)
		}
	}

	// The alt screen owns the terminal, so log to a file instead
	log, closeLog := fileLogger(config.LogPath())
	defer closeLog()

	return tui.Run(tui.RunOptions{
		Page:   p,
		Sound:  soundOptions(log),
		Prefs:  prefs,
		Logger: log,
		Focus:  tuiOpts.focus,
	})
}

// fileLogger returns a logger writing to path at the global level, or a
// discarding logger if the file cannot be opened.
func fileLogger(path string) (*slog.Logger, func()) {
	level := slog.LevelInfo
	if globalOpts.verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Warn("failed to create log directory", "error", err)
		return slog.New(slog.NewTextHandler(io.Discard, opts)), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logger.Warn("failed to open log file", "path", path, "error", err)
		return slog.New(slog.NewTextHandler(io.Discard, opts)), func() {}
	}

	return slog.New(slog.NewTextHandler(f, opts)), func() { _ = f.Close() }
}
