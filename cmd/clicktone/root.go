// Package main provides the CLI entrypoint for clicktone.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/clicktone/internal/audio"
	"github.com/jmylchreest/clicktone/internal/config"
	"github.com/jmylchreest/clicktone/internal/sfx"
	"github.com/jmylchreest/clicktone/internal/store"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		mute       bool
		prefsFile  string
		configPath string
	}
	logger *slog.Logger

	// prefs is the persisted sound preference store
	prefs *store.FileKV
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "clicktone",
	Short: "Retro interface sounds for a terminal page",
	Long: `clicktone plays short synthesized interface sounds (clicks, hovers and
confirmations) while you browse an interactive terminal page.

Sounds can be toggled and switched between the terminal, mechanical and
retro presets. The choice is remembered between runs.

Running clicktone without a subcommand launches the interactive TUI.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup logging
		setupLogger()

		// Load configuration
		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if globalOpts.mute {
			cfg.Audio.Mute = true
		}

		// Use custom prefs file path if specified, otherwise use default
		prefsPath := globalOpts.prefsFile
		if prefsPath == "" {
			if err := config.EnsureDataDir(); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			prefsPath = config.PrefsPath()
		}

		prefs, err = store.OpenFileKV(config.ExpandPath(prefsPath))
		if err != nil {
			return fmt.Errorf("failed to open preferences: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if prefs != nil {
			return prefs.Close()
		}
		return nil
	},
	// Default to TUI when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&globalOpts.mute, "mute", false,
		"Never open the audio device")
	rootCmd.PersistentFlags().StringVar(&globalOpts.prefsFile, "prefs-file", "",
		"Path to preferences file (default: ~/.local/share/clicktone/prefs.json)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/clicktone/config.toml)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// engineFactory returns the audio engine factory for the loaded config.
func engineFactory(log *slog.Logger) audio.Factory {
	if cfg.Audio.Mute {
		return audio.NoopFactory()
	}
	return audio.SpeakerFactory(speakerOptions(), log)
}

func speakerOptions() audio.SpeakerOptions {
	return audio.SpeakerOptions{
		SampleRate: cfg.Audio.SampleRate,
		Buffer:     cfg.Audio.Buffer.Duration(),
		Volume:     cfg.SpeakerVolume(),
	}
}

// soundOptions builds sound manager options from the loaded config.
// View and Scheduler are left for the caller.
func soundOptions(log *slog.Logger) sfx.Options {
	return sfx.Options{
		Store:  prefs,
		Engine: engineFactory(log),
		Timing: sfx.Timing{
			HoverDebounce: cfg.Timing.HoverDebounce.Duration(),
			CardRateLimit: cfg.Timing.CardRateLimit.Duration(),
			NoticeFadeIn:  cfg.Timing.NoticeFadeIn.Duration(),
			NoticeHold:    cfg.Timing.NoticeHold.Duration(),
			NoticeFadeOut: cfg.Timing.NoticeFadeOut.Duration(),
		},
		Chords: sfx.Chords{
			Toggle:     cfg.Keys.Toggle,
			Terminal:   cfg.Keys.Terminal,
			Mechanical: cfg.Keys.Mechanical,
			Retro:      cfg.Keys.Retro,
		},
		Logger:            log,
		DisabledByDefault: !cfg.Defaults.Enabled,
		DefaultPreset:     cfg.DefaultPreset(),
	}
}

// newManager returns an initialized manager for one-shot commands.
func newManager() *sfx.Manager {
	m := sfx.New(soundOptions(logger))
	m.Initialize()
	return m
}
