package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/clicktone/internal/audio"
	"github.com/jmylchreest/clicktone/internal/tone"
)

var playOpts struct {
	preset string
	force  bool
}

var playCmd = &cobra.Command{
	Use:   "play <click|hover|enter>",
	Short: "Play a single tone",
	Long: `Play one tone of the current (or given) preset and wait for it to finish.

Nothing is played while sounds are off unless --force is given.

Examples:
  clicktone play click
  clicktone play enter --preset retro`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"click", "hover", "enter"},
	RunE:      runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringVar(&playOpts.preset, "preset", "",
		"Preset to play from (default: the selected preset)")
	playCmd.Flags().BoolVar(&playOpts.force, "force", false,
		"Play even when sounds are off")
}

func runPlay(cmd *cobra.Command, args []string) error {
	action, err := tone.ParseAction(args[0])
	if err != nil {
		return err
	}

	m := newManager()
	state := m.State()
	m.Close()

	preset := state.Preset
	if playOpts.preset != "" {
		if preset, err = tone.ParsePreset(playOpts.preset); err != nil {
			return err
		}
	}

	if !state.Enabled && !playOpts.force {
		fmt.Println("Sound is off (use --force to play anyway)")
		return nil
	}

	spec, ok := tone.DefaultTable().Lookup(preset, action)
	if !ok {
		return fmt.Errorf("no %s tone for preset %s", action, preset)
	}
	freq := tone.Jitter(spec.BaseFrequencyHz, rand.Float64())

	if cfg.Audio.Mute {
		logger.Info("muted, not playing", "action", action.String(), "preset", preset.String())
		return audio.NewNoopEngine().Play(spec, freq)
	}

	engine, err := audio.NewSpeakerEngine(speakerOptions(), logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), spec.Duration+time.Second)
	defer cancel()

	if err := engine.PlayAndWait(ctx, spec, freq); err != nil {
		return fmt.Errorf("failed to play tone: %w", err)
	}

	// Let the speaker buffer drain before closing the device
	time.Sleep(cfg.Audio.Buffer.Duration())
	return nil
}
