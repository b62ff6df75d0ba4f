package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/clicktone/internal/tone"
)

var presetCmd = &cobra.Command{
	Use:   "preset <terminal|mechanical|retro>",
	Short: "Select the sound preset",
	Long: `Select and remember the sound preset.

When sounds are on, the confirmation tone of the new preset is played.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: presetNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := tone.ParsePreset(args[0])
		if err != nil {
			return fmt.Errorf("%w (valid: %s)", err, strings.Join(presetNames(), ", "))
		}

		m := newManager()
		defer m.Close()

		// Only open the audio device when the tone will be heard
		if m.State().Enabled {
			m.EnsureAudioEngineReady()
		}
		m.SetPreset(kind)
		waitForTone(m, tone.Enter)

		fmt.Printf("Preset: %s\n", kind)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetCmd)
}

func presetNames() []string {
	var names []string
	for _, p := range tone.Presets() {
		names = append(names, p.String())
	}
	return names
}
