package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/clicktone/internal/sfx"
	"github.com/jmylchreest/clicktone/internal/tone"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Turn sounds on or off",
	Long: `Flip the sound setting and remember it.

Turning sounds on plays the confirmation tone of the current preset.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m := newManager()
		defer m.Close()

		m.ToggleEnabled()
		return reportEnabled(m)
	},
}

var onCmd = &cobra.Command{
	Use:   "on",
	Short: "Turn sounds on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetEnabled(true)
	},
}

var offCmd = &cobra.Command{
	Use:   "off",
	Short: "Turn sounds off",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetEnabled(false)
	},
}

func init() {
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(onCmd)
	rootCmd.AddCommand(offCmd)
}

func runSetEnabled(enabled bool) error {
	m := newManager()
	defer m.Close()

	m.SetEnabled(enabled)
	return reportEnabled(m)
}

func reportEnabled(m *sfx.Manager) error {
	st := m.State()
	if st.Enabled {
		waitForTone(m, tone.Enter)
		fmt.Println("Sound on")
	} else {
		fmt.Println("Sound off")
	}
	return nil
}

// waitForTone keeps the process alive long enough for a tone started by m
// to be heard.
func waitForTone(m *sfx.Manager, action tone.Action) {
	if cfg.Audio.Mute || !m.EngineReady() || !m.State().Enabled {
		return
	}
	spec, ok := tone.DefaultTable().Lookup(m.State().Preset, action)
	if !ok {
		return
	}
	time.Sleep(spec.Duration + cfg.Audio.Buffer.Duration())
}
