package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/clicktone/internal/sfx"
)

var statusOpts struct {
	json bool
}

// Status is the machine-readable sound preference state.
type Status struct {
	Enabled   bool       `json:"enabled"`
	Preset    string     `json:"preset"`
	PrefsFile string     `json:"prefs_file"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Stored is the raw content of the preferences file.
	Stored map[string]string `json:"stored"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current sound preferences",
	Long: `Show whether sounds are enabled, the selected preset and where the
preferences are stored.

Use --json for output suitable for scripts and status bars.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusOpts.json, "json", false,
		"Output status as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	m := newManager()
	st := currentStatus(m.State())
	m.Close()

	if statusOpts.json {
		encoder := json.NewEncoder(os.Stdout)
		return encoder.Encode(st)
	}

	enabled := "off"
	if st.Enabled {
		enabled = "on"
	}
	updated := "never"
	if st.UpdatedAt != nil {
		updated = humanize.Time(*st.UpdatedAt)
	}

	fmt.Printf("Sound:   %s\n", enabled)
	fmt.Printf("Preset:  %s\n", st.Preset)
	fmt.Printf("Prefs:   %s (updated %s)\n", st.PrefsFile, updated)

	if globalOpts.verbose {
		keys := slices.Sorted(maps.Keys(st.Stored))
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", k, st.Stored[k])
		}
	}
	return nil
}

func currentStatus(state sfx.State) Status {
	st := Status{
		Enabled:   state.Enabled,
		Preset:    state.Preset.String(),
		PrefsFile: prefs.Path(),
		Stored:    prefs.Snapshot(),
	}
	if info, err := os.Stat(prefs.Path()); err == nil {
		mod := info.ModTime()
		st.UpdatedAt = &mod
	}
	return st
}
