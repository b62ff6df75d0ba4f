package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/clicktone/internal/tone"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 100, cfg.Audio.Volume)
	assert.Equal(t, 44100, cfg.Audio.SampleRate)
	assert.Equal(t, 50*time.Millisecond, cfg.Audio.Buffer.Duration())
	assert.False(t, cfg.Audio.Mute)
	assert.True(t, cfg.Defaults.Enabled)
	assert.Equal(t, "terminal", cfg.Defaults.Preset)
	assert.Equal(t, 100*time.Millisecond, cfg.Timing.HoverDebounce.Duration())
	assert.Equal(t, 300*time.Millisecond, cfg.Timing.CardRateLimit.Duration())
	assert.Contains(t, cfg.Keys.Toggle, "ctrl+m")
	assert.Contains(t, cfg.Keys.Retro, "alt+3")
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Defaults.Preset, cfg.Defaults.Preset)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[audio]
volume = 40
sample_rate = 48000
buffer = "80ms"
mute = true

[defaults]
enabled = false
preset = "retro"

[timing]
hover_debounce = "150ms"
card_rate_limit = "1s"
notice_fade_in = "100ms"
notice_hold = "3s"
notice_fade_out = "200ms"

[keys]
toggle = ["alt+s"]
retro = ["alt+r"]

[page]
path = "~/pages/custom.yaml"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Audio.Volume)
	assert.Equal(t, 48000, cfg.Audio.SampleRate)
	assert.Equal(t, 80*time.Millisecond, cfg.Audio.Buffer.Duration())
	assert.True(t, cfg.Audio.Mute)
	assert.False(t, cfg.Defaults.Enabled)
	assert.Equal(t, tone.Retro, cfg.DefaultPreset())
	assert.Equal(t, 150*time.Millisecond, cfg.Timing.HoverDebounce.Duration())
	assert.Equal(t, time.Second, cfg.Timing.CardRateLimit.Duration())
	assert.Equal(t, 3*time.Second, cfg.Timing.NoticeHold.Duration())
	assert.Equal(t, []string{"alt+s"}, cfg.Keys.Toggle)
	assert.Equal(t, []string{"alt+r"}, cfg.Keys.Retro)
	// Unset tables keep their defaults
	assert.Equal(t, []string{"ctrl+2", "alt+2"}, cfg.Keys.Mechanical)
	assert.Equal(t, "~/pages/custom.yaml", cfg.Page.Path)
	assert.InDelta(t, 0.4, cfg.SpeakerVolume(), 1e-9)
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[defaults]
preset = "mechanical"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "mechanical", cfg.Defaults.Preset)
	assert.True(t, cfg.Defaults.Enabled)
	assert.Equal(t, 100, cfg.Audio.Volume)
	assert.Equal(t, DefaultNoticeHold, cfg.Timing.NoticeHold.Duration())
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`this is not valid toml [`), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[timing]\nhover_debounce = \"soon\"\n"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"volume_high", func(c *Config) { c.Audio.Volume = 101 }},
		{"volume_negative", func(c *Config) { c.Audio.Volume = -1 }},
		{"sample_rate", func(c *Config) { c.Audio.SampleRate = 100 }},
		{"buffer", func(c *Config) { c.Audio.Buffer = 0 }},
		{"preset", func(c *Config) { c.Defaults.Preset = "disco" }},
		{"debounce", func(c *Config) { c.Timing.HoverDebounce = 0 }},
		{"notice_hold", func(c *Config) { c.Timing.NoticeHold = Duration(-time.Second) }},
		{"empty_chord", func(c *Config) { c.Keys.Toggle = []string{" "} }},
		{"duplicate_chord", func(c *Config) { c.Keys.Retro = []string{"alt+m"} }},
		{"chord_is_quit", func(c *Config) { c.Keys.Toggle = []string{"q"} }},
		{"chord_is_activate", func(c *Config) { c.Keys.Terminal = []string{"enter"} }},
		{"chord_is_nav", func(c *Config) { c.Keys.Retro = []string{" j "} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.toml")

	cfg := DefaultConfig()
	cfg.Defaults.Preset = "retro"
	cfg.Timing.HoverDebounce = Duration(250 * time.Millisecond)

	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "retro", loaded.Defaults.Preset)
	assert.Equal(t, 250*time.Millisecond, loaded.Timing.HoverDebounce.Duration())
	assert.Equal(t, cfg.Keys, loaded.Keys)
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"100ms", 100 * time.Millisecond, false},
		{"2s", 2 * time.Second, false},
		{"250", 250 * time.Millisecond, false},
		{" 1.7s ", 1700 * time.Millisecond, false},
		{"later", 0, true},
		{"-5ms", 0, true},
		{"-5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.Duration())
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/clicktone/config.toml", ConfigPath())
}

func TestPrefsPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	assert.Equal(t, "/custom/data/clicktone/prefs.json", PrefsPath())
}

func TestLogPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	assert.Equal(t, "/custom/state/clicktone/clicktone.log", LogPath())
}

func TestEnsureDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	require.NoError(t, EnsureDataDir())

	info, err := os.Stat(filepath.Join(dir, "clicktone"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x.yaml"), ExpandPath("~/x.yaml"))
	assert.Equal(t, "/abs/x.yaml", ExpandPath("/abs/x.yaml"))
}
