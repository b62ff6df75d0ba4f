// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/clicktone/internal/tone"
)

// AppName is used for XDG directory names.
const AppName = "clicktone"

// Default configuration values.
const (
	DefaultVolume        = 100
	DefaultSampleRate    = 44100
	DefaultBuffer        = 50 * time.Millisecond
	DefaultHoverDebounce = 100 * time.Millisecond
	DefaultCardRateLimit = 300 * time.Millisecond
	DefaultNoticeFadeIn  = 300 * time.Millisecond
	DefaultNoticeHold    = 1700 * time.Millisecond
	DefaultNoticeFadeOut = 300 * time.Millisecond
)

// Config represents the clicktone configuration.
type Config struct {
	Audio    AudioConfig    `toml:"audio"`
	Defaults DefaultsConfig `toml:"defaults"`
	Timing   TimingConfig   `toml:"timing"`
	Keys     KeysConfig     `toml:"keys"`
	Page     PageConfig     `toml:"page"`
}

// AudioConfig contains output device settings.
type AudioConfig struct {
	Volume     int      `toml:"volume"`      // 0-100
	SampleRate int      `toml:"sample_rate"` // Hz
	Buffer     Duration `toml:"buffer"`      // speaker buffer length
	Mute       bool     `toml:"mute"`        // never open the audio device
}

// DefaultsConfig holds the preferences used when nothing is persisted yet.
type DefaultsConfig struct {
	Enabled bool   `toml:"enabled"`
	Preset  string `toml:"preset"` // terminal, mechanical, retro
}

// TimingConfig holds debounce and notice timings.
type TimingConfig struct {
	HoverDebounce Duration `toml:"hover_debounce"`
	CardRateLimit Duration `toml:"card_rate_limit"`
	NoticeFadeIn  Duration `toml:"notice_fade_in"`
	NoticeHold    Duration `toml:"notice_hold"`
	NoticeFadeOut Duration `toml:"notice_fade_out"`
}

// KeysConfig holds the key chords for sound controls.
// Chords use bubbletea key names, e.g. "alt+m".
type KeysConfig struct {
	Toggle     []string `toml:"toggle"`
	Terminal   []string `toml:"terminal"`
	Mechanical []string `toml:"mechanical"`
	Retro      []string `toml:"retro"`
}

// PageConfig selects the page description.
type PageConfig struct {
	Path string `toml:"path"` // Empty = embedded default page
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			Volume:     DefaultVolume,
			SampleRate: DefaultSampleRate,
			Buffer:     Duration(DefaultBuffer),
		},
		Defaults: DefaultsConfig{
			Enabled: true,
			Preset:  tone.Terminal.String(),
		},
		Timing: TimingConfig{
			HoverDebounce: Duration(DefaultHoverDebounce),
			CardRateLimit: Duration(DefaultCardRateLimit),
			NoticeFadeIn:  Duration(DefaultNoticeFadeIn),
			NoticeHold:    Duration(DefaultNoticeHold),
			NoticeFadeOut: Duration(DefaultNoticeFadeOut),
		},
		Keys: KeysConfig{
			// Most terminals report ctrl+m as enter and drop ctrl+digit,
			// so each chord also has an alt variant.
			Toggle:     []string{"ctrl+m", "alt+m"},
			Terminal:   []string{"ctrl+1", "alt+1"},
			Mechanical: []string{"ctrl+2", "alt+2"},
			Retro:      []string{"ctrl+3", "alt+3"},
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName, "config.toml")
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName)
}

// StatePath returns the path to the state directory used for logs.
// Uses XDG_STATE_HOME if set, otherwise ~/.local/state.
func StatePath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, AppName)
}

// PrefsPath returns the path to the persisted sound preferences.
func PrefsPath() string {
	return filepath.Join(DataPath(), "prefs.json")
}

// LogPath returns the path to the TUI log file.
func LogPath() string {
	return filepath.Join(StatePath(), AppName+".log")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// No config file, use defaults
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return fmt.Errorf("sample_rate must be between 8000 and 192000, got %d", c.Audio.SampleRate)
	}
	if c.Audio.Buffer.Duration() <= 0 {
		return fmt.Errorf("buffer must be positive, got %s", c.Audio.Buffer.Duration())
	}

	if _, err := tone.ParsePreset(c.Defaults.Preset); err != nil {
		return fmt.Errorf("defaults.preset: %w", err)
	}

	timings := map[string]Duration{
		"hover_debounce":  c.Timing.HoverDebounce,
		"card_rate_limit": c.Timing.CardRateLimit,
		"notice_fade_in":  c.Timing.NoticeFadeIn,
		"notice_hold":     c.Timing.NoticeHold,
		"notice_fade_out": c.Timing.NoticeFadeOut,
	}
	for name, d := range timings {
		if d.Duration() <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d.Duration())
		}
	}

	seen := make(map[string]string)
	chords := map[string][]string{
		"toggle":     c.Keys.Toggle,
		"terminal":   c.Keys.Terminal,
		"mechanical": c.Keys.Mechanical,
		"retro":      c.Keys.Retro,
	}
	for name, keys := range chords {
		for _, k := range keys {
			k = strings.TrimSpace(k)
			if k == "" {
				return fmt.Errorf("keys.%s contains an empty chord", name)
			}
			if slices.Contains(ReservedKeys, k) {
				return fmt.Errorf("keys.%s: %q is already used for navigation", name, k)
			}
			if other, dup := seen[k]; dup && other != name {
				return fmt.Errorf("chord %q bound to both %s and %s", k, other, name)
			}
			seen[k] = name
		}
	}

	return nil
}

// ReservedKeys are the page navigation, help and quit keys. Sound chords
// may not use them.
var ReservedKeys = []string{
	"up", "k", "shift+tab", "down", "j", "tab",
	"home", "g", "end", "G",
	"enter", " ",
	"?", "q", "ctrl+c",
}

// DefaultPreset returns the parsed default preset.
func (c *Config) DefaultPreset() tone.PresetKind {
	p, err := tone.ParsePreset(c.Defaults.Preset)
	if err != nil {
		return tone.Terminal
	}
	return p
}

// SpeakerVolume returns the master volume as a 0.0-1.0 gain.
func (c *Config) SpeakerVolume() float64 {
	return float64(c.Audio.Volume) / 100.0
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	path := DataPath()
	if path == "" {
		return errors.New("unable to determine data directory")
	}
	return os.MkdirAll(path, 0755)
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
