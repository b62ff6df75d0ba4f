package sfx

import (
	"time"

	"github.com/jmylchreest/clicktone/internal/tone"
)

// Persisted keys.
const (
	KeyEnabled = "soundEnabled"
	KeyPreset  = "soundPreset"
)

// Notice colours.
const (
	ColorSoundOn  = "#00ff00"
	ColorSoundOff = "#ff0033"
	ColorPreset   = "#00a8ff"
)

// State is a snapshot of the manager state.
type State struct {
	Enabled bool
	Preset  tone.PresetKind

	// Initialized is set once the audio engine construction has been
	// attempted, whether or not it succeeded.
	Initialized bool
}

// TargetKind classifies page elements for event handling.
type TargetKind int

const (
	TargetPlain TargetKind = iota
	TargetCharacterCard
	TargetEpisodeCard
	TargetSoundToggle
	TargetPresetSelector
	TargetTestButton
)

// Target is the part of a page element the manager reacts to.
type Target struct {
	ID   string
	Kind TargetKind

	// Sound is the element's tagged action, valid when HasSound is set.
	Sound    tone.Action
	HasSound bool

	// Preset is the preset a TargetPresetSelector selects.
	Preset tone.PresetKind
}

// IsCard reports whether the target gets the rate-limited card hover tone.
func (t Target) IsCard() bool {
	return t.Kind == TargetCharacterCard || t.Kind == TargetEpisodeCard
}

// NoticePhase is the visible stage of a transient notice.
type NoticePhase int

const (
	NoticeFadingIn NoticePhase = iota
	NoticeShown
	NoticeFadingOut
	NoticeRemoved
)

func (p NoticePhase) String() string {
	switch p {
	case NoticeFadingIn:
		return "fading-in"
	case NoticeShown:
		return "shown"
	case NoticeFadingOut:
		return "fading-out"
	default:
		return "removed"
	}
}

// Notice is a short-lived banner acknowledging a state change.
type Notice struct {
	ID    uint64
	Text  string
	Color string
	Phase NoticePhase
}

// Visible reports whether the notice should be drawn.
func (n Notice) Visible() bool {
	return n.ID != 0 && n.Phase != NoticeRemoved
}

// View receives the projection of manager state.
type View interface {
	// SetSoundIndicator updates the toggle control. hint describes what
	// activating the control will do.
	SetSoundIndicator(enabled bool, hint string)

	// HighlightPreset emphasises the selector for active and dims the rest.
	HighlightPreset(active tone.PresetKind)

	// SetNotice shows, restyles or removes the banner.
	SetNotice(n Notice)
}

// Scheduler runs fn after d on the same event loop as the manager.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Timing holds the debounce and notice durations.
type Timing struct {
	HoverDebounce time.Duration
	CardRateLimit time.Duration
	NoticeFadeIn  time.Duration
	NoticeHold    time.Duration
	NoticeFadeOut time.Duration
}

// DefaultTiming returns the standard timings.
func DefaultTiming() Timing {
	return Timing{
		HoverDebounce: 100 * time.Millisecond,
		CardRateLimit: 300 * time.Millisecond,
		NoticeFadeIn:  300 * time.Millisecond,
		NoticeHold:    1700 * time.Millisecond,
		NoticeFadeOut: 300 * time.Millisecond,
	}
}

// Chords maps key chord names to sound controls.
type Chords struct {
	Toggle     []string
	Terminal   []string
	Mechanical []string
	Retro      []string
}

// DefaultChords returns the standard chords.
func DefaultChords() Chords {
	return Chords{
		Toggle:     []string{"ctrl+m", "alt+m"},
		Terminal:   []string{"ctrl+1", "alt+1"},
		Mechanical: []string{"ctrl+2", "alt+2"},
		Retro:      []string{"ctrl+3", "alt+3"},
	}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// discardScheduler drops callbacks; used when no event loop exists.
type discardScheduler struct{}

func (discardScheduler) After(time.Duration, func()) {}
