// Package tone defines the sound presets and the short feedback tones
// synthesized for each user action.
package tone

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// PresetKind identifies a named bundle of tone parameters.
type PresetKind int

const (
	Terminal PresetKind = iota
	Mechanical
	Retro
)

var presetNames = [...]string{
	Terminal:   "terminal",
	Mechanical: "mechanical",
	Retro:      "retro",
}

// ErrUnknownPreset is returned when a preset name is not recognised.
var ErrUnknownPreset = errors.New("unknown sound preset")

// ErrUnknownAction is returned when an action name is not recognised.
var ErrUnknownAction = errors.New("unknown sound action")

// Presets returns every preset in selector order.
func Presets() []PresetKind {
	return []PresetKind{Terminal, Mechanical, Retro}
}

// Valid reports whether p is one of the defined presets.
func (p PresetKind) Valid() bool {
	return p >= Terminal && p <= Retro
}

// String returns the persisted name of the preset.
func (p PresetKind) String() string {
	if !p.Valid() {
		return fmt.Sprintf("preset(%d)", int(p))
	}
	return presetNames[p]
}

// DisplayName returns the upper-case label used in notices.
func (p PresetKind) DisplayName() string {
	return strings.ToUpper(p.String())
}

// ParsePreset parses a persisted preset name.
func ParsePreset(s string) (PresetKind, error) {
	for i, name := range presetNames {
		if s == name {
			return PresetKind(i), nil
		}
	}
	return Terminal, fmt.Errorf("%w: %q", ErrUnknownPreset, s)
}

// Action is the kind of interaction a tone acknowledges.
type Action int

const (
	Click Action = iota
	Hover
	Enter
)

var actionNames = [...]string{
	Click: "click",
	Hover: "hover",
	Enter: "enter",
}

// Actions returns every action.
func Actions() []Action {
	return []Action{Click, Hover, Enter}
}

// Valid reports whether a is one of the defined actions.
func (a Action) Valid() bool {
	return a >= Click && a <= Enter
}

func (a Action) String() string {
	if !a.Valid() {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction parses an action tag such as "click".
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if s == name {
			return Action(i), nil
		}
	}
	return Click, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Waveform is the oscillator shape of a tone.
type Waveform string

const (
	Sine     Waveform = "sine"
	Square   Waveform = "square"
	Sawtooth Waveform = "sawtooth"
	Triangle Waveform = "triangle"
)

// Valid reports whether w is a supported waveform.
func (w Waveform) Valid() bool {
	switch w {
	case Sine, Square, Sawtooth, Triangle:
		return true
	default:
		return false
	}
}

// ToneSpec describes a single enveloped oscillation.
type ToneSpec struct {
	BaseFrequencyHz float64
	Waveform        Waveform
	Duration        time.Duration
	PeakVolume      float64 // 0.0 to 1.0
}

// Validate checks the spec is playable.
func (s ToneSpec) Validate() error {
	switch {
	case s.BaseFrequencyHz <= 0:
		return fmt.Errorf("tone frequency must be positive, got %v", s.BaseFrequencyHz)
	case !s.Waveform.Valid():
		return fmt.Errorf("unsupported waveform %q", s.Waveform)
	case s.Duration <= 0:
		return fmt.Errorf("tone duration must be positive, got %v", s.Duration)
	case s.PeakVolume < 0 || s.PeakVolume > 1:
		return fmt.Errorf("tone volume must be within [0,1], got %v", s.PeakVolume)
	}
	return nil
}
