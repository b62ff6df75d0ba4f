package audio

import (
	"errors"

	"github.com/jmylchreest/clicktone/internal/tone"
)

// State is the playback state reported by an engine.
type State int

const (
	StateRunning State = iota
	StateSuspended
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var (
	// ErrInit is wrapped by errors from engine construction.
	ErrInit = errors.New("audio engine initialization failed")

	// ErrEngineClosed is returned when playing on a closed engine.
	ErrEngineClosed = errors.New("audio engine closed")
)

// Engine synthesizes and plays tones.
type Engine interface {
	// Suspend pauses output while sound is off.
	Suspend() error

	// Resume restarts playback after a suspension.
	Resume() error

	// State reports whether the engine can currently make sound.
	State() State

	// Play schedules spec at freq Hz and returns without waiting.
	Play(spec tone.ToneSpec, freq float64) error

	// Close releases the output device.
	Close()
}

// Factory constructs an engine. It is called at most once per manager.
type Factory func() (Engine, error)

// NoopEngine accepts every tone and plays nothing.
type NoopEngine struct {
	state State
}

// NewNoopEngine returns a silent engine.
func NewNoopEngine() *NoopEngine {
	return &NoopEngine{}
}

// NoopFactory returns a factory for silent engines.
func NoopFactory() Factory {
	return func() (Engine, error) {
		return NewNoopEngine(), nil
	}
}

// Suspend marks the engine suspended.
func (e *NoopEngine) Suspend() error {
	if e.state == StateClosed {
		return ErrEngineClosed
	}
	e.state = StateSuspended
	return nil
}

// Resume marks the engine running again.
func (e *NoopEngine) Resume() error {
	if e.state == StateClosed {
		return ErrEngineClosed
	}
	e.state = StateRunning
	return nil
}

// State reports the engine state.
func (e *NoopEngine) State() State {
	return e.state
}

// Play validates the tone and discards it.
func (e *NoopEngine) Play(spec tone.ToneSpec, _ float64) error {
	if e.state == StateClosed {
		return ErrEngineClosed
	}
	return spec.Validate()
}

// Close marks the engine closed.
func (e *NoopEngine) Close() {
	e.state = StateClosed
}
