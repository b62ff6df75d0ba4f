package audio

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/jmylchreest/clicktone/internal/tone"
)

// SpeakerOptions configures the speaker engine.
type SpeakerOptions struct {
	SampleRate int           // Hz
	Buffer     time.Duration // speaker buffer, trades latency for stability
	Volume     float64       // master volume, 0.0 to 1.0
}

// DefaultSpeakerOptions returns low-latency defaults.
func DefaultSpeakerOptions() SpeakerOptions {
	return SpeakerOptions{
		SampleRate: 44100,
		Buffer:     50 * time.Millisecond,
		Volume:     1.0,
	}
}

// SpeakerEngine plays tones through the system audio device via beep.
type SpeakerEngine struct {
	mu     sync.Mutex
	logger *slog.Logger

	sampleRate beep.SampleRate
	volume     float64
	state      State
}

// NewSpeakerEngine initializes the speaker and returns a running engine.
func NewSpeakerEngine(opts SpeakerOptions, logger *slog.Logger) (*SpeakerEngine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSpeakerOptions().SampleRate
	}
	if opts.Buffer <= 0 {
		opts.Buffer = DefaultSpeakerOptions().Buffer
	}

	sr := beep.SampleRate(opts.SampleRate)
	if err := speaker.Init(sr, sr.N(opts.Buffer)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}

	e := &SpeakerEngine{
		logger:     logger,
		sampleRate: sr,
		volume:     clampVolume(opts.Volume),
		state:      StateRunning,
	}
	logger.Debug("speaker initialized", "sample_rate", opts.SampleRate, "buffer", opts.Buffer)
	return e, nil
}

// SpeakerFactory returns a factory that builds a speaker engine on demand.
func SpeakerFactory(opts SpeakerOptions, logger *slog.Logger) Factory {
	return func() (Engine, error) {
		return NewSpeakerEngine(opts, logger)
	}
}

// State reports the engine state.
func (e *SpeakerEngine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Suspend pauses the speaker. Suspending a suspended engine does nothing.
func (e *SpeakerEngine) Suspend() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateClosed:
		return ErrEngineClosed
	case StateSuspended:
		return nil
	}
	if err := speaker.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend speaker: %w", err)
	}
	e.state = StateSuspended
	return nil
}

// Resume restarts a suspended speaker.
func (e *SpeakerEngine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateClosed:
		return ErrEngineClosed
	case StateRunning:
		return nil
	}
	if err := speaker.Resume(); err != nil {
		return fmt.Errorf("failed to resume speaker: %w", err)
	}
	e.state = StateRunning
	return nil
}

// Play synthesizes spec at freq Hz and queues it on the speaker.
func (e *SpeakerEngine) Play(spec tone.ToneSpec, freq float64) error {
	return e.play(spec, freq, nil)
}

// PlayAndWait plays a tone and blocks until it has finished or ctx is done.
func (e *SpeakerEngine) PlayAndWait(ctx context.Context, spec tone.ToneSpec, freq float64) error {
	done := make(chan struct{})
	if err := e.play(spec, freq, func() { close(done) }); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *SpeakerEngine) play(spec tone.ToneSpec, freq float64, onDone func()) error {
	e.mu.Lock()
	state := e.state
	volume := e.volume
	sr := e.sampleRate
	e.mu.Unlock()

	if state == StateClosed {
		return ErrEngineClosed
	}

	streamer, err := tone.Synthesize(sr, spec, freq)
	if err != nil {
		return fmt.Errorf("failed to synthesize tone: %w", err)
	}

	// Apply master volume
	if volume < 1.0 {
		streamer = &effects.Volume{
			Streamer: streamer,
			Base:     2,
			Volume:   volumeToExponent(volume),
			Silent:   volume == 0,
		}
	}

	if onDone != nil {
		streamer = beep.Seq(streamer, beep.Callback(onDone))
	}

	speaker.Play(streamer)
	return nil
}

// Close stops all playback and releases the device.
func (e *SpeakerEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateClosed {
		return
	}
	speaker.Close()
	e.state = StateClosed
	e.logger.Debug("speaker closed")
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// volumeToExponent converts a linear gain (0-1) into the base-2 exponent
// used by effects.Volume.
func volumeToExponent(volume float64) float64 {
	if volume <= 0 {
		return -10 // effectively silent
	}
	return math.Log2(volume)
}
