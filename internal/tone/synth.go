package tone

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
)

const (
	// MaxJitter is the largest relative deviation applied to a base frequency.
	MaxJitter = 0.05

	// AttackTime is the linear ramp from silence to peak volume.
	AttackTime = time.Millisecond

	// DecayFloor is the gain the exponential decay reaches at the end of a tone.
	DecayFloor = 0.001
)

// Jitter shifts base by up to ±MaxJitter using a uniform draw r in [0,1).
func Jitter(base, r float64) float64 {
	if r < 0 {
		r = 0
	}
	if r > 1 {
		r = 1
	}
	return base * (1 - MaxJitter + 2*MaxJitter*r)
}

// Envelope is the volume-over-time shape of a tone: a linear attack to
// Peak followed by an exponential decay that reaches DecayFloor at Duration.
type Envelope struct {
	Peak     float64
	Duration time.Duration
}

// Gain returns the envelope value at offset t from the start of the tone.
func (e Envelope) Gain(t time.Duration) float64 {
	if t <= 0 || e.Peak <= 0 {
		return 0
	}
	floor := math.Min(DecayFloor, e.Peak)
	if t >= e.Duration {
		return floor
	}
	if t < AttackTime {
		return e.Peak * float64(t) / float64(AttackTime)
	}
	// t lies in [AttackTime, Duration), so the decay window is non-empty.
	progress := float64(t-AttackTime) / float64(e.Duration-AttackTime)
	return e.Peak * math.Pow(floor/e.Peak, progress)
}

// Synthesize builds a streamer playing spec at freq Hz for exactly
// spec.Duration at sample rate sr.
func Synthesize(sr beep.SampleRate, spec ToneSpec, freq float64) (beep.Streamer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	osc, err := oscillator(sr, spec.Waveform, freq)
	if err != nil {
		return nil, err
	}

	env := Envelope{Peak: spec.PeakVolume, Duration: spec.Duration}
	pos := 0
	shaped := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := osc.Stream(samples)
		for i := range samples[:n] {
			g := env.Gain(sr.D(pos))
			samples[i][0] *= g
			samples[i][1] *= g
			pos++
		}
		return n, ok
	})

	return beep.Take(sr.N(spec.Duration), shaped), nil
}

func oscillator(sr beep.SampleRate, w Waveform, freq float64) (beep.Streamer, error) {
	switch w {
	case Sine:
		return generators.SineTone(sr, freq)
	case Square:
		return generators.SquareTone(sr, freq)
	case Sawtooth:
		return generators.SawtoothTone(sr, freq)
	case Triangle:
		return generators.TriangleTone(sr, freq)
	default:
		return nil, fmt.Errorf("unsupported waveform %q", w)
	}
}
