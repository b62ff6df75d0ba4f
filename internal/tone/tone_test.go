package tone

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable_AllEntriesPlayable(t *testing.T) {
	table := DefaultTable()

	for _, preset := range Presets() {
		for _, action := range Actions() {
			t.Run(preset.String()+"/"+action.String(), func(t *testing.T) {
				spec, ok := table.Lookup(preset, action)
				require.True(t, ok)
				assert.Greater(t, spec.BaseFrequencyHz, 0.0)
				assert.Greater(t, spec.Duration, time.Duration(0))
				assert.Greater(t, spec.PeakVolume, 0.0)
				assert.LessOrEqual(t, spec.PeakVolume, 1.0)
				assert.True(t, spec.Waveform.Valid())
			})
		}
	}
}

func TestTable_LookupFallsBackToClick(t *testing.T) {
	click := ToneSpec{BaseFrequencyHz: 440, Waveform: Sine, Duration: 50 * time.Millisecond, PeakVolume: 0.1}
	table, err := NewTable(map[PresetKind]map[Action]ToneSpec{
		Retro: {Click: click},
	})
	require.NoError(t, err)

	spec, ok := table.Lookup(Retro, Hover)
	require.True(t, ok)
	assert.Equal(t, click, spec)

	_, ok = table.Lookup(Terminal, Click)
	assert.False(t, ok)
}

func TestNewTable_Rejects(t *testing.T) {
	good := ToneSpec{BaseFrequencyHz: 440, Waveform: Sine, Duration: 50 * time.Millisecond, PeakVolume: 0.1}

	tests := []struct {
		name    string
		entries map[PresetKind]map[Action]ToneSpec
	}{
		{"missing_click", map[PresetKind]map[Action]ToneSpec{Terminal: {Hover: good}}},
		{"bad_preset", map[PresetKind]map[Action]ToneSpec{PresetKind(7): {Click: good}}},
		{"bad_action", map[PresetKind]map[Action]ToneSpec{Terminal: {Click: good, Action(9): good}}},
		{"loud", map[PresetKind]map[Action]ToneSpec{Terminal: {Click: {BaseFrequencyHz: 440, Waveform: Sine, Duration: time.Millisecond, PeakVolume: 1.5}}}},
		{"silent_freq", map[PresetKind]map[Action]ToneSpec{Terminal: {Click: {Waveform: Sine, Duration: time.Millisecond, PeakVolume: 0.5}}}},
		{"bad_wave", map[PresetKind]map[Action]ToneSpec{Terminal: {Click: {BaseFrequencyHz: 440, Waveform: "noise", Duration: time.Millisecond, PeakVolume: 0.5}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.entries)
			assert.Error(t, err)
		})
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		input    string
		expected PresetKind
		wantErr  bool
	}{
		{"terminal", Terminal, false},
		{"mechanical", Mechanical, false},
		{"retro", Retro, false},
		{"Retro", Terminal, true},
		{"", Terminal, true},
		{"disco", Terminal, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePreset(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownPreset)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestPresetKind_Valid(t *testing.T) {
	assert.True(t, Terminal.Valid())
	assert.True(t, Retro.Valid())
	assert.False(t, PresetKind(-1).Valid())
	assert.False(t, PresetKind(3).Valid())
	assert.Equal(t, "MECHANICAL", Mechanical.DisplayName())
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("hover")
	require.NoError(t, err)
	assert.Equal(t, Hover, a)

	_, err = ParseAction("scroll")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestJitter_StaysWithinFivePercent(t *testing.T) {
	base := 1000.0
	for _, r := range []float64{0, 0.25, 0.5, 0.999, -3, 4} {
		got := Jitter(base, r)
		assert.GreaterOrEqual(t, got, base*0.95, "r=%v", r)
		assert.LessOrEqual(t, got, base*1.05, "r=%v", r)
	}
	assert.InDelta(t, base, Jitter(base, 0.5), 1e-9)
}

func TestEnvelope_Shape(t *testing.T) {
	env := Envelope{Peak: 0.2, Duration: 100 * time.Millisecond}

	assert.Equal(t, 0.0, env.Gain(0))
	assert.InDelta(t, 0.1, env.Gain(500*time.Microsecond), 1e-9)
	assert.InDelta(t, 0.2, env.Gain(AttackTime), 1e-9)

	// Strictly decreasing after the attack and never zero.
	prev := env.Gain(AttackTime)
	for d := 5 * time.Millisecond; d < env.Duration; d += 5 * time.Millisecond {
		g := env.Gain(d)
		assert.Less(t, g, prev, "at %v", d)
		assert.Greater(t, g, 0.0)
		prev = g
	}
	assert.InDelta(t, DecayFloor, env.Gain(env.Duration), 1e-12)
}

func TestEnvelope_ZeroPeak(t *testing.T) {
	env := Envelope{Peak: 0, Duration: 10 * time.Millisecond}
	assert.Equal(t, 0.0, env.Gain(5*time.Millisecond))
}

func TestSynthesize_LengthAndAmplitude(t *testing.T) {
	sr := beep.SampleRate(44100)
	table := DefaultTable()

	for _, preset := range Presets() {
		spec, _ := table.Lookup(preset, Enter)
		t.Run(preset.String(), func(t *testing.T) {
			s, err := Synthesize(sr, spec, Jitter(spec.BaseFrequencyHz, 0.3))
			require.NoError(t, err)

			buf := make([][2]float64, 512)
			total := 0
			peak := 0.0
			for {
				n, ok := s.Stream(buf)
				for _, sample := range buf[:n] {
					peak = math.Max(peak, math.Abs(sample[0]))
				}
				total += n
				if !ok {
					break
				}
			}

			assert.Equal(t, sr.N(spec.Duration), total)
			assert.LessOrEqual(t, peak, spec.PeakVolume+1e-9)
			assert.Greater(t, peak, 0.0)
		})
	}
}

func TestSynthesize_InvalidSpec(t *testing.T) {
	_, err := Synthesize(beep.SampleRate(44100), ToneSpec{Waveform: Sine}, 440)
	assert.Error(t, err)
}
