package tone

import (
	"fmt"
	"time"
)

// Table maps a preset and an action to the tone that acknowledges it.
// A Table is immutable once built.
type Table struct {
	specs map[PresetKind]map[Action]ToneSpec
}

// NewTable builds a table from the given entries. Every preset present must
// carry a Click spec, which is the fallback for unmapped actions.
func NewTable(entries map[PresetKind]map[Action]ToneSpec) (Table, error) {
	specs := make(map[PresetKind]map[Action]ToneSpec, len(entries))
	for preset, actions := range entries {
		if !preset.Valid() {
			return Table{}, fmt.Errorf("%w: %d", ErrUnknownPreset, int(preset))
		}
		if _, ok := actions[Click]; !ok {
			return Table{}, fmt.Errorf("preset %s has no click tone", preset)
		}
		row := make(map[Action]ToneSpec, len(actions))
		for action, spec := range actions {
			if !action.Valid() {
				return Table{}, fmt.Errorf("%w: %d", ErrUnknownAction, int(action))
			}
			if err := spec.Validate(); err != nil {
				return Table{}, fmt.Errorf("preset %s action %s: %w", preset, action, err)
			}
			row[action] = spec
		}
		specs[preset] = row
	}
	return Table{specs: specs}, nil
}

// Lookup returns the tone for preset and action. An action missing from the
// preset's row falls back to the preset's Click tone. The second result is
// false only when the preset itself is absent.
func (t Table) Lookup(preset PresetKind, action Action) (ToneSpec, bool) {
	row, ok := t.specs[preset]
	if !ok {
		return ToneSpec{}, false
	}
	if spec, ok := row[action]; ok {
		return spec, true
	}
	return row[Click], true
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

var defaultEntries = map[PresetKind]map[Action]ToneSpec{
	Terminal: {
		Click: {BaseFrequencyHz: 1200, Waveform: Sine, Duration: ms(80), PeakVolume: 0.15},
		Hover: {BaseFrequencyHz: 800, Waveform: Sine, Duration: ms(40), PeakVolume: 0.08},
		Enter: {BaseFrequencyHz: 600, Waveform: Square, Duration: ms(120), PeakVolume: 0.2},
	},
	Mechanical: {
		Click: {BaseFrequencyHz: 150, Waveform: Square, Duration: ms(100), PeakVolume: 0.15},
		Hover: {BaseFrequencyHz: 100, Waveform: Square, Duration: ms(50), PeakVolume: 0.08},
		Enter: {BaseFrequencyHz: 200, Waveform: Sawtooth, Duration: ms(150), PeakVolume: 0.2},
	},
	Retro: {
		Click: {BaseFrequencyHz: 1000, Waveform: Triangle, Duration: ms(70), PeakVolume: 0.15},
		Hover: {BaseFrequencyHz: 700, Waveform: Triangle, Duration: ms(30), PeakVolume: 0.08},
		Enter: {BaseFrequencyHz: 500, Waveform: Square, Duration: ms(100), PeakVolume: 0.2},
	},
}

// DefaultTable returns the built-in tone table.
func DefaultTable() Table {
	t, err := NewTable(defaultEntries)
	if err != nil {
		panic(err)
	}
	return t
}
