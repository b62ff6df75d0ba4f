package sfx

import (
	"github.com/jmylchreest/clicktone/internal/tone"
)

// HandleClick reacts to a click on target. Any click first makes sure the
// audio engine exists.
func (m *Manager) HandleClick(target Target) {
	if !m.wired {
		return
	}
	m.EnsureAudioEngineReady()

	switch target.Kind {
	case TargetSoundToggle:
		m.ToggleEnabled()
		return
	case TargetPresetSelector:
		m.SetPreset(target.Preset)
		return
	case TargetTestButton:
		m.PlayTone(tone.Enter)
		return
	}

	if target.HasSound && m.state.Enabled {
		m.PlayTone(target.Sound)
	}
}

// HandleHoverEnter reacts to the pointer or focus arriving on target.
// Tagged elements play the Hover tone once the debounce window passes
// without another enter or a leave; elements tagged Enter stay quiet.
// Cards also get their own rate-limited hover tone.
func (m *Manager) HandleHoverEnter(target Target) {
	if !m.wired || !m.state.Enabled {
		return
	}

	if target.IsCard() {
		m.cardHover(target)
	}

	if !target.HasSound {
		return
	}

	m.hoverGen++
	gen := m.hoverGen
	m.hoverTarget = target.ID
	action := target.Sound
	m.sched.After(m.timing.HoverDebounce, func() {
		m.hoverElapsed(gen, action)
	})
}

// HandleHoverLeave cancels a pending hover tone for target.
func (m *Manager) HandleHoverLeave(target Target) {
	if m.hoverTarget != target.ID {
		return
	}
	m.hoverGen++
	m.hoverTarget = ""
}

func (m *Manager) hoverElapsed(gen uint64, action tone.Action) {
	if gen != m.hoverGen {
		return
	}
	m.hoverTarget = ""
	if action == tone.Enter {
		return
	}
	m.PlayTone(tone.Hover)
}

func (m *Manager) cardHover(target Target) {
	now := m.clock.Now()
	if last, ok := m.cardLastHover[target.ID]; ok && now.Sub(last) <= m.timing.CardRateLimit {
		return
	}
	m.cardLastHover[target.ID] = now
	m.PlayTone(tone.Hover)
}

// HandleKey handles a key chord and reports whether it was consumed, in
// which case the caller must not apply its default behaviour.
func (m *Manager) HandleKey(chord string) bool {
	if !m.wired {
		return false
	}

	switch {
	case matchChord(m.chords.Toggle, chord):
		m.ToggleEnabled()
	case matchChord(m.chords.Terminal, chord):
		m.SetPreset(tone.Terminal)
	case matchChord(m.chords.Mechanical, chord):
		m.SetPreset(tone.Mechanical)
	case matchChord(m.chords.Retro, chord):
		m.SetPreset(tone.Retro)
	default:
		return false
	}
	return true
}
