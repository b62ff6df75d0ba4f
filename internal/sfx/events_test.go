package sfx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/clicktone/internal/tone"
)

var (
	link   = Target{ID: "link", Sound: tone.Click, HasSound: true}
	other  = Target{ID: "other", Sound: tone.Click, HasSound: true}
	submit = Target{ID: "submit", Sound: tone.Enter, HasSound: true}
	plain  = Target{ID: "plain"}
	card   = Target{ID: "card", Kind: TargetCharacterCard}
	card2  = Target{ID: "card2", Kind: TargetEpisodeCard}
)

func hoverSpec(t *testing.T, preset tone.PresetKind) tone.ToneSpec {
	t.Helper()
	spec, ok := tone.DefaultTable().Lookup(preset, tone.Hover)
	require.True(t, ok)
	return spec
}

func countSpec(plays []playCall, spec tone.ToneSpec) int {
	n := 0
	for _, p := range plays {
		if p.spec == spec {
			n++
		}
	}
	return n
}

func TestHandleClick_EnsuresEngine(t *testing.T) {
	h := newHarness(t, nil)

	h.m.HandleClick(plain)

	assert.Equal(t, 1, h.builds)
	assert.True(t, h.m.State().Initialized)
	assert.Empty(t, h.engine.plays, "untagged elements are silent")
}

func TestHandleClick_TaggedElement(t *testing.T) {
	h := newHarness(t, nil)

	h.m.HandleClick(link)

	require.Len(t, h.engine.plays, 1)
	click, _ := tone.DefaultTable().Lookup(tone.Terminal, tone.Click)
	assert.Equal(t, click, h.engine.plays[0].spec)
}

func TestHandleClick_Controls(t *testing.T) {
	h := newHarness(t, nil)

	h.m.HandleClick(Target{ID: "toggle", Kind: TargetSoundToggle})
	assert.False(t, h.m.State().Enabled)

	h.m.HandleClick(Target{ID: "toggle", Kind: TargetSoundToggle})
	assert.True(t, h.m.State().Enabled)

	h.m.HandleClick(Target{ID: "sel", Kind: TargetPresetSelector, Preset: tone.Mechanical})
	assert.Equal(t, tone.Mechanical, h.m.State().Preset)

	plays := len(h.engine.plays)
	h.m.HandleClick(Target{ID: "test", Kind: TargetTestButton})
	require.Len(t, h.engine.plays, plays+1)
	enter, _ := tone.DefaultTable().Lookup(tone.Mechanical, tone.Enter)
	assert.Equal(t, enter, h.engine.plays[plays].spec)
}

func TestHandleClick_BeforeInitialize(t *testing.T) {
	m := New(Options{})
	m.HandleClick(link)
	assert.False(t, m.State().Initialized)
}

func TestHover_Debounced(t *testing.T) {
	h := newHarness(t, nil).ready()
	spec := hoverSpec(t, tone.Terminal)

	// A burst of enters inside the window yields a single tone
	for range 5 {
		h.m.HandleHoverEnter(link)
		h.sched.Advance(20 * time.Millisecond)
	}
	assert.Zero(t, countSpec(h.engine.plays, spec))

	h.sched.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, countSpec(h.engine.plays, spec))

	h.sched.Advance(time.Second)
	assert.Equal(t, 1, countSpec(h.engine.plays, spec))
}

func TestHover_SwitchingElementsRestartsWindow(t *testing.T) {
	h := newHarness(t, nil).ready()
	spec := hoverSpec(t, tone.Terminal)

	h.m.HandleHoverEnter(link)
	h.sched.Advance(50 * time.Millisecond)
	h.m.HandleHoverLeave(link)
	h.m.HandleHoverEnter(other)
	h.sched.Advance(99 * time.Millisecond)
	assert.Zero(t, countSpec(h.engine.plays, spec))

	h.sched.Advance(time.Millisecond)
	assert.Equal(t, 1, countSpec(h.engine.plays, spec))
}

func TestHover_LeaveCancels(t *testing.T) {
	h := newHarness(t, nil).ready()

	h.m.HandleHoverEnter(link)
	h.sched.Advance(50 * time.Millisecond)
	h.m.HandleHoverLeave(link)
	h.sched.Advance(time.Second)

	assert.Empty(t, h.engine.plays)
}

func TestHover_LeaveOfOtherElementKeepsPending(t *testing.T) {
	h := newHarness(t, nil).ready()

	h.m.HandleHoverEnter(link)
	h.m.HandleHoverLeave(other)
	h.sched.Advance(time.Second)

	assert.Len(t, h.engine.plays, 1)
}

func TestHover_EnterTaggedIsSilent(t *testing.T) {
	h := newHarness(t, nil).ready()

	h.m.HandleHoverEnter(submit)
	h.sched.Advance(time.Second)

	assert.Empty(t, h.engine.plays)
}

func TestHover_UntaggedIsSilent(t *testing.T) {
	h := newHarness(t, nil).ready()

	h.m.HandleHoverEnter(plain)
	h.sched.Advance(time.Second)

	assert.Empty(t, h.engine.plays)
}

func TestHover_Disabled(t *testing.T) {
	h := newHarness(t, map[string]string{KeyEnabled: "false"}).ready()

	h.m.HandleHoverEnter(link)
	h.m.HandleHoverEnter(card)
	h.sched.Advance(time.Second)

	assert.Empty(t, h.engine.plays)
}

func TestHover_DisabledDuringDebounce(t *testing.T) {
	h := newHarness(t, nil).ready()

	h.m.HandleHoverEnter(link)
	h.m.ToggleEnabled()
	h.sched.Advance(time.Second)

	assert.Empty(t, h.engine.plays)
}

func TestCardHover_RateLimited(t *testing.T) {
	h := newHarness(t, nil).ready()
	spec := hoverSpec(t, tone.Terminal)

	h.m.HandleHoverEnter(card)
	assert.Equal(t, 1, countSpec(h.engine.plays, spec), "cards play immediately")

	h.clock.Advance(100 * time.Millisecond)
	h.m.HandleHoverEnter(card)
	h.clock.Advance(200 * time.Millisecond)
	h.m.HandleHoverEnter(card)
	assert.Equal(t, 1, countSpec(h.engine.plays, spec))

	h.clock.Advance(301 * time.Millisecond)
	h.m.HandleHoverEnter(card)
	assert.Equal(t, 2, countSpec(h.engine.plays, spec))
}

func TestCardHover_PerCard(t *testing.T) {
	h := newHarness(t, nil).ready()
	spec := hoverSpec(t, tone.Terminal)

	h.m.HandleHoverEnter(card)
	h.clock.Advance(10 * time.Millisecond)
	h.m.HandleHoverEnter(card2)

	assert.Equal(t, 2, countSpec(h.engine.plays, spec))
}

func TestCardHover_TaggedCardAlsoDebounces(t *testing.T) {
	h := newHarness(t, nil).ready()
	spec := hoverSpec(t, tone.Terminal)
	tagged := Target{ID: "tagged-card", Kind: TargetCharacterCard, Sound: tone.Click, HasSound: true}

	h.m.HandleHoverEnter(tagged)
	assert.Equal(t, 1, countSpec(h.engine.plays, spec))

	h.sched.Advance(100 * time.Millisecond)
	assert.Equal(t, 2, countSpec(h.engine.plays, spec))
}

func TestHandleKey(t *testing.T) {
	tests := []struct {
		chord      string
		consumed   bool
		wantPreset tone.PresetKind
		wantOn     bool
	}{
		{"ctrl+m", true, tone.Terminal, false},
		{"alt+m", true, tone.Terminal, false},
		{"ctrl+1", true, tone.Terminal, true},
		{"ctrl+2", true, tone.Mechanical, true},
		{"alt+2", true, tone.Mechanical, true},
		{"ctrl+3", true, tone.Retro, true},
		{"alt+3", true, tone.Retro, true},
		{"m", false, tone.Terminal, true},
		{"2", false, tone.Terminal, true},
		{"ctrl+4", false, tone.Terminal, true},
	}

	for _, tt := range tests {
		t.Run(tt.chord, func(t *testing.T) {
			h := newHarness(t, nil).ready()

			assert.Equal(t, tt.consumed, h.m.HandleKey(tt.chord))
			assert.Equal(t, tt.wantPreset, h.m.State().Preset)
			assert.Equal(t, tt.wantOn, h.m.State().Enabled)
		})
	}
}

func TestHandleKey_CustomChords(t *testing.T) {
	m := New(Options{Chords: Chords{Toggle: []string{"f9"}}})
	m.Initialize()

	assert.True(t, m.HandleKey("f9"))
	assert.False(t, m.State().Enabled)
	assert.False(t, m.HandleKey("ctrl+m"), "defaults are replaced")
	assert.False(t, m.HandleKey("ctrl+1"))
}

func TestHandleKey_BeforeInitialize(t *testing.T) {
	m := New(Options{})
	assert.False(t, m.HandleKey("ctrl+m"))
	assert.True(t, m.State().Enabled)
}

func TestRefreshUI_HintUsesFirstToggleChord(t *testing.T) {
	v := &fakeView{}
	m := New(Options{View: v, Chords: Chords{Toggle: []string{"f9", "ctrl+m"}}})
	m.Initialize()
	assert.Equal(t, "Mute sound (f9)", v.hint)
}
