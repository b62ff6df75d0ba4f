package sfx

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"

	"github.com/jmylchreest/clicktone/internal/audio"
	"github.com/jmylchreest/clicktone/internal/store"
	"github.com/jmylchreest/clicktone/internal/tone"
)

// Options configures a Manager. Only Store is required.
type Options struct {
	Store     store.KV
	Engine    audio.Factory
	View      View
	Scheduler Scheduler
	Clock     Clock
	Rand      func() float64 // uniform in [0,1)
	Table     *tone.Table
	Timing    Timing
	Chords    Chords
	Logger    *slog.Logger

	// Defaults apply when nothing valid is persisted. Sound starts
	// enabled unless DisabledByDefault is set.
	DisabledByDefault bool
	DefaultPreset     tone.PresetKind
}

// Manager is the sound preference manager.
type Manager struct {
	kv      store.KV
	factory audio.Factory
	view    View
	sched   Scheduler
	clock   Clock
	rand    func() float64
	table   tone.Table
	timing  Timing
	chords  Chords
	logger  *slog.Logger

	defaultEnabled bool
	defaultPreset  tone.PresetKind

	state  State
	engine audio.Engine
	wired  bool

	// Pending hover debounce; a new enter or a leave bumps hoverGen so the
	// scheduled callback for an older hover is ignored.
	hoverGen    uint64
	hoverTarget string

	cardLastHover map[string]time.Time

	notice    Notice
	noticeSeq uint64
}

// New creates a manager. Call Initialize before routing events to it.
func New(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = discardScheduler{}
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.Float64
	}
	table := tone.DefaultTable()
	if opts.Table != nil {
		table = *opts.Table
	}
	if opts.Timing == (Timing{}) {
		opts.Timing = DefaultTiming()
	}
	if !opts.DefaultPreset.Valid() {
		opts.DefaultPreset = tone.Terminal
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryKV(nil)
	}
	if opts.Chords.Toggle == nil && opts.Chords.Terminal == nil &&
		opts.Chords.Mechanical == nil && opts.Chords.Retro == nil {
		opts.Chords = DefaultChords()
	}

	return &Manager{
		kv:             opts.Store,
		factory:        opts.Engine,
		view:           opts.View,
		sched:          opts.Scheduler,
		clock:          opts.Clock,
		rand:           opts.Rand,
		table:          table,
		timing:         opts.Timing,
		chords:         opts.Chords,
		logger:         opts.Logger,
		defaultEnabled: !opts.DisabledByDefault,
		defaultPreset:  opts.DefaultPreset,
		state: State{
			Enabled: !opts.DisabledByDefault,
			Preset:  opts.DefaultPreset,
		},
		cardLastHover: make(map[string]time.Time),
	}
}

// Initialize loads persisted preferences and renders the initial view.
// Calls after the first are no-ops.
func (m *Manager) Initialize() {
	if m.wired {
		return
	}
	m.wired = true

	m.load()
	m.RefreshUI()
	m.logger.Info("sound manager initialized",
		"enabled", m.state.Enabled,
		"preset", m.state.Preset.String(),
	)
}

// State returns a snapshot of the manager state.
func (m *Manager) State() State {
	return m.state
}

// EngineReady reports whether an audio engine is available.
func (m *Manager) EngineReady() bool {
	return m.engine != nil
}

// Chords returns the key chords the manager reacts to.
func (m *Manager) Chords() Chords {
	return m.chords
}

// Notice returns the current banner.
func (m *Manager) Notice() Notice {
	return m.notice
}

// load reads persisted preferences, falling back to the defaults for
// missing or malformed values.
func (m *Manager) load() {
	m.state.Enabled = m.defaultEnabled
	m.state.Preset = m.defaultPreset

	if v, ok := m.kv.Get(KeyEnabled); ok {
		if enabled, err := strconv.ParseBool(v); err == nil {
			m.state.Enabled = enabled
		} else {
			m.logger.Debug("ignoring malformed persisted value", "key", KeyEnabled, "value", v)
		}
	}

	if v, ok := m.kv.Get(KeyPreset); ok {
		if preset, err := tone.ParsePreset(v); err == nil {
			m.state.Preset = preset
		} else {
			m.logger.Debug("ignoring malformed persisted value", "key", KeyPreset, "value", v)
		}
	}
}

func (m *Manager) persist() {
	if err := m.kv.Set(KeyEnabled, strconv.FormatBool(m.state.Enabled)); err != nil {
		m.logger.Warn("failed to persist sound preference", "key", KeyEnabled, "error", err)
	}
	if err := m.kv.Set(KeyPreset, m.state.Preset.String()); err != nil {
		m.logger.Warn("failed to persist sound preference", "key", KeyPreset, "error", err)
	}
}

// Reload re-reads persisted preferences after an external change and
// refreshes the view. No tone is played.
func (m *Manager) Reload() {
	if !m.wired {
		return
	}
	before := m.state
	m.load()
	if m.state != before {
		m.logger.Debug("sound preferences reloaded",
			"enabled", m.state.Enabled,
			"preset", m.state.Preset.String(),
		)
	}
	m.RefreshUI()
}

// EnsureAudioEngineReady constructs the audio engine on first use. Later
// calls do nothing, including after a failed construction: a manager whose
// engine failed stays silent.
func (m *Manager) EnsureAudioEngineReady() {
	if m.state.Initialized {
		return
	}
	m.state.Initialized = true

	if m.factory == nil {
		m.logger.Debug("no audio engine configured")
		return
	}

	engine, err := m.construct()
	if err != nil {
		m.logger.Warn("audio engine unavailable, sounds disabled", "error", err)
		return
	}
	m.engine = engine
	if !m.state.Enabled {
		m.suspendEngine()
	}
	m.logger.Debug("audio engine ready", "state", engine.State().String())
}

func (m *Manager) construct() (engine audio.Engine, err error) {
	defer func() {
		if r := recover(); r != nil {
			engine, err = nil, fmt.Errorf("%w: %v", audio.ErrInit, r)
		}
	}()

	engine, err = m.factory()
	if err == nil && engine == nil {
		err = fmt.Errorf("%w: factory returned no engine", audio.ErrInit)
	}
	return engine, err
}

// PlayTone plays the current preset's tone for action. It does nothing
// while disabled, before the engine exists, or while the engine is not
// running. It reports whether a tone was handed to the engine; synthesis
// errors are logged and absorbed.
func (m *Manager) PlayTone(action tone.Action) bool {
	if !m.state.Enabled || m.engine == nil {
		return false
	}
	if m.engine.State() != audio.StateRunning {
		return false
	}

	spec, ok := m.table.Lookup(m.state.Preset, action)
	if !ok {
		m.logger.Debug("no tone for preset", "preset", m.state.Preset.String())
		return false
	}

	freq := tone.Jitter(spec.BaseFrequencyHz, m.rand())
	if err := m.play(spec, freq); err != nil {
		m.logger.Debug("failed to play tone",
			"action", action.String(),
			"preset", m.state.Preset.String(),
			"error", err,
		)
	}
	return true
}

func (m *Manager) play(spec tone.ToneSpec, freq float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tone synthesis panicked: %v", r)
		}
	}()
	return m.engine.Play(spec, freq)
}

// ToggleEnabled flips the enabled flag and persists it. Turning sound on
// wakes the engine and plays an Enter tone; turning it off is silent.
func (m *Manager) ToggleEnabled() {
	m.state.Enabled = !m.state.Enabled
	m.persist()

	if m.state.Enabled {
		m.wakeEngine()
		m.ShowNotice("SOUND ON", ColorSoundOn)
		m.PlayTone(tone.Enter)
	} else {
		m.suspendEngine()
		m.ShowNotice("SOUND OFF", ColorSoundOff)
	}

	m.logger.Debug("sound toggled", "enabled", m.state.Enabled)
	m.RefreshUI()
}

// SetEnabled sets the enabled flag, toggling only when it differs.
func (m *Manager) SetEnabled(enabled bool) {
	if m.state.Enabled != enabled {
		m.ToggleEnabled()
	}
}

func (m *Manager) wakeEngine() {
	if m.engine == nil {
		m.EnsureAudioEngineReady()
		return
	}
	if m.engine.State() == audio.StateSuspended {
		if err := m.engine.Resume(); err != nil {
			m.logger.Warn("failed to resume audio engine", "error", err)
		}
	}
}

// suspendEngine releases the output while sound is off. A manager that
// has not built its engine yet does not build one here.
func (m *Manager) suspendEngine() {
	if m.engine == nil || m.engine.State() != audio.StateRunning {
		return
	}
	if err := m.engine.Suspend(); err != nil {
		m.logger.Warn("failed to suspend audio engine", "error", err)
	}
}

// SetPreset selects a preset, persists it and plays an Enter tone as
// confirmation. Invalid presets are ignored; the result reports whether
// the preset was applied.
func (m *Manager) SetPreset(kind tone.PresetKind) bool {
	if !kind.Valid() {
		m.logger.Debug("ignoring invalid preset", "preset", int(kind))
		return false
	}

	m.state.Preset = kind
	m.persist()

	m.ShowNotice("TYPE: "+kind.DisplayName(), ColorPreset)
	m.PlayTone(tone.Enter)
	m.RefreshUI()
	return true
}

// RefreshUI projects the current state onto the view, if there is one.
func (m *Manager) RefreshUI() {
	if m.view == nil {
		return
	}
	hint := "Mute sound"
	if !m.state.Enabled {
		hint = "Unmute sound"
	}
	if len(m.chords.Toggle) > 0 {
		hint += " (" + m.chords.Toggle[0] + ")"
	}
	m.view.SetSoundIndicator(m.state.Enabled, hint)
	m.view.HighlightPreset(m.state.Preset)
}

// ShowNotice displays a transient banner that fades in, holds and fades
// out. A new notice replaces the current one immediately.
func (m *Manager) ShowNotice(text, color string) {
	if m.notice.Visible() {
		m.notice.Phase = NoticeRemoved
		m.emitNotice()
	}

	m.noticeSeq++
	id := m.noticeSeq
	m.notice = Notice{ID: id, Text: text, Color: color, Phase: NoticeFadingIn}
	m.emitNotice()

	shown := m.timing.NoticeFadeIn
	fading := shown + m.timing.NoticeHold
	removed := fading + m.timing.NoticeFadeOut
	m.sched.After(shown, func() { m.advanceNotice(id, NoticeShown) })
	m.sched.After(fading, func() { m.advanceNotice(id, NoticeFadingOut) })
	m.sched.After(removed, func() { m.advanceNotice(id, NoticeRemoved) })
}

func (m *Manager) advanceNotice(id uint64, phase NoticePhase) {
	// Timers of a replaced notice are stale
	if m.notice.ID != id || m.notice.Phase >= phase {
		return
	}
	m.notice.Phase = phase
	m.emitNotice()
}

func (m *Manager) emitNotice() {
	if m.view != nil {
		m.view.SetNotice(m.notice)
	}
}

// Close releases the audio engine.
func (m *Manager) Close() {
	if m.engine != nil {
		m.engine.Close()
	}
}

// matchChord reports whether chord is one of keys.
func matchChord(keys []string, chord string) bool {
	return slices.Contains(keys, chord)
}
