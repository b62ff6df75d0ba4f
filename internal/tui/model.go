// Package tui provides the BubbleTea-based interactive page.
package tui

import (
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/clicktone/internal/page"
	"github.com/jmylchreest/clicktone/internal/sfx"
	"github.com/jmylchreest/clicktone/internal/store"
)

// Options configures the TUI model.
type Options struct {
	Page *page.Page

	// Sound configures the manager. View and Scheduler are supplied by
	// the model and must be left unset.
	Sound sfx.Options

	// Changes delivers external preference changes (may be nil).
	Changes <-chan store.ChangeEvent

	// Focus is the id of the element the cursor starts on. Unknown ids
	// leave the cursor on the first element.
	Focus string
}

// Model is the main TUI model.
type Model struct {
	page     *page.Page
	elements []page.Element

	manager *sfx.Manager
	surface *surface

	keys     KeyMap
	help     help.Model
	viewport viewport.Model

	// focus is the keyboard cursor; hovered is the element the manager
	// currently considers hovered (from focus or the pointer), -1 for none.
	focus         int
	hovered       int
	scrollToFocus bool

	width  int
	height int
	ready  bool

	changes <-chan store.ChangeEvent
}

type prefsChangedMsg struct{}

// New creates the model and initializes its sound manager.
func New(opts Options) Model {
	p := opts.Page
	if p == nil {
		p = &page.Page{}
	}
	page.Inject(p)

	s := newSurface()
	opts.Sound.View = s
	opts.Sound.Scheduler = s
	mgr := sfx.New(opts.Sound)
	mgr.Initialize()

	elements := p.Elements()
	focus := max(0, slices.IndexFunc(elements, func(e page.Element) bool {
		return opts.Focus != "" && e.ID == opts.Focus
	}))

	return Model{
		page:     p,
		elements: elements,
		manager:  mgr,
		surface:  s,
		keys:     DefaultKeyMap(mgr.Chords()),
		help:     help.New(),
		focus:    focus,
		hovered:  -1,
		changes:  opts.Changes,
	}
}

// Manager returns the sound manager driven by the model.
func (m Model) Manager() *sfx.Manager {
	return m.manager
}

// Init starts listening for preference changes.
func (m Model) Init() tea.Cmd {
	return m.watchForChanges
}

// watchForChanges waits for the next external preference change.
func (m Model) watchForChanges() tea.Msg {
	if m.changes == nil {
		return nil
	}
	if _, ok := <-m.changes; !ok {
		return nil
	}
	return prefsChangedMsg{}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(msg.Width, 0)
			m.ready = true
			m.scrollToFocus = true
		}
		m.viewport.Width = msg.Width

	case timerMsg:
		msg.fn()

	case prefsChangedMsg:
		m.manager.Reload()
		cmd = m.watchForChanges

	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)

	case tea.MouseMsg:
		m, cmd = m.handleMouse(msg)
	}

	m.syncViewport()
	return m, tea.Batch(cmd, m.surface.drain())
}

// handleKey handles key presses. Sound chords are offered to the manager
// before navigation so a consumed chord has no other effect.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.manager.HandleKey(msg.String()) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.moveFocus(m.focus - 1)
	case key.Matches(msg, m.keys.Down):
		m.moveFocus(m.focus + 1)
	case key.Matches(msg, m.keys.Tab):
		if len(m.elements) > 0 {
			m.moveFocus((m.focus + 1) % len(m.elements))
		}
	case key.Matches(msg, m.keys.Home):
		m.moveFocus(0)
	case key.Matches(msg, m.keys.End):
		m.moveFocus(len(m.elements) - 1)
	case key.Matches(msg, m.keys.Click):
		m.activate(m.focus)
	}
	return m, nil
}

// handleMouse treats pointer motion as hover and a left press as a click.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp, msg.Button == tea.MouseButtonWheelDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case msg.Action == tea.MouseActionMotion:
		m.setHover(m.hitTest(msg.Y))

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		idx := m.hitTest(msg.Y)
		if idx < 0 {
			// A click anywhere still counts as the first interaction
			m.manager.HandleClick(sfx.Target{})
			return m, nil
		}
		m.focus = idx
		m.setHover(idx)
		m.activate(idx)
	}
	return m, nil
}

func (m *Model) moveFocus(idx int) {
	if len(m.elements) == 0 {
		return
	}
	idx = max(0, min(idx, len(m.elements)-1))
	m.focus = idx
	m.scrollToFocus = true
	m.setHover(idx)
}

// setHover moves the hover from the current element to idx, emitting a
// leave and an enter. idx -1 clears it.
func (m *Model) setHover(idx int) {
	if idx == m.hovered {
		return
	}
	if m.hovered >= 0 && m.hovered < len(m.elements) {
		m.manager.HandleHoverLeave(m.elements[m.hovered].Target())
	}
	m.hovered = idx
	if idx >= 0 && idx < len(m.elements) {
		m.manager.HandleHoverEnter(m.elements[idx].Target())
	}
}

func (m *Model) activate(idx int) {
	if idx < 0 || idx >= len(m.elements) {
		return
	}
	m.manager.HandleClick(m.elements[idx].Target())
}

// hitTest maps a screen row to the element drawn there, or -1.
func (m Model) hitTest(y int) int {
	if !m.ready {
		return -1
	}
	row := y - lipgloss.Height(m.renderHeader())
	if row < 0 || row >= m.viewport.Height {
		return -1
	}
	row += m.viewport.YOffset

	lay := m.layoutBody()
	if row >= len(lay.rows) {
		return -1
	}
	return lay.rows[row]
}

// syncViewport re-renders the page body into the viewport and, after a
// focus move, scrolls the focused element into view.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}

	chrome := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderFooter())
	m.viewport.Height = max(1, m.height-chrome)

	lay := m.layoutBody()
	m.viewport.SetContent(lay.content())

	if !m.scrollToFocus || m.focus >= len(lay.spans) {
		return
	}
	m.scrollToFocus = false

	span := lay.spans[m.focus]
	switch {
	case span.start < m.viewport.YOffset:
		m.viewport.SetYOffset(span.start)
	case span.end > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(span.end - m.viewport.Height)
	}
}
