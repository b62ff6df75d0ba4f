package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/clicktone/internal/page"
	"github.com/jmylchreest/clicktone/internal/sfx"
)

var (
	accent = lipgloss.Color("#00ff00")
	muted  = lipgloss.Color("8")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	subtitleStyle = lipgloss.NewStyle().Italic(true).Foreground(muted)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle   = lipgloss.NewStyle().Foreground(accent)

	linkStyle    = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("6"))
	linkHover    = linkStyle.Foreground(accent)
	buttonStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	buttonLifted = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(accent)

	cardBar     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0033"))
	cardTitle   = lipgloss.NewStyle().Bold(true)
	cardDetail  = lipgloss.NewStyle().Foreground(muted)
	cardOverlay = lipgloss.Color("#2a0a0f")

	soundOn   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(sfx.ColorSoundOn))
	soundOff  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(sfx.ColorSoundOff))
	hintStyle = lipgloss.NewStyle().Foreground(muted)

	presetActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(sfx.ColorPreset))
	presetIdle   = lipgloss.NewStyle()
)

// span is the half-open line range an element occupies in the body.
type span struct {
	start int
	end   int
}

// bodyLayout is the rendered page body with a line to element mapping
// used for mouse hit testing.
type bodyLayout struct {
	lines []string
	rows  []int // element index per line, -1 for decoration
	spans []span
}

func (l *bodyLayout) add(line string, elem int) {
	l.lines = append(l.lines, line)
	l.rows = append(l.rows, elem)
}

func (l bodyLayout) content() string {
	return strings.Join(l.lines, "\n")
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.renderHeader() + "\n" + m.viewport.View() + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	title := m.page.Title
	if title == "" {
		title = "clicktone"
	}
	s := titleStyle.Render(title)
	if m.page.Subtitle != "" {
		s += "  " + subtitleStyle.Render(m.page.Subtitle)
	}
	return s
}

func (m Model) renderFooter() string {
	return m.renderNotice() + "\n" + m.help.View(m.keys)
}

// renderNotice draws the banner; fading phases are drawn faint. The line
// is kept when there is no banner so the layout does not jump.
func (m Model) renderNotice() string {
	n := m.surface.notice
	if !n.Visible() {
		return ""
	}
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(n.Color)).
		Padding(0, 1)
	if n.Phase != sfx.NoticeShown {
		style = style.Faint(true)
	}
	return style.Render("» " + n.Text)
}

// layoutBody renders every section and element.
func (m Model) layoutBody() bodyLayout {
	var lay bodyLayout
	lay.spans = make([]span, len(m.elements))

	selectorHovered := m.hovered >= 0 && m.hovered < len(m.elements) &&
		m.elements[m.hovered].Kind == page.KindPresetSelector

	idx := 0
	for si, section := range m.page.Sections {
		if si > 0 {
			lay.add("", -1)
		}
		if section.Title != "" {
			lay.add(sectionStyle.Render(strings.ToUpper(section.Title)), -1)
		}

		for _, e := range section.Elements {
			start := len(lay.lines)
			for _, line := range m.renderElement(idx, e, selectorHovered) {
				lay.add(line, idx)
			}
			lay.spans[idx] = span{start: start, end: len(lay.lines)}
			idx++
		}
	}
	return lay
}

func (m Model) renderElement(idx int, e page.Element, selectorHovered bool) []string {
	cursor := "  "
	if idx == m.focus {
		cursor = cursorStyle.Render("> ")
	}
	hovered := idx == m.hovered

	switch e.Kind {
	case page.KindLink:
		style := linkStyle
		if hovered {
			style = linkHover
		}
		return []string{cursor + style.Render(e.Label)}

	case page.KindButton, page.KindTestButton:
		style := buttonStyle
		if hovered {
			style = buttonLifted
		}
		return []string{cursor + style.Render("[ "+e.Label+" ]")}

	case page.KindCharacterCard, page.KindEpisodeCard:
		title := cardTitle
		detail := cardDetail
		if hovered {
			title = title.Background(cardOverlay)
			detail = detail.Background(cardOverlay)
		}
		lines := []string{cursor + cardBar.Render("▌ ") + title.Render(e.Label)}
		if e.Detail != "" {
			lines = append(lines, "  "+cardBar.Render("▌ ")+detail.Render(e.Detail))
		}
		return lines

	case page.KindSoundToggle:
		indicator := soundOff.Render("♪ SOUND OFF")
		if m.surface.enabled {
			indicator = soundOn.Render("♪ SOUND ON")
		}
		return []string{cursor + indicator + "  " + hintStyle.Render(m.surface.hint)}

	case page.KindPresetSelector:
		style, mark := presetIdle, "○ "
		if e.Preset == m.surface.preset {
			style, mark = presetActive, "● "
		}
		if !selectorHovered {
			style = style.Faint(true)
		}
		return []string{cursor + style.Render(mark+e.Label)}
	}

	return []string{cursor + e.Label}
}
