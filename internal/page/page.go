// Package page describes the interactive page: sections of links, buttons
// and cards, each optionally tagged with a sound action.
package page

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/clicktone/internal/sfx"
	"github.com/jmylchreest/clicktone/internal/tone"
)

// Kind identifies the type of page element.
type Kind string

const (
	KindLink          Kind = "link"
	KindButton        Kind = "button"
	KindCharacterCard Kind = "character-card"
	KindEpisodeCard   Kind = "episode-card"

	// Sound controls, added by Inject only.
	KindSoundToggle    Kind = "sound-toggle"
	KindPresetSelector Kind = "preset-selector"
	KindTestButton     Kind = "test-button"
)

// ValidKinds lists the kinds a page description may use.
var ValidKinds = map[Kind]bool{
	KindLink:          true,
	KindButton:        true,
	KindCharacterCard: true,
	KindEpisodeCard:   true,
}

// ControlsSectionID is the id of the section Inject adds.
const ControlsSectionID = "sound-controls"

// Control element ids.
const (
	SoundToggleID = "sound-toggle"
	TestButtonID  = "sound-test"
)

// PresetSelectorID returns the id of the selector for kind.
func PresetSelectorID(kind tone.PresetKind) string {
	return "sound-preset-" + kind.String()
}

// Page is a parsed page description.
type Page struct {
	Title    string    `yaml:"title"`
	Subtitle string    `yaml:"subtitle,omitempty"`
	Sections []Section `yaml:"sections"`
}

// Section groups elements under a heading.
type Section struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Elements []Element `yaml:"elements"`
}

// Element is a single interactive item on the page.
type Element struct {
	ID     string `yaml:"id"`
	Label  string `yaml:"label"`
	Detail string `yaml:"detail,omitempty"`
	Kind   Kind   `yaml:"kind"`
	Sound  string `yaml:"sound,omitempty"`

	// Preset is set on preset selectors.
	Preset tone.PresetKind `yaml:"-"`
}

// Action returns the element's sound tag.
func (e Element) Action() (tone.Action, bool) {
	if e.Sound == "" {
		return 0, false
	}
	a, err := tone.ParseAction(e.Sound)
	if err != nil {
		return 0, false
	}
	return a, true
}

// IsCard reports whether the element is a character or episode card.
func (e Element) IsCard() bool {
	return e.Kind == KindCharacterCard || e.Kind == KindEpisodeCard
}

// Target converts the element into what the sound manager reacts to.
func (e Element) Target() sfx.Target {
	t := sfx.Target{ID: e.ID}
	switch e.Kind {
	case KindCharacterCard:
		t.Kind = sfx.TargetCharacterCard
	case KindEpisodeCard:
		t.Kind = sfx.TargetEpisodeCard
	case KindSoundToggle:
		t.Kind = sfx.TargetSoundToggle
	case KindPresetSelector:
		t.Kind = sfx.TargetPresetSelector
		t.Preset = e.Preset
	case KindTestButton:
		t.Kind = sfx.TargetTestButton
	}
	t.Sound, t.HasSound = e.Action()
	return t
}

// Parse parses and validates a YAML page description.
func Parse(data []byte) (*Page, error) {
	var p Page
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads a page description from path.
func Load(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Validate checks that element ids are unique and that kinds and sound
// tags are known. Sound controls are rejected; they are added by Inject.
func (p *Page) Validate() error {
	var errs []error
	seen := make(map[string]bool)

	for si, s := range p.Sections {
		if strings.TrimSpace(s.ID) == "" {
			errs = append(errs, fmt.Errorf("section %d: id is required", si))
		} else if s.ID == ControlsSectionID {
			errs = append(errs, fmt.Errorf("section %q: id is reserved", s.ID))
		}

		for _, e := range s.Elements {
			if strings.TrimSpace(e.ID) == "" {
				errs = append(errs, fmt.Errorf("section %q: element without id", s.ID))
				continue
			}
			if seen[e.ID] {
				errs = append(errs, fmt.Errorf("element %q: duplicate id", e.ID))
			}
			seen[e.ID] = true

			if !ValidKinds[e.Kind] {
				errs = append(errs, fmt.Errorf("element %q: unknown kind %q", e.ID, e.Kind))
			}
			if e.Sound != "" {
				if _, err := tone.ParseAction(e.Sound); err != nil {
					errs = append(errs, fmt.Errorf("element %q: %w", e.ID, err))
				}
			}
		}
	}

	return errors.Join(errs...)
}

// Inject adds the sound controls section at the top of the page: the
// toggle, one selector per preset and a test button. It does nothing if
// the controls are already present.
func Inject(p *Page) {
	for _, s := range p.Sections {
		if s.ID == ControlsSectionID {
			return
		}
	}

	controls := Section{
		ID:    ControlsSectionID,
		Title: "Sound",
		Elements: []Element{
			{ID: SoundToggleID, Label: "Sound", Kind: KindSoundToggle},
		},
	}
	for _, kind := range tone.Presets() {
		controls.Elements = append(controls.Elements, Element{
			ID:     PresetSelectorID(kind),
			Label:  kind.DisplayName(),
			Kind:   KindPresetSelector,
			Preset: kind,
		})
	}
	controls.Elements = append(controls.Elements, Element{
		ID:    TestButtonID,
		Label: "Test",
		Kind:  KindTestButton,
	})

	p.Sections = append([]Section{controls}, p.Sections...)
}

// Elements returns every element in page order.
func (p *Page) Elements() []Element {
	var out []Element
	for _, s := range p.Sections {
		out = append(out, s.Elements...)
	}
	return out
}

// Find returns the element with id.
func (p *Page) Find(id string) (Element, bool) {
	for _, s := range p.Sections {
		for _, e := range s.Elements {
			if e.ID == id {
				return e, true
			}
		}
	}
	return Element{}, false
}
