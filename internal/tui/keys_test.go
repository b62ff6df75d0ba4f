package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/clicktone/internal/config"
	"github.com/jmylchreest/clicktone/internal/sfx"
)

func TestDefaultKeyMap_ReservedKeysCovered(t *testing.T) {
	km := DefaultKeyMap(sfx.DefaultChords())

	for _, b := range []key.Binding{km.Up, km.Down, km.Tab, km.Home, km.End, km.Click, km.Quit, km.Help} {
		for _, k := range b.Keys() {
			assert.Contains(t, config.ReservedKeys, k, "sound chords must not be able to shadow %q", k)
		}
	}
}

func TestDefaultKeyMap_ChordsFromConfig(t *testing.T) {
	km := DefaultKeyMap(sfx.Chords{Toggle: []string{"alt+s"}})

	assert.Equal(t, []string{"alt+s"}, km.Toggle.Keys())
	assert.False(t, km.Retro.Enabled())
}
