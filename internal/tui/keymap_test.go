package tui

import (
	"slices"
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func TestDefaultKeyMap_AllBindingsDefined(t *testing.T) {
	km := DefaultKeyMap()

	bindings := []struct {
		name    string
		binding key.Binding
	}{
		{"Quit", km.Quit},
		{"Reset", km.Reset},
		{"Up", km.Up},
		{"Down", km.Down},
	}

	for _, b := range bindings {
		t.Run(b.name, func(t *testing.T) {
			if !b.binding.Enabled() {
				t.Errorf("expected %s binding to be enabled", b.name)
			}
			if len(b.binding.Keys()) == 0 {
				t.Errorf("expected %s binding to have at least one key", b.name)
			}
			if b.binding.Help().Desc == "" {
				t.Errorf("expected %s binding to have help text", b.name)
			}
		})
	}
}

func TestDefaultKeyMap_QuitKeys(t *testing.T) {
	keys := DefaultKeyMap().Quit.Keys()
	for _, want := range []string{"q", "ctrl+c"} {
		if !slices.Contains(keys, want) {
			t.Errorf("expected Quit binding to include %q", want)
		}
	}
}

func TestKeyMap_ShortHelp(t *testing.T) {
	if got := len(DefaultKeyMap().ShortHelp()); got != 4 {
		t.Errorf("ShortHelp has %d bindings, want 4", got)
	}
}
