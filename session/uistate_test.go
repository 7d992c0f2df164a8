package session

import (
	"testing"

	"github.com/skrybl/skrybl/store"
)

func TestUIStateDefaultsWithoutStore(t *testing.T) {
	s := testSession(t, Config{})
	ui := s.UIState()
	if ui.Theme != "system" {
		t.Fatalf("expected system theme, got %q", ui.Theme)
	}
	if !ui.SidebarVisible || ui.FocusMode || !ui.Spellcheck {
		t.Fatalf("unexpected defaults: %+v", ui)
	}
}

func TestUIStatePersistsAcrossSessions(t *testing.T) {
	prefs := store.OpenPrefsMemory(t)

	s := testSession(t, Config{Prefs: prefs})
	ui := s.UIState()
	ui.Theme = "dark"
	ui.SidebarVisible = false
	ui.FocusMode = true
	s.SetUIState(ui)

	// A second session over the same store sees the saved state.
	s2 := testSession(t, Config{Prefs: prefs})
	got := s2.UIState()
	if got.Theme != "dark" {
		t.Fatalf("expected dark theme, got %q", got.Theme)
	}
	if got.SidebarVisible {
		t.Fatal("sidebar visibility did not persist")
	}
	if !got.FocusMode {
		t.Fatal("focus mode did not persist")
	}
	if got.Font != "default" || !got.Spellcheck {
		t.Fatalf("untouched fields must keep defaults: %+v", got)
	}
}

func TestUIStateCorruptValueFallsBack(t *testing.T) {
	prefs := store.OpenPrefsMemory(t)
	if err := prefs.Set("ui.sidebarVisible", "maybe"); err != nil {
		t.Fatal(err)
	}
	ui := LoadUIState(prefs)
	if !ui.SidebarVisible {
		t.Fatal("unparseable value must fall back to the default")
	}
}
