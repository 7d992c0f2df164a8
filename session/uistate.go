package session

import "strconv"

// KeyStore is the narrow persistence interface for UI state; store.Prefs
// satisfies it.
type KeyStore interface {
	Get(key, fallback string) string
	Set(key, value string) error
}

// UIState is the explicit application state injected into presentation
// components: no component reads ambient globals, it receives this value
// and asks the session to change it.
type UIState struct {
	Theme          string `json:"theme"`
	SidebarVisible bool   `json:"sidebarVisible"`
	FocusMode      bool   `json:"focusMode"`
	Font           string `json:"font"`
	Spellcheck     bool   `json:"spellcheck"`
}

// DefaultUIState is the state of a fresh profile.
func DefaultUIState() UIState {
	return UIState{
		Theme:          "system",
		SidebarVisible: true,
		Font:           "default",
		Spellcheck:     true,
	}
}

const (
	keyTheme      = "ui.theme"
	keySidebar    = "ui.sidebarVisible"
	keyFocusMode  = "ui.focusMode"
	keyFont       = "ui.font"
	keySpellcheck = "ui.spellcheck"
)

// LoadUIState reads persisted UI state, falling back to defaults per key.
func LoadUIState(ks KeyStore) UIState {
	d := DefaultUIState()
	return UIState{
		Theme:          ks.Get(keyTheme, d.Theme),
		SidebarVisible: getBool(ks, keySidebar, d.SidebarVisible),
		FocusMode:      getBool(ks, keyFocusMode, d.FocusMode),
		Font:           ks.Get(keyFont, d.Font),
		Spellcheck:     getBool(ks, keySpellcheck, d.Spellcheck),
	}
}

func getBool(ks KeyStore, key string, fallback bool) bool {
	v, err := strconv.ParseBool(ks.Get(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return v
}

// save persists the state. Write failures are non-critical and ignored,
// matching the recents contract.
func (u UIState) save(ks KeyStore) {
	ks.Set(keyTheme, u.Theme)
	ks.Set(keySidebar, strconv.FormatBool(u.SidebarVisible))
	ks.Set(keyFocusMode, strconv.FormatBool(u.FocusMode))
	ks.Set(keyFont, u.Font)
	ks.Set(keySpellcheck, strconv.FormatBool(u.Spellcheck))
}

// UIState returns the current application state.
func (s *Session) UIState() UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ui
}

// SetUIState replaces the application state and persists it when a key
// store is configured.
func (s *Session) SetUIState(u UIState) {
	s.mu.Lock()
	s.ui = u
	ks := s.cfg.Prefs
	s.mu.Unlock()
	if ks != nil {
		u.save(ks)
	}
}
