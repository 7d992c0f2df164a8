// Package session is the single-writer controller over the open tab
// collection. Every mutation — tab lifecycle, page edits, snapshots,
// save/open flows — funnels through one Session so concurrent UI events
// serialize instead of racing. Reads hand out copies; callers never hold
// a reference into live state.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/skrybl/skrybl/compute"
	"github.com/skrybl/skrybl/notebook"
	"github.com/skrybl/skrybl/store"
)

// NumericEvaluator is the slice of compute.Numeric the session needs.
type NumericEvaluator interface {
	Evaluate(expression string) compute.NumericResult
}

// SymbolicEvaluator is the slice of compute.Symbolic the session needs.
type SymbolicEvaluator interface {
	Evaluate(ctx context.Context, expression string, op compute.SymbolicOp, variable string) compute.SymbolicResult
}

// Config configures a Session.
type Config struct {
	Numeric  NumericEvaluator
	Symbolic SymbolicEvaluator
	Recents  *store.Recents
	// Prefs backs UI state persistence. Optional; without it UI state
	// lives for the session only.
	Prefs KeyStore

	// AutosaveDelay is the quiet period after the last edit before a
	// dirty, file-bound tab is written to disk. Default: 2s.
	AutosaveDelay time.Duration
	// NumericDelay debounces numeric field evaluation. Default: 150ms.
	NumericDelay time.Duration
	// SymbolicDelay debounces symbolic field evaluation. Default: 250ms.
	SymbolicDelay time.Duration

	// SaveFunc overrides the on-disk writer. Default: store.Save.
	SaveFunc func(path string, nb notebook.Notebook) error
	// LoadFunc overrides the on-disk reader. Default: store.Load.
	LoadFunc func(path string) (notebook.Notebook, error)
	// Now overrides the clock used for autosave snapshot titles.
	Now func() time.Time

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.AutosaveDelay <= 0 {
		c.AutosaveDelay = 2 * time.Second
	}
	if c.NumericDelay <= 0 {
		c.NumericDelay = 150 * time.Millisecond
	}
	if c.SymbolicDelay <= 0 {
		c.SymbolicDelay = 250 * time.Millisecond
	}
	if c.SaveFunc == nil {
		c.SaveFunc = store.Save
	}
	if c.LoadFunc == nil {
		c.LoadFunc = store.Load
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Session owns the open tabs and the active-tab pointer. Safe for
// concurrent use.
type Session struct {
	cfg Config

	mu       sync.Mutex
	tabs     []notebook.Tab
	activeID string
	ui       UIState
	closed   bool

	// One pending autosave timer per tab id; rescheduled on every edit.
	saveTimers map[string]*time.Timer

	// Per-field evaluation state: a monotonic token per field id plus the
	// pending timer. A result is applied only if its token is still the
	// latest when the evaluation lands, so stale keystrokes can never
	// overwrite a newer result.
	evalTokens map[string]uint64
	evalTimers map[string]*time.Timer
}

// New creates a session holding one blank tab.
func New(cfg Config) *Session {
	cfg.defaults()
	tab := notebook.NewBlankTab()
	ui := DefaultUIState()
	if cfg.Prefs != nil {
		ui = LoadUIState(cfg.Prefs)
	}
	return &Session{
		cfg:        cfg,
		tabs:       []notebook.Tab{tab},
		activeID:   tab.ID,
		ui:         ui,
		saveTimers: make(map[string]*time.Timer),
		evalTokens: make(map[string]uint64),
		evalTimers: make(map[string]*time.Timer),
	}
}

// Tabs returns a copy of the open tabs in display order.
func (s *Session) Tabs() []notebook.Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notebook.Tab(nil), s.tabs...)
}

// ActiveTabID returns the focused tab's id.
func (s *Session) ActiveTabID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// ActiveTab returns a copy of the focused tab.
func (s *Session) ActiveTab() notebook.Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tabs[s.indexLocked(s.activeID)]
}

// Tab returns a copy of the tab with the given id.
func (s *Session) Tab(tabID string) (notebook.Tab, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(tabID)
	if i < 0 {
		return notebook.Tab{}, false
	}
	return s.tabs[i], true
}

// NewTab opens a blank tab and focuses it, returning the new tab's id.
func (s *Session) NewTab() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tab := notebook.NewBlankTab()
	s.tabs = append(s.tabs, tab)
	s.activeID = tab.ID
	return tab.ID
}

// OpenFile loads a notebook from disk into a new tab and focuses it. If
// the file is already open in some tab that tab is focused instead — a
// path is open in at most one tab. A file that fails to load is pruned
// from the recents list.
func (s *Session) OpenFile(path string) (string, error) {
	s.mu.Lock()
	for _, t := range s.tabs {
		if t.FilePath == path {
			s.activeID = t.ID
			s.mu.Unlock()
			return t.ID, nil
		}
	}
	s.mu.Unlock()

	nb, err := s.cfg.LoadFunc(path)
	if err != nil {
		if s.cfg.Recents != nil {
			s.cfg.Recents.Remove(path)
		}
		return "", fmt.Errorf("session: open %s: %w", path, err)
	}

	s.mu.Lock()
	// Re-check the binding: a concurrent open of the same path may have
	// won the race while the load ran, and a path is open in at most one
	// tab.
	for _, t := range s.tabs {
		if t.FilePath == path {
			s.activeID = t.ID
			s.mu.Unlock()
			return t.ID, nil
		}
	}
	tab := notebook.NewTab(nb, path)
	s.tabs = append(s.tabs, tab)
	s.activeID = tab.ID
	s.mu.Unlock()

	s.touchRecents(tab)
	return tab.ID, nil
}

// SwitchTab focuses the given tab. Unknown ids are no-ops.
func (s *Session) SwitchTab(tabID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(tabID) >= 0 {
		s.activeID = tabID
	}
}

// CloseTab removes a tab. Closing the last remaining tab replaces it
// with a fresh blank one so the session always holds at least one tab.
// When the closed tab was focused, focus moves to the tab now occupying
// the closed slot, or the new last tab if the closed one was last.
func (s *Session) CloseTab(tabID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(tabID)
	if i < 0 {
		return
	}
	if t := s.saveTimers[tabID]; t != nil {
		t.Stop()
		delete(s.saveTimers, tabID)
	}

	if len(s.tabs) == 1 {
		fresh := notebook.NewBlankTab()
		s.tabs = []notebook.Tab{fresh}
		s.activeID = fresh.ID
		return
	}

	s.tabs = append(s.tabs[:i], s.tabs[i+1:]...)
	if s.activeID == tabID {
		s.activeID = s.tabs[min(i, len(s.tabs)-1)].ID
	}
}

// ReorderTabs moves one tab within the strip. Equal or out-of-range
// indices are no-ops.
func (s *Session) ReorderTabs(fromIndex, toIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.tabs)
	if fromIndex == toIndex || fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n {
		return
	}
	moved := s.tabs[fromIndex]
	tabs := append(s.tabs[:fromIndex], s.tabs[fromIndex+1:]...)
	s.tabs = append(tabs[:toIndex], append([]notebook.Tab{moved}, tabs[toIndex:]...)...)
}

// Save writes a tab's notebook to path (or its bound path when path is
// empty), binds the path, clears the dirty flag and refreshes the
// recents entry.
func (s *Session) Save(tabID, path string) error {
	s.mu.Lock()
	i := s.indexLocked(tabID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("session: save: no tab %s", tabID)
	}
	t := s.tabs[i]
	if path == "" {
		path = t.FilePath
	}
	if path == "" {
		s.mu.Unlock()
		return fmt.Errorf("session: save: tab has no file path")
	}
	s.mu.Unlock()

	if err := s.cfg.SaveFunc(path, t.Notebook); err != nil {
		return err
	}

	s.mu.Lock()
	if i := s.indexLocked(tabID); i >= 0 {
		cur := notebook.SetFilePath(s.tabs[i], path)
		// Clear dirty only if no edit landed while the write was in
		// flight; otherwise the tab stays dirty and the edit reaches
		// disk on the next save or the shutdown flush.
		if cur.Notebook.UpdatedAt.Equal(t.Notebook.UpdatedAt) {
			cur = notebook.SetDirty(cur, false)
		} else {
			s.scheduleAutosaveLocked(tabID)
		}
		s.tabs[i] = cur
		t = cur
	}
	s.mu.Unlock()

	s.touchRecents(t)
	return nil
}

// Apply runs a pure notebook operation against a tab and stores the
// result, scheduling an autosave when the tab came out dirty and is
// bound to a file.
func (s *Session) Apply(tabID string, op func(notebook.Tab) notebook.Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(tabID)
	if i < 0 {
		return
	}
	t := op(s.tabs[i])
	s.tabs[i] = t
	if t.Dirty && t.FilePath != "" {
		s.scheduleAutosaveLocked(tabID)
	}
}

func (s *Session) indexLocked(tabID string) int {
	for i, t := range s.tabs {
		if t.ID == tabID {
			return i
		}
	}
	return -1
}

func (s *Session) touchRecents(t notebook.Tab) {
	if s.cfg.Recents == nil || t.FilePath == "" {
		return
	}
	s.cfg.Recents.Add(store.RecentFile{
		Path:      t.FilePath,
		Title:     t.Notebook.Title,
		UpdatedAt: s.cfg.Now().UTC().Format(time.RFC3339),
		PageCount: len(t.Notebook.Pages),
	})
}

// Close stops all pending timers and flushes dirty file-bound tabs to
// disk. The session must not be used afterwards.
func (s *Session) Close() error {
	s.mu.Lock()
	s.closed = true
	for id, t := range s.saveTimers {
		t.Stop()
		delete(s.saveTimers, id)
	}
	for id, t := range s.evalTimers {
		t.Stop()
		delete(s.evalTimers, id)
	}
	tabs := append([]notebook.Tab(nil), s.tabs...)
	s.mu.Unlock()

	var firstErr error
	for _, t := range tabs {
		if t.Dirty && t.FilePath != "" {
			if err := s.cfg.SaveFunc(t.FilePath, t.Notebook); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
