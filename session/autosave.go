package session

import (
	"time"

	"github.com/skrybl/skrybl/notebook"
)

// Autosave: every edit to a dirty, file-bound tab arms (or re-arms) a
// per-tab timer. When the quiet period passes a history snapshot titled
// "Auto-save HH:MM:SS" is recorded, the notebook is written to its bound
// path and the dirty flag clears. Failures are logged and retried on the
// next edit rather than surfaced — autosave is background machinery, not
// a user-visible operation.

func (s *Session) scheduleAutosaveLocked(tabID string) {
	if s.closed {
		return
	}
	if t := s.saveTimers[tabID]; t != nil {
		t.Reset(s.cfg.AutosaveDelay)
		return
	}
	s.saveTimers[tabID] = time.AfterFunc(s.cfg.AutosaveDelay, func() {
		s.autosave(tabID)
	})
}

func (s *Session) autosave(tabID string) {
	log := s.cfg.Logger

	s.mu.Lock()
	delete(s.saveTimers, tabID)
	i := s.indexLocked(tabID)
	if i < 0 || s.closed {
		s.mu.Unlock()
		return
	}
	t := s.tabs[i]
	if !t.Dirty || t.FilePath == "" {
		s.mu.Unlock()
		return
	}
	// Snapshot before writing so the history entry lands in the file.
	t = notebook.CreateSnapshot(t, "Auto-save "+s.cfg.Now().Format("15:04:05"))
	s.tabs[i] = t
	s.mu.Unlock()

	if err := s.cfg.SaveFunc(t.FilePath, t.Notebook); err != nil {
		log.Warn("session: autosave failed", "path", t.FilePath, "error", err)
		return
	}

	s.mu.Lock()
	// Clear dirty only if no edit landed while the write was in flight;
	// otherwise the next autosave cycle picks the new state up.
	if i := s.indexLocked(tabID); i >= 0 &&
		s.tabs[i].FilePath == t.FilePath &&
		s.tabs[i].Notebook.UpdatedAt.Equal(t.Notebook.UpdatedAt) {
		s.tabs[i] = notebook.SetDirty(s.tabs[i], false)
		t = s.tabs[i]
	}
	s.mu.Unlock()

	log.Debug("session: autosaved", "path", t.FilePath)
	s.touchRecents(t)
}
