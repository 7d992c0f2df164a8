package session

import (
	"github.com/skrybl/skrybl/doc"
	"github.com/skrybl/skrybl/notebook"
)

// Thin delegations to the pure notebook operations, each applied under
// the session lock via Apply so they serialize and feed the autosave
// scheduler.

// AddPage appends a page to a tab's notebook and returns the new page id.
func (s *Session) AddPage(tabID string) string {
	var pageID string
	s.Apply(tabID, func(t notebook.Tab) notebook.Tab {
		t, pageID = notebook.AddPage(t)
		return t
	})
	return pageID
}

// DeletePage removes a page; the sole remaining page cannot be deleted.
func (s *Session) DeletePage(tabID, pageID string) {
	s.Apply(tabID, func(t notebook.Tab) notebook.Tab {
		return notebook.DeletePage(t, pageID)
	})
}

// RenamePage replaces a page title.
func (s *Session) RenamePage(tabID, pageID, title string) {
	s.Apply(tabID, func(t notebook.Tab) notebook.Tab {
		return notebook.RenamePage(t, pageID, title)
	})
}

// RenameNotebook replaces a tab's notebook title.
func (s *Session) RenameNotebook(tabID, title string) {
	s.Apply(tabID, func(t notebook.Tab) notebook.Tab {
		return notebook.RenameNotebook(t, title)
	})
}

// ReorderPages moves a page within a tab's notebook.
func (s *Session) ReorderPages(tabID string, fromIndex, toIndex int) {
	s.Apply(tabID, func(t notebook.Tab) notebook.Tab {
		return notebook.ReorderPages(t, fromIndex, toIndex)
	})
}

// UpdatePageContent replaces a page's content tree with a committed edit.
func (s *Session) UpdatePageContent(tabID, pageID string, content doc.Document) {
	s.Apply(tabID, func(t notebook.Tab) notebook.Tab {
		return notebook.UpdatePageContent(t, pageID, content)
	})
}

// SetActivePage switches a tab's visible page.
func (s *Session) SetActivePage(tabID, pageID string) {
	s.Apply(tabID, func(t notebook.Tab) notebook.Tab {
		return notebook.SetActivePage(t, pageID)
	})
}

// CreateSnapshot records a manual history snapshot.
func (s *Session) CreateSnapshot(tabID, title string) {
	s.Apply(tabID, func(t notebook.Tab) notebook.Tab {
		return notebook.CreateSnapshot(t, title)
	})
}

// RestoreSnapshot rolls a tab's notebook back to a snapshot's pages.
func (s *Session) RestoreSnapshot(tabID, snapshotID string) {
	s.Apply(tabID, func(t notebook.Tab) notebook.Tab {
		return notebook.RestoreSnapshot(t, snapshotID)
	})
}
