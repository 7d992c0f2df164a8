// Package notebook holds the notebook/page/tab/snapshot entity graph and
// its mutation operations. Operations are pure: they take a value, return
// a replacement value, and never mutate shared state in place. Invalid ids
// (a page deleted while a rename was in flight, a snapshot that no longer
// exists) are no-ops rather than errors — they represent races with
// concurrent UI actions and must not crash the session.
package notebook

import (
	"time"

	"github.com/google/uuid"

	"github.com/skrybl/skrybl/doc"
)

// FormatVersion tags the serialized notebook format.
const FormatVersion = 1

// MaxSnapshots caps the snapshot history; the oldest entry is evicted on
// overflow.
const MaxSnapshots = 50

// Page is one editable unit within a notebook.
type Page struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Content   doc.Document `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Snapshot is an immutable point-in-time capture of a notebook's pages.
type Snapshot struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Title     string    `json:"title"`
	Pages     []Page    `json:"pages"`
}

// Notebook is the root document unit.
type Notebook struct {
	Version      int        `json:"version"`
	Title        string     `json:"title"`
	Pages        []Page     `json:"pages"`
	ActivePageID string     `json:"activePageId"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	Snapshots    []Snapshot `json:"snapshots,omitempty"`
}

// Tab is one open document session: a notebook bound to zero-or-one file
// path, independently dirty-tracked. The notebook is exclusively owned by
// its tab.
type Tab struct {
	ID       string   `json:"id"`
	Notebook Notebook `json:"notebook"`
	// FilePath is empty while the notebook has never been saved.
	FilePath string `json:"filePath,omitempty"`
	Dirty    bool   `json:"isDirty"`
}

// NewPage creates a page holding a single empty paragraph.
func NewPage(title string) Page {
	now := time.Now().UTC()
	return Page{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   doc.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// New creates an empty notebook with one page titled "Page 1".
func New() Notebook {
	page := NewPage("Page 1")
	now := time.Now().UTC()
	return Notebook{
		Version:      FormatVersion,
		Title:        "Untitled Notebook",
		Pages:        []Page{page},
		ActivePageID: page.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTab wraps a notebook in a fresh session tab. An empty filePath means
// "never saved".
func NewTab(nb Notebook, filePath string) Tab {
	return Tab{
		ID:       uuid.NewString(),
		Notebook: nb,
		FilePath: filePath,
	}
}

// NewBlankTab creates a tab around a brand-new notebook.
func NewBlankTab() Tab {
	return NewTab(New(), "")
}

// ActivePage resolves the notebook's active page, falling back to the
// first page if the id is stale.
func (n Notebook) ActivePage() Page {
	for _, p := range n.Pages {
		if p.ID == n.ActivePageID {
			return p
		}
	}
	return n.Pages[0]
}

// clonePages deep-copies a page sequence so stored history cannot be
// corrupted by later edits to the live document.
func clonePages(pages []Page) []Page {
	out := make([]Page, len(pages))
	for i, p := range pages {
		p.Content = p.Content.Clone()
		out[i] = p
	}
	return out
}
