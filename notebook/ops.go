package notebook

import (
	"strconv"
	"time"

	"github.com/skrybl/skrybl/doc"
)

// Mutations copy-on-write the slices they touch. UpdatePageContent swaps a
// page's content tree wholesale, so every operation here is O(page count),
// never O(document size).

// AddPage appends a page titled "Page N", makes it active and marks the
// tab dirty. It returns the new tab state and the new page's id.
func AddPage(t Tab) (Tab, string) {
	page := NewPage(pageTitle(len(t.Notebook.Pages) + 1))
	nb := t.Notebook
	nb.Pages = append(append([]Page(nil), nb.Pages...), page)
	nb.ActivePageID = page.ID
	nb.UpdatedAt = time.Now().UTC()
	t.Notebook = nb
	t.Dirty = true
	return t, page.ID
}

func pageTitle(n int) string {
	return "Page " + strconv.Itoa(n)
}

// DeletePage removes a page. Deleting the sole remaining page is rejected
// (no-op), as is an unknown id. If the deleted page was active, the first
// remaining page becomes active.
func DeletePage(t Tab, pageID string) Tab {
	nb := t.Notebook
	if len(nb.Pages) <= 1 {
		return t
	}
	pages := make([]Page, 0, len(nb.Pages)-1)
	found := false
	for _, p := range nb.Pages {
		if p.ID == pageID {
			found = true
			continue
		}
		pages = append(pages, p)
	}
	if !found {
		return t
	}
	nb.Pages = pages
	if nb.ActivePageID == pageID {
		nb.ActivePageID = pages[0].ID
	}
	nb.UpdatedAt = time.Now().UTC()
	t.Notebook = nb
	t.Dirty = true
	return t
}

// RenamePage replaces a page's title. Unknown ids are no-ops.
func RenamePage(t Tab, pageID, title string) Tab {
	nb := t.Notebook
	now := time.Now().UTC()
	pages := make([]Page, len(nb.Pages))
	found := false
	for i, p := range nb.Pages {
		if p.ID == pageID {
			p.Title = title
			p.UpdatedAt = now
			found = true
		}
		pages[i] = p
	}
	if !found {
		return t
	}
	nb.Pages = pages
	nb.UpdatedAt = now
	t.Notebook = nb
	t.Dirty = true
	return t
}

// RenameNotebook replaces the notebook title.
func RenameNotebook(t Tab, title string) Tab {
	t.Notebook.Title = title
	t.Notebook.UpdatedAt = time.Now().UTC()
	t.Dirty = true
	return t
}

// ReorderPages moves one page within the sequence. Equal or out-of-range
// indices are no-ops.
func ReorderPages(t Tab, fromIndex, toIndex int) Tab {
	nb := t.Notebook
	n := len(nb.Pages)
	if fromIndex == toIndex || fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n {
		return t
	}
	pages := append([]Page(nil), nb.Pages...)
	moved := pages[fromIndex]
	pages = append(pages[:fromIndex], pages[fromIndex+1:]...)
	pages = append(pages[:toIndex], append([]Page{moved}, pages[toIndex:]...)...)
	nb.Pages = pages
	nb.UpdatedAt = time.Now().UTC()
	t.Notebook = nb
	t.Dirty = true
	return t
}

// UpdatePageContent replaces a page's content tree. This is the highest
// frequency operation — it runs on every committed edit.
func UpdatePageContent(t Tab, pageID string, content doc.Document) Tab {
	nb := t.Notebook
	now := time.Now().UTC()
	pages := make([]Page, len(nb.Pages))
	found := false
	for i, p := range nb.Pages {
		if p.ID == pageID {
			p.Content = content
			p.UpdatedAt = now
			found = true
		}
		pages[i] = p
	}
	if !found {
		return t
	}
	nb.Pages = pages
	nb.UpdatedAt = now
	t.Notebook = nb
	t.Dirty = true
	return t
}

// SetActivePage switches the visible page. Unknown ids are no-ops.
func SetActivePage(t Tab, pageID string) Tab {
	for _, p := range t.Notebook.Pages {
		if p.ID == pageID {
			t.Notebook.ActivePageID = pageID
			return t
		}
	}
	return t
}

// SetFilePath binds the tab to a file path.
func SetFilePath(t Tab, path string) Tab {
	t.FilePath = path
	return t
}

// SetDirty sets the unsaved-changes flag.
func SetDirty(t Tab, dirty bool) Tab {
	t.Dirty = dirty
	return t
}

// Replace swaps the tab's notebook, rebinding the file path when one is
// given and clearing the dirty flag. Used by open and new-notebook flows.
func Replace(t Tab, nb Notebook, filePath string) Tab {
	t.Notebook = nb
	if filePath != "" {
		t.FilePath = filePath
	}
	t.Dirty = false
	return t
}
