package notebook

import (
	"testing"

	"github.com/skrybl/skrybl/doc"
)

func TestNewNotebookDefaults(t *testing.T) {
	nb := New()
	if nb.Title != "Untitled Notebook" {
		t.Fatalf("expected default title, got %q", nb.Title)
	}
	if len(nb.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(nb.Pages))
	}
	if nb.Pages[0].Title != "Page 1" {
		t.Fatalf("expected Page 1, got %q", nb.Pages[0].Title)
	}
	if nb.ActivePageID != nb.Pages[0].ID {
		t.Fatal("active page should be the initial page")
	}
	if nb.Version != FormatVersion {
		t.Fatalf("expected version %d, got %d", FormatVersion, nb.Version)
	}
}

func TestAddPage(t *testing.T) {
	tab := NewBlankTab()
	tab, pageID := AddPage(tab)

	if len(tab.Notebook.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(tab.Notebook.Pages))
	}
	if tab.Notebook.Pages[1].Title != "Page 2" {
		t.Fatalf("expected Page 2, got %q", tab.Notebook.Pages[1].Title)
	}
	if tab.Notebook.ActivePageID != pageID {
		t.Fatal("new page should become active")
	}
	if !tab.Dirty {
		t.Fatal("adding a page should mark the tab dirty")
	}
}

func TestDeletePage(t *testing.T) {
	tab := NewBlankTab()

	// Sole page cannot be deleted.
	got := DeletePage(tab, tab.Notebook.Pages[0].ID)
	if len(got.Notebook.Pages) != 1 {
		t.Fatal("sole page must not be deletable")
	}

	tab, second := AddPage(tab)
	tab = DeletePage(tab, second)
	if len(tab.Notebook.Pages) != 1 {
		t.Fatalf("expected 1 page after delete, got %d", len(tab.Notebook.Pages))
	}
	if tab.Notebook.ActivePageID != tab.Notebook.Pages[0].ID {
		t.Fatal("active page should fall back to the first remaining page")
	}

	// Unknown id is a no-op.
	before := len(tab.Notebook.Pages)
	tab = DeletePage(tab, "missing")
	if len(tab.Notebook.Pages) != before {
		t.Fatal("unknown page id must be a no-op")
	}
}

func TestRenamePage(t *testing.T) {
	tab := NewBlankTab()
	id := tab.Notebook.Pages[0].ID

	tab = RenamePage(tab, id, "Mechanics")
	if tab.Notebook.Pages[0].Title != "Mechanics" {
		t.Fatalf("expected Mechanics, got %q", tab.Notebook.Pages[0].Title)
	}
	if !tab.Dirty {
		t.Fatal("rename should mark the tab dirty")
	}

	got := RenamePage(tab, "missing", "x")
	if got.Notebook.Pages[0].Title != "Mechanics" {
		t.Fatal("unknown page id must be a no-op")
	}
}

func TestReorderPages(t *testing.T) {
	tab := NewBlankTab()
	tab, _ = AddPage(tab)
	tab, _ = AddPage(tab)
	first := tab.Notebook.Pages[0].ID

	tab = ReorderPages(tab, 0, 2)
	if tab.Notebook.Pages[2].ID != first {
		t.Fatal("page did not move to target index")
	}

	// Out-of-range and identity moves are no-ops.
	before := tab.Notebook.Pages[0].ID
	tab = ReorderPages(tab, 0, 0)
	tab = ReorderPages(tab, -1, 1)
	tab = ReorderPages(tab, 0, 9)
	if tab.Notebook.Pages[0].ID != before {
		t.Fatal("invalid reorder must be a no-op")
	}
}

func TestUpdatePageContent(t *testing.T) {
	tab := NewBlankTab()
	id := tab.Notebook.Pages[0].ID

	content := doc.Document{Blocks: []doc.Block{doc.Paragraph(doc.Text("hello"))}}
	tab = UpdatePageContent(tab, id, content)

	if got := tab.Notebook.Pages[0].Content.Blocks[0].Inlines[0].Text; got != "hello" {
		t.Fatalf("expected hello, got %q", got)
	}
	if !tab.Dirty {
		t.Fatal("content update should mark the tab dirty")
	}
}

func TestSetActivePage(t *testing.T) {
	tab := NewBlankTab()
	tab, second := AddPage(tab)
	first := tab.Notebook.Pages[0].ID

	tab = SetActivePage(tab, first)
	if tab.Notebook.ActivePageID != first {
		t.Fatal("active page did not switch")
	}
	tab = SetActivePage(tab, "missing")
	if tab.Notebook.ActivePageID != first {
		t.Fatal("unknown page id must be a no-op")
	}
	_ = second
}

func TestActivePageFallsBackToFirst(t *testing.T) {
	nb := New()
	nb.ActivePageID = "stale"
	if nb.ActivePage().ID != nb.Pages[0].ID {
		t.Fatal("stale active id should resolve to the first page")
	}
}

func TestReplaceClearsDirty(t *testing.T) {
	tab := NewBlankTab()
	tab = SetDirty(tab, true)
	tab = Replace(tab, New(), "/tmp/x.skrybl")
	if tab.Dirty {
		t.Fatal("replace should clear the dirty flag")
	}
	if tab.FilePath != "/tmp/x.skrybl" {
		t.Fatalf("expected file path bound, got %q", tab.FilePath)
	}

	// Empty path keeps the existing binding.
	tab = Replace(tab, New(), "")
	if tab.FilePath != "/tmp/x.skrybl" {
		t.Fatal("empty path must keep the existing binding")
	}
}
