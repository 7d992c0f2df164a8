package notebook

import (
	"strconv"
	"testing"

	"github.com/skrybl/skrybl/doc"
)

func editPage(tab Tab, text string) Tab {
	id := tab.Notebook.Pages[0].ID
	content := doc.Document{Blocks: []doc.Block{doc.Paragraph(doc.Text(text))}}
	return UpdatePageContent(tab, id, content)
}

func TestCreateSnapshotDefaults(t *testing.T) {
	tab := NewBlankTab()
	tab = CreateSnapshot(tab, "")

	snaps := tab.Notebook.Snapshots
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps))
	}
	if snaps[0].Title != "Snapshot 1" {
		t.Fatalf("expected Snapshot 1, got %q", snaps[0].Title)
	}
	if snaps[0].ID == "" {
		t.Fatal("snapshot needs an id")
	}
}

func TestCreateSnapshotDedupsUnchangedContent(t *testing.T) {
	tab := NewBlankTab()
	tab = CreateSnapshot(tab, "a")
	tab = CreateSnapshot(tab, "b")
	if len(tab.Notebook.Snapshots) != 1 {
		t.Fatalf("unchanged content must not snapshot twice, got %d", len(tab.Notebook.Snapshots))
	}

	tab = editPage(tab, "new content")
	tab = CreateSnapshot(tab, "c")
	if len(tab.Notebook.Snapshots) != 2 {
		t.Fatalf("changed content must snapshot, got %d", len(tab.Notebook.Snapshots))
	}
}

func TestSnapshotHistoryCap(t *testing.T) {
	tab := NewBlankTab()
	for i := 0; i < MaxSnapshots+5; i++ {
		tab = editPage(tab, "rev "+strconv.Itoa(i))
		tab = CreateSnapshot(tab, "")
	}

	snaps := tab.Notebook.Snapshots
	if len(snaps) != MaxSnapshots {
		t.Fatalf("expected %d snapshots, got %d", MaxSnapshots, len(snaps))
	}
	// Oldest evicted first: the newest revision must still be present.
	last := snaps[len(snaps)-1]
	if got := last.Pages[0].Content.Blocks[0].Inlines[0].Text; got != "rev "+strconv.Itoa(MaxSnapshots+4) {
		t.Fatalf("expected newest revision retained, got %q", got)
	}
}

func TestRestoreSnapshot(t *testing.T) {
	tab := NewBlankTab()
	tab = editPage(tab, "original")
	tab = CreateSnapshot(tab, "before")
	snapID := tab.Notebook.Snapshots[0].ID

	tab = editPage(tab, "changed")
	tab = SetDirty(tab, false)
	tab = RestoreSnapshot(tab, snapID)

	if got := tab.Notebook.Pages[0].Content.Blocks[0].Inlines[0].Text; got != "original" {
		t.Fatalf("expected restored content, got %q", got)
	}
	if !tab.Dirty {
		t.Fatal("restore should mark the tab dirty")
	}
	if tab.Notebook.ActivePageID != tab.Notebook.Pages[0].ID {
		t.Fatal("restore should activate the first page")
	}
}

func TestRestoreSnapshotUnknownIDIsNoOp(t *testing.T) {
	tab := NewBlankTab()
	tab = editPage(tab, "original")
	got := RestoreSnapshot(tab, "missing")
	if txt := got.Notebook.Pages[0].Content.Blocks[0].Inlines[0].Text; txt != "original" {
		t.Fatalf("unknown snapshot id must be a no-op, got %q", txt)
	}
}

func TestRestoredPagesAreDeepCopies(t *testing.T) {
	tab := NewBlankTab()
	tab = editPage(tab, "v1")
	tab = CreateSnapshot(tab, "s")
	snapID := tab.Notebook.Snapshots[0].ID

	tab = RestoreSnapshot(tab, snapID)
	tab.Notebook.Pages[0].Content.Blocks[0].Inlines[0].Text = "mutated"

	// The stored snapshot must be unaffected by edits to the live pages.
	if got := tab.Notebook.Snapshots[0].Pages[0].Content.Blocks[0].Inlines[0].Text; got != "v1" {
		t.Fatalf("snapshot pages were aliased by restore, got %q", got)
	}
}
