package notebook

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// CreateSnapshot captures the notebook's current pages into the snapshot
// history. When title is empty the snapshot is named "Snapshot {n+1}".
// If the pages are structurally identical to the most recent snapshot the
// call is a no-op, so repeated autosaves of unchanged content do not pile
// up redundant history entries. History is capped at MaxSnapshots, oldest
// evicted first.
func CreateSnapshot(t Tab, title string) Tab {
	nb := t.Notebook
	snapshots := append([]Snapshot(nil), nb.Snapshots...)

	if len(snapshots) > 0 && pagesEqual(snapshots[len(snapshots)-1].Pages, nb.Pages) {
		return t
	}

	if title == "" {
		title = "Snapshot " + strconv.Itoa(len(snapshots)+1)
	}
	snapshots = append(snapshots, Snapshot{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Title:     title,
		Pages:     clonePages(nb.Pages),
	})
	for len(snapshots) > MaxSnapshots {
		snapshots = snapshots[1:]
	}

	nb.Snapshots = snapshots
	t.Notebook = nb
	return t
}

// RestoreSnapshot replaces the notebook's pages with a deep copy of the
// snapshot's pages, activates the first restored page and marks the tab
// dirty. Unknown ids are no-ops.
func RestoreSnapshot(t Tab, snapshotID string) Tab {
	nb := t.Notebook
	var snap *Snapshot
	for i := range nb.Snapshots {
		if nb.Snapshots[i].ID == snapshotID {
			snap = &nb.Snapshots[i]
			break
		}
	}
	if snap == nil || len(snap.Pages) == 0 {
		return t
	}

	nb.Pages = clonePages(snap.Pages)
	nb.ActivePageID = nb.Pages[0].ID
	nb.UpdatedAt = time.Now().UTC()
	t.Notebook = nb
	t.Dirty = true
	return t
}

// pagesEqual reports structural equality of two page sequences via their
// canonical JSON form, the same representation used on disk.
func pagesEqual(a, b []Page) bool {
	aj, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bj, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(aj) == string(bj)
}
