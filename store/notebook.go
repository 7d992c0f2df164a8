// Package store is the persistence gateway: notebook files on disk,
// the recent-files list, and a small SQLite key-value store for
// preferences and window state.
//
// A notebook file is the literal indented-JSON serialization of the
// Notebook entity — the durable format. Load(Save(n)) yields a
// structurally identical notebook.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skrybl/skrybl/notebook"
)

// Save writes a notebook to path as indented JSON. The write goes through
// a temp file and rename so a crash mid-write cannot truncate an existing
// notebook.
func Save(path string, nb notebook.Notebook) error {
	data, err := json.MarshalIndent(nb, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal notebook: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store: rename %s: %w", path, err)
	}
	return nil
}

// Load reads a notebook from path.
func Load(path string) (notebook.Notebook, error) {
	var nb notebook.Notebook
	data, err := os.ReadFile(path)
	if err != nil {
		return nb, fmt.Errorf("store: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &nb); err != nil {
		return nb, fmt.Errorf("store: parse %s: %w", path, err)
	}
	if len(nb.Pages) == 0 {
		return nb, fmt.Errorf("store: %s: notebook has no pages", path)
	}
	return nb, nil
}

// DefaultDataDir returns the per-user data directory for recents,
// preferences and window state.
func DefaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("store: user config dir: %w", err)
	}
	return filepath.Join(base, "skrybl"), nil
}
