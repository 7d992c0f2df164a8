package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// MaxRecent caps the recent-files list.
const MaxRecent = 20

// RecentFile is one entry of the most-recently-used list.
type RecentFile struct {
	Path      string `json:"path"`
	Title     string `json:"title"`
	UpdatedAt string `json:"updatedAt"`
	PageCount int    `json:"pageCount"`
	Icon      string `json:"icon,omitempty"`
	Color     string `json:"color,omitempty"`
}

// Recents tracks the most-recently-used notebook list in a JSON file.
// All writes are best-effort: the list is non-critical state, so write
// failures are logged and swallowed rather than surfaced.
type Recents struct {
	path   string
	logger *slog.Logger
}

// NewRecents creates a Recents store backed by the given file path.
func NewRecents(path string, logger *slog.Logger) *Recents {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recents{path: path, logger: logger}
}

// List returns the stored entries, most recent first. A missing or
// corrupt file reads as empty.
func (r *Recents) List() []RecentFile {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil
	}
	var files []RecentFile
	if err := json.Unmarshal(data, &files); err != nil {
		r.logger.Warn("recents: corrupt list, resetting", "path", r.path, "error", err)
		return nil
	}
	return files
}

// Add upserts an entry by path and moves it to the front. Icon and color
// from an existing entry are preserved when the new entry omits them.
// The list is trimmed to MaxRecent.
func (r *Recents) Add(entry RecentFile) {
	existing := r.List()

	for _, old := range existing {
		if old.Path == entry.Path {
			if entry.Icon == "" {
				entry.Icon = old.Icon
			}
			if entry.Color == "" {
				entry.Color = old.Color
			}
			break
		}
	}

	files := make([]RecentFile, 0, len(existing)+1)
	files = append(files, entry)
	for _, f := range existing {
		if f.Path != entry.Path {
			files = append(files, f)
		}
	}
	if len(files) > MaxRecent {
		files = files[:MaxRecent]
	}
	r.save(files)
}

// Remove drops the entry with the given path, if present. Used both for
// explicit removal and for pruning stale entries whose file failed to
// open.
func (r *Recents) Remove(path string) {
	existing := r.List()
	files := existing[:0]
	for _, f := range existing {
		if f.Path != path {
			files = append(files, f)
		}
	}
	r.save(files)
}

// Update patches title/icon/color of the entry with the given path.
// Empty fields leave the stored value untouched.
func (r *Recents) Update(path string, title, icon, color string) {
	files := r.List()
	for i := range files {
		if files[i].Path != path {
			continue
		}
		if title != "" {
			files[i].Title = title
		}
		if icon != "" {
			files[i].Icon = icon
		}
		if color != "" {
			files[i].Color = color
		}
	}
	r.save(files)
}

// Reorder rearranges entries to match orderedPaths; entries not named
// keep their relative order at the tail.
func (r *Recents) Reorder(orderedPaths []string) {
	files := r.List()
	byPath := make(map[string]RecentFile, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}

	reordered := make([]RecentFile, 0, len(files))
	for _, p := range orderedPaths {
		if f, ok := byPath[p]; ok {
			reordered = append(reordered, f)
			delete(byPath, p)
		}
	}
	for _, f := range files {
		if _, ok := byPath[f.Path]; ok {
			reordered = append(reordered, f)
		}
	}
	r.save(reordered)
}

func (r *Recents) save(files []RecentFile) {
	data, err := json.MarshalIndent(files, "", "  ")
	if err != nil {
		r.logger.Warn("recents: marshal", "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		r.logger.Warn("recents: mkdir", "error", err)
		return
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		r.logger.Warn("recents: write", "path", r.path, "error", err)
	}
}
