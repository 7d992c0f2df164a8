package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Prefs is the key-value store for user preferences (theme, sidebar,
// focus mode, font, spellcheck), window state and the handwriting-engine
// credentials. It is a narrow interface over a single SQLite table so
// presentation components receive explicit state instead of reaching
// into ambient globals.
type Prefs struct {
	db *sql.DB
}

const prefsSchema = `
CREATE TABLE IF NOT EXISTS prefs (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// OpenPrefs opens (and initializes) the preferences database at path,
// applying the usual production pragmas. Parent directories are created.
func OpenPrefs(path string) (*Prefs, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("prefs: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("prefs: open: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("prefs: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(prefsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("prefs: schema: %w", err)
	}
	return &Prefs{db: db}, nil
}

// OpenPrefsMemory opens an in-memory preferences store for testing and
// registers cleanup. MaxOpenConns(1) keeps every query on the same
// in-memory database.
func OpenPrefsMemory(t testing.TB) *Prefs {
	t.Helper()
	p, err := OpenPrefs(":memory:")
	if err != nil {
		t.Fatalf("store.OpenPrefsMemory: %v", err)
	}
	p.db.SetMaxOpenConns(1)
	t.Cleanup(func() { p.Close() })
	return p
}

// Get returns the value for key, or fallback when unset.
func (p *Prefs) Get(key, fallback string) string {
	var v string
	if err := p.db.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&v); err != nil {
		return fallback
	}
	return v
}

// Set stores a value under key.
func (p *Prefs) Set(key, value string) error {
	_, err := p.db.Exec(
		"INSERT INTO prefs (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return fmt.Errorf("prefs: set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Missing keys are fine.
func (p *Prefs) Delete(key string) error {
	if _, err := p.db.Exec("DELETE FROM prefs WHERE key = ?", key); err != nil {
		return fmt.Errorf("prefs: delete %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (p *Prefs) Close() error {
	return p.db.Close()
}
