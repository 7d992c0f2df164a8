package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skrybl/skrybl/compute"
	"github.com/skrybl/skrybl/graph"
	"github.com/skrybl/skrybl/notebook"
	"github.com/skrybl/skrybl/session"
	"github.com/skrybl/skrybl/store"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()

	numeric := compute.NewNumeric()
	sess := session.New(session.Config{Numeric: numeric})
	t.Cleanup(func() { sess.Close() })

	prefs := store.OpenPrefsMemory(t)
	srv := New(Config{
		Session:  sess,
		Numeric:  numeric,
		Symbolic: compute.NewSymbolic("http://127.0.0.1:1", nil),
		Graphs:   graph.New(graph.Config{}),
		Recents:  store.NewRecents(filepath.Join(dir, "recents.json"), nil),
		Prefs:    prefs,
	})

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestTabLifecycle(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts.URL+"/api/tabs", nil)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	created := decode[map[string]string](t, resp)
	newID := created["id"]
	if newID == "" {
		t.Fatal("expected new tab id")
	}

	list := decode[struct {
		Tabs        []notebook.Tab `json:"tabs"`
		ActiveTabID string         `json:"activeTabId"`
	}](t, mustGet(t, ts.URL+"/api/tabs"))
	if len(list.Tabs) != 2 {
		t.Fatalf("expected 2 tabs, got %d", len(list.Tabs))
	}
	if list.ActiveTabID != newID {
		t.Fatal("new tab should be focused")
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/tabs/"+newID, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	closed := decode[map[string]string](t, resp)
	if closed["activeTabId"] == newID {
		t.Fatal("closed tab cannot stay focused")
	}
}

func TestPageOpsOverHTTP(t *testing.T) {
	ts := testServer(t)
	list := decode[struct {
		Tabs []notebook.Tab `json:"tabs"`
	}](t, mustGet(t, ts.URL+"/api/tabs"))
	tabID := list.Tabs[0].ID

	resp := postJSON(t, ts.URL+"/api/tabs/"+tabID+"/pages", nil)
	added := decode[map[string]string](t, resp)
	pageID := added["pageId"]
	if pageID == "" {
		t.Fatal("expected page id")
	}

	resp = postJSON(t, ts.URL+"/api/evaluate/numeric", map[string]string{"expression": "6 * 7"})
	res := decode[compute.NumericResult](t, resp)
	if res.Result == nil || *res.Result != "42" {
		t.Fatalf("expected 42, got %+v", res)
	}

	tab := decode[notebook.Tab](t, mustGet(t, ts.URL+"/api/tabs/"+tabID))
	if len(tab.Notebook.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(tab.Notebook.Pages))
	}
}

func TestExportEndpoints(t *testing.T) {
	ts := testServer(t)
	list := decode[struct {
		Tabs []notebook.Tab `json:"tabs"`
	}](t, mustGet(t, ts.URL+"/api/tabs"))
	tabID := list.Tabs[0].ID

	resp := mustGet(t, ts.URL+"/api/tabs/"+tabID+"/export/markdown")
	body := readAll(t, resp)
	if !strings.HasPrefix(body, "# Untitled Notebook") {
		t.Fatalf("unexpected markdown export:\n%s", body)
	}

	resp = mustGet(t, ts.URL+"/api/tabs/"+tabID+"/export/latex")
	if body = readAll(t, resp); !strings.Contains(body, `\documentclass{article}`) {
		t.Fatalf("unexpected latex export:\n%s", body)
	}

	resp = mustGet(t, ts.URL+"/api/tabs/"+tabID+"/export/html")
	if body = readAll(t, resp); !strings.HasPrefix(body, "<!DOCTYPE html>") {
		t.Fatalf("unexpected html export:\n%s", body)
	}

	// PDF is not wired in this server.
	resp = postJSON(t, ts.URL+"/api/tabs/"+tabID+"/export/pdf", nil)
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503 without a pdf renderer, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestExportUnknownTab(t *testing.T) {
	ts := testServer(t)
	resp := mustGet(t, ts.URL+"/api/tabs/nope/export/markdown")
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestPrefsEndpoints(t *testing.T) {
	ts := testServer(t)

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/prefs/theme",
		strings.NewReader(`{"value":"dark"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	got := decode[map[string]string](t, mustGet(t, ts.URL+"/api/prefs/theme?fallback=light"))
	if got["value"] != "dark" {
		t.Fatalf("expected dark, got %q", got["value"])
	}

	got = decode[map[string]string](t, mustGet(t, ts.URL+"/api/prefs/missing?fallback=zz"))
	if got["value"] != "zz" {
		t.Fatalf("expected fallback, got %q", got["value"])
	}
}

func TestRecentsEndpoints(t *testing.T) {
	ts := testServer(t)

	files := decode[[]store.RecentFile](t, mustGet(t, ts.URL+"/api/recents"))
	if len(files) != 0 {
		t.Fatalf("expected empty recents, got %+v", files)
	}

	resp := postJSON(t, ts.URL+"/api/recents/reorder", map[string][]string{"paths": {}})
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestHandwriteUnconfigured(t *testing.T) {
	ts := testServer(t)
	resp := postJSON(t, ts.URL+"/api/handwrite", map[string]any{"strokes": []any{}})
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503 without credentials, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func mustGet(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
