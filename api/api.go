// Package api exposes the application core over a local HTTP surface:
// tab and page operations, field evaluation, exports, diagram rendering,
// recents and preferences. The server binds loopback only — it is the
// seam between the UI shell and the Go core, not a public service.
package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skrybl/skrybl/compute"
	"github.com/skrybl/skrybl/diagram"
	"github.com/skrybl/skrybl/doc"
	"github.com/skrybl/skrybl/export"
	"github.com/skrybl/skrybl/graph"
	"github.com/skrybl/skrybl/handwrite"
	"github.com/skrybl/skrybl/importer"
	"github.com/skrybl/skrybl/notebook"
	"github.com/skrybl/skrybl/session"
	"github.com/skrybl/skrybl/store"
)

// Config wires the server's collaborators. Session, Numeric and Symbolic
// are required; everything else degrades to 503 when absent.
type Config struct {
	Session  *session.Session
	Numeric  session.NumericEvaluator
	Symbolic session.SymbolicEvaluator

	Graphs    *graph.Renderer
	PDF       *export.PDFRenderer
	Diagrams  *diagram.Renderer
	Importer  *importer.Importer
	Handwrite *handwrite.Client
	Recents   *store.Recents
	Prefs     *store.Prefs

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Server holds the HTTP handlers.
type Server struct {
	cfg Config
}

// New creates a Server.
func New(cfg Config) *Server {
	cfg.defaults()
	return &Server{cfg: cfg}
}

// Router builds the route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/tabs", s.listTabs)
		r.Post("/tabs", s.newTab)
		r.Post("/tabs/open", s.openFile)
		r.Post("/tabs/reorder", s.reorderTabs)

		r.Route("/tabs/{tabID}", func(r chi.Router) {
			r.Get("/", s.getTab)
			r.Delete("/", s.closeTab)
			r.Post("/switch", s.switchTab)
			r.Post("/save", s.saveTab)
			r.Patch("/", s.renameNotebook)

			r.Post("/pages", s.addPage)
			r.Post("/pages/reorder", s.reorderPages)
			r.Route("/pages/{pageID}", func(r chi.Router) {
				r.Delete("/", s.deletePage)
				r.Patch("/", s.renamePage)
				r.Put("/content", s.updatePageContent)
				r.Post("/activate", s.setActivePage)
			})

			r.Post("/snapshots", s.createSnapshot)
			r.Post("/snapshots/{snapshotID}/restore", s.restoreSnapshot)

			r.Get("/export/latex", s.exportLatex)
			r.Get("/export/markdown", s.exportMarkdown)
			r.Get("/export/html", s.exportHTML)
			r.Post("/export/pdf", s.exportPDF)
		})

		r.Post("/evaluate/numeric", s.evaluateNumeric)
		r.Post("/evaluate/symbolic", s.evaluateSymbolic)
		r.Post("/diagram", s.renderDiagram)
		r.Post("/import/html", s.importHTML)
		r.Post("/handwrite", s.recognize)

		r.Get("/recents", s.listRecents)
		r.Delete("/recents", s.removeRecent)
		r.Patch("/recents", s.updateRecent)
		r.Post("/recents/reorder", s.reorderRecents)

		r.Get("/ui-state", s.getUIState)
		r.Put("/ui-state", s.setUIState)

		r.Get("/prefs/{key}", s.getPref)
		r.Put("/prefs/{key}", s.setPref)
	})

	return r
}

// --- Tabs ---

func (s *Server) listTabs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, 200, map[string]any{
		"tabs":        s.cfg.Session.Tabs(),
		"activeTabId": s.cfg.Session.ActiveTabID(),
	})
}

func (s *Server) getTab(w http.ResponseWriter, r *http.Request) {
	tab, ok := s.cfg.Session.Tab(chi.URLParam(r, "tabID"))
	if !ok {
		writeJSON(w, 404, map[string]string{"error": "no such tab"})
		return
	}
	writeJSON(w, 200, tab)
}

func (s *Server) newTab(w http.ResponseWriter, _ *http.Request) {
	id := s.cfg.Session.NewTab()
	writeJSON(w, 201, map[string]string{"id": id})
}

func (s *Server) openFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	id, err := s.cfg.Session.OpenFile(req.Path)
	if err != nil {
		writeError(w, 422, err)
		return
	}
	writeJSON(w, 200, map[string]string{"id": id})
}

func (s *Server) switchTab(w http.ResponseWriter, r *http.Request) {
	s.cfg.Session.SwitchTab(chi.URLParam(r, "tabID"))
	writeJSON(w, 200, map[string]string{"activeTabId": s.cfg.Session.ActiveTabID()})
}

func (s *Server) closeTab(w http.ResponseWriter, r *http.Request) {
	s.cfg.Session.CloseTab(chi.URLParam(r, "tabID"))
	writeJSON(w, 200, map[string]string{"activeTabId": s.cfg.Session.ActiveTabID()})
}

func (s *Server) reorderTabs(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	s.cfg.Session.ReorderTabs(req.From, req.To)
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) saveTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	if err := s.cfg.Session.Save(chi.URLParam(r, "tabID"), req.Path); err != nil {
		writeError(w, 422, err)
		return
	}
	writeJSON(w, 200, map[string]string{"status": "saved"})
}

func (s *Server) renameNotebook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	s.cfg.Session.RenameNotebook(chi.URLParam(r, "tabID"), req.Title)
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

// --- Pages ---

func (s *Server) addPage(w http.ResponseWriter, r *http.Request) {
	pageID := s.cfg.Session.AddPage(chi.URLParam(r, "tabID"))
	writeJSON(w, 201, map[string]string{"pageId": pageID})
}

func (s *Server) deletePage(w http.ResponseWriter, r *http.Request) {
	s.cfg.Session.DeletePage(chi.URLParam(r, "tabID"), chi.URLParam(r, "pageID"))
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) renamePage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	s.cfg.Session.RenamePage(chi.URLParam(r, "tabID"), chi.URLParam(r, "pageID"), req.Title)
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) reorderPages(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	s.cfg.Session.ReorderPages(chi.URLParam(r, "tabID"), req.From, req.To)
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) updatePageContent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content doc.Document `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	s.cfg.Session.UpdatePageContent(chi.URLParam(r, "tabID"), chi.URLParam(r, "pageID"), req.Content)
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) setActivePage(w http.ResponseWriter, r *http.Request) {
	s.cfg.Session.SetActivePage(chi.URLParam(r, "tabID"), chi.URLParam(r, "pageID"))
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

// --- Snapshots ---

func (s *Server) createSnapshot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	s.cfg.Session.CreateSnapshot(chi.URLParam(r, "tabID"), req.Title)
	writeJSON(w, 201, map[string]string{"status": "ok"})
}

func (s *Server) restoreSnapshot(w http.ResponseWriter, r *http.Request) {
	s.cfg.Session.RestoreSnapshot(chi.URLParam(r, "tabID"), chi.URLParam(r, "snapshotID"))
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

// --- Evaluation ---

func (s *Server) evaluateNumeric(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Expression string `json:"expression"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	writeJSON(w, 200, s.cfg.Numeric.Evaluate(req.Expression))
}

func (s *Server) evaluateSymbolic(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Expression string `json:"expression"`
		Operation  string `json:"operation"`
		Variable   string `json:"variable"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	res := s.cfg.Symbolic.Evaluate(r.Context(), req.Expression, compute.SymbolicOp(req.Operation), req.Variable)
	writeJSON(w, 200, res)
}

// --- Export ---

func (s *Server) exportLatex(w http.ResponseWriter, r *http.Request) {
	tab, ok := s.cfg.Session.Tab(chi.URLParam(r, "tabID"))
	if !ok {
		writeJSON(w, 404, map[string]string{"error": "no such tab"})
		return
	}
	w.Header().Set("Content-Type", "application/x-latex")
	io.WriteString(w, export.Latex(tab.Notebook))
}

func (s *Server) exportMarkdown(w http.ResponseWriter, r *http.Request) {
	tab, ok := s.cfg.Session.Tab(chi.URLParam(r, "tabID"))
	if !ok {
		writeJSON(w, 404, map[string]string{"error": "no such tab"})
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	io.WriteString(w, export.Markdown(tab.Notebook))
}

func (s *Server) exportHTML(w http.ResponseWriter, r *http.Request) {
	tab, ok := s.cfg.Session.Tab(chi.URLParam(r, "tabID"))
	if !ok {
		writeJSON(w, 404, map[string]string{"error": "no such tab"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, export.HTML(tab.Notebook, s.graphMarkup(tab.Notebook)))
}

func (s *Server) exportPDF(w http.ResponseWriter, r *http.Request) {
	if s.cfg.PDF == nil {
		writeJSON(w, 503, map[string]string{"error": "pdf rendering unavailable"})
		return
	}
	tab, ok := s.cfg.Session.Tab(chi.URLParam(r, "tabID"))
	if !ok {
		writeJSON(w, 404, map[string]string{"error": "no such tab"})
		return
	}
	htmlDoc := export.HTML(tab.Notebook, s.graphMarkup(tab.Notebook))
	data, err := s.cfg.PDF.Render(r.Context(), htmlDoc)
	if err != nil {
		writeError(w, 500, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Write(data)
}

func (s *Server) graphMarkup(nb notebook.Notebook) map[string]string {
	if s.cfg.Graphs == nil {
		return nil
	}
	return s.cfg.Graphs.RenderAll(nb)
}

// --- Diagram / import / handwriting ---

func (s *Server) renderDiagram(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Diagrams == nil {
		writeJSON(w, 503, map[string]string{"error": "diagram rendering unavailable"})
		return
	}
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	svg, errMsg := s.cfg.Diagrams.Render(r.Context(), req.Code)
	writeJSON(w, 200, map[string]string{"markup": svg, "error": errMsg})
}

func (s *Server) importHTML(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Importer == nil {
		writeJSON(w, 503, map[string]string{"error": "import unavailable"})
		return
	}
	src, err := io.ReadAll(io.LimitReader(r.Body, 8<<20))
	if err != nil {
		writeError(w, 400, err)
		return
	}
	title, d, err := s.cfg.Importer.ImportHTML(src)
	if err != nil {
		writeError(w, 422, err)
		return
	}
	writeJSON(w, 200, map[string]any{"title": title, "document": d})
}

func (s *Server) recognize(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Handwrite == nil || !s.cfg.Handwrite.Enabled() {
		writeJSON(w, 503, map[string]string{"error": "handwriting recognition not configured"})
		return
	}
	var req struct {
		Strokes []handwrite.Stroke `json:"strokes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	latex, err := s.cfg.Handwrite.Recognize(r.Context(), req.Strokes)
	if err != nil {
		writeError(w, 502, err)
		return
	}
	writeJSON(w, 200, map[string]string{"latex": latex})
}

// --- Recents / prefs ---

func (s *Server) listRecents(w http.ResponseWriter, _ *http.Request) {
	if s.cfg.Recents == nil {
		writeJSON(w, 200, []store.RecentFile{})
		return
	}
	files := s.cfg.Recents.List()
	if files == nil {
		files = []store.RecentFile{}
	}
	writeJSON(w, 200, files)
}

func (s *Server) removeRecent(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Recents != nil {
		s.cfg.Recents.Remove(r.URL.Query().Get("path"))
	}
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) updateRecent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path  string `json:"path"`
		Title string `json:"title"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	if s.cfg.Recents != nil {
		s.cfg.Recents.Update(req.Path, req.Title, req.Icon, req.Color)
	}
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) reorderRecents(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Paths []string `json:"paths"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	if s.cfg.Recents != nil {
		s.cfg.Recents.Reorder(req.Paths)
	}
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) getUIState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, 200, s.cfg.Session.UIState())
}

func (s *Server) setUIState(w http.ResponseWriter, r *http.Request) {
	var req session.UIState
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	s.cfg.Session.SetUIState(req)
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) getPref(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Prefs == nil {
		writeJSON(w, 503, map[string]string{"error": "preferences unavailable"})
		return
	}
	key := chi.URLParam(r, "key")
	writeJSON(w, 200, map[string]string{
		"key":   key,
		"value": s.cfg.Prefs.Get(key, r.URL.Query().Get("fallback")),
	})
}

func (s *Server) setPref(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Prefs == nil {
		writeJSON(w, 503, map[string]string{"error": "preferences unavailable"})
		return
	}
	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	if err := s.cfg.Prefs.Set(chi.URLParam(r, "key"), req.Value); err != nil {
		writeError(w, 500, err)
		return
	}
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
