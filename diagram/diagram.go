// Package diagram renders text-diagram code (flowcharts, sequence
// diagrams) to static SVG through the shared headless browser, which
// carries the mermaid engine. Render failures never propagate beyond the
// node that holds the code: the caller stores the error string next to
// the diagram and the rest of the document is unaffected.
package diagram

import (
	"context"
	"log/slog"
	"strings"
)

// Pager is the slice of headless.Browser this package needs; it also
// keeps tests free of a real Chrome.
type Pager interface {
	Eval(ctx context.Context, pageHTML, js string, args ...any) (string, error)
}

// Renderer renders diagram code to SVG markup.
type Renderer struct {
	pager  Pager
	logger *slog.Logger
}

// New creates a Renderer on top of a browser page evaluator.
func New(pager Pager, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{pager: pager, logger: logger}
}

const diagramPage = `<!DOCTYPE html><html><head>
<script src="https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"></script>
</head><body></body></html>`

const renderJS = `async (code) => {
	const m = window.mermaid;
	if (!m) throw new Error('diagram engine unavailable');
	m.initialize({ startOnLoad: false, theme: 'neutral' });
	const { svg } = await m.render('diagram-export', code);
	return svg;
}`

// Render converts one diagram source to SVG. Blank input yields {"", ""};
// failures yield an empty SVG and a human-readable error string.
func (r *Renderer) Render(ctx context.Context, code string) (svg string, errMsg string) {
	if strings.TrimSpace(code) == "" {
		return "", ""
	}

	out, err := r.pager.Eval(ctx, diagramPage, renderJS, code)
	if err != nil {
		r.logger.Debug("diagram: render failed", "error", err)
		msg := err.Error()
		if msg == "" {
			msg = "render error"
		}
		return "", msg
	}
	return out, ""
}
