// Package export serializes a notebook's document trees into LaTeX,
// Markdown and standalone HTML text, plus a PDF path that rasterizes the
// HTML output in a headless browser.
//
// Each serializer performs one structural walk per export call, carrying:
//
//   - a running equation counter, incremented once per numbered block-math
//     node in document order across all pages;
//   - a label→number map for cross-reference resolution, built in a
//     prepass so forward references resolve;
//   - a node-sequence counter correlating graph-plot nodes with their
//     pre-rendered markup (shared ordering with graph.RenderAll).
//
// Node kinds outside the closed set render as format-appropriate
// placeholder comments rather than being silently dropped.
package export

import (
	"strings"

	"github.com/skrybl/skrybl/doc"
	"github.com/skrybl/skrybl/notebook"
)

// walkState is the per-export-call traversal state.
type walkState struct {
	eq     int
	labels map[string]int
	seq    int
}

func newWalkState(nb notebook.Notebook) *walkState {
	return &walkState{labels: collectLabels(nb)}
}

// collectLabels assigns equation numbers to every numbered block-math
// node in document order, keyed by label. Forward references resolve
// against this map.
func collectLabels(nb notebook.Notebook) map[string]int {
	labels := make(map[string]int)
	n := 0
	for _, page := range nb.Pages {
		doc.Walk(page.Content, func(b doc.Block) {
			if b.Type == doc.BlockMath && b.Numbered {
				n++
				if b.Label != "" {
					labels[b.Label] = n
				}
			}
		})
	}
	return labels
}

// graphExpressions lists the non-blank expressions of a graph node, used
// by the text fallbacks.
func graphExpressions(g *doc.GraphAttrs) []string {
	if g == nil {
		return nil
	}
	var exprs []string
	for _, f := range g.Functions {
		if strings.TrimSpace(f.Expression) != "" {
			exprs = append(exprs, f.Expression)
		}
	}
	return exprs
}

// escapeLatex makes literal text safe for LaTeX: backslash first, then
// the special characters & % $ # _ { } ~ ^.
func escapeLatex(text string) string {
	var sb strings.Builder
	for _, r := range text {
		switch r {
		case '\\':
			sb.WriteString(`\textbackslash{}`)
		case '&', '%', '$', '#', '_', '{', '}', '~', '^':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// escapeHTML escapes & < > " in literal text.
func escapeHTML(text string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return r.Replace(text)
}
