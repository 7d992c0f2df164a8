package export

import (
	"fmt"
	"strings"

	"github.com/skrybl/skrybl/doc"
	"github.com/skrybl/skrybl/notebook"
)

// HTML serializes a notebook to a complete standalone document: doctype,
// embedded stylesheet, and deferred script tags loading KaTeX and
// highlight.js at view time, so the exported file renders correctly when
// opened directly in a browser.
//
// graphMarkup maps doc.GraphKey to pre-rendered SVG (see graph.RenderAll).
// Graph nodes without an entry fall back to the node's cached markup, then
// to a descriptive text placeholder.
func HTML(nb notebook.Notebook, graphMarkup map[string]string) string {
	st := newWalkState(nb)

	var pages []string
	for _, page := range nb.Pages {
		var parts []string
		if len(nb.Pages) > 1 {
			parts = append(parts, "<h2>"+escapeHTML(page.Title)+"</h2>")
		}
		parts = append(parts, htmlBlocks(page.Content.Blocks, st, graphMarkup))
		pages = append(pages, strings.Join(parts, "\n"))
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"UTF-8\">\n")
	sb.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString("<title>" + escapeHTML(nb.Title) + "</title>\n")
	sb.WriteString(htmlHead)
	sb.WriteString("</head>\n<body>\n<article>\n")
	sb.WriteString("<h1>" + escapeHTML(nb.Title) + "</h1>\n")
	sb.WriteString(strings.Join(pages, "\n<hr>\n"))
	sb.WriteString("\n</article>\n</body>\n</html>")
	return sb.String()
}

const htmlHead = `<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/katex.min.css">
<script defer src="https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/katex.min.js"></script>
<script defer src="https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/contrib/auto-render.min.js"
  onload="renderMathInElement(document.body,{delimiters:[{left:'$$',right:'$$',display:true},{left:'$',right:'$',display:false}]})"></script>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/gh/highlightjs/cdn-release@11/build/styles/github.min.css" media="(prefers-color-scheme: light)">
<link rel="stylesheet" href="https://cdn.jsdelivr.net/gh/highlightjs/cdn-release@11/build/styles/github-dark.min.css" media="(prefers-color-scheme: dark)">
<script defer src="https://cdn.jsdelivr.net/gh/highlightjs/cdn-release@11/build/highlight.min.js"></script>
<script defer>document.addEventListener('DOMContentLoaded',()=>{document.querySelectorAll('pre code[class]').forEach(el=>hljs.highlightElement(el))})</script>
<style>
:root {
  --text: #1a1a1a;
  --text-secondary: #555;
  --bg: #fdfdfd;
  --bg-code: #f4f4f4;
  --border: #e0e0e0;
  --font-body: 'Inter', -apple-system, 'Segoe UI', system-ui, sans-serif;
  --font-mono: 'JetBrains Mono', 'Fira Code', 'Cascadia Code', monospace;
}
@media (prefers-color-scheme: dark) {
  :root {
    --text: #d4d4d4;
    --text-secondary: #999;
    --bg: #0a0a0a;
    --bg-code: #141414;
    --border: #2a2a2a;
  }
}
*, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
html { font-size: 17px; }
body {
  font-family: var(--font-body);
  color: var(--text);
  background: var(--bg);
  line-height: 1.75;
  max-width: 720px;
  margin: 0 auto;
  padding: 48px 24px 96px;
  -webkit-font-smoothing: antialiased;
}
h1 { font-size: 2.2rem; font-weight: 750; letter-spacing: -0.03em; line-height: 1.15; margin: 0 0 0.4em; }
h2 { font-size: 1.5rem; font-weight: 650; letter-spacing: -0.02em; line-height: 1.25; margin: 2em 0 0.4em; }
h3 { font-size: 1.1rem; font-weight: 600; letter-spacing: 0.01em; text-transform: uppercase; color: var(--text-secondary); margin: 1.8em 0 0.3em; }
p { margin: 0 0 1em; }
ul, ol { padding-left: 1.5em; margin: 0 0 1em; }
li { margin: 0.2em 0; }
blockquote {
  border-left: 3px solid var(--border);
  padding-left: 1.2em;
  margin: 1em 0;
  color: var(--text-secondary);
  font-style: italic;
}
code {
  font-family: var(--font-mono);
  font-size: 0.88em;
  background: var(--bg-code);
  border: 1px solid var(--border);
  padding: 0.15em 0.4em;
  border-radius: 3px;
}
pre {
  background: var(--bg-code);
  border: 1px solid var(--border);
  border-radius: 4px;
  padding: 1em 1.2em;
  margin: 1em 0;
  overflow-x: auto;
}
pre code { background: none; border: none; padding: 0; font-size: 0.85rem; line-height: 1.6; }
hr { border: none; height: 1px; background: var(--border); margin: 2em 0; }
.math-block { text-align: center; margin: 1.5em 0; }
.eq-number { float: right; color: var(--text-secondary); }
.compute { font-family: var(--font-mono); font-size: 0.9em; }
.graph-block { text-align: center; margin: 1.5em 0; }
.graph-block svg { max-width: 100%; height: auto; }
.diagram-block { text-align: center; margin: 1.5em 0; }
img { max-width: 100%; height: auto; border-radius: 4px; margin: 1em 0; }
</style>
`

func htmlBlocks(blocks []doc.Block, st *walkState, graphMarkup map[string]string) string {
	var parts []string

	for _, b := range blocks {
		seq := st.seq
		st.seq++

		switch b.Type {
		case doc.BlockHeading:
			tag := fmt.Sprintf("h%d", min(b.Level+1, 6))
			parts = append(parts, "<"+tag+">"+htmlInlines(b.Inlines, st)+"</"+tag+">")

		case doc.BlockParagraph:
			parts = append(parts, "<p>"+htmlInlines(b.Inlines, st)+"</p>")

		case doc.BlockBulletList:
			parts = append(parts, "<ul>\n"+htmlListItems(b.Items, st)+"\n</ul>")

		case doc.BlockOrderedList:
			parts = append(parts, "<ol>\n"+htmlListItems(b.Items, st)+"\n</ol>")

		case doc.BlockBlockquote:
			parts = append(parts, "<blockquote>\n"+htmlBlocks(b.Children, st, graphMarkup)+"\n</blockquote>")

		case doc.BlockCode:
			langClass := ""
			if b.Language != "" {
				langClass = fmt.Sprintf(" class=\"language-%s\"", escapeHTML(b.Language))
			}
			parts = append(parts, "<pre><code"+langClass+">"+escapeHTML(b.Code)+"</code></pre>")

		case doc.BlockHorizontalRule:
			parts = append(parts, "<hr>")

		case doc.BlockMath:
			if b.Numbered {
				st.eq++
				id := ""
				if b.Label != "" {
					id = fmt.Sprintf(" id=%q", escapeHTML(b.Label))
				}
				parts = append(parts, fmt.Sprintf(
					"<div class=\"math-block\"%s>$$%s$$<span class=\"eq-number\">(%d)</span></div>",
					id, escapeHTML(b.Latex), st.eq))
			} else {
				parts = append(parts, "<div class=\"math-block\">$$"+escapeHTML(b.Latex)+"$$</div>")
			}

		case doc.BlockImage:
			alt := b.Alt
			if alt == "" {
				alt = "image"
			}
			parts = append(parts, fmt.Sprintf("<img src=%q alt=%q>", escapeHTML(b.Src), escapeHTML(alt)))

		case doc.BlockGraphPlot:
			parts = append(parts, htmlGraph(b, seq, graphMarkup))

		case doc.BlockSymbolic:
			if b.Symbolic != nil {
				s := b.Symbolic
				display := escapeHTML(s.Operation) + "(" + escapeHTML(s.Expression) + ")"
				if s.Result != "" {
					display += " = " + escapeHTML(s.Result)
				}
				parts = append(parts, "<p><code class=\"compute\">"+display+"</code></p>")
			}

		case doc.BlockDiagram:
			if b.Diagram != nil && b.Diagram.Markup != "" {
				parts = append(parts, "<div class=\"diagram-block\">"+sanitizeMarkup(b.Diagram.Markup)+"</div>")
			} else {
				parts = append(parts, "<p><em>[Diagram]</em></p>")
			}

		default:
			parts = append(parts, fmt.Sprintf("<!-- unsupported: %s -->", b.Type))
		}
	}

	return strings.Join(parts, "\n")
}

func htmlGraph(b doc.Block, seq int, graphMarkup map[string]string) string {
	markup := graphMarkup[doc.GraphKey(b.Graph, seq)]
	if markup == "" && b.Graph != nil {
		markup = b.Graph.Markup
	}
	if markup != "" {
		title := ""
		if b.Graph != nil && b.Graph.Title != "" {
			title = fmt.Sprintf(
				"<p style=\"text-align:center;color:var(--text-secondary);font-size:0.9em;\">%s</p>",
				escapeHTML(b.Graph.Title))
		}
		return "<div class=\"graph-block\">" + sanitizeMarkup(markup) + title + "</div>"
	}

	exprs := graphExpressions(b.Graph)
	label := "Graph"
	if b.Graph != nil && b.Graph.Title != "" {
		label = escapeHTML(b.Graph.Title)
	} else if len(exprs) > 0 {
		escaped := make([]string, len(exprs))
		for i, e := range exprs {
			escaped[i] = escapeHTML(e)
		}
		label = "Graph: " + strings.Join(escaped, ", ")
	}
	return "<p><em>[" + label + "]</em></p>"
}

func htmlListItems(items []doc.ListItem, st *walkState) string {
	lis := make([]string, len(items))
	for i, it := range items {
		lis[i] = "<li>" + htmlInlines(it.Inlines, st) + "</li>"
	}
	return strings.Join(lis, "\n")
}

func htmlInlines(inlines []doc.Inline, st *walkState) string {
	var sb strings.Builder

	for _, in := range inlines {
		switch in.Type {
		case doc.InlineMath:
			sb.WriteString("$" + escapeHTML(in.Latex) + "$")

		case doc.InlineComputeField:
			display := escapeHTML(in.Expression)
			if in.Result != "" {
				display += " = " + escapeHTML(in.Result)
			}
			sb.WriteString("<code class=\"compute\">" + display + "</code>")

		case doc.InlineEquationRef:
			if n, ok := st.labels[in.Label]; ok {
				sb.WriteString(fmt.Sprintf("<a class=\"eq-ref\" href=\"#%s\">(%d)</a>", escapeHTML(in.Label), n))
			} else {
				sb.WriteString("<span class=\"eq-ref\">(?)</span>")
			}

		case doc.InlineText:
			text := escapeHTML(in.Text)
			for _, m := range in.Marks {
				switch m {
				case doc.MarkBold:
					text = "<strong>" + text + "</strong>"
				case doc.MarkItalic:
					text = "<em>" + text + "</em>"
				case doc.MarkStrike:
					text = "<s>" + text + "</s>"
				case doc.MarkCode:
					text = "<code>" + text + "</code>"
				case doc.MarkSubscript:
					text = "<sub>" + text + "</sub>"
				case doc.MarkSuperscript:
					text = "<sup>" + text + "</sup>"
				}
			}
			sb.WriteString(text)
		}
	}

	return sb.String()
}
