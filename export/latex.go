package export

import (
	"fmt"
	"strings"

	"github.com/skrybl/skrybl/doc"
	"github.com/skrybl/skrybl/notebook"
)

// Latex serializes a notebook to a standalone LaTeX article. Page titles
// become unnumbered sections when the notebook has more than one page.
// Images and graphs that cannot be embedded natively are emitted as
// source comments, never errors.
func Latex(nb notebook.Notebook) string {
	st := newWalkState(nb)

	lines := []string{
		`\documentclass{article}`,
		`\usepackage{amsmath}`,
		`\usepackage{amssymb}`,
		`\usepackage{enumitem}`,
		`\usepackage[normalem]{ulem}`,
		``,
		fmt.Sprintf(`\title{%s}`, escapeLatex(nb.Title)),
		`\date{}`,
		``,
		`\begin{document}`,
		`\maketitle`,
		``,
	}

	for _, page := range nb.Pages {
		if len(nb.Pages) > 1 {
			lines = append(lines, fmt.Sprintf(`\section*{%s}`, escapeLatex(page.Title)), "")
		}
		lines = append(lines, latexBlocks(page.Content.Blocks, st))
		lines = append(lines, "")
	}

	lines = append(lines, `\end{document}`)
	return strings.Join(lines, "\n")
}

func latexBlocks(blocks []doc.Block, st *walkState) string {
	var lines []string

	for _, b := range blocks {
		st.seq++
		switch b.Type {
		case doc.BlockHeading:
			cmds := []string{`\section`, `\subsection`, `\subsubsection`}
			cmd := cmds[min(max(b.Level, 1), 3)-1]
			lines = append(lines, fmt.Sprintf("%s{%s}", cmd, latexInlines(b.Inlines, st)), "")

		case doc.BlockParagraph:
			lines = append(lines, latexInlines(b.Inlines, st), "")

		case doc.BlockBulletList:
			lines = append(lines, `\begin{itemize}`)
			for _, it := range b.Items {
				lines = append(lines, "  \\item "+latexInlines(it.Inlines, st))
			}
			lines = append(lines, `\end{itemize}`, "")

		case doc.BlockOrderedList:
			lines = append(lines, `\begin{enumerate}`)
			for _, it := range b.Items {
				lines = append(lines, "  \\item "+latexInlines(it.Inlines, st))
			}
			lines = append(lines, `\end{enumerate}`, "")

		case doc.BlockBlockquote:
			lines = append(lines, `\begin{quote}`)
			lines = append(lines, latexBlocks(b.Children, st))
			lines = append(lines, `\end{quote}`, "")

		case doc.BlockCode:
			lines = append(lines, `\begin{verbatim}`, b.Code, `\end{verbatim}`, "")

		case doc.BlockHorizontalRule:
			lines = append(lines, `\noindent\rule{\textwidth}{0.4pt}`, "")

		case doc.BlockMath:
			if b.Numbered {
				st.eq++
				lbl := ""
				if b.Label != "" {
					lbl = fmt.Sprintf(`\label{%s}`, escapeLatex(b.Label))
				}
				lines = append(lines, `\begin{equation}`+lbl, b.Latex, `\end{equation}`)
			} else {
				lines = append(lines, fmt.Sprintf(`\[%s\]`, b.Latex))
			}
			lines = append(lines, "")

		case doc.BlockImage:
			alt := b.Alt
			if alt == "" {
				alt = "image"
			}
			lines = append(lines, fmt.Sprintf("%% [Image: %s]", escapeLatex(alt)), "")

		case doc.BlockGraphPlot:
			if exprs := graphExpressions(b.Graph); len(exprs) > 0 {
				lines = append(lines, "% Graph: "+strings.Join(exprs, ", "), "")
			} else {
				lines = append(lines, "% Graph plot (empty)", "")
			}

		case doc.BlockSymbolic:
			if b.Symbolic != nil {
				s := b.Symbolic
				line := fmt.Sprintf(`\texttt{%s(%s)}`, escapeLatex(s.Operation), escapeLatex(s.Expression))
				if s.Result != "" {
					line += " = " + escapeLatex(s.Result)
				}
				lines = append(lines, line, "")
			}

		case doc.BlockDiagram:
			lines = append(lines, "% [Diagram]", "")

		default:
			lines = append(lines, fmt.Sprintf("%% [unsupported: %s]", b.Type), "")
		}
	}

	return strings.Join(lines, "\n")
}

func latexInlines(inlines []doc.Inline, st *walkState) string {
	var sb strings.Builder

	for _, in := range inlines {
		switch in.Type {
		case doc.InlineMath:
			sb.WriteString("$" + in.Latex + "$")

		case doc.InlineComputeField:
			if in.Result != "" {
				sb.WriteString(escapeLatex(in.Expression) + " = " + escapeLatex(in.Result))
			} else {
				sb.WriteString(escapeLatex(in.Expression))
			}

		case doc.InlineEquationRef:
			sb.WriteString(fmt.Sprintf(`(\ref{%s})`, escapeLatex(in.Label)))

		case doc.InlineText:
			text := escapeLatex(in.Text)
			for _, m := range in.Marks {
				switch m {
				case doc.MarkBold:
					text = `\textbf{` + text + `}`
				case doc.MarkItalic:
					text = `\textit{` + text + `}`
				case doc.MarkStrike:
					text = `\sout{` + text + `}`
				case doc.MarkCode:
					text = `\texttt{` + text + `}`
				case doc.MarkSubscript:
					text = `\textsubscript{` + text + `}`
				case doc.MarkSuperscript:
					text = `\textsuperscript{` + text + `}`
				}
			}
			sb.WriteString(text)
		}
	}

	return sb.String()
}
