package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/skrybl/skrybl/doc"
	"github.com/skrybl/skrybl/notebook"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Markdown serializes a notebook to Markdown. The notebook title occupies
// heading level 1, so in-document headings shift down by one level. Math
// uses $$ fences with the equation label emitted as an HTML comment —
// Markdown has no native equation numbering. Graphs are emitted as an
// HTML comment listing the expressions; Markdown export never embeds
// rendered graph images.
func Markdown(nb notebook.Notebook) string {
	st := newWalkState(nb)

	lines := []string{"# " + nb.Title, ""}

	for _, page := range nb.Pages {
		if len(nb.Pages) > 1 {
			lines = append(lines, "## "+page.Title, "")
		}
		lines = append(lines, markdownBlocks(page.Content.Blocks, st))
		lines = append(lines, "")
	}

	return blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
}

func markdownBlocks(blocks []doc.Block, st *walkState) string {
	var lines []string

	for _, b := range blocks {
		st.seq++
		switch b.Type {
		case doc.BlockHeading:
			prefix := strings.Repeat("#", min(b.Level+1, 6))
			lines = append(lines, prefix+" "+markdownInlines(b.Inlines, st), "")

		case doc.BlockParagraph:
			lines = append(lines, markdownInlines(b.Inlines, st), "")

		case doc.BlockBulletList:
			for _, it := range b.Items {
				lines = append(lines, "- "+markdownInlines(it.Inlines, st))
			}
			lines = append(lines, "")

		case doc.BlockOrderedList:
			for i, it := range b.Items {
				lines = append(lines, fmt.Sprintf("%d. %s", i+1, markdownInlines(it.Inlines, st)))
			}
			lines = append(lines, "")

		case doc.BlockBlockquote:
			inner := markdownBlocks(b.Children, st)
			for _, line := range strings.Split(inner, "\n") {
				lines = append(lines, "> "+line)
			}
			lines = append(lines, "")

		case doc.BlockCode:
			lines = append(lines, "```"+b.Language, b.Code, "```", "")

		case doc.BlockHorizontalRule:
			lines = append(lines, "---", "")

		case doc.BlockMath:
			lines = append(lines, "$$", b.Latex, "$$")
			if b.Numbered {
				st.eq++
				if b.Label != "" {
					lines = append(lines, fmt.Sprintf("<!-- eq:%s -->", b.Label))
				}
			}
			lines = append(lines, "")

		case doc.BlockImage:
			alt := b.Alt
			if alt == "" {
				alt = "image"
			}
			lines = append(lines, fmt.Sprintf("![%s](image)", alt), "")

		case doc.BlockGraphPlot:
			exprs := graphExpressions(b.Graph)
			lines = append(lines, fmt.Sprintf("<!-- Graph: %s -->", strings.Join(exprs, ", ")), "")

		case doc.BlockSymbolic:
			if b.Symbolic != nil {
				s := b.Symbolic
				line := fmt.Sprintf("`%s(%s)`", s.Operation, s.Expression)
				if s.Result != "" {
					line += " = `" + s.Result + "`"
				}
				lines = append(lines, line, "")
			}

		case doc.BlockDiagram:
			lines = append(lines, "<!-- Diagram -->", "")

		default:
			lines = append(lines, fmt.Sprintf("<!-- unsupported: %s -->", b.Type), "")
		}
	}

	return strings.Join(lines, "\n")
}

func markdownInlines(inlines []doc.Inline, st *walkState) string {
	var sb strings.Builder

	for _, in := range inlines {
		switch in.Type {
		case doc.InlineMath:
			sb.WriteString("$" + in.Latex + "$")

		case doc.InlineComputeField:
			if in.Result != "" {
				sb.WriteString("`" + in.Expression + " = " + in.Result + "`")
			} else {
				sb.WriteString("`" + in.Expression + "`")
			}

		case doc.InlineEquationRef:
			if n, ok := st.labels[in.Label]; ok {
				sb.WriteString(fmt.Sprintf("(%d)", n))
			} else {
				sb.WriteString("(?)")
			}

		case doc.InlineText:
			text := in.Text
			for _, m := range in.Marks {
				switch m {
				case doc.MarkBold:
					text = "**" + text + "**"
				case doc.MarkItalic:
					text = "*" + text + "*"
				case doc.MarkStrike:
					text = "~~" + text + "~~"
				case doc.MarkCode:
					text = "`" + text + "`"
				}
			}
			sb.WriteString(text)
		}
	}

	return sb.String()
}
