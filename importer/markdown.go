package importer

import (
	"regexp"
	"strings"

	"github.com/skrybl/skrybl/doc"
)

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	bulletRe  = regexp.MustCompile(`^[-*+]\s+(.*)$`)
	orderedRe = regexp.MustCompile(`^\d+[.)]\s+(.*)$`)
	hruleRe   = regexp.MustCompile(`^(\*{3,}|-{3,}|_{3,})\s*$`)
	imageRe   = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)\s]+)\)\s*$`)
	fenceRe   = regexp.MustCompile("^```(\\S*)\\s*$")
)

// ImportMarkdown parses commonmark-flavoured markdown into a document
// tree. `$$` fences become math blocks; everything unrecognised falls
// back to a paragraph. An empty input yields the canonical empty
// document so an imported page is always editable.
func ImportMarkdown(md string) doc.Document {
	lines := strings.Split(strings.ReplaceAll(md, "\r\n", "\n"), "\n")

	var blocks []doc.Block
	for i := 0; i < len(lines); {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			i++

		case fenceRe.MatchString(trimmed):
			lang := fenceRe.FindStringSubmatch(trimmed)[1]
			var code []string
			i++
			for i < len(lines) && !fenceRe.MatchString(strings.TrimSpace(lines[i])) {
				code = append(code, lines[i])
				i++
			}
			if i < len(lines) {
				i++ // closing fence
			}
			blocks = append(blocks, doc.Block{
				Type:     doc.BlockCode,
				Code:     strings.Join(code, "\n"),
				Language: lang,
			})

		case trimmed == "$$":
			var latex []string
			i++
			for i < len(lines) && strings.TrimSpace(lines[i]) != "$$" {
				latex = append(latex, lines[i])
				i++
			}
			if i < len(lines) {
				i++
			}
			blocks = append(blocks, doc.Block{
				Type:  doc.BlockMath,
				Latex: strings.TrimSpace(strings.Join(latex, "\n")),
			})

		case headingRe.MatchString(trimmed):
			m := headingRe.FindStringSubmatch(trimmed)
			blocks = append(blocks, doc.Heading(len(m[1]), parseInlines(m[2])...))
			i++

		case hruleRe.MatchString(trimmed):
			blocks = append(blocks, doc.Block{Type: doc.BlockHorizontalRule})
			i++

		case imageRe.MatchString(trimmed):
			m := imageRe.FindStringSubmatch(trimmed)
			blocks = append(blocks, doc.Block{Type: doc.BlockImage, Alt: m[1], Src: m[2]})
			i++

		case bulletRe.MatchString(trimmed):
			var items []doc.ListItem
			for i < len(lines) {
				m := bulletRe.FindStringSubmatch(strings.TrimSpace(lines[i]))
				if m == nil {
					break
				}
				items = append(items, doc.ListItem{Inlines: parseInlines(m[1])})
				i++
			}
			blocks = append(blocks, doc.Block{Type: doc.BlockBulletList, Items: items})

		case orderedRe.MatchString(trimmed):
			var items []doc.ListItem
			for i < len(lines) {
				m := orderedRe.FindStringSubmatch(strings.TrimSpace(lines[i]))
				if m == nil {
					break
				}
				items = append(items, doc.ListItem{Inlines: parseInlines(m[1])})
				i++
			}
			blocks = append(blocks, doc.Block{Type: doc.BlockOrderedList, Items: items})

		case strings.HasPrefix(trimmed, ">"):
			var inner []string
			for i < len(lines) {
				t := strings.TrimSpace(lines[i])
				if !strings.HasPrefix(t, ">") {
					break
				}
				inner = append(inner, strings.TrimPrefix(strings.TrimPrefix(t, ">"), " "))
				i++
			}
			child := ImportMarkdown(strings.Join(inner, "\n"))
			blocks = append(blocks, doc.Block{Type: doc.BlockBlockquote, Children: child.Blocks})

		default:
			// Paragraph: consecutive non-blank, non-structural lines join
			// with a space, the way markdown soft-wraps.
			var para []string
			for i < len(lines) {
				t := strings.TrimSpace(lines[i])
				if t == "" || headingRe.MatchString(t) || fenceRe.MatchString(t) ||
					bulletRe.MatchString(t) || orderedRe.MatchString(t) ||
					hruleRe.MatchString(t) || strings.HasPrefix(t, ">") || t == "$$" {
					break
				}
				para = append(para, t)
				i++
			}
			blocks = append(blocks, doc.Paragraph(parseInlines(strings.Join(para, " "))...))
		}
	}

	if len(blocks) == 0 {
		return doc.New()
	}
	return doc.Document{Blocks: blocks}
}

// parseInlines tokenizes a text run into inline nodes: `$...$` becomes
// inline math, `` ` ``, `**` and `*` delimit code, bold and italic marks.
// Unclosed delimiters are treated as literal text.
func parseInlines(s string) []doc.Inline {
	var out []doc.Inline
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			out = append(out, doc.Text(plain.String()))
			plain.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch {
		case s[i] == '$':
			if j := strings.IndexByte(s[i+1:], '$'); j > 0 {
				flush()
				out = append(out, doc.Inline{Type: doc.InlineMath, Latex: s[i+1 : i+1+j]})
				i += j + 2
				continue
			}
		case s[i] == '`':
			if j := strings.IndexByte(s[i+1:], '`'); j > 0 {
				flush()
				out = append(out, doc.Text(s[i+1:i+1+j], doc.MarkCode))
				i += j + 2
				continue
			}
		case strings.HasPrefix(s[i:], "**"):
			if j := strings.Index(s[i+2:], "**"); j > 0 {
				flush()
				out = append(out, doc.Text(s[i+2:i+2+j], doc.MarkBold))
				i += j + 4
				continue
			}
		case s[i] == '*':
			if j := strings.IndexByte(s[i+1:], '*'); j > 0 {
				flush()
				out = append(out, doc.Text(s[i+1:i+1+j], doc.MarkItalic))
				i += j + 2
				continue
			}
		}
		plain.WriteByte(s[i])
		i++
	}
	flush()
	return out
}
