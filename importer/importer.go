// Package importer converts foreign documents (HTML, Markdown) into the
// native notebook document tree. Import is lossy on purpose: anything the
// tree cannot represent degrades to the nearest supported node, never to
// an error. The HTML path goes HTML → markdown → tree so both entry
// points share one parser.
package importer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/skrybl/skrybl/doc"
)

// Importer converts external documents into document trees.
type Importer struct {
	conv *converter.Converter
}

// New creates an Importer.
func New() *Importer {
	return &Importer{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// ImportHTML converts an HTML document. The returned title comes from the
// <title> element and is empty when the document has none.
func (im *Importer) ImportHTML(src []byte) (title string, d doc.Document, err error) {
	root, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return "", doc.Document{}, fmt.Errorf("importer: parse html: %w", err)
	}
	title = findTitle(root)

	md, err := im.conv.ConvertString(string(src))
	if err != nil {
		return "", doc.Document{}, fmt.Errorf("importer: convert html: %w", err)
	}
	return title, ImportMarkdown(md), nil
}

// findTitle extracts the first <title> element's text.
func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		if n.FirstChild != nil {
			return strings.TrimSpace(n.FirstChild.Data)
		}
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}
