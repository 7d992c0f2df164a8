package importer

import (
	"testing"

	"github.com/skrybl/skrybl/doc"
)

func TestImportHTML(t *testing.T) {
	src := []byte(`<!DOCTYPE html>
<html><head><title>Lecture Notes</title></head>
<body>
<h1>Forces</h1>
<p>Newton's <strong>second</strong> law.</p>
<ul><li>mass</li><li>acceleration</li></ul>
</body></html>`)

	title, d, err := New().ImportHTML(src)
	if err != nil {
		t.Fatal(err)
	}
	if title != "Lecture Notes" {
		t.Fatalf("expected title from <title>, got %q", title)
	}
	if len(d.Blocks) == 0 {
		t.Fatal("expected blocks")
	}

	var heading, list bool
	for _, b := range d.Blocks {
		switch b.Type {
		case doc.BlockHeading:
			if len(b.Inlines) > 0 && b.Inlines[0].Text == "Forces" {
				heading = true
			}
		case doc.BlockBulletList:
			if len(b.Items) == 2 {
				list = true
			}
		}
	}
	if !heading {
		t.Fatal("h1 should import as a heading block")
	}
	if !list {
		t.Fatal("ul should import as a bullet list with both items")
	}
}

func TestImportHTMLWithoutTitle(t *testing.T) {
	title, d, err := New().ImportHTML([]byte("<p>hello</p>"))
	if err != nil {
		t.Fatal(err)
	}
	if title != "" {
		t.Fatalf("expected empty title, got %q", title)
	}
	if len(d.Blocks) == 0 {
		t.Fatal("expected content")
	}
}

func TestImportMarkdownBlocks(t *testing.T) {
	md := `# Title

Some *emphasis* and **bold** and ` + "`code`" + `.

- one
- two

1. first
2. second

> quoted line

---

` + "```python\nprint(1)\n```" + `

$$
E = mc^2
$$

![diagram](fig.png)
`

	d := ImportMarkdown(md)

	wantTypes := []doc.BlockType{
		doc.BlockHeading,
		doc.BlockParagraph,
		doc.BlockBulletList,
		doc.BlockOrderedList,
		doc.BlockBlockquote,
		doc.BlockHorizontalRule,
		doc.BlockCode,
		doc.BlockMath,
		doc.BlockImage,
	}
	if len(d.Blocks) != len(wantTypes) {
		t.Fatalf("expected %d blocks, got %d: %+v", len(wantTypes), len(d.Blocks), d.Blocks)
	}
	for i, want := range wantTypes {
		if d.Blocks[i].Type != want {
			t.Fatalf("block %d: expected %s, got %s", i, want, d.Blocks[i].Type)
		}
	}

	if d.Blocks[0].Level != 1 {
		t.Fatalf("expected level-1 heading, got %d", d.Blocks[0].Level)
	}
	if d.Blocks[6].Language != "python" || d.Blocks[6].Code != "print(1)" {
		t.Fatalf("code fence mismatch: %+v", d.Blocks[6])
	}
	if d.Blocks[7].Latex != "E = mc^2" {
		t.Fatalf("math fence mismatch: %q", d.Blocks[7].Latex)
	}
	if d.Blocks[8].Src != "fig.png" || d.Blocks[8].Alt != "diagram" {
		t.Fatalf("image mismatch: %+v", d.Blocks[8])
	}
}

func TestImportMarkdownInlineMarks(t *testing.T) {
	d := ImportMarkdown("plain **bold** *ital* `code` $x^2$ end")
	if len(d.Blocks) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(d.Blocks))
	}
	ins := d.Blocks[0].Inlines

	find := func(text string, mark doc.Mark) bool {
		for _, in := range ins {
			if in.Text == text && len(in.Marks) == 1 && in.Marks[0] == mark {
				return true
			}
		}
		return false
	}
	if !find("bold", doc.MarkBold) {
		t.Fatalf("missing bold run: %+v", ins)
	}
	if !find("ital", doc.MarkItalic) {
		t.Fatalf("missing italic run: %+v", ins)
	}
	if !find("code", doc.MarkCode) {
		t.Fatalf("missing code run: %+v", ins)
	}

	var math bool
	for _, in := range ins {
		if in.Type == doc.InlineMath && in.Latex == "x^2" {
			math = true
		}
	}
	if !math {
		t.Fatalf("missing inline math: %+v", ins)
	}
}

func TestImportMarkdownSoftWrapJoinsLines(t *testing.T) {
	d := ImportMarkdown("first line\nsecond line")
	if len(d.Blocks) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(d.Blocks))
	}
	if got := d.Blocks[0].Inlines[0].Text; got != "first line second line" {
		t.Fatalf("soft-wrapped lines should join with a space, got %q", got)
	}
}

func TestImportMarkdownNestedBlockquote(t *testing.T) {
	d := ImportMarkdown("> # Quoted heading\n> body text")
	if len(d.Blocks) != 1 || d.Blocks[0].Type != doc.BlockBlockquote {
		t.Fatalf("expected a blockquote, got %+v", d.Blocks)
	}
	children := d.Blocks[0].Children
	if len(children) != 2 {
		t.Fatalf("expected 2 child blocks, got %d", len(children))
	}
	if children[0].Type != doc.BlockHeading {
		t.Fatal("quoted heading should parse inside the blockquote")
	}
}

func TestImportMarkdownEmptyYieldsEditableDocument(t *testing.T) {
	d := ImportMarkdown("")
	if len(d.Blocks) != 1 || d.Blocks[0].Type != doc.BlockParagraph {
		t.Fatalf("empty input should yield the canonical empty document, got %+v", d.Blocks)
	}
}

func TestImportMarkdownUnclosedDelimitersAreLiteral(t *testing.T) {
	d := ImportMarkdown("a * b and 2 $ 3")
	if len(d.Blocks) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(d.Blocks))
	}
	for _, in := range d.Blocks[0].Inlines {
		if in.Type != doc.InlineText || len(in.Marks) > 0 {
			t.Fatalf("unclosed delimiters must stay literal, got %+v", in)
		}
	}
}
