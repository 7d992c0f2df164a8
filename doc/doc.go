// Package doc defines the structured document tree held by every notebook
// page: an ordered sequence of block nodes, each optionally carrying inline
// nodes. The set of node kinds is closed — serializers switch exhaustively
// on BlockType/InlineType and render a placeholder for anything else.
//
// The JSON encoding of these types is the durable on-disk format, so field
// names and omitempty behaviour are load-bearing: Load(Save(d)) must yield
// a structurally identical tree.
package doc

// BlockType discriminates block-level nodes.
type BlockType string

const (
	BlockHeading        BlockType = "heading"
	BlockParagraph      BlockType = "paragraph"
	BlockBulletList     BlockType = "bulletList"
	BlockOrderedList    BlockType = "orderedList"
	BlockBlockquote     BlockType = "blockquote"
	BlockCode           BlockType = "codeBlock"
	BlockHorizontalRule BlockType = "horizontalRule"
	BlockMath           BlockType = "blockMath"
	BlockImage          BlockType = "image"
	BlockGraphPlot      BlockType = "graphPlot"
	BlockSymbolic       BlockType = "symbolicBlock"
	BlockDiagram        BlockType = "diagramBlock"
)

// InlineType discriminates inline nodes.
type InlineType string

const (
	InlineText         InlineType = "text"
	InlineMath         InlineType = "inlineMath"
	InlineComputeField InlineType = "computeField"
	InlineEquationRef  InlineType = "equationRef"
)

// Mark is a text formatting overlay. Marks compose in any combination.
type Mark string

const (
	MarkBold        Mark = "bold"
	MarkItalic      Mark = "italic"
	MarkStrike      Mark = "strike"
	MarkCode        Mark = "code"
	MarkSubscript   Mark = "subscript"
	MarkSuperscript Mark = "superscript"
)

// Inline is one inline-level node. Which fields are meaningful depends on
// Type; unused fields stay zero and are omitted from JSON.
type Inline struct {
	Type  InlineType `json:"type"`
	Text  string     `json:"text,omitempty"`
	Marks []Mark     `json:"marks,omitempty"`

	// inlineMath
	Latex string `json:"latex,omitempty"`

	// computeField: expression plus cached evaluation attributes. Result
	// and Error round-trip through save/load so reopening a notebook does
	// not re-invoke the numeric engine.
	Expression string `json:"expression,omitempty"`
	Result     string `json:"result,omitempty"`
	Error      string `json:"error,omitempty"`

	// equationRef
	Label string `json:"label,omitempty"`
}

// ListItem is one entry of a bullet or ordered list.
type ListItem struct {
	Inlines []Inline `json:"inlines,omitempty"`
}

// GraphFunction is one plotted expression.
type GraphFunction struct {
	Expression string `json:"expression"`
	Style      string `json:"style,omitempty"`
}

// GraphAttrs holds the attributes of a graphPlot block.
type GraphAttrs struct {
	// ID is assigned at node creation and correlates the node with its
	// pre-rendered markup during export. Documents saved before IDs
	// existed fall back to positional correlation.
	ID        string          `json:"id,omitempty"`
	Functions []GraphFunction `json:"functions,omitempty"`
	XDomain   [2]float64      `json:"xDomain"`
	YDomain   [2]float64      `json:"yDomain"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	ShowGrid  bool            `json:"showGrid"`
	Title     string          `json:"title,omitempty"`
	// Markup is the cached static rendering, refreshed on demand.
	Markup string `json:"markup,omitempty"`
}

// SymbolicAttrs holds the attributes of a symbolicBlock.
type SymbolicAttrs struct {
	Expression string `json:"expression"`
	Operation  string `json:"operation"`
	Variable   string `json:"variable,omitempty"`
	Result     string `json:"result,omitempty"`
	Error      string `json:"error,omitempty"`
}

// DiagramAttrs holds the attributes of a diagramBlock.
type DiagramAttrs struct {
	Code   string `json:"code"`
	Markup string `json:"markup,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Block is one block-level node.
type Block struct {
	Type BlockType `json:"type"`

	// heading
	Level int `json:"level,omitempty"`

	// heading, paragraph
	Inlines []Inline `json:"inlines,omitempty"`

	// bulletList, orderedList
	Items []ListItem `json:"items,omitempty"`

	// blockquote
	Children []Block `json:"children,omitempty"`

	// codeBlock
	Code     string `json:"code,omitempty"`
	Language string `json:"language,omitempty"`

	// blockMath
	Latex    string `json:"latex,omitempty"`
	Numbered bool   `json:"numbered,omitempty"`
	Label    string `json:"label,omitempty"`

	// image
	Src string `json:"src,omitempty"`
	Alt string `json:"alt,omitempty"`

	Graph    *GraphAttrs    `json:"graph,omitempty"`
	Symbolic *SymbolicAttrs `json:"symbolic,omitempty"`
	Diagram  *DiagramAttrs  `json:"diagram,omitempty"`
}

// Document is the content tree of a single page.
type Document struct {
	Blocks []Block `json:"blocks"`
}

// New returns a document holding one empty paragraph, the initial content
// of every freshly created page.
func New() Document {
	return Document{Blocks: []Block{{Type: BlockParagraph}}}
}

// Text builds a plain-text inline node.
func Text(s string, marks ...Mark) Inline {
	return Inline{Type: InlineText, Text: s, Marks: marks}
}

// Paragraph builds a paragraph block from inline nodes.
func Paragraph(inlines ...Inline) Block {
	return Block{Type: BlockParagraph, Inlines: inlines}
}

// Heading builds a heading block. Levels outside 1..6 are clamped.
func Heading(level int, inlines ...Inline) Block {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return Block{Type: BlockHeading, Level: level, Inlines: inlines}
}
