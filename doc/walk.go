package doc

import "strconv"

// Walk visits every block in document order, depth-first: a blockquote is
// visited before the blocks nested inside it. Export serializers and the
// graph pre-render pass must share this exact ordering, since positional
// correlation of graph nodes falls back to the visit sequence for
// documents saved before graph ids existed.
func Walk(d Document, fn func(b Block)) {
	walkBlocks(d.Blocks, fn)
}

func walkBlocks(blocks []Block, fn func(b Block)) {
	for _, b := range blocks {
		fn(b)
		if b.Type == BlockBlockquote {
			walkBlocks(b.Children, fn)
		}
	}
}

// GraphKey returns the correlation key for a graph node: the stable id
// assigned at creation, or the positional sequence index for legacy nodes
// without one.
func GraphKey(g *GraphAttrs, seq int) string {
	if g != nil && g.ID != "" {
		return g.ID
	}
	return "seq:" + strconv.Itoa(seq)
}
