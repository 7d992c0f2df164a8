package doc

// Clone returns a deep value copy of the document. Snapshot history relies
// on this being a true copy: mutating the live tree afterwards must never
// reach the clone.
func (d Document) Clone() Document {
	return Document{Blocks: cloneBlocks(d.Blocks)}
}

func cloneBlocks(blocks []Block) []Block {
	if blocks == nil {
		return nil
	}
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = b.clone()
	}
	return out
}

func (b Block) clone() Block {
	c := b
	c.Inlines = cloneInlines(b.Inlines)
	c.Children = cloneBlocks(b.Children)
	if b.Items != nil {
		c.Items = make([]ListItem, len(b.Items))
		for i, it := range b.Items {
			c.Items[i] = ListItem{Inlines: cloneInlines(it.Inlines)}
		}
	}
	if b.Graph != nil {
		g := *b.Graph
		if b.Graph.Functions != nil {
			g.Functions = append([]GraphFunction(nil), b.Graph.Functions...)
		}
		c.Graph = &g
	}
	if b.Symbolic != nil {
		s := *b.Symbolic
		c.Symbolic = &s
	}
	if b.Diagram != nil {
		d := *b.Diagram
		c.Diagram = &d
	}
	return c
}

func cloneInlines(inlines []Inline) []Inline {
	if inlines == nil {
		return nil
	}
	out := make([]Inline, len(inlines))
	for i, in := range inlines {
		c := in
		if in.Marks != nil {
			c.Marks = append([]Mark(nil), in.Marks...)
		}
		out[i] = c
	}
	return out
}
