package export

import "github.com/microcosm-cc/bluemonday"

// svgPolicy allow-lists the vector elements produced by the graph and
// diagram renderers. Cached markup attributes arrive from saved notebook
// files, so anything embedded into an exported HTML document is scrubbed
// here first — a hostile .skrybl file must not smuggle script into the
// export.
var svgPolicy = buildSVGPolicy()

func buildSVGPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"svg", "g", "defs", "title", "desc",
		"path", "line", "polyline", "polygon",
		"rect", "circle", "ellipse",
		"text", "tspan", "marker",
	)
	p.AllowAttrs(
		"width", "height", "viewBox", "xmlns", "preserveAspectRatio",
		"fill", "stroke", "stroke-width", "stroke-dasharray", "opacity",
		"points", "d", "transform", "class", "id",
		"x", "y", "x1", "y1", "x2", "y2", "cx", "cy", "r", "rx", "ry",
		"dx", "dy", "font-size", "font-family", "text-anchor",
	).Globally()
	return p
}

// sanitizeMarkup scrubs pre-rendered SVG markup before it is embedded in
// exported HTML. Empty input passes through.
func sanitizeMarkup(markup string) string {
	if markup == "" {
		return ""
	}
	return svgPolicy.Sanitize(markup)
}
