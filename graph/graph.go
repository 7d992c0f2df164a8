// Package graph converts function expressions plus axis domains into
// static SVG markup. The in-app interactive surface lives in the host
// shell; this package covers the headless path used by export, where every
// graph node of a notebook is rendered in one batch and correlated back to
// its node by a stable key.
//
// A function that fails to parse or evaluate never aborts the render: it
// is skipped, and a graph whose functions all fail produces no markup so
// the serializers can fall back to a text placeholder listing the
// attempted expressions.
package graph

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/skrybl/skrybl/doc"
	"github.com/skrybl/skrybl/notebook"
)

// ColorScheme is the palette applied to a render: live theme colors for
// in-app display, fixed dark-on-white for export.
type ColorScheme struct {
	Line       string
	Axis       string
	Tick       string
	Grid       string
	Background string
}

// ExportColors is the print-safe palette: dark lines on white.
var ExportColors = ColorScheme{
	Line:       "#1a1a1a",
	Axis:       "#333333",
	Tick:       "#555555",
	Grid:       "#e0e0e0",
	Background: "#ffffff",
}

// Defaults applied when a graph node carries zero-valued geometry.
const (
	defaultWidth  = 560
	defaultHeight = 300
)

var defaultXDomain = [2]float64{-6.28, 6.28}
var defaultYDomain = [2]float64{-2, 2}

// Config configures the renderer.
type Config struct {
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Renderer renders graph nodes to SVG.
type Renderer struct {
	cfg    Config
	logger *slog.Logger
	env    map[string]any
}

// New creates a Renderer.
func New(cfg Config) *Renderer {
	cfg.defaults()
	return &Renderer{
		cfg:    cfg,
		logger: cfg.Logger,
		env: map[string]any{
			"pi":   math.Pi,
			"e":    math.E,
			"sqrt": math.Sqrt,
			"sin":  math.Sin,
			"cos":  math.Cos,
			"tan":  math.Tan,
			"asin": math.Asin,
			"acos": math.Acos,
			"atan": math.Atan,
			"ln":   math.Log,
			"log":  math.Log10,
			"exp":  math.Exp,
			"pow":  math.Pow,
		},
	}
}

// Render produces SVG markup for one graph node. It returns an error only
// when nothing at all could be rendered (no valid function).
func (r *Renderer) Render(g doc.GraphAttrs, colors ColorScheme) (string, error) {
	width, height := g.Width, g.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	xd, yd := g.XDomain, g.YDomain
	if xd[0] == xd[1] {
		xd = defaultXDomain
	}
	if yd[0] == yd[1] {
		yd = defaultYDomain
	}

	var curves [][]point
	rendered := 0
	for _, fn := range g.Functions {
		if strings.TrimSpace(fn.Expression) == "" {
			continue
		}
		segs, err := r.sample(fn.Expression, xd, yd, width)
		if err != nil {
			r.logger.Debug("graph: skipping function", "expression", fn.Expression, "error", err)
			continue
		}
		curves = append(curves, segs...)
		rendered++
	}
	if rendered == 0 {
		return "", fmt.Errorf("graph: no renderable function")
	}

	return drawSVG(width, height, xd, yd, g.ShowGrid, colors, curves), nil
}

// RenderAll pre-renders every graph node across every page of a notebook
// with export colors, returning a map keyed by doc.GraphKey. The node
// sequence counter runs across all pages and matches the serializers'
// traversal exactly.
func (r *Renderer) RenderAll(nb notebook.Notebook) map[string]string {
	out := make(map[string]string)
	seq := 0
	for _, page := range nb.Pages {
		doc.Walk(page.Content, func(b doc.Block) {
			if b.Type == doc.BlockGraphPlot && b.Graph != nil {
				if svg, err := r.Render(*b.Graph, ExportColors); err == nil {
					out[doc.GraphKey(b.Graph, seq)] = svg
				}
			}
			seq++
		})
	}
	return out
}

type point struct{ x, y float64 }

// sample evaluates one expression across the x-domain, one sample per
// horizontal pixel, splitting the curve wherever the function is
// undefined or leaves the finite range.
func (r *Renderer) sample(expression string, xd, yd [2]float64, width int) ([][]point, error) {
	prog, err := expr.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("graph: compile %q: %w", expression, err)
	}

	n := width
	if n < 2 {
		n = 2
	}
	env := make(map[string]any, len(r.env)+1)
	for k, v := range r.env {
		env[k] = v
	}

	var segs [][]point
	var cur []point
	valid := 0
	for i := 0; i <= n; i++ {
		x := xd[0] + (xd[1]-xd[0])*float64(i)/float64(n)
		env["x"] = x
		out, err := vm.Run(prog, env)
		y, ok := toFloat(out)
		if err != nil || !ok || math.IsNaN(y) || math.IsInf(y, 0) {
			if len(cur) > 1 {
				segs = append(segs, cur)
			}
			cur = nil
			continue
		}
		valid++
		cur = append(cur, point{x, y})
	}
	if len(cur) > 1 {
		segs = append(segs, cur)
	}
	if valid == 0 {
		return nil, fmt.Errorf("graph: %q yields no finite values", expression)
	}
	return segs, nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}
