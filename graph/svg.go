package graph

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// drawSVG renders sampled curves into a standalone <svg> element: white
// (or theme) background, optional grid, axes through the origin when it
// lies inside the domain, tick labels, then the curves.
func drawSVG(width, height int, xd, yd [2]float64, showGrid bool, colors ColorScheme, curves [][]point) string {
	var buf bytes.Buffer
	c := svg.New(&buf)
	c.Start(width, height)

	toPx := func(p point) (int, int) {
		px := (p.x - xd[0]) / (xd[1] - xd[0]) * float64(width)
		py := (1 - (p.y-yd[0])/(yd[1]-yd[0])) * float64(height)
		return int(math.Round(px)), int(math.Round(py))
	}

	c.Rect(0, 0, width, height, "fill:"+colors.Background)

	xStep := niceStep(xd[1] - xd[0])
	yStep := niceStep(yd[1] - yd[0])

	if showGrid {
		gridStyle := "stroke:" + colors.Grid + ";stroke-width:1"
		for x := math.Ceil(xd[0]/xStep) * xStep; x <= xd[1]; x += xStep {
			px, _ := toPx(point{x, yd[0]})
			c.Line(px, 0, px, height, gridStyle)
		}
		for y := math.Ceil(yd[0]/yStep) * yStep; y <= yd[1]; y += yStep {
			_, py := toPx(point{xd[0], y})
			c.Line(0, py, width, py, gridStyle)
		}
	}

	axisStyle := "stroke:" + colors.Axis + ";stroke-width:1.5"
	if xd[0] <= 0 && 0 <= xd[1] {
		px, _ := toPx(point{0, 0})
		c.Line(px, 0, px, height, axisStyle)
	}
	if yd[0] <= 0 && 0 <= yd[1] {
		_, py := toPx(point{0, 0})
		c.Line(0, py, width, py, axisStyle)
	}

	tickStyle := "font-size:10px;font-family:sans-serif;fill:" + colors.Tick
	for x := math.Ceil(xd[0]/xStep) * xStep; x <= xd[1]; x += xStep {
		if math.Abs(x) < xStep/2 {
			continue
		}
		px, _ := toPx(point{x, yd[0]})
		c.Text(px+2, height-4, formatTick(x), tickStyle)
	}
	for y := math.Ceil(yd[0]/yStep) * yStep; y <= yd[1]; y += yStep {
		if math.Abs(y) < yStep/2 {
			continue
		}
		_, py := toPx(point{xd[0], y})
		c.Text(4, py-2, formatTick(y), tickStyle)
	}

	lineStyle := "fill:none;stroke:" + colors.Line + ";stroke-width:2.5"
	for _, seg := range curves {
		xs := make([]int, 0, len(seg))
		ys := make([]int, 0, len(seg))
		for _, p := range seg {
			if p.y < yd[0]-(yd[1]-yd[0]) || p.y > yd[1]+(yd[1]-yd[0]) {
				// Clip wildly out-of-range samples; keep a margin so
				// curves may run off the visible edge smoothly.
				continue
			}
			px, py := toPx(p)
			xs = append(xs, px)
			ys = append(ys, py)
		}
		if len(xs) > 1 {
			c.Polyline(xs, ys, lineStyle)
		}
	}

	c.End()

	// svgo prefixes an XML declaration; exported documents embed the
	// element inline, so strip everything before the <svg tag.
	out := buf.String()
	if i := strings.Index(out, "<svg"); i > 0 {
		out = out[i:]
	}
	return strings.TrimSpace(out)
}

// niceStep picks a 1/2/5-scaled tick step yielding roughly 8 divisions.
func niceStep(span float64) float64 {
	if span <= 0 {
		return 1
	}
	raw := span / 8
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch {
	case raw/mag >= 5:
		return 5 * mag
	case raw/mag >= 2:
		return 2 * mag
	default:
		return mag
	}
}

func formatTick(v float64) string {
	s := strconv.FormatFloat(v, 'g', 4, 64)
	if s == "-0" {
		s = "0"
	}
	return s
}
