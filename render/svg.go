package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/soypat/unroll"
	"gonum.org/v1/gonum/spatial/r2"
)

// WriteSVG draws the patterns side by side as an SVG document. scale is
// the amount of SVG user units per model unit.
func WriteSVG(w io.Writer, scale float64, patterns ...*unroll.Pattern) error {
	if len(patterns) == 0 {
		return errors.New("no patterns to write")
	}
	if scale <= 0 {
		return fmt.Errorf("invalid svg scale %g", scale)
	}
	offsets, size := layout(patterns)
	margin := int(math.Ceil(patternGap * size.Y * scale))
	width := int(math.Ceil(size.X*scale)) + 2*margin
	height := int(math.Ceil(size.Y*scale)) + 2*margin
	// SVG Y grows downwards.
	tr := func(v r2.Vec, off r2.Vec) (int, int) {
		v = r2.Add(v, off)
		return margin + int(math.Round(v.X*scale)), height - margin - int(math.Round(v.Y*scale))
	}
	poly := func(pts []r2.Vec, off r2.Vec) ([]int, []int) {
		xs, ys := make([]int, len(pts)), make([]int, len(pts))
		for i, p := range pts {
			xs[i], ys[i] = tr(p, off)
		}
		return xs, ys
	}
	fontSize := max(1, size.Y*scale/40)
	canvas := svg.New(w)
	canvas.Start(width, height)
	for i, p := range patterns {
		off := offsets[i]
		canvas.Gid(p.Name)
		if len(p.Seam) > 0 {
			xs, ys := poly(p.Seam, off)
			canvas.Polygon(xs, ys, "fill:none;stroke:blue;stroke-dasharray:4,2")
		}
		xs, ys := poly(p.Outline, off)
		canvas.Polygon(xs, ys, "fill:none;stroke:red")
		for _, f := range p.Folds {
			x1, y1 := tr(f[0], off)
			x2, y2 := tr(f[1], off)
			canvas.Line(x1, y1, x2, y2, "stroke:green;stroke-dasharray:2,2")
		}
		for _, l := range p.Labels {
			x, y := tr(l.Pos, off)
			canvas.Text(x, y, l.Text, fmt.Sprintf("font-size:%.0fpx;text-anchor:middle", fontSize))
		}
		x, y := tr(r2.Vec{X: p.Bounds.Min.X, Y: p.Bounds.Min.Y}, off)
		canvas.Text(x, y+int(fontSize), p.Name, fmt.Sprintf("font-size:%.0fpx", fontSize))
		canvas.Gend()
	}
	canvas.End()
	return nil
}
