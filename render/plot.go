package render

import (
	"image/color"

	"github.com/soypat/unroll"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SavePlot saves a drawing of the pattern with its seam allowance, fold
// lines and face labels. The image format follows the path extension
// (png, svg, pdf, ...).
func SavePlot(path string, p *unroll.Pattern) error {
	pl := plot.New()
	pl.Title.Text = p.Name
	pl.X.Label.Text = "x"
	pl.Y.Label.Text = "y"

	outline, err := plotter.NewLine(closedXYs(p.Outline))
	if err != nil {
		return err
	}
	outline.Color = color.RGBA{R: 200, A: 255}
	outline.Width = vg.Points(1.5)
	pl.Add(outline)
	pl.Legend.Add("outline", outline)

	if len(p.Seam) > 0 {
		seam, err := plotter.NewLine(closedXYs(p.Seam))
		if err != nil {
			return err
		}
		seam.Color = color.RGBA{B: 200, A: 255}
		seam.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		pl.Add(seam)
		pl.Legend.Add("seam", seam)
	}
	for _, f := range p.Folds {
		fold, err := plotter.NewLine(plotter.XYs{{X: f[0].X, Y: f[0].Y}, {X: f[1].X, Y: f[1].Y}})
		if err != nil {
			return err
		}
		fold.Color = color.Gray{Y: 128}
		fold.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		pl.Add(fold)
	}
	if len(p.Labels) > 0 {
		xyl := plotter.XYLabels{XYs: make(plotter.XYs, len(p.Labels)), Labels: make([]string, len(p.Labels))}
		for i, l := range p.Labels {
			xyl.XYs[i] = plotter.XY{X: l.Pos.X, Y: l.Pos.Y}
			xyl.Labels[i] = l.Text
		}
		labels, err := plotter.NewLabels(xyl)
		if err != nil {
			return err
		}
		pl.Add(labels)
	}
	// Equal axis scales so the pattern is not distorted.
	size := p.Bounds.Size()
	side := max(size.X, size.Y)
	c := p.Bounds.Center()
	pl.X.Min, pl.X.Max = c.X-side/2, c.X+side/2
	pl.Y.Min, pl.Y.Max = c.Y-side/2, c.Y+side/2
	return pl.Save(16*vg.Centimeter, 16*vg.Centimeter, path)
}

func closedXYs(poly []r2.Vec) plotter.XYs {
	xys := make(plotter.XYs, len(poly)+1)
	for i, v := range poly {
		xys[i] = plotter.XY{X: v.X, Y: v.Y}
	}
	xys[len(poly)] = xys[0]
	return xys
}
