package render

import (
	"errors"

	"github.com/soypat/unroll"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"gonum.org/v1/gonum/spatial/r2"
)

// DXF layer names of a cutting pattern.
const (
	LayerOutline = "OUTLINE"
	LayerSeam    = "SEAM"
	LayerFolds   = "FOLDS"
	LayerLabels  = "LABELS"
)

// CreateDXF writes the patterns side by side to a DXF file. Outlines,
// seam allowances, fold lines and labels go to separate layers.
func CreateDXF(path string, patterns ...*unroll.Pattern) error {
	if len(patterns) == 0 {
		return errors.New("no patterns to write")
	}
	d := dxf.NewDrawing()
	for _, l := range []struct {
		name string
		cl   color.ColorNumber
	}{
		{LayerOutline, color.Red},
		{LayerSeam, color.Blue},
		{LayerFolds, color.Green},
		{LayerLabels, dxf.DefaultColor},
	} {
		if _, err := d.AddLayer(l.name, l.cl, dxf.DefaultLineType, false); err != nil {
			return err
		}
	}
	offsets, size := layout(patterns)
	textHeight := size.Y / 40
	for i, p := range patterns {
		off := offsets[i]
		if err := d.ChangeLayer(LayerOutline); err != nil {
			return err
		}
		if err := dxfPolygon(d, p.Outline, off); err != nil {
			return err
		}
		if len(p.Seam) > 0 {
			if err := d.ChangeLayer(LayerSeam); err != nil {
				return err
			}
			if err := dxfPolygon(d, p.Seam, off); err != nil {
				return err
			}
		}
		if err := d.ChangeLayer(LayerFolds); err != nil {
			return err
		}
		for _, f := range p.Folds {
			a, b := r2.Add(f[0], off), r2.Add(f[1], off)
			if _, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
				return err
			}
		}
		if err := d.ChangeLayer(LayerLabels); err != nil {
			return err
		}
		for _, l := range p.Labels {
			pos := r2.Add(l.Pos, off)
			if _, err := d.Text(l.Text, pos.X, pos.Y, 0, textHeight); err != nil {
				return err
			}
		}
		name := r2.Add(r2.Vec{X: p.Bounds.Min.X, Y: p.Bounds.Min.Y - 2*textHeight}, off)
		if _, err := d.Text(p.Name, name.X, name.Y, 0, textHeight); err != nil {
			return err
		}
	}
	return d.SaveAs(path)
}

func dxfPolygon(d *drawing.Drawing, poly []r2.Vec, off r2.Vec) error {
	for i := range poly {
		a := r2.Add(poly[i], off)
		b := r2.Add(poly[(i+1)%len(poly)], off)
		if _, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
			return err
		}
	}
	return nil
}
