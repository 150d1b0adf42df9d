package render

import (
	"github.com/soypat/unroll"
	"github.com/soypat/unroll/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// patternGap is the spacing between patterns laid out on one sheet as a
// fraction of the tallest pattern.
const patternGap = 0.1

// layout places patterns left to right with their bounds aligned at the
// bottom. It returns the translation of every pattern and the sheet size.
func layout(patterns []*unroll.Pattern) (offsets []r2.Vec, size r2.Vec) {
	for _, p := range patterns {
		size.Y = max(size.Y, p.Bounds.Size().Y)
	}
	gap := patternGap * size.Y
	offsets = make([]r2.Vec, len(patterns))
	sheet := d2.EmptyBox()
	var x float64
	for i, p := range patterns {
		offsets[i] = r2.Sub(r2.Vec{X: x}, p.Bounds.Min)
		placed := p.Bounds.Translate(offsets[i])
		sheet = sheet.Extend(placed)
		x = placed.Max.X + gap
	}
	if sheet.Empty() {
		return offsets, r2.Vec{}
	}
	return offsets, sheet.Size()
}

func max(a, b float64) float64 {
	if a >= b {
		return a
	}
	return b
}
