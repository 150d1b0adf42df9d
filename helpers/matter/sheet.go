package matter

import (
	"fmt"

	"github.com/soypat/unroll"
	"github.com/soypat/unroll/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// PVC coated polyester membrane, contracts slightly along the warp once tensioned.
	PVC = Sheet{Name: "PVC", Shrink: 0.3e-2, Stretch: 0.1e-2}
	// PTFE coated glass fibre, practically dimensionally stable.
	PTFE = Sheet{Name: "PTFE", Shrink: 0.1e-2}
	// Canvas is a cotton duck fabric that shrinks when wet.
	Canvas = Sheet{Name: "CANVAS", Shrink: 2e-2, Stretch: 1e-2}
)

// Sheet is a flat material patterns are cut from.
type Sheet struct {
	Name string
	// Shrink is the relative contraction along the pattern X axis (warp)
	// once the material is installed. Negative values are elongations.
	Shrink float64
	// Stretch is the relative contraction along the pattern Y axis (weft).
	Stretch float64
}

// Lookup returns the preset material with the given name.
func Lookup(name string) (Sheet, error) {
	for _, s := range []Sheet{PVC, PTFE, Canvas} {
		if s.Name == name {
			return s, nil
		}
	}
	return Sheet{}, fmt.Errorf("unknown material %q", name)
}

// Validate checks the compensation factors are usable.
func (s Sheet) Validate() error {
	if s.Shrink <= -1 || s.Shrink >= 1 {
		return fmt.Errorf("material %s: shrink %g out of range (-1, 1)", s.Name, s.Shrink)
	}
	if s.Stretch <= -1 || s.Stretch >= 1 {
		return fmt.Errorf("material %s: stretch %g out of range (-1, 1)", s.Name, s.Stretch)
	}
	return nil
}

// Scale returns the factors applied to pattern coordinates so the cut
// piece reaches design size after the material contracts.
func (s Sheet) Scale() r2.Vec {
	return r2.Vec{X: 1 / (1 - s.Shrink), Y: 1 / (1 - s.Stretch)}
}

// Compensate returns a copy of p scaled about the origin by s.Scale.
// Labels keep their text.
func (s Sheet) Compensate(p *unroll.Pattern) *unroll.Pattern {
	k := s.Scale()
	sc := func(v r2.Vec) r2.Vec { return r2.Vec{X: v.X * k.X, Y: v.Y * k.Y} }
	poly := func(pts []r2.Vec) []r2.Vec {
		if pts == nil {
			return nil
		}
		out := make([]r2.Vec, len(pts))
		for i, v := range pts {
			out[i] = sc(v)
		}
		return out
	}
	c := &unroll.Pattern{
		Name:    p.Name,
		Outline: poly(p.Outline),
		Seam:    poly(p.Seam),
		Bounds:  d2.Box{Min: sc(p.Bounds.Min), Max: sc(p.Bounds.Max)},
	}
	for _, f := range p.Folds {
		c.Folds = append(c.Folds, [2]r2.Vec{sc(f[0]), sc(f[1])})
	}
	for _, l := range p.Labels {
		c.Labels = append(c.Labels, unroll.Label{Pos: sc(l.Pos), Text: l.Text})
	}
	return c
}
