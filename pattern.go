package unroll

import (
	"fmt"
	"math"

	"github.com/soypat/unroll/internal/d2"
	"github.com/soypat/unroll/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Label is a piece of text placed on a pattern.
type Label struct {
	Pos  r2.Vec
	Text string
}

// Pattern is the cutting pattern of a flattened strip.
type Pattern struct {
	Name string
	// Outline is the boundary of the strip, counter clockwise.
	Outline []r2.Vec
	// Seam is Outline grown by the seam allowance. Nil without allowance.
	Seam []r2.Vec
	// Folds are the edges shared by two faces.
	Folds [][2]r2.Vec
	// Labels carry the zero padded Count of every face at its centroid.
	Labels []Label
	Bounds d2.Box
}

// NewPattern builds the cutting pattern of a flattened strip. The strip
// must have a single boundary loop. A positive seam adds a seam
// allowance around the outline.
func NewPattern(flat *Mesh, seam float64) (*Pattern, error) {
	if flat.NumFaces() == 0 {
		return nil, ErrEmptyStrip
	}
	if seam < 0 {
		return nil, fmt.Errorf("negative seam allowance %g", seam)
	}
	loops := flat.BoundaryLoops()
	if len(loops) != 1 {
		return nil, fmt.Errorf("pattern %s: want a single boundary loop, got %d", flat.Name, len(loops))
	}
	p := &Pattern{Name: flat.Name, Bounds: d2.EmptyBox()}
	p.Outline = make([]r2.Vec, len(loops[0]))
	for i, v := range loops[0] {
		p.Outline[i] = d3.ToR2(flat.pos(v))
		p.Bounds = p.Bounds.Include(p.Outline[i])
	}
	if d2.SignedArea(p.Outline) < 0 {
		for i, j := 0, len(p.Outline)-1; i < j; i, j = i+1, j-1 {
			p.Outline[i], p.Outline[j] = p.Outline[j], p.Outline[i]
		}
	}
	if seam > 0 {
		p.Seam = d2.OffsetPolygon(p.Outline, seam)
		for _, v := range p.Seam {
			p.Bounds = p.Bounds.Include(v)
		}
	}
	for _, f := range flat.FaceKeys() {
		for _, e := range flat.FaceHalfedges(f) {
			if e[0] > e[1] {
				continue
			}
			if _, ok := flat.HalfedgeFace(e[1], e[0]); ok {
				p.Folds = append(p.Folds, [2]r2.Vec{d3.ToR2(flat.pos(e[0])), d3.ToR2(flat.pos(e[1]))})
			}
		}
		p.Labels = append(p.Labels, Label{
			Pos:  d3.ToR2(flat.FaceCentroid(f)),
			Text: fmt.Sprintf("%02d", flat.FaceData(f).Count),
		})
	}
	return p, nil
}

// Distortion returns the largest relative difference between the length
// of an edge of flat and the same edge in src. Both meshes must share
// vertex keys. Zero length edges in src are skipped.
func Distortion(src, flat *Mesh) float64 {
	var worst float64
	for _, f := range flat.FaceKeys() {
		for _, e := range flat.FaceHalfedges(f) {
			a, oka := src.Vertex(e[0])
			b, okb := src.Vertex(e[1])
			if !oka || !okb {
				return math.Inf(1)
			}
			l3 := r3.Norm(r3.Sub(b, a))
			if l3 == 0 {
				continue
			}
			lf := r3.Norm(r3.Sub(flat.pos(e[1]), flat.pos(e[0])))
			worst = math.Max(worst, math.Abs(lf-l3)/l3)
		}
	}
	return worst
}
