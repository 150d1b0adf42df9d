package unroll

import (
	"fmt"
	"math"

	"github.com/soypat/unroll/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// frameTol is the smallest accepted length of an axis before and after
// orthogonalisation, relative to the input axis lengths.
const frameTol = 1e-12

// Frame is a right handed orthonormal coordinate system. The Z axis is
// implicit and equal to X × Y.
type Frame struct {
	Origin r3.Vec
	X, Y   r3.Vec
}

// WorldXY is the frame of the world origin with the standard basis.
var WorldXY = Frame{X: r3.Vec{X: 1}, Y: r3.Vec{Y: 1}}

// Z returns the normal axis of the frame.
func (f Frame) Z() r3.Vec { return r3.Cross(f.X, f.Y) }

// NewFrame returns the frame at origin with X along x and Y in the plane
// of x and y. It fails with ErrDegenerateFrame when x has zero length or
// x and y are (nearly) parallel instead of producing NaN axes.
func NewFrame(origin, x, y r3.Vec) (Frame, error) {
	nx, ny := r3.Norm(x), r3.Norm(y)
	if !d3.IsFinite(x) || !d3.IsFinite(y) || !d3.IsFinite(origin) {
		return Frame{}, fmt.Errorf("%w: non finite input", ErrDegenerateFrame)
	}
	if nx < frameTol || ny < frameTol {
		return Frame{}, fmt.Errorf("%w: zero length axis", ErrDegenerateFrame)
	}
	z := r3.Cross(x, y)
	if r3.Norm(z) < frameTol*nx*ny {
		return Frame{}, fmt.Errorf("%w: parallel axes %v and %v", ErrDegenerateFrame, x, y)
	}
	ux := r3.Scale(1/nx, x)
	uz := r3.Unit(z)
	return Frame{Origin: origin, X: ux, Y: r3.Cross(uz, ux)}, nil
}

// EdgeFrame builds the frame used to align two faces along a shared
// edge. The origin is the start of the edge and X points along edge.
// Root frames use Y = N × X so the frame normal is N. Propagation frames
// use Y = X × N, flipping the frame normal; the same choice must be used
// for the three dimensional face and its flattened neighbour so attached
// triangles are rotated and never mirrored.
func EdgeFrame(origin, edge, normal r3.Vec, propagate bool) (Frame, error) {
	if r3.Norm(edge) < frameTol {
		return Frame{}, fmt.Errorf("%w: zero length edge at %v", ErrDegenerateFrame, origin)
	}
	if r3.Norm(normal) < frameTol {
		return Frame{}, fmt.Errorf("%w: zero face normal at %v", ErrDegenerateFrame, origin)
	}
	x := r3.Unit(edge)
	var y r3.Vec
	if propagate {
		y = r3.Cross(x, normal)
	} else {
		y = r3.Cross(normal, x)
	}
	if r3.Norm(y) < frameTol {
		return Frame{}, fmt.Errorf("%w: edge parallel to face normal at %v", ErrDegenerateFrame, origin)
	}
	return NewFrame(origin, x, r3.Unit(y))
}

// Transform returns the rigid transform mapping world coordinates to
// the frame, that is the world origin onto f.Origin and the world axes
// onto the frame axes.
func (f Frame) Transform() d3.Transform {
	return d3.FromBasis(f.Origin, f.X, f.Y, f.Z())
}

// ToLocal returns p expressed in frame coordinates.
func (f Frame) ToLocal(p r3.Vec) r3.Vec {
	d := r3.Sub(p, f.Origin)
	return r3.Vec{X: r3.Dot(d, f.X), Y: r3.Dot(d, f.Y), Z: r3.Dot(d, f.Z())}
}

// FrameToFrame returns the isometry that maps from onto to: points
// with local coordinates c in from end up with local coordinates c in to.
func FrameToFrame(from, to Frame) d3.Transform {
	return to.Transform().Mul(from.Transform().InvRigid())
}

// orthonormal reports whether f is a right handed orthonormal frame within tol.
func (f Frame) orthonormal(tol float64) bool {
	return math.Abs(r3.Norm(f.X)-1) <= tol && math.Abs(r3.Norm(f.Y)-1) <= tol &&
		math.Abs(r3.Dot(f.X, f.Y)) <= tol
}
