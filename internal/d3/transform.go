package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Transform represents a 3D affine transformation stored as a 4x4 matrix.
// The zero value of Transform is the identity transform.
type Transform struct {
	// in order to make the zero value of Transform represent the identity
	// transform we store it with the identity matrix subtracted.
	// These diagonal elements are subtracted such that
	//  d00 = x00-1, d11 = x11-1, d22 = x22-1, d33 = x33-1
	// where x00, x11, x22, x33 are the matrix diagonal elements.
	// We can then check for identity in if blocks like so:
	//  if T == (Transform{})
	d00, x01, x02, x03 float64
	x10, d11, x12, x13 float64
	x20, x21, d22, x23 float64
	x30, x31, x32, d33 float64
}

// Transform applies the Transform to the argument vector
// and returns the result.
func (t Transform) Transform(v r3.Vec) r3.Vec {
	// https://github.com/mrdoob/three.js/blob/dev/src/math/Vector3.js#L262
	w := 1 / (t.x30*v.X + t.x31*v.Y + t.x32*v.Z + t.d33 + 1)
	return r3.Vec{
		X: ((t.d00+1)*v.X + t.x01*v.Y + t.x02*v.Z + t.x03) * w,
		Y: (t.x10*v.X + (t.d11+1)*v.Y + t.x12*v.Z + t.x13) * w,
		Z: (t.x20*v.X + t.x21*v.Y + (t.d22+1)*v.Z + t.x23) * w,
	}
}

// TransformDir applies only the linear part of the Transform to a direction.
func (t Transform) TransformDir(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: (t.d00+1)*v.X + t.x01*v.Y + t.x02*v.Z,
		Y: t.x10*v.X + (t.d11+1)*v.Y + t.x12*v.Z,
		Z: t.x20*v.X + t.x21*v.Y + (t.d22+1)*v.Z,
	}
}

// NewTransform returns a new Transform type and populates its elements
// with values passed in row-major form.
func NewTransform(a []float64) Transform {
	if len(a) != 16 {
		panic("Transform is initialized with 16 values")
	}
	return Transform{
		d00: a[0] - 1, x01: a[1], x02: a[2], x03: a[3],
		x10: a[4], d11: a[5] - 1, x12: a[6], x13: a[7],
		x20: a[8], x21: a[9], d22: a[10] - 1, x23: a[11],
		x30: a[12], x31: a[13], x32: a[14], d33: a[15] - 1,
	}
}

// FromBasis returns the rigid transform that maps the world axes onto
// the columns x, y, z and the world origin onto origin. The basis is
// expected to be orthonormal, see Rigid.
func FromBasis(origin, x, y, z r3.Vec) Transform {
	return NewTransform([]float64{
		x.X, y.X, z.X, origin.X,
		x.Y, y.Y, z.Y, origin.Y,
		x.Z, y.Z, z.Z, origin.Z,
		0, 0, 0, 1,
	})
}

// Translate adds Vec to the positional Transform.
func (t Transform) Translate(v r3.Vec) Transform {
	t.x03 += v.X
	t.x13 += v.Y
	t.x23 += v.Z
	return t
}

// Mul multiplies the Transforms a and b and returns the result.
// The result applies b first and then t.
func (t Transform) Mul(b Transform) Transform {
	if t == (Transform{}) {
		return b
	}
	if b == (Transform{}) {
		return t
	}
	x, y := t.SliceCopy(), b.SliceCopy()
	var m [16]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += x[i*4+k] * y[k*4+j]
			}
			m[i*4+j] = sum
		}
	}
	return NewTransform(m[:])
}

// Det3 returns the determinant of the upper 3x3 linear block. Rotations
// have Det3 == 1, reflections have Det3 == -1.
func (t Transform) Det3() float64 {
	x00 := t.d00 + 1
	x11 := t.d11 + 1
	x22 := t.d22 + 1
	return x00*(x11*x22-t.x12*t.x21) -
		t.x01*(t.x10*x22-t.x12*t.x20) +
		t.x02*(t.x10*t.x21-x11*t.x20)
}

// Rigid reports whether the transform is a proper rigid motion (rotation
// plus translation) within tolerance tol.
func (t Transform) Rigid(tol float64) bool {
	if math.Abs(t.x30) > tol || math.Abs(t.x31) > tol || math.Abs(t.x32) > tol || math.Abs(t.d33) > tol {
		return false
	}
	c0 := r3.Vec{X: t.d00 + 1, Y: t.x10, Z: t.x20}
	c1 := r3.Vec{X: t.x01, Y: t.d11 + 1, Z: t.x21}
	c2 := r3.Vec{X: t.x02, Y: t.x12, Z: t.d22 + 1}
	return math.Abs(r3.Norm(c0)-1) <= tol && math.Abs(r3.Norm(c1)-1) <= tol &&
		math.Abs(r3.Norm(c2)-1) <= tol && math.Abs(r3.Dot(c0, c1)) <= tol &&
		math.Abs(r3.Dot(c1, c2)) <= tol && math.Abs(r3.Dot(c0, c2)) <= tol &&
		math.Abs(t.Det3()-1) <= tol
}

// InvRigid returns the inverse of a rigid transform. The result is
// undefined for transforms that do not satisfy Rigid.
func (t Transform) InvRigid() Transform {
	if t == (Transform{}) {
		return t
	}
	rt := Transform{
		d00: t.d00, x01: t.x10, x02: t.x20,
		x10: t.x01, d11: t.d11, x12: t.x21,
		x20: t.x02, x21: t.x12, d22: t.d22,
	}
	pos := rt.TransformDir(r3.Vec{X: t.x03, Y: t.x13, Z: t.x23})
	return rt.Translate(r3.Scale(-1, pos))
}

// EqualWithin tests the equality of the Transforms to within a tolerance.
func (t Transform) EqualWithin(b Transform, tolerance float64) bool {
	x, y := t.SliceCopy(), b.SliceCopy()
	for i := range x {
		if math.Abs(x[i]-y[i]) > tolerance {
			return false
		}
	}
	return true
}

// SliceCopy returns a copy of the Transform's data
// in row major storage format. It returns 16 elements.
func (t Transform) SliceCopy() []float64 {
	return []float64{
		t.d00 + 1, t.x01, t.x02, t.x03,
		t.x10, t.d11 + 1, t.x12, t.x13,
		t.x20, t.x21, t.d22 + 1, t.x23,
		t.x30, t.x31, t.x32, t.d33 + 1,
	}
}
