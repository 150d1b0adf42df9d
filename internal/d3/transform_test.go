package d3

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestTransformZeroIsIdentity(t *testing.T) {
	var T Transform
	v := r3.Vec{X: 1.5, Y: -2, Z: 3}
	if got := T.Transform(v); got != v {
		t.Errorf("identity moved vector: got %v want %v", got, v)
	}
	if !T.Rigid(1e-12) {
		t.Error("identity not rigid")
	}
}

func TestFromBasisInvRigid(t *testing.T) {
	s := math.Sqrt(0.5)
	x := r3.Vec{X: s, Y: s}
	y := r3.Vec{X: -s, Y: s}
	z := r3.Cross(x, y)
	origin := r3.Vec{X: 1, Y: 2, Z: 3}
	T := FromBasis(origin, x, y, z)
	if !T.Rigid(1e-12) {
		t.Fatal("basis transform not rigid")
	}
	if got := T.Transform(r3.Vec{X: 1}); !EqualWithin(got, r3.Add(origin, x), 1e-12) {
		t.Errorf("x axis mapped to %v", got)
	}
	inv := T.InvRigid()
	for _, v := range []r3.Vec{{}, {X: 1}, {Y: -4, Z: 2}, {X: 3, Y: 3, Z: 3}} {
		back := inv.Transform(T.Transform(v))
		if !EqualWithin(back, v, 1e-12) {
			t.Errorf("roundtrip of %v got %v", v, back)
		}
	}
	if !inv.Mul(T).EqualWithin(Transform{}, 1e-12) {
		t.Error("inv*T is not identity")
	}
}

func TestDet3Reflection(t *testing.T) {
	T := FromBasis(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1}, r3.Vec{Z: -1})
	if d := T.Det3(); d != -1 {
		t.Errorf("reflection determinant got %g want -1", d)
	}
	if T.Rigid(1e-9) {
		t.Error("reflection reported as rigid motion")
	}
}
