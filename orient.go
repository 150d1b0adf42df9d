package unroll

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// Orienter chooses the placement frame of a flattened pattern. The
// pattern is moved so the returned frame lands on WorldXY. The frame
// normal must point towards +Z so patterns are never mirrored.
type Orienter interface {
	Orient(points []r3.Vec) (Frame, error)
}

// PrincipalAxes orients patterns along the principal components of their
// vertices in the XY plane. The frame origin is the centroid and the X
// axis follows the direction of largest variance.
type PrincipalAxes struct{}

var _ Orienter = PrincipalAxes{}

// Orient implements Orienter.
func (PrincipalAxes) Orient(points []r3.Vec) (Frame, error) {
	if len(points) < 2 {
		return Frame{}, fmt.Errorf("principal axes need at least 2 points, got %d", len(points))
	}
	data := mat.NewDense(len(points), 2, nil)
	var c r3.Vec
	for i, p := range points {
		data.Set(i, 0, p.X)
		data.Set(i, 1, p.Y)
		c = r3.Add(c, p)
	}
	c = r3.Scale(1/float64(len(points)), c)
	var pc stat.PC
	if !pc.PrincipalComponents(data, nil) {
		return Frame{}, errors.New("principal component decomposition failed")
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	x := r3.Vec{X: vecs.At(0, 0), Y: vecs.At(1, 0)}
	// Component signs are arbitrary, pin them for repeatable output.
	if x.X < 0 || (x.X == 0 && x.Y < 0) {
		x = r3.Scale(-1, x)
	}
	return NewFrame(r3.Vec{X: c.X, Y: c.Y}, x, r3.Vec{X: -x.Y, Y: x.X})
}
