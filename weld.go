package unroll

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// weldPoint is a vertex stored in the welding k-d tree.
type weldPoint struct {
	p   r3.Vec
	key int
}

func (w *weldPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(*weldPoint)
	switch d {
	case 0:
		return w.p.X - q.p.X
	case 1:
		return w.p.Y - q.p.Y
	case 2:
		return w.p.Z - q.p.Z
	}
	panic("unreachable")
}

func (w *weldPoint) Dims() int { return 3 }

// Distance returns the squared distance between points.
func (w *weldPoint) Distance(c kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(w.p, c.(*weldPoint).p))
}

// FromTriangles builds an indexed mesh from a triangle soup such as the
// contents of an STL file. Vertices closer than tol are merged. If tol is
// zero it is inferred from the shortest triangle edge. Triangles that
// collapse after merging are dropped.
func FromTriangles(tris []r3.Triangle, tol float64) (*Mesh, error) {
	if len(tris) == 0 {
		return nil, errors.New("no triangles")
	}
	minDist2 := math.MaxFloat64
	maxDist2 := -math.MaxFloat64
	for _, t := range tris {
		for j := range t {
			side2 := r3.Norm2(r3.Sub(t[(j+1)%3], t[j]))
			minDist2 = math.Min(minDist2, side2)
			maxDist2 = math.Max(maxDist2, side2)
		}
	}
	suggested := math.Sqrt(minDist2) / 256
	if tol > math.Sqrt(maxDist2)/2 {
		return nil, fmt.Errorf("vertex tolerance is too large to weld mesh, suggested tolerance: %g", suggested)
	}
	if tol == 0 {
		tol = suggested
	}
	m := NewMesh()
	tree := &kdtree.Tree{}
	weld := func(p r3.Vec) int {
		q := &weldPoint{p: p}
		if tree.Root != nil {
			near, dist2 := tree.Nearest(q)
			if near != nil && dist2 <= tol*tol {
				return near.(*weldPoint).key
			}
		}
		q.key = m.AddVertex(-1, p)
		tree.Insert(q, false)
		return q.key
	}
	for i, t := range tris {
		a, b, c := weld(t[0]), weld(t[1]), weld(t[2])
		if a == b || b == c || c == a {
			continue
		}
		if _, err := m.AddFace(-1, []int{a, b, c}, FaceData{}); err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
	}
	if m.NumFaces() == 0 {
		return nil, errors.New("all triangles degenerate after welding")
	}
	return m, nil
}
