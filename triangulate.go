package unroll

import (
	"fmt"
	"math"

	"github.com/soypat/unroll/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// diagonalTieTol is the angle difference in radians under which both
// quad diagonals are considered equally good.
const diagonalTieTol = 1e-12

// Triangulate returns a copy of m where every quad is split into two
// triangles along the diagonal that minimises the largest interior
// angle. Ties pick the diagonal through the first vertex of the quad.
// Triangles are copied as is. The copy shares vertex keys with m, new
// face keys are allocated in ascending order of the source face keys and
// inherit their face data. The returned map relates every triangle to
// its source face.
func Triangulate(m *Mesh) (*Mesh, map[int]int, error) {
	tri := NewMesh()
	tri.Name = m.Name
	for _, v := range m.VertexKeys() {
		tri.AddVertex(v, m.vertices[v])
	}
	source := make(map[int]int, 2*m.NumFaces())
	add := func(src int, cycle []int, data FaceData) error {
		key, err := tri.AddFace(-1, cycle, data)
		if err != nil {
			return fmt.Errorf("triangulating face %d: %w", src, err)
		}
		source[key] = src
		return nil
	}
	for _, f := range m.FaceKeys() {
		fc := m.faces[f]
		vs := fc.vertices
		switch len(vs) {
		case 3:
			if err := add(f, vs, fc.data); err != nil {
				return nil, nil, err
			}
		case 4:
			for _, t := range splitQuad(vs, m.FacePoints(f)) {
				if err := add(f, t[:], fc.data); err != nil {
					return nil, nil, err
				}
			}
		default:
			return nil, nil, faceErr(ErrNotQuad, fmt.Sprintf("%d vertices", len(vs)), f)
		}
	}
	return tri, source, nil
}

// splitQuad returns the two triangles of quad a,b,c,d keeping its orientation.
func splitQuad(vs []int, p d3.Set) [2][3]int {
	a, b, c, d := vs[0], vs[1], vs[2], vs[3]
	ac := math.Max(maxAngle(p[0], p[1], p[2]), maxAngle(p[0], p[2], p[3]))
	bd := math.Max(maxAngle(p[0], p[1], p[3]), maxAngle(p[1], p[2], p[3]))
	if bd < ac-diagonalTieTol {
		return [2][3]int{{a, b, d}, {b, c, d}}
	}
	return [2][3]int{{a, b, c}, {a, c, d}}
}

// maxAngle returns the largest interior angle of triangle p0,p1,p2.
// Degenerate triangles return +Inf so they always lose.
func maxAngle(p0, p1, p2 r3.Vec) float64 {
	a0 := d3.Angle(r3.Sub(p1, p0), r3.Sub(p2, p0))
	a1 := d3.Angle(r3.Sub(p0, p1), r3.Sub(p2, p1))
	a2 := d3.Angle(r3.Sub(p0, p2), r3.Sub(p1, p2))
	max := math.Max(a0, math.Max(a1, a2))
	if math.IsNaN(max) || math.IsNaN(a0) || math.IsNaN(a1) || math.IsNaN(a2) {
		return math.Inf(1)
	}
	return max
}
