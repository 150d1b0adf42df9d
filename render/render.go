package render

import (
	"io"

	"github.com/soypat/unroll"
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer streams triangles. ReadTriangles returns io.EOF once every
// triangle has been read.
type Renderer interface {
	ReadTriangles(t []r3.Triangle) (int, error)
}

// meshRenderer fan triangulates the faces of a mesh in key order.
type meshRenderer struct {
	m         *unroll.Mesh
	faces     []int
	unwritten triangle3Buffer
}

// NewMeshRenderer returns a Renderer over the faces of m. Polygons are
// split into a fan around their first vertex.
func NewMeshRenderer(m *unroll.Mesh) Renderer {
	return &meshRenderer{
		m:         m,
		faces:     m.FaceKeys(),
		unwritten: triangle3Buffer{buf: make([]r3.Triangle, 0, 64)},
	}
}

func (mr *meshRenderer) ReadTriangles(dst []r3.Triangle) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	for n < len(dst) {
		if mr.unwritten.Len() > 0 {
			n += mr.unwritten.Read(dst[n:])
			continue
		}
		if len(mr.faces) == 0 {
			break
		}
		pts := mr.m.FacePoints(mr.faces[0])
		mr.faces = mr.faces[1:]
		for i := 1; i+1 < len(pts); i++ {
			mr.unwritten.Write([]r3.Triangle{{pts[0], pts[i], pts[i+1]}})
		}
	}
	if n == 0 && len(mr.faces) == 0 && mr.unwritten.Len() == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// triangleNormal returns the unit normal of t following the right hand
// rule. Degenerate triangles return the zero vector.
func triangleNormal(t r3.Triangle) r3.Vec {
	n := r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
	if r3.Norm(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}
