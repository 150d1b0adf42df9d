package unroll

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Side selects the face of a shell the fabric is cut for.
type Side int

const (
	// Intrados is the inner face of the shell, against the vertex normals.
	Intrados Side = iota
	// Extrados is the outer face of the shell, along the vertex normals.
	Extrados
)

func (s Side) String() string {
	switch s {
	case Intrados:
		return "idos"
	case Extrados:
		return "edos"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// ParseSide parses idos, intrados, edos or extrados.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "idos", "intrados":
		return Intrados, nil
	case "edos", "extrados":
		return Extrados, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

// Offset returns a copy of m with every vertex moved half the thickness
// along its vertex normal, inwards for Intrados and outwards for Extrados.
func Offset(m *Mesh, side Side, thickness float64) (*Mesh, error) {
	if thickness <= 0 {
		return nil, errors.New("offset thickness must be positive")
	}
	d := thickness / 2
	switch side {
	case Intrados:
		d = -d
	case Extrados:
	default:
		return nil, fmt.Errorf("invalid side %v", side)
	}
	out := m.Copy()
	for _, v := range m.VertexKeys() {
		n := m.VertexNormal(v)
		if n == (r3.Vec{}) {
			return nil, vertexErr(ErrDegenerateFrame, "vertex normal undefined", v)
		}
		out.vertices[v] = r3.Add(m.vertices[v], r3.Scale(d, n))
	}
	return out, nil
}
