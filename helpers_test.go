package unroll_test

import (
	"math"
	"testing"

	"github.com/soypat/unroll"
	"gonum.org/v1/gonum/spatial/r3"
)

// addCylinderStrip appends a chain of n quads wrapped around a cylinder
// of radius 4 with its axis along Y. The strip spans y0 to y0+1.
func addCylinderStrip(t testing.TB, m *unroll.Mesh, n int, y0 float64, id unroll.StripID) []int {
	t.Helper()
	const radius = 4
	bottom := make([]int, n+1)
	top := make([]int, n+1)
	for i := range bottom {
		theta := 0.3 * float64(i)
		x, z := radius*math.Sin(theta), radius*math.Cos(theta)
		bottom[i] = m.AddVertex(-1, r3.Vec{X: x, Y: y0, Z: z})
		top[i] = m.AddVertex(-1, r3.Vec{X: x, Y: y0 + 1, Z: z})
	}
	faces := make([]int, n)
	for i := range faces {
		f, err := m.AddFace(-1, []int{bottom[i], bottom[i+1], top[i+1], top[i]},
			unroll.FaceData{Panel: id.Panel, Strip: id.Strip, Count: i})
		if err != nil {
			t.Fatal(err)
		}
		faces[i] = f
	}
	return faces
}

func cylinderStrip(t testing.TB, n int) *unroll.Mesh {
	m := unroll.NewMesh()
	m.Name = "SOUTH-03"
	addCylinderStrip(t, m, n, 0, unroll.StripID{Panel: "SOUTH", Strip: "3"})
	return m
}

// ringStrip returns a closed ring of n quads around a cylinder.
func ringStrip(t testing.TB, n int) *unroll.Mesh {
	t.Helper()
	m := unroll.NewMesh()
	m.Name = "RING-00"
	bottom := make([]int, n)
	top := make([]int, n)
	for i := range bottom {
		theta := 2 * math.Pi * float64(i) / float64(n)
		x, z := 3*math.Sin(theta), 3*math.Cos(theta)
		bottom[i] = m.AddVertex(-1, r3.Vec{X: x, Z: z})
		top[i] = m.AddVertex(-1, r3.Vec{X: x, Y: 1, Z: z})
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		_, err := m.AddFace(-1, []int{bottom[i], bottom[j], top[j], top[i]},
			unroll.FaceData{Panel: "RING", Strip: "0", Count: i})
		if err != nil {
			t.Fatal(err)
		}
	}
	return m
}

func dist(a, b r3.Vec) float64 { return r3.Norm(r3.Sub(a, b)) }

func vertex(t testing.TB, m *unroll.Mesh, v int) r3.Vec {
	t.Helper()
	p, ok := m.Vertex(v)
	if !ok {
		t.Fatalf("vertex %d not in mesh %q", v, m.Name)
	}
	return p
}

// gridStrip returns a planar strip of unit square quads, one per cell
// given by its lower left grid corner. Faces are untagged.
func gridStrip(t testing.TB, cells ...[2]int) *unroll.Mesh {
	t.Helper()
	m := unroll.NewMesh()
	keys := make(map[[2]int]int)
	v := func(x, y int) int {
		if key, ok := keys[[2]int{x, y}]; ok {
			return key
		}
		key := m.AddVertex(-1, r3.Vec{X: float64(x), Y: float64(y)})
		keys[[2]int{x, y}] = key
		return key
	}
	for _, c := range cells {
		x, y := c[0], c[1]
		if _, err := m.AddFace(-1, []int{v(x, y), v(x+1, y), v(x+1, y+1), v(x, y+1)}, unroll.FaceData{}); err != nil {
			t.Fatal(err)
		}
	}
	return m
}
