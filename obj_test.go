package unroll_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/unroll"
	"gonum.org/v1/gonum/spatial/r3"
)

const stripOBJ = `# two strips
o shell
v 0 0 0
v 1 0 0
v 2 0 0
v 0 1 0
v 1 1 0
v 2 1 0
v 0 2 0.5
v 1 2 0.5
g SOUTH-00
f 1 2 5 4
f 2/1 3/2 6/3 5/4
g SOUTH-01
f 4 5 -1 -2
`

func TestReadOBJ(t *testing.T) {
	m, err := unroll.ReadOBJ(strings.NewReader(stripOBJ))
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "shell" || m.NumVertices() != 8 || m.NumFaces() != 3 {
		t.Fatalf("mesh %q with %d vertices and %d faces", m.Name, m.NumVertices(), m.NumFaces())
	}
	want := []unroll.FaceData{
		{Panel: "SOUTH", Strip: "00", Count: 0},
		{Panel: "SOUTH", Strip: "00", Count: 1},
		{Panel: "SOUTH", Strip: "01", Count: 0},
	}
	var got []unroll.FaceData
	for _, f := range m.FaceKeys() {
		got = append(got, m.FaceData(f))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("face data mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3, 4, 7, 6}, m.FaceVertices(2)); diff != "" {
		t.Errorf("relative indices mismatch (-want +got):\n%s", diff)
	}
	if p := vertex(t, m, 7); p != (r3.Vec{X: 1, Y: 2, Z: 0.5}) {
		t.Errorf("vertex 7 at %v", p)
	}
}

func TestOBJRoundTrip(t *testing.T) {
	m, err := unroll.ReadOBJ(strings.NewReader(stripOBJ))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := unroll.WriteOBJ(&buf, m); err != nil {
		t.Fatal(err)
	}
	back, err := unroll.ReadOBJ(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(m.Strips(), back.Strips()); diff != "" {
		t.Errorf("strips mismatch (-want +got):\n%s", diff)
	}
	for _, f := range m.FaceKeys() {
		if diff := cmp.Diff(m.FaceVertices(f), back.FaceVertices(f)); diff != "" {
			t.Errorf("face %d mismatch (-want +got):\n%s", f, diff)
		}
	}
}

func TestReadOBJErrors(t *testing.T) {
	for _, src := range []string{
		"v 0 0\n",
		"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
		"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 x\n",
		"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n",
	} {
		if _, err := unroll.ReadOBJ(strings.NewReader(src)); err == nil {
			t.Errorf("expected error reading %q", src)
		}
	}
}

func TestFromTriangles(t *testing.T) {
	tris := []r3.Triangle{
		{{}, {X: 1}, {X: 1, Y: 1}},
		{{}, {X: 1, Y: 1 + 1e-9}, {Y: 1}},
		// Collapses onto a single vertex after welding.
		{{X: 5}, {X: 5, Y: 1e-9}, {X: 5, Z: 1e-9}},
	}
	m, err := unroll.FromTriangles(tris, 1e-6)
	if err != nil {
		t.Fatal(err)
	}
	if m.NumVertices() != 5 || m.NumFaces() != 2 {
		t.Fatalf("got %d vertices and %d faces, want 5 and 2", m.NumVertices(), m.NumFaces())
	}
	if diff := cmp.Diff([]int{1}, m.FaceNeighbors(0)); diff != "" {
		t.Errorf("welded faces not adjacent (-want +got):\n%s", diff)
	}
	if _, err := unroll.FromTriangles(tris[:1], 10); err == nil {
		t.Error("expected error for tolerance larger than the model")
	}
}
