package unroll_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/unroll"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestUnrollIsometry(t *testing.T) {
	strip := cylinderStrip(t, 8)
	src := strip.Copy()
	res, err := unroll.Unroll(strip, unroll.Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range res.Flat.FaceKeys() {
		for _, e := range res.Flat.FaceHalfedges(f) {
			want := dist(vertex(t, src, e[0]), vertex(t, src, e[1]))
			got := dist(vertex(t, res.Flat, e[0]), vertex(t, res.Flat, e[1]))
			if math.Abs(got-want) > 1e-9*want {
				t.Errorf("triangle %d edge %v: flattened length %g, want %g", f, e, got, want)
			}
		}
	}
	// The strip itself carries the flattened quads after Apply.
	if d := unroll.Distortion(src, strip); d > 1e-9 {
		t.Errorf("strip distortion %g", d)
	}
}

func TestUnrollSingleAssignment(t *testing.T) {
	strip := cylinderStrip(t, 6)
	res, err := unroll.Unroll(strip, unroll.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Writes) != res.Flat.NumVertices() {
		t.Fatalf("%d vertices written, want %d", len(res.Writes), res.Flat.NumVertices())
	}
	for v, n := range res.Writes {
		if n != 1 {
			t.Errorf("vertex %d written %d times", v, n)
		}
	}
	if len(res.Steps) != res.Flat.NumFaces() {
		t.Errorf("walk visited %d faces, want %d", len(res.Steps), res.Flat.NumFaces())
	}
}

func TestUnrollRootUniqueness(t *testing.T) {
	var first *unroll.Result
	for i := 0; i < 10; i++ {
		strip := cylinderStrip(t, 5)
		res, err := unroll.Unroll(strip, unroll.Options{})
		if err != nil {
			t.Fatal(err)
		}
		if first == nil {
			first = res
			continue
		}
		if res.Root != first.Root || res.Corner != first.Corner || res.Next != first.Next {
			t.Fatalf("run %d picked root %d corner %d, first run root %d corner %d",
				i, res.Root, res.Corner, first.Root, first.Corner)
		}
	}
	if first.RootFace != 0 {
		t.Errorf("root face %d, want the face with count 0", first.RootFace)
	}
	// Vertices 0 and 1 are the free corners of face 0.
	if first.Corner != 0 && first.Corner != 1 {
		t.Errorf("corner %d is not a corner of the strip end", first.Corner)
	}
}

func TestUnrollPlanar(t *testing.T) {
	strip := cylinderStrip(t, 7)
	if _, err := unroll.Unroll(strip, unroll.Options{}); err != nil {
		t.Fatal(err)
	}
	for _, v := range strip.VertexKeys() {
		if z := vertex(t, strip, v).Z; math.Abs(z) > 1e-9 {
			t.Errorf("vertex %d off plane: z=%g", v, z)
		}
	}
	for _, f := range strip.FaceKeys() {
		if n := strip.FaceNormal(f); n.Z < 1-1e-9 {
			t.Errorf("face %d mirrored or tilted: normal %v", f, n)
		}
	}
}

func TestUnrollSingleFace(t *testing.T) {
	// Planar quad on a tilted plane.
	e1 := r3.Unit(r3.Vec{X: 1, Z: 1})
	e2 := r3.Vec{Y: 1}
	origin := r3.Vec{X: 1, Y: 2, Z: 3}
	flat2 := [][2]float64{{0, 0}, {3, 0}, {3.5, 2}, {0.5, 1.5}}
	strip := unroll.NewMesh()
	var verts []int
	for _, p := range flat2 {
		verts = append(verts, strip.AddVertex(-1, r3.Add(origin, r3.Add(r3.Scale(p[0], e1), r3.Scale(p[1], e2)))))
	}
	if _, err := strip.AddFace(-1, verts, unroll.FaceData{Panel: "P", Strip: "1"}); err != nil {
		t.Fatal(err)
	}
	src := strip.Copy()
	res, err := unroll.Unroll(strip, unroll.Options{})
	if err != nil {
		t.Fatal(err)
	}
	for i := range verts {
		for j := i + 1; j < len(verts); j++ {
			want := dist(vertex(t, src, verts[i]), vertex(t, src, verts[j]))
			got := dist(vertex(t, strip, verts[i]), vertex(t, strip, verts[j]))
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("distance %d-%d: got %g, want %g", i, j, got, want)
			}
		}
	}
	if c := vertex(t, strip, res.Corner); r3.Norm(c) > 1e-12 {
		t.Errorf("corner %d at %v, want origin", res.Corner, c)
	}
	next := vertex(t, strip, res.Next)
	if math.Abs(next.Y) > 1e-12 || math.Abs(next.Z) > 1e-12 || next.X <= 0 {
		t.Errorf("root edge end %d at %v, want on +X axis", res.Next, next)
	}
	if n := strip.FaceNormal(0); n.Z < 1-1e-12 {
		t.Errorf("flattened quad is mirrored: normal %v", n)
	}
}

func TestUnrollSingleTriangle(t *testing.T) {
	strip := unroll.NewMesh()
	a := strip.AddVertex(-1, r3.Vec{X: 1, Y: 1, Z: 1})
	b := strip.AddVertex(-1, r3.Vec{X: 1, Y: 3, Z: 2})
	c := strip.AddVertex(-1, r3.Vec{X: 0, Y: 2, Z: 4})
	if _, err := strip.AddFace(-1, []int{a, b, c}, unroll.FaceData{}); err != nil {
		t.Fatal(err)
	}
	res, err := unroll.Unroll(strip, unroll.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Corner != a || res.Next != b {
		t.Fatalf("root edge (%d,%d), want (%d,%d)", res.Corner, res.Next, a, b)
	}
	want := math.Sqrt(5)
	if got := vertex(t, strip, b); math.Abs(got.X-want) > 1e-12 || math.Abs(got.Y) > 1e-12 {
		t.Errorf("second vertex at %v, want (%g,0,0)", got, want)
	}
}

func TestUnrollDisconnected(t *testing.T) {
	id := unroll.StripID{Panel: "WEST", Strip: "1"}
	m := unroll.NewMesh()
	addCylinderStrip(t, m, 3, 0, id)
	second := addCylinderStrip(t, m, 3, 10, id)
	strip, err := m.Strip(id)
	if err != nil {
		t.Fatal(err)
	}
	before := strip.Copy()
	_, err = unroll.Unroll(strip, unroll.Options{})
	if !errors.Is(err, unroll.ErrDisconnected) {
		t.Fatalf("got error %v, want %v", err, unroll.ErrDisconnected)
	}
	var serr *unroll.StructureError
	if !errors.As(err, &serr) {
		t.Fatalf("error %v carries no faces", err)
	}
	if diff := cmp.Diff(second, serr.Faces); diff != "" {
		t.Errorf("unreached faces mismatch (-want +got):\n%s", diff)
	}
	for _, v := range before.VertexKeys() {
		if vertex(t, strip, v) != vertex(t, before, v) {
			t.Fatalf("vertex %d modified by failed unroll", v)
		}
	}
}

func TestUnrollStructureErrors(t *testing.T) {
	branch := cylinderStrip(t, 3)
	// Glue a fourth face onto the side of the middle quad.
	p2, p4 := vertex(t, branch, 2), vertex(t, branch, 4)
	v0 := branch.AddVertex(-1, r3.Add(p2, r3.Vec{Y: -1}))
	v1 := branch.AddVertex(-1, r3.Add(p4, r3.Vec{Y: -1}))
	if _, err := branch.AddFace(-1, []int{2, v0, v1, 4}, unroll.FaceData{Panel: "SOUTH", Strip: "3", Count: 3}); err != nil {
		t.Fatal(err)
	}

	// Last quad collapsed onto its left edge.
	sliver := gridStrip(t, [2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0})
	for _, f := range [][2]int{{1, 0}, {2, 3}} {
		left := sliver.FaceVertices(2)[f[1]]
		right := sliver.FaceVertices(2)[f[0]]
		if err := sliver.SetVertex(right, vertex(t, sliver, left)); err != nil {
			t.Fatal(err)
		}
	}

	// Spiral around a missing cell whose far end touches the free
	// corner of the first quad, which then has no vertex of degree two.
	touching := gridStrip(t, [2]int{0, 0}, [2]int{1, 0}, [2]int{1, 1}, [2]int{1, 2},
		[2]int{0, 2}, [2]int{-1, 2}, [2]int{-1, 1})

	for _, test := range []struct {
		name  string
		mesh  *unroll.Mesh
		want  error
		faces []int
	}{
		{name: "branching", mesh: branch, want: unroll.ErrBranching},
		{name: "ring", mesh: ringStrip(t, 8), want: unroll.ErrRing},
		{name: "empty", mesh: unroll.NewMesh(), want: unroll.ErrEmptyStrip},
		{name: "collapsed face", mesh: sliver, want: unroll.ErrDegenerateFrame, faces: []int{2}},
		{name: "no corner", mesh: touching, want: unroll.ErrNoCorner, faces: []int{0}},
	} {
		before := test.mesh.Copy()
		_, err := unroll.Unroll(test.mesh, unroll.Options{})
		if !errors.Is(err, test.want) {
			t.Errorf("%s: got error %v, want %v", test.name, err, test.want)
			continue
		}
		if strings.HasPrefix(err.Error(), "unroll :") {
			t.Errorf("%s: empty strip name in error %q", test.name, err)
		}
		if test.faces != nil {
			var serr *unroll.StructureError
			if !errors.As(err, &serr) {
				t.Errorf("%s: error %v carries no faces", test.name, err)
			} else if diff := cmp.Diff(test.faces, serr.Faces); diff != "" {
				t.Errorf("%s: faces mismatch (-want +got):\n%s", test.name, diff)
			}
		}
		for _, v := range before.VertexKeys() {
			if vertex(t, test.mesh, v) != vertex(t, before, v) {
				t.Errorf("%s: vertex %d modified by failed unroll", test.name, v)
				break
			}
		}
	}
}

// stretch is an orienter that passes the frame check but scales the
// pattern by 1+1e-10.
type stretch struct{}

func (stretch) Orient(points []r3.Vec) (unroll.Frame, error) {
	const k = 1 + 1e-10
	return unroll.Frame{X: r3.Vec{X: k}, Y: r3.Vec{Y: k}}, nil
}

func TestUnrollDistortion(t *testing.T) {
	strip := cylinderStrip(t, 4)
	before := strip.Copy()
	_, err := unroll.Unroll(strip, unroll.Options{Orient: stretch{}, Tol: 1e-12})
	if !errors.Is(err, unroll.ErrDistortion) {
		t.Fatalf("got error %v, want %v", err, unroll.ErrDistortion)
	}
	for _, v := range before.VertexKeys() {
		if vertex(t, strip, v) != vertex(t, before, v) {
			t.Fatalf("vertex %d modified by failed unroll", v)
		}
	}
	// The default tolerance accepts the same drift and a negative one
	// disables the check.
	for _, tol := range []float64{0, -1} {
		if _, err := unroll.Unroll(before.Copy(), unroll.Options{Orient: stretch{}, Tol: tol}); err != nil {
			t.Errorf("tol %g: %v", tol, err)
		}
	}
}

func TestUnrollBentChainRoot(t *testing.T) {
	// L shaped chain whose bend quad has the lowest key. The bend is
	// split along the diagonal leaving one of its triangles touching
	// only its sibling.
	m := unroll.NewMesh()
	v := make(map[[2]int]int)
	for _, p := range [][2]int{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}, {0, 2}, {1, 2}} {
		v[p] = m.AddVertex(-1, r3.Vec{X: float64(p[0]), Y: float64(p[1])})
	}
	for _, cycle := range [][][2]int{
		{{1, 0}, {1, 1}, {0, 1}, {0, 0}}, // bend
		{{1, 0}, {2, 0}, {2, 1}, {1, 1}},
		{{0, 1}, {1, 1}, {1, 2}, {0, 2}},
	} {
		var keys []int
		for _, p := range cycle {
			keys = append(keys, v[p])
		}
		if _, err := m.AddFace(-1, keys, unroll.FaceData{}); err != nil {
			t.Fatal(err)
		}
	}
	src := m.Copy()
	res, err := unroll.Unroll(m, unroll.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.RootFace != 1 {
		t.Errorf("root face %d, want end face 1", res.RootFace)
	}
	if n := len(m.FaceNeighbors(res.RootFace)); n != 1 {
		t.Errorf("root face has %d neighbours, want 1", n)
	}
	if res.Corner != v[[2]int{2, 0}] {
		t.Errorf("corner %d, want free corner %d", res.Corner, v[[2]int{2, 0}])
	}
	if d := unroll.Distortion(src, m); d > 1e-9 {
		t.Errorf("distortion %g", d)
	}
}

func TestUnrollRingEdge(t *testing.T) {
	ring := ringStrip(t, 8)
	// Starting on an unsplit ring walks around and meets itself.
	_, err := unroll.Unroll(ring.Copy(), unroll.Options{Edge: &[2]int{1, 0}})
	if !errors.Is(err, unroll.ErrConflict) {
		t.Fatalf("unsplit ring: got %v, want %v", err, unroll.ErrConflict)
	}
	faces := ring.StripFaces(unroll.StripID{Panel: "RING", Strip: "0"})
	if _, _, err := unroll.SplitRing(ring, faces[0], faces[len(faces)-1]); err != nil {
		t.Fatal(err)
	}
	src := ring.Copy()
	res, err := unroll.Unroll(ring, unroll.Options{Edge: &[2]int{1, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if res.RootFace != faces[0] {
		t.Errorf("root face %d, want %d", res.RootFace, faces[0])
	}
	if d := unroll.Distortion(src, ring); d > 1e-9 {
		t.Errorf("ring distortion %g", d)
	}
}

func TestUnrollerStates(t *testing.T) {
	strip := cylinderStrip(t, 2)
	u, err := unroll.NewUnroller(strip, unroll.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if u.State() != unroll.StateInit {
		t.Fatalf("new session in state %v", u.State())
	}
	if err := u.Flatten(); !errors.Is(err, unroll.ErrState) {
		t.Errorf("Flatten before root selection: got %v, want %v", err, unroll.ErrState)
	}
	if err := u.Apply(); !errors.Is(err, unroll.ErrState) {
		t.Errorf("Apply before flattening: got %v, want %v", err, unroll.ErrState)
	}
	if u.Result() != nil {
		t.Error("result available before flattening")
	}
	if err := u.SelectRoot(); err != nil {
		t.Fatal(err)
	}
	if u.State() != unroll.StateRootSelected {
		t.Fatalf("got state %v after SelectRoot", u.State())
	}
	if err := u.Flatten(); err != nil {
		t.Fatal(err)
	}
	if u.State() != unroll.StateDone {
		t.Fatalf("got state %v after Flatten", u.State())
	}
	before := vertex(t, strip, 3)
	if err := u.Apply(); err != nil {
		t.Fatal(err)
	}
	if vertex(t, strip, 3) == before {
		t.Error("Apply did not move strip vertices")
	}

	bad, err := unroll.NewUnroller(ringStrip(t, 6), unroll.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := bad.SelectRoot(); err == nil {
		t.Fatal("expected error selecting root of a ring")
	}
	if bad.State() != unroll.StateFailed {
		t.Errorf("got state %v after failure, want %v", bad.State(), unroll.StateFailed)
	}
}

// rotate orients patterns rotated a quarter turn about the origin.
type rotate struct{ calls int }

func (r *rotate) Orient(points []r3.Vec) (unroll.Frame, error) {
	r.calls++
	return unroll.NewFrame(r3.Vec{}, r3.Vec{Y: 1}, r3.Vec{X: -1})
}

type mirror struct{}

func (mirror) Orient(points []r3.Vec) (unroll.Frame, error) {
	return unroll.NewFrame(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: -1})
}

func TestUnrollOrient(t *testing.T) {
	plain := cylinderStrip(t, 3)
	if _, err := unroll.Unroll(plain, unroll.Options{}); err != nil {
		t.Fatal(err)
	}
	o := &rotate{}
	strip := cylinderStrip(t, 3)
	if _, err := unroll.Unroll(strip, unroll.Options{Orient: o}); err != nil {
		t.Fatal(err)
	}
	if o.calls != 1 {
		t.Fatalf("orienter called %d times", o.calls)
	}
	for _, v := range strip.VertexKeys() {
		p, q := vertex(t, plain, v), vertex(t, strip, v)
		// Local coordinates in a frame with X along +Y.
		want := r3.Vec{X: p.Y, Y: -p.X}
		if r3.Norm(r3.Sub(q, want)) > 1e-9 {
			t.Errorf("vertex %d at %v, want %v", v, q, want)
		}
	}
	if _, err := unroll.Unroll(cylinderStrip(t, 3), unroll.Options{Orient: mirror{}}); !errors.Is(err, unroll.ErrDegenerateFrame) {
		t.Errorf("mirroring orienter: got %v, want %v", err, unroll.ErrDegenerateFrame)
	}
}

func TestPrincipalAxes(t *testing.T) {
	var pts []r3.Vec
	for i := 0; i < 10; i++ {
		f := float64(i)
		pts = append(pts, r3.Vec{X: f, Y: f}, r3.Vec{X: f + 0.1, Y: f - 0.1})
	}
	frame, err := unroll.PrincipalAxes{}.Orient(pts)
	if err != nil {
		t.Fatal(err)
	}
	want := r3.Unit(r3.Vec{X: 1, Y: 1})
	if r3.Norm(r3.Sub(frame.X, want)) > 1e-6 {
		t.Errorf("principal axis %v, want %v", frame.X, want)
	}
	if frame.Z().Z < 1-1e-9 {
		t.Errorf("frame normal %v, want +Z", frame.Z())
	}
	if _, err := (unroll.PrincipalAxes{}).Orient(pts[:1]); err == nil {
		t.Error("expected error orienting a single point")
	}
}
