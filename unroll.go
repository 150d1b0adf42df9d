package unroll

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultTol is the relative edge length tolerance used when Options.Tol is zero.
const DefaultTol = 1e-9

// State is the stage of an unroll session.
type State int

const (
	StateInit State = iota
	StateRootSelected
	StateFlattening
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateRootSelected:
		return "ROOT_SELECTED"
	case StateFlattening:
		return "FLATTENING"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Options configures an unroll session.
type Options struct {
	// Edge starts the unroll at the directed edge (u,v) instead of
	// searching the end of the chain. Used for split rings.
	Edge *[2]int
	// Tol is the largest accepted relative difference between a flattened
	// edge and its three dimensional length. Zero uses DefaultTol and a
	// negative value disables the check.
	Tol float64
	// Orient places the finished pattern. Nil leaves the root corner at
	// the origin and the root edge along X.
	Orient Orienter
	// Log receives debug events. The zero value discards them.
	Log zerolog.Logger
}

// Result holds the outcome of a successful unroll.
type Result struct {
	// Root is the triangle the walk started from and RootFace the strip
	// face it belongs to.
	Root, RootFace int
	// Corner is the vertex placed at the origin. Next is the vertex
	// placed on the positive X axis before orientation.
	Corner, Next int
	// Steps is the breadth first discovery order of the triangles.
	Steps []Step
	// Writes counts flattened coordinate writes per vertex.
	Writes map[int]int
	// Flat is the flattened triangulation of the strip.
	Flat *Mesh
	// Source maps triangles of Flat to strip faces.
	Source map[int]int
}

// Unroller flattens a single strip. Sessions move from StateInit through
// StateRootSelected and StateFlattening to StateDone. Any error moves the
// session to StateFailed and leaves the strip untouched.
type Unroller struct {
	strip  *Mesh
	tri    *Mesh
	source map[int]int
	opts   Options
	state  State

	root, corner, next int
	steps              []Step
	flat               map[int]r3.Vec
	writes             map[int]int
	result             *Result
}

// NewUnroller triangulates strip and returns a session in StateInit.
// The strip is only modified by Apply.
func NewUnroller(strip *Mesh, opts Options) (*Unroller, error) {
	if strip == nil || strip.NumFaces() == 0 {
		return nil, ErrEmptyStrip
	}
	tri, source, err := Triangulate(strip)
	if err != nil {
		return nil, err
	}
	return &Unroller{
		strip:  strip,
		tri:    tri,
		source: source,
		opts:   opts,
		state:  StateInit,
		root:   -1,
		corner: -1,
		next:   -1,
	}, nil
}

// State returns the current stage of the session.
func (u *Unroller) State() State { return u.state }

// Triangulation returns the triangulated strip the session walks.
func (u *Unroller) Triangulation() *Mesh { return u.tri }

func (u *Unroller) fail(err error) error {
	u.state = StateFailed
	return err
}

func (u *Unroller) expect(s State) error {
	if u.state != s {
		return fmt.Errorf("%w: %v, want %v", ErrState, u.state, s)
	}
	return nil
}

// SelectRoot picks the start of the walk at an end of the chain. Root
// faces are strip faces with a single neighbour, preferring those with
// the lowest Count in the strip; ties go to the lowest key. The walk
// starts at the triangle of that face touching only its sibling and the
// corner is the only vertex of it with two incident edges. A strip of one
// triangle uses its first vertex.
func (u *Unroller) SelectRoot() error {
	if err := u.expect(StateInit); err != nil {
		return err
	}
	faces := u.strip.FaceKeys()
	minCount := math.MaxInt
	for _, f := range faces {
		if c := u.strip.FaceData(f).Count; c < minCount {
			minCount = c
		}
	}
	var ends, preferred []int
	for _, f := range faces {
		if len(faces) > 1 && len(u.strip.FaceNeighbors(f)) != 1 {
			continue
		}
		ends = append(ends, f)
		if u.strip.FaceData(f).Count == minCount {
			preferred = append(preferred, f)
		}
	}
	if len(preferred) == 0 {
		preferred = ends
	}
	if len(preferred) == 0 {
		if err := CheckChain(u.strip); err != nil {
			return u.fail(err)
		}
		return u.fail(faceErr(ErrNoRoot, "no face at an end of the strip"))
	}
	face := preferred[0]
	keys := u.tri.FaceKeys()
	root := -1
	for _, t := range keys {
		if u.source[t] == face && len(u.tri.FaceNeighbors(t)) <= 1 {
			root = t
			break
		}
	}
	if root < 0 {
		return u.fail(faceErr(ErrNoRoot, "no triangle at the end of the face", face))
	}
	verts := u.tri.FaceVertices(root)
	corner := verts[0]
	if len(keys) > 1 {
		var corners []int
		for _, v := range verts {
			if u.tri.VertexDegree(v) == 2 {
				corners = append(corners, v)
			}
		}
		switch len(corners) {
		case 0:
			return u.fail(&StructureError{Err: ErrNoCorner, Faces: []int{u.source[root]}, Vertices: verts})
		case 1:
			corner = corners[0]
		default:
			return u.fail(&StructureError{Err: ErrAmbiguousCorner, Faces: []int{u.source[root]}, Vertices: corners})
		}
	}
	if err := checkChain(u.strip, u.source[root], false); err != nil {
		return u.fail(err)
	}
	next, err := u.tri.FaceVertexDescendant(root, corner)
	if err != nil {
		return u.fail(err)
	}
	u.root, u.corner, u.next = root, corner, next
	u.state = StateRootSelected
	u.opts.Log.Debug().Str("strip", u.strip.Name).Int("root", root).Int("face", u.source[root]).
		Int("corner", corner).Int("candidates", len(preferred)).Msg("root selected")
	return nil
}

// SelectEdge starts the walk at the triangle owning the directed edge
// (a,b), or (b,a) if (a,b) lies on the boundary. Closed rings are
// accepted here: they fail during Flatten unless split first.
func (u *Unroller) SelectEdge(a, b int) error {
	if err := u.expect(StateInit); err != nil {
		return err
	}
	root, ok := u.tri.HalfedgeFace(a, b)
	if !ok {
		root, ok = u.tri.HalfedgeFace(b, a)
		a, b = b, a
	}
	if !ok {
		return u.fail(vertexErr(ErrNoRoot, "edge not in strip", a, b))
	}
	if err := checkChain(u.strip, u.source[root], true); err != nil {
		return u.fail(err)
	}
	u.root, u.corner, u.next = root, a, b
	u.state = StateRootSelected
	u.opts.Log.Debug().Str("strip", u.strip.Name).Int("root", root).Int("face", u.source[root]).
		Ints("edge", []int{a, b}).Msg("root edge selected")
	return nil
}

// Flatten walks the triangulation from the root and places every vertex
// in the XY plane. The root triangle is mapped so the corner lands on
// the origin with the root edge along X. Every other triangle is rotated
// about the edge it shares with its already flattened parent and only
// its third vertex is written. Writing a vertex twice fails with
// ErrConflict.
func (u *Unroller) Flatten() error {
	if err := u.expect(StateRootSelected); err != nil {
		return err
	}
	u.state = StateFlattening
	u.flat = make(map[int]r3.Vec, u.tri.NumVertices())
	u.writes = make(map[int]int, u.tri.NumVertices())

	steps, err := Walk(u.tri, u.root)
	if err != nil {
		return u.fail(u.sourceErr(err))
	}
	u.steps = steps

	pos := u.tri.pos
	frame, err := EdgeFrame(pos(u.corner), r3.Sub(pos(u.next), pos(u.corner)), u.tri.FaceNormal(u.root), false)
	if err != nil {
		return u.fail(faceErr(err, "root frame", u.source[u.root]))
	}
	T := FrameToFrame(frame, WorldXY)
	for _, v := range u.tri.FaceVertices(u.root) {
		if err := u.write(u.root, v, T.Transform(pos(v))); err != nil {
			return u.fail(err)
		}
	}

	up := r3.Vec{Z: 1}
	for _, s := range steps[1:] {
		// s.Face owns (V,U): both ends are flat already.
		from, err := EdgeFrame(pos(s.V), r3.Sub(pos(s.U), pos(s.V)), u.tri.FaceNormal(s.Face), true)
		if err != nil {
			return u.fail(faceErr(err, fmt.Sprintf("edge (%d,%d)", s.V, s.U), u.source[s.Face]))
		}
		to, err := EdgeFrame(u.flat[s.V], r3.Sub(u.flat[s.U], u.flat[s.V]), up, true)
		if err != nil {
			return u.fail(faceErr(err, fmt.Sprintf("flat edge (%d,%d)", s.V, s.U), u.source[s.Parent]))
		}
		w, err := u.tri.FaceVertexAncestor(s.Face, s.V)
		if err != nil {
			return u.fail(err)
		}
		if err := u.write(s.Face, w, FrameToFrame(from, to).Transform(pos(w))); err != nil {
			return u.fail(err)
		}
	}
	if len(u.flat) != u.tri.NumVertices() {
		var missing []int
		for _, v := range u.tri.VertexKeys() {
			if _, ok := u.flat[v]; !ok {
				missing = append(missing, v)
			}
		}
		return u.fail(vertexErr(ErrDisconnected, "vertices not flattened", missing...))
	}

	flat := u.tri.Copy()
	for v, p := range u.flat {
		flat.vertices[v] = p
	}
	if u.opts.Orient != nil {
		if err := orient(flat, u.opts.Orient); err != nil {
			return u.fail(err)
		}
	}
	tol := u.opts.Tol
	if tol == 0 {
		tol = DefaultTol
	}
	if tol > 0 {
		if d := Distortion(u.tri, flat); d > tol {
			return u.fail(fmt.Errorf("%w: %s relative error %g above %g", ErrDistortion, u.strip.Name, d, tol))
		}
	}
	u.result = &Result{
		Root:     u.root,
		RootFace: u.source[u.root],
		Corner:   u.corner,
		Next:     u.next,
		Steps:    steps,
		Writes:   u.writes,
		Flat:     flat,
		Source:   u.source,
	}
	u.state = StateDone
	u.opts.Log.Debug().Str("strip", u.strip.Name).Int("faces", len(steps)).
		Int("vertices", len(u.flat)).Msg("strip flattened")
	return nil
}

func (u *Unroller) write(f, v int, p r3.Vec) error {
	u.writes[v]++
	if u.writes[v] > 1 {
		return &StructureError{
			Err:      ErrConflict,
			Faces:    []int{u.source[f]},
			Vertices: []int{v},
			Detail:   fmt.Sprintf("already at %v, now %v", u.flat[v], p),
		}
	}
	u.flat[v] = p
	return nil
}

// sourceErr rewrites the triangle keys of a *StructureError as strip face keys.
func (u *Unroller) sourceErr(err error) error {
	var serr *StructureError
	if !errors.As(err, &serr) {
		return err
	}
	var faces []int
	for _, f := range serr.Faces {
		if src, ok := u.source[f]; ok && !slices.Contains(faces, src) {
			faces = append(faces, src)
		}
	}
	slices.Sort(faces)
	return &StructureError{Err: serr.Err, Faces: faces, Vertices: serr.Vertices, Detail: serr.Detail}
}

// Apply writes the flattened coordinates onto the vertices of the strip.
func (u *Unroller) Apply() error {
	if err := u.expect(StateDone); err != nil {
		return err
	}
	for _, v := range u.strip.VertexKeys() {
		p, ok := u.result.Flat.vertices[v]
		if !ok {
			return vertexErr(ErrDisconnected, "strip vertex missing from flattened mesh", v)
		}
		u.strip.vertices[v] = p
	}
	return nil
}

// Result returns the outcome of Flatten or nil before StateDone.
func (u *Unroller) Result() *Result {
	if u.state != StateDone {
		return nil
	}
	return u.result
}

// Unroll flattens strip in place and returns the session result. The
// strip is left untouched on error.
func Unroll(strip *Mesh, opts Options) (*Result, error) {
	u, err := NewUnroller(strip, opts)
	if err != nil {
		return nil, err
	}
	if opts.Edge != nil {
		err = u.SelectEdge(opts.Edge[0], opts.Edge[1])
	} else {
		err = u.SelectRoot()
	}
	if err != nil {
		return nil, unrollErr(strip, err)
	}
	if err = u.Flatten(); err != nil {
		return nil, unrollErr(strip, err)
	}
	if err = u.Apply(); err != nil {
		return nil, err
	}
	return u.Result(), nil
}

func unrollErr(strip *Mesh, err error) error {
	if strip.Name == "" {
		return fmt.Errorf("unroll: %w", err)
	}
	return fmt.Errorf("unroll %s: %w", strip.Name, err)
}

// orient moves the vertices of a flattened mesh so the frame chosen by o
// becomes WorldXY.
func orient(flat *Mesh, o Orienter) error {
	keys := flat.VertexKeys()
	pts := make([]r3.Vec, len(keys))
	for i, v := range keys {
		pts[i] = flat.vertices[v]
	}
	frame, err := o.Orient(pts)
	if err != nil {
		return fmt.Errorf("orient: %w", err)
	}
	if !frame.orthonormal(1e-9) || frame.Z().Z < 1-1e-9 {
		return fmt.Errorf("orient: %w: frame %+v is not an in plane rotation", ErrDegenerateFrame, frame)
	}
	T := FrameToFrame(frame, WorldXY)
	for i, v := range keys {
		flat.vertices[v] = T.Transform(pts[i])
	}
	return nil
}
