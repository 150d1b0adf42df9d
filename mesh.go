package unroll

import (
	"fmt"

	"github.com/soypat/unroll/internal/d3"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/spatial/r3"
)

// FaceData holds the fabrication tags of a face.
type FaceData struct {
	// Panel groups strips of the same shell region, i.e. "SOUTH".
	Panel string
	// Strip identifies the strip within a panel, i.e. "03".
	Strip string
	// Count is the position of the face along its strip.
	Count int
}

type face struct {
	vertices []int
	data     FaceData
}

// Mesh is a half-edge oriented polygon mesh with integer vertex and
// face keys. Every directed half-edge belongs to at most one face.
// The zero value is not usable, use NewMesh.
type Mesh struct {
	// Name labels the mesh, i.e. the strip name of an unrolled pattern.
	Name string

	vertices map[int]r3.Vec
	faces    map[int]*face
	// halfedges maps a directed edge to the face on its left.
	halfedges map[[2]int]int
	// adjacency contains undirected vertex connectivity.
	adjacency  map[int]map[int]struct{}
	nextVertex int
	nextFace   int
}

// NewMesh returns an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{
		vertices:  make(map[int]r3.Vec),
		faces:     make(map[int]*face),
		halfedges: make(map[[2]int]int),
		adjacency: make(map[int]map[int]struct{}),
	}
}

// AddVertex adds or replaces a vertex and returns its key. A negative
// key allocates the next unused key.
func (m *Mesh) AddVertex(key int, p r3.Vec) int {
	if key < 0 {
		key = m.nextVertex
	}
	if key >= m.nextVertex {
		m.nextVertex = key + 1
	}
	m.vertices[key] = p
	if m.adjacency[key] == nil {
		m.adjacency[key] = make(map[int]struct{})
	}
	return key
}

// AddFace adds a face with the given boundary cycle and returns its key.
// A negative key allocates the next unused key.
func (m *Mesh) AddFace(key int, vertices []int, data FaceData) (int, error) {
	if len(vertices) < 3 {
		return -1, fmt.Errorf("face needs at least 3 vertices, got %d", len(vertices))
	}
	if key < 0 {
		key = m.nextFace
	}
	if _, ok := m.faces[key]; ok {
		return -1, fmt.Errorf("face %d already exists", key)
	}
	seen := make(map[int]struct{}, len(vertices))
	for i, v := range vertices {
		if _, ok := m.vertices[v]; !ok {
			return -1, fmt.Errorf("face %d references unknown vertex %d", key, v)
		}
		if _, ok := seen[v]; ok {
			return -1, fmt.Errorf("face %d repeats vertex %d", key, v)
		}
		seen[v] = struct{}{}
		u, w := v, vertices[(i+1)%len(vertices)]
		if other, ok := m.halfedges[[2]int{u, w}]; ok {
			return -1, fmt.Errorf("face %d: half-edge (%d,%d) already belongs to face %d", key, u, w, other)
		}
	}
	f := &face{vertices: append([]int(nil), vertices...), data: data}
	m.faces[key] = f
	m.link(key, f)
	if key >= m.nextFace {
		m.nextFace = key + 1
	}
	return key, nil
}

func (m *Mesh) link(key int, f *face) {
	n := len(f.vertices)
	for i, u := range f.vertices {
		v := f.vertices[(i+1)%n]
		m.halfedges[[2]int{u, v}] = key
		m.adjacency[u][v] = struct{}{}
		m.adjacency[v][u] = struct{}{}
	}
}

// unlink removes the half-edges of f and the undirected edges no other
// face uses.
func (m *Mesh) unlink(f *face) {
	n := len(f.vertices)
	for i, u := range f.vertices {
		v := f.vertices[(i+1)%n]
		delete(m.halfedges, [2]int{u, v})
		if _, twin := m.halfedges[[2]int{v, u}]; !twin {
			delete(m.adjacency[u], v)
			delete(m.adjacency[v], u)
		}
	}
}

// NumVertices returns the amount of vertices in the mesh.
func (m *Mesh) NumVertices() int { return len(m.vertices) }

// NumFaces returns the amount of faces in the mesh.
func (m *Mesh) NumFaces() int { return len(m.faces) }

// Vertex returns the coordinates of vertex key.
func (m *Mesh) Vertex(key int) (r3.Vec, bool) {
	p, ok := m.vertices[key]
	return p, ok
}

// SetVertex moves an existing vertex.
func (m *Mesh) SetVertex(key int, p r3.Vec) error {
	if _, ok := m.vertices[key]; !ok {
		return fmt.Errorf("vertex %d not found", key)
	}
	m.vertices[key] = p
	return nil
}

func (m *Mesh) pos(key int) r3.Vec {
	p, ok := m.vertices[key]
	if !ok {
		panic(fmt.Sprintf("vertex %d not in mesh", key))
	}
	return p
}

// VertexKeys returns all vertex keys in ascending order.
func (m *Mesh) VertexKeys() []int {
	keys := maps.Keys(m.vertices)
	slices.Sort(keys)
	return keys
}

// FaceKeys returns all face keys in ascending order.
func (m *Mesh) FaceKeys() []int {
	keys := maps.Keys(m.faces)
	slices.Sort(keys)
	return keys
}

// HasFace reports whether face key exists.
func (m *Mesh) HasFace(key int) bool {
	_, ok := m.faces[key]
	return ok
}

// FaceVertices returns a copy of the boundary cycle of face f.
func (m *Mesh) FaceVertices(f int) []int {
	fc, ok := m.faces[f]
	if !ok {
		return nil
	}
	return append([]int(nil), fc.vertices...)
}

// FaceData returns the fabrication tags of face f.
func (m *Mesh) FaceData(f int) FaceData {
	fc, ok := m.faces[f]
	if !ok {
		return FaceData{}
	}
	return fc.data
}

// SetFaceData replaces the fabrication tags of face f.
func (m *Mesh) SetFaceData(f int, data FaceData) error {
	fc, ok := m.faces[f]
	if !ok {
		return fmt.Errorf("face %d not found", f)
	}
	fc.data = data
	return nil
}

// FacesWhere returns the keys of faces whose data satisfies pred in
// ascending key order.
func (m *Mesh) FacesWhere(pred func(FaceData) bool) []int {
	var keys []int
	for _, f := range m.FaceKeys() {
		if pred(m.faces[f].data) {
			keys = append(keys, f)
		}
	}
	return keys
}

// FaceHalfedges returns the directed edges of face f following its cycle.
func (m *Mesh) FaceHalfedges(f int) [][2]int {
	fc, ok := m.faces[f]
	if !ok {
		return nil
	}
	n := len(fc.vertices)
	edges := make([][2]int, n)
	for i, u := range fc.vertices {
		edges[i] = [2]int{u, fc.vertices[(i+1)%n]}
	}
	return edges
}

// HalfedgeFace returns the face owning the directed edge (u,v). The
// second return value is false on the boundary or if the edge does not exist.
func (m *Mesh) HalfedgeFace(u, v int) (int, bool) {
	f, ok := m.halfedges[[2]int{u, v}]
	return f, ok
}

// FaceNeighbors returns the faces sharing an edge with f in ascending order.
func (m *Mesh) FaceNeighbors(f int) []int {
	var nbrs []int
	for _, e := range m.FaceHalfedges(f) {
		if nbr, ok := m.halfedges[[2]int{e[1], e[0]}]; ok && !slices.Contains(nbrs, nbr) {
			nbrs = append(nbrs, nbr)
		}
	}
	slices.Sort(nbrs)
	return nbrs
}

// VertexNeighbors returns the vertices connected to v by an edge in ascending order.
func (m *Mesh) VertexNeighbors(v int) []int {
	nbrs := maps.Keys(m.adjacency[v])
	slices.Sort(nbrs)
	return nbrs
}

// VertexDegree returns the amount of edges incident to v.
func (m *Mesh) VertexDegree(v int) int { return len(m.adjacency[v]) }

// VertexFaces returns the faces incident to v in ascending order.
func (m *Mesh) VertexFaces(v int) []int {
	var faces []int
	for w := range m.adjacency[v] {
		if f, ok := m.halfedges[[2]int{v, w}]; ok {
			faces = append(faces, f)
		}
	}
	slices.Sort(faces)
	return faces
}

// FaceVertexDescendant returns the vertex following v in the cycle of f.
func (m *Mesh) FaceVertexDescendant(f, v int) (int, error) {
	return m.faceVertexOffset(f, v, 1)
}

// FaceVertexAncestor returns the vertex preceding v in the cycle of f.
func (m *Mesh) FaceVertexAncestor(f, v int) (int, error) {
	return m.faceVertexOffset(f, v, -1)
}

func (m *Mesh) faceVertexOffset(f, v, off int) (int, error) {
	fc, ok := m.faces[f]
	if !ok {
		return -1, fmt.Errorf("face %d not found", f)
	}
	i := slices.Index(fc.vertices, v)
	if i < 0 {
		return -1, fmt.Errorf("vertex %d not on face %d", v, f)
	}
	n := len(fc.vertices)
	return fc.vertices[(i+off+n)%n], nil
}

// FacePoints returns the coordinates of the cycle of f.
func (m *Mesh) FacePoints(f int) d3.Set {
	fc, ok := m.faces[f]
	if !ok {
		return nil
	}
	pts := make(d3.Set, len(fc.vertices))
	for i, v := range fc.vertices {
		pts[i] = m.pos(v)
	}
	return pts
}

// FaceCentroid returns the mean of the vertices of f.
func (m *Mesh) FaceCentroid(f int) r3.Vec {
	return m.FacePoints(f).Centroid()
}

// faceNewell returns the Newell normal of f whose length is twice the
// area of the face for planar faces.
func (m *Mesh) faceNewell(f int) r3.Vec {
	pts := m.FacePoints(f)
	c := pts.Centroid()
	var n r3.Vec
	for i := range pts {
		a := r3.Sub(pts[i], c)
		b := r3.Sub(pts[(i+1)%len(pts)], c)
		n = r3.Add(n, r3.Cross(a, b))
	}
	return n
}

// FaceNormal returns the unit normal of f following the right hand rule
// over its cycle. Degenerate faces return the zero vector.
func (m *Mesh) FaceNormal(f int) r3.Vec {
	n := m.faceNewell(f)
	if r3.Norm(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

// FaceArea returns the area of the projection of f onto its normal plane.
func (m *Mesh) FaceArea(f int) float64 {
	return r3.Norm(m.faceNewell(f)) / 2
}

// VertexNormal returns the normalized mean of the unit normals of the
// faces around v. Vertices without faces return the zero vector.
func (m *Mesh) VertexNormal(v int) r3.Vec {
	var sum r3.Vec
	for _, f := range m.VertexFaces(v) {
		sum = r3.Add(sum, m.FaceNormal(f))
	}
	if r3.Norm(sum) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(sum)
}

// Bounds returns the bounding box of all vertices.
func (m *Mesh) Bounds() d3.Box {
	bb := d3.EmptyBox()
	for _, p := range m.vertices {
		bb = bb.Include(p)
	}
	return bb
}

// BoundaryLoops returns the ordered vertex cycles formed by half-edges
// that have a face on one side only. Loops follow the orientation of
// their faces and start at their lowest boundary edge.
func (m *Mesh) BoundaryLoops() [][]int {
	next := make(map[int][]int)
	for e := range m.halfedges {
		if _, twin := m.halfedges[[2]int{e[1], e[0]}]; !twin {
			next[e[0]] = append(next[e[0]], e[1])
		}
	}
	starts := maps.Keys(next)
	slices.Sort(starts)
	for _, vs := range next {
		slices.Sort(vs)
	}
	used := make(map[[2]int]bool)
	var loops [][]int
	for _, s := range starts {
		for _, first := range next[s] {
			if used[[2]int{s, first}] {
				continue
			}
			loop := []int{s}
			u, v := s, first
			for !used[[2]int{u, v}] {
				used[[2]int{u, v}] = true
				if v == s {
					break
				}
				loop = append(loop, v)
				u = v
				v = -1
				for _, w := range next[u] {
					if !used[[2]int{u, w}] {
						v = w
						break
					}
				}
				if v < 0 {
					break
				}
			}
			loops = append(loops, loop)
		}
	}
	return loops
}

// Copy returns a deep copy of the mesh.
func (m *Mesh) Copy() *Mesh {
	c := &Mesh{
		Name:       m.Name,
		vertices:   maps.Clone(m.vertices),
		faces:      make(map[int]*face, len(m.faces)),
		halfedges:  maps.Clone(m.halfedges),
		adjacency:  make(map[int]map[int]struct{}, len(m.adjacency)),
		nextVertex: m.nextVertex,
		nextFace:   m.nextFace,
	}
	for k, f := range m.faces {
		c.faces[k] = &face{vertices: append([]int(nil), f.vertices...), data: f.data}
	}
	for k, a := range m.adjacency {
		c.adjacency[k] = maps.Clone(a)
	}
	return c
}

// SubMesh returns a new mesh holding the given faces and their vertices
// with the same keys, coordinates and face data.
func (m *Mesh) SubMesh(faces []int) (*Mesh, error) {
	sub := NewMesh()
	sub.Name = m.Name
	for _, f := range faces {
		fc, ok := m.faces[f]
		if !ok {
			return nil, fmt.Errorf("face %d not found", f)
		}
		for _, v := range fc.vertices {
			if _, ok := sub.vertices[v]; !ok {
				sub.AddVertex(v, m.vertices[v])
			}
		}
		if _, err := sub.AddFace(f, fc.vertices, fc.data); err != nil {
			return nil, err
		}
	}
	return sub, nil
}

// FlipCycles reverses the cycle of every face, flipping all normals.
func (m *Mesh) FlipCycles() {
	m.halfedges = make(map[[2]int]int, len(m.halfedges))
	for key, f := range m.faces {
		for i, j := 0, len(f.vertices)-1; i < j; i, j = i+1, j-1 {
			f.vertices[i], f.vertices[j] = f.vertices[j], f.vertices[i]
		}
		m.link(key, f)
	}
}
