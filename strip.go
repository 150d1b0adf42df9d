package unroll

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/slices"
)

// StripID identifies a fabrication strip by its panel and strip tags.
type StripID struct {
	Panel string
	Strip string
}

// Name returns the fabrication name of the strip, PANEL-SS, with the
// strip tag left padded with zeros to two characters.
func (id StripID) Name() string {
	s := id.Strip
	if len(s) < 2 {
		s = strings.Repeat("0", 2-len(s)) + s
	}
	return id.Panel + "-" + s
}

// ParseStripID parses a name returned by StripID.Name. Names without a
// dash are taken as a panel with an empty strip tag.
func ParseStripID(name string) StripID {
	i := strings.LastIndexByte(name, '-')
	if i < 0 {
		return StripID{Panel: name}
	}
	return StripID{Panel: name[:i], Strip: name[i+1:]}
}

func (id StripID) match(d FaceData) bool {
	return d.Panel == id.Panel && d.Strip == id.Strip
}

// Strips returns the distinct strip tags of the mesh sorted by panel and
// strip. Untagged faces are ignored.
func (m *Mesh) Strips() []StripID {
	seen := make(map[StripID]bool)
	var ids []StripID
	for _, f := range m.faces {
		id := StripID{Panel: f.data.Panel, Strip: f.data.Strip}
		if id == (StripID{}) || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Panel != ids[j].Panel {
			return ids[i].Panel < ids[j].Panel
		}
		return ids[i].Strip < ids[j].Strip
	})
	return ids
}

// StripFaces returns the faces tagged with id sorted by Count and then key.
func (m *Mesh) StripFaces(id StripID) []int {
	faces := m.FacesWhere(id.match)
	sort.SliceStable(faces, func(i, j int) bool {
		return m.faces[faces[i]].data.Count < m.faces[faces[j]].data.Count
	})
	return faces
}

// Strip returns a new mesh with the faces tagged with id and their
// vertices, keeping keys. The mesh is named after the strip.
func (m *Mesh) Strip(id StripID) (*Mesh, error) {
	faces := m.StripFaces(id)
	if len(faces) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyStrip, id.Name())
	}
	sub, err := m.SubMesh(faces)
	if err != nil {
		return nil, err
	}
	sub.Name = id.Name()
	return sub, nil
}

// CheckChain verifies the faces of m form a single open chain: every face
// has at most two neighbours, all faces are connected and the chain is
// not closed on itself.
func CheckChain(m *Mesh) error {
	keys := m.FaceKeys()
	if len(keys) == 0 {
		return ErrEmptyStrip
	}
	return checkChain(m, keys[0], false)
}

// checkChain runs CheckChain with connectivity measured from start.
func checkChain(m *Mesh, start int, allowRing bool) error {
	var branching []int
	ends := 0
	for _, f := range m.FaceKeys() {
		switch n := len(m.FaceNeighbors(f)); {
		case n > 2:
			branching = append(branching, f)
		case n < 2:
			ends++
		}
	}
	if len(branching) > 0 {
		return faceErr(ErrBranching, "faces with more than two neighbours", branching...)
	}
	if _, err := Walk(m, start); err != nil {
		return err
	}
	if ends == 0 && !allowRing {
		return faceErr(ErrRing, fmt.Sprintf("all %d faces have two neighbours", m.NumFaces()))
	}
	return nil
}

// SplitRing opens a closed ring of faces between its last and first face.
// The two vertices of the edge shared by both faces are duplicated and
// the last face is moved onto the duplicates, leaving the first face in
// place. It returns the keys of the new vertices.
func SplitRing(m *Mesh, first, last int) (uu, vv int, err error) {
	lf, ok := m.faces[last]
	if !ok {
		return -1, -1, fmt.Errorf("face %d not found", last)
	}
	if !m.HasFace(first) {
		return -1, -1, fmt.Errorf("face %d not found", first)
	}
	u, v := -1, -1
	for _, e := range m.FaceHalfedges(last) {
		if nbr, ok := m.HalfedgeFace(e[1], e[0]); ok && nbr == first {
			u, v = e[0], e[1]
			break
		}
	}
	if u < 0 {
		return -1, -1, faceErr(ErrDisconnected, "ring ends share no edge", first, last)
	}
	uu = m.AddVertex(-1, m.pos(u))
	vv = m.AddVertex(-1, m.pos(v))
	m.unlink(lf)
	lf.vertices[slices.Index(lf.vertices, u)] = uu
	lf.vertices[slices.Index(lf.vertices, v)] = vv
	m.link(last, lf)
	return uu, vv, nil
}
