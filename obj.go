package unroll

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ReadOBJ reads a Wavefront OBJ polygon mesh. Vertex keys are the zero
// based OBJ vertex indices. Faces in a group named PANEL-SS are tagged
// with that strip and numbered in file order within the group. Texture
// and normal indices are ignored.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	m := NewMesh()
	scanner := bufio.NewScanner(r)
	var (
		line    int
		nverts  int
		group   StripID
		counter = make(map[StripID]int)
	)
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: vertex needs 3 coordinates", line)
			}
			var c [3]float64
			for i := range c {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", line, err)
				}
				c[i] = f
			}
			m.AddVertex(nverts, r3.Vec{X: c[0], Y: c[1], Z: c[2]})
			nverts++
		case "o":
			if len(fields) > 1 {
				m.Name = fields[1]
			}
		case "g":
			group = StripID{}
			if len(fields) > 1 {
				group = ParseStripID(fields[1])
			}
		case "f":
			vs := make([]int, len(fields)-1)
			for i, f := range fields[1:] {
				idx, err := strconv.Atoi(strings.SplitN(f, "/", 2)[0])
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", line, err)
				}
				switch {
				case idx > 0:
					idx--
				case idx < 0:
					idx += nverts
				default:
					return nil, fmt.Errorf("obj line %d: index 0 face found, should start with 1", line)
				}
				vs[i] = idx
			}
			data := FaceData{Panel: group.Panel, Strip: group.Strip}
			if group != (StripID{}) {
				data.Count = counter[group]
				counter[group]++
			}
			if _, err := m.AddFace(-1, vs, data); err != nil {
				return nil, fmt.Errorf("obj line %d: %w", line, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// WriteOBJ writes m as a Wavefront OBJ file. Tagged faces are written in
// groups named after their strip, ordered by Count.
func WriteOBJ(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	if m.Name != "" {
		fmt.Fprintf(bw, "o %s\n", m.Name)
	}
	index := make(map[int]int, m.NumVertices())
	for i, v := range m.VertexKeys() {
		p := m.vertices[v]
		index[v] = i + 1
		fmt.Fprintf(bw, "v %s %s %s\n", fmtFloat(p.X), fmtFloat(p.Y), fmtFloat(p.Z))
	}
	faces := m.FaceKeys()
	sort.SliceStable(faces, func(i, j int) bool {
		a, b := m.faces[faces[i]].data, m.faces[faces[j]].data
		if a.Panel != b.Panel {
			return a.Panel < b.Panel
		}
		if a.Strip != b.Strip {
			return a.Strip < b.Strip
		}
		return a.Count < b.Count
	})
	var group StripID
	for _, f := range faces {
		fc := m.faces[f]
		if id := (StripID{Panel: fc.data.Panel, Strip: fc.data.Strip}); id != group {
			group = id
			fmt.Fprintf(bw, "g %s\n", id.Name())
		}
		bw.WriteString("f")
		for _, v := range fc.vertices {
			fmt.Fprintf(bw, " %d", index[v])
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
