package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/soypat/unroll"
	"github.com/soypat/unroll/render"
)

// loadMesh reads an OBJ or STL file. STL files carry no groups so their
// faces become a single strip named after the file.
func loadMesh(path string) (*unroll.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		fp, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer fp.Close()
		m, err := unroll.ReadOBJ(fp)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return m, nil
	case ".stl":
		tris, err := render.ReadSTL(path)
		if err != nil {
			return nil, err
		}
		m, err := unroll.FromTriangles(tris, 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		panel := strings.ToUpper(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		for i, f := range m.FaceKeys() {
			if err := m.SetFaceData(f, unroll.FaceData{Panel: panel, Strip: "0", Count: i}); err != nil {
				return nil, err
			}
		}
		return m, nil
	}
	return nil, fmt.Errorf("unsupported mesh file %s", path)
}
