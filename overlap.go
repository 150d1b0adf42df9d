package unroll

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/soypat/unroll/internal/d2"
	"github.com/soypat/unroll/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
)

// flatTriangle is a triangle of a flattened face stored in the R-tree.
type flatTriangle struct {
	face int
	tri  [3]r2.Vec
	rect *rtreego.Rect
}

func (t *flatTriangle) Bounds() *rtreego.Rect { return t.rect }

// Overlaps returns the pairs of faces of a flattened mesh whose interiors
// overlap in the XY plane by more than tol. Faces are fan triangulated.
// Pairs are ordered by key, lowest key first.
func Overlaps(flat *Mesh, tol float64) ([][2]int, error) {
	var tris []*flatTriangle
	rt := rtreego.NewTree(2, 25, 50)
	for _, f := range flat.FaceKeys() {
		pts := flat.FacePoints(f)
		for i := 1; i+1 < len(pts); i++ {
			t := &flatTriangle{face: f, tri: [3]r2.Vec{d3.ToR2(pts[0]), d3.ToR2(pts[i]), d3.ToR2(pts[i+1])}}
			bb := d2.EmptyBox()
			for _, p := range t.tri {
				bb = bb.Include(p)
			}
			size := bb.Size()
			// rtreego rejects zero length sides.
			rect, err := rtreego.NewRect(rtreego.Point{bb.Min.X, bb.Min.Y},
				[]float64{math.Max(size.X, 1e-12), math.Max(size.Y, 1e-12)})
			if err != nil {
				return nil, err
			}
			t.rect = rect
			rt.Insert(t)
			tris = append(tris, t)
		}
	}
	seen := make(map[[2]int]bool)
	var pairs [][2]int
	for _, t := range tris {
		for _, s := range rt.SearchIntersect(t.rect) {
			o := s.(*flatTriangle)
			if o.face <= t.face {
				continue
			}
			key := [2]int{t.face, o.face}
			if seen[key] || !d2.TrianglesOverlap(t.tri, o.tri, tol) {
				continue
			}
			seen[key] = true
			pairs = append(pairs, key)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs, nil
}
