package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Polygon operations. Polygons are closed implicitly: the last vertex
// connects back to the first and is not repeated.

// SignedArea returns the shoelace area of the polygon. It is positive
// for counter clockwise vertex order.
func SignedArea(poly []r2.Vec) float64 {
	var a float64
	for i := range poly {
		j := (i + 1) % len(poly)
		a += Cross(poly[i], poly[j])
	}
	return a / 2
}

// OffsetPolygon moves every edge of poly a distance d along its outward
// normal and returns the polygon formed by intersecting consecutive
// offset edges. Positive d grows the polygon regardless of vertex order.
// Consecutive parallel edges keep the offset vertex.
func OffsetPolygon(poly []r2.Vec, d float64) []r2.Vec {
	n := len(poly)
	if n < 3 || d == 0 {
		return append([]r2.Vec(nil), poly...)
	}
	sign := 1.0
	if SignedArea(poly) < 0 {
		sign = -1
	}
	dirs := make([]r2.Vec, n)
	starts := make([]r2.Vec, n)
	for i := range poly {
		e := r2.Sub(poly[(i+1)%n], poly[i])
		if r2.Norm(e) == 0 {
			// duplicate vertex, reuse previous direction below.
			continue
		}
		dirs[i] = r2.Unit(e)
		starts[i] = r2.Add(poly[i], r2.Scale(sign*d, Perp(dirs[i])))
	}
	out := make([]r2.Vec, n)
	for i := range poly {
		prev := (i + n - 1) % n
		da, db := dirs[prev], dirs[i]
		if da == (r2.Vec{}) || db == (r2.Vec{}) {
			out[i] = poly[i]
			continue
		}
		denom := Cross(da, db)
		if math.Abs(denom) < 1e-12 {
			out[i] = starts[i]
			continue
		}
		t := Cross(r2.Sub(starts[i], starts[prev]), db) / denom
		out[i] = r2.Add(starts[prev], r2.Scale(t, da))
	}
	return out
}

// TrianglesOverlap reports whether the interiors of triangles a and b
// intersect by more than tol using the separating axis theorem.
// Triangles that only touch along an edge or at a vertex do not overlap.
func TrianglesOverlap(a, b [3]r2.Vec, tol float64) bool {
	for _, tri := range [2][3]r2.Vec{a, b} {
		for i := 0; i < 3; i++ {
			edge := r2.Sub(tri[(i+1)%3], tri[i])
			if r2.Norm(edge) == 0 {
				continue
			}
			axis := r2.Unit(Perp(edge))
			amin, amax := project(a, axis)
			bmin, bmax := project(b, axis)
			if amax-bmin <= tol || bmax-amin <= tol {
				return false
			}
		}
	}
	return true
}

func project(tri [3]r2.Vec, axis r2.Vec) (min, max float64) {
	min = math.Inf(1)
	max = math.Inf(-1)
	for _, p := range tri {
		d := r2.Dot(p, axis)
		min = math.Min(min, d)
		max = math.Max(max, d)
	}
	return min, max
}
