package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Box is a 2d bounding box.
type Box r2.Box

// EmptyBox returns a box that any call to Include will replace.
func EmptyBox() Box {
	return Box{Min: Elem(math.MaxFloat64), Max: Elem(-math.MaxFloat64)}
}

// Empty reports whether no point has been included in the box.
func (a Box) Empty() bool {
	return a.Min.X > a.Max.X || a.Min.Y > a.Max.Y
}

// Extend returns a box enclosing two 2d boxes.
func (a Box) Extend(b Box) Box {
	return Box{
		Min: MinElem(a.Min, b.Min),
		Max: MaxElem(a.Max, b.Max),
	}
}

// Include enlarges a 2d box to include a point.
func (a Box) Include(v r2.Vec) Box {
	return Box{MinElem(a.Min, v), MaxElem(a.Max, v)}
}

// Translate translates a 2d box.
func (a Box) Translate(v r2.Vec) Box {
	return Box{r2.Add(a.Min, v), r2.Add(a.Max, v)}
}

// Size returns the size of a 2d box.
func (a Box) Size() r2.Vec {
	return r2.Sub(a.Max, a.Min)
}

// Center returns the center of a 2d box.
func (a Box) Center() r2.Vec {
	return r2.Add(a.Min, r2.Scale(0.5, a.Size()))
}
