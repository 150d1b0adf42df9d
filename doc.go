// Package unroll flattens strips of quadrilateral faces into planar
// cutting patterns.
//
// A strip is a chain of faces glued edge to edge, typically the faces of
// a shell mesh sharing a panel and strip tag. The strip is triangulated,
// a root triangle at one end of the chain is laid on the world XY plane
// and every following triangle is attached to its already flattened
// neighbour with a rigid transform between two local frames built on
// their shared edge. Edge lengths are preserved exactly for every
// triangle; near planar quads accumulate a small drift that is not
// corrected.
//
//	strip, _ := shell.Strip(unroll.StripID{Panel: "SOUTH", Strip: "00"})
//	_, err := unroll.Unroll(strip, unroll.Options{})
//	if err != nil {
//		return err // strip is left untouched.
//	}
//	pattern, err := unroll.NewPattern(strip, 0.02)
package unroll
