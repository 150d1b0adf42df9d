package unroll

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// FaceGraph is the adjacency a walk over faces needs. *Mesh implements it.
type FaceGraph interface {
	// FaceKeys returns every face of the graph in a deterministic order.
	FaceKeys() []int
	// FaceHalfedges returns the directed edges of face f along its cycle.
	FaceHalfedges(f int) [][2]int
	// HalfedgeFace returns the face owning the directed edge (u,v).
	HalfedgeFace(u, v int) (int, bool)
}

var _ FaceGraph = (*Mesh)(nil)

// Step is a single face discovery of a walk. Face was reached from
// Parent through the half-edge (U,V) of Parent; Face owns (V,U).
// The root step has Parent, U and V set to -1.
type Step struct {
	Parent, Face int
	U, V         int
}

// Walk visits every face reachable from root breadth first and returns
// the discovery order. A face is marked visited when enqueued and is
// never discovered twice. Faces that can not be reached from root make
// Walk return the steps taken together with an ErrDisconnected
// *StructureError listing the unreached faces.
func Walk(g FaceGraph, root int) ([]Step, error) {
	all := g.FaceKeys()
	if !slices.Contains(all, root) {
		return nil, faceErr(ErrNoRoot, "root not in face graph", root)
	}
	visited := map[int]bool{root: true}
	steps := make([]Step, 1, len(all))
	steps[0] = Step{Parent: -1, Face: root, U: -1, V: -1}
	queue := []int{root}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		for _, e := range g.FaceHalfedges(f) {
			u, v := e[0], e[1]
			nbr, ok := g.HalfedgeFace(v, u)
			if !ok || visited[nbr] {
				continue
			}
			visited[nbr] = true
			queue = append(queue, nbr)
			steps = append(steps, Step{Parent: f, Face: nbr, U: u, V: v})
		}
	}
	if len(steps) != len(all) {
		var unreached []int
		for _, f := range all {
			if !visited[f] {
				unreached = append(unreached, f)
			}
		}
		return steps, faceErr(ErrDisconnected,
			fmt.Sprintf("%d of %d faces reachable from root %d", len(steps), len(all), root), unreached...)
	}
	return steps, nil
}
