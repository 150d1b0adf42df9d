package unroll

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDegenerateFrame is returned when a local frame can not be built
	// because its axes are zero length or parallel.
	ErrDegenerateFrame = errors.New("degenerate frame")

	ErrDisconnected = errors.New("strip is disconnected")
	ErrBranching    = errors.New("strip branches")
	ErrRing         = errors.New("strip is a closed ring")

	// ErrNoRoot is returned when no face at the end of a chain exists.
	ErrNoRoot          = errors.New("no root face with a single neighbour")
	ErrNoCorner        = errors.New("root face has no corner vertex of degree 2")
	ErrAmbiguousCorner = errors.New("root face has more than one corner vertex")

	// ErrConflict is returned when a vertex would be flattened twice.
	ErrConflict   = errors.New("vertex flattened twice")
	ErrNotQuad    = errors.New("face is not a triangle or quad")
	ErrEmptyStrip = errors.New("strip has no faces")
	ErrState      = errors.New("invalid unroller state")

	// ErrDistortion is returned when a flattened edge length departs from
	// its three dimensional length by more than the configured tolerance.
	ErrDistortion = errors.New("flattened edge length mismatch")
)

// StructureError reports a violated structural precondition of a strip
// together with the offending faces and vertices.
type StructureError struct {
	Err      error
	Faces    []int
	Vertices []int
	Detail   string
}

func (e *StructureError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if len(e.Faces) > 0 {
		fmt.Fprintf(&b, ": faces %v", e.Faces)
	}
	if len(e.Vertices) > 0 {
		fmt.Fprintf(&b, ": vertices %v", e.Vertices)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *StructureError) Unwrap() error { return e.Err }

func faceErr(err error, detail string, faces ...int) error {
	return &StructureError{Err: err, Faces: faces, Detail: detail}
}

func vertexErr(err error, detail string, vertices ...int) error {
	return &StructureError{Err: err, Vertices: vertices, Detail: detail}
}
