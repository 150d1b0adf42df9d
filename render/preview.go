package render

import (
	"errors"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// View places the camera of a preview. The model is scaled to fit a
// bi-unit cube centered at the origin before rendering.
type View struct {
	// LookAt is the point the camera looks at.
	LookAt r3.Vec
	// Up is the up direction of the image.
	Up r3.Vec
	// Eye is the camera position.
	Eye       r3.Vec
	Near, Far float64
}

// DefaultView looks at the origin from the +X+Y+Z octant with Z up.
var DefaultView = View{
	Up:   r3.Vec{Z: 1},
	Eye:  r3.Vec{X: 3, Y: 3, Z: 3},
	Near: 1,
	Far:  10,
}

// SavePreview renders the model with a Phong shader and saves it as a PNG.
func SavePreview(path string, model []r3.Triangle, view View) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	const (
		width, height = 1920, 1080 // output width and height in pixels
		scale         = 2          // supersampling
		fovy          = 30         // vertical field of view in degrees
	)
	tris := make([]*fauxgl.Triangle, 0, len(model))
	for _, t := range model {
		tris = append(tris, fauxgl.NewTriangleForPoints(fauxVec(t[0]), fauxVec(t[1]), fauxVec(t[2])))
	}
	mesh := fauxgl.NewTriangleMesh(tris)

	var (
		eye    = fauxVec(view.Eye)                    // camera position
		center = fauxVec(view.LookAt)                 // view center position
		up     = fauxVec(view.Up)                     // up vector
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize() // light direction
		color  = fauxgl.HexColor("#468966")           // object color
	)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	// strips are open surfaces, draw both sides.
	context.Cull = fauxgl.CullNone
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	image := context.Image()
	image = resize.Resize(width, height, image, resize.Bilinear)
	return fauxgl.SavePNG(path, image)
}

func fauxVec(v r3.Vec) fauxgl.Vector { return fauxgl.V(v.X, v.Y, v.Z) }
