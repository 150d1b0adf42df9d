package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/soypat/unroll/render"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

var previewFlags struct {
	out string
	eye []float64
}

var previewCmd = &cobra.Command{
	Use:   "preview <mesh>",
	Short: "Render a PNG preview of a mesh",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if n := len(previewFlags.eye); n != 0 && n != 3 {
			return fmt.Errorf("eye needs 3 coordinates, got %d", n)
		}
		m, err := loadMesh(args[0])
		if err != nil {
			return err
		}
		model, err := render.RenderAll(render.NewMeshRenderer(m))
		if err != nil {
			return err
		}
		view := render.DefaultView
		if len(previewFlags.eye) == 3 {
			view.Eye = r3.Vec{X: previewFlags.eye[0], Y: previewFlags.eye[1], Z: previewFlags.eye[2]}
		}
		if err := render.SavePreview(previewFlags.out, model, view); err != nil {
			return err
		}
		log.Info().Str("file", previewFlags.out).Int("triangles", len(model)).Msg("preview written")
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVarP(&previewFlags.out, "out", "o", "preview.png", "output PNG file")
	previewCmd.Flags().Float64SliceVar(&previewFlags.eye, "eye", nil, "camera position x,y,z")
	rootCmd.AddCommand(previewCmd)
}
