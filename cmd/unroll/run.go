package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/soypat/unroll"
	"github.com/soypat/unroll/render"
	"github.com/spf13/cobra"
)

// overlapTol is the penetration depth below which flattened triangles
// are not reported as overlapping.
const overlapTol = 1e-9

var runFlags struct {
	job       string
	side      string
	thickness float64
	seam      float64
	flip      bool
	orient    bool
	panels    []string
	formats   []string
	output    string
	material  string
}

var runCmd = &cobra.Command{
	Use:   "run <mesh>",
	Short: "Unroll strips and export cutting patterns",
	Long: `Run unrolls every selected strip of the mesh and writes its cutting
pattern to the output directory. Settings are read from a YAML job file
and overridden by flags:

  side: idos          # offset layer, needs thickness
  thickness: 0.04
  seam: 0.02          # seam allowance around the outline
  flip: false         # reverse face cycles before unrolling
  orient: true        # align the long axis of each pattern with X
  panels: [SOUTH]
  formats: [dxf, svg, png, stl, obj]
  output: patterns
  material: pvc       # shrink compensation preset
  rings:
    NORTH-00: [12, 13] # open ring strips at this edge

Nothing is written unless every selected strip unrolls.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := loadJob(runFlags.job)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("side") {
			j.Side = runFlags.side
		}
		if flags.Changed("thickness") {
			j.Thickness = runFlags.thickness
		}
		if flags.Changed("seam") {
			j.Seam = runFlags.seam
		}
		if flags.Changed("flip") {
			j.Flip = runFlags.flip
		}
		if flags.Changed("orient") {
			j.Orient = runFlags.orient
		}
		if flags.Changed("panels") {
			j.Panels = runFlags.panels
		}
		if flags.Changed("formats") {
			j.Formats = runFlags.formats
		}
		if flags.Changed("output") {
			j.Output = runFlags.output
		}
		if flags.Changed("material") {
			j.Material = runFlags.material
		}
		if err := j.validate(); err != nil {
			return err
		}
		m, err := loadMesh(args[0])
		if err != nil {
			return err
		}
		pieces, err := unrollMesh(m, j)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(j.Output, 0o755); err != nil {
			return err
		}
		for _, pc := range pieces {
			if err := pc.export(j); err != nil {
				return err
			}
		}
		log.Info().Int("strips", len(pieces)).Str("output", j.Output).Msg("patterns written")
		return nil
	},
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFlags.job, "job", "j", "", "YAML job file")
	f.StringVar(&runFlags.side, "side", "", "offset layer: idos or edos")
	f.Float64Var(&runFlags.thickness, "thickness", 0, "shell thickness for the offset layer")
	f.Float64Var(&runFlags.seam, "seam", 0, "seam allowance")
	f.BoolVar(&runFlags.flip, "flip", false, "reverse face cycles before unrolling")
	f.BoolVar(&runFlags.orient, "orient", false, "align pattern long axis with X")
	f.StringSliceVar(&runFlags.panels, "panels", nil, "only unroll strips of these panels")
	f.StringSliceVar(&runFlags.formats, "formats", nil, "export formats: dxf, svg, png, stl, obj")
	f.StringVarP(&runFlags.output, "output", "o", "", "output directory")
	f.StringVar(&runFlags.material, "material", "", "material shrink compensation: pvc, ptfe or canvas")
	rootCmd.AddCommand(runCmd)
}

// piece is an unrolled strip ready for export.
type piece struct {
	// model is the strip before unrolling.
	model   *unroll.Mesh
	flat    *unroll.Mesh
	pattern *unroll.Pattern
}

// unrollMesh unrolls every strip selected by j. It stops at the first
// strip that fails.
func unrollMesh(m *unroll.Mesh, j job) ([]piece, error) {
	if j.Side != "" {
		side, err := unroll.ParseSide(j.Side)
		if err != nil {
			return nil, err
		}
		m, err = unroll.Offset(m, side, j.Thickness)
		if err != nil {
			return nil, fmt.Errorf("offset %s: %w", side, err)
		}
	}
	if j.Flip {
		m.FlipCycles()
	}
	var pieces []piece
	for _, id := range m.Strips() {
		if !j.selected(id) {
			continue
		}
		pc, err := unrollStrip(m, id, j)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, pc)
	}
	if len(pieces) == 0 {
		return nil, fmt.Errorf("no strips selected out of %d", len(m.Strips()))
	}
	return pieces, nil
}

func unrollStrip(m *unroll.Mesh, id unroll.StripID, j job) (piece, error) {
	strip, err := m.Strip(id)
	if err != nil {
		return piece{}, err
	}
	opts := unroll.Options{Tol: j.Tol, Log: log.Logger}
	if j.Orient {
		opts.Orient = unroll.PrincipalAxes{}
	}
	if e, ok := j.Rings[id.Name()]; ok {
		faces := strip.StripFaces(id)
		uu, vv, err := unroll.SplitRing(strip, faces[0], faces[len(faces)-1])
		if err != nil {
			return piece{}, fmt.Errorf("split ring %s: %w", id.Name(), err)
		}
		log.Debug().Str("strip", id.Name()).Int("u", uu).Int("v", vv).Msg("ring opened")
		opts.Edge = &[2]int{e[0], e[1]}
	}
	model := strip.Copy()
	res, err := unroll.Unroll(strip, opts)
	if err != nil {
		return piece{}, err
	}
	pairs, err := unroll.Overlaps(res.Flat, overlapTol)
	if err != nil {
		return piece{}, err
	}
	if len(pairs) > 0 {
		log.Warn().Str("strip", id.Name()).Int("pairs", len(pairs)).Msg("pattern overlaps itself")
	}
	p, err := unroll.NewPattern(strip, j.Seam)
	if err != nil {
		return piece{}, fmt.Errorf("pattern %s: %w", id.Name(), err)
	}
	if s, ok := j.sheet(); ok {
		p = s.Compensate(p)
	}
	log.Debug().Str("strip", id.Name()).Int("root", res.RootFace).Int("corner", res.Corner).
		Float64("distortion", unroll.Distortion(model, strip)).Msg("strip unrolled")
	return piece{model: model, flat: strip, pattern: p}, nil
}

func (pc piece) export(j job) error {
	name := pc.pattern.Name
	if j.wants(formatDXF) {
		if err := render.CreateDXF(j.outPath(name, formatDXF), pc.pattern); err != nil {
			return err
		}
	}
	if j.wants(formatSVG) {
		if err := writeFile(j.outPath(name, formatSVG), func(fp *os.File) error {
			return render.WriteSVG(fp, svgScale(pc.pattern), pc.pattern)
		}); err != nil {
			return err
		}
	}
	if j.wants(formatPNG) {
		if err := render.SavePlot(j.outPath(name, formatPNG), pc.pattern); err != nil {
			return err
		}
	}
	if j.wants(formatSTL) {
		if err := render.CreateSTL(j.outPath(name, formatSTL), render.NewMeshRenderer(pc.model)); err != nil {
			return err
		}
	}
	if j.wants(formatOBJ) {
		if err := writeFile(j.outPath(name, formatOBJ), func(fp *os.File) error {
			return unroll.WriteOBJ(fp, pc.flat)
		}); err != nil {
			return err
		}
	}
	return nil
}

// svgScale fits the longest side of the pattern in about 1000 user units.
func svgScale(p *unroll.Pattern) float64 {
	size := p.Bounds.Size()
	long := size.X
	if size.Y > long {
		long = size.Y
	}
	if long <= 0 {
		return 1
	}
	return 1000 / long
}

func writeFile(path string, write func(fp *os.File) error) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(fp); err != nil {
		fp.Close()
		os.Remove(path)
		return err
	}
	return fp.Close()
}
