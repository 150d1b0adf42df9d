package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/soypat/unroll"
	"github.com/soypat/unroll/helpers/matter"
	"gopkg.in/yaml.v2"
)

// Export formats understood by the run command.
const (
	formatDXF = "dxf"
	formatSVG = "svg"
	formatPNG = "png"
	formatSTL = "stl"
	formatOBJ = "obj"
)

// job is the contents of a YAML job file.
type job struct {
	// Side selects the offset layer the fabric is cut from. Empty uses
	// the design surface.
	Side      string  `yaml:"side"`
	Thickness float64 `yaml:"thickness"`
	Seam      float64 `yaml:"seam"`
	Flip      bool    `yaml:"flip"`
	Orient    bool    `yaml:"orient"`
	Tol       float64 `yaml:"tol"`
	// Panels restricts the run to strips of these panels.
	Panels  []string `yaml:"panels"`
	Formats []string `yaml:"formats"`
	Output  string   `yaml:"output"`
	// Rings maps strip names to the edge the ring is opened at.
	Rings    map[string][]int `yaml:"rings"`
	Material string           `yaml:"material"`
}

func defaultJob() job {
	return job{
		Formats: []string{formatDXF, formatSVG},
		Output:  ".",
	}
}

// loadJob reads a job file on top of the defaults. An empty path returns
// the defaults.
func loadJob(path string) (job, error) {
	j := defaultJob()
	if path == "" {
		return j, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return j, err
	}
	if err := yaml.UnmarshalStrict(b, &j); err != nil {
		return j, fmt.Errorf("job file %s: %w", path, err)
	}
	return j, nil
}

func (j job) validate() error {
	if j.Side != "" {
		if _, err := unroll.ParseSide(j.Side); err != nil {
			return err
		}
		if j.Thickness <= 0 {
			return fmt.Errorf("side %s needs a positive thickness, got %g", j.Side, j.Thickness)
		}
	}
	if j.Seam < 0 {
		return fmt.Errorf("negative seam allowance %g", j.Seam)
	}
	for _, f := range j.Formats {
		switch f {
		case formatDXF, formatSVG, formatPNG, formatSTL, formatOBJ:
		default:
			return fmt.Errorf("unknown export format %q", f)
		}
	}
	for name, e := range j.Rings {
		if len(e) != 2 || e[0] == e[1] {
			return fmt.Errorf("ring %s: start edge must be two distinct vertices, got %v", name, e)
		}
	}
	if j.Material != "" {
		s, err := matter.Lookup(strings.ToUpper(j.Material))
		if err != nil {
			return err
		}
		return s.Validate()
	}
	return nil
}

func (j job) wants(format string) bool {
	for _, f := range j.Formats {
		if f == format {
			return true
		}
	}
	return false
}

func (j job) selected(id unroll.StripID) bool {
	if len(j.Panels) == 0 {
		return true
	}
	for _, p := range j.Panels {
		if p == id.Panel {
			return true
		}
	}
	return false
}

// sheet returns the material patterns are compensated for, if any.
func (j job) sheet() (matter.Sheet, bool) {
	if j.Material == "" {
		return matter.Sheet{}, false
	}
	s, err := matter.Lookup(strings.ToUpper(j.Material))
	return s, err == nil
}

// outPath returns the path of an export of the named strip. Files are
// prefixed with the offset layer when one is used.
func (j job) outPath(name, ext string) string {
	if side, err := unroll.ParseSide(j.Side); err == nil {
		name = strings.ToUpper(side.String()) + "_" + name
	}
	return filepath.Join(j.Output, name+"."+ext)
}
