// Command errsurface renders a heat map of the distance-error field in an
// x/y slice around a star, which makes degenerate valleys (long flat
// zero-error regions the solver has to enumerate) visible at a glance.
package main

import (
	"flag"
	"log"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/starfix-data/starfix/internal/catalog"
	"github.com/starfix-data/starfix/internal/geom"
	"github.com/starfix-data/starfix/internal/solver"
)

var (
	catalogPath = flag.String("catalog", "", "Path to a systems JSON catalog")
	system      = flag.String("system", "", "Star whose error field to render")
	span        = flag.Float64("span", 0.5, "Half-width of the rendered slice in each axis")
	cells       = flag.Int("cells", 129, "Samples per axis")
	output      = flag.String("o", "errsurface.png", "Output PNG path")
)

// errorField samples the banded total error on a regular x/y grid at a
// fixed z, in log10 so the near-zero valley stays visible next to the
// quadratic far field.
type errorField struct {
	model  *solver.ErrorModel
	center geom.Vec3
	span   float64
	cells  int
}

func (f *errorField) Dims() (c, r int) { return f.cells, f.cells }

func (f *errorField) X(c int) float64 {
	return f.center.X - f.span + 2*f.span*float64(c)/float64(f.cells-1)
}

func (f *errorField) Y(r int) float64 {
	return f.center.Y - f.span + 2*f.span*float64(r)/float64(f.cells-1)
}

func (f *errorField) Z(c, r int) float64 {
	loc := geom.Vec3{X: f.X(c), Y: f.Y(r), Z: f.center.Z}
	return math.Log10(f.model.BandedTotalError(loc) + 1e-12)
}

func main() {
	flag.Parse()
	if *catalogPath == "" || *system == "" {
		log.Fatal("-catalog and -system are required")
	}

	cat, err := catalog.Load(*catalogPath)
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}
	star := cat.Lookup(*system)
	if star == nil {
		log.Fatalf("unknown system %q", *system)
	}
	connections := cat.Connections(star)
	if len(connections) == 0 {
		log.Fatalf("%s has no usable distance records", *system)
	}

	field := &errorField{
		model:  solver.NewErrorModel(connections),
		center: star.Location(),
		span:   *span,
		cells:  *cells,
	}

	p := plot.New()
	p.Title.Text = *system + " distance error (log10)"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewHeatMap(field, palette.Heat(16, 1)))

	if err := p.Save(8*vg.Inch, 8*vg.Inch, *output); err != nil {
		log.Fatalf("failed to save plot: %v", err)
	}
	log.Printf("wrote %s", *output)
}
