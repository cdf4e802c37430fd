// Package heightmap paints elevation onto a grid by running a named
// template: a list of brush instructions such as Hill, Range or Smooth.
package heightmap

import (
	"fmt"
	"log"
	"math"

	"github.com/ojrac/opensimplex-go"

	"mapgen/pkg/core"
	"mapgen/pkg/world"
)

// Options selects the template, the land threshold and the falloff
// exponents. Zero powers are picked from the cell count; a zero sea level
// means world.DefaultSeaLevel.
type Options struct {
	Template  string
	SeaLevel  uint8
	BlobPower float64
	LinePower float64
}

type powerKey struct {
	cells int
	power float64
}

var blobPowers = []powerKey{
	{1000, 0.93}, {2000, 0.95}, {5000, 0.97}, {10000, 0.98}, {20000, 0.99},
	{30000, 0.991}, {40000, 0.993}, {50000, 0.994}, {60000, 0.995},
	{70000, 0.9955}, {80000, 0.996}, {90000, 0.9964}, {100000, 0.9973},
}

var linePowers = []powerKey{
	{1000, 0.75}, {2000, 0.77}, {5000, 0.79}, {10000, 0.81}, {20000, 0.82},
	{30000, 0.83}, {40000, 0.84}, {50000, 0.86}, {60000, 0.87},
	{70000, 0.88}, {80000, 0.91}, {90000, 0.92}, {100000, 0.93},
}

// BlobPower returns the Hill/Pit falloff exponent for a cell count.
func BlobPower(cells int) float64 { return interpolate(blobPowers, cells) }

// LinePower returns the Range/Trough falloff exponent for a cell count.
func LinePower(cells int) float64 { return interpolate(linePowers, cells) }

func interpolate(table []powerKey, cells int) float64 {
	if cells <= table[0].cells {
		return table[0].power
	}
	for i := 1; i < len(table); i++ {
		if cells <= table[i].cells {
			a, b := table[i-1], table[i]
			t := float64(cells-a.cells) / float64(b.cells-a.cells)
			return a.power + t*(b.power-a.power)
		}
	}
	return table[len(table)-1].power
}

// Generate runs the named template over g. An unknown template name fails
// before any brush runs.
func Generate(g *world.Grid, opts Options, rng *core.RNG) (*world.HeightGrid, []core.Diagnostic, error) {
	steps, ok := Lookup(opts.Template)
	if !ok {
		return nil, nil, fmt.Errorf("%w: unknown heightmap template %q", core.ErrInvalidArgument, opts.Template)
	}
	return Apply(g, opts.Template, steps, opts, rng)
}

// Apply runs template text over g. name is only used in messages. Steps
// with an unknown tool or malformed arguments are logged, reported as
// diagnostics and skipped.
func Apply(g *world.Grid, name, steps string, opts Options, rng *core.RNG) (*world.HeightGrid, []core.Diagnostic, error) {
	if g == nil || g.Len() == 0 {
		return nil, nil, fmt.Errorf("%w: empty grid", core.ErrInvalidArgument)
	}
	p := &painter{
		g:         g,
		h:         make([]float64, g.Len()),
		rng:       rng,
		noise:     opensimplex.NewNormalized(rng.Int63()),
		blobPower: opts.BlobPower,
		linePower: opts.LinePower,
		seaLevel:  float64(opts.SeaLevel),
		w:         float64(g.Width),
		hgt:       float64(g.Height),
	}
	if p.blobPower <= 0 {
		p.blobPower = BlobPower(g.Len())
	}
	if opts.SeaLevel == 0 {
		p.seaLevel = world.DefaultSeaLevel
	}
	if p.linePower <= 0 {
		p.linePower = LinePower(g.Len())
	}

	var diags []core.Diagnostic
	for _, s := range parseSteps(steps) {
		var err error
		switch s.tool {
		case "Hill":
			err = p.blob(s.args, 1)
		case "Pit":
			err = p.blob(s.args, -1)
		case "Range":
			err = p.line(s.args, 1)
		case "Trough":
			err = p.line(s.args, -1)
		case "Strait":
			err = p.strait(s.args)
		case "Mask":
			err = p.mask(s.args)
		case "Fade":
			err = p.fade(s.args)
		case "Invert":
			err = p.invert(s.args)
		case "Smooth":
			err = p.smooth(s.args)
		case "Add":
			var v numRange
			if v, err = parseRange(s.args[0]); err == nil {
				err = p.modify(s.args[1], v.lo, 1)
			}
		case "Multiply":
			var v numRange
			if v, err = parseRange(s.args[0]); err == nil {
				err = p.modify(s.args[1], 0, v.lo)
			}
		default:
			err = fmt.Errorf("unknown tool %q", s.tool)
		}
		if err != nil {
			log.Printf("heightmap: template %q line %d: %v, skipping", name, s.line, err)
			diags = append(diags, core.Warn(core.ErrInvalidArgument, "template %q line %d skipped: %v", name, s.line, err))
		}
		p.clamp()
	}

	hg := &world.HeightGrid{Grid: g, Heights: make([]uint8, g.Len())}
	for i, v := range p.h {
		hg.Heights[i] = uint8(math.Round(math.Max(0, math.Min(world.MaxHeight, v))))
	}
	return hg, diags, nil
}
