// Package climate assigns temperature and precipitation to grid cells.
package climate

import (
	"math"

	"github.com/aquilax/go-perlin"

	"mapgen/pkg/core"
	"mapgen/pkg/world"
)

// Options controls the climate model.
type Options struct {
	// EquatorTemp and PoleTemp bound the sea-level temperature, in °C.
	EquatorTemp float64
	PoleTemp    float64
	// LatitudeTop and LatitudeBottom are the latitudes of the map's top and
	// bottom edges.
	LatitudeTop    float64
	LatitudeBottom float64
	// Precipitation scales all rainfall; 1 is the default climate.
	Precipitation float64
}

// DefaultOptions returns a temperate northern-hemisphere climate.
func DefaultOptions() Options {
	return Options{
		EquatorTemp:    27,
		PoleTemp:       -30,
		LatitudeTop:    60,
		LatitudeBottom: 10,
		Precipitation:  1,
	}
}

// Compute derives the climate of every cell.
func Compute(fg *world.FeatureGrid, opts Options, rng *core.RNG) *world.ClimateGrid {
	n := fg.Len()
	cg := &world.ClimateGrid{
		FeatureGrid:   fg,
		Temperature:   make([]int8, n),
		Precipitation: make([]uint8, n),
	}
	tempNoise := perlin.NewPerlin(2, 2, 3, rng.Int63())
	rainNoise := perlin.NewPerlin(2, 2, 5, rng.Int63())

	h := float64(fg.Grid.Height)
	w := float64(fg.Width)
	for i, p := range fg.Cells.Points {
		lat := opts.LatitudeTop + (opts.LatitudeBottom-opts.LatitudeTop)*p.Y/h
		t := opts.EquatorTemp - easeInOut(math.Abs(lat)/90)*(opts.EquatorTemp-opts.PoleTemp)
		t -= AltitudeDrop(fg.Heights[i], fg.SeaLevel)
		t += 3 * tempNoise.Noise2D(p.X/w*4, p.Y/h*4)
		cg.Temperature[i] = int8(math.Max(-128, math.Min(127, math.Round(t))))
	}

	raw := make([]float64, n)
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	for i, p := range fg.Cells.Points {
		v := rainNoise.Noise2D(p.X/w*6, p.Y/h*6)
		raw[i] = v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	for i := range raw {
		prec := 5 + 45*(raw[i]-lo)/span
		if fg.Heights[i] >= fg.SeaLevel {
			switch fg.Distance[i] {
			case 1:
				prec += 10
			case 2:
				prec += 5
			}
			prec += orographic(fg, i)
		}
		switch t := cg.Temperature[i]; {
		case t < -10:
			prec *= 0.25
		case t < 0:
			prec *= 0.5
		}
		prec *= opts.Precipitation
		cg.Precipitation[i] = uint8(math.Max(0, math.Min(255, math.Round(prec))))
	}
	return cg
}

// AltitudeDrop returns how many degrees colder a cell of height h is than
// sea level. Land heights are treated as (h-seaLevel+2)² metres with a
// 6.5 °C/km lapse rate; water cells do not cool.
func AltitudeDrop(h, seaLevel uint8) float64 {
	if h < seaLevel {
		return 0
	}
	m := math.Pow(float64(h)-float64(seaLevel)+2, 2)
	return math.Round(m/1000*6.5*10) / 10
}

// orographic rewards cells that rise above their neighbours.
func orographic(fg *world.FeatureGrid, i int) float64 {
	nb := fg.Cells.Neighbors[i]
	if len(nb) == 0 {
		return 0
	}
	sum := 0.0
	for _, j := range nb {
		sum += float64(fg.Heights[j])
	}
	rise := float64(fg.Heights[i]) - sum/float64(len(nb))
	return math.Max(0, math.Min(15, rise*1.5))
}

// easeInOut is a polynomial in-out easing with exponent 0.5.
func easeInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return math.Pow(t, 0.5) / 2
	}
	return (2 - math.Pow(2-t, 0.5)) / 2
}
