// Package religions founds organised faiths in distinct cultures and
// spreads them over the populated land.
package religions

import (
	"cmp"
	"slices"

	"mapgen/internal/cultures"
	"mapgen/internal/expansion"
	"mapgen/internal/names"
	"mapgen/pkg/core"
	"mapgen/pkg/world"
)

// Kinds of religion.
const (
	Organized = "Organized"
	Cult      = "Cult"
	Heresy    = "Heresy"
)

// Options controls religion generation.
type Options struct {
	Count           int
	ExpansionismMin float64
	ExpansionismMax float64
	MaxIterations   int
}

// DefaultOptions returns the standard settings for count religions.
func DefaultOptions(count int) Options {
	return Options{Count: count, ExpansionismMin: 0, ExpansionismMax: 3, MaxIterations: 1000}
}

// Generate founds up to Count religions, one per culture, largest cultures
// first. A religion starts at a capital of its culture when there is one and
// spreads with double strength inside its own culture.
func Generate(pp *world.PoliticalPack, opts Options, rng *core.RNG) []core.Diagnostic {
	p := pp.Pack
	c := &p.Cells
	var diags []core.Diagnostic

	var founders []int
	for id := 1; id < len(p.Cultures); id++ {
		if !p.Cultures[id].Removed && p.Cultures[id].Cells > 0 {
			founders = append(founders, id)
		}
	}
	slices.SortStableFunc(founders, func(a, b int) int {
		return cmp.Compare(p.Cultures[b].Rural, p.Cultures[a].Rural)
	})
	count := opts.Count
	if count > len(founders) {
		diags = append(diags, core.Warn(core.ErrInsufficientData,
			"%d cultures can found %d religions, %d requested", len(founders), len(founders), count))
		count = len(founders)
	}
	if count <= 0 {
		return diags
	}

	origins := make([]int, 0, count)
	for k, cu := range founders[:count] {
		id := k + 1
		center := capitalOf(p, cu)
		kind := Organized
		switch {
		case rng.Chance(0.1):
			kind = Heresy
		case rng.Chance(0.2):
			kind = Cult
		}
		p.Religions = append(p.Religions, world.Religion{
			ID:           id,
			Name:         names.Religion(names.ByIndex(p.Cultures[cu].Base), kind, rng),
			Color:        world.Palette(id + 13),
			Type:         kind,
			Culture:      cu,
			Center:       center,
			Expansionism: rng.Range(opts.ExpansionismMin, opts.ExpansionismMax),
		})
		origins = append(origins, center)
	}

	cultures.AssignNearest(p, c.Religion, origins, 0)
	res := expansion.Grow(c.Neighbors, c.Religion, expansion.Options{
		MaxIterations: opts.MaxIterations,
		Eligible:      func(i int) bool { return c.Population[i] > 0 },
		Expansionism:  func(o int) float64 { return p.Religions[o].Expansionism },
		Affinity: func(i, o int) float64 {
			if int(c.Culture[i]) == p.Religions[o].Culture {
				return 2
			}
			return 1
		},
	})
	if !res.Converged {
		diags = append(diags, core.Warn(core.ErrNonConvergence,
			"religion expansion still claiming cells after %d passes", res.Passes))
	}

	for i, r := range c.Religion {
		if r == 0 {
			continue
		}
		rel := &p.Religions[r]
		rel.Cells++
		rel.Area += c.Area[i]
		rel.Rural += c.Population[i]
	}
	for _, b := range p.Burgs[1:] {
		if r := c.Religion[b.Cell]; r != 0 {
			p.Religions[r].Urban += b.Population
		}
	}
	return diags
}

// capitalOf returns the cell of the most populous capital of culture cu, or
// the culture's centre when it has none.
func capitalOf(p *world.Pack, cu int) int {
	best, bestPop := p.Cultures[cu].Center, -1.0
	for _, b := range p.Burgs[1:] {
		if b.Capital && b.Culture == cu && b.Population > bestPop {
			best, bestPop = b.Cell, b.Population
		}
	}
	return best
}
