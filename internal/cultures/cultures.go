// Package cultures places peoples on the populated land and grows their
// territories.
package cultures

import (
	"cmp"
	"math"
	"slices"

	"mapgen/internal/expansion"
	"mapgen/internal/names"
	"mapgen/pkg/core"
	"mapgen/pkg/world"
)

// Options controls culture generation.
type Options struct {
	Count int
	// CellsPerCulture is the populated cells each culture needs.
	CellsPerCulture int
	// MinRadius drops origin candidates this close to a chosen origin.
	MinRadius float64
	// ExpansionismMin and ExpansionismMax bound each culture's drive.
	ExpansionismMin float64
	ExpansionismMax float64
	// CoreRadiusFactor scales the radius, relative to an even share of the
	// map, within which cells join their nearest origin before expansion.
	CoreRadiusFactor float64
	MaxIterations    int
}

// DefaultOptions returns the standard settings for count cultures.
func DefaultOptions(count int) Options {
	return Options{
		Count:            count,
		CellsPerCulture:  25,
		MinRadius:        5,
		ExpansionismMin:  0,
		ExpansionismMax:  3,
		CoreRadiusFactor: 0.5,
		MaxIterations:    1000,
	}
}

// Generate creates the cultures and assigns every reachable populated cell
// to one. Requests the map cannot support are reduced and reported as
// diagnostics.
func Generate(rp *world.RankedPack, opts Options, rng *core.RNG) (*world.CulturedPack, []core.Diagnostic) {
	p := rp.Pack
	c := &p.Cells
	var diags []core.Diagnostic

	populated := Populated(p)
	count := opts.Count
	limit := len(populated) / max(opts.CellsPerCulture, 1)
	if limit < 1 && len(populated) > 0 {
		limit = 1
	}
	if count > limit {
		diags = append(diags, core.Warn(core.ErrInsufficientData,
			"%d populated cells support %d cultures, %d requested", len(populated), limit, count))
		count = limit
	}

	origins := pickOrigins(p, populated, count, opts.MinRadius)
	if len(origins) < count {
		diags = append(diags, core.Warn(core.ErrInsufficientData,
			"only %d culture origins fit, %d requested", len(origins), count))
	}

	for k, cell := range origins {
		id := k + 1
		baseIdx := rng.IntRange(0, len(names.Bases())-1)
		base := names.ByIndex(baseIdx)
		p.Cultures = append(p.Cultures, world.Culture{
			ID:           id,
			Name:         names.Culture(base, rng),
			Color:        world.Palette(id),
			Base:         baseIdx,
			Center:       cell,
			Expansionism: rng.Range(opts.ExpansionismMin, opts.ExpansionismMax),
		})
	}

	if len(origins) > 0 {
		radius := opts.CoreRadiusFactor * math.Sqrt(float64(p.Width*p.Height)/(math.Pi*float64(len(origins))))
		AssignNearest(p, c.Culture, origins, radius)

		res := expansion.Grow(c.Neighbors, c.Culture, expansion.Options{
			MaxIterations: opts.MaxIterations,
			Eligible:      func(i int) bool { return c.Population[i] > 0 },
			Expansionism:  func(o int) float64 { return p.Cultures[o].Expansionism },
		})
		if !res.Converged {
			diags = append(diags, core.Warn(core.ErrNonConvergence,
				"culture expansion still claiming cells after %d passes", res.Passes))
		}
	}

	for i := range c.Culture {
		if o := c.Culture[i]; o != 0 {
			cu := &p.Cultures[o]
			cu.Cells++
			cu.Area += c.Area[i]
			cu.Rural += c.Population[i]
		}
	}
	return &world.CulturedPack{Pack: p}, diags
}

// Populated returns the cells with positive population in index order.
func Populated(p *world.Pack) []int {
	var out []int
	for i, pop := range p.Cells.Population {
		if pop > 0 {
			out = append(out, i)
		}
	}
	return out
}

// pickOrigins chooses up to count origins from the candidates. The most
// populated cell goes first; each next origin is the candidate farthest from
// all chosen ones. Candidates within minRadius of a new origin are dropped.
func pickOrigins(p *world.Pack, candidates []int, count int, minRadius float64) []int {
	if count <= 0 || len(candidates) == 0 {
		return nil
	}
	pts := p.Cells.Points
	pop := p.Cells.Population
	cand := slices.Clone(candidates)
	slices.SortStableFunc(cand, func(a, b int) int { return cmp.Compare(pop[b], pop[a]) })

	nearest := make([]float64, len(cand))
	for k := range nearest {
		nearest[k] = math.Inf(1)
	}
	alive := make([]bool, len(cand))
	for k := range alive {
		alive[k] = true
	}

	var origins []int
	next := 0
	for len(origins) < count && next >= 0 {
		o := cand[next]
		origins = append(origins, o)
		alive[next] = false

		next = -1
		best := -1.0
		for k, cell := range cand {
			if !alive[k] {
				continue
			}
			d := pts[cell].Dist(pts[o])
			if d < minRadius {
				alive[k] = false
				continue
			}
			nearest[k] = math.Min(nearest[k], d)
			if nearest[k] > best {
				next, best = k, nearest[k]
			}
		}
	}
	return origins
}

// AssignNearest gives every populated, unowned cell the owner of its nearest
// origin when that origin lies on the same landmass and within radius.
// owner ids are origin index + 1.
func AssignNearest(p *world.Pack, owner []uint16, origins []int, radius float64) {
	c := &p.Cells
	for i := range owner {
		if owner[i] != 0 || c.Population[i] <= 0 {
			continue
		}
		best, bestD := -1, math.Inf(1)
		for k, o := range origins {
			if d := c.Points[i].Dist2(c.Points[o]); d < bestD {
				best, bestD = k, d
			}
		}
		if best < 0 || c.Feature[i] != c.Feature[origins[best]] || math.Sqrt(bestD) > radius {
			continue
		}
		owner[i] = uint16(best + 1)
	}
	for k, o := range origins {
		owner[o] = uint16(k + 1)
	}
}
