// Package states places capitals and towns and grows the political map.
package states

import (
	"cmp"
	"math"
	"slices"

	"mapgen/internal/cultures"
	"mapgen/internal/expansion"
	"mapgen/internal/names"
	"mapgen/pkg/core"
	"mapgen/pkg/world"
)

// maxRelaxations bounds how often automatic capital spacing is loosened.
const maxRelaxations = 8

// Options controls state generation.
type Options struct {
	Count int
	// Spacing is the minimum distance between capitals. Zero derives it
	// from the map size and Count and loosens it when capitals don't fit.
	Spacing float64
	// TownDensity is the number of towns each state tries to found.
	TownDensity      int
	CoreRadiusFactor float64
	ExpansionismMin  float64
	ExpansionismMax  float64
	MaxIterations    int
}

// DefaultOptions returns the standard settings for count states.
func DefaultOptions(count int) Options {
	return Options{
		Count:            count,
		TownDensity:      3,
		CoreRadiusFactor: 0.5,
		ExpansionismMin:  1,
		ExpansionismMax:  2,
		MaxIterations:    1000,
	}
}

// Generate founds one state per capital, adds towns and grows borders.
func Generate(cp *world.CulturedPack, opts Options, rng *core.RNG) (*world.PoliticalPack, []core.Diagnostic) {
	p := cp.Pack
	c := &p.Cells
	var diags []core.Diagnostic

	caps, spacing := placeCapitals(p, opts, rng)
	if len(caps) < opts.Count {
		diags = append(diags, core.Warn(core.ErrInsufficientData,
			"placed %d of %d capitals (spacing %.1f)", len(caps), opts.Count, spacing))
	}

	for _, cell := range caps {
		id := len(p.Burgs)
		culture := int(c.Culture[cell])
		base := names.ByIndex(p.Cultures[culture].Base)
		b := newBurg(p, id, cell, base, rng)
		b.Capital = true
		b.State = id
		p.Burgs = append(p.Burgs, b)
		c.Burg[cell] = uint16(id)
		p.States = append(p.States, world.State{
			ID:           id,
			Name:         names.State(base, b.Name, rng),
			Color:        world.Palette(id + 7),
			Capital:      id,
			Center:       cell,
			Culture:      culture,
			Expansionism: rng.Range(opts.ExpansionismMin, opts.ExpansionismMax),
		})
	}

	if len(caps) > 0 {
		radius := opts.CoreRadiusFactor * math.Sqrt(float64(p.Width*p.Height)/(math.Pi*float64(len(caps))))
		cultures.AssignNearest(p, c.State, caps, radius)
		if short := placeTowns(p, opts.TownDensity, rng); short > 0 {
			diags = append(diags, core.Warn(core.ErrInsufficientData,
				"%d states have fewer than %d towns", short, opts.TownDensity))
		}

		res := expansion.Grow(c.Neighbors, c.State, expansion.Options{
			MaxIterations: opts.MaxIterations,
			Eligible:      func(i int) bool { return c.Population[i] > 0 },
			Expansionism:  func(o int) float64 { return p.States[o].Expansionism },
			Affinity: func(i, o int) float64 {
				if c.Culture[i] != 0 && int(c.Culture[i]) == p.States[o].Culture {
					return 2
				}
				return 1
			},
		})
		if !res.Converged {
			diags = append(diags, core.Warn(core.ErrNonConvergence,
				"state expansion still claiming cells after %d passes", res.Passes))
		}
	}

	for id := 1; id < len(p.Burgs); id++ {
		b := &p.Burgs[id]
		b.State = int(c.State[b.Cell])
	}
	recenter(p)
	aggregate(p)
	return &world.PoliticalPack{Pack: p}, diags
}

// placeCapitals scores populated, cultured cells by population times a
// random factor in [0.5, 1) and accepts the best ones that keep the minimum
// spacing. The spacing check is a linear scan over accepted capitals.
func placeCapitals(p *world.Pack, opts Options, rng *core.RNG) ([]int, float64) {
	if opts.Count <= 0 {
		return nil, 0
	}
	c := &p.Cells
	type scored struct {
		cell  int
		score float64
	}
	var cand []scored
	for i, pop := range c.Population {
		if pop > 0 && c.Culture[i] != 0 {
			cand = append(cand, scored{i, pop * rng.Range(0.5, 1)})
		}
	}
	slices.SortStableFunc(cand, func(a, b scored) int { return cmp.Compare(b.score, a.score) })

	spacing := opts.Spacing
	auto := spacing <= 0
	if auto {
		spacing = float64(p.Width+p.Height) / 2 / float64(opts.Count)
	}
	var caps []int
	for try := 0; ; try++ {
		caps = caps[:0]
		for _, s := range cand {
			if len(caps) == opts.Count {
				break
			}
			if farFrom(c.Points, caps, s.cell, spacing) {
				caps = append(caps, s.cell)
			}
		}
		if len(caps) == opts.Count || !auto || try == maxRelaxations {
			return caps, spacing
		}
		spacing /= 1.2
	}
}

func farFrom(pts []world.Point, chosen []int, cell int, spacing float64) bool {
	s2 := spacing * spacing
	for _, o := range chosen {
		if pts[o].Dist2(pts[cell]) < s2 {
			return false
		}
	}
	return true
}

// placeTowns gives each state up to density towns on its most populated
// free cells. Cells next to another burg are only taken once a state has no
// other free cell left. It returns how many states fell short.
func placeTowns(p *world.Pack, density int, rng *core.RNG) int {
	c := &p.Cells
	states := len(p.States)
	held := make([][]int, states)
	for i, s := range c.State {
		if s != 0 && c.Burg[i] == 0 && c.Population[i] > 0 {
			held[s] = append(held[s], i)
		}
	}
	short := 0
	for s := 1; s < states; s++ {
		cells := held[s]
		slices.SortStableFunc(cells, func(a, b int) int { return cmp.Compare(c.Population[b], c.Population[a]) })
		placed := 0
		for _, crowded := range []bool{false, true} {
			for _, cell := range cells {
				if placed == density {
					break
				}
				if c.Burg[cell] != 0 || nearBurg(p, cell) != crowded {
					continue
				}
				id := len(p.Burgs)
				b := newBurg(p, id, cell, names.ByIndex(p.Cultures[c.Culture[cell]].Base), rng)
				b.State = s
				p.Burgs = append(p.Burgs, b)
				c.Burg[cell] = uint16(id)
				placed++
			}
		}
		if placed < density {
			short++
		}
	}
	return short
}

func nearBurg(p *world.Pack, cell int) bool {
	for _, j := range p.Cells.Neighbors[cell] {
		if p.Cells.Burg[j] != 0 {
			return true
		}
	}
	return false
}

func newBurg(p *world.Pack, id, cell int, base names.Base, rng *core.RNG) world.Burg {
	c := &p.Cells
	return world.Burg{
		ID:      id,
		Name:    names.Burg(base, rng),
		Cell:    cell,
		X:       c.Points[cell].X,
		Y:       c.Points[cell].Y,
		Culture: int(c.Culture[cell]),
		Feature: int(c.Feature[cell]),
		Port:    c.Haven[cell] >= 0,
	}
}

// recenter moves each state's centre to its own cell closest to the
// centroid of its territory.
func recenter(p *world.Pack) {
	c := &p.Cells
	n := len(p.States)
	sx, sy, cnt := make([]float64, n), make([]float64, n), make([]float64, n)
	for i, s := range c.State {
		if s != 0 {
			sx[s] += c.Points[i].X
			sy[s] += c.Points[i].Y
			cnt[s]++
		}
	}
	best := make([]float64, n)
	for s := range best {
		best[s] = math.Inf(1)
	}
	for i, s := range c.State {
		if s == 0 {
			continue
		}
		centroid := world.Point{X: sx[s] / cnt[s], Y: sy[s] / cnt[s]}
		if d := c.Points[i].Dist2(centroid); d < best[s] {
			best[s] = d
			p.States[s].Center = i
		}
	}
}

// aggregate sums areas and populations. Rural population counts cells,
// urban population counts burgs, each independently.
func aggregate(p *world.Pack) {
	c := &p.Cells
	for i, s := range c.State {
		if s == 0 {
			continue
		}
		st := &p.States[s]
		st.Cells++
		st.Area += c.Area[i]
		st.Rural += c.Population[i]
	}
	for id := 1; id < len(p.Burgs); id++ {
		b := &p.Burgs[id]
		pop := math.Max(c.Population[b.Cell]/8, 0.1)
		if b.Capital {
			pop *= 1.3
		}
		if b.Port {
			pop *= 1.3
		}
		b.Population = math.Round(pop*1000) / 1000
		if b.State != 0 {
			p.States[b.State].Burgs++
			p.States[b.State].Urban += b.Population
		}
		if b.Culture != 0 {
			p.Cultures[b.Culture].Urban += b.Population
		}
	}
}
