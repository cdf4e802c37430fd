// Package hydro routes water over the land: it fixes lake levels, fills
// depressions, accumulates flux downhill, traces rivers and optionally cuts
// river valleys into the terrain.
package hydro

import (
	"cmp"
	"math"
	"slices"

	"github.com/zyedidia/generic/mapset"

	icore "mapgen/internal/core"
	"mapgen/pkg/core"
	"mapgen/pkg/world"
)

const (
	// shoreEpsilon is the minimum rise of a shore cell over its lake.
	shoreEpsilon = 0.01
	// depressionStep is how far a filled cell ends up above its lowest neighbor.
	depressionStep = 0.1
	maxDowncut     = 5
)

// Options controls the hydrology pass.
type Options struct {
	// MinFlux is the flux a cell needs to start a river.
	MinFlux float64
	// Erosion lowers river cells after tracing.
	Erosion bool
	// MaxIterations caps the depression filling passes.
	MaxIterations int
	// LakeElevationLimit is how far above its level a lake's closedness
	// search may climb.
	LakeElevationLimit float64
	// LakeDelta is how far a lake's level sits below its lowest shore.
	LakeDelta float64
}

// DefaultOptions returns the standard hydrology settings.
func DefaultOptions() Options {
	return Options{
		MinFlux:            30,
		Erosion:            true,
		MaxIterations:      250,
		LakeElevationLimit: 20,
		LakeDelta:          0.1,
	}
}

// FluxModifier scales precipitation so larger grids don't collect
// proportionally more water per cell.
func FluxModifier(cells int) float64 {
	return math.Pow(float64(cells)/10000, 0.25)
}

type solver struct {
	p      *world.Pack
	opts   Options
	h      []float64
	isLake []bool
	// outletOf maps an open lake's outlet cell to the lake id.
	outletOf []int32
	marks    *icore.Marks
}

// Generate runs the full hydrology pass over the pack and writes heights,
// flux, rivers, confluences and lake data back into it.
func Generate(mp *world.MarkedPack, opts Options, rng *core.RNG) (*world.DrainedPack, []core.Diagnostic) {
	p := mp.Pack
	n := p.Len()
	s := &solver{
		p:      p,
		opts:   opts,
		h:      make([]float64, n),
		isLake: make([]bool, len(p.Features)),
		marks:  icore.NewMarks(n),
	}
	var diags []core.Diagnostic

	s.alterHeights(rng)
	s.outletOf = s.lakeLevels()
	s.raiseShores()
	if err := s.resolveDepressions(); err != nil {
		diags = append(diags, *err)
	}
	down := s.drain()
	s.traceRivers(down)
	s.confluences()
	if opts.Erosion {
		s.downcut()
	}

	for i := 0; i < n; i++ {
		if p.IsLand(i) {
			p.Cells.Heights[i] = uint8(math.Max(float64(p.SeaLevel), math.Min(world.MaxHeight, math.Round(s.h[i]))))
		}
	}
	return &world.DrainedPack{Pack: p}, diags
}

// alterHeights nudges land cells by their coast distance and a little
// coordinate noise so no two neighbors share a height.
func (s *solver) alterHeights(rng *core.RNG) {
	c := &s.p.Cells
	for i := range s.h {
		s.h[i] = float64(c.Heights[i])
		if s.p.IsLand(i) {
			pt := c.Points[i]
			s.h[i] += float64(c.Distance[i])/100 + rng.Noise2D(pt.X, pt.Y, 1)/1000
		}
	}
}

// level is the height water sees at cell j: the lake level for lake cells.
func (s *solver) level(j int) float64 {
	if f := s.p.Cells.Feature[j]; s.isLake[f] {
		return s.p.Features[f].Height
	}
	return s.h[j]
}

// lowest returns the neighbor of i with the lowest water height. The
// outlet of an open lake ignores its own lake.
func (s *solver) lowest(i int) (int, float64) {
	best, bestH := -1, math.Inf(1)
	skip := s.outletOf[i]
	for _, j := range s.p.Cells.Neighbors[i] {
		if skip != 0 && s.p.Cells.Feature[j] == skip {
			continue
		}
		if hj := s.level(j); hj < bestH {
			best, bestH = j, hj
		}
	}
	return best, bestH
}

// landByHeight returns land cell indices sorted by height, lowest first
// unless desc is set. Ties keep index order.
func (s *solver) landByHeight(desc bool) []int {
	var land []int
	for i := range s.h {
		if s.p.IsLand(i) {
			land = append(land, i)
		}
	}
	slices.SortStableFunc(land, func(a, b int) int {
		if desc {
			return cmpFloat(s.h[b], s.h[a])
		}
		return cmpFloat(s.h[a], s.h[b])
	})
	return land
}

// resolveDepressions raises every interior land cell that is not above its
// lowest neighbor until water can always flow downhill. Border cells drain
// off the map and are left alone.
func (s *solver) resolveDepressions() *core.Diagnostic {
	border := s.p.Cells.Border
	for iter := 0; iter < s.opts.MaxIterations; iter++ {
		raised := 0
		for _, i := range s.landByHeight(false) {
			if border[i] {
				continue
			}
			j, hj := s.lowest(i)
			if j < 0 || hj < s.h[i] {
				continue
			}
			s.h[i] = math.Min(hj+depressionStep, world.MaxHeight)
			raised++
		}
		if raised == 0 {
			return nil
		}
	}
	d := core.Warn(core.ErrNonConvergence, "depressions remain after %d passes", s.opts.MaxIterations)
	return &d
}

// drain accumulates precipitation downhill. Each land cell, highest first,
// passes its flux to its lowest neighbor; water entering a lake is pooled and
// released at the lake's outlet. It returns each cell's downstream cell, -1
// where water leaves the map or stays put.
func (s *solver) drain() []int {
	c := &s.p.Cells
	n := s.p.Len()
	down := make([]int, n)
	for i := range down {
		down[i] = -1
	}
	mod := FluxModifier(n)
	for _, i := range s.landByHeight(true) {
		c.Flux[i] += float64(c.Precipitation[i]) / mod
		if lake := s.outletOf[i]; lake != 0 {
			c.Flux[i] += s.p.Features[lake].Flux
		}
		j, hj := s.lowest(i)
		if j < 0 || hj >= s.h[i] {
			continue
		}
		down[i] = j
		switch f := c.Feature[j]; {
		case s.isLake[f]:
			s.p.Features[f].Flux += c.Flux[i]
		case s.p.IsLand(j):
			c.Flux[j] += c.Flux[i]
		}
	}
	for id := 1; id < len(s.p.Features); id++ {
		if s.isLake[id] {
			f := s.p.Features[id]
			for _, cell := range f.Cells {
				c.Flux[cell] = f.Flux
			}
		}
	}
	return down
}

// traceRivers starts a river at every land cell, highest first, whose flux
// reaches MinFlux and which no river has claimed yet, then follows the
// downstream links. A river ends at water (the water cell is its mouth) or
// where it meets an older river, which becomes its parent.
func (s *solver) traceRivers(down []int) {
	c := &s.p.Cells
	for _, src := range s.landByHeight(true) {
		if c.Flux[src] < s.opts.MinFlux || c.River[src] != 0 {
			continue
		}
		id := len(s.p.Rivers)
		r := world.River{ID: id, Source: src, Cells: []int{src}}
		for cur := src; ; {
			next := down[cur]
			if next < 0 {
				break
			}
			r.Cells = append(r.Cells, next)
			if !s.p.IsLand(next) {
				break
			}
			if c.River[next] != 0 {
				r.Parent = int(c.River[next])
				break
			}
			cur = next
		}
		if len(r.Cells) < 2 {
			continue
		}
		last := src
		for k, cell := range r.Cells {
			if s.p.IsLand(cell) && c.River[cell] == 0 {
				c.River[cell] = uint16(id)
				last = cell
			}
			if k > 0 {
				r.Length += c.Points[r.Cells[k-1]].Dist(c.Points[cell])
			}
		}
		r.Mouth = r.Cells[len(r.Cells)-1]
		r.Discharge = c.Flux[last]
		s.p.Rivers = append(s.p.Rivers, r)
	}
}

// confluences counts, per land cell, the distinct rivers among its neighbors.
func (s *solver) confluences() {
	c := &s.p.Cells
	for i := range c.Confluence {
		if !s.p.IsLand(i) {
			continue
		}
		ids := mapset.New[uint16]()
		for _, j := range c.Neighbors[i] {
			if r := c.River[j]; r != 0 {
				ids.Put(r)
			}
		}
		c.Confluence[i] = uint8(min(ids.Size(), math.MaxUint8))
	}
}

// downcut lowers every river cell by a hundredth of its flux, at most
// maxDowncut and never below 1.
func (s *solver) downcut() {
	c := &s.p.Cells
	for i := range s.h {
		if c.River[i] == 0 {
			continue
		}
		s.h[i] = math.Max(s.h[i]-math.Min(c.Flux[i]/100, maxDowncut), 1)
	}
}

func cmpFloat(a, b float64) int { return cmp.Compare(a, b) }
