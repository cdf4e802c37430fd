package features

import (
	"math"
	"slices"

	"github.com/zyedidia/generic/mapset"

	"mapgen/pkg/world"
)

// MarkupPack projects the grid's features and distances onto the pack cells
// and fills the per-cell coastal data: polygon area, haven (the closest
// adjacent water cell of a coastal land cell) and harbor (its number of water
// neighbors). Feature cell lists, areas and lake shorelines are rebuilt in
// pack indices.
func MarkupPack(p *world.Pack, fg *world.FeatureGrid) *world.MarkedPack {
	c := &p.Cells
	n := p.Len()
	for i := 0; i < n; i++ {
		gi := c.Grid[i]
		c.Feature[i] = fg.Feature[gi]
		c.Distance[i] = fg.Distance[gi]
		c.Area[i] = polygonArea(p.Vertices.Points, c.Verts[i])
	}

	p.Features = make([]world.Feature, len(fg.Features))
	for id := 1; id < len(fg.Features); id++ {
		src := fg.Features[id]
		p.Features[id] = world.Feature{
			ID: src.ID, Type: src.Type, Land: src.Land, Border: src.Border,
			FirstCell: -1, Outlet: -1,
		}
	}
	for i := 0; i < n; i++ {
		f := &p.Features[c.Feature[i]]
		if f.FirstCell < 0 {
			f.FirstCell = i
		}
		f.Cells = append(f.Cells, i)
		f.Area += c.Area[i]
	}

	for i := 0; i < n; i++ {
		if !p.IsLand(i) || c.Distance[i] != 1 {
			continue
		}
		haven, best := -1, math.Inf(1)
		harbor := 0
		for _, j := range c.Neighbors[i] {
			if p.IsLand(j) {
				continue
			}
			harbor++
			if d := c.Points[i].Dist2(c.Points[j]); d < best {
				haven, best = j, d
			}
		}
		c.Haven[i] = int32(haven)
		c.Harbor[i] = uint8(min(harbor, math.MaxUint8))
	}

	for id := 1; id < len(p.Features); id++ {
		f := &p.Features[id]
		if f.Type == world.FeatureLake {
			f.Shoreline = Shoreline(p, f.Cells)
		}
	}
	return &world.MarkedPack{Pack: p}
}

// Shoreline returns the sorted land cells adjacent to any of cells.
func Shoreline(p *world.Pack, cells []int) []int {
	var out []int
	seen := mapset.New[int]()
	for _, i := range cells {
		for _, j := range p.Cells.Neighbors[i] {
			if p.IsLand(j) && !seen.Has(j) {
				seen.Put(j)
				out = append(out, j)
			}
		}
	}
	slices.Sort(out)
	return out
}

// polygonArea is the shoelace area of the ring of vertex indices.
func polygonArea(pts []world.Point, ring []int) float64 {
	if len(ring) < 3 {
		return 0
	}
	sum := 0.0
	for k, v := range ring {
		a, b := pts[v], pts[ring[(k+1)%len(ring)]]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum) / 2
}
