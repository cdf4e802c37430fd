package world

import (
	"fmt"
	"slices"
)

// PackCells holds the per-cell arrays of a Pack. Every slice is index-aligned
// with Points; Validate reports violations.
type PackCells struct {
	Cells

	Grid     []int
	Heights  []uint8
	Feature  []int32
	Distance []int8
	Haven    []int32
	Harbor   []uint8
	Area     []float64

	Flux       []float64
	River      []uint16
	Confluence []uint8
	Outlet     []int32

	Temperature   []int8
	Precipitation []uint8
	Biome         []uint8
	Suitability   []int16
	Population    []float64

	Culture  []uint16
	State    []uint16
	Burg     []uint16
	Religion []uint16
}

// Pack is the semantically enriched world built from a grid.
type Pack struct {
	Width, Height int
	SeaLevel      uint8

	Cells    PackCells
	Vertices Vertices

	// Index 0 of every collection is a sentinel.
	Features  []Feature
	Rivers    []River
	Cultures  []Culture
	States    []State
	Burgs     []Burg
	Religions []Religion
	Markers   []Marker
}

// NewPack copies the grid's cells into a fresh Pack. No slice is shared with
// the grid, so mutating the Pack never touches the Grid.
func NewPack(g *ClimateGrid) *Pack {
	n := g.Len()
	p := &Pack{
		Width:    g.Width,
		Height:   g.Grid.Height,
		SeaLevel: g.SeaLevel,
	}
	c := &p.Cells
	c.Points = slices.Clone(g.Cells.Points)
	c.Verts = cloneNested(g.Cells.Verts)
	c.Neighbors = cloneNested(g.Cells.Neighbors)
	c.Border = slices.Clone(g.Cells.Border)

	c.Grid = make([]int, n)
	for i := range c.Grid {
		c.Grid[i] = i
	}
	c.Heights = slices.Clone(g.Heights)
	c.Feature = make([]int32, n)
	c.Distance = make([]int8, n)
	c.Haven = make([]int32, n)
	c.Harbor = make([]uint8, n)
	c.Area = make([]float64, n)
	c.Flux = make([]float64, n)
	c.River = make([]uint16, n)
	c.Confluence = make([]uint8, n)
	c.Outlet = make([]int32, n)
	c.Temperature = slices.Clone(g.Temperature)
	c.Precipitation = slices.Clone(g.Precipitation)
	c.Biome = make([]uint8, n)
	c.Suitability = make([]int16, n)
	c.Population = make([]float64, n)
	c.Culture = make([]uint16, n)
	c.State = make([]uint16, n)
	c.Burg = make([]uint16, n)
	c.Religion = make([]uint16, n)
	for i := 0; i < n; i++ {
		c.Haven[i] = -1
		c.Outlet[i] = -1
	}

	p.Vertices = Vertices{
		Points:    slices.Clone(g.Vertices.Points),
		Neighbors: cloneNested(g.Vertices.Neighbors),
		Cells:     slices.Clone(g.Vertices.Cells),
	}

	p.Features = make([]Feature, 1)
	p.Rivers = make([]River, 1)
	p.Cultures = []Culture{{Name: "Wildlands"}}
	p.States = []State{{Name: "Neutrals"}}
	p.Burgs = make([]Burg, 1)
	p.Religions = []Religion{{Name: "No religion"}}
	return p
}

// Len returns the number of pack cells.
func (p *Pack) Len() int { return p.Cells.Len() }

// IsLand reports whether cell i is at or above sea level.
func (p *Pack) IsLand(i int) bool { return p.Cells.Heights[i] >= p.SeaLevel }

// Validate checks that every per-cell array has the same length as Points.
func (c *PackCells) Validate() error {
	n := len(c.Points)
	lens := map[string]int{
		"verts": len(c.Verts), "neighbors": len(c.Neighbors), "border": len(c.Border),
		"grid": len(c.Grid), "heights": len(c.Heights), "feature": len(c.Feature),
		"distance": len(c.Distance), "haven": len(c.Haven), "harbor": len(c.Harbor),
		"area": len(c.Area), "flux": len(c.Flux), "river": len(c.River),
		"confluence": len(c.Confluence), "outlet": len(c.Outlet),
		"temperature": len(c.Temperature), "precipitation": len(c.Precipitation),
		"biome": len(c.Biome), "suitability": len(c.Suitability),
		"population": len(c.Population), "culture": len(c.Culture),
		"state": len(c.State), "burg": len(c.Burg), "religion": len(c.Religion),
	}
	names := make([]string, 0, len(lens))
	for name := range lens {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if lens[name] != n {
			return fmt.Errorf("cell array %s has %d entries, want %d", name, lens[name], n)
		}
	}
	return nil
}

// MarkedPack is a Pack with features, distances, havens and areas projected.
type MarkedPack struct{ *Pack }

// DrainedPack is a MarkedPack with lakes resolved, flux routed and rivers traced.
type DrainedPack struct{ *Pack }

// RankedPack is a DrainedPack with biomes, suitability and population.
type RankedPack struct{ *Pack }

// CulturedPack is a RankedPack with cultures assigned.
type CulturedPack struct{ *Pack }

// PoliticalPack is a CulturedPack with burgs and states.
type PoliticalPack struct{ *Pack }

func cloneNested(src [][]int) [][]int {
	out := make([][]int, len(src))
	for i, s := range src {
		out[i] = slices.Clone(s)
	}
	return out
}
