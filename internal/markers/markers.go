// Package markers places points of interest on a finished map.
package markers

import (
	"cmp"
	"fmt"
	"slices"

	"mapgen/pkg/world"
)

// Options controls marker placement.
type Options struct {
	// VolcanoHeight is the minimum height of a volcano.
	VolcanoHeight uint8
	// LandPerVolcano sets the volcano budget: one per this many land cells.
	LandPerVolcano int
}

// DefaultOptions returns the standard marker settings.
func DefaultOptions() Options {
	return Options{VolcanoHeight: 70, LandPerVolcano: 500}
}

// Generate replaces the pack's markers with volcanoes on the highest
// peaks, bridges where burgs sit on rivers and one marker per closed lake.
func Generate(pp *world.PoliticalPack, opts Options) {
	p := pp.Pack
	p.Markers = p.Markers[:0]
	volcanoes(p, opts)
	bridges(p)
	lakes(p)
}

func add(p *world.Pack, kind world.MarkerType, cell int, note string) {
	pt := p.Cells.Points[cell]
	p.Markers = append(p.Markers, world.Marker{
		ID: len(p.Markers), Type: kind, Cell: cell, X: pt.X, Y: pt.Y, Note: note,
	})
}

// volcanoes marks local maxima at or above VolcanoHeight, highest first.
func volcanoes(p *world.Pack, opts Options) {
	c := &p.Cells
	land := 0
	var peaks []int
	for i, h := range c.Heights {
		if !p.IsLand(i) {
			continue
		}
		land++
		if h < opts.VolcanoHeight {
			continue
		}
		top := true
		for _, j := range c.Neighbors[i] {
			if c.Heights[j] > h {
				top = false
				break
			}
		}
		if top {
			peaks = append(peaks, i)
		}
	}
	budget := max(1, land/max(opts.LandPerVolcano, 1))
	slices.SortStableFunc(peaks, func(a, b int) int { return cmp.Compare(c.Heights[b], c.Heights[a]) })
	for _, cell := range peaks[:min(budget, len(peaks))] {
		add(p, world.MarkerVolcano, cell, fmt.Sprintf("height %d", c.Heights[cell]))
	}
}

func bridges(p *world.Pack) {
	for _, b := range p.Burgs[1:] {
		if r := p.Cells.River[b.Cell]; r != 0 && !b.Removed {
			note := fmt.Sprintf("%s over river %d", b.Name, r)
			if name := p.Rivers[r].Name; name != "" {
				note = fmt.Sprintf("%s over the %s", b.Name, name)
			}
			add(p, world.MarkerBridge, b.Cell, note)
		}
	}
}

// lakes marks each closed lake at its cell nearest the lake's centroid.
func lakes(p *world.Pack) {
	for _, f := range p.Features[1:] {
		if f.Type != world.FeatureLake || !f.Closed || len(f.Cells) == 0 {
			continue
		}
		var cx, cy float64
		for _, cell := range f.Cells {
			cx += p.Cells.Points[cell].X
			cy += p.Cells.Points[cell].Y
		}
		n := float64(len(f.Cells))
		centroid := world.Point{X: cx / n, Y: cy / n}
		pts := make([]world.Point, len(f.Cells))
		for k, cell := range f.Cells {
			pts[k] = p.Cells.Points[cell]
		}
		add(p, world.MarkerLake, f.Cells[world.Nearest(pts, centroid)], fmt.Sprintf("closed lake at level %.1f", f.Height))
	}
}
