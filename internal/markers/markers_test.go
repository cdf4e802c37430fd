package markers

import (
	"testing"

	"mapgen/internal/voronoi"
	"mapgen/pkg/core"
	"mapgen/pkg/world"
)

// flatPack builds a pack of uniform land at height 40.
func flatPack(t *testing.T) (*world.Grid, *world.PoliticalPack) {
	t.Helper()
	g, err := voronoi.Build(voronoi.DefaultOptions(400, 200, 200), core.NewRNG("markers"))
	if err != nil {
		t.Fatal(err)
	}
	n := g.Len()
	hg := &world.HeightGrid{Grid: g, Heights: make([]uint8, n)}
	for i := range hg.Heights {
		hg.Heights[i] = 40
	}
	fg := &world.FeatureGrid{
		HeightGrid: hg,
		SeaLevel:   world.DefaultSeaLevel,
		Feature:    make([]int32, n),
		Distance:   make([]int8, n),
		Features:   make([]world.Feature, 1),
	}
	cg := &world.ClimateGrid{FeatureGrid: fg, Temperature: make([]int8, n), Precipitation: make([]uint8, n)}
	return g, &world.PoliticalPack{Pack: world.NewPack(cg)}
}

func byType(p *world.Pack, kind world.MarkerType) []world.Marker {
	var out []world.Marker
	for _, m := range p.Markers {
		if m.Type == kind {
			out = append(out, m)
		}
	}
	return out
}

func TestVolcanoOnHighestPeak(t *testing.T) {
	g, pp := flatPack(t)
	high := g.FindCell(100, 100)
	low := g.FindCell(30, 30)
	pp.Cells.Heights[high] = 90
	pp.Cells.Heights[low] = 80

	Generate(pp, DefaultOptions())
	got := byType(pp.Pack, world.MarkerVolcano)
	if len(got) != 1 || got[0].Cell != high {
		t.Fatalf("volcanoes %+v, want one at cell %d", got, high)
	}

	opts := DefaultOptions()
	opts.LandPerVolcano = 100
	Generate(pp, opts)
	got = byType(pp.Pack, world.MarkerVolcano)
	if len(got) != 2 || got[0].Cell != high || got[1].Cell != low {
		t.Fatalf("volcanoes %+v, want cells %d then %d", got, high, low)
	}
}

func TestBridgesAndClosedLakes(t *testing.T) {
	g, pp := flatPack(t)
	ford := g.FindCell(50, 150)
	pp.Rivers = append(pp.Rivers, world.River{ID: 1, Name: "Aster"})
	pp.Cells.River[ford] = 1
	pp.Burgs = append(pp.Burgs, world.Burg{ID: 1, Name: "Ford", Cell: ford})

	lake := []int{g.FindCell(150, 50), g.FindCell(160, 50)}
	pp.Features = append(pp.Features,
		world.Feature{ID: 1, Type: world.FeatureLake, Closed: true, Cells: lake, Height: 18},
		world.Feature{ID: 2, Type: world.FeatureLake, Cells: []int{g.FindCell(150, 150)}},
	)

	Generate(pp, DefaultOptions())
	Generate(pp, DefaultOptions())

	bridges := byType(pp.Pack, world.MarkerBridge)
	if len(bridges) != 1 || bridges[0].Cell != ford || bridges[0].Note != "Ford over the Aster" {
		t.Fatalf("bridges %+v", bridges)
	}
	lakes := byType(pp.Pack, world.MarkerLake)
	if len(lakes) != 1 || (lakes[0].Cell != lake[0] && lakes[0].Cell != lake[1]) {
		t.Fatalf("lake markers %+v, want one on %v", lakes, lake)
	}
	for i, m := range pp.Markers {
		if m.ID != i {
			t.Fatalf("marker %d has id %d", i, m.ID)
		}
	}
}
