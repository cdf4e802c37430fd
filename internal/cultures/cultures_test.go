package cultures

import (
	"errors"
	"testing"

	"mapgen/internal/biomes"
	"mapgen/internal/climate"
	"mapgen/internal/features"
	"mapgen/internal/heightmap"
	"mapgen/internal/hydro"
	"mapgen/internal/voronoi"
	"mapgen/pkg/core"
	"mapgen/pkg/world"
)

func ranked(t *testing.T, seed string, cells int, template string) *world.RankedPack {
	t.Helper()
	rng := core.NewRNG(seed)
	g, err := voronoi.Build(voronoi.DefaultOptions(cells, 500, 500), rng.Fork("grid"))
	if err != nil {
		t.Fatal(err)
	}
	hg, _, err := heightmap.Generate(g, heightmap.Options{Template: template}, rng.Fork("heights"))
	if err != nil {
		t.Fatal(err)
	}
	fg := features.MarkupGrid(hg, features.DefaultOptions())
	cg := climate.Compute(fg, climate.DefaultOptions(), rng.Fork("climate"))
	dp, _ := hydro.Generate(features.MarkupPack(world.NewPack(cg), fg), hydro.DefaultOptions(), rng.Fork("rivers"))
	return biomes.Rank(dp)
}

// twoIslands builds a big island on the left and a tiny one on the right,
// every land cell with population 1.
func twoIslands(t *testing.T) *world.RankedPack {
	t.Helper()
	g, err := voronoi.Build(voronoi.DefaultOptions(2000, 600, 600), core.NewRNG("islands"))
	if err != nil {
		t.Fatal(err)
	}
	hg := &world.HeightGrid{Grid: g, Heights: make([]uint8, g.Len())}
	big, tiny := world.Point{X: 200, Y: 300}, world.Point{X: 520, Y: 300}
	for i, p := range g.Cells.Points {
		hg.Heights[i] = 5
		if p.Dist(big) < 150 || p.Dist(tiny) < 20 {
			hg.Heights[i] = 40
		}
	}
	fg := features.MarkupGrid(hg, features.DefaultOptions())
	cg := &world.ClimateGrid{
		FeatureGrid:   fg,
		Temperature:   make([]int8, g.Len()),
		Precipitation: make([]uint8, g.Len()),
	}
	mp := features.MarkupPack(world.NewPack(cg), fg)
	for i := 0; i < mp.Len(); i++ {
		if mp.IsLand(i) {
			mp.Cells.Population[i] = 1
		}
	}
	return &world.RankedPack{Pack: mp.Pack}
}

func TestCulturesCoverReachableLand(t *testing.T) {
	rp := ranked(t, "cultures", 2000, heightmap.Continents)
	cp, diags := Generate(rp, DefaultOptions(5), core.NewRNG("c"))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
	p := cp.Pack
	if len(p.Cultures) != 6 {
		t.Fatalf("got %d cultures, want 5 plus the sentinel", len(p.Cultures)-1)
	}
	for id, cu := range p.Cultures[1:] {
		if cu.ID != id+1 {
			t.Fatalf("culture at %d has id %d", id+1, cu.ID)
		}
		if int(p.Cells.Culture[cu.Center]) != cu.ID {
			t.Fatalf("culture %d does not own its centre", cu.ID)
		}
		if cu.Cells == 0 || cu.Rural <= 0 {
			t.Fatalf("culture %d is empty", cu.ID)
		}
		if cu.Expansionism < 0 || cu.Expansionism >= 3 {
			t.Fatalf("culture %d expansionism %.2f", cu.ID, cu.Expansionism)
		}
	}
	for i := 0; i < p.Len(); i++ {
		if p.Cells.Population[i] <= 0 {
			if p.Cells.Culture[i] != 0 {
				t.Fatalf("unpopulated cell %d has culture %d", i, p.Cells.Culture[i])
			}
			continue
		}
		if p.Cells.Culture[i] != 0 {
			continue
		}
		for _, j := range p.Cells.Neighbors[i] {
			if p.Cells.Culture[j] != 0 {
				t.Fatalf("populated cell %d left unclaimed next to culture %d", i, p.Cells.Culture[j])
			}
		}
	}
}

func TestIsolatedIslandStaysUnclaimed(t *testing.T) {
	rp := twoIslands(t)
	cp, _ := Generate(rp, DefaultOptions(1), core.NewRNG("iso"))
	p := cp.Pack
	tiny := world.Point{X: 520, Y: 300}
	isolated := 0
	for i := 0; i < p.Len(); i++ {
		if !p.IsLand(i) {
			continue
		}
		if p.Cells.Points[i].Dist(tiny) < 20 {
			isolated++
			if p.Cells.Culture[i] != 0 {
				t.Fatalf("cell %d on the detached island got culture %d", i, p.Cells.Culture[i])
			}
		} else if p.Cells.Culture[i] != 1 {
			t.Fatalf("cell %d on the main island has culture %d", i, p.Cells.Culture[i])
		}
	}
	if isolated == 0 {
		t.Fatal("test map has no detached island cells")
	}
}

func TestTooManyCulturesDegrade(t *testing.T) {
	rp := ranked(t, "small", 200, heightmap.LowIsland)
	cp, diags := Generate(rp, DefaultOptions(50), core.NewRNG("degrade"))
	got := len(cp.Cultures) - 1
	if got >= 50 {
		t.Fatalf("got %d cultures on a 200 cell map", got)
	}
	found := false
	for _, d := range diags {
		if errors.Is(d, core.ErrInsufficientData) {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagnostics %v lack an insufficient data warning", diags)
	}
}
