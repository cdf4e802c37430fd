package features

import (
	"testing"

	"mapgen/internal/voronoi"
	"mapgen/pkg/core"
	"mapgen/pkg/world"
)

// ringIsland builds a map with an ocean along the edges, a land ring and a
// lake in the middle.
func ringIsland(t *testing.T) *world.HeightGrid {
	t.Helper()
	g, err := voronoi.Build(voronoi.DefaultOptions(1200, 500, 500), core.NewRNG("features"))
	if err != nil {
		t.Fatal(err)
	}
	hg := &world.HeightGrid{Grid: g, Heights: make([]uint8, g.Len())}
	center := world.Point{X: 250, Y: 250}
	for i, p := range g.Cells.Points {
		switch d := p.Dist(center); {
		case d < 50:
			hg.Heights[i] = 5
		case d < 200:
			hg.Heights[i] = 50
		default:
			hg.Heights[i] = 10
		}
	}
	return hg
}

func TestFeaturesPartitionCells(t *testing.T) {
	fg := MarkupGrid(ringIsland(t), DefaultOptions())
	owner := make([]int, fg.Len())
	for i := range owner {
		owner[i] = -1
	}
	for id := 1; id < len(fg.Features); id++ {
		f := fg.Features[id]
		if f.ID != id {
			t.Fatalf("feature %d has id %d", id, f.ID)
		}
		for _, c := range f.Cells {
			if owner[c] != -1 {
				t.Fatalf("cell %d in features %d and %d", c, owner[c], id)
			}
			owner[c] = id
		}
	}
	for i, o := range owner {
		if o == -1 {
			t.Fatalf("cell %d belongs to no feature", i)
		}
		if int(fg.Feature[i]) != o {
			t.Fatalf("cell %d: Feature says %d, lists say %d", i, fg.Feature[i], o)
		}
	}
}

func TestFeatureTypes(t *testing.T) {
	fg := MarkupGrid(ringIsland(t), DefaultOptions())
	counts := map[world.FeatureType]int{}
	for _, f := range fg.Features[1:] {
		counts[f.Type]++
	}
	if counts[world.FeatureOcean] != 1 || counts[world.FeatureIsland] != 1 || counts[world.FeatureLake] != 1 {
		t.Fatalf("feature types = %v, want one each of ocean, island, lake", counts)
	}
	center := fg.FindCell(250, 250)
	if f := fg.Features[fg.Feature[center]]; f.Type != world.FeatureLake || f.Border {
		t.Fatalf("centre feature = %+v, want an enclosed lake", f.Type)
	}
}

func TestDistanceFieldIsBFS(t *testing.T) {
	fg := MarkupGrid(ringIsland(t), DefaultOptions())
	land := func(i int) bool { return fg.Heights[i] >= fg.SeaLevel }
	for i, d := range fg.Distance {
		if d == 0 {
			t.Fatalf("cell %d was not reached", i)
		}
		if land(i) != (d > 0) {
			t.Fatalf("cell %d: sign of %d disagrees with land=%v", i, d, land(i))
		}
		hasCloser := d == 1 || d == -1
		for _, j := range fg.Cells.Neighbors[i] {
			dj := fg.Distance[j]
			if land(i) != land(j) {
				if d != 1 && d != -1 {
					t.Fatalf("cell %d touches the coast but has distance %d", i, d)
				}
				continue
			}
			if diff := int(d) - int(dj); diff > 1 || diff < -1 {
				t.Fatalf("neighbors %d (%d) and %d (%d) jump more than one level", i, d, j, dj)
			}
			if (d > 0 && dj == d-1) || (d < 0 && dj == d+1) {
				hasCloser = true
			}
		}
		if !hasCloser {
			t.Fatalf("cell %d at %d has no neighbor one step closer to the coast", i, d)
		}
	}
}

func TestDistanceFieldCap(t *testing.T) {
	// a path of 10 cells: one water cell then land
	n := 10
	nb := make([][]int, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			nb[i] = append(nb[i], i-1)
		}
		if i < n-1 {
			nb[i] = append(nb[i], i+1)
		}
	}
	d := DistanceField(nb, func(i int) bool { return i > 0 }, 4)
	want := []int8{-1, 1, 2, 3, 4, 0, 0, 0, 0, 0}
	for i := range want {
		if d[i] != want[i] {
			t.Fatalf("distance = %v, want %v", d, want)
		}
	}
}

func TestMarkupPack(t *testing.T) {
	fg := MarkupGrid(ringIsland(t), DefaultOptions())
	cg := &world.ClimateGrid{
		FeatureGrid:   fg,
		Temperature:   make([]int8, fg.Len()),
		Precipitation: make([]uint8, fg.Len()),
	}
	mp := MarkupPack(world.NewPack(cg), fg)
	p := mp.Pack
	if err := p.Cells.Validate(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < p.Len(); i++ {
		if p.Cells.Feature[i] != fg.Feature[i] || p.Cells.Distance[i] != fg.Distance[i] {
			t.Fatalf("cell %d not projected", i)
		}
		if p.Cells.Area[i] <= 0 {
			t.Fatalf("cell %d has area %v", i, p.Cells.Area[i])
		}
		if p.IsLand(i) && p.Cells.Distance[i] == 1 {
			h := p.Cells.Haven[i]
			if h < 0 || p.IsLand(int(h)) || p.Cells.Harbor[i] == 0 {
				t.Fatalf("coastal cell %d: haven %d harbor %d", i, h, p.Cells.Harbor[i])
			}
		} else if p.Cells.Haven[i] != -1 {
			t.Fatalf("non-coastal cell %d has haven %d", i, p.Cells.Haven[i])
		}
	}
	for _, f := range p.Features[1:] {
		if f.Type == world.FeatureLake && len(f.Shoreline) == 0 {
			t.Fatal("lake without a shoreline")
		}
	}
}
