package world

import (
	"regexp"
	"strings"
	"testing"
)

// triangle builds a three-cell grid by hand.
func triangle() *ClimateGrid {
	g := &Grid{
		Width: 10, Height: 10,
		Cells: Cells{
			Points:    []Point{{1, 1}, {9, 1}, {5, 9}},
			Verts:     [][]int{{0}, {0}, {0}},
			Neighbors: [][]int{{1, 2}, {0, 2}, {0, 1}},
			Border:    []bool{true, true, true},
		},
		Vertices: Vertices{
			Points:    []Point{{5, 4}},
			Neighbors: [][]int{{}},
			Cells:     [][3]int{{0, 1, 2}},
		},
	}
	hg := &HeightGrid{Grid: g, Heights: []uint8{10, 30, 50}}
	fg := &FeatureGrid{HeightGrid: hg, SeaLevel: DefaultSeaLevel, Feature: make([]int32, 3), Distance: make([]int8, 3), Features: make([]Feature, 1)}
	return &ClimateGrid{FeatureGrid: fg, Temperature: []int8{5, 6, 7}, Precipitation: []uint8{1, 2, 3}}
}

func TestNewPackCopiesGrid(t *testing.T) {
	cg := triangle()
	p := NewPack(cg)
	if err := p.Cells.Validate(); err != nil {
		t.Fatal(err)
	}
	if p.IsLand(0) || !p.IsLand(1) {
		t.Fatal("land test should follow the sea level")
	}
	p.Cells.Heights[0] = 99
	p.Cells.Neighbors[0][0] = 2
	p.Cells.Temperature[1] = -1
	if cg.Heights[0] != 10 || cg.Cells.Neighbors[0][0] != 1 || cg.Temperature[1] != 6 {
		t.Fatal("mutating the pack changed the grid")
	}
	if !p.IsLand(0) {
		t.Fatal("land test should read the pack's own heights")
	}
	if p.Cells.Haven[2] != -1 || p.Cells.Outlet[2] != -1 {
		t.Fatal("haven and outlet should start unset")
	}
	if len(p.Cultures) != 1 || len(p.States) != 1 || len(p.Religions) != 1 || len(p.Rivers) != 1 {
		t.Fatal("collections should start with only their sentinel")
	}
}

func TestValidateReportsShortArray(t *testing.T) {
	p := NewPack(triangle())
	p.Cells.Flux = p.Cells.Flux[:2]
	err := p.Cells.Validate()
	if err == nil || !strings.Contains(err.Error(), "flux") {
		t.Fatalf("got %v", err)
	}
}

func TestFindCellAndNearest(t *testing.T) {
	g := &Grid{
		Width: 20, Height: 20, Spacing: 10, CellsX: 2, CellsY: 2,
		Cells: Cells{Points: []Point{{5, 5}, {15, 5}, {5, 15}, {15, 15}}},
	}
	if got := g.FindCell(17, 3); got != 1 {
		t.Fatalf("jittered lookup gave %d", got)
	}
	if got := g.FindCell(25, 25); got != 3 {
		t.Fatalf("outside point should clamp, got %d", got)
	}
	g.Layout = LayoutRandom
	if got := g.FindCell(4, 16); got != 2 {
		t.Fatalf("random lookup gave %d", got)
	}
	if Nearest(nil, Point{}) != -1 {
		t.Fatal("no points should give -1")
	}
}

func TestPaletteDistinct(t *testing.T) {
	hex := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	seen := map[string]bool{}
	for i := 1; i <= 30; i++ {
		c := Palette(i)
		if !hex.MatchString(c) {
			t.Fatalf("palette %d gave %q", i, c)
		}
		if seen[c] {
			t.Fatalf("palette repeated %q at %d", c, i)
		}
		seen[c] = true
	}
}
