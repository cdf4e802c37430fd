package voronoi

import (
	"errors"
	"slices"
	"testing"

	"mapgen/pkg/core"
	"mapgen/pkg/world"
)

func buildGrid(t *testing.T, opts Options, seed string) *world.Grid {
	t.Helper()
	g, err := Build(opts, core.NewRNG(seed))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return g
}

func TestAdjacencyIsSymmetric(t *testing.T) {
	for _, layout := range []world.Layout{world.LayoutJittered, world.LayoutRandom} {
		opts := DefaultOptions(500, 400, 300)
		opts.Layout = layout
		g := buildGrid(t, opts, "sym")
		for i, nb := range g.Cells.Neighbors {
			if len(nb) == 0 {
				t.Fatalf("%s: cell %d has no neighbors", layout, i)
			}
			for _, j := range nb {
				if j == i {
					t.Fatalf("%s: cell %d lists itself", layout, i)
				}
				if !slices.Contains(g.Cells.Neighbors[j], i) {
					t.Fatalf("%s: %d -> %d is not mirrored", layout, i, j)
				}
			}
		}
	}
}

func TestInteriorRingsAreClosed(t *testing.T) {
	g := buildGrid(t, DefaultOptions(800, 500, 500), "rings")
	interior := 0
	for i := range g.Cells.Points {
		if g.Cells.Border[i] {
			continue
		}
		interior++
		vs := g.Cells.Verts[i]
		if len(vs) < 3 || len(vs) != len(g.Cells.Neighbors[i]) {
			t.Fatalf("cell %d: %d verts, %d neighbors", i, len(vs), len(g.Cells.Neighbors[i]))
		}
		// consecutive ring vertices are adjacent triangles, including the wrap
		for k := range vs {
			a, b := vs[k], vs[(k+1)%len(vs)]
			if !slices.Contains(g.Vertices.Neighbors[a], b) {
				t.Fatalf("cell %d: ring vertices %d and %d are not adjacent", i, a, b)
			}
		}
		for _, v := range vs {
			if !slices.Contains(g.Vertices.Cells[v][:], i) {
				t.Fatalf("cell %d: vertex %d does not list the cell", i, v)
			}
		}
	}
	if interior == 0 {
		t.Fatal("expected interior cells")
	}
}

func TestBorderCellsTouchEdges(t *testing.T) {
	g := buildGrid(t, DefaultOptions(400, 400, 400), "border")
	for i, p := range g.Cells.Points {
		m := 3 * g.Spacing
		nearEdge := p.X < m || p.Y < m || p.X > float64(g.Width)-m || p.Y > float64(g.Height)-m
		if g.Cells.Border[i] && !nearEdge {
			t.Fatalf("cell %d at (%.1f, %.1f) flagged border away from the edge", i, p.X, p.Y)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a := buildGrid(t, DefaultOptions(300, 300, 200), "same")
	b := buildGrid(t, DefaultOptions(300, 300, 200), "same")
	if !slices.Equal(a.Cells.Points, b.Cells.Points) {
		t.Fatal("points differ for identical seeds")
	}
	for i := range a.Cells.Neighbors {
		if !slices.Equal(a.Cells.Neighbors[i], b.Cells.Neighbors[i]) {
			t.Fatalf("neighbors of %d differ", i)
		}
	}
	c := buildGrid(t, DefaultOptions(300, 300, 200), "other")
	if slices.Equal(a.Cells.Points, c.Cells.Points) {
		t.Fatal("different seeds produced identical points")
	}
}

func TestFindCellJittered(t *testing.T) {
	g := buildGrid(t, DefaultOptions(1000, 500, 500), "find")
	if g.CellsX*g.CellsY != g.Len() {
		t.Fatalf("lattice %dx%d does not match %d cells", g.CellsX, g.CellsY, g.Len())
	}
	for i, p := range g.Cells.Points {
		if got := g.FindCell(p.X, p.Y); got != i {
			t.Fatalf("FindCell(%v) = %d, want %d", p, got, i)
		}
	}
}

func TestInvalidOptions(t *testing.T) {
	rng := core.NewRNG("bad")
	for _, opts := range []Options{
		{Cells: 0, Width: 100, Height: 100},
		{Cells: 10, Width: 0, Height: 100},
		{Cells: 10, Width: 100, Height: -5},
	} {
		if _, err := Build(opts, rng); !errors.Is(err, core.ErrInvalidArgument) {
			t.Fatalf("%+v: got %v, want invalid argument", opts, err)
		}
	}
	if _, err := Build(DefaultOptions(1, 10, 10), rng); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("single point: got %v", err)
	}
}
