// Package voronoi builds the cell graph every later stage works on: seed
// points, their Delaunay triangulation and the Voronoi dual derived from it.
package voronoi

import (
	"fmt"

	"github.com/fogleman/delaunay"

	"mapgen/pkg/core"
	"mapgen/pkg/world"
)

// DefaultJitter is the default fraction of half the spacing a jittered point
// may move off its lattice position.
const DefaultJitter = 0.9

// Options controls grid construction.
type Options struct {
	Cells  int
	Width  int
	Height int
	Layout world.Layout
	// Jitter is clamped to [0, 1]. Only used by the jittered layout.
	Jitter float64
}

// DefaultOptions returns a jittered layout for the given size.
func DefaultOptions(cells, width, height int) Options {
	return Options{Cells: cells, Width: width, Height: height, Layout: world.LayoutJittered, Jitter: DefaultJitter}
}

// Build places seed points and derives the Voronoi cell and vertex tables.
func Build(opts Options, rng *core.RNG) (*world.Grid, error) {
	if opts.Cells <= 0 || opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: grid needs positive cells and size, got %d cells on %dx%d",
			core.ErrInvalidArgument, opts.Cells, opts.Width, opts.Height)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil rng", core.ErrInvalidArgument)
	}
	jitter := opts.Jitter
	if jitter < 0 {
		jitter = 0
	} else if jitter > 1 {
		jitter = 1
	}

	spacing := Spacing(opts.Width, opts.Height, opts.Cells)
	if spacing <= 0 {
		return nil, fmt.Errorf("%w: %d cells do not fit %dx%d", core.ErrInvalidArgument, opts.Cells, opts.Width, opts.Height)
	}

	g := &world.Grid{Width: opts.Width, Height: opts.Height, Spacing: spacing, Layout: opts.Layout}
	var (
		points []world.Point
		err    error
	)
	switch opts.Layout {
	case world.LayoutRandom:
		points, err = randomPoints(opts.Width, opts.Height, opts.Cells, rng)
	default:
		g.Layout = world.LayoutJittered
		points, g.CellsX, g.CellsY, err = jitteredPoints(opts.Width, opts.Height, spacing, jitter, rng)
	}
	if err != nil {
		return nil, err
	}
	if len(points) < 3 {
		return nil, fmt.Errorf("%w: %d seed points, need at least 3", core.ErrInvalidArgument, len(points))
	}
	g.Boundary = boundaryPoints(opts.Width, opts.Height, spacing)

	all := make([]delaunay.Point, 0, len(points)+len(g.Boundary))
	for _, p := range points {
		all = append(all, delaunay.Point{X: p.X, Y: p.Y})
	}
	for _, p := range g.Boundary {
		all = append(all, delaunay.Point{X: p.X, Y: p.Y})
	}
	tri, err := delaunay.Triangulate(all)
	if err != nil {
		return nil, fmt.Errorf("%w: triangulation failed: %v", core.ErrGeometryDegeneracy, err)
	}
	if len(tri.Triangles) == 0 {
		return nil, fmt.Errorf("%w: triangulation produced no triangles", core.ErrGeometryDegeneracy)
	}

	g.Cells, g.Vertices = dual(points, tri)
	return g, nil
}

// mesh wraps the flat half-edge arrays of a triangulation.
type mesh struct {
	triangles []int
	halfedges []int
	points    []delaunay.Point
}

func nextHalfedge(e int) int {
	if e%3 == 2 {
		return e - 2
	}
	return e + 1
}

func triangleOf(e int) int { return e / 3 }

// opposite returns the twin of half-edge e. The second result is false on
// the hull, where e has no twin.
func (m *mesh) opposite(e int) (int, bool) {
	o := m.halfedges[e]
	return o, o >= 0
}

// edgesAround walks the half-edges entering the point that start enters. The
// second result is false when the walk hit the hull before closing the ring.
func (m *mesh) edgesAround(start int) ([]int, bool) {
	var ring []int
	in := start
	for {
		ring = append(ring, in)
		o, ok := m.opposite(nextHalfedge(in))
		if !ok {
			return ring, false
		}
		in = o
		if in == start {
			return ring, true
		}
	}
}

func (m *mesh) circumcenter(t int) world.Point {
	a := m.points[m.triangles[3*t]]
	b := m.points[m.triangles[3*t+1]]
	c := m.points[m.triangles[3*t+2]]
	ad := a.X*a.X + a.Y*a.Y
	bd := b.X*b.X + b.Y*b.Y
	cd := c.X*c.X + c.Y*c.Y
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if d == 0 {
		return world.Point{X: (a.X + b.X + c.X) / 3, Y: (a.Y + b.Y + c.Y) / 3}
	}
	return world.Point{
		X: (ad*(b.Y-c.Y) + bd*(c.Y-a.Y) + cd*(a.Y-b.Y)) / d,
		Y: (ad*(c.X-b.X) + bd*(a.X-c.X) + cd*(b.X-a.X)) / d,
	}
}

// dual derives the Voronoi cells of the first len(points) triangulation
// points and one vertex per triangle. Boundary helper points get no cell;
// they show up as -1 in Vertices.Cells.
func dual(points []world.Point, tri *delaunay.Triangulation) (world.Cells, world.Vertices) {
	n := len(points)
	m := &mesh{triangles: tri.Triangles, halfedges: tri.Halfedges, points: tri.Points}
	nt := len(m.triangles) / 3

	cells := world.Cells{
		Points:    append([]world.Point(nil), points...),
		Verts:     make([][]int, n),
		Neighbors: make([][]int, n),
		Border:    make([]bool, n),
	}
	verts := world.Vertices{
		Points:    make([]world.Point, nt),
		Neighbors: make([][]int, nt),
		Cells:     make([][3]int, nt),
	}
	built := make([]bool, n)
	vbuilt := make([]bool, nt)

	for e := range m.triangles {
		p := m.triangles[nextHalfedge(e)]
		if p < n && !built[p] {
			built[p] = true
			ring, closed := m.edgesAround(e)
			vs := make([]int, len(ring))
			nb := make([]int, 0, len(ring))
			for i, in := range ring {
				vs[i] = triangleOf(in)
				if q := m.triangles[in]; q < n {
					nb = append(nb, q)
				}
			}
			cells.Verts[p] = vs
			cells.Neighbors[p] = nb
			cells.Border[p] = !closed || len(nb) < len(ring)
		}

		t := triangleOf(e)
		if vbuilt[t] {
			continue
		}
		vbuilt[t] = true
		verts.Points[t] = m.circumcenter(t)
		var adj []int
		for k := 0; k < 3; k++ {
			if o, ok := m.opposite(3*t + k); ok {
				adj = append(adj, triangleOf(o))
			}
		}
		verts.Neighbors[t] = adj
		for k := 0; k < 3; k++ {
			c := m.triangles[3*t+k]
			if c >= n {
				c = -1
			}
			verts.Cells[t][k] = c
		}
	}
	return cells, verts
}
