package world

import "math"

// MaxHeight is the ceiling of the elevation scale.
const MaxHeight = 100

// DefaultSeaLevel is the default land threshold: cells at or above it are land.
const DefaultSeaLevel = 20

// Point is a 2D map coordinate.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Dist2 returns the squared Euclidean distance between p and q.
func (p Point) Dist2(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Layout selects how seed points are placed.
type Layout uint8

const (
	// LayoutJittered places points on a rectangular grid with random offsets.
	LayoutJittered Layout = iota
	// LayoutRandom places points uniformly at random.
	LayoutRandom
)

func (l Layout) String() string {
	if l == LayoutRandom {
		return "random"
	}
	return "jittered"
}

// Cells is the Voronoi cell table. All slices are indexed by cell.
type Cells struct {
	// Points holds the seed point of each cell.
	Points []Point
	// Verts lists the ring of Voronoi vertex indices around each cell.
	Verts [][]int
	// Neighbors lists the adjacent cell indices.
	Neighbors [][]int
	// Border is set when part of the cell boundary lies outside the map.
	Border []bool
}

// Len returns the number of cells.
func (c *Cells) Len() int { return len(c.Points) }

// Vertices is the Voronoi vertex table. One vertex per Delaunay triangle.
type Vertices struct {
	// Points holds the triangle circumcenters.
	Points []Point
	// Neighbors lists adjacent vertices (circumcenters of adjacent triangles).
	Neighbors [][]int
	// Cells lists the three cells incident to each vertex.
	Cells [][3]int
}

// Grid is the geometric substrate: seed points and their Voronoi dual.
type Grid struct {
	Width, Height  int
	Spacing        float64
	CellsX, CellsY int
	Layout         Layout

	Cells    Cells
	Vertices Vertices
	// Boundary holds the helper points placed outside the map.
	Boundary []Point
}

// Len returns the number of cells.
func (g *Grid) Len() int { return g.Cells.Len() }

// FindCell returns the index of the cell containing (x, y). Jittered grids
// resolve in constant time; random layouts fall back to a nearest-point scan.
func (g *Grid) FindCell(x, y float64) int {
	if g.Len() == 0 {
		return -1
	}
	if g.Layout == LayoutJittered && g.CellsX > 0 && g.CellsY > 0 && g.CellsX*g.CellsY == g.Len() {
		col := int(math.Floor(math.Min(x/g.Spacing, float64(g.CellsX-1))))
		row := int(math.Floor(math.Min(y/g.Spacing, float64(g.CellsY-1))))
		if col < 0 {
			col = 0
		}
		if row < 0 {
			row = 0
		}
		return row*g.CellsX + col
	}
	return Nearest(g.Cells.Points, Point{X: x, Y: y})
}

// Nearest returns the index of the point closest to p, or -1 for no points.
// Ties go to the lower index.
func Nearest(points []Point, p Point) int {
	best, bestD := -1, math.Inf(1)
	for i, q := range points {
		if d := q.Dist2(p); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// HeightGrid is a Grid with elevation attached.
type HeightGrid struct {
	*Grid
	// Heights is 0..MaxHeight per cell.
	Heights []uint8
}

// FeatureGrid is a HeightGrid with features and the coastline distance field.
type FeatureGrid struct {
	*HeightGrid
	SeaLevel uint8
	// Feature holds the feature id of each cell (ids start at 1).
	Feature []int32
	// Distance is the signed distance to the coastline: +1 land coast,
	// -1 water coast, growing in magnitude away from it.
	Distance []int8
	// Features[0] is the sentinel.
	Features []Feature
}

// ClimateGrid is a FeatureGrid with temperature and precipitation.
type ClimateGrid struct {
	*FeatureGrid
	// Temperature in degrees Celsius.
	Temperature []int8
	// Precipitation in arbitrary flux units.
	Precipitation []uint8
}
