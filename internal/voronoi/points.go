package voronoi

import (
	"fmt"
	"math"

	"github.com/zyedidia/generic/mapset"

	"mapgen/pkg/core"
	"mapgen/pkg/world"
)

// maxRedraws bounds how often a random point is redrawn after a collision.
const maxRedraws = 64

// Spacing returns the nominal distance between seed points for the requested
// cell count, rounded to two decimals.
func Spacing(width, height, cells int) float64 {
	return round2(math.Sqrt(float64(width) * float64(height) / float64(cells)))
}

// jitteredPoints lays points on a square lattice and offsets each one by up
// to jitter*spacing/2 on both axes. Points come out row-major, so a point's
// index is row*cols+col.
func jitteredPoints(width, height int, spacing, jitter float64, rng *core.RNG) ([]world.Point, int, int, error) {
	radius := spacing / 2
	amp := radius * jitter
	w, h := float64(width), float64(height)

	cols := 0
	for x := radius; x < w; x = radius + float64(cols)*spacing {
		cols++
	}
	rows := 0
	for y := radius; y < h; y = radius + float64(rows)*spacing {
		rows++
	}

	points := make([]world.Point, 0, cols*rows)
	seen := mapset.New[world.Point]()
	for r := 0; r < rows; r++ {
		y := radius + float64(r)*spacing
		for c := 0; c < cols; c++ {
			x := radius + float64(c)*spacing
			p := world.Point{
				X: math.Min(round2(x+rng.Range(-amp, amp)), w),
				Y: math.Min(round2(y+rng.Range(-amp, amp)), h),
			}
			if seen.Has(p) {
				return nil, 0, 0, fmt.Errorf("%w: duplicate seed point (%.2f, %.2f)", core.ErrGeometryDegeneracy, p.X, p.Y)
			}
			seen.Put(p)
			points = append(points, p)
		}
	}
	return points, cols, rows, nil
}

// randomPoints draws n uniformly distributed points, redrawing any point
// whose rounded coordinates repeat an earlier one.
func randomPoints(width, height, n int, rng *core.RNG) ([]world.Point, error) {
	points := make([]world.Point, 0, n)
	seen := mapset.New[world.Point]()
	for len(points) < n {
		var p world.Point
		ok := false
		for try := 0; try < maxRedraws; try++ {
			p = world.Point{
				X: round2(rng.Range(0, float64(width))),
				Y: round2(rng.Range(0, float64(height))),
			}
			if !seen.Has(p) {
				ok = true
				break
			}
		}
		if !ok {
			return nil, fmt.Errorf("%w: could not place %d distinct points", core.ErrGeometryDegeneracy, n)
		}
		seen.Put(p)
		points = append(points, p)
	}
	return points, nil
}

// boundaryPoints returns a ring of helper points one spacing outside the map
// so that every real cell is enclosed by the triangulation.
func boundaryPoints(width, height int, spacing float64) []world.Point {
	offset := math.Round(-spacing)
	step := spacing * 2
	w := float64(width) - offset*2
	h := float64(height) - offset*2
	nx := int(math.Ceil(w/step)) - 1
	ny := int(math.Ceil(h/step)) - 1
	if nx < 1 {
		nx = 1
	}
	if ny < 1 {
		ny = 1
	}

	var out []world.Point
	for i := 0.5; i < float64(nx); i++ {
		x := math.Ceil(w*i/float64(nx) + offset)
		out = append(out, world.Point{X: x, Y: offset}, world.Point{X: x, Y: h + offset})
	}
	for i := 0.5; i < float64(ny); i++ {
		y := math.Ceil(h*i/float64(ny) + offset)
		out = append(out, world.Point{X: offset, Y: y}, world.Point{X: w + offset, Y: y})
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
