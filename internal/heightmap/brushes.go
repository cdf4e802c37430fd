package heightmap

import (
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"

	"mapgen/pkg/core"
	"mapgen/pkg/world"
)

// maxStartTries bounds the search for a blob start cell.
const maxStartTries = 50

// painter applies brushes to a float height buffer.
type painter struct {
	g     *world.Grid
	h     []float64
	rng   *core.RNG
	noise opensimplex.Noise

	blobPower float64
	linePower float64
	seaLevel  float64
	w, hgt    float64
}

func (p *painter) clamp() {
	for i, v := range p.h {
		p.h[i] = math.Max(0, math.Min(world.MaxHeight, v))
	}
}

// wobble returns a multiplier in [0.7, 1.3] from three octaves of simplex
// noise, mixed 40/30/20 and renormalised. off decorrelates brushes.
func (p *painter) wobble(pt world.Point, off float64) float64 {
	x, y := pt.X/p.w+off, pt.Y/p.hgt+off
	n := 0.4*p.noise.Eval2(x*4, y*4) +
		0.3*p.noise.Eval2(x*8, y*8) +
		0.2*p.noise.Eval2(x*16, y*16)
	return 0.7 + 0.6*(n/0.9)
}

// blob raises (sign 1, Hill) or lowers (sign -1, Pit) round areas.
func (p *painter) blob(args [4]string, sign float64) error {
	num, err := parseRange(args[0])
	if err != nil {
		return err
	}
	height, err := parseRange(args[1])
	if err != nil {
		return err
	}
	rx, err := parseRange(args[2])
	if err != nil {
		return err
	}
	ry, err := parseRange(args[3])
	if err != nil {
		return err
	}

	pts := p.g.Cells.Points
	for n := num.count(p.rng); n > 0; n-- {
		h := math.Max(0, math.Min(world.MaxHeight, float64(height.count(p.rng))))
		start := -1
		for try := 0; try < maxStartTries; try++ {
			start = p.g.FindCell(rx.point(p.w, p.rng), ry.point(p.hgt, p.rng))
			if sign > 0 && p.h[start]+h <= 90 {
				break
			}
			if sign < 0 && p.h[start] >= p.seaLevel {
				break
			}
		}
		center := pts[start]
		r := math.Min(p.w, p.hgt) * (0.1 + 0.25*h/100)
		off := p.rng.Range(0, 1000)
		for i, pt := range pts {
			d := pt.Dist(center)
			if d >= r {
				continue
			}
			p.h[i] += sign * h * math.Pow(1-d/r, p.blobPower) * p.wobble(pt, off)
		}
		p.clamp()
	}
	return nil
}

// line raises (Range) or lowers (Trough) a corridor along a segment.
func (p *painter) line(args [4]string, sign float64) error {
	num, err := parseRange(args[0])
	if err != nil {
		return err
	}
	height, err := parseRange(args[1])
	if err != nil {
		return err
	}
	rx, err := parseRange(args[2])
	if err != nil {
		return err
	}
	ry, err := parseRange(args[3])
	if err != nil {
		return err
	}

	pts := p.g.Cells.Points
	for n := num.count(p.rng); n > 0; n-- {
		h := math.Max(0, math.Min(world.MaxHeight, float64(height.count(p.rng))))
		var a world.Point
		for try := 0; try < maxStartTries; try++ {
			a = world.Point{X: rx.point(p.w, p.rng), Y: ry.point(p.hgt, p.rng)}
			// troughs cut into land
			if sign > 0 || p.h[p.g.FindCell(a.X, a.Y)] >= p.seaLevel {
				break
			}
		}
		angle := p.rng.Range(0, 2*math.Pi)
		length := p.rng.Range(p.w/8, p.w/3)
		b := world.Point{
			X: math.Max(0, math.Min(p.w, a.X+math.Cos(angle)*length)),
			Y: math.Max(0, math.Min(p.hgt, a.Y+math.Sin(angle)*length)),
		}
		hw := math.Min(p.w, p.hgt) * (0.04 + 0.06*h/100)
		off := p.rng.Range(0, 1000)
		for i, pt := range pts {
			d := segmentDist(pt, a, b)
			if d >= hw {
				continue
			}
			p.h[i] += sign * h * math.Pow(1-d/hw, p.linePower) * p.wobble(pt, off)
		}
		p.clamp()
	}
	return nil
}

// strait carves a channel across the map. It never raises a cell: the path
// itself drops below sea level and each ring around it is pulled down by a
// power that weakens with distance.
func (p *painter) strait(args [4]string) error {
	num, err := parseRange(args[0])
	if err != nil {
		return err
	}
	vertical := false
	switch args[1] {
	case "vertical":
		vertical = true
	case "horizontal":
	default:
		return fmt.Errorf("%w: strait direction %q", core.ErrInvalidArgument, args[1])
	}

	cols := p.g.CellsX
	if cols == 0 {
		cols = int(math.Sqrt(float64(p.g.Len())))
	}
	width := min(num.count(p.rng), max(1, cols/3))
	if width < 1 {
		return nil
	}

	var sx, sy, ex, ey float64
	if vertical {
		sx = math.Floor(p.rng.Next()*p.w*0.4 + p.w*0.3)
		sy = 5
		ex = math.Floor(p.w - sx - p.w*0.1 + p.rng.Next()*p.w*0.2)
		ey = p.hgt - 5
	} else {
		sx = 5
		sy = math.Floor(p.rng.Next()*p.hgt*0.4 + p.hgt*0.3)
		ex = p.w - 5
		ey = math.Floor(p.hgt - sy - p.hgt*0.1 + p.rng.Next()*p.hgt*0.2)
	}
	path := p.walk(p.g.FindCell(sx, sy), p.g.FindCell(ex, ey))

	used := make([]bool, p.g.Len())
	for _, c := range path {
		used[c] = true
		p.h[c] = math.Min(p.h[c], p.seaLevel-5)
	}
	step := 0.1 / float64(width)
	ring := path
	for w := width; w > 0; w-- {
		exp := 0.9 - step*float64(w)
		var next []int
		for _, r := range ring {
			for _, e := range p.g.Cells.Neighbors[r] {
				if used[e] {
					continue
				}
				used[e] = true
				next = append(next, e)
				if p.h[e] > 1 {
					p.h[e] = math.Pow(p.h[e], exp)
				}
			}
		}
		ring = next
	}
	p.clamp()
	return nil
}

// walk greedily steps from start toward end through unvisited neighbors,
// sometimes favouring a worse step so the path meanders.
func (p *painter) walk(start, end int) []int {
	pts := p.g.Cells.Points
	used := make([]bool, p.g.Len())
	used[start] = true
	path := []int{start}
	cur := start
	for cur != end {
		best, bestD := -1, math.Inf(1)
		for _, e := range p.g.Cells.Neighbors[cur] {
			if used[e] {
				continue
			}
			d := pts[e].Dist2(pts[end])
			if p.rng.Next() > 0.85 {
				d /= 2
			}
			if d < bestD {
				best, bestD = e, d
			}
		}
		if best < 0 {
			break
		}
		cur = best
		used[cur] = true
		path = append(path, cur)
	}
	return path
}

// mask zeroes every cell below the threshold.
func (p *painter) mask(args [4]string) error {
	t, err := parseRange(args[0])
	if err != nil {
		return err
	}
	for i, v := range p.h {
		if v < t.lo {
			p.h[i] = 0
		}
	}
	return nil
}

// fade pulls heights toward zero near the map edges. A negative power fades
// the centre instead. Larger magnitudes soften the effect.
func (p *painter) fade(args [4]string) error {
	pw, err := parseRange(args[0])
	if err != nil {
		return err
	}
	fr := math.Abs(pw.lo)
	if fr == 0 {
		fr = 1
	}
	for i, pt := range p.g.Cells.Points {
		nx := 2*pt.X/p.w - 1
		ny := 2*pt.Y/p.hgt - 1
		d := (1 - nx*nx) * (1 - ny*ny)
		if pw.lo < 0 {
			d = 1 - d
		}
		masked := p.h[i] * d
		p.h[i] = (p.h[i]*(fr-1) + masked) / fr
	}
	p.clamp()
	return nil
}

// invert either reflects heights inside a "lo-hi" band, or with a chance
// mirrors the whole map across the x, y or both axes ("Invert 0.4 both").
func (p *painter) invert(args [4]string) error {
	r, err := parseRange(args[0])
	if err != nil {
		return err
	}
	if !r.single {
		for i, v := range p.h {
			if v >= r.lo && v <= r.hi {
				p.h[i] = r.lo + r.hi - v
			}
		}
		return nil
	}

	var fx, fy bool
	switch args[1] {
	case "x":
		fx = true
	case "y":
		fy = true
	case "both":
		fx, fy = true, true
	default:
		return fmt.Errorf("%w: invert axis %q", core.ErrInvalidArgument, args[1])
	}
	if !p.rng.Chance(r.lo) {
		return nil
	}
	old := append([]float64(nil), p.h...)
	for i, pt := range p.g.Cells.Points {
		x, y := pt.X, pt.Y
		if fx {
			x = p.w - x
		}
		if fy {
			y = p.hgt - y
		}
		p.h[i] = old[p.g.FindCell(x, y)]
	}
	return nil
}

// smooth replaces each height with the mean of itself and its neighbors,
// repeated the given number of passes.
func (p *painter) smooth(args [4]string) error {
	r, err := parseRange(args[0])
	if err != nil {
		return err
	}
	passes := max(1, int(r.lo))
	next := make([]float64, len(p.h))
	for ; passes > 0; passes-- {
		for i, nb := range p.g.Cells.Neighbors {
			sum := p.h[i]
			for _, j := range nb {
				sum += p.h[j]
			}
			next[i] = sum / float64(len(nb)+1)
		}
		p.h, next = next, p.h
	}
	p.clamp()
	return nil
}

// modify implements Add (add != 0) and Multiply (mult != 1) over a band.
// On the "land" band results never drop below sea level and scaling is
// relative to it.
func (p *painter) modify(target string, add, mult float64) error {
	lo, hi, land, err := band(target, p.seaLevel)
	if err != nil {
		return err
	}
	for i, v := range p.h {
		if v < lo || v > hi {
			continue
		}
		if add != 0 {
			v += add
			if land {
				v = math.Max(v, p.seaLevel)
			}
		}
		if mult != 1 {
			if land {
				v = (v-p.seaLevel)*mult + p.seaLevel
			} else {
				v *= mult
			}
		}
		p.h[i] = v
	}
	p.clamp()
	return nil
}

// segmentDist returns the distance from p to the segment ab.
func segmentDist(p, a, b world.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(world.Point{X: a.X + t*dx, Y: a.Y + t*dy})
}
