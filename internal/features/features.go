// Package features splits the map into connected land and water regions and
// measures every cell's signed distance to the coastline.
package features

import (
	"slices"

	"github.com/zyedidia/generic/queue"

	"mapgen/pkg/world"
)

// Options controls feature markup.
type Options struct {
	// SeaLevel is the land threshold: heights at or above it are land.
	SeaLevel uint8
	// MaxDistance caps the distance field magnitude.
	MaxDistance int8
}

// DefaultOptions returns sea level 20 and the full int8 distance range.
func DefaultOptions() Options {
	return Options{SeaLevel: world.DefaultSeaLevel, MaxDistance: 127}
}

// MarkupGrid assigns a feature to every cell and computes the distance field.
//
// Cells are scanned in index order and each unmarked cell seeds a flood fill
// over neighbors with the same land/water class, so feature ids are stable
// for a given grid. Water touching the map edge is ocean, other water is a
// lake and land is an island.
func MarkupGrid(hg *world.HeightGrid, opts Options) *world.FeatureGrid {
	if opts.MaxDistance <= 0 {
		opts.MaxDistance = 127
	}
	n := hg.Len()
	fg := &world.FeatureGrid{
		HeightGrid: hg,
		SeaLevel:   opts.SeaLevel,
		Feature:    make([]int32, n),
		Distance:   make([]int8, n),
		Features:   make([]world.Feature, 1),
	}
	land := func(i int) bool { return hg.Heights[i] >= opts.SeaLevel }

	q := queue.New[int]()
	for start := 0; start < n; start++ {
		if fg.Feature[start] != 0 {
			continue
		}
		id := int32(len(fg.Features))
		isLand := land(start)
		f := world.Feature{ID: int(id), Land: isLand, FirstCell: start, Outlet: -1}
		fg.Feature[start] = id
		q.Enqueue(start)
		for !q.Empty() {
			c := q.Dequeue()
			f.Cells = append(f.Cells, c)
			if hg.Cells.Border[c] {
				f.Border = true
			}
			for _, nb := range hg.Cells.Neighbors[c] {
				if fg.Feature[nb] == 0 && land(nb) == isLand {
					fg.Feature[nb] = id
					q.Enqueue(nb)
				}
			}
		}
		slices.Sort(f.Cells)
		switch {
		case isLand:
			f.Type = world.FeatureIsland
		case f.Border:
			f.Type = world.FeatureOcean
		default:
			f.Type = world.FeatureLake
		}
		fg.Features = append(fg.Features, f)
	}

	fg.Distance = DistanceField(hg.Cells.Neighbors, land, opts.MaxDistance)
	return fg
}

// DistanceField returns the signed coast distance of every cell. Land cells
// next to water get 1 and water cells next to land get -1; both sides then
// grow one level at a time, each level finished before the next starts, up
// to limit in magnitude. Cells no coast can reach stay 0.
func DistanceField(neighbors [][]int, land func(int) bool, limit int8) []int8 {
	n := len(neighbors)
	dist := make([]int8, n)
	var landFront, waterFront []int
	for i := 0; i < n; i++ {
		for _, j := range neighbors[i] {
			if land(i) != land(j) {
				if land(i) {
					dist[i] = 1
					landFront = append(landFront, i)
				} else {
					dist[i] = -1
					waterFront = append(waterFront, i)
				}
				break
			}
		}
	}
	grow(neighbors, dist, landFront, 1, limit)
	grow(neighbors, dist, waterFront, -1, limit)
	return dist
}

// grow expands one side of the distance field level by level.
func grow(neighbors [][]int, dist []int8, front []int, sign, limit int8) {
	for level := int8(1); level < limit && len(front) > 0; level++ {
		var next []int
		for _, c := range front {
			for _, nb := range neighbors[c] {
				// unmarked cells on this side are never adjacent to the other side
				if dist[nb] == 0 {
					dist[nb] = sign * (level + 1)
					next = append(next, nb)
				}
			}
		}
		front = next
	}
}
