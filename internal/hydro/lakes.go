package hydro

import (
	"slices"

	"github.com/zyedidia/generic/queue"

	"mapgen/pkg/world"
)

// lakeLevels sets the water level and outlet of every lake and decides
// whether it is closed. It returns, per cell, the id of the open lake the
// cell drains (0 for none).
func (s *solver) lakeLevels() []int32 {
	p := s.p
	outletOf := make([]int32, p.Len())
	for id := 1; id < len(p.Features); id++ {
		f := &p.Features[id]
		if f.Type != world.FeatureLake || len(f.Shoreline) == 0 {
			continue
		}
		shore := slices.Clone(f.Shoreline)
		slices.SortStableFunc(shore, func(a, b int) int { return cmpFloat(s.h[a], s.h[b]) })
		lowest := shore[0]

		f.Height = max(s.h[lowest]-s.opts.LakeDelta, 1)
		f.Outlet = lowest
		for _, c := range f.Cells {
			p.Cells.Outlet[c] = int32(lowest)
		}
		s.isLake[id] = true
	}

	// closedness needs every lake's level, so it runs after all are set
	for id := 1; id < len(p.Features); id++ {
		if !s.isLake[id] {
			continue
		}
		f := &p.Features[id]
		f.Closed = s.closed(f)
		if !f.Closed {
			outletOf[f.Outlet] = int32(id)
		}
	}
	return outletOf
}

// closed reports whether water in the lake cannot escape: a search from the
// lowest shoreline cell through cells below level+limit never reaches the
// ocean or a lower lake. Lakes whose search ceiling exceeds 99 are open.
func (s *solver) closed(f *world.Feature) bool {
	p := s.p
	ceiling := f.Height + s.opts.LakeElevationLimit
	if ceiling > 99 {
		return false
	}
	s.marks.Clear()
	q := queue.New[int]()
	q.Enqueue(f.Outlet)
	s.marks.Put(f.Outlet)
	for !q.Empty() {
		c := q.Dequeue()
		for _, nb := range p.Cells.Neighbors[c] {
			if s.marks.Has(nb) || s.h[nb] >= ceiling {
				continue
			}
			s.marks.Put(nb)
			if !p.IsLand(nb) {
				other := &p.Features[p.Cells.Feature[nb]]
				if other.Type == world.FeatureOcean {
					return false
				}
				if other.Type == world.FeatureLake && other.ID != f.ID && other.Height < f.Height {
					return false
				}
			}
			q.Enqueue(nb)
		}
	}
	return true
}

// raiseShores keeps every shoreline cell above its lake's water level.
func (s *solver) raiseShores() {
	for id := 1; id < len(s.p.Features); id++ {
		if !s.isLake[id] {
			continue
		}
		f := &s.p.Features[id]
		for _, c := range f.Shoreline {
			s.h[c] = max(s.h[c], f.Height+shoreEpsilon)
		}
	}
}
