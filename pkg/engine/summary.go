package engine

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"mapgen/pkg/world"
)

// Summary condenses a generated map into headline numbers.
type Summary struct {
	Seed        string        `json:"seed"`
	Template    string        `json:"template"`
	Cells       int           `json:"cells"`
	LandCells   int           `json:"land_cells"`
	LandShare   float64       `json:"land_share"`
	Islands     int           `json:"islands"`
	Lakes       int           `json:"lakes"`
	ClosedLakes int           `json:"closed_lakes"`
	Rivers      int           `json:"rivers"`
	Cultures    int           `json:"cultures"`
	States      int           `json:"states"`
	Burgs       int           `json:"burgs"`
	Religions   int           `json:"religions"`
	Markers     int           `json:"markers"`
	Population  float64       `json:"population"`
	Diagnostics int           `json:"diagnostics"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Summarize counts the entities of a finished map. Sentinels are excluded.
func Summarize(r *Result) Summary {
	p := r.Pack
	s := Summary{
		Seed:      r.Config.Seed,
		Template:  r.Config.HeightmapTemplate,
		Cells:     p.Len(),
		Rivers:    len(p.Rivers) - 1,
		Cultures:  len(p.Cultures) - 1,
		States:    len(p.States) - 1,
		Burgs:     len(p.Burgs) - 1,
		Religions: len(p.Religions) - 1,
		Markers:   len(p.Markers),
	}
	for i := 0; i < p.Len(); i++ {
		if p.IsLand(i) {
			s.LandCells++
			s.Population += p.Cells.Population[i]
		}
	}
	if s.Cells > 0 {
		s.LandShare = float64(s.LandCells) / float64(s.Cells)
	}
	for _, f := range p.Features[1:] {
		switch f.Type {
		case world.FeatureIsland:
			s.Islands++
		case world.FeatureLake:
			s.Lakes++
			if f.Closed {
				s.ClosedLakes++
			}
		}
	}
	for _, b := range p.Burgs[1:] {
		s.Population += b.Population
	}
	for _, st := range r.Stats {
		s.Diagnostics += len(st.Diagnostics)
		s.Elapsed += st.Duration
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("seed=%q template=%q land=%.1f%% islands=%d lakes=%d(%d closed) rivers=%d cultures=%d states=%d burgs=%d religions=%d markers=%d pop=%.1f diags=%d elapsed=%s",
		s.Seed, s.Template, s.LandShare*100, s.Islands, s.Lakes, s.ClosedLakes, s.Rivers, s.Cultures, s.States, s.Burgs, s.Religions, s.Markers, s.Population, s.Diagnostics, s.Elapsed.Round(time.Millisecond))
}

// SweepRecord is one generation of a sweep.
type SweepRecord struct {
	Seed     string
	Template string
	Summary  Summary
}

// Sweep generates base once for every seed and template pair, running up to
// workers generations at a time. Records are ranked by fewest diagnostics,
// then most rivers, then seed and template. The first failing generation
// cancels the generations not yet started and its error is returned.
func Sweep(ctx context.Context, base Config, seeds, templates []string, workers int) ([]SweepRecord, error) {
	if workers <= 0 {
		workers = 1
	}
	if len(templates) == 0 {
		templates = []string{base.HeightmapTemplate}
	}
	records := make([]SweepRecord, len(seeds)*len(templates))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, seed := range seeds {
		for j, tmpl := range templates {
			slot := &records[i*len(templates)+j]
			cfg := base
			cfg.Seed = seed
			cfg.HeightmapTemplate = tmpl
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := Generate(cfg)
				if err != nil {
					return fmt.Errorf("seed %q template %q: %w", cfg.Seed, cfg.HeightmapTemplate, err)
				}
				*slot = SweepRecord{Seed: cfg.Seed, Template: cfg.HeightmapTemplate, Summary: Summarize(res)}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortStableFunc(records, func(a, b SweepRecord) int {
		return cmp.Or(
			cmp.Compare(a.Summary.Diagnostics, b.Summary.Diagnostics),
			cmp.Compare(b.Summary.Rivers, a.Summary.Rivers),
			cmp.Compare(a.Seed, b.Seed),
			cmp.Compare(a.Template, b.Template),
		)
	})
	return records, nil
}
