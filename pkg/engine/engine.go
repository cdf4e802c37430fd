// Package engine sequences the generation stages into a complete map.
package engine

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"mapgen/internal/biomes"
	"mapgen/internal/climate"
	icore "mapgen/internal/core"
	"mapgen/internal/cultures"
	"mapgen/internal/features"
	"mapgen/internal/heightmap"
	"mapgen/internal/hydro"
	"mapgen/internal/markers"
	"mapgen/internal/names"
	"mapgen/internal/religions"
	"mapgen/internal/states"
	"mapgen/internal/voronoi"
	"mapgen/pkg/core"
	"mapgen/pkg/world"
)

// Stage names one step of the pipeline.
type Stage string

const (
	StageIdle      Stage = "idle"
	StageGrid      Stage = "grid"
	StageHeightmap Stage = "heightmap"
	StageFeatures  Stage = "features"
	StageClimate   Stage = "climate"
	StagePack      Stage = "pack"
	StageHydrology Stage = "hydrology"
	StageBiomes    Stage = "biomes"
	StageCultures  Stage = "cultures"
	StageStates    Stage = "states"
	StageReligions Stage = "religions"
	StageMarkers   Stage = "markers"
	StageDone      Stage = "done"
)

// Stages lists the pipeline in execution order.
var Stages = []Stage{
	StageGrid, StageHeightmap, StageFeatures, StageClimate, StagePack,
	StageHydrology, StageBiomes, StageCultures, StageStates, StageReligions,
	StageMarkers,
}

// Progress reports the stage being run and how many have finished.
type Progress struct {
	Stage Stage
	Done  int
	Total int
}

// Fraction returns the finished share of the pipeline in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total)
}

// PerformanceStats records one stage run.
type PerformanceStats struct {
	Stage    Stage
	Duration time.Duration
	// MemDelta is the live heap growth in bytes. Best effort.
	MemDelta    int64
	Diagnostics []core.Diagnostic
}

// Result is a finished map.
type Result struct {
	Config Config
	Grid   *world.ClimateGrid
	Pack   *world.Pack
	Stats  []PerformanceStats
}

// Engine runs the pipeline for one configuration. Generate is not safe for
// concurrent use; Progress and Stats may be polled from other goroutines.
type Engine struct {
	cfg Config
	rng *core.RNG

	progress   atomic.Pointer[Progress]
	onProgress func(Progress)

	mu    sync.Mutex
	stats []PerformanceStats
}

// New validates cfg and returns an engine seeded from cfg.Seed.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg}
	e.Reset(cfg.Seed)
	return e, nil
}

// Generate is a convenience for New followed by Engine.Generate.
func Generate(cfg Config) (*Result, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return e.Generate()
}

// Config returns the configuration the engine runs with.
func (e *Engine) Config() Config { return e.cfg }

// OnProgress registers fn to be called, on the generating goroutine, at the
// start of every stage and once the map is done.
func (e *Engine) OnProgress(fn func(Progress)) { e.onProgress = fn }

// Progress returns the latest progress report.
func (e *Engine) Progress() Progress { return *e.progress.Load() }

// Stats returns a copy of the stage timings of the latest run.
func (e *Engine) Stats() []PerformanceStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]PerformanceStats(nil), e.stats...)
}

// Reset discards the previous run and reseeds the engine with a fresh RNG.
func (e *Engine) Reset(seed string) {
	e.cfg.Seed = seed
	e.rng = core.NewRNG(seed)
	e.mu.Lock()
	e.stats = nil
	e.mu.Unlock()
	e.progress.Store(&Progress{Stage: StageIdle, Total: len(Stages)})
}

// Generate runs every stage in order. Every stage draws from its own fork
// of the seed, so repeated calls return identical maps. InvalidArgument and
// GeometryDegeneracy abort the run; the other kinds are logged and recorded
// in the stage's stats.
func (e *Engine) Generate() (*Result, error) {
	e.Reset(e.cfg.Seed)
	cfg, p := e.cfg, e.cfg.Params

	var (
		grid *world.Grid
		hg   *world.HeightGrid
		fg   *world.FeatureGrid
		cg   *world.ClimateGrid
		mp   *world.MarkedPack
		dp   *world.DrainedPack
		rp   *world.RankedPack
		cp   *world.CulturedPack
		pp   *world.PoliticalPack
	)
	steps := []func(rng *core.RNG) ([]core.Diagnostic, error){
		func(rng *core.RNG) (diags []core.Diagnostic, err error) {
			opts := voronoi.DefaultOptions(cfg.CellsNumber, cfg.MapWidth, cfg.MapHeight)
			opts.Jitter = p.Jitter
			if p.Layout == "random" {
				opts.Layout = world.LayoutRandom
			}
			grid, err = voronoi.Build(opts, rng)
			return nil, err
		},
		func(rng *core.RNG) (diags []core.Diagnostic, err error) {
			hg, diags, err = heightmap.Generate(grid, heightmap.Options{Template: cfg.HeightmapTemplate, SeaLevel: uint8(p.SeaLevel)}, rng)
			return diags, err
		},
		func(*core.RNG) ([]core.Diagnostic, error) {
			opts := features.DefaultOptions()
			opts.SeaLevel = uint8(p.SeaLevel)
			fg = features.MarkupGrid(hg, opts)
			return nil, nil
		},
		func(rng *core.RNG) ([]core.Diagnostic, error) {
			opts := climate.DefaultOptions()
			opts.EquatorTemp = p.EquatorTemp
			opts.PoleTemp = p.PoleTemp
			opts.Precipitation = p.Precipitation
			cg = climate.Compute(fg, opts, rng)
			return nil, nil
		},
		func(*core.RNG) ([]core.Diagnostic, error) {
			mp = features.MarkupPack(world.NewPack(cg), fg)
			return nil, nil
		},
		func(rng *core.RNG) (diags []core.Diagnostic, err error) {
			opts := hydro.DefaultOptions()
			opts.MinFlux = p.MinRiverFlux
			opts.Erosion = p.Erosion
			opts.MaxIterations = p.DepressionPasses
			opts.LakeElevationLimit = p.LakeElevationLimit
			dp, diags = hydro.Generate(mp, opts, rng)
			return diags, nil
		},
		func(*core.RNG) ([]core.Diagnostic, error) {
			rp = biomes.Rank(dp)
			return nil, nil
		},
		func(rng *core.RNG) (diags []core.Diagnostic, err error) {
			opts := cultures.DefaultOptions(cfg.CulturesCount)
			opts.MaxIterations = p.ExpansionPasses
			cp, diags = cultures.Generate(rp, opts, rng)
			names.Rivers(cp.Pack, rng.Fork("rivers"))
			return diags, nil
		},
		func(rng *core.RNG) (diags []core.Diagnostic, err error) {
			opts := states.DefaultOptions(cfg.StatesCount)
			opts.MaxIterations = p.ExpansionPasses
			opts.TownDensity = p.TownDensity
			pp, diags = states.Generate(cp, opts, rng)
			return diags, nil
		},
		func(rng *core.RNG) ([]core.Diagnostic, error) {
			opts := religions.DefaultOptions(cfg.ReligionsCount)
			opts.MaxIterations = p.ExpansionPasses
			return religions.Generate(pp, opts, rng), nil
		},
		func(*core.RNG) ([]core.Diagnostic, error) {
			opts := markers.DefaultOptions()
			opts.VolcanoHeight = uint8(p.VolcanoHeight)
			markers.Generate(pp, opts)
			return nil, nil
		},
	}

	for i, stage := range Stages {
		if err := e.run(i, stage, steps[i]); err != nil {
			return nil, err
		}
	}
	if err := pp.Cells.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrGeometryDegeneracy, err)
	}
	e.report(Progress{Stage: StageDone, Done: len(Stages), Total: len(Stages)})
	return &Result{Config: cfg, Grid: cg, Pack: pp.Pack, Stats: e.Stats()}, nil
}

func (e *Engine) run(i int, stage Stage, step func(*core.RNG) ([]core.Diagnostic, error)) error {
	e.report(Progress{Stage: stage, Done: i, Total: len(Stages)})
	timer := icore.StartStage()
	diags, err := step(e.rng.Fork(string(stage)))
	elapsed, mem := timer.Stop()
	for _, d := range diags {
		log.Printf("%s: %v", stage, d)
	}
	e.mu.Lock()
	e.stats = append(e.stats, PerformanceStats{Stage: stage, Duration: elapsed, MemDelta: mem, Diagnostics: diags})
	e.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%s: %w", stage, err)
	}
	return nil
}

func (e *Engine) report(p Progress) {
	e.progress.Store(&p)
	if e.onProgress != nil {
		e.onProgress(p)
	}
}
