package engine

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"mapgen/internal/heightmap"
	"mapgen/pkg/core"
)

// Params holds the stage tunables that sit outside the map request.
type Params struct {
	Layout string  `yaml:"layout"`
	Jitter float64 `yaml:"jitter"`

	SeaLevel int `yaml:"sea_level"`

	EquatorTemp   float64 `yaml:"equator_temp"`
	PoleTemp      float64 `yaml:"pole_temp"`
	Precipitation float64 `yaml:"precipitation"`

	MinRiverFlux       float64 `yaml:"min_river_flux"`
	Erosion            bool    `yaml:"erosion"`
	DepressionPasses   int     `yaml:"depression_passes"`
	LakeElevationLimit float64 `yaml:"lake_elevation_limit"`

	ExpansionPasses int `yaml:"expansion_passes"`
	TownDensity     int `yaml:"town_density"`
	VolcanoHeight   int `yaml:"volcano_height"`
}

// Config is one map request.
type Config struct {
	Seed              string `yaml:"seed"`
	CellsNumber       int    `yaml:"cells_number"`
	MapWidth          int    `yaml:"map_width"`
	MapHeight         int    `yaml:"map_height"`
	HeightmapTemplate string `yaml:"heightmap_template"`
	CulturesCount     int    `yaml:"cultures_count"`
	StatesCount       int    `yaml:"states_count"`
	ReligionsCount    int    `yaml:"religions_count"`

	Params Params `yaml:"params"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Seed:              "1337",
		CellsNumber:       10000,
		MapWidth:          960,
		MapHeight:         540,
		HeightmapTemplate: heightmap.Continents,
		CulturesCount:     12,
		StatesCount:       18,
		ReligionsCount:    6,
		Params: Params{
			Layout:             "jittered",
			Jitter:             0.9,
			SeaLevel:           20,
			EquatorTemp:        27,
			PoleTemp:           -30,
			Precipitation:      1,
			MinRiverFlux:       30,
			Erosion:            true,
			DepressionPasses:   250,
			LakeElevationLimit: 20,
			ExpansionPasses:    1000,
			TownDensity:        3,
			VolcanoHeight:      70,
		},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparsable or out-of-range values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["seed"]; ok {
		c.Seed = v
	}
	if v, ok := cfg["cells"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.CellsNumber = parsed
		}
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.MapWidth = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.MapHeight = parsed
		}
	}
	if v, ok := cfg["template"]; ok && v != "" {
		c.HeightmapTemplate = v
	}
	if v, ok := cfg["cultures"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.CulturesCount = parsed
		}
	}
	if v, ok := cfg["states"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.StatesCount = parsed
		}
	}
	if v, ok := cfg["religions"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.ReligionsCount = parsed
		}
	}
	if v, ok := cfg["layout"]; ok && (v == "jittered" || v == "random") {
		c.Params.Layout = v
	}
	if v, ok := cfg["jitter"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Params.Jitter = parsed
		}
	}
	if v, ok := cfg["sea_level"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed < 100 {
			c.Params.SeaLevel = parsed
		}
	}
	if v, ok := cfg["equator_temp"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.EquatorTemp = parsed
		}
	}
	if v, ok := cfg["pole_temp"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.PoleTemp = parsed
		}
	}
	if v, ok := cfg["precipitation"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.Precipitation = parsed
		}
	}
	if v, ok := cfg["min_river_flux"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.MinRiverFlux = parsed
		}
	}
	if v, ok := cfg["erosion"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Params.Erosion = parsed
		}
	}
	if v, ok := cfg["depression_passes"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.DepressionPasses = parsed
		}
	}
	if v, ok := cfg["lake_elevation_limit"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.LakeElevationLimit = parsed
		}
	}
	if v, ok := cfg["expansion_passes"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.ExpansionPasses = parsed
		}
	}
	if v, ok := cfg["town_density"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.TownDensity = parsed
		}
	}
	if v, ok := cfg["volcano_height"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			c.Params.VolcanoHeight = parsed
		}
	}
	return c
}

// Bind attaches the map request fields to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Seed, "seed", c.Seed, "map seed")
	fs.IntVar(&c.CellsNumber, "cells", c.CellsNumber, "number of Voronoi cells")
	fs.IntVar(&c.MapWidth, "w", c.MapWidth, "map width")
	fs.IntVar(&c.MapHeight, "h", c.MapHeight, "map height")
	fs.StringVar(&c.HeightmapTemplate, "template", c.HeightmapTemplate, "heightmap template")
	fs.IntVar(&c.CulturesCount, "cultures", c.CulturesCount, "number of cultures")
	fs.IntVar(&c.StatesCount, "states", c.StatesCount, "number of states")
	fs.IntVar(&c.ReligionsCount, "religions", c.ReligionsCount, "number of religions")
	fs.IntVar(&c.Params.SeaLevel, "sea-level", c.Params.SeaLevel, "land threshold height")
	fs.BoolVar(&c.Params.Erosion, "erosion", c.Params.Erosion, "cut river beds into the terrain")
}

// ParseConfig reads a YAML document over the defaults and validates it.
func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("%w: parse config: %v", core.ErrInvalidArgument, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

// Validate reports the first field that cannot produce a map.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{core.ErrInvalidArgument}, args...)...)
	}
	switch {
	case c.CellsNumber <= 0:
		return invalid("cells number must be positive, got %d", c.CellsNumber)
	case c.MapWidth <= 0 || c.MapHeight <= 0:
		return invalid("map size must be positive, got %dx%d", c.MapWidth, c.MapHeight)
	case c.CulturesCount < 0 || c.StatesCount < 0 || c.ReligionsCount < 0:
		return invalid("entity counts must not be negative")
	case c.Params.SeaLevel <= 0 || c.Params.SeaLevel >= 100:
		return invalid("sea level must be within 1..99, got %d", c.Params.SeaLevel)
	case c.Params.Jitter < 0 || c.Params.Jitter > 1:
		return invalid("jitter must be within [0, 1], got %g", c.Params.Jitter)
	case c.Params.Layout != "jittered" && c.Params.Layout != "random":
		return invalid("unknown layout %q", c.Params.Layout)
	case c.Params.VolcanoHeight <= 0 || c.Params.VolcanoHeight > 100:
		return invalid("volcano height must be within 1..100, got %d", c.Params.VolcanoHeight)
	case c.Params.MinRiverFlux <= 0:
		return invalid("minimum river flux must be positive, got %g", c.Params.MinRiverFlux)
	case c.Params.DepressionPasses <= 0:
		return invalid("depression passes must be positive, got %d", c.Params.DepressionPasses)
	case c.Params.ExpansionPasses <= 0:
		return invalid("expansion passes must be positive, got %d", c.Params.ExpansionPasses)
	}
	if _, ok := heightmap.Lookup(c.HeightmapTemplate); !ok {
		return invalid("unknown heightmap template %q", c.HeightmapTemplate)
	}
	return nil
}
