package engine

import (
	"maps"
	"strconv"

	icore "mapgen/internal/core"
)

// Parameters returns the tunables of the engine's configuration.
func (e *Engine) Parameters() icore.ParameterSnapshot { return e.cfg.Parameters() }

// Parameters groups the configuration for display by tools. Keys match the
// ones FromMap accepts.
func (c Config) Parameters() icore.ParameterSnapshot {
	p := c.Params
	groups := []icore.ParameterGroup{
		{
			Name: "Map",
			Params: []icore.Parameter{
				stringParam("seed", "Seed", c.Seed),
				intParam("cells", "Cells", c.CellsNumber),
				intParam("w", "Width", c.MapWidth),
				intParam("h", "Height", c.MapHeight),
				stringParam("layout", "Point layout", p.Layout),
				floatParam("jitter", "Jitter", p.Jitter),
			},
		},
		{
			Name:    "Terrain",
			Summary: "Heightmap template and land threshold.",
			Params: []icore.Parameter{
				stringParam("template", "Heightmap template", c.HeightmapTemplate),
				intParam("sea_level", "Sea level", p.SeaLevel),
				intParam("volcano_height", "Volcano height", p.VolcanoHeight),
			},
		},
		{
			Name: "Climate",
			Params: []icore.Parameter{
				floatParam("equator_temp", "Equator temperature", p.EquatorTemp),
				floatParam("pole_temp", "Pole temperature", p.PoleTemp),
				floatParam("precipitation", "Precipitation", p.Precipitation),
			},
		},
		{
			Name: "Hydrology",
			Params: []icore.Parameter{
				floatParam("min_river_flux", "Minimum river flux", p.MinRiverFlux),
				boolParam("erosion", "Erosion", p.Erosion),
				intParam("depression_passes", "Depression passes", p.DepressionPasses),
				floatParam("lake_elevation_limit", "Lake elevation limit", p.LakeElevationLimit),
			},
		},
		{
			Name: "Society",
			Params: []icore.Parameter{
				intParam("cultures", "Cultures", c.CulturesCount),
				intParam("states", "States", c.StatesCount),
				intParam("religions", "Religions", c.ReligionsCount),
				intParam("town_density", "Towns per state", p.TownDensity),
				intParam("expansion_passes", "Expansion passes", p.ExpansionPasses),
			},
		},
	}
	return icore.ParameterSnapshot{Groups: groups}
}

// Values flattens the config into the key/value form FromMap reads.
func (c Config) Values() map[string]string {
	values := map[string]string{}
	for _, g := range c.Parameters().Groups {
		for _, p := range g.Params {
			values[p.Key] = p.Value
		}
	}
	return values
}

// With returns c with FromMap-style overrides applied.
func (c Config) With(overrides map[string]string) Config {
	values := c.Values()
	maps.Copy(values, overrides)
	return FromMap(values)
}

func intParam(key, label string, value int) icore.Parameter {
	return icore.Parameter{
		Key:   key,
		Label: label,
		Type:  icore.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func floatParam(key, label string, value float64) icore.Parameter {
	return icore.Parameter{
		Key:   key,
		Label: label,
		Type:  icore.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func boolParam(key, label string, value bool) icore.Parameter {
	return icore.Parameter{
		Key:   key,
		Label: label,
		Type:  icore.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}

func stringParam(key, label, value string) icore.Parameter {
	return icore.Parameter{
		Key:   key,
		Label: label,
		Type:  icore.ParamTypeString,
		Value: value,
	}
}
