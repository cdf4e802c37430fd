// Package biomes classifies land cells into biomes and ranks them by how
// attractive they are to settle, which yields the population layer.
package biomes

import (
	"math"
	"slices"

	"mapgen/pkg/world"
)

// Biome ids.
const (
	Marine uint8 = iota
	HotDesert
	ColdDesert
	Savanna
	Grassland
	TropicalSeasonalForest
	TemperateDeciduousForest
	TropicalRainforest
	TemperateRainforest
	Taiga
	Tundra
	Glacier
	Wetland
)

// Names holds the display name of each biome id.
var Names = []string{
	"Marine", "Hot desert", "Cold desert", "Savanna", "Grassland",
	"Tropical seasonal forest", "Temperate deciduous forest",
	"Tropical rainforest", "Temperate rainforest", "Taiga", "Tundra",
	"Glacier", "Wetland",
}

// Habitability is the base settlement appeal of each biome id.
var Habitability = []int{0, 4, 10, 22, 30, 50, 100, 80, 90, 12, 4, 0, 12}

// matrix maps a moisture band (rows, dry to wet) and a temperature band
// (columns, hot to cold) to a biome.
var matrix = [5][26]uint8{
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 10},
	{3, 3, 3, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 9, 9, 9, 9, 10, 10},
	{5, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 9, 9, 9, 9, 9, 10, 10, 10},
	{5, 6, 6, 6, 6, 6, 6, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 9, 9, 9, 9, 9, 9, 10, 10, 10},
	{7, 7, 7, 7, 7, 7, 7, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 9, 9, 9, 9, 9, 9, 10, 10, 10},
}

// Classify returns the biome of a cell from its moisture, temperature (°C),
// height relative to seaLevel and whether a river runs through it.
func Classify(moisture float64, temperature int8, height, seaLevel uint8, river bool) uint8 {
	if height < seaLevel {
		return Marine
	}
	if temperature < -5 {
		return Glacier
	}
	if temperature >= 25 && !river && moisture < 8 {
		return HotDesert
	}
	if isWetland(moisture, temperature, int(height)-int(seaLevel)) {
		return Wetland
	}
	mb := min(int(moisture/5), 4)
	tb := min(max(20-int(temperature), 0), 25)
	return matrix[mb][tb]
}

// isWetland takes the cell's height above sea level.
func isWetland(moisture float64, temperature int8, above int) bool {
	if temperature <= -2 {
		return false
	}
	return (moisture > 40 && above < 5) || (moisture > 24 && above >= 5 && above < 40)
}

// moisture is the cell's precipitation averaged with its land neighbors,
// boosted by river flux.
func moisture(p *world.Pack, i int) float64 {
	c := &p.Cells
	m := float64(c.Precipitation[i])
	if c.River[i] != 0 {
		m += math.Max(c.Flux[i]/10, 2)
	}
	sum, n := m, 1.0
	for _, j := range c.Neighbors[i] {
		if p.IsLand(j) {
			sum += float64(c.Precipitation[j])
			n++
		}
	}
	return 4 + sum/n
}

// Define assigns a biome to every cell.
func Define(dp *world.DrainedPack) {
	p := dp.Pack
	for i := 0; i < p.Len(); i++ {
		if !p.IsLand(i) {
			p.Cells.Biome[i] = Marine
			continue
		}
		p.Cells.Biome[i] = Classify(moisture(p, i), p.Cells.Temperature[i], p.Cells.Heights[i], p.SeaLevel, p.Cells.River[i] != 0)
	}
}

// Rank scores every land cell's suitability and derives its population:
// biome habitability, river flux and confluence, altitude and coastal
// access all count. Population scales suitability by the cell's area
// relative to the mean.
func Rank(dp *world.DrainedPack) *world.RankedPack {
	p := dp.Pack
	Define(dp)
	c := &p.Cells

	var fluxes []float64
	flMax, confMax := 0.0, 0.0
	for i := range c.Flux {
		if !p.IsLand(i) {
			continue
		}
		if c.Flux[i] > 0 {
			fluxes = append(fluxes, c.Flux[i])
		}
		flMax = math.Max(flMax, c.Flux[i])
		confMax = math.Max(confMax, float64(c.Confluence[i]))
	}
	flMean := median(fluxes)
	flMax += confMax

	areaMean := 0.0
	for _, a := range c.Area {
		areaMean += a
	}
	if len(c.Area) > 0 {
		areaMean /= float64(len(c.Area))
	}

	for i := 0; i < p.Len(); i++ {
		c.Suitability[i] = 0
		c.Population[i] = 0
		if !p.IsLand(i) {
			continue
		}
		s := float64(Habitability[c.Biome[i]])
		if s == 0 {
			continue
		}
		if flMean > 0 && flMax > flMean {
			s += normalize(c.Flux[i]+float64(c.Confluence[i]), flMean, flMax) * 250
		}
		s -= (float64(c.Heights[i]) - 50) / 5

		if c.Distance[i] == 1 {
			if c.River[i] != 0 {
				s += 15
			}
			if h := c.Haven[i]; h >= 0 {
				if p.Features[c.Feature[h]].Type == world.FeatureLake {
					s += 30
				} else {
					s += 5
					if c.Harbor[i] == 1 {
						s += 20
					}
				}
			}
		}

		s /= 5
		c.Suitability[i] = int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, math.Round(s))))
		if c.Suitability[i] > 0 && areaMean > 0 {
			c.Population[i] = float64(c.Suitability[i]) * c.Area[i] / areaMean
		}
	}
	return &world.RankedPack{Pack: p}
}

func normalize(v, lo, hi float64) float64 {
	return math.Max(0, math.Min(1, (v-lo)/(hi-lo)))
}

func median(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	s := slices.Clone(v)
	slices.Sort(s)
	m := len(s) / 2
	if len(s)%2 == 1 {
		return s[m]
	}
	return (s[m-1] + s[m]) / 2
}
