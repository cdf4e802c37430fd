package names

import (
	"mapgen/pkg/core"
	"mapgen/pkg/world"
)

// Rivers names every river in the language of the culture at its source.
func Rivers(p *world.Pack, rng *core.RNG) {
	for id := 1; id < len(p.Rivers); id++ {
		r := &p.Rivers[id]
		cu := p.Cells.Culture[r.Source]
		r.Name = River(ByIndex(p.Cultures[cu].Base), rng)
	}
}
