// Package expansion implements the competitive flood fill that grows
// cultures, states and religions over the cell graph.
package expansion

// Options controls a Grow run.
type Options struct {
	// MaxIterations caps the number of passes.
	MaxIterations int
	// Eligible reports whether an unowned cell may be claimed.
	Eligible func(cell int) bool
	// Expansionism returns the expansion strength of an owner id.
	Expansionism func(owner int) float64
	// Affinity optionally multiplies an owner's score for a cell.
	Affinity func(cell, owner int) float64
}

// Result summarises a Grow run.
type Result struct {
	Passes    int
	Claimed   int
	Converged bool
}

type tally struct {
	owner int
	count int
}

// Grow repeatedly lets every eligible unowned cell join the neighboring
// owner with the best score, count of that owner's neighbors times
// (expansionism+1) times affinity. Each pass decides every claim from the
// state at its start and then applies them all, so the result does not
// depend on scan order. Ties go to the lower owner id. Grow stops after a
// pass that claims nothing, or at MaxIterations.
func Grow(neighbors [][]int, owner []uint16, opts Options) Result {
	type claim struct {
		cell  int
		owner uint16
	}
	var res Result
	var claims []claim
	var counts []tally
	for res.Passes < opts.MaxIterations {
		res.Passes++
		claims = claims[:0]
		for i := range owner {
			if owner[i] != 0 || (opts.Eligible != nil && !opts.Eligible(i)) {
				continue
			}
			counts = counts[:0]
			for _, j := range neighbors[i] {
				o := int(owner[j])
				if o == 0 {
					continue
				}
				found := false
				for k := range counts {
					if counts[k].owner == o {
						counts[k].count++
						found = true
						break
					}
				}
				if !found {
					counts = append(counts, tally{owner: o, count: 1})
				}
			}
			best, bestScore := 0, 0.0
			for _, t := range counts {
				score := float64(t.count)
				if opts.Expansionism != nil {
					score *= opts.Expansionism(t.owner) + 1
				}
				if opts.Affinity != nil {
					score *= opts.Affinity(i, t.owner)
				}
				if score > bestScore || (score == bestScore && score > 0 && t.owner < best) {
					best, bestScore = t.owner, score
				}
			}
			if best != 0 {
				claims = append(claims, claim{cell: i, owner: uint16(best)})
			}
		}
		if len(claims) == 0 {
			res.Converged = true
			return res
		}
		for _, c := range claims {
			owner[c.cell] = c.owner
		}
		res.Claimed += len(claims)
	}
	return res
}
