package heightmap

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"mapgen/pkg/core"
)

// step is one template instruction. Missing arguments read as "0".
type step struct {
	line int
	tool string
	args [4]string
}

func parseSteps(text string) []step {
	var out []step
	for i, raw := range strings.Split(text, "\n") {
		fields := strings.Fields(raw)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		s := step{line: i + 1, tool: fields[0], args: [4]string{"0", "0", "0", "0"}}
		for k := 1; k < len(fields) && k <= 4; k++ {
			s.args[k-1] = fields[k]
		}
		out = append(out, s)
	}
	return out
}

// numRange is a parsed "v" or "lo-hi" argument.
type numRange struct {
	lo, hi float64
	single bool
}

// parseRange accepts a number or a "lo-hi" pair. A leading minus belongs to
// the first number, so "-2" is a single value.
func parseRange(s string) (numRange, error) {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return numRange{lo: v, hi: v, single: true}, nil
	}
	i := strings.Index(s[min(1, len(s)):], "-")
	if i < 0 {
		return numRange{}, fmt.Errorf("%w: bad number %q", core.ErrInvalidArgument, s)
	}
	i++
	lo, err1 := strconv.ParseFloat(s[:i], 64)
	hi, err2 := strconv.ParseFloat(s[i+1:], 64)
	if err1 != nil || err2 != nil {
		return numRange{}, fmt.Errorf("%w: bad range %q", core.ErrInvalidArgument, s)
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return numRange{lo: lo, hi: hi}, nil
}

// count draws an integer: a single fractional value v gives floor(v) plus one
// more with probability frac(v); a range gives a uniform integer in it.
func (n numRange) count(rng *core.RNG) int {
	if n.single {
		whole := math.Floor(n.lo)
		c := int(whole)
		if frac := n.lo - whole; frac > 0 && rng.Chance(frac) {
			c++
		}
		return c
	}
	return rng.IntRange(int(math.Ceil(n.lo)), int(math.Floor(n.hi)))
}

// point maps a percentage range onto [0, length).
func (n numRange) point(length float64, rng *core.RNG) float64 {
	lo, hi := n.lo/100*length, n.hi/100*length
	if hi <= lo {
		return lo
	}
	return rng.Range(lo, hi)
}

// band parses the target of Add and Multiply: "land", "all" or "lo-hi".
// land reports whether the lower bound is sea level, in which case the
// operation keeps land above water.
func band(s string, seaLevel float64) (lo, hi float64, land bool, err error) {
	switch s {
	case "land":
		return seaLevel, 100, true, nil
	case "all":
		return 0, 100, false, nil
	}
	r, err := parseRange(s)
	if err != nil {
		return 0, 0, false, err
	}
	return r.lo, r.hi, r.lo == seaLevel, nil
}
