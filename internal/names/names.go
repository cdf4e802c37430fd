// Package names generates deterministic place and people names from
// syllable-based name bases.
package names

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	icore "mapgen/internal/core"
	"mapgen/pkg/core"
)

// Base is a family of syllables that gives a culture's names their sound.
type Base struct {
	Name    string
	Starts  []string
	Middles []string
	Ends    []string

	// StateSuffixes turn a core word into a country name.
	StateSuffixes []string
}

var bases = icore.NewRegistry[Base]()

// Register adds a name base. A base needs at least one start and one end.
func Register(b Base) error {
	if b.Name == "" || len(b.Starts) == 0 || len(b.Ends) == 0 {
		return fmt.Errorf("%w: name base %q needs starts and ends", core.ErrInvalidArgument, b.Name)
	}
	bases.Register(b.Name, b)
	return nil
}

// Bases lists the registered base names in sorted order.
func Bases() []string { return bases.Names() }

// Lookup returns a registered base.
func Lookup(name string) (Base, bool) { return bases.Lookup(name) }

// ByIndex returns the i-th base in sorted order, wrapping around.
func ByIndex(i int) Base {
	all := Bases()
	b, _ := Lookup(all[((i%len(all))+len(all))%len(all)])
	return b
}

// Word builds a capitalised name of one start, up to two middles and one end.
func Word(b Base, rng *core.RNG) string {
	var sb strings.Builder
	sb.WriteString(pick(b.Starts, rng))
	if len(b.Middles) > 0 {
		for k := rng.IntRange(0, 2); k > 0; k-- {
			sb.WriteString(pick(b.Middles, rng))
		}
	}
	sb.WriteString(pick(b.Ends, rng))
	return capitalize(sb.String())
}

// Culture names a people.
func Culture(b Base, rng *core.RNG) string { return Word(b, rng) }

// Burg names a settlement.
func Burg(b Base, rng *core.RNG) string { return Word(b, rng) }

// State names a country after its capital.
func State(b Base, capital string, rng *core.RNG) string {
	if len(b.StateSuffixes) == 0 || rng.Chance(0.3) {
		return capital
	}
	return joinSuffix(capital, pick(b.StateSuffixes, rng))
}

// River names a river.
func River(b Base, rng *core.RNG) string { return Word(b, rng) }

// Religion names a faith after a deity word.
func Religion(b Base, kind string, rng *core.RNG) string {
	switch kind {
	case "Cult":
		return "Cult of " + Word(b, rng)
	case "Heresy":
		return Word(b, rng) + " Heresy"
	default:
		return joinSuffix(Word(b, rng), "ism")
	}
}

func pick(items []string, rng *core.RNG) string {
	s, err := core.Choice(rng, items)
	if err != nil {
		return ""
	}
	return s
}

// joinSuffix drops a trailing vowel of word when suffix starts with one.
func joinSuffix(word, suffix string) string {
	if word == "" || suffix == "" {
		return word + suffix
	}
	last, size := utf8.DecodeLastRuneInString(word)
	first, _ := utf8.DecodeRuneInString(suffix)
	if isVowel(last) && isVowel(first) {
		word = word[:len(word)-size]
	}
	return word + suffix
}

func isVowel(r rune) bool { return strings.ContainsRune("aeiouy", unicode.ToLower(r)) }

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
