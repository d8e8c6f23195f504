package dbgen

import (
	"fmt"
	"sort"

	"github.com/rattab/legiontech/pkg/diag"
	"github.com/rattab/legiontech/pkg/reader"
	"gopkg.in/yaml.v3"
)

// ResolvedStars is the fully-parsed form of the three stars/ pools, kept
// alongside the emitted C fragments so a run can be inspected with
// -dump-resolved instead of re-deriving it by hand from the .h output.
type ResolvedStars struct {
	Prefix []string                `yaml:"prefix"`
	Suffix map[string][]string     `yaml:"suffix"`
	Rolls  map[string]ResolvedRoll `yaml:"rolls"`
}

// ResolvedRoll is one star class's weight/hue/roll-table entry within
// ResolvedStars.
type ResolvedRoll struct {
	Weight uint64   `yaml:"weight"`
	Hue    uint64   `yaml:"hue"`
	Rolls  []string `yaml:"rolls"`
}

// ResolvedYAML marshals s's accumulated ResolvedStars into YAML, the debug
// counterpart of the stars_*.h fragments GenPrefix/GenSuffix/GenRolls emit.
func (s *State) ResolvedYAML() ([]byte, error) {
	return yaml.Marshal(s.Resolved)
}

// rollType mirrors enum db_roll_type: how a stellar roll table entry picks
// its value range.
type rollType uint64

const (
	rollOne rollType = iota
	rollRng
	rollOneOf
	rollAllOf
)

var rollTypeNames = map[rollType]string{
	rollOne:   "one",
	rollRng:   "rng",
	rollOneOf: "one_of",
	rollAllOf: "all_of",
}

var rollTypeTable = []reader.TableEntry{
	{Str: "one", Value: uint64(rollOne)},
	{Str: "rng", Value: uint64(rollRng)},
	{Str: "one-of", Value: uint64(rollOneOf)},
	{Str: "all-of", Value: uint64(rollAllOf)},
}

// namesRead parses a "(name sym...)" form and returns its symbols sorted,
// mirroring db_names_read.
func namesRead(r *reader.Reader) (name string, list []string) {
	r.Open()
	name = r.Symbol()
	for !r.PeekClose() {
		list = append(list, r.Symbol())
	}
	r.Close()
	sort.Strings(list)
	return name, list
}

// GenPrefix emits the stars_prefix.h fragment from a single "(prefix
// sym...)" form, grounded on db_gen_prefix.
func (s *State) GenPrefix(path string, data []byte, diags *diag.Diagnostics) {
	r := reader.New(path, data, diags)
	_, list := namesRead(r)

	fmt.Fprintf(&s.Frag.StarsPrefix, "stars_prefix_begin(%d)\n", len(list))
	for i, name := range list {
		fmt.Fprintf(&s.Frag.StarsPrefix, "  stars_prefix(%d, \"%s\")\n", i, name)
	}
	s.Frag.StarsPrefix.WriteString("stars_prefix_end()\n")

	s.Resolved.Prefix = list
}

// GenSuffix emits the stars_suffix.h fragment from a sequence of "(class
// sym...)" forms, one stars_suffix_begin/end block per class, grounded on
// db_gen_suffix.
func (s *State) GenSuffix(path string, data []byte, diags *diag.Diagnostics) {
	r := reader.New(path, data, diags)
	s.Resolved.Suffix = make(map[string][]string)

	for !r.PeekEOF() {
		name, list := namesRead(r)

		fmt.Fprintf(&s.Frag.StarsSuffix, "stars_suffix_begin(\"%s\", %d)\n", name, len(list))
		for i, entry := range list {
			fmt.Fprintf(&s.Frag.StarsSuffix, "  stars_suffix(%d, \"%s\")\n", i, entry)
		}
		s.Frag.StarsSuffix.WriteString("stars_suffix_end()\n\n")

		s.Resolved.Suffix[name] = list
	}
}

// starRoll is one range within a star's roll table.
type starRoll struct {
	typ      rollType
	min, max string
	count    uint16
}

// rollsRead parses a "(rolls (type min [max] count)...)" form, grounded on
// db_rolls_read.
func rollsRead(r *reader.Reader) []starRoll {
	var rolls []starRoll
	for !r.PeekClose() {
		r.Open()

		roll := starRoll{typ: rollType(r.SymbolTable(rollTypeTable))}
		roll.min = toEnum(r.Symbol())
		if roll.typ != rollOne {
			roll.max = toEnum(r.Symbol())
		} else {
			roll.max = roll.min
		}
		roll.count = uint16(r.U64())

		r.Close()
		rolls = append(rolls, roll)
	}
	return rolls
}

// GenRolls emits the stars_rolls.h fragment from a sequence of "(name (hue
// N) (weight N) (rolls ...))" forms, grounded on db_gen_rolls.
func (s *State) GenRolls(path string, data []byte, diags *diag.Diagnostics) {
	r := reader.New(path, data, diags)
	s.Resolved.Rolls = make(map[string]ResolvedRoll)

	for !r.PeekEOF() {
		r.Open()
		name := r.Symbol()

		var weight, hue uint64
		var rolls []starRoll

		for !r.PeekClose() {
			r.Open()
			key := r.Symbol()

			switch key {
			case "hue":
				hue = r.U64()
				r.Close()
			case "weight":
				weight = r.U64()
				r.Close()
			case "rolls":
				rolls = rollsRead(r)
				r.Close()
			default:
				pos := r.Pos()
				diags.Errf(pos.File, pos.Line, pos.Col, "unknown roll key %q", key)
				r.GotoClose()
			}
		}
		r.Close()

		fmt.Fprintf(&s.Frag.StarsRolls, "stars_rolls_begin(\"%s\", %d, %d, %d)\n",
			name, weight, hue, len(rolls))
		resolved := ResolvedRoll{Weight: weight, Hue: hue}
		for i, roll := range rolls {
			fmt.Fprintf(&s.Frag.StarsRolls, "  stars_rolls(%d, %s, %s, %s, %d)\n",
				i, rollTypeNames[roll.typ], roll.min, roll.max, roll.count)
			resolved.Rolls = append(resolved.Rolls,
				fmt.Sprintf("%s %s %s x%d", rollTypeNames[roll.typ], roll.min, roll.max, roll.count))
		}
		s.Frag.StarsRolls.WriteString("stars_rolls_end()\n\n")

		s.Resolved.Rolls[name] = resolved
	}
}
