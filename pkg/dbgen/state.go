package dbgen

import (
	"strings"

	"github.com/rattab/legiontech/pkg/atoms"
	"github.com/rattab/legiontech/pkg/diag"
	"github.com/rattab/legiontech/pkg/writer"
)

// Fragments holds one in-progress C header fragment per output the db
// command produces, mirroring struct db_state.files's field-per-file
// layout in db_gen.c.
type Fragments struct {
	ItemEnum     strings.Builder
	ItemRegister strings.Builder
	ItemControl  strings.Builder
	ItemFactory  strings.Builder

	SpecsEnum     strings.Builder
	SpecsValue    strings.Builder
	SpecsRegister strings.Builder

	TapesInfo strings.Builder
	Tapes     strings.Builder

	IOEnum     strings.Builder
	IOEEnum    strings.Builder
	IORegister strings.Builder

	StarsPrefix strings.Builder
	StarsSuffix strings.Builder
	StarsRolls  strings.Builder
}

// named pairs a fragment's accumulated text with the filename it is
// written under inside the output directory.
func (f *Fragments) named() map[string]*strings.Builder {
	return map[string]*strings.Builder{
		"item_enum.h":     &f.ItemEnum,
		"im_register.h":   &f.ItemRegister,
		"im_control.h":    &f.ItemControl,
		"im_factory.h":    &f.ItemFactory,
		"specs_enum.h":    &f.SpecsEnum,
		"specs_value.h":   &f.SpecsValue,
		"specs_register.h": &f.SpecsRegister,
		"tapes_info.h":    &f.TapesInfo,
		"tapes.h":         &f.Tapes,
		"io_enum.h":       &f.IOEnum,
		"ioe_enum.h":      &f.IOEEnum,
		"io_register.h":   &f.IORegister,
		"stars_prefix.h":  &f.StarsPrefix,
		"stars_suffix.h":  &f.StarsSuffix,
		"stars_rolls.h":   &f.StarsRolls,
	}
}

// WriteAll atomically writes every non-empty fragment into dir, one file
// per fragment name returned by named().
func (f *Fragments) WriteAll(dir string) error {
	for name, body := range f.named() {
		if body.Len() == 0 {
			continue
		}
		cf, err := writer.Create(dir + "/" + name)
		if err != nil {
			return err
		}
		cf.Writer.Raw(body.String())
		if err := cf.Close(); err != nil {
			return err
		}
	}
	return nil
}

// State accumulates fragments and the atom table across every GenXxx call
// for one db invocation, mirroring struct db_state. The atom table plays
// the same role state_atoms_set/state_atoms_value play in db_gen.c: specs
// refer to other items by an "item-<name>"-style name and need an id to
// embed as an enum cross-reference. pipeline.DB owns this table and passes
// it into Run, the same explicit-parameter shape pkg/atoms documents
// instead of process-wide global state; GenItems interns each item's atom
// and GenSpecs resolves enum-typed spec values against it via Reader.Atom.
type State struct {
	Frag     Fragments
	atoms    *atoms.Table
	Diags    *diag.Diagnostics
	Resolved ResolvedStars
}

// New returns an empty State.
func New(diags *diag.Diagnostics) *State {
	return &State{atoms: atoms.New(), Diags: diags}
}

// toEnum converts a hyphenated Lisp-style name into a valid C identifier
// fragment, mirroring symbol_to_enum's "-" -> "_" substitution.
func toEnum(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
