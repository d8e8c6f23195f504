package dbgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rattab/legiontech/pkg/reader"
	"github.com/rattab/legiontech/pkg/ttree"
)

// specCTypes maps a spec's declared grammar type to the C type its value
// accessor is declared with, mirroring db_gen_specs's chain of
// hash-compares against "word"/"item"/"work"/"u8"/"u16"/"u32"/"energy".
// "enum" is handled separately since it changes the declaration shape
// rather than naming a type.
var specCTypes = map[string]string{
	"word":   "vm_word",
	"item":   "enum item",
	"work":   "im_work",
	"u8":     "uint8_t",
	"u16":    "uint16_t",
	"u32":    "uint32_t",
	"energy": "im_energy",
}

// GenSpecs emits the specs_enum/specs_value/specs_register fragments for
// one item's (specs ...) blob. item.Specs holds the raw text pkg/parse
// captured between the specs form's name and its closing paren (via
// RawUntilClose), a flat sequence of "(name type value)" entries exactly
// like the ones db_gen_specs iterates over directly from its reader.
// Grounded on db_gen_specs.
func (s *State) GenSpecs(item *ttree.Node) {
	if item.Specs == "" {
		return
	}

	itemEnum := toEnum(item.Name)
	r := reader.New("item-"+item.Name+".specs", []byte(item.Specs), s.Diags)
	seq := 0

	for !r.PeekEOF() {
		r.Open()
		name := r.Symbol()
		specEnum := toEnum(name)

		if name == "lab-bits" || name == "lab-work" || name == "lab-energy" {
			fmt.Fprintf(&s.Frag.SpecsEnum, "\nspec_%s_%s = make_spec(item_%s, spec_%s),",
				itemEnum, specEnum, itemEnum, specEnum)
		} else {
			fmt.Fprintf(&s.Frag.SpecsEnum, "\nspec_%s_%s = make_spec(item_%s, 0x%x),",
				itemEnum, specEnum, itemEnum, seq)
			seq++
		}

		typ := r.Symbol()
		if typ == "fn" {
			fmt.Fprintf(&s.Frag.SpecsRegister,
				"spec_register_fn(spec_%s_%s, \"spec-%s-%s\", spec_%s_%s_fn);\n",
				itemEnum, specEnum, item.Name, name, itemEnum, specEnum)
			r.Close()
			continue
		}

		fmt.Fprintf(&s.Frag.SpecsRegister,
			"spec_register_var(spec_%s_%s, \"spec-%s-%s\", im_%s_%s);\n",
			itemEnum, specEnum, item.Name, name, itemEnum, specEnum)

		isEnum := typ == "enum"
		cType, known := specCTypes[typ]
		if !isEnum && !known {
			pos := r.Pos()
			s.Diags.Errf(pos.File, pos.Line, pos.Col, "[%s.%s] unknown spec type %q", item.Name, name, typ)
			r.GotoClose()
			continue
		}

		if isEnum {
			fmt.Fprintf(&s.Frag.SpecsValue, "enum { im_%s_%s = ", itemEnum, specEnum)
		} else {
			fmt.Fprintf(&s.Frag.SpecsValue, "static const %s im_%s_%s = ", cType, itemEnum, specEnum)
		}

		// An enum-typed spec value names another item's atom (e.g.
		// "item-elem-iron"), already interned by GenItems into the same
		// atoms table this State carries; resolve it through Reader.Atom
		// instead of a bare Symbol read so both passes agree on one id
		// for the same name.
		var valueText string
		if isEnum {
			id := r.Atom(s.atoms)
			valueText = s.atoms.Name(id)
		} else {
			valueText = r.Symbol()
		}
		if n, err := parseSpecNumber(valueText); err == nil {
			fmt.Fprintf(&s.Frag.SpecsValue, "0x%x", n)
		} else {
			s.Frag.SpecsValue.WriteString(toEnum(valueText))
		}

		if isEnum {
			s.Frag.SpecsValue.WriteString(" };\n")
		} else {
			s.Frag.SpecsValue.WriteString(";\n")
		}

		r.Close()
	}

	s.Frag.SpecsEnum.WriteString("\n")
	s.Frag.SpecsValue.WriteString("\n")
	s.Frag.SpecsRegister.WriteString("\n")
}

// parseSpecNumber parses a decimal or 0x-prefixed hex literal. The reader
// package has a single lexical word category (no lexical distinction
// between a symbol and a number, per spec.md's grammar), so whether a
// spec's value token is a number or an atom reference is decided here by
// trying to parse it, exactly as the original's token_type switch decided
// it from the lexer instead.
func parseSpecNumber(text string) (uint64, error) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		return strconv.ParseUint(text[2:], 16, 64)
	}
	return strconv.ParseUint(text, 10, 64)
}
