package dbgen

import (
	"strings"
	"testing"

	"github.com/rattab/legiontech/pkg/diag"
	"github.com/rattab/legiontech/pkg/ttree"
)

func buildSample() (*ttree.Tree, *ttree.Node) {
	tree := ttree.New()

	sys, _ := tree.Insert(0, "sys-root")
	sys.Type = ttree.TypeSys

	iron, _ := tree.Insert(1, "elem-iron")
	iron.Type = ttree.TypeNatural
	iron.Host.ID = sys.ID
	iron.Work.Node = 2
	iron.Energy.Node = 2
	iron.Out = ttree.Edges{{ID: iron.ID, Count: 1}}

	gear, _ := tree.Insert(2, "widget-gear")
	gear.Type = ttree.TypeLogistics
	gear.Host.ID = iron.ID
	gear.Children.Inc(iron.ID, 4)
	gear.Work.Node = 3
	gear.Energy.Node = 6
	gear.Specs = "(alloy enum item-elem-iron)\n(rating u8 3)"
	gear.Out = ttree.Edges{{ID: gear.ID, Count: 1}}
	gear.List = ttree.ListFactory

	return tree, gear
}

func TestGenItems_AssignsBoundsPerType(t *testing.T) {
	tree, _ := buildSample()
	diags := diag.New(false)
	s := New(diags)

	s.GenItems(tree)

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Entries())
	}

	enum := s.Frag.ItemEnum.String()
	if !strings.Contains(enum, "item_elem_iron") {
		t.Fatalf("expected an elem_iron enum entry, got %q", enum)
	}
	if !strings.Contains(enum, "items_natural_first") || !strings.Contains(enum, "items_natural_last") {
		t.Fatalf("expected natural bounds markers, got %q", enum)
	}
	if !strings.Contains(enum, "items_logistics_first") {
		t.Fatalf("expected logistics bounds markers, got %q", enum)
	}

	register := s.Frag.ItemRegister.String()
	if !strings.Contains(register, `im_register(item_elem_iron, "elem-iron"`) {
		t.Fatalf("expected elem-iron to be registered, got %q", register)
	}

	factory := s.Frag.ItemFactory.String()
	if !strings.Contains(factory, "item_widget_gear") {
		t.Fatalf("expected widget-gear on the factory list, got %q", factory)
	}
}

func TestGenSpecs_EmitsEnumAndValue(t *testing.T) {
	_, gear := buildSample()
	diags := diag.New(false)
	s := New(diags)

	s.GenSpecs(gear)

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Entries())
	}

	enumFrag := s.Frag.SpecsEnum.String()
	if !strings.Contains(enumFrag, "spec_widget_gear_alloy") {
		t.Fatalf("expected an alloy spec enum entry, got %q", enumFrag)
	}
	if !strings.Contains(enumFrag, "spec_widget_gear_rating") {
		t.Fatalf("expected a rating spec enum entry, got %q", enumFrag)
	}

	valueFrag := s.Frag.SpecsValue.String()
	if !strings.Contains(valueFrag, "enum { im_widget_gear_alloy = item_elem_iron };") {
		t.Fatalf("expected the enum-typed spec value to reference the atom, got %q", valueFrag)
	}
	if !strings.Contains(valueFrag, "static const uint8_t im_widget_gear_rating = 0x3;") {
		t.Fatalf("expected the u8-typed spec value as hex, got %q", valueFrag)
	}
}

func TestGenSpecs_UnknownTypeRecordsDiagnostic(t *testing.T) {
	tree := ttree.New()
	node, _ := tree.Insert(1, "widget-gear")
	node.Type = ttree.TypeLogistics
	node.Specs = "(mystery bogus 1)"

	diags := diag.New(false)
	s := New(diags)
	s.GenSpecs(node)

	if !diags.HasErrors() {
		t.Fatalf("expected an unknown-spec-type diagnostic")
	}
}

func TestGenTape_ExpandsInputsAndOutputs(t *testing.T) {
	tree, gear := buildSample()
	diags := diag.New(false)
	s := New(diags)
	s.GenItems(tree) // populate atoms so names resolve, though GenTape doesn't need them

	s.GenTape(tree, gear)

	out := s.Frag.Tapes.String()
	if !strings.Contains(out, "tape_register_begin(item_widget_gear, 5)") {
		t.Fatalf("expected 4 inputs + 1 output = 5 total slots, got %q", out)
	}
	if !strings.Contains(out, ".host = elem_iron,") {
		t.Fatalf("expected the host atom to be named, got %q", out)
	}
	if !strings.Contains(out, ".inputs = 4,") || !strings.Contains(out, ".outputs = 1,") {
		t.Fatalf("expected 4 inputs and 1 output, got %q", out)
	}
	if strings.Count(out, "tape_register_ix(  4, item_widget_gear)") != 1 {
		t.Fatalf("expected the output slot to reference the item itself, got %q", out)
	}
}

func TestGenIO_AssignsSequentialOffsets(t *testing.T) {
	diags := diag.New(false)
	s := New(diags)

	s.GenIO("io.lisp", []byte(`
(io ping-scan move-ship)
(ioe ship-destroyed)
`), diags)

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Entries())
	}

	enum := s.Frag.IOEnum.String()
	if !strings.Contains(enum, "ping_scan            = io_min + 0x00,") {
		t.Fatalf("expected ping-scan at offset 0, got %q", enum)
	}
	if !strings.Contains(enum, "move_ship            = io_min + 0x01,") {
		t.Fatalf("expected move-ship at offset 1, got %q", enum)
	}

	eenum := s.Frag.IOEEnum.String()
	if !strings.Contains(eenum, "ship_destroyed       = ioe_min + 0x00,") {
		t.Fatalf("expected ship-destroyed at offset 0, got %q", eenum)
	}

	register := s.Frag.IORegister.String()
	if !strings.Contains(register, `io_register(ping_scan, "ping-scan", 9),`) {
		t.Fatalf("expected ping-scan registered with its name length, got %q", register)
	}
}

func TestGenIO_UnknownFormRecordsDiagnostic(t *testing.T) {
	diags := diag.New(false)
	s := New(diags)
	s.GenIO("io.lisp", []byte("(bogus foo)"), diags)

	if !diags.HasErrors() {
		t.Fatalf("expected a diagnostic for an unknown io form")
	}
}

func TestGenPrefix_SortsNames(t *testing.T) {
	diags := diag.New(false)
	s := New(diags)
	s.GenPrefix("prefix.lisp", []byte("(prefix zeta alpha mu)"), diags)

	out := s.Frag.StarsPrefix.String()
	if !strings.Contains(out, "stars_prefix_begin(3)") {
		t.Fatalf("expected 3 prefix entries, got %q", out)
	}
	alphaIx := strings.Index(out, `stars_prefix(0, "alpha")`)
	muIx := strings.Index(out, `stars_prefix(1, "mu")`)
	zetaIx := strings.Index(out, `stars_prefix(2, "zeta")`)
	if alphaIx < 0 || muIx < 0 || zetaIx < 0 || !(alphaIx < muIx && muIx < zetaIx) {
		t.Fatalf("expected prefix entries sorted alphabetically, got %q", out)
	}
}

func TestGenSuffix_EmitsOneBlockPerClass(t *testing.T) {
	diags := diag.New(false)
	s := New(diags)
	s.GenSuffix("suffix.lisp", []byte(`
(rocky iron stone)
(gas helium)
`), diags)

	out := s.Frag.StarsSuffix.String()
	if !strings.Contains(out, `stars_suffix_begin("rocky", 2)`) {
		t.Fatalf("expected a rocky suffix block, got %q", out)
	}
	if !strings.Contains(out, `stars_suffix_begin("gas", 1)`) {
		t.Fatalf("expected a gas suffix block, got %q", out)
	}
}

func TestResolvedYAML_CapturesParsedStarPools(t *testing.T) {
	diags := diag.New(false)
	s := New(diags)
	s.GenPrefix("prefix.lisp", []byte("(prefix zeta alpha)"), diags)
	s.GenSuffix("suffix.lisp", []byte("(rocky iron)"), diags)
	s.GenRolls("rolls.lisp", []byte(`
(white-dwarf
  (hue 10)
  (weight 3)
  (rolls
    (one item-elem-iron 1)))
`), diags)

	out, err := s.ResolvedYAML()
	if err != nil {
		t.Fatalf("ResolvedYAML returned an error: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "alpha") || !strings.Contains(text, "zeta") {
		t.Fatalf("expected both prefix names, got %q", text)
	}
	if !strings.Contains(text, "rocky") || !strings.Contains(text, "iron") {
		t.Fatalf("expected the rocky suffix class, got %q", text)
	}
	if !strings.Contains(text, "white-dwarf") {
		t.Fatalf("expected the white-dwarf roll class, got %q", text)
	}
}

func TestGenRolls_EmitsRollTable(t *testing.T) {
	diags := diag.New(false)
	s := New(diags)
	s.GenRolls("rolls.lisp", []byte(`
(white-dwarf
  (hue 10)
  (weight 3)
  (rolls
    (one item-elem-iron 1)
    (rng item-elem-iron item-elem-iron 2)))
`), diags)

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Entries())
	}

	out := s.Frag.StarsRolls.String()
	if !strings.Contains(out, `stars_rolls_begin("white-dwarf", 3, 10, 2)`) {
		t.Fatalf("expected a white-dwarf roll block with weight 3, hue 10, 2 rolls, got %q", out)
	}
	if !strings.Contains(out, "stars_rolls(0, one, item_elem_iron, item_elem_iron, 1)") {
		t.Fatalf("expected the 'one' roll entry, got %q", out)
	}
	if !strings.Contains(out, "stars_rolls(1, rng, item_elem_iron, item_elem_iron, 2)") {
		t.Fatalf("expected the 'rng' roll entry, got %q", out)
	}
}
