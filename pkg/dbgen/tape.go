package dbgen

import (
	"fmt"

	"github.com/rattab/legiontech/pkg/dump"
	"github.com/rattab/legiontech/pkg/ttree"
)

// GenTape emits the tapes.h fragment for one item's recipe: a
// tape_register_begin/tape_register_ix/tape_register_end block listing the
// item's bill-of-materials inputs followed by its outputs, both expanded
// from (id, count) edges into one tape_register_ix line per unit.
//
// Grounded on db_gen_tape, with one deliberate departure: the original reads
// work/energy/host/in/out back out of the item's own dumped tape_read text,
// plus a tape-level (info (rank ...)(elems ...)(tech ...)) sub-field handled
// by db_gen_tape_info. tech_dump.c's own dump_tape never emits that info
// sub-field, so db_gen_tape_info's input is always empty in a real build;
// it is dropped here rather than ported; see DESIGN.md. Everything else
// db_gen_tape reads is already sitting on the generated node, so this reads
// straight from it instead of round-tripping through dumped text, same as
// dump.ComputeTape.
func (s *State) GenTape(tree *ttree.Tree, item *ttree.Node) {
	if len(item.Children.Edges) == 0 && len(item.Out) == 0 {
		return
	}

	itemEnum := toEnum(item.Name)
	hostEnum := toEnum(tree.Name(item.Host.ID))

	var tape []string
	for _, edge := range dump.ComputeTape(item) {
		name := toEnum(tree.Name(edge.ID))
		for i := uint32(0); i < edge.Count; i++ {
			tape = append(tape, name)
		}
	}
	inputs := len(tape)

	for _, edge := range item.Out {
		name := toEnum(tree.Name(edge.ID))
		for i := uint32(0); i < edge.Count; i++ {
			tape = append(tape, name)
		}
	}
	outputs := len(tape) - inputs

	fmt.Fprintf(&s.Frag.Tapes,
		"\ntape_register_begin(item_%s, %d) {\n"+
			"    .id = item_%s,\n"+
			"    .host = %s,\n"+
			"    .work = %d,\n"+
			"    .energy = %d,\n"+
			"    .inputs = %d,\n"+
			"    .outputs = %d,\n"+
			"  };\n",
		itemEnum, len(tape),
		itemEnum, hostEnum, item.Work.Node, item.Energy.Node, inputs, outputs)

	for i, name := range tape {
		fmt.Fprintf(&s.Frag.Tapes, "  tape_register_ix(%3d, item_%s);\n", i, name)
	}

	s.Frag.Tapes.WriteString("tape_register_end()\n")
}

// GenTapes calls GenTape for every generated, non-sys item in tree, in the
// same sorted order GenItems assigns atoms in.
func (s *State) GenTapes(tree *ttree.Tree) {
	for _, item := range sortedItems(tree) {
		s.GenTape(tree, item)
	}
}
