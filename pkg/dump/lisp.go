package dump

import (
	"fmt"

	"github.com/rattab/legiontech/pkg/rng"
	"github.com/rattab/legiontech/pkg/ttree"
	"github.com/rattab/legiontech/pkg/writer"
)

// tapeLen is the fixed capacity of the shuffled bill-of-materials buffer
// dump_tape packs a node's children into, one slot per possible NodeID.
const tapeLen = ttree.NodeIDMax + 1

// DumpLisp writes every live node in tree to w in the canonical Lisp
// dialect pkg/reader and pkg/parse consume, mirroring tech_dump's
// dump_lisp_node loop.
func DumpLisp(w *writer.Writer, tree *ttree.Tree) error {
	for _, node := range tree.All() {
		dumpLispNode(w, tree, node)
	}
	w.Line()
	return w.Err()
}

func dumpLispNode(w *writer.Writer, tree *ttree.Tree, node *ttree.Node) {
	w.Line()
	w.Open()
	w.Symbol(node.Name)

	w.OpenNL()
	w.Symbol("info")
	w.Field("type", func() { w.Symbol(node.Type.String()) })
	if node.Config != "" {
		w.FieldSymbol("config", node.Config)
	}
	w.Close() // info

	if node.Type == ttree.TypeSys {
		w.Line()
		w.Close() // node
		return
	}

	dumpSpecs(w, node)
	dumpTapeSection(w, tree, node)
	dumpDbg(w, tree, node)

	w.Close() // node
}

func dumpSpecs(w *writer.Writer, node *ttree.Node) {
	w.OpenNL()
	w.Symbol("specs")
	w.Field("lab-bits", func() { w.U64(uint64(node.Lab.Bits)) })
	w.Field("lab-work", func() { w.U64(uint64(node.Lab.Work)) })
	w.Field("lab-energy", func() { w.U64(uint64(node.Lab.Energy)) })
	if node.Specs != "" {
		w.Line()
		w.Symbol(node.Specs)
	}
	w.Close() // specs
}

func dumpTapeSection(w *writer.Writer, tree *ttree.Tree, node *ttree.Node) {
	w.OpenNL()
	w.Symbol("tape")
	w.Field("work", func() { w.U64(node.Work.Node) })
	w.Field("energy", func() { w.U64(node.Energy.Node) })
	w.FieldSymbol("host", tree.Name(node.Host.ID))

	dumpTape(w, tree, node)

	w.Field("out", func() {
		w.OpenNL()
		w.Symbol("item-" + node.Name)
		w.U64(1)
		w.Close()
	})
	w.Close() // tape
}

// dumpTape packs node's direct children into a 256-slot array, shuffled
// from both ends with an RNG seeded on node's own id, then emits the
// result as the "in" field of the tape. Grounded function-for-function on
// dump_tape in tech_dump.c, right down to its one documented anomaly: when
// the final remaining edge matches the item already sitting in the back
// bucket, the original increments the FRONT bucket's slot rather than the
// back one. That is reproduced verbatim below — it is an inherited quirk
// of the shipped generator, not a bug to silently correct, and fixing it
// would break determinism parity with already-shipped tech.lisp output.
func dumpTape(w *writer.Writer, tree *ttree.Tree, node *ttree.Node) {
	if len(node.Children.Edges) == 0 {
		return
	}

	w.OpenNL()
	w.Symbol("in")
	for _, edge := range ComputeTape(node) {
		child := tree.Node(edge.ID)
		w.OpenNL()
		w.Symbol("item-" + child.Name)
		w.U64(uint64(edge.Count))
		w.Close()
	}
	w.Close() // in
}

// ComputeTape packs node's direct children into a 256-slot array, shuffled
// from both ends with an RNG seeded on node's own id, and returns them in
// final tape order. This is the data pkg/dbgen's tape_register fragments
// are built from downstream, so it is the same order dump_lisp_node's
// own "in" field shows: a node's .lisp dump and its compiled tape agree on
// input order because both are computed by this one routine.
//
// Grounded function-for-function on dump_tape in tech_dump.c, right down
// to its one documented anomaly: when the final remaining edge matches
// the item already sitting in the back bucket, the original increments
// the FRONT bucket's slot rather than the back one. That is reproduced
// verbatim below — it is an inherited quirk of the shipped generator, not
// a bug to silently correct, and fixing it would break determinism parity
// with already-shipped tech.lisp output.
func ComputeTape(node *ttree.Node) ttree.Edges {
	if len(node.Children.Edges) == 0 {
		return nil
	}

	r := rng.FromNodeID(uint8(node.ID))
	ins := node.Children.Edges.Copy()

	var tape [tapeLen]ttree.Edge
	front, back := 0, tapeLen

	for len(ins) > 0 {
		i := int(r.Uniform(0, uint64(len(ins))))
		in := ins[i]

		if len(ins) == 1 {
			front = tapeFinalEdge(&tape, front, back, in)
			break
		}

		maxOp := uint64(1) // op_back
		if in.Count > 1 {
			maxOp = 2 // op_both
		}
		op := r.Uniform(0, maxOp+1)

		max := uint64(in.Count)
		if op == 2 {
			max /= 2
		}
		edge := ttree.Edge{ID: in.ID, Count: uint32(r.Uniform(0, max)) + 1}

		if op == 0 || op == 2 {
			if front > 0 && tape[front-1].ID == edge.ID {
				tape[front-1].Count += edge.Count
			} else {
				tape[front] = edge
				front++
			}
			ins, _ = ins.Dec(edge.ID, edge.Count)
		}
		if op == 1 || op == 2 {
			if back < tapeLen && tape[back].ID == edge.ID {
				tape[back].Count += edge.Count
			} else {
				back--
				tape[back] = edge
			}
			ins, _ = ins.Dec(edge.ID, edge.Count)
		}
	}

	out := make(ttree.Edges, 0, front+(tapeLen-back))
	for i := 0; ; i++ {
		if i == front {
			i = back
		}
		if i == tapeLen {
			break
		}
		out = append(out, tape[i])
	}
	return out
}

// tapeFinalEdge places the last remaining bill-of-materials edge into
// tape and returns the (possibly advanced) front index. Split out of
// ComputeTape so the inherited back-bucket anomaly can be exercised directly:
// when in merges into an already-placed front entry it's appended there;
// when it merges into the back bucket's entry, the original increments the
// FRONT slot instead of the back one (a shipped quirk, reproduced here
// rather than fixed); otherwise it's placed fresh at front and front
// advances.
func tapeFinalEdge(tape *[tapeLen]ttree.Edge, front, back int, in ttree.Edge) int {
	switch {
	case front > 0 && tape[front-1].ID == in.ID:
		tape[front-1].Count += in.Count
		return front
	case back < tapeLen && tape[back].ID == in.ID:
		tape[front].Count += in.Count
		return front
	default:
		tape[front] = in
		return front + 1
	}
}

func dumpDbg(w *writer.Writer, tree *ttree.Tree, node *ttree.Node) {
	w.OpenNL()
	w.Symbol("dbg")

	w.OpenNL()
	w.Symbol("info")
	w.Field("id", func() { w.Symbol(fmt.Sprintf("%x", uint8(node.ID))) })
	w.Field("layer", func() { w.U64(uint64(node.ID.Layer())) })
	w.Close() // info

	w.Field("work", func() {
		w.Field("min", func() { w.U64(node.Work.Min) })
		w.Field("total", func() { w.U64(node.Work.Total) })
	})
	w.FieldU64("energy", node.Energy.Total)

	dumpEdgeList(w, tree, "children", node.Children.Edges)
	dumpEdgeList(w, tree, "needs", node.Needs.Edges)

	w.Close() // dbg
}

func dumpEdgeList(w *writer.Writer, tree *ttree.Tree, key string, edges ttree.Edges) {
	w.OpenNL()
	w.Symbol(key)
	w.U64(uint64(len(edges)))
	for _, e := range edges {
		child := tree.Node(e.ID)
		w.OpenNL()
		w.Symbol(fmt.Sprintf("%02x", uint8(e.ID)))
		w.Symbol(child.Name)
		w.U64(uint64(e.Count))
		w.Close()
	}
	w.Close()
}
