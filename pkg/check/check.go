// Package check implements the two invariant-checking passes run around
// the generator, tech_check.c's Go counterpart: Inputs validates the
// configuration as parsed (before generation fills anything in), and
// Outputs validates what the generator produced.
//
// Both passes accumulate every violation into a diag.Diagnostics instead
// of stopping at the first one, per spec.md §7.
package check

import (
	"strings"

	"github.com/rattab/legiontech/pkg/diag"
	"github.com/rattab/legiontech/pkg/ttree"
)

// checkMult/checkDiv set the tolerance window a generated count is
// allowed to drift from its expected value: +/- max(exp*8/10, 1).
const (
	checkMult = 8
	checkDiv  = 10
)

// Inputs validates every elemental node has work/energy set and that
// each node's declared needs are reachable from its declared inputs,
// mirroring tech_check_inputs.
func Inputs(tree *ttree.Tree, diags *diag.Diagnostics) {
	for _, node := range tree.All() {
		if node.Type == ttree.TypeSys {
			continue
		}
		checkBasics(tree, node, diags)
		checkInputsNeeds(tree, node, diags)
	}
}

func checkBasics(tree *ttree.Tree, node *ttree.Node, diags *diag.Diagnostics) {
	if !node.Type.Elemental() {
		return
	}
	if node.Work.Node == 0 {
		diags.Errf("", 0, 0, "[%s:%s] missing work", node.ID, node.Name)
	}
	if node.Energy.Node == 0 {
		diags.Errf("", 0, 0, "[%s:%s] missing energy:node", node.ID, node.Name)
	}
}

// sumNeeds accumulates, for `count` copies of node, the elemental
// obligation node stands for: its own base.needs when it has any,
// otherwise the recursive expansion of its base.in edges, otherwise node
// itself. Mirrors check_inputs_sum_needs.
func sumNeeds(tree *ttree.Tree, node *ttree.Node, sum *ttree.Edges, count uint32) {
	if len(node.Base.Needs) > 0 {
		for _, need := range node.Base.Needs {
			*sum = sum.Inc(need.ID, need.Count*count)
		}
		return
	}
	if len(node.Base.In) > 0 {
		for _, in := range node.Base.In {
			sumNeeds(tree, tree.Node(in.ID), sum, in.Count*count)
		}
		return
	}
	*sum = sum.Inc(node.ID, count)
}

// sumElems recurses through node's base.in edges accumulating, for count
// copies of node, how many of each elemental descendant the declared
// bill-of-materials requires. The divisor applied to each recursive count
// is the node's own output count clamped by min(1, ...), with 0 also
// mapped to 1, so it is always 1 and counts are never actually divided.
// Mirrors check_inputs_sum_elems.
func sumElems(tree *ttree.Tree, node *ttree.Node, sum *ttree.Edges, count uint32) {
	div := node.Out.Count(node.ID)
	if div > 1 {
		div = 1
	}
	if div == 0 {
		div = 1
	}
	for _, elem := range node.Base.In {
		*sum = sum.Inc(elem.ID, elem.Count*count)
		sumElems(tree, tree.Node(elem.ID), sum, (elem.Count/div)*count)
	}
}

// checkInputsNeeds validates that a node's base.needs are satisfiable
// both from its direct declared inputs (the "ins" pass) and from the
// elemental closure of those inputs (the "elems" pass), each time
// subtracting what it validated so that only the parts still unaccounted
// for remain in node.Needs once both passes finish. Mirrors
// check_inputs_needs.
func checkInputsNeeds(tree *ttree.Tree, node *ttree.Node, diags *diag.Diagnostics) {
	if len(node.Base.Needs) == 0 {
		return
	}

	var ins ttree.Edges
	for _, in := range node.Base.In {
		sumNeeds(tree, tree.Node(in.ID), &ins, in.Count)
	}

	needs := node.Needs.Edges
	for _, exp := range ins {
		val := needs.Count(exp.ID)
		if val >= exp.Count {
			continue
		}
		diags.Errf("", 0, 0, "[%s:%s] inputs.ins: field=%s:%s, val=%d, needs=%d",
			node.ID, node.Name, exp.ID, tree.Name(exp.ID), val, exp.Count)
	}
	for _, e := range ins {
		node.NeedsDec(e.ID, e.Count)
	}

	var elems ttree.Edges
	for _, need := range node.Needs.Edges {
		sumElems(tree, tree.Node(need.ID), &elems, need.Count)
	}

	for _, exp := range elems {
		val := node.Needs.Edges.Count(exp.ID)
		if val >= exp.Count {
			continue
		}
		in := ins.Count(exp.ID)
		base := node.Base.Needs.Count(exp.ID)
		diags.Errf("", 0, 0,
			"[%s:%s] inputs.elems: field=%s:%s, val=%d, exp=%d | %d >= %d { ins=%d + elems=%d }",
			node.ID, node.Name, exp.ID, tree.Name(exp.ID), val, exp.Count,
			base, in+exp.Count, in, exp.Count)
	}
	for _, e := range elems {
		node.NeedsDec(e.ID, e.Count)
	}
}

// Outputs validates what the generator produced against its tolerance
// rules: tape length, singleton children, needs drift, and host
// resolution. Mirrors tech_check_outputs.
func Outputs(tree *ttree.Tree, diags *diag.Diagnostics) {
	var deps ttree.Bits

	for _, node := range tree.All() {
		if node.Type == ttree.TypeSys || node.Type.Elemental() {
			continue
		}

		checkTape(node, diags)
		checkChildren(tree, node, diags)
		if !node.Generated && len(node.Base.Needs) > 0 {
			checkNeeds(tree, node, diags)
		}
		if !node.Generated {
			checkDeps(tree, node, &deps, diags)
		}
	}

	for _, node := range tree.All() {
		checkHost(tree, node, diags)
	}
}

// checkTape flags a node whose generated tape (inputs + work + outputs)
// is longer than 255 slots.
func checkTape(node *ttree.Node, diags *diag.Diagnostics) {
	var ins uint64
	for _, e := range node.Children.Edges {
		ins += uint64(e.Count)
	}
	work := node.Work.Node
	outs := uint64(len(node.Out))
	if outs < 1 {
		outs = 1
	}
	total := ins + work + outs
	if total > 255 {
		diags.Errf("", 0, 0, "[%s:%s] tape length: ins=%d + work=%d + outs=%d = %d",
			node.ID, node.Name, ins, work, outs, total)
	}
}

// checkChildren flags a bill-of-materials that degenerates to exactly
// one unit of exactly one child: such a node contributes nothing beyond
// its sole input and should have been folded into it.
func checkChildren(tree *ttree.Tree, node *ttree.Node, diags *diag.Diagnostics) {
	if len(node.Children.Edges) == 1 && node.Children.Edges[0].Count == 1 {
		edge := node.Children.Edges[0]
		diags.Errf("", 0, 0, "[%s:%s] singleton: id=%s:%s", node.ID, node.Name, edge.ID, tree.Name(edge.ID))
	}
}

// checkDelta reports whether value lies within the tolerance window
// around exp: +/- max(exp*checkMult/checkDiv, 1), or flags value!=0 when
// exp is itself 0.
func checkDelta(field string, node *ttree.Node, value, exp uint32, diags *diag.Diagnostics) {
	if exp == 0 {
		if value != 0 {
			diags.Errf("", 0, 0, "[%s:%s] field=%s, exp=%d, has=%d", node.ID, node.Name, field, exp, value)
		}
		return
	}
	delta := exp * checkMult / checkDiv
	if delta < 1 {
		delta = 1
	}
	clampedDelta := delta
	if clampedDelta > exp {
		clampedDelta = exp
	}
	min := exp - clampedDelta
	max := exp + delta
	if value >= min && value <= max {
		return
	}
	diags.Errf("", 0, 0, "[%s:%s] field=%s, exp={%d +/- %d}, has={%d <= %d <= %d}",
		node.ID, node.Name, field, exp, delta, min, value, max)
}

func checkDeltaID(field string, tree *ttree.Tree, node *ttree.Node, id ttree.NodeID, value, exp uint32, diags *diag.Diagnostics) {
	checkDelta(field+":"+id.String()+":"+tree.Name(id), node, value, exp, diags)
}

// checkNeeds compares the as-parsed base.needs set against what the
// generator actually recorded in node.Needs, flagging anything missing,
// anything extra, and any shared entry whose count drifted outside
// tolerance.
func checkNeeds(tree *ttree.Tree, node *ttree.Node, diags *diag.Diagnostics) {
	base := node.Base.Needs.Set()

	missing := node.Needs.Set.Minus(base)
	for id, ok := missing.Next(0); ok; id, ok = missing.Next(int(id) + 1) {
		diags.Errf("", 0, 0, "[%s:%s] missing needs: id=%s:%s", node.ID, node.Name, id, tree.Name(id))
	}

	extra := base.Minus(node.Needs.Set)
	for id, ok := extra.Next(0); ok; id, ok = extra.Next(int(id) + 1) {
		diags.Errf("", 0, 0, "[%s:%s] extra needs: id=%s:%s", node.ID, node.Name, id, tree.Name(id))
	}

	shared := base.Intersect(node.Needs.Set)
	for id, ok := shared.Next(0); ok; id, ok = shared.Next(int(id) + 1) {
		baseEdge := node.Base.Needs.Find(id)
		needEdge := node.Needs.Edges.Find(id)
		if baseEdge == nil || needEdge == nil {
			continue
		}
		checkDeltaID("need", tree, node, id, needEdge.Count, baseEdge.Count, diags)
	}
}

// checkDeps walks node's non-elemental children that have not already
// been visited via set, recording how many new dependencies this node
// introduces to the overall tree. Mirrors check_deps's informational
// new-deps trace; it never raises an error.
func checkDeps(tree *ttree.Tree, node *ttree.Node, set *ttree.Bits, diags *diag.Diagnostics) {
	var names []string

	var visit func(n *ttree.Node)
	visit = func(n *ttree.Node) {
		set.Put(n.ID)
		for _, edge := range n.Children.Edges {
			if set.Has(edge.ID) {
				continue
			}
			child := tree.Node(edge.ID)
			if child == nil || child.Type.Elemental() {
				continue
			}
			names = append(names, child.ID.String()+":"+child.Name)
			visit(child)
		}
	}
	visit(node)

	if len(names) == 0 {
		return
	}
	diags.Trace("[%s:%s] new-deps %d:[%s ]", node.ID, node.Name, len(names), strings.Join(names, " "))
}

// checkHost flags a declared host symbol that does not resolve to any
// node in the tree.
func checkHost(tree *ttree.Tree, node *ttree.Node, diags *diag.Diagnostics) {
	if node.Host.Name == "" {
		return
	}
	if tree.Symbol(node.Host.Name) != nil {
		return
	}
	diags.Errf("", 0, 0, "[%s:%s] unknown host: %s", node.ID, node.Name, node.Host.Name)
}
