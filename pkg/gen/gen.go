// Package gen is the generator: the pipeline's centerpiece, which takes
// the tree pkg/parse produced — every elemental node complete, every
// assembled node carrying only its declared (needs ...) obligation — and
// fills in the bill-of-materials, host, lab parameters and name for
// every node that doesn't already have one.
//
// It is the Go counterpart of tech_gen.c. The recursion, the threshold
// and trim-needs heuristics, the link-or-create child search, and the
// syllable-composition namer are all ported function-for-function from
// that file; see each function's doc comment for its C original.
package gen

import (
	"github.com/rattab/legiontech/pkg/diag"
	"github.com/rattab/legiontech/pkg/rng"
	"github.com/rattab/legiontech/pkg/ttree"
)

// childCountCap bounds how many units of one child a single node may
// record directly, mirroring tech.c's child_count_cap.
const childCountCap = 32

// nameCap bounds the length of a generated name, mirroring tech.c's
// name_cap (there sized off the fixed-capacity symbol buffer; here just
// a generation budget since Go strings aren't fixed-size).
const nameCap = 24

// generator holds the per-node state threaded through one gen_node call:
// the node being generated, its deterministic RNG, and the threshold
// computed for its needs-trimming heuristics.
type generator struct {
	tree      *ttree.Tree
	node      *ttree.Node
	rng       *rng.RNG
	threshold uint32
	diags     *diag.Diagnostics
}

// Generate runs the full generation pass over every non-system node in
// tree: gen_out_div and gen_elem_setup's elemental bootstrap, the
// recursive gen_node expansion, and the closing gen_elem_inc/gen_item_inc
// pass that folds elemental cost back into every node's needs. Mirrors
// tech_gen.
func Generate(tree *ttree.Tree, diags *diag.Diagnostics) {
	for _, node := range tree.All() {
		if node.Type == ttree.TypeSys {
			continue
		}
		genOutDiv(node)
		if node.Type.Elemental() {
			genElemSetup(node)
		}
		genNode(tree, node, diags)
	}

	for _, node := range tree.All() {
		if node.Type == ttree.TypeSys {
			continue
		}
		if node.Type.Elemental() {
			genElemInc(tree, node)
		} else {
			genItemInc(tree, node)
		}
		diags.Trace("gen.inc: %s:%s", node.ID, node.Name)
	}
}

// genOutDiv normalises a multi-output tape's needs down to the cost of
// producing a single unit of output, so the rest of generation never has
// to reason about output ratios. Mirrors gen_out_div. A node with no
// declared (out ...) entry for itself is given an implicit self-output
// of 1, matching the original's "if you don't say otherwise, you make
// one of yourself" default.
func genOutDiv(node *ttree.Node) {
	div := node.Out.Count(node.ID)
	if div == 0 {
		node.Out = node.Out.Inc(node.ID, 1)
	}
	if div <= 1 {
		return
	}
	for i := range node.Needs.Edges {
		node.Needs.Edges[i].Count = ceilDiv(node.Needs.Edges[i].Count, div)
	}
}

func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}

// genElemSetup gives every elemental node a self-need of 1, the seed
// that lets gen_elem_inc/gen_item_inc compute every assembled node's
// elemental cost purely by walking needs. Mirrors gen_elem_setup.
func genElemSetup(node *ttree.Node) {
	node.NeedsInc(node.ID, 1)
}

// genNode recursively generates node and everything it ends up needing,
// memoised by node.Done so that a node reachable through more than one
// path is only generated once. Mirrors gen_node.
func genNode(tree *ttree.Tree, node *ttree.Node, diags *diag.Diagnostics) {
	if node.Done {
		return
	}
	diags.Trace("gen: %s:%s", node.ID, node.Name)

	g := &generator{
		tree:  tree,
		node:  node,
		rng:   rng.FromNodeID(uint8(node.ID)),
		diags: diags,
	}

	// A node created by gen_child_create never went through parsing, so
	// its base.needs snapshot is taken here instead.
	if node.Generated {
		node.Base.Needs = node.Needs.Edges.Copy()
	}

	if !node.Type.Elemental() {
		genThreshold(g)
		genChildElem(g)
		genChildren(g)
	}

	genHost(g)
	genLab(g)

	for _, edge := range node.Children.Edges {
		genNode(tree, tree.Node(edge.ID), diags)
	}

	genUpdate(g)
	if node.Name == "" {
		genNodeName(g)
	}
	node.Done = true
}

// genThreshold computes 35% of the node's largest outstanding need: a
// floor below which gen_trim_needs is willing to drop a need rather than
// spend a whole child node satisfying it. Mirrors gen_threshold.
func genThreshold(g *generator) {
	node := g.node

	var max *ttree.Edge
	for i := range node.Needs.Edges {
		need := &node.Needs.Edges[i]
		if max != nil && max.Count > need.Count {
			continue
		}
		max = need
	}
	if max == nil {
		return
	}

	g.threshold = uint32(uint64(max.Count) * 35 / 100)
	g.diags.Trace("gen.threshold: edge=%s:%d, thresh=%d", max.ID, max.Count, g.threshold)
}

// genTrimNeeds drops any outstanding need whose count has fallen at or
// below the node's threshold and has already been partially satisfied
// (its current count differs from its as-declared base count), so the
// generator doesn't spend an entire child node chasing a sliver of
// demand. Mirrors gen_trim_needs.
func genTrimNeeds(g *generator) bool {
	node := g.node

	trimmed := false
	ix := 0
	for ix < len(node.Needs.Edges) {
		it := node.Needs.Edges[ix]
		base := node.Base.Needs.Find(it.ID)
		baseCount := it.Count
		if base != nil {
			baseCount = base.Count
		}

		if baseCount == it.Count || it.Count > g.threshold {
			ix++
			continue
		}

		g.diags.Trace("gen.needs.trim: edge=%s:%d, threshold=%d", it.ID, it.Count, g.threshold)
		node.NeedsDec(it.ID, it.Count)
		trimmed = true
		// node.Needs.Edges just shrank in place; re-examine index ix.
	}

	return trimmed
}

// genChildElem links any outstanding need that sits directly one layer
// below node straight in as a child, since there is nothing left to
// gain by searching for an intermediate node. It also folds in a lone
// remaining need regardless of its layer, on the theory that a single
// need can't benefit from being wrapped in another node. Mirrors
// gen_child_elem.
func genChildElem(g *generator) {
	node := g.node
	layer := node.ID.Layer()

	ix := 0
	for ix < len(node.Needs.Edges) {
		it := node.Needs.Edges[ix]
		if it.ID.Layer() < layer-1 {
			ix++
			continue
		}

		count := it.Count
		if count > childCountCap {
			count = childCountCap
		}
		node.ChildInc(it.ID, count)
		node.NeedsDec(it.ID, it.Count)
	}

	if len(node.Needs.Edges) == 1 {
		edge := node.Needs.Edges[0]
		count := edge.Count
		if count > childCountCap {
			count = childCountCap
		}
		node.ChildInc(edge.ID, count)
		node.NeedsDec(edge.ID, edge.Count)
	}
}

// genCount is gen_child_count's verdict on how well a candidate child
// covers node's outstanding needs: how many copies of child node could
// absorb (count), how many distinct needs it touches (set), and the
// highest-id need it touches (msb) — used to prefer candidates that
// cover node's hardest-to-satisfy (highest id, i.e. deepest) need.
type genCount struct {
	count uint32
	set   uint32
	msb   ttree.NodeID
}

// genChildCount scores child as a candidate to satisfy some of node's
// needs: child only qualifies if every one of its own needs is already
// present in node's needs (child.needs.set subset of node.needs.set).
// Mirrors gen_child_count.
func genChildCount(node, child *ttree.Node) genCount {
	if !node.Needs.Set.Contains(child.Needs.Set) {
		return genCount{}
	}

	ret := genCount{count: ^uint32(0)}
	for _, c := range child.Needs.Edges {
		n := node.Needs.Edges.Find(c.ID)
		if n == nil {
			return genCount{}
		}
		ret.set++
		ret.msb = c.ID
		if r := n.Count / c.Count; r < ret.count {
			ret.count = r
		}
	}

	if ret.count > childCountCap {
		ret.count = childCountCap
	}
	return ret
}

// genChildLink records count units of child as a direct child of node,
// removing from node's needs everything that many units of child
// consume. Mirrors gen_child_link.
func genChildLink(g *generator, node, child *ttree.Node, count uint32) {
	for _, needs := range child.Needs.Edges {
		node.NeedsDec(needs.ID, needs.Count*count)
	}
	node.ChildInc(child.ID, count)
	g.diags.Trace("gen.child.link: %s:%s x%d", child.ID, child.Name, count)
}

// genChildCreate allocates a brand new passive node in layer, sized to
// absorb as much of node's outstanding needs as it reasonably can, and
// links it in as node's child. Returns false if layer has no room left.
// Mirrors gen_child_create.
func genChildCreate(g *generator, layer uint8) bool {
	node := g.node

	g.diags.Trace("gen.child.set: layer=%d, set=%v", layer, node.Needs.Set)

	child, err := g.tree.Append(layer)
	if err != nil {
		return false
	}
	child.Type = ttree.TypePassive
	child.Generated = true

	var max uint32
	for _, e := range node.Needs.Edges {
		if e.Count > max {
			max = e.Count
		}
	}

	const div = 10
	min := ^uint32(0)

	needs := append(ttree.Edges(nil), node.Needs.Edges...)
	for _, needsEdge := range needs {
		mult := uint32(g.rng.Exp(1, div))
		count := max * mult / div
		floor := g.threshold
		if floor < 1 {
			floor = 1
		}
		if count < floor {
			count = floor
		}
		if count > needsEdge.Count {
			count = needsEdge.Count
		}
		if count == 0 {
			count = 1
		}

		if child.ID.Layer()-1 > needsEdge.ID.Layer() {
			child.NeedsInc(needsEdge.ID, count)
		} else {
			if count > childCountCap {
				count = childCountCap
			}
			child.ChildInc(needsEdge.ID, count)
		}

		if r := needsEdge.Count / count; r < min {
			min = r
		}
	}

	for _, needsEdge := range child.Needs.Edges {
		node.NeedsDec(needsEdge.ID, needsEdge.Count*min)
	}
	for _, childEdge := range child.Children.Edges {
		node.NeedsDec(childEdge.ID, childEdge.Count*min)
	}
	node.ChildInc(child.ID, min)

	g.diags.Trace("gen.child.new: %s", child.ID)
	g.diags.Trace("gen.child.create: %s:%s", node.ID, node.Name)
	return true
}

// layerIDsDescending returns every node id in layer, from the top index
// down to the bottom, matching the descending arena-address walk
// gen_children performs over gen->tree->nodes.
func layerIDsDescending(layer uint8) []ttree.NodeID {
	first := int(ttree.FirstOfLayer(layer))
	last := ttree.LastOfLayer(layer)
	ids := make([]ttree.NodeID, 0, last-first)
	for i := last - 1; i >= first; i-- {
		ids = append(ids, ttree.NodeID(i))
	}
	return ids
}

// genChildren is the heart of the generator: it drains node's needs by
// preferring existing nodes over newly created ones, in three passes.
// Mirrors gen_children.
func genChildren(g *generator) {
	node := g.node
	tree := g.tree
	if len(node.Needs.Edges) == 0 {
		return
	}

	top := node.ID.Layer() - 1

	var maxChildLayer uint8
	for _, e := range node.Children.Edges {
		if l := e.ID.Layer(); l > maxChildLayer {
			maxChildLayer = l
		}
	}

	// Pass 1: guarantee the first child sits directly below node and
	// covers its deepest (MSB) need, so the tree gains the right depth
	// immediately instead of lazily.
	if maxChildLayer < top {
		var match genCount
		var child *ttree.Node
		for _, id := range layerIDsDescending(top) {
			it := tree.Node(id)
			if it == nil || it.Type.Elemental() {
				continue
			}
			if node.Type == ttree.TypePassive && it.Type != ttree.TypePassive {
				continue
			}
			counts := genChildCount(node, it)
			if counts.count == 0 {
				continue
			}
			if counts.msb < match.msb {
				continue
			}
			match, child = counts, it
		}

		nodeMSB, _ := node.Needs.Set.MSB()
		if match.msb != nodeMSB {
			genChildCreate(g, top)
		} else {
			genChildLink(g, node, child, match.count)
		}
	}

	// Pass 2: link to as many existing nodes as possible, preferring the
	// candidate that covers the deepest need and, among ties, the one
	// that covers the most distinct needs.
	for len(node.Needs.Edges) > 0 {
		var child *ttree.Node
		match := genCount{}

		bottomID, ok := node.Needs.Set.MSB()
		if !ok {
			break
		}
		bottom := bottomID.Layer()

		first := int(ttree.FirstOfLayer(bottom + 1))
		last := ttree.LastOfLayer(top)
		for i := last - 1; i >= first; i-- {
			it := tree.Node(ttree.NodeID(i))
			if it == nil || it.Type.Elemental() {
				continue
			}
			if node.Type == ttree.TypePassive && it.Type != ttree.TypePassive {
				continue
			}
			if node.Children.Set.Has(it.ID) {
				continue
			}
			counts := genChildCount(node, it)
			if counts.count == 0 {
				continue
			}
			if counts.msb < match.msb {
				continue
			}
			if counts.set < match.set {
				continue
			}
			match, child = counts, it
		}

		if child != nil {
			genChildLink(g, node, child, match.count)
		} else if !genTrimNeeds(g) {
			break
		}
	}

	// Pass 3: create new nodes to drain whatever is left.
	failures := 0
	for len(node.Needs.Edges) > 0 {
		bottomID, ok := node.Needs.Set.MSB()
		if !ok {
			break
		}
		bottom := bottomID.Layer()

		layer := uint8(g.rng.Exp(uint64(bottom), uint64(top))) + 1
		if !genChildCreate(g, layer) {
			failures++
			if failures > 5 {
				break
			}
		}
		genTrimNeeds(g)
	}
}

// genHost picks node's generation host: the node's declared host symbol
// if it resolves, otherwise the printer (if any child is elemental) or
// the assembly line as a fallback. Mirrors gen_host.
func genHost(g *generator) {
	node := g.node
	tree := g.tree

	if node.Host.Name != "" {
		if host := tree.Symbol(node.Host.Name); host != nil {
			node.Host.ID = host.ID
			return
		}
	}

	for _, e := range node.Children.Edges {
		child := tree.Node(e.ID)
		if child != nil && child.Type.Elemental() {
			node.Host.ID = tree.Printer
			return
		}
	}

	node.Host.ID = tree.Assembly
}

// genLab fuzzes node's lab difficulty parameters from its layer alone,
// so deeper items are harder to research by construction. Mirrors
// gen_lab.
func genLab(g *generator) {
	node := g.node
	layer := uint64(node.ID.Layer())

	node.Lab.Bits = uint8(fuzz(g.rng, layer*64/ttree.LayerCap))
	node.Lab.Work = uint8(fuzz(g.rng, layer*255/ttree.LayerCap))
	node.Lab.Energy = uint16(fuzz(g.rng, uint64(1)<<layer))
}

// fuzz returns a uniform draw from roughly [value/2, value*1.5], the lab
// parameter randomisation rule shared by gen_lab's three fields. For
// value 0 the range is [1, 2), so fuzz(0) always returns 1; genLab passes
// 0 only for the bits and work of a layer-0 node.
func fuzz(r *rng.RNG, value uint64) uint64 {
	half := value / 2
	lo := value - half
	if lo < 1 {
		lo = 1
	}
	hi := value + half
	if hi < 2 {
		hi = 2
	}
	return r.Uniform(lo, hi)
}

// genUpdate rolls node's children up into its own work/energy totals and
// needs, assigning a work/energy cost to node itself if its configuration
// left one unset. Mirrors gen_update.
func genUpdate(g *generator) {
	node := g.node
	tree := g.tree

	if node.Type.Elemental() {
		node.Work.Min += node.Work.Node
		node.Work.Total += node.Work.Node
		node.Energy.Total += node.Energy.Node * node.Work.Node
		return
	}

	tapeLen := uint64(1)
	var childWorkMax, childEnergyMax uint64

	node.Needs.Reset()
	for _, edge := range node.Children.Edges {
		child := tree.Node(edge.ID)
		tapeLen += uint64(edge.Count)

		node.Work.Total += child.Work.Total * uint64(edge.Count)
		if child.Work.Node > childWorkMax {
			childWorkMax = child.Work.Node
		}

		node.Energy.Total += child.Energy.Total * uint64(edge.Count)
		if child.Energy.Node > childEnergyMax {
			childEnergyMax = child.Energy.Node
		}

		for _, it := range child.Needs.Edges {
			node.NeedsInc(it.ID, it.Count*edge.Count)
		}
	}

	if node.Work.Node == 0 {
		min := childWorkMax + 1
		max := min + min/2
		if max < min+1 {
			max = min + 1
		}
		node.Work.Node = g.rng.Uniform(min, max)
		if node.Work.Node < 1 {
			node.Work.Node = 1
		}
		if hi := uint64(255) - tapeLen; node.Work.Node > hi {
			node.Work.Node = hi
		}
	}
	node.Work.Total += node.Work.Node
	node.Work.Min += node.Work.Node

	if node.Energy.Node == 0 {
		min := childEnergyMax + 1
		max := min + min/2
		if max < min+1 {
			max = min + 1
		}
		node.Energy.Node = g.rng.Uniform(min, max)
	}
	node.Energy.Total += node.Energy.Node * node.Work.Node

	g.diags.Trace("gen.update: %s:%s", node.ID, node.Name)
}

// genElemInc folds each elemental child's self-need into node's needs,
// weighted by how many of that child node consumes. Mirrors
// gen_elem_inc; called only for elemental nodes.
func genElemInc(tree *ttree.Tree, node *ttree.Node) {
	for _, child := range node.Children.Edges {
		elem := tree.Node(child.ID)
		if elem == nil {
			continue
		}
		for _, e := range elem.Needs.Edges {
			node.NeedsInc(e.ID, e.Count*child.Count)
		}
	}
}

// genItemInc folds the elemental cost of every need's own elemental
// closure into node's needs, excluding a need's cost against itself so
// it isn't double-counted. Mirrors gen_item_inc; called for every
// non-elemental node.
func genItemInc(tree *ttree.Tree, node *ttree.Node) {
	var sum ttree.Edges
	for _, needs := range node.Needs.Edges {
		elem := tree.Node(needs.ID)
		if elem == nil {
			continue
		}
		for _, e := range elem.Needs.Edges {
			if e.ID != needs.ID {
				sum = sum.Inc(e.ID, e.Count*needs.Count)
			}
		}
	}
	for _, e := range sum {
		node.NeedsInc(e.ID, e.Count)
	}
}
