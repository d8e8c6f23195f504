package dump

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rattab/legiontech/pkg/ttree"
)

// DumpDot writes a Graphviz "strict digraph" of tree's child/parent edges
// to w, one subgraph stanza per node coloured by type. Mirrors
// dump_dot_node/dump_dot_suffix in tech_dump.c; nodes whose type has no
// assigned colour (sys, or an unset type) are skipped entirely, same as
// the original's early return.
func DumpDot(w io.Writer, tree *ttree.Tree) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "strict digraph {\n\n")
	for _, node := range tree.All() {
		dumpDotNode(bw, node)
	}
	fmt.Fprint(bw, "}\n")

	return bw.Flush()
}

func dotColor(t ttree.NodeType) (string, bool) {
	switch t {
	case ttree.TypeNatural:
		return "blue", true
	case ttree.TypeSynthetic:
		return "purple", true
	case ttree.TypeActive:
		return "red", true
	case ttree.TypeLogistics:
		return "orange", true
	case ttree.TypePassive:
		return "green", true
	default:
		return "", false
	}
}

func dotNodeID(id ttree.NodeID) string {
	return fmt.Sprintf("%02x", uint8(id))
}

func dumpDotNode(w *bufio.Writer, node *ttree.Node) {
	color, ok := dotColor(node.Type)
	if !ok {
		return
	}

	idStr := dotNodeID(node.ID)
	fmt.Fprintf(w, "subgraph { node [color=%s; label=\"%s:%s\"]; \"%s\" }\n",
		color, idStr, node.Name, idStr)

	for _, child := range node.Children.Edges {
		fmt.Fprintf(w, "\"%s\" -> \"%s\" [headlabel=\"%d\"; arrowsize=0.5]\n",
			dotNodeID(child.ID), idStr, child.Count)
	}

	fmt.Fprint(w, "\n")
}
