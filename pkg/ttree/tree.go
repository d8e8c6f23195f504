package ttree

import "fmt"

// ErrLayerFull is returned by Insert/Append when every index slot in the
// requested layer is already occupied. Per spec.md §7 this is a resource
// error: the caller should treat it as fatal.
var ErrLayerFull = fmt.Errorf("ttree: layer is full")

// Tree is the fixed-capacity node arena plus the symbol table that maps
// node names to ids. It is the only long-lived allocation in the pipeline
// (spec.md §5).
type Tree struct {
	nodes   [LayerCap * IndexCap]*Node
	symbols map[string]NodeID

	// Printer and Assembly cache the ids of the two nodes named "printer"
	// and "assembly", used as default generation hosts (spec.md §4.5(d)).
	Printer, Assembly NodeID
}

// New returns an empty Tree.
func New() *Tree {
	return &Tree{symbols: make(map[string]NodeID)}
}

// Node returns the live node at id, or nil if that slot is empty. Id 0 is
// always empty: it is the reserved "null" id.
func (t *Tree) Node(id NodeID) *Node {
	n := t.nodes[id]
	if n == nil || n.ID == 0 {
		return nil
	}
	return n
}

// Symbol resolves a node name to its node, or nil if unknown.
func (t *Tree) Symbol(name string) *Node {
	id, ok := t.symbols[name]
	if !ok {
		return nil
	}
	return t.Node(id)
}

// Name returns the name of id, or "nil" if id does not resolve to a live
// node (mirrors tree_name's fallback in the original implementation, used
// when formatting diagnostics for a dangling reference).
func (t *Tree) Name(id NodeID) string {
	if n := t.Node(id); n != nil {
		return n.Name
	}
	return "nil"
}

// Insert allocates the lowest free index within layer and registers name
// in the symbol table. Used for hand-authored nodes parsed from the
// configuration file.
func (t *Tree) Insert(layer uint8, name string) (*Node, error) {
	first := int(FirstOfLayer(layer))
	last := LastOfLayer(layer)
	if first == 0 {
		first++ // id 0 (layer 0, index 0) is reserved
	}

	for i := first; i < last; i++ {
		id := NodeID(i)
		if t.nodes[id] == nil {
			n := &Node{ID: id, Name: name}
			t.nodes[id] = n
			t.symbols[name] = id
			t.cacheWellKnown(name, id)
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: layer %d", ErrLayerFull, layer)
}

// Append allocates the highest free index within layer, without
// registering a symbol (the node has no name yet). Used by the generator
// for synthesised passive nodes, so that they sort after hand-authored
// ones in the same layer.
func (t *Tree) Append(layer uint8) (*Node, error) {
	first := int(FirstOfLayer(layer))
	last := int(LastOfLayer(layer))
	if first == 0 {
		first++
	}

	for i := last - 1; i >= first; i-- {
		id := NodeID(i)
		if t.nodes[id] == nil {
			n := &Node{ID: id}
			t.nodes[id] = n
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: layer %d", ErrLayerFull, layer)
}

// SetSymbol registers name for node in the symbol table. It fails (returns
// false) if name is already taken by a different node, letting the
// generator's naming loop retry with a different candidate name on
// collision.
func (t *Tree) SetSymbol(node *Node, name string) bool {
	if existing, ok := t.symbols[name]; ok && existing != node.ID {
		return false
	}
	t.symbols[name] = node.ID
	return true
}

func (t *Tree) cacheWellKnown(name string, id NodeID) {
	switch name {
	case "printer":
		t.Printer = id
	case "assembly":
		t.Assembly = id
	}
}

// All returns every live node, ordered by ascending id. Every stage of the
// pipeline iterates the tree in this order, which keeps generation,
// checking and dumping deterministic.
func (t *Tree) All() []*Node {
	out := make([]*Node, 0, len(t.nodes))
	for id := 0; id <= NodeIDMax; id++ {
		if n := t.nodes[id]; n != nil {
			out = append(out, n)
		}
	}
	return out
}
