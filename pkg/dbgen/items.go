package dbgen

import (
	"fmt"
	"sort"

	"github.com/rattab/legiontech/pkg/ttree"
)

// typeRank orders item types the way db_gen_items's comparator does: type
// first, elemental (natural/synthetic) items never compare on layer since
// they don't have a meaningful one, everything else falls back to layer
// then name.
var typeRank = map[ttree.NodeType]int{
	ttree.TypeNatural:   0,
	ttree.TypeSynthetic: 1,
	ttree.TypeLogistics: 2,
	ttree.TypeActive:    3,
	ttree.TypePassive:   4,
}

// sortedItems returns every generated, non-sys item ordered the way
// db_gen_items's cmp sorts struct db_info: by type, then by layer for
// non-elemental types, then by name. This port has no separate
// declaration-order field, so no order key is compared; the tree's
// ascending-id order is kept only between items that compare equal.
func sortedItems(tree *ttree.Tree) []*ttree.Node {
	var items []*ttree.Node
	for _, n := range tree.All() {
		if n.Type == ttree.TypeNil || n.Type == ttree.TypeSys {
			continue
		}
		items = append(items, n)
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if typeRank[a.Type] != typeRank[b.Type] {
			return typeRank[a.Type] < typeRank[b.Type]
		}
		if !a.Type.Elemental() && a.ID.Layer() != b.ID.Layer() {
			return a.ID.Layer() < b.ID.Layer()
		}
		return a.Name < b.Name
	})
	return items
}

// GenItems assigns each item a 1-based atom id in sorted order and emits
// the item_enum/im_register/im_control/im_factory fragments. Grounded on
// db_gen_items.
func (s *State) GenItems(tree *ttree.Tree) {
	items := sortedItems(tree)

	curType := ttree.TypeNil
	for i, node := range items {
		atom := s.atoms.Intern("item-" + node.Name)

		if curType != node.Type {
			if curType != ttree.TypeNil {
				s.writeBoundsEnd(curType, atom)
			}
			curType = node.Type
			fmt.Fprintf(&s.Frag.ItemEnum, "\n  // %s\n", curType)
			fmt.Fprintf(&s.Frag.ItemRegister, "\n  // %s\n", curType)
			fmt.Fprintf(&s.Frag.ItemEnum, "  items_%s_first = 0x%02x,\n", curType, atom)
		}

		enumName := toEnum(node.Name)
		fmt.Fprintf(&s.Frag.ItemEnum, "  item_%-30s = 0x%02x,\n", enumName, atom)

		switch {
		case node.Type != ttree.TypeActive:
			fmt.Fprintf(&s.Frag.ItemRegister,
				"im_register(item_%s, \"%s\", %d, \"item-%s\"),\n",
				enumName, node.Name, len(node.Name), node.Name)
		case node.Config != "":
			fmt.Fprintf(&s.Frag.ItemRegister,
				"im_register_cfg(item_%s, \"%s\", %d, \"item-%s\", im_%s_config),\n",
				enumName, node.Name, len(node.Name), node.Name, node.Config)
		default:
			fmt.Fprintf(&s.Frag.ItemRegister,
				"im_register_cfg(item_%s, \"%s\", %d, \"item-%s\", im_%s_config),\n",
				enumName, node.Name, len(node.Name), node.Name, enumName)
		}

		switch node.List {
		case ttree.ListControl:
			fmt.Fprintf(&s.Frag.ItemControl, "item_%s,\n", enumName)
		case ttree.ListFactory:
			fmt.Fprintf(&s.Frag.ItemFactory, "item_%s,\n", enumName)
		}

		if i == len(items)-1 {
			s.writeBoundsEnd(curType, atom+1)
		}
	}

	fmt.Fprintf(&s.Frag.ItemEnum, "\n  items_max = 0x%02x,\n", len(items)+1)
}

func (s *State) writeBoundsEnd(t ttree.NodeType, atom int) {
	fmt.Fprintf(&s.Frag.ItemEnum,
		"  items_%s_last = 0x%02x,\n  items_%s_len = items_%s_last - items_%s_first,\n",
		t, atom, t, t, t)
}
