package gen

// heads and tails are the syllable vocabulary gen_node_name composes
// names from: a Greek-numeral head keyed by the node's layer, and a
// handful of chemistry/sci-fi-flavoured suffixes.
var heads = []string{
	"mono", "duo", "tri", "tetra", "penta", "hexa", "hepta", "octo", "ennea",
	"deca", "hendeca", "dodeca", "decatria", "decatessara", "decapente",
}

var tails = []string{
	"alm", "alt", "ate", "ex", "gen", "itil", "ide", "ium", "ols", "on", "oid",
	"ry", "sh", "tor",
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	default:
		return false
	}
}

// nameBuf accumulates a generated name under the same smoothing rules as
// gen_node_name's local append(): a vowel run at the join is collapsed to
// one vowel, and an exact-letter repeat at the join is collapsed to one
// copy, each capped at nameCap bytes total.
type nameBuf struct {
	buf []byte
}

func (nb *nameBuf) append(src string) {
	if src == "" {
		return
	}
	if len(nb.buf) > 0 && isVowel(src[0]) && isVowel(nb.buf[len(nb.buf)-1]) {
		nb.buf = nb.buf[:len(nb.buf)-1]
	}
	if len(nb.buf) > 0 && src[0] == nb.buf[len(nb.buf)-1] {
		src = src[1:]
	}
	for i := 0; i < len(src) && len(nb.buf) < nameCap; i++ {
		nb.buf = append(nb.buf, src[i])
	}
}

func (nb *nameBuf) String() string { return string(nb.buf) }

// genNodeName synthesises a name for g.node out of the syllables of the
// elemental nodes it still needs, retrying up to 10 times on a symbol
// collision with an existing node name. Mirrors gen_node_name.
func genNodeName(g *generator) {
	node := g.node

	rngNext := func(max int) int {
		if max <= 0 {
			return 0
		}
		return int(g.rng.Uniform(0, uint64(max)))
	}

	for attempt := 0; attempt < 10; attempt++ {
		nb := &nameBuf{}

		head := int(node.ID.Layer()) - 1
		if head < 0 {
			head = 0
		}
		if head >= len(heads) {
			head = len(heads) - 1
		}
		nb.append(heads[head])

		appendTail := func() {
			nb.append(tails[g.rng.Uniform(0, uint64(len(tails)))])
		}

		appendSyllable := func(ix int) {
			if ix < 0 || ix >= len(node.Needs.Edges) {
				return
			}
			elem := g.tree.Node(node.Needs.Edges[ix].ID)
			if elem == nil {
				return
			}
			nb.append(elem.Syllable)
		}

		syllables := int(g.rng.Uniform(2, 3))
		ix := len(node.Needs.Edges) - 1

		if ix >= 0 {
			for {
				old := syllables
				syllables--
				if old == 0 {
					appendTail()
					nb.append("-")
					head = rngNext(head)
					if head < 0 {
						head = 0
					}
					if head >= len(heads) {
						head = len(heads) - 1
					}
					nb.append(heads[head])
					syllables = int(g.rng.Uniform(1, 2))
				}

				appendSyllable(ix)
				ix = rngNext(ix)

				if !(ix != 0 && len(nb.buf)+3+4 < nameCap) {
					break
				}
			}
		}

		appendTail()

		name := nb.String()
		if g.tree.SetSymbol(node, name) {
			node.Name = name
			return
		}
	}

	fallback := "node-" + node.ID.String()
	g.diags.Errf("", 0, 0, "[%s] exhausted name generation attempts, falling back to %q", node.ID, fallback)
	g.tree.SetSymbol(node, fallback)
	node.Name = fallback
}
