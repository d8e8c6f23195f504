// Package parse turns the token stream from pkg/reader into populated
// pkg/ttree nodes: it is the Go counterpart of tech_parse.c, the stage
// that reads one info-tree configuration file and produces the initial,
// ungenerated tree that pkg/gen will expand.
package parse

import (
	"github.com/rattab/legiontech/pkg/diag"
	"github.com/rattab/legiontech/pkg/reader"
	"github.com/rattab/legiontech/pkg/ttree"
)

var typeTable = []reader.TableEntry{
	{Str: "nil", Value: uint64(ttree.TypeNil)},
	{Str: "natural", Value: uint64(ttree.TypeNatural)},
	{Str: "synth", Value: uint64(ttree.TypeSynthetic)},
	{Str: "passive", Value: uint64(ttree.TypePassive)},
	{Str: "active", Value: uint64(ttree.TypeActive)},
	{Str: "logistics", Value: uint64(ttree.TypeLogistics)},
	{Str: "sys", Value: uint64(ttree.TypeSys)},
}

var listTable = []reader.TableEntry{
	{Str: "none", Value: uint64(ttree.ListNone)},
	{Str: "control", Value: uint64(ttree.ListControl)},
	{Str: "factory", Value: uint64(ttree.ListFactory)},
}

// info holds the fields gathered from an item's (info ...) form before
// the (tape ...) form allocates the node that receives them.
type info struct {
	tier     uint8
	typ      ttree.NodeType
	syllable string
	config   string
	list     ttree.ListMembership
	specs    string
}

// File parses every top-level item form in r into tree, routing problems
// into diags. It mirrors tech_parse's outer loop: each item is a name
// followed by an unordered set of (info ...), (specs ...) and (tape ...)
// fields, with any other field skipped via GotoClose. Item and tape-list
// symbols resolve through tree's own symbol table, not pkg/atoms: the
// atoms table's job is interning cross-references for the db command's
// emitted C identifiers (see pkg/dbgen), a separate concern from building
// this in-memory graph.
func File(tree *ttree.Tree, r *reader.Reader, diags *diag.Diagnostics) {
	for !r.PeekEOF() {
		r.Open()
		item := r.Symbol()

		var (
			fields  info
			sawTape bool
		)

		for !r.PeekClose() {
			r.Open()
			field := r.Symbol()

			switch field {
			case "info":
				// parseInfo consumes through the (info ...) form's own
				// close paren, so nothing further is needed here.
				fields = parseInfo(r)
			case "specs":
				// RawUntilClose consumes the (specs ...) form's close
				// paren as part of capturing its raw text.
				fields.specs = r.RawUntilClose()
			case "tape":
				if fields.typ == ttree.TypeNil {
					pos := r.Pos()
					diags.Errf(pos.File, pos.Line, pos.Col, "missing 'info.type' field before 'tape' field for %q", item)
					r.GotoClose()
					continue
				}
				// parseTape consumes through the (tape ...) form's own
				// close paren.
				node := parseTape(tree, r, item)
				if node != nil {
					node.Name = item
					node.Type = fields.typ
					node.Tier = fields.tier
					node.Syllable = fields.syllable
					node.Config = fields.config
					node.List = fields.list
					node.Specs = fields.specs
					tree.SetSymbol(node, item)
				}
				sawTape = true
			default:
				// GotoClose consumes the unknown field's own close paren.
				r.GotoClose()
			}
		}
		r.Close()

		if !sawTape {
			diags.Warnf("item %q has no tape form; it will not appear in the generated tree", item)
		}
	}
}

// parseInfo consumes an (info ...) form, already past its opening paren.
func parseInfo(r *reader.Reader) info {
	var out info
	for !r.PeekClose() {
		r.Open()
		field := r.Symbol()
		switch field {
		case "tier":
			out.tier = uint8(r.Word())
			r.Close()
		case "type":
			out.typ = ttree.NodeType(r.SymbolTable(typeTable))
			r.Close()
		case "syllable":
			out.syllable = r.Symbol()
			r.Close()
		case "config":
			out.config = r.Symbol()
			r.Close()
		case "list":
			out.list = ttree.ListMembership(r.SymbolTable(listTable))
			r.Close()
		default:
			r.GotoClose()
		}
	}
	r.Close()
	return out
}

// parseTape consumes a (tape ...) form, allocating the node from its
// leading (layer N) field and then populating host/work/energy/needs/
// in/out from the remaining fields, exactly as tech_parse's parse_tape
// does. Unlike the original, layer allocation failure (a full layer) is
// reported through diags instead of aborting the process.
func parseTape(tree *ttree.Tree, r *reader.Reader, item string) *ttree.Node {
	var node *ttree.Node

	for !r.PeekClose() {
		r.Open()
		field := r.Symbol()

		if field == "layer" {
			if node != nil {
				r.GotoClose()
				continue
			}
			layer := r.Word()
			n, err := tree.Insert(uint8(layer), item)
			if err != nil {
				r.Close()
				continue
			}
			node = n
			r.Close()
			continue
		}

		if node == nil {
			r.GotoClose()
			continue
		}

		switch field {
		case "host":
			node.Host.Name = r.Symbol()
			r.Close()
		case "work":
			node.Work.Node = r.U64()
			r.Close()
		case "energy":
			node.Energy.Node = r.U64()
			r.Close()
		case "needs", "in", "out":
			// parseTapeList leaves the (needs|in|out ...) form's own
			// close paren for us to consume here, since it only reads
			// the entries inside.
			parseTapeList(tree, r, node, field)
			r.Close()
		default:
			r.GotoClose()
		}
	}
	r.Close()

	if node == nil {
		return nil
	}

	node.Base.In = node.Children.Edges.Copy()
	node.Base.Needs = node.Needs.Edges.Copy()
	return node
}

// parseTapeList consumes the body of a (needs ...), (in ...) or
// (out ...) field, already past its opening paren. Each entry is either a
// bare symbol (count defaults to 1) or a (symbol count) pair, mirroring
// db_gen_tape's reader_peek(in) == token_symbol check before falling back
// to the parenthesized form.
func parseTapeList(tree *ttree.Tree, r *reader.Reader, node *ttree.Node, kind string) {
	for !r.PeekClose() {
		var sym string
		count := uint32(1)

		if r.PeekOpen() {
			r.Open()
			sym = r.Symbol()
			count = uint32(r.U64())
			r.Close()
		} else {
			sym = r.Symbol()
		}

		child := tree.Symbol(sym)
		if child == nil {
			continue
		}
		switch kind {
		case "needs":
			node.NeedsInc(child.ID, count)
		case "in":
			node.ChildInc(child.ID, count)
		case "out":
			node.Out = node.Out.Inc(child.ID, count)
		}
	}
}
