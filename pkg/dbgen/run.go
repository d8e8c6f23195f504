package dbgen

import (
	"github.com/rattab/legiontech/pkg/atoms"
	"github.com/rattab/legiontech/pkg/diag"
	"github.com/rattab/legiontech/pkg/ttree"
)

// Sources bundles the non-tree inputs the db command reads alongside the
// generated tech tree: io.lisp and the three stars/ pools, each already
// read into memory by the caller (pkg/dbgen does no file I/O of its own).
type Sources struct {
	IOPath string
	IOData []byte

	PrefixPath string
	PrefixData []byte
	SuffixPath string
	SuffixData []byte
	RollsPath  string
	RollsData  []byte
}

// Run generates every db fragment for tree and src, mirroring db_run's
// sequence: items, then specs and tapes per item, then io, then the stellar
// name pools and roll tables. Unlike db_run, this never re-parses tech.lisp
// text for item metadata or tape bill-of-materials ordering: that data
// already lives on the in-memory tree (db_parse_atoms's job is the tree
// walk itself, and dump.ComputeTape supplies tape ordering directly), so
// there is no config_read/db_parse_atoms analogue here. table is the same
// atoms table the pipeline package owns for the whole db invocation
// (spec.md's atoms table as an explicit, pipeline-owned parameter rather
// than process-wide global state); GenItems and GenSpecs intern and
// resolve item-atom cross-references through it.
func Run(tree *ttree.Tree, src Sources, table *atoms.Table, diags *diag.Diagnostics) *State {
	s := &State{atoms: table, Diags: diags}

	s.GenItems(tree)
	for _, item := range sortedItems(tree) {
		s.GenSpecs(item)
	}
	s.GenTapes(tree)

	s.GenIO(src.IOPath, src.IOData, diags)

	s.GenPrefix(src.PrefixPath, src.PrefixData, diags)
	s.GenSuffix(src.SuffixPath, src.SuffixData, diags)
	s.GenRolls(src.RollsPath, src.RollsData, diags)

	return s
}
