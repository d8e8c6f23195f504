// Package pipeline wires the reader, tree, parser, checkers, generator and
// dumpers into the two end-to-end commands the spec names: "tech" (build a
// tech tree from a hand-authored description) and "db" (compile a generated
// tree plus auxiliary stellar/io data into C header fragments). It owns no
// algorithmic content of its own, only the sequencing, file I/O, and
// pipeline-wide configuration.
package pipeline
