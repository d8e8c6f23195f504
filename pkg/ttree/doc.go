// Package ttree implements the node arena at the heart of the tech-tree
// pipeline: a fixed 16-layer × 16-index grid of nodes linked by weighted,
// sorted edges, plus the symbol table that resolves names to node ids.
//
// There are no pointers between nodes. Every reference is a (tree, NodeID)
// pair — an index into the arena, not an owning pointer.
package ttree
