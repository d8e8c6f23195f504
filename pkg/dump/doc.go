// Package dump renders a fully generated tree back out to its three
// canonical artifacts: the Lisp dialect pkg/reader/pkg/parse consume
// (tech.lisp), a Graphviz DOT dependency graph (tech.dot), and a debug
// SVG rendering of the same graph for quick visual review without a
// Graphviz install. Grounded on tech_dump.c.
package dump
