// Package rng provides the deterministic xorshift64★ generator used by the
// tech-tree synthesis stage.
//
// # Overview
//
// Every non-sys node is generated with its own RNG, seeded solely from its
// node id (FromNodeID). Regenerating a node always replays the identical
// sequence of stochastic decisions, which is what makes the whole pipeline
// reproducible: given the same input file, two runs produce byte-identical
// tech.lisp and tech.dot output, independent of host architecture.
//
// # Algorithm
//
//	x ^= x >> 12; x ^= x << 25; x ^= x >> 27
//	return x * 2685821657736338717
//
// This is the xorshift64★ variant (Marsaglia 2003). It is a fixed,
// documented algorithm rather than math/rand's source, which Go does not
// guarantee to be stable across releases — stability across Go versions is
// required here because generated tech.lisp files are checked in and
// diffed.
//
// # Thread Safety
//
// RNG is not safe for concurrent use. The pipeline is single-threaded by
// design (spec §5); there is never a reason to share one RNG across
// goroutines.
package rng
