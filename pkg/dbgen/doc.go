// Package dbgen implements the downstream "db" command: it walks a
// generated tech tree (or, for the stellar name pools and roll tables, a
// handful of small standalone Lisp files) and mechanically emits C header
// fragments meant to be #included into the game engine's build — item
// enumerations, spec accessors, recipe tapes, and I/O command tables.
// Grounded on db_gen.c and db_stars.c; there is no runtime behaviour here,
// only text generation, so every function is pure given its inputs.
package dbgen
