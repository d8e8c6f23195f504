// Package atoms interns the symbol table for atom references: identifiers
// used as opaque handles (such as "item-iron" in an (out ...) tape entry)
// rather than as node names resolved through ttree's own symbol table.
//
// spec.md §9 notes that the original implementation keeps this table as
// process-wide global state "for convenience"; here it is an explicit
// value threaded between pipeline stages instead.
package atoms

// Table interns strings to small integer ids and back.
type Table struct {
	byName map[string]int
	byID   []string
}

// New returns an empty Table. Id 0 is reserved and never assigned by
// Intern, mirroring NodeID's reserved null id.
func New() *Table {
	return &Table{byName: make(map[string]int), byID: []string{""}}
}

// Intern returns the id for name, assigning a fresh one if this is the
// first time name has been seen.
func (t *Table) Intern(name string) int {
	if id, ok := t.byName[name]; ok {
		return id
	}
	id := len(t.byID)
	t.byID = append(t.byID, name)
	t.byName[name] = id
	return id
}

// Lookup returns the id already assigned to name, if any.
func (t *Table) Lookup(name string) (int, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// Name returns the string interned under id, or "" if id is unassigned.
func (t *Table) Name(id int) string {
	if id <= 0 || id >= len(t.byID) {
		return ""
	}
	return t.byID[id]
}

// Len returns the number of interned atoms (excluding the reserved 0 id).
func (t *Table) Len() int {
	return len(t.byID) - 1
}
