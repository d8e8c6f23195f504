// See gen.go. Grounded function-for-function on tech_gen.c. The three
// link-then-create passes of genChildren mirror gen_children's own three
// loops; genChildCreate's fuzzed split of a batch of needs across a new
// passive node mirrors gen_child_create exactly, including its
// deliberately uncapped recursive-needs branch.
package gen
