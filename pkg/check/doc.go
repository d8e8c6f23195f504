// See check.go. Grounded on tech_check.c: Inputs mirrors
// tech_check_inputs/check_basics/check_inputs_needs, Outputs mirrors
// tech_check_outputs and its check_tape/check_children/check_needs/
// check_deps/check_host helpers, including the check_mult/check_div
// tolerance window.
package check
