// See parse.go. Grounded on tech_parse.c: File mirrors its outer loop,
// parseInfo mirrors parse_info, and parseTape/parseTapeList mirror
// parse_tape's layer-then-fields handling, including the "unknown field"
// tolerance via reader.GotoClose.
package parse
