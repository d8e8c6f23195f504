// See writer.go for the token-level pretty-printer and file.go for the
// atomic whole-file write used by the dumper stages.
package writer
