package reader

import (
	"testing"

	"github.com/rattab/legiontech/pkg/atoms"
	"github.com/rattab/legiontech/pkg/diag"
)

func TestReader_OpenCloseAndSymbol(t *testing.T) {
	d := diag.New(false)
	r := New("t.lisp", []byte(`(elem foo 42 "bar baz")`), d)

	if !r.Open() {
		t.Fatal("expected to open outer list")
	}
	if got := r.Symbol(); got != "elem" {
		t.Fatalf("expected symbol %q, got %q", "elem", got)
	}
	if got := r.Symbol(); got != "foo" {
		t.Fatalf("expected symbol %q, got %q", "foo", got)
	}
	if got := r.U64(); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := r.String(); got != "bar baz" {
		t.Fatalf("expected string %q, got %q", "bar baz", got)
	}
	if !r.Close() {
		t.Fatal("expected to close outer list")
	}
	if !r.PeekEOF() {
		t.Fatal("expected EOF")
	}
	if d.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", d.Entries())
	}
}

func TestReader_CommentsAndWhitespaceSkipped(t *testing.T) {
	d := diag.New(false)
	r := New("t.lisp", []byte("(a   ; a trailing comment\n  1)\n; a leading comment\n(b 2)"), d)

	r.Open()
	r.Symbol()
	if got := r.U64(); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	r.Close()

	r.Open()
	if got := r.Symbol(); got != "b" {
		t.Fatalf("expected symbol b, got %q", got)
	}
	if got := r.U64(); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	r.Close()

	if d.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", d.Entries())
	}
}

func TestReader_HexAndNegativeIntegers(t *testing.T) {
	d := diag.New(false)
	r := New("t.lisp", []byte(`0x1F -7`), d)

	if got := r.U64(); got != 31 {
		t.Fatalf("expected 31, got %d", got)
	}
	if got := r.Word(); got != -7 {
		t.Fatalf("expected -7, got %d", got)
	}
}

func TestReader_GotoCloseSkipsUnknownField(t *testing.T) {
	d := diag.New(false)
	r := New("t.lisp", []byte(`(unknown-field (nested 1 2) more) (after)`), d)

	r.Open()
	r.Symbol() // unknown-field
	if !r.GotoClose() {
		t.Fatal("expected GotoClose to succeed")
	}

	r.Open()
	if got := r.Symbol(); got != "after" {
		t.Fatalf("expected to land on 'after', got %q", got)
	}
	r.Close()
}

func TestReader_AtomInternsIntoTable(t *testing.T) {
	d := diag.New(false)
	table := atoms.New()
	r := New("t.lisp", []byte(`item-iron item-iron item-gold`), d)

	first := r.Atom(table)
	second := r.Atom(table)
	third := r.Atom(table)

	if first != second {
		t.Fatalf("expected repeated atom to intern to the same id, got %d and %d", first, second)
	}
	if first == third {
		t.Fatal("expected distinct atoms to intern to distinct ids")
	}
	if table.Name(first) != "item-iron" {
		t.Fatalf("expected name round-trip, got %q", table.Name(first))
	}
}

func TestReader_SymbolTableMatchesAndReportsUnknown(t *testing.T) {
	entries := []TableEntry{
		{Str: "natural", Value: 1},
		{Str: "synthetic", Value: 2},
	}

	d := diag.New(false)
	r := New("t.lisp", []byte(`natural bogus`), d)

	if got := r.SymbolTable(entries); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if d.HasErrors() {
		t.Fatal("did not expect an error for a matching symbol")
	}

	if got := r.SymbolTable(entries); got != 0 {
		t.Fatalf("expected 0 for unmatched symbol, got %d", got)
	}
	if !d.HasErrors() {
		t.Fatal("expected an error for the unmatched symbol")
	}
}

func TestReader_MismatchedDelimiterReportsPositionalError(t *testing.T) {
	d := diag.New(false)
	r := New("t.lisp", []byte(`(foo`), d)

	r.Open()
	r.Symbol()
	if r.Close() {
		t.Fatal("expected Close to fail on missing ')'")
	}
	if !d.HasErrors() {
		t.Fatal("expected a diagnostic for the missing close paren")
	}
	entries := d.Entries()
	if entries[0].Line != 1 {
		t.Fatalf("expected error on line 1, got %d", entries[0].Line)
	}
}

func TestReader_LineAndColumnTracking(t *testing.T) {
	d := diag.New(false)
	r := New("t.lisp", []byte("(a\n  (b))"), d)

	r.Open()
	r.Symbol()
	pos := r.Pos()
	if pos.Line != 2 {
		t.Fatalf("expected line 2 before nested list, got %d", pos.Line)
	}
	if pos.Col != 3 {
		t.Fatalf("expected column 3, got %d", pos.Col)
	}
}
