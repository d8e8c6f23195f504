// See reader.go for the Reader type and tokenizer; token.go for the Kind
// enumeration. The grammar is a small S-expression dialect: '(' and ')'
// delimit lists, ';' begins a comment that runs to end of line, and
// everything else is either a double-quoted string or a bare word whose
// meaning (symbol, unsigned int, signed int, atom) is chosen by whichever
// typed Reader method the caller invokes.
package reader
