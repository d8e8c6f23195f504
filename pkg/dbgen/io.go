package dbgen

import (
	"fmt"

	"github.com/rattab/legiontech/pkg/diag"
	"github.com/rattab/legiontech/pkg/reader"
)

// GenIO emits the io_enum.h/ioe_enum.h/io_register.h fragments from io.lisp,
// a flat sequence of top-level (io name...) and (ioe name...) forms each
// naming an engine command or event in declaration order. Grounded on
// db_gen_io.
func (s *State) GenIO(path string, data []byte, diags *diag.Diagnostics) {
	r := reader.New(path, data, diags)

	for !r.PeekEOF() {
		r.Open()
		kind := r.Symbol()

		switch kind {
		case "io":
			for i := 0; !r.PeekClose(); i++ {
				name := r.Symbol()
				enum := toEnum(name)
				fmt.Fprintf(&s.Frag.IOEnum, "%-20s = io_min + 0x%02x,\n", enum, i)
				fmt.Fprintf(&s.Frag.IORegister, "io_register(%s, \"%s\", %d),\n",
					enum, name, len(name))
			}
			r.Close()

		case "ioe":
			for i := 0; !r.PeekClose(); i++ {
				name := r.Symbol()
				enum := toEnum(name)
				fmt.Fprintf(&s.Frag.IOEEnum, "%-20s = ioe_min + 0x%02x,\n", enum, i)
				fmt.Fprintf(&s.Frag.IORegister, "ioe_register(%s, \"%s\", %d),\n",
					enum, name, len(name))
			}
			r.Close()

		default:
			pos := r.Pos()
			diags.Errf(pos.File, pos.Line, pos.Col, "unknown io type %q", kind)
			r.GotoClose()
		}
	}
}
