package disasm

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/lunixbochs/redcorn/go/models/listing"
)

// Print writes the listing through the session printer. Bytes that did not
// decode are shown as .byte lines.
func (w *Walker) Print(out io.Writer) error {
	insns := w.Listing()
	data := w.Data()
	for len(insns) > 0 || len(data) > 0 {
		var line string
		if len(data) == 0 || (len(insns) > 0 && insns[0].Address < data[0]) {
			line = w.printer.Out(insns[0])
			insns = insns[1:]
		} else {
			addr := data[0]
			line = fmt.Sprintf("0x%08x:  .byte 0x%02x", addr, w.image[addr-w.base])
			data = data[1:]
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return errors.Wrap(err, "failed to write listing")
		}
	}
	return nil
}

// WriteListing stores every decoded record in the binary listing format and
// closes wc.
func (w *Walker) WriteListing(wc io.WriteCloser) error {
	lw, err := listing.NewWriter(wc, w.proc.Name(), w.proc.Endianness(), w.base)
	if err != nil {
		wc.Close()
		return err
	}
	for _, ins := range w.Listing() {
		if err := lw.Pack(listing.NewRecord(ins)); err != nil {
			lw.Close()
			return err
		}
	}
	return lw.Close()
}
