// Package dump implements the "dump" command, which prints a binary listing.
package dump

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/lunixbochs/redcorn/go/cmd"
	"github.com/lunixbochs/redcorn/go/models/listing"
)

// Dump prints every record in r, one per line.
func Dump(out io.Writer, r *listing.Reader, showType bool) error {
	h := r.Header
	fmt.Fprintf(out, "; %s (%s endian) base %#x\n", h.Arch, h.Order, h.Base)
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		line := fmt.Sprintf("0x%08x:  %s", rec.Address, rec)
		if showType && rec.Type != 0 {
			line += "  ; " + rec.InsnType().String()
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return errors.Wrap(err, "failed to write")
		}
	}
}

func Main(args []string) {
	c := cmd.NewCmd("dump")
	c.Args = "<listing>"
	c.MinArgs = 1
	var showType *bool
	c.SetupFlags = func() error {
		showType = c.Flags.Bool("type", false, "annotate control flow types")
		return nil
	}
	c.RunCmd = func(args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "failed to open listing")
		}
		r, err := listing.NewReader(f)
		if err != nil {
			f.Close()
			return err
		}
		defer r.Close()
		return Dump(c.Stdout, r, *showType)
	}
	os.Exit(c.Run(args))
}

func init() { cmd.Register("dump", "print a binary listing", Main) }
