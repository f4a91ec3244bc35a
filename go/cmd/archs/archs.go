// Package archs implements the "arch" command, which lists processors.
package archs

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/lunixbochs/redcorn/go/arch"
	"github.com/lunixbochs/redcorn/go/cmd"
)

func List(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBITS\tORDER\tENGINE")
	for _, name := range arch.Names() {
		a, err := arch.GetArch(name)
		if err != nil {
			return err
		}
		engine := a.Engine
		if engine == "" {
			engine = "-"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", a.Name, a.Bits, a.Order, engine)
	}
	return tw.Flush()
}

func Main(args []string) {
	c := cmd.NewCmd("arch")
	c.RunCmd = func(args []string) error {
		return List(c.Stdout)
	}
	os.Exit(c.Run(args))
}

func init() { cmd.Register("arch", "list supported processors", Main) }
