package cpu

import (
	"github.com/lunixbochs/redcorn/go/models"
	"github.com/lunixbochs/redcorn/go/printer"
)

// NewEnginePrinter returns a printer that formats records decoded by e using
// the engine's own syntax, falling back to the record for anything else.
func NewEnginePrinter(e Engine, ctx models.Context, symbols models.SymbolTable) *printer.Printer {
	p := printer.New(ctx, symbols)
	p.Text = func(ins *models.Instruction) string {
		if insn, ok := ins.Userdata().(*Insn); ok {
			return e.Format(insn, p.SymName)
		}
		return printer.DefaultText(ins)
	}
	return p
}
