// Package printer renders decoded instructions for people. It is the
// fallback used when a processor does not supply its own printer, and the
// base that engine printers build on.
package printer

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ianlancetaylor/demangle"
	"github.com/mgutz/ansi"

	"github.com/lunixbochs/redcorn/go/models"
)

var typeColors = []struct {
	t     models.InsnType
	color string
}{
	{models.Privileged, "magenta"},
	{models.Stop, "red"},
	{models.Call, "green"},
	{models.Jump, "cyan"},
}

type Printer struct {
	Symbols  models.SymbolTable
	Color    bool
	Demangle bool
	DisBytes bool

	// Text renders "mnemonic operands" for one instruction. Engine printers
	// replace it; the default uses the record and its payload.
	Text func(ins *models.Instruction) string
}

// New builds a printer configured from ctx. Both arguments may be nil.
func New(ctx models.Context, symbols models.SymbolTable) *Printer {
	p := &Printer{Symbols: symbols}
	if ctx != nil {
		if c := ctx.Config(); c != nil {
			p.Color = c.Color
			p.Demangle = c.Demangle
			p.DisBytes = c.DisBytes
		}
		if p.Symbols == nil {
			p.Symbols = ctx.Symbols()
		}
	}
	p.Text = DefaultText
	return p
}

func DefaultText(ins *models.Instruction) string {
	if op := ins.OpStr(); op != "" {
		return ins.Mnemonic + " " + op
	}
	return ins.Mnemonic
}

func (p *Printer) text(ins *models.Instruction) string {
	if p.Text == nil {
		return DefaultText(ins)
	}
	return p.Text(ins)
}

func (p *Printer) Mnemonic(ins *models.Instruction) string {
	return strings.SplitN(p.text(ins), " ", 2)[0]
}

func (p *Printer) Operands(ins *models.Instruction) string {
	split := strings.SplitN(p.text(ins), " ", 2)
	if len(split) < 2 {
		return ""
	}
	return strings.TrimSpace(split[1])
}

func (p *Printer) colorize(s, style string) string {
	if !p.Color || s == "" {
		return s
	}
	return ansi.Color(s, style)
}

func (p *Printer) name(sym models.Symbol) string {
	if p.Demangle {
		return demangle.Filter(sym.Name)
	}
	return sym.Name
}

// SymName resolves addr for engine syntax printers.
func (p *Printer) SymName(addr uint64) (string, uint64) {
	if p.Symbols == nil {
		return "", 0
	}
	if sym, ok := p.Symbols.Lookup(addr); ok {
		return p.name(sym), sym.Start
	}
	return "", 0
}

// Label returns the "name:" line for a symbol starting at addr, or "".
func (p *Printer) Label(addr uint64) string {
	if p.Symbols == nil {
		return ""
	}
	if sym, ok := p.Symbols.Symbol(addr); ok {
		return p.colorize(p.name(sym)+":", "yellow")
	}
	return ""
}

func (p *Printer) Out(ins *models.Instruction) string {
	var out strings.Builder
	if label := p.Label(ins.Address); label != "" {
		out.WriteString(label + "\n")
	}
	fmt.Fprintf(&out, "0x%08x:", ins.Address)
	if p.DisBytes {
		fmt.Fprintf(&out, " %-16s", hex.EncodeToString(ins.Bytes))
	}
	mnemonic := p.Mnemonic(ins)
	for _, c := range typeColors {
		if ins.Is(c.t) {
			mnemonic = p.colorize(mnemonic, c.color)
			break
		}
	}
	out.WriteString("  " + mnemonic)
	if ops := p.Operands(ins); ops != "" {
		out.WriteString(" " + ops)
	}
	var comments []string
	for _, target := range ins.Targets {
		if name, base := p.SymName(target); name != "" {
			if base != target {
				name = fmt.Sprintf("%s+%#x", name, target-base)
			}
			comments = append(comments, name)
		}
	}
	if len(comments) > 0 {
		out.WriteString(p.colorize("  ; "+strings.Join(comments, ", "), "blue"))
	}
	return out.String()
}
