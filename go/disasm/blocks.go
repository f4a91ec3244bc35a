package disasm

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/lunixbochs/redcorn/go/models"
)

// Block is a straight-line run of decoded instructions with a single entry.
type Block struct {
	Addr, Size uint64
	Insns      []*models.Instruction
}

func (b *Block) End() uint64 {
	return b.Addr + b.Size
}

const flowMask = models.Jump | models.Call | models.Stop

// Blocks splits the listing into basic blocks. A block starts at a branch
// target, a symbol or after a gap, and ends after a control-flow instruction
// (after its delay slot on DelaySlot processors).
func (w *Walker) Blocks() []*Block {
	insns := w.Listing()
	leaders := make(map[uint64]bool)
	for _, ins := range insns {
		for _, target := range ins.Targets {
			leaders[target] = true
		}
	}
	for _, sym := range w.symbols.All() {
		leaders[sym.Start] = true
	}
	delay := w.proc.HasFlag(models.DelaySlot)

	var blocks []*Block
	var cur *Block
	split, slot := false, false
	for _, ins := range insns {
		if cur == nil || split || leaders[ins.Address] || ins.Address != cur.End() {
			cur = &Block{Addr: ins.Address}
			blocks = append(blocks, cur)
		}
		cur.Insns = append(cur.Insns, ins)
		cur.Size += uint64(ins.Size)

		branch := ins.Type&flowMask != 0
		split = slot || (branch && !delay)
		slot = branch && delay && !slot
	}
	return blocks
}

// PrintBlocks writes the listing grouped by basic block.
func (w *Walker) PrintBlocks(out io.Writer) error {
	for _, b := range w.Blocks() {
		fmt.Fprintf(out, "[Block 0x%x-0x%x]\n", b.Addr, b.End())
		for _, ins := range b.Insns {
			fmt.Fprintln(out, w.printer.Out(ins))
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return errors.Wrap(err, "failed to write blocks")
		}
	}
	return nil
}
