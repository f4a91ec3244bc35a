package disasm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lunixbochs/redcorn/go/cpu/mips"
	"github.com/lunixbochs/redcorn/go/models"
)

func blockRanges(blocks []*Block) [][2]uint64 {
	var out [][2]uint64
	for _, b := range blocks {
		out = append(out, [2]uint64{b.Addr, b.End()})
	}
	return out
}

func TestBlocksDelaySlot(t *testing.T) {
	p, _ := mips.New()
	code := beWords(
		0x14220002, // bne $at, $v0, 0xc
		0x00000000, // nop
		0x00000000, // nop
		0x03e00008, // jr $ra
		0x00000000, // nop
	)
	w := New(p, code, nil, nil, nil)
	defer w.Close()
	if err := w.Walk(0); err != nil {
		t.Fatal(err)
	}
	want := [][2]uint64{{0x0, 0x8}, {0x8, 0xc}, {0xc, 0x14}}
	if diff := cmp.Diff(want, blockRanges(w.Blocks())); diff != "" {
		t.Fatalf("blocks (-want +got):\n%s", diff)
	}

	var out bytes.Buffer
	if err := w.PrintBlocks(&out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "[Block 0x0-0x8]\n0x00000000:  bne ") {
		t.Fatalf("PrintBlocks:\n%s", out.String())
	}
}

func TestBlocksGapsAndSymbols(t *testing.T) {
	// nop; nop; .byte; nop; ret
	syms := models.NewSymbols(models.Symbol{Name: "f", Start: 0x1, Kind: models.SymFunction})
	w := New(newFake(models.FlagNone), []byte{0x90, 0x90, 0x00, 0x90, 0xc3}, nil, syms, nil)
	defer w.Close()
	if err := w.Walk(0); err != nil {
		t.Fatal(err)
	}
	want := [][2]uint64{{0x0, 0x1}, {0x1, 0x2}, {0x3, 0x5}}
	if diff := cmp.Diff(want, blockRanges(w.Blocks())); diff != "" {
		t.Fatalf("blocks (-want +got):\n%s", diff)
	}
}
