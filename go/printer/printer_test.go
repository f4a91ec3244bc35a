package printer

import (
	"strings"
	"testing"

	"github.com/lunixbochs/redcorn/go/models"
	"github.com/lunixbochs/redcorn/go/models/mock"
)

type ops string

func (o ops) OpStr() string { return string(o) }

func record(addr uint64, mnemonic string, operands string, t models.InsnType, targets ...uint64) *models.Instruction {
	ins := &models.Instruction{Address: addr, Mnemonic: mnemonic, Size: 2, Type: t, Bytes: []byte{0xab, 0xcd}, Targets: targets}
	if operands != "" {
		ins.SetUserdata(ops(operands), nil)
	}
	return ins
}

func TestDefaultText(t *testing.T) {
	p := New(nil, nil)
	ins := record(0x10, "mov", "r0, r1", 0)
	if p.Mnemonic(ins) != "mov" || p.Operands(ins) != "r0, r1" {
		t.Fatalf("got %q %q", p.Mnemonic(ins), p.Operands(ins))
	}
	if got := p.Out(ins); got != "0x00000010:  mov r0, r1" {
		t.Fatalf("Out() = %q", got)
	}
	if got := p.Operands(record(0, "nop", "", 0)); got != "" {
		t.Fatalf("operands of nop = %q", got)
	}
}

func TestSymbols(t *testing.T) {
	syms := models.NewSymbols(
		models.Symbol{Name: "_ZN3foo3barEv", Start: 0x100, End: 0x20, Kind: models.SymFunction},
	)
	p := New(nil, syms)
	ins := record(0x100, "call", "0x110", models.Call, 0x110)
	out := p.Out(ins)
	if !strings.HasPrefix(out, "_ZN3foo3barEv:\n") || !strings.HasSuffix(out, "; _ZN3foo3barEv+0x10") {
		t.Fatalf("Out() = %q", out)
	}
	p.Demangle = true
	if name, base := p.SymName(0x108); name != "foo::bar()" || base != 0x100 {
		t.Fatalf("SymName() = %q, %#x", name, base)
	}
	if name, _ := p.SymName(0x200); name != "" {
		t.Fatalf("address past symbol resolved to %q", name)
	}
}

func TestConfig(t *testing.T) {
	ctx := mock.NewContext(nil, 0, nil)
	ctx.Conf.DisBytes = true
	ctx.Conf.Color = true
	p := New(ctx, nil)
	if p.Symbols == nil {
		t.Fatal("symbols not taken from context")
	}
	out := p.Out(record(0x10, "ret", "", models.Stop))
	if !strings.Contains(out, "abcd") {
		t.Fatalf("bytes missing: %q", out)
	}
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("color missing: %q", out)
	}
}
