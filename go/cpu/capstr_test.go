//go:build capstone
// +build capstone

package cpu

import (
	"testing"

	"github.com/lunixbochs/redcorn/go/models"
)

func TestCapstrX86(t *testing.T) {
	p, err := NewEngineProcessor("x86", "capstone", ARCH_X86, MODE_32, models.FlagNone)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	tests := []struct {
		code     []byte
		mnemonic string
		typ      models.InsnType
	}{
		{[]byte{0xc3}, "ret", models.Stop},
		{[]byte{0xe8, 0, 0, 0, 0}, "call", models.Call},
		{[]byte{0xcd, 0x80}, "int", models.Privileged},
		{[]byte{0x90}, "nop", models.InsnNone},
	}
	for _, test := range tests {
		ins := &models.Instruction{Address: 0x1000}
		if !p.Decode(test.code, ins) {
			t.Errorf("% x: decode failed", test.code)
			continue
		}
		if ins.Mnemonic != test.mnemonic || ins.Type != test.typ || ins.Size != len(test.code) {
			t.Errorf("% x: got %s %s size %d", test.code, ins.Mnemonic, ins.Type, ins.Size)
		}
		ins.Release()
	}
}

func TestCapstrMipsReturn(t *testing.T) {
	p, err := NewEngineProcessor("mips", "capstone", ARCH_MIPS, MODE_32|MODE_BIG_ENDIAN, models.FlagNone)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	ins := &models.Instruction{}
	if !p.Decode(models.Buffer{0x03, 0xe0, 0x00, 0x08}, ins) {
		t.Fatal("decode failed")
	}
	defer ins.Release()
	if !ins.Is(models.Stop) || ins.Is(models.Jump) {
		t.Fatalf("jr $ra type %s", ins.Type)
	}
}

func TestCapstrIDs(t *testing.T) {
	p, err := NewEngineProcessor("x86", "capstone", ARCH_X86, MODE_32, models.FlagNone)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	ids := make(map[string]uint)
	for _, code := range [][]byte{{0xc3}, {0x90}, {0xc3}} {
		ins := &models.Instruction{}
		if !p.Decode(code, ins) {
			t.Fatalf("% x: decode failed", code)
		}
		if ins.ID == 0 {
			t.Errorf("%s: zero id", ins.Mnemonic)
		}
		if prev, ok := ids[ins.Mnemonic]; ok && prev != ins.ID {
			t.Errorf("%s: id changed %d -> %d", ins.Mnemonic, prev, ins.ID)
		}
		ids[ins.Mnemonic] = ins.ID
		ins.Release()
	}
	if ids["ret"] == ids["nop"] {
		t.Error("ret and nop share an id")
	}
}
