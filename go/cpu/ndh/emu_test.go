package ndh

import (
	"encoding/hex"
	"testing"

	"github.com/lunixbochs/redcorn/go/models"
	"github.com/lunixbochs/redcorn/go/models/mock"
)

func TestNdhEmulate(t *testing.T) {
	code, err := hex.DecodeString(asmHex)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := New()
	ctx := mock.NewContext(p, 0x8000, code)
	emu := p.CreateEmulator(ctx).(*Emulator)

	var args []uint64
	emu.Syscall = func(e *Emulator) error {
		for _, r := range []int{R0, R1, R2, R3} {
			val, _ := e.RegRead(r)
			args = append(args, val)
		}
		return nil
	}

	pc := uint64(0x8000)
	for i := 0; ; i++ {
		if i > 1000 {
			t.Fatal("emulation did not halt")
		}
		ins := &models.Instruction{Address: pc}
		if !p.Decode(code[pc-0x8000:], ins) {
			t.Fatalf("decode failed at %#x", pc)
		}
		err := emu.Emulate(ins)
		ins.Release()
		if err != nil {
			if status, ok := models.IsExit(err); !ok || status != 0 {
				t.Fatalf("unexpected error at %#x: %v", pc, err)
			}
			break
		}
		pc, _ = emu.RegRead(PC)
	}
	// strlen counts the terminating zero
	want := []uint64{4, 1, 0x8038, 15}
	if len(args) != len(want) {
		t.Fatalf("syscall args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("syscall args = %v, want %v", args, want)
		}
	}
}

func TestNdhCallRet(t *testing.T) {
	// call +1; end; ret
	code := []byte{OP_CALL, OP_FLAG_DIRECT16, 0x01, 0x00, OP_END, OP_RET}
	p, _ := New()
	emu := NewEmulator(mock.NewContext(p, 0, code))

	step := func(pc uint64) uint64 {
		ins := &models.Instruction{Address: pc}
		if !p.Decode(code[pc:], ins) {
			t.Fatalf("decode failed at %#x", pc)
		}
		if err := emu.Emulate(ins); err != nil {
			t.Fatalf("%s: %v", ins, err)
		}
		next, _ := emu.RegRead(PC)
		return next
	}
	if pc := step(0); pc != 5 {
		t.Fatalf("call went to %#x", pc)
	}
	if sp, _ := emu.RegRead(SP); sp != StackTop-2 {
		t.Fatalf("sp after call = %#x", sp)
	}
	if pc := step(5); pc != 4 {
		t.Fatalf("ret went to %#x", pc)
	}
	if sp, _ := emu.RegRead(SP); sp != StackTop {
		t.Fatalf("sp after ret = %#x", sp)
	}
}

func TestNdhEmulateForeign(t *testing.T) {
	emu := NewEmulator(nil)
	if err := emu.Emulate(&models.Instruction{Address: 1}); err == nil {
		t.Fatal("emulating a record without ndh payload succeeded")
	}
}
