package ndh

import (
	"encoding/hex"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lunixbochs/redcorn/go/models"
)

// strlen of a message at 0x8038, then write(1, msg, len) and end
var asmHex = "1b00000402003880040201000004020200000402050000040a02001702020a050a0011f2ff0401000404010101040202388004000305301c48656c6c6f20576f726c6420210a00"

func decodeAll(t *testing.T, p models.Processor, code []byte, base uint64, stop uint64) []*models.Instruction {
	var out []*models.Instruction
	for addr := base; addr < stop; {
		ins := &models.Instruction{Address: addr}
		if !p.Decode(code[addr-base:], ins) {
			t.Fatalf("decode failed at %#x", addr)
		}
		out = append(out, ins)
		addr = ins.End()
	}
	return out
}

func TestNdhDis(t *testing.T) {
	code, err := hex.DecodeString(asmHex)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := New()
	out := decodeAll(t, p, code, 0x8000, 0x8038)
	var got []string
	for _, ins := range out {
		got = append(got, ins.String())
	}
	want := []string{
		"0x8000: jmpl 0x0",
		"0x8003: mov r0, 0x8038",
		"0x8008: mov r1, 0x0",
		"0x800d: mov r2, 0x0",
		"0x8012: mov r5, 0x0",
		"0x8017: mov r2, [r0]",
		"0x801b: test r2, r2",
		"0x801e: inc r5",
		"0x8020: inc r0",
		"0x8022: jnz 0xfff2",
		"0x8025: mov r0, 0x4",
		"0x8029: mov r1, 0x1",
		"0x802d: mov r2, 0x8038",
		"0x8032: mov r3, r5",
		"0x8036: syscall",
		"0x8037: end",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("listing mismatch (-want +got):\n%s", diff)
	}

	flow := map[uint64]models.InsnType{
		0x8000: models.Jump,
		0x8022: models.Jump,
		0x8036: models.Privileged,
		0x8037: models.Stop,
	}
	for _, ins := range out {
		if ins.Type != flow[ins.Address] {
			t.Errorf("%s: type %s, want %s", ins, ins.Type, flow[ins.Address])
		}
		if p.Done(ins) != (ins.Address == 0x8037) {
			t.Errorf("%s: Done() = %v", ins, p.Done(ins))
		}
	}
	if diff := cmp.Diff([]uint64{0x8003}, out[0].Targets); diff != "" {
		t.Errorf("jmpl targets (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint64{0x8017}, out[9].Targets); diff != "" {
		t.Errorf("jnz targets (-want +got):\n%s", diff)
	}
}

func TestNdhDecodeFailure(t *testing.T) {
	p, _ := New()
	for _, code := range [][]byte{
		{},
		{0xff},             // unknown opcode
		{0x04, 0x02, 0x00}, // truncated mov
		{0x04, 0x7f, 0x00}, // unknown operand layout
		{0x0a, 0x20},       // register out of range
	} {
		ins := &models.Instruction{Address: 0x100, Size: -1}
		if p.Decode(code, ins) {
			t.Errorf("%x: decode succeeded", code)
		}
		if ins.Size != -1 || ins.Mnemonic != "" || ins.Userdata() != nil {
			t.Errorf("%x: record modified on failure: %+v", code, ins)
		}
	}
}

func TestNdhVeto(t *testing.T) {
	np, _ := New()
	p := np.(*Processor)
	p.AddPostprocessor(func(buf models.Buffer, ins *models.Instruction) bool {
		return ins.Mnemonic != "nop"
	})
	ins := &models.Instruction{Address: 4}
	if p.Decode([]byte{OP_NOP}, ins) {
		t.Fatal("vetoed decode succeeded")
	}
	if diff := cmp.Diff(models.Instruction{Address: 4}, *ins, cmp.AllowUnexported(models.Instruction{})); diff != "" {
		t.Fatalf("record not restored (-want +got):\n%s", diff)
	}
	if !p.Decode([]byte{OP_END}, ins) || ins.Mnemonic != "end" {
		t.Fatal("decode after veto failed")
	}
}

func TestNdhCapabilities(t *testing.T) {
	p, _ := New()
	if !p.HasVMIL() || !p.CanEmulateVMIL() {
		t.Fatal("ndh should offer VMIL emulation")
	}
	if p.HasFlag(models.DelaySlot) {
		t.Fatal("ndh has no delay slots")
	}
	if p.CreateEmulator(nil) == nil {
		t.Fatal("HasVMIL backend returned no emulator")
	}
	if p.Endianness() != models.LittleEndian {
		t.Fatal("ndh is little endian")
	}
}
