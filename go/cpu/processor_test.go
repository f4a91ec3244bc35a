package cpu

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/lunixbochs/redcorn/go/models"
)

// fakeEngine decodes a tiny opcode set:
//
//	01 xx  syscall-style call (call + int groups)
//	02     ret
//	03 rr  relative jump
//	04     claims 10 bytes
type fakeEngine struct {
	live   int
	freed  int
	closed bool
	syntax string
}

var lastFake *fakeEngine

func init() {
	RegisterEngine("fake", func(arch Arch, mode Mode) (Engine, error) {
		if arch != ARCH_X86 {
			return nil, errors.New("x86 only")
		}
		lastFake = &fakeEngine{syntax: "intel"}
		return lastFake, nil
	})
}

func (e *fakeEngine) Disasm(code []byte, addr uint64) (*Insn, error) {
	if len(code) == 0 {
		return nil, errors.New("empty")
	}
	insn := &Insn{Address: addr, ID: uint(code[0])}
	switch code[0] {
	case 0x01:
		insn.Size, insn.Mnemonic = 2, "scall"
		insn.Groups = []Group{GRP_CALL, GRP_INT}
	case 0x02:
		insn.Size, insn.Mnemonic = 1, "ret"
		insn.Groups = []Group{GRP_RET}
	case 0x03:
		if len(code) < 2 {
			return nil, errors.New("short")
		}
		insn.Size, insn.Mnemonic = 2, "jmp"
		insn.Groups = []Group{GRP_JUMP}
		insn.Targets = []uint64{addr + 2 + uint64(int8(code[1]))}
	case 0x04:
		insn.Size, insn.Mnemonic = 10, "huge"
	default:
		return nil, errors.New("invalid")
	}
	insn.Bytes = code[:1]
	e.live++
	return insn, nil
}

func (e *fakeEngine) Free(insn *Insn) {
	e.live--
	e.freed++
}

func (e *fakeEngine) Format(insn *Insn, symname SymLookup) string {
	text := e.syntax + ":" + insn.Mnemonic
	for _, t := range insn.Targets {
		if name, _ := symname(t); name != "" {
			text += " " + name
		}
	}
	return text
}

func (e *fakeEngine) SetSyntax(name string) error {
	e.syntax = name
	return nil
}

func (e *fakeEngine) Close() error {
	e.closed = true
	return nil
}

func newFake(t *testing.T) (*EngineProcessor, *fakeEngine) {
	p, err := NewEngineProcessor("fake", "fake", ARCH_X86, MODE_32, models.FlagNone)
	if err != nil {
		t.Fatal(err)
	}
	return p, lastFake
}

var recordCmp = cmp.AllowUnexported(models.Instruction{})

func TestEngineDecodeFailure(t *testing.T) {
	p, e := newFake(t)
	for _, code := range [][]byte{{}, {0xff}, {0x03}, {0x04, 0, 0}} {
		ins := &models.Instruction{Address: 0x1000, Size: 99, Mnemonic: "keep"}
		want := *ins
		if p.Decode(code, ins) {
			t.Fatalf("%x: decode succeeded", code)
		}
		if diff := cmp.Diff(want, *ins, recordCmp); diff != "" {
			t.Fatalf("%x: record modified (-want +got):\n%s", code, diff)
		}
	}
	if e.live != 0 {
		t.Fatalf("%d engine records leaked", e.live)
	}
}

func TestEngineGroupFlags(t *testing.T) {
	p, e := newFake(t)
	for _, tc := range []struct {
		code []byte
		typ  models.InsnType
		done bool
	}{
		{[]byte{0x01, 0x80}, models.Call | models.Privileged, false},
		{[]byte{0x02}, models.Stop, true},
		{[]byte{0x03, 0xfe}, models.Jump, false},
	} {
		ins := &models.Instruction{Address: 0x1000}
		if !p.Decode(tc.code, ins) {
			t.Fatalf("%x: decode failed", tc.code)
		}
		if ins.Type != tc.typ || p.Done(ins) != tc.done {
			t.Errorf("%x: type %s done %v, want %s %v", tc.code, ins.Type, p.Done(ins), tc.typ, tc.done)
		}
		if ins.Size != len(tc.code) || ins.Mnemonic == "" || ins.ID != uint(tc.code[0]) {
			t.Errorf("%x: record not populated: %+v", tc.code, ins)
		}
		ins.Release()
	}
	if e.live != 0 {
		t.Fatalf("%d engine records leaked", e.live)
	}
}

func TestEngineTargets(t *testing.T) {
	p, _ := newFake(t)
	ins := &models.Instruction{Address: 0x1000}
	if !p.Decode([]byte{0x03, 0xfe}, ins) {
		t.Fatal("decode failed")
	}
	defer ins.Release()
	if diff := cmp.Diff([]uint64{0x1000}, ins.Targets); diff != "" {
		t.Fatalf("targets (-want +got):\n%s", diff)
	}
}

func TestEngineTerminate(t *testing.T) {
	p, _ := newFake(t)
	p.Terminate = func(ins *models.Instruction) bool { return ins.Mnemonic == "jmp" }
	ins := &models.Instruction{}
	p.Decode([]byte{0x03, 0x00}, ins)
	if !p.Done(ins) {
		t.Fatal("Terminate hook ignored")
	}
}

func TestEngineReleaseOnce(t *testing.T) {
	p, e := newFake(t)
	ins := &models.Instruction{}
	if !p.Decode([]byte{0x02}, ins) {
		t.Fatal("decode failed")
	}
	if _, ok := ins.Userdata().(*Insn); !ok {
		t.Fatalf("userdata is %T", ins.Userdata())
	}
	ins.Release()
	ins.Release()
	if e.freed != 1 {
		t.Fatalf("payload released %d times", e.freed)
	}
}

func TestEngineVeto(t *testing.T) {
	p, e := newFake(t)
	calls := 0
	p.AddPostprocessor(func(buf models.Buffer, ins *models.Instruction) bool {
		calls++
		return !ins.Is(models.Stop)
	})
	ins := &models.Instruction{Address: 0x20}
	if p.Decode([]byte{0x02}, ins) {
		t.Fatal("vetoed decode succeeded")
	}
	if diff := cmp.Diff(models.Instruction{Address: 0x20}, *ins, recordCmp); diff != "" {
		t.Fatalf("record not restored (-want +got):\n%s", diff)
	}
	if e.freed != 1 || e.live != 0 {
		t.Fatalf("vetoed payload freed %d times, %d live", e.freed, e.live)
	}
	if !p.Decode([]byte{0x01, 0x00}, ins) || calls != 2 {
		t.Fatal("postprocessor not run on success")
	}
	ins.Release()
}

func TestEngineOpenFailure(t *testing.T) {
	if _, err := NewEngineProcessor("fake", "fake", ARCH_MIPS, MODE_32, models.FlagNone); err == nil {
		t.Fatal("open failure not reported")
	} else if !strings.Contains(err.Error(), "x86 only") {
		t.Fatalf("open error lost its cause: %v", err)
	}
	if _, err := OpenEngine("missing", ARCH_X86, MODE_32); err == nil {
		t.Fatal("missing engine opened")
	}
}

func TestRegisterEngineDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("duplicate engine registration did not panic")
		}
	}()
	RegisterEngine("fake", nil)
}

func TestEngineClose(t *testing.T) {
	p, e := newFake(t)
	if err := p.Close(); err != nil || !e.closed {
		t.Fatal("engine not closed")
	}
	if err := p.Close(); err != nil {
		t.Fatal("second Close failed")
	}
}

func TestEngineBigEndianMode(t *testing.T) {
	p, err := NewEngineProcessor("fake", "fake", ARCH_X86, MODE_32|MODE_BIG_ENDIAN, models.FlagNone)
	if err != nil {
		t.Fatal(err)
	}
	if p.Endianness() != models.BigEndian {
		t.Fatal("big-endian mode ignored")
	}
}

func TestEnginePrinter(t *testing.T) {
	p, _ := newFake(t)
	syms := models.NewSymbols(models.Symbol{Name: "loop", Start: 0x1000})
	pr := p.CreatePrinter(nil, syms)
	if err := p.SetSyntax("gnu"); err != nil {
		t.Fatal(err)
	}
	ins := &models.Instruction{Address: 0x1000}
	p.Decode([]byte{0x03, 0xfe}, ins)
	defer ins.Release()
	if got := pr.Mnemonic(ins); got != "gnu:jmp" {
		t.Fatalf("Mnemonic() = %q", got)
	}
	if got := pr.Operands(ins); got != "loop" {
		t.Fatalf("Operands() = %q", got)
	}
	if out := pr.Out(ins); !strings.HasPrefix(out, "loop:\n0x00001000:  gnu:jmp loop") {
		t.Fatalf("Out() = %q", out)
	}
}

func TestEngineKeepsCallerType(t *testing.T) {
	p, _ := newFake(t)
	ins := &models.Instruction{Address: 0x1000, Type: models.Privileged}
	if !p.Decode([]byte{0x02}, ins) {
		t.Fatal("decode failed")
	}
	defer ins.Release()
	if ins.Type != models.Stop|models.Privileged {
		t.Fatalf("type %s, want stop|privileged", ins.Type)
	}
}

func TestEngineStalePayloadVeto(t *testing.T) {
	p, e := newFake(t)
	p.AddPostprocessor(func(buf models.Buffer, ins *models.Instruction) bool {
		return !ins.Is(models.Stop)
	})
	stale := 0
	ins := &models.Instruction{Address: 0x20}
	ins.SetUserdata("old", func(interface{}) { stale++ })
	if p.Decode([]byte{0x02}, ins) {
		t.Fatal("vetoed decode succeeded")
	}
	if ins.Userdata() != nil {
		t.Fatalf("record points at released payload %v", ins.Userdata())
	}
	ins.Release()
	if stale != 1 || e.freed != 1 || e.live != 0 {
		t.Fatalf("stale freed %d, engine freed %d, live %d", stale, e.freed, e.live)
	}

	ins.SetUserdata("old", func(interface{}) { stale++ })
	if !p.Decode([]byte{0x01, 0x00}, ins) {
		t.Fatal("decode failed")
	}
	if _, ok := ins.Userdata().(*Insn); !ok || stale != 2 {
		t.Fatalf("payload %T, stale freed %d", ins.Userdata(), stale)
	}
	ins.Release()
	if e.live != 0 {
		t.Fatalf("%d engine records live", e.live)
	}
}
