package bpf

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"golang.org/x/net/bpf"

	"github.com/lunixbochs/redcorn/go/models"
	"github.com/lunixbochs/redcorn/go/models/cpu"
)

const (
	M0 = iota
	M1
	M2
	M3
	M4
	M5
	M6
	M7
	M8
	M9
	M10
	M11
	M12
	M13
	M14
	M15
	A
	X
	PC
)

var regList = []int{
	M0, M1, M2, M3, M4, M5, M6, M7, M8, M9, M10,
	M11, M12, M13, M14, M15, A, X, PC,
}

// Emulator runs a filter against Packet. A ret instruction ends the program
// with models.ExitStatus holding the accepted length.
type Emulator struct {
	*cpu.Regs
	Packet []byte
}

func NewEmulator() *Emulator {
	return &Emulator{Regs: cpu.NewRegs(32, regList)}
}

func (e *Emulator) reg(r bpf.Register) int {
	if r == bpf.RegX {
		return X
	}
	return A
}

// load reads size bytes of the packet in network order. ok is false when the
// read falls outside the packet, which rejects it.
func (e *Emulator) load(off uint64, size int) (uint32, bool) {
	if off+uint64(size) > uint64(len(e.Packet)) {
		return 0, false
	}
	val, err := models.UnpackUint(binary.BigEndian, size, e.Packet[off:])
	return uint32(val), err == nil
}

func alu(op bpf.ALUOp, a, v uint32) (uint32, bool) {
	switch op {
	case bpf.ALUOpAdd:
		return a + v, true
	case bpf.ALUOpSub:
		return a - v, true
	case bpf.ALUOpMul:
		return a * v, true
	case bpf.ALUOpDiv:
		if v == 0 {
			return 0, false
		}
		return a / v, true
	case bpf.ALUOpMod:
		if v == 0 {
			return 0, false
		}
		return a % v, true
	case bpf.ALUOpOr:
		return a | v, true
	case bpf.ALUOpAnd:
		return a & v, true
	case bpf.ALUOpXor:
		return a ^ v, true
	case bpf.ALUOpShiftLeft:
		return a << v, true
	case bpf.ALUOpShiftRight:
		return a >> v, true
	}
	return 0, false
}

func cond(test bpf.JumpTest, a, v uint32) bool {
	switch test {
	case bpf.JumpEqual:
		return a == v
	case bpf.JumpNotEqual:
		return a != v
	case bpf.JumpGreaterThan:
		return a > v
	case bpf.JumpLessThan:
		return a < v
	case bpf.JumpGreaterOrEqual:
		return a >= v
	case bpf.JumpLessOrEqual:
		return a <= v
	case bpf.JumpBitsSet:
		return a&v != 0
	case bpf.JumpBitsNotSet:
		return a&v == 0
	}
	return false
}

func (e *Emulator) Emulate(mi *models.Instruction) error {
	in, ok := mi.Userdata().(*ins)
	if !ok {
		return errors.Errorf("%#x: not a bpf instruction", mi.Address)
	}
	al, _ := e.RegRead(A)
	xl, _ := e.RegRead(X)
	a, x := uint32(al), uint32(xl)
	pc := in.next()
	// packet bounds and division faults reject the packet
	reject := models.ExitStatus(0)

	switch d := in.dec.(type) {
	case bpf.RetA:
		return models.ExitStatus(a)
	case bpf.RetConstant:
		return models.ExitStatus(d.Val)

	case bpf.LoadConstant:
		e.RegWrite(e.reg(d.Dst), uint64(d.Val))
	case bpf.LoadScratch:
		val, err := e.RegRead(M0 + d.N)
		if err != nil {
			return errors.Wrapf(err, "%#x: %s", in.addr, in)
		}
		e.RegWrite(e.reg(d.Dst), val)
	case bpf.LoadAbsolute:
		val, ok := e.load(uint64(d.Off), d.Size)
		if !ok {
			return reject
		}
		e.RegWrite(A, uint64(val))
	case bpf.LoadIndirect:
		val, ok := e.load(uint64(d.Off)+uint64(x), d.Size)
		if !ok {
			return reject
		}
		e.RegWrite(A, uint64(val))
	case bpf.LoadMemShift:
		val, ok := e.load(uint64(d.Off), 1)
		if !ok {
			return reject
		}
		e.RegWrite(X, uint64(val&0xf)*4)
	case bpf.LoadExtension:
		if d.Num != bpf.ExtLen {
			return errors.Errorf("%#x: unsupported extension %s", in.addr, in)
		}
		e.RegWrite(A, uint64(len(e.Packet)))
	case bpf.StoreScratch:
		val, _ := e.RegRead(e.reg(d.Src))
		if err := e.RegWrite(M0+d.N, val); err != nil {
			return errors.Wrapf(err, "%#x: %s", in.addr, in)
		}

	case bpf.ALUOpConstant:
		val, ok := alu(d.Op, a, d.Val)
		if !ok {
			return reject
		}
		e.RegWrite(A, uint64(val))
	case bpf.ALUOpX:
		val, ok := alu(d.Op, a, x)
		if !ok {
			return reject
		}
		e.RegWrite(A, uint64(val))
	case bpf.NegateA:
		e.RegWrite(A, uint64(-a))
	case bpf.TAX:
		e.RegWrite(X, uint64(a))
	case bpf.TXA:
		e.RegWrite(A, uint64(x))

	case bpf.Jump:
		pc = in.skip(d.Skip)
	case bpf.JumpIf:
		if cond(d.Cond, a, d.Val) {
			pc = in.skip(uint32(d.SkipTrue))
		} else {
			pc = in.skip(uint32(d.SkipFalse))
		}
	case bpf.JumpIfX:
		if cond(d.Cond, a, x) {
			pc = in.skip(uint32(d.SkipTrue))
		} else {
			pc = in.skip(uint32(d.SkipFalse))
		}
	default:
		return errors.Errorf("%#x: unhandled instruction %s", in.addr, in)
	}
	e.RegWrite(PC, pc)
	return nil
}

func (e *Emulator) Reset() {
	e.Regs.Reset()
}

func (e *Emulator) PC() uint64 {
	pc, _ := e.RegRead(PC)
	return pc
}
