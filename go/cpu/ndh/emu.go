package ndh

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"

	"github.com/lunixbochs/redcorn/go/models"
	"github.com/lunixbochs/redcorn/go/models/cpu"
)

var regList = []int{
	R0, R1, R2, R3, R4, R5, R6, R7,
	BP, SP, PC,
	ZF, AF, BF,
}

// StackTop is where SP starts after Reset.
const StackTop = 0x7ffe

func rbool(i bool) uint64 {
	if i {
		return 1
	}
	return 0
}

// Emulator executes decoded NDH instructions. Memory reads fall through to
// the disassembly context until the emulator writes a byte itself.
type Emulator struct {
	*cpu.Regs
	Mem *cpu.Mem

	// Syscall is invoked for the syscall instruction.
	Syscall func(e *Emulator) error

	err error
}

func NewEmulator(ctx models.Context) *Emulator {
	e := &Emulator{
		Regs: cpu.NewRegs(16, regList),
		Mem:  cpu.NewMem(16, binary.LittleEndian),
	}
	if ctx != nil {
		e.Mem.Fill = ctx.ReadMemory
	}
	e.Reset()
	return e
}

func (e *Emulator) Reset() {
	e.Regs.Reset()
	e.Mem.Reset()
	e.RegWrite(SP, StackTop)
	e.err = nil
}

func (e *Emulator) set(a arg, val uint64) {
	switch v := a.(type) {
	case *reg:
		e.RegWrite(int(v.num), val)
	case *indirect:
		addr := e.get(v.arg)
		if err := e.Mem.WriteUint(addr, 1, val); err != nil {
			e.err = err
		}
	default:
		e.err = errors.Errorf("unsupported set: %T", a)
	}
}

func (e *Emulator) get(a arg) uint64 {
	var val uint64
	switch v := a.(type) {
	case *u8:
		val = uint64(v.val)
	case *u16:
		val = uint64(v.val)
	case *reg:
		val, _ = e.RegRead(int(v.num))
	case *indirect:
		addr := e.get(v.arg)
		var err error
		if val, err = e.Mem.ReadUint(addr, 1); err != nil {
			e.err = err
		}
	default:
		e.err = errors.Errorf("unsupported get: %T", a)
	}
	return val
}

// Emulate runs one instruction. The end instruction returns
// models.ExitStatus(0).
func (e *Emulator) Emulate(mi *models.Instruction) error {
	in, ok := mi.Userdata().(*ins)
	if !ok {
		return errors.Errorf("%#x: not an ndh instruction", mi.Address)
	}
	e.err = nil
	e.RegWrite(PC, in.addr)

	var a, b arg
	switch len(in.args) {
	case 2:
		a, b = in.args[0], in.args[1]
	case 1:
		a = in.args[0]
	}

	nextPC := in.addr + uint64(in.size)
	jump := false
	afr, _ := e.RegRead(AF)
	bfr, _ := e.RegRead(BF)
	zfr, _ := e.RegRead(ZF)
	sp, _ := e.RegRead(SP)
	af, bf, zf := afr == 1, bfr == 1, zfr == 1

	zfcheck := func(val uint64) uint64 {
		zf = val&0xffff == 0
		return val
	}

	switch in.op {
	case OP_DEC:
		e.set(a, e.get(a)-1)
	case OP_INC:
		e.set(a, e.get(a)+1)
	case OP_XCHG:
		xa, xb := e.get(a), e.get(b)
		e.set(a, xb)
		e.set(b, xa)
	case OP_MOV:
		e.set(a, e.get(b))

	case OP_ADD:
		e.set(a, zfcheck(e.get(a)+e.get(b)))
	case OP_AND:
		e.set(a, zfcheck(e.get(a)&e.get(b)))
	case OP_DIV:
		divisor := e.get(b)
		if divisor == 0 {
			return errors.Errorf("%#x: division by zero", in.addr)
		}
		e.set(a, zfcheck(e.get(a)/divisor))
	case OP_MUL:
		e.set(a, zfcheck(e.get(a)*e.get(b)))
	case OP_NOT:
		e.set(a, zfcheck(^e.get(a)))
	case OP_OR:
		e.set(a, zfcheck(e.get(a)|e.get(b)))
	case OP_SUB:
		e.set(a, zfcheck(e.get(a)-e.get(b)))
	case OP_XOR:
		e.set(a, zfcheck(e.get(a)^e.get(b)))

	case OP_CMP:
		va, vb := e.get(a), e.get(b)
		af, bf, zf = false, false, false
		if va == vb {
			zf = true
		} else if va < vb {
			af = true
		} else {
			bf = true
		}
	case OP_TEST:
		zf = e.get(a) == 0 && e.get(b) == 0

	case OP_SYSCALL:
		if e.Syscall != nil {
			if err := e.Syscall(e); err != nil {
				return err
			}
		}
	case OP_NOP:
	case OP_END:
		return models.ExitStatus(0)
	case OP_JA:
		jump = af
	case OP_JB:
		jump = bf
	case OP_JMPL, OP_JMPS:
		jump = true
	case OP_JNZ:
		jump = !zf
	case OP_JZ:
		jump = zf

	case OP_CALL:
		sp -= 2
		if err := e.Mem.WriteUint(sp, 2, nextPC); err != nil {
			return err
		}
		jump = true
	case OP_RET:
		var err error
		if nextPC, err = e.Mem.ReadUint(sp, 2); err != nil {
			return err
		}
		sp += 2

	case OP_PUSH:
		size := 2
		if _, ok := a.(*u8); ok {
			size = 1
		}
		sp -= uint64(size)
		if err := e.Mem.WriteUint(sp, size, e.get(a)); err != nil {
			return err
		}
	case OP_POP:
		val, err := e.Mem.ReadUint(sp, 2)
		if err != nil {
			return err
		}
		e.set(a, val)
		sp += 2

	default:
		return errors.Errorf("invalid op: %#x", in.op)
	}
	if e.err != nil {
		return errors.Wrap(e.err, fmt.Sprintf("%#x: %s", in.addr, in))
	}
	e.RegWrite(AF, rbool(af))
	e.RegWrite(BF, rbool(bf))
	e.RegWrite(ZF, rbool(zf))
	e.RegWrite(SP, sp)

	pc := nextPC
	if jump {
		pc = (nextPC + e.get(a)) & 0xffff
	}
	e.RegWrite(PC, pc)
	return nil
}

func (e *Emulator) PC() uint64 {
	pc, _ := e.RegRead(PC)
	return pc
}
