package ndh

import (
	"fmt"
	"strings"

	"github.com/lunixbochs/redcorn/go/models"
)

// ins is the decoded form attached to each record as userdata. The emulator
// executes it directly.
type ins struct {
	addr uint64
	op   byte
	name string
	args []arg
	size int
}

func (i *ins) String() string {
	return i.name + " " + i.OpStr()
}

func (i *ins) OpStr() string {
	var args []string
	for _, a := range i.args {
		args = append(args, a.String())
	}
	return strings.Join(args, ", ")
}

type arg interface {
	String() string
}

type u8 struct{ val uint8 }
type u16 struct{ val uint16 }
type reg struct{ num uint8 }
type indirect struct{ arg arg }

func (a *u8) String() string  { return fmt.Sprintf("%#x", a.val) }
func (a *u16) String() string { return fmt.Sprintf("%#x", a.val) }
func (a *reg) String() string {
	switch a.num {
	case PC:
		return "pc"
	case SP:
		return "sp"
	case BP:
		return "bp"
	default:
		return fmt.Sprintf("r%d", a.num)
	}
}

func (a *indirect) String() string { return "[" + a.arg.String() + "]" }

// insReader pulls operands off the window through the processor's read
// primitives, recording a short read instead of panicking.
type insReader struct {
	p     *Processor
	buf   models.Buffer
	short bool
}

func (i *insReader) r8() uint8 {
	if i.buf.Len() < 1 {
		i.short = true
		return 0
	}
	return i.p.Read8(&i.buf)
}

func (i *insReader) r16() uint16 {
	if i.buf.Len() < 2 {
		i.short = true
		return 0
	}
	return i.p.Read16(&i.buf)
}

func (i *insReader) u8() arg  { return &u8{i.r8()} }
func (i *insReader) u16() arg { return &u16{i.r16()} }

func (i *insReader) reg() arg {
	num := i.r8()
	if num > SP {
		i.short = true
	}
	return &reg{num}
}

func (i *insReader) flag() []arg {
	switch i.r8() {
	case OP_FLAG_REG_REG:
		return []arg{i.reg(), i.reg()}
	case OP_FLAG_REG_DIRECT08:
		return []arg{i.reg(), i.u8()}
	case OP_FLAG_REG_DIRECT16:
		return []arg{i.reg(), i.u16()}
	case OP_FLAG_REG:
		return []arg{i.reg()}
	case OP_FLAG_DIRECT16:
		return []arg{i.u16()}
	case OP_FLAG_DIRECT08:
		return []arg{i.u8()}
	case OP_FLAG_REGINDIRECT_REG:
		return []arg{&indirect{i.reg()}, i.reg()}
	case OP_FLAG_REGINDIRECT_DIRECT08:
		return []arg{&indirect{i.reg()}, i.u8()}
	case OP_FLAG_REGINDIRECT_DIRECT16:
		return []arg{&indirect{i.reg()}, i.u16()}
	case OP_FLAG_REGINDIRECT_REGINDIRECT:
		return []arg{&indirect{i.reg()}, &indirect{i.reg()}}
	case OP_FLAG_REG_REGINDIRECT:
		return []arg{i.reg(), &indirect{i.reg()}}
	}
	return nil
}

// ins decodes one instruction, returning nil for unknown opcodes, unknown
// operand layouts and truncated windows.
func (i *insReader) ins(addr uint64) *ins {
	start := i.buf.Len()
	b := i.r8()
	data, ok := opData[b]
	if i.short || !ok {
		return nil
	}
	var args []arg
	switch data.arg {
	case A_NONE:
	case A_1REG:
		args = []arg{i.reg()}
	case A_2REG:
		args = []arg{i.reg(), i.reg()}
	case A_U8:
		args = []arg{i.u8()}
	case A_U16:
		args = []arg{i.u16()}
	case A_FLAG:
		if args = i.flag(); args == nil {
			return nil
		}
	}
	if i.short {
		return nil
	}
	return &ins{
		addr: addr,
		op:   b,
		name: data.name,
		args: args,
		size: start - i.buf.Len(),
	}
}

// target resolves a direct branch operand. Offsets are relative to the end
// of the instruction and wrap at 16 bits.
func (i *ins) target() (uint64, bool) {
	if len(i.args) != 1 {
		return 0, false
	}
	var off uint64
	switch a := i.args[0].(type) {
	case *u8:
		off = uint64(a.val)
	case *u16:
		off = uint64(a.val)
	default:
		return 0, false
	}
	return (i.addr + uint64(i.size) + off) & 0xffff, true
}
