package mips

import (
	"fmt"

	"github.com/lunixbochs/redcorn/go/models"
)

type ins struct {
	addr uint64
	word uint32
	op   op

	target    uint64
	hasTarget bool

	// delay is set on branches followed by a delay slot.
	delay bool
	// last is set on the delay slot of an unconditional jump or return.
	last bool
}

func (i *ins) rs() uint32     { return (i.word >> 21) & 0x1f }
func (i *ins) rt() uint32     { return (i.word >> 16) & 0x1f }
func (i *ins) rd() uint32     { return (i.word >> 11) & 0x1f }
func (i *ins) sa() uint32     { return (i.word >> 6) & 0x1f }
func (i *ins) funct() uint32  { return i.word & 0x3f }
func (i *ins) simm() int64    { return int64(int16(i.word)) }
func (i *ins) uimm() uint32   { return i.word & 0xffff }
func (i *ins) opcode() uint32 { return i.word >> 26 }

// id combines the primary opcode with the field that selects the operation
// inside an opcode group.
func (i *ins) id() uint {
	sub := uint32(0)
	switch i.opcode() {
	case OP_SPECIAL, OP_SPECIAL2:
		sub = i.funct()
	case OP_REGIMM:
		sub = i.rt()
	case OP_COP0:
		if i.rs()&COP0_CO != 0 {
			sub = i.funct()
		} else {
			sub = i.rs()
		}
	}
	return uint(i.opcode()<<8 | sub)
}

func reg(n uint32) string { return "$" + regNames[n] }

func (i *ins) String() string {
	if ops := i.OpStr(); ops != "" {
		return i.op.name + " " + ops
	}
	return i.op.name
}

func (i *ins) OpStr() string {
	switch i.op.format {
	case F_R3:
		return fmt.Sprintf("%s, %s, %s", reg(i.rd()), reg(i.rs()), reg(i.rt()))
	case F_SHIFT:
		return fmt.Sprintf("%s, %s, %d", reg(i.rd()), reg(i.rt()), i.sa())
	case F_SHIFTV:
		return fmt.Sprintf("%s, %s, %s", reg(i.rd()), reg(i.rt()), reg(i.rs()))
	case F_RS:
		return reg(i.rs())
	case F_RD:
		return reg(i.rd())
	case F_JALR:
		if i.op.name == "jalr" && i.rd() == RA {
			return reg(i.rs())
		}
		return fmt.Sprintf("%s, %s", reg(i.rd()), reg(i.rs()))
	case F_RSRT:
		return fmt.Sprintf("%s, %s", reg(i.rs()), reg(i.rt()))
	case F_IMM:
		return fmt.Sprintf("%s, %s, %d", reg(i.rt()), reg(i.rs()), i.simm())
	case F_UIMM:
		return fmt.Sprintf("%s, %s, %#x", reg(i.rt()), reg(i.rs()), i.uimm())
	case F_LUI:
		return fmt.Sprintf("%s, %#x", reg(i.rt()), i.uimm())
	case F_MEM:
		return fmt.Sprintf("%s, %d(%s)", reg(i.rt()), i.simm(), reg(i.rs()))
	case F_BR2:
		return fmt.Sprintf("%s, %s, %#x", reg(i.rs()), reg(i.rt()), i.target)
	case F_BR1:
		return fmt.Sprintf("%s, %#x", reg(i.rs()), i.target)
	case F_J:
		return fmt.Sprintf("%#x", i.target)
	case F_COP0:
		return fmt.Sprintf("%s, $%d", reg(i.rt()), i.rd())
	case F_CODE:
		if code := (i.word >> 6) & 0xfffff; code != 0 {
			return fmt.Sprintf("%#x", code)
		}
	}
	return ""
}

func lookup(w uint32) (op, bool) {
	var o op
	var ok bool
	rs, rt, funct := (w>>21)&0x1f, (w>>16)&0x1f, w&0x3f
	switch w >> 26 {
	case OP_SPECIAL:
		o, ok = special[funct]
	case OP_REGIMM:
		o, ok = regimm[rt]
	case OP_SPECIAL2:
		o, ok = special2[funct]
	case OP_COP0:
		if rs&COP0_CO != 0 {
			o, ok = cop0co[funct]
		} else {
			o, ok = cop0[rs]
		}
	default:
		o, ok = primary[w>>26]
	}
	return o, ok
}

// decodeWord returns nil for encodings outside the supported MIPS32 subset.
func decodeWord(w uint32, addr uint64) *ins {
	o, ok := lookup(w)
	if !ok {
		return nil
	}
	i := &ins{addr: addr, word: w, op: o}
	switch o.format {
	case F_BR1, F_BR2:
		i.target = uint64(int64(addr) + 4 + i.simm()<<2)
		i.hasTarget = true
	case F_J:
		i.target = (addr+4)&^0x0fffffff | uint64(w&0x03ffffff)<<2
		i.hasTarget = true
	}

	// assembler aliases
	switch {
	case w == 0:
		i.op = op{"nop", F_NONE, 0, false}
	case i.opcode() == OP_BEQ && i.rs() == 0 && i.rt() == 0:
		i.op = op{"b", F_J, models.Jump, true}
	case i.opcode() == OP_REGIMM && i.rt() == REGIMM_BGEZAL && i.rs() == 0:
		i.op = op{"bal", F_J, models.Call, false}
	case i.opcode() == OP_SPECIAL && i.funct() == FUNCT_JR && i.rs() == RA:
		i.op = op{"jr", F_RS, models.Stop, true}
	}
	i.delay = i.op.flow.Has(models.Jump) || i.op.flow.Has(models.Call) || i.op.uncond
	return i
}
