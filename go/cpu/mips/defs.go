package mips

import "github.com/lunixbochs/redcorn/go/models"

var regNames = [32]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

const (
	RA = 31

	OP_SPECIAL  = 0x00
	OP_REGIMM   = 0x01
	OP_J        = 0x02
	OP_JAL      = 0x03
	OP_BEQ      = 0x04
	OP_COP0     = 0x10
	OP_SPECIAL2 = 0x1c

	FUNCT_SLL  = 0x00
	FUNCT_JR   = 0x08
	FUNCT_JALR = 0x09

	REGIMM_BGEZAL = 0x11

	COP0_CO = 0x10
)

// operand layouts
const (
	F_NONE   = iota
	F_R3     // rd, rs, rt
	F_SHIFT  // rd, rt, sa
	F_SHIFTV // rd, rt, rs
	F_RS     // rs
	F_RD     // rd
	F_JALR   // rd, rs
	F_RSRT   // rs, rt
	F_IMM    // rt, rs, simm
	F_UIMM   // rt, rs, uimm
	F_LUI    // rt, uimm
	F_MEM    // rt, off(rs)
	F_BR2    // rs, rt, target
	F_BR1    // rs, target
	F_J      // target
	F_COP0   // rt, rd
	F_CODE   // code
)

type op struct {
	name   string
	format int
	flow   models.InsnType
	// uncond marks jumps that never fall through; the run ends after their
	// delay slot.
	uncond bool
}

var primary = map[uint32]op{
	OP_J:   {"j", F_J, models.Jump, true},
	OP_JAL: {"jal", F_J, models.Call, false},
	OP_BEQ: {"beq", F_BR2, models.Jump, false},
	0x05:   {"bne", F_BR2, models.Jump, false},
	0x06:   {"blez", F_BR1, models.Jump, false},
	0x07:   {"bgtz", F_BR1, models.Jump, false},
	0x08:   {"addi", F_IMM, 0, false},
	0x09:   {"addiu", F_IMM, 0, false},
	0x0a:   {"slti", F_IMM, 0, false},
	0x0b:   {"sltiu", F_IMM, 0, false},
	0x0c:   {"andi", F_UIMM, 0, false},
	0x0d:   {"ori", F_UIMM, 0, false},
	0x0e:   {"xori", F_UIMM, 0, false},
	0x0f:   {"lui", F_LUI, 0, false},
	0x14:   {"beql", F_BR2, models.Jump, false},
	0x15:   {"bnel", F_BR2, models.Jump, false},
	0x16:   {"blezl", F_BR1, models.Jump, false},
	0x17:   {"bgtzl", F_BR1, models.Jump, false},
	0x20:   {"lb", F_MEM, 0, false},
	0x21:   {"lh", F_MEM, 0, false},
	0x22:   {"lwl", F_MEM, 0, false},
	0x23:   {"lw", F_MEM, 0, false},
	0x24:   {"lbu", F_MEM, 0, false},
	0x25:   {"lhu", F_MEM, 0, false},
	0x26:   {"lwr", F_MEM, 0, false},
	0x28:   {"sb", F_MEM, 0, false},
	0x29:   {"sh", F_MEM, 0, false},
	0x2a:   {"swl", F_MEM, 0, false},
	0x2b:   {"sw", F_MEM, 0, false},
	0x2e:   {"swr", F_MEM, 0, false},
	0x2f:   {"cache", F_MEM, models.Privileged, false},
	0x30:   {"ll", F_MEM, 0, false},
	0x38:   {"sc", F_MEM, 0, false},
}

var special = map[uint32]op{
	FUNCT_SLL:  {"sll", F_SHIFT, 0, false},
	0x02:       {"srl", F_SHIFT, 0, false},
	0x03:       {"sra", F_SHIFT, 0, false},
	0x04:       {"sllv", F_SHIFTV, 0, false},
	0x06:       {"srlv", F_SHIFTV, 0, false},
	0x07:       {"srav", F_SHIFTV, 0, false},
	FUNCT_JR:   {"jr", F_RS, models.Jump, true},
	FUNCT_JALR: {"jalr", F_JALR, models.Call, false},
	0x0a:       {"movz", F_R3, 0, false},
	0x0b:       {"movn", F_R3, 0, false},
	0x0c:       {"syscall", F_CODE, models.Privileged, false},
	0x0d:       {"break", F_CODE, models.Privileged, false},
	0x0f:       {"sync", F_NONE, 0, false},
	0x10:       {"mfhi", F_RD, 0, false},
	0x11:       {"mthi", F_RS, 0, false},
	0x12:       {"mflo", F_RD, 0, false},
	0x13:       {"mtlo", F_RS, 0, false},
	0x18:       {"mult", F_RSRT, 0, false},
	0x19:       {"multu", F_RSRT, 0, false},
	0x1a:       {"div", F_RSRT, 0, false},
	0x1b:       {"divu", F_RSRT, 0, false},
	0x20:       {"add", F_R3, 0, false},
	0x21:       {"addu", F_R3, 0, false},
	0x22:       {"sub", F_R3, 0, false},
	0x23:       {"subu", F_R3, 0, false},
	0x24:       {"and", F_R3, 0, false},
	0x25:       {"or", F_R3, 0, false},
	0x26:       {"xor", F_R3, 0, false},
	0x27:       {"nor", F_R3, 0, false},
	0x2a:       {"slt", F_R3, 0, false},
	0x2b:       {"sltu", F_R3, 0, false},
	0x34:       {"teq", F_RSRT, models.Privileged, false},
	0x36:       {"tne", F_RSRT, models.Privileged, false},
}

var special2 = map[uint32]op{
	0x00: {"madd", F_RSRT, 0, false},
	0x01: {"maddu", F_RSRT, 0, false},
	0x02: {"mul", F_R3, 0, false},
	0x04: {"msub", F_RSRT, 0, false},
	0x05: {"msubu", F_RSRT, 0, false},
	0x20: {"clz", F_JALR, 0, false},
	0x21: {"clo", F_JALR, 0, false},
}

// keyed by the rt field
var regimm = map[uint32]op{
	0x00:          {"bltz", F_BR1, models.Jump, false},
	0x01:          {"bgez", F_BR1, models.Jump, false},
	0x02:          {"bltzl", F_BR1, models.Jump, false},
	0x03:          {"bgezl", F_BR1, models.Jump, false},
	0x10:          {"bltzal", F_BR1, models.Call, false},
	REGIMM_BGEZAL: {"bgezal", F_BR1, models.Call, false},
	0x12:          {"bltzall", F_BR1, models.Call, false},
	0x13:          {"bgezall", F_BR1, models.Call, false},
}

// keyed by the rs field; the CO form is keyed by funct in cop0co
var cop0 = map[uint32]op{
	0x00: {"mfc0", F_COP0, models.Privileged, false},
	0x04: {"mtc0", F_COP0, models.Privileged, false},
}

var cop0co = map[uint32]op{
	0x01: {"tlbr", F_NONE, models.Privileged, false},
	0x02: {"tlbwi", F_NONE, models.Privileged, false},
	0x06: {"tlbwr", F_NONE, models.Privileged, false},
	0x08: {"tlbp", F_NONE, models.Privileged, false},
	0x18: {"eret", F_NONE, models.Stop | models.Privileged, false},
	0x20: {"wait", F_NONE, models.Privileged, false},
}
