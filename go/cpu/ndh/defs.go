package ndh

import "github.com/lunixbochs/redcorn/go/models"

// registers
const (
	R0 = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	PC
	BP
	SP

	ZF
	AF
	BF
)

const (
	OP_PUSH = 0x01
	OP_NOP  = 0x02
	OP_POP  = 0x03
	OP_MOV  = 0x04

	OP_ADD = 0x06
	OP_SUB = 0x07
	OP_MUL = 0x08
	OP_DIV = 0x09
	OP_INC = 0x0A
	OP_DEC = 0x0B

	OP_OR  = 0x0C
	OP_AND = 0x0D
	OP_XOR = 0x0E
	OP_NOT = 0x0F

	OP_JZ   = 0x10
	OP_JNZ  = 0x11
	OP_JMPS = 0x16
	OP_TEST = 0x17
	OP_CMP  = 0x18
	OP_CALL = 0x19
	OP_RET  = 0x1A
	OP_JMPL = 0x1B
	OP_END  = 0x1C
	OP_XCHG = 0x1D
	OP_JA   = 0x1E
	OP_JB   = 0x1F

	OP_SYSCALL = 0x30
)

// operand layouts selected by the byte following an A_FLAG opcode
const (
	OP_FLAG_REG_REG                 = 0x00
	OP_FLAG_REG_DIRECT08            = 0x01
	OP_FLAG_REG_DIRECT16            = 0x02
	OP_FLAG_REG                     = 0x03
	OP_FLAG_DIRECT16                = 0x04
	OP_FLAG_DIRECT08                = 0x05
	OP_FLAG_REGINDIRECT_REG         = 0x06
	OP_FLAG_REGINDIRECT_DIRECT08    = 0x07
	OP_FLAG_REGINDIRECT_DIRECT16    = 0x08
	OP_FLAG_REGINDIRECT_REGINDIRECT = 0x09
	OP_FLAG_REG_REGINDIRECT         = 0x0a
)

// addressing modes
const (
	A_NONE = iota
	A_1REG
	A_2REG
	A_U8
	A_U16
	A_FLAG
)

type op struct {
	name string
	arg  int
	flow models.InsnType
}

var opData = map[byte]op{
	OP_ADD:     {"add", A_FLAG, 0},
	OP_AND:     {"and", A_FLAG, 0},
	OP_CALL:    {"call", A_FLAG, models.Call},
	OP_CMP:     {"cmp", A_FLAG, 0},
	OP_DEC:     {"dec", A_1REG, 0},
	OP_DIV:     {"div", A_FLAG, 0},
	OP_END:     {"end", A_NONE, models.Stop},
	OP_INC:     {"inc", A_1REG, 0},
	OP_JA:      {"ja", A_U16, models.Jump},
	OP_JB:      {"jb", A_U16, models.Jump},
	OP_JMPL:    {"jmpl", A_U16, models.Jump},
	OP_JMPS:    {"jmps", A_U8, models.Jump},
	OP_JNZ:     {"jnz", A_U16, models.Jump},
	OP_JZ:      {"jz", A_U16, models.Jump},
	OP_MOV:     {"mov", A_FLAG, 0},
	OP_MUL:     {"mul", A_FLAG, 0},
	OP_NOP:     {"nop", A_NONE, 0},
	OP_NOT:     {"not", A_1REG, 0},
	OP_OR:      {"or", A_FLAG, 0},
	OP_POP:     {"pop", A_1REG, 0},
	OP_PUSH:    {"push", A_FLAG, 0},
	OP_RET:     {"ret", A_NONE, models.Stop},
	OP_SUB:     {"sub", A_FLAG, 0},
	OP_SYSCALL: {"syscall", A_NONE, models.Privileged},
	OP_TEST:    {"test", A_2REG, 0},
	OP_XCHG:    {"xchg", A_2REG, 0},
	OP_XOR:     {"xor", A_FLAG, 0},
}
