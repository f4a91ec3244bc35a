package xarch

import (
	"golang.org/x/arch/x86/x86asm"

	"github.com/lunixbochs/redcorn/go/cpu"
)

var x86Groups = opGroups{
	"JMP": cpu.GRP_JUMP, "LJMP": cpu.GRP_JUMP,
	"JA": cpu.GRP_JUMP, "JAE": cpu.GRP_JUMP, "JB": cpu.GRP_JUMP, "JBE": cpu.GRP_JUMP,
	"JE": cpu.GRP_JUMP, "JNE": cpu.GRP_JUMP, "JG": cpu.GRP_JUMP, "JGE": cpu.GRP_JUMP,
	"JL": cpu.GRP_JUMP, "JLE": cpu.GRP_JUMP, "JO": cpu.GRP_JUMP, "JNO": cpu.GRP_JUMP,
	"JP": cpu.GRP_JUMP, "JNP": cpu.GRP_JUMP, "JS": cpu.GRP_JUMP, "JNS": cpu.GRP_JUMP,
	"JCXZ": cpu.GRP_JUMP, "JECXZ": cpu.GRP_JUMP, "JRCXZ": cpu.GRP_JUMP,
	"LOOP": cpu.GRP_JUMP, "LOOPE": cpu.GRP_JUMP, "LOOPNE": cpu.GRP_JUMP,

	"CALL": cpu.GRP_CALL, "LCALL": cpu.GRP_CALL,

	"RET": cpu.GRP_RET, "LRET": cpu.GRP_RET,

	"INT": cpu.GRP_INT, "INTO": cpu.GRP_INT, "INT3": cpu.GRP_INT,
	"SYSCALL": cpu.GRP_INT, "SYSENTER": cpu.GRP_INT,

	"IRET": cpu.GRP_IRET, "IRETD": cpu.GRP_IRET, "IRETQ": cpu.GRP_IRET,
	"SYSRET": cpu.GRP_IRET, "SYSEXIT": cpu.GRP_IRET,
}

func decodeX86(e *Engine, insn *cpu.Insn, code []byte, addr uint64) error {
	inst, err := x86asm.Decode(code, e.bits)
	if err != nil {
		return err
	}
	// a truncated window or a lone prefix decodes to a placeholder with no op
	if inst.Op == 0 {
		if len(code) >= 15 {
			return x86asm.ErrUnrecognized
		}
		return x86asm.ErrTruncated
	}
	op := inst.Op.String()
	insn.ID = uint(inst.Op)
	insn.Size = inst.Len
	insn.Mnemonic = op
	insn.Native = inst
	x86Groups.apply(insn, op)
	for _, arg := range inst.Args {
		if arg == nil {
			break
		}
		if rel, ok := arg.(x86asm.Rel); ok {
			insn.Targets = append(insn.Targets, addr+uint64(inst.Len)+uint64(int64(rel)))
		}
	}
	insn.Operands = operands(x86Syntax(e.syntax, inst, addr, noSym))
	return nil
}

func noSym(uint64) (string, uint64) { return "", 0 }

func x86Syntax(syntax string, inst x86asm.Inst, pc uint64, symname cpu.SymLookup) string {
	lookup := x86asm.SymLookup(symname)
	switch syntax {
	case "gnu":
		return x86asm.GNUSyntax(inst, pc, lookup)
	case "go":
		return x86asm.GoSyntax(inst, pc, lookup)
	default:
		return x86asm.IntelSyntax(inst, pc, lookup)
	}
}

func formatX86(e *Engine, insn *cpu.Insn, symname cpu.SymLookup) string {
	inst, ok := insn.Native.(x86asm.Inst)
	if !ok {
		return insn.Mnemonic + " " + insn.Operands
	}
	if symname == nil {
		symname = noSym
	}
	return x86Syntax(e.syntax, inst, insn.Address, symname)
}

// X86Terminate ends a linear run after unconditional transfers and halts.
func X86Terminate(mnemonic string) bool {
	switch mnemonic {
	case "jmp", "ljmp", "hlt", "ud1", "ud2":
		return true
	}
	return false
}
