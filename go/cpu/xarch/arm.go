package xarch

import (
	"strings"

	"golang.org/x/arch/arm/armasm"
	"golang.org/x/arch/arm64/arm64asm"

	"github.com/lunixbochs/redcorn/go/cpu"
)

// armasm spells conditional forms as "BL.EQ"; groups key on the base name.
func baseOp(op string) string {
	if i := strings.IndexByte(op, '.'); i >= 0 {
		return op[:i]
	}
	return op
}

func armWritesPC(inst armasm.Inst) bool {
	switch a := inst.Args[0].(type) {
	case armasm.Reg:
		return a == armasm.PC
	case armasm.RegList:
		return a&(1<<15) != 0
	}
	for _, arg := range inst.Args[1:] {
		if list, ok := arg.(armasm.RegList); ok && list&(1<<15) != 0 {
			return true
		}
	}
	return false
}

func decodeARM(e *Engine, insn *cpu.Insn, code []byte, addr uint64) error {
	inst, err := armasm.Decode(code, armasm.ModeARM)
	if err != nil {
		return err
	}
	op := inst.Op.String()
	insn.ID = uint(inst.Op)
	insn.Size = inst.Len
	insn.Mnemonic = op
	insn.Native = inst
	switch baseOp(op) {
	case "B":
		insn.Groups = append(insn.Groups, cpu.GRP_JUMP)
	case "BL", "BLX":
		insn.Groups = append(insn.Groups, cpu.GRP_CALL)
	case "BX":
		if r, ok := inst.Args[0].(armasm.Reg); ok && r == armasm.LR {
			insn.Groups = append(insn.Groups, cpu.GRP_RET)
		} else {
			insn.Groups = append(insn.Groups, cpu.GRP_JUMP)
		}
	case "POP", "LDM", "LDMIA", "LDMIB", "LDMDA", "LDMDB":
		if armWritesPC(inst) {
			insn.Groups = append(insn.Groups, cpu.GRP_RET)
		}
	case "MOV", "LDR", "ADD", "SUB":
		if r, ok := inst.Args[0].(armasm.Reg); ok && r == armasm.PC {
			insn.Groups = append(insn.Groups, cpu.GRP_JUMP)
		}
	case "SVC":
		insn.Groups = append(insn.Groups, cpu.GRP_INT)
	}
	for _, arg := range inst.Args {
		if arg == nil {
			break
		}
		if rel, ok := arg.(armasm.PCRel); ok {
			insn.Targets = append(insn.Targets, uint64(uint32(addr)+8+uint32(rel)))
		}
	}
	insn.Operands = operands(armSyntax(e.syntax, inst, addr, noSym))
	return nil
}

func armSyntax(syntax string, inst armasm.Inst, pc uint64, symname cpu.SymLookup) string {
	if syntax == "go" {
		return armasm.GoSyntax(inst, pc, symname, nil)
	}
	return armasm.GNUSyntax(inst)
}

func formatARM(e *Engine, insn *cpu.Insn, symname cpu.SymLookup) string {
	inst, ok := insn.Native.(armasm.Inst)
	if !ok {
		return insn.Mnemonic + " " + insn.Operands
	}
	if symname == nil {
		symname = noSym
	}
	return armSyntax(e.syntax, inst, insn.Address, symname)
}

var arm64Groups = opGroups{
	"B": cpu.GRP_JUMP, "BR": cpu.GRP_JUMP,
	"CBZ": cpu.GRP_JUMP, "CBNZ": cpu.GRP_JUMP, "TBZ": cpu.GRP_JUMP, "TBNZ": cpu.GRP_JUMP,
	"BL": cpu.GRP_CALL, "BLR": cpu.GRP_CALL,
	"RET": cpu.GRP_RET,
	"SVC": cpu.GRP_INT, "HVC": cpu.GRP_INT, "SMC": cpu.GRP_INT, "BRK": cpu.GRP_INT,
	"ERET": cpu.GRP_IRET,
}

func decodeARM64(e *Engine, insn *cpu.Insn, code []byte, addr uint64) error {
	inst, err := arm64asm.Decode(code)
	if err != nil {
		return err
	}
	op := inst.Op.String()
	insn.ID = uint(inst.Op)
	insn.Size = 4
	insn.Mnemonic = op
	insn.Native = inst
	arm64Groups.apply(insn, baseOp(op))
	for _, arg := range inst.Args {
		if arg == nil {
			break
		}
		if rel, ok := arg.(arm64asm.PCRel); ok {
			insn.Targets = append(insn.Targets, addr+uint64(int64(rel)))
		}
	}
	insn.Operands = operands(arm64Syntax(e.syntax, inst, addr, noSym))
	return nil
}

func arm64Syntax(syntax string, inst arm64asm.Inst, pc uint64, symname cpu.SymLookup) string {
	if syntax == "go" {
		return arm64asm.GoSyntax(inst, pc, symname, nil)
	}
	return arm64asm.GNUSyntax(inst)
}

func formatARM64(e *Engine, insn *cpu.Insn, symname cpu.SymLookup) string {
	inst, ok := insn.Native.(arm64asm.Inst)
	if !ok {
		return insn.Mnemonic + " " + insn.Operands
	}
	if symname == nil {
		symname = noSym
	}
	return arm64Syntax(e.syntax, inst, insn.Address, symname)
}
