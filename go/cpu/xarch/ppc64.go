package xarch

import (
	"strings"

	"golang.org/x/arch/ppc64/ppc64asm"

	"github.com/lunixbochs/redcorn/go/cpu"
)

var ppc64Groups = opGroups{
	"B": cpu.GRP_JUMP, "BA": cpu.GRP_JUMP, "BC": cpu.GRP_JUMP, "BCA": cpu.GRP_JUMP,
	"BCCTR": cpu.GRP_JUMP, "BCTAR": cpu.GRP_JUMP,
	"BL": cpu.GRP_CALL, "BLA": cpu.GRP_CALL, "BCL": cpu.GRP_CALL, "BCLA": cpu.GRP_CALL,
	"BCCTRL": cpu.GRP_CALL, "BCTARL": cpu.GRP_CALL, "BCLRL": cpu.GRP_CALL,
	"BCLR": cpu.GRP_RET,
	"SC":   cpu.GRP_INT, "SCV": cpu.GRP_INT,
	"TW": cpu.GRP_INT, "TWI": cpu.GRP_INT, "TD": cpu.GRP_INT, "TDI": cpu.GRP_INT,
	"RFI": cpu.GRP_IRET, "RFID": cpu.GRP_IRET, "HRFID": cpu.GRP_IRET, "URFID": cpu.GRP_IRET, "RFSCV": cpu.GRP_IRET,
}

func decodePPC64(e *Engine, insn *cpu.Insn, code []byte, addr uint64) error {
	inst, err := ppc64asm.Decode(code, e.order)
	if err != nil {
		return err
	}
	op := strings.ToUpper(inst.Op.String())
	insn.ID = uint(inst.Op)
	insn.Size = inst.Len
	insn.Mnemonic = op
	insn.Native = inst
	ppc64Groups.apply(insn, op)
	for _, arg := range inst.Args {
		if arg == nil {
			break
		}
		switch a := arg.(type) {
		case ppc64asm.PCRel:
			insn.Targets = append(insn.Targets, addr+uint64(int64(a)))
		case ppc64asm.Label:
			insn.Targets = append(insn.Targets, uint64(a))
		}
	}
	insn.Operands = operands(ppc64Syntax(e.syntax, inst, addr, noSym))
	return nil
}

func ppc64Syntax(syntax string, inst ppc64asm.Inst, pc uint64, symname cpu.SymLookup) string {
	if syntax == "go" {
		return ppc64asm.GoSyntax(inst, pc, symname)
	}
	return ppc64asm.GNUSyntax(inst, pc)
}

func formatPPC64(e *Engine, insn *cpu.Insn, symname cpu.SymLookup) string {
	inst, ok := insn.Native.(ppc64asm.Inst)
	if !ok {
		return insn.Mnemonic + " " + insn.Operands
	}
	if symname == nil {
		symname = noSym
	}
	return ppc64Syntax(e.syntax, inst, insn.Address, symname)
}
