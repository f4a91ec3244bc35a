package ppc64

import (
	"github.com/lunixbochs/redcorn/go/cpu"
	_ "github.com/lunixbochs/redcorn/go/cpu/xarch"
	"github.com/lunixbochs/redcorn/go/models"
)

func factory(name string, mode cpu.Mode) func() (models.Processor, error) {
	return func() (models.Processor, error) {
		p, err := cpu.NewEngineProcessor(name, cpu.DefaultEngine, cpu.ARCH_PPC, mode, models.FlagNone)
		if err != nil {
			return nil, err
		}
		p.Terminate = func(ins *models.Instruction) bool {
			return ins.Mnemonic == "b" || ins.Mnemonic == "ba"
		}
		return p, nil
	}
}

var Arch = &models.Arch{
	Name:   "ppc64",
	Bits:   64,
	Order:  models.BigEndian,
	Engine: cpu.DefaultEngine,
	New:    factory("ppc64", cpu.MODE_64|cpu.MODE_BIG_ENDIAN),
}

var ArchLE = &models.Arch{
	Name:   "ppc64le",
	Bits:   64,
	Order:  models.LittleEndian,
	Engine: cpu.DefaultEngine,
	New:    factory("ppc64le", cpu.MODE_64),
}
