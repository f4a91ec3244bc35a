package arm64

import (
	"github.com/lunixbochs/redcorn/go/cpu"
	_ "github.com/lunixbochs/redcorn/go/cpu/xarch"
	"github.com/lunixbochs/redcorn/go/models"
)

func newProcessor() (models.Processor, error) {
	p, err := cpu.NewEngineProcessor("arm64", cpu.DefaultEngine, cpu.ARCH_ARM64, cpu.MODE_ARM, models.FlagNone)
	if err != nil {
		return nil, err
	}
	p.Terminate = func(ins *models.Instruction) bool {
		return ins.Mnemonic == "b" || ins.Mnemonic == "br"
	}
	return p, nil
}

var Arch = &models.Arch{
	Name:   "arm64",
	Bits:   64,
	Order:  models.LittleEndian,
	Engine: cpu.DefaultEngine,
	New:    newProcessor,
}
