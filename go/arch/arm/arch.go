package arm

import (
	"github.com/lunixbochs/redcorn/go/cpu"
	_ "github.com/lunixbochs/redcorn/go/cpu/xarch"
	"github.com/lunixbochs/redcorn/go/models"
)

func newProcessor() (models.Processor, error) {
	p, err := cpu.NewEngineProcessor("arm", cpu.DefaultEngine, cpu.ARCH_ARM, cpu.MODE_ARM, models.FlagNone)
	if err != nil {
		return nil, err
	}
	p.Terminate = func(ins *models.Instruction) bool {
		return ins.Mnemonic == "b" || ins.Mnemonic == "bx"
	}
	return p, nil
}

var Arch = &models.Arch{
	Name:   "arm",
	Bits:   32,
	Order:  models.LittleEndian,
	Engine: cpu.DefaultEngine,
	New:    newProcessor,
}
