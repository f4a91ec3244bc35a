package x86

import (
	"github.com/lunixbochs/redcorn/go/cpu"
	"github.com/lunixbochs/redcorn/go/cpu/xarch"
	"github.com/lunixbochs/redcorn/go/models"
)

// Factory returns a processor constructor for one x86 mode. Unconditional
// jumps and halts end a run in addition to returns.
func Factory(name string, mode cpu.Mode) func() (models.Processor, error) {
	return func() (models.Processor, error) {
		p, err := cpu.NewEngineProcessor(name, cpu.DefaultEngine, cpu.ARCH_X86, mode, models.FlagNone)
		if err != nil {
			return nil, err
		}
		p.Terminate = func(ins *models.Instruction) bool {
			return xarch.X86Terminate(ins.Mnemonic)
		}
		return p, nil
	}
}

var Arch = &models.Arch{
	Name:   "x86",
	Bits:   32,
	Order:  models.LittleEndian,
	Engine: cpu.DefaultEngine,
	New:    Factory("x86", cpu.MODE_32),
}
