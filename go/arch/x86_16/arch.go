package x86_16

import (
	"github.com/lunixbochs/redcorn/go/arch/x86"
	"github.com/lunixbochs/redcorn/go/cpu"
	"github.com/lunixbochs/redcorn/go/models"
)

var Arch = &models.Arch{
	Name:   "x86_16",
	Bits:   16,
	Order:  models.LittleEndian,
	Engine: cpu.DefaultEngine,
	New:    x86.Factory("x86_16", cpu.MODE_16),
}
