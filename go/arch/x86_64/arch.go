package x86_64

import (
	"github.com/lunixbochs/redcorn/go/arch/x86"
	"github.com/lunixbochs/redcorn/go/cpu"
	"github.com/lunixbochs/redcorn/go/models"
)

var Arch = &models.Arch{
	Name:   "x86_64",
	Bits:   64,
	Order:  models.LittleEndian,
	Engine: cpu.DefaultEngine,
	New:    x86.Factory("x86_64", cpu.MODE_64),
}
