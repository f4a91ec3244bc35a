package bpf

import (
	"github.com/lunixbochs/redcorn/go/cpu/bpf"
	"github.com/lunixbochs/redcorn/go/models"
)

var Arch = &models.Arch{
	Name:  "bpf",
	Bits:  32,
	Order: models.LittleEndian,
	New:   bpf.New,
}

var ArchBE = &models.Arch{
	Name:  "bpfbe",
	Bits:  32,
	Order: models.BigEndian,
	New:   bpf.NewBigEndian,
}
