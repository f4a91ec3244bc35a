package mips

import (
	"github.com/lunixbochs/redcorn/go/cpu/mips"
	"github.com/lunixbochs/redcorn/go/models"
)

var Arch = &models.Arch{
	Name:  "mips",
	Bits:  32,
	Order: models.BigEndian,
	New:   mips.New,
}

var ArchLE = &models.Arch{
	Name:  "mipsel",
	Bits:  32,
	Order: models.LittleEndian,
	New:   mips.NewLittleEndian,
}
