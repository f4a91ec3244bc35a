package ndh

import (
	"github.com/lunixbochs/redcorn/go/cpu/ndh"
	"github.com/lunixbochs/redcorn/go/models"
)

var Arch = &models.Arch{
	Name:  "ndh",
	Bits:  16,
	Order: models.LittleEndian,
	New:   ndh.New,
}
