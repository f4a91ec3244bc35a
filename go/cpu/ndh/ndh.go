// Package ndh is a hand-written backend for the NDH virtual machine, a
// small 16-bit little-endian architecture. It decodes with the processor's
// read primitives and offers a VMIL emulator that runs during disassembly.
package ndh

import (
	"github.com/lunixbochs/redcorn/go/models"
)

// MaxInsSize is the largest encoding: opcode, flag byte, register, u16.
const MaxInsSize = 5

type Processor struct {
	*models.BaseProcessor
}

func New() (models.Processor, error) {
	return &Processor{
		BaseProcessor: models.NewBaseProcessor("ndh", models.HasVMIL|models.EmulateVMIL, models.LittleEndian),
	}, nil
}

func (p *Processor) Decode(buf models.Buffer, ins *models.Instruction) bool {
	r := &insReader{p: p, buf: buf}
	in := r.ins(ins.Address)
	if in == nil {
		return false
	}
	ins.Release()
	saved := *ins
	flow := opData[in.op].flow
	ins.Mnemonic = in.name
	ins.ID = uint(in.op)
	ins.Size = in.size
	ins.Type |= flow
	ins.Bytes = buf[:in.size]
	if flow&(models.Jump|models.Call) != 0 {
		if target, ok := in.target(); ok {
			ins.AddTarget(target)
		}
	}
	ins.SetUserdata(in, nil)
	return p.Finish(buf, ins, saved)
}

func (p *Processor) CreateEmulator(ctx models.Context) models.Emulator {
	return NewEmulator(ctx)
}
