// Package mips decodes the MIPS32 integer instruction set. Branches are
// followed by a delay slot; the processor tracks it on the state stack so
// Done reports the end of a run only after the slot has been decoded.
package mips

import (
	"github.com/lunixbochs/redcorn/go/models"
)

const (
	stateNormal uint32 = iota
	// the next instruction is the delay slot of a conditional branch or call
	stateSlot
	// the next instruction is the delay slot of a jump that never falls through
	stateSlotEnd
)

const InsSize = 4

type Processor struct {
	*models.BaseProcessor
}

func newProcessor(name string, order models.Endianness) *Processor {
	return &Processor{
		BaseProcessor: models.NewBaseProcessor(name, models.DelaySlot, order),
	}
}

// New returns a big-endian MIPS32 processor.
func New() (models.Processor, error) {
	return newProcessor("mips", models.BigEndian), nil
}

func NewLittleEndian() (models.Processor, error) {
	return newProcessor("mipsel", models.LittleEndian), nil
}

// Decode consumes a pending delay slot even when the slot fails to decode,
// so a caller that always decodes the instruction after a branch keeps the
// state stack balanced.
func (p *Processor) Decode(buf models.Buffer, ins *models.Instruction) bool {
	slot := p.State()
	if slot != stateNormal {
		p.PopState()
	}
	if buf.Len() < InsSize {
		return false
	}
	r := buf
	in := decodeWord(p.Read32(&r), ins.Address)
	if in == nil {
		return false
	}
	if slot != stateNormal {
		// a branch in a delay slot does not open another slot
		in.delay = false
		in.last = slot == stateSlotEnd
	}

	ins.Release()
	saved := *ins
	ins.Mnemonic = in.op.name
	ins.ID = in.id()
	ins.Size = InsSize
	ins.Type |= in.op.flow
	ins.Bytes = buf[:InsSize]
	ins.Targets = nil
	if in.hasTarget {
		ins.AddTarget(in.target)
	}
	ins.SetUserdata(in, nil)
	if !p.Finish(buf, ins, saved) {
		return false
	}
	if in.delay {
		p.PushState()
		if in.op.uncond {
			p.SetState(stateSlotEnd)
		} else {
			p.SetState(stateSlot)
		}
	}
	return true
}

// Done is false for a branch, whose delay slot still belongs to the run, and
// true for the delay slot of an unconditional jump or return.
func (p *Processor) Done(rec *models.Instruction) bool {
	if in, ok := rec.Userdata().(*ins); ok {
		if in.delay {
			return false
		}
		if in.last {
			return true
		}
	}
	return p.BaseProcessor.Done(rec)
}
