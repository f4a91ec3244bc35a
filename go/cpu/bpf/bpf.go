// Package bpf decodes classic BPF programs. The 8-byte instruction words are
// read in the processor's byte order, so the same decoder serves programs
// dumped on little- and big-endian hosts.
package bpf

import (
	"golang.org/x/net/bpf"

	"github.com/lunixbochs/redcorn/go/models"
)

// InsSize is the size of every classic BPF instruction.
const InsSize = 8

type Processor struct {
	*models.BaseProcessor
}

func newProcessor(name string, order models.Endianness) *Processor {
	return &Processor{
		BaseProcessor: models.NewBaseProcessor(name, models.HasVMIL, order),
	}
}

// New returns a little-endian BPF processor.
func New() (models.Processor, error) {
	return newProcessor("bpf", models.LittleEndian), nil
}

func NewBigEndian() (models.Processor, error) {
	return newProcessor("bpfbe", models.BigEndian), nil
}

func (p *Processor) Decode(buf models.Buffer, ins *models.Instruction) bool {
	in := p.read(buf, ins.Address)
	if in == nil {
		return false
	}
	ins.Release()
	saved := *ins
	ins.Mnemonic = in.name
	ins.ID = uint(in.raw.Op)
	ins.Size = InsSize
	ins.Type |= in.flow()
	ins.Bytes = buf[:InsSize]
	ins.Targets = nil
	for _, t := range in.targets() {
		ins.AddTarget(t)
	}
	ins.SetUserdata(in, nil)
	return p.Finish(buf, ins, saved)
}

// Done also ends a run at ja, which never falls through.
func (p *Processor) Done(rec *models.Instruction) bool {
	if in, ok := rec.Userdata().(*ins); ok {
		if _, ok := in.dec.(bpf.Jump); ok {
			return true
		}
	}
	return p.BaseProcessor.Done(rec)
}

// CreateEmulator returns a filter machine with an empty packet. Callers set
// Emulator.Packet before running a program.
func (p *Processor) CreateEmulator(ctx models.Context) models.Emulator {
	return NewEmulator()
}
