package cpu

import (
	"github.com/lunixbochs/redcorn/go/models"
)

// EngineProcessor is a Processor that hands decoding to an external Engine
// and translates its groups into control-flow flags.
type EngineProcessor struct {
	*models.BaseProcessor
	Arch Arch
	Mode Mode

	// Terminate adds run terminators on top of Stop, e.g. unconditional
	// jumps or padding.
	Terminate func(ins *models.Instruction) bool

	engine Engine
}

// NewEngineProcessor opens the engine immediately. A processor is never
// returned without a working engine handle.
func NewEngineProcessor(name, engine string, arch Arch, mode Mode, flags models.ProcessorFlags) (*EngineProcessor, error) {
	e, err := OpenEngine(engine, arch, mode)
	if err != nil {
		return nil, err
	}
	endian := models.LittleEndian
	if mode&MODE_BIG_ENDIAN != 0 {
		endian = models.BigEndian
	}
	return &EngineProcessor{
		BaseProcessor: models.NewBaseProcessor(name, flags, endian),
		Arch:          arch,
		Mode:          mode,
		engine:        e,
	}, nil
}

func groupFlags(insn *Insn) models.InsnType {
	var t models.InsnType
	if insn.InGroup(GRP_JUMP) {
		t |= models.Jump
	}
	if insn.InGroup(GRP_CALL) {
		t |= models.Call
	}
	if insn.InGroup(GRP_RET) {
		t |= models.Stop
	}
	if insn.InGroup(GRP_INT) || insn.InGroup(GRP_IRET) {
		t |= models.Privileged
	}
	return t
}

func (p *EngineProcessor) Decode(buf models.Buffer, ins *models.Instruction) bool {
	if len(buf) == 0 {
		return false
	}
	insn, err := p.engine.Disasm(buf, ins.Address)
	if err != nil {
		return false
	}
	if insn.Size <= 0 || insn.Size > len(buf) {
		p.engine.Free(insn)
		return false
	}
	// a payload left on the record is dropped before the rollback point
	ins.Release()
	saved := *ins
	ins.Type |= groupFlags(insn)
	ins.Mnemonic = insn.Mnemonic
	ins.ID = insn.ID
	ins.Size = insn.Size
	ins.Bytes = buf[:insn.Size]
	ins.Targets = append([]uint64(nil), insn.Targets...)
	engine := p.engine
	ins.SetUserdata(insn, func(data interface{}) {
		engine.Free(data.(*Insn))
	})
	return p.Finish(buf, ins, saved)
}

func (p *EngineProcessor) Done(ins *models.Instruction) bool {
	if p.BaseProcessor.Done(ins) {
		return true
	}
	return p.Terminate != nil && p.Terminate(ins)
}

func (p *EngineProcessor) CreatePrinter(ctx models.Context, symbols models.SymbolTable) models.Printer {
	return NewEnginePrinter(p.engine, ctx, symbols)
}

func (p *EngineProcessor) SetSyntax(name string) error {
	return p.engine.SetSyntax(name)
}

func (p *EngineProcessor) Close() error {
	if p.engine == nil {
		return nil
	}
	err := p.engine.Close()
	p.engine = nil
	return err
}
