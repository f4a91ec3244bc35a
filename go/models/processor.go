package models

import "github.com/pkg/errors"

// Processor is implemented by every architecture backend. A Processor holds
// per-session decode state and must not be used from more than one goroutine
// at a time.
type Processor interface {
	Name() string

	// Decode one instruction at ins.Address from buf. On failure the record
	// is left as the caller built it.
	Decode(buf Buffer, ins *Instruction) bool
	// Done reports whether a decoded instruction ends a linear run.
	Done(ins *Instruction) bool

	Flags() ProcessorFlags
	HasFlag(f ProcessorFlags) bool
	HasVMIL() bool
	CanEmulateVMIL() bool

	Endianness() Endianness
	SetEndianness(e Endianness)

	PushState()
	PopState() uint32

	// Companion factories. A nil result means the capability is not offered.
	CreateEmulator(ctx Context) Emulator
	CreatePrinter(ctx Context, symbols SymbolTable) Printer

	Close() error
}

// Postprocessor runs after a backend has populated a record. Returning false
// vetoes the decode.
type Postprocessor func(buf Buffer, ins *Instruction) bool

// BaseProcessor implements the architecture-independent half of Processor.
// Backends embed it and provide Decode (calling BaseProcessor.Decode last),
// and override Done or the factories where they need to.
type BaseProcessor struct {
	name   string
	flags  ProcessorFlags
	endian Endianness

	state  uint32
	states StateStack
	post   []Postprocessor
}

func NewBaseProcessor(name string, flags ProcessorFlags, endian Endianness) *BaseProcessor {
	return &BaseProcessor{name: name, flags: flags, endian: endian}
}

func (b *BaseProcessor) Name() string { return b.name }

func (b *BaseProcessor) Flags() ProcessorFlags             { return b.flags }
func (b *BaseProcessor) HasFlag(f ProcessorFlags) bool     { return b.flags&f == f && f != 0 }
func (b *BaseProcessor) HasVMIL() bool                     { return b.HasFlag(HasVMIL) }
func (b *BaseProcessor) CanEmulateVMIL() bool              { return b.HasFlag(EmulateVMIL) }
func (b *BaseProcessor) Endianness() Endianness            { return b.endian }
func (b *BaseProcessor) SetEndianness(e Endianness)        { b.endian = e }
func (b *BaseProcessor) AddPostprocessor(fn Postprocessor) { b.post = append(b.post, fn) }

// Decode is the shared tail of every backend's Decode.
func (b *BaseProcessor) Decode(buf Buffer, ins *Instruction) bool {
	for _, fn := range b.post {
		if !fn(buf, ins) {
			return false
		}
	}
	return true
}

// Finish runs the base decode hook on a record the backend has just
// populated. If a postprocessor vetoes the decode the payload is released and
// the record is rolled back to saved, so callers never see a partial record.
func (b *BaseProcessor) Finish(buf Buffer, ins *Instruction, saved Instruction) bool {
	if b.Decode(buf, ins) {
		return true
	}
	ins.Release()
	*ins = saved
	return false
}

func (b *BaseProcessor) Done(ins *Instruction) bool {
	return ins.Is(Stop)
}

func (b *BaseProcessor) CreateEmulator(ctx Context) Emulator { return nil }

func (b *BaseProcessor) CreatePrinter(ctx Context, symbols SymbolTable) Printer { return nil }

func (b *BaseProcessor) Close() error { return nil }

// State is the backend's current transient decode state.
func (b *BaseProcessor) State() uint32 { return b.state }

func (b *BaseProcessor) SetState(state uint32) { b.state = state }

// PushState saves the current state.
func (b *BaseProcessor) PushState() {
	b.states.Push(b.state)
}

// PopState restores and returns the most recently pushed state.
func (b *BaseProcessor) PopState() uint32 {
	b.state = b.states.Pop()
	return b.state
}

func (b *BaseProcessor) StateDepth() int { return b.states.Len() }

// Read primitives consume from the front of buf using the configured byte
// order. The caller checks buf is long enough.

func (b *BaseProcessor) Read8(buf *Buffer) uint8 {
	v := (*buf)[0]
	buf.Advance(1)
	return v
}

func (b *BaseProcessor) Read16(buf *Buffer) uint16 {
	v := b.endian.ByteOrder().Uint16(*buf)
	buf.Advance(2)
	return v
}

func (b *BaseProcessor) Read32(buf *Buffer) uint32 {
	v := b.endian.ByteOrder().Uint32(*buf)
	buf.Advance(4)
	return v
}

func (b *BaseProcessor) Read64(buf *Buffer) uint64 {
	v := b.endian.ByteOrder().Uint64(*buf)
	buf.Advance(8)
	return v
}

// ReadUint is the checked variant of the fixed-width reads.
func (b *BaseProcessor) ReadUint(buf *Buffer, size int) (uint64, error) {
	v, err := UnpackUint(b.endian.ByteOrder(), size, *buf)
	if err != nil {
		return 0, errors.Wrap(err, "read failed")
	}
	buf.Advance(size)
	return v, nil
}
