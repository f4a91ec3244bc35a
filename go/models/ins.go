package models

import "fmt"

// OpStringer is implemented by decoder payloads that can render operands.
type OpStringer interface {
	OpStr() string
}

// Instruction is the architecture-neutral result of one decode attempt.
// The caller sets Address before calling Processor.Decode; everything else
// is filled in by the processor on success and left alone on failure.
type Instruction struct {
	Address  uint64
	Mnemonic string
	ID       uint
	Size     int
	Type     InsnType

	// Bytes is the slice of the window consumed by the instruction.
	Bytes []byte
	// Targets holds resolved branch and call destinations, if the decoder
	// could compute them.
	Targets []uint64

	userdata interface{}
	free     func(interface{})
}

func (i *Instruction) Is(t InsnType) bool {
	return i.Type.Has(t)
}

func (i *Instruction) End() uint64 {
	return i.Address + uint64(i.Size)
}

func (i *Instruction) Userdata() interface{} {
	return i.userdata
}

// SetUserdata attaches a backend-owned payload. free is called exactly once,
// from Release. A payload already attached is released first.
func (i *Instruction) SetUserdata(data interface{}, free func(interface{})) {
	i.Release()
	i.userdata = data
	i.free = free
}

// Release hands the payload back to its owner. It is safe to call more than
// once; only the first call reaches the release hook.
func (i *Instruction) Release() {
	free, data := i.free, i.userdata
	i.free, i.userdata = nil, nil
	if free != nil {
		free(data)
	}
}

// Reset releases the payload and clears every output field, keeping Address.
func (i *Instruction) Reset() {
	i.Release()
	*i = Instruction{Address: i.Address}
}

func (i *Instruction) OpStr() string {
	if s, ok := i.userdata.(OpStringer); ok {
		return s.OpStr()
	}
	return ""
}

func (i *Instruction) AddTarget(addr uint64) {
	i.Targets = append(i.Targets, addr)
}

func (i *Instruction) String() string {
	op := i.OpStr()
	if op == "" {
		return fmt.Sprintf("%#x: %s", i.Address, i.Mnemonic)
	}
	return fmt.Sprintf("%#x: %s %s", i.Address, i.Mnemonic, op)
}
