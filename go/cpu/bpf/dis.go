package bpf

import (
	"fmt"
	"strings"

	"golang.org/x/net/bpf"

	"github.com/lunixbochs/redcorn/go/models"
)

type ins struct {
	addr uint64
	raw  bpf.RawInstruction
	dec  bpf.Instruction
	name string
	ops  string
}

func (i *ins) String() string {
	if i.ops == "" {
		return i.name
	}
	return i.name + " " + i.ops
}

func (i *ins) OpStr() string { return i.ops }

func (i *ins) next() uint64 { return i.addr + InsSize }

func (i *ins) skip(n uint32) uint64 {
	return i.next() + uint64(n)*InsSize
}

func (i *ins) flow() models.InsnType {
	switch i.dec.(type) {
	case bpf.RetA, bpf.RetConstant:
		return models.Stop
	case bpf.Jump, bpf.JumpIf, bpf.JumpIfX:
		return models.Jump
	}
	return models.InsnNone
}

func (i *ins) targets() []uint64 {
	var skips []uint32
	switch d := i.dec.(type) {
	case bpf.Jump:
		skips = []uint32{d.Skip}
	case bpf.JumpIf:
		skips = []uint32{uint32(d.SkipTrue), uint32(d.SkipFalse)}
	case bpf.JumpIfX:
		skips = []uint32{uint32(d.SkipTrue), uint32(d.SkipFalse)}
	}
	var out []uint64
	for n, s := range skips {
		if n > 0 && s == skips[0] {
			continue
		}
		out = append(out, i.skip(s))
	}
	return out
}

// read decodes one instruction word, returning nil if the window is short or
// the opcode is not a classic BPF instruction.
func (p *Processor) read(buf models.Buffer, addr uint64) *ins {
	if buf.Len() < InsSize {
		return nil
	}
	r := buf
	raw := bpf.RawInstruction{
		Op: p.Read16(&r),
		Jt: p.Read8(&r),
		Jf: p.Read8(&r),
		K:  p.Read32(&r),
	}
	dec := raw.Disassemble()
	if _, ok := dec.(bpf.RawInstruction); ok {
		return nil
	}
	text := fmt.Sprint(dec)
	name, ops := text, ""
	if n := strings.IndexByte(text, ' '); n >= 0 {
		name, ops = text[:n], strings.TrimSpace(text[n+1:])
	}
	return &ins{addr: addr, raw: raw, dec: dec, name: name, ops: ops}
}
