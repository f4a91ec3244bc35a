// Package xarch is a cpu.Engine built on the golang.org/x/arch decoders.
// It covers x86 (16, 32 and 64 bit), 32-bit ARM, ARM64 and PPC64 in both
// byte orders.
package xarch

import (
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"

	"github.com/lunixbochs/redcorn/go/cpu"
)

func init() {
	cpu.RegisterEngine("xarch", Open)
}

type decodeFunc func(e *Engine, insn *cpu.Insn, code []byte, addr uint64) error
type formatFunc func(e *Engine, insn *cpu.Insn, symname cpu.SymLookup) string

type Engine struct {
	Arch cpu.Arch
	Mode cpu.Mode

	bits     int
	order    binary.ByteOrder
	syntax   string
	syntaxes []string

	decode decodeFunc
	format formatFunc
	pool   cpu.InsnPool
	closed bool
}

func Open(arch cpu.Arch, mode cpu.Mode) (cpu.Engine, error) {
	e := &Engine{Arch: arch, Mode: mode, order: binary.LittleEndian}
	if mode&cpu.MODE_BIG_ENDIAN != 0 {
		e.order = binary.BigEndian
	}
	switch arch {
	case cpu.ARCH_X86:
		switch {
		case mode&cpu.MODE_64 != 0:
			e.bits = 64
		case mode&cpu.MODE_32 != 0:
			e.bits = 32
		case mode&cpu.MODE_16 != 0:
			e.bits = 16
		default:
			return nil, errors.Errorf("unsupported x86 mode: %#x", mode)
		}
		e.decode, e.format = decodeX86, formatX86
		e.syntaxes = []string{"intel", "gnu", "go"}
	case cpu.ARCH_ARM:
		if mode&cpu.MODE_THUMB != 0 {
			return nil, errors.New("thumb mode is not supported")
		}
		if e.order != binary.LittleEndian {
			return nil, errors.New("big-endian arm is not supported")
		}
		e.bits = 32
		e.decode, e.format = decodeARM, formatARM
		e.syntaxes = []string{"gnu", "go"}
	case cpu.ARCH_ARM64:
		if e.order != binary.LittleEndian {
			return nil, errors.New("big-endian arm64 is not supported")
		}
		e.bits = 64
		e.decode, e.format = decodeARM64, formatARM64
		e.syntaxes = []string{"gnu", "go"}
	case cpu.ARCH_PPC:
		if mode&cpu.MODE_64 == 0 {
			return nil, errors.New("only 64-bit ppc is supported")
		}
		e.bits = 64
		e.decode, e.format = decodePPC64, formatPPC64
		e.syntaxes = []string{"gnu", "go"}
	default:
		return nil, errors.Errorf("unsupported arch: %s", arch)
	}
	e.syntax = e.syntaxes[0]
	return e, nil
}

func (e *Engine) Disasm(code []byte, addr uint64) (*cpu.Insn, error) {
	if e.closed {
		return nil, errors.New("engine is closed")
	}
	insn := e.pool.Get()
	insn.Address = addr
	if err := e.decode(e, insn, code, addr); err != nil {
		e.pool.Put(insn)
		return nil, err
	}
	insn.Bytes = code[:insn.Size]
	insn.Mnemonic = strings.ToLower(insn.Mnemonic)
	return insn, nil
}

func (e *Engine) Free(insn *cpu.Insn) {
	if insn != nil {
		e.pool.Put(insn)
	}
}

func (e *Engine) Format(insn *cpu.Insn, symname cpu.SymLookup) string {
	return e.format(e, insn, symname)
}

func (e *Engine) SetSyntax(name string) error {
	for _, s := range e.syntaxes {
		if s == name {
			e.syntax = name
			return nil
		}
	}
	return errors.Errorf("%s: unsupported syntax %q (have %s)", e.Arch, name, strings.Join(e.syntaxes, ", "))
}

func (e *Engine) Close() error {
	e.closed = true
	return nil
}

// opGroups maps upper-case opcode names to engine groups.
type opGroups map[string]cpu.Group

func (g opGroups) apply(insn *cpu.Insn, op string) {
	if grp, ok := g[op]; ok {
		insn.Groups = append(insn.Groups, grp)
	}
}

// operands strips the first word of a formatted instruction.
func operands(text string) string {
	split := strings.SplitN(text, " ", 2)
	if len(split) < 2 {
		return ""
	}
	return strings.TrimSpace(split[1])
}
