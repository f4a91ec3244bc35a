package cpu

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/lunixbochs/redcorn/go/models"
)

// Mem is a sparse byte overlay. Bytes the emulator never wrote are loaded
// through Fill, usually backed by the image being disassembled.
type Mem struct {
	bits uint
	// methods return an error for addresses that do not fit inside mask
	mask  uint64
	order binary.ByteOrder
	dirty map[uint64]byte

	Fill func(addr, size uint64) ([]byte, error)
}

func NewMem(bits uint, order binary.ByteOrder) *Mem {
	return &Mem{
		bits:  bits,
		mask:  ^uint64(0) >> (64 - bits),
		order: order,
		dirty: make(map[uint64]byte),
	}
}

func (m *Mem) check(addr, size uint64) error {
	end := addr + size
	if end < addr || (size > 0 && (end-1)&m.mask != end-1) {
		return errors.Errorf("region outside memory range: %#x+%d", addr, size)
	}
	return nil
}

func (m *Mem) MemRead(addr, size uint64) ([]byte, error) {
	if err := m.check(addr, size); err != nil {
		return nil, err
	}
	p := make([]byte, size)
	var filled []byte
	var fillErr error
	if m.Fill != nil {
		filled, fillErr = m.Fill(addr, size)
	} else {
		fillErr = errors.New("no backing memory")
	}
	for i := range p {
		a := addr + uint64(i)
		if b, ok := m.dirty[a]; ok {
			p[i] = b
		} else if i < len(filled) {
			p[i] = filled[i]
		} else {
			if fillErr == nil {
				fillErr = errors.New("short read")
			}
			return nil, errors.Wrapf(fillErr, "read %#x", a)
		}
	}
	return p, nil
}

func (m *Mem) MemWrite(addr uint64, p []byte) error {
	if err := m.check(addr, uint64(len(p))); err != nil {
		return err
	}
	for i, b := range p {
		m.dirty[addr+uint64(i)] = b
	}
	return nil
}

func (m *Mem) ReadUint(addr uint64, size int) (uint64, error) {
	p, err := m.MemRead(addr, uint64(size))
	if err != nil {
		return 0, err
	}
	return models.UnpackUint(m.order, size, p)
}

func (m *Mem) WriteUint(addr uint64, size int, val uint64) error {
	p, err := models.PackUint(m.order, size, nil, val)
	if err != nil {
		return err
	}
	return m.MemWrite(addr, p)
}

// Reset drops every byte written since construction.
func (m *Mem) Reset() {
	m.dirty = make(map[uint64]byte)
}
