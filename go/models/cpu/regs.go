// Package cpu holds the register file and memory used by VMIL emulators.
package cpu

import (
	"github.com/pkg/errors"
)

// TODO: maps are slow. A []uint64 indexed by enum would need a second []bool
// for validity and grows with the largest enum.
type Regs struct {
	mask  uint64
	enums []int
	vals  map[int]uint64
}

func NewRegs(bits uint, enums []int) *Regs {
	r := &Regs{
		mask:  ^uint64(0) >> (64 - bits),
		enums: enums,
		vals:  make(map[int]uint64),
	}
	r.Reset()
	return r
}

func (r *Regs) RegRead(enum int) (uint64, error) {
	if val, ok := r.vals[enum]; !ok {
		return 0, errors.Errorf("invalid register: %d", enum)
	} else {
		return val, nil
	}
}

func (r *Regs) RegWrite(enum int, val uint64) error {
	val &= r.mask
	if _, ok := r.vals[enum]; !ok {
		return errors.Errorf("invalid register: %d", enum)
	}
	r.vals[enum] = val
	return nil
}

// Reset zeroes every register.
func (r *Regs) Reset() {
	for _, e := range r.enums {
		r.vals[e] = 0
	}
}

// Save copies the register file into reuse (or a new map) and returns it.
func (r *Regs) Save(reuse map[int]uint64) map[int]uint64 {
	if reuse == nil {
		reuse = make(map[int]uint64, len(r.vals))
	}
	for k, v := range r.vals {
		reuse[k] = v
	}
	return reuse
}

func (r *Regs) Restore(saved map[int]uint64) error {
	for k := range saved {
		if _, ok := r.vals[k]; !ok {
			return errors.Errorf("invalid register in saved context: %d", k)
		}
	}
	for k, v := range saved {
		r.vals[k] = v
	}
	return nil
}
