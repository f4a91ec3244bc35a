package models

import (
	"fmt"
	"testing"
)

// Arch describes one registered processor backend. New is the zero-argument
// entry point the engine uses to build a processor for a session.
type Arch struct {
	Name  string
	Bits  int
	Order Endianness
	// Engine names the external decoder behind the backend, if any.
	Engine string

	New func() (Processor, error)
}

func (a *Arch) String() string {
	return fmt.Sprintf("<Arch %s/%d %s>", a.Name, a.Bits, a.Order)
}

// SmokeTest builds a processor and decodes code, which must hold one
// instruction with the given mnemonic.
func (a *Arch) SmokeTest(t *testing.T, code []byte, mnemonic string) {
	p, err := a.New()
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if p.Name() != a.Name {
		t.Fatalf("%s: processor named %q", a.Name, p.Name())
	}
	if p.Endianness() != a.Order {
		t.Fatalf("%s: processor is %s endian", a.Name, p.Endianness())
	}
	ins := &Instruction{Address: 0x1000}
	if !p.Decode(code, ins) {
		t.Fatalf("%s: failed to decode %x", a.Name, code)
	}
	defer ins.Release()
	if ins.Mnemonic != mnemonic || ins.Size != len(code) {
		t.Fatalf("%s: decoded %x as %q (%d bytes), want %q", a.Name, code, ins.Mnemonic, ins.Size, mnemonic)
	}
	if p.HasVMIL() && p.CreateEmulator(nil) == nil {
		t.Fatalf("%s: declares VMIL but has no emulator", a.Name)
	}
}
