package models

// Context is what a disassembly engine exposes to the companions a processor
// creates for it.
type Context interface {
	Processor() Processor
	ReadMemory(addr, size uint64) ([]byte, error)
	Symbols() SymbolTable
	Config() *Config
}

// Emulator runs decoded instructions on an architecture-neutral machine
// model (VMIL).
type Emulator interface {
	// Emulate executes ins and leaves PC at the next instruction to run.
	// A halting program returns an ExitStatus.
	Emulate(ins *Instruction) error
	PC() uint64
	RegRead(reg int) (uint64, error)
	RegWrite(reg int, val uint64) error
	Reset()
}

// Printer renders decoded instructions as text.
type Printer interface {
	Mnemonic(ins *Instruction) string
	Operands(ins *Instruction) string
	Out(ins *Instruction) string
}
