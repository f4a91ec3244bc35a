package cpu

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Arch and Mode select what an external engine decodes. The values follow
// capstone's cs_arch and cs_mode so they can be handed to it unchanged.
type Arch int

const (
	ARCH_ARM Arch = iota
	ARCH_ARM64
	ARCH_MIPS
	ARCH_X86
	ARCH_PPC
)

type Mode uint

const (
	MODE_LITTLE_ENDIAN Mode = 0
	MODE_ARM           Mode = 0
	MODE_16            Mode = 1 << 1
	MODE_32            Mode = 1 << 2
	MODE_64            Mode = 1 << 3
	MODE_THUMB         Mode = 1 << 4
	MODE_MIPS32        Mode = MODE_32
	MODE_MIPS64        Mode = MODE_64
	MODE_BIG_ENDIAN    Mode = 1 << 31
)

var archNames = map[Arch]string{
	ARCH_ARM:   "arm",
	ARCH_ARM64: "arm64",
	ARCH_MIPS:  "mips",
	ARCH_X86:   "x86",
	ARCH_PPC:   "ppc",
}

func (a Arch) String() string {
	if name, ok := archNames[a]; ok {
		return name
	}
	return "unknown"
}

// Group is an engine's semantic instruction category.
type Group int

const (
	GRP_INVALID Group = iota
	GRP_JUMP
	GRP_CALL
	GRP_RET
	GRP_INT
	GRP_IRET
)

// Insn is an engine's detailed decode of a single instruction. It is handed
// to the Instruction record as userdata and returned with Engine.Free.
type Insn struct {
	ID       uint
	Address  uint64
	Size     int
	Bytes    []byte
	Mnemonic string
	Operands string
	Groups   []Group
	Targets  []uint64

	// Native is the engine's own instruction value, for printers and
	// emulators that need operand detail.
	Native interface{}
}

func (i *Insn) InGroup(g Group) bool {
	for _, v := range i.Groups {
		if v == g {
			return true
		}
	}
	return false
}

func (i *Insn) OpStr() string {
	return i.Operands
}

func (i *Insn) reset() {
	*i = Insn{Groups: i.Groups[:0], Targets: i.Targets[:0]}
}

// InsnPool recycles Insn values between Disasm and Free.
type InsnPool struct {
	pool sync.Pool
}

func (p *InsnPool) Get() *Insn {
	if insn, ok := p.pool.Get().(*Insn); ok {
		return insn
	}
	return &Insn{}
}

func (p *InsnPool) Put(insn *Insn) {
	insn.reset()
	p.pool.Put(insn)
}

type SymLookup func(addr uint64) (name string, base uint64)

// Engine is a general-purpose multi-architecture decoder. A handle is used
// by one processor at a time.
type Engine interface {
	// Disasm decodes exactly one instruction from the front of code.
	Disasm(code []byte, addr uint64) (*Insn, error)
	Free(insn *Insn)

	// Format renders insn as "mnemonic operands" in the current syntax.
	Format(insn *Insn, symname SymLookup) string
	SetSyntax(name string) error

	Close() error
}

type Opener func(arch Arch, mode Mode) (Engine, error)

var (
	enginesMu sync.Mutex
	engines   = make(map[string]Opener)
)

// DefaultEngine is opened by architectures backed by an external engine.
var DefaultEngine = "xarch"

// RegisterEngine makes an engine available to OpenEngine. Engines register
// themselves from init.
func RegisterEngine(name string, open Opener) {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	if _, ok := engines[name]; ok {
		panic("Duplicate engine " + name)
	}
	engines[name] = open
}

func OpenEngine(name string, arch Arch, mode Mode) (Engine, error) {
	enginesMu.Lock()
	open, ok := engines[name]
	enginesMu.Unlock()
	if !ok {
		return nil, errors.Errorf("engine %q not found", name)
	}
	e, err := open(arch, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: failed to open %s engine", name, arch)
	}
	return e, nil
}

func EngineNames() []string {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
