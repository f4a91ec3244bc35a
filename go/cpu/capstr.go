//go:build capstone
// +build capstone

package cpu

import (
	"io"
	"strings"
	"sync"

	cs "github.com/lunixbochs/capstr"
	"github.com/pkg/errors"
)

func init() {
	RegisterEngine("capstone", OpenCapstr)
}

// capstr only hands back text, so groups come from mnemonic tables.
var capstrGroups = map[Arch]map[string]Group{
	ARCH_X86: {
		"jmp": GRP_JUMP, "ljmp": GRP_JUMP, "ja": GRP_JUMP, "jae": GRP_JUMP, "jb": GRP_JUMP,
		"jbe": GRP_JUMP, "je": GRP_JUMP, "jne": GRP_JUMP, "jg": GRP_JUMP, "jge": GRP_JUMP,
		"jl": GRP_JUMP, "jle": GRP_JUMP, "jo": GRP_JUMP, "jno": GRP_JUMP, "jp": GRP_JUMP,
		"jnp": GRP_JUMP, "js": GRP_JUMP, "jns": GRP_JUMP, "jcxz": GRP_JUMP, "jecxz": GRP_JUMP,
		"jrcxz": GRP_JUMP, "loop": GRP_JUMP, "loope": GRP_JUMP, "loopne": GRP_JUMP,
		"call": GRP_CALL, "lcall": GRP_CALL,
		"ret": GRP_RET, "retf": GRP_RET, "retn": GRP_RET,
		"int": GRP_INT, "int3": GRP_INT, "into": GRP_INT, "syscall": GRP_INT, "sysenter": GRP_INT,
		"iret": GRP_IRET, "iretd": GRP_IRET, "iretq": GRP_IRET, "sysret": GRP_IRET, "sysexit": GRP_IRET,
	},
	ARCH_ARM64: {
		"b": GRP_JUMP, "br": GRP_JUMP, "cbz": GRP_JUMP, "cbnz": GRP_JUMP, "tbz": GRP_JUMP, "tbnz": GRP_JUMP,
		"bl": GRP_CALL, "blr": GRP_CALL,
		"ret": GRP_RET,
		"svc": GRP_INT, "hvc": GRP_INT, "smc": GRP_INT, "brk": GRP_INT,
		"eret": GRP_IRET,
	},
	ARCH_MIPS: {
		"j": GRP_JUMP, "b": GRP_JUMP, "beq": GRP_JUMP, "bne": GRP_JUMP, "beqz": GRP_JUMP,
		"bnez": GRP_JUMP, "blez": GRP_JUMP, "bgtz": GRP_JUMP, "bltz": GRP_JUMP, "bgez": GRP_JUMP,
		"jal": GRP_CALL, "jalr": GRP_CALL, "bal": GRP_CALL, "bgezal": GRP_CALL, "bltzal": GRP_CALL,
		"jr":      GRP_JUMP,
		"syscall": GRP_INT, "break": GRP_INT,
		"eret": GRP_IRET,
	},
}

var armConds = map[string]bool{
	"eq": true, "ne": true, "cs": true, "hs": true, "cc": true, "lo": true, "mi": true, "pl": true,
	"vs": true, "vc": true, "hi": true, "ls": true, "ge": true, "lt": true, "gt": true, "le": true, "al": true,
}

// armBase strips a condition code suffix from a branch, pop or ldm mnemonic.
func armBase(m string) string {
	for _, base := range []string{"blx", "bl", "bx", "b", "pop", "ldm", "svc"} {
		if strings.HasPrefix(m, base) {
			rest := m[len(base):]
			if rest == "" || armConds[rest] {
				return base
			}
		}
	}
	return m
}

// capstr exposes no instruction ids, so ids are assigned per mnemonic in
// first-seen order. They are stable for the life of the process only.
var capstrIDs = struct {
	sync.Mutex
	ids map[string]uint
}{ids: make(map[string]uint)}

func capstrID(mnemonic string) uint {
	capstrIDs.Lock()
	defer capstrIDs.Unlock()
	id, ok := capstrIDs.ids[mnemonic]
	if !ok {
		id = uint(len(capstrIDs.ids) + 1)
		capstrIDs.ids[mnemonic] = id
	}
	return id
}

type capstrIns interface {
	Addr() uint64
	Bytes() []byte
	Mnemonic() string
	OpStr() string
}

// Capstr is an Engine backed by capstone through the capstr bindings.
type Capstr struct {
	Arch Arch
	Mode Mode

	cs     *cs.Engine
	groups map[string]Group
	pool   InsnPool
}

func OpenCapstr(arch Arch, mode Mode) (Engine, error) {
	engine, err := cs.New(int(arch), int(mode))
	if err != nil {
		return nil, errors.Wrap(err, "cs.New() failed")
	}
	return &Capstr{Arch: arch, Mode: mode, cs: engine, groups: capstrGroups[arch]}, nil
}

func (c *Capstr) Disasm(code []byte, addr uint64) (*Insn, error) {
	dis, err := c.cs.Dis(code, addr, 1)
	if err != nil {
		return nil, errors.Wrap(err, "capstone disassembly failed")
	}
	if len(dis) < 1 {
		return nil, errors.New("capstone returned no instructions")
	}
	var ins capstrIns = dis[0]
	insn := c.pool.Get()
	insn.Address = ins.Addr()
	insn.Bytes = ins.Bytes()
	insn.Size = len(insn.Bytes)
	insn.Mnemonic = strings.ToLower(ins.Mnemonic())
	insn.Operands = ins.OpStr()
	insn.ID = capstrID(insn.Mnemonic)
	insn.Native = ins
	if grp, ok := c.groups[insn.Mnemonic]; ok {
		insn.Groups = append(insn.Groups, grp)
	}
	switch c.Arch {
	case ARCH_MIPS:
		if insn.Mnemonic == "jr" && insn.Operands == "$ra" {
			insn.Groups = append(insn.Groups[:0], GRP_RET)
		}
	case ARCH_ARM:
		switch armBase(insn.Mnemonic) {
		case "b":
			insn.Groups = append(insn.Groups, GRP_JUMP)
		case "bl", "blx":
			insn.Groups = append(insn.Groups, GRP_CALL)
		case "bx":
			if insn.Operands == "lr" {
				insn.Groups = append(insn.Groups, GRP_RET)
			} else {
				insn.Groups = append(insn.Groups, GRP_JUMP)
			}
		case "pop", "ldm":
			if strings.Contains(insn.Operands, "pc") {
				insn.Groups = append(insn.Groups, GRP_RET)
			}
		case "svc":
			insn.Groups = append(insn.Groups, GRP_INT)
		}
	}
	return insn, nil
}

func (c *Capstr) Free(insn *Insn) {
	c.pool.Put(insn)
}

func (c *Capstr) Format(insn *Insn, symname SymLookup) string {
	if insn.Operands == "" {
		return insn.Mnemonic
	}
	return insn.Mnemonic + " " + insn.Operands
}

func (c *Capstr) SetSyntax(name string) error {
	if name != "intel" && name != "" {
		return errors.Errorf("capstone: unsupported syntax %q", name)
	}
	return nil
}

func (c *Capstr) Close() error {
	if closer, ok := interface{}(c.cs).(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
