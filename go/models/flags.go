package models

import "strings"

// InsnType classifies an instruction's effect on control flow. Bits are
// additive.
type InsnType uint32

const (
	Jump InsnType = 1 << iota
	Call
	Stop
	Privileged

	InsnNone InsnType = 0
)

func (t InsnType) Has(f InsnType) bool {
	return t&f == f && f != 0
}

func (t InsnType) String() string {
	var out []string
	names := []struct {
		f    InsnType
		name string
	}{{Jump, "jump"}, {Call, "call"}, {Stop, "stop"}, {Privileged, "privileged"}}
	for _, n := range names {
		if t.Has(n.f) {
			out = append(out, n.name)
		}
	}
	if len(out) == 0 {
		return "none"
	}
	return strings.Join(out, "|")
}

// ProcessorFlags describe static backend capabilities. They live in a
// different bit range from InsnType.
type ProcessorFlags uint32

const (
	FlagNone    ProcessorFlags = 0
	DelaySlot   ProcessorFlags = 1
	HasVMIL     ProcessorFlags = 0x00010000
	EmulateVMIL ProcessorFlags = 0x00020000
)
