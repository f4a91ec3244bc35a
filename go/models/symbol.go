package models

import "sort"

type SymbolKind int

const (
	SymData SymbolKind = iota
	SymCode
	SymFunction
)

type Symbol struct {
	Name       string
	Start, End uint64
	Kind       SymbolKind
	Dynamic    bool
}

func (s Symbol) Contains(addr uint64) bool {
	return s.Start <= addr && (s.Start+s.End > addr || s.End == 0)
}

type SymbolTable interface {
	Add(s Symbol)
	// Symbol returns the symbol starting exactly at addr.
	Symbol(addr uint64) (Symbol, bool)
	// Lookup returns the closest symbol containing addr.
	Lookup(addr uint64) (Symbol, bool)
	All() []Symbol
}

// Symbols is a SymbolTable kept sorted by start address.
type Symbols struct {
	list []Symbol
}

func NewSymbols(syms ...Symbol) *Symbols {
	s := &Symbols{}
	for _, sym := range syms {
		s.Add(sym)
	}
	return s
}

func (s *Symbols) search(addr uint64) int {
	return sort.Search(len(s.list), func(i int) bool { return s.list[i].Start >= addr })
}

// Add inserts sym, replacing an existing symbol at the same address.
func (s *Symbols) Add(sym Symbol) {
	i := s.search(sym.Start)
	if i < len(s.list) && s.list[i].Start == sym.Start {
		s.list[i] = sym
		return
	}
	s.list = append(s.list, Symbol{})
	copy(s.list[i+1:], s.list[i:])
	s.list[i] = sym
}

func (s *Symbols) Symbol(addr uint64) (Symbol, bool) {
	i := s.search(addr)
	if i < len(s.list) && s.list[i].Start == addr {
		return s.list[i], true
	}
	return Symbol{}, false
}

func (s *Symbols) Lookup(addr uint64) (Symbol, bool) {
	i := s.search(addr + 1)
	if i > 0 && s.list[i-1].Contains(addr) {
		return s.list[i-1], true
	}
	return Symbol{}, false
}

func (s *Symbols) All() []Symbol {
	return append([]Symbol(nil), s.list...)
}
