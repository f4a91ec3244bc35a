package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSymbols(t *testing.T) {
	s := NewSymbols(
		Symbol{Name: "b", Start: 0x200, End: 0x10},
		Symbol{Name: "a", Start: 0x100},
	)
	s.Add(Symbol{Name: "c", Start: 0x300, End: 4})
	s.Add(Symbol{Name: "b2", Start: 0x200, End: 0x10})

	var names []string
	for _, sym := range s.All() {
		names = append(names, sym.Name)
	}
	if diff := cmp.Diff([]string{"a", "b2", "c"}, names); diff != "" {
		t.Fatal(diff)
	}

	tests := []struct {
		addr uint64
		name string
	}{
		{0xff, ""},
		{0x100, "a"},
		{0x1ff, "a"},
		{0x20f, "b2"},
		{0x210, ""},
		{0x303, "c"},
		{0x304, ""},
	}
	for _, test := range tests {
		sym, ok := s.Lookup(test.addr)
		if ok != (test.name != "") || sym.Name != test.name {
			t.Errorf("Lookup(%#x) = %q, %v", test.addr, sym.Name, ok)
		}
	}
	if _, ok := s.Symbol(0x201); ok {
		t.Error("Symbol() matched inside a symbol")
	}
	if sym, ok := s.Symbol(0x300); !ok || sym.Name != "c" {
		t.Error("Symbol(0x300) missed")
	}
}
