package cmd

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lunixbochs/redcorn/go/models"
)

// symflag collects -sym name=addr[+size] definitions.
type symflag []models.Symbol

func (s *symflag) String() string {
	var out []string
	for _, sym := range *s {
		out = append(out, sym.Name)
	}
	return strings.Join(out, ",")
}

func (s *symflag) Set(value string) error {
	split := strings.SplitN(value, "=", 2)
	if len(split) != 2 || split[0] == "" {
		return errors.Errorf("invalid symbol %q (want name=addr[+size])", value)
	}
	sym := models.Symbol{Name: split[0], Kind: models.SymFunction}
	addr := split[1]
	if i := strings.Index(addr, "+"); i >= 0 {
		size, err := strconv.ParseUint(addr[i+1:], 0, 64)
		if err != nil {
			return errors.Wrap(err, "invalid symbol size")
		}
		sym.End = size
		addr = addr[:i]
	}
	start, err := strconv.ParseUint(addr, 0, 64)
	if err != nil {
		return errors.Wrap(err, "invalid symbol address")
	}
	sym.Start = start
	*s = append(*s, sym)
	return nil
}

func (c *Cmd) Uints(name, usage string) *[]uint64 {
	var s uintslice
	c.Flags.Var(&s, name, usage)
	return (*[]uint64)(&s)
}

func (c *Cmd) Symbols(name, usage string) *[]models.Symbol {
	var s symflag
	c.Flags.Var(&s, name, usage)
	return (*[]models.Symbol)(&s)
}
