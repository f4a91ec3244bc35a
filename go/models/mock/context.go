// Package mock provides a models.Context over an in-memory image for tests.
package mock

import (
	"github.com/pkg/errors"

	"github.com/lunixbochs/redcorn/go/models"
)

type Context struct {
	Proc  models.Processor
	Base  uint64
	Image []byte
	Syms  models.SymbolTable
	Conf  *models.Config
}

func NewContext(p models.Processor, base uint64, image []byte) *Context {
	return &Context{
		Proc:  p,
		Base:  base,
		Image: image,
		Syms:  models.NewSymbols(),
		Conf:  models.DefaultConfig(),
	}
}

func (c *Context) Processor() models.Processor { return c.Proc }
func (c *Context) Symbols() models.SymbolTable { return c.Syms }
func (c *Context) Config() *models.Config      { return c.Conf }

// ReadMemory returns up to size bytes of the image at addr. Reads that start
// outside the image fail; reads that run off its end are short.
func (c *Context) ReadMemory(addr, size uint64) ([]byte, error) {
	if addr < c.Base || addr-c.Base >= uint64(len(c.Image)) {
		return nil, errors.Errorf("address %#x not mapped", addr)
	}
	off := addr - c.Base
	end := off + size
	if end > uint64(len(c.Image)) || end < off {
		end = uint64(len(c.Image))
	}
	return c.Image[off:end], nil
}
