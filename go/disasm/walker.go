// Package disasm drives a processor over a memory image: it walks code by
// recursive descent, optionally runs the processor's VMIL emulator, and
// renders the result.
package disasm

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/lunixbochs/redcorn/go/models"
	"github.com/lunixbochs/redcorn/go/printer"
)

type syntaxSetter interface {
	SetSyntax(name string) error
}

// Walker owns one processor and the records it produced. It implements
// models.Context for the processor's companions.
type Walker struct {
	Log *log.Logger

	proc    models.Processor
	config  *models.Config
	base    uint64
	image   []byte
	symbols models.SymbolTable
	printer models.Printer
	emu     models.Emulator

	insns map[uint64]*models.Instruction
	data  map[uint64]bool
	queue []uint64
}

// New takes ownership of p; Close releases it. logger may be nil.
func New(p models.Processor, image []byte, config *models.Config, symbols models.SymbolTable, logger *log.Logger) *Walker {
	if config == nil {
		config = models.DefaultConfig()
	}
	if symbols == nil {
		symbols = models.NewSymbols()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	w := &Walker{
		Log:     logger,
		proc:    p,
		config:  config,
		base:    config.Base,
		image:   image,
		symbols: symbols,
		insns:   make(map[uint64]*models.Instruction),
		data:    make(map[uint64]bool),
	}
	if s, ok := p.(syntaxSetter); ok && config.Syntax != "" {
		if err := s.SetSyntax(config.Syntax); err != nil {
			w.Log.Warn("syntax not supported", "arch", p.Name(), "err", err)
		}
	}
	if w.printer = p.CreatePrinter(w, symbols); w.printer == nil {
		w.printer = printer.New(w, symbols)
	}
	if p.HasVMIL() && (p.CanEmulateVMIL() || config.Emulate) {
		if w.emu = p.CreateEmulator(w); w.emu == nil {
			w.Log.Warn("processor declares VMIL but has no emulator", "arch", p.Name())
		}
	}
	return w
}

func (w *Walker) Processor() models.Processor { return w.proc }
func (w *Walker) Symbols() models.SymbolTable { return w.symbols }
func (w *Walker) Config() *models.Config      { return w.config }
func (w *Walker) Printer() models.Printer     { return w.printer }
func (w *Walker) Emulator() models.Emulator   { return w.emu }

func (w *Walker) contains(addr uint64) bool {
	return addr >= w.base && addr-w.base < uint64(len(w.image))
}

func (w *Walker) window(addr uint64) models.Buffer {
	if !w.contains(addr) {
		return nil
	}
	return models.Buffer(w.image[addr-w.base:])
}

// ReadMemory returns up to size bytes of the image at addr.
func (w *Walker) ReadMemory(addr, size uint64) ([]byte, error) {
	buf := w.window(addr)
	if buf == nil {
		return nil, errors.Errorf("address %#x not mapped", addr)
	}
	if uint64(len(buf)) > size {
		buf = buf[:size]
	}
	return buf, nil
}

func (w *Walker) push(addr uint64) {
	if w.contains(addr) {
		if _, seen := w.insns[addr]; !seen {
			w.queue = append(w.queue, addr)
		}
	}
}

// Walk decodes everything reachable from entries and from code symbols.
// If the processor emulates VMIL, the emulator is run from each entry and
// any new addresses it reaches are walked too.
func (w *Walker) Walk(entries ...uint64) error {
	if len(entries) == 0 {
		entries = []uint64{w.base}
	}
	for _, sym := range w.symbols.All() {
		if sym.Kind != models.SymData {
			entries = append(entries, sym.Start)
		}
	}
	for _, addr := range entries {
		if !w.contains(addr) {
			return errors.Errorf("entry point %#x outside image", addr)
		}
		w.push(addr)
	}
	w.drain()
	if w.emu != nil {
		for _, addr := range entries {
			if err := w.emulate(addr); err != nil {
				w.Log.Warn("emulation stopped", "entry", addr, "err", err)
			}
			w.drain()
		}
	}
	return nil
}

func (w *Walker) drain() {
	for len(w.queue) > 0 {
		addr := w.queue[len(w.queue)-1]
		w.queue = w.queue[:len(w.queue)-1]
		w.run(addr)
	}
}

// decode returns nil on failure.
func (w *Walker) decode(addr uint64) *models.Instruction {
	ins := &models.Instruction{Address: addr}
	if !w.proc.Decode(w.window(addr), ins) {
		return nil
	}
	return ins
}

// run decodes linearly from addr until the processor reports the end of a
// run or the walk reaches code it has already seen.
func (w *Walker) run(addr uint64) {
	slot := false
	for {
		_, seen := w.insns[addr]
		if !slot && (seen || !w.contains(addr)) {
			return
		}
		ins := w.decode(addr)
		if slot && seen {
			// the slot was decoded before; decoding it again only keeps the
			// processor's state balanced
			if ins != nil {
				ins.Release()
			}
			return
		}
		slot = false
		if ins == nil {
			if !w.contains(addr) {
				return
			}
			w.Log.Debug("decode failed", "addr", addr)
			w.data[addr] = true
			addr++
			continue
		}
		delete(w.data, addr)
		w.insns[addr] = ins
		for _, target := range ins.Targets {
			w.push(target)
		}
		if w.proc.HasFlag(models.DelaySlot) && ins.Type&(models.Jump|models.Call|models.Stop) != 0 {
			slot = true
		}
		if w.proc.Done(ins) {
			return
		}
		addr = ins.End()
	}
}

// Instruction returns the record decoded at addr.
func (w *Walker) Instruction(addr uint64) (*models.Instruction, bool) {
	ins, ok := w.insns[addr]
	return ins, ok
}

// Listing returns every decoded record in address order.
func (w *Walker) Listing() []*models.Instruction {
	out := make([]*models.Instruction, 0, len(w.insns))
	for _, ins := range w.insns {
		out = append(out, ins)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// Data returns the addresses that could not be decoded, in order.
func (w *Walker) Data() []uint64 {
	out := make([]uint64, 0, len(w.data))
	for addr := range w.data {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Close releases every record payload and the processor.
func (w *Walker) Close() error {
	for _, ins := range w.insns {
		ins.Release()
	}
	w.insns = make(map[uint64]*models.Instruction)
	return w.proc.Close()
}
