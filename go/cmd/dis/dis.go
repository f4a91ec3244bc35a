// Package dis implements the "dis" command: recursive-descent disassembly of
// a raw image.
package dis

import (
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/lunixbochs/redcorn/go/arch"
	"github.com/lunixbochs/redcorn/go/cmd"
	"github.com/lunixbochs/redcorn/go/cpu"
	"github.com/lunixbochs/redcorn/go/disasm"
	"github.com/lunixbochs/redcorn/go/models"
)

func readImage(path string, isHex bool) ([]byte, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read image")
	}
	if isHex {
		text := strings.Join(strings.Fields(string(data)), "")
		data, err = hex.DecodeString(text)
		if err != nil {
			return nil, errors.Wrap(err, "failed to decode hex image")
		}
	}
	return data, nil
}

func Main(args []string) {
	c := cmd.NewCmd("dis")
	c.Args = "<image>"
	c.MinArgs = 1

	var (
		archName, syntax, engine, listing *string
		base, steps                       *uint64
		entries                           *[]uint64
		syms                              *[]models.Symbol
		isHex, demangle, disbytes, emu    *bool
		blocks                            *bool
	)
	c.SetupFlags = func() error {
		conf := c.Config
		archName = c.Flags.String("arch", conf.Arch, "processor to decode with (see the arch command)")
		base = c.Flags.Uint64("base", conf.Base, "load address of the image")
		entries = c.Uints("entry", "entry point, may be repeated (default: config or base)")
		syms = c.Symbols("sym", "define a code symbol as name=addr[+size], may be repeated")
		syntax = c.Flags.String("syntax", conf.Syntax, "assembly syntax for engine-backed processors (intel, gnu)")
		engine = c.Flags.String("engine", cpu.DefaultEngine, "decoder engine for external-engine processors")
		blocks = c.Flags.Bool("blocks", false, "group output by basic block")
		isHex = c.Flags.Bool("hex", false, "image is hex text")
		demangle = c.Flags.Bool("demangle", conf.Demangle, "demangle C++ symbols")
		disbytes = c.Flags.Bool("disbytes", conf.DisBytes, "show instruction bytes")
		emu = c.Flags.Bool("emu", conf.Emulate, "run the VMIL emulator even if the processor does not ask for it")
		steps = c.Flags.Uint64("emu-steps", uint64(conf.EmuSteps), "emulator step limit per entry point")
		listing = c.Flags.String("o", conf.Listing, "also write a binary listing to this file")
		return nil
	}
	c.RunCmd = func(args []string) error {
		conf := c.Config
		conf.Arch = *archName
		conf.Base = *base
		if len(*entries) > 0 {
			conf.Entry = *entries
		}
		conf.Syntax = *syntax
		conf.Demangle = *demangle
		conf.DisBytes = *disbytes
		conf.Emulate = *emu
		conf.EmuSteps = int(*steps)
		conf.Listing = *listing
		if conf.Arch == "" {
			return errors.New("no processor selected (-arch)")
		}
		cpu.DefaultEngine = *engine

		image, err := readImage(args[0], *isHex)
		if err != nil {
			return err
		}
		p, err := arch.New(conf.Arch)
		if err != nil {
			return err
		}
		symbols := models.NewSymbols(*syms...)
		w := disasm.New(p, image, conf, symbols, c.Log)
		defer w.Close()

		c.Log.Debug("walking", "arch", p.Name(), "base", conf.Base, "size", len(image))
		if err := w.Walk(conf.Entry...); err != nil {
			return err
		}
		if *blocks {
			err = w.PrintBlocks(c.Stdout)
		} else {
			err = w.Print(c.Stdout)
		}
		if err != nil {
			return err
		}
		if conf.Listing != "" {
			f, err := os.Create(conf.Listing)
			if err != nil {
				return errors.Wrap(err, "failed to create listing")
			}
			if err := w.WriteListing(f); err != nil {
				return err
			}
			c.Log.Info("wrote listing", "path", conf.Listing, "records", len(w.Listing()))
		}
		return nil
	}
	os.Exit(c.Run(args))
}

func init() { cmd.Register("dis", "disassemble a raw image", Main) }
