package disasm

import (
	"github.com/pkg/errors"

	"github.com/lunixbochs/redcorn/go/models"
)

// emulate runs the VMIL emulator from entry for at most Config.EmuSteps
// instructions. Addresses the static walk missed are walked as the emulator
// reaches them.
func (w *Walker) emulate(entry uint64) error {
	w.emu.Reset()
	pc := entry
	steps := w.config.EmuSteps
	if steps <= 0 {
		steps = models.DefaultConfig().EmuSteps
	}
	for i := 0; i < steps; i++ {
		ins, ok := w.insns[pc]
		if !ok {
			w.push(pc)
			w.drain()
			if ins, ok = w.insns[pc]; !ok {
				return errors.Errorf("emulator reached undecodable address %#x", pc)
			}
			w.Log.Debug("emulator found code", "addr", pc)
		}
		if err := w.emu.Emulate(ins); err != nil {
			if status, ok := models.IsExit(err); ok {
				w.Log.Debug("program exited", "entry", entry, "status", int(status))
				return nil
			}
			return err
		}
		pc = w.emu.PC()
	}
	w.Log.Debug("emulation step limit reached", "entry", entry, "steps", steps)
	return nil
}
