// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator hosts a single run of an assembled program.
package emulator

import (
	"log"
	"maps"

	"github.com/ezrec/regasm/asm"
	"github.com/ezrec/regasm/config"
	"github.com/ezrec/regasm/cpu"
	"github.com/ezrec/regasm/internal"
)

// Emulator state. Program + CPU.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *asm.Program // Reference to the currently running program.

	StepLimit int // Maximum instructions per run, or 0 for unlimited.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	prog := &asm.Program{}
	emu = &Emulator{
		Cpu:     cpu.NewCpu(prog),
		Program: prog,
	}

	return
}

// Configure applies a run configuration.
func (emu *Emulator) Configure(cfg config.Config) {
	emu.Verbose = cfg.Verbose
	emu.StepLimit = cfg.StepLimit
	emu.Cpu.Stack.Limit = cfg.StackLimit
}

// Assembler returns an assembler seeded with the standard defines, then
// the configuration defines.
func Assembler(cfg config.Config) (a *asm.Assembler) {
	a = &asm.Assembler{Verbose: cfg.Verbose}
	for equ, value := range internal.Concat2(asm.Defines(), maps.All(cfg.Defines)) {
		a.Predefine(equ, value)
	}
	return
}

// Reset the emulator state for a fresh run of Program.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Program = emu.Program

	err = emu.Cpu.Reset()
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: %d instructions, %d registers", emu.Program.Len(), emu.Program.RegisterCount())
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return emu.Cpu.Ip
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	op := emu.Program.Debug(emu.Cpu.Ip)
	if op == nil {
		return 0
	}

	return op.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	if emu.Cpu.Done() {
		done = true
		return
	}

	if emu.StepLimit > 0 && emu.Cpu.Ticks >= emu.StepLimit {
		err = ErrStepLimit
		return
	}

	err = emu.Cpu.Tick()
	return
}

// Run ticks the emulator until the program finishes or faults.
func (emu *Emulator) Run() (err error) {
	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			return err
		}
	}

	if emu.Verbose {
		log.Printf("emulator: done after %d ticks", emu.Ticks())
	}

	return
}
