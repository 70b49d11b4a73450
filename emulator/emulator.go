// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator couples the LED CPU with its memory cells and the
// program source.
package emulator

import (
	"fmt"
	"io"
	"log"
	"slices"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ezrec/ledcpu/cpu"
	"github.com/ezrec/ledcpu/memory"
)

// Emulator state. CPU + memory cells + program source.
type Emulator struct {
	Verbose  bool          // If set, enables verbose logging.
	*cpu.Cpu               // Reference to the CPU simulation.
	Cells    *memory.Cells // Memory cells of the CPU.
	Source   *cpu.Source   // Currently loaded program source.
	Reader   cpu.SourceReader

	power int
}

// NewEmulator creates a new emulator.
func NewEmulator(mode cpu.Mode) (emu *Emulator) {
	emu = &Emulator{
		Cells:  memory.NewCells(),
		Source: &cpu.Source{},
	}

	emu.Cpu = cpu.NewCpu(mode, emu.Cells)
	emu.Cells.OnChange = func(name string, value int) {
		emu.power++
	}

	return
}

// Load reads a program, and loads it into the CPU.
func (emu *Emulator) Load(input io.Reader) (err error) {
	emu.Reader.Verbose = emu.Verbose

	src, err := emu.Reader.Read(input)
	if err != nil {
		return
	}

	return emu.LoadSource(src)
}

// LoadSource loads program source into the CPU.
func (emu *Emulator) LoadSource(src *cpu.Source) (err error) {
	emu.Cpu.Verbose = emu.Verbose

	err = emu.Cpu.LoadProgram(src.Lines)
	if err != nil {
		return
	}

	emu.Source = src
	emu.power = 0

	return
}

// LoadLines loads program lines, numbered from 1.
func (emu *Emulator) LoadLines(lines []string) (err error) {
	src := &cpu.Source{Lines: lines}
	for n := range lines {
		src.LineNo = append(src.LineNo, n+1)
	}

	return emu.LoadSource(src)
}

// Reset zeros every memory cell, and resets the CPU.
func (emu *Emulator) Reset() {
	emu.Cells.Reset()
	emu.Cpu.Reset()
	emu.power = 0
}

// Preset sets memory cells from a 'NAME=VALUE,NAME=VALUE' list.
func (emu *Emulator) Preset(text string) (err error) {
	known := slices.Collect(memory.Names())

	for _, item := range strings.Split(text, ",") {
		item = strings.TrimSpace(item)
		if len(item) == 0 {
			continue
		}
		name, value, ok := strings.Cut(item, "=")
		if !ok {
			err = fmt.Errorf("%w: %v", ErrPresetSyntax, item)
			return
		}
		name = strings.TrimSpace(name)
		if _, ok := memory.VariableId(name); ok {
			name = strings.ToLower(name)
		}
		if !slices.Contains(known, name) {
			err = fmt.Errorf("%w: %v", ErrPresetCell, name)
			return
		}
		var v64 int64
		v64, err = strconv.ParseInt(strings.TrimSpace(value), 0, 16)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrPresetSyntax, item)
			return
		}
		if emu.Verbose {
			log.Printf("emulator: preset %v = %v", name, v64)
		}
		emu.Cells.Set(name, int(v64))
	}

	return
}

// Power returns the number of cell writes since the program was loaded.
func (emu *Emulator) Power() int {
	return emu.power
}

// LineNo returns the source line number of the program counter, or 0.
func (emu *Emulator) LineNo() int {
	n := emu.Cpu.LineNo()
	if n < 0 || n >= len(emu.Source.LineNo) {
		return 0
	}

	return emu.Source.LineNo[n]
}

// Tick performs a single step of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Halted {
		done = true
		return
	}

	if !emu.Cpu.Step() {
		done = true
		err = emu.Cpu.Fault
	}

	if err != nil {
		err = &ErrRuntime{LineNo: emu.LineNo(), Err: err}
	}

	return
}

// Run ticks the emulator until the program is done.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// State writes a table of the variables, the flags and the program counter.
func (emu *Emulator) State(w io.Writer) (err error) {
	status := "running"
	switch {
	case emu.Cpu.Fault != nil:
		status = emu.Cpu.Fault.Error()
	case emu.Cpu.Halted:
		status = "halted"
	}

	_, err = fmt.Fprintf(w, "%v pc=%d line=%d %s\n", emu.Cpu.Mode, emu.Cpu.Pc, emu.LineNo(), status)
	if err != nil {
		return
	}

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Cell", "Value", "Bits"})

	for _, name := range memory.Variables {
		value := emu.Cells.Get(name)
		tw.AppendRow(table.Row{name, value, fmt.Sprintf("%08b", uint8(value))})
	}

	tw.AppendSeparator()
	for _, name := range memory.Flags {
		tw.AppendRow(table.Row{name, emu.Cells.Get(name), ""})
	}
	tw.AppendFooter(table.Row{"ticks", emu.Cpu.Ticks, ""})

	_, err = fmt.Fprintln(w, tw.Render())
	return
}
