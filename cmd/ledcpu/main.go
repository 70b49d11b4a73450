// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/tebeka/atexit"
	"golang.org/x/term"

	"github.com/ezrec/ledcpu/cpu"
	"github.com/ezrec/ledcpu/emulator"
)

// stepper single steps the emulator from raw terminal key presses.
type stepper struct {
	emu      *emulator.Emulator
	out      *bufio.Writer
	stepping bool
}

// Yield waits for a key: Enter or space steps, 'c' continues, 'q' quits.
func (st *stepper) Yield() bool {
	if !st.stepping {
		return true
	}

	st.out.Flush()
	fmt.Fprintf(os.Stderr, "line %3d pc %3d %v [enter/c/q]\r\n", st.emu.LineNo(), st.emu.Cpu.Pc, st.emu.Cpu.Flags)

	var key [1]byte
	_, err := os.Stdin.Read(key[:])
	if err != nil {
		return false
	}

	switch key[0] {
	case 'q', 'Q', 0x03:
		return false
	case 'c', 'C':
		st.stepping = false
	}

	return true
}

func main() {
	var compile string
	var isa bool
	var strict bool
	var listing bool
	var binary string
	var debug bool
	var step bool
	var preset string
	var limit int
	var state bool
	var verbose bool

	emu_reader := cpu.SourceReader{}

	flag.StringVar(&compile, "c", "", "program file to run")
	flag.BoolVar(&isa, "isa", false, "Assemble and run in ISA mode")
	flag.BoolVar(&strict, "strict", false, "Unparseable lines are errors")
	flag.BoolVar(&listing, "l", false, "Print the assembly listing")
	flag.StringVar(&binary, "b", "", "Write the assembled binary image, do not execute")
	flag.BoolVar(&debug, "d", false, "Dump the preprocessed program")
	flag.BoolVar(&step, "step", false, "Single step from the terminal")
	flag.StringVar(&preset, "m", "", "Memory presets, as NAME=VALUE,...")
	flag.IntVar(&limit, "n", 0, "Step limit, 0 for none")
	flag.BoolVar(&state, "s", false, "Print the final CPU state")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Func("D", "Predefine an equate, as NAME=VALUE", func(text string) error {
		name, value, ok := strings.Cut(text, "=")
		if !ok {
			return fmt.Errorf("%v: not NAME=VALUE", text)
		}
		emu_reader.Predefine(name, value)
		return nil
	})

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) == 0 {
		log.Fatalf("%v: -c program required", os.Args[0])
	}

	mode := cpu.MODE_MICRO
	if isa {
		mode = cpu.MODE_ISA
	}

	out := bufio.NewWriter(os.Stdout)
	atexit.Register(func() { out.Flush() })

	emu := emulator.NewEmulator(mode)
	emu.Verbose = verbose
	emu.Reader = emu_reader
	emu.Cpu.Verbose = verbose
	emu.Cpu.Strict = strict
	emu.Cpu.Output = out
	emu.Cpu.Limit = limit

	inf, err := os.Open(compile)
	if err != nil {
		atexit.Fatalf("%v: %v", compile, err)
	}
	err = emu.Load(inf)
	inf.Close()
	if err != nil {
		atexit.Fatalf("%v: %v", compile, err)
	}

	if debug {
		pp.Fprintf(os.Stderr, "%v\n", emu.Source)
		pp.Fprintf(os.Stderr, "%v\n", emu.Cpu.Source)
	}

	if listing || len(binary) != 0 {
		prog := emu.Cpu.Program
		if prog == nil {
			asm := &cpu.Assembler{Verbose: verbose, Strict: strict}
			prog, err = asm.Assemble(emu.Cpu.Source)
			if err != nil {
				atexit.Fatalf("%v: %v", compile, err)
			}
		}

		if debug {
			pp.Fprintf(os.Stderr, "%v\n", prog.Label)
		}

		if listing {
			err = prog.Listing(out)
			if err != nil {
				atexit.Fatal(err)
			}
		}

		if len(binary) != 0 {
			err = os.WriteFile(binary, prog.Binary(), 0o644)
			if err != nil {
				atexit.Fatalf("%v: %v", binary, err)
			}
			atexit.Exit(0)
		}
	}

	if len(preset) != 0 {
		err = emu.Preset(preset)
		if err != nil {
			atexit.Fatalf("%v: %v", preset, err)
		}
	}

	if step {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			atexit.Fatalf("%v: -step requires a terminal", os.Args[0])
		}
		old_state, err := term.MakeRaw(fd)
		if err != nil {
			atexit.Fatalf("%v: %v", os.Args[0], err)
		}
		atexit.Register(func() { _ = term.Restore(fd, old_state) })

		st := &stepper{emu: emu, out: out, stepping: true}
		emu.Cpu.Yield = st.Yield
	}

	err = emu.Run()

	if state {
		emu.State(out)
	}

	if err != nil {
		atexit.Fatalf("%v: %v", compile, err)
	}

	atexit.Exit(0)
}
