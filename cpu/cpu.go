// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/ezrec/ledcpu/alu"
	"github.com/ezrec/ledcpu/memory"
)

// Mode selects the execution strategy.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_MICRO = Mode(0) // micro
	MODE_ISA   = Mode(1) // isa
)

// Interpreter is an execution strategy for preprocessed source lines.
type Interpreter interface {
	// Load prepares the preprocessed lines for execution.
	Load(cpu *Cpu, lines []string) error
	// Reset clears any internal state latched between steps.
	Reset()
	// Step executes one cycle at cpu.Pc, updating the Pc, or latching
	// cpu.Halted.
	Step(cpu *Cpu)
	// LineNo returns the preprocessed line index of a program counter,
	// or -1 if there is none.
	LineNo(pc int) int
}

// Cpu is the simulation context of the LED CPU.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.
	Strict  bool // Set to make unparseable lines load errors.
	Mode    Mode // Execution strategy used by LoadProgram.

	Memory memory.Store // Memory cells.
	Alu    *alu.Alu     // Bit level ALU over Memory.
	Output io.Writer    // Destination of PRINT.

	Trace func(ev Event) // If set, called at every stage boundary.
	Yield func() bool    // If set, called after every step; false halts.
	Limit int            // If non-zero, the step limit of a run.

	Pc     int       // Program counter.
	Flags  alu.Flags // Condition flags.
	Halted bool      // Set once the CPU has halted.
	Fault  error     // Fault that halted the CPU, if any.
	Ticks  int       // CPU steps counter.

	Source  []string // Preprocessed program lines.
	Origin  []int    // Input line index of each preprocessed line.
	Program *Program // Assembled program, in MODE_ISA.

	interp Interpreter
}

// NewCpu creates a CPU of the given mode over a memory store.
func NewCpu(mode Mode, store memory.Store) (cpu *Cpu) {
	cpu = &Cpu{
		Mode:   mode,
		Memory: store,
		Alu:    alu.NewAlu(store),
		Output: os.Stdout,
	}

	return
}

// LoadProgram preprocesses the lines, prepares them for the CPU mode, and
// resets the CPU. Assembly errors are returned before anything runs.
func (cpu *Cpu) LoadProgram(lines []string) (err error) {
	source, origin := PreprocessMap(lines)

	var interp Interpreter
	switch cpu.Mode {
	case MODE_MICRO:
		interp = &microInterpreter{}
	case MODE_ISA:
		interp = &isaInterpreter{}
	default:
		err = fmt.Errorf("%w: %v", ErrInstructionInvalid, cpu.Mode)
		return
	}

	cpu.interp = nil
	cpu.Program = nil
	cpu.Source = source
	cpu.Origin = origin

	err = interp.Load(cpu, source)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %v program, %d lines", cpu.Mode, len(source))
	}

	cpu.interp = interp
	cpu.Reset()

	return
}

// Reset the CPU state.
// - Program counter to zero.
// - Flags cleared, in the CPU and in the flag cells.
// - Halt and fault state cleared.
// - Ticks counter zeroed.
// Variables are not changed.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Pc = 0
	cpu.Halted = false
	cpu.Fault = nil
	cpu.Ticks = 0
	cpu.setFlags(alu.Flags{})

	if cpu.interp != nil {
		cpu.interp.Reset()
	}
}

// Step executes one cycle, returning false once the CPU has halted.
func (cpu *Cpu) Step() bool {
	if cpu.Halted {
		return false
	}

	if cpu.interp == nil {
		cpu.fault(cpu.Pc, "", ErrProgramMissing)
		return false
	}

	cpu.interp.Step(cpu)
	cpu.Ticks++

	if !cpu.Halted && cpu.Limit > 0 && cpu.Ticks >= cpu.Limit {
		cpu.fault(cpu.Pc, "", ErrStepLimit)
	}

	if !cpu.Halted && cpu.Yield != nil && !cpu.Yield() {
		if cpu.Verbose {
			log.Printf("cpu: yield stopped at pc %v", cpu.Pc)
		}
		cpu.Halted = true
	}

	return !cpu.Halted
}

// Run steps the CPU until it halts, returning the fault, if any.
func (cpu *Cpu) Run() (err error) {
	for cpu.Step() {
	}

	return cpu.Fault
}

// LineNo returns the input line index of the program counter, or -1.
func (cpu *Cpu) LineNo() int {
	if cpu.interp == nil {
		return -1
	}

	n := cpu.interp.LineNo(cpu.Pc)
	if n < 0 || n >= len(cpu.Origin) {
		return -1
	}

	return cpu.Origin[n]
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%5s: %v\n", "pc", cpu.Pc)
	fmt.Fprintf(&sb, "%5s: %v\n", "flags", cpu.Flags)
	for _, name := range memory.Variables {
		fmt.Fprintf(&sb, "%5s: %v\n", name, cpu.Memory.Get(name))
	}
	if cpu.Halted {
		fmt.Fprintf(&sb, "%5s: %v\n", "halt", cpu.Fault)
	}

	return sb.String()
}

// fault latches the halted state, recording why.
func (cpu *Cpu) fault(pc int, text string, err error) {
	cpu.Halted = true
	cpu.Fault = &ErrFault{Pc: pc, Text: text, Err: err}

	if cpu.Verbose {
		log.Printf("cpu: %v", cpu.Fault)
	}
}

func (cpu *Cpu) emit(stage Stage, pc int, text string) {
	ev := Event{Stage: stage, Pc: pc, Text: text}

	if cpu.Verbose {
		log.Printf("%v", ev)
	}

	if cpu.Trace != nil {
		cpu.Trace(ev)
	}
}

// setFlags updates the flags, and their cells.
func (cpu *Cpu) setFlags(fl alu.Flags) {
	cpu.Flags = fl
	fl.Store(cpu.Memory)
}

// arith performs dst = dst op y through the ALU.
func (cpu *Cpu) arith(op alu.Op, dst string, y int) (err error) {
	result, err := cpu.Alu.Execute(op, cpu.Memory.Get(dst), y)
	if err != nil {
		return
	}

	cpu.Memory.Set(dst, result.Value)
	cpu.setFlags(result.Flags)
	return
}

// negate performs dst = 0 - dst through the subtractor.
func (cpu *Cpu) negate(dst string) (err error) {
	result, err := cpu.Alu.Execute(alu.OP_SUB, 0, cpu.Memory.Get(dst))
	if err != nil {
		return
	}

	cpu.Memory.Set(dst, result.Value)
	cpu.setFlags(result.Flags)
	return
}

// compare sets the flags from a - b.
func (cpu *Cpu) compare(a int, b int) (err error) {
	result, err := cpu.Alu.Execute(alu.OP_SUB, a, b)
	if err != nil {
		return
	}

	cpu.setFlags(result.Flags)
	return
}

func (cpu *Cpu) print(name string, value int) {
	if cpu.Output == nil {
		return
	}

	fmt.Fprintf(cpu.Output, "%s = %d\n", name, value)
}
