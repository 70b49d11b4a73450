// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"log"
	"strings"

	"github.com/ezrec/ledcpu/alu"
)

// microInterpreter re-parses a preprocessed source line every step, and
// performs arithmetic through the scratch bit groups. Branch targets are
// absolute line indexes.
type microInterpreter struct {
	lines  []string
	labels map[string]int
	cache  map[int][]Operation
}

// Load records the label of every line.
func (mi *microInterpreter) Load(cpu *Cpu, lines []string) (err error) {
	var errs []error

	mi.lines = lines
	mi.labels = make(map[string]int, 16)
	mi.cache = make(map[int][]Operation, len(lines))

	for n, line := range lines {
		label, _ := splitLabel(strings.TrimSpace(line))
		if len(label) == 0 {
			continue
		}
		if _, dup := mi.labels[label]; dup {
			if cpu.Strict {
				errs = append(errs, &ErrSyntax{LineNo: n + 1, Line: line, Err: ErrLabelDuplicate})
			}
			continue
		}
		mi.labels[label] = n
	}

	if !cpu.Strict {
		return
	}

	// Strict mode checks every line, and every branch target, up front.
	for n, line := range lines {
		ops, perr := ParseLine(line)
		if perr != nil {
			errs = append(errs, &ErrSyntax{LineNo: n + 1, Line: line, Err: perr})
			continue
		}
		for _, op := range ops {
			branch, ok := op.(Branch)
			if !ok {
				continue
			}
			if _, ok := mi.labels[branch.Label]; !ok {
				errs = append(errs, &ErrSyntax{LineNo: n + 1, Line: line, Err: ErrLabelMissing(branch.Label)})
			}
		}
	}

	err = errors.Join(errs...)
	return
}

func (mi *microInterpreter) Reset() {
}

func (mi *microInterpreter) LineNo(pc int) int {
	if pc < 0 || pc >= len(mi.lines) {
		return -1
	}
	return pc
}

// decode parses the line at pc. Unparseable lines are a no-op that keeps
// the line text.
func (mi *microInterpreter) decode(cpu *Cpu, pc int) (ops []Operation) {
	ops, ok := mi.cache[pc]
	if ok {
		return
	}

	line := mi.lines[pc]
	ops, err := ParseLine(line)
	if err != nil {
		if cpu.Verbose {
			log.Printf("%v: %v, using NOP", pc, err)
		}
		ops = []Operation{Control{Code: CONTROL_NOP, Text: strings.TrimSpace(line)}}
	}

	mi.cache[pc] = ops
	return
}

func opsText(ops []Operation) string {
	text := make([]string, len(ops))
	for n, op := range ops {
		text[n] = op.String()
	}
	return strings.Join(text, "; ")
}

// execute performs one operation, returning the branch target if taken.
func (mi *microInterpreter) execute(cpu *Cpu, op Operation) (target int, jump bool, err error) {
	store := cpu.Memory
	bits := cpu.Alu

	switch op := op.(type) {
	case Control:
		switch op.Code {
		case CONTROL_HALT:
			cpu.Halted = true
		case CONTROL_PRINT:
			cpu.print(op.Name, store.Get(op.Name))
		}
	case Move:
		store.Set(op.Dst, op.Src.Read(store))
	case Arith:
		err = cpu.arith(op.Op, op.Dst, op.Src.Read(store))
	case Negate:
		err = cpu.negate(op.Dst)
	case Compare:
		err = cpu.compare(store.Get(op.A), op.B.Read(store))
	case Branch:
		if !op.Cond.Taken(cpu.Flags) {
			break
		}
		var ok bool
		target, ok = mi.labels[op.Label]
		if !ok {
			err = ErrLabelMissing(op.Label)
			break
		}
		jump = true
	case BitOp:
		switch op.Code {
		case BIT_UNPACK:
			bits.Unpack(op.Group, op.Var)
		case BIT_LOAD:
			bits.Load(op.Group, op.Value)
		case BIT_CLEAR:
			bits.Clear(op.Group)
		case BIT_COPY:
			bits.Copy(op.Group, op.Src)
		case BIT_PACK:
			bits.Pack(op.Var)
		case BIT_ADD8:
			carry := bits.Add8()
			cpu.setFlags(bits.Flags(alu.OP_ADD, carry))
		case BIT_SUB8:
			borrow := bits.Sub8()
			cpu.setFlags(bits.Flags(alu.OP_SUB, borrow))
		case BIT_PRINT:
			cpu.print(bits.Res, bits.Value(bits.Res))
		default:
			err = ErrInstructionInvalid
		}
	default:
		err = ErrInstructionInvalid
	}

	return
}

// Step fetches, decodes and executes the line at the program counter.
func (mi *microInterpreter) Step(cpu *Cpu) {
	pc := cpu.Pc
	if pc < 0 || pc >= len(mi.lines) {
		if cpu.Verbose {
			log.Printf("cpu: pc %v past end of program", pc)
		}
		cpu.Halted = true
		return
	}

	line := strings.TrimSpace(mi.lines[pc])
	cpu.emit(STAGE_FETCH, pc, line)

	ops := mi.decode(cpu, pc)
	cpu.emit(STAGE_DECODE, pc, opsText(ops))

	cpu.emit(STAGE_EXECUTE, pc, line)
	next := pc + 1
	for _, op := range ops {
		target, jump, err := mi.execute(cpu, op)
		if err != nil {
			cpu.fault(pc, line, err)
			return
		}
		if jump {
			next = target
			break
		}
		if cpu.Halted {
			break
		}
	}

	cpu.emit(STAGE_WRITEBACK, pc, line)

	if !cpu.Halted {
		cpu.Pc = next
	}
}
