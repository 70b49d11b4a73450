// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"log"

	"github.com/ezrec/ledcpu/alu"
	"github.com/ezrec/ledcpu/memory"
)

// isaInterpreter executes an assembled instruction stream. Branch targets
// are signed offsets from the instruction after the branch.
type isaInterpreter struct {
	program *Program
	pending *int // Immediate latched by an EXT prefix, for the next CMP.
}

// Load assembles the lines.
func (isa *isaInterpreter) Load(cpu *Cpu, lines []string) (err error) {
	asm := &Assembler{
		Verbose: cpu.Verbose,
		Strict:  cpu.Strict,
	}

	prog, err := asm.Assemble(lines)
	if err != nil {
		return
	}

	isa.program = prog
	isa.pending = nil
	cpu.Program = prog

	return
}

func (isa *isaInterpreter) Reset() {
	isa.pending = nil
}

func (isa *isaInterpreter) LineNo(pc int) int {
	if isa.program == nil || pc < 0 || pc >= len(isa.program.Code) {
		return -1
	}
	return isa.program.Code[pc].LineNo
}

// fetch consumes EXT prefixes, then loads the instruction register cells.
func (isa *isaInterpreter) fetch(cpu *Cpu) (pc int, text string, ok bool) {
	code := isa.program.Code

	pc = cpu.Pc
	for pc >= 0 && pc < len(code) && code[pc].IsExt() {
		insn := code[pc]
		cpu.emit(STAGE_FETCH, pc, insn.String())
		imm := insn.Imm()
		isa.pending = &imm
		pc++
	}

	if pc < 0 || pc >= len(code) {
		if isa.pending != nil {
			cpu.fault(pc-1, code[pc-1].String(), ErrExtDangling)
			return
		}
		if cpu.Verbose {
			log.Printf("cpu: pc %v past end of program", pc)
		}
		cpu.Halted = true
		return
	}

	insn := code[pc]
	text = insn.String()
	cpu.emit(STAGE_FETCH, pc, text)

	b0, b1 := insn.Bytes()
	cpu.Memory.Set(memory.CELL_IR0, int(b0))
	cpu.Memory.Set(memory.CELL_IR1, int(b1))

	ok = true
	return
}

// decode reads the instruction back from the instruction register cells.
func (isa *isaInterpreter) decode(cpu *Cpu) (insn Instruction) {
	b0 := uint8(cpu.Memory.Get(memory.CELL_IR0))
	b1 := uint8(cpu.Memory.Get(memory.CELL_IR1))

	return DecodeWord(uint16(b0)<<8 | uint16(b1))
}

// variable returns the name of an encoded variable id.
func variable(id int) (name string, err error) {
	name, ok := memory.VariableName(id)
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// execute performs a decoded instruction, returning the next pc.
func (isa *isaInterpreter) execute(cpu *Cpu, pc int, insn Instruction) (next int, err error) {
	store := cpu.Memory
	next = pc + 1

	pending := isa.pending
	isa.pending = nil
	if pending != nil && insn.Op != OP_CMP {
		err = ErrExtDangling
		return
	}

	var dst, src string
	switch insn.Op {
	case OP_MOV, OP_ADD, OP_SUB, OP_AND, OP_OR, OP_XOR:
		src, err = variable(insn.Arg)
		if err != nil {
			return
		}
		fallthrough
	case OP_MOVI, OP_ADDI, OP_SUBI, OP_SHIFT, OP_NEG, OP_CMP:
		dst, err = variable(insn.Dst)
		if err != nil {
			return
		}
	}

	switch insn.Op {
	case OP_NOP:
		switch insn.Dst {
		case EXT_NONE:
		case EXT_PRINT:
			var name string
			name, err = variable(insn.Arg)
			if err != nil {
				return
			}
			cpu.print(name, store.Get(name))
		default:
			err = ErrOpcodeInvalid
		}
	case OP_HALT:
		cpu.Halted = true
		next = pc
	case OP_MOV:
		store.Set(dst, store.Get(src))
	case OP_MOVI:
		store.Set(dst, insn.Imm())
	case OP_ADD, OP_SUB, OP_AND, OP_OR, OP_XOR:
		err = cpu.arith(aluMap[insn.Op], dst, store.Get(src))
	case OP_ADDI, OP_SUBI:
		err = cpu.arith(aluMap[insn.Op], dst, insn.Imm())
	case OP_SHIFT:
		op := alu.OP_SHL
		if insn.Arg&1 == SHIFT_RIGHT {
			op = alu.OP_SHR
		}
		err = cpu.arith(op, dst, 0)
	case OP_NEG:
		err = cpu.negate(dst)
	case OP_CMP:
		var b int
		if pending != nil {
			b = *pending
		} else {
			src, err = variable(insn.Arg)
			if err != nil {
				return
			}
			b = store.Get(src)
		}
		err = cpu.compare(store.Get(dst), b)
	case OP_JMP:
		next = pc + 1 + insn.Imm()
	case OP_BR:
		cond := Cond(insn.Dst)
		if !cond.Encodable() {
			err = ErrConditionInvalid
			return
		}
		if cond.Taken(cpu.Flags) {
			next = pc + 1 + insn.Imm()
		}
	default:
		err = ErrOpcodeInvalid
	}

	return
}

// Step runs the fetch, decode, execute and writeback stages of one
// instruction.
func (isa *isaInterpreter) Step(cpu *Cpu) {
	pc, text, ok := isa.fetch(cpu)
	if !ok {
		return
	}

	insn := isa.decode(cpu)
	cpu.emit(STAGE_DECODE, pc, insn.Disassemble())

	cpu.emit(STAGE_EXECUTE, pc, text)
	next, err := isa.execute(cpu, pc, insn)
	if err != nil {
		cpu.fault(pc, text, err)
		return
	}

	cpu.emit(STAGE_WRITEBACK, pc, text)

	if !cpu.Halted {
		cpu.Pc = next
	} else {
		cpu.Pc = pc
	}
}
