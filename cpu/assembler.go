// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"log"
	"maps"
	"slices"
	"strings"

	"github.com/ezrec/ledcpu/alu"
	"github.com/ezrec/ledcpu/memory"
)

// BRANCH_MIN and BRANCH_MAX bound the PC-relative branch offset.
const (
	BRANCH_MIN = -128
	BRANCH_MAX = 127
)

// fixup is a branch or jump waiting for its label to be resolved.
type fixup struct {
	Index int    // Instruction index.
	Label string // Target label.
}

// Assembler is a two pass assembler from preprocessed source lines to the
// 16-bit instruction set.
type Assembler struct {
	Verbose bool           // If set, verbosely logs the assembler actions.
	Strict  bool           // If set, unparseable lines are errors, not NOPs.
	Code    []Instruction  // Generated instructions.
	Label   map[string]int // Map of labels to instruction indexes.

	fixups []fixup
}

// variableId encodes a variable operand.
func variableId(name string) (id int, err error) {
	id, ok := memory.VariableId(name)
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// encode lowers a single operation to instructions. If the last
// instruction is a branch, label is its target.
func encode(op Operation) (insns []Instruction, label string, err error) {
	text := op.String()

	switch op := op.(type) {
	case Control:
		switch op.Code {
		case CONTROL_NOP:
			insns = append(insns, MakeInstruction(OP_NOP, EXT_NONE, 0, text))
		case CONTROL_HALT:
			insns = append(insns, MakeInstruction(OP_HALT, 0, 0, text))
		case CONTROL_PRINT:
			var id int
			id, err = variableId(op.Name)
			if err != nil {
				return
			}
			insns = append(insns, MakeInstruction(OP_NOP, EXT_PRINT, id, text))
		default:
			err = ErrInstructionInvalid
		}
	case Move:
		var dst, src int
		dst, err = variableId(op.Dst)
		if err != nil {
			return
		}
		if op.Src.Immediate {
			insns = append(insns, MakeInstruction(OP_MOVI, dst, op.Src.Value, text))
			return
		}
		src, err = variableId(op.Src.Name)
		if err != nil {
			return
		}
		insns = append(insns, MakeInstruction(OP_MOV, dst, src, text))
	case Arith:
		var dst, src int
		dst, err = variableId(op.Dst)
		if err != nil {
			return
		}
		switch op.Op {
		case alu.OP_SHL:
			insns = append(insns, MakeInstruction(OP_SHIFT, dst, SHIFT_LEFT, text))
			return
		case alu.OP_SHR:
			insns = append(insns, MakeInstruction(OP_SHIFT, dst, SHIFT_RIGHT, text))
			return
		}
		var code Opcode
		for opcode, aluop := range aluMap {
			if aluop != op.Op {
				continue
			}
			immediate := opcode == OP_ADDI || opcode == OP_SUBI
			if immediate == op.Src.Immediate {
				code = opcode
				break
			}
		}
		if code == OP_NOP {
			err = ErrImmediateInvalid
			return
		}
		if op.Src.Immediate {
			insns = append(insns, MakeInstruction(code, dst, op.Src.Value, text))
			return
		}
		src, err = variableId(op.Src.Name)
		if err != nil {
			return
		}
		insns = append(insns, MakeInstruction(code, dst, src, text))
	case Negate:
		var dst int
		dst, err = variableId(op.Dst)
		if err != nil {
			return
		}
		insns = append(insns, MakeInstruction(OP_NEG, dst, 0, text))
	case Compare:
		var a, b int
		a, err = variableId(op.A)
		if err != nil {
			return
		}
		if op.B.Immediate {
			insns = append(insns,
				MakeInstruction(OP_NOP, EXT_IMM, op.B.Value, "EXTI "+op.B.String()),
				MakeInstruction(OP_CMP, a, 0, text),
			)
			return
		}
		b, err = variableId(op.B.Name)
		if err != nil {
			return
		}
		insns = append(insns, MakeInstruction(OP_CMP, a, b, text))
	case Branch:
		label = op.Label
		if op.Cond == COND_ALWAYS {
			insns = append(insns, MakeInstruction(OP_JMP, 0, 0, text))
		} else {
			insns = append(insns, MakeInstruction(OP_BR, int(op.Cond), 0, text))
		}
	default:
		err = ErrInstructionInvalid
	}

	return
}

// lower parses and encodes one label-free line.
func (asm *Assembler) lower(text string) (insns []Instruction, label string, err error) {
	ops, err := parseStatement(text, MODE_ISA)
	if err != nil {
		return
	}

	for _, op := range ops {
		var more []Instruction
		more, label, err = encode(op)
		if err != nil {
			return
		}
		insns = append(insns, more...)
	}

	return
}

// Assemble converts preprocessed lines into a Program.
//
// Pass one records labels at the current instruction count and lowers every
// other line. Unparseable lines become a NOP carrying the source text, or
// an ErrSyntax in Strict mode. Pass two resolves every branch to a signed
// 8-bit offset from the instruction after it.
func (asm *Assembler) Assemble(lines []string) (prog *Program, err error) {
	var errs []error

	asm.Code = asm.Code[:0]
	asm.fixups = asm.fixups[:0]
	if asm.Label == nil {
		asm.Label = make(map[string]int, 16)
	}
	clear(asm.Label)

	for lineno, line := range lines {
		text := strings.TrimSpace(line)
		if isComment(text) {
			continue
		}

		if asm.Verbose {
			log.Printf("%v: %v", lineno+1, text)
		}

		label, rest := splitLabel(text)
		if len(label) != 0 {
			_, dup := asm.Label[label]
			switch {
			case dup && asm.Strict:
				errs = append(errs, &ErrSyntax{LineNo: lineno + 1, Line: line, Err: ErrLabelDuplicate})
			case dup:
				if asm.Verbose {
					log.Printf("%v: label %v already defined", lineno+1, label)
				}
			default:
				asm.Label[label] = len(asm.Code)
			}
			if len(rest) == 0 {
				continue
			}
		}

		insns, target, lerr := asm.lower(rest)
		if lerr != nil {
			if asm.Strict {
				errs = append(errs, &ErrSyntax{LineNo: lineno + 1, Line: line, Err: lerr})
				continue
			}
			if asm.Verbose {
				log.Printf("%v: %v, using NOP", lineno+1, lerr)
			}
			insns = []Instruction{MakeInstruction(OP_NOP, EXT_NONE, 0, "NOP ; "+rest)}
			target = ""
		}

		for n := range insns {
			insns[n].LineNo = lineno
		}
		asm.Code = append(asm.Code, insns...)
		if len(target) != 0 {
			asm.fixups = append(asm.fixups, fixup{Index: len(asm.Code) - 1, Label: target})
		}
	}

	if len(errs) != 0 {
		err = errors.Join(errs...)
		return
	}

	// Resolve branches.
	for _, fix := range asm.fixups {
		target, ok := asm.Label[fix.Label]
		if !ok {
			errs = append(errs, ErrLabelMissing(fix.Label))
			continue
		}
		offset := target - (fix.Index + 1)
		if offset < BRANCH_MIN || offset > BRANCH_MAX {
			errs = append(errs, ErrBranchRange{Index: fix.Index, Label: fix.Label, Offset: offset})
			continue
		}

		insn := asm.Code[fix.Index]
		dst := insn.Dst
		if insn.Op == OP_JMP {
			dst = 0
		}
		linked := MakeInstruction(insn.Op, dst, offset, insn.Text)
		linked.LineNo = insn.LineNo
		asm.Code[fix.Index] = linked
	}

	if len(errs) != 0 {
		err = errors.Join(errs...)
		return
	}

	prog = &Program{
		Source: slices.Clone(lines),
		Code:   slices.Clone(asm.Code),
		Label:  maps.Clone(asm.Label),
	}

	return
}
