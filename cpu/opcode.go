// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"strings"

	"github.com/ezrec/ledcpu/alu"
	"github.com/ezrec/ledcpu/memory"
)

// Opcode is the 4-bit ISA opcode.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_NOP   = Opcode(0x0) // nop
	OP_HALT  = Opcode(0x1) // halt
	OP_MOV   = Opcode(0x2) // mov
	OP_MOVI  = Opcode(0x3) // movi
	OP_ADD   = Opcode(0x4) // add
	OP_ADDI  = Opcode(0x5) // addi
	OP_SUB   = Opcode(0x6) // sub
	OP_SUBI  = Opcode(0x7) // subi
	OP_AND   = Opcode(0x8) // and
	OP_OR    = Opcode(0x9) // or
	OP_XOR   = Opcode(0xA) // xor
	OP_SHIFT = Opcode(0xB) // shift
	OP_NEG   = Opcode(0xC) // neg
	OP_CMP   = Opcode(0xD) // cmp
	OP_JMP   = Opcode(0xE) // jmp
	OP_BR    = Opcode(0xF) // br
)

// Extension types of OP_NOP, carried in the dst field.
const (
	EXT_NONE  = 0x0 // Plain no-op.
	EXT_PRINT = 0x1 // Print the variable whose id is in arg.
	EXT_IMM   = 0xE // Immediate for the following CMP.
)

// Direction of OP_SHIFT, carried in bit 0 of arg.
const (
	SHIFT_LEFT  = 0
	SHIFT_RIGHT = 1
)

// Cond is a branch condition.
type Cond int

//go:generate go tool stringer -linecomment -type=Cond
const (
	COND_EQ     = Cond(0) // beq
	COND_NE     = Cond(1) // bne
	COND_PL     = Cond(2) // bpl
	COND_MI     = Cond(3) // bmi
	COND_VC     = Cond(4) // bvc
	COND_VS     = Cond(5) // bvs
	COND_CC     = Cond(6) // bcc
	COND_CS     = Cond(7) // bcs
	COND_ALWAYS = Cond(8) // jmp
)

// condMap maps branch mnemonics to conditions.
var condMap = map[string]Cond{
	"BEQ": COND_EQ,
	"BNE": COND_NE,
	"BPL": COND_PL,
	"BMI": COND_MI,
	"BVC": COND_VC,
	"BVS": COND_VS,
	"BCC": COND_CC,
	"BCS": COND_CS,
	"JMP": COND_ALWAYS,
}

// Encodable returns true if the condition fits the BR dst field.
func (cond Cond) Encodable() bool {
	return cond >= COND_EQ && cond <= COND_CS
}

// Taken returns true if the branch is taken for the flags.
// BCC and BCS test the V flag, not C.
func (cond Cond) Taken(fl alu.Flags) bool {
	switch cond {
	case COND_EQ:
		return fl.Z
	case COND_NE:
		return !fl.Z
	case COND_PL:
		return !fl.N
	case COND_MI:
		return fl.N
	case COND_VC, COND_CC:
		return !fl.V
	case COND_VS, COND_CS:
		return fl.V
	case COND_ALWAYS:
		return true
	}

	return false
}

// aluMap maps register opcodes to ALU operations.
var aluMap = map[Opcode]alu.Op{
	OP_ADD:  alu.OP_ADD,
	OP_ADDI: alu.OP_ADD,
	OP_SUB:  alu.OP_SUB,
	OP_SUBI: alu.OP_SUB,
	OP_AND:  alu.OP_AND,
	OP_OR:   alu.OP_OR,
	OP_XOR:  alu.OP_XOR,
}

// Instruction is a single 16-bit ISA instruction.
type Instruction struct {
	Op     Opcode // 4-bit opcode.
	Dst    int    // 4-bit variable id, condition or extension type.
	Arg    int    // 8-bit argument.
	Text   string // Debug text.
	LineNo int    // Index of the source line that generated it.
}

// MakeInstruction creates an instruction, masking every field to its width.
func MakeInstruction(op Opcode, dst int, arg int, text string) Instruction {
	return Instruction{
		Op:   op & 0xf,
		Dst:  dst & 0xf,
		Arg:  arg & 0xff,
		Text: text,
	}
}

// DecodeWord splits a 16-bit instruction word into its fields.
func DecodeWord(word uint16) Instruction {
	return Instruction{
		Op:  Opcode(word >> 12),
		Dst: int(word>>8) & 0xf,
		Arg: int(word) & 0xff,
	}
}

// Word returns the 16-bit encoding.
func (insn Instruction) Word() uint16 {
	return uint16(insn.Op&0xf)<<12 | uint16(insn.Dst&0xf)<<8 | uint16(insn.Arg&0xff)
}

// Bytes returns the encoding as (op<<4|dst, arg).
func (insn Instruction) Bytes() (b0 byte, b1 byte) {
	word := insn.Word()
	return byte(word >> 8), byte(word)
}

// Imm returns the argument as a signed byte.
func (insn Instruction) Imm() int {
	return int(int8(uint8(insn.Arg)))
}

// IsExt returns true if the instruction is an EXT immediate prefix.
func (insn Instruction) IsExt() bool {
	return insn.Op == OP_NOP && insn.Dst == EXT_IMM
}

func varName(id int) string {
	name, ok := memory.VariableName(id)
	if !ok {
		return fmt.Sprintf("?%d", id)
	}
	return name
}

// Disassemble renders the instruction from its encoded fields alone.
func (insn Instruction) Disassemble() string {
	dst := varName(insn.Dst)
	src := varName(insn.Arg & 0xf)

	switch insn.Op {
	case OP_NOP:
		switch insn.Dst {
		case EXT_NONE:
			return "NOP"
		case EXT_IMM:
			return fmt.Sprintf("EXTI #%d", insn.Imm())
		case EXT_PRINT:
			return "PRINT " + src
		}
		return fmt.Sprintf("EXT%X #%d", insn.Dst, insn.Imm())
	case OP_HALT:
		return "HALT"
	case OP_MOV, OP_ADD, OP_SUB, OP_AND, OP_OR, OP_XOR, OP_CMP:
		return fmt.Sprintf("%s %s, %s", strings.ToUpper(insn.Op.String()), dst, src)
	case OP_MOVI, OP_ADDI, OP_SUBI:
		return fmt.Sprintf("%s %s, #%d", strings.ToUpper(insn.Op.String()), dst, insn.Imm())
	case OP_SHIFT:
		if insn.Arg&1 == SHIFT_RIGHT {
			return "SHR " + dst
		}
		return "SHL " + dst
	case OP_NEG:
		return "NEG " + dst
	case OP_JMP:
		return fmt.Sprintf("JMP %+d", insn.Imm())
	case OP_BR:
		return fmt.Sprintf("%s %+d", strings.ToUpper(Cond(insn.Dst).String()), insn.Imm())
	}

	return fmt.Sprintf("%04x", insn.Word())
}

// String returns the debug text, or the disassembly if there is none.
func (insn Instruction) String() string {
	if len(insn.Text) != 0 {
		return insn.Text
	}
	return insn.Disassemble()
}
