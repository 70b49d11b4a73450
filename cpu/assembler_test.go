// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func words(code []Instruction) (ws []uint16) {
	for _, insn := range code {
		ws = append(ws, insn.Word())
	}
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Assemble(nil)
	assert.NoError(err)
	assert.Equal(0, len(prog.Code))

	program := []string{
		"a = 5",
		"CMPI a, #-3",
		"BEQ done",
		"s = a - s",
		"SHR a",
		"PRINT a",
		"done: HALT",
	}

	prog, err = asm.Assemble(program)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	assert.Equal([]uint16{
		0x3405,
		0x0EFD,
		0xD400,
		0xF004,
		0xC500,
		0x4504,
		0xB401,
		0x0104,
		0x1000,
	}, words(prog.Code))

	assert.Equal(map[string]int{"done": 8}, prog.Label)
	assert.Equal([]int{0, 1, 1, 2, 3, 3, 4, 5, 6}, func() (lines []int) {
		for _, insn := range prog.Code {
			lines = append(lines, insn.LineNo)
		}
		return
	}())

	assert.Equal("MOVI a, #5", prog.Code[0].String())
	assert.Equal("EXTI #-3", prog.Code[1].String())
	assert.Equal("CMPI a, #-3", prog.Code[2].String())
	assert.True(prog.Code[1].IsExt())
	assert.False(prog.Code[2].IsExt())

	dbg := prog.Debug(5)
	assert.Equal("s = a - s", dbg.Line)
	assert.Equal(OP_ADD, dbg.Op)

	dbg = prog.Debug(100)
	assert.Nil(dbg.Instruction)
}

func TestAssemblerBranch(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Assemble([]string{"top: NOP", "JMP top", "BVS top", "done:"})
	assert.NoError(err)
	assert.Equal([]uint16{0x0000, 0xE0FE, 0xF5FD}, words(prog.Code))
	assert.Equal(map[string]int{"top": 0, "done": 3}, prog.Label)
	assert.Equal(-2, prog.Code[1].Imm())

	// Labels may name the end of the program.
	prog, err = asm.Assemble([]string{"BNE done", "done:"})
	assert.NoError(err)
	assert.Equal([]uint16{0xF100}, words(prog.Code))
}

func nops(count int) (lines []string) {
	for range count {
		lines = append(lines, "NOP")
	}
	return
}

func TestAssemblerRange(t *testing.T) {
	table := [](struct {
		name    string
		program []string
		offset  int
		ok      bool
	}){
		{"fwd_127", append(append([]string{"JMP far"}, nops(127)...), "far: HALT"), 127, true},
		{"fwd_128", append(append([]string{"JMP far"}, nops(128)...), "far: HALT"), 128, false},
		{"fwd_200", append(append([]string{"BEQ far"}, nops(200)...), "far: HALT"), 200, false},
		{"back_128", append(append([]string{"back: HALT"}, nops(126)...), "JMP back"), -128, true},
		{"back_132", append(append([]string{"back: HALT"}, nops(130)...), "BMI back"), -132, false},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			asm := &Assembler{}
			prog, err := asm.Assemble(entry.program)
			if entry.ok {
				assert.NoError(err)
				assert.NotNil(prog)
				return
			}

			assert.Nil(prog)
			var berr ErrBranchRange
			assert.True(errors.As(err, &berr))
			assert.Equal(entry.offset, berr.Offset)
			assert.Contains(err.Error(), "out of range")
		})
	}
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	_, err := asm.Assemble([]string{"BNE nowhere", "JMP elsewhere"})
	var missing ErrLabelMissing
	assert.True(errors.As(err, &missing))
	assert.Equal(ErrLabelMissing("nowhere"), missing)
	assert.ErrorIs(err, ErrLabelMissing("elsewhere"))

	// Lenient: unparseable lines are NOPs with the source text.
	prog, err := asm.Assemble([]string{"wibble wobble", "b = 5", "HALT"})
	assert.NoError(err)
	assert.Equal([]uint16{0x0000, 0x0000, 0x1000}, words(prog.Code))
	assert.Equal("NOP ; wibble wobble", prog.Code[0].String())
	assert.Equal("NOP ; b = 5", prog.Code[1].String())

	// Strict: they are syntax errors.
	asm.Strict = true
	_, err = asm.Assemble([]string{"wibble wobble", "b = 5", "HALT"})
	var serr *ErrSyntax
	assert.True(errors.As(err, &serr))
	assert.Equal(1, serr.LineNo)
	assert.ErrorIs(err, ErrInstructionInvalid)
	assert.ErrorIs(err, ErrRegisterInvalid)

	_, err = asm.Assemble([]string{"x1:", "x1: HALT"})
	assert.ErrorIs(err, ErrLabelDuplicate)

	// Lenient: the first label wins.
	asm.Strict = false
	prog, err = asm.Assemble([]string{"x1: NOP", "x1: HALT", "JMP x1"})
	assert.NoError(err)
	assert.Equal(0, prog.Label["x1"])
}

func TestProgramBinary(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Assemble([]string{
		"a = -1",
		"loop: CMPI a, #10",
		"BPL done",
		"a = a + 3",
		"JMP loop",
		"done: HALT",
	})
	assert.NoError(err)

	bins := prog.Binary()
	assert.Equal(2*len(prog.Code), len(bins))
	assert.Equal([]byte{0x34, 0xff, 0x0e, 0x0a, 0xd4, 0x00}, bins[:6])

	code, err := Disassemble(bins)
	assert.NoError(err)
	assert.Equal(len(prog.Code), len(code))
	for n, insn := range code {
		assert.Equal(prog.Code[n].Word(), insn.Word(), fmt.Sprintf("pc %d", n))
		assert.Equal(prog.Code[n].Disassemble(), insn.String())
	}

	assert.Equal([]string{
		"MOVI a, #-1",
		"EXTI #10",
		"CMP a, q",
		"BPL +2",
		"ADDI a, #3",
		"JMP -5",
		"HALT",
	}, func() (text []string) {
		for _, insn := range code {
			text = append(text, insn.String())
		}
		return
	}())

	_, err = Disassemble(bins[:3])
	assert.ErrorIs(err, ErrBinaryLength)
}

func TestProgramListing(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Assemble([]string{"CMPI a, #-3", "HALT"})
	assert.NoError(err)

	var sb strings.Builder
	err = prog.Listing(&sb)
	assert.NoError(err)

	text := sb.String()
	assert.Contains(text, "0e fd")
	assert.Contains(text, "0000 1110 11111101")
	assert.Contains(text, "EXTI #-3")
	assert.Contains(text, "CMPI a, #-3")
	assert.Contains(text, "10 00")
	assert.Contains(text, "HALT")
}

func TestInstruction(t *testing.T) {
	assert := assert.New(t)

	insn := MakeInstruction(OP_BR|0x30, 0x1f, -1, "")
	assert.Equal(OP_BR, insn.Op)
	assert.Equal(0xf, insn.Dst)
	assert.Equal(0xff, insn.Arg)
	assert.Equal(-1, insn.Imm())
	assert.Equal(uint16(0xffff), insn.Word())

	insn = DecodeWord(0x2405)
	assert.Equal(OP_MOV, insn.Op)
	assert.Equal(4, insn.Dst)
	assert.Equal(5, insn.Arg)
	assert.Equal("MOV a, s", insn.String())

	b0, b1 := insn.Bytes()
	assert.Equal(byte(0x24), b0)
	assert.Equal(byte(0x05), b1)

	assert.Equal("MOV ?12, q", DecodeWord(0x2C00).Disassemble())
	assert.Equal("PRINT x", DecodeWord(0x0108).Disassemble())
	assert.Equal("SHL w", DecodeWord(0xB100).Disassemble())
	assert.Equal("BCC -128", DecodeWord(0xF680).Disassemble())
}
