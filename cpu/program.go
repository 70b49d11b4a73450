package cpu

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Program is an assembled instruction stream.
type Program struct {
	Source []string       // Preprocessed source lines.
	Code   []Instruction  // Instruction stream.
	Label  map[string]int // Label to instruction index.
}

// Debug is the debug information of an instruction.
type Debug struct {
	*Instruction
	Line string // Source line that generated the instruction.
}

// Debug returns the debug information at a program counter.
func (prog *Program) Debug(pc int) (dbg Debug) {
	if pc < 0 || pc >= len(prog.Code) {
		return
	}

	dbg.Instruction = &prog.Code[pc]
	lineno := dbg.Instruction.LineNo
	if lineno >= 0 && lineno < len(prog.Source) {
		dbg.Line = prog.Source[lineno]
	}

	return
}

// Binary returns the program image, two bytes per instruction.
func (prog *Program) Binary() (bins []byte) {
	bins = make([]byte, 0, len(prog.Code)*2)
	for _, insn := range prog.Code {
		b0, b1 := insn.Bytes()
		bins = append(bins, b0, b1)
	}

	return
}

// Disassemble decodes a program image. Decoded instructions have no debug
// text.
func Disassemble(bins []byte) (code []Instruction, err error) {
	if len(bins)%2 != 0 {
		err = ErrBinaryLength
		return
	}

	code = make([]Instruction, 0, len(bins)/2)
	for n := 0; n < len(bins); n += 2 {
		insn := DecodeWord(uint16(bins[n])<<8 | uint16(bins[n+1]))
		insn.LineNo = -1
		code = append(code, insn)
	}

	return
}

// Listing writes a table of every instruction: program counter, encoded
// bytes, bit pattern and text.
func (prog *Program) Listing(w io.Writer) (err error) {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"PC", "Bytes", "Bits", "Text"})

	for pc, insn := range prog.Code {
		b0, b1 := insn.Bytes()
		tw.AppendRow(table.Row{
			fmt.Sprintf("%02d", pc),
			fmt.Sprintf("%02x %02x", b0, b1),
			fmt.Sprintf("%04b %04b %08b", b0>>4, b0&0xf, b1),
			insn.String(),
		})
	}

	_, err = fmt.Fprintln(w, tw.Render())
	return
}
