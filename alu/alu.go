// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package alu implements the bit-serial arithmetic unit of the LED CPU.
//
// Operands are unpacked into the SRC1 and SRC2 scratch bit groups of a
// memory.Store, combined one bit at a time through lookup tables, and the
// result is left in the RES group. Addition and subtraction ripple the carry
// through the CIN, SUM and COUT cells, so that every intermediate bit is
// visible to an observer of the store. No host integer arithmetic is used to
// compute a result.
package alu

import (
	"github.com/ezrec/ledcpu/memory"
)

// Op is an ALU operation.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_ADD = Op(0) // add
	OP_SUB = Op(1) // sub
	OP_AND = Op(2) // and
	OP_OR  = Op(3) // or
	OP_XOR = Op(4) // xor
	OP_SHL = Op(5) // shl
	OP_SHR = Op(6) // shr
)

// Unary returns true if the operation ignores its second operand.
func (op Op) Unary() bool {
	return op == OP_SHL || op == OP_SHR
}

// Result of an ALU operation.
type Result struct {
	Value int   // Signed byte result.
	Flags Flags // Flags derived from the operands and result.
}

// Alu is the bit-level ALU context.
type Alu struct {
	Memory memory.Store // Backing store of the scratch cells.

	Src1 string // First operand group.
	Src2 string // Second operand group.
	Res  string // Result group.
}

// NewAlu creates an ALU using the standard scratch groups.
func NewAlu(store memory.Store) *Alu {
	return &Alu{
		Memory: store,
		Src1:   memory.GROUP_SRC1,
		Src2:   memory.GROUP_SRC2,
		Res:    memory.GROUP_RES,
	}
}

func bit(value int) int {
	if value != 0 {
		return 1
	}
	return 0
}

func (alu *Alu) getBit(group string, n int) int {
	return bit(alu.Memory.Get(memory.Bit(group, n)))
}

func (alu *Alu) setBit(group string, n int, value int) {
	alu.Memory.Set(memory.Bit(group, n), bit(value))
}

// Load writes the two's-complement bit pattern of value into a group.
func (alu *Alu) Load(group string, value int) {
	pattern := uint8(value)
	for n := range memory.GROUP_BITS {
		alu.setBit(group, n, int(pattern>>n)&1)
	}
}

// Unpack copies a variable, bit by bit, into a group.
func (alu *Alu) Unpack(group string, variable string) {
	alu.Load(group, alu.Memory.Get(variable))
}

// Value reads a group as a signed byte.
func (alu *Alu) Value(group string) int {
	var pattern uint8
	for n := range memory.GROUP_BITS {
		if alu.getBit(group, n) != 0 {
			pattern |= 1 << n
		}
	}

	return int(int8(pattern))
}

// Pack stores the result group into a variable.
func (alu *Alu) Pack(variable string) (value int) {
	value = alu.Value(alu.Res)
	alu.Memory.Set(variable, value)
	return
}

// Copy copies the bits of one group into another.
func (alu *Alu) Copy(dst string, src string) {
	for n := range memory.GROUP_BITS {
		alu.setBit(dst, n, alu.getBit(src, n))
	}
}

// Clear zeros every bit of a group.
func (alu *Alu) Clear(group string) {
	for n := range memory.GROUP_BITS {
		alu.setBit(group, n, 0)
	}
}

// ripple runs a full adder style table from LSB to MSB, with the carry
// passed between bits through the COUT and CIN cells.
func (alu *Alu) ripple(lut *[8]bitPair) (carry int) {
	for n := range memory.GROUP_BITS {
		a := alu.getBit(alu.Src1, n)
		b := alu.getBit(alu.Src2, n)
		alu.Memory.Set(memory.CELL_CIN, carry)

		out := lut[a<<2|b<<1|bit(alu.Memory.Get(memory.CELL_CIN))]
		alu.Memory.Set(memory.CELL_SUM, out.bit)
		alu.Memory.Set(memory.CELL_COUT, out.carry)

		alu.setBit(alu.Res, n, alu.Memory.Get(memory.CELL_SUM))
		carry = bit(alu.Memory.Get(memory.CELL_COUT))
	}

	return
}

// Add8 adds SRC1 and SRC2 into RES, returning the carry out.
func (alu *Alu) Add8() (carry int) {
	return alu.ripple(&adderLUT)
}

// Sub8 subtracts SRC2 from SRC1 into RES, returning the borrow out.
func (alu *Alu) Sub8() (borrow int) {
	return alu.ripple(&subtractorLUT)
}

func (alu *Alu) gate(lut *[4]int) {
	for n := range memory.GROUP_BITS {
		a := alu.getBit(alu.Src1, n)
		b := alu.getBit(alu.Src2, n)
		alu.setBit(alu.Res, n, lut[a<<1|b])
	}
}

// And8 sets RES to SRC1 & SRC2.
func (alu *Alu) And8() {
	alu.gate(&andLUT)
}

// Or8 sets RES to SRC1 | SRC2.
func (alu *Alu) Or8() {
	alu.gate(&orLUT)
}

// Xor8 sets RES to SRC1 ^ SRC2.
func (alu *Alu) Xor8() {
	alu.gate(&xorLUT)
}

// Shl8 shifts SRC1 left by one into RES, returning the bit shifted out.
func (alu *Alu) Shl8() (carry int) {
	carry = alu.getBit(alu.Src1, memory.GROUP_BITS-1)
	for n := memory.GROUP_BITS - 1; n > 0; n-- {
		alu.setBit(alu.Res, n, alu.getBit(alu.Src1, n-1))
	}
	alu.setBit(alu.Res, 0, 0)
	return
}

// Shr8 arithmetically shifts SRC1 right by one into RES, returning the bit
// shifted out. The sign bit is preserved.
func (alu *Alu) Shr8() (carry int) {
	msb := memory.GROUP_BITS - 1
	carry = alu.getBit(alu.Src1, 0)
	for n := range msb {
		alu.setBit(alu.Res, n, alu.getBit(alu.Src1, n+1))
	}
	alu.setBit(alu.Res, msb, alu.getBit(alu.Src1, msb))
	return
}

// Flags derives the condition flags of the last operation from the sign
// bits of the scratch groups.
func (alu *Alu) Flags(op Op, carry int) (fl Flags) {
	msb := memory.GROUP_BITS - 1
	sa := alu.getBit(alu.Src1, msb)
	sb := alu.getBit(alu.Src2, msb)
	sr := alu.getBit(alu.Res, msb)

	value := alu.Value(alu.Res)
	fl.Z = value == 0
	fl.N = sr != 0

	switch op {
	case OP_ADD:
		fl.V = sa == sb && sr != sa
		fl.C = carry != 0
	case OP_SUB:
		fl.V = sa != sb && sr != sa
		fl.C = carry != 0
	case OP_SHL:
		fl.V = sr != sa
		fl.C = carry != 0
	case OP_SHR:
		fl.C = carry != 0
	}

	return
}

// Run performs op on the operands already loaded in SRC1 and SRC2.
func (alu *Alu) Run(op Op) (result Result, err error) {
	var carry int

	switch op {
	case OP_ADD:
		carry = alu.Add8()
	case OP_SUB:
		carry = alu.Sub8()
	case OP_AND:
		alu.And8()
	case OP_OR:
		alu.Or8()
	case OP_XOR:
		alu.Xor8()
	case OP_SHL:
		carry = alu.Shl8()
	case OP_SHR:
		carry = alu.Shr8()
	default:
		err = ErrOpInvalid
		return
	}

	result.Value = alu.Value(alu.Res)
	result.Flags = alu.Flags(op, carry)

	return
}

// Execute loads x (and y, for binary operations) into the scratch groups and
// performs op.
func (alu *Alu) Execute(op Op, x int, y int) (result Result, err error) {
	alu.Load(alu.Src1, x)
	if op.Unary() {
		alu.Clear(alu.Src2)
	} else {
		alu.Load(alu.Src2, y)
	}

	return alu.Run(op)
}
