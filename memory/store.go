// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory names the cells of the LED CPU and stores their values.
//
// Every cell holds a signed byte. Bit cells (the ALU scratch groups and the
// adder step cells) and flag cells only ever hold 0 or 1.
package memory

import (
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/ezrec/ledcpu/internal"
)

// Store is the memory cell interface consumed by the CPU and ALU.
type Store interface {
	Get(name string) int        // Get the cell value, in [-128, 127].
	Set(name string, value int) // Set the cell value, wrapped to a signed byte.
}

// Condition flag cells.
const (
	FLAG_Z = "Z" // Zero
	FLAG_N = "N" // Negative
	FLAG_V = "V" // oVerflow
	FLAG_C = "C" // Carry
)

// ALU step and instruction register cells.
const (
	CELL_CIN  = "CIN"  // Carry or borrow into the current bit.
	CELL_SUM  = "SUM"  // Sum or difference of the current bit.
	CELL_COUT = "COUT" // Carry or borrow out of the current bit.
	CELL_IR0  = "IR0"  // Instruction register: opcode and destination.
	CELL_IR1  = "IR1"  // Instruction register: argument.
)

// ALU scratch bit groups.
const (
	GROUP_SRC1 = "SRC1" // First ALU operand.
	GROUP_SRC2 = "SRC2" // Second ALU operand.
	GROUP_RES  = "RES"  // ALU result.

	GROUP_BITS = 8 // Bits per group.
)

// Variables are the program variables, in variable-id order.
var Variables = []string{"q", "w", "e", "r", "a", "s", "d", "z", "x"}

// Flags are the condition flag cells.
var Flags = []string{FLAG_Z, FLAG_N, FLAG_V, FLAG_C}

// Groups are the ALU scratch bit groups.
var Groups = []string{GROUP_SRC1, GROUP_SRC2, GROUP_RES}

// Wrap reinterprets the low 8 bits of value as a two's-complement byte.
func Wrap(value int) int {
	return int(int8(value))
}

// Bit returns the cell name of bit n of a scratch group.
func Bit(group string, n int) string {
	return group + "[" + strconv.Itoa(n) + "]"
}

// IsGroup returns true if name is an ALU scratch group.
func IsGroup(name string) bool {
	return slices.Contains(Groups, strings.ToUpper(name))
}

// VariableId returns the 4-bit id of a program variable.
func VariableId(name string) (id int, ok bool) {
	id = slices.Index(Variables, strings.ToLower(name))
	ok = id >= 0
	return
}

// VariableName returns the program variable for a 4-bit id.
func VariableName(id int) (name string, ok bool) {
	if id < 0 || id >= len(Variables) {
		return
	}

	return Variables[id], true
}

// Names iterates over every predefined cell name.
func Names() iter.Seq[string] {
	seqs := []iter.Seq[string]{slices.Values(Variables)}
	for _, group := range Groups {
		seqs = append(seqs, internal.IterSeqFormat(group+"[%d]", GROUP_BITS))
	}
	seqs = append(seqs,
		slices.Values([]string{CELL_CIN, CELL_SUM, CELL_COUT}),
		slices.Values(Flags),
		slices.Values([]string{CELL_IR0, CELL_IR1}),
	)

	return internal.IterSeqConcat(seqs...)
}

// Flag reads a flag cell as a boolean.
func Flag(store Store, name string) bool {
	return store.Get(name) != 0
}

// SetFlag writes a boolean to a flag cell.
func SetFlag(store Store, name string, on bool) {
	value := 0
	if on {
		value = 1
	}
	store.Set(name, value)
}
