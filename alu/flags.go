package alu

import (
	"fmt"

	"github.com/ezrec/ledcpu/memory"
)

// Flags are the condition flags.
type Flags struct {
	Z bool // Result was zero.
	N bool // Result was negative.
	V bool // Signed overflow.
	C bool // Carry (add, shift) or borrow (subtract).
}

func flagBit(on bool) int {
	if on {
		return 1
	}
	return 0
}

// String returns the flags as 'Z:1 N:0 V:0 C:0'.
func (fl Flags) String() string {
	return fmt.Sprintf("Z:%d N:%d V:%d C:%d", flagBit(fl.Z), flagBit(fl.N), flagBit(fl.V), flagBit(fl.C))
}

// Store writes the flags to their memory cells.
func (fl Flags) Store(store memory.Store) {
	memory.SetFlag(store, memory.FLAG_Z, fl.Z)
	memory.SetFlag(store, memory.FLAG_N, fl.N)
	memory.SetFlag(store, memory.FLAG_V, fl.V)
	memory.SetFlag(store, memory.FLAG_C, fl.C)
}

// LoadFlags reads the flags from their memory cells.
func LoadFlags(store memory.Store) (fl Flags) {
	fl.Z = memory.Flag(store, memory.FLAG_Z)
	fl.N = memory.Flag(store, memory.FLAG_N)
	fl.V = memory.Flag(store, memory.FLAG_V)
	fl.C = memory.Flag(store, memory.FLAG_C)
	return
}
