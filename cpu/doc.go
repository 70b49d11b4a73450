// Package cpu implements the LED CPU, its preprocessor and its assembler.
//
// Programs are lines of a small language: variable assignments
// ('a = b + #1'), 'IF <lhs> <op> <rhs> THEN ... ELSE ... END' blocks,
// labels, compares, branches and primitive instructions. The preprocessor
// lowers the IF blocks to compares and branches, and the result is run by
// one of two interpreters over a memory.Store of nine signed byte variables
// (q w e r a s d z x), the ALU scratch bit groups and the Z, N, V, C flags.
//
// In micro mode every line is re-parsed as it is executed, and arithmetic is
// performed one bit at a time through the scratch groups. In ISA mode the
// program is first assembled to 16-bit instructions (4-bit opcode, 4-bit
// destination, 8-bit argument) with PC-relative branches.
package cpu
