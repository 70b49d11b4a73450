// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package alu

// bitPair is a single-bit result with its carry (or borrow) out.
type bitPair struct {
	bit   int
	carry int
}

// adderLUT is the 1-bit full adder, indexed by a<<2 | b<<1 | carry-in.
var adderLUT = [8]bitPair{
	{0, 0}, // 0 + 0 + 0
	{1, 0}, // 0 + 0 + 1
	{1, 0}, // 0 + 1 + 0
	{0, 1}, // 0 + 1 + 1
	{1, 0}, // 1 + 0 + 0
	{0, 1}, // 1 + 0 + 1
	{0, 1}, // 1 + 1 + 0
	{1, 1}, // 1 + 1 + 1
}

// subtractorLUT is the 1-bit full subtractor, indexed by a<<2 | b<<1 | borrow-in.
var subtractorLUT = [8]bitPair{
	{0, 0}, // 0 - 0 - 0
	{1, 1}, // 0 - 0 - 1
	{1, 1}, // 0 - 1 - 0
	{0, 1}, // 0 - 1 - 1
	{1, 0}, // 1 - 0 - 0
	{0, 0}, // 1 - 0 - 1
	{0, 0}, // 1 - 1 - 0
	{1, 1}, // 1 - 1 - 1
}

// Two input gates, indexed by a<<1 | b.
var (
	andLUT = [4]int{0, 0, 0, 1}
	orLUT  = [4]int{0, 1, 1, 1}
	xorLUT = [4]int{0, 1, 1, 0}
)
