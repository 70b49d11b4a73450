package cpu

import (
	"errors"

	"github.com/ezrec/ledcpu/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrProgramMissing   = errors.New(f("no program loaded"))
	ErrExtDangling      = errors.New(f("EXT prefix not followed by CMP"))
	ErrConditionInvalid = errors.New(f("branch condition invalid"))
	ErrStepLimit        = errors.New(f("step limit reached"))

	// Instruction decode errors
	ErrOpcodeInvalid = errors.New(f("opcode invalid"))
	ErrBinaryLength  = errors.New(f("binary image has an odd length"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrImmediateInvalid   = errors.New(f("immediate not allowed"))
	ErrImmediateMissing   = errors.New(f("immediate required"))
	ErrTargetInvalid      = errors.New(f("target invalid"))
	ErrGroupInvalid       = errors.New(f("bit group invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrBranchRange is a branch whose target is not reachable with a signed
// 8-bit offset.
type ErrBranchRange struct {
	Index  int    // Instruction index of the branch.
	Label  string // Target label.
	Offset int    // Offset that would be required.
}

func (err ErrBranchRange) Error() string {
	return f("branch out of range at %v: %v -> %v", err.Index, err.Label, err.Offset)
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value or variable", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrFault is a runtime fault latched by the CPU.
type ErrFault struct {
	Pc   int    // Program counter of the faulting instruction.
	Text string // Instruction or source text.
	Err  error
}

func (err *ErrFault) Error() string {
	return f("fault at pc %v '%v' %v", err.Pc, err.Text, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
