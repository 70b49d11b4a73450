package cpu

import (
	"fmt"
	"strings"

	"github.com/ezrec/ledcpu/alu"
	"github.com/ezrec/ledcpu/memory"
)

// Operation is one primitive operation of a parsed source line.
//
// The concrete types are Control, Move, Arith, Negate, Compare, Branch and
// BitOp.
type Operation interface {
	fmt.Stringer
	operation()
}

// Operand is a variable name or an immediate value.
type Operand struct {
	Name      string // Variable name, if not Immediate.
	Value     int    // Immediate value.
	Immediate bool   // Set if Value is the operand.
}

// Var creates a variable operand.
func Var(name string) Operand {
	return Operand{Name: name}
}

// Imm creates an immediate operand.
func Imm(value int) Operand {
	return Operand{Value: value, Immediate: true}
}

// Read returns the operand value.
func (o Operand) Read(store memory.Store) int {
	if o.Immediate {
		return memory.Wrap(o.Value)
	}
	return store.Get(o.Name)
}

func (o Operand) String() string {
	if o.Immediate {
		return fmt.Sprintf("#%d", o.Value)
	}
	return o.Name
}

// ControlCode selects the Control operation.
type ControlCode int

const (
	CONTROL_NOP   = ControlCode(0)
	CONTROL_HALT  = ControlCode(1)
	CONTROL_LABEL = ControlCode(2)
	CONTROL_PRINT = ControlCode(3)
)

// Control is a no-op, halt, label marker, or print.
type Control struct {
	Code ControlCode
	Name string // Label or variable name.
	Text string // Source of an unparseable line lowered to a no-op.
}

func (Control) operation() {}

func (op Control) String() string {
	switch op.Code {
	case CONTROL_HALT:
		return "HALT"
	case CONTROL_LABEL:
		return op.Name + ":"
	case CONTROL_PRINT:
		return "PRINT " + op.Name
	}
	if len(op.Text) != 0 {
		return "NOP ; " + op.Text
	}
	return "NOP"
}

// Move copies an operand into a variable. Flags are unchanged.
type Move struct {
	Dst string
	Src Operand
}

func (Move) operation() {}

func (op Move) String() string {
	if op.Src.Immediate {
		return fmt.Sprintf("MOVI %s, %v", op.Dst, op.Src)
	}
	return fmt.Sprintf("MOV %s, %v", op.Dst, op.Src)
}

// Arith is Dst = Dst op Src, through the ALU. Src is unused by shifts.
type Arith struct {
	Op  alu.Op
	Dst string
	Src Operand
}

func (Arith) operation() {}

func (op Arith) String() string {
	name := strings.ToUpper(op.Op.String())
	if op.Op.Unary() {
		return name + " " + op.Dst
	}
	if op.Src.Immediate && (op.Op == alu.OP_ADD || op.Op == alu.OP_SUB) {
		name += "I"
	}
	return fmt.Sprintf("%s %s, %v", name, op.Dst, op.Src)
}

// Negate is Dst = 0 - Dst, through the subtractor.
type Negate struct {
	Dst string
}

func (Negate) operation() {}

func (op Negate) String() string {
	return "NEG " + op.Dst
}

// Compare sets the flags from A - B, discarding the difference.
type Compare struct {
	A string
	B Operand
}

func (Compare) operation() {}

func (op Compare) String() string {
	if op.B.Immediate {
		return fmt.Sprintf("CMPI %s, %v", op.A, op.B)
	}
	return fmt.Sprintf("CMP %s, %v", op.A, op.B)
}

// Branch transfers control to Label when Cond holds.
type Branch struct {
	Cond  Cond
	Label string
}

func (Branch) operation() {}

func (op Branch) String() string {
	return strings.ToUpper(op.Cond.String()) + " " + op.Label
}

// BitCode selects the BitOp operation.
type BitCode int

const (
	BIT_UNPACK = BitCode(0) // Variable into group.
	BIT_LOAD   = BitCode(1) // Immediate into group.
	BIT_CLEAR  = BitCode(2) // Zero a group.
	BIT_COPY   = BitCode(3) // Group into group.
	BIT_PACK   = BitCode(4) // RES into variable.
	BIT_ADD8   = BitCode(5) // RES = SRC1 + SRC2.
	BIT_SUB8   = BitCode(6) // RES = SRC1 - SRC2.
	BIT_PRINT  = BitCode(7) // Print RES.
)

// BitOp is a micro-mode operation on the ALU scratch bit groups.
type BitOp struct {
	Code  BitCode
	Group string // Destination group.
	Src   string // Source group of BIT_COPY.
	Var   string // Variable of BIT_UNPACK and BIT_PACK.
	Value int    // Immediate of BIT_LOAD.
}

func (BitOp) operation() {}

func (op BitOp) String() string {
	switch op.Code {
	case BIT_UNPACK:
		return fmt.Sprintf("UNPACK %s, %s", op.Group, op.Var)
	case BIT_LOAD:
		return fmt.Sprintf("LOADI8_BITS %s, #%d", op.Group, op.Value)
	case BIT_CLEAR:
		return "CLEARBITS " + op.Group
	case BIT_COPY:
		return fmt.Sprintf("COPYBITS %s, %s", op.Group, op.Src)
	case BIT_PACK:
		return "PACK " + op.Var
	case BIT_ADD8:
		return "ADD8"
	case BIT_SUB8:
		return "SUB8"
	case BIT_PRINT:
		return "PRINT_RES"
	}
	return fmt.Sprintf("BITOP%d", int(op.Code))
}
