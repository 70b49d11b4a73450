// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ezrec/ledcpu/alu"
	"github.com/ezrec/ledcpu/memory"
)

var (
	reLabel      = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):\s*(.*)$`)
	reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// isComment returns true for blank lines and '#' comment lines.
func isComment(text string) bool {
	return len(text) == 0 || text[0] == '#'
}

// splitLabel splits a leading 'name:' from the rest of a line.
func splitLabel(text string) (label string, rest string) {
	match := reLabel.FindStringSubmatch(text)
	if match == nil {
		return "", text
	}

	return match[1], strings.TrimSpace(match[2])
}

// cutWord splits the first whitespace delimited word from a line.
func cutWord(text string) (word string, rest string) {
	n := strings.IndexFunc(text, unicode.IsSpace)
	if n < 0 {
		return text, ""
	}

	return text[:n], strings.TrimSpace(text[n:])
}

// parseNumber parses a bare or '#' prefixed integer, decimal or 0x-hex.
func parseNumber(word string) (value int, err error) {
	text := strings.TrimSpace(word)
	text = strings.TrimSpace(strings.TrimPrefix(text, "#"))
	v64, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	return
}

// canonical lower-cases the fixed variable names. Other cell names keep
// their case.
func canonical(name string) string {
	if _, ok := memory.VariableId(name); ok {
		return strings.ToLower(name)
	}
	return name
}

func parseVariable(word string) (name string, err error) {
	word = strings.TrimSpace(word)
	if !reIdentifier.MatchString(word) {
		err = ErrParseValue(word)
		return
	}

	name = canonical(word)
	return
}

func parseOperand(word string) (operand Operand, err error) {
	value, err := parseNumber(word)
	if err == nil {
		operand = Imm(value)
		return
	}

	name, err := parseVariable(word)
	if err != nil {
		return
	}

	operand = Var(name)
	return
}

func parseImmediate(word string) (operand Operand, err error) {
	operand, err = parseOperand(word)
	if err == nil && !operand.Immediate {
		err = ErrImmediateMissing
	}
	return
}

func parseRegister(word string) (operand Operand, err error) {
	operand, err = parseOperand(word)
	if err == nil && operand.Immediate {
		err = ErrImmediateInvalid
	}
	return
}

func parseLabel(word string) (label string, err error) {
	label = strings.TrimSpace(word)
	if !reIdentifier.MatchString(label) {
		err = ErrTargetInvalid
	}
	return
}

func parseGroup(word string) (group string, err error) {
	group = strings.ToUpper(strings.TrimSpace(word))
	if !memory.IsGroup(group) {
		err = ErrGroupInvalid
	}
	return
}

// splitArgs splits comma separated arguments, requiring exactly count.
func splitArgs(args string, count int) (words []string, err error) {
	if len(args) == 0 {
		if count > 0 {
			err = ErrOpcodeValueMissing
		}
		return
	}

	words = strings.Split(args, ",")
	for n := range words {
		words[n] = strings.TrimSpace(words[n])
	}

	switch {
	case len(words) > count:
		err = ErrOpcodeExtraArgs
	case len(words) < count:
		err = ErrOpcodeValueMissing
	}

	return
}

// Assignment is a high level 'dst = a', 'dst = a + b' or 'dst = a - b'.
type Assignment struct {
	Dst string
	A   Operand
	Op  byte // '+', '-', or 0 for a plain copy.
	B   Operand
}

// parseExpression parses 'a', 'a + b' or 'a - b'. A leading '-' is the
// sign of the first operand.
func parseExpression(expr string) (a Operand, op byte, b Operand, err error) {
	expr = strings.TrimSpace(expr)
	if len(expr) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	if _, nerr := parseNumber(expr); nerr == nil {
		a, err = parseOperand(expr)
		return
	}

	n := strings.IndexByte(expr, '+')
	if n >= 0 {
		op = '+'
	} else if n = strings.IndexByte(expr[1:], '-'); n >= 0 {
		n++
		op = '-'
	}

	if op == 0 {
		a, err = parseOperand(expr)
		return
	}

	a, err = parseOperand(expr[:n])
	if err != nil {
		return
	}
	b, err = parseOperand(expr[n+1:])
	return
}

func parseAssignment(text string) (asg Assignment, err error) {
	left, right, _ := strings.Cut(text, "=")

	asg.Dst, err = parseVariable(left)
	if err != nil {
		return
	}

	asg.A, asg.Op, asg.B, err = parseExpression(right)
	return
}

func isVar(o Operand, name string) bool {
	return !o.Immediate && o.Name == name
}

func loadBits(group string, o Operand) Operation {
	if o.Immediate {
		return BitOp{Code: BIT_LOAD, Group: group, Value: o.Value}
	}
	return BitOp{Code: BIT_UNPACK, Group: group, Var: o.Name}
}

// Micro lowers the assignment to micro-mode operations. Arithmetic that is
// not an in-place immediate update goes through the scratch bit groups.
func (asg Assignment) Micro() (ops []Operation) {
	src1 := memory.GROUP_SRC1
	src2 := memory.GROUP_SRC2

	switch asg.Op {
	case '+':
		if isVar(asg.A, asg.Dst) && asg.B.Immediate {
			return []Operation{Arith{Op: alu.OP_ADD, Dst: asg.Dst, Src: asg.B}}
		}
		if isVar(asg.B, asg.Dst) && asg.A.Immediate {
			return []Operation{Arith{Op: alu.OP_ADD, Dst: asg.Dst, Src: asg.A}}
		}
		return []Operation{
			loadBits(src1, asg.A),
			loadBits(src2, asg.B),
			BitOp{Code: BIT_ADD8},
			BitOp{Code: BIT_PACK, Var: asg.Dst},
		}
	case '-':
		if isVar(asg.A, asg.Dst) {
			return []Operation{Arith{Op: alu.OP_SUB, Dst: asg.Dst, Src: asg.B}}
		}
		return []Operation{
			loadBits(src1, asg.A),
			loadBits(src2, asg.B),
			BitOp{Code: BIT_SUB8},
			BitOp{Code: BIT_PACK, Var: asg.Dst},
		}
	}

	if asg.A.Immediate {
		return []Operation{Move{Dst: asg.Dst, Src: asg.A}}
	}

	return []Operation{
		loadBits(src1, asg.A),
		BitOp{Code: BIT_COPY, Group: memory.GROUP_RES, Src: src1},
		BitOp{Code: BIT_PACK, Var: asg.Dst},
	}
}

// Registers lowers the assignment to register-to-register operations.
func (asg Assignment) Registers() (ops []Operation) {
	dst := asg.Dst

	switch asg.Op {
	case '+':
		switch {
		case isVar(asg.A, dst):
			return []Operation{Arith{Op: alu.OP_ADD, Dst: dst, Src: asg.B}}
		case isVar(asg.B, dst):
			return []Operation{Arith{Op: alu.OP_ADD, Dst: dst, Src: asg.A}}
		}
		return []Operation{
			Move{Dst: dst, Src: asg.A},
			Arith{Op: alu.OP_ADD, Dst: dst, Src: asg.B},
		}
	case '-':
		switch {
		case isVar(asg.A, dst):
			return []Operation{Arith{Op: alu.OP_SUB, Dst: dst, Src: asg.B}}
		case isVar(asg.B, dst) && asg.A.Immediate && asg.A.Value == 0:
			return []Operation{Negate{Dst: dst}}
		case isVar(asg.B, dst):
			// dst = a - dst: dst is read before it is overwritten.
			return []Operation{
				Negate{Dst: dst},
				Arith{Op: alu.OP_ADD, Dst: dst, Src: asg.A},
			}
		}
		return []Operation{
			Move{Dst: dst, Src: asg.A},
			Arith{Op: alu.OP_SUB, Dst: dst, Src: asg.B},
		}
	}

	return []Operation{Move{Dst: dst, Src: asg.A}}
}

// arithMnemonic maps register and immediate arithmetic mnemonics.
var arithMnemonic = map[string]struct {
	op        alu.Op
	immediate bool
}{
	"ADD":  {alu.OP_ADD, false},
	"ADDI": {alu.OP_ADD, true},
	"SUB":  {alu.OP_SUB, false},
	"SUBI": {alu.OP_SUB, true},
	"AND":  {alu.OP_AND, false},
	"OR":   {alu.OP_OR, false},
	"XOR":  {alu.OP_XOR, false},
}

// parseStatement parses a label-free, non-blank line.
func parseStatement(text string, mode Mode) (ops []Operation, err error) {
	if strings.Contains(text, "=") {
		var asg Assignment
		asg, err = parseAssignment(text)
		if err != nil {
			return
		}
		if mode == MODE_ISA {
			ops = asg.Registers()
		} else {
			ops = asg.Micro()
		}
		return
	}

	word, args := cutWord(text)
	mnemonic := strings.ToUpper(word)

	var op Operation
	switch mnemonic {
	case "NOP", "HALT", "ADD8", "SUB8", "PRINT_RES":
		_, err = splitArgs(args, 0)
		if err != nil {
			return
		}
		switch mnemonic {
		case "NOP":
			op = Control{Code: CONTROL_NOP}
		case "HALT":
			op = Control{Code: CONTROL_HALT}
		case "ADD8":
			op = BitOp{Code: BIT_ADD8}
		case "SUB8":
			op = BitOp{Code: BIT_SUB8}
		case "PRINT_RES":
			op = BitOp{Code: BIT_PRINT}
		}
	case "PRINT":
		var a, b Operand
		var how byte
		a, how, b, err = parseExpression(args)
		if err != nil {
			return
		}
		if how == 0 && !a.Immediate {
			op = Control{Code: CONTROL_PRINT, Name: a.Name}
			break
		}
		if how == 0 || mode == MODE_ISA {
			err = ErrParseValue(args)
			return
		}
		sum := BitOp{Code: BIT_ADD8}
		if how == '-' {
			sum.Code = BIT_SUB8
		}
		ops = []Operation{
			loadBits(memory.GROUP_SRC1, a),
			loadBits(memory.GROUP_SRC2, b),
			sum,
			BitOp{Code: BIT_PRINT},
		}
		return
	case "MOV", "MOVI":
		var words []string
		words, err = splitArgs(args, 2)
		if err != nil {
			return
		}
		var move Move
		move.Dst, err = parseVariable(words[0])
		if err != nil {
			return
		}
		if mnemonic == "MOVI" {
			move.Src, err = parseImmediate(words[1])
		} else {
			move.Src, err = parseOperand(words[1])
		}
		op = move
	case "ADD", "ADDI", "SUB", "SUBI", "AND", "OR", "XOR":
		var words []string
		words, err = splitArgs(args, 2)
		if err != nil {
			return
		}
		info := arithMnemonic[mnemonic]
		arith := Arith{Op: info.op}
		arith.Dst, err = parseVariable(words[0])
		if err != nil {
			return
		}
		switch {
		case info.immediate:
			arith.Src, err = parseImmediate(words[1])
		case info.op == alu.OP_ADD || info.op == alu.OP_SUB:
			arith.Src, err = parseOperand(words[1])
		default:
			arith.Src, err = parseRegister(words[1])
		}
		op = arith
	case "SHL", "SHR", "NEG":
		var words []string
		words, err = splitArgs(args, 1)
		if err != nil {
			return
		}
		var dst string
		dst, err = parseVariable(words[0])
		switch mnemonic {
		case "SHL":
			op = Arith{Op: alu.OP_SHL, Dst: dst}
		case "SHR":
			op = Arith{Op: alu.OP_SHR, Dst: dst}
		default:
			op = Negate{Dst: dst}
		}
	case "CMP", "CMPI":
		var words []string
		words, err = splitArgs(args, 2)
		if err != nil {
			return
		}
		var cmp Compare
		cmp.A, err = parseVariable(words[0])
		if err != nil {
			return
		}
		if mnemonic == "CMPI" {
			cmp.B, err = parseImmediate(words[1])
		} else {
			cmp.B, err = parseOperand(words[1])
		}
		op = cmp
	case "JMP", "BEQ", "BNE", "BPL", "BMI", "BVC", "BVS", "BCC", "BCS":
		var label string
		label, err = parseLabel(args)
		op = Branch{Cond: condMap[mnemonic], Label: label}
	default:
		if mode == MODE_MICRO {
			op, err = parseBitOp(mnemonic, args)
		} else {
			err = ErrInstructionInvalid
		}
	}

	if err != nil {
		return
	}

	ops = []Operation{op}
	return
}

// parseBitOp parses the micro-mode scratch group mnemonics.
func parseBitOp(mnemonic string, args string) (op Operation, err error) {
	var words []string

	switch mnemonic {
	case "UNPACK1", "UNPACK2", "PACK", "CLEARBITS":
		words, err = splitArgs(args, 1)
	case "UNPACK", "LOADI8_BITS", "COPYBITS":
		words, err = splitArgs(args, 2)
	default:
		err = ErrInstructionInvalid
	}
	if err != nil {
		return
	}

	bits := BitOp{}
	switch mnemonic {
	case "UNPACK1", "UNPACK2":
		bits.Code = BIT_UNPACK
		bits.Group = memory.GROUP_SRC1
		if mnemonic == "UNPACK2" {
			bits.Group = memory.GROUP_SRC2
		}
		bits.Var, err = parseVariable(words[0])
	case "UNPACK":
		bits.Code = BIT_UNPACK
		bits.Group, err = parseGroup(words[0])
		if err == nil {
			bits.Var, err = parseVariable(words[1])
		}
	case "PACK":
		bits.Code = BIT_PACK
		bits.Var, err = parseVariable(words[0])
	case "CLEARBITS":
		bits.Code = BIT_CLEAR
		bits.Group, err = parseGroup(words[0])
	case "LOADI8_BITS":
		bits.Code = BIT_LOAD
		bits.Group, err = parseGroup(words[0])
		if err == nil {
			bits.Value, err = parseNumber(words[1])
		}
	case "COPYBITS":
		bits.Code = BIT_COPY
		bits.Group, err = parseGroup(words[0])
		if err == nil {
			bits.Src, err = parseGroup(words[1])
		}
	}

	op = bits
	return
}

// ParseLine parses one preprocessed source line into micro-mode operations.
// Blank and '#' comment lines are a single no-op; a leading 'name:' yields
// a label marker.
func ParseLine(line string) (ops []Operation, err error) {
	text := strings.TrimSpace(line)
	if isComment(text) {
		ops = []Operation{Control{Code: CONTROL_NOP}}
		return
	}

	label, rest := splitLabel(text)
	if len(label) != 0 {
		ops = append(ops, Control{Code: CONTROL_LABEL, Name: label})
		if len(rest) == 0 {
			return
		}
	}

	more, err := parseStatement(rest, MODE_MICRO)
	if err != nil {
		ops = nil
		return
	}

	ops = append(ops, more...)
	return
}
