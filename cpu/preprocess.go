// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"strings"
)

// ifOperators are the IF comparison operators, two character operators
// first so that '<=' is not read as '<'.
var ifOperators = []string{"==", "!=", "<=", ">=", "<", ">"}

// parseIfHeader splits 'IF <lhs> <op> <rhs> THEN'.
func parseIfHeader(text string) (lhs string, op string, rhs string, ok bool) {
	upper := strings.ToUpper(text)
	if len(upper) != len(text) || !strings.HasPrefix(upper, "IF ") {
		return
	}

	n := strings.LastIndex(upper, " THEN")
	if n < 0 || len(strings.TrimSpace(upper[n+len(" THEN"):])) != 0 {
		return
	}

	cond := strings.TrimSpace(text[len("IF "):n])
	for _, try := range ifOperators {
		k := strings.Index(cond, try)
		if k < 0 {
			continue
		}
		lhs = strings.TrimSpace(cond[:k])
		op = try
		rhs = strings.TrimSpace(cond[k+len(try):])
		ok = true
		return
	}

	return
}

// preprocessor holds the state of a single Preprocess pass.
type preprocessor struct {
	stack  frameStack
	count  int
	out    []string
	origin []int
	lineno int
}

func (pre *preprocessor) emit(lines ...string) {
	for _, line := range lines {
		pre.out = append(pre.out, line)
		pre.origin = append(pre.origin, pre.lineno)
	}
}

// compare emits the comparison and the branch taken when it is false.
func (pre *preprocessor) compare(lhs string, op string, rhs string, frame *ifFrame) {
	value, err := parseNumber(rhs)
	immediate := err == nil
	if immediate {
		pre.emit(fmt.Sprintf("CMPI %s, #%d", lhs, value))
	} else {
		pre.emit(fmt.Sprintf("CMP %s, %s", lhs, rhs))
	}

	els := frame.Else
	v0 := frame.Base + "_V0"
	cont := frame.Base + "_CONT"

	// Against zero V is always clear, so N and Z decide.
	if immediate && value == 0 {
		switch op {
		case "<":
			pre.emit("BPL " + els)
			return
		case ">=":
			pre.emit("BMI " + els)
			return
		case "<=":
			le0 := frame.Base + "_LE0_TRUE"
			pre.emit("BEQ "+le0, "BPL "+els, le0+":")
			return
		case ">":
			pre.emit("BMI "+els, "BEQ "+els)
			return
		}
	}

	// Signed order is N xor V.
	switch op {
	case "==":
		pre.emit("BNE " + els)
	case "!=":
		pre.emit("BEQ " + els)
	case "<":
		pre.emit("BVC "+v0, "BMI "+els, "JMP "+cont, v0+":", "BPL "+els, cont+":")
	case ">=":
		pre.emit("BVC "+v0, "BPL "+els, "JMP "+cont, v0+":", "BMI "+els, cont+":")
	case "<=":
		pre.emit("BEQ "+cont, "BVC "+v0, "BMI "+els, "JMP "+cont, v0+":", "BPL "+els, cont+":")
	case ">":
		pre.emit("BEQ "+els, "BVC "+v0, "BPL "+els, "JMP "+cont, v0+":", "BMI "+els, cont+":")
	default:
		pre.emit("JMP " + els)
	}
}

// close emits the join point of a frame.
func (pre *preprocessor) close(frame ifFrame) {
	if !frame.HasElse {
		pre.emit(frame.Else + ":")
	}
	pre.emit(frame.End + ":")
}

func (pre *preprocessor) line(line string) {
	text := strings.TrimSpace(line)
	upper := strings.ToUpper(text)

	switch upper {
	case "ELSE", "ELSE:":
		frame := pre.stack.Peek()
		if frame == nil || frame.HasElse {
			pre.emit(line)
			return
		}
		pre.emit("JMP "+frame.End, frame.Else+":")
		frame.HasElse = true
		return
	case "END", "END IF", "ENDIF":
		frame, ok := pre.stack.Pop()
		if !ok {
			pre.emit(line)
			return
		}
		pre.close(frame)
		return
	}

	lhs, op, rhs, ok := parseIfHeader(text)
	if !ok {
		pre.emit(line)
		return
	}

	base := fmt.Sprintf("__IF%d", pre.count)
	pre.count++
	frame := ifFrame{
		Base: base,
		Else: base + "_ELSE",
		End:  base + "_END",
	}
	pre.compare(lhs, op, rhs, &frame)
	pre.stack.Push(frame)
}

// PreprocessMap lowers IF/ELSE/END blocks, and also returns, for every
// output line, the index of the input line that produced it.
func PreprocessMap(lines []string) (out []string, origin []int) {
	pre := &preprocessor{}

	for n, line := range lines {
		pre.lineno = n
		pre.line(line)
	}

	// Unclosed blocks end at the end of the program.
	if len(lines) > 0 {
		pre.lineno = len(lines) - 1
	}
	for !pre.stack.Empty() {
		frame, _ := pre.stack.Pop()
		pre.close(frame)
	}

	return pre.out, pre.origin
}

// Preprocess expands 'IF <lhs> <op> <rhs> THEN ... [ELSE ...] END' blocks
// into compares, conditional branches and generated '__IF<n>_*' labels.
// Every other line is passed through unchanged.
func Preprocess(lines []string) (out []string) {
	out, _ = PreprocessMap(lines)
	return
}
