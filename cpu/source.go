// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var (
	reParen = regexp.MustCompile(`\$\([^\$]*\)`)
	reWord  = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
)

// Source is a program read from a text file.
type Source struct {
	Lines  []string // Program lines, comments removed.
	LineNo []int    // File line number of each program line.
}

// SourceReader reads program text, removing comments and blank lines, and
// expanding equates and compile-time expressions.
//
//	; comment            Text after ';' is removed.
//	# comment            Lines starting with '#' are removed.
//	.equ NAME VALUE      NAME is replaced by VALUE in the lines after it.
//	$(expr)              Replaced by the integer value of the expression.
type SourceReader struct {
	Verbose bool              // If set, verbosely logs the reader actions.
	Equate  map[string]string // Map of equates.

	predefine map[string]string
}

// Predefine defines an equate, before any source is read.
func (sr *SourceReader) Predefine(equ string, value string) {
	if sr.predefine == nil {
		sr.predefine = map[string]string{}
	}
	sr.predefine[equ] = value
}

// parenEval does compile-time $(...) evaluations
func (sr *SourceReader) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{Name: "ledcpu"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range sr.Equate {
		var v int
		v, err = parseNumber(str)
		if err != nil {
			// Non-integer equates are variable or label names.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	value = int(st_int64)
	return
}

// expand handles a single comment-free, non-blank line. A false keep means
// the line was consumed as a directive.
func (sr *SourceReader) expand(line string, lineno int) (text string, keep bool, err error) {
	sr.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := sr.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	// .equ NAME VALUE
	words := strings.Fields(line)
	if words[0] == ".equ" {
		if len(words) != 3 || !reIdentifier.MatchString(words[1]) {
			err = ErrEquateSyntax
			return
		}
		_, ok := sr.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		sr.Equate[words[1]] = words[2]
		return
	}

	text = reWord.ReplaceAllStringFunc(line, func(word string) string {
		equate, ok := sr.Equate[word]
		if ok && word != "LINENO" {
			return equate
		}
		return word
	})
	keep = true

	return
}

// Read reads a program from input.
func (sr *SourceReader) Read(input io.Reader) (src *Source, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	sr.Equate = maps.Clone(sr.predefine)
	if sr.Equate == nil {
		sr.Equate = map[string]string{}
	}

	src = &Source{}
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if sr.Verbose {
			log.Printf("%v: %v", lineno, text)
		}

		line, _, _ = strings.Cut(text, ";")
		line = strings.TrimSpace(line)
		if isComment(line) {
			continue
		}

		var out string
		var keep bool
		out, keep, err = sr.expand(line, lineno)
		if err != nil {
			return
		}
		if !keep {
			continue
		}

		src.Lines = append(src.Lines, out)
		src.LineNo = append(src.LineNo, lineno)
	}

	err = scanner.Err()
	return
}

// ReadSource reads a program from input with no predefined equates.
func ReadSource(input io.Reader) (src *Source, err error) {
	sr := &SourceReader{}
	return sr.Read(input)
}
