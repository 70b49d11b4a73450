package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceReader(t *testing.T) {
	assert := assert.New(t)

	text := strings.Join([]string{
		"; header comment",
		".equ LIMIT 10",
		".equ COUNTER a",
		"# hash comment",
		"",
		"COUNTER = $(LIMIT * 2)   ; twenty",
		"IF COUNTER > LIMIT THEN",
		"  HALT",
		"END",
	}, "\n")

	src, err := ReadSource(strings.NewReader(text))
	assert.NoError(err)
	assert.Equal([]string{
		"a = 20",
		"IF a > 10 THEN",
		"HALT",
		"END",
	}, src.Lines)
	assert.Equal([]int{6, 7, 8, 9}, src.LineNo)
}

func TestSourceReaderPredefine(t *testing.T) {
	assert := assert.New(t)

	sr := &SourceReader{}
	sr.Predefine("BASE", "3")
	sr.Predefine("TARGET", "s")

	src, err := sr.Read(strings.NewReader("TARGET = BASE\nd = $(BASE << 4 | 1)\nq = $(LINENO)"))
	assert.NoError(err)
	assert.Equal([]string{"s = 3", "d = 49", "q = 3"}, src.Lines)
	assert.Equal("3", sr.Equate["BASE"])
}

func TestSourceReaderErrors(t *testing.T) {
	table := [](struct {
		name   string
		text   string
		lineno int
		err    error
	}){
		{"equ_short", "HALT\n.equ LIMIT", 2, ErrEquateSyntax},
		{"equ_name", ".equ 3 4", 1, ErrEquateSyntax},
		{"equ_dup", ".equ A 1\n.equ A 2", 2, ErrEquateDuplicate},
		{"expr_string", "a = $('x')", 1, ErrParseExpression("'x'")},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := ReadSource(strings.NewReader(entry.text))
			assert.ErrorIs(err, entry.err)

			var serr *ErrSyntax
			assert.True(errors.As(err, &serr))
			assert.Equal(entry.lineno, serr.LineNo)
		})
	}

	_, err := ReadSource(strings.NewReader("a = $(1 +)"))
	assert.Error(t, err)
}

func TestSourceProgram(t *testing.T) {
	assert := assert.New(t)

	text := `
; Sum 1..N into s
.equ N 5
	s = 0
	a = N
loop:
	IF a == 0 THEN
	  JMP done
	END
	s = s + a
	a = a - 1
	JMP loop
done:
	HALT
`
	src, err := ReadSource(strings.NewReader(text))
	assert.NoError(err)

	for _, mode := range modes {
		_, cells := runProgram(t, mode, src.Lines, nil)
		assert.Equal(15, cells.Get("s"), mode.String())
	}
}
