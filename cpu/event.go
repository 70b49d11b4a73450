package cpu

import (
	"fmt"
)

// Stage is a pipeline stage of a single CPU step.
type Stage int

//go:generate go tool stringer -linecomment -type=Stage
const (
	STAGE_FETCH     = Stage(0) // FETCH
	STAGE_DECODE    = Stage(1) // DECODE
	STAGE_EXECUTE   = Stage(2) // EXECUTE
	STAGE_WRITEBACK = Stage(3) // WRITEBACK
)

// Event is delivered to Cpu.Trace at every stage boundary.
type Event struct {
	Stage Stage
	Pc    int    // Program counter of the stage.
	Text  string // Line, instruction or disassembly.
}

func (ev Event) String() string {
	return fmt.Sprintf("[%v] pc=%02d %s", ev.Stage, ev.Pc, ev.Text)
}
