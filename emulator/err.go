package emulator

import (
	"errors"

	"github.com/ezrec/ledcpu/translate"
)

var f = translate.From

var (
	ErrPresetSyntax = errors.New(f("preset must be NAME=VALUE"))
	ErrPresetCell   = errors.New(f("preset cell unknown"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
