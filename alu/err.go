package alu

import (
	"errors"

	"github.com/ezrec/ledcpu/translate"
)

var f = translate.From

var (
	ErrOpInvalid = errors.New(f("alu op invalid"))
)
