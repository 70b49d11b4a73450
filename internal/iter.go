package internal

import (
	"fmt"
	"iter"
)

// IterSeqConcat yields every value of each sequence in turn.
func IterSeqConcat[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, seq := range seqs {
			for val := range seq {
				if !yield(val) {
					return
				}
			}
		}
	}
}

// IterSeqFormat yields fmt.Sprintf(format, n) for n in [0, count).
func IterSeqFormat(format string, count int) iter.Seq[string] {
	return func(yield func(string) bool) {
		for n := range count {
			if !yield(fmt.Sprintf(format, n)) {
				return
			}
		}
	}
}
