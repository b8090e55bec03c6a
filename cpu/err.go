package cpu

import (
	"errors"

	"github.com/ezrec/vonsim/translate"
)

var f = translate.From

var (
	ErrOutOfRange     = errors.New(f("address out of range"))
	ErrProgramTooLong = errors.New(f("program too long"))
)

// ErrAddress reports an access to an address outside of memory.
type ErrAddress Address

func (ea ErrAddress) Error() string {
	return f("address %v %v", int(ea), ErrOutOfRange)
}

func (ea ErrAddress) Unwrap() error {
	return ErrOutOfRange
}
