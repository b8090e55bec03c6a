package emulator

import (
	"errors"

	"github.com/ezrec/vonsim/cpu"
	"github.com/ezrec/vonsim/translate"
)

var f = translate.From

var (
	ErrCycleBudget = errors.New(f("cycle budget exhausted"))
	ErrNotRunnable = errors.New(f("machine is halted or running"))
)

// ErrListing locates an assembly error in a listing file.
type ErrListing struct {
	Path string
	Err  error
}

func (err *ErrListing) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrListing) Unwrap() error {
	return err.Err
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Address cpu.Address
	LineNo  int
	Err     error
}

func (err *ErrRuntime) Error() string {
	return f("address %v line %d %v", err.Address, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
