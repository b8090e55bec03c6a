package config

import (
	"github.com/ezrec/vonsim/translate"
)

var f = translate.From

// ErrConfig locates an error in a configuration file.
type ErrConfig struct {
	Path string
	Err  error
}

func (err *ErrConfig) Error() string {
	return f("config %v: %v", err.Path, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}
