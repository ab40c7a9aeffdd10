package device

import (
	"errors"

	"github.com/ezrec/ucboot/translate"
)

var f = translate.From

var (
	ErrBlockUnknown = errors.New(f("peripheral block unknown"))
	ErrEndian       = errors.New(f("endian must be 'little' or 'big'"))
)

// ErrScript reports a malformed device description value.
type ErrScript struct {
	Key string
	Err error
}

func (err *ErrScript) Error() string {
	return f("device script: %v: %v", err.Key, err.Err)
}

func (err *ErrScript) Unwrap() error {
	return err.Err
}

// ErrScriptValue reports a device description value of the wrong shape.
type ErrScriptValue string

func (err ErrScriptValue) Error() string {
	return f("'%v' has the wrong type", string(err))
}

// ErrScriptMissing reports a required device description value that the
// script never assigned.
type ErrScriptMissing string

func (err ErrScriptMissing) Error() string {
	return f("'%v' is not defined", string(err))
}
