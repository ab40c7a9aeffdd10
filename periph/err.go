package periph

import (
	"errors"

	"github.com/ezrec/ucboot/translate"
)

var f = translate.From

var (
	ErrRegUnknown = errors.New(f("register unknown"))
)

// ErrPinSyntax reports pin text that is not a bank letter plus number.
type ErrPinSyntax string

func (err ErrPinSyntax) Error() string {
	return f("'%v' is not a pin name", string(err))
}
