package image

import (
	"errors"

	"github.com/ezrec/ucboot/translate"
)

var f = translate.From

var (
	ErrVectorSize   = errors.New(f("vector table sized for a different device"))
	ErrVectorOffset = errors.New(f("vector table not at flash base"))
	ErrHexEmpty     = errors.New(f("hex input holds no data"))
)
