package mem

import (
	"errors"

	"github.com/ezrec/ucboot/translate"
)

var f = translate.From

var (
	ErrReadOnly    = errors.New(f("backing is read-only"))
	ErrFrozen      = errors.New(f("flash is frozen"))
	ErrImageSize   = errors.New(f("image exceeds backing size"))
	ErrMapOverlap  = errors.New(f("mapping overlaps existing mapping"))
	ErrBackingSize = errors.New(f("backing smaller than region"))
)

// ErrBusFault reports an access outside any mapped region, or a write
// to a region without write permission. On real hardware this is an
// undefined-behavior boundary; the simulation reports it instead.
type ErrBusFault struct {
	Addr  uint32
	Write bool
}

func (err *ErrBusFault) Error() string {
	kind := "read"
	if err.Write {
		kind = "write"
	}
	return f("bus fault: %v at %08x", kind, err.Addr)
}
