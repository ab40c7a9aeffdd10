package vector

import (
	"errors"

	"github.com/ezrec/ucboot/translate"
)

var f = translate.From

var (
	ErrSlotStack = errors.New(f("slot 0 is the stack slot and stays zero"))
)

// ErrSlotRange reports a slot index outside the table.
type ErrSlotRange int

func (err ErrSlotRange) Error() string {
	return f("slot %d out of range", int(err))
}
