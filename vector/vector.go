// Package vector builds the interrupt/reset vector table: the fixed-size
// ordered array of 32-bit handler addresses the hardware reads at the
// very start of program storage.
//
// The table follows the explicit-set stack convention: slot 0 is always
// zero and the startup handler loads the stack pointer itself from the
// memory layout. Slot 1 holds the startup handler address. Every slot
// without a registered handler stays zero; the hardware dispatching
// through a zero slot is a configuration fault, not something this
// package (or anything at run time) can intercept.
package vector

import (
	"encoding/binary"
	"io"
)

// Reserved is the number of architecture-defined slots at the head of
// the table (initial stack pointer plus the fixed exception handlers).
// Device-specific interrupt slots follow.
const Reserved = 16

// Well-known slot indexes within the reserved range.
const (
	SlotStack   = 0 // Initial stack pointer; zero under the explicit-set convention.
	SlotStartup = 1 // Startup (reset) handler address.
)

// WordSize is the size of one table entry, in bytes.
const WordSize = 4

// Table is a vector table under construction. The zero value is not
// usable; New sizes the table for a device interrupt count.
type Table struct {
	slots []uint32
}

// New creates a table with the architecture-reserved slots plus the
// given number of device-specific interrupt slots, all zero.
func New(interrupts int) *Table {
	return &Table{
		slots: make([]uint32, Reserved+interrupts),
	}
}

// Len returns the total slot count.
func (t *Table) Len() int {
	return len(t.slots)
}

// Size returns the encoded table size, in bytes.
func (t *Table) Size() uint32 {
	return uint32(len(t.slots)) * WordSize
}

// SetStartup registers the startup handler address in slot 1.
func (t *Table) SetStartup(addr uint32) {
	t.slots[SlotStartup] = addr
}

// Set registers a handler address for a slot. Slot 0 is not assignable;
// the stack pointer is set by the startup handler, never preloaded.
func (t *Table) Set(slot int, addr uint32) (err error) {
	if slot == SlotStack {
		err = ErrSlotStack
		return
	}
	if slot < 0 || slot >= len(t.slots) {
		err = ErrSlotRange(slot)
		return
	}

	t.slots[slot] = addr
	return
}

// SetInterrupt registers a handler for a device interrupt number, which
// indexes the slots after the architecture-reserved range.
func (t *Table) SetInterrupt(irq int, addr uint32) (err error) {
	if irq < 0 || irq >= len(t.slots)-Reserved {
		err = ErrSlotRange(irq)
		return
	}

	t.slots[Reserved+irq] = addr
	return
}

// At returns the address held in a slot.
func (t *Table) At(slot int) (addr uint32, err error) {
	if slot < 0 || slot >= len(t.slots) {
		err = ErrSlotRange(slot)
		return
	}

	addr = t.slots[slot]
	return
}

// Words returns a copy of the table contents.
func (t *Table) Words() (words []uint32) {
	words = make([]uint32, len(t.slots))
	copy(words, t.slots)
	return
}

// EncodeTo writes the table in its wire layout: contiguous 32-bit words
// in the device byte order, slot 0 first.
func (t *Table) EncodeTo(w io.Writer, order binary.ByteOrder) (err error) {
	word := make([]byte, WordSize)
	for _, slot := range t.slots {
		order.PutUint32(word, slot)
		_, err = w.Write(word)
		if err != nil {
			return
		}
	}

	return
}
