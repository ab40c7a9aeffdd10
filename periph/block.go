package periph

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/ezrec/ucboot/mem"
)

// RegDef names one fixed-width register within a block layout, at a
// byte offset from the block's bank base.
type RegDef struct {
	Name   string // Register name from the datasheet ("MODER", "ODR", ...).
	Offset uint32 // Byte offset from the bank base.
}

// Block describes one register-block layout replicated across banks:
// bank n starts at Base + n*Stride. The addresses come bit-exact from
// the device datasheet.
type Block struct {
	Name   string   // Peripheral name ("GPIO", ...).
	Base   uint32   // Address of bank 0.
	Stride uint32   // Address distance between consecutive banks.
	Banks  uint32   // Number of banks present on the device.
	Regs   []RegDef // Register layout shared by every bank.
}

// BankBase returns the base address of a bank. Indexes at or past Banks
// are a caller contract violation and are not checked.
func (block *Block) BankBase(bank uint8) uint32 {
	return block.Base + uint32(bank)*block.Stride
}

// Span returns the region size covered by all banks of the block.
func (block *Block) Span() uint32 {
	return block.Banks * block.Stride
}

// Offset looks up a register's byte offset by name.
func (block *Block) Offset(name string) (offset uint32, err error) {
	for _, reg := range block.Regs {
		if reg.Name == name {
			offset = reg.Offset
			return
		}
	}

	err = errors.Join(ErrRegUnknown, errors.New(block.Name+"."+name))
	return
}

// Addr returns the absolute address of a named register in a bank.
func (block *Block) Addr(bank uint8, name string) (addr uint32, err error) {
	offset, err := block.Offset(name)
	if err != nil {
		return
	}

	addr = block.BankBase(bank) + offset
	return
}

// Defines iterates the block's address constants by name, for export to
// application build systems.
func (block *Block) Defines() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if !yield(block.Name+"_BASE", fmt.Sprintf("0x%x", block.Base)) {
			return
		}
		if !yield(block.Name+"_STRIDE", fmt.Sprintf("0x%x", block.Stride)) {
			return
		}

		regs := slices.Clone(block.Regs)
		slices.SortFunc(regs, func(a, b RegDef) int { return int(a.Offset) - int(b.Offset) })
		for _, reg := range regs {
			if !yield(block.Name+"_"+reg.Name, fmt.Sprintf("0x%x", reg.Offset)) {
				return
			}
		}
	}
}

// Bank binds one bank of a block to a bus. Every register access goes
// through the bus and is observable; none is cached or elided.
type Bank struct {
	block *Block
	bus   *mem.Bus
	base  uint32
}

// Bank returns a handle for one bank of the block on a bus.
func (block *Block) Bank(bus *mem.Bus, bank uint8) *Bank {
	return &Bank{
		block: block,
		bus:   bus,
		base:  block.BankBase(bank),
	}
}

// Base returns the bank's base address.
func (bank *Bank) Base() uint32 {
	return bank.base
}

// Read reads a named register.
func (bank *Bank) Read(name string) (value uint32, err error) {
	offset, err := bank.block.Offset(name)
	if err != nil {
		return
	}

	return bank.bus.Read32(bank.base + offset)
}

// Write writes a named register.
func (bank *Bank) Write(name string, value uint32) (err error) {
	offset, err := bank.block.Offset(name)
	if err != nil {
		return
	}

	return bank.bus.Write32(bank.base+offset, value)
}

// Update read-modify-writes a field of a named register, leaving every
// bit outside the field unchanged. With interrupts out of the picture
// there is exactly one thread of control, so the read and write need no
// further ordering between them.
func (bank *Bank) Update(name string, field Field, value uint32) (err error) {
	reg, err := bank.Read(name)
	if err != nil {
		return
	}

	return bank.Write(name, field.Insert(reg, value))
}

// SetPinMode sets the 2-bit mode field of a pin in the bank's packed
// mode register. Only bits [2n+1:2n] of the register change.
func (bank *Bank) SetPinMode(reg string, num uint8, mode uint32) (err error) {
	return bank.Update(reg, ModeField(num), mode)
}
