// Package device loads target device descriptions from Starlark
// scripts: the flash and RAM geometry, the device interrupt count, and
// the peripheral register blocks, all transcribed from the datasheet.
package device

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/ucboot/internal"
	"github.com/ezrec/ucboot/layout"
	"github.com/ezrec/ucboot/periph"
	"github.com/ezrec/ucboot/vector"
)

// Well-known region names used by the image assembler.
const (
	RegionFlash = "flash"
	RegionRAM   = "sram"
)

// Device is one target device description.
type Device struct {
	Name       string         // Device name ("stm32f429", ...).
	Endian     string         // Byte order: "little" (default) or "big".
	Flash      layout.Region  // Program storage geometry.
	RAM        layout.Region  // Working memory geometry.
	Interrupts int            // Device-specific interrupt count.
	Blocks     []periph.Block // Peripheral register blocks.
}

// Order returns the device byte order.
func (dev *Device) Order() binary.ByteOrder {
	if dev.Endian == EndianBig {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Block looks up a peripheral block by name.
func (dev *Device) Block(name string) (block *periph.Block, err error) {
	for n := range dev.Blocks {
		if dev.Blocks[n].Name == name {
			block = &dev.Blocks[n]
			return
		}
	}

	err = errors.Join(ErrBlockUnknown, errors.New(name))
	return
}

// Regions returns every region of the device address space: flash, RAM,
// and one read/write region per peripheral block.
func (dev *Device) Regions() (regions []layout.Region) {
	regions = append(regions, dev.Flash, dev.RAM)
	for n := range dev.Blocks {
		block := &dev.Blocks[n]
		regions = append(regions, layout.Region{
			Name:   block.Name,
			Base:   block.Base,
			Length: block.Span(),
			Perm:   layout.PermRead | layout.PermWrite,
		})
	}

	return
}

// Defines iterates the device constants by name, for export to
// application build systems.
func (dev *Device) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"FLASH_BASE":   fmt.Sprintf("0x%x", dev.Flash.Base),
		"FLASH_LENGTH": fmt.Sprintf("0x%x", dev.Flash.Length),
		"SRAM_BASE":    fmt.Sprintf("0x%x", dev.RAM.Base),
		"SRAM_LENGTH":  fmt.Sprintf("0x%x", dev.RAM.Length),
		"IRQ_COUNT":    fmt.Sprintf("%v", dev.Interrupts),
		"VECTOR_WORDS": fmt.Sprintf("%v", vector.Reserved+dev.Interrupts),
	}

	seqs := []iter.Seq2[string, string]{maps.All(defines)}
	for n := range dev.Blocks {
		seqs = append(seqs, dev.Blocks[n].Defines())
	}

	return internal.IterSeq2Concat(seqs...)
}
