// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package image assembles the flat firmware output image: the vector
// table at the very start of program storage, followed by the code,
// read-only data, and the initialized-data load image, each at the
// address the layout assigned. The first byte of the image corresponds
// to the lowest flash address; the blob is written verbatim to device
// flash at that base.
package image

import (
	"bytes"
	"io"

	"github.com/ezrec/ucboot/device"
	"github.com/ezrec/ucboot/layout"
	"github.com/ezrec/ucboot/mem"
	"github.com/ezrec/ucboot/vector"
)

// The fixed section order of the firmware image. The vector table is
// first so that it lands at the architecture-mandated offset zero of
// program storage; nothing may reorder or merge it away.
const (
	SectionVectors = ".vectors"
	SectionText    = ".text"
	SectionRodata  = ".rodata"
	SectionData    = ".data"
	SectionBSS     = ".bss"
)

// Builder collects the pieces of a firmware image.
type Builder struct {
	Verbose bool           // If set, verbosely logs assembly.
	Device  *device.Device // Target device description.
	Table   *vector.Table  // Vector table, sized for the device.
	Text    []byte         // Code payload.
	Rodata  []byte         // Read-only data payload.
	Data    []byte         // Initialized-data load image.
	BSS     uint32         // Uninitialized-data size, in bytes.
}

// Layout places the image's sections within the device regions. Any
// section overflowing its region fails here, before an image exists.
func (b *Builder) Layout() (lay *layout.Layout, err error) {
	if b.Table.Len() != vector.Reserved+b.Device.Interrupts {
		err = ErrVectorSize
		return
	}

	lay = &layout.Layout{
		Verbose: b.Verbose,
		Regions: b.Device.Regions(),
		Sections: []layout.Section{
			{Name: SectionVectors, Region: device.RegionFlash, Size: b.Table.Size()},
			{Name: SectionText, Region: device.RegionFlash, Size: uint32(len(b.Text))},
			{Name: SectionRodata, Region: device.RegionFlash, Size: uint32(len(b.Rodata))},
			{Name: SectionData, Region: device.RegionRAM, LoadRegion: device.RegionFlash, Size: uint32(len(b.Data))},
			{Name: SectionBSS, Region: device.RegionRAM, Size: b.BSS},
		},
	}

	err = lay.Place()
	if err != nil {
		lay = nil
	}
	return
}

// Build assembles the image.
func (b *Builder) Build() (img *Image, err error) {
	lay, err := b.Layout()
	if err != nil {
		return
	}

	flash, err := lay.Program()
	if err != nil {
		return
	}

	vectors, err := lay.Section(SectionVectors)
	if err != nil {
		return
	}
	if vectors.Start != flash.Base {
		err = ErrVectorOffset
		return
	}

	// The image ends at the last flash-resident byte.
	var size uint32
	for placement := range lay.Placements() {
		if placement.Region == flash.Name && placement.End-flash.Base > size {
			size = placement.End - flash.Base
		}
		if placement.LoadRegion == flash.Name {
			end := placement.Load + placement.Size
			if end-flash.Base > size {
				size = end - flash.Base
			}
		}
	}

	blob := make([]byte, size)

	var words bytes.Buffer
	err = b.Table.EncodeTo(&words, b.Device.Order())
	if err != nil {
		return
	}
	copy(blob[vectors.Start-flash.Base:], words.Bytes())

	payloads := []struct {
		section string
		data    []byte
	}{
		{SectionText, b.Text},
		{SectionRodata, b.Rodata},
	}
	for _, payload := range payloads {
		var placement *layout.Placement
		placement, err = lay.Section(payload.section)
		if err != nil {
			return
		}
		copy(blob[placement.Start-flash.Base:], payload.data)
	}

	data, err := lay.Section(SectionData)
	if err != nil {
		return
	}
	copy(blob[data.Load-flash.Base:], b.Data)

	img = &Image{
		Device: b.Device,
		Layout: lay,
		Base:   flash.Base,
		Data:   blob,
	}
	return
}

// Image is one assembled firmware image.
type Image struct {
	Device *device.Device // Target device description.
	Layout *layout.Layout // Placed layout the image was assembled from.
	Base   uint32         // Flash base address of the first image byte.
	Data   []byte         // The flat image contents.
}

// Size returns the image size in bytes.
func (img *Image) Size() uint32 {
	return uint32(len(img.Data))
}

// WriteBin writes the image as a flat binary blob, first byte at the
// lowest flash address.
func (img *Image) WriteBin(w io.Writer) (err error) {
	_, err = w.Write(img.Data)
	return
}

// Map builds the device address space with the image installed: frozen
// flash holding the image, working memory with undefined contents, and
// a zeroed register backing per peripheral block.
func (img *Image) Map() (bus *mem.Bus, err error) {
	bus = &mem.Bus{Order: img.Device.Order()}

	for _, region := range img.Device.Regions() {
		var backing mem.Backing

		switch region.Name {
		case device.RegionFlash:
			flash := mem.NewFlash(region.Length)
			err = flash.Install(img.Base-region.Base, img.Data)
			if err != nil {
				return
			}
			flash.Freeze()
			backing = flash
		case device.RegionRAM:
			backing = mem.NewRAM(region.Length)
		default:
			regs := mem.NewRAM(region.Length)
			regs.Clear()
			backing = regs
		}

		err = bus.Map(region, backing)
		if err != nil {
			return
		}
	}

	return
}
