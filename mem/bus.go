package mem

import (
	"encoding/binary"
	"log"

	"github.com/ezrec/ucboot/layout"
)

// Backing is the memory behind a mapped region. Offsets are relative to
// the region base and are validated by the bus before dispatch.
type Backing interface {
	// Size returns the backing size in bytes.
	Size() uint32
	// Read8 returns the byte at an offset.
	Read8(offset uint32) byte
	// Write8 stores a byte at an offset.
	Write8(offset uint32, value byte) error
}

// Access describes one bus access as issued.
type Access struct {
	Addr  uint32 // First address of the access.
	Size  uint8  // Access width in bytes (1, 2, or 4).
	Value uint32 // Value read or written.
	Write bool   // True for a write access.
}

// Hook observes bus accesses within a watched range. Hooks stand in for
// the hardware on the far side of a register: they see every access,
// in issue order, with nothing elided.
type Hook func(access Access)

type mapping struct {
	region  layout.Region
	backing Backing
}

type watch struct {
	base uint32
	size uint32
	hook Hook
}

// Bus dispatches every memory access to the backing mapped at the
// address. Each Read*/Write* call is exactly one access: one counter
// increment, one hook notification, never coalesced with its neighbors.
type Bus struct {
	Verbose bool             // If set, verbosely logs accesses.
	Order   binary.ByteOrder // Byte order; nil selects little-endian.

	Reads  int // Total read accesses issued.
	Writes int // Total write accesses issued.

	maps    []mapping
	watches []watch
}

func (bus *Bus) order() binary.ByteOrder {
	if bus.Order == nil {
		return binary.LittleEndian
	}
	return bus.Order
}

// Map attaches a backing to a region of the address space.
func (bus *Bus) Map(region layout.Region, backing Backing) (err error) {
	if backing.Size() < region.Length {
		err = ErrBackingSize
		return
	}

	for n := range bus.maps {
		if region.Overlaps(&bus.maps[n].region) {
			err = ErrMapOverlap
			return
		}
	}

	bus.maps = append(bus.maps, mapping{region: region, backing: backing})
	return
}

// Watch registers a hook over [base, base+size).
func (bus *Bus) Watch(base uint32, size uint32, hook Hook) {
	bus.watches = append(bus.watches, watch{base: base, size: size, hook: hook})
}

func (bus *Bus) find(addr uint32, size uint32, write bool) (m *mapping, err error) {
	for n := range bus.maps {
		if bus.maps[n].region.Contains(addr, size) {
			m = &bus.maps[n]
			if write && (m.region.Perm&layout.PermWrite) == 0 {
				m = nil
				err = &ErrBusFault{Addr: addr, Write: true}
			}
			return
		}
	}

	err = &ErrBusFault{Addr: addr, Write: write}
	return
}

func (bus *Bus) notify(access Access) {
	if bus.Verbose {
		kind := "rd"
		if access.Write {
			kind = "wr"
		}
		log.Printf("bus: %v%d %08x = %0*x", kind, int(access.Size)*8, access.Addr, int(access.Size)*2, access.Value)
	}

	for _, w := range bus.watches {
		if uint64(access.Addr) < uint64(w.base)+uint64(w.size) &&
			uint64(w.base) < uint64(access.Addr)+uint64(access.Size) {
			w.hook(access)
		}
	}
}

func (bus *Bus) read(addr uint32, size uint32) (value uint32, err error) {
	m, err := bus.find(addr, size, false)
	if err != nil {
		return
	}

	word := make([]byte, 4)
	for n := range size {
		word[n] = m.backing.Read8(addr - m.region.Base + n)
	}

	switch size {
	case 1:
		value = uint32(word[0])
	case 2:
		value = uint32(bus.order().Uint16(word))
	case 4:
		value = bus.order().Uint32(word)
	}

	bus.Reads++
	bus.notify(Access{Addr: addr, Size: uint8(size), Value: value})
	return
}

func (bus *Bus) write(addr uint32, size uint32, value uint32) (err error) {
	m, err := bus.find(addr, size, true)
	if err != nil {
		return
	}

	word := make([]byte, 4)
	switch size {
	case 1:
		word[0] = byte(value)
	case 2:
		bus.order().PutUint16(word, uint16(value))
	case 4:
		bus.order().PutUint32(word, value)
	}

	for n := range size {
		err = m.backing.Write8(addr-m.region.Base+n, word[n])
		if err != nil {
			return
		}
	}

	bus.Writes++
	bus.notify(Access{Addr: addr, Size: uint8(size), Value: value, Write: true})
	return
}

// Read8 reads one byte.
func (bus *Bus) Read8(addr uint32) (value uint8, err error) {
	v, err := bus.read(addr, 1)
	value = uint8(v)
	return
}

// Read16 reads one 16-bit word in bus byte order.
func (bus *Bus) Read16(addr uint32) (value uint16, err error) {
	v, err := bus.read(addr, 2)
	value = uint16(v)
	return
}

// Read32 reads one 32-bit word in bus byte order.
func (bus *Bus) Read32(addr uint32) (value uint32, err error) {
	return bus.read(addr, 4)
}

// Write8 writes one byte.
func (bus *Bus) Write8(addr uint32, value uint8) error {
	return bus.write(addr, 1, uint32(value))
}

// Write16 writes one 16-bit word in bus byte order.
func (bus *Bus) Write16(addr uint32, value uint16) error {
	return bus.write(addr, 2, uint32(value))
}

// Write32 writes one 32-bit word in bus byte order.
func (bus *Bus) Write32(addr uint32, value uint32) error {
	return bus.write(addr, 4, value)
}
