package mem

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ucboot/layout"
)

var flashRegion = layout.Region{Name: "flash", Base: 0x08000000, Length: 0x100, Perm: layout.PermRead | layout.PermExec}
var ramRegion = layout.Region{Name: "sram", Base: 0x20000000, Length: 0x100, Perm: layout.PermRead | layout.PermWrite | layout.PermExec}

func testBus(t *testing.T) (bus *Bus, flash *Flash) {
	assert := assert.New(t)

	flash = NewFlash(flashRegion.Length)
	assert.NoError(flash.Install(0, []byte{0x11, 0x22, 0x33, 0x44}))
	flash.Freeze()

	bus = &Bus{}
	assert.NoError(bus.Map(flashRegion, flash))
	assert.NoError(bus.Map(ramRegion, NewRAM(ramRegion.Length)))

	return
}

func TestBus_ReadWrite(t *testing.T) {
	assert := assert.New(t)

	bus, _ := testBus(t)

	assert.NoError(bus.Write8(0x20000000, 0xa5))
	value8, err := bus.Read8(0x20000000)
	assert.NoError(err)
	assert.Equal(uint8(0xa5), value8)

	assert.NoError(bus.Write16(0x20000010, 0xbeef))
	value16, err := bus.Read16(0x20000010)
	assert.NoError(err)
	assert.Equal(uint16(0xbeef), value16)

	assert.NoError(bus.Write32(0x20000020, 0x12345678))
	value32, err := bus.Read32(0x20000020)
	assert.NoError(err)
	assert.Equal(uint32(0x12345678), value32)

	// Multi-byte accesses use the bus byte order (little by default).
	value8, err = bus.Read8(0x20000020)
	assert.NoError(err)
	assert.Equal(uint8(0x78), value8)
}

func TestBus_Order(t *testing.T) {
	assert := assert.New(t)

	bus, _ := testBus(t)
	bus.Order = binary.BigEndian

	assert.NoError(bus.Write32(0x20000000, 0x12345678))
	value8, err := bus.Read8(0x20000000)
	assert.NoError(err)
	assert.Equal(uint8(0x12), value8)
}

func TestBus_Flash(t *testing.T) {
	assert := assert.New(t)

	bus, _ := testBus(t)

	value32, err := bus.Read32(0x08000000)
	assert.NoError(err)
	assert.Equal(uint32(0x44332211), value32)

	// Erased flash reads back 0xFF.
	value8, err := bus.Read8(0x08000004)
	assert.NoError(err)
	assert.Equal(uint8(0xff), value8)
}

func TestBus_Counters(t *testing.T) {
	assert := assert.New(t)

	bus, _ := testBus(t)

	// Identical back-to-back accesses are never elided or merged: each
	// one counts.
	for range 3 {
		_, err := bus.Read32(0x08000000)
		assert.NoError(err)
	}
	for range 2 {
		assert.NoError(bus.Write32(0x20000000, 0x5a5a5a5a))
	}

	assert.Equal(3, bus.Reads)
	assert.Equal(2, bus.Writes)
}

func TestBus_Watch(t *testing.T) {
	assert := assert.New(t)

	bus, _ := testBus(t)

	var seen []Access
	bus.Watch(0x20000010, 4, func(access Access) {
		seen = append(seen, access)
	})

	assert.NoError(bus.Write32(0x20000010, 0x0000c0de))
	assert.NoError(bus.Write32(0x20000014, 0x11111111)) // outside the watch
	value, err := bus.Read32(0x20000010)
	assert.NoError(err)
	assert.Equal(uint32(0x0000c0de), value)

	// The hook saw both watched accesses, in issue order.
	assert.Equal(2, len(seen))
	assert.Equal(Access{Addr: 0x20000010, Size: 4, Value: 0x0000c0de, Write: true}, seen[0])
	assert.Equal(Access{Addr: 0x20000010, Size: 4, Value: 0x0000c0de}, seen[1])
}

func TestBus_Fault(t *testing.T) {
	assert := assert.New(t)

	bus, _ := testBus(t)

	_, err := bus.Read32(0x40000000)
	var fault *ErrBusFault
	assert.ErrorAs(err, &fault)
	assert.Equal(uint32(0x40000000), fault.Addr)
	assert.False(fault.Write)

	// A write to program storage is a fault; flash has no run-time
	// write permission.
	err = bus.Write8(0x08000000, 0x00)
	assert.ErrorAs(err, &fault)
	assert.True(fault.Write)

	// Straddling the end of a region faults too.
	_, err = bus.Read32(0x080000fe)
	assert.ErrorAs(err, &fault)
}

func TestBus_MapOverlap(t *testing.T) {
	assert := assert.New(t)

	bus, _ := testBus(t)

	err := bus.Map(layout.Region{Name: "dup", Base: 0x080000f0, Length: 0x20, Perm: layout.PermRead}, NewRAM(0x20))
	assert.ErrorIs(err, ErrMapOverlap)
}

func TestBus_BackingSize(t *testing.T) {
	assert := assert.New(t)

	bus := &Bus{}
	err := bus.Map(ramRegion, NewRAM(ramRegion.Length-1))
	assert.ErrorIs(err, ErrBackingSize)
}

func TestFlash_Install(t *testing.T) {
	assert := assert.New(t)

	flash := NewFlash(16)
	assert.ErrorIs(flash.Install(8, make([]byte, 9)), ErrImageSize)
	assert.NoError(flash.Install(8, make([]byte, 8)))

	assert.False(flash.Frozen())
	flash.Freeze()
	assert.True(flash.Frozen())
	assert.ErrorIs(flash.Install(0, []byte{0}), ErrFrozen)

	assert.ErrorIs(flash.Write8(0, 0), ErrReadOnly)
}

func TestRAM_Clear(t *testing.T) {
	assert := assert.New(t)

	ram := NewRAM(64)
	ram.Clear()
	for n := range uint32(64) {
		assert.Equal(byte(0), ram.Read8(n))
	}
}
