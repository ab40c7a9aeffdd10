package mem

// Flash is program storage: programmable through Install until Freeze,
// then immutable for the rest of the power cycle. Bus writes to flash
// always fault; programming is not a bus operation on this device.
type Flash struct {
	data   []byte
	frozen bool
}

var _ Backing = (*Flash)(nil)

// NewFlash creates erased (0xFF-filled) flash of the given size.
func NewFlash(size uint32) (flash *Flash) {
	flash = &Flash{
		data: make([]byte, size),
	}
	for n := range flash.data {
		flash.data[n] = 0xff
	}

	return
}

// Install programs an image at a byte offset within the flash.
func (flash *Flash) Install(offset uint32, image []byte) (err error) {
	if flash.frozen {
		err = ErrFrozen
		return
	}
	if uint64(offset)+uint64(len(image)) > uint64(len(flash.data)) {
		err = ErrImageSize
		return
	}

	copy(flash.data[offset:], image)
	return
}

// Freeze ends programming. Further Install calls fail.
func (flash *Flash) Freeze() {
	flash.frozen = true
}

// Frozen reports whether programming has ended.
func (flash *Flash) Frozen() bool {
	return flash.frozen
}

// Size returns the flash size in bytes.
func (flash *Flash) Size() uint32 {
	return uint32(len(flash.data))
}

// Read8 returns the byte at a flash offset.
func (flash *Flash) Read8(offset uint32) byte {
	return flash.data[offset]
}

// Write8 always fails; flash is not writable at run time.
func (flash *Flash) Write8(offset uint32, value byte) error {
	return ErrReadOnly
}
