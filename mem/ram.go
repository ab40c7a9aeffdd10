package mem

import (
	"math/rand"
)

// RAM is working memory. NewRAM fills it with junk so that nothing can
// depend on pre-startup contents; only the startup sequence makes the
// statically-declared ranges well-defined.
type RAM struct {
	data []byte
}

var _ Backing = (*RAM)(nil)

// NewRAM creates working memory of the given size with undefined
// (randomized) contents.
func NewRAM(size uint32) (ram *RAM) {
	ram = &RAM{
		data: make([]byte, size),
	}
	for n := range ram.data {
		ram.data[n] = byte(rand.Uint32())
	}

	return
}

// Clear zero-fills the RAM. Register-space backings use this to model
// datasheet reset values.
func (ram *RAM) Clear() {
	clear(ram.data)
}

// Size returns the RAM size in bytes.
func (ram *RAM) Size() uint32 {
	return uint32(len(ram.data))
}

// Read8 returns the byte at a RAM offset.
func (ram *RAM) Read8(offset uint32) byte {
	return ram.data[offset]
}

// Write8 stores a byte at a RAM offset.
func (ram *RAM) Write8(offset uint32, value byte) error {
	ram.data[offset] = value
	return nil
}
