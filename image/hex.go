package image

import (
	"io"

	"github.com/marcinbor85/gohex"
)

// hexLineLength is the data bytes per emitted Intel HEX record.
const hexLineLength = 16

// WriteHex writes the image as Intel HEX records based at the flash
// address.
func (img *Image) WriteHex(w io.Writer) (err error) {
	hex := gohex.NewMemory()
	err = hex.AddBinary(img.Base, img.Data)
	if err != nil {
		return
	}

	return hex.DumpIntelHex(w, hexLineLength)
}

// ReadHex parses Intel HEX records back into a flat blob: the lowest
// segment address becomes the base, and gaps between segments read as
// erased flash (0xFF).
func ReadHex(r io.Reader) (base uint32, data []byte, err error) {
	hex := gohex.NewMemory()
	err = hex.ParseIntelHex(r)
	if err != nil {
		return
	}

	segments := hex.GetDataSegments()
	if len(segments) == 0 {
		err = ErrHexEmpty
		return
	}

	base = segments[0].Address
	var end uint32
	for _, segment := range segments {
		if segment.Address < base {
			base = segment.Address
		}
		if segment.Address+uint32(len(segment.Data)) > end {
			end = segment.Address + uint32(len(segment.Data))
		}
	}

	data = hex.ToBinary(base, end-base, 0xff)
	return
}
