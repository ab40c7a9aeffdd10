package periph

import (
	"strconv"
)

// Pin identifies one pin as bank index in the high byte and in-bank pin
// number in the low byte. The packing is exact: decomposing a Pin and
// re-encoding the parts yields the same scalar.
type Pin uint16

// MakePin packs a bank index and pin number into a Pin.
func MakePin(bank uint8, num uint8) Pin {
	return Pin(uint16(bank)<<8 | uint16(num))
}

// Bank returns the bank index of the pin.
func (pin Pin) Bank() uint8 {
	return uint8(pin >> 8)
}

// Num returns the in-bank pin number.
func (pin Pin) Num() uint8 {
	return uint8(pin & 0xff)
}

// String renders the pin in datasheet notation, bank letter then pin
// number ("A3", "G11").
func (pin Pin) String() string {
	return string(rune('A'+pin.Bank())) + strconv.Itoa(int(pin.Num()))
}

// ParsePin parses datasheet notation: a bank letter 'A'..'Z' followed by
// a decimal pin number.
func ParsePin(text string) (pin Pin, err error) {
	if len(text) < 2 || text[0] < 'A' || text[0] > 'Z' {
		err = ErrPinSyntax(text)
		return
	}

	num, perr := strconv.ParseUint(text[1:], 10, 8)
	if perr != nil {
		err = ErrPinSyntax(text)
		return
	}

	pin = MakePin(text[0]-'A', uint8(num))
	return
}
