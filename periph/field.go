package periph

// Field is a fixed-width bit field within a 32-bit register.
type Field struct {
	Shift uint8 // Bit position of the field's least significant bit.
	Width uint8 // Field width in bits.
}

// Mask returns the register bits covered by the field.
func (field Field) Mask() uint32 {
	return ((uint32(1) << field.Width) - 1) << field.Shift
}

// Insert returns reg with the field replaced by value. Only the field's
// bits change; value bits beyond the field width are discarded.
func (field Field) Insert(reg uint32, value uint32) uint32 {
	return (reg & ^field.Mask()) | ((value << field.Shift) & field.Mask())
}

// Extract returns the field's value from reg.
func (field Field) Extract(reg uint32) uint32 {
	return (reg & field.Mask()) >> field.Shift
}

// ModeBits is the width of one pin's mode field in a packed mode register.
const ModeBits = 2

// ModeField returns the packed 2-bit mode field for a pin number. A mode
// register holds 16 such fields, pin 0 at bits [1:0].
func ModeField(num uint8) Field {
	return Field{Shift: num * ModeBits, Width: ModeBits}
}
