package periph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPin_Encode(t *testing.T) {
	assert := assert.New(t)

	// Bank 'A' is index 0, 'G' is index 6.
	assert.Equal(Pin(0x0003), MakePin(0, 3))
	assert.Equal(Pin(0x060b), MakePin(6, 11))
}

func TestPin_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	for bank := range uint8(11) {
		for num := range uint8(16) {
			pin := MakePin(bank, num)
			assert.Equal(bank, pin.Bank())
			assert.Equal(num, pin.Num())
			assert.Equal(pin, MakePin(pin.Bank(), pin.Num()))
		}
	}
}

func TestPin_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("A3", MakePin(0, 3).String())
	assert.Equal("G11", MakePin(6, 11).String())
}

func TestParsePin(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		text string
		pin  Pin
		ok   bool
	}{
		{"A3", 0x0003, true},
		{"G11", 0x060b, true},
		{"K15", 0x0a0f, true},
		{"a3", 0, false},
		{"G", 0, false},
		{"G-1", 0, false},
		{"G999", 0, false},
		{"", 0, false},
	}

	for _, entry := range table {
		pin, err := ParsePin(entry.text)
		if entry.ok {
			assert.NoError(err, entry.text)
			assert.Equal(entry.pin, pin, entry.text)
		} else {
			assert.ErrorIs(err, ErrPinSyntax(entry.text), entry.text)
		}
	}
}

func FuzzParsePin(f *testing.F) {
	f.Add("A3")
	f.Add("G11")
	f.Add("Z255")
	f.Fuzz(func(t *testing.T, text string) {
		pin, err := ParsePin(text)
		if err != nil {
			return
		}
		// Whatever parses must survive the round trip through String.
		again, err := ParsePin(pin.String())
		if err != nil {
			t.Fatalf("%q: reparse: %v", text, err)
		}
		if again != pin {
			t.Fatalf("%q: %v != %v", text, again, pin)
		}
	})
}
