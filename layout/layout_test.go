package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testLayout() *Layout {
	return &Layout{
		Regions: []Region{
			{Name: "flash", Base: 0x08000000, Length: 0x1000, Perm: PermRead | PermExec},
			{Name: "sram", Base: 0x20000000, Length: 0x800, Perm: PermRead | PermWrite | PermExec},
		},
		Sections: []Section{
			{Name: ".vectors", Region: "flash", Size: 64},
			{Name: ".text", Region: "flash", Size: 100},
			{Name: ".rodata", Region: "flash", Size: 10},
			{Name: ".data", Region: "sram", LoadRegion: "flash", Size: 12},
			{Name: ".bss", Region: "sram", Size: 20},
		},
	}
}

func TestLayout_Place(t *testing.T) {
	assert := assert.New(t)

	l := testLayout()
	assert.False(l.Placed())
	assert.NoError(l.Place())
	assert.True(l.Placed())

	table := []struct {
		name  string
		start uint32
		end   uint32
		load  uint32
	}{
		{".vectors", 0x08000000, 0x08000040, 0x08000000},
		{".text", 0x08000040, 0x080000a4, 0x08000040},
		{".rodata", 0x080000a4, 0x080000ae, 0x080000a4},
		{".data", 0x20000000, 0x2000000c, 0x080000b0},
		{".bss", 0x2000000c, 0x20000020, 0x2000000c},
	}

	for _, entry := range table {
		placement, err := l.Section(entry.name)
		assert.NoError(err, entry.name)
		assert.Equal(entry.start, placement.Start, entry.name)
		assert.Equal(entry.end, placement.End, entry.name)
		assert.Equal(entry.load, placement.Load, entry.name)
	}
}

func TestLayout_StackTop(t *testing.T) {
	assert := assert.New(t)

	l := testLayout()
	assert.NoError(l.Place())

	top, err := l.StackTop()
	assert.NoError(err)
	assert.Equal(uint32(0x20000800), top)
}

func TestLayout_Regions(t *testing.T) {
	assert := assert.New(t)

	l := testLayout()
	assert.NoError(l.Place())

	program, err := l.Program()
	assert.NoError(err)
	assert.Equal("flash", program.Name)

	working, err := l.Working()
	assert.NoError(err)
	assert.Equal("sram", working.Name)
}

func TestLayout_Symbols(t *testing.T) {
	assert := assert.New(t)

	l := testLayout()
	assert.NoError(l.Place())

	symbols := map[string]uint32{}
	for name, addr := range l.Symbols() {
		symbols[name] = addr
	}

	assert.Equal(uint32(0x20000000), symbols["_sdata"])
	assert.Equal(uint32(0x2000000c), symbols["_edata"])
	assert.Equal(uint32(0x080000b0), symbols["_sidata"])
	assert.Equal(uint32(0x2000000c), symbols["_sbss"])
	assert.Equal(uint32(0x20000020), symbols["_ebss"])
	assert.Equal(uint32(0x20000800), symbols["_estack"])

	_, ok := symbols["_sitext"]
	assert.False(ok)
}

func TestLayout_Overflow(t *testing.T) {
	assert := assert.New(t)

	l := testLayout()
	l.Sections[1].Size = 0x2000

	err := l.Place()
	var overflow *ErrOverflow
	assert.ErrorAs(err, &overflow)
	assert.Equal("flash", overflow.Region)
	assert.Equal(uint32(0x1000), overflow.Have)
}

func TestLayout_LoadOverflow(t *testing.T) {
	assert := assert.New(t)

	// Run-time placements all fit; the .data load image is what no
	// longer fits in flash.
	l := testLayout()
	l.Sections[1].Size = 0xe00
	l.Sections[3].Size = 0x200

	err := l.Place()
	var overflow *ErrOverflow
	assert.ErrorAs(err, &overflow)
	assert.Equal("flash", overflow.Region)
}

func TestLayout_PlaceFailureUnplaces(t *testing.T) {
	assert := assert.New(t)

	// A successful Place followed by a failing one: the accessors must
	// not hand out placements from either attempt.
	l := testLayout()
	assert.NoError(l.Place())

	l.Sections[1].Size = 0x2000
	var overflow *ErrOverflow
	assert.ErrorAs(l.Place(), &overflow)

	assert.False(l.Placed())
	_, err := l.Section(".text")
	assert.ErrorIs(err, ErrNotPlaced)
}

func TestLayout_RegionOverlap(t *testing.T) {
	assert := assert.New(t)

	l := testLayout()
	l.Regions[1].Base = 0x08000800

	assert.ErrorIs(l.Place(), ErrRegionOverlap)
}

func TestLayout_RegionDuplicate(t *testing.T) {
	assert := assert.New(t)

	l := testLayout()
	l.Regions = append(l.Regions, Region{Name: "flash", Base: 0x30000000, Length: 0x100, Perm: PermRead})

	assert.ErrorIs(l.Place(), ErrRegionDuplicate)
}

func TestLayout_NoWorking(t *testing.T) {
	assert := assert.New(t)

	l := testLayout()
	l.Regions[1].Perm = PermRead

	assert.ErrorIs(l.Place(), ErrNoWorking)
}

func TestLayout_NoProgram(t *testing.T) {
	assert := assert.New(t)

	l := testLayout()
	l.Regions[0].Perm = PermRead

	assert.ErrorIs(l.Place(), ErrNoProgram)
}

func TestLayout_SectionDuplicate(t *testing.T) {
	assert := assert.New(t)

	l := testLayout()
	l.Sections = append(l.Sections, Section{Name: ".text", Region: "flash", Size: 4})

	assert.ErrorIs(l.Place(), ErrSectionDuplicate)
}

func TestLayout_RegionUnknown(t *testing.T) {
	assert := assert.New(t)

	l := testLayout()
	l.Sections[0].Region = "eeprom"

	assert.ErrorIs(l.Place(), ErrRegionUnknown)
}

func TestLayout_AlignInvalid(t *testing.T) {
	assert := assert.New(t)

	l := testLayout()
	l.Sections[1].Align = 6

	assert.ErrorIs(l.Place(), ErrAlignInvalid)
}

func TestLayout_NotPlaced(t *testing.T) {
	assert := assert.New(t)

	l := testLayout()
	_, err := l.Section(".text")
	assert.ErrorIs(err, ErrNotPlaced)
}

func TestLayout_SectionUnknown(t *testing.T) {
	assert := assert.New(t)

	l := testLayout()
	assert.NoError(l.Place())

	_, err := l.Section(".noinit")
	assert.True(errors.Is(err, ErrSectionUnknown))
}

func TestRegion_Overlaps(t *testing.T) {
	assert := assert.New(t)

	a := Region{Name: "a", Base: 0x1000, Length: 0x100}
	table := []struct {
		name     string
		region   Region
		overlaps bool
	}{
		{"below", Region{Base: 0x0f00, Length: 0x100}, false},
		{"above", Region{Base: 0x1100, Length: 0x100}, false},
		{"head", Region{Base: 0x0fff, Length: 2}, true},
		{"tail", Region{Base: 0x10ff, Length: 2}, true},
		{"inside", Region{Base: 0x1040, Length: 4}, true},
		{"around", Region{Base: 0x0800, Length: 0x1000}, true},
	}

	for _, entry := range table {
		assert.Equal(entry.overlaps, a.Overlaps(&entry.region), entry.name)
		assert.Equal(entry.overlaps, entry.region.Overlaps(&a), entry.name)
	}
}

func TestPerm_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("r-x", (PermRead | PermExec).String())
	assert.Equal("rwx", (PermRead | PermWrite | PermExec).String())
	assert.Equal("---", Perm(0).String())
}
