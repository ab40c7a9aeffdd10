package layout

// Section is one logical slice of the firmware, assigned to a region.
// Sections in the same region are placed contiguously, in declared order.
//
// A section whose run location differs from its storage location (the
// initialized-data section) names a LoadRegion; its load image is placed
// in that region after the region's own sections.
type Section struct {
	Name       string // Section name (".vectors", ".text", ...).
	Region     string // Name of the region the section runs from.
	LoadRegion string // Region holding the load image; empty if none.
	Size       uint32 // Size of the section, in bytes.
	Align      uint32 // Power-of-two alignment; 0 selects word alignment.
}

// Placement is the resolved address assignment for one section.
type Placement struct {
	Section

	Start uint32 // Run-time start address.
	End   uint32 // Run-time end address (exclusive).
	Load  uint32 // Load-image start address; equals Start without a LoadRegion.
}

// alignUp rounds addr up to the given power-of-two alignment.
func alignUp(addr uint32, align uint32) uint32 {
	return (addr + (align - 1)) & ^(align - 1)
}
