package layout

// Region permission bits.
type Perm uint8

const (
	PermRead  = Perm(1 << 0) // Region contents may be read.
	PermWrite = Perm(1 << 1) // Region contents may be written at run time.
	PermExec  = Perm(1 << 2) // Region contents may be executed.
)

// String returns the permission set in 'rwx' notation.
func (p Perm) String() (text string) {
	flags := []struct {
		perm Perm
		mark byte
	}{
		{PermRead, 'r'},
		{PermWrite, 'w'},
		{PermExec, 'x'},
	}

	for _, flag := range flags {
		if (p & flag.perm) != 0 {
			text += string(flag.mark)
		} else {
			text += "-"
		}
	}

	return
}

// Region is a contiguous address range backed by one kind of physical
// memory. Base and Length are taken verbatim from the device datasheet.
type Region struct {
	Name   string // Region name ("flash", "sram", ...).
	Base   uint32 // First address of the region.
	Length uint32 // Length of the region, in bytes.
	Perm   Perm   // Permission set.
}

// End returns the first address past the region.
func (r *Region) End() uint32 {
	return r.Base + r.Length
}

// Contains reports whether [addr, addr+size) lies entirely inside the region.
func (r *Region) Contains(addr uint32, size uint32) bool {
	return uint64(addr) >= uint64(r.Base) &&
		uint64(addr)+uint64(size) <= uint64(r.Base)+uint64(r.Length)
}

// Overlaps reports whether two regions share any address.
func (r *Region) Overlaps(other *Region) bool {
	return uint64(r.Base) < uint64(other.Base)+uint64(other.Length) &&
		uint64(other.Base) < uint64(r.Base)+uint64(r.Length)
}
