// Package periph is the typed view over memory-mapped peripheral
// registers. A Block describes one register layout replicated across
// banks at a fixed stride; a Bank binds the block to a bus so registers
// are read and written by name, never by hand-built addresses. Pin packs
// a bank index and pin number into one scalar, and Field carves
// multi-bit values out of packed registers.
//
// Register addresses, strides, and field widths are an external contract
// supplied by the device datasheet. Bank and pin indexes are not range
// checked on access: an out-of-range index is a caller contract
// violation, exactly as it is on hardware.
package periph
