// Package layout models the static memory layout of a target device:
// the program-storage and working-memory regions, the ordered link
// sections assigned to them, and the addresses (section start/end/load,
// initial stack top) that the startup sequence and the image assembler
// consume.
//
// Everything in this package is fixed before the device ever runs.
// Placement failures - a section overflowing its region, regions that
// overlap - are reported by Place and never reach the run-time model.
package layout
