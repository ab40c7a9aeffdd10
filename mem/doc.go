// Package mem models the device address space as a bus of mapped
// regions. Every access the simulation performs - startup zero-fill and
// copy, peripheral register reads and writes - goes through the bus, one
// dispatch per access. The bus never caches, merges, or drops an access:
// reads and writes are counted and reported to watch hooks exactly as
// issued, because the other party observing this memory is the hardware,
// not software.
package mem
