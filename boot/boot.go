// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package boot runs the startup sequence a device performs between
// leaving reset and entering the application: establish the stack
// pointer, zero-fill the uninitialized-data section, copy the
// initialized-data image from program storage into working memory, and
// hand control to the application entry point. If the entry point
// returns, the handler parks in a halt state it never leaves; the only
// way back to uninitialized is another hardware reset.
package boot

import (
	"log"

	"github.com/ezrec/ucboot/layout"
	"github.com/ezrec/ucboot/mem"
)

// State of the startup handler.
type State int

const (
	Uninitialized State = iota // At reset, before any memory is defined.
	Running                    // Application entry point entered.
	Halted                     // Entry point returned; parked forever.
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Halted:
		return "halted"
	}

	return "undefined"
}

// Handler is the startup handler bound to a bus and a placed layout.
// Entry is the application entry point; it takes no arguments and its
// return value is not a thing - an entry point that comes back lands
// the handler in Halted.
type Handler struct {
	Verbose bool           // If set, verbosely logs the reset sequence.
	Bus     *mem.Bus       // Device address space.
	Layout  *layout.Layout // Placed memory layout.
	Entry   func()         // Application entry point; nil returns immediately.

	state State
	sp    uint32
}

// State returns the current handler state.
func (h *Handler) State() State {
	return h.state
}

// StackPointer returns the stack pointer established by the last Reset.
func (h *Handler) StackPointer() uint32 {
	return h.sp
}

// Reset performs the full startup sequence, in strict order. It models
// the hardware reset: it may be invoked from any state, and is the only
// way out of Halted. The sequence touches no memory before the stack
// pointer is set, allocates nothing, and reads no static that it has
// not itself initialized.
func (h *Handler) Reset() (err error) {
	h.state = Uninitialized

	if !h.Layout.Placed() {
		err = layout.ErrNotPlaced
		return
	}

	// Stack pointer first; nothing before this may use the stack. The
	// vector table's stack slot is zero on this device - the handler
	// loads the top of working memory itself.
	h.sp, err = h.Layout.StackTop()
	if err != nil {
		return
	}
	if h.Verbose {
		log.Printf("boot: sp %08x", h.sp)
	}

	err = h.initMemory()
	if err != nil {
		return
	}

	h.state = Running
	if h.Verbose {
		log.Printf("boot: enter application")
	}

	if h.Entry != nil {
		h.Entry()
	}

	// The entry point must not return. When it does anyway, park; never
	// fall through into undefined memory.
	h.state = Halted
	if h.Verbose {
		log.Printf("boot: entry returned, halted")
	}

	return
}

// initMemory zero-fills every working-memory section without a load
// image, then copies every load image to its run-time range, zeroing
// strictly first. Both steps are byte-for-byte over the bus and
// idempotent: running them twice leaves the same memory state as
// running them once.
func (h *Handler) initMemory() (err error) {
	working, err := h.Layout.Working()
	if err != nil {
		return
	}

	for placement := range h.Layout.Placements() {
		if placement.LoadRegion == "" && placement.Region == working.Name {
			err = h.zeroSection(&placement)
			if err != nil {
				return
			}
		}
	}

	for placement := range h.Layout.Placements() {
		if placement.LoadRegion != "" {
			err = h.copySection(&placement)
			if err != nil {
				return
			}
		}
	}

	return
}

// zeroSection zero-fills a section's run-time range.
func (h *Handler) zeroSection(placement *layout.Placement) (err error) {
	if h.Verbose {
		log.Printf("boot: zero %v %08x..%08x", placement.Name, placement.Start, placement.End)
	}

	size := placement.End - placement.Start
	for n := uint32(0); n != size; n++ {
		err = h.Bus.Write8(placement.Start+n, 0)
		if err != nil {
			return
		}
	}

	return
}

// copySection copies a section's load image into its run-time range,
// byte-for-byte, preserving length exactly. Coinciding load and run
// ranges mean the section already runs from where it is stored; the
// effective copy is zero-length.
func (h *Handler) copySection(placement *layout.Placement) (err error) {
	if placement.Load == placement.Start {
		return
	}

	if h.Verbose {
		log.Printf("boot: copy %v %08x..%08x from %08x",
			placement.Name, placement.Start, placement.End, placement.Load)
	}

	size := placement.End - placement.Start
	for n := uint32(0); n != size; n++ {
		var value uint8
		value, err = h.Bus.Read8(placement.Load + n)
		if err != nil {
			return
		}
		err = h.Bus.Write8(placement.Start+n, value)
		if err != nil {
			return
		}
	}

	return
}

// Step is the post-return halt loop: a no-op that never leaves Halted.
// In any other state it is equally a no-op; the handler has no clock of
// its own.
func (h *Handler) Step() {
}
