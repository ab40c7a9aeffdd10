package layout

import (
	"errors"
	"iter"
	"log"
)

// Layout is the memory layout descriptor for one target device: the
// declared regions plus the ordered list of sections assigned to them.
// Place resolves every section to concrete addresses; until then the
// address accessors fail with ErrNotPlaced.
type Layout struct {
	Verbose  bool      // If set, verbosely logs placement.
	Regions  []Region  // Declared memory regions.
	Sections []Section // Sections, in fixed placement order.

	placed []Placement
	byName map[string]int
}

// Region looks up a declared region by name.
func (l *Layout) Region(name string) (region *Region, err error) {
	for n := range l.Regions {
		if l.Regions[n].Name == name {
			region = &l.Regions[n]
			return
		}
	}

	err = errors.Join(ErrRegionUnknown, errors.New(name))
	return
}

// Program returns the program storage region: executable, readable, and
// never writable at run time.
func (l *Layout) Program() (region *Region, err error) {
	for n := range l.Regions {
		r := &l.Regions[n]
		if (r.Perm&PermExec) != 0 && (r.Perm&PermWrite) == 0 {
			region = r
			return
		}
	}

	err = ErrNoProgram
	return
}

// Working returns the working memory region: the writable region that
// holds the stack, mutable statics, and the zero-filled section.
func (l *Layout) Working() (region *Region, err error) {
	for n := range l.Regions {
		r := &l.Regions[n]
		if (r.Perm & PermWrite) != 0 {
			region = r
			return
		}
	}

	err = ErrNoWorking
	return
}

// StackTop returns the first address past working memory, used as the
// initial stack pointer by the startup handler.
func (l *Layout) StackTop() (top uint32, err error) {
	region, err := l.Working()
	if err != nil {
		return
	}

	top = region.End()
	return
}

// validateRegions checks the declared regions for well-formedness.
func (l *Layout) validateRegions() (err error) {
	seen := map[string]bool{}

	for n := range l.Regions {
		region := &l.Regions[n]
		if seen[region.Name] {
			return errors.Join(ErrRegionDuplicate, errors.New(region.Name))
		}
		seen[region.Name] = true

		if region.Length == 0 {
			return errors.Join(ErrRegionEmpty, errors.New(region.Name))
		}
		if uint64(region.Base)+uint64(region.Length) > (uint64(1) << 32) {
			return errors.Join(ErrRegionWrap, errors.New(region.Name))
		}

		for m := range n {
			if region.Overlaps(&l.Regions[m]) {
				return errors.Join(ErrRegionOverlap, errors.New(l.Regions[m].Name+"/"+region.Name))
			}
		}
	}

	// Both special regions must resolve.
	if _, err = l.Program(); err != nil {
		return
	}
	if _, err = l.Working(); err != nil {
		return
	}

	return
}

// Place assigns every section a run-time address range, and every
// section with a load region a load-image address. Sections are placed
// contiguously per region, in declared order, load images after the
// load region's own sections. Any region too small for its sections is
// a placement error; nothing about placement is checked at run time.
func (l *Layout) Place() (err error) {
	// A failed Place leaves the layout unplaced; the accessors must not
	// hand out partial placements.
	l.placed = nil
	l.byName = nil

	err = l.validateRegions()
	if err != nil {
		return
	}

	placed := []Placement{}
	byName := make(map[string]int, len(l.Sections))

	cursor := map[string]uint32{}
	for _, region := range l.Regions {
		cursor[region.Name] = region.Base
	}

	for _, section := range l.Sections {
		_, dup := byName[section.Name]
		if dup {
			return errors.Join(ErrSectionDuplicate, errors.New(section.Name))
		}

		align := section.Align
		if align == 0 {
			align = 4
		}
		if (align & (align - 1)) != 0 {
			return errors.Join(ErrAlignInvalid, errors.New(section.Name))
		}

		var region *Region
		region, err = l.Region(section.Region)
		if err != nil {
			return
		}
		if section.LoadRegion != "" {
			_, err = l.Region(section.LoadRegion)
			if err != nil {
				return
			}
		}

		start := alignUp(cursor[region.Name], align)
		end := start + section.Size
		if !region.Contains(start, section.Size) {
			return &ErrOverflow{
				Region: region.Name,
				Need:   end - region.Base,
				Have:   region.Length,
			}
		}
		cursor[region.Name] = end

		byName[section.Name] = len(placed)
		placed = append(placed, Placement{
			Section: section,
			Start:   start,
			End:     end,
			Load:    start,
		})
	}

	// Load images trail the load region's own sections, in section order.
	for n := range placed {
		placement := &placed[n]
		if placement.LoadRegion == "" {
			continue
		}

		align := placement.Align
		if align == 0 {
			align = 4
		}

		region, _ := l.Region(placement.LoadRegion)
		load := alignUp(cursor[region.Name], align)
		if !region.Contains(load, placement.Size) {
			return &ErrOverflow{
				Region: region.Name,
				Need:   load + placement.Size - region.Base,
				Have:   region.Length,
			}
		}
		cursor[region.Name] = load + placement.Size
		placement.Load = load
	}

	l.placed = placed
	l.byName = byName

	if l.Verbose {
		for _, placement := range l.placed {
			log.Printf("layout: %-10v %08x..%08x load %08x (%v)",
				placement.Name, placement.Start, placement.End,
				placement.Load, placement.Region)
		}
	}

	return
}

// Placed reports whether Place has resolved the layout.
func (l *Layout) Placed() bool {
	return l.byName != nil
}

// Section looks up the resolved placement of a section by name.
func (l *Layout) Section(name string) (placement *Placement, err error) {
	if !l.Placed() {
		err = ErrNotPlaced
		return
	}

	index, ok := l.byName[name]
	if !ok {
		err = errors.Join(ErrSectionUnknown, errors.New(name))
		return
	}

	placement = &l.placed[index]
	return
}

// Placements iterates the resolved placements in placement order.
func (l *Layout) Placements() iter.Seq[Placement] {
	return func(yield func(Placement) bool) {
		for _, placement := range l.placed {
			if !yield(placement) {
				return
			}
		}
	}
}

// Symbols iterates the exported layout symbols: per-section run-time
// start ("_s" prefix) and end ("_e" prefix), load-image start ("_si"
// prefix) for sections with a load region, and "_estack".
func (l *Layout) Symbols() iter.Seq2[string, uint32] {
	return func(yield func(string, uint32) bool) {
		for _, placement := range l.placed {
			name := placement.Name
			for len(name) > 0 && name[0] == '.' {
				name = name[1:]
			}

			if !yield("_s"+name, placement.Start) {
				return
			}
			if !yield("_e"+name, placement.End) {
				return
			}
			if placement.LoadRegion != "" {
				if !yield("_si"+name, placement.Load) {
					return
				}
			}
		}

		top, err := l.StackTop()
		if err == nil {
			if !yield("_estack", top) {
				return
			}
		}
	}
}
