package layout

import (
	"errors"

	"github.com/ezrec/ucboot/translate"
)

var f = translate.From

var (
	// Region declaration errors
	ErrRegionDuplicate = errors.New(f("region duplicated"))
	ErrRegionEmpty     = errors.New(f("region empty"))
	ErrRegionOverlap   = errors.New(f("regions overlap"))
	ErrRegionWrap      = errors.New(f("region wraps address space"))
	ErrNoProgram       = errors.New(f("no program storage region"))
	ErrNoWorking       = errors.New(f("no working memory region"))

	// Section declaration errors
	ErrSectionDuplicate = errors.New(f("section duplicated"))
	ErrRegionUnknown    = errors.New(f("region unknown"))
	ErrAlignInvalid     = errors.New(f("alignment not a power of two"))

	// Lookup errors
	ErrNotPlaced      = errors.New(f("layout not placed"))
	ErrSectionUnknown = errors.New(f("section unknown"))
)

// ErrOverflow reports a region too small for the sections assigned to it.
type ErrOverflow struct {
	Region string
	Need   uint32
	Have   uint32
}

func (err *ErrOverflow) Error() string {
	return f("region %v overflow: need %d bytes, have %d", err.Region, err.Need, err.Have)
}
