package engine

import (
	"cmp"
	"fmt"
	"time"

	"github.com/tartampluch/go-dateselect/internal/config"
)

// DaysInMonth returns the number of days of a zero-indexed month in year,
// or 0 when either is unset or the month is not 0..11.
func DaysInMonth(month, year Field) int {
	m, okM := month.Get()
	y, okY := year.Get()
	if !okM || !okY || m < config.FirstMonth || m > config.LastMonth {
		return 0
	}
	// Day 0 of the following month normalizes to the last day of this one.
	return time.Date(y, time.Month(m+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// Before reports whether a is strictly earlier than b.
// Both operands must be complete dates.
func Before(a, b *SelectionDate) (bool, error) {
	if a == nil || b == nil || !a.Complete() || !b.Complete() {
		return false, fmt.Errorf("%w: %v, %v", ErrInvalidComparison, a, b)
	}
	return compare(*a, *b) < 0, nil
}

// compare orders two complete dates field by field.
// Out-of-range days are compared literally rather than normalized.
func compare(a, b SelectionDate) int {
	switch {
	case a.Year.value != b.Year.value:
		return cmp.Compare(a.Year.value, b.Year.value)
	case a.Month.value != b.Month.value:
		return cmp.Compare(a.Month.value, b.Month.value)
	default:
		return cmp.Compare(a.Day.value, b.Day.value)
	}
}
