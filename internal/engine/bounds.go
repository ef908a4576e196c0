package engine

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-dateselect/internal/config"
)

// SetMinDate replaces the inclusive lower bound; nil removes it.
// Years, months and days are recomputed and the selection is clamped.
func (s *Selector) SetMinDate(bound *SelectionDate) error {
	return s.setBound(config.BoundMin, &s.minBound, bound)
}

// SetMaxDate replaces the inclusive upper bound; nil removes it.
func (s *Selector) SetMaxDate(bound *SelectionDate) error {
	return s.setBound(config.BoundMax, &s.maxBound, bound)
}

func (s *Selector) setBound(name string, slot **SelectionDate, bound *SelectionDate) error {
	if bound != nil {
		if err := validateBound(*bound); err != nil {
			return err
		}
		lo, hi := s.minBound, s.maxBound
		if name == config.BoundMin {
			lo = bound
		} else {
			hi = bound
		}
		if inverted(lo, hi) {
			return fmt.Errorf("%w: %s", ErrInvalidInput, config.ErrInvertedBounds)
		}
	}

	before := s.value
	*slot = cloneBound(bound)
	s.log.Debug(config.MsgBoundChanged,
		config.LogKeyBound, name,
		config.LogKeyDate, bound,
	)

	s.recompute()

	// Only a selection narrowed by the new bound is a change worth reporting.
	if !before.Equal(s.value) {
		s.notifyChange()
	}
	return nil
}

// validateBound requires a complete, real calendar date.
func validateBound(b SelectionDate) error {
	if !b.Complete() {
		return fmt.Errorf("%w: %s", ErrInvalidInput, config.ErrIncompleteBound)
	}
	y, m, d := b.Year.value, b.Month.value, b.Day.value
	if y < config.MinBoundYear || y > config.MaxBoundYear {
		return fmt.Errorf("%w: %s: %d", ErrInvalidInput, config.ErrBoundYearRange, y)
	}
	if m < config.FirstMonth || m > config.LastMonth {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidInput, m)
	}
	t := time.Date(y, time.Month(m+1), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month())-1 != m || t.Day() != d {
		return fmt.Errorf("%w: %s is not a calendar date", ErrInvalidInput, b)
	}
	return nil
}

// inverted reports whether both bounds are set and max falls before min.
func inverted(lo, hi *SelectionDate) bool {
	before, err := Before(hi, lo)
	return err == nil && before
}

// loadYears resolves the effective year range from the bounds and rebuilds the
// descending year list. A selected year outside the new list is cleared.
func (s *Selector) loadYears() {
	r := YearRange{MinYear: config.DefaultMinYear, MaxYear: s.clock.Now().Year()}
	if s.minBound != nil {
		r.MinYear = s.minBound.Year.value
	}
	if s.maxBound != nil {
		r.MaxYear = s.maxBound.Year.value
	}

	if r.MinYear > r.MaxYear {
		s.log.Warn(config.MsgRangeClamped,
			config.LogKeyMinYear, r.MinYear,
			config.LogKeyMaxYear, r.MaxYear,
		)
		if s.maxBound == nil {
			// A future minimum with no explicit maximum stays selectable.
			r.MaxYear = r.MinYear
		} else {
			r.MinYear = r.MaxYear
		}
	}

	years := make([]int, 0, r.MaxYear-r.MinYear+1)
	for y := r.MaxYear; y >= r.MinYear; y-- {
		years = append(years, y)
	}

	s.yearRange = r
	s.years = years
	s.log.Debug(config.MsgYearsLoaded,
		config.LogKeyMinYear, r.MinYear,
		config.LogKeyMaxYear, r.MaxYear,
	)

	s.retain(config.FieldYear, &s.value.Year, s.years)
}
