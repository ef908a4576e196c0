package engine

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/tartampluch/go-dateselect/internal/config"
)

// SetYear changes the year and recomputes months and days.
// raw may be an integer, nil, a Field, or a string ("null" and "" mean unset).
func (s *Selector) SetYear(raw any) error {
	f, err := Normalize(raw)
	if err != nil {
		return err
	}
	s.value.Year = f
	s.retain(config.FieldYear, &s.value.Year, s.years)
	s.loadMonths()
	s.loadDays()
	s.notifyChange()
	return nil
}

// SetMonth changes the zero-indexed month and recomputes days.
func (s *Selector) SetMonth(raw any) error {
	f, err := Normalize(raw)
	if err != nil {
		return err
	}
	s.value.Month = f
	s.retain(config.FieldMonth, &s.value.Month, s.months)
	s.loadDays()
	s.notifyChange()
	return nil
}

// SetDay changes the day. Nothing depends on it.
func (s *Selector) SetDay(raw any) error {
	f, err := Normalize(raw)
	if err != nil {
		return err
	}
	s.value.Day = f
	s.retain(config.FieldDay, &s.value.Day, s.days)
	s.notifyChange()
	return nil
}

// Normalize converts a raw UI value into a Field.
// Unset selects report nil, "" or the string "null".
func Normalize(raw any) (Field, error) {
	switch v := raw.(type) {
	case nil:
		return Null, nil
	case Field:
		return v, nil
	case *Field:
		if v == nil {
			return Null, nil
		}
		return *v, nil
	case int:
		return Int(v), nil
	case int32:
		return Int(int(v)), nil
	case int64:
		return Int(int(v)), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return Null, fmt.Errorf("%w: %v is not an integer", ErrInvalidInput, v)
		}
		return Int(int(v)), nil
	case string:
		t := strings.TrimSpace(v)
		if t == "" || t == config.NullSentinel {
			return Null, nil
		}
		n, err := strconv.Atoi(t)
		if err != nil {
			return Null, fmt.Errorf("%w: %q is not an integer", ErrInvalidInput, v)
		}
		return Int(n), nil
	default:
		return Null, fmt.Errorf("%w: unsupported type %T", ErrInvalidInput, raw)
	}
}

// loadMonths rebuilds the month list. When the selected year is a bound's
// year, months beyond that bound are excluded.
func (s *Selector) loadMonths() {
	first, last := config.FirstMonth, config.LastMonth
	if y, ok := s.value.Year.Get(); ok {
		if s.maxBound != nil && y == s.maxBound.Year.value {
			last = min(last, s.maxBound.Month.value)
		}
		if s.minBound != nil && y == s.minBound.Year.value {
			first = max(first, s.minBound.Month.value)
		}
	}

	months := make([]int, 0, config.MonthsPerYear)
	for m := first; m <= last; m++ {
		months = append(months, m)
	}
	s.months = months
	s.log.Debug(config.MsgMonthsLoaded, config.LogKeyCount, len(months))

	s.retain(config.FieldMonth, &s.value.Month, s.months)
}

// loadDays rebuilds the day list for the selected month and year, keeping
// only days whose full date lies within the inclusive bounds.
func (s *Selector) loadDays() {
	n := DaysInMonth(s.value.Month, s.value.Year)
	days := make([]int, 0, n)
	for d := config.FirstDay; d <= n; d++ {
		candidate := SelectionDate{Year: s.value.Year, Month: s.value.Month, Day: Int(d)}
		if s.inBounds(candidate) {
			days = append(days, d)
		}
	}
	s.days = days
	s.log.Debug(config.MsgDaysLoaded, config.LogKeyCount, len(days))

	s.retain(config.FieldDay, &s.value.Day, s.days)
}

// inBounds reports whether a complete date satisfies min <= date <= max.
func (s *Selector) inBounds(date SelectionDate) bool {
	if s.minBound != nil {
		if early, err := Before(&date, s.minBound); err != nil || early {
			return false
		}
	}
	if s.maxBound != nil {
		if late, err := Before(s.maxBound, &date); err != nil || late {
			return false
		}
	}
	return true
}

// retain clears f when its value is missing from candidates.
func (s *Selector) retain(name string, f *Field, candidates []int) {
	v, ok := f.Get()
	if !ok || slices.Contains(candidates, v) {
		return
	}
	*f = Null
	s.log.Debug(config.MsgFieldCleared,
		config.LogKeyField, name,
		config.LogKeyValue, v,
	)
}
