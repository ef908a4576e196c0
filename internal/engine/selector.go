package engine

import (
	"log/slog"
	"slices"

	"github.com/tartampluch/go-dateselect/internal/config"
)

// ChangeFunc receives the composed value after every mutation.
// value is nil while the selection is incomplete.
type ChangeFunc func(value *SelectionDate)

// Selector is the selection-date engine behind a three-dropdown date control.
// It owns the selection, the optional bounds and the derived candidate lists.
//
// A Selector is not safe for concurrent use. Callbacks run synchronously on the
// calling goroutine after all lists have been recomputed, so they may call back
// into the Selector.
type Selector struct {
	clock Clock
	log   *slog.Logger

	value    SelectionDate
	minBound *SelectionDate
	maxBound *SelectionDate

	yearRange YearRange
	years     []int
	months    []int
	days      []int

	enabled   bool
	onChange  ChangeFunc
	onTouched func()
}

// Option configures a Selector at construction time.
type Option func(*Selector)

// WithClock overrides the clock used to resolve the default maximum year.
func WithClock(c Clock) Option {
	return func(s *Selector) { s.clock = c }
}

// WithMinDate sets the initial inclusive lower bound. Invalid bounds are ignored.
func WithMinDate(b *SelectionDate) Option {
	return func(s *Selector) {
		if b != nil && validateBound(*b) == nil {
			s.minBound = cloneBound(b)
		}
	}
}

// WithMaxDate sets the initial inclusive upper bound. Invalid bounds are ignored,
// and so is a min/max pair where max precedes min.
func WithMaxDate(b *SelectionDate) Option {
	return func(s *Selector) {
		if b != nil && validateBound(*b) == nil {
			s.maxBound = cloneBound(b)
		}
	}
}

// New creates a Selector with an empty selection and computed candidate lists.
func New(opts ...Option) *Selector {
	s := &Selector{
		clock:   RealClock{},
		log:     slog.With(config.LogKeyComponent, config.CompEngine),
		enabled: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if inverted(s.minBound, s.maxBound) {
		s.log.Warn(config.MsgBoundsIgnored,
			config.LogKeyError, config.ErrInvertedBounds,
			config.LogKeyMinYear, s.minBound.Year.value,
			config.LogKeyMaxYear, s.maxBound.Year.value,
		)
		s.minBound, s.maxBound = nil, nil
	}
	s.recompute()
	return s
}

// Value returns a copy of the current, possibly partial, selection.
func (s *Selector) Value() SelectionDate {
	return s.value
}

// Years returns the selectable years in descending order.
func (s *Selector) Years() []int {
	return slices.Clone(s.years)
}

// Months returns the selectable zero-indexed months in ascending order.
func (s *Selector) Months() []int {
	return slices.Clone(s.months)
}

// Days returns the selectable days in ascending order.
func (s *Selector) Days() []int {
	return slices.Clone(s.days)
}

// YearRange returns the effective year range.
func (s *Selector) YearRange() YearRange {
	return s.yearRange
}

// MinDate returns a copy of the lower bound, or nil.
func (s *Selector) MinDate() *SelectionDate {
	return cloneBound(s.minBound)
}

// MaxDate returns a copy of the upper bound, or nil.
func (s *Selector) MaxDate() *SelectionDate {
	return cloneBound(s.maxBound)
}

// Enabled reports whether interaction is allowed.
func (s *Selector) Enabled() bool {
	return s.enabled
}

// recompute rebuilds every candidate list top-down and clamps the selection.
func (s *Selector) recompute() {
	s.loadYears()
	s.loadMonths()
	s.loadDays()
}

func cloneBound(b *SelectionDate) *SelectionDate {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}
