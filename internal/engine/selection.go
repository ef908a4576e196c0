package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/tartampluch/go-dateselect/internal/config"
)

// Field is a nullable integer component of a SelectionDate.
// The zero value is null, so month 0 (January) is distinct from "unset".
type Field struct {
	value int
	valid bool
}

// Null is the unset Field.
var Null = Field{}

// Int returns a Field holding n.
func Int(n int) Field {
	return Field{value: n, valid: true}
}

// Get returns the held integer and whether the field is set.
func (f Field) Get() (int, bool) {
	return f.value, f.valid
}

// IsNull reports whether the field is unset.
func (f Field) IsNull() bool {
	return !f.valid
}

// Equal reports whether both fields are null or hold the same integer.
func (f Field) Equal(other Field) bool {
	if !f.valid || !other.valid {
		return f.valid == other.valid
	}
	return f.value == other.value
}

func (f Field) String() string {
	if !f.valid {
		return config.NullSentinel
	}
	return strconv.Itoa(f.value)
}

// MarshalJSON encodes a null field as JSON null.
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.value)), nil
}

// UnmarshalJSON accepts null or an integral number.
func (f *Field) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Null
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	v, err := strconv.Atoi(n.String())
	if err != nil {
		return fmt.Errorf("%w: %q is not an integer", ErrInvalidInput, n)
	}
	*f = Int(v)
	return nil
}

// SelectionDate is a possibly partial calendar date chosen by the user.
// Month is zero-indexed (0 = January).
type SelectionDate struct {
	Year  Field `json:"year"`
	Month Field `json:"month"`
	Day   Field `json:"day"`
}

// NewSelectionDate builds a complete selection. month is zero-indexed.
func NewSelectionDate(year, month, day int) SelectionDate {
	return SelectionDate{Year: Int(year), Month: Int(month), Day: Int(day)}
}

// FromTime adopts the calendar date of t in its own location.
func FromTime(t time.Time) SelectionDate {
	y, m, d := t.Date()
	return NewSelectionDate(y, int(m)-1, d)
}

// Complete reports whether year, month and day are all set.
func (s SelectionDate) Complete() bool {
	return s.Year.valid && s.Month.valid && s.Day.valid
}

// Time composes the selection as midnight UTC. ok is false for a partial selection.
func (s SelectionDate) Time() (t time.Time, ok bool) {
	if !s.Complete() {
		return time.Time{}, false
	}
	return time.Date(s.Year.value, time.Month(s.Month.value+1), s.Day.value, 0, 0, 0, 0, time.UTC), true
}

// Equal compares the three fields.
func (s SelectionDate) Equal(other SelectionDate) bool {
	return s.Year.Equal(other.Year) && s.Month.Equal(other.Month) && s.Day.Equal(other.Day)
}

func (s SelectionDate) String() string {
	return fmt.Sprintf("{year:%s month:%s day:%s}", s.Year, s.Month, s.Day)
}

// BoundFromTime converts t into a date bound.
func BoundFromTime(t time.Time) *SelectionDate {
	b := FromTime(t)
	return &b
}

// YearRange is the resolved span of selectable years.
type YearRange struct {
	MinYear int `json:"minYear"`
	MaxYear int `json:"maxYear"`
}
