package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tartampluch/go-dateselect/internal/config"
)

// Write replaces the selection from the outside world.
//
// Accepted values are nil (clears all fields), SelectionDate, *SelectionDate,
// time.Time and a map with "year", "month" and "day" keys holding nil or
// integral numbers, as produced by encoding/json. Any other value returns
// ErrInvalidInput and leaves the Selector untouched.
//
// The adopted value is clamped against freshly computed lists before the
// change observer is notified.
func (s *Selector) Write(value any) error {
	next, err := decodeValue(value)
	if err != nil {
		return err
	}

	s.value = next
	s.recompute()
	s.log.Debug(config.MsgValueWritten, config.LogKeyValue, s.value)
	s.notifyChange()
	return nil
}

// OnChange registers the single change observer, replacing any previous one.
func (s *Selector) OnChange(fn ChangeFunc) {
	s.onChange = fn
}

// OnTouched registers the touched callback. The engine never fires it itself;
// the UI layer does through MarkTouched.
func (s *Selector) OnTouched(fn func()) {
	s.onTouched = fn
}

// MarkTouched invokes the touched callback, if any.
func (s *Selector) MarkTouched() {
	if s.onTouched != nil {
		s.onTouched()
	}
}

// SetEnabled records whether interaction is allowed. The selection is unaffected.
func (s *Selector) SetEnabled(enabled bool) {
	s.enabled = enabled
}

// notifyChange pushes the composed value, or nil while any field is unset.
func (s *Selector) notifyChange() {
	if s.onChange == nil {
		return
	}
	if !s.value.Complete() {
		s.onChange(nil)
		return
	}
	v := s.value
	s.onChange(&v)
}

func decodeValue(value any) (SelectionDate, error) {
	switch v := value.(type) {
	case nil:
		return SelectionDate{}, nil
	case SelectionDate:
		return v, nil
	case *SelectionDate:
		if v == nil {
			return SelectionDate{}, nil
		}
		return *v, nil
	case time.Time:
		return FromTime(v), nil
	case map[string]any:
		return decodeRecord(v)
	case json.RawMessage:
		var sd SelectionDate
		if err := decodeJSONRecord(v, &sd); err != nil {
			return SelectionDate{}, err
		}
		return sd, nil
	default:
		return SelectionDate{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidInput, value)
	}
}

func decodeRecord(m map[string]any) (SelectionDate, error) {
	var sd SelectionDate
	fields := []struct {
		key string
		dst *Field
	}{
		{config.JSONKeyYear, &sd.Year},
		{config.JSONKeyMonth, &sd.Month},
		{config.JSONKeyDay, &sd.Day},
	}
	for _, f := range fields {
		raw, ok := m[f.key]
		if !ok {
			return SelectionDate{}, fmt.Errorf("%w: missing %q", ErrInvalidInput, f.key)
		}
		// Strings are a UI concern; a record must carry numbers or null.
		if _, isString := raw.(string); isString {
			return SelectionDate{}, fmt.Errorf("%w: %q holds a string", ErrInvalidInput, f.key)
		}
		if n, isNumber := raw.(json.Number); isNumber {
			raw = n.String()
		}
		v, err := Normalize(raw)
		if err != nil {
			return SelectionDate{}, fmt.Errorf("%q: %w", f.key, err)
		}
		*f.dst = v
	}
	return sd, nil
}

// decodeJSONRecord requires all three keys, unlike a plain json.Unmarshal.
func decodeJSONRecord(data []byte, sd *SelectionDate) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for _, k := range []string{config.JSONKeyYear, config.JSONKeyMonth, config.JSONKeyDay} {
		if _, ok := m[k]; !ok {
			return fmt.Errorf("%w: missing %q", ErrInvalidInput, k)
		}
	}
	if err := sd.Year.UnmarshalJSON(m[config.JSONKeyYear]); err != nil {
		return err
	}
	if err := sd.Month.UnmarshalJSON(m[config.JSONKeyMonth]); err != nil {
		return err
	}
	return sd.Day.UnmarshalJSON(m[config.JSONKeyDay])
}
