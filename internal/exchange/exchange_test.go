package exchange_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-dateselect/internal/config"
	"github.com/tartampluch/go-dateselect/internal/engine"
	"github.com/tartampluch/go-dateselect/internal/exchange"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  engine.SelectionDate
	}{
		{"Dashed", "1990-08-01", engine.NewSelectionDate(1990, 7, 1)},
		{"Basic", "19920229", engine.NewSelectionDate(1992, 1, 29)},
		{"RFC3339 keeps local date", "2000-01-01T01:00:00+09:00", engine.NewSelectionDate(2000, 0, 1)},
		{"Timestamp", "1985-12-31T23:00:00Z", engine.NewSelectionDate(1985, 11, 31)},
		{"No year", "--02-29", engine.SelectionDate{Month: engine.Int(1), Day: engine.Int(29)}},
		{"No year basic", "--0115", engine.SelectionDate{Month: engine.Int(0), Day: engine.Int(15)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := exchange.ParseDate(tt.value)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}

	_, err := exchange.ParseDate("yesterday")
	assert.Error(t, err)
}

func TestReadBirthday_SkipsUndatedCards(t *testing.T) {
	stream := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Nobody\r\nEND:VCARD\r\n" +
		"BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Bad\r\nBDAY:someday\r\nEND:VCARD\r\n" +
		"BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Leap Baby\r\nBDAY:--02-29\r\nEND:VCARD\r\n"

	b, err := exchange.ReadBirthday(strings.NewReader(stream))
	require.NoError(t, err)

	assert.Equal(t, "Leap Baby", b.Name)
	assert.True(t, b.Date.Year.IsNull())
	assert.True(t, b.Date.Month.Equal(engine.Int(1)))
	assert.True(t, b.Date.Day.Equal(engine.Int(29)))
}

func TestReadBirthday_None(t *testing.T) {
	_, err := exchange.ReadBirthday(strings.NewReader("BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Nobody\r\nEND:VCARD\r\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrNoBirthday)
}

// TestImportedPartialDate_FeedsSelector checks a year-less birthday lands as a partial selection.
func TestImportedPartialDate_FeedsSelector(t *testing.T) {
	date, err := exchange.ParseDate("--08-01")
	require.NoError(t, err)

	s := engine.New()
	require.NoError(t, s.Write(date))

	v := s.Value()
	assert.True(t, v.Year.IsNull())
	assert.True(t, v.Month.Equal(engine.Int(7)))
	assert.True(t, v.Day.IsNull(), "Without a year no day list exists")
}

func TestEncodeEvent(t *testing.T) {
	stamp := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

	data, err := exchange.EncodeEvent(engine.NewSelectionDate(1990, 7, 1), "Alice", stamp)
	require.NoError(t, err)

	ics := string(data)
	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Contains(t, ics, "BEGIN:VEVENT")
	assert.Contains(t, ics, "SUMMARY:Alice")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:19900801")
	assert.Contains(t, ics, "RRULE:FREQ=YEARLY")
	assert.Contains(t, ics, "UID:19900801@"+config.ICalDomain)
	assert.Contains(t, ics, "DTSTAMP:20261019T083000Z")
}

func TestEncodeEvent_DefaultSummary(t *testing.T) {
	data, err := exchange.EncodeEvent(engine.NewSelectionDate(2000, 1, 29), "", time.Now())
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUMMARY:"+config.FallbackSummary)
}

func TestEncodeEvent_Incomplete(t *testing.T) {
	_, err := exchange.EncodeEvent(engine.SelectionDate{Year: engine.Int(1990)}, "x", time.Now())
	assert.Error(t, err)
}
