package exchange

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-dateselect/internal/config"
	"github.com/tartampluch/go-dateselect/internal/engine"
)

// Birthday is the first dated contact found in a vCard stream.
type Birthday struct {
	Name string
	// Date has a null Year when the card only carries --MM-DD.
	Date engine.SelectionDate
}

// ReadBirthday decodes cards from r until one has a parsable BDAY.
// Malformed cards and undated contacts are skipped.
func ReadBirthday(r io.Reader) (Birthday, error) {
	decoder := vcard.NewDecoder(r)
	for {
		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			return Birthday{}, errors.New(config.ErrNoBirthday)
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompExchange,
				config.LogKeyError, err)
			continue
		}

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}
		date, err := ParseDate(bday.Value)
		if err != nil {
			continue
		}

		name := ""
		if fn := card.Get(config.VCardFN); fn != nil {
			name = fn.Value
		}
		return Birthday{Name: name, Date: date}, nil
	}
}

// ParseDate handles the vCard date forms. Year-less dates (--MM-DD) yield a
// selection whose year is null.
func ParseDate(value string) (engine.SelectionDate, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return engine.FromTime(t), nil
		}
	}

	// Parsed against a leap year so that --02-29 survives.
	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			safe := time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			date := engine.FromTime(safe)
			date.Year = engine.Null
			return date, nil
		}
	}

	return engine.SelectionDate{}, fmt.Errorf("%s: %q", config.ErrDateParse, value)
}
