package exchange

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-dateselect/internal/config"
	"github.com/tartampluch/go-dateselect/internal/engine"
)

// EncodeEvent renders a complete selection as a calendar holding one yearly,
// all-day event. stamp is written as DTSTAMP.
func EncodeEvent(date engine.SelectionDate, summary string, stamp time.Time) ([]byte, error) {
	day, ok := date.Time()
	if !ok {
		return nil, errors.New(config.HTTPMsgIncomplete)
	}
	if summary == "" {
		summary = config.FallbackSummary
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, day.Year(), day.Month(), day.Day(), config.ICalDomain))
	event.Props.SetText(config.PropSummary, summary)

	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(stamp.UTC())
	event.Props.Set(dtStamp)

	dtStart := ical.NewProp(config.PropDTStart)
	dtStart.SetDate(day)
	event.Props.Set(dtStart)

	// Set the rule verbatim to avoid a "VALUE=TEXT" param.
	rrule := ical.NewProp(config.PropRRule)
	rrule.Value = config.ICalRRule
	event.Props.Set(rrule)

	cal.Children = append(cal.Children, event.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}
