package calendarapi

import (
	"errors"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const productID = "-//jrsteele09//go-calendar-viewer//EN"

// ErrNoEvents is returned by WriteICS for an empty list; a VCALENDAR needs at least one component.
var ErrNoEvents = errors.New("no events to export")

// WriteICS encodes events as an iCalendar document. stamp is used as DTSTAMP.
func WriteICS(w io.Writer, events []CalendarEvent, stamp time.Time) error {
	if len(events) == 0 {
		return ErrNoEvents
	}
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, e := range events {
		uid := e.ID
		if uid == "" {
			uid = uuid.NewString()
		}
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, uid)
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		if e.AllDay {
			event.Props.SetDate(ical.PropDateTimeStart, e.StartDate.UTC())
			event.Props.SetDate(ical.PropDateTimeEnd, e.EndDate.UTC())
		} else {
			event.Props.SetDateTime(ical.PropDateTimeStart, e.StartDate.UTC())
			event.Props.SetDateTime(ical.PropDateTimeEnd, e.EndDate.UTC())
		}
		event.Props.SetText(ical.PropSummary, e.Name)
		cal.Children = append(cal.Children, event.Component)
	}
	return ical.NewEncoder(w).Encode(cal)
}
