package calendarapi_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/jrsteele09/go-calendar-viewer/calendarapi"
	"github.com/stretchr/testify/require"
)

func TestWriteICS(t *testing.T) {
	events := []calendarapi.CalendarEvent{{
		ID:        "e1",
		Name:      "Standup",
		StartDate: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	err := calendarapi.WriteICS(&buf, events, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "BEGIN:VCALENDAR")
	require.Contains(t, out, "BEGIN:VEVENT")
	require.Contains(t, out, "UID:e1")
	require.Contains(t, out, "SUMMARY:Standup")
	require.Contains(t, out, "DTSTART:20240101T090000Z")
	require.Contains(t, out, "DTEND:20240101T091500Z")
	require.Contains(t, out, "END:VCALENDAR")
}

func TestWriteICS_AllDay(t *testing.T) {
	events := []calendarapi.CalendarEvent{{
		ID:        "e2",
		Name:      "Holiday",
		StartDate: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC),
		AllDay:    true,
	}}

	var buf bytes.Buffer
	require.NoError(t, calendarapi.WriteICS(&buf, events, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)))

	out := buf.String()
	require.Contains(t, out, "DTSTART;VALUE=DATE:20241225")
	require.Contains(t, out, "DTEND;VALUE=DATE:20241226")
	require.NotContains(t, out, "DTSTART:20241225T000000Z")
}

func TestWriteICS_NoEvents(t *testing.T) {
	var buf bytes.Buffer
	err := calendarapi.WriteICS(&buf, nil, time.Now())
	require.ErrorIs(t, err, calendarapi.ErrNoEvents)
	require.Zero(t, buf.Len())
}
