package server

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-calendar-viewer/calendarapi"
	"github.com/stretchr/testify/require"
)

func TestBuildAgenda(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC) // Monday
	at := func(day, hour, min int) time.Time {
		return time.Date(2024, 1, day, hour, min, 0, 0, time.UTC)
	}
	events := []calendarapi.CalendarEvent{
		{ID: "later", Name: "Quarterly review", StartDate: at(15, 10, 0), EndDate: at(15, 11, 0)},
		{ID: "standup", Name: "Standup", StartDate: at(1, 9, 0), EndDate: at(1, 9, 15)},
		{ID: "ongoing", Name: "Offsite", StartDate: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), EndDate: at(2, 0, 0), AllDay: true},
		{ID: "holiday", Name: "Holiday", StartDate: at(2, 0, 0), EndDate: at(3, 0, 0), AllDay: true},
		{ID: "overnight", Name: "Maintenance window", StartDate: at(2, 0, 0), EndDate: at(3, 0, 0)},
		{ID: "thursday", Name: "", StartDate: at(4, 14, 30), EndDate: at(4, 15, 0)},
	}

	days := buildAgenda(events, now, time.UTC)
	require.Len(t, days, 4)

	require.Equal(t, "Today", days[0].Label)
	require.Equal(t, []EventView{
		{Name: "Offsite", Time: "All day", AllDay: true},
		{Name: "Standup", Time: "09:00 - 09:15"},
	}, days[0].Events)

	require.Equal(t, "Tomorrow", days[1].Label)
	require.Equal(t, []EventView{
		{Name: "Holiday", Time: "All day", AllDay: true},
		{Name: "Maintenance window", Time: "00:00 - 00:00"},
	}, days[1].Events)

	require.Equal(t, "Thursday", days[2].Label)
	require.Equal(t, "(No title)", days[2].Events[0].Name)

	require.Equal(t, "Mon 15 Jan 2024", days[3].Label)
}

func TestBuildAgendaEmpty(t *testing.T) {
	require.Nil(t, buildAgenda(nil, time.Now(), nil))
}

func TestBuildAgendaKeepsAllDayDateAcrossZones(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, loc)
	events := []calendarapi.CalendarEvent{{
		Name:      "Holiday",
		StartDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		AllDay:    true,
	}}

	days := buildAgenda(events, now, loc)
	require.Len(t, days, 1)
	require.Equal(t, "Tomorrow", days[0].Label)
	require.Equal(t, 2, days[0].Date.Day())
}
