package server

import (
	"sort"
	"time"

	"github.com/jrsteele09/go-calendar-viewer/calendarapi"
)

// DayView is one day of the agenda.
type DayView struct {
	Label  string
	Date   time.Time
	Events []EventView
}

type EventView struct {
	Name   string
	Time   string
	AllDay bool
}

// buildAgenda groups events by the local day they start on, beginning today. Events that
// started before today are shown under today.
func buildAgenda(events []calendarapi.CalendarEvent, now time.Time, loc *time.Location) []DayView {
	if len(events) == 0 {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	today := startOfDay(now.In(loc))

	sorted := make([]calendarapi.CalendarEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})

	var days []DayView
	for _, ev := range sorted {
		start := ev.StartDate.In(loc)
		allDay := ev.AllDay
		if allDay {
			// All-day dates are UTC midnight; keep the calendar date.
			y, m, d := ev.StartDate.UTC().Date()
			start = time.Date(y, m, d, 0, 0, 0, 0, loc)
		}
		day := startOfDay(start)
		if day.Before(today) {
			day = today
		}
		if len(days) == 0 || !days[len(days)-1].Date.Equal(day) {
			days = append(days, DayView{Label: dayLabel(day, today), Date: day})
		}
		view := EventView{Name: ev.Name, AllDay: allDay}
		if allDay {
			view.Time = "All day"
		} else {
			view.Time = start.Format("15:04") + " - " + ev.EndDate.In(loc).Format("15:04")
		}
		if view.Name == "" {
			view.Name = "(No title)"
		}
		days[len(days)-1].Events = append(days[len(days)-1].Events, view)
	}
	return days
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func dayLabel(day, today time.Time) string {
	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow"
	case day.Before(today.AddDate(0, 0, 7)):
		return day.Format("Monday")
	default:
		return day.Format("Mon 2 Jan 2006")
	}
}
