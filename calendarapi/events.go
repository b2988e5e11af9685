// Package calendarapi bootstraps the Google Calendar client, lists upcoming events and
// maps them into the shape the calendar view renders.
package calendarapi

import (
	"context"
	"fmt"
	"time"
)

const (
	// MaxUpcomingEvents caps a single listing.
	MaxUpcomingEvents = 10
	OrderByStartTime  = "startTime"
	allDayLayout      = "2006-01-02"
)

// EventDateTime carries either a timed instant (DateTime, RFC 3339) or an all-day Date.
type EventDateTime struct {
	DateTime string
	Date     string
}

// RawEvent is the subset of an API event record the viewer reads.
type RawEvent struct {
	ID      string
	Summary string
	Start   EventDateTime
	End     EventDateTime
}

// CalendarEvent is the display-ready event consumed by the calendar view.
type CalendarEvent struct {
	ID        string    `json:"id"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Name      string    `json:"name"`
	// AllDay is set when the event was given as dates rather than instants.
	AllDay bool `json:"allDay,omitempty"`
}

// Query describes one events.list request.
type Query struct {
	CalendarID   string
	TimeMin      time.Time
	MaxResults   int64
	SingleEvents bool
	OrderBy      string
}

// UpcomingQuery lists the next events of calendarID from now on, recurring series expanded
// into single instances, ordered by start time.
func UpcomingQuery(calendarID string, now time.Time) Query {
	return Query{
		CalendarID:   calendarID,
		TimeMin:      now,
		MaxResults:   MaxUpcomingEvents,
		SingleEvents: true,
		OrderBy:      OrderByStartTime,
	}
}

// Response is the outcome of a listing. ItemsPresent is false when the payload had no items field.
type Response struct {
	Status       int
	Items        []RawEvent
	ItemsPresent bool
}

// EventsLister issues events.list requests.
type EventsLister interface {
	ListUpcoming(ctx context.Context, q Query) (*Response, error)
}

// MapEvents converts raw items, preferring the timed field over the all-day date on each end.
func MapEvents(items []RawEvent) ([]CalendarEvent, error) {
	events := make([]CalendarEvent, 0, len(items))
	for _, item := range items {
		start, err := parseEventTime(item.Start)
		if err != nil {
			return nil, fmt.Errorf("event %q start: %w", item.ID, err)
		}
		end, err := parseEventTime(item.End)
		if err != nil {
			return nil, fmt.Errorf("event %q end: %w", item.ID, err)
		}
		events = append(events, CalendarEvent{
			ID:        item.ID,
			StartDate: start,
			EndDate:   end,
			Name:      item.Summary,
			AllDay:    item.Start.DateTime == "" && item.Start.Date != "",
		})
	}
	return events, nil
}

// All-day dates carry no zone and are read as UTC midnight.
func parseEventTime(dt EventDateTime) (time.Time, error) {
	switch {
	case dt.DateTime != "":
		return time.Parse(time.RFC3339, dt.DateTime)
	case dt.Date != "":
		return time.ParseInLocation(allDayLayout, dt.Date, time.UTC)
	default:
		return time.Time{}, fmt.Errorf("neither dateTime nor date set")
	}
}
