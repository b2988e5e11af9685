package calendarapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

// APIError is a rejection reported by the Calendar API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// GoogleLister lists events through the Calendar API v3 client.
type GoogleLister struct {
	svc *calendar.Service
}

var _ EventsLister = (*GoogleLister)(nil)

func NewGoogleLister(svc *calendar.Service) *GoogleLister {
	return &GoogleLister{svc: svc}
}

func (l *GoogleLister) ListUpcoming(ctx context.Context, q Query) (*Response, error) {
	call := l.svc.Events.List(q.CalendarID).
		TimeMin(q.TimeMin.UTC().Format(time.RFC3339)).
		SingleEvents(q.SingleEvents).
		Context(ctx)
	if q.MaxResults > 0 {
		call = call.MaxResults(q.MaxResults)
	}
	if q.OrderBy != "" {
		call = call.OrderBy(q.OrderBy)
	}

	events, err := call.Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, &APIError{Status: apiErr.Code, Message: apiErr.Message}
		}
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	resp := &Response{
		Status:       events.HTTPStatusCode,
		ItemsPresent: events.Items != nil,
		Items:        make([]RawEvent, 0, len(events.Items)),
	}
	for _, item := range events.Items {
		resp.Items = append(resp.Items, toRawEvent(item))
	}
	return resp, nil
}

func toRawEvent(item *calendar.Event) RawEvent {
	raw := RawEvent{ID: item.Id, Summary: item.Summary}
	if item.Start != nil {
		raw.Start = EventDateTime{DateTime: item.Start.DateTime, Date: item.Start.Date}
	}
	if item.End != nil {
		raw.End = EventDateTime{DateTime: item.End.DateTime, Date: item.End.Date}
	}
	return raw
}
