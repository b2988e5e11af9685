package apifake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-calendar-viewer/calendarapi"
)

// FakeLister is an in-memory calendarapi.EventsLister that records every query.
type FakeLister struct {
	mu       sync.Mutex
	queries  []calendarapi.Query
	response *calendarapi.Response
	err      error
	// Block, when set, holds ListUpcoming until it is closed or the context ends.
	Block chan struct{}
	// Started receives a value as each call begins, when set.
	Started chan struct{}
}

var _ calendarapi.EventsLister = (*FakeLister)(nil)

func NewFakeLister(items ...calendarapi.RawEvent) *FakeLister {
	f := &FakeLister{}
	f.SetItems(items...)
	return f
}

// SetItems makes the next calls succeed with status 200 and the given items.
func (f *FakeLister) SetItems(items ...calendarapi.RawEvent) {
	f.SetResponse(&calendarapi.Response{Status: 200, Items: items, ItemsPresent: true}, nil)
}

func (f *FakeLister) SetResponse(resp *calendarapi.Response, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.response = resp
	f.err = err
}

func (f *FakeLister) ListUpcoming(ctx context.Context, q calendarapi.Query) (*calendarapi.Response, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	resp, err := f.response, f.err
	block, started := f.Block, f.Started
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return resp, err
}

func (f *FakeLister) Queries() []calendarapi.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]calendarapi.Query(nil), f.queries...)
}
