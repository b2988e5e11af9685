package apifake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-calendar-viewer/calendarapi"
)

// FakeBootstrapper completes every bootstrap with a fixed lister or error.
type FakeBootstrapper struct {
	mu     sync.Mutex
	lister calendarapi.EventsLister
	err    error
	starts []calendarapi.Credentials
	// Hold, when set, delays completion until it is closed.
	Hold chan struct{}
}

var _ calendarapi.Bootstrapper = (*FakeBootstrapper)(nil)

func NewFakeBootstrapper(lister calendarapi.EventsLister, err error) *FakeBootstrapper {
	return &FakeBootstrapper{lister: lister, err: err}
}

func (f *FakeBootstrapper) Start(_ context.Context, creds calendarapi.Credentials) *calendarapi.Task {
	f.mu.Lock()
	f.starts = append(f.starts, creds)
	lister, err, hold := f.lister, f.err, f.Hold
	f.mu.Unlock()

	if hold == nil {
		return calendarapi.CompletedTask(lister, err)
	}
	return calendarapi.NewTask(func() (calendarapi.EventsLister, error) {
		<-hold
		return lister, err
	})
}

func (f *FakeBootstrapper) Starts() []calendarapi.Credentials {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]calendarapi.Credentials(nil), f.starts...)
}
