package calendarapi_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-calendar-viewer/calendarapi"
	"github.com/jrsteele09/go-calendar-viewer/internal/errors"
	"github.com/stretchr/testify/require"
)

const discoveryJSON = `{"kind":"discovery#restDescription","name":"calendar","version":"v3","rootUrl":"https://www.googleapis.com/"}`

// fakeGoogle serves the discovery document and the events.list endpoint.
type fakeGoogle struct {
	mu         sync.Mutex
	discovery  string
	eventsBody string
	eventsCode int
	lastQuery  map[string]string
	listCalls  int
}

func (f *fakeGoogle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case r.URL.Path == "/discovery":
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, f.discovery)
	case strings.HasPrefix(r.URL.Path, "/calendars/") && strings.HasSuffix(r.URL.Path, "/events"):
		f.listCalls++
		f.lastQuery = map[string]string{}
		for k := range r.URL.Query() {
			f.lastQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.eventsCode)
		_, _ = fmt.Fprint(w, f.eventsBody)
	default:
		http.NotFound(w, r)
	}
}

func newFakeGoogle(t *testing.T) (*fakeGoogle, *httptest.Server) {
	t.Helper()
	f := &fakeGoogle{discovery: discoveryJSON, eventsCode: http.StatusOK}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func bootstrapper(srv *httptest.Server) *calendarapi.GoogleBootstrapper {
	return calendarapi.NewGoogleBootstrapper(calendarapi.BootstrapConfig{
		APIKey:       "test-key",
		DiscoveryURL: srv.URL + "/discovery",
		Endpoint:     srv.URL + "/",
		Timeout:      5 * time.Second,
		HTTPClient:   srv.Client(),
	})
}

func TestGoogleBootstrapper_ListUpcoming(t *testing.T) {
	f, srv := newFakeGoogle(t)
	f.eventsBody = `{"kind":"calendar#events","items":[
		{"id":"e1","summary":"Standup","start":{"dateTime":"2024-01-01T09:00:00Z"},"end":{"dateTime":"2024-01-01T09:15:00Z"}},
		{"id":"e2","summary":"Holiday","start":{"date":"2024-01-02"},"end":{"date":"2024-01-03"}}
	]}`

	ctx := context.Background()
	lister, err := bootstrapper(srv).Start(ctx, calendarapi.Credentials{}).Wait(ctx)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	resp, err := lister.ListUpcoming(ctx, calendarapi.UpcomingQuery("jane@example.com", now))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Status)
	require.True(t, resp.ItemsPresent)
	require.Len(t, resp.Items, 2)
	require.Equal(t, "2024-01-01T09:00:00Z", resp.Items[0].Start.DateTime)
	require.Equal(t, "2024-01-02", resp.Items[1].Start.Date)

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Equal(t, "2024-01-01T08:00:00Z", f.lastQuery["timeMin"])
	require.Equal(t, "10", f.lastQuery["maxResults"])
	require.Equal(t, "true", f.lastQuery["singleEvents"])
	require.Equal(t, "startTime", f.lastQuery["orderBy"])
}

func TestGoogleLister_MissingItems(t *testing.T) {
	f, srv := newFakeGoogle(t)
	f.eventsBody = `{"kind":"calendar#events"}`

	ctx := context.Background()
	lister, err := bootstrapper(srv).Start(ctx, calendarapi.Credentials{}).Wait(ctx)
	require.NoError(t, err)

	resp, err := lister.ListUpcoming(ctx, calendarapi.UpcomingQuery("jane@example.com", time.Now()))
	require.NoError(t, err)
	require.False(t, resp.ItemsPresent)
	require.Empty(t, resp.Items)
}

func TestGoogleLister_APIError(t *testing.T) {
	f, srv := newFakeGoogle(t)
	f.eventsCode = http.StatusNotFound
	f.eventsBody = `{"error":{"code":404,"message":"Not Found","errors":[{"reason":"notFound","message":"Not Found"}]}}`

	ctx := context.Background()
	lister, err := bootstrapper(srv).Start(ctx, calendarapi.Credentials{}).Wait(ctx)
	require.NoError(t, err)

	_, err = lister.ListUpcoming(ctx, calendarapi.UpcomingQuery("jane@example.com", time.Now()))
	var apiErr *calendarapi.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "404 Not Found", apiErr.Error())
}

func TestGoogleBootstrapper_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("discovery describes another api", func(t *testing.T) {
		f, srv := newFakeGoogle(t)
		f.discovery = `{"name":"drive","version":"v3"}`
		_, err := bootstrapper(srv).Start(ctx, calendarapi.Credentials{}).Wait(ctx)
		require.ErrorIs(t, err, errors.ErrClientBootstrap)
		require.Contains(t, err.Error(), `"drive"`)
	})

	t.Run("discovery not found", func(t *testing.T) {
		_, srv := newFakeGoogle(t)
		b := calendarapi.NewGoogleBootstrapper(calendarapi.BootstrapConfig{
			DiscoveryURL: srv.URL + "/missing",
			HTTPClient:   srv.Client(),
		})
		_, err := b.Start(ctx, calendarapi.Credentials{}).Wait(ctx)
		require.ErrorIs(t, err, errors.ErrClientBootstrap)
		require.Contains(t, err.Error(), "404")
	})

	t.Run("stalled discovery times out", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-release:
			}
		}))
		t.Cleanup(srv.Close)
		t.Cleanup(func() { close(release) })

		b := calendarapi.NewGoogleBootstrapper(calendarapi.BootstrapConfig{
			DiscoveryURL: srv.URL,
			Timeout:      50 * time.Millisecond,
			HTTPClient:   srv.Client(),
		})
		_, err := b.Start(ctx, calendarapi.Credentials{}).Wait(ctx)
		require.ErrorIs(t, err, errors.ErrClientBootstrap)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestTask_Wait(t *testing.T) {
	t.Run("completed", func(t *testing.T) {
		task := calendarapi.CompletedTask(nil, errors.ErrClientBootstrap)
		<-task.Done()
		_, err := task.Wait(context.Background())
		require.ErrorIs(t, err, errors.ErrClientBootstrap)
	})

	t.Run("caller gives up first", func(t *testing.T) {
		block := make(chan struct{})
		defer close(block)
		task := calendarapi.NewTask(func() (calendarapi.EventsLister, error) {
			<-block
			return nil, nil
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := task.Wait(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}
