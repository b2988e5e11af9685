package calendarapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jrsteele09/go-calendar-viewer/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ReadOnlyScope is the single scope the viewer asks for.
const ReadOnlyScope = calendar.CalendarReadonlyScope

// Credentials are the per-session inputs to a bootstrap. A nil TokenSource means the
// client authenticates with the API key only, which reaches public calendars only.
type Credentials struct {
	TokenSource oauth2.TokenSource
}

// Bootstrapper starts the asynchronous load and initialization of a Calendar API client.
type Bootstrapper interface {
	Start(ctx context.Context, creds Credentials) *Task
}

// Task is the completion signal of a bootstrap.
type Task struct {
	done   chan struct{}
	lister EventsLister
	err    error
}

// NewTask runs fn in its own goroutine.
func NewTask(fn func() (EventsLister, error)) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.lister, t.err = fn()
	}()
	return t
}

// CompletedTask returns a task that has already finished.
func CompletedTask(lister EventsLister, err error) *Task {
	t := &Task{done: make(chan struct{}), lister: lister, err: err}
	close(t.done)
	return t
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) (EventsLister, error) {
	select {
	case <-t.done:
		return t.lister, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// BootstrapConfig configures GoogleBootstrapper.
type BootstrapConfig struct {
	APIKey       string
	DiscoveryURL string
	Scopes       []string
	// Endpoint overrides the Calendar API base path, e.g. for a local stub.
	Endpoint string
	// Timeout bounds discovery and client initialization together.
	Timeout time.Duration
	// HTTPClient fetches the discovery document. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// GoogleBootstrapper loads the Calendar discovery document, then builds the v3 client.
type GoogleBootstrapper struct {
	cfg BootstrapConfig
}

var _ Bootstrapper = (*GoogleBootstrapper)(nil)

func NewGoogleBootstrapper(cfg BootstrapConfig) *GoogleBootstrapper {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{ReadOnlyScope}
	}
	return &GoogleBootstrapper{cfg: cfg}
}

func (b *GoogleBootstrapper) Start(ctx context.Context, creds Credentials) *Task {
	return NewTask(func() (EventsLister, error) {
		bctx := ctx
		if b.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			bctx, cancel = context.WithTimeout(ctx, b.cfg.Timeout)
			defer cancel()
		}
		lister, err := b.bootstrap(bctx, creds)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrClientBootstrap, err)
		}
		return lister, nil
	})
}

type discoveryDocument struct {
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Version string `json:"version"`
	RootURL string `json:"rootUrl"`
}

func (b *GoogleBootstrapper) bootstrap(ctx context.Context, creds Credentials) (EventsLister, error) {
	doc, err := b.loadDiscovery(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("api", doc.Name).Str("version", doc.Version).Msg("Calendar discovery document loaded")

	opts := []option.ClientOption{option.WithScopes(b.cfg.Scopes...)}
	// An API key takes precedence over other credentials in the transport, so a consented
	// token is passed alone.
	switch {
	case creds.TokenSource != nil:
		opts = append(opts, option.WithTokenSource(creds.TokenSource))
	case b.cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(b.cfg.APIKey))
	default:
		log.Warn().Msg("No API key or calendar token; Calendar API requests will be unauthenticated")
		opts = append(opts, option.WithoutAuthentication())
	}
	if b.cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(b.cfg.Endpoint))
	}

	// The client outlives the bootstrap deadline.
	svc, err := calendar.NewService(context.WithoutCancel(ctx), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return NewGoogleLister(svc), nil
}

func (b *GoogleBootstrapper) loadDiscovery(ctx context.Context) (*discoveryDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.cfg.DiscoveryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("discovery request: %w", err)
	}
	resp, err := b.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loading discovery document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("discovery document: unexpected status %d", resp.StatusCode)
	}
	var doc discoveryDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding discovery document: %w", err)
	}
	if doc.Name != "calendar" {
		return nil, fmt.Errorf("discovery document describes %q, not calendar", doc.Name)
	}
	return &doc, nil
}
