// Package orchestrator sequences sign-in, Calendar client bootstrap and event fetches for
// one browser session.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-calendar-viewer/calendarapi"
	"github.com/jrsteele09/go-calendar-viewer/identity"
	"github.com/jrsteele09/go-calendar-viewer/internal/errors"
	"github.com/jrsteele09/go-calendar-viewer/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// DefaultAnchor is the element the sign-in button is rendered into.
const DefaultAnchor = "signInDiv"

type Options struct {
	ClientID     string
	Anchor       string
	Button       identity.ButtonOptions
	FetchTimeout time.Duration
	Now          func() time.Time
	Metrics      metrics.Recorder
}

type Orchestrator struct {
	idp          identity.IdentityProvider
	decoder      identity.Decoder
	bootstrapper calendarapi.Bootstrapper
	opts         Options

	mu        sync.Mutex
	session   Session
	events    []calendarapi.CalendarEvent
	errMsg    string
	fetch     FetchState
	fetchedAt time.Time
	client    ClientState
	task      *calendarapi.Task
	lister    calendarapi.EventsLister
	creds     calendarapi.Credentials
	// generation changes whenever the signed-in user changes so late completions
	// of an earlier session are dropped.
	generation uint64
}

func New(idp identity.IdentityProvider, decoder identity.Decoder, bootstrapper calendarapi.Bootstrapper, opts Options) *Orchestrator {
	if opts.Anchor == "" {
		opts.Anchor = DefaultAnchor
	}
	if opts.Button == (identity.ButtonOptions{}) {
		opts.Button = identity.DefaultButtonOptions
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Metrics == nil {
		opts.Metrics = (*metrics.Metrics)(nil)
	}
	return &Orchestrator{
		idp:          idp,
		decoder:      decoder,
		bootstrapper: bootstrapper,
		opts:         opts,
	}
}

// Initialize registers the credential callback with the widget and, while signed out,
// renders the sign-in button and asks for the one-tap prompt.
func (o *Orchestrator) Initialize() {
	o.idp.Initialize(o.opts.ClientID, o.OnCredential)

	o.mu.Lock()
	signedIn := o.session.SignedIn
	o.mu.Unlock()
	if signedIn {
		return
	}
	o.idp.RenderButton(o.opts.Anchor, o.opts.Button)
	o.idp.Prompt()
}

// OnCredential decodes an identity token, signs the session in and starts the client bootstrap.
// A token that fails to decode leaves the session untouched.
func (o *Orchestrator) OnCredential(ctx context.Context, credential string) error {
	claims, err := o.decoder.Decode(ctx, credential)
	if err != nil {
		o.opts.Metrics.SignIn(metrics.OutcomeFailure)
		log.Warn().Err(err).Msg("Rejected identity credential")
		return errors.Wrapf(err, "[Orchestrator OnCredential]")
	}

	o.mu.Lock()
	// The same user signing in again keeps their events and any fetch in flight.
	if !o.session.SignedIn || o.session.UserEmail != claims.Email {
		o.events = nil
		o.fetchedAt = time.Time{}
		o.fetch = FetchIdle
		o.generation++
	} else if o.fetch == FetchFailed {
		o.fetch = FetchIdle
	}
	o.session = Session{SignedIn: true, UserEmail: claims.Email, Verified: o.decoder.Verified()}
	o.errMsg = ""
	task := o.startBootstrapLocked(ctx)
	o.mu.Unlock()

	o.opts.Metrics.SignIn(metrics.OutcomeSuccess)
	log.Info().Str("email", claims.Email).Bool("verified", o.decoder.Verified()).Msg("Signed in")
	go o.awaitBootstrap(task)
	return nil
}

// SetCalendarToken supplies a consented OAuth token. A signed-in session re-bootstraps its
// client with it.
func (o *Orchestrator) SetCalendarToken(ctx context.Context, ts oauth2.TokenSource) {
	o.mu.Lock()
	o.creds = calendarapi.Credentials{TokenSource: ts}
	if !o.session.SignedIn {
		o.mu.Unlock()
		return
	}
	task := o.startBootstrapLocked(ctx)
	o.mu.Unlock()
	go o.awaitBootstrap(task)
}

func (o *Orchestrator) startBootstrapLocked(ctx context.Context) *calendarapi.Task {
	o.client = ClientBootstrapping
	o.lister = nil
	// The bootstrap outlives the request that triggered it.
	o.task = o.bootstrapper.Start(context.WithoutCancel(ctx), o.creds)
	return o.task
}

func (o *Orchestrator) awaitBootstrap(task *calendarapi.Task) {
	lister, err := task.Wait(context.Background())
	o.completeBootstrap(task, lister, err)
}

func (o *Orchestrator) completeBootstrap(task *calendarapi.Task, lister calendarapi.EventsLister, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.task != task || o.client != ClientBootstrapping {
		return
	}
	if err != nil {
		o.client = ClientFailed
		o.errMsg = fmt.Sprintf("Error initializing calendar client: %v", err)
		o.opts.Metrics.Bootstrap(metrics.OutcomeFailure)
		log.Err(err).Msg("Calendar client bootstrap failed")
		return
	}
	o.client = ClientReady
	o.lister = lister
	o.opts.Metrics.Bootstrap(metrics.OutcomeSuccess)
	log.Debug().Str("email", o.session.UserEmail).Msg("Calendar client ready")
}

// WaitReady blocks until the current bootstrap finishes or ctx is done.
func (o *Orchestrator) WaitReady(ctx context.Context) error {
	o.mu.Lock()
	task := o.task
	o.mu.Unlock()
	if task == nil {
		return errors.ErrNotSignedIn
	}

	lister, err := task.Wait(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	o.completeBootstrap(task, lister, err)

	o.mu.Lock()
	defer o.mu.Unlock()
	switch {
	case o.task != task:
		return errors.ErrNotSignedIn
	case o.client == ClientReady:
		return nil
	default:
		return err
	}
}

// SignOut clears the session and its events and stops the widget from silently signing
// the user back in. Calling it while signed out is a no-op apart from the widget calls.
func (o *Orchestrator) SignOut() {
	o.mu.Lock()
	wasSignedIn := o.session.SignedIn
	o.session = Session{}
	o.events = nil
	o.errMsg = ""
	o.fetch = FetchIdle
	o.fetchedAt = time.Time{}
	o.client = ClientNotStarted
	o.task = nil
	o.lister = nil
	o.creds = calendarapi.Credentials{}
	o.generation++
	o.mu.Unlock()

	o.idp.DisableAutoSelect()
	if wasSignedIn {
		o.opts.Metrics.SignOut()
		log.Info().Msg("Signed out")
	}
	o.Initialize()
}

// FetchEvents lists the next upcoming events of the signed-in user's calendar. Only one
// fetch runs at a time per session. Loading is cleared on every exit path.
func (o *Orchestrator) FetchEvents(ctx context.Context) (err error) {
	o.mu.Lock()
	switch {
	case !o.session.SignedIn:
		o.mu.Unlock()
		o.opts.Metrics.Fetch(metrics.OutcomeRejected, 0)
		return errors.ErrNotSignedIn
	case o.fetch == FetchLoading:
		o.mu.Unlock()
		o.opts.Metrics.Fetch(metrics.OutcomeRejected, 0)
		return errors.ErrFetchInProgress
	case o.client != ClientReady || o.lister == nil:
		o.mu.Unlock()
		o.opts.Metrics.Fetch(metrics.OutcomeRejected, 0)
		return errors.ErrClientNotReady
	}
	o.fetch = FetchLoading
	o.errMsg = ""
	lister := o.lister
	email := o.session.UserEmail
	generation := o.generation
	o.mu.Unlock()

	started := o.opts.Now()
	var (
		events    []calendarapi.CalendarEvent
		completed bool
	)
	defer func() {
		if !completed && err == nil {
			err = fmt.Errorf("%w: aborted", errors.ErrFetchFailed)
		}
		err = o.finishFetch(generation, events, err, started)
	}()

	if o.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.FetchTimeout)
		defer cancel()
	}

	resp, err := lister.ListUpcoming(ctx, calendarapi.UpcomingQuery(email, started))
	if err == nil {
		if resp == nil || resp.Status != 200 || !resp.ItemsPresent {
			err = errors.ErrFetchFailed
		} else {
			events, err = calendarapi.MapEvents(resp.Items)
		}
	}
	completed = true
	return err
}

func (o *Orchestrator) finishFetch(generation uint64, events []calendarapi.CalendarEvent, err error, started time.Time) error {
	elapsed := o.opts.Now().Sub(started).Seconds()

	o.mu.Lock()
	defer o.mu.Unlock()
	if generation != o.generation {
		if o.session.SignedIn {
			return errors.ErrFetchSuperseded
		}
		return errors.ErrNotSignedIn
	}
	if err != nil {
		o.fetch = FetchFailed
		o.errMsg = fmt.Sprintf("Error fetching events: %v", err)
		o.opts.Metrics.Fetch(metrics.OutcomeFailure, elapsed)
		log.Err(err).Str("email", o.session.UserEmail).Msg("Error fetching events")
		return errors.Wrapf(err, "[Orchestrator FetchEvents]")
	}
	o.events = events
	o.fetch = FetchReady
	o.fetchedAt = started
	o.opts.Metrics.Fetch(metrics.OutcomeSuccess, elapsed)
	log.Debug().Int("count", len(events)).Msg("Fetched events")
	return nil
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	events := make([]calendarapi.CalendarEvent, len(o.events))
	copy(events, o.events)
	return Snapshot{
		Session:      o.session,
		Events:       events,
		Loading:      o.fetch == FetchLoading,
		ErrorMessage: o.errMsg,
		FetchState:   o.fetch,
		ClientState:  o.client,
		FetchedAt:    o.fetchedAt,
	}
}
