package orchestrator

import (
	"time"

	"github.com/jrsteele09/go-calendar-viewer/calendarapi"
)

// FetchState tracks the event listing of a session.
type FetchState int

const (
	FetchIdle FetchState = iota
	FetchLoading
	FetchReady
	FetchFailed
)

func (s FetchState) String() string {
	switch s {
	case FetchIdle:
		return "idle"
	case FetchLoading:
		return "loading"
	case FetchReady:
		return "ready"
	case FetchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ClientState tracks the Calendar API client bootstrap.
type ClientState int

const (
	ClientNotStarted ClientState = iota
	ClientBootstrapping
	ClientReady
	ClientFailed
)

func (s ClientState) String() string {
	switch s {
	case ClientNotStarted:
		return "not_started"
	case ClientBootstrapping:
		return "bootstrapping"
	case ClientReady:
		return "ready"
	case ClientFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is the signed-in identity.
type Session struct {
	SignedIn  bool   `json:"signedIn"`
	UserEmail string `json:"userEmail"`
	// Verified is false when the email came from an unverified token decode.
	Verified bool `json:"verified"`
}

// Snapshot is a consistent copy of everything the page renders.
type Snapshot struct {
	Session
	Events       []calendarapi.CalendarEvent `json:"events"`
	Loading      bool                        `json:"loading"`
	ErrorMessage string                      `json:"error,omitempty"`
	FetchState   FetchState                  `json:"-"`
	ClientState  ClientState                 `json:"-"`
	FetchedAt    time.Time                   `json:"fetchedAt,omitempty"`
}

// CanFetch reports whether the fetch action should be offered.
func (s Snapshot) CanFetch() bool {
	return s.SignedIn && s.ClientState == ClientReady && !s.Loading
}
