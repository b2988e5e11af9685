package loginsession

import (
	"time"

	"github.com/jrsteele09/go-calendar-viewer/identity"
	"github.com/jrsteele09/go-calendar-viewer/orchestrator"
)

// Session binds a browser cookie to its sign-in widget state and orchestrator.
type Session struct {
	ID           string
	Identity     *identity.GoogleIdentity
	Orchestrator *orchestrator.Orchestrator

	CreatedAt time.Time
	LastSeen  time.Time
}

type Repo interface {
	Upsert(sessionID string, session *Session) error
	Get(sessionID string) (*Session, error)
	// TouchActive records activity at now and returns the session, or deletes it and returns
	// ErrSessionExpired when it was last seen more than maxAge before now.
	TouchActive(sessionID string, now time.Time, maxAge time.Duration) (*Session, error)
	Delete(sessionID string) error
	// DeleteIdleSince removes sessions last seen before cutoff and returns how many went.
	DeleteIdleSince(cutoff time.Time) int
}
