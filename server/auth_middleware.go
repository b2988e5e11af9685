package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-calendar-viewer/internal/errors"
	"github.com/jrsteele09/go-calendar-viewer/server/loginsession"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the browser's *loginsession.Session
	ContextKeySession ContextKey = "session"
)

// RequireSession loads the browser session from its cookie and injects it into the request
// context. Requests without a live session go to onMissing instead.
func (s *Server) RequireSession(onMissing http.HandlerFunc) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			session, err := s.lookupSession(r)
			if err != nil {
				onMissing(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireSignedIn is RequireSession for routes that also need a signed-in user.
func (s *Server) RequireSignedIn(onMissing http.HandlerFunc) func(http.HandlerFunc) http.HandlerFunc {
	requireSession := s.RequireSession(onMissing)
	return func(next http.HandlerFunc) http.HandlerFunc {
		return requireSession(func(w http.ResponseWriter, r *http.Request) {
			if !SessionFromContext(r.Context()).Orchestrator.Snapshot().SignedIn {
				onMissing(w, r)
				return
			}
			next(w, r)
		})
	}
}

// SessionFromContext returns the session injected by RequireSession, or nil.
func SessionFromContext(ctx context.Context) *loginsession.Session {
	session, _ := ctx.Value(ContextKeySession).(*loginsession.Session)
	return session
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, RouteIndex, http.StatusSeeOther)
}

func notSignedInText(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "Not signed in", http.StatusUnauthorized)
}

func notSignedInJSON(w http.ResponseWriter, _ *http.Request) {
	writeJSONError(w, "not_signed_in", errors.ErrNotSignedIn.Error(), http.StatusUnauthorized)
}

func signInFirst(w http.ResponseWriter, r *http.Request) {
	redirectWithError(w, r, RouteIndex, "Sign in before connecting your calendar")
}
