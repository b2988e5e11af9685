package server

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-calendar-viewer/identity"
	"github.com/jrsteele09/go-calendar-viewer/internal/errors"
	"github.com/jrsteele09/go-calendar-viewer/orchestrator"
	"github.com/jrsteele09/go-calendar-viewer/server/loginsession"
	"github.com/rs/zerolog/log"
)

const (
	// sessionCookieName is the browser session cookie; one orchestrator per value.
	sessionCookieName = "calendar_session_id"
	// csrfCookieName is the double-submit cookie the identity widget sets before posting.
	csrfCookieName = "g_csrf_token"
)

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func (s *Server) SetSessionCookie(w http.ResponseWriter, sessionID string, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetMaxSessionAge().Seconds()),
	})
}

// lookupSession returns the browser's session without creating one.
func (s *Server) lookupSession(r *http.Request) (*loginsession.Session, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, errors.ErrSessionNotFound
	}
	return s.sessions.TouchActive(cookie.Value, s.now(), s.config.GetMaxSessionAge())
}

// ensureSession returns the browser's session, starting a fresh signed-out one when the
// cookie is missing, unknown or expired.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) (*loginsession.Session, error) {
	session, err := s.lookupSession(r)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, errors.ErrSessionNotFound) && !errors.Is(err, errors.ErrSessionExpired) {
		return nil, err
	}

	session = s.newSession()
	if err := s.sessions.Upsert(session.ID, session); err != nil {
		return nil, err
	}
	s.SetSessionCookie(w, session.ID, r)
	log.Debug().Str("session", session.ID).Msg("Started browser session")
	return session, nil
}

func (s *Server) newSession() *loginsession.Session {
	now := s.now()
	idp := identity.NewGoogleIdentity(s.config.GetBaseURL() + RouteAuthCredential)
	orch := orchestrator.New(idp, s.decoder, s.bootstrapper, orchestrator.Options{
		ClientID:     s.config.GetGoogleClientID(),
		FetchTimeout: s.config.GetFetchTimeout(),
		Now:          s.now,
		Metrics:      s.metrics,
	})
	orch.Initialize()
	return &loginsession.Session{
		ID:           uuid.NewString(),
		Identity:     idp,
		Orchestrator: orch,
		CreatedAt:    now,
		LastSeen:     now,
	}
}

// redirectWithError sends the browser to path with a message the page shows in red.
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(errorMsg), http.StatusSeeOther)
}

