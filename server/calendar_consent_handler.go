package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-calendar-viewer/calendarapi"
	"github.com/jrsteele09/go-calendar-viewer/internal/config"
	"github.com/jrsteele09/go-calendar-viewer/server/authflowrepo"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// newConsentConfig returns the OAuth2 client for calendar consent, or nil when no client
// secret is configured.
func newConsentConfig(cfg config.Config, endpoint *oauth2.Endpoint) *oauth2.Config {
	if cfg.GetGoogleClientID() == "" || cfg.GetGoogleClientSecret() == "" {
		return nil
	}
	ep := google.Endpoint
	if endpoint != nil {
		ep = *endpoint
	}
	return &oauth2.Config{
		ClientID:     cfg.GetGoogleClientID(),
		ClientSecret: cfg.GetGoogleClientSecret(),
		Endpoint:     ep,
		RedirectURL:  cfg.GetBaseURL() + RouteCalendarCallback,
		Scopes:       []string{calendarapi.ReadOnlyScope},
	}
}

// CalendarConnectHandler starts the consent redirect for read-only calendar access
func (s *Server) CalendarConnectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.consent == nil {
			http.Error(w, "Calendar consent is not configured", http.StatusNotFound)
			return
		}
		session := SessionFromContext(r.Context())

		state := generateRandomString(32)
		verifier := oauth2.GenerateVerifier()
		if err := s.authFlows.Upsert(state, &authflowrepo.AuthFlowState{
			SessionID:    session.ID,
			CodeVerifier: verifier,
			ReturnURL:    RouteIndex,
			CreatedAt:    s.now(),
		}); err != nil {
			http.Error(w, "Failed to store consent state", http.StatusInternalServerError)
			return
		}

		authURL := s.consent.AuthCodeURL(state,
			oauth2.AccessTypeOnline,
			oauth2.S256ChallengeOption(verifier),
			oauth2.SetAuthURLParam("login_hint", session.Orchestrator.Snapshot().UserEmail),
		)
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// CalendarCallbackHandler completes the consent redirect and hands the token to the
// session's next client bootstrap
func (s *Server) CalendarCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.consent == nil {
			http.Error(w, "Calendar consent is not configured", http.StatusNotFound)
			return
		}

		state := r.FormValue("state")
		code := r.FormValue("code")
		if errorParam := r.FormValue("error"); errorParam != "" {
			redirectWithError(w, r, RouteIndex, "Calendar access was not granted: "+errorParam)
			return
		}
		if code == "" || state == "" {
			http.Error(w, "Missing code or state parameter", http.StatusBadRequest)
			return
		}

		authState, err := s.authFlows.Get(state)
		if err != nil {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}
		// Single use
		_ = s.authFlows.Delete(state)

		session, err := s.lookupSession(r)
		if err != nil || session.ID != authState.SessionID {
			http.Error(w, "Consent does not belong to this session", http.StatusBadRequest)
			return
		}

		token, err := s.consent.Exchange(r.Context(), code, oauth2.VerifierOption(authState.CodeVerifier))
		if err != nil {
			log.Err(err).Msg("Calendar consent token exchange failed")
			redirectWithError(w, r, RouteIndex, "Failed to connect calendar")
			return
		}

		ts := s.consent.TokenSource(context.Background(), token)
		session.Orchestrator.SetCalendarToken(r.Context(), ts)
		log.Info().Str("email", session.Orchestrator.Snapshot().UserEmail).Msg("Calendar access granted")

		http.Redirect(w, r, authState.ReturnURL, http.StatusSeeOther)
	}
}
