package server

import (
	"context"
	"html/template"
	"net/http"

	"github.com/jrsteele09/go-calendar-viewer/identity"
	"github.com/jrsteele09/go-calendar-viewer/internal/errors"
	"github.com/jrsteele09/go-calendar-viewer/orchestrator"
	"github.com/jrsteele09/go-calendar-viewer/server/loginsession"
	"github.com/rs/zerolog/log"
)

// IndexPageData contains data for rendering the calendar page
type IndexPageData struct {
	AppName        string
	Error          string
	Widget         identity.Widget
	Snapshot       orchestrator.Snapshot
	Agenda         []DayView
	ConsentEnabled bool
}

// IndexHandler renders the calendar page for the browser's session
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl := s.mustParseIndex()

	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.ensureSession(w, r)
		if err != nil {
			http.Error(w, "Failed to start session", http.StatusInternalServerError)
			return
		}
		s.renderIndex(w, tmpl, session, http.StatusOK, r.URL.Query().Get("error"))
	}
}

func (s *Server) mustParseIndex() *template.Template {
	tmpl, err := ParseTemplate("index.html")
	if err != nil {
		panic("Failed to parse index template: " + err.Error())
	}
	return tmpl
}

func (s *Server) renderIndex(w http.ResponseWriter, tmpl *template.Template, session *loginsession.Session, status int, errMsg string) {
	snap := session.Orchestrator.Snapshot()
	if errMsg == "" {
		errMsg = snap.ErrorMessage
	}
	data := IndexPageData{
		AppName:        s.config.GetAppName(),
		Error:          errMsg,
		Widget:         session.Identity.Widget(),
		Snapshot:       snap,
		Agenda:         buildAgenda(snap.Events, s.now(), s.location),
		ConsentEnabled: s.consent != nil,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		log.Err(err).Msg("Failed to render index page")
	}
}

// CredentialHandler is the identity widget's login URI. The widget posts the ID token
// as "credential" alongside a g_csrf_token value that must match the cookie of the same name.
func (s *Server) CredentialHandler() http.HandlerFunc {
	tmpl := s.mustParseIndex()

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		csrfCookie, err := r.Cookie(csrfCookieName)
		if err != nil || csrfCookie.Value == "" {
			http.Error(w, "Missing CSRF cookie", http.StatusBadRequest)
			return
		}
		if r.PostFormValue(csrfCookieName) != csrfCookie.Value {
			http.Error(w, "Failed to verify double submit cookie", http.StatusBadRequest)
			return
		}

		credential := r.PostFormValue("credential")
		if credential == "" {
			http.Error(w, "Missing credential", http.StatusBadRequest)
			return
		}

		// The widget posts cross-site, so the Lax session cookie may be absent and a
		// fresh session is started here.
		session, err := s.ensureSession(w, r)
		if err != nil {
			http.Error(w, "Failed to start session", http.StatusInternalServerError)
			return
		}

		if err := session.Identity.Deliver(r.Context(), credential); err != nil {
			status, msg := credentialFailure(err)
			s.renderIndex(w, tmpl, session, status, msg)
			return
		}

		http.Redirect(w, r, RouteIndex, http.StatusSeeOther)
	}
}

func credentialFailure(err error) (int, string) {
	switch {
	case errors.Is(err, errors.ErrInvalidCredential):
		return http.StatusBadRequest, "Sign-in failed: the credential could not be verified"
	case errors.Is(err, errors.ErrMalformedCredential):
		return http.StatusBadRequest, "Sign-in failed: the credential could not be read"
	case errors.Is(err, identity.ErrNotInitialized):
		return http.StatusInternalServerError, "Sign-in failed: the sign-in widget is not initialized"
	default:
		return http.StatusBadRequest, "Sign-in failed"
	}
}

// SignOutHandler signs the session out and forgets the browser cookie
func (s *Server) SignOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.lookupSession(r)
		if err == nil {
			session.Orchestrator.SignOut()
			_ = s.sessions.Delete(session.ID)
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   getScheme(r) == "https",
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
		http.Redirect(w, r, RouteIndex, http.StatusSeeOther)
	}
}

// FetchEventsHandler runs a fetch for the page's Fetch button and redirects back. Failures
// are recorded on the session and shown by the page.
func (s *Server) FetchEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := SessionFromContext(r.Context())
		if err := s.fetchEvents(r.Context(), session); err != nil {
			switch {
			case errors.Is(err, errors.ErrFetchInProgress):
				redirectWithError(w, r, RouteIndex, "A fetch is already in progress")
				return
			case errors.Is(err, errors.ErrClientNotReady):
				redirectWithError(w, r, RouteIndex, "The calendar client is not ready yet")
				return
			}
			log.Debug().Err(err).Msg("Fetch from page failed")
		}
		http.Redirect(w, r, RouteIndex, http.StatusSeeOther)
	}
}

// fetchEvents gives a bootstrapping client up to the bootstrap timeout before fetching.
func (s *Server) fetchEvents(ctx context.Context, session *loginsession.Session) error {
	snap := session.Orchestrator.Snapshot()
	if snap.SignedIn && snap.ClientState == orchestrator.ClientBootstrapping {
		waitCtx, cancel := context.WithTimeout(ctx, s.config.GetBootstrapTimeout())
		err := session.Orchestrator.WaitReady(waitCtx)
		cancel()
		if err != nil {
			log.Debug().Err(err).Msg("Calendar client not ready for fetch")
		}
	}
	return session.Orchestrator.FetchEvents(ctx)
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
