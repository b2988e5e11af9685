package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-calendar-viewer/calendarapi"
	"github.com/jrsteele09/go-calendar-viewer/identity"
	"github.com/jrsteele09/go-calendar-viewer/internal/config"
	"github.com/jrsteele09/go-calendar-viewer/internal/metrics"
	"github.com/jrsteele09/go-calendar-viewer/server/authflowrepo"
	"github.com/jrsteele09/go-calendar-viewer/server/loginsession"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Deps are the collaborators the server cannot build from config alone.
type Deps struct {
	Decoder      identity.Decoder
	Bootstrapper calendarapi.Bootstrapper
	Metrics      *metrics.Metrics

	// Optional. In-memory repositories are used when nil.
	LoginSessions loginsession.Repo
	AuthFlows     authflowrepo.Repo
	// ConsentEndpoint overrides Google's OAuth2 endpoint for the calendar consent flow.
	ConsentEndpoint *oauth2.Endpoint
	Now             func() time.Time
	// Location is the zone the agenda is laid out in. Defaults to time.Local.
	Location *time.Location
}

type Server struct {
	env          string // Environment (e.g., "DEV", "PROD")
	mux          *http.ServeMux
	routes       []string
	config       config.Config
	decoder      identity.Decoder
	bootstrapper calendarapi.Bootstrapper
	metrics      *metrics.Metrics
	sessions     loginsession.Repo
	authFlows    authflowrepo.Repo
	consent      *oauth2.Config // nil when no client secret is configured
	now          func() time.Time
	location     *time.Location
}

func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Decoder == nil {
		return nil, fmt.Errorf("[Server New] a credential decoder is required")
	}
	if deps.Bootstrapper == nil {
		return nil, fmt.Errorf("[Server New] a calendar client bootstrapper is required")
	}

	s := &Server{
		env:          cfg.GetEnv(),
		mux:          http.NewServeMux(),
		config:       cfg,
		decoder:      deps.Decoder,
		bootstrapper: deps.Bootstrapper,
		metrics:      deps.Metrics,
		sessions:     deps.LoginSessions,
		authFlows:    deps.AuthFlows,
		now:          deps.Now,
		location:     deps.Location,
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.sessions == nil {
		s.sessions = loginsession.NewInMemoryLoginSessionRepo()
	}
	if s.authFlows == nil {
		s.authFlows = authflowrepo.NewInMemoryRepo(10 * time.Minute)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.location == nil {
		s.location = time.Local
	}
	s.consent = newConsentConfig(cfg, deps.ConsentEndpoint)

	s.checkConfiguration()
	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// RunJanitor drops idle browser sessions every interval until ctx is done.
func (s *Server) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.DeleteIdleSince(s.now().Add(-s.config.GetMaxSessionAge())); n > 0 {
				log.Debug().Int("removed", n).Msg("Expired idle sessions")
			}
		}
	}
}

// checkConfiguration warns about settings whose absence only shows up downstream.
func (s *Server) checkConfiguration() {
	if s.config.GetGoogleClientID() == "" {
		log.Warn().Msg("GOOGLE_CLIENT_ID is not set; the sign-in widget will not load")
	}
	if s.config.GetGoogleAPIKey() == "" {
		log.Warn().Msg("GOOGLE_CLIENT_API_KEY is not set; calendar requests will be unauthenticated")
	}
	if !s.decoder.Verified() {
		log.Warn().Msg("Identity tokens are decoded WITHOUT signature verification; the signed-in email is not authenticated")
	}
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
